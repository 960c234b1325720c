package attendance

import (
	"fmt"
	"sort"

	"github.com/oopspresent/attendance-backend-go/internal/domain/attendance"
	"github.com/oopspresent/attendance-backend-go/internal/pkg/validator"
)

// newSeed builds a zeroed stat entry for every scheduled subject.
func newSeed(subjects []string) attendance.SemesterStats {
	seed := make(attendance.SemesterStats, len(subjects))
	for _, subject := range subjects {
		seed[subject] = attendance.SubjectStat{}
	}
	return seed
}

// Aggregate folds the attendance log into semester totals and independent
// per-month totals for the scheduled subjects. It never mutates log and
// returns freshly allocated results on every call.
//
// Entries with a malformed date key are skipped and reported as warnings.
// Subjects outside scheduled are ignored.
func Aggregate(log attendance.Log, scheduled []string) attendance.Aggregation {
	result := attendance.Aggregation{
		Semester: newSeed(scheduled),
		Monthly:  make(attendance.MonthlyStats),
		Warnings: []attendance.AggregationWarning{},
	}

	for _, dateKey := range sortedKeys(log) {
		day, ok := validator.IsValidDate(dateKey)
		if !ok {
			result.Warnings = append(result.Warnings, attendance.AggregationWarning{
				DateKey: dateKey,
				Reason:  "date key is not a valid YYYY-MM-DD date",
			})
			continue
		}

		monthKey := day.Format(validator.MonthLayout)
		month, ok := result.Monthly[monthKey]
		if !ok {
			month = newSeed(scheduled)
			result.Monthly[monthKey] = month
		}

		daily := log[dateKey]
		for _, subject := range sortedKeys(daily) {
			semester, ok := result.Semester[subject]
			if !ok {
				continue
			}
			monthly := month[subject]
			record := daily[subject]

			if record.Theory.IsDefined() {
				count(&semester.Theory, record.Theory)
				count(&monthly.Theory, record.Theory)
			} else if record.Theory != attendance.StatusUnset {
				result.Warnings = append(result.Warnings, unknownStatus(dateKey, subject, "theory", record.Theory))
			}

			if record.Lab.IsDefined() {
				count(&semester.Lab, record.Lab)
				count(&monthly.Lab, record.Lab)
			} else if record.Lab != attendance.StatusUnset {
				result.Warnings = append(result.Warnings, unknownStatus(dateKey, subject, "lab", record.Lab))
			}

			result.Semester[subject] = semester
			month[subject] = monthly
		}
	}

	return result
}

func count(c *attendance.Counter, status attendance.Status) {
	c.Total++
	if status == attendance.StatusPresent {
		c.Present++
	}
}

func unknownStatus(dateKey, subject, session string, status attendance.Status) attendance.AggregationWarning {
	return attendance.AggregationWarning{
		DateKey: dateKey,
		Subject: subject,
		Reason:  fmt.Sprintf("unknown %s status %q", session, status),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
