package attendance

import (
	"github.com/oopspresent/attendance-backend-go/internal/domain/attendance"
)

const (
	DefaultTheoryThreshold = 75.0
	DefaultLabThreshold    = 100.0
)

// DefaultPolicy flags theory below 75% and lab below 100%, including
// session types with nothing recorded yet.
func DefaultPolicy() attendance.Policy {
	return attendance.Policy{
		TheoryThreshold: DefaultTheoryThreshold,
		LabThreshold:    DefaultLabThreshold,
	}
}

// Percentage returns present/total as a percentage, or 0 when total is 0.
func Percentage(present, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(present) / float64(total) * 100
}

// BelowThreshold reports whether one session type is flagged. Comparison is
// strict; with SuppressUnrecorded a counter with nothing recorded never is.
func BelowThreshold(c attendance.Counter, threshold float64, policy attendance.Policy) bool {
	if policy.SuppressUnrecorded && c.Total == 0 {
		return false
	}
	return Percentage(c.Present, c.Total) < threshold
}

// ClassifyDefaulters returns an entry for every subject below at least one
// threshold. Comparison is strict: a subject exactly at the threshold passes.
func ClassifyDefaulters(stats attendance.SemesterStats, policy attendance.Policy) map[string]attendance.DefaulterEntry {
	defaulters := make(map[string]attendance.DefaulterEntry)

	for subject, stat := range stats {
		theoryPct := Percentage(stat.Theory.Present, stat.Theory.Total)
		labPct := Percentage(stat.Lab.Present, stat.Lab.Total)

		theoryBelow := BelowThreshold(stat.Theory, policy.TheoryThreshold, policy)
		labBelow := BelowThreshold(stat.Lab, policy.LabThreshold, policy)

		if !theoryBelow && !labBelow {
			continue
		}

		defaulters[subject] = attendance.DefaulterEntry{
			Subject:              subject,
			TheoryBelowThreshold: theoryBelow,
			LabBelowThreshold:    labBelow,
			TheoryPercentage:     theoryPct,
			LabPercentage:        labPct,
			TheoryTotal:          stat.Theory.Total,
			LabTotal:             stat.Lab.Total,
		}
	}

	return defaulters
}

// SortedDefaulters lists defaulter entries by subject name.
func SortedDefaulters(defaulters map[string]attendance.DefaulterEntry) []attendance.DefaulterEntry {
	entries := make([]attendance.DefaulterEntry, 0, len(defaulters))
	for _, subject := range sortedKeys(defaulters) {
		entries = append(entries, defaulters[subject])
	}
	return entries
}

// OverallFrom sums every defined session across subjects.
func OverallFrom(stats attendance.SemesterStats) attendance.Overall {
	var overall attendance.Overall
	for _, stat := range stats {
		overall.Present += stat.Theory.Present + stat.Lab.Present
		overall.Total += stat.Theory.Total + stat.Lab.Total
	}
	overall.Absent = overall.Total - overall.Present
	overall.Percentage = Percentage(overall.Present, overall.Total)
	return overall
}
