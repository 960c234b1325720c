package attendance

import (
	"fmt"
	"time"

	"github.com/oopspresent/attendance-backend-go/internal/domain/timetable"
	"github.com/oopspresent/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// MARKING DTOs
// ========================================

type MarkAttendanceRequest struct {
	Date    string                   `json:"-"`
	Name    *string                  `json:"name,omitempty"`
	Records map[string]SessionRecord `json:"records"`
}

func (r *MarkAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}

	for subject, record := range r.Records {
		if validator.IsEmpty(subject) {
			errs = append(errs, validator.ValidationError{
				Field:   "records",
				Message: "subject name must not be empty",
			})
			continue
		}
		if record.Theory != StatusUnset && !record.Theory.IsDefined() {
			errs = append(errs, validator.ValidationError{
				Field:   fmt.Sprintf("records.%s.theory", subject),
				Message: "theory must be Present, Absent or empty",
			})
		}
		if record.Lab != StatusUnset && !record.Lab.IsDefined() {
			errs = append(errs, validator.ValidationError{
				Field:   fmt.Sprintf("records.%s.lab", subject),
				Message: "lab must be Present, Absent or empty",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// DaySubject is a scheduled subject with the statuses stored for the day.
// Statuses of sessions that are not scheduled are always empty.
type DaySubject struct {
	Subject string                `json:"subject"`
	Type    timetable.SessionType `json:"type"`
	Theory  Status                `json:"theory"`
	Lab     Status                `json:"lab"`
}

type DayAttendanceResponse struct {
	Date     string       `json:"date"`
	Weekday  string       `json:"weekday"`
	Division string       `json:"division"`
	Batch    string       `json:"batch"`
	Subjects []DaySubject `json:"subjects"`
}

// ========================================
// STATS DTOs
// ========================================

// Overall sums every defined session of the scheduled subjects.
type Overall struct {
	Present    int     `json:"present"`
	Absent     int     `json:"absent"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

type StatsResponse struct {
	SetupRequired bool                      `json:"setup_required"`
	Division      string                    `json:"division"`
	Batch         string                    `json:"batch"`
	Semester      SemesterStats             `json:"semester"`
	Monthly       MonthlyStats              `json:"monthly"`
	Defaulters    map[string]DefaulterEntry `json:"defaulters"`
	Warnings      []AggregationWarning      `json:"warnings"`
	Overall       Overall                   `json:"overall"`
	Policy        Policy                    `json:"policy"`
	LastUpdated   *time.Time                `json:"last_updated,omitempty"`
}

type DefaultersResponse struct {
	SetupRequired bool             `json:"setup_required"`
	Policy        Policy           `json:"policy"`
	Defaulters    []DefaulterEntry `json:"defaulters"`
}

type StreamTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
