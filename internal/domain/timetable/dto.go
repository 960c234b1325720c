package timetable

import (
	"github.com/oopspresent/attendance-backend-go/internal/pkg/validator"
)

type DivisionOption struct {
	Division string   `json:"division"`
	Batches  []string `json:"batches"`
}

type OptionsResponse struct {
	Divisions []DivisionOption `json:"divisions"`
}

type DayRequest struct {
	Division string `json:"division"`
	Batch    string `json:"batch"`
	Day      string `json:"day"`
}

func (r *DayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Division) {
		errs = append(errs, validator.ValidationError{
			Field:   "division",
			Message: "division is required",
		})
	}
	if validator.IsEmpty(r.Batch) {
		errs = append(errs, validator.ValidationError{
			Field:   "batch",
			Message: "batch is required",
		})
	}
	if _, ok := validator.ParseWeekday(r.Day); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "day",
			Message: "day must be a weekday name such as Monday",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DayResponse struct {
	Division string             `json:"division"`
	Batch    string             `json:"batch"`
	Day      string             `json:"day"`
	Subjects []ScheduledSubject `json:"subjects"`
}
