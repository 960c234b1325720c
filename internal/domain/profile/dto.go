package profile

import (
	"time"

	"github.com/oopspresent/attendance-backend-go/internal/pkg/validator"
)

type ProfileResponse struct {
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Division      string    `json:"division"`
	Batch         string    `json:"batch"`
	SetupComplete bool      `json:"setup_complete"`
	TrackedDays   int       `json:"tracked_days"`
	LastUpdated   time.Time `json:"last_updated"`
}

func NewProfileResponse(p Profile) ProfileResponse {
	return ProfileResponse{
		UserID:        p.UserID,
		Name:          p.Name,
		Email:         p.Email,
		Division:      p.Division,
		Batch:         p.Batch,
		SetupComplete: p.SetupComplete,
		TrackedDays:   len(p.Attendance),
		LastUpdated:   p.LastUpdated,
	}
}

type UpdateSettingsRequest struct {
	Division string `json:"division"`
	Batch    string `json:"batch"`
}

func (r *UpdateSettingsRequest) Validate() error {
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

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateNameRequest struct {
	Name string `json:"name"`
}

func (r *UpdateNameRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	} else if len(r.Name) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 100 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
