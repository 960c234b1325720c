package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/oopspresent/attendance-backend-go/internal/domain/attendance"
	"github.com/oopspresent/attendance-backend-go/internal/domain/auth"
	"github.com/oopspresent/attendance-backend-go/internal/domain/profile"
	"github.com/oopspresent/attendance-backend-go/internal/domain/report"
	"github.com/oopspresent/attendance-backend-go/internal/pkg/database"
	"github.com/oopspresent/attendance-backend-go/internal/pkg/storage"
	"github.com/oopspresent/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Store failures are retryable by the client
	case errors.Is(err, database.ErrUnavailable):
		slog.Error("store unavailable", "error", err)
		StoreUnavailable(w, "Attendance store is unavailable, please retry")

	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrInvalidOAuthState):
		Unauthorized(w, "Invalid OAuth state")
	case errors.Is(err, auth.ErrEmailNotVerified):
		Forbidden(w, "Email not verified")
	case errors.Is(err, auth.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		Conflict(w, "Email already registered")

	// Profile domain errors
	case errors.Is(err, profile.ErrProfileNotFound):
		NotFound(w, "Profile not found")
	case errors.Is(err, profile.ErrInvalidDivision):
		ValidationError(w, map[string]string{"division": err.Error()})
	case errors.Is(err, profile.ErrInvalidBatch):
		ValidationError(w, map[string]string{"batch": err.Error()})

	// Attendance domain errors
	case errors.Is(err, attendance.ErrSetupRequired):
		SetupRequired(w, "Select your division and batch in settings first")
	case errors.Is(err, attendance.ErrSubjectNotScheduled):
		ValidationError(w, map[string]string{"records": err.Error()})
	case errors.Is(err, attendance.ErrSessionNotScheduled):
		ValidationError(w, map[string]string{"records": err.Error()})

	// Report domain errors
	case errors.Is(err, report.ErrUnsupportedFormat):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, storage.ErrFileNotFound):
		NotFound(w, "File not found")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
