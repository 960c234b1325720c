package profile

import (
	"context"
	"time"

	"github.com/oopspresent/attendance-backend-go/internal/domain/attendance"
)

// ProfileRepository stores profile documents. Every write touches only the
// fields it names; the document is never re-emitted as a whole.
type ProfileRepository interface {
	// Ensure creates the profile if it does not exist yet and returns the stored one
	Ensure(ctx context.Context, userID, email, name string) (Profile, error)

	GetByUserID(ctx context.Context, userID string) (Profile, error)

	// UpdateSettings sets division and batch and marks setup complete
	UpdateSettings(ctx context.Context, userID, division, batch string, at time.Time) error

	UpdateName(ctx context.Context, userID, name string, at time.Time) error

	// SetAttendanceDay replaces the record stored under one date key
	SetAttendanceDay(ctx context.Context, userID, date string, record attendance.DailyRecord, at time.Time) error
}
