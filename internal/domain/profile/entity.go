package profile

import (
	"time"

	"github.com/oopspresent/attendance-backend-go/internal/domain/attendance"
)

// EventProfileUpdated is published on the SSE hub with the fresh Profile as data
const EventProfileUpdated = "profile.updated"

// Profile is the per-user document holding settings and the attendance log
type Profile struct {
	UserID        string
	Name          string
	Email         string
	Division      string
	Batch         string
	SetupComplete bool
	Attendance    attendance.Log
	LastUpdated   time.Time
	CreatedAt     time.Time
}
