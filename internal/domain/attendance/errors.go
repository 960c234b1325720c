package attendance

import "errors"

// Attendance domain errors
var (
	ErrSetupRequired       = errors.New("division and batch must be configured first")
	ErrSubjectNotScheduled = errors.New("subject is not scheduled on this day")
	ErrSessionNotScheduled = errors.New("session is not scheduled for this subject on this day")
)
