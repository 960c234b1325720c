package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance marking and statistics
type AttendanceService interface {
	// GetDay returns the subjects scheduled on a date with their stored statuses
	GetDay(ctx context.Context, userID string, date string) (DayAttendanceResponse, error)

	// MarkDay overwrites the record of one date
	MarkDay(ctx context.Context, userID string, req MarkAttendanceRequest) (DayAttendanceResponse, error)

	// GetStats aggregates the whole log of the user
	GetStats(ctx context.Context, userID string) (StatsResponse, error)

	// Subscribe delivers the current stats, then fresh stats after every profile write.
	// No callback is admitted after the returned unsubscribe func has returned or ctx is done.
	// unsubscribe may be called from inside onStats and never waits for a running callback.
	Subscribe(ctx context.Context, userID string, onStats func(StatsResponse)) (unsubscribe func(), err error)
}
