package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oopspresent/attendance-backend-go/internal/domain/attendance"
	"github.com/oopspresent/attendance-backend-go/internal/domain/profile"
)

type profileRepositoryImpl struct {
	mu       sync.RWMutex
	profiles map[string]*profile.Profile
}

// NewProfileRepository returns a process-local profile store. Reads return
// deep copies, so callers always hold an immutable snapshot.
func NewProfileRepository() profile.ProfileRepository {
	return &profileRepositoryImpl{profiles: make(map[string]*profile.Profile)}
}

// Ensure implements profile.ProfileRepository.
func (r *profileRepositoryImpl) Ensure(ctx context.Context, userID, email, name string) (profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[userID]
	if !ok {
		now := time.Now().UTC()
		p = &profile.Profile{
			UserID:      userID,
			Name:        name,
			Email:       email,
			Attendance:  attendance.Log{},
			LastUpdated: now,
			CreatedAt:   now,
		}
		r.profiles[userID] = p
	}
	return clone(p), nil
}

// GetByUserID implements profile.ProfileRepository.
func (r *profileRepositoryImpl) GetByUserID(ctx context.Context, userID string) (profile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[userID]
	if !ok {
		return profile.Profile{}, profile.ErrProfileNotFound
	}
	return clone(p), nil
}

// UpdateSettings implements profile.ProfileRepository.
func (r *profileRepositoryImpl) UpdateSettings(ctx context.Context, userID, division, batch string, at time.Time) error {
	return r.update(userID, func(p *profile.Profile) {
		p.Division = division
		p.Batch = batch
		p.SetupComplete = true
		p.LastUpdated = at
	})
}

// UpdateName implements profile.ProfileRepository.
func (r *profileRepositoryImpl) UpdateName(ctx context.Context, userID, name string, at time.Time) error {
	return r.update(userID, func(p *profile.Profile) {
		p.Name = name
		p.LastUpdated = at
	})
}

// SetAttendanceDay implements profile.ProfileRepository.
func (r *profileRepositoryImpl) SetAttendanceDay(ctx context.Context, userID, date string, record attendance.DailyRecord, at time.Time) error {
	return r.update(userID, func(p *profile.Profile) {
		if p.Attendance == nil {
			p.Attendance = attendance.Log{}
		}
		p.Attendance[date] = cloneDay(record)
		p.LastUpdated = at
	})
}

func (r *profileRepositoryImpl) update(userID string, apply func(p *profile.Profile)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[userID]
	if !ok {
		return profile.ErrProfileNotFound
	}
	apply(p)
	return nil
}

func clone(p *profile.Profile) profile.Profile {
	out := *p
	out.Attendance = make(attendance.Log, len(p.Attendance))
	for date, day := range p.Attendance {
		out.Attendance[date] = cloneDay(day)
	}
	return out
}

func cloneDay(day attendance.DailyRecord) attendance.DailyRecord {
	out := make(attendance.DailyRecord, len(day))
	for subject, record := range day {
		out[subject] = record
	}
	return out
}
