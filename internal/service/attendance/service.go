package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oopspresent/attendance-backend-go/internal/domain/attendance"
	"github.com/oopspresent/attendance-backend-go/internal/domain/profile"
	"github.com/oopspresent/attendance-backend-go/internal/domain/timetable"
	"github.com/oopspresent/attendance-backend-go/internal/pkg/database"
	"github.com/oopspresent/attendance-backend-go/internal/pkg/sse"
	"github.com/oopspresent/attendance-backend-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	tx database.Transactor
	profile.ProfileRepository
	resolver timetable.Resolver
	hub      *sse.Hub
	policy   attendance.Policy
}

// GetDay implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetDay(ctx context.Context, userID string, date string) (attendance.DayAttendanceResponse, error) {
	day, ok := validator.IsValidDate(date)
	if !ok {
		return attendance.DayAttendanceResponse{}, validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}

	p, err := s.configuredProfile(ctx, userID)
	if err != nil {
		return attendance.DayAttendanceResponse{}, err
	}

	return s.dayResponse(p, date, day), nil
}

// MarkDay implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkDay(ctx context.Context, userID string, req attendance.MarkAttendanceRequest) (attendance.DayAttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DayAttendanceResponse{}, err
	}
	day, _ := validator.IsValidDate(req.Date)

	p, err := s.configuredProfile(ctx, userID)
	if err != nil {
		return attendance.DayAttendanceResponse{}, err
	}

	scheduled := make(map[string]timetable.SessionType)
	for _, subject := range s.resolver.SubjectsForDate(p.Division, p.Batch, day) {
		scheduled[subject.Subject] = subject.Type
	}

	record := make(attendance.DailyRecord)
	for subject, session := range req.Records {
		if session.IsEmpty() {
			continue
		}
		sessionType, ok := scheduled[subject]
		if !ok {
			return attendance.DayAttendanceResponse{}, fmt.Errorf("%w: %s on %s", attendance.ErrSubjectNotScheduled, subject, day.Weekday())
		}
		if session.Theory != attendance.StatusUnset && !sessionType.HasTheory() {
			return attendance.DayAttendanceResponse{}, fmt.Errorf("%w: %s has no theory on %s", attendance.ErrSessionNotScheduled, subject, day.Weekday())
		}
		if session.Lab != attendance.StatusUnset && !sessionType.HasLab() {
			return attendance.DayAttendanceResponse{}, fmt.Errorf("%w: %s has no lab on %s", attendance.ErrSessionNotScheduled, subject, day.Weekday())
		}
		record[subject] = session
	}

	now := time.Now().UTC()
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.ProfileRepository.SetAttendanceDay(ctx, userID, req.Date, record, now); err != nil {
			return fmt.Errorf("failed to save attendance: %w", err)
		}
		if req.Name != nil {
			if err := s.ProfileRepository.UpdateName(ctx, userID, *req.Name, now); err != nil {
				return fmt.Errorf("failed to update name: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return attendance.DayAttendanceResponse{}, err
	}

	updated, err := s.ProfileRepository.GetByUserID(ctx, userID)
	if err != nil {
		return attendance.DayAttendanceResponse{}, fmt.Errorf("failed to reload profile: %w", err)
	}
	s.hub.Publish(userID, sse.Event{
		UserID: userID,
		Event:  profile.EventProfileUpdated,
		Data:   updated,
	})

	slog.Info("attendance marked", "user_id", userID, "date", req.Date, "subjects", len(record))
	return s.dayResponse(updated, req.Date, day), nil
}

// GetStats implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetStats(ctx context.Context, userID string) (attendance.StatsResponse, error) {
	p, err := s.ProfileRepository.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return s.setupRequired(profile.Profile{}), nil
		}
		return attendance.StatsResponse{}, fmt.Errorf("failed to get profile: %w", err)
	}
	return s.statsFor(p), nil
}

// Subscribe implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Subscribe(ctx context.Context, userID string, onStats func(attendance.StatsResponse)) (func(), error) {
	// Subscribe before the first read so no write between the two is missed.
	events, release := s.hub.Subscribe(userID)

	current, err := s.GetStats(ctx, userID)
	if err != nil {
		release()
		return nil, err
	}
	slog.Debug("stats stream opened", "user_id", userID, "open_streams", s.hub.TotalSubscribers())

	sub := &subscription{onStats: onStats, stop: make(chan struct{})}

	go func() {
		defer func() {
			release()
			slog.Debug("stats stream closed", "user_id", userID, "open_streams", s.hub.TotalSubscribers())
		}()
		sub.deliver(current)
		for {
			select {
			case <-ctx.Done():
				sub.cancel()
				return
			case <-sub.stop:
				return
			case event, ok := <-events:
				if !ok {
					return
				}
				p, ok := event.Data.(profile.Profile)
				if event.Event != profile.EventProfileUpdated || !ok {
					continue
				}
				sub.deliver(s.statsFor(p))
			}
		}
	}()

	return sub.cancel, nil
}

// subscription gates callbacks on a stopped flag. The callback runs outside
// the lock so that cancel may be called from inside it.
type subscription struct {
	mu      sync.Mutex
	stopped bool
	onStats func(attendance.StatsResponse)

	stop     chan struct{}
	stopOnce sync.Once
}

func (s *subscription) deliver(stats attendance.StatsResponse) {
	s.mu.Lock()
	stopped := s.stopped
	s.mu.Unlock()
	if stopped {
		return
	}
	s.onStats(stats)
}

// cancel never waits for a running callback. A callback admitted before it
// returned may still run; none is admitted afterwards.
func (s *subscription) cancel() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *AttendanceServiceImpl) configuredProfile(ctx context.Context, userID string) (profile.Profile, error) {
	p, err := s.ProfileRepository.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return profile.Profile{}, attendance.ErrSetupRequired
		}
		return profile.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}
	if !s.resolver.IsConfigured(p.Division, p.Batch) {
		return profile.Profile{}, attendance.ErrSetupRequired
	}
	return p, nil
}

func (s *AttendanceServiceImpl) dayResponse(p profile.Profile, date string, day time.Time) attendance.DayAttendanceResponse {
	stored := p.Attendance[date]
	scheduled := s.resolver.SubjectsForDate(p.Division, p.Batch, day)

	subjects := make([]attendance.DaySubject, 0, len(scheduled))
	for _, subject := range scheduled {
		entry := attendance.DaySubject{Subject: subject.Subject, Type: subject.Type}
		record := stored[subject.Subject]
		if subject.Type.HasTheory() {
			entry.Theory = record.Theory
		}
		if subject.Type.HasLab() {
			entry.Lab = record.Lab
		}
		subjects = append(subjects, entry)
	}

	return attendance.DayAttendanceResponse{
		Date:     date,
		Weekday:  day.Weekday().String(),
		Division: p.Division,
		Batch:    p.Batch,
		Subjects: subjects,
	}
}

// statsFor aggregates one profile snapshot.
func (s *AttendanceServiceImpl) statsFor(p profile.Profile) attendance.StatsResponse {
	if !s.resolver.IsConfigured(p.Division, p.Batch) {
		return s.setupRequired(p)
	}

	agg := Aggregate(p.Attendance, s.resolver.AllSubjects(p.Division, p.Batch))
	for _, w := range agg.Warnings {
		slog.Warn("attendance entry skipped", "user_id", p.UserID, "date", w.DateKey, "subject", w.Subject, "reason", w.Reason)
	}

	lastUpdated := p.LastUpdated
	return attendance.StatsResponse{
		Division:    p.Division,
		Batch:       p.Batch,
		Semester:    agg.Semester,
		Monthly:     agg.Monthly,
		Defaulters:  ClassifyDefaulters(agg.Semester, s.policy),
		Warnings:    agg.Warnings,
		Overall:     OverallFrom(agg.Semester),
		Policy:      s.policy,
		LastUpdated: &lastUpdated,
	}
}

func (s *AttendanceServiceImpl) setupRequired(p profile.Profile) attendance.StatsResponse {
	return attendance.StatsResponse{
		SetupRequired: true,
		Division:      p.Division,
		Batch:         p.Batch,
		Semester:      attendance.SemesterStats{},
		Monthly:       attendance.MonthlyStats{},
		Defaulters:    map[string]attendance.DefaulterEntry{},
		Warnings:      []attendance.AggregationWarning{},
		Policy:        s.policy,
	}
}

func NewAttendanceService(
	tx database.Transactor,
	profileRepo profile.ProfileRepository,
	resolver timetable.Resolver,
	hub *sse.Hub,
	policy attendance.Policy,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:                tx,
		ProfileRepository: profileRepo,
		resolver:          resolver,
		hub:               hub,
		policy:            policy,
	}
}
