package attendance

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/oopspresent/attendance-backend-go/internal/domain/attendance"
	"github.com/oopspresent/attendance-backend-go/internal/domain/profile"
	"github.com/oopspresent/attendance-backend-go/internal/domain/timetable"
	"github.com/oopspresent/attendance-backend-go/internal/pkg/sse"
	"github.com/oopspresent/attendance-backend-go/internal/pkg/validator"
	"github.com/oopspresent/attendance-backend-go/internal/repository/memory"
	timetableService "github.com/oopspresent/attendance-backend-go/internal/service/timetable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-01-10 is a Wednesday, 2024-01-11 a Thursday.
func testResolver() timetable.Resolver {
	return timetableService.NewResolver(timetable.Definition{
		Divisions: map[string]timetable.DivisionPlan{
			"A": {
				Theory: map[time.Weekday][]string{
					time.Wednesday: {"Math"},
					time.Thursday:  {"Physics"},
				},
				Batches: map[string]map[time.Weekday][]string{
					"A1": {time.Wednesday: {"Math", "Physics"}},
				},
			},
		},
	})
}

type fixture struct {
	svc  attendance.AttendanceService
	repo profile.ProfileRepository
	hub  *sse.Hub
}

func newFixture(t *testing.T, configured bool) fixture {
	t.Helper()
	ctx := context.Background()
	repo := memory.NewProfileRepository()
	_, err := repo.Ensure(ctx, "u1", "u1@example.com", "Student")
	require.NoError(t, err)
	if configured {
		require.NoError(t, repo.UpdateSettings(ctx, "u1", "A", "A1", time.Now()))
	}
	hub := sse.NewHub()
	return fixture{
		svc:  NewAttendanceService(memory.NewTransactor(), repo, testResolver(), hub, DefaultPolicy()),
		repo: repo,
		hub:  hub,
	}
}

func TestMarkDay_RequiresSetup(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.svc.MarkDay(context.Background(), "u1", attendance.MarkAttendanceRequest{
		Date:    "2024-01-10",
		Records: map[string]attendance.SessionRecord{"Math": {Theory: attendance.StatusPresent}},
	})
	assert.ErrorIs(t, err, attendance.ErrSetupRequired)

	_, err = f.svc.GetDay(context.Background(), "missing", "2024-01-10")
	assert.ErrorIs(t, err, attendance.ErrSetupRequired)
}

func TestMarkDay_Validation(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	cases := []struct {
		name    string
		req     attendance.MarkAttendanceRequest
		wantErr error
	}{
		{
			name: "bad date",
			req:  attendance.MarkAttendanceRequest{Date: "10-01-2024"},
		},
		{
			name: "bad status",
			req: attendance.MarkAttendanceRequest{
				Date:    "2024-01-10",
				Records: map[string]attendance.SessionRecord{"Math": {Theory: "Late"}},
			},
		},
		{
			name: "subject not scheduled that day",
			req: attendance.MarkAttendanceRequest{
				Date:    "2024-01-11",
				Records: map[string]attendance.SessionRecord{"Math": {Theory: attendance.StatusPresent}},
			},
			wantErr: attendance.ErrSubjectNotScheduled,
		},
		{
			name: "lab on a theory-only day",
			req: attendance.MarkAttendanceRequest{
				Date:    "2024-01-11",
				Records: map[string]attendance.SessionRecord{"Physics": {Lab: attendance.StatusPresent}},
			},
			wantErr: attendance.ErrSessionNotScheduled,
		},
		{
			name: "theory on a lab-only day",
			req: attendance.MarkAttendanceRequest{
				Date:    "2024-01-10",
				Records: map[string]attendance.SessionRecord{"Physics": {Theory: attendance.StatusPresent}},
			},
			wantErr: attendance.ErrSessionNotScheduled,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.MarkDay(ctx, "u1", tc.req)
			require.Error(t, err)
			if tc.wantErr == nil {
				var verr validator.ValidationErrors
				assert.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	p, err := f.repo.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, p.Attendance, "rejected requests must not write")
}

func TestMarkDay_OverwritesWholeDate(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.svc.MarkDay(ctx, "u1", attendance.MarkAttendanceRequest{
		Date: "2024-01-10",
		Records: map[string]attendance.SessionRecord{
			"Math":    {Theory: attendance.StatusPresent, Lab: attendance.StatusAbsent},
			"Physics": {Lab: attendance.StatusPresent},
		},
	})
	require.NoError(t, err)

	day, err := f.svc.MarkDay(ctx, "u1", attendance.MarkAttendanceRequest{
		Date: "2024-01-10",
		Records: map[string]attendance.SessionRecord{
			"Math":    {Theory: attendance.StatusAbsent},
			"Physics": {},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Wednesday", day.Weekday)
	assert.Equal(t, []attendance.DaySubject{
		{Subject: "Math", Type: timetable.SessionBoth, Theory: attendance.StatusAbsent},
		{Subject: "Physics", Type: timetable.SessionLab},
	}, day.Subjects)

	p, err := f.repo.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, attendance.DailyRecord{"Math": {Theory: attendance.StatusAbsent}}, p.Attendance["2024-01-10"])
}

func TestMarkDay_UpdatesName(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	name := "Renamed Student"

	_, err := f.svc.MarkDay(ctx, "u1", attendance.MarkAttendanceRequest{Date: "2024-01-10", Name: &name})
	require.NoError(t, err)

	p, err := f.repo.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, name, p.Name)
	assert.Contains(t, p.Attendance, "2024-01-10")
}

func TestGetDay_HidesDisabledSessions(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	// A stale value on a session that is not scheduled must not be shown.
	require.NoError(t, f.repo.SetAttendanceDay(ctx, "u1", "2024-01-11", attendance.DailyRecord{
		"Physics": {Theory: attendance.StatusPresent, Lab: attendance.StatusAbsent},
	}, time.Now()))

	day, err := f.svc.GetDay(ctx, "u1", "2024-01-11")
	require.NoError(t, err)
	assert.Equal(t, []attendance.DaySubject{
		{Subject: "Physics", Type: timetable.SessionTheory, Theory: attendance.StatusPresent},
	}, day.Subjects)

	sunday, err := f.svc.GetDay(ctx, "u1", "2024-01-14")
	require.NoError(t, err)
	assert.Empty(t, sunday.Subjects)
}

func TestGetStats(t *testing.T) {
	ctx := context.Background()

	t.Run("setup required", func(t *testing.T) {
		f := newFixture(t, false)
		stats, err := f.svc.GetStats(ctx, "u1")
		require.NoError(t, err)
		assert.True(t, stats.SetupRequired)
		assert.Empty(t, stats.Semester)

		missing, err := f.svc.GetStats(ctx, "nobody")
		require.NoError(t, err)
		assert.True(t, missing.SetupRequired)
	})

	t.Run("aggregates the log", func(t *testing.T) {
		f := newFixture(t, true)
		require.NoError(t, f.repo.SetAttendanceDay(ctx, "u1", "2024-01-10", attendance.DailyRecord{
			"Math":    {Theory: attendance.StatusAbsent},
			"Physics": {Lab: attendance.StatusPresent},
			"Old":     {Theory: attendance.StatusPresent},
		}, time.Now()))
		require.NoError(t, f.repo.SetAttendanceDay(ctx, "u1", "bad-key", attendance.DailyRecord{}, time.Now()))

		stats, err := f.svc.GetStats(ctx, "u1")
		require.NoError(t, err)

		assert.False(t, stats.SetupRequired)
		assert.Equal(t, []string{"Math", "Physics"}, sortedKeys(stats.Semester))
		assert.Equal(t, attendance.Counter{Present: 0, Total: 1}, stats.Semester["Math"].Theory)
		assert.Equal(t, attendance.Counter{Present: 1, Total: 1}, stats.Semester["Physics"].Lab)
		assert.Equal(t, []string{"2024-01"}, sortedKeys(stats.Monthly))
		assert.Contains(t, stats.Defaulters, "Math")
		assert.Len(t, stats.Warnings, 1)
		assert.Equal(t, attendance.Overall{Present: 1, Absent: 1, Total: 2, Percentage: 50}, stats.Overall)
		assert.Equal(t, DefaultPolicy(), stats.Policy)
	})
}

func TestSubscribe_DeliversCurrentThenUpdates(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	updates := make(chan attendance.StatsResponse, 10)
	unsubscribe, err := f.svc.Subscribe(ctx, "u1", func(stats attendance.StatsResponse) {
		updates <- stats
	})
	require.NoError(t, err)
	defer unsubscribe()

	initial := receive(t, updates)
	assert.Equal(t, 0, initial.Overall.Total)

	_, err = f.svc.MarkDay(ctx, "u1", attendance.MarkAttendanceRequest{
		Date:    "2024-01-10",
		Records: map[string]attendance.SessionRecord{"Math": {Theory: attendance.StatusPresent}},
	})
	require.NoError(t, err)

	updated := receive(t, updates)
	assert.Equal(t, attendance.Counter{Present: 1, Total: 1}, updated.Semester["Math"].Theory)
}

func TestSubscribe_NoCallbackAfterUnsubscribe(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	var (
		mu       sync.Mutex
		stopped  bool
		lateHits atomic.Int32
	)
	first := make(chan struct{}, 1)
	unsubscribe, err := f.svc.Subscribe(ctx, "u1", func(attendance.StatsResponse) {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			lateHits.Add(1)
		}
		select {
		case first <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)
	<-first

	unsubscribe()
	mu.Lock()
	stopped = true
	mu.Unlock()
	unsubscribe()

	for i := 0; i < 5; i++ {
		_, err = f.svc.MarkDay(ctx, "u1", attendance.MarkAttendanceRequest{Date: "2024-01-10"})
		require.NoError(t, err)
	}
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, int32(0), lateHits.Load())
	assert.Eventually(t, func() bool { return f.hub.SubscriberCount("u1") == 0 }, time.Second, 10*time.Millisecond)
}

func TestSubscribe_StopsWhenContextIsDone(t *testing.T) {
	f := newFixture(t, true)
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32
	_, err := f.svc.Subscribe(ctx, "u1", func(attendance.StatsResponse) { calls.Add(1) })
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	assert.Eventually(t, func() bool { return f.hub.SubscriberCount("u1") == 0 }, time.Second, 10*time.Millisecond)

	_, err = f.svc.MarkDay(context.Background(), "u1", attendance.MarkAttendanceRequest{Date: "2024-01-10"})
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func receive(t *testing.T, ch <-chan attendance.StatsResponse) attendance.StatsResponse {
	t.Helper()
	select {
	case stats := <-ch:
		return stats
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for stats")
		return attendance.StatsResponse{}
	}
}

func TestSubscribe_UnsubscribeFromInsideCallback(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	var (
		unsubscribe func()
		ready       = make(chan struct{})
		returned    = make(chan struct{})
		calls       atomic.Int32
	)
	var err error
	unsubscribe, err = f.svc.Subscribe(ctx, "u1", func(attendance.StatsResponse) {
		calls.Add(1)
		<-ready
		unsubscribe()
		close(returned)
	})
	require.NoError(t, err)
	close(ready)

	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("unsubscribe inside the callback did not return")
	}
	assert.Eventually(t, func() bool { return f.hub.SubscriberCount("u1") == 0 }, time.Second, 10*time.Millisecond)

	_, err = f.svc.MarkDay(ctx, "u1", attendance.MarkAttendanceRequest{Date: "2024-01-10"})
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

type stagedWritesKey struct{}

type stagedWrites struct {
	ops []func() error
}

// stagingTransactor applies writes made inside fn only when fn succeeds.
type stagingTransactor struct{}

func (stagingTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	staged := &stagedWrites{}
	if err := fn(context.WithValue(ctx, stagedWritesKey{}, staged)); err != nil {
		return err
	}
	for _, op := range staged.ops {
		if err := op(); err != nil {
			return err
		}
	}
	return nil
}

// nameFailingRepository stages attendance writes and fails every name update.
type nameFailingRepository struct {
	profile.ProfileRepository
	err error
}

func (r nameFailingRepository) SetAttendanceDay(ctx context.Context, userID, date string, record attendance.DailyRecord, at time.Time) error {
	staged, ok := ctx.Value(stagedWritesKey{}).(*stagedWrites)
	if !ok {
		return r.ProfileRepository.SetAttendanceDay(ctx, userID, date, record, at)
	}
	staged.ops = append(staged.ops, func() error {
		return r.ProfileRepository.SetAttendanceDay(context.Background(), userID, date, record, at)
	})
	return nil
}

func (r nameFailingRepository) UpdateName(ctx context.Context, userID, name string, at time.Time) error {
	return r.err
}

func TestMarkDay_NameFailureDiscardsAttendance(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	storeDown := errors.New("store down")
	svc := NewAttendanceService(stagingTransactor{}, nameFailingRepository{ProfileRepository: f.repo, err: storeDown}, testResolver(), f.hub, DefaultPolicy())

	events, release := f.hub.Subscribe("u1")
	defer release()

	name := "Renamed Student"
	_, err := svc.MarkDay(ctx, "u1", attendance.MarkAttendanceRequest{
		Date:    "2024-01-10",
		Name:    &name,
		Records: map[string]attendance.SessionRecord{"Math": {Theory: attendance.StatusPresent}},
	})
	require.ErrorIs(t, err, storeDown)

	p, err := f.repo.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.NotContains(t, p.Attendance, "2024-01-10")
	assert.Equal(t, "Student", p.Name)
	select {
	case event := <-events:
		t.Fatalf("unexpected snapshot published: %v", event.Event)
	default:
	}

	// without a name the staged write commits
	_, err = svc.MarkDay(ctx, "u1", attendance.MarkAttendanceRequest{
		Date:    "2024-01-10",
		Records: map[string]attendance.SessionRecord{"Math": {Theory: attendance.StatusPresent}},
	})
	require.NoError(t, err)
	p, err = f.repo.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, p.Attendance["2024-01-10"]["Math"].Theory)
}

func TestSubscribe_OpenStreamsAcrossUsers(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	_, err := f.repo.Ensure(ctx, "u2", "u2@example.com", "Other")
	require.NoError(t, err)
	require.NoError(t, f.repo.UpdateSettings(ctx, "u2", "A", "A1", time.Now()))

	noop := func(attendance.StatsResponse) {}
	stopFirst, err := f.svc.Subscribe(ctx, "u1", noop)
	require.NoError(t, err)
	stopSecond, err := f.svc.Subscribe(ctx, "u2", noop)
	require.NoError(t, err)

	assert.Equal(t, 2, f.hub.TotalSubscribers())

	stopFirst()
	assert.Eventually(t, func() bool { return f.hub.TotalSubscribers() == 1 }, time.Second, 10*time.Millisecond)
	stopSecond()
	assert.Eventually(t, func() bool { return f.hub.TotalSubscribers() == 0 }, time.Second, 10*time.Millisecond)
}
