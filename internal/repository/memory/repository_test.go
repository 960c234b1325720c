package memory

import (
	"context"
	"testing"
	"time"

	"github.com/oopspresent/attendance-backend-go/internal/domain/attendance"
	"github.com/oopspresent/attendance-backend-go/internal/domain/auth"
	"github.com/oopspresent/attendance-backend-go/internal/domain/profile"
	"github.com/oopspresent/attendance-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRepository_EnsureIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewProfileRepository()

	first, err := repo.Ensure(ctx, "u1", "u1@example.com", "First")
	require.NoError(t, err)
	assert.Equal(t, "First", first.Name)
	assert.False(t, first.SetupComplete)

	second, err := repo.Ensure(ctx, "u1", "u1@example.com", "Other")
	require.NoError(t, err)
	assert.Equal(t, "First", second.Name, "existing profile must not be overwritten")
}

func TestProfileRepository_MissingProfile(t *testing.T) {
	ctx := context.Background()
	repo := NewProfileRepository()

	_, err := repo.GetByUserID(ctx, "nobody")
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)

	err = repo.SetAttendanceDay(ctx, "nobody", "2024-01-10", attendance.DailyRecord{}, time.Now())
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)
	assert.ErrorIs(t, repo.UpdateSettings(ctx, "nobody", "A", "A1", time.Now()), profile.ErrProfileNotFound)
	assert.ErrorIs(t, repo.UpdateName(ctx, "nobody", "x", time.Now()), profile.ErrProfileNotFound)
}

func TestProfileRepository_PartialWrites(t *testing.T) {
	ctx := context.Background()
	repo := NewProfileRepository()
	_, err := repo.Ensure(ctx, "u1", "u1@example.com", "Student")
	require.NoError(t, err)

	at := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SetAttendanceDay(ctx, "u1", "2024-01-10", attendance.DailyRecord{
		"Math": {Theory: attendance.StatusPresent},
	}, at))
	require.NoError(t, repo.UpdateSettings(ctx, "u1", "A", "A1", at.Add(time.Hour)))
	require.NoError(t, repo.UpdateName(ctx, "u1", "Renamed", at.Add(2*time.Hour)))

	p, err := repo.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", p.Name)
	assert.Equal(t, "A", p.Division)
	assert.Equal(t, "A1", p.Batch)
	assert.True(t, p.SetupComplete)
	assert.Equal(t, attendance.StatusPresent, p.Attendance["2024-01-10"]["Math"].Theory)
	assert.Equal(t, at.Add(2*time.Hour), p.LastUpdated)
}

func TestProfileRepository_SetAttendanceDayOverwritesDate(t *testing.T) {
	ctx := context.Background()
	repo := NewProfileRepository()
	_, err := repo.Ensure(ctx, "u1", "u1@example.com", "Student")
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, repo.SetAttendanceDay(ctx, "u1", "2024-01-10", attendance.DailyRecord{
		"Math":    {Theory: attendance.StatusPresent},
		"Physics": {Lab: attendance.StatusAbsent},
	}, now))
	require.NoError(t, repo.SetAttendanceDay(ctx, "u1", "2024-01-11", attendance.DailyRecord{
		"Math": {Theory: attendance.StatusAbsent},
	}, now))
	require.NoError(t, repo.SetAttendanceDay(ctx, "u1", "2024-01-10", attendance.DailyRecord{
		"Math": {Theory: attendance.StatusAbsent},
	}, now))

	p, err := repo.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, attendance.DailyRecord{"Math": {Theory: attendance.StatusAbsent}}, p.Attendance["2024-01-10"])
	assert.Len(t, p.Attendance, 2, "other dates are untouched")
}

func TestProfileRepository_ReturnsSnapshots(t *testing.T) {
	ctx := context.Background()
	repo := NewProfileRepository()
	_, err := repo.Ensure(ctx, "u1", "u1@example.com", "Student")
	require.NoError(t, err)

	record := attendance.DailyRecord{"Math": {Theory: attendance.StatusPresent}}
	require.NoError(t, repo.SetAttendanceDay(ctx, "u1", "2024-01-10", record, time.Now()))
	record["Math"] = attendance.SessionRecord{Theory: attendance.StatusAbsent}

	p, err := repo.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	p.Attendance["2024-01-10"]["Math"] = attendance.SessionRecord{Lab: attendance.StatusAbsent}
	delete(p.Attendance, "2024-01-10")

	again, err := repo.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, again.Attendance["2024-01-10"]["Math"].Theory)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	created, err := repo.Create(ctx, user.User{Email: "Student@Example.com", Name: "Student"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	_, err = repo.Create(ctx, user.User{Email: "student@example.com"})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)

	byEmail, err := repo.GetByEmail(ctx, "student@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	linked, err := repo.LinkGoogleAccount(ctx, "g-1", "student@example.com")
	require.NoError(t, err)
	require.NotNil(t, linked.OAuthProvider)
	assert.Equal(t, user.ProviderGoogle, *linked.OAuthProvider)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestJWTRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewJWTRepository()
	session := auth.SessionTrackingRequest{}

	require.NoError(t, repo.CreateRefreshToken(ctx, "u1", "live", time.Now().Add(time.Hour).Unix(), session))
	require.NoError(t, repo.CreateRefreshToken(ctx, "u1", "expired", time.Now().Add(-time.Hour).Unix(), session))

	owner, revoked, err := repo.IsRefreshTokenRevoked(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, "u1", owner)
	assert.False(t, revoked)

	_, revoked, _ = repo.IsRefreshTokenRevoked(ctx, "expired")
	assert.True(t, revoked)

	require.NoError(t, repo.RevokeRefreshToken(ctx, "live"))
	_, revoked, _ = repo.IsRefreshTokenRevoked(ctx, "live")
	assert.True(t, revoked)

	deleted, err := repo.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
}
