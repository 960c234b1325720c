package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oopspresent/attendance-backend-go/internal/domain/attendance"
	"github.com/oopspresent/attendance-backend-go/internal/domain/profile"
	"github.com/oopspresent/attendance-backend-go/internal/pkg/database"
)

type profileRepositoryImpl struct {
	db *database.DB
}

func NewProfileRepository(db *database.DB) profile.ProfileRepository {
	return &profileRepositoryImpl{db: db}
}

// Ensure implements profile.ProfileRepository.
func (r *profileRepositoryImpl) Ensure(ctx context.Context, userID, email, name string) (profile.Profile, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO profiles (user_id, email, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := q.Exec(ctx, query, userID, email, name); err != nil {
		return profile.Profile{}, database.Classify(err)
	}

	return r.GetByUserID(ctx, userID)
}

// GetByUserID implements profile.ProfileRepository.
func (r *profileRepositoryImpl) GetByUserID(ctx context.Context, userID string) (profile.Profile, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT user_id, name, email, division, batch, setup_complete, attendance,
			   last_updated, created_at
		FROM profiles
		WHERE user_id = $1
	`

	var p profile.Profile
	var rawAttendance []byte
	err := q.QueryRow(ctx, query, userID).Scan(
		&p.UserID,
		&p.Name,
		&p.Email,
		&p.Division,
		&p.Batch,
		&p.SetupComplete,
		&rawAttendance,
		&p.LastUpdated,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.Profile{}, profile.ErrProfileNotFound
		}
		return profile.Profile{}, database.Classify(err)
	}

	p.Attendance = attendance.Log{}
	if len(rawAttendance) > 0 {
		if err := json.Unmarshal(rawAttendance, &p.Attendance); err != nil {
			return profile.Profile{}, fmt.Errorf("decode attendance of %s: %w", userID, err)
		}
	}

	return p, nil
}

// UpdateSettings implements profile.ProfileRepository.
func (r *profileRepositoryImpl) UpdateSettings(ctx context.Context, userID, division, batch string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE profiles
		SET division = $2, batch = $3, setup_complete = TRUE, last_updated = $4
		WHERE user_id = $1
	`
	tag, err := q.Exec(ctx, query, userID, division, batch, at)
	if err != nil {
		return database.Classify(err)
	}
	if tag.RowsAffected() == 0 {
		return profile.ErrProfileNotFound
	}
	return nil
}

// UpdateName implements profile.ProfileRepository.
func (r *profileRepositoryImpl) UpdateName(ctx context.Context, userID, name string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE profiles
		SET name = $2, last_updated = $3
		WHERE user_id = $1
	`
	tag, err := q.Exec(ctx, query, userID, name, at)
	if err != nil {
		return database.Classify(err)
	}
	if tag.RowsAffected() == 0 {
		return profile.ErrProfileNotFound
	}
	return nil
}

// SetAttendanceDay implements profile.ProfileRepository.
// Only the given date key of the attendance document is replaced.
func (r *profileRepositoryImpl) SetAttendanceDay(ctx context.Context, userID, date string, record attendance.DailyRecord, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	if record == nil {
		record = attendance.DailyRecord{}
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode attendance record: %w", err)
	}

	query := `
		UPDATE profiles
		SET attendance = jsonb_set(COALESCE(attendance, '{}'::jsonb), ARRAY[$2::text], $3::jsonb, true),
			last_updated = $4
		WHERE user_id = $1
	`
	tag, err := q.Exec(ctx, query, userID, date, string(raw), at)
	if err != nil {
		return database.Classify(err)
	}
	if tag.RowsAffected() == 0 {
		return profile.ErrProfileNotFound
	}
	return nil
}
