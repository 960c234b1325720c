package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/oopspresent/attendance-backend-go/internal/domain/auth"
	"github.com/oopspresent/attendance-backend-go/internal/pkg/jwt"
)

// AuthJobs contains token housekeeping jobs
type AuthJobs struct {
	refreshTokens auth.RefreshTokenRepository
	revoked       jwt.RevocationStore
}

// NewAuthJobs creates token cron jobs
func NewAuthJobs(refreshTokens auth.RefreshTokenRepository, revoked jwt.RevocationStore) *AuthJobs {
	return &AuthJobs{
		refreshTokens: refreshTokens,
		revoked:       revoked,
	}
}

// RegisterJobs registers all token cron jobs
func (j *AuthJobs) RegisterJobs(scheduler *Scheduler) {
	// Purge expired and revoked refresh tokens every hour
	scheduler.AddJob(
		"purge_expired_refresh_tokens",
		1*time.Hour,
		j.PurgeExpiredRefreshTokens,
	)

	scheduler.AddJob(
		"prune_revoked_access_tokens",
		1*time.Hour,
		j.PruneRevokedAccessTokens,
	)
}

func (j *AuthJobs) PurgeExpiredRefreshTokens(ctx context.Context) error {
	deleted, err := j.refreshTokens.DeleteExpired(ctx)
	if err != nil {
		return err
	}
	if deleted > 0 {
		slog.Info("Purged refresh tokens", "count", deleted)
	}
	return nil
}

// PruneRevokedAccessTokens drops revocation entries for access tokens that have expired anyway
func (j *AuthJobs) PruneRevokedAccessTokens(ctx context.Context) error {
	pruned, err := j.revoked.Prune(ctx)
	if err != nil {
		return err
	}
	if pruned > 0 {
		slog.Debug("Pruned revoked access tokens", "count", pruned)
	}
	return nil
}
