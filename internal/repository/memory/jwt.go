package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oopspresent/attendance-backend-go/internal/domain/auth"
	"github.com/oopspresent/attendance-backend-go/internal/pkg/database"
)

type refreshToken struct {
	userID    string
	expiresAt time.Time
	revoked   bool
}

type jwtRepositoryImpl struct {
	mu     sync.Mutex
	tokens map[string]*refreshToken
}

func NewJWTRepository() auth.RefreshTokenRepository {
	return &jwtRepositoryImpl{tokens: make(map[string]*refreshToken)}
}

func (j *jwtRepositoryImpl) CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, session auth.SessionTrackingRequest) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.tokens[token] = &refreshToken{userID: userID, expiresAt: time.Unix(expiresAt, 0)}
	return nil
}

func (j *jwtRepositoryImpl) IsRefreshTokenRevoked(ctx context.Context, token string) (string, bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	t, ok := j.tokens[token]
	if !ok {
		return "", true, nil
	}
	return t.userID, t.revoked || !t.expiresAt.After(time.Now()), nil
}

func (j *jwtRepositoryImpl) RevokeRefreshToken(ctx context.Context, token string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if t, ok := j.tokens[token]; ok {
		t.revoked = true
	}
	return nil
}

func (j *jwtRepositoryImpl) DeleteExpired(ctx context.Context) (int64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	var deleted int64
	now := time.Now()
	for token, t := range j.tokens {
		if t.revoked || !t.expiresAt.After(now) {
			delete(j.tokens, token)
			deleted++
		}
	}
	return deleted, nil
}

type transactorImpl struct{}

// NewTransactor runs fn directly; each memory repository write is atomic on its own.
func NewTransactor() database.Transactor {
	return transactorImpl{}
}

func (transactorImpl) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
