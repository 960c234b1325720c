package jwt

import (
	"context"
	"sync"
	"time"
)

// RevocationStore remembers revoked access token ids until they expire
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// Prune drops entries whose token has expired and returns how many were dropped
	Prune(ctx context.Context) (int, error)
}

type MemoryRevocationStore struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (m *MemoryRevocationStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[jti] = expiresAt
	return nil
}

func (m *MemoryRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	expiresAt, ok := m.revoked[jti]
	return ok && m.now().Before(expiresAt), nil
}

func (m *MemoryRevocationStore) Prune(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pruned := 0
	now := m.now()
	for jti, expiresAt := range m.revoked {
		if !now.Before(expiresAt) {
			delete(m.revoked, jti)
			pruned++
		}
	}
	return pruned, nil
}
