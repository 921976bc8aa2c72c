package auth

import (
	"context"
	"sync"
	"time"

	"github.com/rafabene/medfy-backend/internal/domain/ports"
)

// MemoryRevocationStore guarda tokens revogados em memória (uma única instância, sem REDIS_URL)
type MemoryRevocationStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

var _ ports.RevocationStore = (*MemoryRevocationStore)(nil)

func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *MemoryRevocationStore) Revoke(_ context.Context, tokenID string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if !until.After(now) {
		return nil
	}

	s.revoked[tokenID] = until
	s.purge(now)
	return nil
}

func (s *MemoryRevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if !until.After(s.now()) {
		delete(s.revoked, tokenID)
		return false, nil
	}
	return true, nil
}

// purge remove entradas vencidas; chamado com o lock
func (s *MemoryRevocationStore) purge(now time.Time) {
	for id, until := range s.revoked {
		if !until.After(now) {
			delete(s.revoked, id)
		}
	}
}
