package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/rafabene/medfy-backend/internal/domain/ports"
)

const keyPrefix = "medfy:revoked:"

// RevocationStore guarda tokens revogados no Redis até a expiração natural deles
type RevocationStore struct {
	rdb *goredis.Client
	now func() time.Time
}

var _ ports.RevocationStore = (*RevocationStore)(nil)

// NewRevocationStore conecta ao Redis a partir de uma URL redis://
func NewRevocationStore(ctx context.Context, redisURL string) (*RevocationStore, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RevocationStore{rdb: client, now: time.Now}, nil
}

// Revoke marca o token como revogado; tokens já expirados são ignorados
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(s.now())
	if ttl <= 0 {
		return nil
	}

	if err := s.rdb.Set(ctx, keyPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.rdb.Exists(ctx, keyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}

// Ping verifica a conexão (health check)
func (s *RevocationStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close encerra a conexão com o Redis
func (s *RevocationStore) Close() error {
	return s.rdb.Close()
}
