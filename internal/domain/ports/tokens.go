package ports

import (
	"context"
	"time"

	"github.com/rafabene/medfy-backend/internal/domain/entities"
)

// TokenIssuer emite e valida tokens de acesso
type TokenIssuer interface {
	Issue(user *entities.User) (string, entities.Session, error)
	Parse(token string) (entities.Session, error)
}

// RevocationStore guarda os tokens encerrados por sign-out até expirarem
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
