package repositories

import (
	"context"

	"github.com/rafabene/medfy-backend/internal/domain/entities"
)

// UserRepository define a interface para persistência de usuários e perfis
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	FindByID(ctx context.Context, id string) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	SaveProfile(ctx context.Context, profile *entities.DoctorProfile) error
}
