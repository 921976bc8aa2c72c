package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rafabene/medfy-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/medfy-backend/internal/domain/errors"
	"github.com/rafabene/medfy-backend/internal/domain/repositories"
	"github.com/rafabene/medfy-backend/internal/domain/valueobjects"
)

// UserRepository implementa repositories.UserRepository
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository cria um novo UserRepository
func NewUserRepository(db *gorm.DB) repositories.UserRepository {
	return &UserRepository{db: db}
}

// Create insere o usuário e, se houver, o perfil (no mesmo contexto transacional)
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	model := r.toModel(user)

	db := dbFromContext(ctx, r.db)
	if err := db.Omit("Profile").Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrEmailAlreadyExists
		}
		return err
	}

	user.CreatedAt = model.CreatedAt
	user.UpdatedAt = model.UpdatedAt

	if user.Profile != nil {
		user.Profile.UserID = user.ID
		return r.SaveProfile(ctx, user.Profile)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// SaveProfile cria ou atualiza o perfil do médico
func (r *UserRepository) SaveProfile(ctx context.Context, profile *entities.DoctorProfile) error {
	model := &DoctorProfileModel{
		UserID:    profile.UserID,
		FullName:  profile.FullName,
		Specialty: profile.Specialty,
		CRM:       profile.CRM,
	}

	db := dbFromContext(ctx, r.db)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"full_name", "specialty", "crm", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		return err
	}

	profile.CreatedAt = model.CreatedAt
	profile.UpdatedAt = model.UpdatedAt
	return nil
}

// findOne retorna (nil, nil) quando nenhum registro é encontrado
func (r *UserRepository) findOne(ctx context.Context, query string, args ...any) (*entities.User, error) {
	var model UserModel

	db := dbFromContext(ctx, r.db)
	if err := db.Preload("Profile").Where(query, args...).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.toEntity(&model)
}

// Conversores
func (r *UserRepository) toModel(user *entities.User) *UserModel {
	return &UserModel{
		ID:           user.ID,
		Email:        user.Email.String(),
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

func (r *UserRepository) toEntity(model *UserModel) (*entities.User, error) {
	email, err := valueobjects.NewEmail(model.Email)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		ID:           model.ID,
		Email:        email,
		PasswordHash: model.PasswordHash,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}

	if model.Profile != nil {
		user.Profile = &entities.DoctorProfile{
			UserID:    model.Profile.UserID,
			FullName:  model.Profile.FullName,
			Specialty: model.Profile.Specialty,
			CRM:       model.Profile.CRM,
			CreatedAt: model.Profile.CreatedAt,
			UpdatedAt: model.Profile.UpdatedAt,
		}
	}

	return user, nil
}
