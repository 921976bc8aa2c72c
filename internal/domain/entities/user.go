package entities

import (
	"errors"
	"strings"
	"time"

	"github.com/rafabene/medfy-backend/internal/domain/valueobjects"
)

var (
	ErrInvalidUserData = errors.New("invalid user data")
)

// User representa um médico cadastrado no sistema
type User struct {
	ID           string
	Email        valueobjects.Email
	PasswordHash string
	Profile      *DoctorProfile
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DoctorProfile guarda os dados profissionais exibidos nos documentos
type DoctorProfile struct {
	UserID    string
	FullName  string
	Specialty *string
	CRM       *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName retorna o nome do médico, ou o email quando não há perfil
func (u *User) DisplayName() string {
	if u.Profile != nil && strings.TrimSpace(u.Profile.FullName) != "" {
		return u.Profile.FullName
	}
	return u.Email.String()
}

// Validate valida regras de negócio da entidade User
func (u *User) Validate() error {
	if u.Email.String() == "" {
		return errors.New("email is required")
	}

	if u.PasswordHash == "" {
		return errors.New("password hash is required")
	}

	if u.Profile != nil {
		if err := u.Profile.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Validate valida o perfil do médico
func (p *DoctorProfile) Validate() error {
	name := strings.TrimSpace(p.FullName)
	if name == "" {
		return errors.New("full name is required")
	}

	if len(name) < 2 {
		return errors.New("full name must be at least 2 characters")
	}

	return nil
}

// Session é a projeção somente-leitura de uma sessão autenticada
type Session struct {
	UserID    string
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

// Expired indica se a sessão já passou do prazo de validade
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
