package dto

import (
	"time"

	"github.com/rafabene/medfy-backend/internal/domain/entities"
)

// SignUpRequest representa o cadastro de um médico
type SignUpRequest struct {
	Email     string  `json:"email" binding:"required" example:"helena@clinica.com"`
	Password  string  `json:"password" binding:"required" example:"segredo123"`
	FullName  string  `json:"full_name" example:"Dra. Helena Prado"`
	Specialty *string `json:"specialty" binding:"omitempty,max=100" example:"Cardiologia"`
	CRM       *string `json:"crm" binding:"omitempty,max=30" example:"CRM/SP 123456"`
}

// SignInRequest representa o login
type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest representa a edição do perfil profissional
type UpdateProfileRequest struct {
	FullName  string  `json:"full_name" binding:"required,max=200"`
	Specialty *string `json:"specialty" binding:"omitempty,max=100"`
	CRM       *string `json:"crm" binding:"omitempty,max=30"`
}

// ProfileResponse representa o perfil profissional
type ProfileResponse struct {
	FullName  string  `json:"full_name"`
	Specialty *string `json:"specialty"`
	CRM       *string `json:"crm"`
}

// UserResponse representa a resposta de um usuário
type UserResponse struct {
	ID          string           `json:"id"`
	Email       string           `json:"email"`
	DisplayName string           `json:"display_name"`
	Profile     *ProfileResponse `json:"profile,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// SignUpResponse confirma a criação da conta
type SignUpResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// SessionResponse é a visão pública de uma sessão
type SessionResponse struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SignInResponse traz o token de acesso
type SignInResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type" example:"Bearer"`
	Session     SessionResponse `json:"session"`
	User        UserResponse    `json:"user"`
}

// ToUserResponse converte entidade para DTO
func ToUserResponse(user *entities.User) UserResponse {
	resp := UserResponse{
		ID:          user.ID,
		Email:       user.Email.String(),
		DisplayName: user.DisplayName(),
		CreatedAt:   user.CreatedAt,
	}
	if user.Profile != nil {
		resp.Profile = &ProfileResponse{
			FullName:  user.Profile.FullName,
			Specialty: user.Profile.Specialty,
			CRM:       user.Profile.CRM,
		}
	}
	return resp
}

func ToSessionResponse(session entities.Session) SessionResponse {
	return SessionResponse{
		UserID:    session.UserID,
		Email:     session.Email,
		ExpiresAt: session.ExpiresAt,
	}
}
