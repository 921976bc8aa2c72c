package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/medfy-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/medfy-backend/internal/domain/errors"
	"github.com/rafabene/medfy-backend/internal/handlers/dto"
	"github.com/rafabene/medfy-backend/internal/handlers/middleware"
	"github.com/rafabene/medfy-backend/internal/services"
)

// AuthUseCases são as operações de sessão usadas pelo handler
type AuthUseCases interface {
	SignUp(ctx context.Context, input services.SignUpInput) (*entities.User, error)
	SignIn(ctx context.Context, email, password string) (*services.SignInResult, error)
	SignOut(ctx context.Context, session entities.Session) error
	CurrentUser(ctx context.Context, session entities.Session) (*entities.User, error)
	UpdateProfile(ctx context.Context, session entities.Session, input services.UpdateProfileInput) (*entities.User, error)
}

var _ AuthUseCases = (*services.AuthService)(nil)

// AuthHandler lida com cadastro, login e perfil
type AuthHandler struct {
	auth AuthUseCases
}

// NewAuthHandler cria um novo AuthHandler
func NewAuthHandler(auth AuthUseCases) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// SignUp cadastra um médico
//
//	@Summary		Cadastro
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.SignUpRequest	true	"Dados do cadastro"
//	@Success		201		{object}	dto.SignUpResponse
//	@Failure		400		{object}	dto.ErrorResponse
//	@Failure		409		{object}	dto.ErrorResponse
//	@Router			/auth/sign-up [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req dto.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.auth.SignUp(c.Request.Context(), services.SignUpInput{
		Email:     req.Email,
		Password:  req.Password,
		FullName:  req.FullName,
		Specialty: req.Specialty,
		CRM:       req.CRM,
	})
	if err != nil {
		respondError(c, err, "")
		return
	}

	c.JSON(http.StatusCreated, dto.SignUpResponse{
		Message: dto.T(c, "auth.signed_up"),
		User:    dto.ToUserResponse(user),
	})
}

// SignIn autentica com email e senha
//
//	@Summary		Login
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.SignInRequest	true	"Credenciais"
//	@Success		200		{object}	dto.SignInResponse
//	@Failure		400		{object}	dto.ErrorResponse
//	@Failure		401		{object}	dto.ErrorResponse
//	@Router			/auth/sign-in [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req dto.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, dto.SignInResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		Session:     dto.ToSessionResponse(result.Session),
		User:        dto.ToUserResponse(result.User),
	})
}

// SignOut revoga o token atual
//
//	@Summary		Logout
//	@Tags			auth
//	@Security		BearerAuth
//	@Success		204
//	@Failure		401	{object}	dto.ErrorResponse
//	@Router			/auth/sign-out [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	session, ok := middleware.SessionFromContext(c)
	if !ok {
		respondError(c, domainerrors.ErrUnauthorized, "")
		return
	}

	if err := h.auth.SignOut(c.Request.Context(), session); err != nil {
		respondError(c, err, "")
		return
	}

	c.Status(http.StatusNoContent)
}

// Me retorna o usuário autenticado
//
//	@Summary		Usuário atual
//	@Tags			auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	dto.UserResponse
//	@Failure		401	{object}	dto.ErrorResponse
//	@Router			/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	session, ok := middleware.SessionFromContext(c)
	if !ok {
		respondError(c, domainerrors.ErrUnauthorized, "")
		return
	}

	user, err := h.auth.CurrentUser(c.Request.Context(), session)
	if err != nil {
		respondError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// UpdateProfile atualiza o perfil profissional
//
//	@Summary		Atualiza perfil
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		dto.UpdateProfileRequest	true	"Perfil"
//	@Success		200		{object}	dto.UserResponse
//	@Failure		400		{object}	dto.ErrorResponse
//	@Failure		401		{object}	dto.ErrorResponse
//	@Router			/auth/me/profile [patch]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	session, ok := middleware.SessionFromContext(c)
	if !ok {
		respondError(c, domainerrors.ErrUnauthorized, "")
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.auth.UpdateProfile(c.Request.Context(), session, services.UpdateProfileInput{
		FullName:  req.FullName,
		Specialty: req.Specialty,
		CRM:       req.CRM,
	})
	if err != nil {
		respondError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}
