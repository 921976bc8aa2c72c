package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/rafabene/medfy-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/medfy-backend/internal/domain/errors"
	"github.com/rafabene/medfy-backend/internal/domain/ports"
	"github.com/rafabene/medfy-backend/internal/domain/repositories"
	"github.com/rafabene/medfy-backend/internal/domain/valueobjects"
)

// AuthService contém cadastro, login, logout e validação de sessões
type AuthService struct {
	userRepo    repositories.UserRepository
	uow         ports.UnitOfWork
	tokens      ports.TokenIssuer
	revocations ports.RevocationStore
	publisher   ports.EventPublisher
	logger      ports.Logger
	bcryptCost  int
}

// NewAuthService cria um novo AuthService
func NewAuthService(
	userRepo repositories.UserRepository,
	uow ports.UnitOfWork,
	tokens ports.TokenIssuer,
	revocations ports.RevocationStore,
	publisher ports.EventPublisher,
	logger ports.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		uow:         uow,
		tokens:      tokens,
		revocations: revocations,
		publisher:   publisher,
		logger:      logger.With("component", "auth"),
		bcryptCost:  bcrypt.DefaultCost,
	}
}

// SignUpInput representa os dados do cadastro de um médico
type SignUpInput struct {
	Email     string
	Password  string
	FullName  string
	Specialty *string
	CRM       *string
}

// SignInResult traz o token emitido e a sessão correspondente
type SignInResult struct {
	AccessToken string
	Session     entities.Session
	User        *entities.User
}

// UpdateProfileInput representa a edição do perfil profissional
type UpdateProfileInput struct {
	FullName  string
	Specialty *string
	CRM       *string
}

// SignUp cria o usuário e o perfil numa única transação
func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*entities.User, error) {
	email, err := valueobjects.NewEmail(input.Email)
	if err != nil {
		return nil, domainerrors.ErrInvalidEmail
	}

	password, err := valueobjects.NewPassword(input.Password)
	if err != nil {
		return nil, domainerrors.ErrInvalidPassword
	}

	profile := &entities.DoctorProfile{
		FullName:  strings.TrimSpace(input.FullName),
		Specialty: optional(input.Specialty),
		CRM:       optional(input.CRM),
	}
	if err := profile.Validate(); err != nil {
		return nil, &domainerrors.ValidationError{
			Fields: []domainerrors.FieldError{{Field: "full_name", Tag: "required"}},
		}
	}

	hash, err := bcrypt.GenerateFromPassword(password.Bytes(), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Email:        email,
		PasswordHash: string(hash),
		Profile:      profile,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	err = s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.userRepo.FindByEmail(txCtx, email.String())
		if err != nil {
			return err
		}
		if existing != nil {
			return domainerrors.ErrEmailAlreadyExists
		}
		return s.userRepo.Create(txCtx, user)
	})
	if err != nil {
		if !errors.Is(err, domainerrors.ErrEmailAlreadyExists) {
			s.logger.Error("failed to create user", "error", err)
		}
		return nil, err
	}

	s.logger.Info("user signed up", "user_id", user.ID)
	return user, nil
}

// SignIn valida as credenciais, emite um token e avisa as conexões do usuário
func (s *AuthService) SignIn(ctx context.Context, emailRaw, passwordRaw string) (*SignInResult, error) {
	email, err := valueobjects.NewEmail(emailRaw)
	if err != nil {
		return nil, domainerrors.ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByEmail(ctx, email.String())
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domainerrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(passwordRaw)); err != nil {
		return nil, domainerrors.ErrInvalidCredentials
	}

	token, session, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user signed in", "user_id", user.ID)
	s.publisher.Publish(user.ID, ports.Event{Name: ports.EventSignedIn, Payload: session})

	return &SignInResult{AccessToken: token, Session: session, User: user}, nil
}

// SignOut revoga o token da sessão até a expiração dele
func (s *AuthService) SignOut(ctx context.Context, session entities.Session) error {
	if err := s.revocations.Revoke(ctx, session.TokenID, session.ExpiresAt); err != nil {
		s.logger.Error("failed to revoke token", "user_id", session.UserID, "error", err)
		return err
	}

	s.logger.Info("user signed out", "user_id", session.UserID)
	s.publisher.Publish(session.UserID, ports.Event{Name: ports.EventSignedOut})
	return nil
}

// Authenticate converte um token de acesso numa sessão válida e não revogada
func (s *AuthService) Authenticate(ctx context.Context, token string) (entities.Session, error) {
	session, err := s.tokens.Parse(token)
	if err != nil {
		return entities.Session{}, domainerrors.ErrUnauthorized
	}

	revoked, err := s.revocations.IsRevoked(ctx, session.TokenID)
	if err != nil {
		s.logger.Error("failed to check token revocation", "user_id", session.UserID, "error", err)
		return entities.Session{}, domainerrors.ErrUnauthorized
	}
	if revoked {
		return entities.Session{}, domainerrors.ErrUnauthorized
	}

	return session, nil
}

// CurrentUser retorna o usuário da sessão
func (s *AuthService) CurrentUser(ctx context.Context, session entities.Session) (*entities.User, error) {
	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domainerrors.ErrUnauthorized
	}
	return user, nil
}

// UpdateProfile grava nome, especialidade e CRM do médico
func (s *AuthService) UpdateProfile(ctx context.Context, session entities.Session, input UpdateProfileInput) (*entities.User, error) {
	profile := &entities.DoctorProfile{
		UserID:    session.UserID,
		FullName:  strings.TrimSpace(input.FullName),
		Specialty: optional(input.Specialty),
		CRM:       optional(input.CRM),
	}
	if err := profile.Validate(); err != nil {
		return nil, &domainerrors.ValidationError{
			Fields: []domainerrors.FieldError{{Field: "full_name", Tag: "required"}},
		}
	}

	if _, err := s.CurrentUser(ctx, session); err != nil {
		return nil, err
	}

	if err := s.userRepo.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}

	return s.CurrentUser(ctx, session)
}

// optional trata string vazia como ausente
func optional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
