package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rafabene/medfy-backend/internal/domain/entities"
	"github.com/rafabene/medfy-backend/internal/domain/ports"
)

const tokenIssuer = "medfy"

// ErrInvalidToken indica token malformado, expirado ou com assinatura inválida
var ErrInvalidToken = errors.New("invalid token")

type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTIssuer emite e valida tokens HS256
type JWTIssuer struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewJWTIssuer cria um emissor com o segredo e a validade informados
func NewJWTIssuer(secret string, expiry time.Duration) *JWTIssuer {
	return &JWTIssuer{
		secret: []byte(secret),
		expiry: expiry,
		now:    time.Now,
	}
}

var _ ports.TokenIssuer = (*JWTIssuer)(nil)

// Issue assina um token para o usuário e retorna a sessão correspondente
func (i *JWTIssuer) Issue(user *entities.User) (string, entities.Session, error) {
	if user == nil || user.ID == "" {
		return "", entities.Session{}, errors.New("user is required")
	}

	now := i.now().UTC()
	session := entities.Session{
		UserID:    user.ID,
		Email:     user.Email.String(),
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(i.expiry).Truncate(time.Second),
	}

	claims := accessClaims{
		Email: session.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.TokenID,
			Subject:   session.UserID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", entities.Session{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return token, session, nil
}

// Parse valida assinatura, emissor e expiração
func (i *JWTIssuer) Parse(token string) (entities.Session, error) {
	var claims accessClaims

	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !parsed.Valid {
		return entities.Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Subject == "" || claims.ID == "" || claims.ExpiresAt == nil {
		return entities.Session{}, fmt.Errorf("%w: missing subject, id or expiration", ErrInvalidToken)
	}

	return entities.Session{
		UserID:    claims.Subject,
		Email:     claims.Email,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
