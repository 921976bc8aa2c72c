package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/medfy-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/medfy-backend/internal/domain/errors"
)

const (
	sessionKey = "session"
	userIDKey  = "userId"

	// AccessTokenQueryParam permite autenticar o WebSocket, que não envia headers customizados
	AccessTokenQueryParam = "access_token"
)

// Authenticator valida um token de acesso e devolve a sessão correspondente
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (entities.Session, error)
}

// RequireAuth exige um token válido (Authorization: Bearer ou ?access_token=)
// e guarda a sessão no contexto.
func RequireAuth(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			abortUnauthorized(c)
			return
		}

		session, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(sessionKey, session)
		c.Set(userIDKey, session.UserID)
		c.Next()
	}
}

// BearerToken extrai o token do header Authorization ou do query parameter access_token
func BearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header != "" {
		if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
			return ""
		}
		return strings.TrimSpace(header[7:])
	}

	return strings.TrimSpace(c.Query(AccessTokenQueryParam))
}

// SessionFromContext retorna a sessão gravada por RequireAuth
func SessionFromContext(c *gin.Context) (entities.Session, bool) {
	val, exists := c.Get(sessionKey)
	if !exists {
		return entities.Session{}, false
	}
	session, ok := val.(entities.Session)
	return session, ok
}

// UserIDFromContext retorna o ID do usuário autenticado ("" se anônimo)
func UserIDFromContext(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func abortUnauthorized(c *gin.Context) {
	AbortWithProblem(c, http.StatusUnauthorized, NewProblem(
		c,
		domainerrors.ProblemTypeUnauthorized,
		http.StatusUnauthorized,
		"error.unauthorized.title",
		"error.unauthorized.detail",
	))
}
