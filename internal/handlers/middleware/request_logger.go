package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"

	domainerrors "github.com/rafabene/medfy-backend/internal/domain/errors"
	"github.com/rafabene/medfy-backend/internal/domain/ports"
)

// RequestLogger emite um log estruturado por requisição
func RequestLogger(logger ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		args := []any{
			"request_id", RequestIDFromContext(c),
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"duration_ms", float64(time.Since(start).Microseconds()) / 1000.0,
			"client_ip", c.ClientIP(),
		}
		if userID := UserIDFromContext(c); userID != "" {
			args = append(args, "user_id", userID)
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("request completed", args...)
		case status >= http.StatusBadRequest:
			logger.Warn("request completed", args...)
		default:
			logger.Info("request completed", args...)
		}
	}
}

// Recovery converte panics em 500 com problem details
func Recovery(logger ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic recovered",
					"request_id", RequestIDFromContext(c),
					"error", rec,
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
				)
				AbortWithProblem(c, http.StatusInternalServerError, NewProblem(
					c,
					domainerrors.ProblemTypeInternal,
					http.StatusInternalServerError,
					"error.internal.title",
					"error.internal.detail",
				))
			}
		}()
		c.Next()
	}
}
