package dto

import (
	"github.com/gin-gonic/gin"
	"github.com/moogar0880/problems"

	domainerrors "github.com/rafabene/medfy-backend/internal/domain/errors"
	"github.com/rafabene/medfy-backend/internal/handlers/middleware"
)

// ErrorResponse segue RFC 7807 (Problem Details for HTTP APIs)
type ErrorResponse struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError representa um erro de validação de campo
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag,omitempty"`
}

// NewErrorResponseI18n cria uma resposta de erro usando i18n
func NewErrorResponseI18n(c *gin.Context, problemType, titleKey, detailKey string, status int, params ...map[string]interface{}) ErrorResponse {
	return fromProblem(middleware.NewProblem(c, problemType, status, titleKey, detailKey, params...))
}

func fromProblem(p *problems.Problem) ErrorResponse {
	return ErrorResponse{
		Type:     p.Type,
		Title:    p.Title,
		Status:   p.Status,
		Detail:   p.Detail,
		Instance: p.Instance,
	}
}

// ValidationErrorResponseI18n cria uma resposta de erro de validação
func ValidationErrorResponseI18n(c *gin.Context, validationErrors []ValidationError) ErrorResponse {
	response := NewErrorResponseI18n(
		c,
		domainerrors.ProblemTypeValidation,
		"error.validation.title",
		"error.validation.detail",
		400,
	)
	response.Errors = validationErrors
	return response
}

// BadRequestErrorResponseI18n cria uma resposta 400 para corpo malformado
func BadRequestErrorResponseI18n(c *gin.Context) ErrorResponse {
	return NewErrorResponseI18n(
		c,
		domainerrors.ProblemTypeBadRequest,
		"error.bad_request.title",
		"error.bad_request.detail",
		400,
	)
}

// NotFoundErrorResponseI18n cria uma resposta de erro 404
func NotFoundErrorResponseI18n(c *gin.Context, resourceKey string) ErrorResponse {
	return NewErrorResponseI18n(
		c,
		domainerrors.ProblemTypeNotFound,
		"error.not_found.title",
		"error.not_found.detail",
		404,
		map[string]interface{}{"Resource": T(c, resourceKey)},
	)
}

// ConflictErrorResponseI18n cria uma resposta de erro 409
func ConflictErrorResponseI18n(c *gin.Context, detailKey string, params ...map[string]interface{}) ErrorResponse {
	return NewErrorResponseI18n(
		c,
		domainerrors.ProblemTypeConflict,
		"error.conflict.title",
		detailKey,
		409,
		params...,
	)
}

// UnauthorizedErrorResponseI18n cria uma resposta de erro 401
func UnauthorizedErrorResponseI18n(c *gin.Context, detailKey string) ErrorResponse {
	return NewErrorResponseI18n(
		c,
		domainerrors.ProblemTypeUnauthorized,
		"error.unauthorized.title",
		detailKey,
		401,
	)
}

// InternalErrorResponseI18n cria uma resposta de erro 500
func InternalErrorResponseI18n(c *gin.Context) ErrorResponse {
	return NewErrorResponseI18n(
		c,
		domainerrors.ProblemTypeInternal,
		"error.internal.title",
		"error.internal.detail",
		500,
	)
}

// GenerationErrorResponseI18n cria a resposta para falhas do serviço de geração.
// Problema de chave de API vira 503; as demais falhas, 502.
func GenerationErrorResponseI18n(c *gin.Context, kind string, credential bool) ErrorResponse {
	if credential {
		return NewErrorResponseI18n(
			c,
			domainerrors.ProblemTypeGenerationNotAllowed,
			"error.generation.title",
			"error.generation.api_key",
			503,
		)
	}
	return NewErrorResponseI18n(
		c,
		domainerrors.ProblemTypeGenerationFailed,
		"error.generation.title",
		"error.generation.failed."+kind,
		502,
	)
}

// PersistenceErrorResponseI18n cria a resposta 500 para falha ao salvar um documento
func PersistenceErrorResponseI18n(c *gin.Context, kind string) ErrorResponse {
	return NewErrorResponseI18n(
		c,
		domainerrors.ProblemTypePersistenceFailed,
		"error.persistence.title",
		"error.persistence.failed."+kind,
		500,
	)
}

// FieldErrors traduz os campos de um ValidationError do domínio
func FieldErrors(c *gin.Context, err *domainerrors.ValidationError) []ValidationError {
	out := make([]ValidationError, 0, len(err.Fields))
	for _, f := range err.Fields {
		out = append(out, ValidationError{
			Field:   f.Field,
			Tag:     f.Tag,
			Message: T(c, "error.validation."+messageKey(f.Tag), map[string]interface{}{"Field": f.Field}),
		})
	}
	return out
}

func messageKey(tag string) string {
	switch tag {
	case "required", "oneof":
		return tag
	}
	return "invalid"
}
