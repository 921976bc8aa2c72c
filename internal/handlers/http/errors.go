package http

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	domainerrors "github.com/rafabene/medfy-backend/internal/domain/errors"
	"github.com/rafabene/medfy-backend/internal/handlers/dto"
	"github.com/rafabene/medfy-backend/internal/handlers/middleware"
)

// respondError converte erros do domínio em problem details.
// kind identifica a categoria de documento nas mensagens de geração e persistência.
func respondError(c *gin.Context, err error, kind string) {
	var (
		validationErr *domainerrors.ValidationError
		externalErr   *domainerrors.ExternalServiceError
	)

	switch {
	case errors.As(err, &validationErr):
		abort(c, http.StatusBadRequest, dto.ValidationErrorResponseI18n(c, dto.FieldErrors(c, validationErr)))

	case errors.Is(err, domainerrors.ErrInvalidEmail):
		abort(c, http.StatusBadRequest, dto.NewErrorResponseI18n(c, domainerrors.ProblemTypeValidation,
			"error.validation.title", "error.invalid_email", http.StatusBadRequest))

	case errors.Is(err, domainerrors.ErrInvalidPassword):
		abort(c, http.StatusBadRequest, dto.NewErrorResponseI18n(c, domainerrors.ProblemTypeValidation,
			"error.validation.title", "error.invalid_password", http.StatusBadRequest))

	case errors.Is(err, domainerrors.ErrEmailAlreadyExists):
		abort(c, http.StatusConflict, dto.ConflictErrorResponseI18n(c, "error.email_already_exists"))

	case errors.Is(err, domainerrors.ErrInvalidCredentials):
		abort(c, http.StatusUnauthorized, dto.UnauthorizedErrorResponseI18n(c, "error.invalid_credentials"))

	case errors.Is(err, domainerrors.ErrUnauthorized):
		abort(c, http.StatusUnauthorized, dto.UnauthorizedErrorResponseI18n(c, "error.unauthorized.detail"))

	case errors.Is(err, domainerrors.ErrDocumentNotFound):
		abort(c, http.StatusNotFound, dto.NotFoundErrorResponseI18n(c, "resource.document"))

	case errors.As(err, &externalErr) && externalErr.Service == domainerrors.ServiceGeneration && kind != "":
		status := http.StatusBadGateway
		if externalErr.Credential {
			status = http.StatusServiceUnavailable
		}
		abort(c, status, dto.GenerationErrorResponseI18n(c, kind, externalErr.Credential))

	case errors.As(err, &externalErr) && externalErr.Service == domainerrors.ServiceStore && kind != "":
		abort(c, http.StatusInternalServerError, dto.PersistenceErrorResponseI18n(c, kind))

	default:
		abort(c, http.StatusInternalServerError, dto.InternalErrorResponseI18n(c))
	}
}

// respondBindError trata falhas de ShouldBindJSON
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		abort(c, http.StatusBadRequest, dto.BadRequestErrorResponseI18n(c))
		return
	}

	fields := make([]domainerrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, domainerrors.FieldError{Field: fe.Field(), Tag: fe.Tag()})
	}
	respondError(c, &domainerrors.ValidationError{Fields: fields}, "")
}

// UseJSONFieldNames faz o validador do gin reportar os campos pelo nome JSON
func UseJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

func abort(c *gin.Context, status int, body dto.ErrorResponse) {
	middleware.AbortWithProblem(c, status, body)
}
