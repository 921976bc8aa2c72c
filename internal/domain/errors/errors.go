package errors

import (
	"errors"
	"strings"
)

// Business errors
// Nota: Estes são códigos de erro (message IDs para i18n).
// As traduções devem estar em internal/infrastructure/i18n/locales/*.json
var (
	ErrUserNotFound       = errors.New("error.user_not_found")
	ErrEmailAlreadyExists = errors.New("error.email_already_exists")
	ErrInvalidCredentials = errors.New("error.invalid_credentials")
	ErrUnauthorized       = errors.New("error.unauthorized")
	ErrDocumentNotFound   = errors.New("error.document_not_found")
)

// Domain errors
var (
	ErrInvalidEmail    = errors.New("error.invalid_email")
	ErrInvalidPassword = errors.New("error.invalid_password")
	ErrValidation      = errors.New("error.validation")
	ErrExternalService = errors.New("error.external_service")
	ErrConfiguration   = errors.New("error.configuration")
	ErrEmptyCompletion = errors.New("error.generation.empty")
)

// ProblemType define tipos de problemas (URIs RFC 7807)
// Nota: O domínio base virá de configuração (API_BASE_URL)
//
//nolint:misspell
const (
	ProblemTypeValidation           = "/problems/validation-error"
	ProblemTypeNotFound             = "/problems/not-found"
	ProblemTypeConflict             = "/problems/conflict"
	ProblemTypeUnauthorized         = "/problems/unauthorized"
	ProblemTypeInternal             = "/problems/internal-error"
	ProblemTypeBadRequest           = "/problems/bad-request"
	ProblemTypeGenerationFailed     = "/problems/generation-failed"
	ProblemTypeGenerationNotAllowed = "/problems/generation-unavailable"
	ProblemTypePersistenceFailed    = "/problems/persistence-failed"
)

// FieldError descreve um campo inválido de um formulário
type FieldError struct {
	Field string
	Tag   string
}

// ValidationError lista os campos obrigatórios ausentes ou inválidos
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return "validation failed: " + strings.Join(names, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// FieldNames retorna os nomes dos campos com problema
func (e *ValidationError) FieldNames() []string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return names
}

// Serviços externos conhecidos
const (
	ServiceGeneration = "generation"
	ServiceStore      = "store"
)

// ExternalServiceError representa a falha de uma chamada a um serviço externo.
// Credential indica problema de chave de API (ausente ou inválida).
type ExternalServiceError struct {
	Service    string
	Credential bool
	Err        error
}

func (e *ExternalServiceError) Error() string {
	msg := e.Service + " service failed"
	if e.Credential {
		msg += " (credential)"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

func (e *ExternalServiceError) Is(target error) bool {
	return target == ErrExternalService
}

// IsCredentialError verifica se o erro indica chave de API ausente ou inválida
func IsCredentialError(err error) bool {
	var extErr *ExternalServiceError
	if errors.As(err, &extErr) {
		return extErr.Credential
	}
	return false
}

// ConfigurationError indica uma variável de ambiente obrigatória ausente
type ConfigurationError struct {
	Key string
}

func (e *ConfigurationError) Error() string {
	return "missing configuration: " + e.Key
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}
