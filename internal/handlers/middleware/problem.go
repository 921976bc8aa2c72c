package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/moogar0880/problems"

	"github.com/rafabene/medfy-backend/internal/infrastructure/i18n"
)

// BaseURLContextKey guarda a URL base usada nos tipos RFC 7807
const BaseURLContextKey = "base_url"

const defaultBaseURL = "http://localhost:8080"

// BaseURL adiciona a URL base da API ao contexto
func BaseURL(baseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(BaseURLContextKey, baseURL)
		c.Next()
	}
}

// Translate traduz uma chave com o idioma e o serviço i18n do contexto.
// Sem serviço no contexto, retorna a própria chave.
func Translate(c *gin.Context, key string, params ...map[string]interface{}) string {
	raw, exists := c.Get(I18nServiceContextKey)
	if !exists {
		return key
	}

	service, ok := raw.(*i18n.Service)
	if !ok {
		return key
	}

	return service.T(Language(c), key, params...)
}

// Language retorna o idioma da requisição (pt-BR quando ausente)
func Language(c *gin.Context) string {
	if lang := c.GetString(LanguageContextKey); lang != "" {
		return lang
	}
	return "pt-BR"
}

// NewProblem cria um problem details traduzido para a requisição atual
func NewProblem(c *gin.Context, problemType string, status int, titleKey, detailKey string, params ...map[string]interface{}) *problems.Problem {
	baseURL := c.GetString(BaseURLContextKey)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	problem := problems.NewDetailedProblem(status, Translate(c, detailKey, params...))
	problem.Type = baseURL + problemType
	problem.Title = Translate(c, titleKey, params...)
	problem.Instance = c.Request.URL.Path
	return problem
}

// AbortWithProblem encerra a requisição com o corpo application/problem+json
func AbortWithProblem(c *gin.Context, status int, body any) {
	c.Header("Content-Type", problems.ProblemMediaType)
	c.AbortWithStatusJSON(status, body)
}
