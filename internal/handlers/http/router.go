package http

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/rafabene/medfy-backend/internal/domain/ports"
	"github.com/rafabene/medfy-backend/internal/handlers/middleware"
	"github.com/rafabene/medfy-backend/internal/infrastructure/i18n"
)

// RouterConfig reúne handlers e middlewares da API
type RouterConfig struct {
	Logger         ports.Logger
	I18n           *i18n.Service
	Authenticator  middleware.Authenticator
	BaseURL        string
	AllowedOrigins []string
	Swagger        bool

	Health    *HealthHandler
	Auth      *AuthHandler
	Documents *DocumentHandler
	Events    *EventsHandler
}

// NewRouter monta o gin.Engine com todas as rotas em /api/v1
func NewRouter(cfg RouterConfig) *gin.Engine {
	UseJSONFieldNames()

	router := gin.New()
	router.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.RequestLogger(cfg.Logger),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.BaseURL(cfg.BaseURL),
		middleware.NewI18nMiddleware(cfg.I18n).DetectLanguage(),
	)

	router.GET("/health", cfg.Health.Health)

	if cfg.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireAuth := middleware.RequireAuth(cfg.Authenticator)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", cfg.Health.Health)

		auth := v1.Group("/auth")
		{
			auth.POST("/sign-up", cfg.Auth.SignUp)
			auth.POST("/sign-in", cfg.Auth.SignIn)
			auth.POST("/sign-out", requireAuth, cfg.Auth.SignOut)
			auth.GET("/me", requireAuth, cfg.Auth.Me)
			auth.PATCH("/me/profile", requireAuth, cfg.Auth.UpdateProfile)
		}

		v1.GET("/events", requireAuth, cfg.Events.Stream)
		v1.GET("/document-types", cfg.Documents.ListDocumentTypes)

		documents := v1.Group("/documents", requireAuth)
		{
			documents.GET("", cfg.Documents.ListDocuments)
			documents.GET("/search", cfg.Documents.SearchDocuments)
			documents.GET("/stats", cfg.Documents.GetStats)
			documents.GET("/:id", cfg.Documents.GetDocument)
			documents.POST("/laudos", cfg.Documents.GenerateLaudo)
			documents.POST("/receitas", cfg.Documents.GenerateReceita)
			documents.POST("/relatorios", cfg.Documents.GenerateRelatorio)
		}
	}

	return router
}
