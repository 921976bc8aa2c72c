package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/medfy-backend/docs"
	"github.com/rafabene/medfy-backend/internal/domain/ports"
	httphandlers "github.com/rafabene/medfy-backend/internal/handlers/http"
	"github.com/rafabene/medfy-backend/internal/infrastructure/auth"
	"github.com/rafabene/medfy-backend/internal/infrastructure/config"
	"github.com/rafabene/medfy-backend/internal/infrastructure/events"
	"github.com/rafabene/medfy-backend/internal/infrastructure/i18n"
	"github.com/rafabene/medfy-backend/internal/infrastructure/llm/openai"
	"github.com/rafabene/medfy-backend/internal/infrastructure/logging"
	"github.com/rafabene/medfy-backend/internal/infrastructure/persistence/postgres"
	"github.com/rafabene/medfy-backend/internal/infrastructure/persistence/redis"
	"github.com/rafabene/medfy-backend/internal/services"
)

//	@title						Medfy API
//	@version					1.0
//	@description				Geração de laudos, receitas e relatórios médicos.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Token de acesso no formato "Bearer {token}"
func main() {
	// Carregar configurações
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Inicializar logger
	logger := logging.NewSlogLogger(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("starting medfy backend",
		"env", cfg.Env,
		"version", "dev",
	)

	// Conectar ao banco de dados
	db, err := postgres.NewDatabaseConnection(&cfg.Database, !cfg.IsProduction(), logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		log.Fatal(err)
	}

	if cfg.Database.Migrate {
		if err := postgres.RunMigrations(db, logger); err != nil {
			logger.Error("failed to run migrations", "error", err)
			log.Fatal(err)
		}
	}

	healthChecks := map[string]httphandlers.Pinger{
		"database": func(context.Context) error { return postgres.Ping(db) },
	}

	// Revogação de tokens: Redis quando configurado, memória caso contrário
	var revocations ports.RevocationStore
	if cfg.Redis.URL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		store, err := redis.NewRevocationStore(ctx, cfg.Redis.URL)
		cancel()
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			log.Fatal(err)
		}
		defer store.Close()

		revocations = store
		healthChecks["redis"] = store.Ping
		logger.Info("token revocation backed by redis")
	} else {
		revocations = auth.NewMemoryRevocationStore()
		logger.Warn("REDIS_URL not set, token revocation kept in memory")
	}

	// Inicializar i18n
	locales := i18n.DefaultLocales()
	if cfg.I18n.LocalesDir != "" {
		locales = os.DirFS(cfg.I18n.LocalesDir)
	}
	i18nService, err := i18n.NewService(locales, cfg.I18n.DefaultLanguage)
	if err != nil {
		logger.Error("failed to initialize i18n", "error", err)
		log.Fatal(err)
	}
	logger.Info("i18n initialized",
		"default_language", i18nService.GetDefaultLanguage(),
		"supported_languages", i18nService.GetSupportedLanguages(),
	)

	if !cfg.HasOpenAIKey() {
		logger.Warn("OPENAI_API_KEY not set, document generation will fail until it is configured")
	}
	generator := openai.NewClient(openai.Config{
		APIKey:  cfg.OpenAI.APIKey,
		Model:   cfg.OpenAI.Model,
		BaseURL: cfg.OpenAI.BaseURL,
		Timeout: cfg.OpenAI.Timeout,
	}, logger)

	hub := events.NewHub(events.DefaultBufferSize, logger)
	tokens := auth.NewJWTIssuer(cfg.JWT.Secret, cfg.JWT.AccessExpiry)

	// Inicializar repositories
	userRepo := postgres.NewUserRepository(db)
	documentRepo := postgres.NewDocumentRepository(db)
	uow := postgres.NewUnitOfWork(db)

	// Inicializar services
	authService := services.NewAuthService(userRepo, uow, tokens, revocations, hub, logger)
	documentService := services.NewDocumentService(documentRepo, generator, hub, logger)

	// Setup Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	docs.SwaggerInfo.Host = ""
	router := httphandlers.NewRouter(httphandlers.RouterConfig{
		Logger:         logger,
		I18n:           i18nService,
		Authenticator:  authService,
		BaseURL:        cfg.Server.BaseURL,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Swagger:        !cfg.IsProduction(),
		Health:         httphandlers.NewHealthHandler(healthChecks),
		Auth:           httphandlers.NewAuthHandler(authService),
		Documents:      httphandlers.NewDocumentHandler(documentService),
		Events:         httphandlers.NewEventsHandler(hub, documentService, authService, cfg.CORS.AllowedOrigins, logger),
	})

	// HTTP Server
	srv := &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Info("server starting",
			"host", cfg.Server.Host,
			"port", cfg.Server.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			log.Fatal(err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("server exited")
}
