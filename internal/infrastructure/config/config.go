package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	domainerrors "github.com/rafabene/medfy-backend/internal/domain/errors"
)

const devJWTSecret = "dev-secret"

// Config contém todas as configurações da aplicação
type Config struct {
	Env      string
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	OpenAI   OpenAIConfig
	Logging  LoggingConfig
	CORS     CORSConfig
	I18n     I18nConfig
}

type ServerConfig struct {
	Port    string
	Host    string
	BaseURL string // URL base da API para construir URIs RFC 7807
}

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	MinConns    int
	MaxIdleTime int
	Migrate     bool // aplicar migrações na inicialização
}

type RedisConfig struct {
	URL string // vazio: revogação de tokens em memória
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type LoggingConfig struct {
	Level  string
	Format string // json | text
}

type CORSConfig struct {
	AllowedOrigins []string
}

type I18nConfig struct {
	LocalesDir      string // vazio: usa as traduções embutidas
	DefaultLanguage string
}

// Load carrega as configurações do ambiente, lendo antes o arquivo .env se existir
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	config := &Config{
		Env: v.GetString("ENV"),
		Server: ServerConfig{
			Port:    v.GetString("PORT"),
			Host:    v.GetString("HOST"),
			BaseURL: v.GetString("API_BASE_URL"),
		},
		Database: DatabaseConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetInt("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASS"),
			DBName:      v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSL_MODE"),
			MaxConns:    v.GetInt("DB_MAX_CONNS"),
			MinConns:    v.GetInt("DB_MIN_CONNS"),
			MaxIdleTime: v.GetInt("DB_MAX_IDLE_TIME"),
			Migrate:     v.GetBool("DB_MIGRATE"),
		},
		Redis: RedisConfig{
			URL: v.GetString("REDIS_URL"),
		},
		JWT: JWTConfig{
			Secret:       v.GetString("JWT_SECRET"),
			AccessExpiry: v.GetDuration("JWT_ACCESS_EXPIRY"),
		},
		OpenAI: OpenAIConfig{
			APIKey:  v.GetString("OPENAI_API_KEY"),
			Model:   v.GetString("OPENAI_MODEL"),
			BaseURL: v.GetString("OPENAI_BASE_URL"),
			Timeout: v.GetDuration("OPENAI_TIMEOUT"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		I18n: I18nConfig{
			LocalesDir:      v.GetString("I18N_LOCALES_DIR"),
			DefaultLanguage: v.GetString("I18N_DEFAULT_LANGUAGE"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("API_BASE_URL", "http://localhost:8080")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("DB_MAX_IDLE_TIME", 300)
	v.SetDefault("DB_MIGRATE", true)
	v.SetDefault("JWT_ACCESS_EXPIRY", "24h")
	v.SetDefault("OPENAI_MODEL", "gpt-4o")
	v.SetDefault("OPENAI_TIMEOUT", "120s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("I18N_DEFAULT_LANGUAGE", "pt-BR")
}

// Validate verifica as configurações obrigatórias.
// Credenciais do banco são fatais; a chave da OpenAI só é verificada na geração.
func (c *Config) Validate() error {
	var errs []error

	required := map[string]string{
		"DB_HOST": c.Database.Host,
		"DB_USER": c.Database.User,
		"DB_NAME": c.Database.DBName,
	}
	for _, key := range []string{"DB_HOST", "DB_USER", "DB_NAME"} {
		if strings.TrimSpace(required[key]) == "" {
			errs = append(errs, &domainerrors.ConfigurationError{Key: key})
		}
	}

	if strings.TrimSpace(c.JWT.Secret) == "" {
		if c.IsProduction() {
			errs = append(errs, &domainerrors.ConfigurationError{Key: "JWT_SECRET"})
		} else {
			c.JWT.Secret = devJWTSecret
		}
	}

	if c.JWT.AccessExpiry <= 0 {
		errs = append(errs, fmt.Errorf("JWT_ACCESS_EXPIRY must be positive, got %s", c.JWT.AccessExpiry))
	}

	return errors.Join(errs...)
}

// IsProduction indica se a aplicação roda em produção
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Env))
	return env == "production" || env == "prod"
}

// HasOpenAIKey indica se a chave da OpenAI foi configurada
func (c *Config) HasOpenAIKey() bool {
	return strings.TrimSpace(c.OpenAI.APIKey) != ""
}

// DSN retorna a connection string do PostgreSQL
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
