package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	domainerrors "github.com/rafabene/medfy-backend/internal/domain/errors"
	"github.com/rafabene/medfy-backend/internal/domain/ports"
)

const (
	DefaultModel   = goopenai.GPT4o
	DefaultTimeout = 120 * time.Second
	temperature    = 0.7
)

// Config reúne os parâmetros do cliente de chat completion
type Config struct {
	APIKey  string
	Model   string
	BaseURL string // vazio: API pública da OpenAI
	Timeout time.Duration
}

// Client implementa ports.Generator com a API de Chat Completions
type Client struct {
	apiKey string
	model  string
	api    *goopenai.Client
	logger ports.Logger
}

var _ ports.Generator = (*Client)(nil)

// NewClient cria o cliente. A chave pode estar vazia: o erro de credencial
// só aparece quando um documento é gerado.
func NewClient(cfg Config, logger ports.Logger) *Client {
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	apiCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	apiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{
		apiKey: strings.TrimSpace(cfg.APIKey),
		model:  cfg.Model,
		api:    goopenai.NewClientWithConfig(apiCfg),
		logger: logger.With("component", "openai"),
	}
}

// Generate envia um único pedido de chat completion, sem novas tentativas
func (c *Client) Generate(ctx context.Context, req ports.GenerationRequest) (string, error) {
	if c.apiKey == "" {
		return "", &domainerrors.ExternalServiceError{
			Service:    domainerrors.ServiceGeneration,
			Credential: true,
			Err:        errors.New("OPENAI_API_KEY is not configured"),
		}
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		c.logger.Error("chat completion failed",
			"model", c.model,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return "", &domainerrors.ExternalServiceError{
			Service:    domainerrors.ServiceGeneration,
			Credential: isCredentialFailure(err),
			Err:        err,
		}
	}

	c.logger.Info("chat completion finished",
		"model", c.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)

	if len(resp.Choices) == 0 {
		return "", &domainerrors.ExternalServiceError{
			Service: domainerrors.ServiceGeneration,
			Err:     fmt.Errorf("response missing choices: %w", domainerrors.ErrEmptyCompletion),
		}
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", &domainerrors.ExternalServiceError{
			Service: domainerrors.ServiceGeneration,
			Err:     domainerrors.ErrEmptyCompletion,
		}
	}

	return content, nil
}

// isCredentialFailure reconhece chave ausente ou inválida: 401 ou mensagem citando a API key
func isCredentialFailure(err error) bool {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusUnauthorized {
			return true
		}
		if code, ok := apiErr.Code.(string); ok && code == "invalid_api_key" {
			return true
		}
	}

	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusUnauthorized {
		return true
	}

	return strings.Contains(strings.ToLower(err.Error()), "api key")
}
