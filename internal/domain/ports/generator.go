package ports

import "context"

// GenerationRequest é um pedido de texto ao modelo de linguagem
type GenerationRequest struct {
	Prompt    string
	MaxTokens int
}

// Generator gera texto a partir de um prompt.
// Uma chamada por pedido: quem chama não deve repetir em caso de erro.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}
