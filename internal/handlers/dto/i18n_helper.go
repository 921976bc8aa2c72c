package dto

import (
	"github.com/gin-gonic/gin"

	"github.com/rafabene/medfy-backend/internal/handlers/middleware"
)

// T é um helper para traduzir mensagens no contexto do Gin
// Uso: dto.T(c, "document.generated.laudo")
func T(c *gin.Context, key string, params ...map[string]interface{}) string {
	return middleware.Translate(c, key, params...)
}

// GetLanguage retorna o idioma configurado no contexto da requisição
func GetLanguage(c *gin.Context) string {
	return middleware.Language(c)
}
