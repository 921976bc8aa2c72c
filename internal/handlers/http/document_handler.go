package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/medfy-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/medfy-backend/internal/domain/errors"
	"github.com/rafabene/medfy-backend/internal/handlers/dto"
	"github.com/rafabene/medfy-backend/internal/handlers/middleware"
	"github.com/rafabene/medfy-backend/internal/services"
)

// DocumentUseCases são as operações de documentos usadas pelo handler
type DocumentUseCases interface {
	Generate(ctx context.Context, userID string, input services.GenerateDocumentInput) (*services.GenerateDocumentResult, error)
	Refresh(ctx context.Context, userID string) ([]*entities.Document, error)
	Search(ctx context.Context, userID, patientName string) ([]*entities.Document, error)
	Get(ctx context.Context, userID, id string) (*entities.Document, error)
	Stats(ctx context.Context, userID string) (*entities.DocumentStats, error)
}

var _ DocumentUseCases = (*services.DocumentService)(nil)

// DocumentHandler lida com requisições HTTP relacionadas a documentos
type DocumentHandler struct {
	documents DocumentUseCases
}

// NewDocumentHandler cria um novo DocumentHandler
func NewDocumentHandler(documents DocumentUseCases) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// GenerateLaudo gera um laudo
//
//	@Summary		Gera um laudo
//	@Tags			documents
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		dto.LaudoRequest	true	"Formulário do laudo"
//	@Success		201		{object}	dto.GenerateDocumentResponse
//	@Failure		400		{object}	dto.ErrorResponse
//	@Failure		401		{object}	dto.ErrorResponse
//	@Failure		502		{object}	dto.ErrorResponse
//	@Failure		503		{object}	dto.ErrorResponse
//	@Router			/documents/laudos [post]
func (h *DocumentHandler) GenerateLaudo(c *gin.Context) {
	var req dto.LaudoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	h.generate(c, entities.DocumentTypeLaudo, services.GenerateDocumentInput{
		PatientName: req.PatientName,
		Subtype:     req.Subtype,
		Info:        req.PatientInfo.ToEntity(),
	})
}

// GenerateReceita gera uma receita
//
//	@Summary		Gera uma receita
//	@Tags			documents
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		dto.ReceitaRequest	true	"Formulário da receita"
//	@Success		201		{object}	dto.GenerateDocumentResponse
//	@Failure		400		{object}	dto.ErrorResponse
//	@Failure		401		{object}	dto.ErrorResponse
//	@Failure		502		{object}	dto.ErrorResponse
//	@Failure		503		{object}	dto.ErrorResponse
//	@Router			/documents/receitas [post]
func (h *DocumentHandler) GenerateReceita(c *gin.Context) {
	var req dto.ReceitaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	h.generate(c, entities.DocumentTypeReceita, services.GenerateDocumentInput{
		PatientName: req.PatientName,
		Subtype:     req.Subtype,
		Info:        req.PatientInfo.ToEntity(),
	})
}

// GenerateRelatorio gera um relatório
//
//	@Summary		Gera um relatório
//	@Tags			documents
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		dto.RelatorioRequest	true	"Formulário do relatório"
//	@Success		201		{object}	dto.GenerateDocumentResponse
//	@Failure		400		{object}	dto.ErrorResponse
//	@Failure		401		{object}	dto.ErrorResponse
//	@Failure		502		{object}	dto.ErrorResponse
//	@Failure		503		{object}	dto.ErrorResponse
//	@Router			/documents/relatorios [post]
func (h *DocumentHandler) GenerateRelatorio(c *gin.Context) {
	var req dto.RelatorioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	h.generate(c, entities.DocumentTypeRelatorio, services.GenerateDocumentInput{
		PatientName: req.PatientName,
		Subtype:     req.Subtype,
		Info:        req.PatientInfo.ToEntity(),
	})
}

func (h *DocumentHandler) generate(c *gin.Context, kind entities.DocumentType, input services.GenerateDocumentInput) {
	result, err := h.documents.Generate(c.Request.Context(), middleware.UserIDFromContext(c), input)
	if err != nil {
		respondError(c, err, string(kind))
		return
	}

	resp := dto.GenerateDocumentResponse{
		Message:  dto.T(c, "document.generated."+string(kind)),
		Document: dto.ToDocumentResponse(result.Document),
	}
	if result.Documents != nil {
		resp.Documents = dto.ToDocumentResponses(result.Documents)
	}

	c.JSON(http.StatusCreated, resp)
}

// ListDocuments lista os documentos do usuário, mais recentes primeiro
//
//	@Summary		Lista documentos
//	@Tags			documents
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	dto.DocumentListResponse
//	@Failure		401	{object}	dto.ErrorResponse
//	@Router			/documents [get]
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	docs, err := h.documents.Refresh(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respondError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, dto.DocumentListResponse{
		Documents: dto.ToDocumentResponses(docs),
		Total:     len(docs),
	})
}

// SearchDocuments busca documentos pelo nome do paciente
//
//	@Summary		Busca documentos por paciente
//	@Tags			documents
//	@Produce		json
//	@Security		BearerAuth
//	@Param			patient	query		string	true	"Parte do nome do paciente"
//	@Success		200		{object}	dto.DocumentListResponse
//	@Failure		400		{object}	dto.ErrorResponse
//	@Failure		401		{object}	dto.ErrorResponse
//	@Router			/documents/search [get]
func (h *DocumentHandler) SearchDocuments(c *gin.Context) {
	docs, err := h.documents.Search(c.Request.Context(), middleware.UserIDFromContext(c), c.Query("patient"))
	if err != nil {
		var validationErr *domainerrors.ValidationError
		if errors.As(err, &validationErr) {
			resp := dto.NewErrorResponseI18n(c, domainerrors.ProblemTypeValidation,
				"error.validation.title", "error.search.empty_query", http.StatusBadRequest)
			resp.Errors = dto.FieldErrors(c, validationErr)
			abort(c, http.StatusBadRequest, resp)
			return
		}
		respondError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, dto.DocumentListResponse{
		Documents: dto.ToDocumentResponses(docs),
		Total:     len(docs),
	})
}

// GetDocument retorna um documento do usuário
//
//	@Summary		Detalhe de um documento
//	@Tags			documents
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"ID do documento"
//	@Success		200	{object}	dto.DocumentResponse
//	@Failure		401	{object}	dto.ErrorResponse
//	@Failure		404	{object}	dto.ErrorResponse
//	@Router			/documents/{id} [get]
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	doc, err := h.documents.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		respondError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// GetStats conta os documentos do usuário por categoria
//
//	@Summary		Estatísticas de documentos
//	@Tags			documents
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	dto.DocumentStatsResponse
//	@Failure		401	{object}	dto.ErrorResponse
//	@Router			/documents/stats [get]
func (h *DocumentHandler) GetStats(c *gin.Context) {
	stats, err := h.documents.Stats(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respondError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToDocumentStatsResponse(stats))
}

// ListDocumentTypes retorna as categorias e seus subtipos sugeridos
//
//	@Summary		Categorias de documento
//	@Tags			documents
//	@Produce		json
//	@Success		200	{array}	dto.DocumentTypeResponse
//	@Router			/document-types [get]
func (h *DocumentHandler) ListDocumentTypes(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToDocumentTypeResponses())
}
