package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rafabene/medfy-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/medfy-backend/internal/domain/errors"
	"github.com/rafabene/medfy-backend/internal/domain/ports"
	"github.com/rafabene/medfy-backend/internal/domain/prompts"
	"github.com/rafabene/medfy-backend/internal/domain/repositories"
)

// Stage é a etapa do fluxo de geração em que uma falha ocorreu
type Stage string

const (
	StageIdle       Stage = "idle"
	StageValidating Stage = "validating"
	StageComposing  Stage = "composing"
	StageGenerating Stage = "generating"
	StagePersisting Stage = "persisting"
	StageRefreshing Stage = "refreshing"
)

// WorkflowError identifica a etapa e a categoria de documento de uma falha
type WorkflowError struct {
	Stage Stage
	Type  entities.DocumentType
	Err   error
}

func (e *WorkflowError) Error() string {
	return fmt.Sprintf("%s workflow failed at %s: %v", e.Type, e.Stage, e.Err)
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

// GenerateDocumentInput são os dados do formulário de um documento
type GenerateDocumentInput struct {
	PatientName string
	Subtype     string
	Info        entities.PatientInfo
}

// GenerateDocumentResult traz o documento criado e a lista atualizada do dono.
// Documents é nil quando a atualização da lista falhou (o documento foi salvo).
type GenerateDocumentResult struct {
	Document  *entities.Document
	Documents []*entities.Document
}

// DocumentService orquestra validação, prompt, geração, persistência e atualização da lista
type DocumentService struct {
	docRepo   repositories.DocumentRepository
	generator ports.Generator
	publisher ports.EventPublisher
	validate  *validator.Validate
	logger    ports.Logger
}

// NewDocumentService cria um novo DocumentService
func NewDocumentService(
	docRepo repositories.DocumentRepository,
	generator ports.Generator,
	publisher ports.EventPublisher,
	logger ports.Logger,
) *DocumentService {
	return &DocumentService{
		docRepo:   docRepo,
		generator: generator,
		publisher: publisher,
		validate:  newFormValidator(),
		logger:    logger.With("component", "document_workflow"),
	}
}

// newFormValidator reporta erros com o nome JSON dos campos
func newFormValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Generate executa o fluxo completo para um documento.
// Cada chamada externa é feita uma única vez; nenhuma etapa é repetida.
func (s *DocumentService) Generate(ctx context.Context, userID string, input GenerateDocumentInput) (*GenerateDocumentResult, error) {
	var docType entities.DocumentType
	if input.Info != nil {
		docType = input.Info.DocumentType()
	}
	log := s.logger.With("user_id", userID, "type", docType)

	// validating
	doc, err := s.buildDocument(userID, input)
	if err != nil {
		log.Info("document form rejected", "error", err)
		return nil, &WorkflowError{Stage: StageValidating, Type: docType, Err: err}
	}

	// composing
	prompt := prompts.Compose(doc.PatientName, doc.Subtype, doc.PatientInfo)

	// generating
	content, err := s.generator.Generate(ctx, ports.GenerationRequest{
		Prompt:    prompt,
		MaxTokens: docType.MaxOutputTokens(),
	})
	if err != nil {
		log.Error("document generation failed", "error", err, "credential", domainerrors.IsCredentialError(err))
		return nil, &WorkflowError{Stage: StageGenerating, Type: docType, Err: asExternal(domainerrors.ServiceGeneration, err)}
	}

	// persisting
	doc.Content = &content
	if err := s.docRepo.Create(ctx, doc); err != nil {
		log.Error("failed to persist document", "error", err)
		return nil, &WorkflowError{Stage: StagePersisting, Type: docType, Err: asExternal(domainerrors.ServiceStore, err)}
	}

	log.Info("document generated", "document_id", doc.ID, "subtype", doc.Subtype)

	// refreshing
	result := &GenerateDocumentResult{Document: doc}
	docs, err := s.Refresh(ctx, userID)
	if err != nil {
		log.Warn("failed to refresh documents after insert", "document_id", doc.ID, "error", err)
		return result, nil
	}
	result.Documents = docs

	return result, nil
}

// buildDocument valida o formulário e monta o documento a persistir
func (s *DocumentService) buildDocument(userID string, input GenerateDocumentInput) (*entities.Document, error) {
	var fields []domainerrors.FieldError

	patientName := strings.TrimSpace(input.PatientName)
	if patientName == "" {
		fields = append(fields, domainerrors.FieldError{Field: "patient_name", Tag: "required"})
	}

	subtype := strings.TrimSpace(input.Subtype)
	if subtype == "" {
		fields = append(fields, domainerrors.FieldError{Field: "subtype", Tag: "required"})
	}

	if input.Info == nil {
		fields = append(fields, domainerrors.FieldError{Field: "patient_info", Tag: "required"})
		return nil, &domainerrors.ValidationError{Fields: fields}
	}

	info := input.Info.Normalized()
	if err := s.validate.Struct(info); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, err
		}
		for _, fe := range verrs {
			fields = append(fields, domainerrors.FieldError{Field: fe.Field(), Tag: fe.Tag()})
		}
	}

	if len(fields) > 0 {
		return nil, &domainerrors.ValidationError{Fields: fields}
	}

	return &entities.Document{
		UserID:      userID,
		Type:        info.DocumentType(),
		Subtype:     subtype,
		PatientName: patientName,
		PatientInfo: info,
		Status:      entities.DocumentStatusCompleted,
	}, nil
}

// List retorna os documentos do usuário, do mais recente para o mais antigo
func (s *DocumentService) List(ctx context.Context, userID string) ([]*entities.Document, error) {
	docs, err := s.docRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, asExternal(domainerrors.ServiceStore, err)
	}
	return docs, nil
}

// Refresh relista os documentos e avisa as conexões do usuário
func (s *DocumentService) Refresh(ctx context.Context, userID string) ([]*entities.Document, error) {
	docs, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, ports.Event{Name: ports.EventDocumentsRefreshed, Payload: docs})
	return docs, nil
}

// Search busca documentos pelo nome do paciente (substring, sem diferenciar maiúsculas)
func (s *DocumentService) Search(ctx context.Context, userID, patientName string) ([]*entities.Document, error) {
	query := strings.TrimSpace(patientName)
	if query == "" {
		return nil, &domainerrors.ValidationError{
			Fields: []domainerrors.FieldError{{Field: "patient", Tag: "required"}},
		}
	}

	docs, err := s.docRepo.SearchByOwnerAndName(ctx, userID, query)
	if err != nil {
		return nil, asExternal(domainerrors.ServiceStore, err)
	}
	return docs, nil
}

// Get retorna um documento do usuário
func (s *DocumentService) Get(ctx context.Context, userID, id string) (*entities.Document, error) {
	doc, err := s.docRepo.FindByOwnerAndID(ctx, userID, id)
	if err != nil {
		return nil, asExternal(domainerrors.ServiceStore, err)
	}
	if doc == nil {
		return nil, domainerrors.ErrDocumentNotFound
	}
	return doc, nil
}

// Stats conta os documentos do usuário por categoria
func (s *DocumentService) Stats(ctx context.Context, userID string) (*entities.DocumentStats, error) {
	counts, err := s.docRepo.CountByType(ctx, userID)
	if err != nil {
		return nil, asExternal(domainerrors.ServiceStore, err)
	}

	stats := &entities.DocumentStats{ByType: make(map[entities.DocumentType]int, len(entities.DocumentTypes))}
	for _, t := range entities.DocumentTypes {
		stats.ByType[t] = counts[t]
		stats.Total += counts[t]
	}
	return stats, nil
}

// asExternal embrulha err como falha do serviço indicado, preservando um ExternalServiceError existente
func asExternal(service string, err error) error {
	var extErr *domainerrors.ExternalServiceError
	if errors.As(err, &extErr) {
		return err
	}
	return &domainerrors.ExternalServiceError{Service: service, Err: err}
}
