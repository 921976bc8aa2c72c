package entities

import (
	"fmt"
	"time"
)

// DocumentType identifica a categoria do documento médico
type DocumentType string

const (
	DocumentTypeLaudo     DocumentType = "laudo"
	DocumentTypeReceita   DocumentType = "receita"
	DocumentTypeRelatorio DocumentType = "relatorio"
)

// DocumentTypes lista as categorias na ordem em que aparecem na interface
var DocumentTypes = []DocumentType{
	DocumentTypeLaudo,
	DocumentTypeReceita,
	DocumentTypeRelatorio,
}

// ParseDocumentType converte uma string em DocumentType
func ParseDocumentType(s string) (DocumentType, error) {
	switch t := DocumentType(s); t {
	case DocumentTypeLaudo, DocumentTypeReceita, DocumentTypeRelatorio:
		return t, nil
	}
	return "", fmt.Errorf("unknown document type %q", s)
}

// Label retorna o nome da categoria para mensagens ao usuário
func (t DocumentType) Label() string {
	switch t {
	case DocumentTypeLaudo:
		return "Laudo"
	case DocumentTypeReceita:
		return "Receita"
	case DocumentTypeRelatorio:
		return "Relatório"
	}
	return string(t)
}

// MaxOutputTokens limita o tamanho do texto gerado por categoria
func (t DocumentType) MaxOutputTokens() int {
	switch t {
	case DocumentTypeLaudo:
		return 1500
	case DocumentTypeReceita:
		return 1200
	case DocumentTypeRelatorio:
		return 1800
	}
	return 0
}

// Subtypes retorna o catálogo de subtipos sugeridos para a categoria.
// O subtipo é texto livre; o catálogo só orienta o formulário.
func (t DocumentType) Subtypes() []string {
	switch t {
	case DocumentTypeLaudo:
		return []string{
			"Laudo Geral",
			"Raio-X Tórax",
			"Ultrassom Abdominal",
			"Ressonância Magnética",
			"Tomografia",
			"Ecocardiograma",
			"Mamografia",
		}
	case DocumentTypeReceita:
		return []string{
			"Receita Simples",
			"Receita Controlada",
			"Receita Especial",
			"Receita Antimicrobiana",
		}
	case DocumentTypeRelatorio:
		return []string{
			"Evolução Clínica",
			"Alta Hospitalar",
			"Atestado Médico",
			"Relatório Cirúrgico",
			"Parecer Técnico",
			"Sumário de Internação",
		}
	}
	return nil
}

// DocumentStatus representa o estado de um documento
type DocumentStatus string

const (
	DocumentStatusPending   DocumentStatus = "pending"
	DocumentStatusCompleted DocumentStatus = "completed"
	DocumentStatusDraft     DocumentStatus = "draft"
)

// Document é um texto médico gerado junto com os dados do formulário que o originou
type Document struct {
	ID          string
	UserID      string
	Type        DocumentType
	Subtype     string
	PatientName string
	PatientInfo PatientInfo
	Content     *string
	Status      DocumentStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ContentText retorna o conteúdo gerado ou string vazia
func (d *Document) ContentText() string {
	if d.Content == nil {
		return ""
	}
	return *d.Content
}

// BelongsTo verifica se o documento pertence ao usuário
func (d *Document) BelongsTo(userID string) bool {
	return d.UserID != "" && d.UserID == userID
}

// Validate valida regras de negócio da entidade Document
func (d *Document) Validate() error {
	if d.UserID == "" {
		return fmt.Errorf("%w: user_id is required", ErrInvalidDocumentData)
	}

	if _, err := ParseDocumentType(string(d.Type)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocumentData, err)
	}

	if d.PatientInfo == nil {
		return fmt.Errorf("%w: patient_info is required", ErrInvalidDocumentData)
	}

	if d.PatientInfo.DocumentType() != d.Type {
		return fmt.Errorf("%w: patient_info is %s, document is %s",
			ErrInvalidDocumentData, d.PatientInfo.DocumentType(), d.Type)
	}

	switch d.Status {
	case DocumentStatusPending, DocumentStatusCompleted, DocumentStatusDraft:
	default:
		return fmt.Errorf("%w: invalid status %q", ErrInvalidDocumentData, d.Status)
	}

	return nil
}

// DocumentStats conta documentos por categoria
type DocumentStats struct {
	Total  int
	ByType map[DocumentType]int
}
