package dto

import (
	"time"

	"github.com/rafabene/medfy-backend/internal/domain/entities"
)

// LaudoRequest representa o formulário de laudo
type LaudoRequest struct {
	PatientName string           `json:"patient_name" binding:"max=200" example:"Maria Silva"`
	Subtype     string           `json:"subtype" binding:"max=100" example:"Ultrassom Abdominal"`
	PatientInfo LaudoInfoRequest `json:"patient_info"`
}

type LaudoInfoRequest struct {
	Age            string `json:"age" example:"42"`
	Sex            string `json:"sex" example:"F"`
	ChiefComplaint string `json:"chief_complaint" example:"dor abdominal"`
	History        string `json:"history"`
	Exam           string `json:"exam"`
	Notes          string `json:"notes"`
}

// ReceitaRequest representa o formulário de receita
type ReceitaRequest struct {
	PatientName string             `json:"patient_name" binding:"max=200"`
	Subtype     string             `json:"subtype" binding:"max=100" example:"Receita Simples"`
	PatientInfo ReceitaInfoRequest `json:"patient_info"`
}

type ReceitaInfoRequest struct {
	Age         string `json:"age"`
	Sex         string `json:"sex"`
	Diagnosis   string `json:"diagnosis"`
	Medications string `json:"medications"`
	Dosage      string `json:"dosage"`
	Duration    string `json:"duration"`
	Notes       string `json:"notes"`
}

// RelatorioRequest representa o formulário de relatório
type RelatorioRequest struct {
	PatientName string               `json:"patient_name" binding:"max=200"`
	Subtype     string               `json:"subtype" binding:"max=100" example:"Alta Hospitalar"`
	PatientInfo RelatorioInfoRequest `json:"patient_info"`
}

type RelatorioInfoRequest struct {
	Age                string `json:"age"`
	Sex                string `json:"sex"`
	AdmissionReason    string `json:"admission_reason"`
	ClinicalCourse     string `json:"clinical_course"`
	Procedures         string `json:"procedures"`
	DischargeCondition string `json:"discharge_condition"`
	Recommendations    string `json:"recommendations"`
	Notes              string `json:"notes"`
}

func (r LaudoInfoRequest) ToEntity() entities.PatientInfo {
	return entities.LaudoInfo{
		Age:            r.Age,
		Sex:            entities.Sex(r.Sex),
		ChiefComplaint: r.ChiefComplaint,
		History:        r.History,
		Exam:           r.Exam,
		Notes:          r.Notes,
	}
}

func (r ReceitaInfoRequest) ToEntity() entities.PatientInfo {
	return entities.ReceitaInfo{
		Age:         r.Age,
		Sex:         entities.Sex(r.Sex),
		Diagnosis:   r.Diagnosis,
		Medications: r.Medications,
		Dosage:      r.Dosage,
		Duration:    r.Duration,
		Notes:       r.Notes,
	}
}

func (r RelatorioInfoRequest) ToEntity() entities.PatientInfo {
	return entities.RelatorioInfo{
		Age:                r.Age,
		Sex:                entities.Sex(r.Sex),
		AdmissionReason:    r.AdmissionReason,
		ClinicalCourse:     r.ClinicalCourse,
		Procedures:         r.Procedures,
		DischargeCondition: r.DischargeCondition,
		Recommendations:    r.Recommendations,
		Notes:              r.Notes,
	}
}

// DocumentResponse representa um documento gerado
type DocumentResponse struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	Type        string            `json:"type" example:"laudo"`
	Subtype     string            `json:"subtype" example:"Ultrassom Abdominal"`
	PatientName string            `json:"patient_name" example:"Maria Silva"`
	PatientInfo map[string]string `json:"patient_info"`
	Content     *string           `json:"content"`
	Status      string            `json:"status" example:"completed"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// GenerateDocumentResponse traz o documento criado e a lista atualizada
type GenerateDocumentResponse struct {
	Message   string             `json:"message" example:"Laudo gerado com sucesso!"`
	Document  DocumentResponse   `json:"document"`
	Documents []DocumentResponse `json:"documents,omitempty"`
}

// DocumentListResponse representa a lista de documentos do usuário
type DocumentListResponse struct {
	Documents []DocumentResponse `json:"documents"`
	Total     int                `json:"total"`
}

// DocumentStatsResponse conta documentos por categoria
type DocumentStatsResponse struct {
	Total  int            `json:"total"`
	ByType map[string]int `json:"by_type"`
}

// DocumentTypeResponse descreve uma categoria e seu catálogo de subtipos
type DocumentTypeResponse struct {
	Type      string   `json:"type" example:"laudo"`
	Label     string   `json:"label" example:"Laudo"`
	Subtypes  []string `json:"subtypes"`
	MaxTokens int      `json:"max_tokens" example:"1500"`
}

// ToDocumentResponse converte entidade para DTO
func ToDocumentResponse(doc *entities.Document) DocumentResponse {
	info := map[string]string{}
	if doc.PatientInfo != nil {
		info = doc.PatientInfo.Fields()
	}

	return DocumentResponse{
		ID:          doc.ID,
		UserID:      doc.UserID,
		Type:        string(doc.Type),
		Subtype:     doc.Subtype,
		PatientName: doc.PatientName,
		PatientInfo: info,
		Content:     doc.Content,
		Status:      string(doc.Status),
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

// ToDocumentResponses converte uma lista; nil vira lista vazia
func ToDocumentResponses(docs []*entities.Document) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, ToDocumentResponse(d))
	}
	return out
}

func ToDocumentStatsResponse(stats *entities.DocumentStats) DocumentStatsResponse {
	byType := make(map[string]int, len(stats.ByType))
	for t, n := range stats.ByType {
		byType[string(t)] = n
	}
	return DocumentStatsResponse{Total: stats.Total, ByType: byType}
}

func ToDocumentTypeResponses() []DocumentTypeResponse {
	out := make([]DocumentTypeResponse, 0, len(entities.DocumentTypes))
	for _, t := range entities.DocumentTypes {
		out = append(out, DocumentTypeResponse{
			Type:      string(t),
			Label:     t.Label(),
			Subtypes:  t.Subtypes(),
			MaxTokens: t.MaxOutputTokens(),
		})
	}
	return out
}
