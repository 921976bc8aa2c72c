package entities

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidDocumentData = errors.New("invalid document data")
)

// Sex do paciente, como no formulário original (M/F)
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// PatientInfo é a união dos dados clínicos de cada categoria de documento.
// Cada variante tem um conjunto fixo de campos.
type PatientInfo interface {
	DocumentType() DocumentType
	// Fields retorna os campos preenchidos, sem os vazios
	Fields() map[string]string
	// Normalized retorna uma cópia com espaços removidos e sexo padrão aplicado
	Normalized() PatientInfo

	isPatientInfo()
}

// LaudoInfo são os dados clínicos de um laudo
type LaudoInfo struct {
	Age            string `json:"age" validate:"required"`
	Sex            Sex    `json:"sex,omitempty" validate:"omitempty,oneof=M F"`
	ChiefComplaint string `json:"chief_complaint" validate:"required"`
	History        string `json:"history,omitempty"`
	Exam           string `json:"exam,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// ReceitaInfo são os dados clínicos de uma receita
type ReceitaInfo struct {
	Age         string `json:"age" validate:"required"`
	Sex         Sex    `json:"sex,omitempty" validate:"omitempty,oneof=M F"`
	Diagnosis   string `json:"diagnosis" validate:"required"`
	Medications string `json:"medications" validate:"required"`
	Dosage      string `json:"dosage,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// RelatorioInfo são os dados clínicos de um relatório
type RelatorioInfo struct {
	Age                string `json:"age" validate:"required"`
	Sex                Sex    `json:"sex,omitempty" validate:"omitempty,oneof=M F"`
	AdmissionReason    string `json:"admission_reason,omitempty"`
	ClinicalCourse     string `json:"clinical_course" validate:"required"`
	Procedures         string `json:"procedures" validate:"required"`
	DischargeCondition string `json:"discharge_condition,omitempty"`
	Recommendations    string `json:"recommendations,omitempty"`
	Notes              string `json:"notes,omitempty"`
}

func (LaudoInfo) DocumentType() DocumentType     { return DocumentTypeLaudo }
func (ReceitaInfo) DocumentType() DocumentType   { return DocumentTypeReceita }
func (RelatorioInfo) DocumentType() DocumentType { return DocumentTypeRelatorio }

func (LaudoInfo) isPatientInfo()     {}
func (ReceitaInfo) isPatientInfo()   {}
func (RelatorioInfo) isPatientInfo() {}

func (i LaudoInfo) Fields() map[string]string {
	return compactFields(map[string]string{
		"age":             i.Age,
		"sex":             string(i.Sex),
		"chief_complaint": i.ChiefComplaint,
		"history":         i.History,
		"exam":            i.Exam,
		"notes":           i.Notes,
	})
}

func (i ReceitaInfo) Fields() map[string]string {
	return compactFields(map[string]string{
		"age":         i.Age,
		"sex":         string(i.Sex),
		"diagnosis":   i.Diagnosis,
		"medications": i.Medications,
		"dosage":      i.Dosage,
		"duration":    i.Duration,
		"notes":       i.Notes,
	})
}

func (i RelatorioInfo) Fields() map[string]string {
	return compactFields(map[string]string{
		"age":                 i.Age,
		"sex":                 string(i.Sex),
		"admission_reason":    i.AdmissionReason,
		"clinical_course":     i.ClinicalCourse,
		"procedures":          i.Procedures,
		"discharge_condition": i.DischargeCondition,
		"recommendations":     i.Recommendations,
		"notes":               i.Notes,
	})
}

func (i LaudoInfo) Normalized() PatientInfo {
	return LaudoInfo{
		Age:            trim(i.Age),
		Sex:            normalizeSex(i.Sex),
		ChiefComplaint: trim(i.ChiefComplaint),
		History:        trim(i.History),
		Exam:           trim(i.Exam),
		Notes:          trim(i.Notes),
	}
}

func (i ReceitaInfo) Normalized() PatientInfo {
	return ReceitaInfo{
		Age:         trim(i.Age),
		Sex:         normalizeSex(i.Sex),
		Diagnosis:   trim(i.Diagnosis),
		Medications: trim(i.Medications),
		Dosage:      trim(i.Dosage),
		Duration:    trim(i.Duration),
		Notes:       trim(i.Notes),
	}
}

func (i RelatorioInfo) Normalized() PatientInfo {
	return RelatorioInfo{
		Age:                trim(i.Age),
		Sex:                normalizeSex(i.Sex),
		AdmissionReason:    trim(i.AdmissionReason),
		ClinicalCourse:     trim(i.ClinicalCourse),
		Procedures:         trim(i.Procedures),
		DischargeCondition: trim(i.DischargeCondition),
		Recommendations:    trim(i.Recommendations),
		Notes:              trim(i.Notes),
	}
}

// DecodePatientInfo reconstrói a variante correta a partir do JSON persistido
func DecodePatientInfo(t DocumentType, raw []byte) (PatientInfo, error) {
	if len(raw) == 0 {
		raw = []byte("{}")
	}

	var (
		info PatientInfo
		err  error
	)

	switch t {
	case DocumentTypeLaudo:
		var v LaudoInfo
		err = json.Unmarshal(raw, &v)
		info = v
	case DocumentTypeReceita:
		var v ReceitaInfo
		err = json.Unmarshal(raw, &v)
		info = v
	case DocumentTypeRelatorio:
		var v RelatorioInfo
		err = json.Unmarshal(raw, &v)
		info = v
	default:
		return nil, fmt.Errorf("%w: unknown document type %q", ErrInvalidDocumentData, t)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: patient_info: %v", ErrInvalidDocumentData, err)
	}

	return info, nil
}

// EncodePatientInfo serializa apenas os campos preenchidos
func EncodePatientInfo(info PatientInfo) ([]byte, error) {
	if info == nil {
		return nil, fmt.Errorf("%w: patient_info is required", ErrInvalidDocumentData)
	}
	return json.Marshal(info.Fields())
}

func compactFields(fields map[string]string) map[string]string {
	for k, v := range fields {
		if v == "" {
			delete(fields, k)
		}
	}
	return fields
}

func normalizeSex(s Sex) Sex {
	v := Sex(strings.ToUpper(trim(string(s))))
	if v == "" {
		return SexMale
	}
	return v
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
