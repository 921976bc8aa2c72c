// Package prompts monta o texto enviado ao modelo de linguagem para cada
// categoria de documento. As funções são puras: mesma entrada, mesmo texto.
package prompts

import (
	"strconv"
	"strings"

	"github.com/rafabene/medfy-backend/internal/domain/entities"
)

// field é uma linha rotulada da seção de informações clínicas
type field struct {
	label    string
	value    string
	optional bool
}

// blueprint descreve o texto fixo de cada categoria
type blueprint struct {
	role      string
	kindLabel string
	request   string
	outline   []string
	closing   string
}

var (
	laudoBlueprint = blueprint{
		role:      "Você é um médico especialista gerando um laudo médico profissional.",
		kindLabel: "LAUDO",
		request:   "Gere um laudo médico completo, profissional e detalhado seguindo o padrão médico brasileiro. Inclua:",
		outline: []string{
			"Identificação do paciente",
			"Indicação clínica",
			"Técnica utilizada",
			"Descrição dos achados",
			"Impressão diagnóstica",
			"Conclusão",
		},
		closing: "Use linguagem técnica apropriada e seja objetivo.",
	}

	receitaBlueprint = blueprint{
		role:      "Você é um médico gerando uma receita médica profissional.",
		kindLabel: "RECEITA",
		request:   "Gere uma receita médica completa e profissional seguindo o padrão brasileiro. Inclua:",
		outline: []string{
			"Identificação do paciente",
			"Prescrição detalhada dos medicamentos",
			"Posologia clara e específica",
			"Orientações de uso",
			"Duração do tratamento",
			"Recomendações gerais",
		},
		closing: "Use linguagem técnica apropriada e seja claro nas instruções.",
	}

	relatorioBlueprint = blueprint{
		role:      "Você é um médico gerando um relatório médico profissional.",
		kindLabel: "RELATÓRIO",
		request:   "Gere um relatório médico completo e profissional seguindo o padrão brasileiro. Inclua:",
		outline: []string{
			"Identificação do paciente",
			"Resumo do caso",
			"Evolução clínica detalhada",
			"Procedimentos e tratamentos realizados",
			"Condição atual do paciente",
			"Recomendações e orientações",
			"Conclusão",
		},
		closing: "Use linguagem técnica apropriada e seja detalhado.",
	}
)

// Compose monta o prompt da categoria correspondente à variante de info
func Compose(patientName, subtype string, info entities.PatientInfo) string {
	switch v := info.(type) {
	case entities.LaudoInfo:
		return Laudo(patientName, subtype, v)
	case entities.ReceitaInfo:
		return Receita(patientName, subtype, v)
	case entities.RelatorioInfo:
		return Relatorio(patientName, subtype, v)
	}
	return ""
}

// Laudo monta o prompt de um laudo médico
func Laudo(patientName, subtype string, info entities.LaudoInfo) string {
	return render(laudoBlueprint, patientName, info.Age, info.Sex, subtype, []field{
		{label: "Queixa Principal", value: info.ChiefComplaint},
		{label: "Histórico", value: info.History},
		{label: "Exame Realizado", value: info.Exam},
		{label: "Observações", value: info.Notes, optional: true},
	})
}

// Receita monta o prompt de uma receita médica
func Receita(patientName, subtype string, info entities.ReceitaInfo) string {
	return render(receitaBlueprint, patientName, info.Age, info.Sex, subtype, []field{
		{label: "Diagnóstico", value: info.Diagnosis},
		{label: "Medicamentos", value: info.Medications},
		{label: "Posologia", value: info.Dosage},
		{label: "Duração do Tratamento", value: info.Duration},
		{label: "Observações", value: info.Notes, optional: true},
	})
}

// Relatorio monta o prompt de um relatório médico
func Relatorio(patientName, subtype string, info entities.RelatorioInfo) string {
	return render(relatorioBlueprint, patientName, info.Age, info.Sex, subtype, []field{
		{label: "Motivo da Internação", value: info.AdmissionReason, optional: true},
		{label: "Evolução Clínica", value: info.ClinicalCourse},
		{label: "Procedimentos Realizados", value: info.Procedures},
		{label: "Condição na Alta", value: info.DischargeCondition, optional: true},
		{label: "Recomendações", value: info.Recommendations},
		{label: "Observações", value: info.Notes, optional: true},
	})
}

func render(bp blueprint, patientName, age string, sex entities.Sex, subtype string, clinical []field) string {
	var b strings.Builder

	b.WriteString(bp.role)
	b.WriteString("\n\nDADOS DO PACIENTE:\n")
	writeField(&b, "Nome", patientName)
	writeField(&b, "Idade", age+" anos")
	writeField(&b, "Sexo", string(sex))

	b.WriteString("\nTIPO DE ")
	b.WriteString(bp.kindLabel)
	b.WriteString(": ")
	b.WriteString(subtype)
	b.WriteString("\n\nINFORMAÇÕES CLÍNICAS:\n")
	for _, f := range clinical {
		if f.optional && strings.TrimSpace(f.value) == "" {
			continue
		}
		writeField(&b, f.label, f.value)
	}

	b.WriteString("\n")
	b.WriteString(bp.request)
	b.WriteString("\n")
	for i, item := range bp.outline {
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(item)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(bp.closing)

	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	b.WriteString("- ")
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\n")
}
