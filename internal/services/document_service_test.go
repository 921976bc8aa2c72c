package services

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/medfy-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/medfy-backend/internal/domain/errors"
	"github.com/rafabene/medfy-backend/internal/domain/ports"
	"github.com/rafabene/medfy-backend/internal/infrastructure/logging"
)

var _ = Describe("DocumentService", func() {
	const owner = "8f14e45f-ceea-467f-a0e6-8a3c4a5c1b2d"

	var (
		ctx       context.Context
		repo      *fakeDocumentRepository
		generator *fakeGenerator
		publisher *fakePublisher
		service   *DocumentService
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = newFakeDocumentRepository()
		generator = &fakeGenerator{response: "RESULT"}
		publisher = newFakePublisher()
		service = NewDocumentService(repo, generator, publisher, logging.NewNopLogger())
	})

	Describe("Generate", func() {
		It("gera o laudo da Maria Silva e persiste como completed", func() {
			result, err := service.Generate(ctx, owner, GenerateDocumentInput{
				PatientName: "Maria Silva",
				Subtype:     "Ultrassom Abdominal",
				Info: entities.LaudoInfo{
					Age:            "42",
					Sex:            entities.SexFemale,
					ChiefComplaint: "dor abdominal",
				},
			})
			Expect(err).NotTo(HaveOccurred())

			doc := result.Document
			Expect(doc.ContentText()).To(Equal("RESULT"))
			Expect(doc.Type).To(Equal(entities.DocumentTypeLaudo))
			Expect(doc.Subtype).To(Equal("Ultrassom Abdominal"))
			Expect(doc.Status).To(Equal(entities.DocumentStatusCompleted))
			Expect(doc.UserID).To(Equal(owner))

			Expect(generator.requests).To(HaveLen(1))
			Expect(generator.requests[0].MaxTokens).To(Equal(1500))
			Expect(generator.requests[0].Prompt).To(ContainSubstring("- Nome: Maria Silva"))
			Expect(generator.requests[0].Prompt).To(ContainSubstring("TIPO DE LAUDO: Ultrassom Abdominal"))
			Expect(generator.requests[0].Prompt).To(ContainSubstring("6. "))
		})

		It("guarda exatamente os campos informados", func() {
			result, err := service.Generate(ctx, owner, GenerateDocumentInput{
				PatientName: "  João Pereira ",
				Subtype:     "Receita Simples",
				Info: entities.ReceitaInfo{
					Age:         " 35 ",
					Diagnosis:   "Sinusite",
					Medications: "Amoxicilina 500mg",
					Dosage:      "8/8h",
				},
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(result.Document.PatientName).To(Equal("João Pereira"))
			Expect(result.Document.PatientInfo.Fields()).To(Equal(map[string]string{
				"age":         "35",
				"sex":         "M",
				"diagnosis":   "Sinusite",
				"medications": "Amoxicilina 500mg",
				"dosage":      "8/8h",
			}))
			Expect(generator.requests[0].MaxTokens).To(Equal(1200))
		})

		It("devolve a lista atualizada e avisa as conexões do dono", func() {
			_, err := service.Generate(ctx, owner, GenerateDocumentInput{
				PatientName: "Ana", Subtype: "Evolução Clínica",
				Info: entities.RelatorioInfo{Age: "70", ClinicalCourse: "estável", Procedures: "nenhum"},
			})
			Expect(err).NotTo(HaveOccurred())

			result, err := service.Generate(ctx, owner, GenerateDocumentInput{
				PatientName: "Bia", Subtype: "Alta Hospitalar",
				Info: entities.RelatorioInfo{Age: "50", ClinicalCourse: "boa", Procedures: "sutura"},
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(result.Documents).To(HaveLen(2))
			Expect(result.Documents[0].PatientName).To(Equal("Bia"))
			Expect(publisher.names(owner)).To(Equal([]string{
				ports.EventDocumentsRefreshed,
				ports.EventDocumentsRefreshed,
			}))
			Expect(generator.requests[1].MaxTokens).To(Equal(1800))
		})

		DescribeTable("campo obrigatório ausente aborta antes de qualquer chamada externa",
			func(input GenerateDocumentInput, missing []string) {
				_, err := service.Generate(ctx, owner, input)

				var wfErr *WorkflowError
				Expect(errors.As(err, &wfErr)).To(BeTrue())
				Expect(wfErr.Stage).To(Equal(StageValidating))

				var vErr *domainerrors.ValidationError
				Expect(errors.As(err, &vErr)).To(BeTrue())
				Expect(vErr.FieldNames()).To(ConsistOf(missing))
				Expect(errors.Is(err, domainerrors.ErrValidation)).To(BeTrue())

				Expect(generator.requests).To(BeEmpty())
				Expect(repo.creates).To(BeZero())
				Expect(publisher.names(owner)).To(BeEmpty())
			},
			Entry("laudo sem nome e queixa",
				GenerateDocumentInput{Subtype: "Laudo Geral", Info: entities.LaudoInfo{Age: "30"}},
				[]string{"patient_name", "chief_complaint"}),
			Entry("laudo sem idade",
				GenerateDocumentInput{PatientName: "Ana", Subtype: "Laudo Geral", Info: entities.LaudoInfo{ChiefComplaint: "tosse"}},
				[]string{"age"}),
			Entry("receita sem diagnóstico e medicamentos",
				GenerateDocumentInput{PatientName: "Ana", Subtype: "Receita Simples", Info: entities.ReceitaInfo{Age: "30"}},
				[]string{"diagnosis", "medications"}),
			Entry("relatorio sem evolução e procedimentos",
				GenerateDocumentInput{PatientName: "Ana", Subtype: "Alta Hospitalar", Info: entities.RelatorioInfo{Age: "30"}},
				[]string{"clinical_course", "procedures"}),
			Entry("subtipo em branco",
				GenerateDocumentInput{PatientName: "Ana", Subtype: "  ", Info: entities.LaudoInfo{Age: "30", ChiefComplaint: "tosse"}},
				[]string{"subtype"}),
			Entry("sexo inválido",
				GenerateDocumentInput{PatientName: "Ana", Subtype: "Laudo Geral", Info: entities.LaudoInfo{Age: "30", Sex: "X", ChiefComplaint: "tosse"}},
				[]string{"sex"}),
			Entry("campos só com espaços",
				GenerateDocumentInput{PatientName: " ", Subtype: "Laudo Geral", Info: entities.LaudoInfo{Age: " ", ChiefComplaint: "\t"}},
				[]string{"patient_name", "age", "chief_complaint"}),
			Entry("sem dados clínicos",
				GenerateDocumentInput{PatientName: "Ana", Subtype: "Laudo Geral"},
				[]string{"patient_info"}),
		)

		It("erro de credencial na geração não chega ao banco", func() {
			generator.err = &domainerrors.ExternalServiceError{
				Service:    domainerrors.ServiceGeneration,
				Credential: true,
				Err:        errors.New("missing key"),
			}

			_, err := service.Generate(ctx, owner, GenerateDocumentInput{
				PatientName: "Ana", Subtype: "Laudo Geral",
				Info: entities.LaudoInfo{Age: "30", ChiefComplaint: "tosse"},
			})

			var wfErr *WorkflowError
			Expect(errors.As(err, &wfErr)).To(BeTrue())
			Expect(wfErr.Stage).To(Equal(StageGenerating))
			Expect(domainerrors.IsCredentialError(err)).To(BeTrue())
			Expect(generator.requests).To(HaveLen(1))
			Expect(repo.creates).To(BeZero())
		})

		It("falha genérica da geração vira ExternalServiceError sem nova tentativa", func() {
			generator.err = errors.New("upstream 500")

			_, err := service.Generate(ctx, owner, GenerateDocumentInput{
				PatientName: "Ana", Subtype: "Laudo Geral",
				Info: entities.LaudoInfo{Age: "30", ChiefComplaint: "tosse"},
			})

			Expect(errors.Is(err, domainerrors.ErrExternalService)).To(BeTrue())
			Expect(domainerrors.IsCredentialError(err)).To(BeFalse())
			Expect(generator.requests).To(HaveLen(1))
		})

		It("falha ao salvar descarta o texto e não altera a lista", func() {
			_, err := service.Generate(ctx, owner, GenerateDocumentInput{
				PatientName: "Ana", Subtype: "Laudo Geral",
				Info: entities.LaudoInfo{Age: "30", ChiefComplaint: "tosse"},
			})
			Expect(err).NotTo(HaveOccurred())
			before, _ := service.List(ctx, owner)

			repo.createErr = errors.New("connection reset")
			_, err = service.Generate(ctx, owner, GenerateDocumentInput{
				PatientName: "Bia", Subtype: "Laudo Geral",
				Info: entities.LaudoInfo{Age: "40", ChiefComplaint: "febre"},
			})

			var wfErr *WorkflowError
			Expect(errors.As(err, &wfErr)).To(BeTrue())
			Expect(wfErr.Stage).To(Equal(StagePersisting))

			var extErr *domainerrors.ExternalServiceError
			Expect(errors.As(err, &extErr)).To(BeTrue())
			Expect(extErr.Service).To(Equal(domainerrors.ServiceStore))

			Expect(generator.requests).To(HaveLen(2))
			Expect(repo.creates).To(Equal(2))

			after, _ := service.List(ctx, owner)
			Expect(after).To(Equal(before))
		})

		It("falha ao relistar não desfaz o documento salvo", func() {
			// a primeira listagem depois do insert falha
			repo.listErr = errors.New("timeout")

			result, err := service.Generate(ctx, owner, GenerateDocumentInput{
				PatientName: "Ana", Subtype: "Laudo Geral",
				Info: entities.LaudoInfo{Age: "30", ChiefComplaint: "tosse"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Document.ID).NotTo(BeEmpty())
			Expect(result.Documents).To(BeNil())

			repo.listErr = nil
			docs, err := service.List(ctx, owner)
			Expect(err).NotTo(HaveOccurred())
			Expect(docs).To(HaveLen(1))
		})
	})

	Describe("Search", func() {
		BeforeEach(func() {
			for _, name := range []string{"Ana Souza", "Mariana Costa", "Pedro Lima"} {
				_, err := service.Generate(ctx, owner, GenerateDocumentInput{
					PatientName: name, Subtype: "Laudo Geral",
					Info: entities.LaudoInfo{Age: "30", ChiefComplaint: "tosse"},
				})
				Expect(err).NotTo(HaveOccurred())
			}
			_, err := service.Generate(ctx, "someone-else", GenerateDocumentInput{
				PatientName: "Ana Outra", Subtype: "Laudo Geral",
				Info: entities.LaudoInfo{Age: "30", ChiefComplaint: "tosse"},
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("retorna só os documentos do dono que contêm o termo, mais recentes primeiro", func() {
			docs, err := service.Search(ctx, owner, "ANA")
			Expect(err).NotTo(HaveOccurred())

			names := make([]string, len(docs))
			for i, d := range docs {
				names[i] = d.PatientName
				Expect(d.UserID).To(Equal(owner))
			}
			Expect(names).To(Equal([]string{"Mariana Costa", "Ana Souza"}))
		})

		It("termo vazio é erro de validação", func() {
			_, err := service.Search(ctx, owner, "   ")
			Expect(errors.Is(err, domainerrors.ErrValidation)).To(BeTrue())
		})
	})

	Describe("Get e Stats", func() {
		It("não encontra documento de outro usuário", func() {
			result, err := service.Generate(ctx, "someone-else", GenerateDocumentInput{
				PatientName: "Ana", Subtype: "Laudo Geral",
				Info: entities.LaudoInfo{Age: "30", ChiefComplaint: "tosse"},
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Get(ctx, owner, result.Document.ID)
			Expect(err).To(MatchError(domainerrors.ErrDocumentNotFound))

			doc, err := service.Get(ctx, "someone-else", result.Document.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.PatientName).To(Equal("Ana"))
		})

		It("conta documentos por categoria com zeros explícitos", func() {
			_, err := service.Generate(ctx, owner, GenerateDocumentInput{
				PatientName: "Ana", Subtype: "Laudo Geral",
				Info: entities.LaudoInfo{Age: "30", ChiefComplaint: "tosse"},
			})
			Expect(err).NotTo(HaveOccurred())

			stats, err := service.Stats(ctx, owner)
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.Total).To(Equal(1))
			Expect(stats.ByType).To(Equal(map[entities.DocumentType]int{
				entities.DocumentTypeLaudo:     1,
				entities.DocumentTypeReceita:   0,
				entities.DocumentTypeRelatorio: 0,
			}))
		})
	})
})
