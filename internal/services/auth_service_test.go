package services

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	domainerrors "github.com/rafabene/medfy-backend/internal/domain/errors"
	"github.com/rafabene/medfy-backend/internal/domain/ports"
	"github.com/rafabene/medfy-backend/internal/infrastructure/logging"
)

func strPtr(s string) *string { return &s }

var _ = Describe("AuthService", func() {
	var (
		ctx         context.Context
		users       *fakeUserRepository
		uow         *fakeUnitOfWork
		tokens      *fakeTokenIssuer
		revocations *fakeRevocationStore
		publisher   *fakePublisher
		service     *AuthService
	)

	BeforeEach(func() {
		ctx = context.Background()
		users = newFakeUserRepository()
		uow = &fakeUnitOfWork{}
		tokens = newFakeTokenIssuer()
		revocations = newFakeRevocationStore()
		publisher = newFakePublisher()
		service = NewAuthService(users, uow, tokens, revocations, publisher, logging.NewNopLogger())
		service.bcryptCost = bcrypt.MinCost
	})

	signUp := func(email string) {
		_, err := service.SignUp(ctx, SignUpInput{
			Email:    email,
			Password: "segredo123",
			FullName: "Dra. Helena Prado",
		})
		Expect(err).NotTo(HaveOccurred())
	}

	Describe("SignUp", func() {
		It("cria usuário e perfil numa transação", func() {
			user, err := service.SignUp(ctx, SignUpInput{
				Email:     "  Helena@Clinica.com ",
				Password:  "segredo123",
				FullName:  " Dra. Helena Prado ",
				Specialty: strPtr("Cardiologia"),
				CRM:       strPtr("   "),
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(uow.transactions).To(Equal(1))
			Expect(user.ID).NotTo(BeEmpty())
			Expect(user.Email.String()).To(Equal("helena@clinica.com"))
			Expect(user.PasswordHash).NotTo(Equal("segredo123"))
			Expect(user.Profile.FullName).To(Equal("Dra. Helena Prado"))
			Expect(*user.Profile.Specialty).To(Equal("Cardiologia"))
			Expect(user.Profile.CRM).To(BeNil())
		})

		It("recusa email já cadastrado", func() {
			signUp("helena@clinica.com")

			_, err := service.SignUp(ctx, SignUpInput{
				Email:    "HELENA@clinica.com",
				Password: "outrasenha",
				FullName: "Outra Pessoa",
			})
			Expect(err).To(MatchError(domainerrors.ErrEmailAlreadyExists))
			Expect(users.creates).To(Equal(1))
		})

		DescribeTable("entrada inválida não abre transação",
			func(input SignUpInput, expected error) {
				_, err := service.SignUp(ctx, input)
				Expect(errors.Is(err, expected)).To(BeTrue(), "erro obtido: %v", err)
				Expect(uow.transactions).To(BeZero())
			},
			Entry("email inválido",
				SignUpInput{Email: "sem-arroba", Password: "segredo123", FullName: "Ana Lima"},
				domainerrors.ErrInvalidEmail),
			Entry("senha curta",
				SignUpInput{Email: "ana@clinica.com", Password: "123", FullName: "Ana Lima"},
				domainerrors.ErrInvalidPassword),
			Entry("nome ausente",
				SignUpInput{Email: "ana@clinica.com", Password: "segredo123", FullName: "  "},
				domainerrors.ErrValidation),
		)
	})

	Describe("SignIn", func() {
		BeforeEach(func() {
			signUp("helena@clinica.com")
		})

		It("emite token e publica SIGNED_IN", func() {
			result, err := service.SignIn(ctx, "Helena@Clinica.com", "segredo123")
			Expect(err).NotTo(HaveOccurred())

			Expect(result.AccessToken).To(HavePrefix("token-"))
			Expect(result.Session.UserID).To(Equal(result.User.ID))
			Expect(publisher.names(result.User.ID)).To(Equal([]string{ports.EventSignedIn}))
		})

		DescribeTable("credenciais erradas retornam sempre o mesmo erro",
			func(email, password string) {
				_, err := service.SignIn(ctx, email, password)
				Expect(err).To(MatchError(domainerrors.ErrInvalidCredentials))
				Expect(tokens.issued).To(BeZero())
			},
			Entry("senha errada", "helena@clinica.com", "errada123"),
			Entry("email desconhecido", "ninguem@clinica.com", "segredo123"),
			Entry("email malformado", "helena", "segredo123"),
		)

		It("propaga falha do repositório", func() {
			users.findErr = errors.New("db down")

			_, err := service.SignIn(ctx, "helena@clinica.com", "segredo123")
			Expect(err).To(MatchError("db down"))
		})
	})

	Describe("sessões", func() {
		var token string

		BeforeEach(func() {
			signUp("helena@clinica.com")
			result, err := service.SignIn(ctx, "helena@clinica.com", "segredo123")
			Expect(err).NotTo(HaveOccurred())
			token = result.AccessToken
		})

		It("autentica um token válido", func() {
			session, err := service.Authenticate(ctx, token)
			Expect(err).NotTo(HaveOccurred())
			Expect(session.Email).To(Equal("helena@clinica.com"))
		})

		It("recusa token desconhecido", func() {
			_, err := service.Authenticate(ctx, "forjado")
			Expect(err).To(MatchError(domainerrors.ErrUnauthorized))
		})

		It("SignOut revoga o token e publica SIGNED_OUT", func() {
			session, err := service.Authenticate(ctx, token)
			Expect(err).NotTo(HaveOccurred())

			Expect(service.SignOut(ctx, session)).To(Succeed())
			Expect(revocations.revoked).To(HaveKey(session.TokenID))
			Expect(publisher.names(session.UserID)).To(Equal([]string{
				ports.EventSignedIn,
				ports.EventSignedOut,
			}))

			_, err = service.Authenticate(ctx, token)
			Expect(err).To(MatchError(domainerrors.ErrUnauthorized))
		})

		It("falha do armazenamento de revogação nega acesso", func() {
			revocations.err = errors.New("redis down")

			_, err := service.Authenticate(ctx, token)
			Expect(err).To(MatchError(domainerrors.ErrUnauthorized))
		})

		It("CurrentUser retorna o usuário com perfil", func() {
			session, _ := service.Authenticate(ctx, token)

			user, err := service.CurrentUser(ctx, session)
			Expect(err).NotTo(HaveOccurred())
			Expect(user.DisplayName()).To(Equal("Dra. Helena Prado"))
		})

		It("CurrentUser de usuário removido é não autenticado", func() {
			session, _ := service.Authenticate(ctx, token)
			delete(users.users, session.UserID)

			_, err := service.CurrentUser(ctx, session)
			Expect(err).To(MatchError(domainerrors.ErrUnauthorized))
		})

		It("UpdateProfile grava o novo perfil", func() {
			session, _ := service.Authenticate(ctx, token)

			user, err := service.UpdateProfile(ctx, session, UpdateProfileInput{
				FullName: "Helena Prado",
				CRM:      strPtr(" CRM/SP 123456 "),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Profile.FullName).To(Equal("Helena Prado"))
			Expect(*user.Profile.CRM).To(Equal("CRM/SP 123456"))
			Expect(user.Profile.Specialty).To(BeNil())
		})

		It("UpdateProfile sem nome é erro de validação", func() {
			session, _ := service.Authenticate(ctx, token)

			_, err := service.UpdateProfile(ctx, session, UpdateProfileInput{FullName: "x"})
			Expect(errors.Is(err, domainerrors.ErrValidation)).To(BeTrue())
		})
	})
})
