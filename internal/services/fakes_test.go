package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rafabene/medfy-backend/internal/domain/entities"
	"github.com/rafabene/medfy-backend/internal/domain/ports"
)

// fakeGenerator registra os pedidos e devolve uma resposta fixa
type fakeGenerator struct {
	response string
	err      error
	requests []ports.GenerationRequest
}

func (g *fakeGenerator) Generate(_ context.Context, req ports.GenerationRequest) (string, error) {
	g.requests = append(g.requests, req)
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

// fakeDocumentRepository guarda documentos em memória
type fakeDocumentRepository struct {
	mu        sync.Mutex
	docs      []*entities.Document
	clock     time.Time
	createErr error
	listErr   error
	creates   int
}

func newFakeDocumentRepository() *fakeDocumentRepository {
	return &fakeDocumentRepository{clock: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
}

func (r *fakeDocumentRepository) Create(_ context.Context, doc *entities.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.creates++
	if r.createErr != nil {
		return r.createErr
	}
	if err := doc.Validate(); err != nil {
		return err
	}

	r.clock = r.clock.Add(time.Second)
	doc.ID = uuid.NewString()
	doc.CreatedAt = r.clock
	doc.UpdatedAt = r.clock

	stored := *doc
	r.docs = append(r.docs, &stored)
	return nil
}

func (r *fakeDocumentRepository) ListByOwner(_ context.Context, userID string) ([]*entities.Document, error) {
	return r.filter(userID, func(*entities.Document) bool { return true })
}

func (r *fakeDocumentRepository) SearchByOwnerAndName(_ context.Context, userID, name string) ([]*entities.Document, error) {
	needle := strings.ToLower(name)
	return r.filter(userID, func(d *entities.Document) bool {
		return strings.Contains(strings.ToLower(d.PatientName), needle)
	})
}

func (r *fakeDocumentRepository) FindByOwnerAndID(_ context.Context, userID, id string) (*entities.Document, error) {
	docs, err := r.filter(userID, func(d *entities.Document) bool { return d.ID == id })
	if err != nil || len(docs) == 0 {
		return nil, err
	}
	return docs[0], nil
}

func (r *fakeDocumentRepository) CountByType(_ context.Context, userID string) (map[entities.DocumentType]int, error) {
	docs, err := r.ListByOwner(context.Background(), userID)
	if err != nil {
		return nil, err
	}
	counts := map[entities.DocumentType]int{}
	for _, d := range docs {
		counts[d.Type]++
	}
	return counts, nil
}

func (r *fakeDocumentRepository) filter(userID string, keep func(*entities.Document) bool) ([]*entities.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.listErr != nil {
		return nil, r.listErr
	}

	out := []*entities.Document{}
	for _, d := range r.docs {
		if d.UserID == userID && keep(d) {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// fakePublisher registra os eventos publicados
type fakePublisher struct {
	mu     sync.Mutex
	events map[string][]ports.Event
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{events: map[string][]ports.Event{}}
}

func (p *fakePublisher) Publish(userID string, event ports.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events[userID] = append(p.events[userID], event)
}

func (p *fakePublisher) names(userID string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.events[userID]))
	for _, e := range p.events[userID] {
		names = append(names, e.Name)
	}
	return names
}

// fakeUserRepository guarda usuários em memória
type fakeUserRepository struct {
	mu      sync.Mutex
	users   map[string]*entities.User
	findErr error
	saveErr error
	creates int
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: map[string]*entities.User{}}
}

func (r *fakeUserRepository) Create(_ context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.creates++
	user.ID = uuid.NewString()
	if user.Profile != nil {
		user.Profile.UserID = user.ID
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepository) FindByID(_ context.Context, id string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.users[id], nil
}

func (r *fakeUserRepository) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if u.Email.String() == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepository) SaveProfile(_ context.Context, profile *entities.DoctorProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.saveErr != nil {
		return r.saveErr
	}
	user, ok := r.users[profile.UserID]
	if !ok {
		return errors.New("user not found")
	}
	copied := *profile
	user.Profile = &copied
	return nil
}

// fakeUnitOfWork executa a função diretamente, contando as transações
type fakeUnitOfWork struct {
	transactions int
}

func (u *fakeUnitOfWork) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	u.transactions++
	return fn(ctx)
}

// fakeTokenIssuer emite tokens previsíveis
type fakeTokenIssuer struct {
	sessions map[string]entities.Session
	issued   int
}

func newFakeTokenIssuer() *fakeTokenIssuer {
	return &fakeTokenIssuer{sessions: map[string]entities.Session{}}
}

func (f *fakeTokenIssuer) Issue(user *entities.User) (string, entities.Session, error) {
	f.issued++
	session := entities.Session{
		UserID:    user.ID,
		Email:     user.Email.String(),
		TokenID:   uuid.NewString(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	token := "token-" + session.TokenID
	f.sessions[token] = session
	return token, session, nil
}

func (f *fakeTokenIssuer) Parse(token string) (entities.Session, error) {
	session, ok := f.sessions[token]
	if !ok {
		return entities.Session{}, errors.New("invalid token")
	}
	return session, nil
}

// fakeRevocationStore guarda revogações em memória
type fakeRevocationStore struct {
	revoked map[string]time.Time
	err     error
}

func newFakeRevocationStore() *fakeRevocationStore {
	return &fakeRevocationStore{revoked: map[string]time.Time{}}
}

func (f *fakeRevocationStore) Revoke(_ context.Context, tokenID string, until time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.revoked[tokenID] = until
	return nil
}

func (f *fakeRevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.revoked[tokenID]
	return ok, nil
}
