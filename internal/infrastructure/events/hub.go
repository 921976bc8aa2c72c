package events

import (
	"sync"

	"github.com/rafabene/medfy-backend/internal/domain/ports"
)

// DefaultBufferSize é a quantidade de eventos pendentes por assinante
const DefaultBufferSize = 16

// Hub distribui eventos aos assinantes de cada usuário.
// Assinantes lentos perdem eventos em vez de bloquear quem publica.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[*subscription]struct{}
	bufferSize  int
	logger      ports.Logger
}

type subscription struct {
	ch     chan ports.Event
	closed bool
}

var _ ports.EventPublisher = (*Hub)(nil)

func NewHub(bufferSize int, logger ports.Logger) *Hub {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Hub{
		subscribers: make(map[string]map[*subscription]struct{}),
		bufferSize:  bufferSize,
		logger:      logger,
	}
}

// Subscribe registra um assinante para o usuário.
// A função retornada cancela a assinatura e fecha o canal; pode ser chamada mais de uma vez.
func (h *Hub) Subscribe(userID string) (<-chan ports.Event, func()) {
	sub := &subscription{ch: make(chan ports.Event, h.bufferSize)}

	h.mu.Lock()
	if h.subscribers[userID] == nil {
		h.subscribers[userID] = make(map[*subscription]struct{})
	}
	h.subscribers[userID][sub] = struct{}{}
	h.mu.Unlock()

	unsubscribe := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.removeLocked(userID, sub)
	}

	return sub.ch, unsubscribe
}

// Publish entrega o evento a todos os assinantes do usuário sem bloquear.
// Um SIGNED_OUT que não cabe no buffer encerra a assinatura: o canal fechado
// derruba a conexão em vez de mantê-la aberta com um token revogado.
func (h *Hub) Publish(userID string, event ports.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subscribers[userID] {
		select {
		case sub.ch <- event:
		default:
			if event.Name == ports.EventSignedOut {
				h.logger.Warn("closing slow subscriber on sign out", "user_id", userID)
				h.removeLocked(userID, sub)
				continue
			}
			h.logger.Warn("event dropped for slow subscriber",
				"user_id", userID,
				"event", event.Name,
			)
		}
	}
}

// removeLocked fecha o canal e remove o assinante; exige h.mu travado
func (h *Hub) removeLocked(userID string, sub *subscription) {
	if sub.closed {
		return
	}
	sub.closed = true
	close(sub.ch)

	delete(h.subscribers[userID], sub)
	if len(h.subscribers[userID]) == 0 {
		delete(h.subscribers, userID)
	}
}

// SubscriberCount retorna quantos assinantes o usuário tem
func (h *Hub) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[userID])
}
