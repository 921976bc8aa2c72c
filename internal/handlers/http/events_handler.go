package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/rafabene/medfy-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/medfy-backend/internal/domain/errors"
	"github.com/rafabene/medfy-backend/internal/domain/ports"
	"github.com/rafabene/medfy-backend/internal/handlers/dto"
	"github.com/rafabene/medfy-backend/internal/handlers/middleware"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Subscriber entrega os eventos de um usuário até o cancelamento
type Subscriber interface {
	Subscribe(userID string) (<-chan ports.Event, func())
}

// DocumentLister lista os documentos de um usuário sem publicar eventos
type DocumentLister interface {
	List(ctx context.Context, userID string) ([]*entities.Document, error)
}

// EventsHandler mantém o stream WebSocket de eventos de sessão e documentos
type EventsHandler struct {
	hub       Subscriber
	documents DocumentLister
	auth      middleware.Authenticator
	upgrader  websocket.Upgrader
	logger    ports.Logger
}

// NewEventsHandler cria um novo EventsHandler.
// allowedOrigins segue a mesma regra do CORS ("*" libera qualquer origem).
func NewEventsHandler(hub Subscriber, documents DocumentLister, auth middleware.Authenticator, allowedOrigins []string, logger ports.Logger) *EventsHandler {
	return &EventsHandler{
		hub:       hub,
		documents: documents,
		auth:      auth,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger.With("component", "events"),
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// Stream abre o stream de eventos do usuário autenticado
//
//	@Summary		Stream de eventos (WebSocket)
//	@Description	Envia INITIAL_SESSION e DOCUMENTS_REFRESHED ao conectar; depois SIGNED_IN, SIGNED_OUT e DOCUMENTS_REFRESHED.
//	@Tags			events
//	@Security		BearerAuth
//	@Param			access_token	query	string	false	"Token de acesso (alternativa ao header Authorization)"
//	@Success		101
//	@Failure		401	{object}	dto.ErrorResponse
//	@Router			/events [get]
func (h *EventsHandler) Stream(c *gin.Context) {
	session, ok := middleware.SessionFromContext(c)
	if !ok {
		respondError(c, domainerrors.ErrUnauthorized, "")
		return
	}
	token := middleware.BearerToken(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// o upgrader já respondeu ao cliente
		h.logger.Warn("websocket upgrade failed", "user_id", session.UserID, "error", err)
		return
	}
	defer conn.Close()

	events, unsubscribe := h.hub.Subscribe(session.UserID)
	defer unsubscribe()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	log := h.logger.With("user_id", session.UserID)
	log.Debug("event stream opened")

	closed := h.readLoop(conn)

	if err := h.write(conn, ports.Event{Name: ports.EventInitialSession, Payload: session}); err != nil {
		return
	}
	if err := h.writeDocuments(ctx, conn, session.UserID); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			log.Debug("event stream closed by client")
			return

		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}

		case event, ok := <-events:
			if !ok {
				h.close(conn, websocket.CloseGoingAway)
				return
			}

			switch event.Name {
			case ports.EventSignedIn:
				if err := h.write(conn, event); err != nil {
					return
				}
				if err := h.writeDocuments(ctx, conn, session.UserID); err != nil {
					return
				}

			case ports.EventSignedOut:
				// só encerra as conexões cujo token foi revogado
				if _, err := h.auth.Authenticate(ctx, token); err == nil {
					continue
				}
				_ = h.write(conn, event)
				h.close(conn, websocket.CloseNormalClosure)
				return

			default:
				if err := h.write(conn, event); err != nil {
					return
				}
			}
		}
	}
}

// readLoop descarta mensagens do cliente e detecta o fechamento da conexão
func (h *EventsHandler) readLoop(conn *websocket.Conn) <-chan struct{} {
	closed := make(chan struct{})

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	return closed
}

func (h *EventsHandler) writeDocuments(ctx context.Context, conn *websocket.Conn, userID string) error {
	docs, err := h.documents.List(ctx, userID)
	if err != nil {
		h.logger.Warn("failed to list documents for event stream", "user_id", userID, "error", err)
		return nil
	}
	return h.write(conn, ports.Event{Name: ports.EventDocumentsRefreshed, Payload: docs})
}

func (h *EventsHandler) write(conn *websocket.Conn, event ports.Event) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(toWireEvent(event)); err != nil {
		h.logger.Debug("failed to write event", "event", event.Name, "error", err)
		return err
	}
	return nil
}

func (h *EventsHandler) close(conn *websocket.Conn, code int) {
	msg := websocket.FormatCloseMessage(code, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}

// toWireEvent converte o payload do domínio para os DTOs da API
func toWireEvent(event ports.Event) ports.Event {
	switch p := event.Payload.(type) {
	case []*entities.Document:
		event.Payload = dto.DocumentListResponse{
			Documents: dto.ToDocumentResponses(p),
			Total:     len(p),
		}
	case entities.Session:
		event.Payload = dto.ToSessionResponse(p)
	}
	return event
}
