package ports

// Nomes dos eventos enviados pelo stream de notificações
const (
	EventInitialSession     = "INITIAL_SESSION"
	EventSignedIn           = "SIGNED_IN"
	EventSignedOut          = "SIGNED_OUT"
	EventDocumentsRefreshed = "DOCUMENTS_REFRESHED"
)

// Event é uma notificação enviada aos assinantes de um usuário
type Event struct {
	Name    string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// EventPublisher entrega eventos aos assinantes de um usuário
type EventPublisher interface {
	Publish(userID string, event Event)
}
