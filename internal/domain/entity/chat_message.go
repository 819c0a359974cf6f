package entity

import "time"

// MessageRole autor de un mensaje de chat.
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// ChatMessage un turno del log de una sesión. Se agrega y nunca se modifica.
type ChatMessage struct {
	ID        string
	Role      MessageRole
	Content   string
	Timestamp time.Time
}
