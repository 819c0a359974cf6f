package dto

import "time"

// ChatRequest cuerpo de POST /api/chat y /api/landing-chat.
type ChatRequest struct {
	Message   string `json:"message" validate:"required"`
	UserID    string `json:"userId,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

// ChatResponse respuesta del coach. Suggestions y UrgencyLevel son opcionales.
type ChatResponse struct {
	Message      string   `json:"message"`
	Suggestions  []string `json:"suggestions,omitempty"`
	UrgencyLevel string   `json:"urgencyLevel,omitempty"`
}

// CoachPrompt entrada al LLM.
type CoachPrompt struct {
	Message       string
	Authenticated bool
}

// OpenWidgetRequest cuerpo de POST /api/widgets.
type OpenWidgetRequest struct {
	Mode string `json:"mode" validate:"required,oneof=floating inline landing"`
}

// WidgetMessageRequest cuerpo de POST /api/widgets/:id/messages.
// Si Message viene vacío y SuggestionIndex está presente se envía la sugerencia.
type WidgetMessageRequest struct {
	Message         string `json:"message"`
	SuggestionIndex *int   `json:"suggestionIndex,omitempty"`
}

// ChatMessageDTO mensaje del historial.
type ChatMessageDTO struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// SuggestionDTO atajo de prompt.
type SuggestionDTO struct {
	Index  int    `json:"index"`
	Label  string `json:"label"`
	Prompt string `json:"prompt"`
}

// WidgetResponse estado de un widget.
type WidgetResponse struct {
	ID                string           `json:"id"`
	Mode              string           `json:"mode"`
	State             string           `json:"state"`
	Loading           bool             `json:"loading"`
	Messages          []ChatMessageDTO `json:"messages"`
	CreditCount       int              `json:"creditCount"`
	Quota             int              `json:"quota"`
	CreditsRemaining  int              `json:"creditsRemaining"`
	ShowCreditWarning bool             `json:"showCreditWarning"`
	Suggestions       []SuggestionDTO  `json:"suggestions,omitempty"`
	Placeholder       string           `json:"placeholder"`
	CreatedAt         time.Time        `json:"createdAt"`
}

// WidgetSubmitResponse resultado de un envío más el estado resultante.
type WidgetSubmitResponse struct {
	Outcome  string          `json:"outcome"`
	Degraded bool            `json:"degraded"`
	Reply    *ChatMessageDTO `json:"reply,omitempty"`
	Widget   WidgetResponse  `json:"widget"`
}

// TranscriptDTO datos para el PDF de la conversación.
type TranscriptDTO struct {
	SessionID   string
	Mode        string
	Owner       string
	CreditCount int
	GeneratedAt time.Time
	Messages    []ChatMessageDTO
}
