package ports

import (
	"context"
	"errors"

	"github.com/jhoicas/red2blue-api/internal/application/dto"
)

// ErrLLMNotConfigured el adaptador no tiene credenciales para llamar al modelo.
var ErrLLMNotConfigured = errors.New("modelo de IA no configurado")

// CoachLLM define el puerto de salida hacia el modelo que encarna a Flo.
// Cualquier adaptador (Anthropic, Gemini, mock) debe implementar esta interfaz;
// la aplicación solo conoce este contrato.
type CoachLLM interface {
	// Coach responde a un mensaje del golfista con el mensaje del coach, sugerencias
	// cortas y un nivel de urgencia (low, medium, high).
	// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
	Coach(ctx context.Context, in dto.CoachPrompt) (*dto.ChatResponse, error)
}

// TranscriptRenderer genera el PDF de la conversación de un widget.
type TranscriptRenderer interface {
	RenderTranscript(ctx context.Context, t dto.TranscriptDTO) ([]byte, error)
}
