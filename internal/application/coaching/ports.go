package coaching

import "context"

// ChatRequest cuerpo enviado al endpoint de chat.
type ChatRequest struct {
	Message   string
	UserID    string // vacío para anónimos
	SessionID string
}

// ChatReply respuesta del endpoint. Message puede venir vacío: el controlador lo tolera.
type ChatReply struct {
	Message      string
	Suggestions  []string
	UrgencyLevel string
}

// ChatEndpoint puerto de salida hacia el coach remoto (HTTP) o en proceso.
// Cualquier error se trata igual: transporte, HTTP no-2xx, JSON inválido.
type ChatEndpoint interface {
	Send(ctx context.Context, req ChatRequest) (*ChatReply, error)
}

// ChatEndpointFunc adapta una función al puerto.
type ChatEndpointFunc func(ctx context.Context, req ChatRequest) (*ChatReply, error)

// Send implementa ChatEndpoint.
func (f ChatEndpointFunc) Send(ctx context.Context, req ChatRequest) (*ChatReply, error) {
	return f(ctx, req)
}

// Recorder recibe eventos operativos del controlador (métricas).
type Recorder interface {
	TurnDispatched(mode Mode)
	TurnDegraded(mode Mode)
	QuotaReached(mode Mode)
}

type nopRecorder struct{}

func (nopRecorder) TurnDispatched(Mode) {}
func (nopRecorder) TurnDegraded(Mode)   {}
func (nopRecorder) QuotaReached(Mode)   {}
