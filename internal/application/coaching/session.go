// Package coaching contiene el controlador de sesión de los widgets de chat con Flo.
//
// Una Session es una máquina de estados por widget:
//
//	Idle ──submit──▶ AwaitingResponse ──respuesta/fallo──▶ Idle
//	Idle ──submit con cuota agotada──▶ QuotaExhausted
//
// Cada instancia es independiente: su propio log, su propio contador de créditos.
package coaching

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/red2blue-api/internal/domain"
	"github.com/jhoicas/red2blue-api/internal/domain/entity"
	"github.com/jhoicas/red2blue-api/pkg/logger"
)

const (
	// DefaultQuota mensajes gratuitos por widget.
	DefaultQuota = 5
	// Unlimited desactiva la cuota (miembros con unlimitedChat).
	Unlimited = -1

	defaultRequestTimeout = 15 * time.Second
)

// State estado de la máquina.
type State string

const (
	StateIdle             State = "idle"
	StateAwaitingResponse State = "awaiting_response"
	StateQuotaExhausted   State = "quota_exhausted"
)

// Outcome qué hizo Submit con la entrada.
type Outcome string

const (
	OutcomeReplied          Outcome = "replied"
	OutcomeIgnoredEmpty     Outcome = "ignored_empty"
	OutcomeIgnoredBusy      Outcome = "ignored_busy"
	OutcomeQuotaNotice      Outcome = "quota_notice"
	OutcomeIgnoredExhausted Outcome = "ignored_exhausted"
)

// Options parámetros de construcción. Los ceros toman valores por defecto.
type Options struct {
	ID             string
	Mode           Mode
	UserID         string
	Quota          int // 0 => DefaultQuota; Unlimited => sin cuota
	RequestTimeout time.Duration
	Logger         *logger.Logger
	Recorder       Recorder
	Now            func() time.Time
	NewID          func() string
}

// SubmitResult resultado de un envío. Reply es el mensaje del asistente agregado, si hubo.
type SubmitResult struct {
	Outcome  Outcome
	Reply    *entity.ChatMessage
	Degraded bool
}

// Snapshot vista inmutable del estado para la capa de presentación.
type Snapshot struct {
	ID                string
	Mode              Mode
	UserID            string
	State             State
	Loading           bool
	Messages          []entity.ChatMessage
	CreditCount       int
	Quota             int // Unlimited si no aplica
	CreditsRemaining  int // Unlimited si no aplica
	ShowCreditWarning bool
	Suggestions       []Suggestion
	Draft             string
	Placeholder       string
	CreatedAt         time.Time
}

// Session controlador de un widget. Seguro para uso concurrente; como máximo una
// petición en vuelo por sesión.
type Session struct {
	mu sync.Mutex

	id       string
	mode     Mode
	userID   string
	quota    int
	timeout  time.Duration
	endpoint ChatEndpoint
	log      *logger.Logger
	rec      Recorder
	now      func() time.Time
	newID    func() string

	// ctx se cancela en Close: aborta la petición en vuelo y descarta respuestas tardías.
	ctx    context.Context
	cancel context.CancelFunc

	messages      []entity.ChatMessage
	creditCount   int
	draft         string
	state         State
	quotaNotified bool
	closed        bool
	createdAt     time.Time
	lastActive    time.Time
}

// NewSession crea la sesión en Idle con el saludo del modo ya sembrado.
func NewSession(endpoint ChatEndpoint, opts Options) *Session {
	if opts.Mode == "" {
		opts.Mode = ModeLanding
	}
	if opts.Quota == 0 {
		opts.Quota = DefaultQuota
	}
	if opts.Quota < 0 {
		opts.Quota = Unlimited
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.ID == "" {
		opts.ID = opts.NewID()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:        opts.ID,
		mode:      opts.Mode,
		userID:    opts.UserID,
		quota:     opts.Quota,
		timeout:   opts.RequestTimeout,
		endpoint:  endpoint,
		log:       opts.Logger,
		rec:       opts.Recorder,
		now:       opts.Now,
		newID:     opts.NewID,
		ctx:       ctx,
		cancel:    cancel,
		state:     StateIdle,
		createdAt: opts.Now(),
	}
	s.lastActive = s.createdAt
	s.appendLocked(entity.MessageRoleAssistant, Greeting(opts.Mode))
	return s
}

// ID identificador de la sesión.
func (s *Session) ID() string { return s.id }

// Mode modo de presentación.
func (s *Session) Mode() Mode { return s.mode }

// UserID dueño de la sesión ("" = anónimo).
func (s *Session) UserID() string { return s.userID }

// Submit procesa una entrada del usuario. El único error posible es domain.ErrSessionClosed:
// los fallos del endpoint nunca se propagan, se sustituyen por FallbackReply.
func (s *Session) Submit(ctx context.Context, text string) (SubmitResult, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return SubmitResult{}, domain.ErrSessionClosed
	}

	text = strings.TrimSpace(text)
	if text == "" {
		s.mu.Unlock()
		return SubmitResult{Outcome: OutcomeIgnoredEmpty}, nil
	}
	if s.state == StateAwaitingResponse {
		s.mu.Unlock()
		return SubmitResult{Outcome: OutcomeIgnoredBusy}, nil
	}

	if s.quotaReachedLocked() {
		if s.quotaNotified {
			s.mu.Unlock()
			return SubmitResult{Outcome: OutcomeIgnoredExhausted}, nil
		}
		msg := s.appendLocked(entity.MessageRoleAssistant, QuotaMessage(s.quota))
		s.quotaNotified = true
		s.state = StateQuotaExhausted
		s.mu.Unlock()

		s.rec.QuotaReached(s.mode)
		s.log.Info().Str("session_id", s.id).Str("mode", string(s.mode)).
			Int("credits", s.quota).Msg("cuota de mensajes agotada")
		return SubmitResult{Outcome: OutcomeQuotaNotice, Reply: &msg}, nil
	}

	// Orden: mensaje del usuario, crédito, borrador, petición.
	s.appendLocked(entity.MessageRoleUser, text)
	s.creditCount++
	credit := s.creditCount
	s.draft = ""
	s.state = StateAwaitingResponse
	req := ChatRequest{Message: text, UserID: s.userID, SessionID: s.id}
	reqCtx, cancel := context.WithTimeout(s.ctx, s.timeout)
	s.mu.Unlock()
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	s.rec.TurnDispatched(s.mode)
	reply, err := s.endpoint.Send(reqCtx, req)

	content, degraded := FallbackReply, true
	switch {
	case err != nil:
		s.log.Warn().Err(err).Str("session_id", s.id).Str("mode", string(s.mode)).
			Int("credit", credit).Msg("fallo del endpoint de chat; se responde con fallback")
	case reply == nil || strings.TrimSpace(reply.Message) == "":
		s.log.Warn().Str("session_id", s.id).Str("mode", string(s.mode)).
			Int("credit", credit).Msg("respuesta de chat sin mensaje; se responde con fallback")
	default:
		content, degraded = reply.Message, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.log.Debug().Str("session_id", s.id).Msg("respuesta tardía descartada: sesión cerrada")
		return SubmitResult{}, domain.ErrSessionClosed
	}
	msg := s.appendLocked(entity.MessageRoleAssistant, content)
	s.state = StateIdle
	if degraded {
		s.rec.TurnDegraded(s.mode)
	}
	return SubmitResult{Outcome: OutcomeReplied, Reply: &msg, Degraded: degraded}, nil
}

// SubmitDraft envía el borrador actual.
func (s *Session) SubmitDraft(ctx context.Context) (SubmitResult, error) {
	return s.Submit(ctx, s.Draft())
}

// SetDraft reemplaza el buffer de entrada.
func (s *Session) SetDraft(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrSessionClosed
	}
	s.draft = text
	s.lastActive = s.now()
	return nil
}

// Draft devuelve el buffer de entrada.
func (s *Session) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// UseSuggestion copia la sugerencia i al borrador. Solo antes del primer turno.
func (s *Session) UseSuggestion(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrSessionClosed
	}
	offered := s.suggestionsLocked()
	if i < 0 || i >= len(offered) {
		return domain.ErrInvalidInput
	}
	s.draft = offered[i].Prompt
	s.lastActive = s.now()
	return nil
}

// Snapshot copia el estado actual.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := make([]entity.ChatMessage, len(s.messages))
	copy(msgs, s.messages)

	snap := Snapshot{
		ID:               s.id,
		Mode:             s.mode,
		UserID:           s.userID,
		State:            s.state,
		Loading:          s.state == StateAwaitingResponse,
		Messages:         msgs,
		CreditCount:      s.creditCount,
		Quota:            s.quota,
		CreditsRemaining: Unlimited,
		Suggestions:      s.suggestionsLocked(),
		Draft:            s.draft,
		Placeholder:      placeholderOpen,
		CreatedAt:        s.createdAt,
	}
	if s.quota != Unlimited {
		snap.CreditsRemaining = max(s.quota-s.creditCount, 0)
		snap.ShowCreditWarning = s.creditCount >= s.quota-1
		if s.creditCount >= s.quota {
			snap.Placeholder = placeholderExhausted
		}
	}
	return snap
}

// Close destruye la sesión: cancela la petición en vuelo y bloquea nuevos envíos. Idempotente.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()
	s.cancel()
}

// Touch marca actividad del cliente sin modificar la conversación.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastActive = s.now()
	s.mu.Unlock()
}

// IdleFor tiempo sin actividad hasta now. Una sesión con petición en vuelo nunca está inactiva.
func (s *Session) IdleFor(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateAwaitingResponse {
		return 0
	}
	return now.Sub(s.lastActive)
}

// Closed informa si la sesión fue cerrada.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) quotaReachedLocked() bool {
	return s.quota != Unlimited && s.creditCount >= s.quota
}

func (s *Session) suggestionsLocked() []Suggestion {
	if len(s.messages) != 1 || s.state == StateQuotaExhausted {
		return nil
	}
	out := make([]Suggestion, len(suggestions))
	copy(out, suggestions)
	return out
}

func (s *Session) appendLocked(role entity.MessageRole, content string) entity.ChatMessage {
	msg := entity.ChatMessage{
		ID:        s.newID(),
		Role:      role,
		Content:   content,
		Timestamp: s.now(),
	}
	s.messages = append(s.messages, msg)
	s.lastActive = msg.Timestamp
	return msg
}
