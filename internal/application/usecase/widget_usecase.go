package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/red2blue-api/internal/application/coaching"
	"github.com/jhoicas/red2blue-api/internal/application/dto"
	"github.com/jhoicas/red2blue-api/internal/application/ports"
	"github.com/jhoicas/red2blue-api/internal/domain"
	"github.com/jhoicas/red2blue-api/internal/domain/access"
	"github.com/jhoicas/red2blue-api/pkg/logger"
)

// WidgetConfig parámetros de las sesiones que abre el registro.
type WidgetConfig struct {
	FreeQuota      int
	RequestTimeout time.Duration
	// IdleTTL cierra los widgets sin actividad durante ese tiempo; 0 desactiva el barrido.
	IdleTTL time.Duration
	// SweepInterval cada cuánto se barre; 0 => IdleTTL/2.
	SweepInterval time.Duration
	// MaxOpen tope de widgets abiertos; 0 sin tope.
	MaxOpen int
	// Now reloj; nil => time.Now.
	Now func() time.Time
}

// WidgetUseCase registro de widgets abiertos. Cada widget es una coaching.Session
// independiente; el registro solo resuelve id, dueño y ciclo de vida.
type WidgetUseCase struct {
	endpoint coaching.ChatEndpoint
	policy   *access.Policy
	renderer ports.TranscriptRenderer
	cfg      WidgetConfig
	log      *logger.Logger
	rec      coaching.Recorder
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*coaching.Session

	stopOnce  sync.Once
	stop      chan struct{}
	sweepDone chan struct{}
}

// NewWidgetUseCase construye el registro. rec puede ser nil. Con IdleTTL > 0 arranca
// el barrido de inactivos, que se detiene en CloseAll.
func NewWidgetUseCase(
	endpoint coaching.ChatEndpoint,
	policy *access.Policy,
	renderer ports.TranscriptRenderer,
	cfg WidgetConfig,
	log *logger.Logger,
	rec coaching.Recorder,
) *WidgetUseCase {
	if cfg.FreeQuota <= 0 {
		cfg.FreeQuota = coaching.DefaultQuota
	}
	if log == nil {
		log = logger.Nop()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	uc := &WidgetUseCase{
		endpoint:  endpoint,
		policy:    policy,
		renderer:  renderer,
		cfg:       cfg,
		log:       log,
		rec:       rec,
		now:       now,
		sessions:  make(map[string]*coaching.Session),
		stop:      make(chan struct{}),
		sweepDone: make(chan struct{}),
	}
	if cfg.IdleTTL > 0 {
		interval := cfg.SweepInterval
		if interval <= 0 {
			interval = cfg.IdleTTL / 2
		}
		go uc.sweep(interval)
	} else {
		close(uc.sweepDone)
	}
	return uc
}

// Open crea un widget. El flotante solo existe para usuarios con sesión iniciada;
// los miembros con unlimitedChat reciben una sesión sin cuota.
func (uc *WidgetUseCase) Open(ctx context.Context, pr access.Principal, rawMode string) (*dto.WidgetResponse, error) {
	mode, ok := coaching.ParseMode(rawMode)
	if !ok {
		return nil, fmt.Errorf("mode %q: %w", rawMode, domain.ErrInvalidInput)
	}
	if mode == coaching.ModeFloating && access.IsAnonymous(pr) {
		return nil, domain.ErrUnauthorized
	}

	quota := uc.cfg.FreeQuota
	if uc.policy.CanAccessUnlimitedChat(pr) {
		quota = coaching.Unlimited
	}
	s := coaching.NewSession(uc.endpoint, coaching.Options{
		Mode:           mode,
		UserID:         access.UserIDOf(pr),
		Quota:          quota,
		RequestTimeout: uc.cfg.RequestTimeout,
		Logger:         uc.log,
		Recorder:       uc.rec,
		Now:            uc.now,
	})

	if uc.cfg.MaxOpen > 0 && uc.Len() >= uc.cfg.MaxOpen {
		uc.EvictIdle()
	}
	uc.mu.Lock()
	if uc.cfg.MaxOpen > 0 && len(uc.sessions) >= uc.cfg.MaxOpen {
		uc.mu.Unlock()
		s.Close()
		uc.log.Warn().Int("max_open", uc.cfg.MaxOpen).Str("mode", string(mode)).Msg("widget rechazado: tope de widgets abiertos")
		return nil, domain.ErrTooManySessions
	}
	uc.sessions[s.ID()] = s
	uc.mu.Unlock()

	uc.log.Debug().Str("session_id", s.ID()).Str("mode", string(mode)).Int("quota", quota).Msg("widget abierto")
	out := toWidgetResponse(s.Snapshot())
	return &out, nil
}

// Get estado actual del widget.
func (uc *WidgetUseCase) Get(pr access.Principal, id string) (*dto.WidgetResponse, error) {
	s, err := uc.lookup(pr, id)
	if err != nil {
		return nil, err
	}
	out := toWidgetResponse(s.Snapshot())
	return &out, nil
}

// Submit envía un mensaje (o la sugerencia indicada) y espera la respuesta del coach.
func (uc *WidgetUseCase) Submit(ctx context.Context, pr access.Principal, id string, in dto.WidgetMessageRequest) (*dto.WidgetSubmitResponse, error) {
	s, err := uc.lookup(pr, id)
	if err != nil {
		return nil, err
	}

	var res coaching.SubmitResult
	if in.Message == "" && in.SuggestionIndex != nil {
		if err := s.UseSuggestion(*in.SuggestionIndex); err != nil {
			return nil, fmt.Errorf("sugerencia %d: %w", *in.SuggestionIndex, err)
		}
		res, err = s.SubmitDraft(ctx)
	} else {
		res, err = s.Submit(ctx, in.Message)
	}
	if err != nil {
		return nil, err
	}

	out := &dto.WidgetSubmitResponse{
		Outcome:  string(res.Outcome),
		Degraded: res.Degraded,
		Widget:   toWidgetResponse(s.Snapshot()),
	}
	if res.Reply != nil {
		m := toMessageDTO(res.Reply.ID, string(res.Reply.Role), res.Reply.Content, res.Reply.Timestamp)
		out.Reply = &m
	}
	return out, nil
}

// Close destruye el widget y aborta la petición en vuelo si la hay.
func (uc *WidgetUseCase) Close(pr access.Principal, id string) error {
	s, err := uc.lookup(pr, id)
	if err != nil {
		return err
	}
	uc.mu.Lock()
	delete(uc.sessions, id)
	uc.mu.Unlock()
	s.Close()
	return nil
}

// Transcript genera el PDF de la conversación.
func (uc *WidgetUseCase) Transcript(ctx context.Context, pr access.Principal, id string) ([]byte, error) {
	if uc.renderer == nil {
		return nil, errors.New("widgets: renderer de transcripciones no configurado")
	}
	s, err := uc.lookup(pr, id)
	if err != nil {
		return nil, err
	}
	snap := s.Snapshot()
	t := dto.TranscriptDTO{
		SessionID:   snap.ID,
		Mode:        string(snap.Mode),
		Owner:       snap.UserID,
		CreditCount: snap.CreditCount,
		GeneratedAt: uc.now(),
		Messages:    toWidgetResponse(snap).Messages,
	}
	pdf, err := uc.renderer.RenderTranscript(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("widgets: transcripción %s: %w", id, err)
	}
	return pdf, nil
}

// Len número de widgets abiertos.
func (uc *WidgetUseCase) Len() int {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return len(uc.sessions)
}

// EvictIdle cierra los widgets inactivos durante IdleTTL o más y devuelve cuántos.
func (uc *WidgetUseCase) EvictIdle() int {
	if uc.cfg.IdleTTL <= 0 {
		return 0
	}
	now := uc.now()
	var idle []*coaching.Session
	uc.mu.Lock()
	for id, s := range uc.sessions {
		if s.IdleFor(now) >= uc.cfg.IdleTTL {
			delete(uc.sessions, id)
			idle = append(idle, s)
		}
	}
	uc.mu.Unlock()
	for _, s := range idle {
		s.Close()
	}
	if len(idle) > 0 {
		uc.log.Info().Int("evicted", len(idle)).Dur("idle_ttl", uc.cfg.IdleTTL).Msg("widgets inactivos cerrados")
	}
	return len(idle)
}

func (uc *WidgetUseCase) sweep(interval time.Duration) {
	defer close(uc.sweepDone)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-uc.stop:
			return
		case <-ticker.C:
			uc.EvictIdle()
		}
	}
}

// CloseAll detiene el barrido y cierra todos los widgets (apagado del servidor).
func (uc *WidgetUseCase) CloseAll() {
	uc.stopOnce.Do(func() { close(uc.stop) })
	<-uc.sweepDone

	uc.mu.Lock()
	all := uc.sessions
	uc.sessions = make(map[string]*coaching.Session)
	uc.mu.Unlock()
	for _, s := range all {
		s.Close()
	}
}

func (uc *WidgetUseCase) lookup(pr access.Principal, id string) (*coaching.Session, error) {
	uc.mu.RLock()
	s, ok := uc.sessions[id]
	uc.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if s.UserID() != access.UserIDOf(pr) {
		return nil, domain.ErrForbidden
	}
	s.Touch()
	return s, nil
}

func toWidgetResponse(snap coaching.Snapshot) dto.WidgetResponse {
	msgs := make([]dto.ChatMessageDTO, 0, len(snap.Messages))
	for _, m := range snap.Messages {
		msgs = append(msgs, toMessageDTO(m.ID, string(m.Role), m.Content, m.Timestamp))
	}
	var sugg []dto.SuggestionDTO
	for i, sg := range snap.Suggestions {
		sugg = append(sugg, dto.SuggestionDTO{Index: i, Label: sg.Label, Prompt: sg.Prompt})
	}
	return dto.WidgetResponse{
		ID:                snap.ID,
		Mode:              string(snap.Mode),
		State:             string(snap.State),
		Loading:           snap.Loading,
		Messages:          msgs,
		CreditCount:       snap.CreditCount,
		Quota:             snap.Quota,
		CreditsRemaining:  snap.CreditsRemaining,
		ShowCreditWarning: snap.ShowCreditWarning,
		Suggestions:       sugg,
		Placeholder:       snap.Placeholder,
		CreatedAt:         snap.CreatedAt,
	}
}

func toMessageDTO(id, role, content string, ts time.Time) dto.ChatMessageDTO {
	return dto.ChatMessageDTO{ID: id, Role: role, Content: content, Timestamp: ts}
}
