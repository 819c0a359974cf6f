package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jhoicas/red2blue-api/internal/application/coaching"
	"github.com/jhoicas/red2blue-api/internal/application/dto"
	"github.com/jhoicas/red2blue-api/internal/application/ports"
	"github.com/jhoicas/red2blue-api/internal/application/usecase"
	"github.com/jhoicas/red2blue-api/internal/domain"
	"github.com/jhoicas/red2blue-api/internal/domain/access"
	"github.com/jhoicas/red2blue-api/internal/domain/entity"
	"github.com/jhoicas/red2blue-api/internal/infrastructure/memory"
)

// ── Fakes ──

type stubLLM struct {
	mu    sync.Mutex
	got   []dto.CoachPrompt
	reply *dto.ChatResponse
	err   error
	block bool
}

func (s *stubLLM) Coach(ctx context.Context, in dto.CoachPrompt) (*dto.ChatResponse, error) {
	s.mu.Lock()
	s.got = append(s.got, in)
	s.mu.Unlock()
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.reply, s.err
}

type stubRenderer struct {
	got dto.TranscriptDTO
	err error
}

func (r *stubRenderer) RenderTranscript(_ context.Context, t dto.TranscriptDTO) ([]byte, error) {
	r.got = t
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-stub"), nil
}

func member(id string, tier entity.SubscriptionTier) access.Principal {
	return access.Member{UserID: id, Tier: tier, Role: entity.RoleMember}
}

// ── CoachUseCase ──

func TestCoachUseCase_Reply(t *testing.T) {
	llm := &stubLLM{reply: &dto.ChatResponse{Message: "Respira hondo", UrgencyLevel: "medium"}}
	uc := usecase.NewCoachUseCase(llm)

	_, err := uc.Reply(context.Background(), dto.ChatRequest{Message: "  \n"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, llm.got, "entrada vacía no llega al LLM")

	out, err := uc.Reply(context.Background(), dto.ChatRequest{Message: "  tiemblo al patear ", UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "Respira hondo", out.Message)
	require.Len(t, llm.got, 1)
	assert.Equal(t, dto.CoachPrompt{Message: "tiemblo al patear", Authenticated: true}, llm.got[0])
}

func TestCoachUseCase_ErroresEnvueltos(t *testing.T) {
	upstream := errors.New("AI: Gemini HTTP 500")
	uc := usecase.NewCoachUseCase(&stubLLM{err: upstream})

	_, err := uc.Reply(context.Background(), dto.ChatRequest{Message: "hola"})
	require.Error(t, err)
	assert.ErrorIs(t, err, upstream)
	assert.Contains(t, err.Error(), "coach IA")
}

func TestCoachUseCase_CancelacionDelLlamador(t *testing.T) {
	uc := usecase.NewCoachUseCase(&stubLLM{block: true})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := uc.Reply(ctx, dto.ChatRequest{Message: "hola"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCoachUseCase_SendComoEndpoint(t *testing.T) {
	llm := &stubLLM{reply: &dto.ChatResponse{Message: "ok", Suggestions: []string{"a", "b"}}}
	uc := usecase.NewCoachUseCase(llm)

	reply, err := uc.Send(context.Background(), coaching.ChatRequest{Message: "hola", SessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, &coaching.ChatReply{Message: "ok", Suggestions: []string{"a", "b"}}, reply)
	assert.False(t, llm.got[0].Authenticated)
}

// ── AccessUseCase ──

func TestAccessUseCase_Resolve(t *testing.T) {
	repo := memory.NewUserRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &entity.User{ID: "act", Email: "a@x.com", SubscriptionTier: entity.TierPremium, Role: entity.RoleCoach, Status: "active"}))
	require.NoError(t, repo.Create(ctx, &entity.User{ID: "sus", Email: "s@x.com", SubscriptionTier: entity.TierUltimate, Role: entity.RoleAdmin, Status: "suspended"}))
	uc := usecase.NewAccessUseCase(repo, access.DefaultPolicy(), entity.DefaultPlans())

	tests := []struct {
		name   string
		userID string
		want   access.Principal
	}{
		{"sin id", "", access.Anonymous()},
		{"inexistente", "ghost", access.Anonymous()},
		{"suspendido", "sus", access.Anonymous()},
		{"activo", "act", access.Member{UserID: "act", Tier: entity.TierPremium, Role: entity.RoleCoach}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := uc.Resolve(ctx, tt.userID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	repo.Err = errors.New("timeout de red")
	_, err := uc.Resolve(ctx, "act")
	assert.ErrorIs(t, err, repo.Err)
	pr, err := uc.Resolve(ctx, "")
	require.NoError(t, err, "el anónimo no toca el almacén")
	assert.True(t, access.IsAnonymous(pr))
}

func TestAccessUseCase_Summary(t *testing.T) {
	uc := usecase.NewAccessUseCase(memory.NewUserRepository(), access.DefaultPolicy(), entity.DefaultPlans())

	sum := uc.Summary(access.Member{UserID: "u", Tier: entity.TierFree, Role: entity.RoleAdmin})
	assert.True(t, sum.Authenticated)
	assert.Equal(t, []string{"basicAssessment", "limitedChat", "basicPDFs"}, sum.Features)
	assert.False(t, sum.CanAccessDashboard)
	assert.True(t, sum.CanAccessCoach, "el rol desbloquea el panel de coach con cualquier tier")
	assert.Equal(t, "free-dashboard", sum.DashboardView)

	check := uc.Check(member("u", "gold"), access.Techniques)
	assert.False(t, check.HasAccess, "un tier desconocido se trata como free")
	assert.Equal(t, "premium", check.RequiredTier)
}

func TestAccessUseCase_Plans(t *testing.T) {
	uc := usecase.NewAccessUseCase(nil, access.DefaultPolicy(), entity.DefaultPlans())
	plans := uc.Plans()
	require.Len(t, plans, 3)
	assert.Equal(t, dto.PlanResponse{Tier: "premium", Name: plans[1].Name, Price: "490.00", Currency: "USD", DisplayPrice: "$490"}, plans[1])
}

// ── WidgetUseCase ──

func newWidgets(endpoint coaching.ChatEndpoint, r ports.TranscriptRenderer) *usecase.WidgetUseCase {
	return usecase.NewWidgetUseCase(endpoint, access.DefaultPolicy(), r,
		usecase.WidgetConfig{FreeQuota: 2, RequestTimeout: time.Second}, nil, nil)
}

func echoEndpoint() coaching.ChatEndpoint {
	return coaching.ChatEndpointFunc(func(_ context.Context, req coaching.ChatRequest) (*coaching.ChatReply, error) {
		return &coaching.ChatReply{Message: "eco: " + req.Message}, nil
	})
}

func TestWidgetUseCase_Open(t *testing.T) {
	uc := newWidgets(echoEndpoint(), nil)
	t.Cleanup(uc.CloseAll)
	ctx := context.Background()

	_, err := uc.Open(ctx, access.Anonymous(), "popup")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Open(ctx, access.Anonymous(), "floating")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	free, err := uc.Open(ctx, member("f", entity.TierFree), "floating")
	require.NoError(t, err)
	assert.Equal(t, 2, free.Quota)
	assert.Equal(t, coaching.Greeting(coaching.ModeFloating), free.Messages[0].Content)

	prem, err := uc.Open(ctx, member("p", entity.TierPremium), "inline")
	require.NoError(t, err)
	assert.Equal(t, coaching.Unlimited, prem.Quota)
	assert.Equal(t, coaching.Unlimited, prem.CreditsRemaining)

	assert.Equal(t, 2, uc.Len())
}

func TestWidgetUseCase_SubmitYCuota(t *testing.T) {
	uc := newWidgets(echoEndpoint(), nil)
	t.Cleanup(uc.CloseAll)
	ctx := context.Background()
	anon := access.Anonymous()

	w, err := uc.Open(ctx, anon, "landing")
	require.NoError(t, err)

	idx := 2
	res, err := uc.Submit(ctx, anon, w.ID, dto.WidgetMessageRequest{SuggestionIndex: &idx})
	require.NoError(t, err)
	assert.Equal(t, "replied", res.Outcome)
	assert.Contains(t, res.Reply.Content, "eco: When I'm in contention")

	_, err = uc.Submit(ctx, anon, w.ID, dto.WidgetMessageRequest{SuggestionIndex: &idx})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "las sugerencias desaparecen tras el primer turno")

	res, err = uc.Submit(ctx, anon, w.ID, dto.WidgetMessageRequest{Message: "segunda"})
	require.NoError(t, err)
	assert.True(t, res.Widget.ShowCreditWarning)
	assert.Equal(t, 0, res.Widget.CreditsRemaining)

	res, err = uc.Submit(ctx, anon, w.ID, dto.WidgetMessageRequest{Message: "tercera"})
	require.NoError(t, err)
	assert.Equal(t, "quota_notice", res.Outcome)
	assert.Equal(t, coaching.QuotaMessage(2), res.Reply.Content)

	res, err = uc.Submit(ctx, anon, w.ID, dto.WidgetMessageRequest{Message: "cuarta"})
	require.NoError(t, err)
	assert.Equal(t, "ignored_exhausted", res.Outcome)
	assert.Nil(t, res.Reply)
	assert.Len(t, res.Widget.Messages, 6)
}

func TestWidgetUseCase_Dueno(t *testing.T) {
	uc := newWidgets(echoEndpoint(), nil)
	t.Cleanup(uc.CloseAll)
	ctx := context.Background()

	w, err := uc.Open(ctx, member("a", entity.TierFree), "inline")
	require.NoError(t, err)

	_, err = uc.Get(member("b", entity.TierFree), w.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Submit(ctx, access.Anonymous(), w.ID, dto.WidgetMessageRequest{Message: "hola"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, uc.Close(member("b", entity.TierFree), w.ID), domain.ErrForbidden)

	_, err = uc.Get(member("a", entity.TierFree), "no-existe")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestWidgetUseCase_IdAnonimoEsLaCapacidad(t *testing.T) {
	uc := newWidgets(echoEndpoint(), nil)
	t.Cleanup(uc.CloseAll)
	ctx := context.Background()

	seen := make(map[string]bool)
	for range 20 {
		w, err := uc.Open(ctx, access.Anonymous(), "landing")
		require.NoError(t, err)
		id, err := uuid.Parse(w.ID)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(4), id.Version(), "id aleatorio, no secuencial")
		assert.False(t, seen[w.ID])
		seen[w.ID] = true
	}

	anon, err := uc.Open(ctx, access.Anonymous(), "inline")
	require.NoError(t, err)
	_, err = uc.Get(member("u", entity.TierFree), anon.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden, "un miembro no entra a un widget anónimo")
	_, err = uc.Get(access.Anonymous(), "adivinado")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestWidgetUseCase_CloseAbortaPeticionEnVuelo(t *testing.T) {
	started := make(chan struct{})
	blocking := coaching.ChatEndpointFunc(func(ctx context.Context, _ coaching.ChatRequest) (*coaching.ChatReply, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	})
	uc := newWidgets(blocking, nil)
	ctx := context.Background()
	pr := member("a", entity.TierFree)

	w, err := uc.Open(ctx, pr, "inline")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := uc.Submit(ctx, pr, w.ID, dto.WidgetMessageRequest{Message: "hola"})
		done <- err
	}()
	<-started
	require.NoError(t, uc.Close(pr, w.ID))

	select {
	case err := <-done:
		assert.ErrorIs(t, err, domain.ErrSessionClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("Submit no terminó tras Close")
	}
	assert.Equal(t, 0, uc.Len())
}

func TestWidgetUseCase_Transcript(t *testing.T) {
	ctx := context.Background()
	pr := member("a", entity.TierFree)

	_, err := newWidgets(echoEndpoint(), nil).Transcript(ctx, pr, "x")
	assert.Error(t, err, "sin renderer configurado")

	r := &stubRenderer{}
	uc := newWidgets(echoEndpoint(), r)
	t.Cleanup(uc.CloseAll)
	w, err := uc.Open(ctx, pr, "inline")
	require.NoError(t, err)
	_, err = uc.Submit(ctx, pr, w.ID, dto.WidgetMessageRequest{Message: "hola"})
	require.NoError(t, err)

	pdf, err := uc.Transcript(ctx, pr, w.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-stub"), pdf)
	assert.Equal(t, w.ID, r.got.SessionID)
	assert.Equal(t, "a", r.got.Owner)
	assert.Equal(t, 1, r.got.CreditCount)
	assert.Len(t, r.got.Messages, 3)

	r.err = errors.New("maroto: fallo")
	_, err = uc.Transcript(ctx, pr, w.ID)
	assert.ErrorIs(t, err, r.err)
}

func TestWidgetUseCase_CloseAll(t *testing.T) {
	uc := newWidgets(echoEndpoint(), nil)
	ctx := context.Background()
	for range 3 {
		_, err := uc.Open(ctx, access.Anonymous(), "landing")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, uc.Len())
	uc.CloseAll()
	assert.Equal(t, 0, uc.Len())
}

// clock reloj manual compartido por el registro y sus sesiones.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func TestWidgetUseCase_EvictIdle(t *testing.T) {
	clk := &clock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	uc := usecase.NewWidgetUseCase(echoEndpoint(), access.DefaultPolicy(), nil,
		usecase.WidgetConfig{FreeQuota: 2, IdleTTL: 30 * time.Minute, SweepInterval: time.Hour, Now: clk.Now}, nil, nil)
	t.Cleanup(uc.CloseAll)
	ctx := context.Background()
	anon := access.Anonymous()

	abandoned, err := uc.Open(ctx, anon, "landing")
	require.NoError(t, err)
	active, err := uc.Open(ctx, anon, "landing")
	require.NoError(t, err)

	clk.Advance(20 * time.Minute)
	_, err = uc.Submit(ctx, anon, active.ID, dto.WidgetMessageRequest{Message: "sigo aquí"})
	require.NoError(t, err)
	clk.Advance(15 * time.Minute)

	assert.Equal(t, 1, uc.EvictIdle())
	assert.Equal(t, 1, uc.Len())

	_, err = uc.Get(anon, abandoned.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = uc.Get(anon, active.ID)
	require.NoError(t, err, "el widget con actividad reciente sigue abierto")

	clk.Advance(29 * time.Minute)
	assert.Zero(t, uc.EvictIdle(), "Get cuenta como actividad")
}

func TestWidgetUseCase_TopeDeWidgets(t *testing.T) {
	clk := &clock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	uc := usecase.NewWidgetUseCase(echoEndpoint(), access.DefaultPolicy(), nil,
		usecase.WidgetConfig{IdleTTL: 10 * time.Minute, SweepInterval: time.Hour, MaxOpen: 3, Now: clk.Now}, nil, nil)
	t.Cleanup(uc.CloseAll)
	ctx := context.Background()

	for range 3 {
		_, err := uc.Open(ctx, access.Anonymous(), "landing")
		require.NoError(t, err)
	}
	_, err := uc.Open(ctx, access.Anonymous(), "landing")
	assert.ErrorIs(t, err, domain.ErrTooManySessions)
	assert.Equal(t, 3, uc.Len())

	clk.Advance(10 * time.Minute)
	_, err = uc.Open(ctx, access.Anonymous(), "landing")
	require.NoError(t, err, "al llegar al tope se liberan primero los inactivos")
	assert.Equal(t, 1, uc.Len())
}

func TestWidgetUseCase_BarridoPeriodico(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	uc := usecase.NewWidgetUseCase(echoEndpoint(), access.DefaultPolicy(), nil,
		usecase.WidgetConfig{IdleTTL: 20 * time.Millisecond, SweepInterval: 5 * time.Millisecond}, nil, nil)
	for range 50 {
		_, err := uc.Open(context.Background(), access.Anonymous(), "landing")
		require.NoError(t, err)
	}
	require.Eventually(t, func() bool { return uc.Len() == 0 }, 2*time.Second, 5*time.Millisecond,
		"los widgets abandonados se liberan sin DELETE")

	uc.CloseAll()
	uc.CloseAll()
}
