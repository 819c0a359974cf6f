package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/red2blue-api/internal/application/coaching"
	"github.com/jhoicas/red2blue-api/internal/application/dto"
	"github.com/jhoicas/red2blue-api/internal/application/ports"
	"github.com/jhoicas/red2blue-api/internal/domain"
)

// coachTimeout límite de cada llamada al LLM.
const coachTimeout = 10 * time.Second

// Verificar en tiempo de compilación que CoachUseCase sirve como endpoint en proceso.
var _ coaching.ChatEndpoint = (*CoachUseCase)(nil)

// CoachUseCase sirve el contrato del endpoint de chat: {message, userId?, sessionId?}
// -> {message, suggestions?, urgencyLevel?}.
type CoachUseCase struct {
	llm ports.CoachLLM
}

// NewCoachUseCase construye el caso de uso inyectando el puerto CoachLLM.
func NewCoachUseCase(llm ports.CoachLLM) *CoachUseCase {
	return &CoachUseCase{llm: llm}
}

// Reply valida la entrada y delega al LLM con timeout de 10 s.
func (uc *CoachUseCase) Reply(ctx context.Context, req dto.ChatRequest) (*dto.ChatResponse, error) {
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return nil, fmt.Errorf("message es obligatorio: %w", domain.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, coachTimeout)
	defer cancel()

	out, err := uc.llm.Coach(ctx, dto.CoachPrompt{Message: msg, Authenticated: req.UserID != ""})
	if err != nil {
		return nil, fmt.Errorf("coach IA: %w", err)
	}
	return out, nil
}

// Send implementa coaching.ChatEndpoint para widgets servidos en el mismo proceso.
func (uc *CoachUseCase) Send(ctx context.Context, req coaching.ChatRequest) (*coaching.ChatReply, error) {
	out, err := uc.Reply(ctx, dto.ChatRequest{Message: req.Message, UserID: req.UserID, SessionID: req.SessionID})
	if err != nil {
		return nil, err
	}
	return &coaching.ChatReply{
		Message:      out.Message,
		Suggestions:  out.Suggestions,
		UrgencyLevel: out.UrgencyLevel,
	}, nil
}
