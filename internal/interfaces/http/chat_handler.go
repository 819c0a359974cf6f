package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/red2blue-api/internal/application/dto"
	"github.com/jhoicas/red2blue-api/internal/application/ports"
	"github.com/jhoicas/red2blue-api/internal/application/usecase"
	"github.com/jhoicas/red2blue-api/internal/domain"
)

// ChatHandler sirve el endpoint de chat que consumen los widgets.
type ChatHandler struct {
	uc *usecase.CoachUseCase
}

// NewChatHandler construye el handler.
func NewChatHandler(uc *usecase.CoachUseCase) *ChatHandler {
	return &ChatHandler{uc: uc}
}

// Chat godoc
// @Summary      Chat con Flo (miembros)
// @Description  userId se toma del token; sessionId es opcional. Timeout interno de 10 s.
// @Tags         chat
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ChatRequest  true  "message (obligatorio)"
// @Success      200   {object}  dto.ChatResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      408   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/chat [post]
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	if GetUserID(c) == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Code: "UNAUTHORIZED", Message: "token inválido",
		})
	}
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_BODY", Message: "cuerpo de la petición inválido",
		})
	}
	req.UserID = GetUserID(c)
	return h.reply(c, req)
}

// LandingChat godoc
// @Summary      Chat con Flo (visitantes)
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ChatRequest  true  "message (obligatorio)"
// @Success      200   {object}  dto.ChatResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      408   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/landing-chat [post]
func (h *ChatHandler) LandingChat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "INVALID_BODY", Message: "cuerpo de la petición inválido",
		})
	}
	// La landing nunca adjunta identidad.
	return h.reply(c, dto.ChatRequest{Message: req.Message})
}

func (h *ChatHandler) reply(c *fiber.Ctx, req dto.ChatRequest) error {
	result, err := h.uc.Reply(c.UserContext(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code: "VALIDATION", Message: "message es obligatorio",
			})
		case isTimeout(err):
			return c.Status(fiber.StatusRequestTimeout).JSON(dto.ErrorResponse{
				Code: "TIMEOUT", Message: "el servicio de IA tardó demasiado; intenta de nuevo",
			})
		case errors.Is(err, ports.ErrLLMNotConfigured):
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code: "AI_UNAVAILABLE", Message: "el coach IA no está configurado",
			})
		}
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Code: "AI_FAILED", Message: "el coach IA no respondió",
		})
	}
	return c.JSON(result)
}
