package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/red2blue-api/internal/application/dto"
	"github.com/jhoicas/red2blue-api/internal/application/usecase"
)

// WidgetHandler maneja el ciclo de vida de los widgets de chat.
type WidgetHandler struct {
	uc *usecase.WidgetUseCase
}

// NewWidgetHandler construye el handler.
func NewWidgetHandler(uc *usecase.WidgetUseCase) *WidgetHandler {
	return &WidgetHandler{uc: uc}
}

// Open godoc
// @Summary      Abrir un widget de chat
// @Description  floating requiere sesión iniciada. Miembros premium/ultimate no tienen cuota.
// @Tags         widgets
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenWidgetRequest  true  "floating | inline | landing"
// @Success      201   {object}  dto.WidgetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/widgets [post]
func (h *WidgetHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenWidgetRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Open(c.UserContext(), GetPrincipal(c), in.Mode)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Estado de un widget
// @Tags         widgets
// @Produce      json
// @Param        id   path  string  true  "widget id"
// @Success      200  {object}  dto.WidgetResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/widgets/{id} [get]
func (h *WidgetHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Submit godoc
// @Summary      Enviar un mensaje a Flo
// @Description  Siempre 200 mientras el widget exista: los fallos del coach se responden en persona.
// @Tags         widgets
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "widget id"
// @Param        body  body  dto.WidgetMessageRequest  true  "message o suggestionIndex"
// @Success      200   {object}  dto.WidgetSubmitResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      410   {object}  dto.ErrorResponse
// @Router       /api/widgets/{id}/messages [post]
func (h *WidgetHandler) Submit(c *fiber.Ctx) error {
	var in dto.WidgetMessageRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Submit(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Close godoc
// @Summary      Cerrar un widget
// @Tags         widgets
// @Param        id   path  string  true  "widget id"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/widgets/{id} [delete]
func (h *WidgetHandler) Close(c *fiber.Ctx) error {
	if err := h.uc.Close(GetPrincipal(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Transcript godoc
// @Summary      Descargar la conversación en PDF
// @Tags         widgets
// @Produce      application/pdf
// @Param        id   path  string  true  "widget id"
// @Success      200  {file}  binary
// @Failure      403  {object}  dto.FeatureLockedResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/widgets/{id}/transcript.pdf [get]
func (h *WidgetHandler) Transcript(c *fiber.Ctx) error {
	pdf, err := h.uc.Transcript(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="flo-`+c.Params("id")+`.pdf"`)
	return c.Send(pdf)
}
