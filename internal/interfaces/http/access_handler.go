package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/red2blue-api/internal/application/dto"
	"github.com/jhoicas/red2blue-api/internal/application/usecase"
	"github.com/jhoicas/red2blue-api/internal/domain/access"
)

// AccessHandler expone la política de acceso al SPA.
type AccessHandler struct {
	uc *usecase.AccessUseCase
}

// NewAccessHandler construye el handler.
func NewAccessHandler(uc *usecase.AccessUseCase) *AccessHandler {
	return &AccessHandler{uc: uc}
}

// Summary godoc
// @Summary      Features permitidas del usuario actual
// @Tags         access
// @Produce      json
// @Success      200  {object}  dto.AccessSummaryResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/access/features [get]
func (h *AccessHandler) Summary(c *fiber.Ctx) error {
	return c.JSON(h.uc.Summary(GetPrincipal(c)))
}

// Feature godoc
// @Summary      Verificar una feature
// @Tags         access
// @Produce      json
// @Param        feature  path  string  true  "p.ej. unlimitedChat"
// @Success      200  {object}  dto.PermissionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/access/features/{feature} [get]
func (h *AccessHandler) Feature(c *fiber.Ctx) error {
	f, ok := access.ParseFeature(c.Params("feature"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "UNKNOWN_FEATURE", Message: "feature desconocida: " + c.Params("feature")})
	}
	return c.JSON(h.uc.Check(GetPrincipal(c), f))
}

// Navigation godoc
// @Summary      Menú principal
// @Tags         access
// @Produce      json
// @Success      200  {array}  dto.NavItemResponse
// @Router       /api/access/navigation [get]
func (h *AccessHandler) Navigation(c *fiber.Ctx) error {
	return c.JSON(h.uc.Navigation(GetPrincipal(c)))
}

// Route godoc
// @Summary      Decisión de acceso para una ruta del SPA
// @Tags         access
// @Produce      json
// @Param        path  query  string  true  "ruta, p.ej. /techniques"
// @Success      200  {object}  dto.RouteResponse
// @Router       /api/access/route [get]
func (h *AccessHandler) Route(c *fiber.Ctx) error {
	return c.JSON(h.uc.Route(GetPrincipal(c), c.Query("path", "/")))
}

// Plans godoc
// @Summary      Precios de los planes
// @Tags         access
// @Produce      json
// @Success      200  {array}  dto.PlanResponse
// @Router       /api/plans [get]
func (h *AccessHandler) Plans(c *fiber.Ctx) error {
	return c.JSON(h.uc.Plans())
}
