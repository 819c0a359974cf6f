package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/red2blue-api/internal/application/dto"
	"github.com/jhoicas/red2blue-api/internal/domain/access"
)

// principalResolver es el contrato mínimo para resolver el principal.
// Lo implementa *usecase.AccessUseCase; el uso de interfaz evita el import circular.
type principalResolver interface {
	Resolve(ctx context.Context, userID string) (access.Principal, error)
}

// ResolvePrincipal lee el tier actual del almacén y deja el principal en c.Locals.
// Debe usarse DESPUÉS de OptionalAuth o AuthMiddleware.
//   - Sin user_id → Anonymous.
//   - Usuario inexistente → Anonymous (falla cerrado).
//   - 503 Service Unavailable → fallo de infraestructura al consultar la DB.
func ResolvePrincipal(resolver principalResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pr, err := resolver.Resolve(c.UserContext(), GetUserID(c))
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "ACCESS_CHECK_FAILED",
				Message: "no se pudo verificar la suscripción, intente más tarde",
			})
		}
		c.Locals(LocalPrincipal, pr)
		return c.Next()
	}
}

// GetPrincipal devuelve el principal resuelto; Anonymous si no hay.
func GetPrincipal(c *fiber.Ctx) access.Principal {
	if pr, ok := c.Locals(LocalPrincipal).(access.Principal); ok && pr != nil {
		return pr
	}
	return access.Anonymous()
}

// RequireFeature corta con 403 FEATURE_LOCKED si el principal no tiene la feature.
// Debe usarse DESPUÉS de ResolvePrincipal.
func RequireFeature(f access.Feature, policy *access.Policy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res := policy.CheckFeatureAccess(GetPrincipal(c), f)
		if !res.HasAccess {
			return c.Status(fiber.StatusForbidden).JSON(dto.FeatureLockedResponse{
				Code:         "FEATURE_LOCKED",
				Message:      res.UpgradeMessage,
				Feature:      string(f),
				RequiredTier: res.RequiredTier,
			})
		}
		return c.Next()
	}
}
