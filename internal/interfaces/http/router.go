package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/red2blue-api/internal/application/auth"
	"github.com/jhoicas/red2blue-api/internal/application/usecase"
	"github.com/jhoicas/red2blue-api/internal/domain/access"
	"github.com/jhoicas/red2blue-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	AccessUC  *usecase.AccessUseCase
	CoachUC   *usecase.CoachUseCase
	WidgetUC  *usecase.WidgetUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	policy := deps.AccessUC.Policy()
	withPrincipal := []fiber.Handler{OptionalAuth(deps.JWTSecret), ResolvePrincipal(deps.AccessUC)}

	// Auth
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	// Planes y política de acceso (anónimo o miembro)
	accessHandler := NewAccessHandler(deps.AccessUC)
	api.Get("/plans", accessHandler.Plans)
	accessGroup := api.Group("/access", withPrincipal...)
	accessGroup.Get("/features", accessHandler.Summary)
	accessGroup.Get("/features/:feature", accessHandler.Feature)
	accessGroup.Get("/navigation", accessHandler.Navigation)
	accessGroup.Get("/route", accessHandler.Route)

	// Endpoint de chat
	chatHandler := NewChatHandler(deps.CoachUC)
	api.Post("/chat", AuthMiddleware(deps.JWTSecret), chatHandler.Chat)
	api.Post("/landing-chat", chatHandler.LandingChat)

	// Widgets
	widgets := api.Group("/widgets", withPrincipal...)
	widgetHandler := NewWidgetHandler(deps.WidgetUC)
	widgets.Post("/", widgetHandler.Open)
	widgets.Get("/:id", widgetHandler.Get)
	widgets.Post("/:id/messages", widgetHandler.Submit)
	widgets.Delete("/:id", widgetHandler.Close)
	widgets.Get("/:id/transcript.pdf", RequireFeature(access.BasicPDFs, policy), widgetHandler.Transcript)

	// Administración
	admin := api.Group("/admin", AuthMiddleware(deps.JWTSecret), RequireRole(entity.RoleAdmin))
	admin.Patch("/users/:id/tier", authHandler.SetTier)
}
