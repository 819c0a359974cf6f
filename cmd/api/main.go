package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/red2blue-api/internal/application/auth"
	"github.com/jhoicas/red2blue-api/internal/application/coaching"
	"github.com/jhoicas/red2blue-api/internal/application/dto"
	"github.com/jhoicas/red2blue-api/internal/application/ports"
	"github.com/jhoicas/red2blue-api/internal/application/usecase"
	"github.com/jhoicas/red2blue-api/internal/domain/access"
	"github.com/jhoicas/red2blue-api/internal/domain/entity"
	"github.com/jhoicas/red2blue-api/internal/domain/repository"
	infraai "github.com/jhoicas/red2blue-api/internal/infrastructure/ai"
	"github.com/jhoicas/red2blue-api/internal/infrastructure/chatapi"
	"github.com/jhoicas/red2blue-api/internal/infrastructure/memory"
	"github.com/jhoicas/red2blue-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/red2blue-api/internal/infrastructure/pdf"
	"github.com/jhoicas/red2blue-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/red2blue-api/internal/interfaces/http"
	"github.com/jhoicas/red2blue-api/pkg/config"
	"github.com/jhoicas/red2blue-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Str("ai_provider", cfg.AI.Provider).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var userRepo repository.UserRepository
	switch cfg.DB.Driver {
	case "memory":
		log.Warn().Msg("almacén de usuarios en memoria: los datos se pierden al reiniciar")
		userRepo = memory.NewUserRepository()
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("esquema de PostgreSQL")
		}
		userRepo = postgres.NewUserRepository(pool)
	}

	var llm ports.CoachLLM
	switch cfg.AI.Provider {
	case "gemini":
		llm = infraai.NewGeminiService(cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel)
	default:
		llm = infraai.NewAnthropicService(cfg.AI.AnthropicAPIKey, cfg.AI.AnthropicModel)
	}
	coachUC := usecase.NewCoachUseCase(llm)

	// Los widgets hablan con el endpoint remoto si está configurado; si no, con el propio proceso.
	var endpoint coaching.ChatEndpoint = coachUC
	if cfg.Coach.ChatBaseURL != "" {
		endpoint = chatapi.NewClient(cfg.Coach.ChatBaseURL, nil, chatapi.JWTTokens(cfg.JWT.Secret, cfg.JWT.Issuer, 5))
		log.Info().Str("base_url", cfg.Coach.ChatBaseURL).Msg("widgets contra endpoint de chat remoto")
	}

	plans := entity.DefaultPlans()
	policy := access.NewPolicy(plans)
	accessUC := usecase.NewAccessUseCase(userRepo, policy, plans)

	// El gauge de widgets abiertos se evalúa en cada scrape, cuando widgetUC ya existe.
	var widgetUC *usecase.WidgetUseCase
	mtr := metrics.New(func() int { return widgetUC.Len() })
	widgetUC = usecase.NewWidgetUseCase(
		endpoint,
		policy,
		infrapdf.NewTranscriptPDFGenerator(cfg.App.Name, cfg.Coach.SignupURL),
		usecase.WidgetConfig{
			FreeQuota:      cfg.Coach.FreeQuota,
			RequestTimeout: cfg.Coach.RequestTimeout,
			IdleTTL:        cfg.Coach.WidgetIdleTTL,
			MaxOpen:        cfg.Coach.MaxWidgets,
		},
		log.Component("coaching"),
		mtr,
	)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.Coach.RequestTimeout + 5*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(mtr.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Red2Blue API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok", App: cfg.App.Name})
	})
	app.Get("/metrics", mtr.Handler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		AccessUC:  accessUC,
		CoachUC:   coachUC,
		WidgetUC:  widgetUC,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Int("open_widgets", widgetUC.Len()).Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Cerrar widgets aborta las peticiones en vuelo antes de esperar a Fiber.
	widgetUC.CloseAll()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
