package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App   AppConfig
	DB    DBConfig
	JWT   JWTConfig
	HTTP  HTTPConfig
	AI    AIConfig
	Coach CoachConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string // trace, debug, info, warn, error
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo (ej. DATABASE_URL de Supabase).
type DBConfig struct {
	Driver      string // "postgres" | "memory" (desarrollo local sin DB)
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AIConfig proveedor LLM que genera las respuestas de Flo.
type AIConfig struct {
	Provider        string // "anthropic" | "gemini"
	AnthropicAPIKey string
	AnthropicModel  string
	GeminiAPIKey    string
	GeminiModel     string
}

// CoachConfig parámetros de los widgets de chat.
type CoachConfig struct {
	FreeQuota      int
	RequestTimeout time.Duration
	// ChatBaseURL vacío = los widgets llaman al endpoint de chat en proceso.
	ChatBaseURL string
	// SignupURL destino del QR en las transcripciones de visitantes; vacío lo omite.
	SignupURL string
	// WidgetIdleTTL cierra widgets abandonados; MaxWidgets limita los abiertos a la vez.
	WidgetIdleTTL time.Duration
	MaxWidgets    int
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, COACH_FREE_QUOTA, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "red2blue-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			Driver:      strings.ToLower(getString(v, "DB_DRIVER", "postgres")),
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "red2blue"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "red2blue-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		AI: AIConfig{
			Provider:        strings.ToLower(getString(v, "AI_PROVIDER", "anthropic")),
			AnthropicAPIKey: getString(v, "ANTHROPIC_API_KEY", ""),
			AnthropicModel:  getString(v, "ANTHROPIC_MODEL", "claude-3-5-haiku-20241022"),
			GeminiAPIKey:    getString(v, "GEMINI_API_KEY", ""),
			GeminiModel:     getString(v, "GEMINI_MODEL", "gemini-1.5-flash"),
		},
		Coach: CoachConfig{
			FreeQuota:      getInt(v, "COACH_FREE_QUOTA", 5),
			RequestTimeout: time.Duration(getInt(v, "COACH_REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
			ChatBaseURL:    strings.TrimRight(getString(v, "COACH_CHAT_BASE_URL", ""), "/"),
			SignupURL:      getString(v, "COACH_SIGNUP_URL", ""),
			WidgetIdleTTL:  time.Duration(getInt(v, "COACH_WIDGET_IDLE_MINUTES", 30)) * time.Minute,
			MaxWidgets:     getInt(v, "COACH_MAX_WIDGETS", 10000),
		},
	}

	if cfg.Coach.FreeQuota <= 0 {
		return nil, fmt.Errorf("config: COACH_FREE_QUOTA debe ser mayor que cero (valor: %d)", cfg.Coach.FreeQuota)
	}
	if cfg.Coach.RequestTimeout <= 0 {
		return nil, fmt.Errorf("config: COACH_REQUEST_TIMEOUT_SECONDS debe ser mayor que cero")
	}
	if cfg.Coach.WidgetIdleTTL <= 0 {
		return nil, fmt.Errorf("config: COACH_WIDGET_IDLE_MINUTES debe ser mayor que cero")
	}
	if cfg.Coach.MaxWidgets < 0 {
		return nil, fmt.Errorf("config: COACH_MAX_WIDGETS no puede ser negativo (valor: %d)", cfg.Coach.MaxWidgets)
	}
	switch cfg.DB.Driver {
	case "postgres", "memory":
	default:
		return nil, fmt.Errorf("config: DB_DRIVER desconocido %q", cfg.DB.Driver)
	}
	switch cfg.AI.Provider {
	case "anthropic", "gemini":
	default:
		return nil, fmt.Errorf("config: AI_PROVIDER desconocido %q", cfg.AI.Provider)
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
