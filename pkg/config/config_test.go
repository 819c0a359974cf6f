package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "red2blue-api", cfg.App.Name)
	assert.Equal(t, 5, cfg.Coach.FreeQuota)
	assert.Equal(t, 15*time.Second, cfg.Coach.RequestTimeout)
	assert.Equal(t, "", cfg.Coach.ChatBaseURL)
	assert.Equal(t, "anthropic", cfg.AI.Provider)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_EnvSobrescribe(t *testing.T) {
	v := viper.New()
	v.Set("COACH_FREE_QUOTA", "3")
	v.Set("COACH_REQUEST_TIMEOUT_SECONDS", "4")
	v.Set("COACH_CHAT_BASE_URL", "https://coach.example.com/")
	v.Set("AI_PROVIDER", "Gemini")
	v.Set("HTTP_PORT", "9090")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Coach.FreeQuota)
	assert.Equal(t, 4*time.Second, cfg.Coach.RequestTimeout)
	assert.Equal(t, "https://coach.example.com", cfg.Coach.ChatBaseURL, "se elimina la barra final")
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestFromViper_CuotaInvalida(t *testing.T) {
	v := viper.New()
	v.Set("COACH_FREE_QUOTA", "0")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_ProveedorDesconocido(t *testing.T) {
	v := viper.New()
	v.Set("AI_PROVIDER", "ollama")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "flo", Password: "p@ss:word", DBName: "red2blue", SSLMode: "disable"}
	assert.Equal(t, "postgres://flo:p%40ss%3Aword@db:5432/red2blue?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgresql://u:p@h:1/d"
	assert.Equal(t, "postgresql://u:p@h:1/d", c.ConnectionString())
}

func TestFromViper_DriverDeDB(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DB.Driver)

	v := viper.New()
	v.Set("DB_DRIVER", "Memory")
	cfg, err = fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.DB.Driver)

	v.Set("DB_DRIVER", "sqlite")
	_, err = fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_LimitesDeWidgets(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.Coach.WidgetIdleTTL)
	assert.Equal(t, 10000, cfg.Coach.MaxWidgets)

	v := viper.New()
	v.Set("COACH_WIDGET_IDLE_MINUTES", "5")
	v.Set("COACH_MAX_WIDGETS", "0")
	cfg, err = fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.Coach.WidgetIdleTTL)
	assert.Equal(t, 0, cfg.Coach.MaxWidgets, "0 desactiva el tope")

	v.Set("COACH_WIDGET_IDLE_MINUTES", "0")
	_, err = fromViper(v)
	assert.Error(t, err)
}
