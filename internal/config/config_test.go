package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("APP_PIN", "")
	t.Setenv("DASHBOARD_LIMIT", "nope")
	t.Setenv("COOKIE_SECURE", "")
	os.Unsetenv("COOKIE_SECURE")
	t.Setenv("MONGO_DB", "")
	os.Unsetenv("MONGO_DB")

	cfg := LoadConfig()

	assert.Equal(t, "inventory", cfg.MongoDB)
	assert.Equal(t, 100, cfg.DashboardLimit)
	assert.False(t, cfg.CookieSecure)
	assert.False(t, cfg.AuthEnabled())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_SessionSecretFallsBackToPIN(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PIN", "4321")
	t.Setenv("SITE_URL", "https://stock.example.com/")
	t.Setenv("SESSION_SECRET", "")
	os.Unsetenv("SESSION_SECRET")
	t.Setenv("COOKIE_SECURE", "")
	os.Unsetenv("COOKIE_SECURE")

	cfg := LoadConfig()

	assert.True(t, cfg.AuthEnabled())
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, "https://stock.example.com", cfg.SiteURL)
	assert.Equal(t, "4321", cfg.SessionSecret)
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("COOKIE_SECURE", "false")
	assert.False(t, getEnvBool("COOKIE_SECURE", true))

	t.Setenv("COOKIE_SECURE", "garbage")
	assert.True(t, getEnvBool("COOKIE_SECURE", true))
}
