package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err, "missing .env must not be fatal")

	assert.Equal(t, "session-service", cfg.AppName)
	assert.Equal(t, "8090", cfg.Rest.Port)
	assert.Equal(t, 10*time.Second, cfg.Marketplace.Timeout)
	assert.Equal(t, "@every 1m", cfg.Session.SweepSchedule)
	assert.Equal(t, int64(100_000_000), cfg.Sliders.PriceCeiling)
	assert.False(t, cfg.Sliders.OpenEnded)
	assert.Empty(t, cfg.Redis.Addr)
	assert.False(t, cfg.FluentBit.Enabled)
}

func TestLoadConfig_FromEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	content := "JWT_SECRET=from-file\n" +
		"PORT=9000\n" +
		"CORS_ALLOWED_ORIGINS=https://a.example, https://b.example,\n" +
		"MARKETPLACE_API_TIMEOUT=3s\n" +
		"MARKETPLACE_API_RPS=2.5\n" +
		"SEARCH_CACHE_TTL=not-a-duration\n" +
		"SLIDER_OPEN_ENDED=true\n" +
		"FLUENTBIT_ENABLED=true\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	// godotenv не перезаписывает уже заданные переменные; убираем их после теста.
	for _, key := range []string{"JWT_SECRET", "PORT", "CORS_ALLOWED_ORIGINS", "MARKETPLACE_API_TIMEOUT",
		"MARKETPLACE_API_RPS", "SEARCH_CACHE_TTL", "SLIDER_OPEN_ENDED", "FLUENTBIT_ENABLED"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := LoadConfig(envFile)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.Equal(t, "9000", cfg.Rest.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Rest.AllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.Marketplace.Timeout)
	assert.Equal(t, 2.5, cfg.Marketplace.RPS)
	assert.Equal(t, 2*time.Minute, cfg.Redis.TTL, "invalid duration falls back to default")
	assert.True(t, cfg.Sliders.OpenEnded)
	assert.False(t, cfg.FluentBit.Enabled, "fluent bit without host is disabled")
}

func TestLoadConfig_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoadConfig_RejectsInvertedSliderBounds(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("AREA_SLIDER_MIN", "500")
	t.Setenv("AREA_SLIDER_MAX", "100")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
