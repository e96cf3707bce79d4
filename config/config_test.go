package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("FRONTEND_URL", "https://cvchef.app/")
		t.Setenv("ALLOWED_ORIGINS", "")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "https://cvchef.app", cfg.FrontendURL)
		assert.Equal(t, []string{"https://cvchef.app"}, cfg.AllowedOrigins)
		assert.Equal(t, time.Minute, cfg.RateLimitWindow())
		assert.Equal(t, "gpt-4.1-nano", cfg.OpenAIChatModel)
		assert.Equal(t, "gpt-4o-mini", cfg.OpenAIATSModel)
	})

	t.Run("Overrides", func(t *testing.T) {
		t.Setenv("ALLOWED_ORIGINS", "https://a.example/, ,https://b.example")
		t.Setenv("AI_TIMEOUT_SECONDS", "15")
		t.Setenv("EDITOR_SESSION_TTL_MINUTES", "not-a-number")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
		assert.Equal(t, 15*time.Second, cfg.AITimeout())
		assert.Equal(t, time.Hour, cfg.EditorSessionTTL())
	})
}
