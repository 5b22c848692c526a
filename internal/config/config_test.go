package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LINGUA_JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "Lingua API", cfg.AppName)
	require.Equal(t, ":8080", cfg.HTTPAddress())
	require.Equal(t, 5*time.Minute, cfg.ProgressCacheTTL)
	require.Equal(t, 5*time.Second, cfg.ProgressLockTTL)
	require.Equal(t, 30*time.Second, cfg.AITimeout)
	require.Equal(t, 4, cfg.EvaluationWorkers)
	require.Equal(t, "openai", cfg.AIProvider)
	require.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	require.False(t, cfg.SeedEnabled)
	require.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LINGUA_JWT_SECRET", "secret")
	t.Setenv("LINGUA_APP_PORT", ":9000")
	t.Setenv("LINGUA_APP_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LINGUA_PROGRESS_CACHE_TTL", "90s")
	t.Setenv("LINGUA_EVALUATION_WORKERS", "8")
	t.Setenv("LINGUA_AI_PROVIDER", "Anthropic")
	t.Setenv("LINGUA_SEED_ENABLED", "true")
	t.Setenv("LINGUA_SEED_TOKEN", "tok")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.HTTPAddress())
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	require.Equal(t, 90*time.Second, cfg.ProgressCacheTTL)
	require.Equal(t, 8, cfg.EvaluationWorkers)
	require.Equal(t, "anthropic", cfg.AIProvider)
	require.True(t, cfg.SeedEnabled)
	require.Equal(t, "tok", cfg.SeedToken)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("LINGUA_JWT_SECRET", "")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("LINGUA_JWT_SECRET", "secret")
		t.Setenv("LINGUA_PROGRESS_LOCK_TTL", "soon")
		_, err := Load()
		require.ErrorContains(t, err, "progress.lock_ttl")
	})

	t.Run("unknown provider", func(t *testing.T) {
		t.Setenv("LINGUA_JWT_SECRET", "secret")
		t.Setenv("LINGUA_AI_PROVIDER", "llama")
		_, err := Load()
		require.ErrorContains(t, err, "llama")
	})
}
