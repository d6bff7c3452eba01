package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notable-io/notable/config"
)

func TestLoad(t *testing.T) {
	t.Run("defaults produce a runnable local setup", func(t *testing.T) {
		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, "notable", cfg.App.Name)
		assert.Equal(t, ":8080", cfg.Server.Addr)
		assert.Equal(t, "http://localhost:4200", cfg.CORS.Origin)
		assert.True(t, cfg.Store.Seed)
	})

	t.Run("auth accessors", func(t *testing.T) {
		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, "notable", cfg.GetIssuer())
		assert.Equal(t, time.Hour, cfg.GetTokenTTL())
		assert.Equal(t, "user", cfg.GetContextKey())
		assert.Equal(t, "Bearer", cfg.GetAuthScheme())
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("NOTABLE_SERVER_ADDR", ":9999")
		t.Setenv("NOTABLE_AUTH_TOKEN_TTL", "30m")

		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, ":9999", cfg.Server.Addr)
		assert.Equal(t, 30*time.Minute, cfg.GetTokenTTL())
	})
}
