package config_test

import (
	"testing"
	"time"

	"github.com/techmajster/saas-leave-system/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, "3000", cfg.Port)
		assert.Equal(t, 3*time.Second, cfg.OutboxPollEvery)
		assert.Equal(t, 5, cfg.DispatchAttempts)
		assert.False(t, cfg.IsProduction())
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("PORT", "8080")
		t.Setenv("APP_ENV", "production")
		t.Setenv("OUTBOX_MAX_RETRIES", "7")
		t.Setenv("DISPATCH_BACKOFF", "250ms")

		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Port)
		assert.True(t, cfg.IsProduction())
		assert.Equal(t, 7, cfg.OutboxMaxRetries)
		assert.Equal(t, 250*time.Millisecond, cfg.DispatchBackoff)
	})
}
