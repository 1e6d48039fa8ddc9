package config_test

import (
	"testing"
	"time"

	"github.com/mataure/storefront/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("defaults with only the secret set", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")

		cfg, err := config.New()
		require.NoError(t, err)

		assert.Equal(t, ":3000", cfg.Server.Addr)
		assert.Equal(t, "http://localhost:3000", cfg.Server.BaseURL)
		assert.Equal(t, "storefront.db", cfg.Database.DSN)
		assert.Equal(t, "test-secret", cfg.JWT.Secret)
		assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
		assert.Equal(t, "storefront", cfg.JWT.Issuer)
		assert.Equal(t, 587, cfg.SMTP.Port)
		assert.False(t, cfg.MailEnabled())
	})

	t.Run("explicit values override defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("SERVER_ADDR", ":8080")
		t.Setenv("JWT_TTL", "1h30m")
		t.Setenv("SMTP_HOST", "smtp.example.com")

		cfg, err := config.New()
		require.NoError(t, err)

		assert.Equal(t, ":8080", cfg.Server.Addr)
		assert.Equal(t, 90*time.Minute, cfg.JWT.TTL)
		assert.True(t, cfg.MailEnabled())
	})

	t.Run("missing secret fails", func(t *testing.T) {
		_, err := config.New()
		assert.Error(t, err)
	})
}
