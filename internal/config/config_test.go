package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/clinic_test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, 50, cfg.MessageCap)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTPHost)
	assert.Equal(t, 587, cfg.SMTPPort)
}

func TestEmailEnabled(t *testing.T) {
	t.Run("disabled without credentials", func(t *testing.T) {
		cfg := &Config{}
		assert.False(t, cfg.EmailEnabled())

		cfg = &Config{EmailUser: "clinic@example.com"}
		assert.False(t, cfg.EmailEnabled())
	})

	t.Run("enabled with both credentials", func(t *testing.T) {
		cfg := &Config{EmailUser: "clinic@example.com", EmailAppPassword: "app-pass"}
		assert.True(t, cfg.EmailEnabled())
	})
}

func TestAdminEmailFallsBackToEmailUser(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/clinic_test")
	t.Setenv("EMAIL_USER", "clinic@example.com")
	t.Setenv("ADMIN_EMAIL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "clinic@example.com", cfg.AdminEmail)
}
