package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "does-not-exist.toml")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "propertyhub", cfg.App.Name)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr())
	assert.Equal(t, 1536, cfg.LLM.EmbeddingDimension)
	assert.Equal(t, "eligibility.submission.persist", cfg.RabbitMQ.SubmissionPersistQueue)
	assert.False(t, cfg.TLSEnabled())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "does-not-exist.toml")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("POSTGRES_SSL_MODE", "require")
	t.Setenv("JWT_SECRET", "override-secret")
	t.Setenv("SECURITY_RATE_LIMIT_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.App.Port)
	assert.Equal(t, "override-secret", cfg.Auth.JWTSecret)
	assert.True(t, cfg.Security.RateLimitEnabled)
	assert.Contains(t, cfg.PostgresDSN(), "host=db.internal")
	assert.Contains(t, cfg.PostgresDSN(), "sslmode=require")
}

func TestBadEnvValuesFallBack(t *testing.T) {
	t.Setenv("CONFIG_FILE", "does-not-exist.toml")
	t.Setenv("APP_PORT", "not-a-number")
	t.Setenv("SECURITY_AUDIT_LOG_ENABLED", "not-a-bool")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.True(t, cfg.Security.AuditLogEnabled)
}

func TestTLSEnabled(t *testing.T) {
	t.Setenv("CONFIG_FILE", "does-not-exist.toml")
	t.Setenv("APP_TLS_CERT", "/etc/ssl/server.crt")
	t.Setenv("APP_TLS_KEY", "/etc/ssl/server.key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.TLSEnabled())
}
