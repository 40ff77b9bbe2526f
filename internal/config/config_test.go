package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// Run from an empty directory so no stray config.yaml is picked up.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "http://localhost:3000", cfg.Backend.BaseURL)
	assert.Equal(t, 30, cfg.Backend.Timeout)
	assert.Equal(t, 10.0, cfg.Backend.RequestRate)
	assert.Equal(t, 300, cfg.Market.CatalogTTL)
	assert.Equal(t, 60, cfg.Wallet.StaleAfter)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.GCP.UseSecrets)
	assert.Equal(t, "trading-backend-email", cfg.GCP.SecretNames.BackendEmail)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9000
backend:
  base_url: https://trading.example.com
  email: ana@example.com
logging:
  level: debug
  format: text
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "https://trading.example.com", cfg.Backend.BaseURL)
	assert.Equal(t, "ana@example.com", cfg.Backend.Email)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)

	// Sections absent from the file keep their defaults.
	assert.Equal(t, 60, cfg.Wallet.StaleAfter)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend:\n  email: file@example.com\n"), 0o600))

	t.Setenv("BACKEND_EMAIL", "env@example.com")
	t.Setenv("BACKEND_PASSWORD", "env-secret")
	t.Setenv("BACKEND_URL", "https://env.example.com")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env@example.com", cfg.Backend.Email)
	assert.Equal(t, "env-secret", cfg.Backend.Password)
	assert.Equal(t, "https://env.example.com", cfg.Backend.BaseURL)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
