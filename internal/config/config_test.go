package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	path := writeConfig(t, `
app:
  name: teamhub
jwt:
  secret: test-secret
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.AI.BaseURL)
	assert.Equal(t, "google/gemini-2.5-flash", cfg.AI.Model)
	assert.Equal(t, 15*time.Minute, cfg.JWT.MagicLinkDuration)
	assert.Equal(t, 30*time.Minute, cfg.JWT.ResetDuration)
	assert.Equal(t, time.Hour, cfg.Capture.DraftTTL)
	assert.Equal(t, 5, cfg.Capture.MaxImages)
	assert.Equal(t, 10*time.Minute, cfg.Session.TTL)
	assert.False(t, cfg.AI.Configured())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "sk-test")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	path := writeConfig(t, `
app:
  port: 8080
jwt:
  secret: test-secret
ai:
  api_key: from-file
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "sk-test", cfg.AI.APIKey)
	assert.True(t, cfg.AI.Configured())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.AllowedOrigins)
}

func TestLoad_PlaceholderDefault(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	path := writeConfig(t, `
jwt:
  secret: ${JWT_SECRET:fallback-secret}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fallback-secret", cfg.JWT.Secret)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing secret", mutate: func(c *Config) { c.JWT.Secret = "" }, wantErr: true},
		{name: "bad port", mutate: func(c *Config) { c.App.Port = 70000 }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: true},
		{name: "sqlite without path", mutate: func(c *Config) { c.Database.Driver = "sqlite" }, wantErr: true},
		{name: "missing ai key is fine", mutate: func(c *Config) { c.AI.APIKey = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{JWT: JWTConfig{Secret: "s"}}
			cfg.applyDefaults()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
