package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENV", "LOG_LEVEL", "DEV_MODE", "DATA_DIR", "PORT", "SERVER_PORT", "GIN_MODE",
		"PUBLIC_BASE_URL", "SERVER_SHUTDOWN_TIMEOUT", "CORS_ALLOWED_ORIGINS",
		"GEMINI_API_KEY", "API_KEY", "GEMINI_MODEL", "GEMINI_CHAT_MODEL", "GEMINI_THINKING_BUDGET",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8082, cfg.Server.Port)
	assert.Equal(t, ":8082", cfg.Addr())
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, "gemini-3-pro-preview", cfg.Gemini.Model)
	assert.Equal(t, int32(4096), cfg.Gemini.ThinkingBudget)
	assert.False(t, cfg.HasAPIKey())
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("GEMINI_API_KEY", "key-1")
	t.Setenv("GEMINI_THINKING_BUDGET", "1024")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test,https://b.test")
	t.Setenv("DEV_MODE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "key-1", cfg.Gemini.APIKey)
	assert.Equal(t, int32(1024), cfg.Gemini.ThinkingBudget)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.Server.CORSAllowedOrigins)
	assert.True(t, cfg.DevMode)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_Fallbacks(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "3000")
	t.Setenv("API_KEY", "legacy-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "legacy-key", cfg.Gemini.APIKey)

	t.Setenv("PORT", "abc")
	_, err = Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Env:      EnvDevelopment,
		LogLevel: "info",
		DataDir:  "data",
		Server:   ServerConfig{Port: 8082},
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad env", func(c *Config) { c.Env = "staging" }},
		{"bad level", func(c *Config) { c.LogLevel = "verbose" }},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"negative budget", func(c *Config) { c.Gemini.ThinkingBudget = -1 }},
		{"no data dir", func(c *Config) { c.DataDir = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
