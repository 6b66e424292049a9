package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Environment represents the deployment environment
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// Config holds all application configuration
type Config struct {
	Env      Environment `envconfig:"ENV" default:"development"`
	LogLevel string      `envconfig:"LOG_LEVEL" default:"info"`

	// DevMode exposes detailed statistics such as popular URLs
	DevMode bool   `envconfig:"DEV_MODE" default:"false"`
	DataDir string `envconfig:"DATA_DIR" default:"data"`

	Server ServerConfig
	Gemini GeminiConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port               int           `envconfig:"SERVER_PORT" default:"8082"`
	GinMode            string        `envconfig:"GIN_MODE" default:"release"`
	PublicBaseURL      string        `envconfig:"PUBLIC_BASE_URL" default:""`
	ShutdownTimeout    time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	CORSAllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// GeminiConfig holds hosted model settings
type GeminiConfig struct {
	APIKey         string `envconfig:"GEMINI_API_KEY"`
	Model          string `envconfig:"GEMINI_MODEL" default:"gemini-3-pro-preview"`
	ChatModel      string `envconfig:"GEMINI_CHAT_MODEL" default:"gemini-3-pro-preview"`
	ThinkingBudget int32  `envconfig:"GEMINI_THINKING_BUDGET" default:"4096"`
}

// LoadDotEnv loads .env.development when present, .env otherwise. It
// returns the file that was loaded, "" when neither exists.
func LoadDotEnv() string {
	if err := godotenv.Load(".env.development"); err == nil {
		return ".env.development"
	}
	if err := godotenv.Load(); err == nil {
		return ".env"
	}
	return ""
}

// Load reads configuration from the environment and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing config: %w", err)
	}

	// PORT and API_KEY are the names hosting platforms and older setups use.
	if port := os.Getenv("PORT"); port != "" && os.Getenv("SERVER_PORT") == "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("processing config: invalid PORT %q", port)
		}
		cfg.Server.Port = p
	}
	if cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = os.Getenv("API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration. A missing API key is allowed: the
// service starts and reports the problem on every model call.
func (c *Config) Validate() error {
	var errors []string

	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		errors = append(errors, fmt.Sprintf("ENV must be %q or %q", EnvDevelopment, EnvProduction))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, "LOG_LEVEL must be one of debug, info, warn, error")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errors = append(errors, "SERVER_PORT must be between 1 and 65535")
	}

	if c.Gemini.ThinkingBudget < 0 {
		errors = append(errors, "GEMINI_THINKING_BUDGET must not be negative")
	}

	if c.DataDir == "" {
		errors = append(errors, "DATA_DIR is required")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// IsDevelopment reports whether running in development
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// HasAPIKey reports whether a model credential was supplied
func (c *Config) HasAPIKey() bool {
	return c.Gemini.APIKey != ""
}
