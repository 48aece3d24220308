// Package config loads the bot's settings from the environment
package config

import (
	stderrors "errors"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/KirkDiggler/coc-keeper/internal/errors"
	"github.com/KirkDiggler/coc-keeper/internal/logger"
)

// Sheet store backends
const (
	SheetStoreRedis  = "redis"
	SheetStoreSQLite = "sqlite"
)

// Config holds every runtime setting
type Config struct {
	DiscordToken string `env:"KEEPER_DISCORD_TOKEN"`
	BotName      string `env:"KEEPER_BOT_NAME" envDefault:"CoC骰娘" validate:"required"`

	RedisURL   string `env:"KEEPER_REDIS_URL" envDefault:"redis://localhost:6379/0" validate:"required,url"`
	SheetStore string `env:"KEEPER_SHEET_STORE" envDefault:"redis" validate:"oneof=redis sqlite"`
	SQLitePath string `env:"KEEPER_SQLITE_PATH" envDefault:"data/keeper.db" validate:"required_if=SheetStore sqlite"`

	OllamaURL         string        `env:"KEEPER_OLLAMA_URL" envDefault:"http://localhost:11434" validate:"required,url"`
	OllamaModel       string        `env:"KEEPER_OLLAMA_MODEL" envDefault:"qwen3:8b" validate:"required"`
	OllamaTemperature float64       `env:"KEEPER_OLLAMA_TEMPERATURE" envDefault:"0.8" validate:"gte=0,lte=2"`
	OllamaNumCtx      int           `env:"KEEPER_OLLAMA_NUM_CTX" envDefault:"4096" validate:"gt=0"`
	OllamaNoThink     bool          `env:"KEEPER_OLLAMA_NO_THINK" envDefault:"true"`
	InferenceTimeout  time.Duration `env:"KEEPER_INFERENCE_TIMEOUT" envDefault:"120s" validate:"gt=0"`

	HistoryLimit   int           `env:"KEEPER_HISTORY_LIMIT" envDefault:"20" validate:"gte=0"`
	PendingTTL     time.Duration `env:"KEEPER_PENDING_TTL" envDefault:"30m" validate:"gt=0"`
	SheetCacheSize int           `env:"KEEPER_SHEET_CACHE_SIZE" envDefault:"512" validate:"gte=0"`
	SheetCacheTTL  time.Duration `env:"KEEPER_SHEET_CACHE_TTL" envDefault:"10m" validate:"gte=0"`

	MetricsAddr  string `env:"KEEPER_METRICS_ADDR" envDefault:":9090"`
	HealthPort   int    `env:"KEEPER_HEALTH_PORT" envDefault:"50051" validate:"gte=0,lte=65535"`
	OTelEndpoint string `env:"KEEPER_OTEL_ENDPOINT"`

	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn warning error"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text" validate:"oneof=text json"`
	LogSource   bool   `env:"LOG_SOURCE"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`

	// Version is stamped at build time, not read from the environment
	Version string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads an optional .env file, then the process environment
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, "failed to read env file")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}
	return finish(cfg)
}

// LoadFrom parses environ instead of the process environment
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags and reports every failing field
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.Wrap(err, "failed to validate config")
	}

	vb := errors.NewValidationBuilder()
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			vb.Fieldf(fe.Field(), "failed %s=%s", fe.Tag(), fe.Param())
			continue
		}
		vb.Fieldf(fe.Field(), "failed %s", fe.Tag())
	}
	return vb.Build()
}

// RequireDiscord checks the settings only the Discord transport needs
func (c *Config) RequireDiscord() error {
	vb := errors.NewValidationBuilder()
	if c.DiscordToken == "" {
		vb.Field("DiscordToken", "KEEPER_DISCORD_TOKEN is required")
	}
	return vb.Build()
}

// Logger returns the logging settings
func (c *Config) Logger() logger.Config {
	return logger.Config{
		Level:       c.LogLevel,
		Format:      c.LogFormat,
		ServiceName: "coc-keeper",
		Version:     c.Version,
		Environment: c.Environment,
		AddSource:   c.LogSource,
	}
}
