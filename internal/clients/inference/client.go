// Package inference is the client for the language model that narrates as
// the AI Keeper. It speaks the Ollama chat API.
package inference

//go:generate mockgen -destination=mock/mock_client.go -package=inferencemock github.com/KirkDiggler/coc-keeper/internal/clients/inference Client

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/KirkDiggler/coc-keeper/internal/entities"
	"github.com/KirkDiggler/coc-keeper/internal/errors"
)

// Defaults for a local Ollama install
const (
	DefaultBaseURL     = "http://localhost:11434"
	DefaultModel       = "qwen3:8b"
	DefaultTemperature = 0.8
	DefaultNumCtx      = 4096
	DefaultTimeout     = 120 * time.Second

	// noThinkPrefix asks qwen3 models to skip their reasoning pass
	noThinkPrefix = "/no_think\n"
)

// ChatInput is one request. System is sent first on every call and is never
// part of Messages.
type ChatInput struct {
	System   string
	Messages []entities.Turn
}

// ChatOutput is the model reply
type ChatOutput struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	Duration         time.Duration
}

// Client sends conversations to the model
type Client interface {
	// Chat returns the model's reply to the conversation
	// Returns errors.InvalidArgument for an empty conversation
	// Returns errors.Unavailable when the service cannot be reached or answers badly
	// Returns errors.DeadlineExceeded when ctx expires first
	Chat(ctx context.Context, input *ChatInput) (*ChatOutput, error)
}

// Config configures the Ollama client
type Config struct {
	// BaseURL defaults to DefaultBaseURL
	BaseURL string
	// Model defaults to DefaultModel
	Model string
	// Temperature defaults to DefaultTemperature
	Temperature float64
	// NumCtx defaults to DefaultNumCtx
	NumCtx int
	// NoThink prefixes user turns with /no_think on the wire
	NoThink bool
	// HTTPClient defaults to a client with Timeout
	HTTPClient *http.Client
	// Timeout bounds one request when HTTPClient is not supplied
	Timeout time.Duration
}

// Validate sets defaults and checks the result
func (cfg *Config) Validate() error {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.NumCtx == 0 {
		cfg.NumCtx = DefaultNumCtx
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	vb := errors.NewValidationBuilder()
	if !strings.HasPrefix(cfg.BaseURL, "http://") && !strings.HasPrefix(cfg.BaseURL, "https://") {
		vb.Field("BaseURL", "must be an http(s) URL")
	}
	if cfg.Temperature < 0 {
		vb.Field("Temperature", "must not be negative")
	}
	if cfg.NumCtx < 0 {
		vb.Field("NumCtx", "must not be negative")
	}
	return vb.Build()
}

// New creates an Ollama client
func New(cfg *Config) (Client, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid inference config")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &ollamaClient{
		baseURL:     cfg.BaseURL,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		numCtx:      cfg.NumCtx,
		noThink:     cfg.NoThink,
		http:        httpClient,
	}, nil
}
