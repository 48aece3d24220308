package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/KirkDiggler/coc-keeper/internal/entities"
	"github.com/KirkDiggler/coc-keeper/internal/errors"
)

const chatPath = "/api/chat"

var tracer = otel.Tracer("github.com/KirkDiggler/coc-keeper/internal/clients/inference")

type ollamaClient struct {
	baseURL     string
	model       string
	temperature float64
	numCtx      int
	noThink     bool
	http        *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
	NumCtx      int     `json:"num_ctx"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  chatOptions   `json:"options"`
}

type chatResponse struct {
	Model           string      `json:"model"`
	Message         chatMessage `json:"message"`
	Done            bool        `json:"done"`
	PromptEvalCount int         `json:"prompt_eval_count"`
	EvalCount       int         `json:"eval_count"`
	Error           string      `json:"error"`
}

func (c *ollamaClient) Chat(ctx context.Context, input *ChatInput) (*ChatOutput, error) {
	if input == nil || len(input.Messages) == 0 {
		return nil, errors.InvalidArgument("conversation is empty")
	}

	ctx, span := tracer.Start(ctx, "inference.Chat")
	defer span.End()
	span.SetAttributes(
		attribute.String("inference.model", c.model),
		attribute.Int("inference.messages", len(input.Messages)),
	)

	body, err := json.Marshal(c.buildRequest(input))
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal chat request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatPath, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build chat request")
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		if ctx.Err() != nil {
			return nil, errors.WrapWithCode(err, errors.CodeDeadlineExceeded, "inference request timed out")
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "inference request failed")
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		span.SetStatus(codes.Error, res.Status)
		return nil, errors.Unavailablef("inference status %d: %s", res.StatusCode, strings.TrimSpace(string(snippet))).
			WithMeta("status", res.StatusCode)
	}

	var payload chatResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "bad payload")
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "invalid JSON from inference service")
	}
	if payload.Error != "" {
		span.SetStatus(codes.Error, payload.Error)
		return nil, errors.Unavailablef("inference service error: %s", payload.Error)
	}

	out := &ChatOutput{
		Content:          payload.Message.Content,
		Model:            payload.Model,
		PromptTokens:     payload.PromptEvalCount,
		CompletionTokens: payload.EvalCount,
		Duration:         time.Since(start),
	}
	span.SetAttributes(
		attribute.Int("inference.prompt_tokens", out.PromptTokens),
		attribute.Int("inference.completion_tokens", out.CompletionTokens),
	)

	slog.DebugContext(ctx, "inference reply",
		"model", out.Model,
		"prompt_tokens", out.PromptTokens,
		"completion_tokens", out.CompletionTokens,
		"duration", out.Duration)

	return out, nil
}

func (c *ollamaClient) buildRequest(input *ChatInput) chatRequest {
	messages := make([]chatMessage, 0, len(input.Messages)+1)
	if input.System != "" {
		messages = append(messages, chatMessage{Role: string(entities.RoleSystem), Content: input.System})
	}
	for _, turn := range input.Messages {
		content := turn.Content
		if c.noThink && turn.Role == entities.RoleUser {
			content = noThinkPrefix + content
		}
		messages = append(messages, chatMessage{Role: string(turn.Role), Content: content})
	}

	return chatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
		Options: chatOptions{
			Temperature: c.temperature,
			NumCtx:      c.numCtx,
		},
	}
}
