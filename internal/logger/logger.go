// Package logger configures slog for the bot and carries a per-message turn
// id through the context.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type ctxKey string

const turnIDKey ctxKey = "turnID"

// TurnIDAttr is the attribute name used for the turn id
const TurnIDAttr = "turn_id"

// Init builds a handler from cfg, writes to stderr and installs it as the
// slog default
func Init(cfg Config) *slog.Logger {
	return InitWithWriter(cfg, os.Stderr)
}

// InitWithWriter is Init with an explicit destination
func InitWithWriter(cfg Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     cfg.LogLevel(),
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.IsJSON() {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	handler = handler.WithAttrs(cfg.BaseAttributes())

	l := slog.New(&contextHandler{Handler: handler})
	slog.SetDefault(l)
	return l
}

// WithTurnID returns a context carrying id
func WithTurnID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, turnIDKey, id)
}

// TurnIDFromContext extracts the turn id, if present
func TurnIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(turnIDKey).(string)
	return id, ok && id != ""
}

// FromContext returns the default logger with the turn id attached
func FromContext(ctx context.Context) *slog.Logger {
	if id, ok := TurnIDFromContext(ctx); ok {
		return slog.Default().With(TurnIDAttr, id)
	}
	return slog.Default()
}

// contextHandler adds the turn id to records logged with a context, so
// slog.InfoContext calls deep in the orchestrators are correlated too.
type contextHandler struct {
	slog.Handler
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := TurnIDFromContext(ctx); ok {
		r.AddAttrs(slog.String(TurnIDAttr, id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name)}
}
