// Package chat turns inbound chat messages into router commands or AI
// Keeper turns and delivers the replies through a transport.
package chat

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/KirkDiggler/coc-keeper/internal/command"
	"github.com/KirkDiggler/coc-keeper/internal/errors"
	"github.com/KirkDiggler/coc-keeper/internal/logger"
	"github.com/KirkDiggler/coc-keeper/internal/metrics"
	"github.com/KirkDiggler/coc-keeper/internal/orchestrators/narrator"
	"github.com/KirkDiggler/coc-keeper/internal/orchestrators/router"
	"github.com/KirkDiggler/coc-keeper/internal/pkg/idgen"
	"github.com/KirkDiggler/coc-keeper/internal/session"
	"github.com/KirkDiggler/coc-keeper/internal/transport"
)

var tracer = otel.Tracer("github.com/KirkDiggler/coc-keeper/internal/handlers/chat")

const (
	msgDirectFallback = "\n(私信发送失败，请先添加骰娘为好友)"
	msgDirectFailed   = "❌ 私信发送失败，请先添加骰娘为好友"
	msgInternal       = "❌ 出了点问题，请稍后再试"
)

// HandlerConfig holds dependencies for the chat handler
type HandlerConfig struct {
	Router   router.Service
	Narrator narrator.Service
	Sender   transport.Sender
	Locks    *session.RoomLocks
	// Metrics is optional
	Metrics *metrics.Recorder
	// TurnIDs names each inbound message in logs; defaults to UUIDs
	TurnIDs idgen.Generator
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Router == nil {
		vb.RequiredField("Router")
	}
	if c.Narrator == nil {
		vb.RequiredField("Narrator")
	}
	if c.Sender == nil {
		vb.RequiredField("Sender")
	}
	if c.Locks == nil {
		vb.RequiredField("Locks")
	}

	return vb.Build()
}

// Handler processes one message at a time per room
type Handler struct {
	router   router.Service
	narrator narrator.Service
	sender   transport.Sender
	locks    *session.RoomLocks
	metrics  *metrics.Recorder
	turnIDs  idgen.Generator
}

var _ transport.Handler = (*Handler)(nil)

// NewHandler creates a chat handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	turnIDs := cfg.TurnIDs
	if turnIDs == nil {
		turnIDs = idgen.NewUUID()
	}

	return &Handler{
		router:   cfg.Router,
		narrator: cfg.Narrator,
		sender:   cfg.Sender,
		locks:    cfg.Locks,
		metrics:  cfg.Metrics,
		turnIDs:  turnIDs,
	}, nil
}

// Handle runs a message to completion. The room stays locked until every
// reply, including any AI Keeper turn, has been delivered.
func (h *Handler) Handle(ctx context.Context, msg *transport.Message) {
	if msg == nil || strings.TrimSpace(msg.Text) == "" {
		return
	}

	ctx = logger.WithTurnID(ctx, h.turnIDs.Generate())
	ctx, span := tracer.Start(ctx, "chat.Handle", trace.WithAttributes(
		attribute.String("room_id", msg.RoomID),
		attribute.String("player_id", msg.PlayerID),
	))
	defer span.End()

	unlock := h.locks.Lock(msg.RoomID)
	defer unlock()

	start := time.Now()
	kind, err := h.handle(ctx, msg)
	h.metrics.Message(kind, err, time.Since(start))
	if err == nil {
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, "message failed")
	slog.ErrorContext(ctx, "failed to handle message",
		"room_id", msg.RoomID,
		"player_id", msg.PlayerID,
		"kind", kind,
		"error", err)
	h.sendGroup(ctx, msg.RoomID, h.sender.Mention(msg.PlayerID, msg.PlayerName)+"\n"+msgInternal)
}

func (h *Handler) handle(ctx context.Context, msg *transport.Message) (string, error) {
	resp, err := h.router.Handle(ctx, &router.HandleInput{
		PlayerID:   msg.PlayerID,
		RoomID:     msg.RoomID,
		PlayerName: msg.PlayerName,
		Text:       msg.Text,
	})
	if stderrors.Is(err, command.ErrNotCommand) {
		return h.narrate(ctx, msg)
	}
	if err != nil {
		return metrics.KindCommand, err
	}
	if resp == nil {
		return metrics.KindIgnored, nil
	}

	h.deliver(ctx, msg, resp)

	if resp.Kickoff {
		out, err := h.narrator.Kickoff(ctx, &narrator.KickoffInput{
			PlayerID:   msg.PlayerID,
			RoomID:     msg.RoomID,
			PlayerName: msg.PlayerName,
		})
		if err != nil {
			return metrics.KindCommand, errors.Wrap(err, "failed to open AI keeper scene")
		}
		h.sendNarration(ctx, msg.RoomID, out)
	}

	return metrics.KindCommand, nil
}

func (h *Handler) narrate(ctx context.Context, msg *transport.Message) (string, error) {
	out, err := h.narrator.Turn(ctx, &narrator.TurnInput{
		PlayerID:   msg.PlayerID,
		RoomID:     msg.RoomID,
		PlayerName: msg.PlayerName,
		Text:       msg.Text,
	})
	if err != nil {
		return metrics.KindNarration, errors.Wrap(err, "failed to run AI keeper turn")
	}
	if out == nil {
		return metrics.KindIgnored, nil
	}

	h.sendNarration(ctx, msg.RoomID, out)
	return metrics.KindNarration, nil
}

// deliver sends the private part first so a failure can be reported in the
// group reply
func (h *Handler) deliver(ctx context.Context, msg *transport.Message, resp *router.Response) {
	groupText := resp.Group

	if resp.Private != "" {
		err := h.sender.SendDirect(ctx, msg.PlayerID, resp.Private)
		h.metrics.Delivery(metrics.ChannelDirect, err)
		if err != nil {
			slog.WarnContext(ctx, "direct message failed",
				"player_id", msg.PlayerID,
				"error", err)
			if groupText != "" {
				groupText += msgDirectFallback
			} else {
				groupText = msgDirectFailed
			}
		}
	}

	if groupText == "" {
		return
	}
	h.sendGroup(ctx, msg.RoomID, h.sender.Mention(msg.PlayerID, msg.PlayerName)+"\n"+groupText)
}

func (h *Handler) sendNarration(ctx context.Context, roomID string, out *narrator.TurnOutput) {
	if out == nil {
		return
	}
	for _, text := range out.Messages {
		if strings.TrimSpace(text) == "" {
			continue
		}
		h.sendGroup(ctx, roomID, text)
	}
}

func (h *Handler) sendGroup(ctx context.Context, roomID, text string) {
	err := h.sender.SendGroup(ctx, roomID, text)
	h.metrics.Delivery(metrics.ChannelGroup, err)
	if err != nil {
		slog.WarnContext(ctx, "group message failed",
			"room_id", roomID,
			"error", err)
	}
}
