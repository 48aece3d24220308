// Package narrator runs the AI Keeper. Each player message becomes a turn in
// the room's conversation; checks the model asks for are rolled by the rules
// engine and fed back before the model continues.
package narrator

//go:generate mockgen -destination=mock/mock_service.go -package=narratormock github.com/KirkDiggler/coc-keeper/internal/orchestrators/narrator Service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/KirkDiggler/coc-keeper/internal/clients/inference"
	"github.com/KirkDiggler/coc-keeper/internal/entities"
	"github.com/KirkDiggler/coc-keeper/internal/errors"
	"github.com/KirkDiggler/coc-keeper/internal/orchestrators/resolver"
	"github.com/KirkDiggler/coc-keeper/internal/session"
)

var tracer = otel.Tracer("github.com/KirkDiggler/coc-keeper/internal/orchestrators/narrator")

// Service drives the AI Keeper conversation of a room
type Service interface {
	// Turn answers a player message. A nil output means the room has no
	// active AI Keeper. Inference failures end the turn with Notice and are
	// not returned.
	Turn(ctx context.Context, input *TurnInput) (*TurnOutput, error)

	// Kickoff asks the model for the opening scene
	Kickoff(ctx context.Context, input *KickoffInput) (*TurnOutput, error)
}

// Config holds the dependencies for the narrator
type Config struct {
	Sessions  session.Service
	Resolver  resolver.Service
	Inference inference.Client
	// Timeout bounds each inference call. Defaults to inference.DefaultTimeout.
	Timeout time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Sessions == nil {
		vb.RequiredField("Sessions")
	}
	if c.Resolver == nil {
		vb.RequiredField("Resolver")
	}
	if c.Inference == nil {
		vb.RequiredField("Inference")
	}
	if c.Timeout < 0 {
		vb.Field("Timeout", "must not be negative")
	}

	return vb.Build()
}

type orchestrator struct {
	sessions  session.Service
	resolver  resolver.Service
	inference inference.Client
	timeout   time.Duration
}

// NewOrchestrator creates a narrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = inference.DefaultTimeout
	}

	return &orchestrator{
		sessions:  cfg.Sessions,
		resolver:  cfg.Resolver,
		inference: cfg.Inference,
		timeout:   timeout,
	}, nil
}

func (o *orchestrator) Turn(ctx context.Context, input *TurnInput) (*TurnOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	room, err := o.sessions.Room(ctx, input.RoomID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load room")
	}
	if !room.AI.Active {
		return nil, nil
	}

	t := &turn{
		key:  session.SheetKey{PlayerID: input.PlayerID, RoomID: input.RoomID},
		name: input.PlayerName,
	}
	return o.run(ctx, t, userTurn(input.PlayerName, input.Text))
}

func (o *orchestrator) Kickoff(ctx context.Context, input *KickoffInput) (*TurnOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	room, err := o.sessions.Room(ctx, input.RoomID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load room")
	}
	if !room.AI.Active {
		return nil, nil
	}

	t := &turn{
		key:  session.SheetKey{PlayerID: input.PlayerID, RoomID: input.RoomID},
		name: input.PlayerName,
	}
	return o.run(ctx, t, kickoffPrompt)
}

type turn struct {
	key  session.SheetKey
	name string
	out  TurnOutput
}

func (t *turn) emit(text string) {
	if text != "" {
		t.out.Messages = append(t.out.Messages, text)
	}
}

// fail ends the turn with the notice; history already written stays
func (t *turn) fail() *TurnOutput {
	t.out.Failed = true
	t.emit(Notice)
	return &t.out
}

func (o *orchestrator) run(ctx context.Context, t *turn, content string) (*TurnOutput, error) {
	ctx, span := tracer.Start(ctx, "narrator.Turn")
	defer span.End()
	span.SetAttributes(attribute.String("room_id", t.key.RoomID))

	reply, ok, err := o.exchange(ctx, t, entities.Turn{Role: entities.RoleUser, Content: content})
	if err != nil {
		return nil, err
	}
	if !ok {
		return t.fail(), nil
	}

	directives := ParseDirectives(reply)
	t.emit(StripDirectives(reply))
	span.SetAttributes(attribute.Int("directives", len(directives)))

	for _, d := range directives {
		check, err := o.resolver.Check(ctx, &resolver.CheckInput{
			Key:         t.key,
			Name:        t.name,
			Skill:       d.Skill,
			Target:      d.Target,
			HasTarget:   true,
			PreferSheet: true,
			Record:      true,
			Origin:      resolver.OriginNarrator,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to resolve %s check", d.Skill)
		}
		t.emit(check.Result.Details())

		feedback := entities.Turn{Role: entities.RoleSystem, Content: rollFeedback(t.name, check.Result)}
		followUp, ok, err := o.exchange(ctx, t, feedback)
		if err != nil {
			return nil, err
		}
		if !ok {
			return t.fail(), nil
		}
		// directives in a follow-up are shown stripped but not rolled
		t.emit(StripDirectives(followUp))
	}

	return &t.out, nil
}

// exchange records sent, asks the model and records its cleaned reply. ok is
// false when inference failed and the turn must stop.
func (o *orchestrator) exchange(ctx context.Context, t *turn, sent entities.Turn) (string, bool, error) {
	room, err := o.sessions.AppendTurns(ctx, t.key.RoomID, sent)
	if err != nil {
		return "", false, errors.Wrap(err, "failed to record turn")
	}

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	out, err := o.inference.Chat(callCtx, &inference.ChatInput{
		System:   SystemPrompt(room.AI.Briefing),
		Messages: room.AI.History,
	})
	if err != nil {
		slog.WarnContext(ctx, "AI keeper inference failed",
			"room_id", t.key.RoomID,
			"code", errors.GetCode(err),
			"error", err)
		return "", false, nil
	}

	reply := StripThinking(out.Content)
	if _, err := o.sessions.AppendTurns(ctx, t.key.RoomID, entities.Turn{Role: entities.RoleAssistant, Content: reply}); err != nil {
		return "", false, errors.Wrap(err, "failed to record reply")
	}
	return reply, true, nil
}
