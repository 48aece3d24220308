// Package router executes parsed chat directives against the session store
// and the rules engine and renders the replies players see.
package router

//go:generate mockgen -destination=mock/mock_service.go -package=routermock github.com/KirkDiggler/coc-keeper/internal/orchestrators/router Service

import (
	"context"
	stderrors "errors"
	"log/slog"

	"github.com/KirkDiggler/coc-keeper/internal/bestiary"
	"github.com/KirkDiggler/coc-keeper/internal/command"
	"github.com/KirkDiggler/coc-keeper/internal/errors"
	"github.com/KirkDiggler/coc-keeper/internal/orchestrators/resolver"
	"github.com/KirkDiggler/coc-keeper/internal/rules"
	"github.com/KirkDiggler/coc-keeper/internal/session"
)

// Service runs one chat directive
type Service interface {
	// Handle parses and executes a line of chat. A nil Response means the
	// line was ignored. Player-facing failures are rendered into the
	// Response; only internal failures are returned.
	// Returns command.ErrNotCommand for text that is not a directive
	Handle(ctx context.Context, input *HandleInput) (*Response, error)
}

// Config holds the dependencies for the router
type Config struct {
	Sessions session.Service
	Resolver resolver.Service
	Engine   *rules.Engine
	Bestiary *bestiary.Bestiary
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
	if c.Engine == nil {
		vb.RequiredField("Engine")
	}
	if c.Bestiary == nil {
		vb.RequiredField("Bestiary")
	}

	return vb.Build()
}

type orchestrator struct {
	sessions session.Service
	resolver resolver.Service
	engine   *rules.Engine
	bestiary *bestiary.Bestiary
}

// NewOrchestrator creates a router with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		sessions: cfg.Sessions,
		resolver: cfg.Resolver,
		engine:   cfg.Engine,
		bestiary: cfg.Bestiary,
	}, nil
}

func (o *orchestrator) Handle(ctx context.Context, input *HandleInput) (*Response, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	cmd, err := command.Parse(input.Text)
	switch {
	case stderrors.Is(err, command.ErrNotCommand):
		return nil, command.ErrNotCommand
	case stderrors.Is(err, command.ErrUnknownCommand):
		return nil, nil
	}

	var usageErr *command.UsageError
	if stderrors.As(err, &usageErr) {
		if usageErr.KeeperOnly {
			if _, kerr := o.sessions.RequireKeeper(ctx, input.RoomID, input.PlayerID); kerr != nil {
				return render(kerr)
			}
		}
		return group("❌ " + usageErr.Usage), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse command")
	}

	slog.DebugContext(ctx, "routing command",
		"command", cmd.Keyword(),
		"room_id", input.RoomID,
		"player_id", input.PlayerID)

	resp, err := o.dispatch(ctx, input, cmd)
	if err != nil {
		return render(err)
	}
	return resp, nil
}

// render turns player-facing errors into a reply and passes the rest up
func render(err error) (*Response, error) {
	if msg, ok := errors.UserMessage(err); ok {
		return group("❌ " + msg), nil
	}
	return nil, err
}

func (o *orchestrator) dispatch(ctx context.Context, in *HandleInput, cmd command.Command) (*Response, error) {
	switch c := cmd.(type) {
	case command.Roll:
		return o.handleRoll(ctx, in, c)
	case command.Check:
		return o.handleCheck(ctx, in, c)
	case command.Sanity:
		return o.handleSanity(ctx, in, c)
	case command.Opposed:
		return o.handleOpposed(c)
	case command.Combat:
		return o.handleCombat(ctx, in, c)
	case command.Damage:
		return o.handleDamage(c)
	case command.Generate:
		return o.handleGenerate(ctx, in, c)
	case command.Save:
		return o.handleSave(ctx, in, c)
	case command.SetStats:
		return o.handleSetStats(ctx, in, c)
	case command.Show:
		return o.handleShow(ctx, in)
	case command.Luck:
		return o.handleLuck(ctx, in, c)
	case command.Template:
		return o.handleTemplate(ctx, in)
	case command.Help:
		return group(HelpText(c.Topic)), nil
	case command.KeeperStatus:
		return o.handleKeeperStatus(ctx, in)
	case command.KeeperClaim:
		return o.handleKeeperClaim(ctx, in)
	case command.KeeperResign:
		return o.handleKeeperResign(ctx, in)
	case command.KeeperSecretCheck:
		return o.keeperOnly(ctx, in, func() (*Response, error) { return o.handleSecretCheck(ctx, in, c) })
	case command.KeeperNPC:
		return o.keeperOnly(ctx, in, func() (*Response, error) { return o.handleNPC(ctx, in, c) })
	case command.KeeperSanity:
		return o.keeperOnly(ctx, in, func() (*Response, error) { return o.handleNPCSanity(ctx, in, c) })
	case command.KeeperAI:
		return o.keeperOnly(ctx, in, func() (*Response, error) { return o.handleAI(ctx, in, c) })
	}

	return nil, errors.Internalf("no handler for command %q", cmd.Keyword())
}

func (o *orchestrator) keeperOnly(ctx context.Context, in *HandleInput, fn func() (*Response, error)) (*Response, error) {
	if _, err := o.sessions.RequireKeeper(ctx, in.RoomID, in.PlayerID); err != nil {
		return nil, err
	}
	return fn()
}

func (in *HandleInput) key() session.SheetKey {
	return session.SheetKey{PlayerID: in.PlayerID, RoomID: in.RoomID}
}
