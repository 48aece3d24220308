// Package console plays the bot over a terminal. Every line is one message
// from a single player in a single room.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/KirkDiggler/coc-keeper/internal/errors"
	"github.com/KirkDiggler/coc-keeper/internal/transport"
)

// Defaults for a local session
const (
	DefaultRoomID     = "console"
	DefaultPlayerID   = "console-player"
	DefaultPlayerName = "调查员"
)

// Config configures the console session
type Config struct {
	In  io.Reader
	Out io.Writer

	RoomID     string
	PlayerID   string
	PlayerName string
	// BotName prefixes replies
	BotName string
}

// Console reads chat lines and prints replies
type Console struct {
	in  io.Reader
	out io.Writer

	roomID     string
	playerID   string
	playerName string
	botName    string

	mu sync.Mutex
}

var _ transport.Sender = (*Console)(nil)

// New creates a console transport
func New(cfg *Config) (*Console, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()
	if cfg.In == nil {
		vb.RequiredField("In")
	}
	if cfg.Out == nil {
		vb.RequiredField("Out")
	}
	if err := vb.Build(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	c := &Console{
		in:         cfg.In,
		out:        cfg.Out,
		roomID:     cfg.RoomID,
		playerID:   cfg.PlayerID,
		playerName: cfg.PlayerName,
		botName:    cfg.BotName,
	}
	if c.roomID == "" {
		c.roomID = DefaultRoomID
	}
	if c.playerID == "" {
		c.playerID = DefaultPlayerID
	}
	if c.playerName == "" {
		c.playerName = DefaultPlayerName
	}
	return c, nil
}

// Run feeds every input line to handler until EOF or ctx is done. Lines are
// handled one at a time.
func (c *Console) Run(ctx context.Context, handler transport.Handler) error {
	scanner := bufio.NewScanner(c.in)
	n := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "exit" || text == "quit" {
			return nil
		}

		n++
		handler.Handle(ctx, &transport.Message{
			ID:         fmt.Sprintf("%d", n),
			RoomID:     c.roomID,
			PlayerID:   c.playerID,
			PlayerName: c.playerName,
			Text:       text,
		})
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "failed to read input")
	}
	return nil
}

// SendGroup prints a room message
func (c *Console) SendGroup(_ context.Context, _ string, text string) error {
	return c.print("", text)
}

// SendDirect prints a private message
func (c *Console) SendDirect(_ context.Context, _ string, text string) error {
	return c.print("[私信] ", text)
}

// Mention renders an @name prefix
func (c *Console) Mention(_, playerName string) string {
	return "@" + playerName
}

func (c *Console) print(tag, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := tag
	if c.botName != "" {
		prefix = c.botName + " > " + tag
	}
	if _, err := fmt.Fprintf(c.out, "%s%s\n\n", prefix, text); err != nil {
		return errors.Wrap(err, "failed to write output")
	}
	return nil
}
