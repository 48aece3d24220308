// Package discord connects the bot to Discord text channels. Each channel is
// a room; the bot answers when mentioned or when a line starts with a dot.
package discord

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/width"

	"github.com/KirkDiggler/coc-keeper/internal/errors"
	"github.com/KirkDiggler/coc-keeper/internal/transport"
)

// MaxMessageLength is Discord's limit for one message
const MaxMessageLength = 2000

// restAPI is the part of *discordgo.Session used to send replies
type restAPI interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

// Config holds the bot configuration
type Config struct {
	Token string
}

// Bot is a transport.Sender backed by a Discord gateway session
type Bot struct {
	session *discordgo.Session
	api     restAPI

	mu       sync.RWMutex
	selfID   string
	handler  transport.Handler
	ctx      context.Context
	removers []func()

	connected atomic.Bool
}

var _ transport.Sender = (*Bot)(nil)

// New creates a Discord bot. Nothing connects until Start.
func New(cfg *Config) (*Bot, error) {
	if cfg == nil || cfg.Token == "" {
		return nil, errors.InvalidArgument("discord token is required")
	}

	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to create discord session")
	}
	s.Identify.Intents = discordgo.IntentGuildMessages | discordgo.IntentMessageContent

	return &Bot{session: s, api: s, ctx: context.Background()}, nil
}

// Start registers handler and opens the gateway. Messages are handled with
// ctx as their parent context.
func (b *Bot) Start(ctx context.Context, handler transport.Handler) error {
	if handler == nil {
		return errors.InvalidArgument("handler is required")
	}

	b.mu.Lock()
	b.ctx = ctx
	b.handler = handler
	b.removers = append(b.removers,
		b.session.AddHandler(b.ready),
		b.session.AddHandler(b.resumed),
		b.session.AddHandler(b.disconnected),
		b.session.AddHandler(b.messageCreate),
	)
	b.mu.Unlock()

	if err := b.session.Open(); err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "failed to open discord connection")
	}

	slog.Info("Discord bot is now running")
	return nil
}

// Stop closes the gateway connection
func (b *Bot) Stop() error {
	b.mu.Lock()
	for _, remove := range b.removers {
		remove()
	}
	b.removers = nil
	b.mu.Unlock()

	b.connected.Store(false)
	if err := b.session.Close(); err != nil {
		return errors.Wrap(err, "failed to close discord connection")
	}
	return nil
}

// Connected reports whether the gateway session is up
func (b *Bot) Connected() bool {
	return b.connected.Load()
}

func (b *Bot) ready(_ *discordgo.Session, r *discordgo.Ready) {
	b.mu.Lock()
	b.selfID = r.User.ID
	b.mu.Unlock()

	b.connected.Store(true)
	slog.Info("Bot is ready", "user", r.User.Username, "guilds", len(r.Guilds))
}

func (b *Bot) resumed(_ *discordgo.Session, _ *discordgo.Resumed) {
	b.connected.Store(true)
	slog.Info("discord session resumed")
}

func (b *Bot) disconnected(_ *discordgo.Session, _ *discordgo.Disconnect) {
	b.connected.Store(false)
	slog.Warn("discord session disconnected")
}

func (b *Bot) messageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	b.mu.RLock()
	ctx, handler, selfID := b.ctx, b.handler, b.selfID
	b.mu.RUnlock()

	msg, ok := inbound(m.Message, selfID)
	if !ok || handler == nil {
		return
	}
	handler.Handle(ctx, msg)
}

// inbound converts a guild message addressed to the bot. Direct messages,
// other bots and unaddressed chatter are dropped.
func inbound(m *discordgo.Message, selfID string) (*transport.Message, bool) {
	if m == nil || m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return nil, false
	}
	if selfID != "" && m.Author.ID == selfID {
		return nil, false
	}

	mentioned := false
	for _, u := range m.Mentions {
		if u != nil && u.ID == selfID {
			mentioned = true
			break
		}
	}

	text := m.Content
	if mentioned {
		text = strings.NewReplacer("<@"+selfID+">", "", "<@!"+selfID+">", "").Replace(text)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}
	if !mentioned && !strings.HasPrefix(width.Fold.String(text), ".") {
		return nil, false
	}

	return &transport.Message{
		ID:         m.ID,
		RoomID:     m.ChannelID,
		PlayerID:   m.Author.ID,
		PlayerName: displayName(m),
		Text:       text,
	}, true
}

func displayName(m *discordgo.Message) string {
	if m.Member != nil && m.Member.Nick != "" {
		return m.Member.Nick
	}
	if m.Author.GlobalName != "" {
		return m.Author.GlobalName
	}
	return m.Author.Username
}

// SendGroup posts to a channel, splitting long text
func (b *Bot) SendGroup(ctx context.Context, roomID, text string) error {
	for _, part := range split(text, MaxMessageLength) {
		if _, err := b.api.ChannelMessageSend(roomID, part, discordgo.WithContext(ctx)); err != nil {
			return errors.WrapWithCode(err, errors.CodeUnavailable, "failed to send channel message").
				WithMeta("room_id", roomID)
		}
	}
	return nil
}

// SendDirect opens a DM channel with the player and posts there
func (b *Bot) SendDirect(ctx context.Context, playerID, text string) error {
	ch, err := b.api.UserChannelCreate(playerID, discordgo.WithContext(ctx))
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "failed to open direct channel").
			WithMeta("player_id", playerID)
	}
	return b.SendGroup(ctx, ch.ID, text)
}

// Mention renders a Discord user mention
func (b *Bot) Mention(playerID, _ string) string {
	return "<@" + playerID + ">"
}

// split cuts text into pieces of at most limit runes, preferring line breaks
func split(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	var parts []string
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		parts = append(parts, strings.TrimRight(string(runes[:cut]), "\n"))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}
