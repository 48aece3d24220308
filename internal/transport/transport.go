// Package transport is the contract between the bot and a chat platform
package transport

//go:generate mockgen -destination=mock/mock_sender.go -package=transportmock github.com/KirkDiggler/coc-keeper/internal/transport Sender

import "context"

// Message is one inbound line from a room
type Message struct {
	ID         string
	RoomID     string
	PlayerID   string
	PlayerName string
	// Text has any mention of the bot removed
	Text string
}

// Sender delivers replies
type Sender interface {
	// SendGroup posts to a room
	SendGroup(ctx context.Context, roomID, text string) error

	// SendDirect messages one player privately. It may fail when the
	// platform does not allow it; callers fall back to the room.
	SendDirect(ctx context.Context, playerID, text string) error

	// Mention renders a reference to a player for the start of a reply
	Mention(playerID, playerName string) string
}

// Handler consumes inbound messages
type Handler interface {
	Handle(ctx context.Context, msg *Message)
}

// HandlerFunc adapts a function to Handler
type HandlerFunc func(ctx context.Context, msg *Message)

// Handle calls f
func (f HandlerFunc) Handle(ctx context.Context, msg *Message) {
	f(ctx, msg)
}
