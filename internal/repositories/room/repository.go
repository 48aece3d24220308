// Package room stores per-room session state: the Keeper claim and the AI
// narration conversation.
package room

import (
	"context"

	"github.com/KirkDiggler/coc-keeper/internal/entities"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=roommock github.com/KirkDiggler/coc-keeper/internal/repositories/room Repository

// GetInput identifies a room
type GetInput struct {
	RoomID string
}

// GetOutput holds the stored room
type GetOutput struct {
	Room *entities.RoomSession
}

// PutInput carries the room to store
type PutInput struct {
	Room *entities.RoomSession
}

// PutOutput holds the room as stored
type PutOutput struct {
	Room *entities.RoomSession
}

// Repository persists room sessions
type Repository interface {
	// Get returns a room
	// Returns errors.InvalidArgument for an empty room ID
	// Returns errors.NotFound when the room was never stored
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Put inserts or replaces a room
	// Returns errors.InvalidArgument for a nil room or empty room ID
	Put(ctx context.Context, input PutInput) (*PutOutput, error)
}
