// Package pending keeps the attribute sets offered by .coc until the player
// saves one. Offers expire on their own.
package pending

import (
	"context"
	"time"

	"github.com/KirkDiggler/coc-keeper/internal/entities"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=pendingmock github.com/KirkDiggler/coc-keeper/internal/repositories/pending Repository

// PutInput describes a new offer. It replaces any offer the player already
// has in the room.
type PutInput struct {
	PlayerID string
	RoomID   string
	Sets     []entities.AttributeSet
	// TTL overrides the repository default when positive
	TTL time.Duration
}

// PutOutput holds the stored offer
type PutOutput struct {
	Offer *entities.PendingOffer
}

// GetInput identifies an offer
type GetInput struct {
	PlayerID string
	RoomID   string
}

// GetOutput holds the offer
type GetOutput struct {
	Offer *entities.PendingOffer
}

// DeleteInput identifies an offer
type DeleteInput struct {
	PlayerID string
	RoomID   string
}

// DeleteOutput reports whether an offer was removed
type DeleteOutput struct {
	Deleted bool
}

// Repository stores pending offers
type Repository interface {
	// Put stores an offer with a fresh ID and expiry
	// Returns errors.InvalidArgument for missing keys or an empty set list
	Put(ctx context.Context, input PutInput) (*PutOutput, error)

	// Get returns the live offer
	// Returns errors.NotFound when there is none or it has expired
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Delete removes the offer; deleting a missing offer is not an error
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}
