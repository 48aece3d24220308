// Package session owns all mutable table state: investigator sheets, pending
// character offers and per-room records. Other packages read and change that
// state only through Service.
package session

import (
	"context"

	"github.com/KirkDiggler/coc-keeper/internal/entities"
)

// SheetKey identifies one investigator
type SheetKey struct {
	PlayerID string
	RoomID   string
}

// StatPair is one raw name/value pair from .st
type StatPair struct {
	Name  string
	Value string
}

// AppliedStat is a committed pair
type AppliedStat struct {
	Name  string
	Value int
}

// ApplyStatsOutput lists what was saved and any plausibility warnings
type ApplyStatsOutput struct {
	Sheet    *entities.CharacterSheet
	Applied  []AppliedStat
	Warnings []string
}

// ConfirmOutput is the result of saving a pending offer
type ConfirmOutput struct {
	Sheet *entities.CharacterSheet
	Set   entities.AttributeSet
	Index int
}

// Service is the accessor contract of the session store
type Service interface {
	// Sheet returns the player's sheet in the room, creating it when missing.
	// A non-empty name that differs from the stored one replaces only the name.
	Sheet(ctx context.Context, key SheetKey, name string) (*entities.CharacterSheet, error)

	// RoomSheets lists the investigators saved in a room, ordered by player ID
	RoomSheets(ctx context.Context, roomID string) ([]*entities.CharacterSheet, error)

	// SaveSheet persists a sheet previously returned by Sheet
	SaveSheet(ctx context.Context, sheet *entities.CharacterSheet) error

	// ApplyStats validates every pair before committing any of them
	// Returns errors.InvalidArgument naming the first bad pair; nothing is saved
	ApplyStats(ctx context.Context, key SheetKey, name string, pairs []StatPair) (*ApplyStatsOutput, error)

	// OfferGeneration stores sets for a later ConfirmGeneration, replacing any
	// earlier offer
	OfferGeneration(ctx context.Context, key SheetKey, sets []entities.AttributeSet) (*entities.PendingOffer, error)

	// ConfirmGeneration copies the 1-based indexed set onto the sheet and
	// consumes the offer
	// Returns errors.FailedPrecondition when there is no offer
	// Returns errors.OutOfRange when index is outside the offer; the offer is kept
	ConfirmGeneration(ctx context.Context, key SheetKey, name string, index int) (*ConfirmOutput, error)

	// Room returns the room record, or a fresh one when none is stored
	Room(ctx context.Context, roomID string) (*entities.RoomSession, error)

	// ClaimKeeper makes the player the room's Keeper
	// Returns errors.AlreadyExists when another player holds the claim
	ClaimKeeper(ctx context.Context, roomID, playerID, name string) (*entities.RoomSession, error)

	// ResignKeeper releases the claim
	// Returns errors.FailedPrecondition when nobody holds it
	// Returns errors.PermissionDenied when someone else holds it
	ResignKeeper(ctx context.Context, roomID, playerID string) error

	// RequireKeeper fails closed for anyone but the current Keeper
	// Returns errors.PermissionDenied naming the Keeper when there is one
	RequireKeeper(ctx context.Context, roomID, playerID string) (*entities.RoomSession, error)

	// StartAI activates AI narration with a fresh history
	StartAI(ctx context.Context, roomID, briefing string) (*entities.RoomSession, error)

	// StopAI deactivates AI narration; the Keeper claim is kept
	StopAI(ctx context.Context, roomID string) (*entities.RoomSession, error)

	// ClearAI empties the AI history
	ClearAI(ctx context.Context, roomID string) (*entities.RoomSession, error)

	// AppendTurns records conversation turns, keeping the newest ones
	AppendTurns(ctx context.Context, roomID string, turns ...entities.Turn) (*entities.RoomSession, error)
}
