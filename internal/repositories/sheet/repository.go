// Package sheet stores investigator sheets keyed by player and room
package sheet

import (
	"context"

	"github.com/KirkDiggler/coc-keeper/internal/entities"
	"github.com/KirkDiggler/coc-keeper/internal/errors"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=sheetmock github.com/KirkDiggler/coc-keeper/internal/repositories/sheet Repository

// GetInput identifies one sheet
type GetInput struct {
	PlayerID string
	RoomID   string
}

// GetOutput holds the stored sheet
type GetOutput struct {
	Sheet *entities.CharacterSheet
}

// PutInput carries the sheet to store
type PutInput struct {
	Sheet *entities.CharacterSheet
}

// PutOutput holds the sheet as stored
type PutOutput struct {
	Sheet *entities.CharacterSheet
}

// ListByRoomInput selects the sheets of a room
type ListByRoomInput struct {
	RoomID string
}

// ListByRoomOutput holds the sheets of a room ordered by player ID
type ListByRoomOutput struct {
	Sheets []*entities.CharacterSheet
}

// Repository persists character sheets
type Repository interface {
	// Get returns the sheet for a player in a room
	// Returns errors.InvalidArgument for an empty player or room
	// Returns errors.NotFound when no sheet is stored
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Put inserts or replaces a sheet
	// Returns errors.InvalidArgument for a nil sheet or missing keys
	Put(ctx context.Context, input PutInput) (*PutOutput, error)

	// ListByRoom returns every sheet recorded in a room
	// Returns errors.InvalidArgument for an empty room
	ListByRoom(ctx context.Context, input ListByRoomInput) (*ListByRoomOutput, error)
}

const (
	errPlayerIDRequired = "player ID is required"
	errRoomIDRequired   = "room ID is required"
	errSheetRequired    = "sheet is required"
	errSheetNotFound    = "sheet not found"
)

func validateKey(playerID, roomID string) error {
	if playerID == "" {
		return errors.InvalidArgument(errPlayerIDRequired)
	}
	if roomID == "" {
		return errors.InvalidArgument(errRoomIDRequired)
	}
	return nil
}

func validateSheet(sheet *entities.CharacterSheet) error {
	if sheet == nil {
		return errors.InvalidArgument(errSheetRequired)
	}
	return validateKey(sheet.PlayerID, sheet.RoomID)
}
