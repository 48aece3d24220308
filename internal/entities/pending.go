package entities

import "time"

// PendingOffer holds generated attribute sets waiting for .save. It is
// consumed at most once.
type PendingOffer struct {
	ID        string         `json:"id"`
	PlayerID  string         `json:"player_id"`
	RoomID    string         `json:"room_id"`
	Sets      []AttributeSet `json:"sets"`
	CreatedAt time.Time      `json:"created_at"`
	ExpiresAt time.Time      `json:"expires_at"`
}
