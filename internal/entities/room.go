// Package entities holds the records coc-keeper persists
package entities

import "time"

// Role tags a conversation turn
type Role string

// Conversation roles understood by the inference service
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a room's AI conversation
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// KeeperClaim records who holds the Keeper role
type KeeperClaim struct {
	PlayerID  string    `json:"player_id"`
	Name      string    `json:"name"`
	ClaimedAt time.Time `json:"claimed_at"`
}

// AISession is the AI Keeper state of a room
type AISession struct {
	Active   bool   `json:"active"`
	Briefing string `json:"briefing,omitempty"`
	History  []Turn `json:"history,omitempty"`
}

// RoomSession is the per-room state
type RoomSession struct {
	RoomID    string       `json:"room_id"`
	Keeper    *KeeperClaim `json:"keeper,omitempty"`
	AI        AISession    `json:"ai"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// IsKeeper reports whether playerID holds the claim
func (r *RoomSession) IsKeeper(playerID string) bool {
	return r.Keeper != nil && r.Keeper.PlayerID == playerID
}

// AppendTurns adds turns to the AI history and keeps only the newest limit
func (r *RoomSession) AppendTurns(limit int, turns ...Turn) {
	r.AI.History = append(r.AI.History, turns...)
	if limit > 0 && len(r.AI.History) > limit {
		kept := make([]Turn, limit)
		copy(kept, r.AI.History[len(r.AI.History)-limit:])
		r.AI.History = kept
	}
}
