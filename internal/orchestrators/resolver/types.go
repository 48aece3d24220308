package resolver

import (
	"github.com/KirkDiggler/coc-keeper/internal/entities"
	"github.com/KirkDiggler/coc-keeper/internal/rules"
	"github.com/KirkDiggler/coc-keeper/internal/session"
)

// Event types published on the bus
const (
	EventCheckResolved  = "coc.check.resolved"
	EventSanityResolved = "coc.sanity.resolved"
	EventLuckSpent      = "coc.luck.spent"
)

// Event context keys
const (
	KeyRoomID = "room_id"
	KeySkill  = "skill"
	KeyTarget = "target"
	KeyRoll   = "roll"
	KeyTier   = "tier"
	KeyLoss   = "loss"
	KeyPassed = "passed"
	KeyOrigin = "origin"
)

// Origin says who asked for a check
type Origin string

// Check origins
const (
	OriginPlayer   Origin = "player"
	OriginKeeper   Origin = "keeper"
	OriginNPC      Origin = "npc"
	OriginNarrator Origin = "narrator"
)

// CheckInput describes one percentile check
type CheckInput struct {
	Key  session.SheetKey
	Name string

	Skill string
	// Target is used as given when HasTarget is set and the sheet does not
	// take precedence
	Target    int
	HasTarget bool
	// PreferSheet uses the saved value for Skill when the sheet has one,
	// falling back to Target
	PreferSheet bool

	Bonus   int
	Penalty int

	// Record stores the roll as the investigator's last roll
	Record bool
	Origin Origin
}

// CheckOutput is a resolved check. Sheet is set when it was loaded.
type CheckOutput struct {
	Result *rules.CheckResult
	Sheet  *entities.CharacterSheet
	// FromSheet reports that the target came from the saved sheet
	FromSheet bool
}

// SanityInput describes a sanity check
type SanityInput struct {
	Key  session.SheetKey
	Name string

	// Capacity is used when HasCapacity is set, otherwise the sheet's SAN
	Capacity    int
	HasCapacity bool
	SuccessLoss string
	FailureLoss string

	// Apply writes the new sanity and the roll to the sheet. NPC checks
	// leave it unset.
	Apply  bool
	Origin Origin
}

// SanityOutput is a resolved sanity check
type SanityOutput struct {
	Result *rules.SanityResult
	Sheet  *entities.CharacterSheet
}

// SpendLuckInput spends luck on the investigator's last roll
type SpendLuckInput struct {
	Key    session.SheetKey
	Name   string
	Amount int
	Skill  string
	Target int
}

// SpendLuckOutput is the improved roll
type SpendLuckOutput struct {
	Result *rules.LuckResult
	Sheet  *entities.CharacterSheet
}
