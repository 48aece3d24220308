// Package command turns chat text into typed directives. It only checks the
// grammar of each directive; executing them is the router's job.
package command

import "errors"

var (
	// ErrNotCommand is returned for text that does not start with a dot
	ErrNotCommand = errors.New("not a command")
	// ErrUnknownCommand is returned for a dot keyword no directive owns
	ErrUnknownCommand = errors.New("unknown command")
)

// UsageError reports malformed arguments. Usage is the hint shown to the
// player.
type UsageError struct {
	Keyword string
	Usage   string
	// KeeperOnly marks sub-commands whose permission check must run before
	// the usage hint is revealed
	KeeperOnly bool
}

func (e *UsageError) Error() string {
	return e.Usage
}

// Command is one parsed directive
type Command interface {
	// Keyword is the canonical directive name, used for logs and metrics
	Keyword() string
}

// Modifier counts bonus and penalty dice
type Modifier struct {
	Bonus   int
	Penalty int
}

// Roll is .r / .rd / .roll. An empty Expr means d100.
type Roll struct {
	Expr string
}

// Check is .rc. Without HasTarget the value comes from the sheet.
type Check struct {
	Skill     string
	Target    int
	HasTarget bool
	Modifier
}

// Sanity is .sc / .san. Without HasCapacity the sheet's SAN is used.
type Sanity struct {
	Capacity    int
	HasCapacity bool
	SuccessLoss string
	FailureLoss string
}

// Opposed is .rop
type Opposed struct {
	Name1   string
	Target1 int
	Name2   string
	Target2 int
}

// CombatKind selects the fixed combat skill
type CombatKind string

// Combat kinds
const (
	CombatFight CombatKind = "fight"
	CombatFire  CombatKind = "fire"
	CombatDodge CombatKind = "dodge"
)

// Skill is the skill name the kind is checked as
func (k CombatKind) Skill() string {
	switch k {
	case CombatFight:
		return "格斗"
	case CombatFire:
		return "射击"
	case CombatDodge:
		return "闪避"
	}
	return string(k)
}

// Combat is .fight / .fire / .dodge
type Combat struct {
	Kind   CombatKind
	Target int
	Modifier
}

// Damage is .dmg
type Damage struct {
	Expr string
}

// Generate is .coc; the count is clamped by the generator
type Generate struct {
	Count int
}

// Save is .save with a 1-based index
type Save struct {
	Index int
}

// StatPair is one name/value pair of .st, value still raw
type StatPair struct {
	Name  string
	Value string
}

// SetStats is .st
type SetStats struct {
	Pairs []StatPair
}

// Show is .show
type Show struct{}

// LuckAction selects the .luck form
type LuckAction int

// Luck actions
const (
	LuckStatus LuckAction = iota
	LuckSet
	LuckSpend
)

// Luck is .luck
type Luck struct {
	Action LuckAction
	// Value is the new pool for LuckSet
	Value int
	// Amount, Skill and Target describe LuckSpend
	Amount int
	Skill  string
	Target int
}

// Template is .template
type Template struct{}

// Help is .help
type Help struct {
	Topic string
}

// KeeperStatus is .kp with no or an unknown sub-command
type KeeperStatus struct{}

// KeeperClaim is .kp claim
type KeeperClaim struct{}

// KeeperResign is .kp resign
type KeeperResign struct{}

// KeeperSecretCheck is .kp rc
type KeeperSecretCheck struct {
	Skill  string
	Target int
	Modifier
}

// KeeperNPC is .kp npc. List asks for the bestiary; a Monster without a
// Skill asks for its stat block.
type KeeperNPC struct {
	List      bool
	Monster   string
	Skill     string
	Target    int
	HasTarget bool
	Modifier
}

// KeeperSanity is .kp sc, an NPC sanity check that touches no sheet
type KeeperSanity struct {
	Capacity    int
	SuccessLoss string
	FailureLoss string
}

// AIAction selects the .kp ai form
type AIAction int

// AI actions
const (
	AIStatus AIAction = iota
	AIStart
	AIStop
	AIClear
)

// KeeperAI is .kp ai
type KeeperAI struct {
	Action   AIAction
	Briefing string
}

func (Roll) Keyword() string              { return "r" }
func (Check) Keyword() string             { return "rc" }
func (Sanity) Keyword() string            { return "sc" }
func (Opposed) Keyword() string           { return "rop" }
func (c Combat) Keyword() string          { return string(c.Kind) }
func (Damage) Keyword() string            { return "dmg" }
func (Generate) Keyword() string          { return "coc" }
func (Save) Keyword() string              { return "save" }
func (SetStats) Keyword() string          { return "st" }
func (Show) Keyword() string              { return "show" }
func (Luck) Keyword() string              { return "luck" }
func (Template) Keyword() string          { return "template" }
func (Help) Keyword() string              { return "help" }
func (KeeperStatus) Keyword() string      { return "kp" }
func (KeeperClaim) Keyword() string       { return "kp claim" }
func (KeeperResign) Keyword() string      { return "kp resign" }
func (KeeperSecretCheck) Keyword() string { return "kp rc" }
func (KeeperNPC) Keyword() string         { return "kp npc" }
func (KeeperSanity) Keyword() string      { return "kp sc" }
func (KeeperAI) Keyword() string          { return "kp ai" }
