package rules

import (
	"fmt"

	"github.com/KirkDiggler/coc-keeper/internal/errors"
)

// LuckInput describes spending luck on a prior roll
type LuckInput struct {
	Pool      int
	Amount    int
	Skill     string
	PriorRoll int
	Target    int
}

// LuckResult is the improved roll
type LuckResult struct {
	Skill     string
	PriorRoll int
	NewRoll   int
	Spent     int
	NewPool   int
	Tier      Tier
}

// Details renders the spend for the chat room
func (r *LuckResult) Details() string {
	return fmt.Sprintf("🍀 幸运消耗\n%s 检定\n原始骰值: %d → 新骰值: %d\n消耗幸运: %d\n剩余幸运: %d\n新结果: 【%s】",
		r.Skill, r.PriorRoll, r.NewRoll, r.Spent, r.NewPool, r.Tier)
}

// SpendLuck lowers a prior roll by amount, never below 1, and reclassifies
// it against the same target. Nothing is returned on rejection so callers
// cannot half-apply it.
func SpendLuck(input LuckInput) (*LuckResult, error) {
	if input.Amount <= 0 {
		return nil, errors.InvalidArgument("花费幸运值必须大于0")
	}
	if input.Amount > input.Pool {
		return nil, errors.ResourceExhaustedf("幸运值不足！当前幸运: %d，需要: %d", input.Pool, input.Amount)
	}

	newRoll := max(1, input.PriorRoll-input.Amount)
	return &LuckResult{
		Skill:     input.Skill,
		PriorRoll: input.PriorRoll,
		NewRoll:   newRoll,
		Spent:     input.Amount,
		NewPool:   input.Pool - input.Amount,
		Tier:      Classify(newRoll, input.Target),
	}, nil
}
