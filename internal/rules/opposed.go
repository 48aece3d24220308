package rules

import (
	"fmt"

	"github.com/KirkDiggler/coc-keeper/internal/errors"
)

// Outcome is how an opposed check ended
type Outcome int

// Opposed outcomes
const (
	OutcomeWinner Outcome = iota
	OutcomeNoWinner
	OutcomeBothFumbled
)

// OpposedInput names the two contestants
type OpposedInput struct {
	Name1   string
	Target1 int
	Name2   string
	Target2 int
}

// OpposedResult is a resolved opposed check. Winner is 1 or 2 when Outcome
// is OutcomeWinner and 0 otherwise.
type OpposedResult struct {
	First   *CheckResult
	Second  *CheckResult
	Outcome Outcome
	Winner  int
}

// WinnerName returns the winning contestant's name, or "" with no winner
func (r *OpposedResult) WinnerName() string {
	switch r.Winner {
	case 1:
		return r.First.Skill
	case 2:
		return r.Second.Skill
	}
	return ""
}

// Details renders the contest for the chat room
func (r *OpposedResult) Details() string {
	var outcome string
	switch r.Outcome {
	case OutcomeBothFumbled:
		outcome = "双方大失败，均未成功！"
	case OutcomeNoWinner:
		outcome = "双方均未成功"
	default:
		outcome = fmt.Sprintf("🏆 %s 胜出！", r.WinnerName())
	}
	return fmt.Sprintf("⚔️ 对抗检定\n%s (%d): d100 = %d 【%s】\n%s (%d): d100 = %d 【%s】\n%s",
		r.First.Skill, r.First.Target, r.First.Roll, r.First.Tier,
		r.Second.Skill, r.Second.Target, r.Second.Roll, r.Second.Tier,
		outcome)
}

// Opposed runs two unmodified checks and picks a winner by tier, then by
// the higher target. Equal targets go to the first contestant.
func (e *Engine) Opposed(input OpposedInput) (*OpposedResult, error) {
	first, err := e.Check(CheckInput{Skill: input.Name1, Target: input.Target1})
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll first contestant")
	}
	second, err := e.Check(CheckInput{Skill: input.Name2, Target: input.Target2})
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll second contestant")
	}

	res := &OpposedResult{First: first, Second: second}
	res.Outcome, res.Winner = decideOpposed(first, second)
	return res, nil
}

func decideOpposed(first, second *CheckResult) (Outcome, int) {
	r1, r2 := first.Tier.Rank(), second.Tier.Rank()
	switch {
	case first.Tier == TierFumble && second.Tier == TierFumble:
		return OutcomeBothFumbled, 0
	case r1 <= TierFailure.Rank() && r2 <= TierFailure.Rank():
		return OutcomeNoWinner, 0
	case r1 > r2:
		return OutcomeWinner, 1
	case r2 > r1:
		return OutcomeWinner, 2
	case first.Target >= second.Target:
		return OutcomeWinner, 1
	default:
		return OutcomeWinner, 2
	}
}
