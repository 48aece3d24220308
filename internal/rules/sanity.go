package rules

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/coc-keeper/internal/dice"
	"github.com/KirkDiggler/coc-keeper/internal/errors"
)

// TemporaryInsanityLoss is the single-check loss that risks temporary insanity
const TemporaryInsanityLoss = 5

// SanityInput describes a sanity check
type SanityInput struct {
	Capacity    int
	SuccessLoss string
	FailureLoss string
}

// SanityResult is a resolved sanity check
type SanityResult struct {
	Capacity  int
	Roll      int
	Passed    bool
	LossExpr  string
	Loss      int
	NewSanity int
	// LossRoll carries a Diagnostic when the loss notation did not parse
	LossRoll *dice.Result
	// TemporaryInsanity and PermanentInsanity are advisory only
	TemporaryInsanity bool
	PermanentInsanity bool
}

// Details renders the check for the chat room
func (r *SanityResult) Details() string {
	outcome := "失败"
	if r.Passed {
		outcome = "成功"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🧠 SAN 检定 (当前SAN: %d)\nd100 = %d / 目标值: %d\n结果: 【%s】\n理智损失: %s = %d\n剩余SAN: %d",
		r.Capacity, r.Roll, r.Capacity, outcome, r.LossExpr, r.Loss, r.NewSanity)
	if r.LossRoll != nil && !r.LossRoll.OK() {
		fmt.Fprintf(&b, "\n(%s)", r.LossRoll.Diagnostic)
	}
	if r.TemporaryInsanity {
		b.WriteString("\n⚠️ 单次理智损失≥5点，可能陷入临时性疯狂！")
	}
	if r.PermanentInsanity {
		b.WriteString("\n☠️ 理智值降至0，调查员永久疯狂！")
	}
	return b.String()
}

// Sanity rolls against capacity and applies the loss for the outcome.
// New sanity never drops below zero.
func (e *Engine) Sanity(input SanityInput) (*SanityResult, error) {
	if input.Capacity < 0 {
		return nil, errors.InvalidArgumentf("SAN值 %d 无效", input.Capacity)
	}

	p, err := e.eval.Percentile(0, 0)
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll sanity check")
	}

	res := &SanityResult{
		Capacity: input.Capacity,
		Roll:     p.Value,
		Passed:   p.Value <= input.Capacity,
		LossExpr: input.FailureLoss,
	}
	if res.Passed {
		res.LossExpr = input.SuccessLoss
	}

	loss, err := e.eval.Evaluate(res.LossExpr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to roll sanity loss %q", res.LossExpr)
	}
	res.LossRoll = loss
	res.Loss = max(0, loss.Total)
	res.NewSanity = max(0, input.Capacity-res.Loss)
	res.TemporaryInsanity = res.Loss >= TemporaryInsanityLoss
	res.PermanentInsanity = res.NewSanity == 0

	return res, nil
}
