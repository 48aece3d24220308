package rules

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/coc-keeper/internal/dice"
	"github.com/KirkDiggler/coc-keeper/internal/errors"
)

// Config holds the dependencies for an Engine
type Config struct {
	Evaluator *dice.Evaluator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Evaluator == nil {
		vb.RequiredField("Evaluator")
	}
	return vb.Build()
}

// Engine runs checks. It has no state besides its evaluator.
type Engine struct {
	eval *dice.Evaluator
}

// NewEngine creates a rules engine
func NewEngine(cfg *Config) (*Engine, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &Engine{eval: cfg.Evaluator}, nil
}

// Evaluator exposes the underlying dice evaluator for plain rolls
func (e *Engine) Evaluator() *dice.Evaluator {
	return e.eval
}

// CheckInput describes a skill check
type CheckInput struct {
	Skill   string
	Target  int
	Bonus   int
	Penalty int
}

// CheckResult is a resolved skill check
type CheckResult struct {
	Skill      string
	Target     int
	Roll       int
	Tier       Tier
	Hard       int
	Extreme    int
	Percentile *dice.Percentile
}

// Details renders the check for the chat room
func (r *CheckResult) Details() string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎲 %s 检定 (目标值: %d)\nd100 = %d", r.Skill, r.Target, r.Roll)
	if r.Percentile != nil && r.Percentile.Modified() {
		b.WriteString("\n" + r.Percentile.Breakdown())
	}
	fmt.Fprintf(&b, "\n困难: %d / 极难: %d\n结果: 【%s】", r.Hard, r.Extreme, r.Tier)
	return b.String()
}

// Check rolls a percentile check. It has no side effects.
func (e *Engine) Check(input CheckInput) (*CheckResult, error) {
	if input.Target < 0 {
		return nil, errors.InvalidArgumentf("目标值 %d 无效", input.Target)
	}

	p, err := e.eval.Percentile(input.Bonus, input.Penalty)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to roll check for %s", input.Skill)
	}

	hard, extreme := Thresholds(input.Target)
	return &CheckResult{
		Skill:      input.Skill,
		Target:     input.Target,
		Roll:       p.Value,
		Tier:       Classify(p.Value, input.Target),
		Hard:       hard,
		Extreme:    extreme,
		Percentile: p,
	}, nil
}
