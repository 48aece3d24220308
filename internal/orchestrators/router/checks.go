package router

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/coc-keeper/internal/command"
	"github.com/KirkDiggler/coc-keeper/internal/errors"
	"github.com/KirkDiggler/coc-keeper/internal/orchestrators/resolver"
	"github.com/KirkDiggler/coc-keeper/internal/rules"
)

func (o *orchestrator) handleRoll(ctx context.Context, in *HandleInput, c command.Roll) (*Response, error) {
	eval := o.engine.Evaluator()

	if c.Expr == "" {
		p, err := eval.Percentile(0, 0)
		if err != nil {
			return nil, errors.Wrap(err, "failed to roll d100")
		}
		if err := o.recordRoll(ctx, in, p.Value); err != nil {
			return nil, err
		}
		return group(fmt.Sprintf("🎲 d100 = %d", p.Value)), nil
	}

	res, err := eval.Evaluate(c.Expr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll expression")
	}
	if !res.OK() {
		return group("🎲 " + res.Diagnostic), nil
	}
	if err := o.recordRoll(ctx, in, res.Total); err != nil {
		return nil, err
	}
	return group("🎲 " + res.Breakdown), nil
}

func (o *orchestrator) recordRoll(ctx context.Context, in *HandleInput, roll int) error {
	sheet, err := o.sessions.Sheet(ctx, in.key(), in.PlayerName)
	if err != nil {
		return errors.Wrap(err, "failed to load sheet")
	}
	sheet.RecordRoll(roll, "", 0)
	if err := o.sessions.SaveSheet(ctx, sheet); err != nil {
		return errors.Wrap(err, "failed to record roll")
	}
	return nil
}

func (o *orchestrator) handleCheck(ctx context.Context, in *HandleInput, c command.Check) (*Response, error) {
	out, err := o.resolver.Check(ctx, &resolver.CheckInput{
		Key:       in.key(),
		Name:      in.PlayerName,
		Skill:     c.Skill,
		Target:    c.Target,
		HasTarget: c.HasTarget,
		Bonus:     c.Bonus,
		Penalty:   c.Penalty,
		Record:    true,
		Origin:    resolver.OriginPlayer,
	})
	if err != nil {
		return nil, err
	}
	return group(out.Result.Details()), nil
}

func (o *orchestrator) handleCombat(ctx context.Context, in *HandleInput, c command.Combat) (*Response, error) {
	out, err := o.resolver.Check(ctx, &resolver.CheckInput{
		Key:       in.key(),
		Name:      in.PlayerName,
		Skill:     c.Kind.Skill(),
		Target:    c.Target,
		HasTarget: true,
		Bonus:     c.Bonus,
		Penalty:   c.Penalty,
		Record:    true,
		Origin:    resolver.OriginPlayer,
	})
	if err != nil {
		return nil, err
	}
	return group(out.Result.Details()), nil
}

func (o *orchestrator) handleSanity(ctx context.Context, in *HandleInput, c command.Sanity) (*Response, error) {
	out, err := o.resolver.Sanity(ctx, &resolver.SanityInput{
		Key:         in.key(),
		Name:        in.PlayerName,
		Capacity:    c.Capacity,
		HasCapacity: c.HasCapacity,
		SuccessLoss: c.SuccessLoss,
		FailureLoss: c.FailureLoss,
		Apply:       true,
		Origin:      resolver.OriginPlayer,
	})
	if err != nil {
		return nil, err
	}
	return group(out.Result.Details()), nil
}

func (o *orchestrator) handleOpposed(c command.Opposed) (*Response, error) {
	res, err := o.engine.Opposed(rules.OpposedInput{
		Name1:   c.Name1,
		Target1: c.Target1,
		Name2:   c.Name2,
		Target2: c.Target2,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve opposed check")
	}
	return group(res.Details()), nil
}

func (o *orchestrator) handleDamage(c command.Damage) (*Response, error) {
	res, err := o.engine.Evaluator().Evaluate(c.Expr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll damage")
	}
	if !res.OK() {
		return group("💥 伤害骰: " + res.Diagnostic), nil
	}
	return group("💥 伤害骰: " + res.Breakdown), nil
}
