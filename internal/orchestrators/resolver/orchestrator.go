// Package resolver applies the side effects shared by every check: reading
// targets off the sheet, remembering the last roll and announcing results on
// the event bus. Both the command router and the AI narrator resolve checks
// through it.
package resolver

//go:generate mockgen -destination=mock/mock_service.go -package=resolvermock github.com/KirkDiggler/coc-keeper/internal/orchestrators/resolver Service

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/coc-keeper/internal/errors"
	"github.com/KirkDiggler/coc-keeper/internal/rules"
	"github.com/KirkDiggler/coc-keeper/internal/session"
)

const (
	msgSkillNotFound = "未找到技能「%s」，请先用 .st %s 值 保存"
	msgNoLastRoll    = "没有找到上次检定记录"
)

// Service resolves checks against investigator sheets
type Service interface {
	// Check rolls a percentile check
	// Returns errors.NotFound when no target was given and the sheet lacks the skill
	Check(ctx context.Context, input *CheckInput) (*CheckOutput, error)

	// Sanity rolls a sanity check and, when asked, applies the loss
	Sanity(ctx context.Context, input *SanityInput) (*SanityOutput, error)

	// SpendLuck lowers the investigator's last roll
	// Returns errors.FailedPrecondition when there is no last roll
	// Returns errors.ResourceExhausted when the pool is too small
	SpendLuck(ctx context.Context, input *SpendLuckInput) (*SpendLuckOutput, error)
}

// Config holds the dependencies for the resolver
type Config struct {
	Sessions session.Service
	Engine   *rules.Engine
	EventBus events.EventBus
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Sessions == nil {
		vb.RequiredField("Sessions")
	}
	if c.Engine == nil {
		vb.RequiredField("Engine")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}

	return vb.Build()
}

type orchestrator struct {
	sessions session.Service
	engine   *rules.Engine
	bus      events.EventBus
}

// NewOrchestrator creates a resolver with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		sessions: cfg.Sessions,
		engine:   cfg.Engine,
		bus:      cfg.EventBus,
	}, nil
}

func (o *orchestrator) Check(ctx context.Context, input *CheckInput) (*CheckOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Skill == "" {
		return nil, errors.InvalidArgument("skill is required")
	}

	out := &CheckOutput{}
	target := input.Target

	if input.Record || input.PreferSheet || !input.HasTarget {
		sheet, err := o.sessions.Sheet(ctx, input.Key, input.Name)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load sheet")
		}
		out.Sheet = sheet

		if !input.HasTarget || input.PreferSheet {
			saved, ok := sheet.Lookup(input.Skill)
			switch {
			case ok:
				target = saved
				out.FromSheet = true
			case !input.HasTarget:
				return nil, errors.NotFoundf(msgSkillNotFound, input.Skill, input.Skill).
					WithMeta("skill", input.Skill)
			}
		}
	}

	res, err := o.engine.Check(rules.CheckInput{
		Skill:   input.Skill,
		Target:  target,
		Bonus:   input.Bonus,
		Penalty: input.Penalty,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve check")
	}
	out.Result = res

	if input.Record {
		out.Sheet.RecordRoll(res.Roll, res.Skill, res.Target)
		if err := o.sessions.SaveSheet(ctx, out.Sheet); err != nil {
			return nil, errors.Wrap(err, "failed to record roll")
		}
	}

	o.publish(ctx, EventCheckResolved, input.Key, map[string]any{
		KeySkill:  res.Skill,
		KeyTarget: res.Target,
		KeyRoll:   res.Roll,
		KeyTier:   res.Tier.Key(),
		KeyOrigin: string(originOr(input.Origin, OriginPlayer)),
	})

	return out, nil
}

func (o *orchestrator) Sanity(ctx context.Context, input *SanityInput) (*SanityOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out := &SanityOutput{}
	capacity := input.Capacity

	if input.Apply || !input.HasCapacity {
		sheet, err := o.sessions.Sheet(ctx, input.Key, input.Name)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load sheet")
		}
		out.Sheet = sheet
		if !input.HasCapacity {
			capacity = sheet.Sanity
		}
	}

	res, err := o.engine.Sanity(rules.SanityInput{
		Capacity:    capacity,
		SuccessLoss: input.SuccessLoss,
		FailureLoss: input.FailureLoss,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve sanity check")
	}
	out.Result = res

	if input.Apply {
		out.Sheet.Sanity = res.NewSanity
		out.Sheet.RecordRoll(res.Roll, "", 0)
		if err := o.sessions.SaveSheet(ctx, out.Sheet); err != nil {
			return nil, errors.Wrap(err, "failed to save sanity")
		}
	}

	o.publish(ctx, EventSanityResolved, input.Key, map[string]any{
		KeyRoll:   res.Roll,
		KeyTarget: res.Capacity,
		KeyPassed: res.Passed,
		KeyLoss:   res.Loss,
		KeyOrigin: string(originOr(input.Origin, OriginPlayer)),
	})

	return out, nil
}

func (o *orchestrator) SpendLuck(ctx context.Context, input *SpendLuckInput) (*SpendLuckOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	sheet, err := o.sessions.Sheet(ctx, input.Key, input.Name)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load sheet")
	}
	if sheet.LastRoll == nil {
		return nil, errors.FailedPrecondition(msgNoLastRoll)
	}

	res, err := rules.SpendLuck(rules.LuckInput{
		Pool:      sheet.Luck,
		Amount:    input.Amount,
		Skill:     input.Skill,
		PriorRoll: *sheet.LastRoll,
		Target:    input.Target,
	})
	if err != nil {
		return nil, err
	}

	sheet.Luck = res.NewPool
	sheet.RecordRoll(res.NewRoll, "", 0)
	if err := o.sessions.SaveSheet(ctx, sheet); err != nil {
		return nil, errors.Wrap(err, "failed to save luck")
	}

	o.publish(ctx, EventLuckSpent, input.Key, map[string]any{
		KeySkill:  res.Skill,
		KeyTarget: input.Target,
		KeyRoll:   res.NewRoll,
		KeyTier:   res.Tier.Key(),
	})

	return &SpendLuckOutput{Result: res, Sheet: sheet}, nil
}

// publish is best effort; a failing subscriber never fails the check
func (o *orchestrator) publish(ctx context.Context, eventType string, key session.SheetKey, data map[string]any) {
	event := events.NewGameEvent(eventType, &investigator{id: key.PlayerID}, nil)
	event.Context().Set(KeyRoomID, key.RoomID)
	for k, v := range data {
		event.Context().Set(k, v)
	}

	if err := o.bus.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "event subscriber failed",
			"event", eventType,
			"room_id", key.RoomID,
			"error", err)
	}
}

func originOr(origin, fallback Origin) Origin {
	if origin == "" {
		return fallback
	}
	return origin
}
