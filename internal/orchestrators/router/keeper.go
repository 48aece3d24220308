package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/KirkDiggler/coc-keeper/internal/command"
	"github.com/KirkDiggler/coc-keeper/internal/errors"
	"github.com/KirkDiggler/coc-keeper/internal/orchestrators/resolver"
)

const (
	msgUnknownMonster   = "未找到预设怪物「%s」，输入 .kp npc list 查看列表"
	msgMonsterSkill     = "「%s」没有预设技能「%s」\n可用: %s"
	msgMonsterNeedValue = "未知怪物「%s」需手动填值: .kp npc %s %s 目标值"
	kpInvestigators     = "🧑 本房间调查员(%d): %s"
)

func (o *orchestrator) handleKeeperStatus(ctx context.Context, in *HandleInput) (*Response, error) {
	room, err := o.sessions.Room(ctx, in.RoomID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load room")
	}

	line := "当前无KP"
	if room.Keeper != nil {
		line = "当前KP: " + room.Keeper.Name
	}
	text := fmt.Sprintf("👁 %s\n%s\n%s", line, divider, keeperStatusBody)

	sheets, err := o.sessions.RoomSheets(ctx, in.RoomID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list investigators")
	}
	if len(sheets) > 0 {
		names := make([]string, 0, len(sheets))
		for _, cs := range sheets {
			name := cs.Name
			if name == "" {
				name = cs.PlayerID
			}
			names = append(names, name)
		}
		text += fmt.Sprintf("\n%s\n"+kpInvestigators, divider, len(names), strings.Join(names, "、"))
	}
	return group(text), nil
}

func (o *orchestrator) handleKeeperClaim(ctx context.Context, in *HandleInput) (*Response, error) {
	if _, err := o.sessions.ClaimKeeper(ctx, in.RoomID, in.PlayerID, in.PlayerName); err != nil {
		return nil, err
	}
	return group(fmt.Sprintf(kpClaimed, in.PlayerName)), nil
}

func (o *orchestrator) handleKeeperResign(ctx context.Context, in *HandleInput) (*Response, error) {
	if err := o.sessions.ResignKeeper(ctx, in.RoomID, in.PlayerID); err != nil {
		return nil, err
	}
	return group(kpResigned), nil
}

func (o *orchestrator) handleSecretCheck(ctx context.Context, in *HandleInput, c command.KeeperSecretCheck) (*Response, error) {
	out, err := o.resolver.Check(ctx, &resolver.CheckInput{
		Key:       in.key(),
		Name:      in.PlayerName,
		Skill:     c.Skill,
		Target:    c.Target,
		HasTarget: true,
		Bonus:     c.Bonus,
		Penalty:   c.Penalty,
		Record:    true,
		Origin:    resolver.OriginKeeper,
	})
	if err != nil {
		return nil, err
	}
	return &Response{
		Group:   kpSecretPub,
		Private: kpSecretHdr + out.Result.Details(),
	}, nil
}

func (o *orchestrator) handleNPC(ctx context.Context, in *HandleInput, c command.KeeperNPC) (*Response, error) {
	if c.List {
		return group("📋 预设怪物:\n  " + o.bestiary.Listing() + "\n用法: .kp npc 怪物名 技能名 [值] [b/p]"), nil
	}

	monster, found := o.bestiary.Find(c.Monster)
	if c.Skill == "" {
		if !found {
			return nil, errors.NotFoundf(msgUnknownMonster, c.Monster)
		}
		return group(monster.Sheet()), nil
	}

	target := c.Target
	if !c.HasTarget {
		value, ok := 0, false
		if found {
			value, ok = monster.Skills[c.Skill]
		}
		switch {
		case ok:
			target = value
		case found:
			return nil, errors.NotFoundf(msgMonsterSkill, c.Monster, c.Skill, strings.Join(monster.SkillNames(), "、"))
		default:
			return nil, errors.NotFoundf(msgMonsterNeedValue, c.Monster, c.Monster, c.Skill)
		}
	}

	out, err := o.resolver.Check(ctx, &resolver.CheckInput{
		Key:       in.key(),
		Skill:     c.Skill,
		Target:    target,
		HasTarget: true,
		Bonus:     c.Bonus,
		Penalty:   c.Penalty,
		Origin:    resolver.OriginNPC,
	})
	if err != nil {
		return nil, err
	}
	return group(fmt.Sprintf("📋 [%s] %s", c.Monster, out.Result.Details())), nil
}

func (o *orchestrator) handleNPCSanity(ctx context.Context, in *HandleInput, c command.KeeperSanity) (*Response, error) {
	out, err := o.resolver.Sanity(ctx, &resolver.SanityInput{
		Key:         in.key(),
		Capacity:    c.Capacity,
		HasCapacity: true,
		SuccessLoss: c.SuccessLoss,
		FailureLoss: c.FailureLoss,
		Origin:      resolver.OriginNPC,
	})
	if err != nil {
		return nil, err
	}
	return group("📋 [NPC] " + out.Result.Details()), nil
}

func (o *orchestrator) handleAI(ctx context.Context, in *HandleInput, c command.KeeperAI) (*Response, error) {
	switch c.Action {
	case command.AIStart:
		if _, err := o.sessions.StartAI(ctx, in.RoomID, c.Briefing); err != nil {
			return nil, errors.Wrap(err, "failed to start AI keeper")
		}
		note := ""
		if c.Briefing != "" {
			note = aiBriefed
		}
		return &Response{Group: fmt.Sprintf(aiStarted, note), Kickoff: true}, nil

	case command.AIStop:
		if _, err := o.sessions.StopAI(ctx, in.RoomID); err != nil {
			return nil, errors.Wrap(err, "failed to stop AI keeper")
		}
		return group(aiStopped), nil

	case command.AIClear:
		if _, err := o.sessions.ClearAI(ctx, in.RoomID); err != nil {
			return nil, errors.Wrap(err, "failed to clear AI history")
		}
		return group(aiCleared), nil
	}

	room, err := o.sessions.Room(ctx, in.RoomID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load room")
	}
	if room.AI.Active {
		return group(aiRunning), nil
	}
	return group(aiIdle), nil
}
