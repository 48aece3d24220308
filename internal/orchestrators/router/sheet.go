package router

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/KirkDiggler/coc-keeper/internal/command"
	"github.com/KirkDiggler/coc-keeper/internal/entities"
	"github.com/KirkDiggler/coc-keeper/internal/errors"
	"github.com/KirkDiggler/coc-keeper/internal/orchestrators/resolver"
	"github.com/KirkDiggler/coc-keeper/internal/rules"
	"github.com/KirkDiggler/coc-keeper/internal/session"
)

func (o *orchestrator) handleGenerate(ctx context.Context, in *HandleInput, c command.Generate) (*Response, error) {
	sets, err := o.engine.Generate(c.Count)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate investigators")
	}
	if _, err := o.sessions.OfferGeneration(ctx, in.key(), sets); err != nil {
		return nil, errors.Wrap(err, "failed to store generated sets")
	}

	hint := "输入 .save 确认保存到人物卡"
	if len(sets) > 1 {
		hint = fmt.Sprintf("输入 .save 1 ~ .save %d 选择保存到人物卡", len(sets))
	}
	return group(rules.FormatAttributeSets(sets) + "\n\n📌 " + hint), nil
}

func (o *orchestrator) handleSave(ctx context.Context, in *HandleInput, c command.Save) (*Response, error) {
	out, err := o.sessions.ConfirmGeneration(ctx, in.key(), in.PlayerName, c.Index)
	if err != nil {
		return nil, err
	}
	return group(fmt.Sprintf("✅ 人物卡已保存！\n%s\n\n初始SAN已设为POW值: %d\n幸运已设为: %d",
		rules.FormatAttributeSet(out.Set, 0), out.Set.POW, out.Set.LUCK)), nil
}

func (o *orchestrator) handleSetStats(ctx context.Context, in *HandleInput, c command.SetStats) (*Response, error) {
	pairs := make([]session.StatPair, len(c.Pairs))
	for i, p := range c.Pairs {
		pairs[i] = session.StatPair{Name: p.Name, Value: p.Value}
	}

	out, err := o.sessions.ApplyStats(ctx, in.key(), in.PlayerName, pairs)
	if err != nil {
		return nil, err
	}

	saved := session.FormatApplied(out.Applied)
	var text string
	if len(saved) == 1 {
		text = "✅ 已保存: " + saved[0]
	} else {
		text = fmt.Sprintf("✅ 已批量保存 %d 项:\n%s", len(saved), strings.Join(saved, "  "))
	}
	return group(text + formatWarnings(out.Warnings)), nil
}

func formatWarnings(warnings []string) string {
	if len(warnings) == 0 {
		return ""
	}
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = "  · " + w
	}
	return "\n\n⚠️ 数值异常提示:\n" + strings.Join(lines, "\n")
}

func (o *orchestrator) handleShow(ctx context.Context, in *HandleInput) (*Response, error) {
	sheet, err := o.sessions.Sheet(ctx, in.key(), in.PlayerName)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load sheet")
	}
	return group(RenderSheet(sheet)), nil
}

// RenderSheet lists characteristics in sheet order, then skills by name
func RenderSheet(sheet *entities.CharacterSheet) string {
	hasStats := sheet.HasBaseAttributes()
	if !hasStats && len(sheet.Skills) == 0 {
		return "📋 人物卡为空\n用 .coc 生成属性，或 .st 技能名 值 手动录入"
	}

	lines := []string{"📋 我的人物卡"}
	if hasStats {
		lines = append(lines, "【基础属性】")
		for _, a := range entities.Attributes {
			if v, ok := sheet.Attribute(a); ok {
				lines = append(lines, fmt.Sprintf("  %s: %d", a.Label(), v))
			}
		}
	}

	if len(sheet.Skills) > 0 {
		names := make([]string, 0, len(sheet.Skills))
		for name := range sheet.Skills {
			names = append(names, name)
		}
		sort.Strings(names)

		lines = append(lines, "【技能】")
		for _, name := range names {
			lines = append(lines, fmt.Sprintf("  %s: %d", name, sheet.Skills[name]))
		}
	}

	lines = append(lines, fmt.Sprintf("【其他】\n  SAN: %d  幸运: %d", sheet.Sanity, sheet.Luck))
	return strings.Join(lines, "\n")
}

func (o *orchestrator) handleLuck(ctx context.Context, in *HandleInput, c command.Luck) (*Response, error) {
	switch c.Action {
	case command.LuckSet:
		out, err := o.sessions.ApplyStats(ctx, in.key(), in.PlayerName, []session.StatPair{
			{Name: entities.LuckName, Value: strconv.Itoa(c.Value)},
		})
		if err != nil {
			return nil, err
		}
		// manual luck is not held to the 3d6×5 generation range
		return group(fmt.Sprintf("🍀 幸运值已设置为: %d", out.Sheet.Luck)), nil

	case command.LuckSpend:
		out, err := o.resolver.SpendLuck(ctx, &resolver.SpendLuckInput{
			Key:    in.key(),
			Name:   in.PlayerName,
			Amount: c.Amount,
			Skill:  c.Skill,
			Target: c.Target,
		})
		if err != nil {
			return nil, err
		}
		return group(out.Result.Details()), nil
	}

	sheet, err := o.sessions.Sheet(ctx, in.key(), in.PlayerName)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load sheet")
	}
	return group(fmt.Sprintf("🍀 当前幸运: %d\n%s", sheet.Luck, command.UsageLuck)), nil
}

func (o *orchestrator) handleTemplate(ctx context.Context, in *HandleInput) (*Response, error) {
	sheet, err := o.sessions.Sheet(ctx, in.key(), in.PlayerName)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load sheet")
	}

	template := templateFull
	if sheet.HasBaseAttributes() {
		template = templateSkillsOnly
	}
	return &Response{Group: templateSent, Private: template}, nil
}
