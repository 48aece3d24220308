package session

import (
	"context"
	"fmt"
	"strconv"

	"github.com/KirkDiggler/coc-keeper/internal/entities"
	"github.com/KirkDiggler/coc-keeper/internal/errors"
	"github.com/KirkDiggler/coc-keeper/internal/rules"
)

const (
	msgValueInvalid    = "「%s」的值无效: \"%s\""
	msgValueOutOfRange = "「%s」值 %s 超出有效范围 (0–99)"
)

// ApplyStats validates the whole batch, then commits pair by pair
func (s *Store) ApplyStats(ctx context.Context, key SheetKey, name string, pairs []StatPair) (*ApplyStatsOutput, error) {
	if len(pairs) == 0 {
		return nil, errors.InvalidArgument("no values to save")
	}

	applied := make([]AppliedStat, 0, len(pairs))
	for _, p := range pairs {
		v, err := parseStatValue(p)
		if err != nil {
			return nil, err
		}
		applied = append(applied, AppliedStat{Name: p.Name, Value: v})
	}

	cs, err := s.Sheet(ctx, key, name)
	if err != nil {
		return nil, err
	}

	var warnings []string
	for _, a := range applied {
		setStat(cs, a.Name, a.Value)
		if w := rules.SoftWarning(a.Name, a.Value, cs); w != "" {
			warnings = append(warnings, w)
		}
	}

	if err := s.SaveSheet(ctx, cs); err != nil {
		return nil, err
	}

	return &ApplyStatsOutput{Sheet: cs, Applied: applied, Warnings: warnings}, nil
}

func parseStatValue(p StatPair) (int, error) {
	if p.Value == "" || !isDigits(p.Value) {
		return 0, errors.InvalidArgumentf(msgValueInvalid, p.Name, p.Value)
	}

	v, err := strconv.Atoi(p.Value)
	if err != nil || !rules.InHardRange(v) {
		shown := p.Value
		if err == nil {
			shown = strconv.Itoa(v)
		}
		return 0, errors.InvalidArgumentf(msgValueOutOfRange, p.Name, shown)
	}
	return v, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// setStat routes a value to luck, sanity, a characteristic or a skill
func setStat(cs *entities.CharacterSheet, name string, value int) {
	switch {
	case entities.IsLuck(name):
		cs.Luck = value
	case entities.IsSanity(name):
		cs.Sanity = value
	default:
		if attr, ok := entities.LookupAttribute(name); ok {
			cs.SetAttribute(attr, value)
			return
		}
		cs.Skills[name] = value
	}
}

// FormatApplied renders "侦查=60" items in input order
func FormatApplied(applied []AppliedStat) []string {
	out := make([]string, len(applied))
	for i, a := range applied {
		out[i] = fmt.Sprintf("%s=%d", a.Name, a.Value)
	}
	return out
}
