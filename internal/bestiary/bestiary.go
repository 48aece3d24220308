// Package bestiary holds the preset monster stat blocks Keepers roll for
package bestiary

import (
	"fmt"
	"sort"
	"strings"
)

// Monster is a preset NPC stat block
type Monster struct {
	Name        string
	EnglishName string
	// Stats keyed by attribute code
	Stats       map[string]int
	HP          int
	DamageBonus string
	Armor       int
	Move        string
	Skills      map[string]int
	SanityLoss  string
	Notes       string
	order       int
}

// SkillNames lists the monster's skills in a stable order
func (m *Monster) SkillNames() []string {
	names := make([]string, 0, len(m.Skills))
	for k := range m.Skills {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Sheet renders the stat block
func (m *Monster) Sheet() string {
	skills := make([]string, 0, len(m.Skills))
	for _, k := range m.SkillNames() {
		skills = append(skills, fmt.Sprintf("%s %d%%", k, m.Skills[k]))
	}

	lines := []string{
		fmt.Sprintf("📋 【%s】%s", m.Name, m.EnglishName),
		fmt.Sprintf("HP %d  DB %s  盔甲 %d点  移动 %s", m.HP, m.DamageBonus, m.Armor, m.Move),
		fmt.Sprintf("STR %d  CON %d  SIZ %d  INT %d  POW %d  DEX %d",
			m.Stats["STR"], m.Stats["CON"], m.Stats["SIZ"], m.Stats["INT"], m.Stats["POW"], m.Stats["DEX"]),
		"【技能】" + strings.Join(skills, "  "),
		"【理智损失】" + m.SanityLoss,
	}
	if m.Notes != "" {
		lines = append(lines, "📌 "+m.Notes)
	}
	return strings.Join(lines, "\n")
}

// Bestiary looks monsters up by name or alias
type Bestiary struct {
	monsters map[string]*Monster
	aliases  map[string]string
}

// New returns the default bestiary
func New() *Bestiary {
	b := &Bestiary{monsters: make(map[string]*Monster), aliases: make(map[string]string)}
	for i, m := range defaultMonsters() {
		m.order = i
		b.monsters[m.Name] = m
	}
	for alias, name := range defaultAliases {
		b.aliases[alias] = name
	}
	return b
}

// Find returns a monster by canonical name or alias
func (b *Bestiary) Find(name string) (*Monster, bool) {
	if m, ok := b.monsters[name]; ok {
		return m, true
	}
	if canonical, ok := b.aliases[name]; ok {
		m, ok := b.monsters[canonical]
		return m, ok
	}
	return nil, false
}

// List returns every monster in table order
func (b *Bestiary) List() []*Monster {
	out := make([]*Monster, 0, len(b.monsters))
	for _, m := range b.monsters {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].order < out[j].order })
	return out
}

// Listing renders "食尸鬼(Ghoul)" lines
func (b *Bestiary) Listing() string {
	lines := make([]string, 0, len(b.monsters))
	for _, m := range b.List() {
		lines = append(lines, fmt.Sprintf("%s(%s)", m.Name, m.EnglishName))
	}
	return strings.Join(lines, "\n  ")
}
