package entities

import "time"

// CharacterSheet is one player's investigator in one room. Attributes are
// stored under both the long name and the short code.
type CharacterSheet struct {
	PlayerID       string         `json:"player_id"`
	RoomID         string         `json:"room_id"`
	Name           string         `json:"name"`
	Attributes     map[string]int `json:"attributes"`
	Skills         map[string]int `json:"skills"`
	Sanity         int            `json:"sanity"`
	Luck           int            `json:"luck"`
	LastRoll       *int           `json:"last_roll,omitempty"`
	LastSkillName  string         `json:"last_skill_name,omitempty"`
	LastSkillValue int            `json:"last_skill_value,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// NewCharacterSheet returns an empty sheet
func NewCharacterSheet(playerID, roomID, name string, now time.Time) *CharacterSheet {
	return &CharacterSheet{
		PlayerID:   playerID,
		RoomID:     roomID,
		Name:       name,
		Attributes: make(map[string]int),
		Skills:     make(map[string]int),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Normalize fills maps that older records may lack
func (c *CharacterSheet) Normalize() {
	if c.Attributes == nil {
		c.Attributes = make(map[string]int)
	}
	if c.Skills == nil {
		c.Skills = make(map[string]int)
	}
}

// SetAttribute writes both keys of a characteristic
func (c *CharacterSheet) SetAttribute(attr Attribute, value int) {
	c.Attributes[attr.Name] = value
	c.Attributes[attr.Code] = value
}

// Attribute returns a characteristic by either key
func (c *CharacterSheet) Attribute(attr Attribute) (int, bool) {
	if v, ok := c.Attributes[attr.Name]; ok {
		return v, true
	}
	v, ok := c.Attributes[attr.Code]
	return v, ok
}

// HasBaseAttributes reports whether any characteristic is recorded
func (c *CharacterSheet) HasBaseAttributes() bool {
	for _, a := range Attributes {
		if _, ok := c.Attribute(a); ok {
			return true
		}
	}
	return false
}

// Lookup finds a saved value for a check: skills first, then
// characteristics by either key.
func (c *CharacterSheet) Lookup(name string) (int, bool) {
	if v, ok := c.Skills[name]; ok {
		return v, true
	}
	if v, ok := c.Attributes[name]; ok {
		return v, true
	}
	if attr, ok := LookupAttribute(name); ok {
		return c.Attribute(attr)
	}
	return 0, false
}

// ApplyAttributeSet replaces characteristics with a generated set. Sanity
// starts at POW and luck takes the set's own roll.
func (c *CharacterSheet) ApplyAttributeSet(set AttributeSet) {
	c.Attributes = make(map[string]int, len(Attributes)*2)
	for _, a := range Attributes {
		c.SetAttribute(a, set.Get(a.Code))
	}
	c.Sanity = set.POW
	c.Luck = set.LUCK
}

// RecordRoll remembers the latest roll, and the skill it was against when
// there was one.
func (c *CharacterSheet) RecordRoll(roll int, skill string, target int) {
	c.LastRoll = &roll
	if skill != "" {
		c.LastSkillName = skill
		c.LastSkillValue = target
	}
}

// Clone returns a deep copy
func (c *CharacterSheet) Clone() *CharacterSheet {
	out := *c
	out.Attributes = make(map[string]int, len(c.Attributes))
	for k, v := range c.Attributes {
		out.Attributes[k] = v
	}
	out.Skills = make(map[string]int, len(c.Skills))
	for k, v := range c.Skills {
		out.Skills[k] = v
	}
	if c.LastRoll != nil {
		roll := *c.LastRoll
		out.LastRoll = &roll
	}
	return &out
}
