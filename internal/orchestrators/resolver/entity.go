package resolver

import "github.com/KirkDiggler/rpg-toolkit/core"

// EntityTypeInvestigator is the event source type for player checks
const EntityTypeInvestigator = "investigator"

// investigator is the core.Entity a check event is published for
type investigator struct {
	id string
}

var _ core.Entity = (*investigator)(nil)

func (i *investigator) GetID() string   { return i.id }
func (i *investigator) GetType() string { return EntityTypeInvestigator }
