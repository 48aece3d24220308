package rules

import (
	"fmt"

	"github.com/KirkDiggler/coc-keeper/internal/entities"
)

// Hard limits for any recorded value
const (
	MinStatValue = 0
	MaxStatValue = 99
)

type genRange struct {
	formula string
	lo, hi  int
}

var (
	range3d6    = genRange{formula: "3d6×5", lo: 15, hi: 90}
	range2d6p6  = genRange{formula: "(2d6+6)×5", lo: 40, hi: 90}
	attrFormula = map[string]genRange{
		entities.AttrSTR: range3d6,
		entities.AttrCON: range3d6,
		entities.AttrDEX: range3d6,
		entities.AttrAPP: range3d6,
		entities.AttrPOW: range3d6,
		entities.AttrSIZ: range2d6p6,
		entities.AttrINT: range2d6p6,
		entities.AttrEDU: range2d6p6,
	}
)

// InHardRange reports whether value may be recorded at all
func InHardRange(value int) bool {
	return value >= MinStatValue && value <= MaxStatValue
}

// SoftWarning returns a plausibility warning for a value that was already
// saved, or "" when it looks fine. sheet is read after the write so the
// SAN rule sees the current POW.
func SoftWarning(name string, value int, sheet *entities.CharacterSheet) string {
	if attr, ok := entities.LookupAttribute(name); ok {
		r := attrFormula[attr.Code]
		return checkGenRange(name, value, r)
	}

	if entities.IsLuck(name) {
		return checkGenRange(entities.LuckName, value, range3d6)
	}

	if entities.IsSanity(name) && sheet != nil {
		powAttr, _ := entities.LookupAttribute(entities.AttrPOW)
		if pow, ok := sheet.Attribute(powAttr); ok && value > pow {
			return fmt.Sprintf("SAN %d 超过当前意志值(%d)，初始SAN上限=意志", value, pow)
		}
	}
	return ""
}

func checkGenRange(name string, value int, r genRange) string {
	switch {
	case value > r.hi:
		return fmt.Sprintf("%s %d 超过%s上限(%d)", name, value, r.formula, r.hi)
	case value < r.lo:
		return fmt.Sprintf("%s %d 低于%s下限(%d)", name, value, r.formula, r.lo)
	}
	return ""
}
