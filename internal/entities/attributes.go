package entities

import "strings"

// Attribute codes
const (
	AttrSTR  = "STR"
	AttrCON  = "CON"
	AttrSIZ  = "SIZ"
	AttrDEX  = "DEX"
	AttrAPP  = "APP"
	AttrINT  = "INT"
	AttrPOW  = "POW"
	AttrEDU  = "EDU"
	AttrLUCK = "LUCK"
)

// Names that do not live in the attribute map
const (
	LuckName   = "幸运"
	SanityCode = "SAN"
	SanityName = "理智"
)

// Attribute is a canonical characteristic with its short code and long name
type Attribute struct {
	Code string
	Name string
}

// Label renders "力量(STR)"
func (a Attribute) Label() string {
	return a.Name + "(" + a.Code + ")"
}

// Attributes lists the eight characteristics in sheet order
var Attributes = []Attribute{
	{Code: AttrSTR, Name: "力量"},
	{Code: AttrCON, Name: "体质"},
	{Code: AttrSIZ, Name: "体型"},
	{Code: AttrDEX, Name: "敏捷"},
	{Code: AttrAPP, Name: "外貌"},
	{Code: AttrINT, Name: "智力"},
	{Code: AttrPOW, Name: "意志"},
	{Code: AttrEDU, Name: "教育"},
}

// LookupAttribute matches a long name or a short code (any case)
func LookupAttribute(name string) (Attribute, bool) {
	upper := strings.ToUpper(name)
	for _, a := range Attributes {
		if a.Name == name || a.Code == upper {
			return a, true
		}
	}
	return Attribute{}, false
}

// IsLuck reports whether name refers to the luck pool
func IsLuck(name string) bool {
	return name == LuckName || strings.EqualFold(name, AttrLUCK)
}

// IsSanity reports whether name refers to sanity
func IsSanity(name string) bool {
	return name == SanityName || strings.EqualFold(name, SanityCode)
}

// AttributeSet is one generated investigator
type AttributeSet struct {
	STR  int `json:"str"`
	CON  int `json:"con"`
	SIZ  int `json:"siz"`
	DEX  int `json:"dex"`
	APP  int `json:"app"`
	INT  int `json:"int"`
	POW  int `json:"pow"`
	EDU  int `json:"edu"`
	LUCK int `json:"luck"`
}

// Get returns the value for an attribute code; LUCK is accepted too
func (s AttributeSet) Get(code string) int {
	switch code {
	case AttrSTR:
		return s.STR
	case AttrCON:
		return s.CON
	case AttrSIZ:
		return s.SIZ
	case AttrDEX:
		return s.DEX
	case AttrAPP:
		return s.APP
	case AttrINT:
		return s.INT
	case AttrPOW:
		return s.POW
	case AttrEDU:
		return s.EDU
	case AttrLUCK:
		return s.LUCK
	}
	return 0
}

// Total sums the eight characteristics, excluding luck
func (s AttributeSet) Total() int {
	return s.STR + s.CON + s.SIZ + s.DEX + s.APP + s.INT + s.POW + s.EDU
}
