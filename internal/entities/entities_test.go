package entities_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/coc-keeper/internal/entities"
)

type EntitiesTestSuite struct {
	suite.Suite
	now time.Time
}

func TestEntitiesSuite(t *testing.T) {
	suite.Run(t, new(EntitiesTestSuite))
}

func (s *EntitiesTestSuite) SetupTest() {
	s.now = time.Date(2025, 10, 31, 23, 0, 0, 0, time.UTC)
}

func (s *EntitiesTestSuite) TestLookupAttribute() {
	attr, ok := entities.LookupAttribute("意志")
	s.True(ok)
	s.Equal(entities.AttrPOW, attr.Code)

	attr, ok = entities.LookupAttribute("dex")
	s.True(ok)
	s.Equal("敏捷", attr.Name)

	_, ok = entities.LookupAttribute("侦查")
	s.False(ok)
}

func (s *EntitiesTestSuite) TestSheetLookup() {
	sheet := entities.NewCharacterSheet("p1", "r1", "Harvey", s.now)
	sheet.Skills["侦查"] = 60
	sheet.SetAttribute(entities.Attribute{Code: entities.AttrSTR, Name: "力量"}, 55)

	s.Run("skill first", func() {
		v, ok := sheet.Lookup("侦查")
		s.True(ok)
		s.Equal(60, v)
	})

	s.Run("attribute by either key", func() {
		v, ok := sheet.Lookup("力量")
		s.True(ok)
		s.Equal(55, v)

		v, ok = sheet.Lookup("str")
		s.True(ok)
		s.Equal(55, v)
	})

	s.Run("missing", func() {
		_, ok := sheet.Lookup("图书馆使用")
		s.False(ok)
	})
}

func (s *EntitiesTestSuite) TestApplyAttributeSet() {
	sheet := entities.NewCharacterSheet("p1", "r1", "Harvey", s.now)
	sheet.Attributes["stale"] = 1

	set := entities.AttributeSet{STR: 50, CON: 60, SIZ: 70, DEX: 40, APP: 45, INT: 80, POW: 65, EDU: 75, LUCK: 35}
	sheet.ApplyAttributeSet(set)

	s.Len(sheet.Attributes, 16)
	s.Equal(65, sheet.Attributes["意志"])
	s.Equal(65, sheet.Attributes["POW"])
	s.Equal(65, sheet.Sanity)
	s.Equal(35, sheet.Luck)
	s.True(sheet.HasBaseAttributes())
	s.Equal(485, set.Total())
}

func (s *EntitiesTestSuite) TestAppendTurnsKeepsNewest() {
	room := &entities.RoomSession{RoomID: "r1"}
	for i := 1; i <= 25; i++ {
		room.AppendTurns(20, entities.Turn{Role: entities.RoleUser, Content: fmt.Sprintf("turn %d", i)})
	}

	s.Require().Len(room.AI.History, 20)
	s.Equal("turn 6", room.AI.History[0].Content)
	s.Equal("turn 25", room.AI.History[19].Content)
}

func (s *EntitiesTestSuite) TestIsKeeper() {
	room := &entities.RoomSession{RoomID: "r1"}
	s.False(room.IsKeeper("p1"))

	room.Keeper = &entities.KeeperClaim{PlayerID: "p1", Name: "Armitage"}
	s.True(room.IsKeeper("p1"))
	s.False(room.IsKeeper("p2"))
}

func (s *EntitiesTestSuite) TestSheetClone() {
	sheet := entities.NewCharacterSheet("p1", "r1", "Harvey", s.now)
	sheet.Skills["侦查"] = 60
	sheet.RecordRoll(33, "侦查", 60)

	clone := sheet.Clone()
	clone.Skills["侦查"] = 80
	*clone.LastRoll = 99

	s.Equal(60, sheet.Skills["侦查"])
	s.Equal(33, *sheet.LastRoll)
	s.Equal("Harvey", clone.Name)
}
