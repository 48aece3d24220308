package rules_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/coc-keeper/internal/dice"
	"github.com/KirkDiggler/coc-keeper/internal/entities"
	"github.com/KirkDiggler/coc-keeper/internal/rules"
	"github.com/KirkDiggler/coc-keeper/internal/testutils"
)

type ChargenTestSuite struct {
	suite.Suite
}

func TestChargenSuite(t *testing.T) {
	suite.Run(t, new(ChargenTestSuite))
}

func (s *ChargenTestSuite) TestFormulas() {
	faces := make([]int, 0, 24)
	for i := 0; i < 24; i++ {
		faces = append(faces, 3)
	}
	roller := testutils.NewScriptedRoller(faces...)
	engine, err := rules.NewEngine(&rules.Config{Evaluator: dice.NewEvaluator(&dice.Config{Roller: roller})})
	s.Require().NoError(err)

	sets, err := engine.Generate(1)
	s.Require().NoError(err)
	s.Require().Len(sets, 1)

	set := sets[0]
	s.Equal(45, set.STR)
	s.Equal(45, set.POW)
	s.Equal(60, set.SIZ)
	s.Equal(60, set.EDU)
	s.Equal(45, set.LUCK)
	s.Equal(45*5+60*3, set.Total())
	s.Equal(0, roller.Remaining())
}

func (s *ChargenTestSuite) TestCountIsClampedAndRangesHold() {
	engine, err := rules.NewEngine(&rules.Config{Evaluator: dice.NewEvaluator(nil)})
	s.Require().NoError(err)

	sets, err := engine.Generate(0)
	s.Require().NoError(err)
	s.Len(sets, 1)

	sets, err = engine.Generate(15)
	s.Require().NoError(err)
	s.Len(sets, 10)

	for _, set := range sets {
		for _, code := range []string{entities.AttrSTR, entities.AttrCON, entities.AttrDEX, entities.AttrAPP, entities.AttrPOW, entities.AttrLUCK} {
			s.GreaterOrEqual(set.Get(code), 15)
			s.LessOrEqual(set.Get(code), 90)
			s.Zero(set.Get(code) % 5)
		}
		for _, code := range []string{entities.AttrSIZ, entities.AttrINT, entities.AttrEDU} {
			s.GreaterOrEqual(set.Get(code), 40)
			s.LessOrEqual(set.Get(code), 90)
		}
	}
}

func (s *ChargenTestSuite) TestFormat() {
	set := entities.AttributeSet{STR: 50, CON: 60, SIZ: 70, DEX: 40, APP: 45, INT: 80, POW: 65, EDU: 75, LUCK: 35}

	single := rules.FormatAttributeSets([]entities.AttributeSet{set})
	s.Contains(single, "📋 调查员属性")
	s.Contains(single, "  意志(POW): 65")
	s.Contains(single, "  幸运(LUCK): 35")
	s.Contains(single, "  总计(不含幸运): 485")

	multi := rules.FormatAttributeSets([]entities.AttributeSet{set, set})
	s.Contains(multi, "📋 第1组属性")
	s.Contains(multi, "📋 第2组属性")
}
