package rules_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/coc-keeper/internal/errors"
	"github.com/KirkDiggler/coc-keeper/internal/rules"
)

type LuckTestSuite struct {
	suite.Suite
}

func TestLuckSuite(t *testing.T) {
	suite.Run(t, new(LuckTestSuite))
}

func (s *LuckTestSuite) TestSpend() {
	res, err := rules.SpendLuck(rules.LuckInput{Pool: 10, Amount: 5, Skill: "侦查", PriorRoll: 40, Target: 50})
	s.Require().NoError(err)
	s.Equal(35, res.NewRoll)
	s.Equal(5, res.NewPool)
	s.Equal(rules.TierRegular, res.Tier)
	s.Contains(res.Details(), "原始骰值: 40 → 新骰值: 35")
}

func (s *LuckTestSuite) TestSpendNeverBelowOne() {
	res, err := rules.SpendLuck(rules.LuckInput{Pool: 50, Amount: 10, PriorRoll: 4, Target: 30})
	s.Require().NoError(err)
	s.Equal(1, res.NewRoll)
	s.Equal(rules.TierCritical, res.Tier)
}

func (s *LuckTestSuite) TestRejections() {
	s.Run("insufficient", func() {
		res, err := rules.SpendLuck(rules.LuckInput{Pool: 10, Amount: 15, PriorRoll: 40, Target: 50})
		s.Nil(res)
		s.True(errors.IsResourceExhausted(err))
		s.Equal("幸运值不足！当前幸运: 10，需要: 15", errors.GetMessage(err))
	})

	s.Run("non-positive", func() {
		_, err := rules.SpendLuck(rules.LuckInput{Pool: 10, Amount: 0, PriorRoll: 40, Target: 50})
		s.True(errors.IsInvalidArgument(err))
	})
}
