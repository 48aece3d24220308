package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/suite"
)

type RollCommandTestSuite struct {
	suite.Suite
}

func TestRollCommandTestSuite(t *testing.T) {
	suite.Run(t, new(RollCommandTestSuite))
}

func (s *RollCommandTestSuite) run(args ...string) string {
	var out bytes.Buffer
	rollCmd.SetOut(&out)
	s.Require().NoError(runRoll(rollCmd, args))
	return out.String()
}

func (s *RollCommandTestSuite) TestFixedDice() {
	s.Equal("2d1: [1,1] + 3 = 5\n", s.run("2d1+3"))
}

func (s *RollCommandTestSuite) TestSpacedArguments() {
	s.Equal("2d1: [1,1] + 3 = 5\n", s.run("2d1", "+", "3"))
}

func (s *RollCommandTestSuite) TestDefaultsToPercentile() {
	s.Contains(s.run(), "1d100: [")
}

func (s *RollCommandTestSuite) TestDiagnostic() {
	out := s.run("abc")
	s.NotEmpty(out)
	s.NotContains(out, " = ")
}
