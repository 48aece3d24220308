package command_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/coc-keeper/internal/command"
)

type ParserTestSuite struct {
	suite.Suite
}

func TestParserSuite(t *testing.T) {
	suite.Run(t, new(ParserTestSuite))
}

func (s *ParserTestSuite) parse(text string) command.Command {
	cmd, err := command.Parse(text)
	s.Require().NoError(err, text)
	return cmd
}

func (s *ParserTestSuite) usage(text string) *command.UsageError {
	_, err := command.Parse(text)
	var ue *command.UsageError
	s.Require().True(errors.As(err, &ue), "expected usage error for %q, got %v", text, err)
	return ue
}

func (s *ParserTestSuite) TestNotCommands() {
	for _, text := range []string{"", "   ", "hello", "我推开门", "r 1d6"} {
		_, err := command.Parse(text)
		s.ErrorIs(err, command.ErrNotCommand, text)
	}

	_, err := command.Parse(".frobnicate")
	s.ErrorIs(err, command.ErrUnknownCommand)
}

func (s *ParserTestSuite) TestRoll() {
	testCases := []struct {
		text string
		expr string
	}{
		{".r", ""},
		{".r 3d6+2", "3d6+2"},
		{".R 1D100", "1D100"},
		{".rd", ""},
		{".roll 2d10", "2d10"},
		{".rd6", "d6"},
		{".r2d6+1", "2d6+1"},
		{".RD20", "d20"},
		{".r3d6 +2", "3d6 +2"},
	}

	for _, tc := range testCases {
		s.Run(tc.text, func() {
			s.Equal(command.Roll{Expr: tc.expr}, s.parse(tc.text))
		})
	}
}

func (s *ParserTestSuite) TestFullWidthInput() {
	s.Equal(command.Check{Skill: "侦查", Target: 60, HasTarget: true}, s.parse("．ｒｃ　侦查　６０"))
	s.Equal(command.Roll{Expr: "1d6"}, s.parse("．ｒ　１ｄ６"))
}

func (s *ParserTestSuite) TestCheck() {
	testCases := []struct {
		text string
		want command.Check
	}{
		{".rc 侦查 60", command.Check{Skill: "侦查", Target: 60, HasTarget: true}},
		{".rc 侦查 60 b", command.Check{Skill: "侦查", Target: 60, HasTarget: true, Modifier: command.Modifier{Bonus: 1}}},
		{".rc 侦查 60 B2", command.Check{Skill: "侦查", Target: 60, HasTarget: true, Modifier: command.Modifier{Bonus: 2}}},
		{".rc 侦查 60p3", command.Check{Skill: "侦查", Target: 60, HasTarget: true, Modifier: command.Modifier{Penalty: 3}}},
		{".rc 侦查", command.Check{Skill: "侦查"}},
		{".rc 侦查 p", command.Check{Skill: "侦查", Modifier: command.Modifier{Penalty: 1}}},
		{".rc STR b0", command.Check{Skill: "STR"}},
	}

	for _, tc := range testCases {
		s.Run(tc.text, func() {
			s.Equal(tc.want, s.parse(tc.text))
		})
	}

	s.Run("malformed", func() {
		s.Equal(command.UsageCheck, s.usage(".rc").Usage)
		s.Equal(command.UsageCheck, s.usage(".rc 侦查 60 x").Usage)
		s.Equal(command.UsageCheck, s.usage(".rc 侦查 60 b11").Usage)
	})
}

func (s *ParserTestSuite) TestSanity() {
	s.Equal(command.Sanity{Capacity: 55, HasCapacity: true, SuccessLoss: "1d3", FailureLoss: "1d10"},
		s.parse(".sc 55 1d3/1d10"))
	s.Equal(command.Sanity{SuccessLoss: "0", FailureLoss: "1d6"}, s.parse(".san 0/1d6"))
	s.Equal(command.UsageSanity, s.usage(".sc 55").Usage)
	s.Equal(command.UsageSanity, s.usage(".sc").Usage)
}

func (s *ParserTestSuite) TestOpposed() {
	s.Equal(command.Opposed{Name1: "力量", Target1: 60, Name2: "力量", Target2: 45},
		s.parse(".rop 力量 60 VS 力量 45"))
	s.Equal(command.UsageOpposed, s.usage(".rop 力量 60 力量 45").Usage)
}

func (s *ParserTestSuite) TestCombat() {
	s.Equal(command.Combat{Kind: command.CombatFight, Target: 50}, s.parse(".fight 50"))
	s.Equal(command.Combat{Kind: command.CombatFire, Target: 40, Modifier: command.Modifier{Penalty: 1}}, s.parse(".fire 40 p"))
	s.Equal(command.Combat{Kind: command.CombatDodge, Target: 30, Modifier: command.Modifier{Bonus: 2}}, s.parse(".dodge 30b2"))
	s.Equal("格斗", command.CombatFight.Skill())
	s.Equal("格式: .fire 技能值 [b/p[数量]]", s.usage(".fire").Usage)
}

func (s *ParserTestSuite) TestDamage() {
	s.Equal(command.Damage{Expr: "1d3+1d4"}, s.parse(".dmg 1d3+1d4"))
	s.Equal(command.UsageDamage, s.usage(".dmg").Usage)
}

func (s *ParserTestSuite) TestGenerateAndSave() {
	s.Equal(command.Generate{Count: 1}, s.parse(".coc"))
	s.Equal(command.Generate{Count: 5}, s.parse(".coc 5"))
	s.Equal(command.Generate{Count: 1}, s.parse(".coc many"))
	s.Equal(command.Save{Index: 1}, s.parse(".save"))
	s.Equal(command.Save{Index: 3}, s.parse(".save 3"))
	s.Equal(command.Save{Index: 0}, s.parse(".save 0"))
}

func (s *ParserTestSuite) TestSetStats() {
	s.Equal(command.SetStats{Pairs: []command.StatPair{{Name: "侦查", Value: "60"}, {Name: "聆听", Value: "abc"}}},
		s.parse(".st 侦查 60 聆听 abc"))
	s.Equal(command.UsageSetStats, s.usage(".st 侦查").Usage)
	s.Equal(command.UsageSetStats, s.usage(".st 侦查 60 聆听").Usage)
}

func (s *ParserTestSuite) TestLuck() {
	s.Equal(command.Luck{Action: command.LuckStatus}, s.parse(".luck"))
	s.Equal(command.Luck{Action: command.LuckSet, Value: 50}, s.parse(".luck SET 50"))
	s.Equal(command.Luck{Action: command.LuckSpend, Amount: 5, Skill: "侦查", Target: 50},
		s.parse(".luck spend 5 侦查 50"))
	s.Equal(command.UsageLuckSpend, s.usage(".luck spend x 侦查 50").Usage)
	s.Equal(command.UsageLuck, s.usage(".luck set").Usage)
	s.Equal(command.UsageLuck, s.usage(".luck spend 5").Usage)
	s.Equal(command.UsageLuck, s.usage(".luck gamble").Usage)
}

func (s *ParserTestSuite) TestSimple() {
	s.Equal(command.Show{}, s.parse(".show"))
	s.Equal(command.Template{}, s.parse(".TEMPLATE"))
	s.Equal(command.Help{}, s.parse(".help"))
	s.Equal(command.Help{Topic: "rc"}, s.parse(".help RC"))
}

func (s *ParserTestSuite) TestKeeper() {
	s.Equal(command.KeeperStatus{}, s.parse(".kp"))
	s.Equal(command.KeeperStatus{}, s.parse(".kp whatever"))
	s.Equal(command.KeeperClaim{}, s.parse(".kp claim"))
	s.Equal(command.KeeperResign{}, s.parse(".kp Resign"))

	s.Run("secret check", func() {
		s.Equal(command.KeeperSecretCheck{Skill: "侦查", Target: 60, Modifier: command.Modifier{Penalty: 1}},
			s.parse(".kp rc 侦查 60 p"))
		ue := s.usage(".kp rc 侦查")
		s.True(ue.KeeperOnly)
		s.Equal(command.UsageKeeperCheck, ue.Usage)
	})

	s.Run("npc", func() {
		s.Equal(command.KeeperNPC{List: true}, s.parse(".kp npc LIST"))
		s.Equal(command.KeeperNPC{Monster: "深潜者"}, s.parse(".kp npc 深潜者"))
		s.Equal(command.KeeperNPC{Monster: "深潜者", Skill: "格斗"}, s.parse(".kp npc 深潜者 格斗"))
		s.Equal(command.KeeperNPC{Monster: "深潜者", Skill: "格斗", Modifier: command.Modifier{Bonus: 1}},
			s.parse(".kp npc 深潜者 格斗 b"))
		s.Equal(command.KeeperNPC{Monster: "守卫", Skill: "侦查", Target: 40, HasTarget: true, Modifier: command.Modifier{Penalty: 2}},
			s.parse(".kp npc 守卫 侦查 40 p2"))
		s.Equal(command.KeeperNPC{Monster: "守卫", Skill: "侦查", Target: 40, HasTarget: true},
			s.parse(".kp npc 守卫 侦查 40 junk"))
		s.True(s.usage(".kp npc").KeeperOnly)
	})

	s.Run("npc sanity", func() {
		s.Equal(command.KeeperSanity{Capacity: 55, SuccessLoss: "1d3", FailureLoss: "1d10"}, s.parse(".kp sc 55 1d3/1d10"))
		s.Equal(command.UsageKeeperSanity, s.usage(".kp sc 1d3/1d10").Usage)
	})

	s.Run("ai", func() {
		s.Equal(command.KeeperAI{Action: command.AIStatus}, s.parse(".kp ai"))
		s.Equal(command.KeeperAI{Action: command.AIStatus}, s.parse(".kp ai status"))
		s.Equal(command.KeeperAI{Action: command.AIStart}, s.parse(".kp ai start"))
		s.Equal(command.KeeperAI{Action: command.AIStop}, s.parse(".kp ai stop"))
		s.Equal(command.KeeperAI{Action: command.AIClear}, s.parse(".kp ai clear"))
		ue := s.usage(".kp ai dance")
		s.True(ue.KeeperOnly)
		s.Equal(command.UsageKeeperAI, ue.Usage)
	})

	s.Run("briefing keeps its original text", func() {
		cmd := s.parse(".kp ai load 1920年，阿卡姆。\n调查员受托寻找失踪的教授！")
		s.Equal(command.KeeperAI{Action: command.AIStart, Briefing: "1920年，阿卡姆。\n调查员受托寻找失踪的教授！"}, cmd)
	})
}

func (s *ParserTestSuite) TestKeywords() {
	s.Equal("r", s.parse(".rd6").Keyword())
	s.Equal("dodge", s.parse(".dodge 40").Keyword())
	s.Equal("kp npc", s.parse(".kp npc list").Keyword())
}
