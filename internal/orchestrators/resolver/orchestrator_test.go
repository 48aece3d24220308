package resolver_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/coc-keeper/internal/dice"
	"github.com/KirkDiggler/coc-keeper/internal/errors"
	"github.com/KirkDiggler/coc-keeper/internal/orchestrators/resolver"
	"github.com/KirkDiggler/coc-keeper/internal/pkg/clock"
	"github.com/KirkDiggler/coc-keeper/internal/rules"
	"github.com/KirkDiggler/coc-keeper/internal/session"
	"github.com/KirkDiggler/coc-keeper/internal/testutils"
)

type ResolverTestSuite struct {
	suite.Suite
	ctx      context.Context
	roller   *testutils.ScriptedRoller
	store    *session.Store
	resolver resolver.Service
	key      session.SheetKey

	mu     sync.Mutex
	events []events.Event
}

func (s *ResolverTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.roller = testutils.NewScriptedRoller()
	s.store, _ = testutils.CreateTestStore(s.T(), clock.NewManual(time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)))
	s.key = session.SheetKey{PlayerID: "p1", RoomID: "r1"}
	s.events = nil

	engine, err := rules.NewEngine(&rules.Config{
		Evaluator: dice.NewEvaluator(&dice.Config{Roller: s.roller}),
	})
	s.Require().NoError(err)

	bus := events.NewBus()
	record := func(_ context.Context, e events.Event) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.events = append(s.events, e)
		return nil
	}
	bus.SubscribeFunc(resolver.EventCheckResolved, 0, record)
	bus.SubscribeFunc(resolver.EventSanityResolved, 0, record)
	bus.SubscribeFunc(resolver.EventLuckSpent, 0, record)

	s.resolver, err = resolver.NewOrchestrator(&resolver.Config{
		Sessions: s.store,
		Engine:   engine,
		EventBus: bus,
	})
	s.Require().NoError(err)
}

func (s *ResolverTestSuite) TearDownTest() {
	s.Equal(0, s.roller.Remaining(), "unused scripted faces")
}

func (s *ResolverTestSuite) saveSkill(name, value string) {
	_, err := s.store.ApplyStats(s.ctx, s.key, "Harvey", []session.StatPair{{Name: name, Value: value}})
	s.Require().NoError(err)
}

func (s *ResolverTestSuite) TestNewOrchestrator() {
	_, err := resolver.NewOrchestrator(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = resolver.NewOrchestrator(&resolver.Config{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *ResolverTestSuite) TestCheck() {
	s.Run("explicit target records the roll", func() {
		s.roller.Push(testutils.PercentileFaces(25)...)

		out, err := s.resolver.Check(s.ctx, &resolver.CheckInput{
			Key: s.key, Name: "Harvey",
			Skill: "侦查", Target: 60, HasTarget: true,
			Record: true,
		})
		s.Require().NoError(err)
		s.Equal(25, out.Result.Roll)
		s.Equal(rules.TierHard, out.Result.Tier)
		s.False(out.FromSheet)

		sheet, err := s.store.Sheet(s.ctx, s.key, "")
		s.Require().NoError(err)
		s.Require().NotNil(sheet.LastRoll)
		s.Equal(25, *sheet.LastRoll)
		s.Equal("侦查", sheet.LastSkillName)
		s.Equal(60, sheet.LastSkillValue)

		s.Require().Len(s.events, 1)
		tier, ok := s.events[0].Context().Get(resolver.KeyTier)
		s.True(ok)
		s.Equal("hard", tier)
		room, _ := s.events[0].Context().Get(resolver.KeyRoomID)
		s.Equal("r1", room)
		s.Equal("p1", s.events[0].Source().GetID())
	})

	s.Run("sheet lookup", func() {
		s.saveSkill("图书馆使用", "70")
		s.roller.Push(testutils.PercentileFaces(70)...)

		out, err := s.resolver.Check(s.ctx, &resolver.CheckInput{
			Key: s.key, Skill: "图书馆使用", Record: true,
		})
		s.Require().NoError(err)
		s.True(out.FromSheet)
		s.Equal(70, out.Result.Target)
		s.Equal(rules.TierRegular, out.Result.Tier)
	})

	s.Run("missing skill is not found", func() {
		_, err := s.resolver.Check(s.ctx, &resolver.CheckInput{Key: s.key, Skill: "克苏鲁神话"})
		s.True(errors.IsNotFound(err))
		msg, ok := errors.UserMessage(err)
		s.True(ok)
		s.Equal("未找到技能「克苏鲁神话」，请先用 .st 克苏鲁神话 值 保存", msg)
	})

	s.Run("sheet beats the narrator's target", func() {
		s.saveSkill("聆听", "40")
		s.roller.Push(testutils.PercentileFaces(50)...)

		out, err := s.resolver.Check(s.ctx, &resolver.CheckInput{
			Key: s.key, Skill: "聆听", Target: 80, HasTarget: true,
			PreferSheet: true, Record: true, Origin: resolver.OriginNarrator,
		})
		s.Require().NoError(err)
		s.Equal(40, out.Result.Target)
		s.Equal(rules.TierFailure, out.Result.Tier)
	})

	s.Run("narrator target when the sheet lacks the skill", func() {
		s.roller.Push(testutils.PercentileFaces(50)...)

		out, err := s.resolver.Check(s.ctx, &resolver.CheckInput{
			Key: s.key, Skill: "潜行", Target: 80, HasTarget: true, PreferSheet: true,
		})
		s.Require().NoError(err)
		s.Equal(80, out.Result.Target)
		s.False(out.FromSheet)
	})

	s.Run("unrecorded checks leave the sheet alone", func() {
		before, err := s.store.Sheet(s.ctx, s.key, "")
		s.Require().NoError(err)
		s.roller.Push(testutils.PercentileFaces(3)...)

		out, err := s.resolver.Check(s.ctx, &resolver.CheckInput{
			Key: s.key, Skill: "格斗", Target: 50, HasTarget: true, Origin: resolver.OriginNPC,
		})
		s.Require().NoError(err)
		s.Nil(out.Sheet)

		after, err := s.store.Sheet(s.ctx, s.key, "")
		s.Require().NoError(err)
		s.Equal(*before.LastRoll, *after.LastRoll)
	})
}

func (s *ResolverTestSuite) TestSanity() {
	s.Run("applies loss to the sheet", func() {
		s.saveSkill("SAN", "55")
		// roll 70 fails, 1d10 loss of 7
		s.roller.Push(testutils.PercentileFaces(70)...)
		s.roller.Push(7)

		out, err := s.resolver.Sanity(s.ctx, &resolver.SanityInput{
			Key: s.key, SuccessLoss: "1d3", FailureLoss: "1d10", Apply: true,
		})
		s.Require().NoError(err)
		s.False(out.Result.Passed)
		s.Equal(55, out.Result.Capacity)
		s.Equal(48, out.Result.NewSanity)
		s.True(out.Result.TemporaryInsanity)

		sheet, err := s.store.Sheet(s.ctx, s.key, "")
		s.Require().NoError(err)
		s.Equal(48, sheet.Sanity)
		s.Equal(70, *sheet.LastRoll)
	})

	s.Run("npc check touches no sheet", func() {
		s.roller.Push(testutils.PercentileFaces(10)...)
		s.roller.Push(2)

		out, err := s.resolver.Sanity(s.ctx, &resolver.SanityInput{
			Key: s.key, Capacity: 30, HasCapacity: true,
			SuccessLoss: "1d3", FailureLoss: "1d6", Origin: resolver.OriginNPC,
		})
		s.Require().NoError(err)
		s.True(out.Result.Passed)
		s.Equal(28, out.Result.NewSanity)
		s.Nil(out.Sheet)

		sheet, err := s.store.Sheet(s.ctx, s.key, "")
		s.Require().NoError(err)
		s.Equal(48, sheet.Sanity)
	})
}

func (s *ResolverTestSuite) TestSpendLuck() {
	s.Run("no prior roll", func() {
		_, err := s.resolver.SpendLuck(s.ctx, &resolver.SpendLuckInput{Key: s.key, Amount: 5, Skill: "侦查", Target: 50})
		s.True(errors.IsFailedPrecondition(err))
	})

	s.saveSkill("幸运", "10")
	s.roller.Push(testutils.PercentileFaces(40)...)
	_, err := s.resolver.Check(s.ctx, &resolver.CheckInput{
		Key: s.key, Skill: "侦查", Target: 30, HasTarget: true, Record: true,
	})
	s.Require().NoError(err)

	s.Run("insufficient pool mutates nothing", func() {
		_, err := s.resolver.SpendLuck(s.ctx, &resolver.SpendLuckInput{Key: s.key, Amount: 15, Skill: "侦查", Target: 30})
		s.True(errors.IsResourceExhausted(err))

		sheet, err := s.store.Sheet(s.ctx, s.key, "")
		s.Require().NoError(err)
		s.Equal(10, sheet.Luck)
		s.Equal(40, *sheet.LastRoll)
	})

	s.Run("spend lowers the roll", func() {
		out, err := s.resolver.SpendLuck(s.ctx, &resolver.SpendLuckInput{Key: s.key, Amount: 10, Skill: "侦查", Target: 30})
		s.Require().NoError(err)
		s.Equal(30, out.Result.NewRoll)
		s.Equal(0, out.Result.NewPool)
		s.Equal(rules.TierRegular, out.Result.Tier)

		sheet, err := s.store.Sheet(s.ctx, s.key, "")
		s.Require().NoError(err)
		s.Equal(0, sheet.Luck)
		s.Equal(30, *sheet.LastRoll)
	})
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverTestSuite))
}
