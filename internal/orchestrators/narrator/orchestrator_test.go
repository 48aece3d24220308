package narrator_test

import (
	"context"
	"testing"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/coc-keeper/internal/clients/inference"
	inferencemock "github.com/KirkDiggler/coc-keeper/internal/clients/inference/mock"
	"github.com/KirkDiggler/coc-keeper/internal/dice"
	"github.com/KirkDiggler/coc-keeper/internal/entities"
	"github.com/KirkDiggler/coc-keeper/internal/errors"
	"github.com/KirkDiggler/coc-keeper/internal/orchestrators/narrator"
	"github.com/KirkDiggler/coc-keeper/internal/orchestrators/resolver"
	"github.com/KirkDiggler/coc-keeper/internal/pkg/clock"
	"github.com/KirkDiggler/coc-keeper/internal/rules"
	"github.com/KirkDiggler/coc-keeper/internal/session"
	"github.com/KirkDiggler/coc-keeper/internal/testutils"
)

const roomID = "room-1"

type NarratorTestSuite struct {
	suite.Suite
	ctx      context.Context
	ctrl     *gomock.Controller
	llm      *inferencemock.MockClient
	roller   *testutils.ScriptedRoller
	store    *session.Store
	narrator narrator.Service
	input    *narrator.TurnInput
}

func (s *NarratorTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.llm = inferencemock.NewMockClient(s.ctrl)
	s.roller = testutils.NewScriptedRoller()
	s.store, _ = testutils.CreateTestStore(s.T(), clock.NewManual(time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)))

	engine, err := rules.NewEngine(&rules.Config{
		Evaluator: dice.NewEvaluator(&dice.Config{Roller: s.roller}),
	})
	s.Require().NoError(err)

	res, err := resolver.NewOrchestrator(&resolver.Config{
		Sessions: s.store,
		Engine:   engine,
		EventBus: events.NewBus(),
	})
	s.Require().NoError(err)

	s.narrator, err = narrator.NewOrchestrator(&narrator.Config{
		Sessions:  s.store,
		Resolver:  res,
		Inference: s.llm,
		Timeout:   time.Second,
	})
	s.Require().NoError(err)

	s.input = &narrator.TurnInput{PlayerID: "p1", RoomID: roomID, PlayerName: "Harvey", Text: "我推开书房的门"}
}

func (s *NarratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
	s.Equal(0, s.roller.Remaining(), "unused scripted faces")
}

func (s *NarratorTestSuite) start(briefing string) {
	_, err := s.store.StartAI(s.ctx, roomID, briefing)
	s.Require().NoError(err)
}

func (s *NarratorTestSuite) history() []entities.Turn {
	rs, err := s.store.Room(s.ctx, roomID)
	s.Require().NoError(err)
	return rs.AI.History
}

func reply(content string) *inference.ChatOutput {
	return &inference.ChatOutput{Content: content, Model: "qwen3:8b"}
}

func (s *NarratorTestSuite) TestNewOrchestrator() {
	_, err := narrator.NewOrchestrator(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = narrator.NewOrchestrator(&narrator.Config{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *NarratorTestSuite) TestInactiveRoom() {
	out, err := s.narrator.Turn(s.ctx, s.input)
	s.Require().NoError(err)
	s.Nil(out)
	s.Empty(s.history())
}

func (s *NarratorTestSuite) TestPlainNarration() {
	s.start("1920年，阿卡姆")

	s.llm.EXPECT().Chat(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, in *inference.ChatInput) (*inference.ChatOutput, error) {
			_, hasDeadline := ctx.Deadline()
			s.True(hasDeadline)
			s.Contains(in.System, "【本次团本】\n1920年，阿卡姆")
			s.Equal([]entities.Turn{{Role: entities.RoleUser, Content: "Harvey: 我推开书房的门"}}, in.Messages)
			return reply("<think>描述书房</think>\n书架上落满灰尘。"), nil
		})

	out, err := s.narrator.Turn(s.ctx, s.input)
	s.Require().NoError(err)
	s.Equal([]string{"书架上落满灰尘。"}, out.Messages)
	s.False(out.Failed)

	s.Equal([]entities.Turn{
		{Role: entities.RoleUser, Content: "Harvey: 我推开书房的门"},
		{Role: entities.RoleAssistant, Content: "书架上落满灰尘。"},
	}, s.history())
}

func (s *NarratorTestSuite) TestDirectiveLoop() {
	s.start("")
	_, err := s.store.ApplyStats(s.ctx, session.SheetKey{PlayerID: "p1", RoomID: roomID}, "Harvey",
		[]session.StatPair{{Name: "侦查", Value: "40"}})
	s.Require().NoError(err)

	gomock.InOrder(
		s.llm.EXPECT().Chat(gomock.Any(), gomock.Any()).Return(
			reply("书桌上似乎有什么东西。\n[检定: 侦查 70]"), nil),
		s.llm.EXPECT().Chat(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, in *inference.ChatInput) (*inference.ChatOutput, error) {
				last := in.Messages[len(in.Messages)-1]
				s.Equal(entities.RoleSystem, last.Role)
				s.Contains(last.Content, "侦查 检定 (目标值: 40)")
				s.Contains(last.Content, "d100 = 35")
				return reply("你发现了一本日记。[检定：克苏鲁神话 5]"), nil
			}),
	)
	s.roller.Push(testutils.PercentileFaces(35)...)

	out, err := s.narrator.Turn(s.ctx, s.input)
	s.Require().NoError(err)
	s.Require().Len(out.Messages, 3)
	s.Equal("书桌上似乎有什么东西。", out.Messages[0])
	s.Contains(out.Messages[1], "🎲 侦查 检定 (目标值: 40)\nd100 = 35")
	s.Contains(out.Messages[1], "【成功】")
	s.Equal("你发现了一本日记。", out.Messages[2])

	history := s.history()
	s.Require().Len(history, 4)
	s.Equal(entities.RoleSystem, history[2].Role)
	s.Equal("你发现了一本日记。[检定：克苏鲁神话 5]", history[3].Content)

	cs, err := s.store.Sheet(s.ctx, session.SheetKey{PlayerID: "p1", RoomID: roomID}, "")
	s.Require().NoError(err)
	s.Equal(35, *cs.LastRoll)
	s.Equal("侦查", cs.LastSkillName)
}

func (s *NarratorTestSuite) TestModelTargetWithoutSheet() {
	s.start("")

	gomock.InOrder(
		s.llm.EXPECT().Chat(gomock.Any(), gomock.Any()).Return(reply("[检定: 聆听 60]"), nil),
		s.llm.EXPECT().Chat(gomock.Any(), gomock.Any()).Return(reply("楼上传来脚步声。"), nil),
	)
	s.roller.Push(testutils.PercentileFaces(61)...)

	out, err := s.narrator.Turn(s.ctx, s.input)
	s.Require().NoError(err)
	s.Require().Len(out.Messages, 2)
	s.Contains(out.Messages[0], "🎲 聆听 检定 (目标值: 60)")
	s.Contains(out.Messages[0], "【失败】")
	s.Equal("楼上传来脚步声。", out.Messages[1])
}

func (s *NarratorTestSuite) TestInferenceFailure() {
	s.start("")

	s.Run("first call keeps the player's turn", func() {
		s.llm.EXPECT().Chat(gomock.Any(), gomock.Any()).Return(nil, errors.Unavailable("connection refused"))

		out, err := s.narrator.Turn(s.ctx, s.input)
		s.Require().NoError(err)
		s.True(out.Failed)
		s.Equal([]string{narrator.Notice}, out.Messages)
		s.Equal([]entities.Turn{{Role: entities.RoleUser, Content: "Harvey: 我推开书房的门"}}, s.history())
	})

	s.Run("follow-up failure stops after the roll", func() {
		_, err := s.store.ClearAI(s.ctx, roomID)
		s.Require().NoError(err)

		gomock.InOrder(
			s.llm.EXPECT().Chat(gomock.Any(), gomock.Any()).Return(reply("小心。[检定: 闪避 50][检定: 侦查 50]"), nil),
			s.llm.EXPECT().Chat(gomock.Any(), gomock.Any()).Return(nil, errors.DeadlineExceeded("timed out")),
		)
		s.roller.Push(testutils.PercentileFaces(20)...)

		out, err := s.narrator.Turn(s.ctx, s.input)
		s.Require().NoError(err)
		s.True(out.Failed)
		s.Require().Len(out.Messages, 3)
		s.Equal("小心。", out.Messages[0])
		s.Contains(out.Messages[1], "闪避 检定")
		s.Equal(narrator.Notice, out.Messages[2])
		s.Len(s.history(), 3)
	})
}

func (s *NarratorTestSuite) TestKickoff() {
	s.start("深夜的疗养院")

	s.llm.EXPECT().Chat(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, in *inference.ChatInput) (*inference.ChatOutput, error) {
			s.Require().Len(in.Messages, 1)
			s.Equal(entities.RoleUser, in.Messages[0].Role)
			s.Contains(in.Messages[0].Content, "开场场景")
			return reply("雨夜，你们站在疗养院门前。"), nil
		})

	out, err := s.narrator.Kickoff(s.ctx, &narrator.KickoffInput{PlayerID: "kp", RoomID: roomID, PlayerName: "KP"})
	s.Require().NoError(err)
	s.Equal([]string{"雨夜，你们站在疗养院门前。"}, out.Messages)
}

func TestNarratorSuite(t *testing.T) {
	suite.Run(t, new(NarratorTestSuite))
}
