package chat_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/coc-keeper/internal/command"
	"github.com/KirkDiggler/coc-keeper/internal/handlers/chat"
	"github.com/KirkDiggler/coc-keeper/internal/logger"
	"github.com/KirkDiggler/coc-keeper/internal/orchestrators/narrator"
	narratormock "github.com/KirkDiggler/coc-keeper/internal/orchestrators/narrator/mock"
	"github.com/KirkDiggler/coc-keeper/internal/orchestrators/router"
	routermock "github.com/KirkDiggler/coc-keeper/internal/orchestrators/router/mock"
	"github.com/KirkDiggler/coc-keeper/internal/pkg/idgen"
	"github.com/KirkDiggler/coc-keeper/internal/session"
	"github.com/KirkDiggler/coc-keeper/internal/transport"
	transportmock "github.com/KirkDiggler/coc-keeper/internal/transport/mock"
)

type HandlerTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockRouter   *routermock.MockService
	mockNarrator *narratormock.MockService
	mockSender   *transportmock.MockSender
	handler      *chat.Handler
	ctx          context.Context
	msg          *transport.Message
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockRouter = routermock.NewMockService(s.ctrl)
	s.mockNarrator = narratormock.NewMockService(s.ctrl)
	s.mockSender = transportmock.NewMockSender(s.ctrl)

	handler, err := chat.NewHandler(&chat.HandlerConfig{
		Router:   s.mockRouter,
		Narrator: s.mockNarrator,
		Sender:   s.mockSender,
		Locks:    session.NewRoomLocks(),
	})
	s.Require().NoError(err)
	s.handler = handler

	s.ctx = context.Background()
	s.msg = &transport.Message{
		RoomID:     "room-1",
		PlayerID:   "p1",
		PlayerName: "Alice",
		Text:       ".rc 侦查 60",
	}
	s.mockSender.EXPECT().Mention("p1", "Alice").Return("@Alice").AnyTimes()
}

func (s *HandlerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerTestSuite) expectRoute(resp *router.Response, err error) {
	s.mockRouter.EXPECT().
		Handle(gomock.Any(), &router.HandleInput{
			PlayerID:   "p1",
			RoomID:     "room-1",
			PlayerName: "Alice",
			Text:       s.msg.Text,
		}).
		Return(resp, err)
}

func (s *HandlerTestSuite) TestNewHandler() {
	s.Run("nil config", func() {
		_, err := chat.NewHandler(nil)
		s.Error(err)
	})

	s.Run("missing dependencies", func() {
		_, err := chat.NewHandler(&chat.HandlerConfig{Router: s.mockRouter})
		s.Require().Error(err)
		s.Contains(err.Error(), "Narrator")
		s.Contains(err.Error(), "Sender")
		s.Contains(err.Error(), "Locks")
	})
}

func (s *HandlerTestSuite) TestGroupReply() {
	s.expectRoute(&router.Response{Group: "侦查 (60) → d100 = 12 → 困难成功"}, nil)
	s.mockSender.EXPECT().SendGroup(gomock.Any(), "room-1", "@Alice\n侦查 (60) → d100 = 12 → 困难成功").Return(nil)

	s.handler.Handle(s.ctx, s.msg)
}

func (s *HandlerTestSuite) TestTurnIDs() {
	handler, err := chat.NewHandler(&chat.HandlerConfig{
		Router:   s.mockRouter,
		Narrator: s.mockNarrator,
		Sender:   s.mockSender,
		Locks:    session.NewRoomLocks(),
		TurnIDs:  idgen.NewSequential("turn"),
	})
	s.Require().NoError(err)

	var seen []string
	s.mockRouter.EXPECT().
		Handle(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ *router.HandleInput) (*router.Response, error) {
			id, ok := logger.TurnIDFromContext(ctx)
			s.True(ok)
			seen = append(seen, id)
			return nil, nil
		}).
		Times(2)

	handler.Handle(s.ctx, s.msg)
	handler.Handle(s.ctx, s.msg)

	s.Equal([]string{"turn_1", "turn_2"}, seen)
}

func (s *HandlerTestSuite) TestIgnored() {
	s.Run("router ignores the line", func() {
		s.expectRoute(nil, nil)
		s.handler.Handle(s.ctx, s.msg)
	})

	s.Run("blank text never reaches the router", func() {
		s.handler.Handle(s.ctx, &transport.Message{RoomID: "room-1", PlayerID: "p1", Text: "   "})
		s.handler.Handle(s.ctx, nil)
	})
}

func (s *HandlerTestSuite) TestPrivateReply() {
	s.Run("delivered privately with a group note", func() {
		s.expectRoute(&router.Response{Group: "📋 模板已私信发送", Private: "模板内容"}, nil)
		gomock.InOrder(
			s.mockSender.EXPECT().SendDirect(gomock.Any(), "p1", "模板内容").Return(nil),
			s.mockSender.EXPECT().SendGroup(gomock.Any(), "room-1", "@Alice\n📋 模板已私信发送").Return(nil),
		)
		s.handler.Handle(s.ctx, s.msg)
	})

	s.Run("direct failure appends the fallback", func() {
		s.expectRoute(&router.Response{Group: "📋 模板已私信发送", Private: "模板内容"}, nil)
		s.mockSender.EXPECT().SendDirect(gomock.Any(), "p1", "模板内容").Return(errors.New("not friends"))
		s.mockSender.EXPECT().
			SendGroup(gomock.Any(), "room-1", "@Alice\n📋 模板已私信发送\n(私信发送失败，请先添加骰娘为好友)").
			Return(nil)
		s.handler.Handle(s.ctx, s.msg)
	})

	s.Run("direct failure without group text sends a notice", func() {
		s.expectRoute(&router.Response{Private: "🔒 [秘密检定结果]"}, nil)
		s.mockSender.EXPECT().SendDirect(gomock.Any(), "p1", "🔒 [秘密检定结果]").Return(errors.New("blocked"))
		s.mockSender.EXPECT().
			SendGroup(gomock.Any(), "room-1", "@Alice\n❌ 私信发送失败，请先添加骰娘为好友").
			Return(nil)
		s.handler.Handle(s.ctx, s.msg)
	})

	s.Run("private only success sends nothing to the group", func() {
		s.expectRoute(&router.Response{Private: "🔒 [秘密检定结果]"}, nil)
		s.mockSender.EXPECT().SendDirect(gomock.Any(), "p1", "🔒 [秘密检定结果]").Return(nil)
		s.handler.Handle(s.ctx, s.msg)
	})
}

func (s *HandlerTestSuite) TestInternalError() {
	s.expectRoute(nil, errors.New("redis down"))
	s.mockSender.EXPECT().SendGroup(gomock.Any(), "room-1", "@Alice\n❌ 出了点问题，请稍后再试").Return(nil)

	s.handler.Handle(s.ctx, s.msg)
}

func (s *HandlerTestSuite) TestNarration() {
	s.msg.Text = "我推开了书房的门"

	s.Run("non-command text goes to the AI keeper", func() {
		s.expectRoute(nil, command.ErrNotCommand)
		s.mockNarrator.EXPECT().
			Turn(gomock.Any(), &narrator.TurnInput{
				PlayerID:   "p1",
				RoomID:     "room-1",
				PlayerName: "Alice",
				Text:       "我推开了书房的门",
			}).
			Return(&narrator.TurnOutput{Messages: []string{"门轴发出刺耳的声响。", "", "🎲 侦查 (60)"}}, nil)
		gomock.InOrder(
			s.mockSender.EXPECT().SendGroup(gomock.Any(), "room-1", "门轴发出刺耳的声响。").Return(nil),
			s.mockSender.EXPECT().SendGroup(gomock.Any(), "room-1", "🎲 侦查 (60)").Return(nil),
		)
		s.handler.Handle(s.ctx, s.msg)
	})

	s.Run("inactive AI keeper stays silent", func() {
		s.expectRoute(nil, command.ErrNotCommand)
		s.mockNarrator.EXPECT().Turn(gomock.Any(), gomock.Any()).Return(nil, nil)
		s.handler.Handle(s.ctx, s.msg)
	})

	s.Run("narrator failure is reported generically", func() {
		s.expectRoute(nil, command.ErrNotCommand)
		s.mockNarrator.EXPECT().Turn(gomock.Any(), gomock.Any()).Return(nil, errors.New("store down"))
		s.mockSender.EXPECT().SendGroup(gomock.Any(), "room-1", "@Alice\n❌ 出了点问题，请稍后再试").Return(nil)
		s.handler.Handle(s.ctx, s.msg)
	})
}

func (s *HandlerTestSuite) TestKickoff() {
	s.msg.Text = ".kp ai start"
	s.expectRoute(&router.Response{Group: "🤖 AI守秘人已启动！", Kickoff: true}, nil)

	gomock.InOrder(
		s.mockSender.EXPECT().SendGroup(gomock.Any(), "room-1", "@Alice\n🤖 AI守秘人已启动！").Return(nil),
		s.mockNarrator.EXPECT().
			Kickoff(gomock.Any(), &narrator.KickoffInput{PlayerID: "p1", RoomID: "room-1", PlayerName: "Alice"}).
			Return(&narrator.TurnOutput{Messages: []string{"雨夜，阿卡姆。"}}, nil),
		s.mockSender.EXPECT().SendGroup(gomock.Any(), "room-1", "雨夜，阿卡姆。").Return(nil),
	)

	s.handler.Handle(s.ctx, s.msg)
}

func (s *HandlerTestSuite) TestSendFailureIsLogged() {
	s.expectRoute(&router.Response{Group: "🎲 d100 = 42"}, nil)
	s.mockSender.EXPECT().SendGroup(gomock.Any(), "room-1", "@Alice\n🎲 d100 = 42").Return(errors.New("rate limited"))

	s.NotPanics(func() { s.handler.Handle(s.ctx, s.msg) })
}

func (s *HandlerTestSuite) TestRoomSerialization() {
	var (
		mu      sync.Mutex
		active  int
		overlap bool
	)
	s.mockRouter.EXPECT().
		Handle(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *router.HandleInput) (*router.Response, error) {
			mu.Lock()
			active++
			if active > 1 {
				overlap = true
			}
			mu.Unlock()

			time.Sleep(5 * time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
			return nil, nil
		}).
		Times(5)

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handler.Handle(s.ctx, s.msg)
		}()
	}
	wg.Wait()

	s.False(overlap)
}
