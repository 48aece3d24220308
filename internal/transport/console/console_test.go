package console_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/coc-keeper/internal/transport"
	"github.com/KirkDiggler/coc-keeper/internal/transport/console"
)

type ConsoleTestSuite struct {
	suite.Suite
	out bytes.Buffer
}

func TestConsoleTestSuite(t *testing.T) {
	suite.Run(t, new(ConsoleTestSuite))
}

func (s *ConsoleTestSuite) SetupTest() {
	s.out.Reset()
}

func (s *ConsoleTestSuite) newConsole(input string) *console.Console {
	c, err := console.New(&console.Config{
		In:      strings.NewReader(input),
		Out:     &s.out,
		BotName: "CoC骰娘",
	})
	s.Require().NoError(err)
	return c
}

func (s *ConsoleTestSuite) TestRun() {
	c := s.newConsole(".r 1d6\n\n  .coc  \nexit\n.never")

	var got []*transport.Message
	err := c.Run(context.Background(), transport.HandlerFunc(func(_ context.Context, msg *transport.Message) {
		got = append(got, msg)
	}))
	s.Require().NoError(err)

	s.Require().Len(got, 2)
	s.Equal(".r 1d6", got[0].Text)
	s.Equal(".coc", got[1].Text)
	s.Equal(console.DefaultRoomID, got[0].RoomID)
	s.Equal(console.DefaultPlayerID, got[0].PlayerID)
	s.Equal(console.DefaultPlayerName, got[0].PlayerName)
}

func (s *ConsoleTestSuite) TestCanceled() {
	c := s.newConsole(".r\n.r\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	s.NoError(c.Run(ctx, transport.HandlerFunc(func(context.Context, *transport.Message) { calls++ })))
	s.Zero(calls)
}

func (s *ConsoleTestSuite) TestSend() {
	c := s.newConsole("")
	ctx := context.Background()

	s.Require().NoError(c.SendGroup(ctx, "console", c.Mention("p", "调查员")+"\n🎲 d100 = 42"))
	s.Require().NoError(c.SendDirect(ctx, "p", "模板"))

	s.Equal("CoC骰娘 > @调查员\n🎲 d100 = 42\n\nCoC骰娘 > [私信] 模板\n\n", s.out.String())
}

func (s *ConsoleTestSuite) TestNew() {
	_, err := console.New(&console.Config{})
	s.Error(err)

	_, err = console.New(nil)
	s.Error(err)
}
