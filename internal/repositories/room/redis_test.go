package room_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/coc-keeper/internal/entities"
	"github.com/KirkDiggler/coc-keeper/internal/errors"
	"github.com/KirkDiggler/coc-keeper/internal/repositories/room"
	"github.com/KirkDiggler/coc-keeper/internal/testutils"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr   *miniredis.Miniredis
	repo room.Repository
	ctx  context.Context
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	client, mr := testutils.CreateTestRedisClient(s.T())
	s.mr = mr

	repo, err := room.NewRedis(&room.RedisConfig{Client: client})
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) TestGet() {
	s.Run("unknown room", func() {
		_, err := s.repo.Get(s.ctx, room.GetInput{RoomID: "nowhere"})
		s.True(errors.IsNotFound(err))
	})

	s.Run("empty id", func() {
		_, err := s.repo.Get(s.ctx, room.GetInput{})
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("corrupt record", func() {
		s.Require().NoError(s.mr.Set("room:bad", "{"))
		_, err := s.repo.Get(s.ctx, room.GetInput{RoomID: "bad"})
		s.True(errors.IsInternal(err))
	})
}

func (s *RedisRepositoryTestSuite) TestPut() {
	now := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)

	s.Run("round trips keeper and ai state", func() {
		rs := &entities.RoomSession{
			RoomID:    "g1",
			Keeper:    &entities.KeeperClaim{PlayerID: "kp", Name: "Keeper", ClaimedAt: now},
			CreatedAt: now,
			UpdatedAt: now,
		}
		rs.AI.Active = true
		rs.AI.Briefing = "阿卡姆的雨夜"
		rs.AppendTurns(20,
			entities.Turn{Role: entities.RoleUser, Content: "Harvey: 我推开门"},
			entities.Turn{Role: entities.RoleAssistant, Content: "门吱呀作响。"},
		)

		_, err := s.repo.Put(s.ctx, room.PutInput{Room: rs})
		s.Require().NoError(err)
		s.True(s.mr.Exists("room:g1"))

		out, err := s.repo.Get(s.ctx, room.GetInput{RoomID: "g1"})
		s.Require().NoError(err)
		s.True(out.Room.IsKeeper("kp"))
		s.True(out.Room.AI.Active)
		s.Equal("阿卡姆的雨夜", out.Room.AI.Briefing)
		s.Equal(rs.AI.History, out.Room.AI.History)
	})

	s.Run("rejects nil room", func() {
		_, err := s.repo.Put(s.ctx, room.PutInput{})
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("rejects empty id", func() {
		_, err := s.repo.Put(s.ctx, room.PutInput{Room: &entities.RoomSession{}})
		s.True(errors.IsInvalidArgument(err))
	})
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}
