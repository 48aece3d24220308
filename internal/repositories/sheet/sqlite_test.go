package sheet_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/coc-keeper/internal/entities"
	"github.com/KirkDiggler/coc-keeper/internal/errors"
	"github.com/KirkDiggler/coc-keeper/internal/repositories/sheet"
)

type SQLiteRepositoryTestSuite struct {
	suite.Suite
	path string
	repo *sheet.SQLiteRepository
	ctx  context.Context
}

func (s *SQLiteRepositoryTestSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "nested", "keeper.db")

	repo, err := sheet.NewSQLite(&sheet.SQLiteConfig{Path: s.path})
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *SQLiteRepositoryTestSuite) TearDownTest() {
	s.NoError(s.repo.Close())
}

func (s *SQLiteRepositoryTestSuite) TestConfig() {
	_, err := sheet.NewSQLite(&sheet.SQLiteConfig{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *SQLiteRepositoryTestSuite) TestPutGetList() {
	now := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)

	s.Run("missing sheet is not found", func() {
		_, err := s.repo.Get(s.ctx, sheet.GetInput{PlayerID: "p1", RoomID: "r1"})
		s.True(errors.IsNotFound(err))
	})

	s.Run("upserts and reads back", func() {
		cs := entities.NewCharacterSheet("p1", "r1", "Harvey", now)
		cs.Skills["图书馆使用"] = 65
		_, err := s.repo.Put(s.ctx, sheet.PutInput{Sheet: cs})
		s.Require().NoError(err)

		cs.Name = "Harvey Walters"
		cs.Luck = 45
		_, err = s.repo.Put(s.ctx, sheet.PutInput{Sheet: cs})
		s.Require().NoError(err)

		out, err := s.repo.Get(s.ctx, sheet.GetInput{PlayerID: "p1", RoomID: "r1"})
		s.Require().NoError(err)
		s.Equal("Harvey Walters", out.Sheet.Name)
		s.Equal(45, out.Sheet.Luck)
		s.Equal(65, out.Sheet.Skills["图书馆使用"])
	})

	s.Run("lists a room in player order", func() {
		for _, id := range []string{"p9", "p2"} {
			_, err := s.repo.Put(s.ctx, sheet.PutInput{Sheet: entities.NewCharacterSheet(id, "r1", id, now)})
			s.Require().NoError(err)
		}

		out, err := s.repo.ListByRoom(s.ctx, sheet.ListByRoomInput{RoomID: "r1"})
		s.Require().NoError(err)
		s.Require().Len(out.Sheets, 3)
		s.Equal([]string{"p1", "p2", "p9"}, []string{
			out.Sheets[0].PlayerID, out.Sheets[1].PlayerID, out.Sheets[2].PlayerID,
		})
	})
}

func (s *SQLiteRepositoryTestSuite) TestReopenKeepsData() {
	now := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	_, err := s.repo.Put(s.ctx, sheet.PutInput{Sheet: entities.NewCharacterSheet("p1", "r1", "Keep", now)})
	s.Require().NoError(err)
	s.Require().NoError(s.repo.Close())

	reopened, err := sheet.NewSQLite(&sheet.SQLiteConfig{Path: s.path})
	s.Require().NoError(err)
	s.repo = reopened

	out, err := s.repo.Get(s.ctx, sheet.GetInput{PlayerID: "p1", RoomID: "r1"})
	s.Require().NoError(err)
	s.Equal("Keep", out.Sheet.Name)
}

func TestSQLiteRepositorySuite(t *testing.T) {
	suite.Run(t, new(SQLiteRepositoryTestSuite))
}
