package session_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/coc-keeper/internal/session"
)

type RoomLocksTestSuite struct {
	suite.Suite
	locks *session.RoomLocks
}

func (s *RoomLocksTestSuite) SetupTest() {
	s.locks = session.NewRoomLocks()
}

func (s *RoomLocksTestSuite) TestSameRoomIsSerialized() {
	var (
		mu      sync.Mutex
		order   []int
		running int
		maxSeen int
		wg      sync.WaitGroup
	)

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			unlock := s.locks.Lock("room")
			defer unlock()

			mu.Lock()
			running++
			if running > maxSeen {
				maxSeen = running
			}
			order = append(order, n)
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			running--
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	s.Equal(1, maxSeen)
	s.Len(order, 5)
	s.Equal(0, s.locks.Len())
}

func (s *RoomLocksTestSuite) TestDifferentRoomsDoNotBlock() {
	unlockA := s.locks.Lock("a")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := s.locks.Lock("b")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("room b waited on room a")
	}
	s.Equal(1, s.locks.Len())
}

func TestRoomLocksSuite(t *testing.T) {
	suite.Run(t, new(RoomLocksTestSuite))
}
