package session

import "sync"

// RoomLocks serializes work per room. Each room gets its own mutex; rooms
// never block each other.
type RoomLocks struct {
	mu    sync.Mutex
	rooms map[string]*roomLock
}

type roomLock struct {
	mu      sync.Mutex
	waiters int
}

// NewRoomLocks creates an empty lock set
func NewRoomLocks() *RoomLocks {
	return &RoomLocks{rooms: make(map[string]*roomLock)}
}

// Lock blocks until the room is free and returns the matching unlock func.
// Entries are dropped once nobody holds or waits for them.
func (l *RoomLocks) Lock(roomID string) func() {
	l.mu.Lock()
	rl, ok := l.rooms[roomID]
	if !ok {
		rl = &roomLock{}
		l.rooms[roomID] = rl
	}
	rl.waiters++
	l.mu.Unlock()

	rl.mu.Lock()

	return func() {
		rl.mu.Unlock()

		l.mu.Lock()
		rl.waiters--
		if rl.waiters == 0 {
			delete(l.rooms, roomID)
		}
		l.mu.Unlock()
	}
}

// Len reports how many rooms currently have a holder or waiter
func (l *RoomLocks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.rooms)
}
