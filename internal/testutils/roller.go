package testutils

import (
	"fmt"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/dice"
)

// ScriptedRoller is a dice.Roller that returns queued faces in order. It
// fails loudly when the script runs dry or a face does not fit the die.
type ScriptedRoller struct {
	mu    sync.Mutex
	faces []int
	calls int
}

var _ dice.Roller = (*ScriptedRoller)(nil)

// NewScriptedRoller queues faces
func NewScriptedRoller(faces ...int) *ScriptedRoller {
	return &ScriptedRoller{faces: faces}
}

// Push appends more faces to the script
func (r *ScriptedRoller) Push(faces ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.faces = append(r.faces, faces...)
}

// Remaining reports how many faces have not been consumed
func (r *ScriptedRoller) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.faces)
}

// Roll pops the next face
func (r *ScriptedRoller) Roll(size int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.faces) == 0 {
		return 0, fmt.Errorf("scripted roller exhausted after %d rolls", r.calls)
	}
	face := r.faces[0]
	if face < 1 || face > size {
		return 0, fmt.Errorf("scripted face %d does not fit d%d", face, size)
	}
	r.faces = r.faces[1:]
	r.calls++
	return face, nil
}

// RollN pops count faces
func (r *ScriptedRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, 0, count)
	for i := 0; i < count; i++ {
		face, err := r.Roll(size)
		if err != nil {
			return nil, err
		}
		out = append(out, face)
	}
	return out, nil
}

// PercentileFaces returns the d10 faces (units first, then tens) that make an
// unmodified percentile roll come out as value.
func PercentileFaces(value int) []int {
	if value == 100 {
		return []int{1, 1}
	}
	return []int{value%10 + 1, value/10 + 1}
}
