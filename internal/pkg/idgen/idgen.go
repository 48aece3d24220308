// Package idgen provides ID generation utilities
package idgen

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Generator generates unique identifiers
type Generator interface {
	Generate() string
}

// ULIDGenerator produces lexically sortable IDs with an optional prefix.
// Used for pending offers so keys sort by creation time.
type ULIDGenerator struct {
	prefix  string
	mu      sync.Mutex
	entropy io.Reader
}

// NewULID creates a ULID generator
func NewULID(prefix string) *ULIDGenerator {
	return &ULIDGenerator{
		prefix:  prefix,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Generate creates a new ULID
func (g *ULIDGenerator) Generate() string {
	g.mu.Lock()
	id := ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
	g.mu.Unlock()

	if g.prefix == "" {
		return id.String()
	}
	return g.prefix + "_" + id.String()
}

// UUIDGenerator generates random UUIDs
type UUIDGenerator struct{}

// NewUUID creates a UUID generator
func NewUUID() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate creates a new UUID
func (g *UUIDGenerator) Generate() string {
	return uuid.NewString()
}

// SequentialGenerator generates sequential IDs for testing
type SequentialGenerator struct {
	prefix  string
	counter uint64
}

// NewSequential creates a new sequential generator
func NewSequential(prefix string) *SequentialGenerator {
	return &SequentialGenerator{prefix: prefix}
}

// Generate creates a new sequential ID
func (g *SequentialGenerator) Generate() string {
	n := atomic.AddUint64(&g.counter, 1)
	if g.prefix != "" {
		return fmt.Sprintf("%s_%d", g.prefix, n)
	}
	return fmt.Sprintf("%d", n)
}
