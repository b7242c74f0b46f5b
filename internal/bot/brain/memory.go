package brain

import (
	"tilemerge/internal/domain"
)

// DefaultMemoryLimit bounds the entries a single decision may cache.
const DefaultMemoryLimit = 1 << 18

type memoKey struct {
	board domain.Board
	depth int
}

// Memory caches decision-node values for one root branch of a decision.
// Values are keyed by remaining depth, so they stay valid across deepening
// passes. It is not safe for concurrent use.
type Memory struct {
	entries map[memoKey]float64
	limit   int
	hits    int
	misses  int
}

// NewMemory initializes an empty memo holding at most limit entries.
// A non-positive limit selects DefaultMemoryLimit.
func NewMemory(limit int) *Memory {
	if limit <= 0 {
		limit = DefaultMemoryLimit
	}
	return &Memory{
		entries: make(map[memoKey]float64),
		limit:   limit,
	}
}

// Lookup returns the cached value of board searched to depth.
func (m *Memory) Lookup(board domain.Board, depth int) (float64, bool) {
	v, ok := m.entries[memoKey{board: board, depth: depth}]
	if ok {
		m.hits++
	} else {
		m.misses++
	}
	return v, ok
}

// Store records a value. Once the limit is reached new entries are dropped.
func (m *Memory) Store(board domain.Board, depth int, value float64) {
	if len(m.entries) >= m.limit {
		return
	}
	m.entries[memoKey{board: board, depth: depth}] = value
}

// Hits reports how many lookups were answered from the memo.
func (m *Memory) Hits() int { return m.hits }

// Misses reports how many lookups found nothing.
func (m *Memory) Misses() int { return m.misses }
