package replica

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Medium is the durable home of a session's replica. Neither write removes
// an entry, so two client instances sharing a medium only ever add to each
// other's view.
//
// Store upserts entries keyed by target id; an existing entry keeps its
// place. Replace upserts entries and reorders the medium so they come first
// in the given order, followed by any entry only the medium knew, in its
// previous order.
type Medium interface {
	Load(ctx context.Context) ([]Entry, error)
	Store(ctx context.Context, entries []Entry) error
	Replace(ctx context.Context, entries []Entry) error
}

// MemoryMedium keeps entries for the life of the process.
type MemoryMedium struct {
	mu      sync.Mutex
	entries []Entry
	index   map[uuid.UUID]int
}

func NewMemoryMedium() *MemoryMedium {
	return &MemoryMedium{index: map[uuid.UUID]int{}}
}

func (m *MemoryMedium) Load(context.Context) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.clone())
	}
	return out, nil
}

func (m *MemoryMedium) Store(_ context.Context, entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		if i, ok := m.index[e.TargetID]; ok {
			m.entries[i] = e.clone()
			continue
		}
		m.index[e.TargetID] = len(m.entries)
		m.entries = append(m.entries, e.clone())
	}
	return nil
}

func (m *MemoryMedium) Replace(_ context.Context, entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make([]Entry, 0, len(entries)+len(m.entries))
	index := make(map[uuid.UUID]int, cap(next))
	for _, e := range entries {
		if i, ok := index[e.TargetID]; ok {
			next[i] = e.clone()
			continue
		}
		index[e.TargetID] = len(next)
		next = append(next, e.clone())
	}
	for _, e := range m.entries {
		if _, ok := index[e.TargetID]; ok {
			continue
		}
		index[e.TargetID] = len(next)
		next = append(next, e)
	}

	m.entries, m.index = next, index
	return nil
}
