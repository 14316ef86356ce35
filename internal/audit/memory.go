package audit

import (
	"context"
	"sync"
)

// Memory keeps entries in process. Used by tests and by callers that want
// to inspect what was recorded.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Record(_ context.Context, event, actor, details string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, newEntry(event, actor, details))
}

// Entries returns a copy of everything recorded so far.
func (m *Memory) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Events returns just the event kinds, in order.
func (m *Memory) Events() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Event
	}
	return out
}

// Count returns how many entries of the given kind were recorded.
func (m *Memory) Count(event string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.entries {
		if e.Event == event {
			n++
		}
	}
	return n
}

func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
}
