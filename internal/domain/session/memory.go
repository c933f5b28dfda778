package session

import (
	"context"
	"sync"
	"time"

	"github.com/turtacn/MolViz/pkg/errors"
)

// DefaultTTL is the idle lifetime of a session.
const DefaultTTL = 24 * time.Hour

type memoryEntry struct {
	state   State
	expires time.Time
}

// MemoryStore keeps sessions in process memory with a sliding TTL.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a MemoryStore. A non-positive ttl selects DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{entries: make(map[string]memoryEntry), ttl: ttl, now: time.Now}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return &State{}, nil
	}
	now := m.now()
	if now.After(e.expires) {
		delete(m.entries, id)
		return &State{}, nil
	}
	e.expires = now.Add(m.ttl)
	m.entries[id] = e
	st := e.state
	return &st, nil
}

func (m *MemoryStore) Save(_ context.Context, id string, st *State) error {
	if id == "" {
		return errors.New(errors.CodeSessionStore, "session id is empty")
	}
	if st == nil {
		return errors.New(errors.CodeSessionStore, "session state is nil")
	}
	m.mu.Lock()
	m.entries[id] = memoryEntry{state: *st, expires: m.now().Add(m.ttl)}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}

// Len returns the number of live sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Sweep drops expired sessions and returns how many were removed.
func (m *MemoryStore) Sweep() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.entries {
		if now.After(e.expires) {
			delete(m.entries, id)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Sweep()
		}
	}
}

//Personal.AI order the ending
