package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const stateLifetime = 10 * time.Minute

// StateStore tracks outstanding authorize state parameters so a callback
// can be tied back to a login this process started.
type StateStore struct {
	mu      sync.Mutex
	states  map[string]time.Time // state -> deadline
	nowTime func() time.Time
}

func NewStateStore() *StateStore {
	return &StateStore{
		states:  make(map[string]time.Time),
		nowTime: time.Now,
	}
}

// Issue registers and returns a fresh state token. Expired entries are
// pruned here rather than by a background sweep.
func (ss *StateStore) Issue() string {
	state := uuid.NewString()
	now := ss.nowTime()

	ss.mu.Lock()
	defer ss.mu.Unlock()
	for s, deadline := range ss.states {
		if now.After(deadline) {
			delete(ss.states, s)
		}
	}
	ss.states[state] = now.Add(stateLifetime)
	return state
}

// Consume validates a state exactly once. Unknown, expired and replayed
// states all fail.
func (ss *StateStore) Consume(state string) bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	deadline, ok := ss.states[state]
	if !ok {
		return false
	}
	delete(ss.states, state)
	return !ss.nowTime().After(deadline)
}
