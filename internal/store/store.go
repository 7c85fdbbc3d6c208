// Package store keeps per-session conversation state and the short reply
// cache. The session store hands out snapshots and rejects stale writes,
// so two racing turns for the same caller cannot interleave half-applied
// orders.
package store

import (
	"encoding/json"
	"errors"
	"sync"

	"caffi/internal/order"
)

// ErrStaleSession is returned when a write carries a version older than
// the stored one. The caller re-reads and replays the turn.
var ErrStaleSession = errors.New("store: session version is stale")

// Store is the session persistence surface. Get always succeeds, creating
// a fresh session for an unknown id.
type Store interface {
	Get(id string) (*order.Session, error)
	Put(id string, s *order.Session) error
	Delete(id string)
	Len() int
}

// Memory is the in-process Store. Snapshots are deep copies, mutations
// only land through Put.
type Memory struct {
	mu       sync.Mutex
	sessions map[string]*order.Session
}

func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]*order.Session)}
}

func (m *Memory) Get(id string) (*order.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		s = order.NewSession()
		m.sessions[id] = s
	}
	return clone(s)
}

// Put stores the session if its version still matches, then bumps the
// version. A mismatch means another turn won the race.
func (m *Memory) Put(id string, s *order.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.sessions[id]; ok && cur.Version != s.Version {
		return ErrStaleSession
	}
	cp, err := clone(s)
	if err != nil {
		return err
	}
	cp.Version++
	m.sessions[id] = cp
	return nil
}

func (m *Memory) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func clone(s *order.Session) (*order.Session, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var cp order.Session
	if err := json.Unmarshal(raw, &cp); err != nil {
		return nil, err
	}
	return &cp, nil
}
