// Package sessionstore keeps live review sessions between events.
package sessionstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/yungbote/projectreview-backend/internal/domain/review"
)

// Memory is a process-local store. Sessions are values and phases never write
// into shared slices, so returned copies are safe to hand out.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]review.Session
}

func NewMemory() *Memory {
	return &Memory{sessions: map[string]review.Session{}}
}

func (m *Memory) Create(_ context.Context, s review.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID]; ok {
		return review.ErrSessionExists
	}
	m.sessions[s.ID] = s
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (review.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return review.Session{}, review.ErrSessionNotFound
	}
	return s, nil
}

// Save replaces the stored copy when s.Version is exactly one past it.
func (m *Memory) Save(_ context.Context, s review.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.sessions[s.ID]
	if !ok {
		return review.ErrSessionNotFound
	}
	if s.Version != cur.Version+1 {
		return fmt.Errorf("%w: stored version %d, saving %d", review.ErrSessionConflict, cur.Version, s.Version)
	}
	m.sessions[s.ID] = s
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
