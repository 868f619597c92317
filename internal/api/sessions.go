package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quizdesk/client/internal/session"
)

type sessionEntry struct {
	controller *session.Controller
	owner      string
	lastUsed   time.Time
}

// Sessions maps browser session ids to their controllers. Every controller
// shares the same backend.
type Sessions struct {
	backend session.Backend
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]*sessionEntry
}

func NewSessions(backend session.Backend) *Sessions {
	return &Sessions{
		backend: backend,
		now:     time.Now,
		entries: make(map[string]*sessionEntry),
	}
}

func (s *Sessions) Create(owner string) string {
	id := uuid.NewString()

	s.mu.Lock()
	s.entries[id] = &sessionEntry{
		controller: session.NewController(s.backend),
		owner:      owner,
		lastUsed:   s.now(),
	}
	s.mu.Unlock()

	log.Printf("[api] session %s created", id)
	return id
}

// Get returns the controller for id if it exists and belongs to owner.
func (s *Sessions) Get(id, owner string) (*session.Controller, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || e.owner != owner {
		return nil, false
	}
	e.lastUsed = s.now()
	return e.controller, true
}

func (s *Sessions) Delete(id, owner string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || e.owner != owner {
		return false
	}
	delete(s.entries, id)
	return true
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep drops sessions idle for longer than maxIdle and returns how many
// were removed.
func (s *Sessions) Sweep(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.entries {
		if e.lastUsed.Before(cutoff) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep periodically until ctx is done.
func (s *Sessions) StartSweeper(ctx context.Context, maxIdle time.Duration) {
	interval := maxIdle / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Println("[api] Session sweeper started")

	for {
		select {
		case <-ctx.Done():
			log.Println("[api] Session sweeper shutting down")
			return
		case <-ticker.C:
			if n := s.Sweep(maxIdle); n > 0 {
				log.Printf("[api] swept %d idle sessions", n)
			}
		}
	}
}
