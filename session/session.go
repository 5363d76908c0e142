// Package session keeps the wizard of every interactive session in memory.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/sihwankim2023/kd-boiler-checker/wizard"
)

// ID identifies a session.
type ID string

// ErrNotFound is returned for an unknown or expired session.
var ErrNotFound = errors.New("session not found")

type entry struct {
	mu      sync.Mutex
	wizard  *wizard.Wizard
	touched time.Time
}

// Store owns the wizards of all sessions. Interactions on one session run one at a time,
// interactions on different sessions run concurrently.
type Store struct {
	mu       sync.Mutex
	sessions map[ID]*entry

	newWizard func() *wizard.Wizard
	ttl       time.Duration
	now       func() time.Time
	log       *zap.Logger
}

// NewStore returns an empty store. Sessions idle for longer than ttl are removed by Sweep.
func NewStore(newWizard func() *wizard.Wizard, ttl time.Duration, log *zap.Logger) *Store {
	return &Store{
		sessions:  map[ID]*entry{},
		newWizard: newWizard,
		ttl:       ttl,
		now:       time.Now,
		log:       log,
	}
}

// Create starts a session with a fresh wizard.
func (s *Store) Create() ID {
	id := ID(uuid.NewString())
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &entry{wizard: s.newWizard(), touched: s.now()}
	s.log.Debug("session created", zap.String("session", string(id)))
	return id
}

// Exists reports whether the session is known.
func (s *Store) Exists(id ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	return ok
}

// With runs fn on the wizard of a session. Calls for the same session are serialised.
func (s *Store) With(id ID, fn func(w *wizard.Wizard) error) error {
	s.mu.Lock()
	e, ok := s.sessions[id]
	if ok {
		e.touched = s.now()
	}
	s.mu.Unlock()
	if !ok {
		return errors.Wrapf(ErrNotFound, "session %s", id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.wizard)
}

// Delete ends a session.
func (s *Store) Delete(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes the sessions idle for longer than the ttl and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	deadline := s.now().Add(-s.ttl)
	removed := 0
	for id, e := range s.sessions {
		if e.touched.Before(deadline) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.log.Debug("expired sessions removed", zap.Int("removed", removed), zap.Int("remaining", len(s.sessions)))
	}
	return removed
}

// Run sweeps the store every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
