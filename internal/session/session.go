// Package session wires an editing session together: the current spec,
// its undo/redo history, and the auto-save channel feeding the caller's
// persistence callback. The session never touches storage itself.
package session

import (
	"fmt"
	"sync"

	"github.com/soovittt/RL-Studio-sub001/pkg/envspec"
	"github.com/soovittt/RL-Studio-sub001/pkg/history"
)

// PersistFunc receives a snapshot to persist. The session does not wait
// on it or observe its outcome.
type PersistFunc func(*envspec.EnvSpec)

// Session is one editing session over a single environment.
type Session struct {
	mu      sync.Mutex
	current *envspec.EnvSpec
	hist    *history.Manager
	persist PersistFunc
	closed  bool
}

// New starts a session on the given spec. The spec must validate; the
// initial state becomes the first history snapshot. If persist is non-nil
// and the interval positive, auto-save starts immediately.
func New(initial *envspec.EnvSpec, cfg Config, persist PersistFunc) (*Session, error) {
	if report := envspec.Validate(initial); !report.Valid {
		return nil, fmt.Errorf("initial spec does not validate: %w", report.Err())
	}

	s := &Session{
		current: initial.Clone(),
		hist:    history.NewManagerWithCapacity(cfg.HistoryCapacity),
		persist: persist,
	}
	s.hist.Push(initial)

	if persist != nil && cfg.AutoSaveInterval > 0 {
		s.hist.StartAutoSave(cfg.AutoSaveInterval, history.SaveFunc(persist))
	}
	return s, nil
}

// Current returns a clone of the spec being edited.
func (s *Session) Current() *envspec.EnvSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Apply validates the edited spec and makes it the new current state.
// An invalid spec is rejected and the prior state retained.
func (s *Session) Apply(next *envspec.EnvSpec) error {
	if report := envspec.Validate(next); !report.Valid {
		return fmt.Errorf("edit rejected: %w", report.Err())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("session is closed")
	}
	s.current = next.Clone()
	s.hist.Push(next)
	return nil
}

// ApplyRaw parses a hand-edited raw document and applies it. Malformed
// or schema-invalid input is rejected with no partial mutation; the prior
// spec stays current.
func (s *Session) ApplyRaw(data []byte) error {
	next, err := envspec.ParseJSON(data)
	if err != nil {
		return fmt.Errorf("edit rejected: %w", err)
	}
	return s.Apply(next)
}

// Undo steps the session back one snapshot.
func (s *Session) Undo() (*envspec.EnvSpec, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.hist.Undo()
	if err != nil {
		return nil, err
	}
	s.current = prev
	return prev.Clone(), nil
}

// Redo steps the session forward one snapshot.
func (s *Session) Redo() (*envspec.EnvSpec, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.hist.Redo()
	if err != nil {
		return nil, err
	}
	s.current = next
	return next.Clone(), nil
}

// CanUndo reports whether Undo would succeed.
func (s *Session) CanUndo() bool { return s.hist.CanUndo() }

// CanRedo reports whether Redo would succeed.
func (s *Session) CanRedo() bool { return s.hist.CanRedo() }

// Close stops auto-save and flushes the current state through the
// persistence callback. Closing twice is a no-op.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	current, persist := s.current, s.persist
	s.mu.Unlock()

	s.hist.StopAutoSave()
	if persist != nil && current != nil {
		persist(current.Clone())
	}
}
