// Package history implements the bounded undo/redo stack of spec
// snapshots backing an editing session, plus a timed auto-save channel.
// Snapshots are immutable once pushed: every entry is a deep clone on the
// way in and every accessor returns a deep clone on the way out.
package history

import (
	"errors"
	"sync"

	"github.com/soovittt/RL-Studio-sub001/pkg/envspec"
)

// DefaultCapacity bounds the snapshot window.
const DefaultCapacity = 50

var (
	// ErrNothingToUndo is returned when the cursor is already at the
	// oldest retained snapshot.
	ErrNothingToUndo = errors.New("nothing to undo")
	// ErrNothingToRedo is returned when the cursor is at the newest
	// snapshot.
	ErrNothingToRedo = errors.New("nothing to redo")
	// ErrEmpty is returned by Current before the first push.
	ErrEmpty = errors.New("history is empty")
)

// Manager is a bounded snapshot arena with a cursor. All methods are safe
// for concurrent use; the auto-save goroutine reads the cursor snapshot
// through the same lock.
type Manager struct {
	mu       sync.Mutex
	snaps    []*envspec.EnvSpec
	cursor   int // index of the current snapshot; -1 when empty
	capacity int

	stopAutoSave chan struct{}
	autoSaveDone chan struct{}
}

// NewManager returns an empty manager with the default capacity.
func NewManager() *Manager {
	return NewManagerWithCapacity(DefaultCapacity)
}

// NewManagerWithCapacity returns an empty manager holding at most cap
// snapshots. Non-positive capacities fall back to the default.
func NewManagerWithCapacity(capacity int) *Manager {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Manager{cursor: -1, capacity: capacity}
}

// Push records a new snapshot. Any redo branch beyond the cursor is
// discarded. When the arena is full the oldest snapshot is evicted and
// the cursor stays put, keeping a stable window of recent edits.
func (m *Manager) Push(s *envspec.EnvSpec) {
	if s == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snaps = m.snaps[:m.cursor+1]
	m.snaps = append(m.snaps, s.Clone())

	if len(m.snaps) > m.capacity {
		m.snaps = m.snaps[1:]
		return // eviction compensates the append; cursor already points at the new tail
	}
	m.cursor++
}

// Undo moves the cursor one snapshot back and returns a clone of it.
func (m *Manager) Undo() (*envspec.EnvSpec, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cursor <= 0 {
		return nil, ErrNothingToUndo
	}
	m.cursor--
	return m.snaps[m.cursor].Clone(), nil
}

// Redo moves the cursor one snapshot forward and returns a clone of it.
func (m *Manager) Redo() (*envspec.EnvSpec, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cursor < 0 || m.cursor >= len(m.snaps)-1 {
		return nil, ErrNothingToRedo
	}
	m.cursor++
	return m.snaps[m.cursor].Clone(), nil
}

// Current returns a clone of the snapshot at the cursor.
func (m *Manager) Current() (*envspec.EnvSpec, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cursor < 0 {
		return nil, ErrEmpty
	}
	return m.snaps[m.cursor].Clone(), nil
}

// CanUndo reports whether Undo would succeed.
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor > 0
}

// CanRedo reports whether Redo would succeed.
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor >= 0 && m.cursor < len(m.snaps)-1
}

// Len returns the number of retained snapshots.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.snaps)
}

// Reset discards all snapshots and installs s as the sole entry, so the
// next auto-save tick persists the reset state. A nil spec empties the
// manager entirely.
func (m *Manager) Reset(s *envspec.EnvSpec) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s == nil {
		m.snaps = nil
		m.cursor = -1
		return
	}
	m.snaps = []*envspec.EnvSpec{s.Clone()}
	m.cursor = 0
}

// current is the lock-held snapshot read used by the auto-save loop.
func (m *Manager) current() *envspec.EnvSpec {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cursor < 0 {
		return nil
	}
	return m.snaps[m.cursor].Clone()
}
