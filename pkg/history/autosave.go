package history

import (
	"time"

	"github.com/soovittt/RL-Studio-sub001/pkg/envspec"
)

// SaveFunc receives the current snapshot on each auto-save tick. The
// manager does not wait on or inspect anything the callback does; errors
// and persistence are the caller's concern.
type SaveFunc func(*envspec.EnvSpec)

// StartAutoSave begins invoking fn with the current snapshot every
// interval. Each tick observes the cursor position at that moment, so
// undos and resets between ticks are what gets saved. Starting while a
// loop is already running restarts it with the new interval and callback.
func (m *Manager) StartAutoSave(interval time.Duration, fn SaveFunc) {
	if interval <= 0 || fn == nil {
		return
	}
	m.StopAutoSave()

	m.mu.Lock()
	stop := make(chan struct{})
	done := make(chan struct{})
	m.stopAutoSave = stop
	m.autoSaveDone = done
	m.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if s := m.current(); s != nil {
					fn(s)
				}
			case <-stop:
				return
			}
		}
	}()
}

// StopAutoSave halts the auto-save loop and waits for it to exit. It is
// idempotent: stopping a manager that never started, or stopping twice,
// is a no-op.
func (m *Manager) StopAutoSave() {
	m.mu.Lock()
	stop, done := m.stopAutoSave, m.autoSaveDone
	m.stopAutoSave, m.autoSaveDone = nil, nil
	m.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}
