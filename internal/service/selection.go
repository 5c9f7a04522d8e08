// Package service provides the workbench business logic.
package service

import (
	"sync"
)

// SelectionListener receives the full post-mutation selection after every
// mutating call.
type SelectionListener func(ids []string)

// SelectionManager tracks which conversation IDs are currently marked for
// a batch operation. State is session-local and never persisted. Listeners
// are invoked synchronously, in registration order, on every mutating call
// even when the set content did not change.
type SelectionManager struct {
	mu        sync.Mutex
	order     []string
	selected  map[string]struct{}
	listeners []SelectionListener
}

// NewSelectionManager creates an empty selection.
func NewSelectionManager() *SelectionManager {
	return &SelectionManager{
		selected: make(map[string]struct{}),
	}
}

// OnDidChangeSelection registers a listener for selection changes.
func (m *SelectionManager) OnDidChangeSelection(fn SelectionListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Select adds id to the selection. Re-selecting an already selected id
// leaves the set unchanged but still notifies listeners.
func (m *SelectionManager) Select(id string) {
	m.mu.Lock()
	m.add(id)
	m.mu.Unlock()
	m.notify()
}

// Deselect removes id from the selection if present.
func (m *SelectionManager) Deselect(id string) {
	m.mu.Lock()
	if _, ok := m.selected[id]; ok {
		delete(m.selected, id)
		for i, v := range m.order {
			if v == id {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
	}
	m.mu.Unlock()
	m.notify()
}

// Toggle selects id if absent, deselects it if present.
func (m *SelectionManager) Toggle(id string) {
	m.mu.Lock()
	_, ok := m.selected[id]
	m.mu.Unlock()
	if ok {
		m.Deselect(id)
	} else {
		m.Select(id)
	}
}

// SelectRange adds every id in ids, collapsing duplicates, and notifies
// listeners once.
func (m *SelectionManager) SelectRange(ids []string) {
	m.mu.Lock()
	for _, id := range ids {
		m.add(id)
	}
	m.mu.Unlock()
	m.notify()
}

// SelectAll replaces the selection with ids.
func (m *SelectionManager) SelectAll(ids []string) {
	m.mu.Lock()
	m.order = nil
	m.selected = make(map[string]struct{})
	for _, id := range ids {
		m.add(id)
	}
	m.mu.Unlock()
	m.notify()
}

// Clear empties the selection.
func (m *SelectionManager) Clear() {
	m.mu.Lock()
	m.order = nil
	m.selected = make(map[string]struct{})
	m.mu.Unlock()
	m.notify()
}

// Selected returns the current selection in insertion order.
func (m *SelectionManager) Selected() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

// IsSelected reports whether id is currently selected.
func (m *SelectionManager) IsSelected(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.selected[id]
	return ok
}

// HasSelection reports whether anything is selected.
func (m *SelectionManager) HasSelection() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.selected) > 0
}

// Count returns the number of selected conversations.
func (m *SelectionManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.selected)
}

// add requires m.mu held.
func (m *SelectionManager) add(id string) {
	if _, ok := m.selected[id]; ok {
		return
	}
	m.selected[id] = struct{}{}
	m.order = append(m.order, id)
}

// snapshot requires m.mu held.
func (m *SelectionManager) snapshot() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

func (m *SelectionManager) notify() {
	m.mu.Lock()
	ids := m.snapshot()
	listeners := make([]SelectionListener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(ids)
	}
}
