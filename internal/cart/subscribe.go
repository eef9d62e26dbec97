package cart

import (
	"slices"

	"github.com/safar/armigera-store/internal/models"
)

// Subscribe registers fn to be called after every successful cart mutation
// with the resulting lines. Snapshots reach subscribers in the order the
// mutations were committed. When another goroutine is already delivering,
// the new snapshot is handed to it and the mutating call returns without
// waiting. The returned func unregisters fn and may be called more than once.
func (m *Manager) Subscribe(fn func([]models.CartItem)) (unsubscribe func()) {
	m.subMu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.subMu.Unlock()

	return func() {
		m.subMu.Lock()
		delete(m.subs, id)
		m.subMu.Unlock()
	}
}

// enqueue queues a committed snapshot and reports whether the caller became
// the deliverer. m.mu must be held.
func (m *Manager) enqueue(items []models.CartItem) bool {
	m.pending = append(m.pending, slices.Clone(items))
	if m.delivering {
		return false
	}
	m.delivering = true
	return true
}

// drain hands queued snapshots to subscribers until the queue is empty.
// Subscribers run without m.mu held, so they may read or mutate the cart.
func (m *Manager) drain() {
	for {
		m.mu.Lock()
		if len(m.pending) == 0 {
			m.delivering = false
			m.mu.Unlock()
			return
		}
		items := m.pending[0]
		m.pending = m.pending[1:]
		m.mu.Unlock()

		m.notify(items)
	}
}

func (m *Manager) notify(items []models.CartItem) {
	m.subMu.Lock()
	ids := make([]int, 0, len(m.subs))
	for id := range m.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func([]models.CartItem), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, m.subs[id])
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn(slices.Clone(items))
	}
}
