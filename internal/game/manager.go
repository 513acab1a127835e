package game

import "sync"

type table struct {
	session *Session
	busy    bool
	// view is refreshed whenever the session is set or released, so it can
	// be read while an action is running.
	view View
}

// Manager keeps the active sessions, one per key (a chat, a browser game).
// Acquire hands out a session to a single caller at a time so two actions
// never draw on the same session concurrently.
type Manager[K comparable] struct {
	tables map[K]*table
	mu     sync.Mutex
}

func NewManager[K comparable]() *Manager[K] {
	return &Manager[K]{
		tables: make(map[K]*table),
	}
}

func (m *Manager[K]) Get(key K) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tables[key]; ok {
		return t.session
	}
	return nil
}

// Set replaces the session under key. A replaced session that is still
// acquired finishes against the old table and its release is a no-op.
func (m *Manager[K]) Set(key K, session *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[key] = &table{session: session, view: session.View()}
}

// SetIfAbsent stores session unless key already has one. It reports whether
// the session was stored.
func (m *Manager[K]) SetIfAbsent(key K, session *Session) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[key]; ok {
		return false
	}
	m.tables[key] = &table{session: session, view: session.View()}
	return true
}

func (m *Manager[K]) Delete(key K) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tables, key)
}

// View returns the session's state as of its last release. It never waits
// for or fails on a running action.
func (m *Manager[K]) View(key K) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tables[key]
	if !ok {
		return View{}, ErrNoSession
	}
	return t.view, nil
}

func (m *Manager[K]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tables)
}

// Acquire marks the session under key busy until release is called.
func (m *Manager[K]) Acquire(key K) (*Session, func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[key]
	if !ok {
		return nil, nil, ErrNoSession
	}
	if t.busy {
		return nil, nil, ErrBusy
	}
	t.busy = true

	var once sync.Once
	release := func() {
		once.Do(func() {
			view := t.session.View()
			m.mu.Lock()
			defer m.mu.Unlock()
			t.view = view
			t.busy = false
		})
	}
	return t.session, release, nil
}
