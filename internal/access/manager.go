// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

package access

import (
	"log/slog"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/emberveil/emberveil/internal/session"
)

// Manager owns one Authorization per live connection. It subscribes to the
// session notifier so each record's login flag tracks the session table,
// and performs the atomic finalize-and-discard teardown on disconnect.
type Manager struct {
	mu    sync.RWMutex
	conns map[ulid.ULID]*Authorization
	table *session.Table
}

// NewManager creates a Manager and subscribes it to the notifier.
func NewManager(table *session.Table, notifier *session.Notifier) *Manager {
	m := &Manager{
		conns: make(map[ulid.ULID]*Authorization),
		table: table,
	}
	notifier.Subscribe(m.handle)
	return m
}

// Attach creates the Authorization record for a newly established
// connection. Attaching an already-attached connection returns the
// existing record.
func (m *Manager) Attach(conn ulid.ULID) *Authorization {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.conns[conn]; ok {
		return a
	}
	a := NewAuthorization(conn)
	m.conns[conn] = a
	return a
}

// Get returns the Authorization for a connection.
func (m *Manager) Get(conn ulid.ULID) (*Authorization, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.conns[conn]
	return a, ok
}

// Release finalizes a closed connection: logs it out of the session table
// if mapped, resets its Authorization, and detaches the record. No
// authorization state survives into a later reconnect.
func (m *Manager) Release(conn ulid.ULID) {
	if m.table.IsLoggedIn(conn) {
		if err := m.table.Logout(conn); err != nil {
			// A concurrent logout can beat us here; anything else is unexpected.
			if oopsErr, ok := oops.AsOops(err); !ok || oopsErr.Code() != session.CodeNotLoggedIn {
				slog.Warn("logout during connection release failed",
					"conn", conn.String(),
					"error", err)
			}
		}
	}

	m.mu.Lock()
	a, ok := m.conns[conn]
	delete(m.conns, conn)
	m.mu.Unlock()

	if ok {
		a.Reset()
	}
}

// Shutdown resets and detaches every record.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	conns := m.conns
	m.conns = make(map[ulid.ULID]*Authorization)
	m.mu.Unlock()

	for _, a := range conns {
		a.Reset()
	}
}

// handle tracks login state from session events.
func (m *Manager) handle(e session.Event) {
	switch e.Type {
	case session.EventClientLoggedIn:
		if a, ok := m.Get(e.Conn); ok {
			a.SetLoggedIn(true)
		}
	case session.EventClientLoggedOut:
		if a, ok := m.Get(e.Conn); ok {
			a.SetLoggedIn(false)
			a.Reset()
		}
	case session.EventAccountCreated:
		// No per-connection state to update.
	}
}
