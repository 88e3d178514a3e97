// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

// Package session maps live connections to logged-in accounts.
package session

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/emberveil/emberveil/internal/auth"
)

// Table is the bidirectional connection↔account mapping. Both directions
// are injective: a connection holds at most one session and an account is
// mapped to at most one connection. Login and logout publish events on the
// Notifier after the mapping has been updated.
type Table struct {
	mu        sync.Mutex
	byConn    map[ulid.ULID]string    // conn → account name as registered
	byAccount map[string]ulid.ULID    // lowercased account name → conn
	directory *auth.Directory
	notifier  *Notifier
}

// NewTable creates an empty session table over the given account directory.
func NewTable(directory *auth.Directory, notifier *Notifier) *Table {
	return &Table{
		byConn:    make(map[ulid.ULID]string),
		byAccount: make(map[string]ulid.ULID),
		directory: directory,
		notifier:  notifier,
	}
}

// TryLogin validates credentials and, if they match, logs the connection in.
// Returns false with a nil error when the credentials are invalid; login
// invariant violations (already logged in, account in use) are errors.
func (t *Table) TryLogin(ctx context.Context, name, password string, conn ulid.ULID) (bool, error) {
	ok, err := t.directory.Validate(ctx, name, password)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := t.login(name, conn); err != nil {
		return false, err
	}
	return true, nil
}

// ForceLogin logs the connection in without a password check. Fails with
// CodeUnknownAccount if no account with the name exists; invariant
// enforcement is identical to a normal login.
func (t *Table) ForceLogin(ctx context.Context, name string, conn ulid.ULID) error {
	exists, err := t.directory.Exists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUnknownAccount(name)
	}
	return t.login(name, conn)
}

// login inserts the bidirectional mapping and publishes ClientLoggedIn.
func (t *Table) login(name string, conn ulid.ULID) error {
	canonical := strings.ToLower(name)

	t.mu.Lock()
	if _, ok := t.byConn[conn]; ok {
		t.mu.Unlock()
		return ErrAlreadyLoggedIn(conn.String())
	}
	if _, ok := t.byAccount[canonical]; ok {
		t.mu.Unlock()
		return ErrAccountInUse(name)
	}
	t.byConn[conn] = name
	t.byAccount[canonical] = conn
	t.mu.Unlock()

	// Published outside the lock so handlers may query the table.
	t.notifier.Publish(Event{Type: EventClientLoggedIn, Conn: conn, Account: name})
	return nil
}

// Logout removes the connection's session. Fails with CodeNotLoggedIn if
// the connection has no session.
func (t *Table) Logout(conn ulid.ULID) error {
	t.mu.Lock()
	name, ok := t.byConn[conn]
	if !ok {
		t.mu.Unlock()
		return ErrNotLoggedIn(conn.String())
	}
	delete(t.byConn, conn)
	delete(t.byAccount, strings.ToLower(name))
	t.mu.Unlock()

	t.notifier.Publish(Event{Type: EventClientLoggedOut, Conn: conn, Account: name})
	return nil
}

// IsLoggedIn reports whether the connection has a session.
func (t *Table) IsLoggedIn(conn ulid.ULID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.byConn[conn]
	return ok
}

// Account returns the account name logged in on the connection.
func (t *Table) Account(conn ulid.ULID) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	name, ok := t.byConn[conn]
	return name, ok
}

// Connection returns the connection an account is logged in on
// (case-insensitive on name).
func (t *Table) Connection(name string) (ulid.ULID, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	conn, ok := t.byAccount[strings.ToLower(name)]
	return conn, ok
}

// ActiveAccounts returns the names of all logged-in accounts, sorted.
func (t *Table) ActiveAccounts() []string {
	t.mu.Lock()
	names := make([]string, 0, len(t.byConn))
	for _, name := range t.byConn {
		names = append(names, name)
	}
	t.mu.Unlock()

	sort.Strings(names)
	return names
}
