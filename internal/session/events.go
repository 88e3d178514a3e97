// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

package session

import (
	"sync"

	"github.com/oklog/ulid/v2"
)

// EventType identifies the kind of session event.
type EventType string

const (
	EventClientLoggedIn  EventType = "client_logged_in"
	EventClientLoggedOut EventType = "client_logged_out"
	EventAccountCreated  EventType = "account_created"
)

// Event describes a session state change.
type Event struct {
	Type    EventType
	Conn    ulid.ULID // zero for AccountCreated
	Account string    // account name
}

// Handler receives session events.
type Handler func(Event)

// Notifier delivers session events to subscribers. Delivery is synchronous
// and in subscription order: by the time Publish returns, every handler has
// observed the event. Command dispatch relies on this ordering so that a
// connection's authorization login flag is updated before its next command.
type Notifier struct {
	mu       sync.RWMutex
	handlers []Handler
}

// NewNotifier creates an empty Notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe registers a handler for all session events.
// Handlers must not call Subscribe or Publish reentrantly.
func (n *Notifier) Subscribe(h Handler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handlers = append(n.handlers, h)
}

// Publish delivers an event to every subscribed handler.
func (n *Notifier) Publish(e Event) {
	n.mu.RLock()
	handlers := make([]Handler, len(n.handlers))
	copy(handlers, n.handlers)
	n.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}
