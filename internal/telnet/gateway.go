// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

// Package telnet provides the telnet protocol adapter.
package telnet

import (
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/emberveil/emberveil/internal/command"
)

// Gateway tracks live connections so messages can be delivered and
// connections torn down by ID. It implements command.Responder.
type Gateway struct {
	mu    sync.RWMutex
	conns map[ulid.ULID]net.Conn
}

// NewGateway creates an empty connection gateway.
func NewGateway() *Gateway {
	return &Gateway{conns: make(map[ulid.ULID]net.Conn)}
}

var _ command.Responder = (*Gateway)(nil)

func (g *Gateway) register(id ulid.ULID, conn net.Conn) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.conns[id] = conn
}

func (g *Gateway) unregister(id ulid.ULID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.conns, id)
}

// Send writes one color-tagged line to a connection. Messages to unknown
// or closed connections are dropped; write failures surface on the
// connection's own read loop.
func (g *Gateway) Send(id ulid.ULID, color command.Color, text string) {
	g.mu.RLock()
	conn, ok := g.conns[id]
	g.mu.RUnlock()
	if !ok {
		return
	}

	line := fmt.Sprintf("\x1b[38;2;%d;%d;%dm%s\x1b[0m\r\n", color.R, color.G, color.B, text)
	if _, err := conn.Write([]byte(line)); err != nil {
		slog.Debug("failed to send message to client",
			"conn_id", id.String(),
			"error", err,
		)
	}
}

// Disconnect closes a connection by ID. The handler's read loop observes
// the close and runs its normal teardown.
func (g *Gateway) Disconnect(id ulid.ULID) {
	g.mu.RLock()
	conn, ok := g.conns[id]
	g.mu.RUnlock()
	if !ok {
		return
	}
	if err := conn.Close(); err != nil {
		slog.Debug("error closing connection",
			"conn_id", id.String(),
			"error", err,
		)
	}
}
