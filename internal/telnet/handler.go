// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

package telnet

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/emberveil/emberveil/internal/access"
	"github.com/emberveil/emberveil/internal/command"
	"github.com/emberveil/emberveil/internal/logging"
)

// ConnectionHandler drives a single telnet connection: it attaches the
// connection to the access manager, feeds input lines through the
// dispatcher, and releases everything when the connection ends.
type ConnectionHandler struct {
	conn       net.Conn
	reader     *bufio.Reader
	gateway    *Gateway
	dispatcher *command.Dispatcher
	access     *access.Manager
	connID     ulid.ULID
}

// NewConnectionHandler creates a handler for one accepted connection.
func NewConnectionHandler(conn net.Conn, gateway *Gateway, dispatcher *command.Dispatcher, accessMgr *access.Manager) *ConnectionHandler {
	return &ConnectionHandler{
		conn:       conn,
		reader:     bufio.NewReader(conn),
		gateway:    gateway,
		dispatcher: dispatcher,
		access:     accessMgr,
		connID:     ulid.Make(),
	}
}

// ConnID returns the connection's identifier.
func (h *ConnectionHandler) ConnID() ulid.ULID {
	return h.connID
}

// Handle processes the connection until closed.
func (h *ConnectionHandler) Handle(ctx context.Context) {
	ctx = logging.WithConn(ctx, h.connID)

	h.gateway.register(h.connID, h.conn)
	h.access.Attach(h.connID)

	defer func() {
		h.access.Release(h.connID)
		h.gateway.unregister(h.connID)
		if err := h.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			slog.Debug("error closing connection",
				"conn_id", h.connID.String(),
				"error", err,
			)
		}
	}()

	h.gateway.Send(h.connID, command.ColorInfo, "Welcome to EmberVeil.")
	h.gateway.Send(h.connID, command.ColorInfo, "Use CONNECT <name> <password> or CREATE <name> <password>.")

	lineCh := make(chan string)
	errCh := make(chan error, 1)

	go func() {
		for {
			line, err := h.reader.ReadString('\n')
			if err != nil {
				errCh <- err
				return
			}
			select {
			case lineCh <- strings.TrimRight(line, "\r\n"):
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case err := <-errCh:
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				slog.Debug("connection read error",
					"conn_id", h.connID.String(),
					"error", err,
				)
			}
			return

		case line := <-lineCh:
			// Dispatch reports failures to the player itself; the error
			// return is for logs and already recorded there.
			if _, err := h.dispatcher.DispatchInput(ctx, h.connID, line); err != nil {
				slog.DebugContext(ctx, "command rejected", "error", err)
			}
		}
	}
}
