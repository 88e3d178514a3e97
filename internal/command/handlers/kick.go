// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

package handlers

import (
	"context"

	"github.com/emberveil/emberveil/internal/command"
)

// KickHandler disconnects another account's connection. The dispatcher
// has already checked the per-target permission before this runs.
func KickHandler(_ context.Context, exec *command.Execution) error {
	target := command.FirstArg(exec.Args)

	conn, ok := exec.Services.Sessions.Connection(target)
	if !ok {
		exec.Responder.Send(exec.Conn, command.ColorError, "That account is not connected.")
		return nil
	}

	exec.Responder.Send(conn, command.ColorError, "You have been kicked.")
	if exec.Services.Disconnect != nil {
		exec.Services.Disconnect(conn)
	}

	exec.Responder.Send(exec.Conn, command.ColorInfo, "Kicked "+target+".")
	return nil
}
