// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

package handlers

import (
	"context"

	"github.com/emberveil/emberveil/internal/command"
)

// QuitHandler says goodbye and tears down the connection.
func QuitHandler(_ context.Context, exec *command.Execution) error {
	exec.Responder.Send(exec.Conn, command.ColorInfo, "Goodbye!")

	if exec.Services.Disconnect != nil {
		exec.Services.Disconnect(exec.Conn)
	}
	return nil
}
