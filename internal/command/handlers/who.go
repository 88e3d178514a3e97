// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/emberveil/emberveil/internal/command"
)

// WhoHandler lists the accounts currently logged in.
func WhoHandler(_ context.Context, exec *command.Execution) error {
	accounts := exec.Services.Sessions.ActiveAccounts()

	if len(accounts) == 0 {
		exec.Responder.Send(exec.Conn, command.ColorInfo, "No one is connected.")
		return nil
	}

	var b strings.Builder
	b.WriteString("Connected accounts:\n")
	b.WriteString("-------------------\n")
	for _, name := range accounts {
		fmt.Fprintf(&b, "  %s\n", name)
	}
	b.WriteString("-------------------\n")
	if len(accounts) == 1 {
		b.WriteString("1 account connected.")
	} else {
		fmt.Fprintf(&b, "%d accounts connected.", len(accounts))
	}

	exec.Responder.Send(exec.Conn, command.ColorInfo, b.String())
	return nil
}
