// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/emberveil/emberveil/internal/command"
)

// HelpHandler lists commands, or shows detail for one command.
func HelpHandler(_ context.Context, exec *command.Execution) error {
	topic := command.FirstArg(exec.Args)

	if topic != "" {
		spec, ok := exec.Services.Registry.Get(topic)
		if !ok {
			exec.Responder.Send(exec.Conn, command.ColorError, "No help for that command.")
			return nil
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%s - %s", strings.ToUpper(spec.Name), spec.Help)
		if spec.Usage != "" {
			fmt.Fprintf(&b, "\nUsage: %s", spec.Usage)
		}
		exec.Responder.Send(exec.Conn, command.ColorInfo, b.String())
		return nil
	}

	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, spec := range exec.Services.Registry.All() {
		fmt.Fprintf(&b, "  %-12s %s\n", strings.ToUpper(spec.Name), spec.Help)
	}
	b.WriteString("Type HELP <command> for details.")

	exec.Responder.Send(exec.Conn, command.ColorInfo, b.String())
	return nil
}
