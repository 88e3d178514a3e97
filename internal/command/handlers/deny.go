// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

package handlers

import (
	"context"

	"github.com/emberveil/emberveil/internal/command"
)

// DenyHandler adds a permission to a connected account's exclusion set.
// Exclusions override grants from any source until lifted.
func DenyHandler(_ context.Context, exec *command.Execution) error {
	target, permission, ok := splitTwo(exec.Args)
	if !ok {
		return command.ErrInvalidArgs("DENY", "DENY <account> <permission>")
	}

	authz, ok := targetAuthorization(exec, target)
	if !ok {
		return nil
	}

	if err := authz.AddExcludedPermission(permission); err != nil {
		return err
	}
	authz.Recompose()

	exec.Responder.Send(exec.Conn, command.ColorInfo, "Denied "+permission+" for "+target+".")
	return nil
}

// UndenyHandler lifts a previously added exclusion.
func UndenyHandler(_ context.Context, exec *command.Execution) error {
	target, permission, ok := splitTwo(exec.Args)
	if !ok {
		return command.ErrInvalidArgs("UNDENY", "UNDENY <account> <permission>")
	}

	authz, ok := targetAuthorization(exec, target)
	if !ok {
		return nil
	}

	if err := authz.RemoveExcludedPermission(permission); err != nil {
		exec.Responder.Send(exec.Conn, command.ColorError, "No such exclusion.")
		return nil
	}
	authz.Recompose()

	exec.Responder.Send(exec.Conn, command.ColorInfo, "Lifted denial of "+permission+" for "+target+".")
	return nil
}
