// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

package handlers

import (
	"context"

	"github.com/emberveil/emberveil/internal/access"
	"github.com/emberveil/emberveil/internal/command"
)

// targetAuthorization resolves an account name to its live connection's
// authorization record. Sends the failure message itself and returns
// ok=false when the target is not connected.
func targetAuthorization(exec *command.Execution, name string) (*access.Authorization, bool) {
	conn, ok := exec.Services.Sessions.Connection(name)
	if !ok {
		exec.Responder.Send(exec.Conn, command.ColorError, "That account is not connected.")
		return nil, false
	}
	authz, ok := exec.Services.Access.Get(conn)
	if !ok {
		exec.Responder.Send(exec.Conn, command.ColorError, "That connection has no authorization record.")
		return nil, false
	}
	return authz, true
}

// GrantHandler adds an explicit permission to a connected account.
func GrantHandler(_ context.Context, exec *command.Execution) error {
	target, permission, ok := splitTwo(exec.Args)
	if !ok {
		return command.ErrInvalidArgs("GRANT", "GRANT <account> <permission>")
	}

	authz, ok := targetAuthorization(exec, target)
	if !ok {
		return nil
	}

	if err := authz.AddExplicitPermission(permission); err != nil {
		return err
	}
	authz.Recompose()

	exec.Responder.Send(exec.Conn, command.ColorInfo, "Granted "+permission+" to "+target+".")
	return nil
}

// RevokeHandler removes one explicit permission grant from a connected
// account. Other grants of the same name, and role-derived permissions,
// are unaffected.
func RevokeHandler(_ context.Context, exec *command.Execution) error {
	target, permission, ok := splitTwo(exec.Args)
	if !ok {
		return command.ErrInvalidArgs("REVOKE", "REVOKE <account> <permission>")
	}

	authz, ok := targetAuthorization(exec, target)
	if !ok {
		return nil
	}

	if err := authz.RemoveExplicitPermission(permission); err != nil {
		exec.Responder.Send(exec.Conn, command.ColorError, "No such explicit grant.")
		return nil
	}
	authz.Recompose()

	exec.Responder.Send(exec.Conn, command.ColorInfo, "Revoked "+permission+" from "+target+".")
	return nil
}
