// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

package handlers

import (
	"context"
	"strings"

	"github.com/emberveil/emberveil/internal/command"
)

// RoleHandler assigns or removes a named role on a connected account.
// Syntax: ROLE <account> <add|remove> <role>
func RoleHandler(_ context.Context, exec *command.Execution) error {
	const usage = "ROLE <account> <add|remove> <role>"

	fields := strings.Fields(exec.Args)
	if len(fields) != 3 {
		return command.ErrInvalidArgs("ROLE", usage)
	}
	target, action, roleName := fields[0], strings.ToLower(fields[1]), fields[2]

	role, ok := exec.Services.Roles.Get(roleName)
	if !ok {
		exec.Responder.Send(exec.Conn, command.ColorError, "No such role.")
		return nil
	}

	authz, ok := targetAuthorization(exec, target)
	if !ok {
		return nil
	}

	switch action {
	case "add":
		if err := authz.AddRole(role); err != nil {
			return err
		}
		authz.Recompose()
		exec.Responder.Send(exec.Conn, command.ColorInfo, "Added role "+role.Name()+" to "+target+".")
	case "remove":
		if err := authz.RemoveRole(role); err != nil {
			exec.Responder.Send(exec.Conn, command.ColorError, "That account does not have that role.")
			return nil
		}
		authz.Recompose()
		exec.Responder.Send(exec.Conn, command.ColorInfo, "Removed role "+role.Name()+" from "+target+".")
	default:
		return command.ErrInvalidArgs("ROLE", usage)
	}

	return nil
}
