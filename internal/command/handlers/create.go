// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

package handlers

import (
	"context"
	"errors"

	"github.com/samber/oops"

	"github.com/emberveil/emberveil/internal/auth"
	"github.com/emberveil/emberveil/internal/command"
)

// CreateHandler registers a new account and logs the connection into it.
func CreateHandler(ctx context.Context, exec *command.Execution) error {
	name, password, ok := splitTwo(exec.Args)
	if !ok {
		return command.ErrInvalidArgs("CREATE", "CREATE <name> <password>")
	}

	account, err := exec.Services.Directory.Create(ctx, name, password)
	if err != nil {
		if errors.Is(err, auth.ErrAccountExists) {
			exec.Responder.Send(exec.Conn, command.ColorError, "That name is taken.")
			return nil
		}
		if oopsErr, ok := oops.AsOops(err); ok {
			switch oopsErr.Code() {
			case auth.CodeWeakPassword:
				exec.Responder.Send(exec.Conn, command.ColorError,
					"Passwords need at least 5 letters and digits, with at least one of each.")
				return nil
			case auth.CodeInvalidName:
				exec.Responder.Send(exec.Conn, command.ColorError,
					"Names must start with a letter and use only letters, digits, and underscores.")
				return nil
			}
		}
		return err
	}

	if err := exec.Services.Sessions.ForceLogin(ctx, account.Name, exec.Conn); err != nil {
		return err
	}

	exec.Responder.Send(exec.Conn, command.ColorInfo, "Welcome, "+account.Name+".")
	return nil
}
