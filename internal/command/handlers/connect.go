// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

// Package handlers implements the built-in commands.
package handlers

import (
	"context"
	"strings"

	"github.com/samber/oops"

	"github.com/emberveil/emberveil/internal/command"
	"github.com/emberveil/emberveil/internal/session"
)

// splitTwo splits argument text into exactly two whitespace-delimited
// fields. ok is false when either is missing.
func splitTwo(args string) (first, second string, ok bool) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return "", "", false
	}
	return fields[0], fields[1], true
}

// ConnectHandler logs a connection into an existing account.
func ConnectHandler(ctx context.Context, exec *command.Execution) error {
	name, password, ok := splitTwo(exec.Args)
	if !ok {
		return command.ErrInvalidArgs("CONNECT", "CONNECT <name> <password>")
	}

	valid, err := exec.Services.Sessions.TryLogin(ctx, name, password, exec.Conn)
	if err != nil {
		if oopsErr, ok := oops.AsOops(err); ok {
			switch oopsErr.Code() {
			case session.CodeAlreadyLoggedIn:
				exec.Responder.Send(exec.Conn, command.ColorError, "You are already logged in.")
				return nil
			case session.CodeAccountInUse:
				exec.Responder.Send(exec.Conn, command.ColorError, "That account is already connected.")
				return nil
			}
		}
		return err
	}
	if !valid {
		exec.Responder.Send(exec.Conn, command.ColorError, "Invalid name or password.")
		return nil
	}

	exec.Responder.Send(exec.Conn, command.ColorInfo, "Welcome back, "+name+".")
	return nil
}
