// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

package command

import (
	"github.com/samber/oops"
)

// Error codes for command registration and dispatch failures.
const (
	CodeUnknownCommand   = "UNKNOWN_COMMAND"
	CodeNotLoggedIn      = "NOT_LOGGED_IN"
	CodePermissionDenied = "PERMISSION_DENIED"
	CodeEmptyFirstArg    = "EMPTY_FIRST_ARG"
	CodeInvalidArgs      = "INVALID_ARGS"
	CodeDuplicateCommand = "DUPLICATE_COMMAND"
	CodeInvalidName      = "INVALID_NAME"
	CodeEmptyInput       = "EMPTY_INPUT"
)

// ErrUnknownCommand creates an error for an unknown command identifier.
func ErrUnknownCommand(cmd string) error {
	return oops.Code(CodeUnknownCommand).
		With("command", cmd).
		Errorf("unknown command: %s", cmd)
}

// ErrNotLoggedIn creates an error for a command requiring login.
func ErrNotLoggedIn(cmd string) error {
	return oops.Code(CodeNotLoggedIn).
		With("command", cmd).
		Errorf("command %s requires login", cmd)
}

// ErrPermissionDenied creates an error for a missing permission.
func ErrPermissionDenied(cmd, permission string) error {
	return oops.Code(CodePermissionDenied).
		With("command", cmd).
		With("permission", permission).
		Errorf("permission denied for command %s", cmd)
}

// ErrEmptyFirstArg creates an error for a parameterized permission with no
// first argument to parameterize on.
func ErrEmptyFirstArg(cmd string) error {
	return oops.Code(CodeEmptyFirstArg).
		With("command", cmd).
		Errorf("command %s requires a non-empty first parameter", cmd)
}

// ErrInvalidArgs creates an error for malformed arguments.
func ErrInvalidArgs(cmd, usage string) error {
	return oops.Code(CodeInvalidArgs).
		With("command", cmd).
		With("usage", usage).
		Errorf("invalid arguments")
}

// ErrDuplicateCommand creates an error for a second registration of an
// identifier. The first registration stays in effect.
func ErrDuplicateCommand(cmd string) error {
	return oops.Code(CodeDuplicateCommand).
		With("command", cmd).
		Errorf("command %s is already registered", cmd)
}

// PlayerMessage extracts a player-facing message from an error.
func PlayerMessage(err error) string {
	if err == nil {
		return "Something went wrong. Try again."
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return "Something went wrong. Try again."
	}

	switch oopsErr.Code() {
	case CodeUnknownCommand:
		return "That command does not exist."
	case CodeNotLoggedIn:
		return "You must be logged in to use that command."
	case CodePermissionDenied:
		return "You are missing the required permission."
	case CodeEmptyFirstArg:
		return "The first parameter must not be empty."
	case CodeInvalidArgs:
		if usage, ok := oopsErr.Context()["usage"].(string); ok && usage != "" {
			return "Usage: " + usage
		}
		return "Invalid arguments."
	default:
		return "Something went wrong. Try again."
	}
}
