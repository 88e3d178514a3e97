// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

package command

import (
	"regexp"
	"strings"

	"github.com/samber/oops"
)

const (
	// MaxNameLength is the maximum length for command names.
	MaxNameLength = 20
)

// namePattern validates command names: must start with a letter,
// followed by letters, digits, or underscores.
var namePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]{0,19}$`)

// ValidateCommandName validates a command name.
func ValidateCommandName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return oops.Code(CodeInvalidName).
			Errorf("command name cannot be empty")
	}

	if len(trimmed) > MaxNameLength {
		return oops.Code(CodeInvalidName).
			With("length", len(trimmed)).
			With("max", MaxNameLength).
			Errorf("command name exceeds maximum length of %d", MaxNameLength)
	}

	if !namePattern.MatchString(trimmed) {
		return oops.Code(CodeInvalidName).
			With("name", trimmed).
			Errorf("command name must start with a letter and contain only letters, digits, or underscores")
	}

	return nil
}
