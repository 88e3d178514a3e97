// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

package command

import (
	"strings"

	"github.com/samber/oops"
)

// ParsedCommand represents a parsed command input.
type ParsedCommand struct {
	Name string // command identifier (first whitespace-delimited token)
	Args string // unparsed argument text (preserves internal whitespace)
	Raw  string // original input
}

// Parse splits raw input into command identifier and argument text.
// The identifier is the first whitespace-delimited token; argument text
// keeps its internal whitespace.
func Parse(input string) (*ParsedCommand, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, oops.Code(CodeEmptyInput).Errorf("no command provided")
	}

	idx := strings.IndexAny(trimmed, " \t")
	if idx == -1 {
		return &ParsedCommand{Name: trimmed, Args: "", Raw: input}, nil
	}

	name := trimmed[:idx]
	args := strings.TrimLeft(trimmed[idx+1:], " \t")

	return &ParsedCommand{Name: name, Args: args, Raw: input}, nil
}

// FirstArg returns the first whitespace-delimited token of argument text.
// Returns "" when there is none.
func FirstArg(args string) string {
	trimmed := strings.TrimLeft(args, " \t")
	if trimmed == "" {
		return ""
	}
	idx := strings.IndexAny(trimmed, " \t")
	if idx == -1 {
		return trimmed
	}
	return trimmed[:idx]
}
