// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

// Package command provides the command registry, parser, and dispatch system.
package command

import (
	"context"

	"github.com/oklog/ulid/v2"

	"github.com/emberveil/emberveil/internal/access"
	"github.com/emberveil/emberveil/internal/auth"
	"github.com/emberveil/emberveil/internal/session"
)

// Handler is the function signature for command implementations.
type Handler func(ctx context.Context, exec *Execution) error

// Spec is the static metadata for one command: its identifier and the
// login/permission requirements the dispatcher enforces before invoking it.
// Extracted once at registry construction, immutable thereafter.
type Spec struct {
	// Name is the case-insensitive identifier players type.
	Name string

	// RequiredPermission gates invocation; empty means login state alone
	// decides.
	RequiredPermission string

	// FirstArgPermission, when set, suffixes RequiredPermission with the
	// command's first argument token ("admin.kick" + "Bob" → "admin.kick.Bob").
	FirstArgPermission bool

	// RequiresLogin defaults to true for commands built through NewSpec.
	RequiresLogin bool

	// Handler runs the command once the dispatcher has let it through.
	Handler Handler

	// Help is a one-line description shown by HELP.
	Help string

	// Usage is the usage pattern (e.g. "CONNECT <name> <password>").
	Usage string
}

// SpecOption configures a Spec during construction.
type SpecOption func(*Spec)

// WithPermission sets the required permission name.
func WithPermission(name string) SpecOption {
	return func(s *Spec) { s.RequiredPermission = name }
}

// WithFirstArgPermission makes the required permission parameterized by the
// command's first argument.
func WithFirstArgPermission(name string) SpecOption {
	return func(s *Spec) {
		s.RequiredPermission = name
		s.FirstArgPermission = true
	}
}

// WithoutLogin marks the command as available to unauthenticated connections.
func WithoutLogin() SpecOption {
	return func(s *Spec) { s.RequiresLogin = false }
}

// WithHelp sets the help line and usage pattern.
func WithHelp(help, usage string) SpecOption {
	return func(s *Spec) {
		s.Help = help
		s.Usage = usage
	}
}

// NewSpec builds a Spec. Login is required unless WithoutLogin is given.
func NewSpec(name string, handler Handler, opts ...SpecOption) Spec {
	s := Spec{
		Name:          name,
		RequiresLogin: true,
		Handler:       handler,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Execution provides context for one command invocation.
type Execution struct {
	Conn      ulid.ULID
	Args      string
	InvokedAs string
	Responder Responder
	Services  *Services
}

// Services provides access to core services for command handlers.
// Handlers must not retain references beyond the invocation.
type Services struct {
	Directory *auth.Directory
	Sessions  *session.Table
	Access    *access.Manager
	Roles     *access.RoleSet
	Registry  *Registry

	// Disconnect tears down the connection after the current command
	// completes. Set by the transport; nil when unsupported.
	Disconnect func(conn ulid.ULID)
}

// Color is an RGB triple attached to every message sent to a connection.
type Color struct {
	R, G, B uint8
}

// Message colors used by the dispatcher for rejections.
var (
	ColorInfo  = Color{R: 200, G: 200, B: 200}
	ColorError = Color{R: 230, G: 80, B: 80}
)

// Responder delivers plain-text, color-tagged messages to a connection.
type Responder interface {
	Send(conn ulid.ULID, color Color, text string)
}
