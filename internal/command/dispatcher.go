// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

package command

import (
	"context"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/emberveil/emberveil/internal/access"
)

// tracer is the OpenTelemetry tracer for command dispatch.
var tracer = otel.Tracer("emberveil/command")

// Dispatcher routes parsed input to registered commands, enforcing the
// login and permission gates described on each Spec before the handler
// runs. Rejections are reported to the player through the Responder and
// surfaced to the caller as structured errors for logging.
type Dispatcher struct {
	registry  *Registry
	access    *access.Manager
	responder Responder
	services  *Services
}

// NewDispatcher creates a dispatcher wired to the given registry, access
// manager, and responder. Panics on nil collaborators since dispatch is
// meaningless without them.
func NewDispatcher(registry *Registry, accessMgr *access.Manager, responder Responder, services *Services) *Dispatcher {
	if registry == nil {
		panic("command: registry must not be nil")
	}
	if accessMgr == nil {
		panic("command: access manager must not be nil")
	}
	if responder == nil {
		panic("command: responder must not be nil")
	}
	return &Dispatcher{
		registry:  registry,
		access:    accessMgr,
		responder: responder,
		services:  services,
	}
}

// Dispatch resolves identifier against the registry and, when the gates
// pass, invokes the command handler. The returned bool reports whether a
// registered command claimed the identifier, so the host can fall through
// to other input handling; it is independent of whether the invocation
// succeeded.
func (d *Dispatcher) Dispatch(ctx context.Context, conn ulid.ULID, identifier, args string) (handled bool, err error) {
	spec, ok := d.registry.Get(identifier)
	if !ok {
		RecordDispatch(identifier, StatusNotFound)
		d.responder.Send(conn, ColorError, "That command does not exist.")
		return false, nil
	}

	ctx, span := tracer.Start(ctx, "command.dispatch",
		trace.WithAttributes(
			attribute.String("command.name", spec.Name),
			attribute.String("conn.id", conn.String()),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	authz, attached := d.access.Get(conn)
	loggedIn := attached && authz.LoggedIn()

	if spec.RequiresLogin && !loggedIn {
		RecordDispatch(spec.Name, StatusNotLoggedIn)
		err = ErrNotLoggedIn(spec.Name)
		d.responder.Send(conn, ColorError, PlayerMessage(err))
		return true, err
	}

	if denied := d.checkPermission(spec, authz, args); denied != nil {
		err = denied
		d.responder.Send(conn, ColorError, PlayerMessage(err))
		return true, err
	}

	exec := &Execution{
		Conn:      conn,
		Args:      args,
		InvokedAs: identifier,
		Responder: d.responder,
		Services:  d.services,
	}

	start := time.Now()
	err = spec.Handler(ctx, exec)
	RecordDuration(spec.Name, time.Since(start))

	if err != nil {
		RecordDispatch(spec.Name, StatusError)
		slog.WarnContext(ctx, "command failed",
			"command", spec.Name,
			"error", err,
		)
		d.responder.Send(conn, ColorError, PlayerMessage(err))
		return true, err
	}

	RecordDispatch(spec.Name, StatusSuccess)
	return true, nil
}

// checkPermission applies the Spec's permission requirement against the
// connection's authorization record. A nil return means the gate passed.
// A held universal grant passes before first-argument scoping, so wildcard
// holders are never rejected for an empty first argument.
func (d *Dispatcher) checkPermission(spec Spec, authz *access.Authorization, args string) error {
	if spec.RequiredPermission == "" {
		return nil
	}
	if authz != nil && authz.HasWildcard() {
		return nil
	}

	checked := spec.RequiredPermission
	if spec.FirstArgPermission {
		token := FirstArg(args)
		if token == "" {
			RecordDispatch(spec.Name, StatusEmptyFirstArg)
			return ErrEmptyFirstArg(spec.Name)
		}
		checked = spec.RequiredPermission + "." + token
	}

	if authz == nil || !authz.HasPermission(checked) {
		RecordDispatch(spec.Name, StatusPermissionDenied)
		return ErrPermissionDenied(spec.Name, checked)
	}
	return nil
}

// DispatchInput parses raw input and dispatches the result. Blank input
// is ignored without touching the registry.
func (d *Dispatcher) DispatchInput(ctx context.Context, conn ulid.ULID, input string) (bool, error) {
	parsed, err := Parse(input)
	if err != nil {
		if oopsErr, ok := oops.AsOops(err); ok && oopsErr.Code() == CodeEmptyInput {
			return false, nil
		}
		return false, err
	}
	return d.Dispatch(ctx, conn, parsed.Name, parsed.Args)
}
