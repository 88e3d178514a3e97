// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

// Package logging provides the server's structured logger. Records carry
// the service identity, the active trace context, and the connection a
// command originated from when the context was tagged with WithConn.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/trace"
)

type ctxKey struct{}

// WithConn tags a context so every log record emitted under it carries the
// connection ID. The telnet layer tags the dispatch context per line.
func WithConn(ctx context.Context, conn ulid.ULID) context.Context {
	return context.WithValue(ctx, ctxKey{}, conn)
}

// ConnFromContext returns the connection ID a context was tagged with.
func ConnFromContext(ctx context.Context) (ulid.ULID, bool) {
	conn, ok := ctx.Value(ctxKey{}).(ulid.ULID)
	return conn, ok
}

// connHandler decorates records with service identity, connection ID, and
// trace context before delegating to the format handler.
type connHandler struct {
	inner   slog.Handler
	service string
	version string
}

func (h *connHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(
		slog.String("service", h.service),
		slog.String("version", h.version),
	)

	if conn, ok := ConnFromContext(ctx); ok {
		r.AddAttrs(slog.String("conn_id", conn.String()))
	}

	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", spanCtx.TraceID().String()),
			slog.String("span_id", spanCtx.SpanID().String()),
		)
	}

	//nolint:wrapcheck // Handler interface requires unwrapped error passthrough
	return h.inner.Handle(ctx, r)
}

func (h *connHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *connHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &connHandler{inner: h.inner.WithAttrs(attrs), service: h.service, version: h.version}
}

func (h *connHandler) WithGroup(name string) slog.Handler {
	return &connHandler{inner: h.inner.WithGroup(name), service: h.service, version: h.version}
}

// New builds a logger in the given format, "json" (the default) or "text".
// A nil writer logs to os.Stderr.
func New(service, version, format string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	var inner slog.Handler
	if format == "text" {
		inner = slog.NewTextHandler(w, opts)
	} else {
		inner = slog.NewJSONHandler(w, opts)
	}

	return slog.New(&connHandler{inner: inner, service: service, version: version})
}

// SetDefault installs a New logger as the process default.
func SetDefault(service, version, format string) {
	slog.SetDefault(New(service, version, format, nil))
}
