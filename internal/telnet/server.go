// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

package telnet

import (
	"context"
	"log/slog"
	"net"
	"sync"

	"github.com/samber/oops"

	"github.com/emberveil/emberveil/internal/access"
	"github.com/emberveil/emberveil/internal/command"
)

// Server is a telnet server.
type Server struct {
	addr       string
	listener   net.Listener
	gateway    *Gateway
	dispatcher *command.Dispatcher
	access     *access.Manager
	mu         sync.RWMutex
	wg         sync.WaitGroup
}

// NewServer creates a new telnet server.
func NewServer(addr string, gateway *Gateway, dispatcher *command.Dispatcher, accessMgr *access.Manager) *Server {
	return &Server{
		addr:       addr,
		gateway:    gateway,
		dispatcher: dispatcher,
		access:     accessMgr,
	}
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run starts the server and blocks until the context is cancelled. All
// connection handlers have finished when Run returns.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return oops.With("addr", s.addr).Wrap(err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	slog.Info("telnet server started", "addr", listener.Addr())

	go func() {
		<-ctx.Done()
		if err := listener.Close(); err != nil {
			slog.Debug("error closing listener", "error", err)
		}
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				s.wg.Wait()
				return nil
			default:
				slog.Error("accept failed", "error", err)
				continue
			}
		}

		handler := NewConnectionHandler(conn, s.gateway, s.dispatcher, s.access)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			handler.Handle(ctx)
		}()
	}
}
