// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/emberveil/emberveil/internal/access"
	"github.com/emberveil/emberveil/internal/auth"
	authpg "github.com/emberveil/emberveil/internal/auth/postgres"
	"github.com/emberveil/emberveil/internal/command"
	"github.com/emberveil/emberveil/internal/command/handlers"
	"github.com/emberveil/emberveil/internal/config"
	"github.com/emberveil/emberveil/internal/logging"
	"github.com/emberveil/emberveil/internal/observability"
	"github.com/emberveil/emberveil/internal/session"
	"github.com/emberveil/emberveil/internal/store"
	"github.com/emberveil/emberveil/internal/telnet"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the EmberVeil server",
		Long: `Start the telnet server, the observability endpoint, and the
account store configured in the config file.`,
		RunE: runServe,
	}

	cmd.Flags().String("listen", ":4201", "telnet listen address")
	cmd.Flags().String("metrics_listen", "127.0.0.1:9100", "observability listen address (empty disables)")
	cmd.Flags().String("database_url", "", "PostgreSQL connection string (empty uses in-memory store)")
	cmd.Flags().String("log_format", "json", "log format: json or text")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	path := configFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return err
	}

	logging.SetDefault("emberveil", version, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Account storage
	var accounts auth.AccountRepository
	if cfg.DatabaseURL != "" {
		pool, poolErr := store.NewPool(ctx, cfg.DatabaseURL)
		if poolErr != nil {
			return poolErr
		}
		defer pool.Close()
		accounts = authpg.NewAccountRepository(pool)
		slog.Info("using postgres account store")
	} else {
		accounts = auth.NewMemoryAccountRepository()
		slog.Warn("no database_url configured, accounts will not survive restart")
	}

	notifier := session.NewNotifier()
	directory := auth.NewDirectory(accounts, auth.NewPBKDF2Hasher(),
		auth.WithCreatedHook(func(a *auth.Account) {
			notifier.Publish(session.Event{
				Type:    session.EventAccountCreated,
				Account: a.Name,
			})
		}))
	table := session.NewTable(directory, notifier)
	manager := access.NewManager(table, notifier)
	defer manager.Shutdown()

	roles, err := buildRoles(cfg.Roles)
	if err != nil {
		return err
	}

	registry := command.NewRegistry()
	handlers.RegisterAll(registry)
	gateway := telnet.NewGateway()

	dispatcher := command.NewDispatcher(registry, manager, gateway, &command.Services{
		Directory:  directory,
		Sessions:   table,
		Access:     manager,
		Roles:      roles,
		Registry:   registry,
		Disconnect: gateway.Disconnect,
	})

	server := telnet.NewServer(cfg.Listen, gateway, dispatcher, manager)

	// Observability
	if cfg.MetricsListen != "" {
		obs := observability.NewServer(cfg.MetricsListen,
			func() bool { return server.Addr() != "" },
			func() float64 { return float64(len(table.ActiveAccounts())) })
		command.RegisterMetrics(obs.Registry())

		if _, obsErr := obs.Start(); obsErr != nil {
			return obsErr
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if stopErr := obs.Stop(stopCtx); stopErr != nil {
				slog.Error("failed to stop observability server", "error", stopErr)
			}
		}()
	}

	slog.Info("starting emberveil", "version", version, "listen", cfg.Listen)
	return server.Run(ctx)
}

// buildRoles turns the configured role map into an immutable role set.
func buildRoles(configured map[string][]string) (*access.RoleSet, error) {
	roles := access.NewRoleSet()
	for name, perms := range configured {
		role, err := access.NewRole(name, perms...)
		if err != nil {
			return nil, oops.With("role", name).Wrap(err)
		}
		if err := roles.Add(role); err != nil {
			return nil, oops.With("role", name).Wrap(err)
		}
	}
	return roles, nil
}
