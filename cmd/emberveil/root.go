// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the EmberVeil CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emberveil",
		Short: "EmberVeil - a live multiplayer access-control server",
		Long: `EmberVeil is a multiplayer text server built around account
management, per-connection permission composition, and gated command
dispatch.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
