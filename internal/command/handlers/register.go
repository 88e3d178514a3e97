// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

package handlers

import (
	"github.com/emberveil/emberveil/internal/command"
)

// RegisterAll registers the built-in commands with the registry.
// Panics if any registration fails (indicates a programming error).
func RegisterAll(reg *command.Registry) {
	mustRegister := func(spec command.Spec) {
		if err := reg.Register(spec); err != nil {
			panic("failed to register built-in command " + spec.Name + ": " + err.Error())
		}
	}

	// Pre-login commands
	mustRegister(command.NewSpec("CONNECT", ConnectHandler,
		command.WithoutLogin(),
		command.WithHelp("Log into an existing account", "CONNECT <name> <password>")))
	mustRegister(command.NewSpec("CREATE", CreateHandler,
		command.WithoutLogin(),
		command.WithHelp("Create a new account and log in", "CREATE <name> <password>")))
	mustRegister(command.NewSpec("HELP", HelpHandler,
		command.WithoutLogin(),
		command.WithHelp("List commands or show help for one", "HELP [command]")))
	mustRegister(command.NewSpec("QUIT", QuitHandler,
		command.WithoutLogin(),
		command.WithHelp("Disconnect from the server", "QUIT")))

	// Session commands
	mustRegister(command.NewSpec("WHO", WhoHandler,
		command.WithHelp("List connected accounts", "WHO")))

	// Administration commands
	mustRegister(command.NewSpec("KICK", KickHandler,
		command.WithFirstArgPermission("admin.kick"),
		command.WithHelp("Disconnect another account", "KICK <account>")))
	mustRegister(command.NewSpec("GRANT", GrantHandler,
		command.WithPermission("admin.grant"),
		command.WithHelp("Grant an explicit permission", "GRANT <account> <permission>")))
	mustRegister(command.NewSpec("REVOKE", RevokeHandler,
		command.WithPermission("admin.grant"),
		command.WithHelp("Revoke one explicit permission grant", "REVOKE <account> <permission>")))
	mustRegister(command.NewSpec("ROLE", RoleHandler,
		command.WithFirstArgPermission("admin.role"),
		command.WithHelp("Assign or remove a role", "ROLE <account> <add|remove> <role>")))
	mustRegister(command.NewSpec("DENY", DenyHandler,
		command.WithPermission("admin.deny"),
		command.WithHelp("Exclude a permission regardless of grants", "DENY <account> <permission>")))
	mustRegister(command.NewSpec("UNDENY", UndenyHandler,
		command.WithPermission("admin.deny"),
		command.WithHelp("Lift a permission exclusion", "UNDENY <account> <permission>")))
}
