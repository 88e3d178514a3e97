// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

package handlers_test

import (
	"context"
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberveil/emberveil/internal/access"
	"github.com/emberveil/emberveil/internal/auth"
	"github.com/emberveil/emberveil/internal/command"
	"github.com/emberveil/emberveil/internal/command/handlers"
	"github.com/emberveil/emberveil/internal/session"
)

type sentMessage struct {
	conn ulid.ULID
	text string
}

type recordingResponder struct {
	messages []sentMessage
}

func (r *recordingResponder) Send(conn ulid.ULID, _ command.Color, text string) {
	r.messages = append(r.messages, sentMessage{conn: conn, text: text})
}

func (r *recordingResponder) last(t *testing.T) sentMessage {
	t.Helper()
	require.NotEmpty(t, r.messages)
	return r.messages[len(r.messages)-1]
}

func (r *recordingResponder) lastFor(t *testing.T, conn ulid.ULID) string {
	t.Helper()
	for i := len(r.messages) - 1; i >= 0; i-- {
		if r.messages[i].conn == conn {
			return r.messages[i].text
		}
	}
	t.Fatalf("no message sent to %s", conn)
	return ""
}

type fixture struct {
	directory    *auth.Directory
	table        *session.Table
	access       *access.Manager
	roles        *access.RoleSet
	registry     *command.Registry
	responder    *recordingResponder
	services     *command.Services
	disconnected []ulid.ULID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	directory := auth.NewDirectory(auth.NewMemoryAccountRepository(), auth.NewPBKDF2Hasher())
	notifier := session.NewNotifier()
	table := session.NewTable(directory, notifier)

	f := &fixture{
		directory: directory,
		table:     table,
		access:    access.NewManager(table, notifier),
		roles:     access.NewRoleSet(),
		registry:  command.NewRegistry(),
		responder: &recordingResponder{},
	}
	f.services = &command.Services{
		Directory: directory,
		Sessions:  table,
		Access:    f.access,
		Roles:     f.roles,
		Registry:  f.registry,
		Disconnect: func(conn ulid.ULID) {
			f.disconnected = append(f.disconnected, conn)
		},
	}
	return f
}

func (f *fixture) exec(conn ulid.ULID, args string) *command.Execution {
	return &command.Execution{
		Conn:      conn,
		Args:      args,
		Responder: f.responder,
		Services:  f.services,
	}
}

func (f *fixture) createAccount(t *testing.T, name string) {
	t.Helper()
	_, err := f.directory.Create(context.Background(), name, "Passw0rd")
	require.NoError(t, err)
}

func (f *fixture) login(t *testing.T, name string) ulid.ULID {
	t.Helper()
	conn := ulid.Make()
	f.access.Attach(conn)
	require.NoError(t, f.table.ForceLogin(context.Background(), name, conn))
	return conn
}

func TestConnectHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials log the connection in", func(t *testing.T) {
		f := newFixture(t)
		f.createAccount(t, "bob")
		conn := ulid.Make()
		f.access.Attach(conn)

		require.NoError(t, handlers.ConnectHandler(ctx, f.exec(conn, "bob Passw0rd")))

		assert.True(t, f.table.IsLoggedIn(conn))
		assert.Contains(t, f.responder.last(t).text, "Welcome back")
	})

	t.Run("wrong password is reported, not an error", func(t *testing.T) {
		f := newFixture(t)
		f.createAccount(t, "bob")
		conn := ulid.Make()
		f.access.Attach(conn)

		require.NoError(t, handlers.ConnectHandler(ctx, f.exec(conn, "bob nope123")))

		assert.False(t, f.table.IsLoggedIn(conn))
		assert.Equal(t, "Invalid name or password.", f.responder.last(t).text)
	})

	t.Run("unknown account reads the same as wrong password", func(t *testing.T) {
		f := newFixture(t)
		conn := ulid.Make()
		f.access.Attach(conn)

		require.NoError(t, handlers.ConnectHandler(ctx, f.exec(conn, "ghost Passw0rd")))
		assert.Equal(t, "Invalid name or password.", f.responder.last(t).text)
	})

	t.Run("account already connected elsewhere", func(t *testing.T) {
		f := newFixture(t)
		f.createAccount(t, "bob")
		f.login(t, "bob")

		conn := ulid.Make()
		f.access.Attach(conn)
		require.NoError(t, handlers.ConnectHandler(ctx, f.exec(conn, "bob Passw0rd")))
		assert.Equal(t, "That account is already connected.", f.responder.last(t).text)
	})

	t.Run("missing arguments", func(t *testing.T) {
		f := newFixture(t)
		err := handlers.ConnectHandler(ctx, f.exec(ulid.Make(), "bob"))
		require.Error(t, err)
		assert.Equal(t, "Usage: CONNECT <name> <password>", command.PlayerMessage(err))
	})
}

func TestCreateHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the account and logs in", func(t *testing.T) {
		f := newFixture(t)
		conn := ulid.Make()
		f.access.Attach(conn)

		require.NoError(t, handlers.CreateHandler(ctx, f.exec(conn, "alice Secret7")))

		assert.True(t, f.table.IsLoggedIn(conn))
		name, _ := f.table.Account(conn)
		assert.Equal(t, "alice", name)
	})

	t.Run("name taken, case-insensitively", func(t *testing.T) {
		f := newFixture(t)
		f.createAccount(t, "alice")
		conn := ulid.Make()
		f.access.Attach(conn)

		require.NoError(t, handlers.CreateHandler(ctx, f.exec(conn, "ALICE Secret7")))
		assert.Equal(t, "That name is taken.", f.responder.last(t).text)
		assert.False(t, f.table.IsLoggedIn(conn))
	})

	t.Run("weak password rejected", func(t *testing.T) {
		f := newFixture(t)
		conn := ulid.Make()
		f.access.Attach(conn)

		require.NoError(t, handlers.CreateHandler(ctx, f.exec(conn, "alice aaaaa")))
		assert.Contains(t, f.responder.last(t).text, "Passwords need")
	})
}

func TestQuitHandler(t *testing.T) {
	f := newFixture(t)
	conn := ulid.Make()

	require.NoError(t, handlers.QuitHandler(context.Background(), f.exec(conn, "")))

	assert.Equal(t, "Goodbye!", f.responder.last(t).text)
	require.Len(t, f.disconnected, 1)
	assert.Equal(t, conn, f.disconnected[0])
}

func TestWhoHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("empty server", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, handlers.WhoHandler(ctx, f.exec(ulid.Make(), "")))
		assert.Equal(t, "No one is connected.", f.responder.last(t).text)
	})

	t.Run("lists accounts sorted", func(t *testing.T) {
		f := newFixture(t)
		f.createAccount(t, "zoe")
		f.createAccount(t, "adam")
		f.login(t, "zoe")
		conn := f.login(t, "adam")

		require.NoError(t, handlers.WhoHandler(ctx, f.exec(conn, "")))
		out := f.responder.last(t).text
		assert.Contains(t, out, "adam")
		assert.Contains(t, out, "zoe")
		assert.Less(t, strings.Index(out, "adam"), strings.Index(out, "zoe"))
		assert.Contains(t, out, "2 accounts connected.")
	})
}

func TestHelpHandler(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t)
	handlers.RegisterAll(f.registry)
	conn := ulid.Make()

	t.Run("lists all commands", func(t *testing.T) {
		require.NoError(t, handlers.HelpHandler(ctx, f.exec(conn, "")))
		out := f.responder.last(t).text
		for _, name := range []string{"CONNECT", "CREATE", "WHO", "QUIT", "KICK"} {
			assert.Contains(t, out, name)
		}
	})

	t.Run("topic help shows usage", func(t *testing.T) {
		require.NoError(t, handlers.HelpHandler(ctx, f.exec(conn, "connect")))
		out := f.responder.last(t).text
		assert.Contains(t, out, "Usage: CONNECT <name> <password>")
	})

	t.Run("unknown topic", func(t *testing.T) {
		require.NoError(t, handlers.HelpHandler(ctx, f.exec(conn, "frobnicate")))
		assert.Equal(t, "No help for that command.", f.responder.last(t).text)
	})
}

func TestKickHandler(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createAccount(t, "bob")
	target := f.login(t, "bob")
	admin := ulid.Make()

	require.NoError(t, handlers.KickHandler(ctx, f.exec(admin, "bob")))

	assert.Equal(t, "You have been kicked.", f.responder.lastFor(t, target))
	assert.Equal(t, "Kicked bob.", f.responder.lastFor(t, admin))
	require.Len(t, f.disconnected, 1)
	assert.Equal(t, target, f.disconnected[0])

	f.disconnected = nil
	require.NoError(t, handlers.KickHandler(ctx, f.exec(admin, "ghost")))
	assert.Equal(t, "That account is not connected.", f.responder.lastFor(t, admin))
	assert.Empty(t, f.disconnected)
}

func TestGrantAndRevokeHandlers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createAccount(t, "bob")
	target := f.login(t, "bob")
	admin := ulid.Make()

	authz, ok := f.access.Get(target)
	require.True(t, ok)

	require.NoError(t, handlers.GrantHandler(ctx, f.exec(admin, "bob build.place")))
	assert.True(t, authz.HasPermission("build.place"))

	require.NoError(t, handlers.RevokeHandler(ctx, f.exec(admin, "bob build.place")))
	assert.False(t, authz.HasPermission("build.place"))

	require.NoError(t, handlers.RevokeHandler(ctx, f.exec(admin, "bob build.place")))
	assert.Equal(t, "No such explicit grant.", f.responder.lastFor(t, admin))

	require.NoError(t, handlers.GrantHandler(ctx, f.exec(admin, "ghost build.place")))
	assert.Equal(t, "That account is not connected.", f.responder.lastFor(t, admin))
}

func TestRoleHandler(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createAccount(t, "bob")
	target := f.login(t, "bob")
	admin := ulid.Make()

	role, err := access.NewRole("moderator", "chat.mute", "chat.clear")
	require.NoError(t, err)
	require.NoError(t, f.roles.Add(role))

	authz, ok := f.access.Get(target)
	require.True(t, ok)

	require.NoError(t, handlers.RoleHandler(ctx, f.exec(admin, "bob add moderator")))
	assert.True(t, authz.HasPermission("chat.mute"))

	require.NoError(t, handlers.RoleHandler(ctx, f.exec(admin, "bob remove moderator")))
	assert.False(t, authz.HasPermission("chat.mute"))

	require.NoError(t, handlers.RoleHandler(ctx, f.exec(admin, "bob add sorcerer")))
	assert.Equal(t, "No such role.", f.responder.lastFor(t, admin))

	err = handlers.RoleHandler(ctx, f.exec(admin, "bob promote moderator"))
	require.Error(t, err)
}

func TestDenyHandlers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createAccount(t, "bob")
	target := f.login(t, "bob")
	admin := ulid.Make()

	authz, ok := f.access.Get(target)
	require.True(t, ok)
	require.NoError(t, authz.AddExplicitPermission("chat.shout"))
	authz.Recompose()
	require.True(t, authz.HasPermission("chat.shout"))

	require.NoError(t, handlers.DenyHandler(ctx, f.exec(admin, "bob chat.shout")))
	assert.False(t, authz.HasPermission("chat.shout"), "exclusion overrides the grant")

	require.NoError(t, handlers.UndenyHandler(ctx, f.exec(admin, "bob chat.shout")))
	assert.True(t, authz.HasPermission("chat.shout"))

	require.NoError(t, handlers.UndenyHandler(ctx, f.exec(admin, "bob chat.shout")))
	assert.Equal(t, "No such exclusion.", f.responder.lastFor(t, admin))
}

func TestRegisterAllDuplicatesPanic(t *testing.T) {
	reg := command.NewRegistry()
	handlers.RegisterAll(reg)
	assert.Panics(t, func() { handlers.RegisterAll(reg) })
}
