// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

package access_test

import (
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberveil/emberveil/internal/access"
)

func mustRole(t *testing.T, name string, perms ...string) *access.Role {
	t.Helper()
	role, err := access.NewRole(name, perms...)
	require.NoError(t, err)
	return role
}

func assertAccessCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %v", err)
	assert.Equal(t, code, oopsErr.Code())
}

func TestRole(t *testing.T) {
	t.Run("dedupes permissions", func(t *testing.T) {
		role := mustRole(t, "mod", "kick", "kick", "mute")
		assert.Equal(t, []string{"kick", "mute"}, role.Permissions())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := access.NewRole("")
		assert.Error(t, err)
	})

	t.Run("rejects empty permission", func(t *testing.T) {
		_, err := access.NewRole("mod", "kick", "")
		assert.Error(t, err)
	})
}

func TestRecompose(t *testing.T) {
	t.Run("roles minus exclusions plus explicit", func(t *testing.T) {
		a := access.NewAuthorization(ulid.Make())
		require.NoError(t, a.AddRole(mustRole(t, "r", "a", "b")))
		require.NoError(t, a.AddExcludedPermission("b"))
		a.Recompose()
		assert.Equal(t, []string{"a"}, a.EffectivePermissions())

		require.NoError(t, a.AddExplicitPermission("c"))
		a.Recompose()
		assert.Equal(t, []string{"a", "c"}, a.EffectivePermissions())
	})

	t.Run("mutators do not recompose", func(t *testing.T) {
		a := access.NewAuthorization(ulid.Make())
		require.NoError(t, a.AddExplicitPermission("a"))
		assert.False(t, a.HasPermission("a"), "effective set must be stale until Recompose")

		a.Recompose()
		assert.True(t, a.HasPermission("a"))

		require.NoError(t, a.RemoveExplicitPermission("a"))
		assert.True(t, a.HasPermission("a"), "removal must not take effect until Recompose")

		a.Recompose()
		assert.False(t, a.HasPermission("a"))
	})

	t.Run("explicit duplicates collapse", func(t *testing.T) {
		a := access.NewAuthorization(ulid.Make())
		require.NoError(t, a.AddExplicitPermission("a"))
		require.NoError(t, a.AddExplicitPermission("a"))
		a.Recompose()
		assert.Equal(t, []string{"a"}, a.EffectivePermissions())
	})
}

func TestHasPermission(t *testing.T) {
	t.Run("wildcard grants everything", func(t *testing.T) {
		a := access.NewAuthorization(ulid.Make())
		require.NoError(t, a.AddExplicitPermission(access.Wildcard))
		a.Recompose()
		assert.True(t, a.HasWildcard())
		assert.True(t, a.HasPermission("anything"))
		assert.True(t, a.HasPermission("admin.kick.Bob"))
	})

	t.Run("scoped grants are not universal", func(t *testing.T) {
		a := access.NewAuthorization(ulid.Make())
		require.NoError(t, a.AddExplicitPermission("admin.kick.*"))
		a.Recompose()
		assert.False(t, a.HasWildcard())
	})

	t.Run("exact match", func(t *testing.T) {
		a := access.NewAuthorization(ulid.Make())
		require.NoError(t, a.AddExplicitPermission("admin.kick.Bob"))
		a.Recompose()
		assert.True(t, a.HasPermission("admin.kick.Bob"))
		assert.False(t, a.HasPermission("admin.kick.Alice"))
	})

	t.Run("glob pattern grants", func(t *testing.T) {
		a := access.NewAuthorization(ulid.Make())
		require.NoError(t, a.AddExplicitPermission("admin.kick.*"))
		a.Recompose()
		assert.True(t, a.HasPermission("admin.kick.Bob"))
		assert.True(t, a.HasPermission("admin.kick.Alice"))
		assert.False(t, a.HasPermission("admin.mute.Bob"))
		// '.' is the separator: single star does not cross segments
		assert.False(t, a.HasPermission("admin.kick.Bob.extra"))
	})

	t.Run("empty set denies", func(t *testing.T) {
		a := access.NewAuthorization(ulid.Make())
		a.Recompose()
		assert.False(t, a.HasPermission("anything"))
	})
}

func TestRoleMutation(t *testing.T) {
	t.Run("duplicate role rejected", func(t *testing.T) {
		a := access.NewAuthorization(ulid.Make())
		role := mustRole(t, "mod", "kick")
		require.NoError(t, a.AddRole(role))
		assertAccessCode(t, a.AddRole(role), access.CodeDuplicateRole)
	})

	t.Run("remove detaches", func(t *testing.T) {
		a := access.NewAuthorization(ulid.Make())
		role := mustRole(t, "mod", "kick")
		require.NoError(t, a.AddRole(role))
		require.NoError(t, a.RemoveRole(role))
		assert.Empty(t, a.Roles())

		a.Recompose()
		assert.False(t, a.HasPermission("kick"))
	})

	t.Run("remove absent role fails", func(t *testing.T) {
		a := access.NewAuthorization(ulid.Make())
		assertAccessCode(t, a.RemoveRole(mustRole(t, "mod")), access.CodeRoleNotFound)
	})
}

func TestExplicitAndExcludedMutation(t *testing.T) {
	t.Run("remove absent explicit fails", func(t *testing.T) {
		a := access.NewAuthorization(ulid.Make())
		assertAccessCode(t, a.RemoveExplicitPermission("a"), access.CodePermissionNotFound)
	})

	t.Run("remove absent exclusion fails", func(t *testing.T) {
		a := access.NewAuthorization(ulid.Make())
		assertAccessCode(t, a.RemoveExcludedPermission("a"), access.CodePermissionNotFound)
	})

	t.Run("removing exclusion restores role grant", func(t *testing.T) {
		a := access.NewAuthorization(ulid.Make())
		require.NoError(t, a.AddRole(mustRole(t, "r", "a", "b")))
		require.NoError(t, a.AddExcludedPermission("b"))
		a.Recompose()
		assert.False(t, a.HasPermission("b"))

		require.NoError(t, a.RemoveExcludedPermission("b"))
		a.Recompose()
		assert.True(t, a.HasPermission("b"))
	})

	t.Run("empty names rejected", func(t *testing.T) {
		a := access.NewAuthorization(ulid.Make())
		assert.Error(t, a.AddExplicitPermission(""))
		assert.Error(t, a.AddExcludedPermission(""))
	})
}

func TestReset(t *testing.T) {
	a := access.NewAuthorization(ulid.Make())
	require.NoError(t, a.AddRole(mustRole(t, "r", "a")))
	require.NoError(t, a.AddExplicitPermission("b"))
	require.NoError(t, a.AddExcludedPermission("c"))
	a.Recompose()
	require.True(t, a.HasPermission("a"))

	a.Reset()
	assert.Empty(t, a.Roles())
	assert.Empty(t, a.EffectivePermissions())
	assert.False(t, a.HasPermission("a"))

	// Exclusion list was cleared too: re-adding "c" now sticks.
	require.NoError(t, a.AddExplicitPermission("c"))
	a.Recompose()
	assert.True(t, a.HasPermission("c"))
}

func TestRoleSet(t *testing.T) {
	set := access.NewRoleSet()
	require.NoError(t, set.Add(mustRole(t, "mod", "kick")))

	t.Run("duplicate add fails", func(t *testing.T) {
		err := set.Add(mustRole(t, "mod"))
		assertAccessCode(t, err, access.CodeDuplicateRole)
	})

	t.Run("lookup", func(t *testing.T) {
		role, ok := set.Get("mod")
		require.True(t, ok)
		assert.Equal(t, "mod", role.Name())

		_, ok = set.Get("nope")
		assert.False(t, ok)
	})

	t.Run("names sorted", func(t *testing.T) {
		require.NoError(t, set.Add(mustRole(t, "admin")))
		assert.Equal(t, []string{"admin", "mod"}, set.Names())
	})
}
