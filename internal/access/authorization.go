// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

package access

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/gobwas/glob"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// compiledPattern holds a held glob permission and its compiled matcher.
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Authorization is the mutable per-connection authorization state: a login
// flag, attached roles, explicit grants, exclusions, and the derived
// effective permission set.
//
// The effective set is a cache. Mutators do NOT recompute it; callers batch
// mutations and then call Recompose once. HasPermission always evaluates
// against the last recomposed set.
type Authorization struct {
	mu       sync.Mutex
	conn     ulid.ULID
	loggedIn bool
	roles    []*Role
	explicit []string // ordered, may hold duplicates; composition dedupes
	excluded map[string]struct{}

	effective map[string]struct{}
	patterns  []compiledPattern
}

// NewAuthorization creates an empty Authorization for a connection.
func NewAuthorization(conn ulid.ULID) *Authorization {
	return &Authorization{
		conn:      conn,
		excluded:  make(map[string]struct{}),
		effective: make(map[string]struct{}),
	}
}

// Conn returns the connection this Authorization belongs to.
func (a *Authorization) Conn() ulid.ULID {
	return a.conn
}

// SetLoggedIn sets the login flag. Driven by the session table's
// ClientLoggedIn/ClientLoggedOut events, not set directly by callers.
func (a *Authorization) SetLoggedIn(v bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loggedIn = v
}

// LoggedIn reports the login flag.
func (a *Authorization) LoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loggedIn
}

// AddRole attaches a role. Fails with CodeDuplicateRole if a role with the
// same name is already attached.
func (a *Authorization) AddRole(role *Role) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, r := range a.roles {
		if r.Name() == role.Name() {
			return oops.In("access").
				Code(CodeDuplicateRole).
				With("conn", a.conn.String()).
				With("role", role.Name()).
				New("role already attached")
		}
	}
	a.roles = append(a.roles, role)
	return nil
}

// RemoveRole detaches a role by name. Fails with CodeRoleNotFound if absent.
func (a *Authorization) RemoveRole(role *Role) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, r := range a.roles {
		if r.Name() == role.Name() {
			a.roles = append(a.roles[:i], a.roles[i+1:]...)
			return nil
		}
	}
	return oops.In("access").
		Code(CodeRoleNotFound).
		With("conn", a.conn.String()).
		With("role", role.Name()).
		New("role not attached")
}

// AddExplicitPermission appends a name to the explicit grant list.
func (a *Authorization) AddExplicitPermission(name string) error {
	if name == "" {
		return oops.In("access").Code(CodeInvalidPermission).New("permission name cannot be empty")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.explicit = append(a.explicit, name)
	return nil
}

// RemoveExplicitPermission removes the first occurrence of a name from the
// explicit grant list. Fails with CodePermissionNotFound if absent.
func (a *Authorization) RemoveExplicitPermission(name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, p := range a.explicit {
		if p == name {
			a.explicit = append(a.explicit[:i], a.explicit[i+1:]...)
			return nil
		}
	}
	return oops.In("access").
		Code(CodePermissionNotFound).
		With("conn", a.conn.String()).
		With("permission", name).
		New("permission not in explicit grants")
}

// AddExcludedPermission adds a name to the exclusion set.
func (a *Authorization) AddExcludedPermission(name string) error {
	if name == "" {
		return oops.In("access").Code(CodeInvalidPermission).New("permission name cannot be empty")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.excluded[name] = struct{}{}
	return nil
}

// RemoveExcludedPermission removes a name from the exclusion set.
// Fails with CodePermissionNotFound if absent.
func (a *Authorization) RemoveExcludedPermission(name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.excluded[name]; !ok {
		return oops.In("access").
			Code(CodePermissionNotFound).
			With("conn", a.conn.String()).
			With("permission", name).
			New("permission not in exclusions")
	}
	delete(a.excluded, name)
	return nil
}

// Recompose rebuilds the effective set as
// (explicit ∪ role permissions) − excluded, deduplicated. Held names that
// contain glob metacharacters are compiled with '.' as the separator; a
// pattern that fails to compile is skipped with a warning (fail closed).
func (a *Authorization) Recompose() {
	a.mu.Lock()
	defer a.mu.Unlock()

	effective := make(map[string]struct{}, len(a.explicit))
	for _, p := range a.explicit {
		effective[p] = struct{}{}
	}
	for _, role := range a.roles {
		for _, p := range role.Permissions() {
			effective[p] = struct{}{}
		}
	}
	for p := range a.excluded {
		delete(effective, p)
	}

	patterns := a.patterns[:0]
	for p := range effective {
		if p == Wildcard || !strings.ContainsAny(p, "*?[{") {
			continue
		}
		g, err := glob.Compile(p, '.')
		if err != nil {
			slog.Warn("skipping unparseable permission pattern",
				"conn", a.conn.String(),
				"pattern", p,
				"error", err)
			continue
		}
		patterns = append(patterns, compiledPattern{pattern: p, glob: g})
	}

	a.effective = effective
	a.patterns = patterns
}

// Reset clears roles, explicit grants, exclusions, and the effective set.
// Called on logout and on connection teardown so no permission outlives a
// session.
func (a *Authorization) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.roles = nil
	a.explicit = nil
	a.excluded = make(map[string]struct{})
	a.effective = make(map[string]struct{})
	a.patterns = nil
}

// HasWildcard reports whether the universal grant is in the effective set.
func (a *Authorization) HasWildcard() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.effective[Wildcard]
	return ok
}

// HasPermission reports whether the effective set grants the name: true if
// the universal grant is held, the name is a direct member, or a held glob
// pattern matches it.
func (a *Authorization) HasPermission(name string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.effective[Wildcard]; ok {
		return true
	}
	if _, ok := a.effective[name]; ok {
		return true
	}
	for _, p := range a.patterns {
		if p.glob.Match(name) {
			return true
		}
	}
	return false
}

// EffectivePermissions returns a sorted copy of the effective set.
func (a *Authorization) EffectivePermissions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]string, 0, len(a.effective))
	for p := range a.effective {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Roles returns the names of the attached roles in attachment order.
func (a *Authorization) Roles() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]string, len(a.roles))
	for i, r := range a.roles {
		out[i] = r.Name()
	}
	return out
}
