// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

// Package access provides per-connection authorization for EmberVeil.
//
// Permission names are dot-separated strings ("admin.kick", "teleport.goto").
// A held name may be a glob pattern compiled with '.' as the separator
// ("admin.*"); the universal grant "*" matches everything.
package access

import (
	"sort"
	"sync"

	"github.com/samber/oops"
)

// Wildcard is the universal permission grant.
const Wildcard = "*"

// Role is an immutable named bundle of permission names, shared by
// reference across any number of connections.
type Role struct {
	name  string
	perms map[string]struct{}
}

// NewRole creates a Role. Duplicate permission names are collapsed.
func NewRole(name string, permissions ...string) (*Role, error) {
	if name == "" {
		return nil, oops.In("access").Code("INVALID_ROLE").New("role name cannot be empty")
	}
	perms := make(map[string]struct{}, len(permissions))
	for _, p := range permissions {
		if p == "" {
			return nil, oops.In("access").
				Code(CodeInvalidPermission).
				With("role", name).
				New("permission name cannot be empty")
		}
		perms[p] = struct{}{}
	}
	return &Role{name: name, perms: perms}, nil
}

// Name returns the role's name.
func (r *Role) Name() string {
	return r.name
}

// Has reports whether the role contains the exact permission name.
func (r *Role) Has(permission string) bool {
	_, ok := r.perms[permission]
	return ok
}

// Permissions returns a sorted copy of the role's permission names.
func (r *Role) Permissions() []string {
	out := make([]string, 0, len(r.perms))
	for p := range r.perms {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// RoleSet is a named collection of roles, typically built once from
// configuration and shared process-wide.
type RoleSet struct {
	mu    sync.RWMutex
	roles map[string]*Role
}

// NewRoleSet creates an empty RoleSet.
func NewRoleSet() *RoleSet {
	return &RoleSet{roles: make(map[string]*Role)}
}

// Add registers a role. Fails if a role with the same name exists.
func (s *RoleSet) Add(role *Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roles[role.Name()]; ok {
		return oops.In("access").
			Code(CodeDuplicateRole).
			With("role", role.Name()).
			New("role already defined")
	}
	s.roles[role.Name()] = role
	return nil
}

// Get returns the role with the given name.
func (s *RoleSet) Get(name string) (*Role, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	role, ok := s.roles[name]
	return role, ok
}

// Names returns the sorted names of all roles in the set.
func (s *RoleSet) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.roles))
	for name := range s.roles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
