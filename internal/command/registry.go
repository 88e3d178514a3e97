// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

package command

import (
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Registry is the case-insensitive index from identifier to Spec, built
// once at startup from the host-supplied command list.
//
// Duplicate identifiers keep the FIRST registration; the conflict is
// logged and Register returns a DUPLICATE_COMMAND error the caller may
// treat as fatal or ignore.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Spec // keyed by uppercased name
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Spec),
	}
}

// Register adds a command to the registry.
func (r *Registry) Register(spec Spec) error {
	if err := ValidateCommandName(spec.Name); err != nil {
		return err
	}
	key := strings.ToUpper(spec.Name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.commands[key]; ok {
		slog.Warn("command conflict: keeping first registration",
			"command", key,
			"kept", existing.Name,
			"dropped", spec.Name)
		return ErrDuplicateCommand(spec.Name)
	}

	r.commands[key] = spec
	return nil
}

// Get retrieves a command by identifier, case-insensitively.
func (r *Registry) Get(name string) (Spec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spec, ok := r.commands[strings.ToUpper(name)]
	return spec, ok
}

// All returns all registered commands sorted by identifier.
// The returned slice is a copy and safe to modify.
func (r *Registry) All() []Spec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := make([]Spec, 0, len(r.commands))
	for _, s := range r.commands {
		specs = append(specs, s)
	}
	sort.Slice(specs, func(i, j int) bool {
		return strings.ToUpper(specs[i].Name) < strings.ToUpper(specs[j].Name)
	})
	return specs
}
