// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

package auth

import (
	"context"
	"strings"
	"sync"

	"github.com/samber/oops"
)

// MemoryAccountRepository implements AccountRepository in process memory.
// Used by tests and by storeless deployments where accounts do not need to
// survive a restart.
type MemoryAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*Account // keyed by lowercased name
}

// NewMemoryAccountRepository creates an empty in-memory repository.
func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{
		accounts: make(map[string]*Account),
	}
}

// Create stores a new account.
func (r *MemoryAccountRepository) Create(_ context.Context, account *Account) error {
	key := strings.ToLower(account.Name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[key]; ok {
		return oops.Code(CodeAccountExists).
			With("name", account.Name).
			Wrap(ErrAccountExists)
	}

	stored := *account
	r.accounts[key] = &stored
	return nil
}

// GetByName retrieves an account by name (case-insensitive).
func (r *MemoryAccountRepository) GetByName(_ context.Context, name string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[strings.ToLower(name)]
	if !ok {
		return nil, oops.Code("AUTH_ACCOUNT_NOT_FOUND").
			With("name", name).
			Wrap(ErrNotFound)
	}

	copied := *account
	return &copied, nil
}

// Exists reports whether an account with the name exists (case-insensitive).
func (r *MemoryAccountRepository) Exists(_ context.Context, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.accounts[strings.ToLower(name)]
	return ok, nil
}

// Compile-time interface check.
var _ AccountRepository = (*MemoryAccountRepository)(nil)
