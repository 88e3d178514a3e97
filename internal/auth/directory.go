// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Directory provides account lookup, validation, and registration over an
// AccountRepository. It is consulted during explicit login and creation
// flows only, never on the per-command path.
type Directory struct {
	accounts  AccountRepository
	hasher    PasswordHasher
	onCreated func(*Account)
}

// DirectoryOption configures a Directory during construction.
type DirectoryOption func(*Directory)

// WithCreatedHook registers a callback invoked after each successful
// account creation. The callback runs synchronously on the creating
// goroutine; it must not call back into the Directory.
func WithCreatedHook(fn func(*Account)) DirectoryOption {
	return func(d *Directory) {
		d.onCreated = fn
	}
}

// NewDirectory creates a new Directory.
func NewDirectory(accounts AccountRepository, hasher PasswordHasher, opts ...DirectoryOption) *Directory {
	d := &Directory{
		accounts: accounts,
		hasher:   hasher,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Exists reports whether an account with the name exists (case-insensitive).
func (d *Directory) Exists(ctx context.Context, name string) (bool, error) {
	ok, err := d.accounts.Exists(ctx, name)
	if err != nil {
		return false, oops.Code("AUTH_LOOKUP_FAILED").
			With("operation", "account exists").
			With("name", name).
			Wrap(err)
	}
	return ok, nil
}

// Validate reports whether the account exists and the password matches its
// stored credential. A missing account is not an error, just false.
func (d *Directory) Validate(ctx context.Context, name, password string) (bool, error) {
	account, err := d.accounts.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, oops.Code("AUTH_LOOKUP_FAILED").
			With("operation", "get account by name").
			With("name", name).
			Wrap(err)
	}

	ok, err := d.hasher.Verify(password, account.PasswordHash)
	if err != nil {
		return false, oops.Code("AUTH_VERIFY_FAILED").
			With("name", name).
			Wrap(err)
	}
	return ok, nil
}

// Create registers a new account with a fresh salt and hash.
// Fails with CodeAccountExists if the name is taken (case-insensitive) and
// with CodeWeakPassword if the password does not satisfy the policy.
func (d *Directory) Create(ctx context.Context, name, password string) (*Account, error) {
	if err := ValidateAccountName(name); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	taken, err := d.accounts.Exists(ctx, name)
	if err != nil {
		return nil, oops.Code("AUTH_CREATE_FAILED").
			With("operation", "check name availability").
			With("name", name).
			Wrap(err)
	}
	if taken {
		return nil, oops.Code(CodeAccountExists).
			With("name", name).
			Wrap(ErrAccountExists)
	}

	salt, err := d.hasher.GenerateSalt()
	if err != nil {
		return nil, oops.Code("AUTH_CREATE_FAILED").
			With("operation", "generate salt").
			Wrap(err)
	}
	hash, err := d.hasher.Hash(password, salt)
	if err != nil {
		return nil, oops.Code("AUTH_CREATE_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	account := &Account{
		ID:           ulid.Make(),
		Name:         name,
		PasswordHash: hash,
		PasswordSalt: salt,
		CreatedAt:    time.Now(),
	}

	if err := d.accounts.Create(ctx, account); err != nil {
		// The repository may race with a concurrent Create on the same name.
		if errors.Is(err, ErrAccountExists) {
			return nil, oops.Code(CodeAccountExists).
				With("name", name).
				Wrap(err)
		}
		return nil, oops.Code("AUTH_CREATE_FAILED").
			With("operation", "insert account").
			With("name", name).
			Wrap(err)
	}

	if d.onCreated != nil {
		d.onCreated(account)
	}
	return account, nil
}
