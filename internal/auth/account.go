// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

package auth

import (
	"context"
	"regexp"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Account name constraints.
const (
	MinAccountNameLength = 3
	MaxAccountNameLength = 30
)

// accountNameRegex matches names that start with a letter and contain only
// letters, numbers, and underscores.
var accountNameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// Account represents a registered user. Immutable once created except
// through an administrative update path outside this core. Names are unique
// case-insensitively; the stored Name preserves the registration casing.
type Account struct {
	ID           ulid.ULID
	Name         string
	PasswordHash string
	PasswordSalt string
	CreatedAt    time.Time
}

// ValidateAccountName validates an account name against rules:
// MinAccountNameLength to MaxAccountNameLength characters, starting with a
// letter, containing only letters, numbers, and underscores.
func ValidateAccountName(name string) error {
	if name == "" {
		return oops.Code(CodeInvalidName).Errorf("account name cannot be empty")
	}
	if len(name) < MinAccountNameLength {
		return oops.Code(CodeInvalidName).
			With("min", MinAccountNameLength).
			Errorf("account name must be at least %d characters", MinAccountNameLength)
	}
	if len(name) > MaxAccountNameLength {
		return oops.Code(CodeInvalidName).
			With("max", MaxAccountNameLength).
			Errorf("account name must be at most %d characters", MaxAccountNameLength)
	}
	if !accountNameRegex.MatchString(name) {
		return oops.Code(CodeInvalidName).
			Errorf("account name must start with a letter and contain only letters, numbers, and underscores")
	}
	return nil
}

// AccountRepository manages account persistence. Lookups are
// case-insensitive on name.
type AccountRepository interface {
	// Create stores a new account. Returns an error wrapping
	// ErrAccountExists if the name is already taken (case-insensitive).
	Create(ctx context.Context, account *Account) error

	// GetByName retrieves an account by name (case-insensitive).
	// Returns an error wrapping ErrNotFound if no such account exists.
	GetByName(ctx context.Context, name string) (*Account, error)

	// Exists reports whether an account with the name exists (case-insensitive).
	Exists(ctx context.Context, name string) (bool, error)
}
