// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

// Package postgres provides PostgreSQL-backed repositories for the auth package.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/emberveil/emberveil/internal/auth"
)

// pool is the subset of pgxpool.Pool used by repositories.
// pgxmock.PgxPoolIface satisfies it in tests.
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// AccountRepository implements auth.AccountRepository using PostgreSQL.
type AccountRepository struct {
	pool pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create stores a new account. A unique violation on the lowercased name
// index maps to auth.ErrAccountExists.
func (r *AccountRepository) Create(ctx context.Context, account *auth.Account) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounts (id, name, password_hash, password_salt, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		account.ID.String(),
		account.Name,
		account.PasswordHash,
		account.PasswordSalt,
		account.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code(auth.CodeAccountExists).
				With("name", account.Name).
				Wrap(auth.ErrAccountExists)
		}
		return oops.Code("ACCOUNT_CREATE_FAILED").
			With("operation", "insert account").
			With("name", account.Name).
			Wrap(err)
	}
	return nil
}

// GetByName retrieves an account by name (case-insensitive).
func (r *AccountRepository) GetByName(ctx context.Context, name string) (*auth.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, password_hash, password_salt, created_at
		FROM accounts
		WHERE LOWER(name) = LOWER($1)
	`, name)

	account, err := scanAccount(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ACCOUNT_NOT_FOUND").
			With("name", name).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ACCOUNT_GET_BY_NAME_FAILED").
			With("operation", "get account by name").
			With("name", name).
			Wrap(err)
	}
	return account, nil
}

// Exists reports whether an account with the name exists (case-insensitive).
func (r *AccountRepository) Exists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM accounts WHERE LOWER(name) = LOWER($1))
	`, name).Scan(&exists)
	if err != nil {
		return false, oops.Code("ACCOUNT_EXISTS_FAILED").
			With("operation", "account exists").
			With("name", name).
			Wrap(err)
	}
	return exists, nil
}

// scanAccount scans a single row into an Account.
// Callers are responsible for handling pgx.ErrNoRows.
func scanAccount(row pgx.Row) (*auth.Account, error) {
	var (
		idStr        string
		name         string
		passwordHash string
		passwordSalt string
		createdAt    time.Time
	)

	err := row.Scan(&idStr, &name, &passwordHash, &passwordSalt, &createdAt)
	if err != nil {
		// Propagate pgx.ErrNoRows unchanged for callers to handle with context.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("ACCOUNT_SCAN_FAILED").
			With("operation", "scan account").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("ACCOUNT_INVALID_ID").
			With("operation", "parse account id").
			With("id", idStr).
			Wrap(err)
	}

	return &auth.Account{
		ID:           id,
		Name:         name,
		PasswordHash: passwordHash,
		PasswordSalt: passwordSalt,
		CreatedAt:    createdAt,
	}, nil
}

// Compile-time interface check.
var _ auth.AccountRepository = (*AccountRepository)(nil)
