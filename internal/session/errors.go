// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

package session

import "github.com/samber/oops"

// Error codes for session operations. The first three are invariant
// violations; UnknownAccount is a policy rejection.
const (
	CodeAlreadyLoggedIn = "SESSION_ALREADY_LOGGED_IN"
	CodeAccountInUse    = "SESSION_ACCOUNT_IN_USE"
	CodeNotLoggedIn     = "SESSION_NOT_LOGGED_IN"
	CodeUnknownAccount  = "SESSION_UNKNOWN_ACCOUNT"
)

// ErrAlreadyLoggedIn creates an error for a connection that already has a session.
func ErrAlreadyLoggedIn(conn string) error {
	return oops.Code(CodeAlreadyLoggedIn).
		With("conn", conn).
		Errorf("connection is already logged in")
}

// ErrAccountInUse creates an error for an account mapped to another connection.
func ErrAccountInUse(account string) error {
	return oops.Code(CodeAccountInUse).
		With("account", account).
		Errorf("account %s is already logged in", account)
}

// ErrNotLoggedIn creates an error for a connection with no session.
func ErrNotLoggedIn(conn string) error {
	return oops.Code(CodeNotLoggedIn).
		With("conn", conn).
		Errorf("connection is not logged in")
}

// ErrUnknownAccount creates an error for a forced login against a missing account.
func ErrUnknownAccount(name string) error {
	return oops.Code(CodeUnknownAccount).
		With("name", name).
		Errorf("unknown account: %s", name)
}
