// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

package auth

import "errors"

// Error codes for account operations. Policy rejections (weak password,
// name taken) are expected business outcomes, distinct from invariant
// violations.
const (
	CodeWeakPassword  = "AUTH_WEAK_PASSWORD"
	CodeAccountExists = "AUTH_ACCOUNT_EXISTS"
	CodeInvalidName   = "AUTH_INVALID_NAME"
)

// ErrNotFound is returned when a requested account does not exist.
var ErrNotFound = errors.New("not found")

// ErrAccountExists is returned when an account name is already taken.
var ErrAccountExists = errors.New("account exists")
