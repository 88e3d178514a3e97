// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

package auth

import (
	"github.com/samber/oops"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 5

// ValidatePassword checks a candidate password against the account policy.
// It is a pure predicate independent of any stored account, so callers can
// pre-validate before attempting creation.
//
// Policy: at least MinPasswordLength characters, alphanumeric only,
// at least one letter and at least one digit.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return oops.Code(CodeWeakPassword).
			With("min", MinPasswordLength).
			Errorf("password must be at least %d characters", MinPasswordLength)
	}

	var letters, digits int
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			letters++
		case r >= '0' && r <= '9':
			digits++
		default:
			return oops.Code(CodeWeakPassword).
				Errorf("password must contain only letters and digits")
		}
	}
	if letters == 0 || digits == 0 {
		return oops.Code(CodeWeakPassword).
			Errorf("password must contain at least one letter and one digit")
	}
	return nil
}
