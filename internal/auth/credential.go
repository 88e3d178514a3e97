// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

// Package auth provides account and credential primitives for EmberVeil.
package auth

import (
	"crypto/rand"
	"crypto/sha1" //nolint:gosec // PBKDF2-SHA1 per the stored credential format
	"crypto/subtle"
	"encoding/base64"

	"github.com/samber/oops"
	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2 credential parameters. The iteration count is fixed: changing it
// invalidates every stored hash, since the count is not embedded in the
// encoded credential.
const (
	pbkdf2Iterations = 10000
	pbkdf2SaltLen    = 16 // salt length in bytes
	pbkdf2KeyLen     = 20 // derived key length in bytes
)

// Credential input errors.
var (
	// ErrEmptyPassword is returned when attempting to hash an empty password.
	ErrEmptyPassword = oops.Code("AUTH_EMPTY_PASSWORD").Errorf("password cannot be empty")

	// ErrEmptySalt is returned when attempting to hash with an empty salt.
	ErrEmptySalt = oops.Code("AUTH_EMPTY_SALT").Errorf("salt cannot be empty")
)

// PasswordHasher provides salted password hashing and verification.
type PasswordHasher interface {
	// GenerateSalt produces a fresh random salt, base64-encoded.
	GenerateSalt() (string, error)

	// Hash derives a credential from password and base64 salt.
	// The result embeds the salt: base64(salt || digest).
	Hash(password, salt string) (string, error)

	// Verify checks the password against a stored credential.
	// Returns (true, nil) on match, (false, nil) on mismatch, or error on invalid input.
	Verify(password, encoded string) (bool, error)
}

// PBKDF2Hasher implements PasswordHasher using PBKDF2-SHA1.
type PBKDF2Hasher struct{}

// NewPBKDF2Hasher creates a new PBKDF2Hasher.
func NewPBKDF2Hasher() *PBKDF2Hasher {
	return &PBKDF2Hasher{}
}

// GenerateSalt produces a fresh 16-byte random salt, base64-encoded.
func (h *PBKDF2Hasher) GenerateSalt() (string, error) {
	salt := make([]byte, pbkdf2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", oops.Code("AUTH_SALT_FAILED").Wrap(err)
	}
	return base64.StdEncoding.EncodeToString(salt), nil
}

// Hash derives a 20-byte PBKDF2 digest from password and salt and returns
// base64(salt || digest). Deterministic for a given password and salt.
func (h *PBKDF2Hasher) Hash(password, salt string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	if salt == "" {
		return "", ErrEmptySalt
	}

	saltBytes, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return "", oops.Code("AUTH_INVALID_SALT").
			With("salt", salt).
			Wrap(err)
	}

	digest := pbkdf2.Key([]byte(password), saltBytes, pbkdf2Iterations, pbkdf2KeyLen, sha1.New)

	combined := make([]byte, 0, len(saltBytes)+len(digest))
	combined = append(combined, saltBytes...)
	combined = append(combined, digest...)
	return base64.StdEncoding.EncodeToString(combined), nil
}

// Verify checks the password against a stored credential by extracting the
// embedded salt, recomputing the digest, and comparing in constant time.
func (h *PBKDF2Hasher) Verify(password, encoded string) (bool, error) {
	if password == "" {
		return false, ErrEmptyPassword
	}
	if encoded == "" {
		return false, oops.Code("AUTH_INVALID_HASH").Errorf("stored credential cannot be empty")
	}

	combined, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return false, oops.Code("AUTH_INVALID_HASH").Wrap(err)
	}
	if len(combined) != pbkdf2SaltLen+pbkdf2KeyLen {
		return false, oops.Code("AUTH_INVALID_HASH").
			With("length", len(combined)).
			Errorf("credential has unexpected length")
	}

	salt := combined[:pbkdf2SaltLen]
	expected := combined[pbkdf2SaltLen:]

	computed := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLen, sha1.New)

	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}

// Salt extracts the base64 salt embedded in a stored credential.
func (h *PBKDF2Hasher) Salt(encoded string) (string, error) {
	combined, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", oops.Code("AUTH_INVALID_HASH").Wrap(err)
	}
	if len(combined) < pbkdf2SaltLen {
		return "", oops.Code("AUTH_INVALID_HASH").
			With("length", len(combined)).
			Errorf("credential too short to contain salt")
	}
	return base64.StdEncoding.EncodeToString(combined[:pbkdf2SaltLen]), nil
}
