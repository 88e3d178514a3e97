// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

package auth_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberveil/emberveil/internal/auth"
)

func TestGenerateSalt(t *testing.T) {
	hasher := auth.NewPBKDF2Hasher()

	t.Run("produces valid base64 of 16 bytes", func(t *testing.T) {
		salt, err := hasher.GenerateSalt()
		require.NoError(t, err)

		raw, err := base64.StdEncoding.DecodeString(salt)
		require.NoError(t, err)
		assert.Len(t, raw, 16)
	})

	t.Run("successive salts differ", func(t *testing.T) {
		s1, err := hasher.GenerateSalt()
		require.NoError(t, err)
		s2, err := hasher.GenerateSalt()
		require.NoError(t, err)
		assert.NotEqual(t, s1, s2)
	})
}

func TestHashPassword(t *testing.T) {
	hasher := auth.NewPBKDF2Hasher()

	t.Run("deterministic for same password and salt", func(t *testing.T) {
		salt, err := hasher.GenerateSalt()
		require.NoError(t, err)

		h1, err := hasher.Hash("Passw0rd", salt)
		require.NoError(t, err)
		h2, err := hasher.Hash("Passw0rd", salt)
		require.NoError(t, err)
		assert.Equal(t, h1, h2)
	})

	t.Run("different salts produce different hashes", func(t *testing.T) {
		s1, err := hasher.GenerateSalt()
		require.NoError(t, err)
		s2, err := hasher.GenerateSalt()
		require.NoError(t, err)

		h1, err := hasher.Hash("Passw0rd", s1)
		require.NoError(t, err)
		h2, err := hasher.Hash("Passw0rd", s2)
		require.NoError(t, err)
		assert.NotEqual(t, h1, h2)
	})

	t.Run("embeds salt and 20-byte digest", func(t *testing.T) {
		salt, err := hasher.GenerateSalt()
		require.NoError(t, err)

		encoded, err := hasher.Hash("Passw0rd", salt)
		require.NoError(t, err)

		raw, err := base64.StdEncoding.DecodeString(encoded)
		require.NoError(t, err)
		assert.Len(t, raw, 16+20)

		embedded, err := hasher.Salt(encoded)
		require.NoError(t, err)
		assert.Equal(t, salt, embedded)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		salt, err := hasher.GenerateSalt()
		require.NoError(t, err)

		_, err = hasher.Hash("", salt)
		assert.ErrorIs(t, err, auth.ErrEmptyPassword)
	})

	t.Run("rejects empty salt", func(t *testing.T) {
		_, err := hasher.Hash("Passw0rd", "")
		assert.ErrorIs(t, err, auth.ErrEmptySalt)
	})

	t.Run("rejects malformed salt", func(t *testing.T) {
		_, err := hasher.Hash("Passw0rd", "not base64!!!")
		assert.Error(t, err)
	})
}

func TestVerifyPassword(t *testing.T) {
	hasher := auth.NewPBKDF2Hasher()

	t.Run("correct password verifies", func(t *testing.T) {
		salt, err := hasher.GenerateSalt()
		require.NoError(t, err)
		encoded, err := hasher.Hash("Passw0rd", salt)
		require.NoError(t, err)

		ok, err := hasher.Verify("Passw0rd", encoded)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("incorrect password fails", func(t *testing.T) {
		salt, err := hasher.GenerateSalt()
		require.NoError(t, err)
		encoded, err := hasher.Hash("Passw0rd", salt)
		require.NoError(t, err)

		ok, err := hasher.Verify("Other1pw", encoded)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		_, err := hasher.Verify("", "anything")
		assert.Error(t, err)
	})

	t.Run("rejects truncated credential", func(t *testing.T) {
		short := base64.StdEncoding.EncodeToString([]byte("too short"))
		_, err := hasher.Verify("Passw0rd", short)
		assert.Error(t, err)
	})
}
