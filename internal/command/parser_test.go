// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

package command

import (
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
		wantArgs string
	}{
		{"command only", "WHO", "WHO", ""},
		{"command with args", "CONNECT bob secret1", "CONNECT", "bob secret1"},
		{"preserves internal whitespace", "SAY hello   world", "SAY", "hello   world"},
		{"leading whitespace trimmed", "  QUIT", "QUIT", ""},
		{"tab separator", "KICK\tBob", "KICK", "Bob"},
		{"lowercase preserved", "connect bob pw", "connect", "bob pw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, parsed.Name)
			assert.Equal(t, tt.wantArgs, parsed.Args)
			assert.Equal(t, tt.input, parsed.Raw)
		})
	}
}

func TestParseEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\t"} {
		_, err := Parse(input)
		require.Error(t, err)
		oopsErr, ok := oops.AsOops(err)
		require.True(t, ok)
		assert.Equal(t, CodeEmptyInput, oopsErr.Code())
	}
}

func TestFirstArg(t *testing.T) {
	assert.Equal(t, "Bob", FirstArg("Bob"))
	assert.Equal(t, "Bob", FirstArg("Bob because of spam"))
	assert.Equal(t, "Bob", FirstArg("  Bob  "))
	assert.Equal(t, "", FirstArg(""))
	assert.Equal(t, "", FirstArg("   "))
}
