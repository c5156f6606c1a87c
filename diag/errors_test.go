// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package diag

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{FormatError, "FormatError"},
		{ParseError, "ParseError"},
		{InvalidResource, "InvalidResource"},
		{IndexOutOfRange, "IndexOutOfRange"},
		{InvalidIdentifier, "InvalidIdentifier"},
		{UnsupportedVersion, "UnsupportedVersion"},
		{Kind(0), "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.String())
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := Errorf(IndexOutOfRange, "index %d out of range for %d resources", 3, 2)
	assert.Equal(t, "IndexOutOfRange: index 3 out of range for 2 resources", err.Error())
}

func TestIsKindThroughWrapping(t *testing.T) {
	base := New(ParseError, "irreducible control flow in function %5")
	wrapped := fmt.Errorf("parse module: %w", base)

	require.True(t, IsKind(wrapped, ParseError))
	require.False(t, IsKind(wrapped, FormatError))
	require.Equal(t, ParseError, KindOf(wrapped))

	require.False(t, IsKind(nil, ParseError))
	require.Equal(t, Kind(0), KindOf(errors.New("plain")))
}
