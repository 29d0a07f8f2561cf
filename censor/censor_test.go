// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package censor

import (
	"testing"

	multiextract "github.com/hashicorp/go-multiextract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPath(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		item    multiextract.Item
		allowed bool
	}{
		{
			name:    "no patterns",
			item:    multiextract.Item{Path: "a/b.txt"},
			allowed: true,
		},
		{
			name:    "include by extension at any level",
			opts:    []Option{WithInclude("*.txt")},
			item:    multiextract.Item{Path: "a/b/c.txt"},
			allowed: true,
		},
		{
			name:    "include by extension mismatch",
			opts:    []Option{WithInclude("*.txt")},
			item:    multiextract.Item{Path: "a/b/c.bin"},
			allowed: false,
		},
		{
			name:    "include directory recursively",
			opts:    []Option{WithInclude("docs")},
			item:    multiextract.Item{Path: "src/docs/readme.md"},
			allowed: true,
		},
		{
			name:    "include path pattern",
			opts:    []Option{WithInclude("docs/*")},
			item:    multiextract.Item{Path: "docs/api/index.html"},
			allowed: true,
		},
		{
			name:    "path pattern is anchored",
			opts:    []Option{WithInclude("docs/*")},
			item:    multiextract.Item{Path: "src/docs/index.html"},
			allowed: false,
		},
		{
			name:    "exclude wins",
			opts:    []Option{WithInclude("*.txt"), WithExclude("tmp")},
			item:    multiextract.Item{Path: "tmp/a.txt"},
			allowed: false,
		},
		{
			name:    "case insensitive",
			opts:    []Option{WithInclude("*.TXT"), WithCaseInsensitive(true)},
			item:    multiextract.Item{Path: "A.txt"},
			allowed: true,
		},
		{
			name:    "alt stream follows main path",
			opts:    []Option{WithInclude("*.txt")},
			item:    multiextract.Item{Path: "a.txt:zone", MainPath: "a.txt", IsAltStream: true},
			allowed: true,
		},
		{
			name:    "leading dot slash",
			opts:    []Option{WithInclude("./docs/*")},
			item:    multiextract.Item{Path: "docs/a"},
			allowed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.opts...)
			require.NoError(t, err)
			assert.Equal(t, tt.allowed, c.CheckPath(tt.item))
		})
	}
}

func TestAreAllAllowed(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	assert.True(t, c.AreAllAllowed())

	c, err = New(WithExclude("*.tmp"))
	require.NoError(t, err)
	assert.False(t, c.AreAllAllowed())
}

func TestNewInvalidPattern(t *testing.T) {
	_, err := New(WithInclude("[a-"))
	assert.Error(t, err)
}
