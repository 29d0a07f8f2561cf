// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package multiextract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewElimination(t *testing.T) {
	tests := []struct {
		name   string
		cfg    *Config
		outDir string
		active bool
		prefix string
	}{
		{name: "disabled", cfg: NewConfig(), outDir: "/a/b/c"},
		{name: "absolute path mode", cfg: NewConfig(WithElimDup(true), WithPathMode(PathModeAbsolute)), outDir: "/a/b/c"},
		{name: "empty output directory", cfg: NewConfig(WithElimDup(true)), outDir: ""},
		{name: "root", cfg: NewConfig(WithElimDup(true)), outDir: "/"},
		{name: "last part", cfg: NewConfig(WithElimDup(true)), outDir: "/a/b/c", active: true, prefix: "c"},
		{name: "trailing separator", cfg: NewConfig(WithElimDup(true)), outDir: "/a/b/c/", active: true, prefix: "c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newElimination(tt.cfg, tt.outDir)
			assert.Equal(t, tt.active, e.active)
			assert.Equal(t, tt.prefix, e.prefix)
		})
	}
}

func TestEliminationCheck(t *testing.T) {
	tests := []struct {
		name   string
		items  []Item
		active bool
	}{
		{
			name:   "folder and content",
			items:  []Item{{MainPath: "c", MainIsDir: true}, {MainPath: "c/d"}, {MainPath: "c/e/f"}},
			active: true,
		},
		{
			name:   "file named like the folder",
			items:  []Item{{MainPath: "c"}},
			active: false,
		},
		{
			name:   "name with same prefix",
			items:  []Item{{MainPath: "c/d"}, {MainPath: "cd"}},
			active: false,
		},
		{
			name:   "other folder",
			items:  []Item{{MainPath: "x/c"}},
			active: false,
		},
		{
			name:   "disabled stays disabled",
			items:  []Item{{MainPath: "x"}, {MainPath: "c/d"}},
			active: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := elimination{active: true, prefix: "c"}
			for _, item := range tt.items {
				e.check(item)
			}
			assert.Equal(t, tt.active, e.active)
			if tt.active {
				assert.Equal(t, []string{"c"}, e.removePathParts())
			} else {
				assert.Nil(t, e.removePathParts())
			}
		})
	}
}
