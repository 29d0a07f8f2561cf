// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package multiextract

import "strings"

// elimination tracks whether a leading folder can be removed from all extracted paths.
// It starts active when the output directory ends with a name and is disabled by the
// first item that is not located below a folder of that name. Once disabled it stays
// disabled for the rest of the archive.
type elimination struct {
	active bool
	prefix string
}

// newElimination prepares the elimination for the resolved output directory outDir.
func newElimination(cfg *Config, outDir string) elimination {
	if !cfg.ElimDup() || cfg.PathMode() == PathModeAbsolute {
		return elimination{}
	}
	_, name := splitPathToParts(outDir)
	if len(name) == 0 {
		return elimination{}
	}
	return elimination{active: true, prefix: name}
}

// check disables the elimination if item is neither the folder itself nor located below it.
func (e *elimination) check(item Item) {
	if !e.active {
		return
	}
	p := item.MainPath
	if !strings.HasPrefix(p, e.prefix) {
		e.active = false
		return
	}
	if len(p) == len(e.prefix) {
		if !item.MainIsDir {
			e.active = false
		}
		return
	}
	if !isPathSeparator(p[len(e.prefix)]) {
		e.active = false
	}
}

// removePathParts returns the path parts that are stripped from every item path.
func (e *elimination) removePathParts() []string {
	if !e.active {
		return nil
	}
	return []string{e.prefix}
}
