// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package multiextract

import (
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// volumeIndex finds archive paths of a run by name. Sorting and searching use the same
// case-insensitive comparison, so volume names reported with a different case are found.
type volumeIndex struct {
	caser cases.Caser
	keys  []string // folded absolute paths, sorted
	pos   []int    // position of keys[i] in the path list of the run
}

// newVolumeIndex creates the index over the archive paths of a run.
func newVolumeIndex(paths []string) *volumeIndex {
	v := &volumeIndex{
		caser: cases.Fold(),
		keys:  make([]string, len(paths)),
		pos:   make([]int, len(paths)),
	}
	for i, p := range paths {
		v.keys[i] = v.key(p)
		v.pos[i] = i
	}
	sort.Sort(v)
	return v
}

// key returns the comparison key of path p.
func (v *volumeIndex) key(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	return v.caser.String(filepath.Clean(p))
}

func (v *volumeIndex) Len() int           { return len(v.keys) }
func (v *volumeIndex) Less(i, j int) bool { return strings.Compare(v.keys[i], v.keys[j]) < 0 }
func (v *volumeIndex) Swap(i, j int) {
	v.keys[i], v.keys[j] = v.keys[j], v.keys[i]
	v.pos[i], v.pos[j] = v.pos[j], v.pos[i]
}

// find returns the position of p in the path list of the run, or -1.
func (v *volumeIndex) find(p string) int {
	k := v.key(p)
	left, right := 0, len(v.keys)
	for left != right {
		mid := (left + right) / 2
		comp := strings.Compare(k, v.keys[mid])
		if comp == 0 {
			return v.pos[mid]
		}
		if comp < 0 {
			right = mid
		} else {
			left = mid + 1
		}
	}
	return -1
}
