// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package multiextract

import (
	"fmt"
	"strings"
)

// hasMultipleTopLevelEntries reports whether the entries of arc are spread over more
// than one first path segment. All entries are considered, not only the selected ones.
func hasMultipleTopLevelEntries(arc Archive) (bool, error) {
	numItems, err := arc.NumItems()
	if err != nil {
		return false, fmt.Errorf("cannot get number of items: %w", err)
	}

	var first string
	for i := 0; i < numItems; i++ {
		item, err := arc.Item(i)
		if err != nil {
			return false, fmt.Errorf("cannot get item %d: %w", i, err)
		}
		segment := firstPathSegment(item.MainPath)
		if i == 0 {
			first = segment
			continue
		}
		if segment != first {
			return true, nil
		}
	}
	return false, nil
}

// firstPathSegment returns the part of p before the first slash. Backslashes are only
// considered if p contains no slash.
func firstPathSegment(p string) string {
	pos := strings.IndexByte(p, '/')
	if pos < 0 {
		pos = strings.IndexByte(p, '\\')
	}
	if pos < 0 {
		return p
	}
	return p[:pos]
}
