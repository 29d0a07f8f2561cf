// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package multiextract

import "fmt"

// needsFullItem reports whether the full metadata of the next item must be loaded for the
// selection. Otherwise only the cheap alt-stream check is used.
func needsFullItem(cfg *Config, allAllowed bool, elim *elimination) bool {
	return elim.active || !allAllowed || cfg.ExcludeDirItems() || cfg.ExcludeFileItems()
}

// selectItems walks all entries of arc and returns the indices that are extracted, in
// ascending order. The elimination is checked against every entry that passes the
// exclusion and alt-stream filters, before the censor is consulted.
func selectItems(arc Archive, censor Censor, cfg *Config, elim *elimination, td *TelemetryData) ([]int, error) {
	numItems, err := arc.NumItems()
	if err != nil {
		return nil, fmt.Errorf("cannot get number of items: %w", err)
	}

	allAllowed := censor.AreAllAllowed()
	indices := make([]int, 0, numItems)

	for i := 0; i < numItems; i++ {
		var item Item
		if needsFullItem(cfg, allAllowed, elim) {
			if item, err = arc.Item(i); err != nil {
				return nil, fmt.Errorf("cannot get item %d: %w", i, err)
			}
			if item.IsDir && cfg.ExcludeDirItems() {
				td.DirExcluded++
				continue
			}
			if !item.IsDir && cfg.ExcludeFileItems() {
				td.FileExcluded++
				continue
			}
		} else if !cfg.AltStreams() {
			if item.IsAltStream, err = arc.IsAltStream(i); err != nil {
				return nil, fmt.Errorf("cannot check item %d: %w", i, err)
			}
		}

		if !cfg.AltStreams() && item.IsAltStream {
			td.AltStreamsSkipped++
			continue
		}

		elim.check(item)

		if !allAllowed && !censor.CheckPath(item) {
			td.CensorMismatches++
			continue
		}

		indices = append(indices, i)
	}

	return indices, nil
}
