// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package multiextract

import (
	"context"
	"fmt"
	"path/filepath"
)

// decompressArchive extracts the selected entries of the innermost archive of chain into
// the output directory. packSize is the physical size of the archive, all volumes
// included. The returned number of consumed input bytes is only known in stdin mode.
//
// The raw outcome of the extraction is passed through [Callback.ExtractResult]. A failure
// to create the output directory is returned directly and recorded as the error message
// of the run.
func decompressArchive(ctx context.Context, r *run, chain *ArchiveChain, packSize uint64) (uint64, error) {
	cfg := r.cfg
	arc := chain.Innermost()

	// resolve output directory
	name := archiveDisplayName(chain)
	outDir := resolveOutputDir(cfg.OutputDir(), name)

	elim := newElimination(cfg, outDir)

	var indices []int
	if !cfg.StdInMode() {
		var err error
		if indices, err = selectItems(arc, r.censor, cfg, &elim, r.td); err != nil {
			return 0, err
		}

		if cfg.SmartExtract() {
			multiple, err := hasMultipleTopLevelEntries(arc)
			if err != nil {
				return 0, err
			}
			if multiple {
				outDir = filepath.Join(outDir, correctFsFileName(name))
				cfg.Logger().Debug("smart extract into folder", "dir", outDir)
			}
		}

		if len(indices) == 0 {
			cfg.Logger().Info("no files selected", "archive", name)
			if err := r.cb.ThereAreNoFiles(); err != nil {
				return 0, err
			}
			return 0, r.cb.ExtractResult(nil)
		}
	}

	removePathParts := elim.removePathParts()
	if len(removePathParts) > 0 {
		cfg.Logger().Debug("eliminate duplicate folder", "folder", removePathParts[0])
	}

	var (
		consumed uint64
		dirErr   error
	)
	result := func() (err error) {
		defer func() {
			if cerr := r.session.close(); cerr != nil {
				if err == nil {
					err = cerr
				} else {
					cfg.Logger().Warn("cannot close extraction session", "error", cerr)
				}
			}
		}()

		// create output directory
		if outDir == "" {
			outDir = "."
		} else if err := cfg.Target().CreateDir(outDir, cfg.CustomCreateDirMode()); err != nil {
			dirErr = &FatalIOError{Message: "Cannot create output directory", Path: outDir, Err: err}
			return dirErr
		}

		var stdinCensor Censor
		if cfg.StdInMode() {
			stdinCensor = r.censor
		}
		r.session.init(arc, stdinCensor, outDir, removePathParts, packSize)

		if cfg.HardLinks() && !cfg.StdInMode() && !cfg.TestMode() {
			if err := r.session.prepareHardLinks(indices); err != nil {
				return err
			}
		}

		testMode := cfg.TestMode() && cfg.HashSink() == nil

		if cfg.StdInMode() {
			err = arc.Extract(ctx, nil, testMode, r.session)
			if v, ok := arc.Property(PropPhysicalSize); ok {
				if n, ok := v.(uint64); ok {
					consumed = n
				}
			}
			return err
		}

		if err := r.session.SetCompleted(0); err != nil {
			return err
		}
		return arc.Extract(ctx, indices, testMode, r.session)
	}()

	if dirErr != nil {
		r.errorMessage = dirErr.Error()
		cfg.Logger().Error("cannot create output directory", "dir", outDir, "error", dirErr)
		return 0, dirErr
	}
	if result != nil && !isAbort(result) {
		result = fmt.Errorf("cannot extract %s: %w", name, result)
	}
	return consumed, r.cb.ExtractResult(result)
}
