// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package multiextract

import (
	"context"
	"io/fs"
	"path/filepath"
	"time"
)

// run is the state of one [Extract] call.
type run struct {
	cfg     *Config
	cb      Callback
	censor  Censor
	td      *TelemetryData
	session *session

	paths []string
	sizes []uint64
	skip  []bool

	// total is the number of physically distinct input bytes of the run
	total uint64

	// processed is the number of input bytes consumed so far, failed archives included
	processed uint64

	numArchives  uint64
	openFailed   bool
	errorMessage string
	volumes      *volumeIndex
}

// Extract extracts the archives at arcPaths in the given order, using e to open them.
// Archives that are volumes of a split archive listed earlier are not extracted again.
// A nil censor selects all entries and a nil cfg uses the defaults.
//
// Archives that cannot be opened are reported to cb and skipped. The returned error is
// the failure that stopped the run; the [Result] is returned in any case.
func Extract(ctx context.Context, e Engine, arcPaths []string, censor Censor, cb Callback, cfg *Config) (*Result, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	if censor == nil {
		censor = allowAll{}
	}
	// stdin carries a single archive, the first path only names it
	if cfg.StdInMode() {
		name := ""
		if len(arcPaths) > 0 {
			name = arcPaths[0]
		}
		arcPaths = []string{name}
	}

	// setup telemetry hook
	td := newTelemetryData()
	td.Archives = int64(len(arcPaths))
	defer cfg.TelemetryHook()(ctx, td)
	defer captureExtractionDuration(td, now())

	r := &run{
		cfg:    cfg,
		cb:     cb,
		censor: censor,
		td:     td,
		paths:  arcPaths,
		sizes:  make([]uint64, len(arcPaths)),
		skip:   make([]bool, len(arcPaths)),
	}
	res := &Result{}
	defer r.finish(res)

	cfg.Logger().Info("extract archives", "run_id", td.RunID, "archives", len(arcPaths))

	// check archive paths upfront
	if !cfg.StdInMode() {
		for i, p := range arcPaths {
			stat, err := statArchive(cfg.Target(), p)
			if err != nil {
				r.errorMessage = err.Error()
				return res, err
			}
			r.sizes[i] = uint64(stat.Size())
			r.total += r.sizes[i]
		}
	}

	multi := len(arcPaths) > 1
	r.session = newSession(cfg, cb, td, multi)
	if multi {
		if err := cb.SetTotal(r.total); err != nil {
			return res, err
		}
	}

	for i := range arcPaths {
		if r.skip[i] {
			continue
		}
		if err := r.extractArchive(ctx, e, i); err != nil {
			return res, err
		}
	}

	if multi || r.openFailed {
		if err := cb.SetTotal(r.total); err != nil {
			return res, err
		}
		if err := cb.SetCompleted(r.processed); err != nil {
			return res, err
		}
	}

	cfg.Logger().Info("extraction finished", "stat", r.session.stat().String())
	return res, nil
}

// finish fills res and the telemetry data from the counters of the run.
func (r *run) finish(res *Result) {
	if r.session != nil {
		res.Stat = r.session.stat()
		res.Stat.NumArchives = r.numArchives
		res.ItemErrors = r.session.itemErrors.ErrorOrNil()
	}
	res.ErrorMessage = r.errorMessage
	r.td.Stat = res.Stat
}

// extractArchive opens and extracts the archive at position i of the path list. Open
// failures are reported and do not stop the run.
func (r *run) extractArchive(ctx context.Context, e Engine, i int) error {
	cfg := r.cfg
	p := r.paths[i]
	stdin := cfg.StdInMode()

	r.session.initBeforeNewArchive()

	var (
		size    uint64
		modTime time.Time
		special bool
	)
	if !stdin {
		stat, err := statArchive(cfg.Target(), p)
		if err != nil {
			r.errorMessage = err.Error()
			return err
		}
		size = uint64(stat.Size())
		modTime = stat.ModTime()
		special = stat.Mode()&(fs.ModeDevice|fs.ModeCharDevice|fs.ModeNamedPipe|fs.ModeSocket) != 0
	}

	if err := r.cb.BeforeOpen(p, cfg.TestMode()); err != nil {
		return err
	}

	req := OpenRequest{
		Path:            p,
		FormatHints:     cfg.FormatHints(),
		ExcludedFormats: cfg.ExcludedFormats(),
		Properties:      cfg.Properties(),
	}
	if stdin {
		req.Stream = cfg.Stdin()
	}

	cfg.Logger().Debug("open archive", "path", p)
	chain, openErr := e.Open(ctx, req)
	if isAbort(openErr) {
		return openErr
	}
	if openErr != nil && chain != nil {
		if err := chain.Close(); err != nil {
			cfg.Logger().Warn("cannot close archive", "path", p, "error", err)
		}
		chain = nil
	}
	if err := r.cb.OpenResult(p, chain, openErr); err != nil {
		if chain != nil {
			chain.Close()
		}
		return err
	}
	if openErr != nil {
		cfg.Logger().Warn("cannot open archive", "path", p, "error", openErr)
		r.recordOpenFailure(size)
		return nil
	}
	defer func() {
		if err := chain.Close(); err != nil {
			cfg.Logger().Warn("cannot close archive", "path", p, "error", err)
		}
	}()

	arc := chain.Innermost()
	r.td.Formats = append(r.td.Formats, arc.Format())

	if !stdin && cfg.ZoneMode() != ZoneNone {
		zone, err := cfg.Target().ReadZone(p)
		if err != nil {
			cfg.Logger().Warn("cannot read zone marker", "path", p, "error", err)
		} else {
			r.session.zone = zone
		}
	}

	if arc.IsHashHandler() {
		if !cfg.TestMode() {
			if err := r.cb.OpenResult(p, chain, ErrNotImplemented); err != nil {
				return err
			}
			cfg.Logger().Warn("checksum listing can only be tested", "path", p)
			r.recordOpenFailure(size)
			return nil
		}
		r.session.hashFilesDir = hashFilesDir(cfg.HashDir(), p)
	}

	if !stdin && len(chain.VolumePaths) > 0 {
		if err := r.skipVolumes(i, chain); err != nil {
			return err
		}
	}

	if !stdin && !special {
		chain.SetModTime(modTime)
	}

	packSize := size + chain.VolumesSize
	consumed, err := decompressArchive(ctx, r, chain, packSize)
	if err != nil {
		return err
	}
	r.numArchives++

	if !stdin {
		consumed = packSize
	}
	r.processed += consumed
	r.session.inSize += consumed
	r.session.outSize = r.session.unpackSize

	if r.errorMessage != "" {
		return ErrFail
	}
	return nil
}

// recordOpenFailure records an archive that was not extracted. Its bytes still count as processed.
func (r *run) recordOpenFailure(size uint64) {
	r.openFailed = true
	r.td.OpenFailures++
	if !r.cfg.StdInMode() {
		r.processed += size
	}
}

// skipVolumes marks the volumes of chain that are listed after position i, so they are
// not extracted again, and corrects the total by the sizes of those volumes.
func (r *run) skipVolumes(i int, chain *ArchiveChain) error {
	if r.volumes == nil {
		r.volumes = newVolumeIndex(r.paths)
	}

	correction := int64(chain.VolumesSize)
	for _, v := range chain.VolumePaths {
		index := r.volumes.find(v)
		if index <= i {
			continue
		}
		if !r.skip[index] {
			r.td.SkippedVolumes++
		}
		r.skip[index] = true
		correction -= int64(r.sizes[index])
		r.cfg.Logger().Debug("skip volume", "path", r.paths[index], "archive", r.paths[i])
	}

	if correction == 0 {
		return nil
	}
	total := int64(r.total) + correction
	if total < 0 {
		total = 0
	}
	r.total = uint64(total)
	return r.cb.SetTotal(r.total)
}

// statArchive returns the file info of an archive path, following links.
func statArchive(t Target, p string) (fs.FileInfo, error) {
	stat, err := t.Stat(p)
	if err != nil {
		return nil, &FatalIOError{Message: "Cannot find archive file", Path: p, Err: err}
	}
	if stat.IsDir() {
		return nil, &FatalIOError{Message: "The item is a directory", Path: p, Err: ErrFail}
	}
	return stat, nil
}

// hashFilesDir returns the directory that the files of a checksum listing are relative to.
func hashFilesDir(hashDir string, arcPath string) string {
	if hashDir != "" {
		return hashDir
	}
	if abs, err := filepath.Abs(arcPath); err == nil {
		arcPath = abs
	}
	return filepath.Dir(arcPath)
}
