// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package multiextract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/bits"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
)

// maxRenameAttempts limits the search for a free file name in the rename modes.
const maxRenameAttempts = 1 << 16

// officeExtensions are the file extensions that receive the origin marker in [ZoneOffice] mode.
var officeExtensions = map[string]struct{}{
	"doc": {}, "dot": {}, "wbk": {}, "docx": {}, "docm": {}, "dotx": {}, "dotm": {}, "docb": {},
	"xls": {}, "xlt": {}, "xlm": {}, "xlsx": {}, "xlsm": {}, "xltx": {}, "xltm": {}, "xlsb": {},
	"xla": {}, "xlam": {}, "xll": {}, "xlw": {},
	"ppt": {}, "pot": {}, "pps": {}, "pptx": {}, "pptm": {}, "potx": {}, "potm": {}, "ppam": {},
	"ppsx": {}, "ppsm": {}, "sldx": {}, "sldm": {},
	"rtf": {}, "odt": {}, "ods": {}, "odp": {}, "one": {}, "pub": {}, "vsd": {}, "vsdx": {},
}

// session is the extraction callback that is shared by all archives of a run. The engine
// pushes the data of the selected items into it. It maps item paths onto the target,
// applies the overwrite policy and keeps the counters of the run.
type session struct {
	cfg    *Config
	cb     Callback
	itemCb ItemCallback
	target Target
	td     *TelemetryData
	multi  bool

	// state of the current archive
	arc             Archive
	censor          Censor
	outDir          string
	removePathParts []string
	packSize        uint64
	unpTotal        uint64
	hashFilesDir    string
	zone            ZoneMarker
	hardLinks       map[string]string
	dirs            []extractedDir
	cur             *currentItem

	// progress counters of the run
	inSize  uint64
	outSize uint64

	numFolders           uint64
	numFiles             uint64
	numAltStreams        uint64
	unpackSize           uint64
	altStreamsUnpackSize uint64
	itemErrors           *multierror.Error
}

// currentItem is the item between GetStream and SetOperationResult.
type currentItem struct {
	index   int
	item    Item
	outPath string
	w       io.WriteCloser
	altData *bytes.Buffer
	hashing bool
	skipped bool
	failed  error
}

// extractedDir is a created directory whose attributes are set when the archive is closed.
type extractedDir struct {
	path    string
	mode    fs.FileMode
	modTime time.Time
}

// newSession creates the session of a run. multi is set if more than one archive is
// processed, which turns the item progress into progress of packed bytes.
func newSession(cfg *Config, cb Callback, td *TelemetryData, multi bool) *session {
	s := &session{
		cfg:    cfg,
		cb:     cb,
		target: cfg.Target(),
		td:     td,
		multi:  multi,
	}
	if ic, ok := cb.(ItemCallback); ok {
		s.itemCb = ic
	}
	return s
}

// initBeforeNewArchive resets the archive related state that is set by the driver before
// the archive is extracted.
func (s *session) initBeforeNewArchive() {
	s.zone = nil
	s.hashFilesDir = ""
}

// init prepares the extraction of arc. censor is only set in stdin mode, where the
// selection happens while the items are streamed.
func (s *session) init(arc Archive, censor Censor, outDir string, removePathParts []string, packSize uint64) {
	s.arc = arc
	s.censor = censor
	s.outDir = outDir
	s.removePathParts = removePathParts
	s.packSize = packSize
	s.unpTotal = 0
	s.hardLinks = nil
	s.dirs = nil
	s.cur = nil
}

// prepareHardLinks registers the archive paths that selected hard link items refer to, so
// that their output paths are remembered while they are extracted.
func (s *session) prepareHardLinks(indices []int) error {
	s.hardLinks = map[string]string{}
	for _, i := range indices {
		item, err := s.arc.Item(i)
		if err != nil {
			return fmt.Errorf("cannot get item %d: %w", i, err)
		}
		if item.HardLink != "" {
			s.hardLinks[item.HardLink] = ""
		}
	}
	return nil
}

// close finishes the current archive: an item left open by an aborted extraction is
// closed and the attributes of the created directories are applied, deepest first.
func (s *session) close() error {
	var result *multierror.Error
	if s.cur != nil && s.cur.w != nil {
		if err := s.cur.w.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	s.cur = nil

	for i := len(s.dirs) - 1; i >= 0; i-- {
		d := s.dirs[i]
		if d.mode != 0 {
			if err := s.target.Chmod(d.path, d.mode); err != nil {
				result = multierror.Append(result, fmt.Errorf("cannot set mode of %s: %w", d.path, err))
			}
		}
		if !d.modTime.IsZero() {
			if err := s.target.Chtimes(d.path, d.modTime, d.modTime); err != nil {
				result = multierror.Append(result, fmt.Errorf("cannot set times of %s: %w", d.path, err))
			}
		}
	}
	s.dirs = nil
	s.arc = nil
	return result.ErrorOrNil()
}

// stat returns the statistics of all items processed so far.
func (s *session) stat() DecompressStat {
	return DecompressStat{
		NumFolders:           s.numFolders,
		NumFiles:             s.numFiles,
		NumAltStreams:        s.numAltStreams,
		UnpackSize:           s.unpackSize,
		AltStreamsUnpackSize: s.altStreamsUnpackSize,
		PackSize:             s.inSize,
	}
}

// SetTotal implements [ExtractCallback].
func (s *session) SetTotal(total uint64) error {
	s.unpTotal = total
	if !s.multi {
		return s.cb.SetTotal(total)
	}
	return nil
}

// SetCompleted implements [ExtractCallback]. In multi mode the unpacked bytes are scaled
// to the packed size of the current archive.
func (s *session) SetCompleted(completed uint64) error {
	if !s.multi {
		return s.cb.SetCompleted(completed)
	}
	packCur := s.inSize
	if s.unpTotal != 0 {
		packCur += mulDiv(completed, s.packSize, s.unpTotal)
	}
	return s.cb.SetCompleted(packCur)
}

// mulDiv returns a*b/c without intermediate overflow, saturated at the maximum uint64.
func mulDiv(a, b, c uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi >= c {
		return ^uint64(0)
	}
	q, _ := bits.Div64(hi, lo, c)
	return q
}

// HashFilesDir implements [ExtractCallback].
func (s *session) HashFilesDir() string {
	return s.hashFilesDir
}

// GetStream implements [ExtractCallback].
func (s *session) GetStream(index int) (io.WriteCloser, error) {
	item, err := s.arc.Item(index)
	if err != nil {
		return nil, fmt.Errorf("cannot get item %d: %w", index, err)
	}
	s.cur = &currentItem{index: index, item: item}

	if s.censor != nil && !s.selected(item) {
		s.cur.skipped = true
		return nil, nil
	}

	if s.itemCb != nil {
		if err := s.itemCb.PrepareOperation(item.Path, item.IsDir); err != nil {
			return nil, err
		}
	}

	var w io.WriteCloser
	switch {
	case s.cfg.TestMode():
		w = s.hashWriter(nil)
	case s.cfg.StdOutMode():
		if !item.IsDir && !item.IsAltStream {
			w = s.hashWriter(nopWriteCloser{s.cfg.Stdout()})
		}
	default:
		w, err = s.openOutput()
		if err != nil {
			s.cur.failed = err
			w = nil
		}
	}
	s.cur.w = w
	return w, nil
}

// selected applies the item selection in stdin mode.
func (s *session) selected(item Item) bool {
	if item.IsDir && s.cfg.ExcludeDirItems() {
		s.td.DirExcluded++
		return false
	}
	if !item.IsDir && s.cfg.ExcludeFileItems() {
		s.td.FileExcluded++
		return false
	}
	if item.IsAltStream && !s.cfg.AltStreams() {
		s.td.AltStreamsSkipped++
		return false
	}
	if !s.censor.AreAllAllowed() && !s.censor.CheckPath(item) {
		s.td.CensorMismatches++
		return false
	}
	return true
}

// hashWriter passes the data of the current item to the hash sink, if one is configured.
// A nil w discards the data after hashing.
func (s *session) hashWriter(w io.WriteCloser) io.WriteCloser {
	sink := s.cfg.HashSink()
	if sink == nil {
		return w
	}
	sink.Begin(s.cur.item.Path)
	s.cur.hashing = true
	if s.cur.item.IsDir {
		return w
	}
	if w == nil {
		w = nopWriteCloser{io.Discard}
	}
	return &hashWriteCloser{w: w, h: sink}
}

// openOutput materializes the current item on the target and returns the writer for its
// data. Items without data return a nil writer.
func (s *session) openOutput() (io.WriteCloser, error) {
	item := s.cur.item
	rel, ok := s.outputPath(item)
	if !ok {
		s.cur.skipped = !item.IsDir
		return nil, nil
	}
	dst, name := s.outDir, rel
	if filepath.IsAbs(rel) {
		dst = filepath.VolumeName(rel) + string(os.PathSeparator)
		name = rel[len(dst):]
	}

	if item.IsAltStream {
		s.cur.outPath = filepath.Join(dst, name)
		s.cur.altData = &bytes.Buffer{}
		return s.hashWriter(nopWriteCloser{limitWriter(s.cur.altData, s.cfg.MaxExtractionSize())}), nil
	}

	if item.IsDir {
		if err := createDir(s.target, dst, name, s.cfg.CustomCreateDirMode(), s.cfg); err != nil {
			return nil, fmt.Errorf("cannot create directory: %w", err)
		}
		s.cur.outPath = filepath.Join(dst, name)
		s.dirs = append(s.dirs, extractedDir{path: s.cur.outPath, mode: item.Mode.Perm(), modTime: item.ModTime})
		return s.hashWriter(nil), nil
	}

	name, skip, err := s.resolveExisting(dst, name)
	if err != nil {
		return nil, err
	}
	if skip {
		s.td.ExistingSkipped++
		s.cfg.Logger().Debug("skip existing file", "path", filepath.Join(dst, name))
		s.cur.skipped = true
		return nil, nil
	}
	s.cur.outPath = filepath.Join(dst, name)
	overwrite := s.cfg.OverwriteMode() == OverwriteAll

	switch {
	case item.Mode&fs.ModeSymlink != 0 || item.LinkTarget != "":
		if err := createSymlink(s.target, dst, name, item.LinkTarget, overwrite, s.cfg); err != nil {
			return nil, fmt.Errorf("cannot create symlink: %w", err)
		}
		return s.hashWriter(nil), nil

	case item.HardLink != "" && s.hardLinks != nil:
		existing := s.hardLinks[item.HardLink]
		if existing == "" {
			return nil, fmt.Errorf("hard link target %s was not extracted", item.HardLink)
		}
		if err := createDir(s.target, dst, filepath.Dir(name), s.cfg.CustomCreateDirMode(), s.cfg); err != nil {
			return nil, fmt.Errorf("cannot create directory: %w", err)
		}
		if err := securityCheck(s.target, dst, name, s.cfg); err != nil {
			return nil, fmt.Errorf("security check path failed: %w", err)
		}
		if err := s.target.CreateHardLink(existing, s.cur.outPath, overwrite); err != nil {
			return nil, fmt.Errorf("cannot create hard link: %w", err)
		}
		return s.hashWriter(nil), nil
	}

	mode := item.Mode.Perm()
	if mode == 0 {
		mode = s.cfg.CustomDecompressFileMode()
	}
	w, err := createFile(s.target, dst, name, mode, overwrite, s.cfg)
	if err != nil {
		return nil, fmt.Errorf("cannot create file: %w", err)
	}
	return s.hashWriter(w), nil
}

// outputPath maps the archive path of item onto a path relative to the output directory.
// Absolute paths are only returned in [PathModeAbsolute]. ok is false if nothing has to be
// created for the item.
func (s *session) outputPath(item Item) (string, bool) {
	p := item.Path
	if item.IsAltStream {
		p = item.MainPath
	}
	absolute := strings.HasPrefix(p, "/")

	parts := strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == os.PathSeparator })
	clean := parts[:0]
	for _, part := range parts {
		if part != "." {
			clean = append(clean, part)
		}
	}
	parts = clean

	switch s.cfg.PathMode() {
	case PathModeNone:
		if item.IsDir || len(parts) == 0 {
			return "", false
		}
		parts = parts[len(parts)-1:]
	case PathModeFull:
		if n := len(s.removePathParts); n > 0 && len(parts) >= n && equalParts(parts[:n], s.removePathParts) {
			parts = parts[n:]
		}
	}
	if len(parts) == 0 {
		return "", false
	}

	for i := range parts {
		parts[i] = correctFsFileName(parts[i])
	}
	rel := filepath.Join(parts...)
	if absolute && s.cfg.PathMode() == PathModeAbsolute {
		return string(os.PathSeparator) + rel, true
	}
	return rel, true
}

func equalParts(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// resolveExisting applies the overwrite mode if dst/name already exists. It returns the
// name to use, which differs from name in [OverwriteRename] mode.
func (s *session) resolveExisting(dst string, name string) (string, bool, error) {
	full := filepath.Join(dst, name)
	stat, err := s.target.Lstat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return name, false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("invalid path: %w", err)
	}
	if stat.IsDir() {
		return "", false, fmt.Errorf("cannot replace directory %s: %w", full, fs.ErrExist)
	}

	switch s.cfg.OverwriteMode() {
	case OverwriteAll:
		if stat.Mode()&fs.ModeSymlink != 0 {
			if err := s.target.Remove(full); err != nil {
				return "", false, fmt.Errorf("cannot replace symlink: %w", err)
			}
		}
		return name, false, nil
	case OverwriteSkip:
		return name, true, nil
	case OverwriteRename:
		free, err := s.freeName(dst, name)
		return free, false, err
	case OverwriteRenameExisting:
		free, err := s.freeName(dst, name)
		if err != nil {
			return "", false, err
		}
		if err := s.target.Rename(full, filepath.Join(dst, free)); err != nil {
			return "", false, fmt.Errorf("cannot rename existing file: %w", err)
		}
		return name, false, nil
	}
	return "", false, fmt.Errorf("file already exists: %w", fs.ErrExist)
}

// freeName returns the first name "<base>_<n><ext>" that does not exist in dst.
func (s *session) freeName(dst string, name string) (string, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 1; i < maxRenameAttempts; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		if _, err := s.target.Lstat(filepath.Join(dst, candidate)); errors.Is(err, fs.ErrNotExist) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("cannot find a free name for %s", name)
}

// SetOperationResult implements [ExtractCallback].
func (s *session) SetOperationResult(index int, opErr error) error {
	cur := s.cur
	s.cur = nil
	if cur == nil || cur.index != index {
		return fmt.Errorf("operation result for item %d without stream: %w", index, ErrFail)
	}
	if cur.skipped {
		if cur.w != nil {
			cur.w.Close()
		}
		return nil
	}

	err := opErr
	if cur.w != nil {
		if cerr := cur.w.Close(); err == nil {
			err = cerr
		}
	}
	if isAbort(err) {
		return err
	}
	if err == nil {
		err = cur.failed
	}
	if err == nil && !s.cfg.TestMode() && !s.cfg.StdOutMode() {
		err = s.finishItem(cur)
	}
	if err == nil && cur.hashing {
		err = s.cfg.HashSink().End(cur.item.IsDir, cur.item.IsAltStream)
	}

	s.count(cur.item)
	if err != nil {
		s.itemError(cur.item.Path, err)
	}
	if s.itemCb != nil {
		return s.itemCb.OperationResult(cur.item.Path, err)
	}
	return nil
}

// finishItem applies the attributes of a successfully written item.
func (s *session) finishItem(cur *currentItem) error {
	item := cur.item
	if cur.outPath == "" {
		return nil
	}

	if item.IsAltStream {
		if err := s.target.WriteAltStream(cur.outPath, item.StreamName(), cur.altData.Bytes()); err != nil {
			return fmt.Errorf("cannot write alternate stream: %w", err)
		}
		return nil
	}
	if item.IsDir {
		return nil
	}

	isLink := item.Mode&fs.ModeSymlink != 0 || item.LinkTarget != ""
	if !item.ModTime.IsZero() {
		var err error
		if isLink {
			err = s.target.Lchtimes(cur.outPath, item.ModTime, item.ModTime)
		} else {
			err = s.target.Chtimes(cur.outPath, item.ModTime, item.ModTime)
		}
		if err != nil {
			s.cfg.Logger().Warn("cannot set modification time", "path", cur.outPath, "error", err)
		}
	}

	if !isLink && len(s.zone) > 0 && s.zoneApplies(cur.outPath) {
		if err := s.target.WriteZone(cur.outPath, s.zone); err != nil {
			s.cfg.Logger().Warn("cannot write zone marker", "path", cur.outPath, "error", err)
		}
	}

	if _, ok := s.hardLinks[item.Path]; ok {
		s.hardLinks[item.Path] = cur.outPath
	}
	return nil
}

// zoneApplies reports whether the origin marker is written to the file at path.
func (s *session) zoneApplies(path string) bool {
	switch s.cfg.ZoneMode() {
	case ZoneAll:
		return true
	case ZoneOffice:
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		_, ok := officeExtensions[ext]
		return ok
	}
	return false
}

// count updates the item statistics.
func (s *session) count(item Item) {
	switch {
	case item.IsAltStream:
		s.numAltStreams++
		s.altStreamsUnpackSize += item.Size
	case item.IsDir:
		s.numFolders++
	default:
		s.numFiles++
		s.unpackSize += item.Size
	}
}

// itemError records the failure of a single item.
func (s *session) itemError(path string, err error) {
	s.cfg.Logger().Error("item failed", "path", path, "error", err)
	s.td.ExtractionErrors++
	s.td.LastExtractionError = fmt.Errorf("%s: %w", path, err)
	s.itemErrors = multierror.Append(s.itemErrors, s.td.LastExtractionError)
}

// nopWriteCloser is a writer with a no-op Close method.
type nopWriteCloser struct {
	io.Writer
}

// Close is a no-op method that satisfies the io.Closer interface.
func (nopWriteCloser) Close() error {
	return nil
}

// hashWriteCloser passes everything written to w to the hash sink as well.
type hashWriteCloser struct {
	w io.WriteCloser
	h HashSink
}

func (hw *hashWriteCloser) Write(p []byte) (int, error) {
	n, err := hw.w.Write(p)
	if n > 0 {
		hw.h.Write(p[:n])
	}
	return n, err
}

func (hw *hashWriteCloser) Close() error {
	return hw.w.Close()
}
