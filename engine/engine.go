// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	multiextract "github.com/hashicorp/go-multiextract"
	"github.com/hashicorp/go-multierror"
)

const (
	// defaultMaxInputSize is the default maximum size of a cached input stream
	defaultMaxInputSize = 1 << 30 // 1 Gb

	// defaultCacheInMemory is the default setting for caching input streams in memory
	defaultCacheInMemory = false

	// PropPassword is the name of the property that holds the archive password.
	PropPassword = "password"
)

// logger is the logging interface of the registry. It is satisfied by *slog.Logger.
type logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// openFunc opens in as the given format. The returned chain starts with the handle of
// that format and may contain handles of nested archives.
type openFunc func(ctx context.Context, r *Registry, in *input, req multiextract.OpenRequest) (*multiextract.ArchiveChain, error)

// format describes an archive format of the registry.
type format struct {
	name       string
	extensions []string
	magicBytes [][]byte
	offset     int
	open       openFunc
}

// matches checks if header carries one of the magic bytes of the format.
func (f *format) matches(header []byte) bool {
	return matchesMagicBytes(header, f.offset, f.magicBytes)
}

// Registry is the default [multiextract.Engine]. It detects the format of an input by
// format hints, magic bytes and file extension, in this order.
type Registry struct {
	formats       []*format
	byName        map[string]*format
	maxInputSize  int64
	cacheInMemory bool
	logger        logger
}

// Option configures a [Registry].
type Option func(*Registry)

// WithMaxInputSize sets the maximum number of bytes cached from an input stream.
// A negative value disables the limit.
func WithMaxInputSize(size int64) Option {
	return func(r *Registry) {
		r.maxInputSize = size
	}
}

// WithCacheInMemory caches input streams in memory instead of a temporary file.
func WithCacheInMemory(enable bool) Option {
	return func(r *Registry) {
		r.cacheInMemory = enable
	}
}

// WithLogger sets the logger of the registry.
func WithLogger(l logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// New creates a registry with all supported formats.
func New(opts ...Option) *Registry {
	r := &Registry{
		formats:       availableFormats(),
		maxInputSize:  defaultMaxInputSize,
		cacheInMemory: defaultCacheInMemory,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	r.byName = map[string]*format{}
	for _, f := range r.formats {
		r.byName[f.name] = f
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Formats returns the names of the supported formats.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.formats))
	for _, f := range r.formats {
		names = append(names, f.name)
	}
	return names
}

// Open opens the archive of req. In stdin mode the stream is cached first.
func (r *Registry) Open(ctx context.Context, req multiextract.OpenRequest) (*multiextract.ArchiveChain, error) {
	if err := ctx.Err(); err != nil {
		return nil, abortError(err)
	}

	var (
		in  *input
		err error
	)
	if req.Stream != nil {
		in, err = openStream(filepath.Base(req.Path), req.Stream, r.maxInputSize, r.cacheInMemory)
		if in != nil && req.Path == "" {
			in.name = ""
		}
	} else {
		in, err = openFile(req.Path)
	}
	if err != nil {
		return nil, err
	}

	chain, err := r.open(ctx, in, req)
	if err != nil {
		in.Close()
		return nil, err
	}

	// the outermost handle owns the input
	if h, ok := chain.Outermost().(*handle); ok {
		h.closers = append(h.closers, in)
	}
	return chain, nil
}

// open detects the format of in and opens it.
func (r *Registry) open(ctx context.Context, in *input, req multiextract.OpenRequest) (*multiextract.ArchiveChain, error) {
	header := readHeader(in)
	candidates := r.detect(header, in.name, req)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: unknown format", multiextract.ErrUnsupportedArchive)
	}

	var errs *multierror.Error
	for _, f := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, abortError(err)
		}
		chain, err := f.open(ctx, r, in, req)
		if err == nil {
			r.logger.Debug("opened archive", "format", f.name, "name", in.name, "handles", chain.Len())
			return chain, nil
		}
		if isAbort(err) {
			return nil, err
		}
		r.logger.Debug("cannot open as format", "format", f.name, "name", in.name, "error", err)
		errs = multierror.Append(errs, fmt.Errorf("%s: %w", f.name, err))
	}
	return nil, fmt.Errorf("%w: %v", multiextract.ErrUnsupportedArchive, errs.ErrorOrNil())
}

// detect returns the formats that are tried for an input, in order. Format hints replace
// the detection. Excluded formats are never returned.
func (r *Registry) detect(header []byte, name string, req multiextract.OpenRequest) []*format {
	excluded := map[string]bool{}
	for _, e := range req.ExcludedFormats {
		excluded[strings.ToLower(e)] = true
	}

	var result []*format
	add := func(f *format) {
		if f == nil || excluded[f.name] {
			return
		}
		for _, known := range result {
			if known == f {
				return
			}
		}
		result = append(result, f)
	}

	if len(req.FormatHints) > 0 {
		for _, hint := range req.FormatHints {
			add(r.byName[strings.ToLower(hint)])
		}
		return result
	}

	for _, f := range r.formats {
		if f.matches(header) {
			add(f)
		}
	}
	add(r.byExtension(name))
	return result
}

// byExtension returns the format with the longest matching file extension.
func (r *Registry) byExtension(name string) *format {
	name = strings.ToLower(name)
	var (
		best    *format
		bestLen int
	)
	for _, f := range r.formats {
		for _, ext := range f.extensions {
			if strings.HasSuffix(name, ext) && len(ext) > bestLen {
				best, bestLen = f, len(ext)
			}
		}
	}
	return best
}

// readHeader returns the first bytes of in.
func readHeader(in *input) []byte {
	header := make([]byte, maxHeaderLength)
	n, _ := in.ra.ReadAt(header, 0)
	return header[:n]
}

// matchesMagicBytes checks if data carries one of magicBytes at offset.
func matchesMagicBytes(data []byte, offset int, magicBytes [][]byte) bool {
	// check all possible magic bytes until match is found
	for _, mb := range magicBytes {
		// check if header is long enough
		if offset+len(mb) > len(data) {
			continue
		}

		// check for byte match
		if bytes.Equal(mb, data[offset:offset+len(mb)]) {
			return true
		}
	}

	// no match found
	return false
}

// trimExtension removes the longest matching extension of exts from name. Extensions of
// compressed tar archives are replaced by ".tar". If no extension matches, the default
// suffix is appended, so the result never equals name.
func trimExtension(name string, exts []string) string {
	if name == "" {
		return defaultDecompressionName
	}
	lower := strings.ToLower(name)
	var best string
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) && len(ext) > len(best) {
			best = ext
		}
	}
	if best == "" || len(best) == len(name) {
		return fmt.Sprintf("%s.%s", name, defaultDecompressedSuffix)
	}
	trimmed := name[:len(name)-len(best)]
	if _, ok := tarAliases[best]; ok {
		trimmed += ".tar"
	}
	return trimmed
}

const (
	// defaultDecompressionName is the name for the content of an unnamed stream
	defaultDecompressionName = "multiextract-decompressed-content"

	// defaultDecompressedSuffix is the suffix for the content of a stream whose name
	// does not end with a known extension
	defaultDecompressedSuffix = "decompressed"
)

// tarAliases are the short extensions of compressed tar archives.
var tarAliases = map[string]struct{}{
	".tgz": {}, ".tbz": {}, ".tbz2": {}, ".txz": {}, ".tzst": {}, ".tlz4": {},
}

// fileSize returns the size of the file at path, 0 if it cannot be determined.
func fileSize(stat func(string) (fs.FileInfo, error), path string) uint64 {
	fi, err := stat(path)
	if err != nil {
		return 0
	}
	return uint64(fi.Size())
}
