// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package multiextract

//go:generate mockgen -source=archive.go -destination=internal/mocks/archive.go -package=mocks

import (
	"context"
	"io"
	"io/fs"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Engine opens archives. Implementations detect the format, open nested containers and
// report the volumes of split archives. See the engine package for the default engine.
type Engine interface {
	// Open opens the archive described by req. If the input is wrapped in other
	// containers, the returned chain lists all of them, outermost first.
	// Open returns [ErrAbort] if the operation was cancelled.
	Open(ctx context.Context, req OpenRequest) (*ArchiveChain, error)
}

// OpenRequest describes the archive that should be opened by an [Engine].
type OpenRequest struct {
	// Path is the archive path. In stdin mode it is only used for naming.
	Path string

	// Stream is set in stdin mode and replaces the file at Path.
	Stream io.Reader

	// FormatHints are format names that should be tried first (and exclusively).
	FormatHints []string

	// ExcludedFormats are format names that must not be used.
	ExcludedFormats []string

	// Properties are engine specific properties, e.g. "password".
	Properties map[string]string
}

// PropID identifies an archive level property.
type PropID int

const (
	// PropPhysicalSize is the number of input bytes that belong to the archive (uint64).
	PropPhysicalSize PropID = iota

	// PropComment is the archive comment (string).
	PropComment
)

// Item is the metadata of one archive entry.
type Item struct {
	// Path is the slash separated path of the entry inside the archive.
	Path string

	IsDir bool

	// IsAltStream is set for auxiliary named data streams of a file entry.
	IsAltStream bool

	// MainPath is the path of the file that owns an alternate stream. For all other
	// entries it equals Path.
	MainPath string

	// MainIsDir tells if the entry at MainPath is a directory.
	MainIsDir bool

	Size    uint64
	ModTime time.Time
	Mode    fs.FileMode

	// LinkTarget is the target of a symbolic link entry.
	LinkTarget string

	// HardLink is the archive path of the entry this entry is a hard link to.
	HardLink string
}

// StreamName returns the name of the alternate stream of an alt-stream item.
func (it Item) StreamName() string {
	if !it.IsAltStream || len(it.Path) <= len(it.MainPath) {
		return ""
	}
	return it.Path[len(it.MainPath)+1:]
}

// Archive is one opened archive handle.
type Archive interface {
	// Format returns the lower case format name, e.g. "7z" or "pe".
	Format() string

	// DefaultName returns the display name used for "*" in output templates. It's usually
	// the archive file name without the archive extension.
	DefaultName() string

	// NumItems returns the number of entries.
	NumItems() (int, error)

	// Item returns the full metadata of the entry at index.
	Item(index int) (Item, error)

	// IsAltStream is a cheap check that only determines whether the entry at index is an
	// alternate stream.
	IsAltStream(index int) (bool, error)

	// Property returns an archive level property.
	Property(id PropID) (any, bool)

	// Extract decodes the entries at indices in ascending order and pushes their data
	// into cb. A nil indices slice means all entries. If testMode is set, the data only
	// needs to be verified.
	Extract(ctx context.Context, indices []int, testMode bool, cb ExtractCallback) error

	// IsHashHandler reports whether the archive is a checksum listing without payload.
	IsHashHandler() bool

	// SetModTime sets the time used for entries without own modification time.
	SetModTime(t time.Time)

	Close() error
}

// ExtractCallback receives the data of the entries while an [Archive] extracts them.
type ExtractCallback interface {
	// SetTotal sets the total number of unpacked bytes of the extraction call.
	SetTotal(total uint64) error

	// SetCompleted reports the number of unpacked bytes processed so far.
	SetCompleted(completed uint64) error

	// GetStream returns the writer for the entry at index. A nil writer without error
	// means the data of the entry must be skipped.
	GetStream(index int) (io.WriteCloser, error)

	// SetOperationResult finishes the entry at index. opErr is the decoding error of the
	// entry, if any. A returned error stops the extraction.
	SetOperationResult(index int, opErr error) error

	// HashFilesDir returns the directory that files of checksum listings are relative to.
	HashFilesDir() string
}

// ArchiveChain is an immutable, outermost-first sequence of opened archive handles. Only
// the innermost archive is enumerated; the outermost one is consulted for naming.
type ArchiveChain struct {
	arcs []Archive

	// VolumePaths are all members of a split archive, first member included. It is empty
	// for archives that consist of a single file.
	VolumePaths []string

	// VolumesSize is the size of all members except the first one.
	VolumesSize uint64
}

// NewArchiveChain creates a chain from arcs, outermost first.
func NewArchiveChain(arcs ...Archive) *ArchiveChain {
	c := &ArchiveChain{arcs: make([]Archive, len(arcs))}
	copy(c.arcs, arcs)
	return c
}

// WithVolumes returns a copy of the chain that reports the given volumes.
func (c *ArchiveChain) WithVolumes(paths []string, size uint64) *ArchiveChain {
	n := NewArchiveChain(c.arcs...)
	n.VolumePaths = append([]string(nil), paths...)
	n.VolumesSize = size
	return n
}

// Len returns the number of handles in the chain.
func (c *ArchiveChain) Len() int {
	return len(c.arcs)
}

// At returns the handle at position i, 0 being the outermost.
func (c *ArchiveChain) At(i int) Archive {
	return c.arcs[i]
}

// Outermost returns the first handle of the chain.
func (c *ArchiveChain) Outermost() Archive {
	if len(c.arcs) == 0 {
		return nil
	}
	return c.arcs[0]
}

// Innermost returns the handle whose entries are extracted.
func (c *ArchiveChain) Innermost() Archive {
	if len(c.arcs) == 0 {
		return nil
	}
	return c.arcs[len(c.arcs)-1]
}

// SetModTime attaches t to every handle of the chain.
func (c *ArchiveChain) SetModTime(t time.Time) {
	for _, a := range c.arcs {
		a.SetModTime(t)
	}
}

// Close closes all handles, innermost first.
func (c *ArchiveChain) Close() error {
	var result *multierror.Error
	for i := len(c.arcs) - 1; i >= 0; i-- {
		if err := c.arcs[i].Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// Censor decides which archive entries are extracted.
type Censor interface {
	// AreAllAllowed reports whether every entry passes, which allows a fast path.
	AreAllAllowed() bool

	// CheckPath reports whether item should be extracted.
	CheckPath(item Item) bool
}

// allowAll is the censor used if none is provided.
type allowAll struct{}

func (allowAll) AreAllAllowed() bool     { return true }
func (allowAll) CheckPath(item Item) bool { return true }

// Callback receives progress and results of an extraction run.
type Callback interface {
	// BeforeOpen is called before an archive is opened.
	BeforeOpen(path string, testMode bool) error

	// OpenResult reports the outcome of opening an archive. chain is nil if result is not nil.
	OpenResult(path string, chain *ArchiveChain, result error) error

	// ThereAreNoFiles is called if no entry of an archive was selected.
	ThereAreNoFiles() error

	// ExtractResult receives the raw outcome of an archive extraction and returns the
	// result that is propagated, which allows to reinterpret partial failures.
	ExtractResult(result error) error

	// SetTotal sets the number of bytes of the run.
	SetTotal(total uint64) error

	// SetCompleted reports the number of bytes processed.
	SetCompleted(completed uint64) error
}

// ItemCallback can be implemented by a [Callback] to get notified about single entries.
type ItemCallback interface {
	PrepareOperation(path string, isDir bool) error
	OperationResult(path string, opErr error) error
}

// HashSink receives the data of all extracted entries to calculate checksums.
type HashSink interface {
	Begin(path string)
	Write(p []byte) (int, error)
	End(isDir, isAltStream bool) error
}
