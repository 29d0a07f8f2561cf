// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	multiextract "github.com/hashicorp/go-multiextract"
	"github.com/hashicorp/go-multierror"
)

// extractFunc replaces the walker based extraction of a handle.
type extractFunc func(ctx context.Context, h *handle, indices []int, testMode bool, cb multiextract.ExtractCallback) error

// handle implements [multiextract.Archive] for all formats of the registry.
type handle struct {
	format      string
	defaultName string
	items       []multiextract.Item
	physSize    uint64
	comment     string
	modTime     time.Time
	hashHandler bool

	// walk starts a new iteration over the entries
	walk func() (archiveWalker, error)

	// extract is set by handlers that do not decode entries, like checksum listings
	extract extractFunc

	closers []io.Closer
}

// newHandle creates a handle without items.
func newHandle(format string, defaultName string, physSize int64) *handle {
	return &handle{format: format, defaultName: defaultName, physSize: uint64(physSize)}
}

// Format returns the format name.
func (h *handle) Format() string {
	return h.format
}

// DefaultName returns the name used for the archive content.
func (h *handle) DefaultName() string {
	return h.defaultName
}

// NumItems returns the number of entries.
func (h *handle) NumItems() (int, error) {
	return len(h.items), nil
}

// Item returns the entry at index. Entries without modification time inherit the
// time of the archive file.
func (h *handle) Item(index int) (multiextract.Item, error) {
	if index < 0 || index >= len(h.items) {
		return multiextract.Item{}, fmt.Errorf("item index %d out of range", index)
	}
	item := h.items[index]
	if item.ModTime.IsZero() {
		item.ModTime = h.modTime
	}
	return item, nil
}

// IsAltStream reports whether the entry at index is an alternate stream.
func (h *handle) IsAltStream(index int) (bool, error) {
	if index < 0 || index >= len(h.items) {
		return false, fmt.Errorf("item index %d out of range", index)
	}
	return h.items[index].IsAltStream, nil
}

// Property returns an archive property.
func (h *handle) Property(id multiextract.PropID) (any, bool) {
	switch id {
	case multiextract.PropPhysicalSize:
		return h.physSize, true
	case multiextract.PropComment:
		return h.comment, h.comment != ""
	}
	return nil, false
}

// IsHashHandler reports whether the handle is a checksum listing.
func (h *handle) IsHashHandler() bool {
	return h.hashHandler
}

// SetModTime sets the modification time of the archive file.
func (h *handle) SetModTime(t time.Time) {
	h.modTime = t
}

// Close releases the readers of the handle.
func (h *handle) Close() error {
	var result *multierror.Error
	for i := len(h.closers) - 1; i >= 0; i-- {
		if err := h.closers[i].Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	h.closers = nil
	return result.ErrorOrNil()
}

// Extract decodes the entries at indices, or all entries if indices is nil, and pushes
// their data into cb.
func (h *handle) Extract(ctx context.Context, indices []int, testMode bool, cb multiextract.ExtractCallback) error {
	if h.extract != nil {
		return h.extract(ctx, h, indices, testMode, cb)
	}

	var total uint64
	if indices == nil {
		for _, item := range h.items {
			total += item.Size
		}
	} else {
		for _, i := range indices {
			if i < 0 || i >= len(h.items) {
				return fmt.Errorf("item index %d out of range", i)
			}
			total += h.items[i].Size
		}
	}
	if err := cb.SetTotal(total); err != nil {
		return err
	}
	if (indices != nil && len(indices) == 0) || h.walk == nil {
		return nil
	}

	w, err := h.walk()
	if err != nil {
		return fmt.Errorf("cannot read %s archive: %w", h.format, err)
	}
	defer w.Close()

	var completed uint64
	next := 0
	for i := 0; i < len(h.items); i++ {
		if indices != nil && next >= len(indices) {
			break
		}
		if err := ctx.Err(); err != nil {
			return abortError(err)
		}

		entry, err := w.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: cannot read entry %d: %v", multiextract.ErrDataError, i, err)
		}

		if indices != nil {
			if indices[next] != i {
				continue
			}
			next++
		}

		n, err := h.extractEntry(ctx, i, entry, testMode, cb)
		completed += n
		if err != nil {
			return err
		}
		if err := cb.SetCompleted(completed); err != nil {
			return err
		}
	}
	return nil
}

// extractEntry passes the data of one entry to the stream that cb returns for it.
func (h *handle) extractEntry(ctx context.Context, i int, entry archiveEntry, testMode bool, cb multiextract.ExtractCallback) (uint64, error) {
	w, err := cb.GetStream(i)
	if err != nil {
		return 0, err
	}

	var (
		n     int64
		opErr error
	)
	item := h.items[i]
	hasData := !item.IsDir && item.LinkTarget == "" && item.HardLink == ""
	if hasData && (w != nil || testMode) {
		n, opErr = copyEntry(ctx, entry, w)
		if isAbort(opErr) {
			return uint64(n), opErr
		}
	}

	if err := cb.SetOperationResult(i, opErr); err != nil {
		return uint64(n), err
	}
	return uint64(n), nil
}

// copyEntry copies the data of entry to w. A nil w discards the data. Read failures are
// reported as [multiextract.ErrDataError], write failures are returned as they are.
func copyEntry(ctx context.Context, entry archiveEntry, w io.Writer) (int64, error) {
	rc, err := entry.Open()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", multiextract.ErrDataError, err)
	}
	defer rc.Close()

	if w == nil {
		w = io.Discard
	}
	cr := &ctxReader{ctx: ctx, r: rc}
	n, err := io.Copy(w, cr)
	switch {
	case err == nil:
		return n, nil
	case ctx.Err() != nil:
		return n, abortError(ctx.Err())
	case cr.err != nil && errors.Is(err, cr.err):
		return n, fmt.Errorf("%w: %v", multiextract.ErrDataError, err)
	}
	return n, err
}

// ctxReader stops reading once ctx is done and remembers read failures.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
	err error
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		c.err = err
		return 0, err
	}
	n, err := c.r.Read(p)
	if err != nil && err != io.EOF {
		c.err = err
	}
	return n, err
}

// abortError converts a context error into the abort error of the run.
func abortError(err error) error {
	return fmt.Errorf("%w: %v", multiextract.ErrAbort, err)
}

// isAbort reports whether err cancels the extraction.
func isAbort(err error) bool {
	return errors.Is(err, multiextract.ErrAbort) || errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
