// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"io"
)

// archiveWalker iterates the entries of an archive from the first one. The entries are
// returned in the order of the items of the archive handle.
type archiveWalker interface {
	Next() (archiveEntry, error)
	Close() error
}

// archiveEntry is an entry returned by an archiveWalker.
type archiveEntry interface {
	Open() (io.ReadCloser, error)
}

// indexWalker walks the entries of random access formats.
type indexWalker struct {
	n    int
	pos  int
	open func(int) (io.ReadCloser, error)
}

// Next returns the next entry.
func (w *indexWalker) Next() (archiveEntry, error) {
	if w.pos >= w.n {
		return nil, io.EOF
	}
	defer func() { w.pos++ }()
	return &indexEntry{w: w, i: w.pos}, nil
}

// Close is a no-op, the archive reader is owned by the handle.
func (w *indexWalker) Close() error {
	return nil
}

// indexEntry is an entry of an indexWalker.
type indexEntry struct {
	w *indexWalker
	i int
}

// Open opens the data of the entry.
func (e *indexEntry) Open() (io.ReadCloser, error) {
	return e.w.open(e.i)
}

// streamEntry is an entry whose data is read from a shared sequential reader.
type streamEntry struct {
	r io.Reader
}

// Open returns the shared reader positioned at the data of the entry.
func (e *streamEntry) Open() (io.ReadCloser, error) {
	return &noopReaderCloser{e.r}, nil
}

// singleWalker walks the single entry of a compressed stream.
type singleWalker struct {
	rc   io.ReadCloser
	done bool
}

// Next returns the entry on the first call and io.EOF afterwards.
func (w *singleWalker) Next() (archiveEntry, error) {
	if w.done {
		return nil, io.EOF
	}
	w.done = true
	return &streamEntry{w.rc}, nil
}

// Close closes the decompressor.
func (w *singleWalker) Close() error {
	return w.rc.Close()
}

// noopReaderCloser is a struct that implements the io.ReaderCloser interface with a no-op Close method.
type noopReaderCloser struct {
	io.Reader
}

// Close is a no-op method that satisfies the io.Closer interface.
func (n *noopReaderCloser) Close() error {
	return nil
}
