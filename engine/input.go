// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// seekerReaderAt combines the io.ReaderAt and io.Seeker interfaces
type seekerReaderAt interface {
	io.ReaderAt
	io.Seeker
}

// input is the random access view of an archive input.
type input struct {
	// name is the file name, used for extension detection and default names
	name string

	// path is the file system path, empty for streams and embedded data
	path string

	ra   io.ReaderAt
	size int64

	closers []io.Closer
}

// section returns a reader over the whole input.
func (in *input) section() *io.SectionReader {
	return io.NewSectionReader(in.ra, 0, in.size)
}

// Close releases the file or the cached stream of the input.
func (in *input) Close() error {
	var result *multierror.Error
	for i := len(in.closers) - 1; i >= 0; i-- {
		if err := in.closers[i].Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	in.closers = nil
	return result.ErrorOrNil()
}

// openFile opens the archive file at path.
func openFile(path string) (*input, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open archive file")
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "cannot stat archive file")
	}
	return &input{
		name:    filepath.Base(path),
		path:    path,
		ra:      f,
		size:    stat.Size(),
		closers: []io.Closer{f},
	}, nil
}

// openStream caches r, so that it can be accessed randomly. The stream is read up to
// maxInputSize bytes, either into memory or into a temporary file.
func openStream(name string, r io.Reader, maxInputSize int64, inMemory bool) (*input, error) {
	sra, size, closer, err := readerToReaderAtSeeker(r, maxInputSize, inMemory)
	if err != nil {
		return nil, err
	}
	in := &input{name: name, ra: sra, size: size}
	if closer != nil {
		in.closers = append(in.closers, closer)
	}
	return in, nil
}

// readerToReaderAtSeeker converts an io.Reader to an io.ReaderAt and io.Seeker and
// returns the size of the data. The returned closer removes a temporary file.
func readerToReaderAtSeeker(r io.Reader, maxInputSize int64, inMemory bool) (seekerReaderAt, int64, io.Closer, error) {

	// check if reader is a buffer
	if b, ok := r.(*bytes.Buffer); ok {
		return bytes.NewReader(b.Bytes()), int64(b.Len()), nil, nil
	}

	// limit reader
	ler := newLimitErrorReader(r, maxInputSize)

	// check how to cache
	if inMemory {
		b, err := io.ReadAll(ler)
		if err != nil {
			return nil, 0, nil, fmt.Errorf("cannot read all from reader: %w", err)
		}
		return bytes.NewReader(b), int64(len(b)), nil, nil
	}

	// create temp file
	tmpFile, err := os.CreateTemp("", "multiextract-*")
	if err != nil {
		return nil, 0, nil, errors.Wrap(err, "cannot create cache file")
	}
	cleanup := &tempFile{tmpFile}

	// copy reader to temp file
	n, err := io.Copy(tmpFile, ler)
	if err != nil {
		cleanup.Close()
		return nil, 0, nil, fmt.Errorf("cannot copy reader to file: %w", err)
	}

	// seek to start
	if _, err := tmpFile.Seek(0, io.SeekStart); err != nil {
		cleanup.Close()
		return nil, 0, nil, err
	}

	return tmpFile, n, cleanup, nil
}

// tempFile removes the file when it is closed.
type tempFile struct {
	f *os.File
}

func (t *tempFile) Close() error {
	err := t.f.Close()
	if rerr := os.Remove(t.f.Name()); err == nil {
		err = rerr
	}
	return err
}
