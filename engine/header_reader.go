// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"fmt"
	"io"
)

// headerReader is an implementation of io.Reader that allows the first bytes of
// the reader to be read twice. It is used to detect the format of a decompressed
// stream before the stream is handed to the next handler of a chain.
type headerReader struct {
	r      io.Reader
	header []byte
	pos    int
}

// newHeaderReader reads up to headerSize bytes from r. A shorter input is not an error.
func newHeaderReader(r io.Reader, headerSize int) (*headerReader, error) {
	buf := make([]byte, headerSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("cannot read header: %w", err)
	}
	return &headerReader{r: r, header: buf[:n]}, nil
}

func (p *headerReader) Read(b []byte) (int, error) {
	// read from header first
	if p.pos < len(p.header) {
		n := copy(b, p.header[p.pos:])
		p.pos += n
		return n, nil
	}

	// then continue reading from the source
	return p.r.Read(b)
}

// PeekHeader returns the header bytes, independent of how much has been read.
func (p *headerReader) PeekHeader() []byte {
	return p.header
}
