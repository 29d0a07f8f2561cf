// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package multiextract

import (
	"errors"
	"io"
)

// ErrMaxExtractionSizeExceeded is reported for an item whose data exceeds the configured
// maximum size of a single file.
var ErrMaxExtractionSizeExceeded = errors.New("maximum extraction size exceeded")

// limitErrorWriter passes at most L bytes to W. Writes beyond the limit are cut and
// reported with [ErrMaxExtractionSizeExceeded].
type limitErrorWriter struct {
	W io.Writer // underlying writer
	L int64     // limit
	N int64     // number of bytes written
}

// Write writes p to the underlying writer as long as the limit allows it.
func (l *limitErrorWriter) Write(p []byte) (int, error) {
	if l.N >= l.L {
		return 0, ErrMaxExtractionSizeExceeded
	}

	var cut bool
	if rest := l.L - l.N; int64(len(p)) > rest {
		p, cut = p[:rest], true
	}

	n, err := l.W.Write(p)
	l.N += int64(n)
	if err == nil && cut {
		err = ErrMaxExtractionSizeExceeded
	}
	return n, err
}

// limitWriter returns w limited to maxSize bytes. A negative maxSize disables the limit.
func limitWriter(w io.Writer, maxSize int64) io.Writer {
	if maxSize < 0 {
		return w
	}
	return &limitErrorWriter{W: w, L: maxSize}
}
