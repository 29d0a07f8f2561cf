// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package multiextract

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimitErrorWriter(t *testing.T) {
	var buf bytes.Buffer
	w := limitWriter(&buf, 4)

	n, err := w.Write([]byte("ab"))
	assert.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = w.Write([]byte("cdef"))
	assert.ErrorIs(t, err, ErrMaxExtractionSizeExceeded)
	assert.Equal(t, 2, n)

	n, err = w.Write([]byte("g"))
	assert.ErrorIs(t, err, ErrMaxExtractionSizeExceeded)
	assert.Zero(t, n)

	assert.Equal(t, "abcd", buf.String())
}

func TestLimitWriterDisabled(t *testing.T) {
	var buf bytes.Buffer
	w := limitWriter(&buf, -1)
	assert.Same(t, &buf, w)
}
