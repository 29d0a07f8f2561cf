// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package hashsum

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sha256 of "hello\n"
const helloSHA256 = "5891b5b522d5df086d0ff0b110fbd9d21bb4fc7163af34d08286a2e846f6be03"

func TestNewHash(t *testing.T) {
	for _, m := range Methods() {
		t.Run(m, func(t *testing.T) {
			h, err := NewHash(m)
			require.NoError(t, err)
			assert.NotZero(t, h.Size())
		})
	}

	_, err := NewHash("sha3")
	assert.Error(t, err)
}

func TestMethodForFile(t *testing.T) {
	tests := []struct {
		name   string
		method string
		ok     bool
	}{
		{name: "SHA256SUMS.sha256", method: MethodSHA256, ok: true},
		{name: "release.MD5", method: MethodMD5, ok: true},
		{name: "files.b2", method: MethodBLAKE2b, ok: true},
		{name: "archive.zip", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := MethodForFile(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.method, m)
		})
	}
}

func TestParseListing(t *testing.T) {
	listing := "# comment\n\n" + helloSHA256 + "  hello.txt\r\n" + helloSHA256 + " *bin/hello\n"
	lines, err := ParseListing(strings.NewReader(listing), MethodSHA256)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "hello.txt", lines[0].Path)
	assert.Equal(t, "bin/hello", lines[1].Path)
	assert.Equal(t, helloSHA256, hex.EncodeToString(lines[0].Sum))
}

func TestParseListingInvalid(t *testing.T) {
	tests := map[string]string{
		"short checksum": "abcd  file\n",
		"no path":        helloSHA256 + "\n",
		"not hex":        strings.Repeat("z", 64) + "  file\n",
	}
	for name, listing := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseListing(strings.NewReader(listing), MethodSHA256)
			assert.Error(t, err)
		})
	}
}

func TestSink(t *testing.T) {
	s, err := New(MethodSHA256, MethodCRC32)
	require.NoError(t, err)

	s.Begin("dir")
	require.NoError(t, s.End(true, false))

	s.Begin("dir/hello.txt")
	_, err = s.Write([]byte("hel"))
	require.NoError(t, err)
	_, err = s.Write([]byte("lo\n"))
	require.NoError(t, err)
	require.NoError(t, s.End(false, false))

	entries := s.Entries()
	require.Len(t, entries, 2)
	assert.True(t, entries[0].IsDir)
	assert.Nil(t, entries[0].Sums)
	assert.Equal(t, uint64(6), entries[1].Size)
	assert.Equal(t, helloSHA256, hex.EncodeToString(entries[1].Sums[MethodSHA256]))

	var buf bytes.Buffer
	require.NoError(t, s.WriteListing(&buf, MethodSHA256))
	assert.Equal(t, helloSHA256+"  dir/hello.txt\n", buf.String())

	// the listing can be read back
	lines, err := ParseListing(&buf, MethodSHA256)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "dir/hello.txt", lines[0].Path)
}
