// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"compress/bzip2"
	"context"
	"io"

	"github.com/andybalholm/brotli"
	multiextract "github.com/hashicorp/go-multiextract"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"
)

// decompressionFunc returns a reader that decompresses src.
type decompressionFunc func(src io.Reader) (io.Reader, error)

const (
	formatBrotli = "br"
	formatBzip2  = "bz2"
	formatGZip   = "gz"
	formatLZ4    = "lz4"
	formatSnappy = "sz"
	formatXz     = "xz"
	formatZlib   = "zlib"
	formatZstd   = "zst"
)

var (
	extensionsBrotli = []string{".br"}
	extensionsBzip2  = []string{".bz2", ".bz", ".tbz2", ".tbz"}
	extensionsGZip   = []string{".gz", ".tgz"}
	extensionsLZ4    = []string{".lz4", ".tlz4"}
	extensionsSnappy = []string{".sz", ".snappy"}
	extensionsXz     = []string{".xz", ".txz"}
	extensionsZlib   = []string{".zz", ".zlib"}
	extensionsZstd   = []string{".zst", ".zstd", ".tzst"}
)

// magicBytesGZip are the magic bytes for gzip compressed files.
var magicBytesGZip = [][]byte{
	{0x1f, 0x8b},
}

// magicBytesBzip2 are the magic bytes for bzip2 compressed files.
// reference: https://en.wikipedia.org/wiki/Bzip2
var magicBytesBzip2 = [][]byte{
	[]byte("BZh1"), []byte("BZh2"), []byte("BZh3"),
	[]byte("BZh4"), []byte("BZh5"), []byte("BZh6"),
	[]byte("BZh7"), []byte("BZh8"), []byte("BZh9"),
}

// magicBytesXz are the magic bytes for xz compressed files.
var magicBytesXz = [][]byte{
	{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00},
}

// magicBytesZstd are the magic bytes for zstandard compressed files.
var magicBytesZstd = [][]byte{
	{0x28, 0xb5, 0x2f, 0xfd},
}

// magicBytesLZ4 are the magic bytes for lz4 frames.
var magicBytesLZ4 = [][]byte{
	{0x04, 0x22, 0x4D, 0x18},
}

// magicBytesSnappy are the magic bytes of the snappy framing format.
var magicBytesSnappy = [][]byte{
	append([]byte{0xff, 0x06, 0x00, 0x00}, []byte("sNaPpY")...),
}

// magicBytesZlib are the magic bytes for zlib compressed files.
var magicBytesZlib = [][]byte{
	{0x78, 0x01},
	{0x78, 0x5e},
	{0x78, 0x9c},
	{0x78, 0xda},
}

func decompressGZipStream(src io.Reader) (io.Reader, error) {
	return gzip.NewReader(src)
}

func decompressBzip2Stream(src io.Reader) (io.Reader, error) {
	return bzip2.NewReader(src), nil
}

func decompressXzStream(src io.Reader) (io.Reader, error) {
	return xz.NewReader(src)
}

func decompressZstdStream(src io.Reader) (io.Reader, error) {
	d, err := zstd.NewReader(src)
	if err != nil {
		return nil, err
	}
	return d.IOReadCloser(), nil
}

func decompressLZ4Stream(src io.Reader) (io.Reader, error) {
	return lz4.NewReader(src), nil
}

func decompressSnappyStream(src io.Reader) (io.Reader, error) {
	return snappy.NewReader(src), nil
}

// decompressBrotliStream returns an io.Reader that decompresses src with brotli algorithm.
// Brotli streams have no magic bytes, so they are only detected by extension.
func decompressBrotliStream(src io.Reader) (io.Reader, error) {
	return brotli.NewReader(src), nil
}

func decompressZlibStream(src io.Reader) (io.Reader, error) {
	return zlib.NewReader(src)
}

// compressedFormat creates the format of a compressed single stream.
func compressedFormat(name string, exts []string, magicBytes [][]byte, dec decompressionFunc) *format {
	return &format{
		name:       name,
		extensions: exts,
		magicBytes: magicBytes,
		open: func(ctx context.Context, r *Registry, in *input, req multiextract.OpenRequest) (*multiextract.ArchiveChain, error) {
			return openCompressed(r, in, req, name, exts, dec)
		},
	}
}

// openCompressed opens a compressed stream as archive with one item. If the decompressed
// data is a tar archive, the tar archive is opened as second handle of the chain.
func openCompressed(r *Registry, in *input, req multiextract.OpenRequest, name string, exts []string, dec decompressionFunc) (*multiextract.ArchiveChain, error) {
	open := func() (io.ReadCloser, error) {
		d, err := dec(in.section())
		if err != nil {
			return nil, err
		}
		return &decompressedStream{d}, nil
	}

	// verify the stream and peek into the decompressed data
	rc, err := open()
	if err != nil {
		return nil, errors.Wrapf(err, "cannot start %s decompression", name)
	}
	hr, err := newHeaderReader(rc, maxHeaderLength)
	rc.Close()
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read %s stream", name)
	}

	itemName := trimExtension(in.name, exts)
	h := newHandle(name, itemName, in.size)
	item := newItem(itemName, false)
	h.items = []multiextract.Item{item}
	h.walk = func() (archiveWalker, error) {
		rc, err := open()
		if err != nil {
			return nil, err
		}
		return &singleWalker{rc: rc}, nil
	}

	if isTar(hr.PeekHeader()) && !excludes(req, formatTar) {
		t, err := newTarHandle(trimArchiveExtension(itemName, ".tar"), in.size, open)
		if err == nil {
			return multiextract.NewArchiveChain(h, t), nil
		}
		r.logger.Debug("decompressed stream is no valid tar archive", "error", err)
	}
	return multiextract.NewArchiveChain(h), nil
}

// excludes reports whether req excludes format.
func excludes(req multiextract.OpenRequest, format string) bool {
	for _, e := range req.ExcludedFormats {
		if e == format {
			return true
		}
	}
	return false
}

// decompressedStream closes the decompressor if it supports it.
type decompressedStream struct {
	io.Reader
}

func (d *decompressedStream) Close() error {
	if c, ok := d.Reader.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
