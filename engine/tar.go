// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"archive/tar"
	"context"
	"io"

	multiextract "github.com/hashicorp/go-multiextract"
	"github.com/pkg/errors"
)

// formatTar is the format name of tar archives
const formatTar = "tar"

// offsetTar is the offset where the magic bytes are located in the file
const offsetTar = 257

// magicBytesTar are the magic bytes for tar files
var magicBytesTar = [][]byte{
	[]byte("ustar\x00tar\x00"),
	[]byte("ustar\x00"),
	[]byte("ustar  \x00"),
}

// isTar checks if the header matches the magic bytes for tar files
func isTar(data []byte) bool {
	return matchesMagicBytes(data, offsetTar, magicBytesTar)
}

// openTar opens a plain tar archive.
func openTar(ctx context.Context, r *Registry, in *input, req multiextract.OpenRequest) (*multiextract.ArchiveChain, error) {
	h, err := newTarHandle(trimArchiveExtension(in.name, ".tar"), in.size, func() (io.ReadCloser, error) {
		return &noopReaderCloser{in.section()}, nil
	})
	if err != nil {
		return nil, err
	}
	return multiextract.NewArchiveChain(h), nil
}

// newTarHandle lists the tar archive that open returns. open is called again for every
// extraction, because tar archives can only be read sequentially.
func newTarHandle(name string, physSize int64, open func() (io.ReadCloser, error)) (*handle, error) {
	rc, err := open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	h := newHandle(formatTar, name, physSize)
	tr := tar.NewReader(rc)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "cannot read tar header")
		}
		h.items = append(h.items, tarItem(hdr))
	}

	h.walk = func() (archiveWalker, error) {
		rc, err := open()
		if err != nil {
			return nil, err
		}
		return &tarWalker{tr: tar.NewReader(rc), c: rc}, nil
	}
	return h, nil
}

// tarItem converts a tar header.
func tarItem(hdr *tar.Header) multiextract.Item {
	item := newItem(hdr.Name, hdr.Typeflag == tar.TypeDir)
	item.Size = uint64(hdr.Size)
	item.ModTime = hdr.ModTime
	item.Mode = hdr.FileInfo().Mode()
	switch hdr.Typeflag {
	case tar.TypeSymlink:
		item.LinkTarget = hdr.Linkname
		item.Size = 0
	case tar.TypeLink:
		item.HardLink = newItem(hdr.Linkname, false).Path
		item.Size = 0
	}
	return item
}

// tarWalker is a walker for tar files
type tarWalker struct {
	tr *tar.Reader
	c  io.Closer
}

// Next returns the next entry in the tar archive
func (t *tarWalker) Next() (archiveEntry, error) {
	if _, err := t.tr.Next(); err != nil {
		return nil, err
	}
	return &streamEntry{t.tr}, nil
}

// Close closes the underlying stream.
func (t *tarWalker) Close() error {
	return t.c.Close()
}
