// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"archive/zip"
	"context"
	"io"
	"io/fs"

	multiextract "github.com/hashicorp/go-multiextract"
	"github.com/pkg/errors"
)

// formatZip is the format name of zip archives.
const formatZip = "zip"

// magicBytesZip contains the magic bytes for a zip archive.
// reference: https://golang.org/pkg/archive/zip/
var magicBytesZip = [][]byte{
	{0x50, 0x4B, 0x03, 0x04},
	{0x50, 0x4B, 0x05, 0x06}, // empty archive
}

// openZip opens a zip archive.
func openZip(ctx context.Context, r *Registry, in *input, req multiextract.OpenRequest) (*multiextract.ArchiveChain, error) {
	reader, err := zip.NewReader(in.ra, in.size)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create zip reader")
	}

	h := newHandle(formatZip, trimArchiveExtension(in.name, ".zip", ".jar"), in.size)
	h.comment = reader.Comment
	for _, f := range reader.File {
		h.items = append(h.items, zipItem(f))
	}
	files := reader.File
	h.walk = func() (archiveWalker, error) {
		return &indexWalker{n: len(files), open: func(i int) (io.ReadCloser, error) {
			return files[i].Open()
		}}, nil
	}
	return multiextract.NewArchiveChain(h), nil
}

// zipItem converts the header of a zip entry.
func zipItem(f *zip.File) multiextract.Item {
	mode := f.Mode()
	item := newItem(f.Name, mode.IsDir())
	item.Size = f.UncompressedSize64
	item.ModTime = f.Modified
	item.Mode = mode
	if mode&fs.ModeSymlink != 0 {
		item.LinkTarget = readLinkTarget(f.Open)
	}
	return item
}
