// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/bodgit/sevenzip"
	multiextract "github.com/hashicorp/go-multiextract"
	"github.com/pkg/errors"
)

// format7zip is the format name of 7zip archives
const format7zip = "7z"

// magicBytes7zip are the magic bytes for 7zip files
var magicBytes7zip = [][]byte{
	{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C},
}

// maxLinkTargetSize limits the data that is read as symlink target
const maxLinkTargetSize = 4096

// open7zip opens a 7zip archive. Files named like the first volume of a split archive
// are opened with all their volumes.
func open7zip(ctx context.Context, r *Registry, in *input, req multiextract.OpenRequest) (*multiextract.ArchiveChain, error) {
	password := req.Properties[PropPassword]

	h := newHandle(format7zip, trimArchiveExtension(in.name, ".7z", ".7z.001"), in.size)

	var (
		reader  *sevenzip.Reader
		volumes []string
	)
	if in.path != "" {
		rc, err := sevenzip.OpenReaderWithPassword(in.path, password)
		if err != nil {
			return nil, errors.Wrap(err, "cannot open 7zip archive")
		}
		h.closers = append(h.closers, rc)
		reader = &rc.Reader
		if v := rc.Volumes(); len(v) > 1 {
			volumes = v
		}
	} else {
		var err error
		if reader, err = sevenzip.NewReaderWithPassword(in.ra, in.size, password); err != nil {
			return nil, errors.Wrap(err, "cannot create 7zip reader")
		}
	}

	for _, f := range reader.File {
		h.items = append(h.items, sevenZipItem(f))
	}
	files := reader.File
	h.walk = func() (archiveWalker, error) {
		return &indexWalker{n: len(files), open: func(i int) (io.ReadCloser, error) {
			return files[i].Open()
		}}, nil
	}

	chain := multiextract.NewArchiveChain(h)
	if len(volumes) > 0 {
		var size uint64
		for _, v := range volumes[1:] {
			size += fileSize(os.Stat, v)
		}
		chain = chain.WithVolumes(volumes, size)
	}
	return chain, nil
}

// sevenZipItem converts the header of a 7zip entry.
func sevenZipItem(f *sevenzip.File) multiextract.Item {
	fi := f.FileInfo()
	item := newItem(f.Name, fi.IsDir())
	item.Size = f.UncompressedSize
	item.ModTime = f.Modified
	item.Mode = fi.Mode()
	if item.Mode&fs.ModeSymlink != 0 {
		item.LinkTarget = readLinkTarget(f.Open)
	}
	return item
}

// newItem creates an item for an archive path, which is normalized to slashes without
// trailing separator.
func newItem(name string, isDir bool) multiextract.Item {
	name = strings.ReplaceAll(name, "\\", "/")
	if strings.HasSuffix(name, "/") {
		isDir = true
		name = strings.TrimRight(name, "/")
	}
	name = strings.TrimPrefix(name, "./")
	return multiextract.Item{Path: name, MainPath: name, IsDir: isDir, MainIsDir: isDir}
}

// readLinkTarget reads the data of a symlink entry.
func readLinkTarget(open func() (io.ReadCloser, error)) string {
	rc, err := open()
	if err != nil {
		return ""
	}
	defer rc.Close()
	data, _ := io.ReadAll(io.LimitReader(rc, maxLinkTargetSize))
	return string(data)
}

// trimArchiveExtension removes the longest matching extension of exts from name.
func trimArchiveExtension(name string, exts ...string) string {
	lower := strings.ToLower(name)
	var best string
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) && len(ext) > len(best) && len(ext) < len(name) {
			best = ext
		}
	}
	return name[:len(name)-len(best)]
}
