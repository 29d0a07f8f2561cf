// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	multiextract "github.com/hashicorp/go-multiextract"
	"github.com/nwaples/rardecode"
	"github.com/pkg/errors"
)

// formatRar is the format name of rar archives.
const formatRar = "rar"

// magicBytesRar are the magic bytes for Rar files.
var magicBytesRar = [][]byte{
	{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x00},       // Rar 1.5
	{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x01, 0x00}, // Rar 5.0
}

// rarPartPattern matches volume names of the "name.partNN.rar" scheme.
var rarPartPattern = regexp.MustCompile(`(?i)^(.*?)([_.-]?)part(\d+)(\.rar)$`)

// maxRarVolumes limits the volume discovery
const maxRarVolumes = 10000

// openRar opens a rar archive. Archives read from a file are opened with all volumes.
func openRar(ctx context.Context, r *Registry, in *input, req multiextract.OpenRequest) (*multiextract.ArchiveChain, error) {
	password := req.Properties[PropPassword]

	newReader := func() (*rardecode.Reader, io.Closer, error) {
		if in.path != "" {
			rc, err := rardecode.OpenReader(in.path, password)
			if err != nil {
				return nil, nil, err
			}
			return &rc.Reader, rc, nil
		}
		rd, err := rardecode.NewReader(in.section(), password)
		return rd, &noopReaderCloser{}, err
	}

	rd, closer, err := newReader()
	if err != nil {
		return nil, errors.Wrap(err, "cannot create rar decoder")
	}
	h := newHandle(formatRar, rarDefaultName(in.name), in.size)
	for {
		fh, err := rd.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			closer.Close()
			return nil, errors.Wrap(err, "cannot read rar header")
		}
		item := newItem(fh.Name, fh.IsDir)
		item.Size = uint64(fh.UnPackedSize)
		item.ModTime = fh.ModificationTime
		item.Mode = fh.Mode()
		h.items = append(h.items, item)
	}
	closer.Close()

	h.walk = func() (archiveWalker, error) {
		rd, closer, err := newReader()
		if err != nil {
			return nil, err
		}
		return &rarWalker{r: rd, c: closer}, nil
	}

	chain := multiextract.NewArchiveChain(h)
	if in.path != "" {
		if volumes := discoverRarVolumes(in.path); len(volumes) > 1 {
			var size uint64
			for _, v := range volumes[1:] {
				size += fileSize(os.Stat, v)
			}
			chain = chain.WithVolumes(volumes, size)
		}
	}
	return chain, nil
}

// rarDefaultName removes the volume and rar extension of name.
func rarDefaultName(name string) string {
	if m := rarPartPattern.FindStringSubmatch(name); m != nil && m[1] != "" {
		return m[1]
	}
	return trimArchiveExtension(name, ".rar")
}

// discoverRarVolumes returns the volumes of the rar archive starting at first, first
// included. Both the "partNN.rar" and the ".rNN" naming schemes are detected.
func discoverRarVolumes(first string) []string {
	dir, base := filepath.Split(first)

	if m := rarPartPattern.FindStringSubmatch(base); m != nil {
		prefix, sep, num, suffix := m[1], m[2], m[3], m[4]
		if n, _ := strconv.Atoi(num); n != 1 {
			return []string{first}
		}
		var vols []string
		for i := 1; i < maxRarVolumes; i++ {
			p := filepath.Join(dir, fmt.Sprintf("%s%spart%0*d%s", prefix, sep, len(num), i, suffix))
			if _, err := os.Stat(p); err != nil {
				break
			}
			vols = append(vols, p)
		}
		return vols
	}

	if !strings.HasSuffix(strings.ToLower(base), ".rar") {
		return nil
	}
	vols := []string{first}
	prefix := strings.TrimSuffix(first, filepath.Ext(first))
	for i := 0; i < 1000; i++ {
		p := fmt.Sprintf("%s.r%02d", prefix, i)
		if _, err := os.Stat(p); err != nil {
			break
		}
		vols = append(vols, p)
	}
	return vols
}

// rarWalker is an archiveWalker for Rar files.
type rarWalker struct {
	r *rardecode.Reader
	c io.Closer
}

// Next returns the next entry in the rar file.
func (rw *rarWalker) Next() (archiveEntry, error) {
	if _, err := rw.r.Next(); err != nil {
		return nil, err
	}
	return &streamEntry{rw.r}, nil
}

// Close closes the volumes.
func (rw *rarWalker) Close() error {
	return rw.c.Close()
}
