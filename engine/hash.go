// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	multiextract "github.com/hashicorp/go-multiextract"
	"github.com/hashicorp/go-multiextract/hashsum"
	"github.com/pkg/errors"
)

// formatHash is the format name of checksum listings.
const formatHash = "hash"

// maxHashListingSize limits the size of a checksum listing.
const maxHashListingSize = 16 << 20

// hashExtensions returns the file extensions of checksum listings.
func hashExtensions() []string {
	return hashsum.Extensions()
}

// openHash opens a checksum listing. Its entries are the listed files, which are read
// from the directory returned by the extract callback and verified against their
// checksums. A listing can only be tested.
func openHash(ctx context.Context, r *Registry, in *input, req multiextract.OpenRequest) (*multiextract.ArchiveChain, error) {
	method, ok := hashsum.MethodForFile(in.name)
	if !ok {
		return nil, fmt.Errorf("unknown checksum listing extension: %s", in.name)
	}
	if in.size > maxHashListingSize {
		return nil, fmt.Errorf("checksum listing too large: %d bytes", in.size)
	}

	lines, err := hashsum.ParseListing(in.section(), method)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read checksum listing")
	}

	h := newHandle(formatHash, trimArchiveExtension(in.name, strings.ToLower(filepath.Ext(in.name))), in.size)
	h.hashHandler = true
	for _, l := range lines {
		h.items = append(h.items, newItem(filepath.ToSlash(l.Path), false))
	}
	h.extract = func(ctx context.Context, h *handle, indices []int, testMode bool, cb multiextract.ExtractCallback) error {
		return verifyHashes(ctx, h, method, lines, indices, cb)
	}
	return multiextract.NewArchiveChain(h), nil
}

// verifyHashes reads the files of the listed entries at indices, or of all entries if
// indices is nil, and compares their checksums. The data is passed to the stream that
// cb returns, so that a hash sink sees the file content. A mismatch is reported as
// [multiextract.ErrDataError] for the entry.
func verifyHashes(ctx context.Context, h *handle, method string, lines []hashsum.Line, indices []int, cb multiextract.ExtractCallback) error {
	if indices == nil {
		indices = make([]int, len(lines))
		for i := range indices {
			indices[i] = i
		}
	}

	dir := cb.HashFilesDir()
	var total uint64
	sizes := make(map[int]uint64, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(lines) {
			return fmt.Errorf("item index %d out of range", i)
		}
		if stat, err := os.Stat(filepath.Join(dir, filepath.FromSlash(h.items[i].Path))); err == nil {
			sizes[i] = uint64(stat.Size())
			total += sizes[i]
		}
	}
	if err := cb.SetTotal(total); err != nil {
		return err
	}

	var completed uint64
	for _, i := range indices {
		if err := ctx.Err(); err != nil {
			return abortError(err)
		}
		h.items[i].Size = sizes[i]

		w, err := cb.GetStream(i)
		if err != nil {
			return err
		}

		n, opErr := verifyFile(ctx, filepath.Join(dir, filepath.FromSlash(h.items[i].Path)), method, lines[i].Sum, w)
		if isAbort(opErr) {
			return opErr
		}
		completed += uint64(n)
		if err := cb.SetOperationResult(i, opErr); err != nil {
			return err
		}
		if err := cb.SetCompleted(completed); err != nil {
			return err
		}
	}
	return nil
}

// verifyFile hashes the file at path, copies its content to w if set, and compares the
// checksum with want.
func verifyFile(ctx context.Context, path string, method string, want []byte, w io.Writer) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", multiextract.ErrDataError, err)
	}
	defer f.Close()

	hasher, err := hashsum.NewHash(method)
	if err != nil {
		return 0, err
	}
	dst := io.Writer(hasher)
	if w != nil {
		dst = io.MultiWriter(hasher, w)
	}

	cr := &ctxReader{ctx: ctx, r: f}
	n, err := io.Copy(dst, cr)
	switch {
	case ctx.Err() != nil:
		return n, abortError(ctx.Err())
	case err != nil && cr.err != nil:
		return n, fmt.Errorf("%w: %v", multiextract.ErrDataError, err)
	case err != nil:
		return n, err
	}

	if got := hasher.Sum(nil); !bytes.Equal(got, want) {
		return n, fmt.Errorf("%w: %s checksum mismatch", multiextract.ErrDataError, method)
	}
	return n, nil
}
