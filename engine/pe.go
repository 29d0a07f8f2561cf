// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	"debug/pe"
	"io"

	multiextract "github.com/hashicorp/go-multiextract"
	"github.com/pkg/errors"
)

// formatPE is the format name of windows executables.
const formatPE = "pe"

// peSubfileName is the name of the archive embedded in an executable. Embedded
// archives have no name of their own.
const peSubfileName = "0"

// magicBytesPE are the magic bytes of the DOS header of an executable.
var magicBytesPE = [][]byte{
	[]byte("MZ"),
}

// embeddableFormats are the formats that are searched in the overlay of an executable.
var embeddableFormats = []string{format7zip, formatZip, formatRar}

// openPE opens a self-extracting executable. The archive appended to the executable
// (the overlay behind the last section) is opened as second handle of the chain.
func openPE(ctx context.Context, r *Registry, in *input, req multiextract.OpenRequest) (*multiextract.ArchiveChain, error) {
	f, err := pe.NewFile(in.ra)
	if err != nil {
		return nil, errors.Wrap(err, "cannot parse executable")
	}
	defer f.Close()

	var end int64
	for _, s := range f.Sections {
		if e := int64(s.Offset) + int64(s.Size); e > end {
			end = e
		}
	}
	if end <= 0 || end >= in.size {
		return nil, errors.New("executable contains no archive")
	}

	overlay := &input{
		name: peSubfileName,
		ra:   io.NewSectionReader(in.ra, end, in.size-end),
		size: in.size - end,
	}
	header := readHeader(overlay)

	for _, name := range embeddableFormats {
		embedded := r.byName[name]
		if embedded == nil || excludes(req, name) || !embedded.matches(header) {
			continue
		}
		inner, err := embedded.open(ctx, r, overlay, req)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot open embedded %s archive", name)
		}

		outer := newHandle(formatPE, trimArchiveExtension(in.name, ".exe"), in.size)
		arcs := []multiextract.Archive{outer}
		for i := 0; i < inner.Len(); i++ {
			arcs = append(arcs, inner.At(i))
		}
		return multiextract.NewArchiveChain(arcs...), nil
	}
	return nil, errors.New("executable contains no supported archive")
}
