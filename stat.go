// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package multiextract

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// DecompressStat are the statistics of an extraction run.
type DecompressStat struct {
	NumArchives          uint64 `json:"num_archives"`
	NumFolders           uint64 `json:"num_folders"`
	NumFiles             uint64 `json:"num_files"`
	NumAltStreams        uint64 `json:"num_alt_streams"`
	UnpackSize           uint64 `json:"unpack_size"`
	AltStreamsUnpackSize uint64 `json:"alt_streams_unpack_size"`
	PackSize             uint64 `json:"pack_size"`
}

// String returns a short human readable summary.
func (s DecompressStat) String() string {
	str := fmt.Sprintf("archives: %d, folders: %d, files: %d, size: %s, compressed: %s",
		s.NumArchives, s.NumFolders, s.NumFiles, humanize.IBytes(s.UnpackSize), humanize.IBytes(s.PackSize))
	if s.NumAltStreams > 0 {
		str += fmt.Sprintf(", alternate streams: %d (%s)", s.NumAltStreams, humanize.IBytes(s.AltStreamsUnpackSize))
	}
	return str
}

// Result is the outcome of [Extract].
type Result struct {
	Stat DecompressStat

	// ErrorMessage is the message of a fatal error, empty on success.
	ErrorMessage string

	// ItemErrors collects the failures of single items. Those do not fail the run.
	ItemErrors error
}
