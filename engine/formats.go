// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package engine

// maxHeaderLength is the maximum header length of all formats
var maxHeaderLength int

// init calculates the maximum header length
func init() {
	for _, f := range availableFormats() {
		needs := f.offset
		for _, mb := range f.magicBytes {
			if len(mb)+f.offset > needs {
				needs = len(mb) + f.offset
			}
		}
		if needs > maxHeaderLength {
			maxHeaderLength = needs
		}
	}
}

// availableFormats returns all formats in the order in which magic bytes are checked.
// Weak signatures come last.
func availableFormats() []*format {
	return []*format{
		{
			name:       format7zip,
			extensions: []string{".7z", ".7z.001"},
			magicBytes: magicBytes7zip,
			open:       open7zip,
		},
		{
			name:       formatRar,
			extensions: []string{".rar"},
			magicBytes: magicBytesRar,
			open:       openRar,
		},
		{
			name:       formatZip,
			extensions: []string{".zip", ".jar"},
			magicBytes: magicBytesZip,
			open:       openZip,
		},
		{
			name:       formatTar,
			extensions: []string{".tar"},
			magicBytes: magicBytesTar,
			offset:     offsetTar,
			open:       openTar,
		},
		compressedFormat(formatGZip, extensionsGZip, magicBytesGZip, decompressGZipStream),
		compressedFormat(formatBzip2, extensionsBzip2, magicBytesBzip2, decompressBzip2Stream),
		compressedFormat(formatXz, extensionsXz, magicBytesXz, decompressXzStream),
		compressedFormat(formatZstd, extensionsZstd, magicBytesZstd, decompressZstdStream),
		compressedFormat(formatLZ4, extensionsLZ4, magicBytesLZ4, decompressLZ4Stream),
		compressedFormat(formatSnappy, extensionsSnappy, magicBytesSnappy, decompressSnappyStream),
		compressedFormat(formatBrotli, extensionsBrotli, nil, decompressBrotliStream),
		{
			name:       formatPE,
			extensions: []string{".exe"},
			magicBytes: magicBytesPE,
			open:       openPE,
		},
		{
			name:       formatHash,
			extensions: hashExtensions(),
			open:       openHash,
		},
		compressedFormat(formatZlib, extensionsZlib, magicBytesZlib, decompressZlibStream),
	}
}
