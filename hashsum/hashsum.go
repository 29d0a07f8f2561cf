// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package hashsum calculates checksums of extracted entries and reads and writes
// checksum listings in the format of the sha256sum family of tools.
package hashsum

import (
	"bufio"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"hash/crc32"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Supported checksum methods.
const (
	MethodCRC32   = "crc32"
	MethodMD5     = "md5"
	MethodSHA1    = "sha1"
	MethodSHA256  = "sha256"
	MethodSHA512  = "sha512"
	MethodBLAKE2b = "blake2b"
)

// maxLineLength limits the length of a line in a checksum listing.
const maxLineLength = 64 * 1024

// constructors create the hash of a method.
var constructors = map[string]func() (hash.Hash, error){
	MethodCRC32:   func() (hash.Hash, error) { return crc32.NewIEEE(), nil },
	MethodMD5:     func() (hash.Hash, error) { return md5.New(), nil },
	MethodSHA1:    func() (hash.Hash, error) { return sha1.New(), nil },
	MethodSHA256:  func() (hash.Hash, error) { return sha256.New(), nil },
	MethodSHA512:  func() (hash.Hash, error) { return sha512.New(), nil },
	MethodBLAKE2b: func() (hash.Hash, error) { return blake2b.New512(nil) },
}

// fileExtensions maps the extensions of checksum listings to their method.
var fileExtensions = map[string]string{
	".crc32":   MethodCRC32,
	".md5":     MethodMD5,
	".sha1":    MethodSHA1,
	".sha256":  MethodSHA256,
	".sha512":  MethodSHA512,
	".b2":      MethodBLAKE2b,
	".blake2b": MethodBLAKE2b,
}

// NewHash returns a new hash for method.
func NewHash(method string) (hash.Hash, error) {
	c, ok := constructors[strings.ToLower(method)]
	if !ok {
		return nil, fmt.Errorf("unsupported checksum method: %s", method)
	}
	return c()
}

// Methods returns the names of all supported methods, sorted.
func Methods() []string {
	methods := make([]string, 0, len(constructors))
	for m := range constructors {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	return methods
}

// Extensions returns the file extensions of checksum listings.
func Extensions() []string {
	exts := make([]string, 0, len(fileExtensions))
	for ext := range fileExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// MethodForFile returns the method of the checksum listing name, derived from its extension.
func MethodForFile(name string) (string, bool) {
	m, ok := fileExtensions[strings.ToLower(filepath.Ext(name))]
	return m, ok
}

// Line is one entry of a checksum listing.
type Line struct {
	Sum  []byte
	Path string
}

// ParseListing reads a checksum listing of method. Empty lines and comments starting
// with "#" are ignored. Paths marked as binary with a leading "*" are accepted.
func ParseListing(r io.Reader, method string) ([]Line, error) {
	h, err := NewHash(method)
	if err != nil {
		return nil, err
	}
	size := h.Size()

	var lines []Line
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 4096), maxLineLength)
	for n := 1; scanner.Scan(); n++ {
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" || strings.HasPrefix(text, "#") {
			continue
		}
		sum, name, ok := strings.Cut(text, " ")
		if !ok {
			return nil, fmt.Errorf("line %d: missing path", n)
		}
		decoded, err := hex.DecodeString(sum)
		if err != nil || len(decoded) != size {
			return nil, fmt.Errorf("line %d: invalid %s checksum", n, method)
		}
		name = strings.TrimPrefix(strings.TrimPrefix(name, " "), "*")
		if name == "" {
			return nil, fmt.Errorf("line %d: missing path", n)
		}
		lines = append(lines, Line{Sum: decoded, Path: name})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read checksum listing: %w", err)
	}
	return lines, nil
}
