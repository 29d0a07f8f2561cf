// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package hashsum

import (
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"strings"
)

// Entry is the result of one hashed entry.
type Entry struct {
	Path        string
	Size        uint64
	IsDir       bool
	IsAltStream bool

	// Sums maps the method to the checksum, directories have no checksums
	Sums map[string][]byte
}

// Sink calculates the checksums of all entries passed to it. It implements the hash
// sink of an extraction run.
type Sink struct {
	methods []string
	hashers []hash.Hash

	path    string
	size    uint64
	entries []Entry
}

// New creates a sink that calculates the checksums of methods.
func New(methods ...string) (*Sink, error) {
	if len(methods) == 0 {
		methods = []string{MethodCRC32}
	}
	s := &Sink{}
	for _, m := range methods {
		h, err := NewHash(m)
		if err != nil {
			return nil, err
		}
		s.methods = append(s.methods, strings.ToLower(m))
		s.hashers = append(s.hashers, h)
	}
	return s, nil
}

// Begin starts the entry at path.
func (s *Sink) Begin(path string) {
	s.path = path
	s.size = 0
	for _, h := range s.hashers {
		h.Reset()
	}
}

// Write adds data of the current entry.
func (s *Sink) Write(p []byte) (int, error) {
	for _, h := range s.hashers {
		h.Write(p)
	}
	s.size += uint64(len(p))
	return len(p), nil
}

// End finishes the current entry.
func (s *Sink) End(isDir, isAltStream bool) error {
	e := Entry{Path: s.path, Size: s.size, IsDir: isDir, IsAltStream: isAltStream}
	if !isDir {
		e.Sums = make(map[string][]byte, len(s.methods))
		for i, m := range s.methods {
			e.Sums[m] = s.hashers[i].Sum(nil)
		}
	}
	s.entries = append(s.entries, e)
	s.path = ""
	return nil
}

// Entries returns the results of all finished entries.
func (s *Sink) Entries() []Entry {
	return s.entries
}

// WriteListing writes the checksums of method of all files as listing to w.
func (s *Sink) WriteListing(w io.Writer, method string) error {
	method = strings.ToLower(method)
	for _, e := range s.entries {
		sum, ok := e.Sums[method]
		if !ok {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s  %s\n", hex.EncodeToString(sum), e.Path); err != nil {
			return err
		}
	}
	return nil
}
