// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestReadBytes(t *testing.T) {
	tests := []struct {
		name       string
		limit      int64
		input      string
		bufferSize int
		expectN    int
		wantErr    bool
	}{
		{
			name:       "Under limit",
			limit:      10,
			input:      "12345",
			bufferSize: 5,
			expectN:    5,
			wantErr:    false,
		},
		{
			name:       "At limit",
			limit:      5,
			input:      "12345",
			bufferSize: 5,
			expectN:    5,
			wantErr:    false,
		},
		{
			name:       "Over limit",
			limit:      4,
			input:      "12345",
			bufferSize: 5,
			expectN:    4,
			wantErr:    false,
		},
		{
			name:       "Under limit with buffer",
			limit:      10,
			input:      "12345",
			bufferSize: 2,
			expectN:    2,
			wantErr:    false,
		},
		{
			name:       "Unlimited",
			limit:      -1,
			input:      "12345",
			bufferSize: 5,
			expectN:    5,
			wantErr:    false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := strings.NewReader(test.input)
			l := newLimitErrorReader(r, test.limit)
			buf := make([]byte, test.bufferSize)
			n, err := l.Read(buf)
			if (err != nil) != test.wantErr {
				t.Fatalf("Read() error = %v, wantErr %v", err, test.wantErr)
			}
			if n != test.expectN {
				t.Errorf("Read() = %v, want %v", n, test.expectN)
			}
			if l.ReadBytes() != int64(test.expectN) {
				t.Errorf("ReadBytes() = %v, want %v", l.ReadBytes(), test.expectN)
			}
		})
	}
}

// TestLimitErrorReaderReadAll tests that reading beyond the limit fails, while an input
// that ends exactly at the limit is read completely.
func TestLimitErrorReaderReadAll(t *testing.T) {
	tests := []struct {
		name    string
		limit   int64
		input   string
		wantErr error
	}{
		{
			name:  "Under limit",
			limit: 10,
			input: "12345",
		},
		{
			name:  "At limit",
			limit: 5,
			input: "12345",
		},
		{
			name:    "Over limit",
			limit:   4,
			input:   "12345",
			wantErr: ErrMaxInputSizeExceeded,
		},
		{
			name:  "Unlimited",
			limit: -1,
			input: "12345",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			l := newLimitErrorReader(strings.NewReader(test.input), test.limit)
			data, err := io.ReadAll(l)
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("ReadAll() error = %v, want %v", err, test.wantErr)
			}
			if test.wantErr == nil && string(data) != test.input {
				t.Errorf("ReadAll() = %q, want %q", data, test.input)
			}
		})
	}
}
