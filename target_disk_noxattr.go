// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

//go:build !linux && !darwin

package multiextract

import (
	"fmt"
	"runtime"
)

// ReadZone returns an empty marker, extended attributes are not supported on this platform.
func (d *TargetDisk) ReadZone(path string) (ZoneMarker, error) {
	return ZoneMarker{}, nil
}

// WriteZone is a no-op on this platform.
func (d *TargetDisk) WriteZone(path string, zone ZoneMarker) error {
	return nil
}

// WriteAltStream is not supported on this platform.
func (d *TargetDisk) WriteAltStream(path string, name string, data []byte) error {
	return fmt.Errorf("alternate streams are not supported on this platform (%s): %w", runtime.GOOS, ErrNotImplemented)
}
