// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

//go:build linux || darwin

package multiextract

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// ReadZone returns the origin marker attributes of path that are present.
func (d *TargetDisk) ReadZone(path string) (ZoneMarker, error) {
	zone := ZoneMarker{}
	for _, name := range zoneAttributes {
		size, err := unix.Getxattr(path, name, nil)
		if err != nil {
			if isNoAttr(err) {
				continue
			}
			return nil, fmt.Errorf("cannot read attribute %s: %w", name, err)
		}
		buf := make([]byte, size)
		n, err := unix.Getxattr(path, name, buf)
		if err != nil {
			return nil, fmt.Errorf("cannot read attribute %s: %w", name, err)
		}
		zone[name] = buf[:n]
	}
	return zone, nil
}

// WriteZone sets all attributes of zone on path.
func (d *TargetDisk) WriteZone(path string, zone ZoneMarker) error {
	for name, value := range zone {
		if err := unix.Setxattr(path, name, value, 0); err != nil {
			return fmt.Errorf("cannot write attribute %s: %w", name, err)
		}
	}
	return nil
}

// WriteAltStream stores data as extended attribute of path, using the naming scheme of
// samba's streams_xattr module.
func (d *TargetDisk) WriteAltStream(path string, name string, data []byte) error {
	if err := unix.Setxattr(path, altStreamAttribute(name), data, 0); err != nil {
		return fmt.Errorf("cannot write stream %s: %w", name, err)
	}
	return nil
}

// isNoAttr reports whether err means that an attribute is not present or not supported.
func isNoAttr(err error) bool {
	return errors.Is(err, errNoAttr) || errors.Is(err, unix.ENOTSUP)
}
