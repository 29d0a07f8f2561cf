// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package multiextract

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"
)

// TargetDisk is the struct type that holds all information for interacting with the filesystem
type TargetDisk struct{}

// NewTargetDisk creates a new disk target
func NewTargetDisk() *TargetDisk {
	return &TargetDisk{}
}

// CreateDir creates a directory at the specified path with the specified mode. Missing parents
// are created as well. If the directory already exists, nothing is done.
func (d *TargetDisk) CreateDir(path string, mode fs.FileMode) error {
	if err := os.MkdirAll(path, mode.Perm()); err != nil {
		return fmt.Errorf("failed to create directory (%w)", err)
	}
	return nil
}

// CreateFile creates a file at the specified path and returns it for writing.
// If the file already exists and overwrite is false, an error wrapping [fs.ErrExist] is returned.
func (d *TargetDisk) CreateFile(path string, mode fs.FileMode, overwrite bool) (io.WriteCloser, error) {
	// Check for path validity and if file existence+overwrite
	if _, err := os.Lstat(path); !os.IsNotExist(err) {

		// something wrong with path
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}

		// check for overwrite
		if !overwrite {
			return nil, fmt.Errorf("file already exists: %w", fs.ErrExist)
		}
	}

	// create dst file
	dstFile, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return dstFile, nil
}

// CreateSymlink creates a symbolic link from newname to oldname. If
// newname already exists and overwrite is false, an error should be returned.
func (d *TargetDisk) CreateSymlink(oldname string, newname string, overwrite bool) error {
	if err := d.prepareLink(newname, overwrite); err != nil {
		return err
	}
	if err := os.Symlink(oldname, newname); err != nil {
		return fmt.Errorf("failed to create symlink: %w", err)
	}
	return nil
}

// CreateHardLink creates newname as hard link to oldname. If
// newname already exists and overwrite is false, an error should be returned.
func (d *TargetDisk) CreateHardLink(oldname string, newname string, overwrite bool) error {
	if err := d.prepareLink(newname, overwrite); err != nil {
		return err
	}
	if err := os.Link(oldname, newname); err != nil {
		return fmt.Errorf("failed to create hard link: %w", err)
	}
	return nil
}

// prepareLink removes an existing entry at name if overwrite is allowed.
func (d *TargetDisk) prepareLink(name string, overwrite bool) error {
	if _, err := os.Lstat(name); !os.IsNotExist(err) {
		if !overwrite {
			return fmt.Errorf("file already exists: %w", fs.ErrExist)
		}
		if err := os.Remove(name); err != nil {
			return fmt.Errorf("failed to overwrite file: %w", err)
		}
	}
	return nil
}

// Lstat returns the FileInfo structure describing the named file.
// If there is an error, it will be of type *PathError.
func (d *TargetDisk) Lstat(name string) (fs.FileInfo, error) {
	return os.Lstat(name)
}

// Stat returns the FileInfo structure describing the named file.
// If there is an error, it will be of type *PathError.
func (d *TargetDisk) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

// Rename renames oldpath to newpath.
func (d *TargetDisk) Rename(oldpath string, newpath string) error {
	return os.Rename(oldpath, newpath)
}

// Remove removes the named file or empty directory.
func (d *TargetDisk) Remove(name string) error {
	return os.Remove(name)
}

// Chmod changes the mode of the named file to mode.
func (d *TargetDisk) Chmod(name string, mode fs.FileMode) error {
	return os.Chmod(name, mode.Perm())
}

// Chtimes changes the access and modification times of the named file.
func (d *TargetDisk) Chtimes(name string, atime, mtime time.Time) error {
	return os.Chtimes(name, atime, mtime)
}

// Lchtimes changes the access and modification times of the named file.
func (d *TargetDisk) Lchtimes(name string, atime, mtime time.Time) error {
	if canMaintainSymlinkTimestamps {
		return lchtimes(name, atime, mtime)
	}
	return nil
}
