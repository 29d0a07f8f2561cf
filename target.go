// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package multiextract

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ZoneMarker is the origin marker of a downloaded file, stored as extended attributes.
// The keys are attribute names, e.g. "user.xdg.origin.url".
type ZoneMarker map[string][]byte

// Target specifies all function that are needed to be implemented to extract contents from an archive
type Target interface {
	// CreateFile creates a file at the specified path and returns a writer for its content. The mode parameter is
	// the file mode that should be set on the file. If the file already exists and overwrite is false, an error
	// should be returned.
	CreateFile(path string, mode fs.FileMode, overwrite bool) (io.WriteCloser, error)

	// CreateDir creates the directory at the specified path including all parents with the specified mode. If the
	// directory already exists, nothing is done.
	CreateDir(path string, mode fs.FileMode) error

	// CreateSymlink creates a symbolic link from newname to oldname. If newname already exists and overwrite is false,
	// the function returns an error. If newname already exists and overwrite is true, the function may overwrite the
	// existing symlink.
	CreateSymlink(oldname string, newname string, overwrite bool) error

	// CreateHardLink creates newname as a hard link to the existing file oldname. The overwrite semantic is the same
	// as for CreateSymlink.
	CreateHardLink(oldname string, newname string, overwrite bool) error

	// Lstat see docs for os.Lstat. Main purpose is to check for symlinks in the extraction path
	// and for zip-slip attacks.
	Lstat(path string) (fs.FileInfo, error)

	// Stat see docs for os.Stat. Main purpose is to check the archive paths of a run, following links.
	Stat(path string) (fs.FileInfo, error)

	// Rename see docs for os.Rename. Main purpose is to move existing files out of the way.
	Rename(oldpath string, newpath string) error

	// Remove see docs for os.Remove.
	Remove(path string) error

	// Chmod see docs for os.Chmod. Main purpose is to set the file mode of a file or directory.
	Chmod(name string, mode fs.FileMode) error

	// Chtimes see docs for os.Chtimes. Main purpose is to set the file times of a file or directory.
	Chtimes(name string, atime, mtime time.Time) error

	// Lchtimes changes the file times of a symlink itself.
	Lchtimes(name string, atime, mtime time.Time) error

	// ReadZone returns the origin marker of the file at path. A file without marker returns
	// an empty marker and no error.
	ReadZone(path string) (ZoneMarker, error)

	// WriteZone attaches the origin marker to the file at path.
	WriteZone(path string, zone ZoneMarker) error

	// WriteAltStream stores data as the alternate data stream name of the file at path.
	WriteAltStream(path string, name string, data []byte) error
}

// createFile is a wrapper around the CreateFile function
//
// If the name is empty, the function returns an error.
//
// If the directory for the file does not exist, it will be created with the config.CustomCreateDirMode().
//
// If the path contains path traversal or a symlink, the function returns an error, unless
// config.TraverseSymlinks() allows the symlink.
func createFile(t Target, dst string, name string, mode fs.FileMode, overwrite bool, cfg *Config) (io.WriteCloser, error) {
	// check if a name is provided
	if len(name) == 0 {
		return nil, fmt.Errorf("cannot create file without name")
	}

	// ensures that the directory exists and is safe to write to
	if err := createDir(t, dst, filepath.Dir(name), cfg.CustomCreateDirMode(), cfg); err != nil {
		return nil, fmt.Errorf("cannot create directory: %w", err)
	}

	// ensure that if the file exist that it is not a symlink
	if err := securityCheck(t, dst, name, cfg); err != nil {
		return nil, fmt.Errorf("security check path failed: %w", err)
	}

	w, err := t.CreateFile(filepath.Join(dst, name), mode, overwrite)
	if err != nil {
		return nil, err
	}
	return &limitWriteCloser{Writer: limitWriter(w, cfg.MaxExtractionSize()), c: w}, nil
}

// createDir is a wrapper around the CreateDir function
//
// The name is relative to dst. If the path contains path traversal or a symlink, the function
// returns an error, unless config.TraverseSymlinks() allows the symlink.
func createDir(t Target, dst string, name string, mode fs.FileMode, cfg *Config) error {
	// no action needed
	if name == "." || name == "" {
		return nil
	}

	// perform security check to ensure that the path is safe to write to
	if err := securityCheck(t, dst, name, cfg); err != nil {
		return fmt.Errorf("security check path failed: %w", err)
	}

	return t.CreateDir(filepath.Join(dst, name), mode)
}

// createSymlink is a wrapper around the CreateSymlink function
//
// It checks if the symlink extraction is allowed and if the link target is an absolute path.
// Both cases are reported as error, as well as link targets that leave dst.
func createSymlink(t Target, dst string, name string, linkTarget string, overwrite bool, cfg *Config) error {
	// check if symlink extraction is denied
	if cfg.DenySymlinkExtraction() {
		return fmt.Errorf("symlink extraction is denied")
	}

	// check if a name is provided
	if len(name) == 0 {
		return fmt.Errorf("empty name")
	}

	// Check if link target is absolute path
	if filepath.IsAbs(linkTarget) {
		return fmt.Errorf("symlink with absolute path as target: %s", linkTarget)
	}

	// create target dir && check for traversal in file name
	linkDirectory := filepath.Dir(name)
	if err := createDir(t, dst, linkDirectory, cfg.CustomCreateDirMode(), cfg); err != nil {
		return fmt.Errorf("cannot create directory (%s) for symlink: %w", linkDirectory+string(os.PathSeparator), err)
	}

	// check link target for traversal
	targetCleaned := filepath.Join(linkDirectory, filepath.FromSlash(linkTarget))
	if err := securityCheck(t, dst, targetCleaned, cfg); err != nil {
		return fmt.Errorf("symlink target security check path failed: %w", err)
	}

	return t.CreateSymlink(linkTarget, filepath.Join(dst, name), overwrite)
}

// securityCheck checks if the targetDirectory contains path traversal
// and if the path contains a symlink.
//
// If the path contains a symlink and config.TraverseSymlinks() returns true,
// a warning is logged and the function continues.
func securityCheck(t Target, dst string, path string, config *Config) error {
	// check if dst is empty, then path should not be an absolute path
	if len(dst) == 0 {
		if filepath.IsAbs(path) {
			return fmt.Errorf("absolute path detected")
		}
	}

	// get relative path from base to new directory target
	rel, err := filepath.Rel(dst, filepath.Join(dst, path))
	if err != nil {
		return fmt.Errorf("failed to get relative path: %w", err)
	}
	// check if the relative path is local
	if !filepath.IsLocal(rel) {
		return fmt.Errorf("path traversal detected")
	}

	// check each dir in path
	targetPathElements := strings.Split(rel, string(os.PathSeparator))
	for i := 0; i < len(targetPathElements); i++ {

		// assemble path
		subDirs := filepath.Join(targetPathElements[0 : i+1]...)
		checkDir := filepath.Join(dst, subDirs)
		if len(checkDir) == 0 || checkDir == "." {
			continue
		}

		isSymlink, err := isSymlink(t, checkDir)
		if err != nil {
			return fmt.Errorf("failed to check symlink: %w", err)
		}
		if isSymlink {
			if config.TraverseSymlinks() {
				config.Logger().Warn("traverse symlink", "sub-dir", subDirs)
			} else {
				return fmt.Errorf("symlink in path")
			}
		}
	}

	return nil
}

// isSymlink checks if path is a symlink. Paths that do not exist are no symlinks.
func isSymlink(t Target, path string) (bool, error) {
	stat, err := t.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("invalid path: %w", err)
	}
	return stat.Mode()&fs.ModeSymlink != 0, nil
}

// limitWriteCloser applies the size limit of a single file to a target writer.
type limitWriteCloser struct {
	io.Writer
	c io.Closer
}

// Close closes the underlying target writer.
func (l *limitWriteCloser) Close() error {
	return l.c.Close()
}

// altStreamAttribute returns the extended attribute name that stores the alternate stream name.
func altStreamAttribute(name string) string {
	return "user.DosStream." + name + ":$DATA"
}
