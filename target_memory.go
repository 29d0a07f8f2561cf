// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package multiextract

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/afero"
)

// maxLinkHops limits the resolution of symlink chains in [TargetMemory.Stat].
const maxLinkHops = 40

// TargetMemory is an in-memory [Target] backed by an afero memory filesystem. Symlinks and
// extended attributes are tracked next to the filesystem, because the memory filesystem
// supports neither.
type TargetMemory struct {
	fs     afero.Fs
	links  map[string]string
	xattrs map[string]map[string][]byte
}

// NewTargetMemory creates an empty in-memory target.
func NewTargetMemory() *TargetMemory {
	return &TargetMemory{
		fs:     afero.NewMemMapFs(),
		links:  map[string]string{},
		xattrs: map[string]map[string][]byte{},
	}
}

// Fs returns the underlying filesystem, e.g. to read extracted files.
func (m *TargetMemory) Fs() afero.Fs {
	return m.fs
}

// Readlink returns the target of the symlink at path.
func (m *TargetMemory) Readlink(path string) (string, error) {
	if target, ok := m.links[filepath.Clean(path)]; ok {
		return target, nil
	}
	return "", &fs.PathError{Op: "readlink", Path: path, Err: fs.ErrInvalid}
}

// Xattr returns the extended attribute name of path.
func (m *TargetMemory) Xattr(path string, name string) ([]byte, bool) {
	v, ok := m.xattrs[filepath.Clean(path)][name]
	return v, ok
}

// exists reports whether path is a link or a filesystem entry.
func (m *TargetMemory) exists(path string) bool {
	if _, ok := m.links[path]; ok {
		return true
	}
	_, err := m.fs.Stat(path)
	return err == nil
}

// CreateFile creates a file at the specified path and returns it for writing.
func (m *TargetMemory) CreateFile(path string, mode fs.FileMode, overwrite bool) (io.WriteCloser, error) {
	path = filepath.Clean(path)
	if m.exists(path) {
		if !overwrite {
			return nil, fmt.Errorf("file already exists: %w", fs.ErrExist)
		}
		delete(m.links, path)
	}
	f, err := m.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return f, nil
}

// CreateDir creates a directory and all missing parents. Links to directories are
// followed. Like on disk, it fails with ENOTDIR if an existing path element is no directory.
func (m *TargetMemory) CreateDir(path string, mode fs.FileMode) error {
	dir, err := m.resolveDirPath(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to create directory (%w)", err)
	}
	if err := m.fs.MkdirAll(dir, mode.Perm()|fs.ModeDir); err != nil {
		return fmt.Errorf("failed to create directory (%w)", err)
	}
	return nil
}

// resolveDirPath maps path onto the memory filesystem element by element.
func (m *TargetMemory) resolveDirPath(path string) (string, error) {
	cur := ""
	if filepath.IsAbs(path) {
		cur = string(filepath.Separator)
	}
	for _, elem := range strings.Split(path, string(filepath.Separator)) {
		if elem == "" || elem == "." {
			continue
		}
		next := filepath.Join(cur, elem)
		_, isLink := m.links[next]
		if isLink {
			next = m.resolve(next)
		}
		stat, err := m.fs.Stat(next)
		if (err == nil && !stat.IsDir()) || (err != nil && isLink) {
			return "", &fs.PathError{Op: "mkdir", Path: filepath.Join(cur, elem), Err: syscall.ENOTDIR}
		}
		cur = next
	}
	if cur == "" {
		cur = "."
	}
	return cur, nil
}

// CreateSymlink records newname as symlink to oldname.
func (m *TargetMemory) CreateSymlink(oldname string, newname string, overwrite bool) error {
	newname = filepath.Clean(newname)
	if m.exists(newname) {
		if !overwrite {
			return fmt.Errorf("file already exists: %w", fs.ErrExist)
		}
		if err := m.Remove(newname); err != nil {
			return fmt.Errorf("failed to overwrite file: %w", err)
		}
	}
	m.links[newname] = oldname
	return nil
}

// CreateHardLink copies the content of oldname to newname.
func (m *TargetMemory) CreateHardLink(oldname string, newname string, overwrite bool) error {
	newname = filepath.Clean(newname)
	stat, err := m.Stat(oldname)
	if err != nil {
		return fmt.Errorf("failed to create hard link: %w", err)
	}
	data, err := afero.ReadFile(m.fs, m.resolve(filepath.Clean(oldname)))
	if err != nil {
		return fmt.Errorf("failed to create hard link: %w", err)
	}
	if m.exists(newname) && !overwrite {
		return fmt.Errorf("file already exists: %w", fs.ErrExist)
	}
	delete(m.links, newname)
	return afero.WriteFile(m.fs, newname, data, stat.Mode().Perm())
}

// Lstat returns the FileInfo of path without following a symlink at path.
func (m *TargetMemory) Lstat(path string) (fs.FileInfo, error) {
	path = filepath.Clean(path)
	if target, ok := m.links[path]; ok {
		return &memoryLinkInfo{name: filepath.Base(path), target: target}, nil
	}
	return m.fs.Stat(path)
}

// Stat returns the FileInfo of path, following symlinks.
func (m *TargetMemory) Stat(path string) (fs.FileInfo, error) {
	return m.fs.Stat(m.resolve(filepath.Clean(path)))
}

// resolve follows the symlinks at path.
func (m *TargetMemory) resolve(path string) string {
	for i := 0; i < maxLinkHops; i++ {
		target, ok := m.links[path]
		if !ok {
			return path
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(path), target)
		}
		path = filepath.Clean(target)
	}
	return path
}

// Rename moves oldpath to newpath, including links and attributes.
func (m *TargetMemory) Rename(oldpath string, newpath string) error {
	oldpath, newpath = filepath.Clean(oldpath), filepath.Clean(newpath)
	if target, ok := m.links[oldpath]; ok {
		delete(m.links, oldpath)
		m.links[newpath] = target
	} else if err := m.fs.Rename(oldpath, newpath); err != nil {
		return err
	}
	if attrs, ok := m.xattrs[oldpath]; ok {
		delete(m.xattrs, oldpath)
		m.xattrs[newpath] = attrs
	}
	return nil
}

// Remove removes a link, file or empty directory.
func (m *TargetMemory) Remove(path string) error {
	path = filepath.Clean(path)
	delete(m.xattrs, path)
	if _, ok := m.links[path]; ok {
		delete(m.links, path)
		return nil
	}
	return m.fs.Remove(path)
}

// Chmod changes the mode of the named file.
func (m *TargetMemory) Chmod(name string, mode fs.FileMode) error {
	return m.fs.Chmod(m.resolve(filepath.Clean(name)), mode)
}

// Chtimes changes the access and modification times of the named file.
func (m *TargetMemory) Chtimes(name string, atime, mtime time.Time) error {
	return m.fs.Chtimes(m.resolve(filepath.Clean(name)), atime, mtime)
}

// Lchtimes is a no-op for links and equals Chtimes otherwise.
func (m *TargetMemory) Lchtimes(name string, atime, mtime time.Time) error {
	if _, ok := m.links[filepath.Clean(name)]; ok {
		return nil
	}
	return m.Chtimes(name, atime, mtime)
}

// ReadZone returns the attributes of path that are no alternate streams.
func (m *TargetMemory) ReadZone(path string) (ZoneMarker, error) {
	zone := ZoneMarker{}
	for name, value := range m.xattrs[filepath.Clean(path)] {
		if strings.HasPrefix(name, "user.DosStream.") {
			continue
		}
		zone[name] = append([]byte(nil), value...)
	}
	return zone, nil
}

// WriteZone stores the attributes of zone for path.
func (m *TargetMemory) WriteZone(path string, zone ZoneMarker) error {
	for name, value := range zone {
		m.setXattr(path, name, value)
	}
	return nil
}

// WriteAltStream stores data as alternate stream of path.
func (m *TargetMemory) WriteAltStream(path string, name string, data []byte) error {
	if !m.exists(filepath.Clean(path)) {
		return &fs.PathError{Op: "setxattr", Path: path, Err: fs.ErrNotExist}
	}
	m.setXattr(path, altStreamAttribute(name), data)
	return nil
}

func (m *TargetMemory) setXattr(path string, name string, value []byte) {
	path = filepath.Clean(path)
	if m.xattrs[path] == nil {
		m.xattrs[path] = map[string][]byte{}
	}
	m.xattrs[path][name] = append([]byte(nil), value...)
}

// memoryLinkInfo describes a symlink of a [TargetMemory].
type memoryLinkInfo struct {
	name   string
	target string
}

func (fi *memoryLinkInfo) Name() string       { return fi.name }
func (fi *memoryLinkInfo) Size() int64        { return int64(len(fi.target)) }
func (fi *memoryLinkInfo) Mode() fs.FileMode  { return fs.ModeSymlink | 0777 }
func (fi *memoryLinkInfo) ModTime() time.Time { return time.Time{} }
func (fi *memoryLinkInfo) IsDir() bool        { return false }
func (fi *memoryLinkInfo) Sys() any           { return nil }
