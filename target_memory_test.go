// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package multiextract

import (
	"io"
	"io/fs"
	"syscall"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMemoryFile(t *testing.T, tm *TargetMemory, path string, data string) {
	t.Helper()
	w, err := tm.CreateFile(path, 0640, false)
	require.NoError(t, err)
	_, err = io.WriteString(w, data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestMemoryCreateFile(t *testing.T) {
	tm := NewTargetMemory()
	writeMemoryFile(t, tm, "dir/file", "content")

	stat, err := tm.Stat("dir/file")
	require.NoError(t, err)
	assert.Equal(t, int64(7), stat.Size())
	assert.Equal(t, fs.FileMode(0640), stat.Mode().Perm())

	_, err = tm.CreateFile("dir/file", 0640, false)
	assert.ErrorIs(t, err, fs.ErrExist)

	w, err := tm.CreateFile("dir/file", 0640, true)
	require.NoError(t, err)
	_, err = io.WriteString(w, "new")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := afero.ReadFile(tm.Fs(), "dir/file")
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestMemorySymlink(t *testing.T) {
	tm := NewTargetMemory()
	writeMemoryFile(t, tm, "dir/file", "content")
	require.NoError(t, tm.CreateSymlink("file", "dir/link", false))

	lstat, err := tm.Lstat("dir/link")
	require.NoError(t, err)
	assert.NotZero(t, lstat.Mode()&fs.ModeSymlink)

	stat, err := tm.Stat("dir/link")
	require.NoError(t, err)
	assert.Equal(t, int64(7), stat.Size())

	assert.ErrorIs(t, tm.CreateSymlink("other", "dir/link", false), fs.ErrExist)
	require.NoError(t, tm.CreateSymlink("other", "dir/link", true))
	target, err := tm.Readlink("dir/link")
	require.NoError(t, err)
	assert.Equal(t, "other", target)

	// times of links are not tracked
	assert.NoError(t, tm.Lchtimes("dir/link", time.Now(), time.Now()))

	require.NoError(t, tm.Remove("dir/link"))
	_, err = tm.Lstat("dir/link")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestMemoryHardLink(t *testing.T) {
	tm := NewTargetMemory()
	writeMemoryFile(t, tm, "file", "content")
	require.NoError(t, tm.CreateHardLink("file", "copy", false))

	data, err := afero.ReadFile(tm.Fs(), "copy")
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))

	assert.ErrorIs(t, tm.CreateHardLink("file", "copy", false), fs.ErrExist)
	assert.Error(t, tm.CreateHardLink("missing", "other", false))
}

func TestMemoryRenameKeepsAttributes(t *testing.T) {
	tm := NewTargetMemory()
	writeMemoryFile(t, tm, "a", "content")
	require.NoError(t, tm.WriteAltStream("a", "stream", []byte("alt")))

	require.NoError(t, tm.Rename("a", "b"))
	v, ok := tm.Xattr("b", altStreamAttribute("stream"))
	assert.True(t, ok)
	assert.Equal(t, "alt", string(v))

	_, ok = tm.Xattr("a", altStreamAttribute("stream"))
	assert.False(t, ok)
}

func TestMemoryZone(t *testing.T) {
	tm := NewTargetMemory()
	writeMemoryFile(t, tm, "archive.zip", "zip")
	writeMemoryFile(t, tm, "out.txt", "txt")

	zone := ZoneMarker{"user.xdg.origin.url": []byte("https://example.com/archive.zip")}
	require.NoError(t, tm.WriteZone("archive.zip", zone))
	require.NoError(t, tm.WriteAltStream("archive.zip", "extra", []byte("x")))

	// alternate streams are no part of the zone
	got, err := tm.ReadZone("archive.zip")
	require.NoError(t, err)
	assert.Equal(t, zone, got)

	empty, err := tm.ReadZone("out.txt")
	require.NoError(t, err)
	assert.Empty(t, empty)

	assert.ErrorIs(t, tm.WriteAltStream("missing", "s", nil), fs.ErrNotExist)
}

func TestMemoryChtimes(t *testing.T) {
	tm := NewTargetMemory()
	writeMemoryFile(t, tm, "file", "content")
	mtime := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, tm.Chtimes("file", mtime, mtime))

	stat, err := tm.Stat("file")
	require.NoError(t, err)
	assert.True(t, stat.ModTime().Equal(mtime))
}

func TestMemoryCreateDirBelowFile(t *testing.T) {
	tm := NewTargetMemory()
	writeMemoryFile(t, tm, "dir/file", "content")
	require.NoError(t, tm.CreateSymlink("dir/file", "filelink", false))
	require.NoError(t, tm.CreateSymlink("missing", "dangling", false))
	require.NoError(t, tm.CreateSymlink("dir", "dirlink", false))

	err := tm.CreateDir("dir/file/sub", 0755)
	assert.ErrorIs(t, err, syscall.ENOTDIR)
	_, err = tm.Stat("dir/file/sub")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	assert.ErrorIs(t, tm.CreateDir("dir/file", 0755), syscall.ENOTDIR)
	assert.ErrorIs(t, tm.CreateDir("filelink/sub", 0755), syscall.ENOTDIR)
	assert.ErrorIs(t, tm.CreateDir("dangling/sub", 0755), syscall.ENOTDIR)

	// links to directories are followed
	require.NoError(t, tm.CreateDir("dirlink/viaLink", 0755))
	stat, err := tm.Stat("dir/viaLink")
	require.NoError(t, err)
	assert.True(t, stat.IsDir())

	require.NoError(t, tm.CreateDir("dir/sub/deeper", 0755))
	require.NoError(t, tm.CreateDir("dir/sub", 0755))
	stat, err = tm.Stat("dir/sub/deeper")
	require.NoError(t, err)
	assert.True(t, stat.IsDir())
}
