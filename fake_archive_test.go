// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package multiextract_test

import (
	"context"
	"fmt"
	"io/fs"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	multiextract "github.com/hashicorp/go-multiextract"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// memArchive is an archive whose entries are held in memory.
type memArchive struct {
	format   string
	name     string
	items    []multiextract.Item
	data     [][]byte
	physSize uint64
	hash     bool

	modTime    time.Time
	extractErr error
	extracted  []int
	hashDir    string
	closed     bool
}

func newMemArchive(format, name string) *memArchive {
	return &memArchive{format: format, name: name}
}

// file adds a file entry.
func (a *memArchive) file(path string, data string) *memArchive {
	return a.add(multiextract.Item{Path: path, MainPath: path, Size: uint64(len(data)), Mode: 0644}, []byte(data))
}

// dir adds a directory entry.
func (a *memArchive) dir(path string) *memArchive {
	return a.add(multiextract.Item{Path: path, MainPath: path, IsDir: true, MainIsDir: true, Mode: fs.ModeDir | 0755}, nil)
}

// add adds an entry with custom metadata.
func (a *memArchive) add(item multiextract.Item, data []byte) *memArchive {
	if item.MainPath == "" {
		item.MainPath = item.Path
	}
	a.items = append(a.items, item)
	a.data = append(a.data, data)
	return a
}

func (a *memArchive) Format() string      { return a.format }
func (a *memArchive) DefaultName() string { return a.name }
func (a *memArchive) NumItems() (int, error) {
	return len(a.items), nil
}

func (a *memArchive) Item(index int) (multiextract.Item, error) {
	if index < 0 || index >= len(a.items) {
		return multiextract.Item{}, fmt.Errorf("index %d out of range", index)
	}
	item := a.items[index]
	if item.ModTime.IsZero() {
		item.ModTime = a.modTime
	}
	return item, nil
}

func (a *memArchive) IsAltStream(index int) (bool, error) {
	return a.items[index].IsAltStream, nil
}

func (a *memArchive) Property(id multiextract.PropID) (any, bool) {
	if id == multiextract.PropPhysicalSize {
		return a.physSize, true
	}
	return nil, false
}

func (a *memArchive) Extract(ctx context.Context, indices []int, testMode bool, cb multiextract.ExtractCallback) error {
	if indices == nil {
		for i := range a.items {
			indices = append(indices, i)
		}
	}
	var total uint64
	for _, i := range indices {
		total += a.items[i].Size
	}
	if err := cb.SetTotal(total); err != nil {
		return err
	}
	a.hashDir = cb.HashFilesDir()

	var completed uint64
	for _, i := range indices {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %v", multiextract.ErrAbort, err)
		}
		w, err := cb.GetStream(i)
		if err != nil {
			return err
		}
		var opErr error
		if w != nil && len(a.data[i]) > 0 {
			_, opErr = w.Write(a.data[i])
		}
		a.extracted = append(a.extracted, i)
		if err := cb.SetOperationResult(i, opErr); err != nil {
			return err
		}
		completed += a.items[i].Size
		if err := cb.SetCompleted(completed); err != nil {
			return err
		}
	}
	return a.extractErr
}

func (a *memArchive) IsHashHandler() bool    { return a.hash }
func (a *memArchive) SetModTime(t time.Time) { a.modTime = t }
func (a *memArchive) Close() error {
	a.closed = true
	return nil
}

// recordingCallback records the calls of a run.
type recordingCallback struct {
	events         []string
	totals         []uint64
	completed      []uint64
	itemResults    map[string]error
	extractResults []error
}

func newRecordingCallback() *recordingCallback {
	return &recordingCallback{itemResults: map[string]error{}}
}

func (c *recordingCallback) BeforeOpen(path string, testMode bool) error {
	c.events = append(c.events, "before open "+path)
	return nil
}

func (c *recordingCallback) OpenResult(path string, chain *multiextract.ArchiveChain, result error) error {
	c.events = append(c.events, fmt.Sprintf("open result %s: %v", path, result))
	return nil
}

func (c *recordingCallback) ThereAreNoFiles() error {
	c.events = append(c.events, "no files")
	return nil
}

func (c *recordingCallback) ExtractResult(result error) error {
	c.extractResults = append(c.extractResults, result)
	c.events = append(c.events, fmt.Sprintf("extract result: %v", result))
	return result
}

func (c *recordingCallback) SetTotal(total uint64) error {
	c.totals = append(c.totals, total)
	return nil
}

func (c *recordingCallback) SetCompleted(completed uint64) error {
	c.completed = append(c.completed, completed)
	return nil
}

func (c *recordingCallback) PrepareOperation(path string, isDir bool) error {
	return nil
}

func (c *recordingCallback) OperationResult(path string, opErr error) error {
	c.itemResults[path] = opErr
	return nil
}

func (c *recordingCallback) lastTotal() uint64 {
	if len(c.totals) == 0 {
		return 0
	}
	return c.totals[len(c.totals)-1]
}

func (c *recordingCallback) lastCompleted() uint64 {
	if len(c.completed) == 0 {
		return 0
	}
	return c.completed[len(c.completed)-1]
}

// pathMatcher matches an [multiextract.OpenRequest] by its path.
type pathMatcher string

func (m pathMatcher) Matches(x any) bool {
	req, ok := x.(multiextract.OpenRequest)
	return ok && req.Path == string(m)
}

func (m pathMatcher) String() string {
	return "open request for " + string(m)
}

var _ gomock.Matcher = pathMatcher("")

// writeArchiveFile creates a file of size bytes on the memory target.
func writeArchiveFile(t *testing.T, tm *multiextract.TargetMemory, path string, size int) {
	t.Helper()
	require.NoError(t, afero.WriteFile(tm.Fs(), path, make([]byte, size), 0644))
}

// readFile returns the content of a file on the memory target.
func readFile(t *testing.T, tm *multiextract.TargetMemory, path string) string {
	t.Helper()
	data, err := afero.ReadFile(tm.Fs(), path)
	require.NoError(t, err)
	return string(data)
}
