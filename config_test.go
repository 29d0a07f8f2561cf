// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package multiextract

import (
	"bytes"
	"context"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.False(t, cfg.AltStreams())
	assert.Equal(t, fs.FileMode(0750), cfg.CustomCreateDirMode())
	assert.Equal(t, fs.FileMode(0640), cfg.CustomDecompressFileMode())
	assert.False(t, cfg.DenySymlinkExtraction())
	assert.False(t, cfg.ElimDup())
	assert.False(t, cfg.HardLinks())
	assert.Nil(t, cfg.HashSink())
	assert.Equal(t, int64(1<<30), cfg.MaxExtractionSize())
	assert.Equal(t, "", cfg.OutputDir())
	assert.Equal(t, OverwriteDeny, cfg.OverwriteMode())
	assert.Equal(t, PathModeFull, cfg.PathMode())
	assert.Empty(t, cfg.Properties())
	assert.False(t, cfg.SmartExtract())
	assert.False(t, cfg.StdInMode())
	assert.Equal(t, os.Stdin, cfg.Stdin())
	assert.False(t, cfg.StdOutMode())
	assert.Equal(t, os.Stdout, cfg.Stdout())
	assert.IsType(t, &TargetDisk{}, cfg.Target())
	assert.False(t, cfg.TestMode())
	assert.False(t, cfg.TraverseSymlinks())
	assert.Equal(t, ZoneNone, cfg.ZoneMode())

	// the default hook does nothing
	cfg.TelemetryHook()(context.Background(), &TelemetryData{})
}

func TestConfigOptions(t *testing.T) {
	var stdin, stdout bytes.Buffer
	tm := NewTargetMemory()

	cfg := NewConfig(
		WithAltStreams(true),
		WithCustomCreateDirMode(0700),
		WithCustomDecompressFileMode(0600),
		WithDenySymlinkExtraction(true),
		WithElimDup(true),
		WithExcludeDirItems(true),
		WithExcludeFileItems(true),
		WithExcludedFormats("pe"),
		WithExcludedFormats("hash"),
		WithFormatHints("7z"),
		WithHardLinks(true),
		WithHashDir("sums"),
		WithInsecureTraverseSymlinks(true),
		WithMaxExtractionSize(-1),
		WithOutputDir("out/*"),
		WithOverwriteMode(OverwriteRename),
		WithPathMode(PathModeNone),
		WithProperty("password", "secret"),
		WithSmartExtract(true),
		WithStdin(&stdin),
		WithStdout(&stdout),
		WithTarget(tm),
		WithTestMode(true),
		WithZoneMode(ZoneOffice),
	)

	assert.True(t, cfg.AltStreams())
	assert.Equal(t, fs.FileMode(0700), cfg.CustomCreateDirMode())
	assert.Equal(t, fs.FileMode(0600), cfg.CustomDecompressFileMode())
	assert.True(t, cfg.DenySymlinkExtraction())
	assert.True(t, cfg.ElimDup())
	assert.True(t, cfg.ExcludeDirItems())
	assert.True(t, cfg.ExcludeFileItems())
	assert.Equal(t, []string{"pe", "hash"}, cfg.ExcludedFormats())
	assert.Equal(t, []string{"7z"}, cfg.FormatHints())
	assert.True(t, cfg.HardLinks())
	assert.Equal(t, "sums", cfg.HashDir())
	assert.True(t, cfg.TraverseSymlinks())
	assert.Equal(t, int64(-1), cfg.MaxExtractionSize())
	assert.Equal(t, "out/*", cfg.OutputDir())
	assert.Equal(t, OverwriteRename, cfg.OverwriteMode())
	assert.Equal(t, PathModeNone, cfg.PathMode())
	assert.Equal(t, map[string]string{"password": "secret"}, cfg.Properties())
	assert.True(t, cfg.SmartExtract())
	assert.True(t, cfg.StdInMode())
	assert.Same(t, &stdin, cfg.Stdin())
	assert.True(t, cfg.StdOutMode())
	assert.Same(t, &stdout, cfg.Stdout())
	assert.Same(t, tm, cfg.Target())
	assert.True(t, cfg.TestMode())
	assert.Equal(t, ZoneOffice, cfg.ZoneMode())
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	cfg := NewConfig(WithLogger(logger))
	cfg.Logger().Info("hello")
	assert.True(t, strings.Contains(buf.String(), "hello"))
}

func TestWithTelemetryHook(t *testing.T) {
	var called bool
	cfg := NewConfig(WithTelemetryHook(func(ctx context.Context, td *TelemetryData) {
		called = true
	}))
	cfg.TelemetryHook()(context.Background(), &TelemetryData{})
	assert.True(t, called)
}
