// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package multiextract

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
)

// ConfigOption is a function pointer to implement the option pattern
type ConfigOption func(*Config)

// PathMode defines how the paths stored in an archive are mapped onto the output directory.
type PathMode int

const (
	// PathModeFull keeps the relative paths of the archive.
	PathModeFull PathMode = iota

	// PathModeNone drops all directories and extracts files with their base name only.
	PathModeNone

	// PathModeAbsolute keeps absolute paths of the archive. Prefix elimination is not
	// applied in this mode.
	PathModeAbsolute
)

// OverwriteMode defines what happens if an extracted file already exists.
type OverwriteMode int

const (
	// OverwriteDeny reports an error for the item and keeps the existing file.
	OverwriteDeny OverwriteMode = iota

	// OverwriteAll replaces existing files.
	OverwriteAll

	// OverwriteSkip keeps existing files and skips the item silently.
	OverwriteSkip

	// OverwriteRename extracts the item under a new, free name.
	OverwriteRename

	// OverwriteRenameExisting renames the existing file before the item is extracted.
	OverwriteRenameExisting
)

// ZoneMode defines if the origin marker of an archive is copied to the extracted files.
type ZoneMode int

const (
	// ZoneNone does not propagate the origin marker.
	ZoneNone ZoneMode = iota

	// ZoneAll propagates the origin marker to all extracted files.
	ZoneAll

	// ZoneOffice propagates the origin marker to office documents only.
	ZoneOffice
)

// Config provides a configuration struct and options to adjust the configuration.
//
// The configuration struct holds all options of an extraction run. The options can be
// adjusted using the option pattern style.
type Config struct {
	// altStreams enables the extraction of alternate data streams
	altStreams bool

	// customCreateDirMode is the file mode for created directories, that are not defined in the archive (respecting umask)
	customCreateDirMode fs.FileMode

	// customDecompressFileMode is the file mode for extracted files without own mode (respecting umask)
	customDecompressFileMode fs.FileMode

	// denySymlinkExtraction offers the option to enable/disable the extraction of symlinks
	denySymlinkExtraction bool

	// elimDup strips a leading folder that repeats the name of the output directory
	elimDup bool

	// excludeDirItems skips all directory entries
	excludeDirItems bool

	// excludeFileItems skips all file entries
	excludeFileItems bool

	// excludedFormats are format names that the engine must not use
	excludedFormats []string

	// formatHints are format names that the engine tries first
	formatHints []string

	// hardLinks enables the extraction of hard links
	hardLinks bool

	// hashDir is the directory that files of checksum listings are relative to
	hashDir string

	// hashSink receives the data of all extracted entries
	hashSink HashSink

	// logger stream for extraction
	logger logger

	// maxExtractionSize is the maximum size of a single extracted file.
	// Set value to -1 to disable the check.
	maxExtractionSize int64

	// outputDir is the output directory template, "*" is replaced with the archive name
	outputDir string

	// overwriteMode defines how existing files are handled
	overwriteMode OverwriteMode

	// pathMode defines how archive paths are mapped
	pathMode PathMode

	// properties are passed to the engine
	properties map[string]string

	// smartExtract adds a folder named like the archive if it has more than one top level entry
	smartExtract bool

	// stdin is the archive stream in stdin mode
	stdin io.Reader

	// stdInMode reads a single archive from stdin
	stdInMode bool

	// stdout receives the data of all files in stdout mode
	stdout io.Writer

	// stdOutMode writes all file data to stdout instead of creating files
	stdOutMode bool

	// target is the filesystem the archives are extracted to
	target Target

	// telemetryHook is a function to consume telemetry data after finished extraction
	// Important: do not adjust this value after extraction started
	telemetryHook TelemetryHook

	// testMode only verifies the archives
	testMode bool

	// traverseSymlinks traverses symlinks to directories during extraction
	traverseSymlinks bool

	// zoneMode defines the propagation of the origin marker
	zoneMode ZoneMode
}

// AltStreams returns true if alternate data streams are extracted.
func (c *Config) AltStreams() bool {
	return c.altStreams
}

// CustomCreateDirMode returns the file mode for created directories,
// that are not defined in the archive. (respecting umask)
func (c *Config) CustomCreateDirMode() fs.FileMode {
	return c.customCreateDirMode
}

// CustomDecompressFileMode returns the file mode for extracted files without own mode.
// (respecting umask)
func (c *Config) CustomDecompressFileMode() fs.FileMode {
	return c.customDecompressFileMode
}

// DenySymlinkExtraction returns true if symlinks are NOT allowed.
func (c *Config) DenySymlinkExtraction() bool {
	return c.denySymlinkExtraction
}

// ElimDup returns true if a leading folder that repeats the output directory name is removed.
func (c *Config) ElimDup() bool {
	return c.elimDup
}

// ExcludeDirItems returns true if directory entries are skipped.
func (c *Config) ExcludeDirItems() bool {
	return c.excludeDirItems
}

// ExcludeFileItems returns true if file entries are skipped.
func (c *Config) ExcludeFileItems() bool {
	return c.excludeFileItems
}

// ExcludedFormats returns the format names the engine must not use.
func (c *Config) ExcludedFormats() []string {
	return c.excludedFormats
}

// FormatHints returns the format names the engine tries first.
func (c *Config) FormatHints() []string {
	return c.formatHints
}

// HardLinks returns true if hard links are restored.
func (c *Config) HardLinks() bool {
	return c.hardLinks
}

// HashDir returns the directory that files of checksum listings are relative to. If empty,
// the directory of the listing is used.
func (c *Config) HashDir() string {
	return c.hashDir
}

// HashSink returns the hash sink or nil.
func (c *Config) HashSink() HashSink {
	return c.hashSink
}

// Logger returns the logger.
func (c *Config) Logger() logger {
	return c.logger
}

// MaxExtractionSize returns the maximum size of a single extracted file.
func (c *Config) MaxExtractionSize() int64 {
	return c.maxExtractionSize
}

// OutputDir returns the output directory template.
func (c *Config) OutputDir() string {
	return c.outputDir
}

// OverwriteMode returns the overwrite mode.
func (c *Config) OverwriteMode() OverwriteMode {
	return c.overwriteMode
}

// PathMode returns the path mode.
func (c *Config) PathMode() PathMode {
	return c.pathMode
}

// Properties returns the engine properties.
func (c *Config) Properties() map[string]string {
	return c.properties
}

// SmartExtract returns true if a folder is added for archives with more than one top level entry.
func (c *Config) SmartExtract() bool {
	return c.smartExtract
}

// Stdin returns the archive stream used in stdin mode.
func (c *Config) Stdin() io.Reader {
	if c.stdin == nil {
		return os.Stdin
	}
	return c.stdin
}

// StdInMode returns true if a single archive is read from stdin.
func (c *Config) StdInMode() bool {
	return c.stdInMode
}

// Stdout returns the writer used in stdout mode.
func (c *Config) Stdout() io.Writer {
	if c.stdout == nil {
		return os.Stdout
	}
	return c.stdout
}

// StdOutMode returns true if file data is written to stdout.
func (c *Config) StdOutMode() bool {
	return c.stdOutMode
}

// Target returns the filesystem the archives are extracted to.
func (c *Config) Target() Target {
	return c.target
}

// TelemetryHook returns the telemetry hook.
func (c *Config) TelemetryHook() TelemetryHook {
	if c.telemetryHook == nil {
		return func(ctx context.Context, d *TelemetryData) {
			// noop
		}
	}
	return c.telemetryHook
}

// TestMode returns true if the archives are only verified.
func (c *Config) TestMode() bool {
	return c.testMode
}

// TraverseSymlinks returns true if symlinks should be traversed during extraction.
func (c *Config) TraverseSymlinks() bool {
	return c.traverseSymlinks
}

// ZoneMode returns the zone mode.
func (c *Config) ZoneMode() ZoneMode {
	return c.zoneMode
}

const (
	defaultAltStreams               = false          // skip alternate streams
	defaultCustomCreateDirMode      = 0750           // default directory permissions rwxr-x---
	defaultCustomDecompressFileMode = 0640           // default decompression permissions rw-r-----
	defaultDenySymlinkExtraction    = false          // allow symlink extraction
	defaultElimDup                  = false          // keep all path parts
	defaultHardLinks                = false          // don't restore hard links
	defaultMaxExtractionSize        = 1 << (10 * 3)  // 1 Gb
	defaultOutputDir                = ""             // current working directory
	defaultOverwriteMode            = OverwriteDeny  // never replace existing files
	defaultPathMode                 = PathModeFull   // keep relative paths
	defaultSmartExtract             = false          // no extra folder
	defaultTraverseSymlinks         = false          // don't traverse symlinks
	defaultZoneMode                 = ZoneNone       // don't propagate origin marker
)

var (
	// slog to discard
	defaultLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	// no operation telemetry hook
	defaultTelemetryHook = func(ctx context.Context, d *TelemetryData) {
		// noop
	}
)

// NewConfig is a generator option that takes opts as adjustments of the
// default configuration in an option pattern style.
func NewConfig(opts ...ConfigOption) *Config {

	// setup default values
	config := &Config{
		altStreams:               defaultAltStreams,
		customCreateDirMode:      defaultCustomCreateDirMode,
		customDecompressFileMode: defaultCustomDecompressFileMode,
		denySymlinkExtraction:    defaultDenySymlinkExtraction,
		elimDup:                  defaultElimDup,
		hardLinks:                defaultHardLinks,
		logger:                   defaultLogger,
		maxExtractionSize:        defaultMaxExtractionSize,
		outputDir:                defaultOutputDir,
		overwriteMode:            defaultOverwriteMode,
		pathMode:                 defaultPathMode,
		properties:               map[string]string{},
		smartExtract:             defaultSmartExtract,
		target:                   NewTargetDisk(),
		telemetryHook:            defaultTelemetryHook,
		traverseSymlinks:         defaultTraverseSymlinks,
		zoneMode:                 defaultZoneMode,
	}

	// Loop through each option
	for _, opt := range opts {
		opt(config)
	}

	return config
}

// WithAltStreams options pattern function to enable/disable the extraction of alternate
// data streams. Streams are stored as extended attributes of the main file.
func WithAltStreams(enable bool) ConfigOption {
	return func(c *Config) {
		c.altStreams = enable
	}
}

// WithCustomCreateDirMode options pattern function to set the file mode
// for created directories, that are not defined in the archive. (respecting umask)
func WithCustomCreateDirMode(mode fs.FileMode) ConfigOption {
	return func(c *Config) {
		c.customCreateDirMode = mode
	}
}

// WithCustomDecompressFileMode options pattern function to set the file mode for
// extracted files without own mode. (respecting umask)
func WithCustomDecompressFileMode(mode fs.FileMode) ConfigOption {
	return func(c *Config) {
		c.customDecompressFileMode = mode
	}
}

// WithDenySymlinkExtraction options pattern function to deny symlink extraction.
func WithDenySymlinkExtraction(deny bool) ConfigOption {
	return func(c *Config) {
		c.denySymlinkExtraction = deny
	}
}

// WithElimDup options pattern function to remove a leading archive folder that has the
// same name as the output directory, e.g. "out/a/a/file" becomes "out/a/file".
func WithElimDup(enable bool) ConfigOption {
	return func(c *Config) {
		c.elimDup = enable
	}
}

// WithExcludeDirItems options pattern function to skip directory entries.
func WithExcludeDirItems(exclude bool) ConfigOption {
	return func(c *Config) {
		c.excludeDirItems = exclude
	}
}

// WithExcludeFileItems options pattern function to skip file entries.
func WithExcludeFileItems(exclude bool) ConfigOption {
	return func(c *Config) {
		c.excludeFileItems = exclude
	}
}

// WithExcludedFormats options pattern function to prevent the engine from using formats.
func WithExcludedFormats(formats ...string) ConfigOption {
	return func(c *Config) {
		c.excludedFormats = append(c.excludedFormats, formats...)
	}
}

// WithFormatHints options pattern function to set the formats the engine tries first.
func WithFormatHints(formats ...string) ConfigOption {
	return func(c *Config) {
		c.formatHints = append(c.formatHints, formats...)
	}
}

// WithHardLinks options pattern function to enable/disable the restore of hard links.
func WithHardLinks(enable bool) ConfigOption {
	return func(c *Config) {
		c.hardLinks = enable
	}
}

// WithHashDir options pattern function to set the directory that files of checksum
// listings are relative to.
func WithHashDir(dir string) ConfigOption {
	return func(c *Config) {
		c.hashDir = dir
	}
}

// WithHashSink options pattern function to calculate checksums over the extracted data.
func WithHashSink(sink HashSink) ConfigOption {
	return func(c *Config) {
		c.hashSink = sink
	}
}

// WithInsecureTraverseSymlinks options pattern function to traverse symlinks during extraction.
func WithInsecureTraverseSymlinks(traverse bool) ConfigOption {
	return func(c *Config) {
		c.traverseSymlinks = traverse
	}
}

// WithLogger options pattern function to set a custom logger.
func WithLogger(logger logger) ConfigOption {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithMaxExtractionSize options pattern function to set the maximum size of a single
// extracted file. (-1 to disable check)
func WithMaxExtractionSize(maxExtractionSize int64) ConfigOption {
	return func(c *Config) {
		c.maxExtractionSize = maxExtractionSize
	}
}

// WithOutputDir options pattern function to set the output directory. Every "*" is
// replaced with the name of the archive.
func WithOutputDir(dir string) ConfigOption {
	return func(c *Config) {
		c.outputDir = dir
	}
}

// WithOverwriteMode options pattern function to set how existing files are handled.
func WithOverwriteMode(mode OverwriteMode) ConfigOption {
	return func(c *Config) {
		c.overwriteMode = mode
	}
}

// WithPathMode options pattern function to set how archive paths are mapped.
func WithPathMode(mode PathMode) ConfigOption {
	return func(c *Config) {
		c.pathMode = mode
	}
}

// WithProperty options pattern function to pass a property to the engine, e.g. "password".
func WithProperty(name, value string) ConfigOption {
	return func(c *Config) {
		if c.properties == nil {
			c.properties = map[string]string{}
		}
		c.properties[name] = value
	}
}

// WithSmartExtract options pattern function to extract archives with more than one top
// level entry into a folder named like the archive.
func WithSmartExtract(enable bool) ConfigOption {
	return func(c *Config) {
		c.smartExtract = enable
	}
}

// WithStdin options pattern function to read a single archive from r.
func WithStdin(r io.Reader) ConfigOption {
	return func(c *Config) {
		c.stdInMode = true
		c.stdin = r
	}
}

// WithStdout options pattern function to write the data of all files to w.
func WithStdout(w io.Writer) ConfigOption {
	return func(c *Config) {
		c.stdOutMode = true
		c.stdout = w
	}
}

// WithTarget options pattern function to set the filesystem the archives are extracted to.
func WithTarget(t Target) ConfigOption {
	return func(c *Config) {
		c.target = t
	}
}

// WithTelemetryHook options pattern function to set a [TelemetryHook], which is called after extraction.
func WithTelemetryHook(hook TelemetryHook) ConfigOption {
	return func(c *Config) {
		c.telemetryHook = hook
	}
}

// WithTestMode options pattern function to only verify the archives.
func WithTestMode(enable bool) ConfigOption {
	return func(c *Config) {
		c.testMode = enable
	}
}

// WithZoneMode options pattern function to set the propagation of the origin marker.
func WithZoneMode(mode ZoneMode) ConfigOption {
	return func(c *Config) {
		c.zoneMode = mode
	}
}
