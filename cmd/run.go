// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	multiextract "github.com/hashicorp/go-multiextract"
	"github.com/hashicorp/go-multiextract/censor"
	"github.com/hashicorp/go-multiextract/engine"
	"github.com/hashicorp/go-multiextract/hashsum"
	"github.com/hashicorp/go-multiextract/telemetry"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Exit codes of the cli.
const (
	ExitOK      = 0
	ExitWarning = 1
	ExitFatal   = 2
	ExitUsage   = 7
	ExitAbort   = 255
)

// CLI are the cli parameters for the multiextract binary
type CLI struct {
	Archives          []string          `arg:"" optional:"" name:"archive" help:"Paths to archives. Volumes of split archives are extracted once."`
	AltStreams        bool              `help:"Extract alternate data streams as extended attributes."`
	CacheInMemory     bool              `help:"Cache archives read from STDIN in memory instead of a temporary file."`
	Config            kong.ConfigFlag   `help:"Load flags from a configuration file (yaml, json or toml)."`
	DenySymlinks      bool              `short:"D" help:"Deny symlink extraction."`
	ElimDup           bool              `help:"Eliminate a root folder that repeats the name of the output directory."`
	EventBus          string            `help:"Publish telemetry to this CloudWatch Events bus."`
	Exclude           []string          `short:"x" help:"Exclude entries matching the wildcard pattern."`
	ExcludeDirs       bool              `help:"Do not extract directory entries."`
	ExcludeFiles      bool              `help:"Do not extract file entries."`
	ExcludeType       []string          `help:"Never open archives as one of these formats."`
	FollowSymlinks    bool              `short:"F" help:"[Dangerous!] Follow symlinks to directories during extraction."`
	HardLinks         bool              `help:"Extract hard links."`
	Hash              []string          `help:"Calculate checksums of the extracted entries (${hash_methods})."`
	HashDir           string            `help:"Directory of the files listed in checksum files. Defaults to the directory of the checksum file."`
	Include           []string          `short:"i" help:"Only extract entries matching the wildcard pattern."`
	LogFile           string            `help:"Write the log into a rotated file instead of STDERR."`
	MaxExtractionSize int64             `optional:"" default:"1073741824" help:"Maximum size of a single extracted file (in bytes). (disable check: -1)"`
	MaxExtractionTime int64             `optional:"" default:"-1" help:"Maximum time that the extraction should take (in seconds). (disable check: -1)"`
	MaxInputSize      int64             `optional:"" default:"1073741824" help:"Maximum size of an archive read from STDIN (in bytes). (disable check: -1)"`
	NoColor           bool              `help:"Disable colored output."`
	Output            string            `short:"o" help:"Output directory, \"*\" is replaced by the archive name."`
	Overwrite         string            `short:"a" enum:"deny,all,skip,rename,rename-existing" default:"deny" help:"Handling of existing files (${enum})."`
	Password          string            `short:"p" help:"Password of encrypted archives."`
	PathMode          string            `enum:"full,none,absolute" default:"full" help:"Mapping of archive paths (${enum})."`
	Prop              map[string]string `help:"Engine property as key=value."`
	Quiet             bool              `short:"q" help:"Do not show progress."`
	Region            string            `help:"AWS region of the telemetry event bus."`
	SmartExtract      bool              `help:"Extract archives with more than one top level entry into a folder named like the archive."`
	Stdin             bool              `name:"si" help:"Read the archive from STDIN."`
	Stdout            bool              `name:"so" help:"Write the data of all files to STDOUT."`
	Test              bool              `short:"T" help:"Test archives without writing files."`
	Type              []string          `short:"t" help:"Open archives as one of these formats only (${formats})."`
	Verbose           bool              `short:"v" help:"Verbose logging."`
	Version           kong.VersionFlag  `short:"V" help:"Print release version information."`
	Zone              string            `enum:"none,all,office" default:"none" help:"Copy the origin marker of the archive to the extracted files (${enum})."`
}

// Run the entrypoint into multiextract as a cli tool
func Run(version, commit, date string) {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("multiextract"),
		kong.Description("Extract many archives in one run"),
		kong.UsageOnError(),
		kong.Configuration(configLoader),
		kong.Vars{
			"version":      fmt.Sprintf("%s (%s), commit %s, built at %s", filepath.Base(os.Args[0]), version, commit, date),
			"hash_methods": strings.Join(hashsum.Methods(), ","),
			"formats":      strings.Join(engine.New().Formats(), ","),
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(cli.Execute(ctx, os.Stdout, os.Stderr))
}

// Execute runs the extraction and returns the exit code. out receives checksum listings,
// errOut progress and results.
func (cli *CLI) Execute(ctx context.Context, out io.Writer, errOut io.Writer) int {
	if cli.NoColor {
		color.NoColor = true
	}

	// setup logger
	logger, closeLog := cli.newLogger(errOut)
	defer closeLog()

	if len(cli.Archives) == 0 && !cli.Stdin {
		fmt.Fprintln(errOut, "no archives given")
		return ExitUsage
	}
	if cli.Stdin && len(cli.Archives) > 1 {
		fmt.Fprintln(errOut, "only one archive name can be given with --si")
		return ExitUsage
	}

	if cli.MaxExtractionTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Second*time.Duration(cli.MaxExtractionTime))
		defer cancel()
	}

	opts, sink, err := cli.configOptions(ctx, logger)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		fmt.Fprintln(errOut, err)
		return ExitUsage
	}

	c, err := censor.New(censor.WithInclude(cli.Include...), censor.WithExclude(cli.Exclude...))
	if err != nil {
		fmt.Fprintln(errOut, err)
		return ExitUsage
	}

	e := engine.New(
		engine.WithMaxInputSize(cli.MaxInputSize),
		engine.WithCacheInMemory(cli.CacheInMemory),
		engine.WithLogger(logger),
	)

	cb := NewConsoleCallback(errOut, !cli.Quiet && !cli.Stdout)
	res, err := multiextract.Extract(ctx, e, cli.Archives, c, cb, multiextract.NewConfig(opts...))
	cb.Finish()

	if sink != nil && len(cli.Hash) > 0 {
		if lerr := sink.WriteListing(out, cli.Hash[0]); lerr != nil {
			logger.Error("cannot write checksum listing", "error", lerr)
		}
	}

	return cb.Summary(res, err)
}

// newLogger creates the logger of the cli. The returned function closes a log file.
func (cli *CLI) newLogger(errOut io.Writer) (*slog.Logger, func()) {
	logLevel := slog.LevelError
	if cli.Verbose {
		logLevel = slog.LevelDebug
	}

	w, closer := errOut, func() {}
	if cli.LogFile != "" {
		lj := &lumberjack.Logger{
			Filename:   cli.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			Compress:   true,
		}
		w = lj
		closer = func() { lj.Close() }
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel})), closer
}

// configOptions maps the cli parameters onto config options. A hash sink is returned if
// checksums are requested.
func (cli *CLI) configOptions(ctx context.Context, logger *slog.Logger) ([]multiextract.ConfigOption, *hashsum.Sink, error) {
	overwrite, err := ParseOverwriteMode(cli.Overwrite)
	if err != nil {
		return nil, nil, err
	}
	pathMode, err := ParsePathMode(cli.PathMode)
	if err != nil {
		return nil, nil, err
	}
	zone, err := ParseZoneMode(cli.Zone)
	if err != nil {
		return nil, nil, err
	}

	opts := []multiextract.ConfigOption{
		multiextract.WithAltStreams(cli.AltStreams),
		multiextract.WithDenySymlinkExtraction(cli.DenySymlinks),
		multiextract.WithElimDup(cli.ElimDup),
		multiextract.WithExcludeDirItems(cli.ExcludeDirs),
		multiextract.WithExcludeFileItems(cli.ExcludeFiles),
		multiextract.WithExcludedFormats(cli.ExcludeType...),
		multiextract.WithFormatHints(cli.Type...),
		multiextract.WithHardLinks(cli.HardLinks),
		multiextract.WithHashDir(cli.HashDir),
		multiextract.WithInsecureTraverseSymlinks(cli.FollowSymlinks),
		multiextract.WithLogger(logger),
		multiextract.WithMaxExtractionSize(cli.MaxExtractionSize),
		multiextract.WithOutputDir(cli.Output),
		multiextract.WithOverwriteMode(overwrite),
		multiextract.WithPathMode(pathMode),
		multiextract.WithSmartExtract(cli.SmartExtract),
		multiextract.WithTestMode(cli.Test),
		multiextract.WithZoneMode(zone),
	}
	for k, v := range cli.Prop {
		opts = append(opts, multiextract.WithProperty(k, v))
	}
	if cli.Password != "" {
		opts = append(opts, multiextract.WithProperty(engine.PropPassword, cli.Password))
	}
	if cli.Stdin {
		opts = append(opts, multiextract.WithStdin(os.Stdin))
	}
	if cli.Stdout {
		opts = append(opts, multiextract.WithStdout(os.Stdout))
	}

	var sink *hashsum.Sink
	if len(cli.Hash) > 0 {
		if sink, err = hashsum.New(cli.Hash...); err != nil {
			return nil, nil, err
		}
		opts = append(opts, multiextract.WithHashSink(sink))
	}

	hooks := []multiextract.TelemetryHook{}
	if cli.Verbose {
		hooks = append(hooks, telemetry.LogHook(logger))
	}
	if cli.EventBus != "" {
		client, err := telemetry.NewEventsClient(ctx, cli.Region)
		if err != nil {
			return nil, nil, err
		}
		p := telemetry.NewEventPublisher(client, cli.EventBus, telemetry.WithPublisherLogger(logger))
		hooks = append(hooks, p.Hook())
	}
	if len(hooks) > 0 {
		opts = append(opts, multiextract.WithTelemetryHook(telemetry.Chain(hooks...)))
	}

	return opts, sink, nil
}

// ParseOverwriteMode converts the name of an overwrite mode.
func ParseOverwriteMode(s string) (multiextract.OverwriteMode, error) {
	switch strings.ToLower(s) {
	case "", "deny":
		return multiextract.OverwriteDeny, nil
	case "all":
		return multiextract.OverwriteAll, nil
	case "skip":
		return multiextract.OverwriteSkip, nil
	case "rename":
		return multiextract.OverwriteRename, nil
	case "rename-existing":
		return multiextract.OverwriteRenameExisting, nil
	}
	return 0, fmt.Errorf("unknown overwrite mode: %s", s)
}

// ParsePathMode converts the name of a path mode.
func ParsePathMode(s string) (multiextract.PathMode, error) {
	switch strings.ToLower(s) {
	case "", "full":
		return multiextract.PathModeFull, nil
	case "none":
		return multiextract.PathModeNone, nil
	case "absolute":
		return multiextract.PathModeAbsolute, nil
	}
	return 0, fmt.Errorf("unknown path mode: %s", s)
}

// ParseZoneMode converts the name of a zone mode.
func ParseZoneMode(s string) (multiextract.ZoneMode, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return multiextract.ZoneNone, nil
	case "all":
		return multiextract.ZoneAll, nil
	case "office":
		return multiextract.ZoneOffice, nil
	}
	return 0, fmt.Errorf("unknown zone mode: %s", s)
}

// exitCode maps the outcome of a run onto an exit code.
func exitCode(res *multiextract.Result, err error, failures int) int {
	switch {
	case errors.Is(err, multiextract.ErrAbort) || errors.Is(err, context.Canceled):
		return ExitAbort
	case err != nil || (res != nil && res.ErrorMessage != ""):
		return ExitFatal
	case failures > 0 || (res != nil && res.ItemErrors != nil):
		return ExitWarning
	}
	return ExitOK
}
