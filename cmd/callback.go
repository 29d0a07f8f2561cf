// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	multiextract "github.com/hashicorp/go-multiextract"
	"github.com/schollz/progressbar/v3"
)

// ConsoleCallback reports the progress and the results of a run to a terminal.
type ConsoleCallback struct {
	out io.Writer
	bar *progressbar.ProgressBar

	red    func(a ...any) string
	green  func(a ...any) string
	yellow func(a ...any) string
	cyan   func(a ...any) string

	// OpenErrors is the number of archives that could not be opened
	OpenErrors int

	// ArchiveErrors is the number of archives whose extraction failed
	ArchiveErrors int

	// ItemErrors is the number of entries that failed
	ItemErrors int
}

// NewConsoleCallback creates a callback that prints to out. A progress bar is shown if
// progress is set.
func NewConsoleCallback(out io.Writer, progress bool) *ConsoleCallback {
	c := &ConsoleCallback{
		out:    out,
		red:    color.New(color.FgRed).SprintFunc(),
		green:  color.New(color.FgGreen).SprintFunc(),
		yellow: color.New(color.FgYellow).SprintFunc(),
		cyan:   color.New(color.FgCyan).SprintFunc(),
	}
	if progress {
		c.bar = progressbar.NewOptions64(-1,
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetDescription("Extracting"),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer: "█", SaucerHead: "█", SaucerPadding: "░",
				BarStart: "[", BarEnd: "]",
			}),
		)
	}
	return c
}

// BeforeOpen implements [multiextract.Callback].
func (c *ConsoleCallback) BeforeOpen(path string, testMode bool) error {
	verb := "Extracting archive:"
	if testMode {
		verb = "Testing archive:"
	}
	if path == "" {
		path = "<stdin>"
	}
	c.println(c.cyan(verb), path)
	return nil
}

// OpenResult implements [multiextract.Callback].
func (c *ConsoleCallback) OpenResult(path string, chain *multiextract.ArchiveChain, result error) error {
	if result != nil {
		c.OpenErrors++
		if errors.Is(result, multiextract.ErrNotImplemented) {
			c.println(c.red("ERROR:"), path, ": checksum files can only be tested")
			return nil
		}
		c.println(c.red("ERROR:"), "Cannot open the file as archive:", path, ":", result)
		return nil
	}

	for i := 0; i < chain.Len(); i++ {
		arc := chain.At(i)
		line := fmt.Sprintf("Type = %s", arc.Format())
		if v, ok := arc.Property(multiextract.PropPhysicalSize); ok {
			if size, ok := v.(uint64); ok {
				line += fmt.Sprintf(", Physical Size = %s", humanize.IBytes(size))
			}
		}
		c.println("  " + c.yellow(line))
	}
	if len(chain.VolumePaths) > 0 {
		c.println("  "+c.yellow(fmt.Sprintf("Volumes = %d", len(chain.VolumePaths))), "("+humanize.IBytes(chain.VolumesSize)+" in further volumes)")
	}
	return nil
}

// ThereAreNoFiles implements [multiextract.Callback].
func (c *ConsoleCallback) ThereAreNoFiles() error {
	c.println(c.yellow("No files to process"))
	return nil
}

// ExtractResult implements [multiextract.Callback]. Failures are reported and counted,
// the run continues with the next archive unless it was aborted.
func (c *ConsoleCallback) ExtractResult(result error) error {
	if result == nil {
		return nil
	}
	if errors.Is(result, multiextract.ErrAbort) {
		return result
	}
	c.ArchiveErrors++
	c.println(c.red("ERROR:"), result)
	return nil
}

// SetTotal implements [multiextract.Callback].
func (c *ConsoleCallback) SetTotal(total uint64) error {
	if c.bar != nil {
		c.bar.ChangeMax64(int64(total))
	}
	return nil
}

// SetCompleted implements [multiextract.Callback].
func (c *ConsoleCallback) SetCompleted(completed uint64) error {
	if c.bar != nil {
		_ = c.bar.Set64(int64(completed))
	}
	return nil
}

// PrepareOperation implements [multiextract.ItemCallback].
func (c *ConsoleCallback) PrepareOperation(path string, isDir bool) error {
	return nil
}

// OperationResult implements [multiextract.ItemCallback].
func (c *ConsoleCallback) OperationResult(path string, opErr error) error {
	if opErr == nil {
		return nil
	}
	c.ItemErrors++
	msg := "ERROR:"
	if errors.Is(opErr, multiextract.ErrDataError) {
		msg = "Data Error:"
	}
	c.println(c.red(msg), path, ":", opErr)
	return nil
}

// Finish removes the progress bar.
func (c *ConsoleCallback) Finish() {
	if c.bar != nil {
		_ = c.bar.Finish()
	}
}

// Summary prints the statistics of a run and returns the exit code.
func (c *ConsoleCallback) Summary(res *multiextract.Result, err error) int {
	failures := c.OpenErrors + c.ArchiveErrors + c.ItemErrors
	if res != nil {
		s := res.Stat
		c.println()
		if s.NumArchives > 1 {
			c.println("Archives:", s.NumArchives)
		}
		if s.NumFolders > 0 {
			c.println("Folders:", s.NumFolders)
		}
		c.println("Files:", s.NumFiles)
		c.println("Size:", humanize.IBytes(s.UnpackSize))
		c.println("Compressed:", humanize.IBytes(s.PackSize))
		if s.NumAltStreams > 0 {
			c.println("Alternate Streams:", s.NumAltStreams, "("+humanize.IBytes(s.AltStreamsUnpackSize)+")")
		}
		if res.ErrorMessage != "" {
			c.println(c.red("ERROR:"), res.ErrorMessage)
		}
	}
	if err != nil && (res == nil || res.ErrorMessage != err.Error()) {
		c.println(c.red("ERROR:"), err)
	}

	code := exitCode(res, err, failures)
	switch code {
	case ExitOK:
		c.println(c.green("Everything is Ok"))
	case ExitWarning:
		c.println(c.yellow(fmt.Sprintf("Errors: %d", failures)))
	}
	return code
}

func (c *ConsoleCallback) println(a ...any) {
	fmt.Fprintln(c.out, a...)
}
