// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	multiextract "github.com/hashicorp/go-multiextract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModes(t *testing.T) {
	o, err := ParseOverwriteMode("rename-existing")
	require.NoError(t, err)
	assert.Equal(t, multiextract.OverwriteRenameExisting, o)

	p, err := ParsePathMode("NONE")
	require.NoError(t, err)
	assert.Equal(t, multiextract.PathModeNone, p)

	z, err := ParseZoneMode("office")
	require.NoError(t, err)
	assert.Equal(t, multiextract.ZoneOffice, z)

	_, err = ParseOverwriteMode("ask")
	assert.Error(t, err)
	_, err = ParsePathMode("relative")
	assert.Error(t, err)
	_, err = ParseZoneMode("internet")
	assert.Error(t, err)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name     string
		res      *multiextract.Result
		err      error
		failures int
		want     int
	}{
		{name: "ok", res: &multiextract.Result{}, want: ExitOK},
		{name: "item errors", res: &multiextract.Result{ItemErrors: fmt.Errorf("bad")}, want: ExitWarning},
		{name: "open failures", res: &multiextract.Result{}, failures: 1, want: ExitWarning},
		{name: "fatal", res: &multiextract.Result{ErrorMessage: "x"}, err: multiextract.ErrFail, want: ExitFatal},
		{name: "abort", res: &multiextract.Result{}, err: fmt.Errorf("%w: stop", multiextract.ErrAbort), want: ExitAbort},
		{name: "cancelled", err: context.Canceled, want: ExitAbort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.res, tt.err, tt.failures))
		})
	}
}

func TestConfigLoader(t *testing.T) {
	tests := map[string]string{
		"yaml": "overwrite: skip\nelim_dup: true\ninclude:\n  - \"*.txt\"\n",
		"json": `{"overwrite": "skip", "elim-dup": true, "include": ["*.txt"]}`,
		"toml": "overwrite = \"skip\"\nelim_dup = true\ninclude = [\"*.txt\"]\n",
	}
	for name, cfg := range tests {
		t.Run(name, func(t *testing.T) {
			resolver, err := configLoader(strings.NewReader(cfg))
			require.NoError(t, err)

			var cli CLI
			parser, err := kong.New(&cli, kong.Resolvers(resolver), kong.Vars{"hash_methods": "", "formats": ""})
			require.NoError(t, err)
			_, err = parser.Parse([]string{"a.zip"})
			require.NoError(t, err)

			assert.Equal(t, "skip", cli.Overwrite)
			assert.True(t, cli.ElimDup)
			assert.Equal(t, []string{"*.txt"}, cli.Include)
			assert.Equal(t, []string{"a.zip"}, cli.Archives)
		})
	}
}

func TestConfigLoaderInvalid(t *testing.T) {
	_, err := configLoader(strings.NewReader("::: not a config [[["))
	assert.Error(t, err)
}

func TestConfigLoaderUnknownKey(t *testing.T) {
	resolver, err := configLoader(strings.NewReader("overwrite: skip\nno_such_flag: true\n"))
	require.NoError(t, err)

	var cli CLI
	parser, err := kong.New(&cli, kong.Resolvers(resolver), kong.Vars{"hash_methods": "", "formats": ""})
	require.NoError(t, err)
	_, err = parser.Parse([]string{"a.zip"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown configuration key "no_such_flag"`)
}

func TestConfigFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr bool
	}{
		{name: "yaml by extension", file: "config.yml", content: "overwrite: skip\nelim-dup: true\n"},
		{name: "toml by extension", file: "config.toml", content: "overwrite = \"skip\"\nelim_dup = true\n"},
		{name: "yaml in json file", file: "config.json", content: "overwrite: skip\nelim-dup: true\n", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			var cli CLI
			parser, err := kong.New(&cli, kong.Configuration(configLoader), kong.Vars{"hash_methods": "", "formats": ""})
			require.NoError(t, err)
			_, err = parser.Parse([]string{"--config", path, "a.zip"})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "skip", cli.Overwrite)
			assert.True(t, cli.ElimDup)
		})
	}
}

func TestConsoleCallback(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	cb := NewConsoleCallback(&buf, false)

	require.NoError(t, cb.BeforeOpen("a.7z", true))
	require.NoError(t, cb.OpenResult("b.zip", nil, fmt.Errorf("%w: no format", multiextract.ErrUnsupportedArchive)))
	require.NoError(t, cb.OperationResult("c.txt", fmt.Errorf("%w: crc", multiextract.ErrDataError)))
	require.NoError(t, cb.ExtractResult(fmt.Errorf("cannot extract a: broken")))
	abort := fmt.Errorf("%w: interrupted", multiextract.ErrAbort)
	assert.ErrorIs(t, cb.ExtractResult(abort), multiextract.ErrAbort)

	code := cb.Summary(&multiextract.Result{Stat: multiextract.DecompressStat{NumArchives: 2, NumFiles: 3, UnpackSize: 2048}}, nil)
	assert.Equal(t, ExitWarning, code)

	out := buf.String()
	assert.Contains(t, out, "Testing archive: a.7z")
	assert.Contains(t, out, "Cannot open the file as archive: b.zip")
	assert.Contains(t, out, "Data Error: c.txt")
	assert.Contains(t, out, "Archives: 2")
	assert.Contains(t, out, "Size: 2.0 KiB")
	assert.Contains(t, out, "Errors: 3")
}

func TestExecuteWithoutArchives(t *testing.T) {
	var out, errOut bytes.Buffer
	cli := &CLI{Overwrite: "deny", PathMode: "full", Zone: "none"}
	assert.Equal(t, ExitUsage, cli.Execute(context.Background(), &out, &errOut))
	assert.Contains(t, errOut.String(), "no archives given")
}

func TestExecuteStdinWithManyArchives(t *testing.T) {
	var out, errOut bytes.Buffer
	cli := &CLI{Archives: []string{"a.gz", "b.gz"}, Stdin: true, Overwrite: "deny", PathMode: "full", Zone: "none"}
	assert.Equal(t, ExitUsage, cli.Execute(context.Background(), &out, &errOut))
	assert.Contains(t, errOut.String(), "only one archive name")
}
