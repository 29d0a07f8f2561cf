// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"io"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// configTypes are the configuration formats tried by configLoader for input without a
// known file extension, in this order.
var configTypes = []string{"yaml", "json", "toml"}

// configExtensions maps file extensions onto configuration formats.
var configExtensions = map[string]string{
	".yaml": "yaml",
	".yml":  "yaml",
	".json": "json",
	".toml": "toml",
}

// flagKey matches keys that can name a flag.
var flagKey = regexp.MustCompile(`^[a-z][a-z0-9]*([-_][a-z0-9]+)*$`)

// configLoader reads a configuration file with viper and resolves flags from it. Keys
// are the flag names, dashes may be written as underscores. The format follows the file
// extension, other input is tried as yaml, json and toml. Keys that name no flag are
// rejected when the command line is parsed.
func configLoader(r io.Reader) (kong.Resolver, error) {
	types := configTypes
	if named, ok := r.(interface{ Name() string }); ok {
		if typ, ok := configExtensions[strings.ToLower(filepath.Ext(named.Name()))]; ok {
			types = []string{typ}
		}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read configuration")
	}

	var v *viper.Viper
	for _, typ := range types {
		v, err = readConfig(typ, data)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, errors.Wrap(err, "cannot parse configuration")
	}
	return &configResolver{v: v}, nil
}

// readConfig parses data as typ. A document whose keys cannot be flag names is rejected,
// so that text in another format is not taken for a single odd key.
func readConfig(typ string, data []byte) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType(typ)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	for _, key := range configKeys(v) {
		if !flagKey.MatchString(key) {
			return nil, errors.Errorf("invalid %s configuration key %q", typ, key)
		}
	}
	return v, nil
}

// configKeys returns the sorted top level keys of v.
func configKeys(v *viper.Viper) []string {
	keys := make([]string, 0, len(v.AllSettings()))
	for key := range v.AllSettings() {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// configResolver resolves flag values from a viper configuration.
type configResolver struct {
	v *viper.Viper
}

var _ kong.Resolver = (*configResolver)(nil)

// Validate fails for keys that name no flag of app.
func (c *configResolver) Validate(app *kong.Application) error {
	known := map[string]bool{}
	for _, flag := range app.Flags {
		known[flag.Name] = true
		known[strings.ReplaceAll(flag.Name, "-", "_")] = true
	}
	for _, key := range configKeys(c.v) {
		if !known[key] {
			return errors.Errorf("unknown configuration key %q", key)
		}
	}
	return nil
}

func (c *configResolver) Resolve(kctx *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
	for _, key := range []string{flag.Name, strings.ReplaceAll(flag.Name, "-", "_")} {
		if c.v.IsSet(key) {
			return c.v.Get(key), nil
		}
	}
	return nil, nil
}
