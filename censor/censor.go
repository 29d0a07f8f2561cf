// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package censor selects archive entries by wildcard patterns.
//
// A pattern without a slash matches any path element, so "*.txt" selects text files at
// every level and "docs" selects a docs directory wherever it occurs, including all
// entries below it. A pattern with a slash is matched against the leading elements of the
// entry path, so "docs/*" selects everything inside the top level docs directory.
package censor

import (
	"fmt"
	"path"
	"strings"

	multiextract "github.com/hashicorp/go-multiextract"
)

// Censor implements [multiextract.Censor] with include and exclude patterns. An entry
// is selected if it matches an include pattern, or no include pattern is set, and
// matches no exclude pattern.
type Censor struct {
	include         []string
	exclude         []string
	caseInsensitive bool
}

// Option configures a [Censor].
type Option func(*Censor)

// WithInclude adds include patterns.
func WithInclude(patterns ...string) Option {
	return func(c *Censor) {
		c.include = append(c.include, patterns...)
	}
}

// WithExclude adds exclude patterns.
func WithExclude(patterns ...string) Option {
	return func(c *Censor) {
		c.exclude = append(c.exclude, patterns...)
	}
}

// WithCaseInsensitive matches patterns without regard to case.
func WithCaseInsensitive(enable bool) Option {
	return func(c *Censor) {
		c.caseInsensitive = enable
	}
}

// New creates a censor and validates its patterns.
func New(opts ...Option) (*Censor, error) {
	c := &Censor{}
	for _, opt := range opts {
		opt(c)
	}
	for _, list := range [][]string{c.include, c.exclude} {
		for i, p := range list {
			p = normalize(p)
			if c.caseInsensitive {
				p = strings.ToLower(p)
			}
			if _, err := path.Match(p, ""); err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", list[i], err)
			}
			list[i] = p
		}
	}
	return c, nil
}

// AreAllAllowed reports whether the censor has no patterns.
func (c *Censor) AreAllAllowed() bool {
	return len(c.include) == 0 && len(c.exclude) == 0
}

// CheckPath reports whether item is selected. Alternate streams follow the decision of
// the entry they belong to.
func (c *Censor) CheckPath(item multiextract.Item) bool {
	p := item.Path
	if item.IsAltStream && item.MainPath != "" {
		p = item.MainPath
	}
	p = normalize(p)
	if c.caseInsensitive {
		p = strings.ToLower(p)
	}
	parts := strings.Split(p, "/")

	if len(c.include) > 0 && !matchesAny(c.include, parts) {
		return false
	}
	return !matchesAny(c.exclude, parts)
}

// matchesAny reports whether one of patterns matches the path given by its elements.
func matchesAny(patterns []string, parts []string) bool {
	for _, p := range patterns {
		if matches(p, parts) {
			return true
		}
	}
	return false
}

// matches reports whether pattern matches a path element, or for patterns with a slash,
// the path or one of its parent directories.
func matches(pattern string, parts []string) bool {
	if !strings.Contains(pattern, "/") {
		for _, part := range parts {
			if ok, _ := path.Match(pattern, part); ok {
				return true
			}
		}
		return false
	}
	for i := range parts {
		if ok, _ := path.Match(pattern, strings.Join(parts[:i+1], "/")); ok {
			return true
		}
	}
	return false
}

// normalize converts p into a slash separated path without leading "./" or "/" and
// without trailing slash.
func normalize(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return strings.Trim(p, "/")
}
