// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package multiextract

import (
	"os"
	"regexp"
	"runtime"
	"strings"
)

// init prepares the filename restriction regex depending on the operating system
func init() {
	namingRestrictions = []nameRestriction{
		{"exclude line break, feed and tab", regexp.MustCompile(`[\x0a\x0d\x09]`)},
	}

	if runtime.GOOS != "windows" {

		// invalid unix filesystem characters: null byte, slash and backslash
		namingRestrictions = append(namingRestrictions,
			nameRestriction{"invalid character in filename (unix)", regexp.MustCompile(`[\x00/\\]`)},
		)
		return
	}

	// invalid windows filesystem characters, control characters and <>:"/\|?*
	// https://docs.microsoft.com/en-us/windows/win32/fileio/naming-a-file
	namingRestrictions = append(namingRestrictions,
		nameRestriction{"invalid characters (windows)", regexp.MustCompile(`[\x00-\x1f<>:"/\\|?*]`)},
	)
	reservedNames = regexp.MustCompile(`^(?i)(CON|PRN|AUX|NUL|COM[0-9]+|LPT[0-9]+)(\..*)?$`)
}

// nameRestriction is a struct that contains the name of the restriction and the regex to check for it
type nameRestriction struct {
	RestrictionName string
	Regex           *regexp.Regexp
}

var (
	// namingRestrictions is a list of character restrictions for filenames, depending on the operating system
	namingRestrictions []nameRestriction

	// reservedNames matches device names that cannot be used as file names. Only set on windows.
	reservedNames *regexp.Regexp
)

// correctFsFileName turns name into a single valid file name. Invalid characters are
// replaced with "_", empty names and the dot names become "_".
func correctFsFileName(name string) string {
	if name == "." || name == ".." {
		name = ""
	}
	for _, restriction := range namingRestrictions {
		name = restriction.Regex.ReplaceAllString(name, "_")
	}
	if runtime.GOOS == "windows" {
		name = strings.TrimRight(name, " .")
	}
	if len(name) == 0 {
		return "_"
	}
	if reservedNames != nil && reservedNames.MatchString(name) {
		return "_" + name
	}
	return name
}

// isPathSeparator reports whether c separates path parts. The slash is accepted on
// every platform.
func isPathSeparator(c byte) bool {
	return c == '/' || c == os.PathSeparator
}

// splitPathToParts splits path into the directory prefix (with trailing separator) and
// the last path part. A trailing separator of path is ignored, so "/a/b/c/" gives
// "/a/b/" and "c".
func splitPathToParts(path string) (string, string) {
	end := len(path)
	for end > 0 && isPathSeparator(path[end-1]) {
		end--
	}
	i := end
	for i > 0 && !isPathSeparator(path[i-1]) {
		i--
	}
	return path[:i], path[i:end]
}

// archiveDisplayName returns the name that replaces "*" in the output template. For
// executables that wrap an archive the name of the executable is used, because the
// embedded archive has no name of its own.
func archiveDisplayName(chain *ArchiveChain) string {
	if chain.Len() > 1 && strings.EqualFold(chain.Outermost().Format(), "pe") {
		return chain.Outermost().DefaultName()
	}
	return chain.Innermost().DefaultName()
}

// resolveOutputDir replaces every "*" in template with the corrected archive name.
func resolveOutputDir(template string, name string) string {
	return strings.ReplaceAll(template, "*", correctFsFileName(name))
}
