// Package noise filters well-known junk entries out of an archive staging
// walk: macOS resource forks, Windows thumbnail caches, and the like that
// consumer export tools leave behind but that never correspond to a
// manifest file entry.
package noise

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/sabhiram/go-gitignore"
)

// defaultPatterns are the doublestar glob patterns skipped unconditionally
// during a staging walk.
var defaultPatterns = []string{
	"**/__MACOSX/**",
	"**/.DS_Store",
	"**/Thumbs.db",
	"**/desktop.ini",
}

// Filter decides whether a staging-directory entry is noise. It combines a
// fixed set of doublestar glob patterns with an optional caller-supplied
// ignore file compiled the same way a .gitignore is.
type Filter struct {
	patterns []string
	extra    *gitignore.GitIgnore
}

// New builds a Filter from the default noise patterns plus the contents of
// an optional extra ignore-file (gitignore syntax); pass nil to use only
// the defaults.
func New(extraIgnoreLines []string) *Filter {
	f := &Filter{patterns: defaultPatterns}
	if len(extraIgnoreLines) > 0 {
		f.extra = gitignore.CompileIgnoreLines(extraIgnoreLines...)
	}
	return f
}

// IsNoise reports whether path (relative to the staging root, forward
// slashes or OS-native separators) should be skipped.
func (f *Filter) IsNoise(path string) bool {
	normalized := filepath.ToSlash(path)
	normalized = strings.TrimPrefix(normalized, "./")

	for _, pattern := range f.patterns {
		if matched, _ := doublestar.Match(pattern, normalized); matched {
			return true
		}
	}

	if f.extra != nil && f.extra.MatchesPath(normalized) {
		return true
	}

	return false
}
