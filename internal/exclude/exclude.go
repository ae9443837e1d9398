// Package exclude provides the static, process-wide exclusion rules shared
// by every tool: directory names that are never descended into, file
// patterns that are never kept, and preserve patterns that win over both.
package exclude

import (
	"io/fs"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/sabhiram/go-gitignore"
)

// DefaultDirNames lists directory basenames that are eagerly pruned before
// the directory is ever opened. Entries may be globs (e.g. "*.egg-info").
// Version-control metadata (.git and friends) is excluded purely through
// membership here; no other code path checks for it.
var DefaultDirNames = []string{
	// Version control
	".git",
	".svn",
	".hg",
	// IDEs
	".idea",
	".vscode",
	// Python
	"__pycache__",
	".pytest_cache",
	".mypy_cache",
	".ruff_cache",
	"venv",
	".venv",
	"env",
	".tox",
	".nox",
	"*.egg-info",
	// Node / web
	"node_modules",
	"bower_components",
	".next",
	".nuxt",
	".output",
	".cache",
	// Build artifacts
	"dist",
	"build",
	"target",
	"bin",
	"obj",
	"out",
	".parcel-cache",
	// Misc
	".DS_Store",
	"Thumbs.db",
	".turbo",
}

// DefaultFilePatterns lists file basename globs that are dropped locally
// without consulting the ignore oracle.
var DefaultFilePatterns = []string{
	"*.log",
	"*.tmp",
	"*.temp",
	"*.bak",
	"*.swp",
	"*.pyc",
	"*.pyo",
	"*.class",
	"*.dll",
	"*.exe",
	"*.o",
	"*.so",
	"*.dylib",
}

// DefaultPreservePatterns lists file basename globs that override any
// exclusion or ignore decision. Only the mig tool passes these to a scan.
var DefaultPreservePatterns = []string{
	".env",
	".env.*",
	".gitignore",
}

// Set is an immutable bundle of the three exclusion categories, compiled
// once and shared read-only for the rest of the run.
type Set struct {
	dirNames  []string
	exactDirs map[string]struct{}
	globDirs  []string

	filePatterns    *gitignore.GitIgnore
	hasFilePatterns bool
	preserve        *gitignore.GitIgnore
	hasPreserve     bool
}

// NewSet compiles an exclusion set. Nil dirNames falls back to the
// defaults; filePatterns and preserve may be empty, in which case the
// corresponding check never matches.
func NewSet(dirNames, filePatterns, preserve []string) *Set {
	if dirNames == nil {
		dirNames = DefaultDirNames
	}

	s := &Set{
		dirNames:  dirNames,
		exactDirs: make(map[string]struct{}, len(dirNames)),
	}
	for _, name := range dirNames {
		// Split exact names from glob names so the common case stays a
		// map lookup.
		if isGlob(name) {
			s.globDirs = append(s.globDirs, name)
		} else {
			s.exactDirs[name] = struct{}{}
		}
	}

	if len(filePatterns) > 0 {
		s.filePatterns = gitignore.CompileIgnoreLines(filePatterns...)
		s.hasFilePatterns = true
	}
	if len(preserve) > 0 {
		s.preserve = gitignore.CompileIgnoreLines(preserve...)
		s.hasPreserve = true
	}
	return s
}

// ShouldPrune reports whether a directory basename belongs to the eager
// exclusion set. It is a pure function: case-sensitive (matching the
// conventions of case-sensitive filesystems; on case-insensitive hosts the
// names as checked out still match) and performing no I/O.
func (s *Set) ShouldPrune(dirName string) bool {
	if _, ok := s.exactDirs[dirName]; ok {
		return true
	}
	for _, pattern := range s.globDirs {
		if ok, err := doublestar.Match(pattern, dirName); err == nil && ok {
			return true
		}
	}
	return false
}

// ExcludesFile reports whether a file basename matches the static file
// exclusion patterns.
func (s *Set) ExcludesFile(baseName string) bool {
	return s.hasFilePatterns && s.filePatterns.MatchesPath(baseName)
}

// HasFilePatterns reports whether any file exclusion patterns were
// configured.
func (s *Set) HasFilePatterns() bool {
	return s.hasFilePatterns
}

// Preserves reports whether a file basename matches the preserve patterns.
// Preserve wins over every exclusion and ignore decision, but never over
// eager pruning: a pruned directory is structural, not an ignore rule.
func (s *Set) Preserves(baseName string) bool {
	return s.hasPreserve && s.preserve.MatchesPath(baseName)
}

// HasPreserve reports whether any preserve patterns were configured.
func (s *Set) HasPreserve() bool {
	return s.hasPreserve
}

// CountFiles counts the files beneath dir. This walks the entire subtree
// and therefore costs O(subtree size); the scanner only calls it when the
// caller explicitly asks for pruned-subtree counts.
func CountFiles(dir string) int {
	count := 0
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			count++
		}
		return nil
	})
	return count
}

func isGlob(name string) bool {
	for _, r := range name {
		switch r {
		case '*', '?', '[':
			return true
		}
	}
	return false
}
