package pattern

import (
	"path/filepath"
	"strings"

	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Matcher evaluates candidate paths against a compiled record sequence.
type Matcher struct {
	records []Record
}

// NewMatcher wraps a compiled record sequence. The records are read-only
// from here on.
func NewMatcher(records []Record) *Matcher {
	return &Matcher{records: records}
}

// Match reports whether relpath is ignored. relpath is slash- or
// OS-separated, relative to the rule file's root.
//
// Ancestor directories are decided first: a file inside an ignored
// directory stays ignored even if a file-level negation matches it,
// unless the directory's own deciding match was a negation. This mirrors
// git, where un-ignoring a file requires un-ignoring its directory first.
func (m *Matcher) Match(relpath string, isDir bool) bool {
	relpath = filepath.ToSlash(relpath)
	if relpath == "" || relpath == "." {
		return false
	}
	segments := strings.Split(strings.Trim(relpath, "/"), "/")

	for i := 1; i < len(segments); i++ {
		if state := m.evaluate(segments[:i], true); state == decidedIgnore {
			return true
		}
	}
	return m.evaluate(segments, isDir) == decidedIgnore
}

type decision int

const (
	undecided decision = iota
	decidedIgnore
	decidedKeep
)

// evaluate walks the records in source order and returns the state set by
// the last matching record, or undecided when nothing matched.
func (m *Matcher) evaluate(path []string, isDir bool) decision {
	state := undecided
	for i := range m.records {
		rec := &m.records[i]
		if rec.matcher == nil {
			continue
		}
		switch rec.matcher.Match(path, isDir) {
		case gitignore.Exclude:
			state = decidedIgnore
		case gitignore.Include:
			state = decidedKeep
		}
	}
	return state
}
