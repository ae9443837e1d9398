// Package gitutil answers "is this path ignored?" for batches of scan
// candidates. The precise strategy delegates to git check-ignore; the
// fallback strategy evaluates compiled ignore rules locally. Both are
// interchangeable behind the Oracle interface.
package gitutil

import (
	"context"

	git "github.com/go-git/go-git/v5"

	"github.com/bethropolis/repokit/internal/pattern"
)

// Candidate is a path plus its type, relative to the scan root. Candidates
// live for one scan invocation only.
type Candidate struct {
	RelPath string
	IsDir   bool
}

// Oracle filters a batch of candidates down to the ignored subset, keyed
// by relative path.
type Oracle interface {
	// Name identifies the strategy in logs and warnings.
	Name() string
	// FilterIgnored returns the subset of candidates the strategy
	// considers ignored.
	FilterIgnored(ctx context.Context, candidates []Candidate) (map[string]struct{}, error)
}

// IsGitRepo reports whether path is the root of a git repository.
func IsGitRepo(path string) bool {
	_, err := git.PlainOpen(path)
	return err == nil
}

// PatternOracle is the pure fallback strategy: it evaluates each candidate
// against a compiled rule sequence, reproducing git's last-match-wins and
// ancestor-precedence semantics without invoking git.
type PatternOracle struct {
	matcher *pattern.Matcher
}

// NewPatternOracle builds a fallback oracle from compiled records.
func NewPatternOracle(records []pattern.Record) *PatternOracle {
	return &PatternOracle{matcher: pattern.NewMatcher(records)}
}

func (o *PatternOracle) Name() string { return "pattern" }

// FilterIgnored evaluates every candidate locally. Unlike the git-backed
// strategy it accepts directory candidates.
func (o *PatternOracle) FilterIgnored(ctx context.Context, candidates []Candidate) (map[string]struct{}, error) {
	ignored := make(map[string]struct{})
	for _, c := range candidates {
		select {
		case <-ctx.Done():
			return ignored, ctx.Err()
		default:
		}
		if o.matcher.Match(c.RelPath, c.IsDir) {
			ignored[c.RelPath] = struct{}{}
		}
	}
	return ignored, nil
}
