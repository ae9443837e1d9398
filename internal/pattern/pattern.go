// Package pattern compiles gitignore-syntax rule lines into structured
// records and evaluates paths against them. It is the local fallback for
// the git-backed ignore oracle, so its matching must reproduce git's own
// semantics: last match wins, negation un-ignores, directory-only and
// anchored markers are honored.
package pattern

import (
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/bethropolis/repokit/internal/utils"
)

// Record is one compiled ignore rule. The flag fields are derived from the
// raw line exactly once at compile time; the backing matcher is built from
// the same line, so a record can never be evaluated under different flag
// semantics than it was compiled with.
type Record struct {
	// Raw is the original line, kept for diagnostics.
	Raw string
	// Order is the 0-based position in the source file. Later records win
	// over earlier ones for the same path.
	Order int
	// Negation marks a record that un-ignores on match ("!pattern").
	Negation bool
	// DirOnly marks a record that matches only directories ("pattern/").
	DirOnly bool
	// Anchored marks a record that matches only relative to the rule
	// file's root ("/pattern"), not at every depth.
	Anchored bool

	matcher gitignore.Pattern // nil for a malformed rule; never matches
}

// Compile turns raw rule lines into an ordered sequence of Records.
// Blank lines and comments are dropped. A malformed glob (e.g. an
// unterminated bracket class) yields a Record whose matcher never matches,
// with a warning through log; it never aborts compilation of later lines.
func Compile(lines []string, log utils.Logger) []Record {
	if log == nil {
		log = utils.NoopLogger{}
	}

	records := make([]Record, 0, len(lines))
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		rec := Record{Raw: line, Order: i}

		body := line
		if strings.HasPrefix(body, `\#`) || strings.HasPrefix(body, `\!`) {
			// Escaped leading marker: literal character, no flag.
			body = body[1:]
		} else if strings.HasPrefix(body, "!") {
			rec.Negation = true
			body = body[1:]
		}
		if strings.HasSuffix(body, "/") && !strings.HasSuffix(body, `\/`) {
			rec.DirOnly = true
			body = body[:len(body)-1]
		}
		if strings.HasPrefix(body, "/") {
			rec.Anchored = true
			body = body[1:]
		}
		if body == "" {
			continue
		}

		if err := validateGlob(body); err != nil {
			log.Warn("pattern: malformed rule %q (line %d): %v; rule disabled", line, i+1, err)
			records = append(records, rec) // matcher stays nil
			continue
		}

		rec.matcher = gitignore.ParsePattern(line, nil)
		records = append(records, rec)
	}
	return records
}

// LoadFile reads and compiles an ignore file. A missing file is not an
// error; it compiles to no records.
func LoadFile(path string, log utils.Logger) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return Compile(strings.Split(string(data), "\n"), log), nil
}

// validateGlob rejects patterns the glob engine cannot evaluate, such as
// unterminated bracket classes, so they become inert instead of silently
// misbehaving mid-scan.
func validateGlob(body string) error {
	for _, segment := range strings.Split(body, "/") {
		if segment == "" || segment == "**" {
			continue
		}
		if _, err := filepath.Match(segment, "probe"); err != nil {
			return err
		}
	}
	return nil
}
