// Package loc counts blank, comment and code lines per language across
// the kept files of a repository.
package loc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/bethropolis/repokit/internal/scan"
	"github.com/bethropolis/repokit/internal/utils"
)

// Stats aggregates line counts for one language.
type Stats struct {
	Files   int
	Blank   int
	Comment int
	Code    int
	Color   color.Attribute
}

// Engine scans a repository and classifies every counted line.
type Engine struct {
	root        string
	rawMode     bool
	log         utils.Logger
	interrupted bool
}

// NewEngine creates a counter for root.
func NewEngine(root string, rawMode bool, log utils.Logger) *Engine {
	if log == nil {
		log = utils.NoopLogger{}
	}
	return &Engine{root: root, rawMode: rawMode, log: log}
}

// Count runs the shared scan and analyzes each kept file with a known
// extension. The returned map is keyed by language name.
func (e *Engine) Count() (map[string]*Stats, error) {
	result, err := scan.Scan(e.root,
		scan.WithLogger(e.log),
		scan.WithRawMode(e.rawMode),
	)
	if err != nil {
		return nil, err
	}
	if result.Partial {
		e.interrupted = true
		e.log.Warn("loc: counting a partial scan (%s)", result.PartialReason)
	}

	stats := make(map[string]*Stats)
	for _, rel := range result.Files {
		lang, ok := Languages[strings.ToLower(filepath.Ext(rel))]
		if !ok {
			continue
		}
		blank, comment, code, err := analyzeFile(filepath.Join(result.Root, rel), lang)
		if err != nil {
			e.log.Warn("loc: cannot read %q: %v", rel, err)
			continue
		}

		s := stats[lang.Name]
		if s == nil {
			s = &Stats{Color: lang.Color}
			stats[lang.Name] = s
		}
		s.Files++
		s.Blank += blank
		s.Comment += comment
		s.Code += code
	}
	return stats, nil
}

// Interrupted reports whether the last Count ran on a partial scan.
func (e *Engine) Interrupted() bool { return e.interrupted }

// analyzeFile classifies each line of one file. Block comments carry state
// across lines; a line inside a block counts as comment even if it holds
// code after the terminator, matching the usual cheap-counter tradeoff.
func analyzeFile(path string, lang Language) (blank, comment, code int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, 0, err
	}
	defer f.Close()

	inBlock := false
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			blank++
		case inBlock:
			comment++
			if lang.MultiEnd != "" && strings.Contains(line, lang.MultiEnd) {
				inBlock = false
			}
		case lang.MultiStart != "" && strings.HasPrefix(line, lang.MultiStart):
			comment++
			rest := line[len(lang.MultiStart):]
			if lang.MultiEnd != "" && !strings.Contains(rest, lang.MultiEnd) {
				inBlock = true
			}
		case lang.Single != "" && strings.HasPrefix(line, lang.Single):
			comment++
		default:
			code++
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, 0, 0, err
	}
	return blank, comment, code, nil
}

// Report writes the aggregated table, languages sorted by code lines
// descending, with a totals row.
func Report(w io.Writer, stats map[string]*Stats, useColor bool) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Language\tFiles\tBlank\tComment\tCode")
	for _, name := range sortedNames(stats) {
		s := stats[name]
		label := name
		if useColor {
			label = color.New(s.Color).Sprint(name)
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", label, s.Files, s.Blank, s.Comment, s.Code)
	}
	total := Totals(stats)
	fmt.Fprintf(tw, "Total\t%d\t%d\t%d\t%d\n", total.Files, total.Blank, total.Comment, total.Code)
	tw.Flush()
}
