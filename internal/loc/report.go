package loc

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
)

// Meta carries run details included in machine-readable reports.
type Meta struct {
	Version     string
	Elapsed     time.Duration
	Interrupted bool
}

// Totals sums the per-language stats.
func Totals(stats map[string]*Stats) Stats {
	var total Stats
	for _, s := range stats {
		total.Files += s.Files
		total.Blank += s.Blank
		total.Comment += s.Comment
		total.Code += s.Code
	}
	return total
}

// sortedNames orders languages by code lines descending, name as
// tiebreaker.
func sortedNames(stats map[string]*Stats) []string {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if stats[names[i]].Code != stats[names[j]].Code {
			return stats[names[i]].Code > stats[names[j]].Code
		}
		return names[i] < names[j]
	})
	return names
}

// ReportStats writes the table with percentage breakdowns: file share of
// the whole run, and blank/comment/code share of each language's own
// lines.
func ReportStats(w io.Writer, stats map[string]*Stats, useColor bool) {
	total := Totals(stats)
	totalLines := total.Blank + total.Comment + total.Code

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Language\tFiles\tBlank\tComment\tCode")
	for _, name := range sortedNames(stats) {
		s := stats[name]
		label := name
		if useColor {
			label = color.New(s.Color).Sprint(name)
		}
		lines := s.Blank + s.Comment + s.Code
		fmt.Fprintf(tw, "%s\t%d (%s)\t%d (%s)\t%d (%s)\t%d (%s)\n",
			label,
			s.Files, pct(s.Files, total.Files),
			s.Blank, pct(s.Blank, lines),
			s.Comment, pct(s.Comment, lines),
			s.Code, pct(s.Code, lines))
	}
	fmt.Fprintf(tw, "Total\t%d (%s)\t%d (%s)\t%d (%s)\t%d (%s)\n",
		total.Files, pct(total.Files, total.Files),
		total.Blank, pct(total.Blank, totalLines),
		total.Comment, pct(total.Comment, totalLines),
		total.Code, pct(total.Code, totalLines))
	tw.Flush()
}

func pct(part, whole int) string {
	if whole == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)/float64(whole)*100)
}

type jsonLanguage struct {
	Files   int `json:"files"`
	Blank   int `json:"blank"`
	Comment int `json:"comment"`
	Code    int `json:"code"`
}

type jsonReport struct {
	Metadata struct {
		Version        string  `json:"version"`
		ElapsedSeconds float64 `json:"elapsed_seconds"`
		Interrupted    bool    `json:"interrupted"`
		Timestamp      string  `json:"timestamp"`
	} `json:"metadata"`
	Totals struct {
		Files   int `json:"files"`
		Blank   int `json:"blank"`
		Comment int `json:"comment"`
		Code    int `json:"code"`
		Lines   int `json:"lines"`
	} `json:"totals"`
	Languages map[string]jsonLanguage `json:"languages"`
}

// WriteJSON writes the counts as an indented JSON document.
func WriteJSON(w io.Writer, stats map[string]*Stats, meta Meta) error {
	var report jsonReport
	report.Metadata.Version = meta.Version
	report.Metadata.ElapsedSeconds = meta.Elapsed.Seconds()
	report.Metadata.Interrupted = meta.Interrupted
	report.Metadata.Timestamp = time.Now().Format(time.RFC3339)

	total := Totals(stats)
	report.Totals.Files = total.Files
	report.Totals.Blank = total.Blank
	report.Totals.Comment = total.Comment
	report.Totals.Code = total.Code
	report.Totals.Lines = total.Blank + total.Comment + total.Code

	report.Languages = make(map[string]jsonLanguage, len(stats))
	for name, s := range stats {
		report.Languages[name] = jsonLanguage{
			Files:   s.Files,
			Blank:   s.Blank,
			Comment: s.Comment,
			Code:    s.Code,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&report)
}
