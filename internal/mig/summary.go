package mig

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
)

// printf writes a line to the configured output unless in quiet mode.
// A non-zero attribute colors the whole line.
func (e *Engine) printf(attr color.Attribute, format string, args ...interface{}) {
	if e.cfg.Quiet {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if attr != 0 {
		msg = e.style(msg, attr)
	}
	fmt.Fprintln(e.out, msg)
}

// errorf always writes, even in quiet mode.
func (e *Engine) errorf(format string, args ...interface{}) {
	fmt.Fprintln(e.out, e.style(fmt.Sprintf(format, args...), color.FgRed))
}

func (e *Engine) style(s string, attr color.Attribute) string {
	if !e.cfg.UseColor {
		return s
	}
	return color.New(attr).Sprint(s)
}

// printSummary reports the final counters after all repositories ran.
func (e *Engine) printSummary() {
	elapsed := time.Since(e.startTime)
	e.printf(0, strings.Repeat("─", 50))

	switch {
	case e.wasInterrupted:
		e.printf(0, "%s - partial results", e.style("INTERRUPTED", color.FgYellow))
	case e.cfg.DryRun:
		e.printf(0, "%s (no files copied)", e.style("DRY RUN COMPLETE", color.FgYellow))
		e.printf(0, "Would copy: %s files across %d repos",
			e.style(fmt.Sprintf("%d", e.totalFilesCopied), color.FgGreen), len(e.reposFound))
		if e.totalFilesSkipped > 0 {
			e.printf(0, "Would skip: ~%s dependency/cache files",
				e.style(fmt.Sprintf("%d", e.totalFilesSkipped), color.FgHiBlack))
		}
	default:
		mode := "COPIED"
		if e.cfg.Zip {
			mode = "ZIPPED"
		}
		e.printf(0, "%s", e.style("MIGRATION COMPLETE ("+mode+")", color.FgGreen))
		e.printf(0, "Copied: %s files across %d repos",
			e.style(fmt.Sprintf("%d", e.totalFilesCopied), color.FgGreen), len(e.reposFound))
		if e.totalFilesSkipped > 0 {
			e.printf(0, "Skipped: ~%s dependency/cache files",
				e.style(fmt.Sprintf("%d", e.totalFilesSkipped), color.FgHiBlack))
		}
		if e.totalBytesCopied > 0 {
			e.printf(0, "Total size: %s",
				e.style(fmt.Sprintf("%.2f MB", float64(e.totalBytesCopied)/(1024*1024)), color.FgCyan))
		}
		e.printf(0, "")
		e.printf(0, "Destination: %s", e.style(e.cfg.Dest, color.FgBlue))
	}

	if len(e.preservedFiles) > 0 && !e.cfg.EnvOnly {
		e.printf(0, "")
		e.printf(0, "Preserved configs: %s files (.env, .gitignore)",
			e.style(fmt.Sprintf("%d", len(e.preservedFiles)), color.FgGreen))
		if e.cfg.Verbose {
			show := e.preservedFiles
			if len(show) > 10 {
				show = show[:10]
			}
			for _, pf := range show {
				e.printf(0, "  • %s", pf)
			}
			if rest := len(e.preservedFiles) - 10; rest > 0 {
				e.printf(0, "  ... and %d more", rest)
			}
		}
	}

	if e.symlinksSkipped > 0 {
		e.printf(0, "Symlinks skipped: %s", e.style(fmt.Sprintf("%d", e.symlinksSkipped), color.FgHiBlack))
	}
	if e.largeFilesSkipped > 0 {
		e.printf(0, "Large files skipped: %s", e.style(fmt.Sprintf("%d", e.largeFilesSkipped), color.FgHiBlack))
	}
	if e.filesOverwritten > 0 {
		e.printf(0, "Files overwritten: %s", e.style(fmt.Sprintf("%d", e.filesOverwritten), color.FgYellow))
	}
	if e.filesSkippedExists > 0 {
		e.printf(0, "Files skipped (existing): %s", e.style(fmt.Sprintf("%d", e.filesSkippedExists), color.FgHiBlack))
	}

	e.printf(0, "")
	e.printf(0, "Completed in %s", e.style(fmt.Sprintf("%.2fs", elapsed.Seconds()), color.FgCyan))

	if e.cfg.ShowStats && len(e.extensionStats) > 0 {
		e.printStats()
	}
	e.printf(0, "")
}

// printStats renders the per-extension breakdown table.
func (e *Engine) printStats() {
	e.printf(0, "")
	e.printf(0, strings.Repeat("─", 50))
	e.printf(0, "%s", e.style("FILE TYPE BREAKDOWN", color.FgCyan))
	e.printf(0, strings.Repeat("─", 50))

	type row struct {
		ext  string
		stat *extStat
	}
	rows := make([]row, 0, len(e.extensionStats))
	for ext, stat := range e.extensionStats {
		rows = append(rows, row{ext, stat})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].stat.count != rows[j].stat.count {
			return rows[i].stat.count > rows[j].stat.count
		}
		return rows[i].ext < rows[j].ext
	})
	if !e.cfg.StatsAll && len(rows) > 15 {
		rows = rows[:15]
	}

	e.printf(0, "%-15s %10s %12s", "Extension", "Files", "Size")
	e.printf(0, strings.Repeat("-", 40))
	for _, r := range rows {
		e.printf(0, "%-15s %10d %12s", r.ext, r.stat.count, formatSize(r.stat.bytes))
	}
}

// formatSize renders a byte count in the largest unit that keeps the
// number readable.
func formatSize(bytes int64) string {
	kb := float64(bytes) / 1024
	switch {
	case kb > 1024*1024:
		return fmt.Sprintf("%.1f GB", kb/(1024*1024))
	case kb > 1024:
		return fmt.Sprintf("%.1f MB", kb/1024)
	default:
		return fmt.Sprintf("%.1f KB", kb)
	}
}
