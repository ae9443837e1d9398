// Package mig copies git repositories without their dependency and cache
// directories, driven by the shared scan core. It is the one consumer
// that exercises preserve overrides, size limits and the extension/raw
// selection modes.
package mig

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"

	"github.com/bethropolis/repokit/internal/exclude"
	"github.com/bethropolis/repokit/internal/scan"
	"github.com/bethropolis/repokit/internal/utils"
)

// envPatterns select files in --env mode.
var envPatterns = []string{".env", ".env.*", "*.env"}

// Config carries all migration settings.
type Config struct {
	Source string
	Dest   string

	DryRun       bool
	Zip          bool
	GitSize      bool
	ShowStats    bool
	StatsAll     bool
	IncludeGit   bool
	Verbose      bool
	Quiet        bool
	Force        bool
	SkipExisting bool
	RawMode      bool
	EnvOnly      bool

	ExtraExcludes []string
	Only          []string
	ExtFilter     []string
	MaxSize       int64 // bytes; 0 means no limit

	UseColor bool
	Out      io.Writer
	Logger   utils.Logger
}

// fileEntry is one file selected for copying.
type fileEntry struct {
	rel  string
	size int64
}

// extStat aggregates per-extension counters for the --stats breakdown.
type extStat struct {
	count int
	bytes int64
}

// Engine executes a migration run.
type Engine struct {
	cfg Config
	log utils.Logger
	out io.Writer

	reposFound         []string
	totalFilesCopied   int
	totalFilesSkipped  int
	totalBytesCopied   int64
	preservedFiles     []string
	symlinksSkipped    int
	largeFilesSkipped  int
	filesOverwritten   int
	filesSkippedExists int
	extensionStats     map[string]*extStat
	startTime          time.Time
	wasInterrupted     bool
	interruptedReason  string
}

// NewEngine validates nothing yet; Run does the work.
func NewEngine(cfg Config) *Engine {
	if cfg.Logger == nil {
		cfg.Logger = utils.NoopLogger{}
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	return &Engine{
		cfg:            cfg,
		log:            cfg.Logger,
		out:            cfg.Out,
		extensionStats: make(map[string]*extStat),
	}
}

// Run finds the repositories under the source, scans each one and copies
// or archives the selected files. Cancellation stops between repositories
// and between files, reporting a partial summary.
func (e *Engine) Run(ctx context.Context) error {
	e.startTime = time.Now()
	absSource, err := filepath.Abs(e.cfg.Source)
	if err != nil {
		return fmt.Errorf("mig: invalid source %q: %w", e.cfg.Source, err)
	}
	e.cfg.Source = absSource

	singleRepo := isRepoRoot(absSource)
	e.reposFound, err = e.findRepos(singleRepo)
	if err != nil {
		return err
	}
	if len(e.reposFound) == 0 {
		e.printf(color.FgYellow, "No git repositories found in %s", absSource)
		return nil
	}

	if e.cfg.GitSize {
		return e.reportGitSizes(ctx, singleRepo)
	}

	absDest, err := filepath.Abs(e.cfg.Dest)
	if err != nil {
		return fmt.Errorf("mig: invalid destination %q: %w", e.cfg.Dest, err)
	}
	if absDest == absSource || strings.HasPrefix(absDest, absSource+string(filepath.Separator)) {
		return fmt.Errorf("mig: destination %q is inside the source directory", e.cfg.Dest)
	}
	e.cfg.Dest = absDest

	e.announce(singleRepo)

	for idx, repoName := range e.reposFound {
		if ctx.Err() != nil {
			e.wasInterrupted = true
			e.interruptedReason = ctx.Err().Error()
			break
		}

		repoPath := absSource
		if !singleRepo {
			repoPath = filepath.Join(absSource, repoName)
		}
		e.printf(0, "[%d/%d] %s", idx+1, len(e.reposFound),
			e.style(repoName+"/", color.FgBlue))

		files, skipped, scanErr := e.scanRepo(ctx, repoName, repoPath)
		if scanErr != nil {
			e.log.Error("mig: scanning %q failed: %v", repoName, scanErr)
			continue
		}

		var totalSkipped int
		for _, n := range skipped {
			totalSkipped += n
		}

		modeLabel := "Copying"
		if e.cfg.Zip {
			modeLabel = "Zipping"
		}
		e.printf(0, "      → %s: %s files", modeLabel,
			e.style(fmt.Sprintf("%d", len(files)), color.FgGreen))
		e.reportSkipped(skipped)

		var bytesOut int64
		if !e.cfg.DryRun {
			if e.cfg.Zip {
				bytesOut = e.zipRepo(ctx, repoName, repoPath, files)
			} else {
				bytesOut = e.copyRepo(ctx, repoName, repoPath, files)
			}
		} else {
			for _, f := range files {
				bytesOut += f.size
			}
		}

		e.totalBytesCopied += bytesOut
		e.totalFilesCopied += len(files)
		e.totalFilesSkipped += totalSkipped
		e.printf(0, "")
	}

	e.printSummary()
	return nil
}

// reportGitSizes prints the size of each repository's .git directory and
// performs no migration.
func (e *Engine) reportGitSizes(ctx context.Context, singleRepo bool) error {
	var total int64
	for _, repoName := range e.reposFound {
		if ctx.Err() != nil {
			e.printf(color.FgYellow, "Interrupted.")
			return nil
		}
		repoPath := e.cfg.Source
		if !singleRepo {
			repoPath = filepath.Join(e.cfg.Source, repoName)
		}
		size, err := dirSize(filepath.Join(repoPath, ".git"))
		if err != nil {
			e.log.Error("mig: sizing %q failed: %v", repoName, err)
			continue
		}
		total += size
		e.printf(0, "%-30s %12s", e.style(repoName+"/", color.FgBlue), formatSize(size))
	}
	if !singleRepo {
		e.printf(0, "%-30s %12s", "Total .git size:", e.style(formatSize(total), color.FgCyan))
	}
	return nil
}

// dirSize sums the regular-file sizes under root. Symlinks are not
// followed.
func dirSize(root string) (int64, error) {
	var total int64
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	return total, err
}

// findRepos resolves which repositories the run covers.
func (e *Engine) findRepos(singleRepo bool) ([]string, error) {
	if singleRepo {
		return []string{filepath.Base(e.cfg.Source)}, nil
	}
	entries, err := os.ReadDir(e.cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("mig: reading source: %w", err)
	}
	var repos []string
	for _, entry := range entries {
		if !entry.IsDir() || !isRepoRoot(filepath.Join(e.cfg.Source, entry.Name())) {
			continue
		}
		if len(e.cfg.Only) > 0 && !containsString(e.cfg.Only, entry.Name()) {
			continue
		}
		repos = append(repos, entry.Name())
	}
	sort.Strings(repos)
	return repos, nil
}

// scanRepo runs the shared scanner over one repository and applies the
// mode-specific selection on top.
func (e *Engine) scanRepo(ctx context.Context, repoName, repoPath string) ([]fileEntry, map[string]int, error) {
	modeFilter := e.cfg.EnvOnly || len(e.cfg.ExtFilter) > 0

	opts := []scan.Option{
		scan.WithLogger(e.log),
		scan.WithContext(ctx),
		scan.WithPrunedCounts(true),
		scan.WithExtraExcludes(e.cfg.ExtraExcludes),
	}
	if e.cfg.IncludeGit {
		opts = append(opts, scan.WithDirExclusions(withoutName(exclude.DefaultDirNames, ".git")))
	}
	if modeFilter {
		// Env and extension modes select on their own terms; neither the
		// static file patterns nor the ignore oracle apply.
		opts = append(opts, scan.WithRawMode(true))
	} else {
		opts = append(opts,
			scan.WithFilePatterns(exclude.DefaultFilePatterns),
			scan.WithPreservePatterns(exclude.DefaultPreservePatterns),
		)
		if e.cfg.RawMode {
			// Raw skips the oracle but keeps the static exclusions and
			// preserve overrides.
			opts = append(opts, scan.WithRawMode(true))
		}
	}

	result, err := scan.Scan(repoPath, opts...)
	if err != nil {
		return nil, nil, err
	}
	if result.Partial {
		e.wasInterrupted = true
		e.interruptedReason = result.PartialReason
	}

	preserved := make(map[string]struct{}, len(result.PreservedFiles))
	for _, rel := range result.PreservedFiles {
		preserved[rel] = struct{}{}
	}

	var files []fileEntry
	for _, rel := range result.Files {
		fullPath := filepath.Join(repoPath, rel)
		info, err := os.Lstat(fullPath)
		if err != nil {
			continue
		}
		if info.Mode()&os.ModeSymlink != 0 {
			e.symlinksSkipped++
			continue
		}
		size := info.Size()

		if e.cfg.MaxSize > 0 && size > e.cfg.MaxSize {
			e.largeFilesSkipped++
			if e.cfg.Verbose {
				e.printf(0, "      Skipping large file (%.1f MB): %s",
					float64(size)/(1024*1024), rel)
			}
			continue
		}

		base := filepath.Base(rel)
		if e.cfg.EnvOnly {
			if !matchesAny(envPatterns, base) {
				continue
			}
		} else if len(e.cfg.ExtFilter) > 0 {
			ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(base)), ".")
			if !containsString(e.cfg.ExtFilter, ext) {
				continue
			}
		}

		if _, ok := preserved[rel]; ok {
			e.preservedFiles = append(e.preservedFiles, repoName+"/"+rel)
		}

		files = append(files, fileEntry{rel: rel, size: size})

		ext := strings.ToLower(filepath.Ext(base))
		if ext == "" {
			ext = "(no ext)"
		}
		s := e.extensionStats[ext]
		if s == nil {
			s = &extStat{}
			e.extensionStats[ext] = s
		}
		s.count++
		s.bytes += size
	}
	return files, result.PrunedByName, nil
}

// reportSkipped prints the heaviest pruned directories for one repo.
func (e *Engine) reportSkipped(skipped map[string]int) {
	if len(skipped) == 0 || e.cfg.EnvOnly || len(e.cfg.ExtFilter) > 0 {
		return
	}
	type nameCount struct {
		name  string
		count int
	}
	parts := make([]nameCount, 0, len(skipped))
	for name, count := range skipped {
		parts = append(parts, nameCount{name, count})
	}
	sort.Slice(parts, func(i, j int) bool {
		if parts[i].count != parts[j].count {
			return parts[i].count > parts[j].count
		}
		return parts[i].name < parts[j].name
	})
	if len(parts) > 5 {
		parts = parts[:5]
	}
	labels := make([]string, len(parts))
	for i, p := range parts {
		labels[i] = fmt.Sprintf("%s/ (%d)", p.name, p.count)
	}
	e.printf(0, "      → Skipping: %s", e.style(strings.Join(labels, ", "), color.FgHiBlack))
}

func (e *Engine) announce(singleRepo bool) {
	mode := ""
	switch {
	case e.cfg.EnvOnly:
		mode = " (env files only)"
	case len(e.cfg.ExtFilter) > 0:
		mode = fmt.Sprintf(" (*.%s only)", strings.Join(e.cfg.ExtFilter, ", *."))
	case e.cfg.RawMode:
		mode = " (raw mode)"
	}
	if singleRepo {
		e.printf(0, "Copying repository%s", mode)
	} else {
		e.printf(0, "Detected %s repositories%s",
			e.style(fmt.Sprintf("%d", len(e.reposFound)), color.FgCyan), mode)
	}
	e.printf(0, "")
}

func isRepoRoot(path string) bool {
	info, err := os.Stat(filepath.Join(path, ".git"))
	return err == nil && info.IsDir()
}

func matchesAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func withoutName(names []string, drop string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != drop {
			out = append(out, n)
		}
	}
	return out
}
