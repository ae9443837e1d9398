// Package scan implements the shared two-phase repository scanner: eager
// structural pruning of known-heavy directories during the walk, followed
// by precise ignore-rule filtering through an oracle (git check-ignore
// when available, local pattern matching otherwise). Every tool in this
// repository consumes a scan Result instead of walking the tree itself.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bethropolis/repokit/internal/exclude"
	"github.com/bethropolis/repokit/internal/gitutil"
	"github.com/bethropolis/repokit/internal/pattern"
)

// Scan walks root and returns the kept files (and directories, when
// requested) after pruning, ignore filtering and preserve overrides.
//
// The result is deterministic for a fixed filesystem state, fixed options
// and fixed ignore-rule content. Cancellation through the context stops
// the walk at the next directory boundary and yields a Result marked
// partial; only an invalid root fails the call.
func Scan(root string, opts ...Option) (*Result, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	log := options.Logger

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidRoot, root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidRoot, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %q is not a directory", ErrInvalidRoot, root)
	}

	set := buildExclusionSet(options)
	result := &Result{Root: absRoot}
	if options.CountPruned {
		result.PrunedByName = make(map[string]int)
	}

	pruning := !options.IncludeEverything
	useFilePatterns := set.HasFilePatterns() && !options.IncludeEverything
	useOracle := !options.RawMode && !options.IncludeEverything

	var (
		files    []string // survived phase 1 and the static file patterns
		dirs     []string
		excluded []string // dropped by static file patterns; preserve may resurrect
	)

	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn("scan: walk error at %q: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		depth := strings.Count(rel, "/") + 1

		if d.IsDir() {
			// Directory boundary: the cancellation checkpoint.
			select {
			case <-options.Context.Done():
				result.Partial = true
				result.PartialReason = fmt.Sprintf("walk interrupted: %v", options.Context.Err())
				log.Warn("scan: %s", result.PartialReason)
				return filepath.SkipAll
			default:
			}

			if pruning && set.ShouldPrune(d.Name()) {
				result.PrunedDirs++
				if options.CountPruned {
					result.PrunedByName[d.Name()] += exclude.CountFiles(path)
				}
				log.Debug("scan: pruned %q", rel)
				return filepath.SkipDir
			}
			if options.MaxDepth >= 0 && depth > options.MaxDepth {
				return filepath.SkipDir
			}
			if options.IncludeDirs {
				dirs = append(dirs, rel)
			}
			if options.MaxDepth >= 0 && depth == options.MaxDepth {
				return filepath.SkipDir
			}
			return nil
		}

		if useFilePatterns && set.ExcludesFile(d.Name()) {
			excluded = append(excluded, rel)
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if walkErr != nil {
		// WalkDir only surfaces errors the callback returned, and the
		// callback swallows everything except the skip sentinels.
		log.Warn("scan: walk finished with error: %v", walkErr)
	}

	var ignored map[string]struct{}
	if useOracle && !result.Partial {
		ignored = consultOracle(absRoot, files, dirs, &options, result)
	}

	// Preserve overrides run last, against the surviving candidate set
	// only. A pruned subtree was never collected and stays gone.
	for _, rel := range excluded {
		if set.Preserves(filepath.Base(rel)) {
			files = append(files, rel)
			result.PreservedFiles = append(result.PreservedFiles, rel)
		} else {
			result.Ignored++
		}
	}

	kept := files[:0]
	for _, rel := range files {
		if _, isIgnored := ignored[rel]; isIgnored {
			if set.Preserves(filepath.Base(rel)) {
				result.PreservedFiles = append(result.PreservedFiles, rel)
			} else {
				result.Ignored++
				continue
			}
		}
		kept = append(kept, rel)
	}
	result.Files = kept

	if options.IncludeDirs {
		keptDirs := dirs[:0]
		for _, rel := range dirs {
			if _, isIgnored := ignored[rel]; isIgnored {
				result.Ignored++
				continue
			}
			keptDirs = append(keptDirs, rel)
		}
		result.Dirs = keptDirs
	}

	sortPaths(result.Files)
	sortPaths(result.Dirs)
	sortPaths(result.PreservedFiles)
	return result, nil
}

// buildExclusionSet merges the default static exclusions with the caller's
// extra patterns. A trailing slash marks a directory-name exclusion.
func buildExclusionSet(options Options) *exclude.Set {
	dirNames := exclude.DefaultDirNames
	if options.DirExclusions != nil {
		dirNames = options.DirExclusions
	}
	filePatterns := options.FilePatterns
	if len(options.ExtraExcludes) > 0 {
		dirNames = append([]string(nil), dirNames...)
		filePatterns = append([]string(nil), filePatterns...)
		for _, raw := range options.ExtraExcludes {
			p := strings.TrimSpace(raw)
			if p == "" {
				continue
			}
			if strings.HasSuffix(p, "/") {
				dirNames = append(dirNames, strings.TrimSuffix(p, "/"))
			} else {
				filePatterns = append(filePatterns, p)
			}
		}
	}
	return exclude.NewSet(dirNames, filePatterns, options.PreservePatterns)
}

// consultOracle selects the ignore strategy and returns the ignored subset
// of the collected candidates. Oracle failure downgrades to the local
// pattern strategy with a single warning; it never fails the scan.
func consultOracle(absRoot string, files, dirs []string, options *Options, result *Result) map[string]struct{} {
	log := options.Logger

	dirCandidates := make([]gitutil.Candidate, 0, len(dirs))
	for _, rel := range dirs {
		dirCandidates = append(dirCandidates, gitutil.Candidate{RelPath: rel, IsDir: true})
	}
	candidates := make([]gitutil.Candidate, 0, len(files)+len(dirs))
	for _, rel := range files {
		candidates = append(candidates, gitutil.Candidate{RelPath: rel})
	}
	candidates = append(candidates, dirCandidates...)

	oracle := options.Oracle
	var dirOracle gitutil.Oracle
	if oracle == nil {
		if gitutil.IsGitRepo(absRoot) {
			gitOpts := []gitutil.GitOption{gitutil.WithLogger(log)}
			if options.BatchSize > 0 {
				gitOpts = append(gitOpts, gitutil.WithBatchSize(options.BatchSize))
			}
			if options.OracleTimeout > 0 {
				gitOpts = append(gitOpts, gitutil.WithTimeout(options.OracleTimeout))
			}
			oracle = gitutil.NewGitOracle(absRoot, gitOpts...)
			// check-ignore only answers for files, so directory candidates
			// get a local pattern pass alongside it.
			if len(dirCandidates) > 0 {
				dirOracle = fallbackOracle(absRoot, options)
			}
		} else {
			oracle = fallbackOracle(absRoot, options)
		}
	}

	ignored, err := oracle.FilterIgnored(options.Context, candidates)
	if err == nil {
		log.Debug("scan: oracle %q reported %d ignored of %d candidates",
			oracle.Name(), len(ignored), len(candidates))
		if dirOracle != nil {
			mergeDirIgnores(dirOracle, dirCandidates, ignored, options, result)
		}
		return ignored
	}
	if options.Context.Err() != nil {
		result.Partial = true
		result.PartialReason = fmt.Sprintf("ignore filtering interrupted: %v", options.Context.Err())
		return ignored
	}

	log.Warn("scan: oracle %q failed (%v); falling back to pattern matching", oracle.Name(), err)
	fallback := fallbackOracle(absRoot, options)
	ignored, err = fallback.FilterIgnored(options.Context, candidates)
	if err != nil && options.Context.Err() != nil {
		result.Partial = true
		result.PartialReason = fmt.Sprintf("ignore filtering interrupted: %v", options.Context.Err())
	}
	return ignored
}

// mergeDirIgnores folds the pattern strategy's answers for directory
// candidates into the ignored set built by the file-only git strategy.
func mergeDirIgnores(dirOracle gitutil.Oracle, dirCandidates []gitutil.Candidate, ignored map[string]struct{}, options *Options, result *Result) {
	dirIgnored, err := dirOracle.FilterIgnored(options.Context, dirCandidates)
	for rel := range dirIgnored {
		ignored[rel] = struct{}{}
	}
	if err != nil && options.Context.Err() != nil {
		result.Partial = true
		result.PartialReason = fmt.Sprintf("ignore filtering interrupted: %v", options.Context.Err())
	}
}

// fallbackOracle compiles the root ignore file into the local pattern
// strategy.
func fallbackOracle(absRoot string, options *Options) gitutil.Oracle {
	records, err := pattern.LoadFile(filepath.Join(absRoot, ".gitignore"), options.Logger)
	if err != nil {
		options.Logger.Warn("scan: cannot read ignore file: %v", err)
	}
	return gitutil.NewPatternOracle(records)
}
