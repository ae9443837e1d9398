package scan

import (
	"context"
	"time"

	"github.com/bethropolis/repokit/internal/gitutil"
	"github.com/bethropolis/repokit/internal/utils"
)

// Options configures a single scan invocation.
type Options struct {
	Logger  utils.Logger
	Context context.Context

	// RawMode skips the ignore oracle but keeps eager directory pruning
	// and any configured static file patterns.
	RawMode bool
	// IncludeEverything additionally disables eager pruning. Implies
	// RawMode behavior for the oracle.
	IncludeEverything bool
	// IncludeDirs records surviving directories in the result, for
	// consumers that need nesting structure.
	IncludeDirs bool
	// MaxDepth bounds the walk; -1 means unlimited. Entries deeper than
	// MaxDepth segments are not visited.
	MaxDepth int

	// DirExclusions replaces the default eagerly-pruned directory names.
	// Nil keeps the defaults.
	DirExclusions []string
	// FilePatterns are static file-basename globs dropped locally without
	// an oracle query. Empty means no static file exclusions; only
	// consumers that want them (the duplicator) pass any.
	FilePatterns []string
	// ExtraExcludes are additional exclusion patterns. A trailing slash
	// marks a directory-name exclusion, anything else a file pattern.
	ExtraExcludes []string
	// PreservePatterns force-include matching file basenames even when an
	// exclusion or ignore rule dropped them. Empty means no overrides.
	PreservePatterns []string

	// BatchSize and OracleTimeout tune the git-backed oracle.
	BatchSize     int
	OracleTimeout time.Duration
	// Oracle overrides strategy selection; used by tests.
	Oracle gitutil.Oracle

	// CountPruned walks pruned subtrees to count the files inside them.
	// This costs O(subtree size) per pruned directory and is therefore
	// opt-in; the default scan never descends into a pruned directory.
	CountPruned bool
}

func defaultOptions() Options {
	return Options{
		Logger:   utils.NoopLogger{},
		Context:  context.Background(),
		MaxDepth: -1,
	}
}

// Option is a functional option for configuring a scan.
type Option func(*Options)

// WithLogger sets a custom logger for the scan.
func WithLogger(log utils.Logger) Option {
	return func(o *Options) {
		if log != nil {
			o.Logger = log
		}
	}
}

// WithContext sets the context used for cancellation. The walk observes it
// at every directory boundary and between oracle batches.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Context = ctx
		}
	}
}

// WithRawMode disables ignore-rule filtering while keeping structural
// pruning.
func WithRawMode(raw bool) Option {
	return func(o *Options) {
		o.RawMode = raw
	}
}

// WithIncludeEverything disables structural pruning as well.
func WithIncludeEverything(all bool) Option {
	return func(o *Options) {
		o.IncludeEverything = all
	}
}

// WithDirs includes surviving directories in the result.
func WithDirs(dirs bool) Option {
	return func(o *Options) {
		o.IncludeDirs = dirs
	}
}

// WithMaxDepth bounds the walk depth; negative means unlimited.
func WithMaxDepth(depth int) Option {
	return func(o *Options) {
		o.MaxDepth = depth
	}
}

// WithDirExclusions replaces the default pruned directory names.
func WithDirExclusions(names []string) Option {
	return func(o *Options) {
		o.DirExclusions = names
	}
}

// WithFilePatterns sets the static file-basename exclusion globs.
func WithFilePatterns(patterns []string) Option {
	return func(o *Options) {
		o.FilePatterns = patterns
	}
}

// WithExtraExcludes adds exclusion patterns on top of the defaults.
func WithExtraExcludes(patterns []string) Option {
	return func(o *Options) {
		o.ExtraExcludes = patterns
	}
}

// WithPreservePatterns sets the always-win override patterns.
func WithPreservePatterns(patterns []string) Option {
	return func(o *Options) {
		o.PreservePatterns = patterns
	}
}

// WithBatchSize caps paths per oracle query.
func WithBatchSize(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.BatchSize = n
		}
	}
}

// WithOracleTimeout bounds a single oracle query; on expiry the scan falls
// back to local pattern matching instead of hanging.
func WithOracleTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.OracleTimeout = d
	}
}

// WithOracle forces a specific oracle strategy.
func WithOracle(oracle gitutil.Oracle) Option {
	return func(o *Options) {
		o.Oracle = oracle
	}
}

// WithPrunedCounts enables the expensive per-pruned-directory file counts.
func WithPrunedCounts(count bool) Option {
	return func(o *Options) {
		o.CountPruned = count
	}
}
