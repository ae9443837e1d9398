package scan

import (
	"errors"
	"sort"
	"strings"
)

// ErrInvalidRoot is returned when the scan root does not exist or is not a
// directory. It is the only error that fails a scan outright.
var ErrInvalidRoot = errors.New("invalid scan root")

// Result is the immutable outcome of one scan invocation. It is created
// fresh per call and never cached across invocations.
type Result struct {
	// Root is the resolved absolute scan root.
	Root string
	// Files are the kept files, relative slash paths, sorted by segments.
	Files []string
	// Dirs are the kept directories, populated only when requested.
	Dirs []string

	// PrunedDirs counts directories skipped by eager pruning.
	PrunedDirs int
	// PrunedByName maps pruned directory basename to the number of files
	// beneath it; populated only when pruned counts were requested.
	PrunedByName map[string]int
	// Ignored counts candidates removed by the ignore oracle or the
	// static file patterns.
	Ignored int
	// PreservedFiles are paths the preserve override resurrected after an
	// exclusion or ignore decision had dropped them.
	PreservedFiles []string

	// Partial marks a scan stopped early by cancellation. The contents
	// cover everything walked up to the stop point.
	Partial bool
	// PartialReason says why a partial result was returned.
	PartialReason string
}

// Preserved returns the preserve-override count.
func (r *Result) Preserved() int {
	return len(r.PreservedFiles)
}

// sortPaths orders paths segment by segment, so the ordering is stable
// under re-scans and independent of separator byte values.
func sortPaths(paths []string) {
	sort.Slice(paths, func(i, j int) bool {
		return comparePaths(paths[i], paths[j]) < 0
	})
}

func comparePaths(a, b string) int {
	as := strings.Split(a, "/")
	bs := strings.Split(b, "/")
	for i := 0; i < len(as) && i < len(bs); i++ {
		if as[i] != bs[i] {
			if as[i] < bs[i] {
				return -1
			}
			return 1
		}
	}
	return len(as) - len(bs)
}
