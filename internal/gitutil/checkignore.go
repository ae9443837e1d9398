package gitutil

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/bethropolis/repokit/internal/utils"
)

// DefaultBatchSize caps how many paths are fed to a single git
// check-ignore invocation.
const DefaultBatchSize = 5000

// DefaultTimeout bounds one check-ignore invocation.
const DefaultTimeout = 30 * time.Second

// GitOracle is the precise strategy: it batches candidate paths through
// `git check-ignore --stdin -z` in the repository root, so the answer
// includes every rule source git itself consults (nested ignore files,
// global and system-level rules).
type GitOracle struct {
	root      string
	batchSize int
	timeout   time.Duration
	log       utils.Logger
}

// GitOption configures a GitOracle.
type GitOption func(*GitOracle)

// WithBatchSize overrides the per-invocation path cap.
func WithBatchSize(n int) GitOption {
	return func(o *GitOracle) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithTimeout overrides the per-invocation timeout. Zero disables it.
func WithTimeout(d time.Duration) GitOption {
	return func(o *GitOracle) {
		o.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(log utils.Logger) GitOption {
	return func(o *GitOracle) {
		if log != nil {
			o.log = log
		}
	}
}

// NewGitOracle creates a check-ignore backed oracle rooted at the
// repository root.
func NewGitOracle(root string, opts ...GitOption) *GitOracle {
	o := &GitOracle{
		root:      root,
		batchSize: DefaultBatchSize,
		timeout:   DefaultTimeout,
		log:       utils.NoopLogger{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *GitOracle) Name() string { return "git check-ignore" }

// FilterIgnored queries git for the ignored subset. Directory candidates
// are skipped: check-ignore's handling of trailing-slash paths is not
// reliable, so callers run directory candidates through a PatternOracle
// and merge the answers.
// Any invocation failure is returned so the caller can switch strategies;
// it never partially fails a batch.
func (o *GitOracle) FilterIgnored(ctx context.Context, candidates []Candidate) (map[string]struct{}, error) {
	ignored := make(map[string]struct{})

	var paths []string
	for _, c := range candidates {
		if c.IsDir {
			continue
		}
		if safePath(c.RelPath) {
			paths = append(paths, c.RelPath)
		}
	}

	for start := 0; start < len(paths); start += o.batchSize {
		select {
		case <-ctx.Done():
			return ignored, ctx.Err()
		default:
		}

		end := start + o.batchSize
		if end > len(paths) {
			end = len(paths)
		}
		if err := o.runBatch(ctx, paths[start:end], ignored); err != nil {
			return ignored, err
		}
	}
	return ignored, nil
}

// runBatch issues one check-ignore invocation over the null-delimited
// protocol and merges the reported paths into out.
func (o *GitOracle) runBatch(ctx context.Context, batch []string, out map[string]struct{}) error {
	if len(batch) == 0 {
		return nil
	}

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "git", "check-ignore", "--stdin", "-z")
	cmd.Dir = o.root
	cmd.Stdin = strings.NewReader(strings.Join(batch, "\x00"))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("git check-ignore: %w", ctxErr)
	}
	if err != nil {
		// Exit code 1 means no path in the batch is ignored.
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			return nil
		}
		return fmt.Errorf("git check-ignore: %w (%s)", err, strings.TrimSpace(stderr.String()))
	}

	for _, p := range bytes.Split(stdout.Bytes(), []byte{0}) {
		if len(p) > 0 {
			out[string(p)] = struct{}{}
		}
	}
	o.log.Debug("gitutil: check-ignore batch of %d paths, %d ignored so far", len(batch), len(out))
	return nil
}

// safePath rejects paths that cannot travel the stdin protocol: NUL and
// control characters other than tab.
func safePath(p string) bool {
	for _, r := range p {
		if r == 0 || (r < 0x20 && r != '\t') {
			return false
		}
	}
	return true
}
