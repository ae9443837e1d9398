package gitutil

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/repokit/internal/pattern"
)

func TestPatternOracle(t *testing.T) {
	records := pattern.Compile([]string{"*.log", "!important.log", "build/"}, nil)
	oracle := NewPatternOracle(records)
	assert.Equal(t, "pattern", oracle.Name())

	candidates := []Candidate{
		{RelPath: "debug.log"},
		{RelPath: "important.log"},
		{RelPath: "main.go"},
		{RelPath: "build", IsDir: true},
		{RelPath: "build/out.o"},
	}

	ignored, err := oracle.FilterIgnored(context.Background(), candidates)
	require.NoError(t, err)

	assert.Contains(t, ignored, "debug.log")
	assert.Contains(t, ignored, "build")
	assert.Contains(t, ignored, "build/out.o")
	assert.NotContains(t, ignored, "important.log")
	assert.NotContains(t, ignored, "main.go")
}

func TestPatternOracleCancellation(t *testing.T) {
	oracle := NewPatternOracle(pattern.Compile([]string{"*.log"}, nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := oracle.FilterIgnored(ctx, []Candidate{{RelPath: "a.log"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsGitRepo(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, IsGitRepo(dir))
	assert.False(t, IsGitRepo(filepath.Join(dir, "missing")))
}

func TestSafePath(t *testing.T) {
	assert.True(t, safePath("normal/path.go"))
	assert.True(t, safePath("with\ttab.txt"))
	assert.False(t, safePath("nul\x00byte"))
	assert.False(t, safePath("new\nline"))
}

// TestGitOracle exercises the real git binary when available.
func TestGitOracle(t *testing.T) {
	gitBin, err := exec.LookPath("git")
	if err != nil {
		t.Skip("git binary not available")
	}

	root := t.TempDir()
	runGit := func(args ...string) {
		cmd := exec.Command(gitBin, args...)
		cmd.Dir = root
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v: %s", args, out)
	}
	runGit("init", "-q")
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("*.log\n!important.log\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "debug.log"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "important.log"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), nil, 0o644))

	oracle := NewGitOracle(root, WithBatchSize(2))
	candidates := []Candidate{
		{RelPath: "debug.log"},
		{RelPath: "important.log"},
		{RelPath: "main.go"},
		{RelPath: "sub", IsDir: true}, // dirs are skipped, never queried
	}

	ignored, err := oracle.FilterIgnored(context.Background(), candidates)
	require.NoError(t, err)

	assert.Contains(t, ignored, "debug.log")
	assert.NotContains(t, ignored, "important.log")
	assert.NotContains(t, ignored, "main.go")
	assert.NotContains(t, ignored, "sub")
}

func TestGitOracleEmptyBatch(t *testing.T) {
	oracle := NewGitOracle(t.TempDir())
	ignored, err := oracle.FilterIgnored(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, ignored)
}

func TestGitOracleBadRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}

	// A plain directory is not a repository; check-ignore must fail so the
	// caller can switch to the fallback strategy.
	oracle := NewGitOracle(t.TempDir())
	_, err := oracle.FilterIgnored(context.Background(), []Candidate{{RelPath: "a.log"}})
	assert.Error(t, err)
}
