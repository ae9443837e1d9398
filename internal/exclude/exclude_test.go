package exclude

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldPruneDefaults(t *testing.T) {
	s := NewSet(nil, nil, nil)

	for _, name := range []string{
		".git", ".svn", ".hg", ".idea", ".vscode",
		"__pycache__", ".pytest_cache", ".mypy_cache", ".ruff_cache",
		"venv", ".venv", "env", ".tox", ".nox",
		"node_modules", "bower_components", ".next", ".nuxt", ".output", ".cache",
		"dist", "build", "target", "bin", "obj", "out", ".parcel-cache",
		".DS_Store", "Thumbs.db", ".turbo",
	} {
		assert.True(t, s.ShouldPrune(name), "expected %q to be pruned", name)
	}

	assert.False(t, s.ShouldPrune("src"))
	assert.False(t, s.ShouldPrune("internal"))
	assert.False(t, s.ShouldPrune("gitignore"))
}

func TestShouldPruneGlobNames(t *testing.T) {
	s := NewSet(nil, nil, nil)

	assert.True(t, s.ShouldPrune("mypkg.egg-info"))
	assert.False(t, s.ShouldPrune("egg-info"))
}

func TestShouldPruneCaseSensitive(t *testing.T) {
	s := NewSet(nil, nil, nil)

	assert.False(t, s.ShouldPrune("NODE_MODULES"))
	assert.False(t, s.ShouldPrune("Build"))
}

func TestShouldPruneCustomNames(t *testing.T) {
	s := NewSet([]string{"scratch", "tmp-*"}, nil, nil)

	assert.True(t, s.ShouldPrune("scratch"))
	assert.True(t, s.ShouldPrune("tmp-build"))
	assert.False(t, s.ShouldPrune("node_modules"), "custom names replace the defaults")
}

func TestExcludesFile(t *testing.T) {
	t.Run("default patterns", func(t *testing.T) {
		s := NewSet(nil, DefaultFilePatterns, nil)
		assert.True(t, s.ExcludesFile("debug.log"))
		assert.True(t, s.ExcludesFile("cache.pyc"))
		assert.True(t, s.ExcludesFile("session.swp"))
		assert.True(t, s.ExcludesFile("lib.so"))
		assert.False(t, s.ExcludesFile("main.go"))
		assert.False(t, s.ExcludesFile("README.md"))
	})

	t.Run("no patterns never matches", func(t *testing.T) {
		s := NewSet(nil, nil, nil)
		assert.False(t, s.HasFilePatterns())
		assert.False(t, s.ExcludesFile("debug.log"))
	})
}

func TestPreserves(t *testing.T) {
	t.Run("configured", func(t *testing.T) {
		s := NewSet(nil, nil, DefaultPreservePatterns)
		assert.True(t, s.HasPreserve())
		assert.True(t, s.Preserves(".env"))
		assert.True(t, s.Preserves(".env.production"))
		assert.True(t, s.Preserves(".gitignore"))
		assert.False(t, s.Preserves("config.yaml"))
	})

	t.Run("empty never matches", func(t *testing.T) {
		s := NewSet(nil, nil, nil)
		assert.False(t, s.HasPreserve())
		assert.False(t, s.Preserves(".env"))
	})
}

func TestCountFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a", "b"), 0o755))
	for _, f := range []string{"one.txt", "a/two.txt", "a/b/three.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("x"), 0o644))
	}

	assert.Equal(t, 3, CountFiles(dir))
	assert.Equal(t, 0, CountFiles(filepath.Join(dir, "missing")))
}
