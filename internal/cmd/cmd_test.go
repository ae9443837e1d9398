package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Nil(t, splitList("  "))
	assert.Equal(t, []string{"a", "b"}, splitList("a,b"))
	assert.Equal(t, []string{"a", "b"}, splitList(" a , b ,"))
}

func TestNormalizeExts(t *testing.T) {
	assert.Equal(t, []string{"go", "py", "md"}, normalizeExts([]string{".go", "PY", "md"}))
}

func TestAutoOutName(t *testing.T) {
	assert.Equal(t, "proj_tree.txt", autoOutName("/tmp/proj", false, false))
	assert.Equal(t, "proj_flat_tree.txt", autoOutName("/tmp/proj", true, false))
	assert.Equal(t, "proj_tree_raw.txt", autoOutName("/tmp/proj", false, true))
	assert.Equal(t, "proj_flat_tree_raw.txt", autoOutName("/tmp/proj", true, true))
}

func TestUseColor(t *testing.T) {
	assert.False(t, useColor(true, false))
	assert.False(t, useColor(false, true))
	// The remaining branch depends on whether stdout is a terminal, which
	// it is not under go test.
}

func TestTreeCommand(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "main.go"), []byte("package main"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# readme"), 0o644))

	t.Run("tree output", func(t *testing.T) {
		var buf bytes.Buffer
		cmd := NewRootCommand()
		cmd.SetOut(&buf)
		cmd.SetErr(&buf)
		cmd.SetArgs([]string{"tree", "--no-color", root})

		require.NoError(t, cmd.Execute())
		assert.Contains(t, buf.String(), "src/")
		assert.Contains(t, buf.String(), "main.go")
		assert.Contains(t, buf.String(), "README.md")
	})

	t.Run("flat output", func(t *testing.T) {
		var buf bytes.Buffer
		cmd := NewRootCommand()
		cmd.SetOut(&buf)
		cmd.SetErr(&buf)
		cmd.SetArgs([]string{"tree", "--no-color", "--flat", root})

		require.NoError(t, cmd.Execute())
		assert.Contains(t, buf.String(), "src/main.go")
	})

	t.Run("write to file", func(t *testing.T) {
		outFile := filepath.Join(t.TempDir(), "out.txt")
		var buf bytes.Buffer
		cmd := NewRootCommand()
		cmd.SetOut(&buf)
		cmd.SetErr(&buf)
		cmd.SetArgs([]string{"tree", "--no-color", "-o", outFile, root})

		require.NoError(t, cmd.Execute())
		data, err := os.ReadFile(outFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), "main.go")
		assert.Contains(t, buf.String(), "Output written to")
	})

	t.Run("invalid directory", func(t *testing.T) {
		cmd := NewRootCommand()
		cmd.SetOut(new(bytes.Buffer))
		cmd.SetErr(new(bytes.Buffer))
		cmd.SetArgs([]string{"tree", filepath.Join(root, "missing")})

		assert.Error(t, cmd.Execute())
	})
}

func TestLocCommand(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n"), 0o644))

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		cmd := NewRootCommand()
		cmd.SetOut(&buf)
		cmd.SetErr(&buf)
		cmd.SetArgs([]string{"loc", "--no-color", root})

		require.NoError(t, cmd.Execute())
		assert.Contains(t, buf.String(), "Go")
		assert.Contains(t, buf.String(), "Total")
		assert.Contains(t, buf.String(), "Processed 1 files in")
	})

	t.Run("stats", func(t *testing.T) {
		var buf bytes.Buffer
		cmd := NewRootCommand()
		cmd.SetOut(&buf)
		cmd.SetErr(&buf)
		cmd.SetArgs([]string{"loc", "--no-color", "--stats", root})

		require.NoError(t, cmd.Execute())
		assert.Contains(t, buf.String(), "100.0%")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		cmd := NewRootCommand()
		cmd.SetOut(&buf)
		cmd.SetErr(&buf)
		cmd.SetArgs([]string{"loc", "--json", root})

		require.NoError(t, cmd.Execute())
		var report map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
		assert.Contains(t, report, "metadata")
		assert.Contains(t, report, "totals")
		assert.Contains(t, report, "languages")
	})

	t.Run("write to file", func(t *testing.T) {
		outFile := filepath.Join(t.TempDir(), "counts.txt")
		var buf bytes.Buffer
		cmd := NewRootCommand()
		cmd.SetOut(&buf)
		cmd.SetErr(&buf)
		cmd.SetArgs([]string{"loc", "-o", outFile, root})

		require.NoError(t, cmd.Execute())
		data, err := os.ReadFile(outFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), "Total")
		assert.Contains(t, buf.String(), "Output written to")
	})
}

func TestAutoLocOutName(t *testing.T) {
	assert.Equal(t, filepath.Join("/tmp/proj", "proj_loc.txt"), autoLocOutName("/tmp/proj", false))
	assert.Equal(t, filepath.Join("/tmp/proj", "proj_loc.json"), autoLocOutName("/tmp/proj", true))
}

func TestMigCommand(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()
	repo := filepath.Join(src, "proj")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git", "objects"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git", "refs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(repo, ".git", "HEAD"), []byte("ref: refs/heads/main\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(repo, "main.go"), []byte("package main"), 0o644))

	t.Run("copy", func(t *testing.T) {
		var buf bytes.Buffer
		cmd := NewRootCommand()
		cmd.SetOut(&buf)
		cmd.SetErr(&buf)
		cmd.SetArgs([]string{"mig", "--no-color", "-q", repo, dest})

		require.NoError(t, cmd.Execute())
		assert.FileExists(t, filepath.Join(dest, "proj", "main.go"))
	})

	t.Run("bad max-size", func(t *testing.T) {
		cmd := NewRootCommand()
		cmd.SetOut(new(bytes.Buffer))
		cmd.SetErr(new(bytes.Buffer))
		cmd.SetArgs([]string{"mig", "--max-size", "abc", repo, dest})

		assert.Error(t, cmd.Execute())
	})

	t.Run("git-size needs no destination", func(t *testing.T) {
		var buf bytes.Buffer
		cmd := NewRootCommand()
		cmd.SetOut(&buf)
		cmd.SetErr(&buf)
		cmd.SetArgs([]string{"mig", "--no-color", "--git-size", repo})

		require.NoError(t, cmd.Execute())
		assert.Contains(t, buf.String(), "proj/")
	})

	t.Run("missing destination", func(t *testing.T) {
		cmd := NewRootCommand()
		cmd.SetOut(new(bytes.Buffer))
		cmd.SetErr(new(bytes.Buffer))
		cmd.SetArgs([]string{"mig"})

		assert.Error(t, cmd.Execute())
	})

	t.Run("destination inside source", func(t *testing.T) {
		cmd := NewRootCommand()
		cmd.SetOut(new(bytes.Buffer))
		cmd.SetErr(new(bytes.Buffer))
		cmd.SetArgs([]string{"mig", "-q", repo, filepath.Join(repo, "copy")})

		assert.Error(t, cmd.Execute())
	})
}

func TestRootCommandHasSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "tree")
	assert.Contains(t, names, "loc")
	assert.Contains(t, names, "mig")
}
