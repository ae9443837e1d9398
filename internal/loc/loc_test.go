package loc

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAnalyzeFileGo(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sample.go", strings.Join([]string{
		"package main",
		"",
		"// a line comment",
		"/* a block",
		"   spanning lines */",
		"func main() {}",
	}, "\n"))

	blank, comment, code, err := analyzeFile(path, Languages[".go"])
	require.NoError(t, err)
	assert.Equal(t, 1, blank)
	assert.Equal(t, 3, comment)
	assert.Equal(t, 2, code)
}

func TestAnalyzeFilePython(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sample.py", strings.Join([]string{
		`"""Module docstring`,
		`over two lines."""`,
		"# comment",
		"x = 1",
		"",
		`"""one-line docstring"""`,
		"y = 2",
	}, "\n"))

	blank, comment, code, err := analyzeFile(path, Languages[".py"])
	require.NoError(t, err)
	assert.Equal(t, 1, blank)
	assert.Equal(t, 4, comment)
	assert.Equal(t, 2, code)
}

func TestAnalyzeFileNoCommentSyntax(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "data.json", "{\n  \"key\": 1\n}\n")

	blank, comment, code, err := analyzeFile(path, Languages[".json"])
	require.NoError(t, err)
	assert.Equal(t, 0, blank)
	assert.Equal(t, 0, comment)
	assert.Equal(t, 3, code)
}

func TestCount(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n\nfunc main() {}\n")
	writeFile(t, root, "helper.go", "package main\n")
	writeFile(t, root, "script.py", "x = 1\n")
	writeFile(t, root, "unknown.xyz", "not counted\n")
	writeFile(t, root, "node_modules/dep.js", "ignored\n")

	stats, err := NewEngine(root, false, nil).Count()
	require.NoError(t, err)

	require.Contains(t, stats, "Go")
	assert.Equal(t, 2, stats["Go"].Files)
	assert.Equal(t, 3, stats["Go"].Code)
	assert.Equal(t, 1, stats["Go"].Blank)

	require.Contains(t, stats, "Python")
	assert.Equal(t, 1, stats["Python"].Files)

	assert.NotContains(t, stats, "JavaScript", "pruned directories are never counted")
	assert.Len(t, stats, 2)
}

func TestCountHonorsIgnoreRules(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "generated.go\n")
	writeFile(t, root, "main.go", "package main\n")
	writeFile(t, root, "generated.go", "package main\n\nvar blob = 1\n")

	stats, err := NewEngine(root, false, nil).Count()
	require.NoError(t, err)
	assert.Equal(t, 1, stats["Go"].Files)

	// Raw mode counts the generated file too.
	stats, err = NewEngine(root, true, nil).Count()
	require.NoError(t, err)
	assert.Equal(t, 2, stats["Go"].Files)
}

func TestReport(t *testing.T) {
	stats := map[string]*Stats{
		"Go":     {Files: 2, Blank: 1, Comment: 3, Code: 40},
		"Python": {Files: 1, Blank: 2, Comment: 1, Code: 90},
	}

	var buf bytes.Buffer
	Report(&buf, stats, false)
	out := buf.String()

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Language")
	assert.Contains(t, lines[1], "Python", "languages sort by code lines descending")
	assert.Contains(t, lines[2], "Go")
	assert.Contains(t, lines[3], "Total")
	assert.Contains(t, lines[3], "130")
}

func TestReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	Report(&buf, map[string]*Stats{}, false)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Total")
}

func TestReportStats(t *testing.T) {
	stats := map[string]*Stats{
		"Go":     {Files: 3, Blank: 10, Comment: 10, Code: 80},
		"Python": {Files: 1, Blank: 0, Comment: 0, Code: 100},
	}

	var buf bytes.Buffer
	ReportStats(&buf, stats, false)
	out := buf.String()

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "Python")
	assert.Contains(t, lines[1], "100.0%", "all of Python's lines are code")
	assert.Contains(t, lines[1], "25.0%", "one of four files")
	assert.Contains(t, lines[2], "80.0%", "Go's code share of its own lines")
	assert.Contains(t, lines[3], "Total")
	assert.Contains(t, lines[3], "90.0%", "global code share")
}

func TestReportStatsEmpty(t *testing.T) {
	var buf bytes.Buffer
	ReportStats(&buf, map[string]*Stats{}, false)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "0.0%", "empty input must not divide by zero")
}

func TestWriteJSON(t *testing.T) {
	stats := map[string]*Stats{
		"Go": {Files: 2, Blank: 1, Comment: 3, Code: 40},
	}

	var buf bytes.Buffer
	meta := Meta{Version: "1.2.3", Elapsed: 1500 * time.Millisecond, Interrupted: true}
	require.NoError(t, WriteJSON(&buf, stats, meta))

	var report struct {
		Metadata struct {
			Version        string  `json:"version"`
			ElapsedSeconds float64 `json:"elapsed_seconds"`
			Interrupted    bool    `json:"interrupted"`
			Timestamp      string  `json:"timestamp"`
		} `json:"metadata"`
		Totals struct {
			Files int `json:"files"`
			Lines int `json:"lines"`
			Code  int `json:"code"`
		} `json:"totals"`
		Languages map[string]struct {
			Files int `json:"files"`
			Code  int `json:"code"`
		} `json:"languages"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))

	assert.Equal(t, "1.2.3", report.Metadata.Version)
	assert.InDelta(t, 1.5, report.Metadata.ElapsedSeconds, 0.001)
	assert.True(t, report.Metadata.Interrupted)
	assert.NotEmpty(t, report.Metadata.Timestamp)
	assert.Equal(t, 2, report.Totals.Files)
	assert.Equal(t, 44, report.Totals.Lines)
	assert.Equal(t, 40, report.Totals.Code)
	require.Contains(t, report.Languages, "Go")
	assert.Equal(t, 40, report.Languages["Go"].Code)
}

func TestTotals(t *testing.T) {
	total := Totals(map[string]*Stats{
		"Go":     {Files: 2, Blank: 1, Comment: 3, Code: 40},
		"Python": {Files: 1, Blank: 2, Comment: 1, Code: 90},
	})
	assert.Equal(t, Stats{Files: 3, Blank: 3, Comment: 4, Code: 130}, total)
}
