// Package tree renders the kept portion of a repository as an ASCII tree
// or a flat path list.
package tree

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/bethropolis/repokit/internal/scan"
	"github.com/bethropolis/repokit/internal/utils"
)

// Options configures a tree build.
type Options struct {
	RawMode  bool
	MaxDepth int
	UseColor bool
	Logger   utils.Logger
	Context  context.Context
}

// Tree holds the scanned view of a repository, ready for rendering.
type Tree struct {
	root     string
	useColor bool
	files    []string
	dirs     map[string]struct{}
}

// Build scans root and returns a renderable tree. The scan requests
// directory visibility so nesting can be reconstructed.
func Build(root string, opts Options) (*Tree, error) {
	if opts.Logger == nil {
		opts.Logger = utils.NoopLogger{}
	}
	if opts.MaxDepth == 0 {
		opts.MaxDepth = -1
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	result, err := scan.Scan(root,
		scan.WithLogger(opts.Logger),
		scan.WithContext(opts.Context),
		scan.WithDirs(true),
		scan.WithRawMode(opts.RawMode),
		scan.WithMaxDepth(opts.MaxDepth),
	)
	if err != nil {
		return nil, err
	}
	if result.Partial {
		opts.Logger.Warn("tree: rendering a partial scan (%s)", result.PartialReason)
	}

	t := &Tree{
		root:     result.Root,
		useColor: opts.UseColor,
		files:    result.Files,
		dirs:     make(map[string]struct{}, len(result.Dirs)),
	}
	for _, d := range result.Dirs {
		t.dirs[d] = struct{}{}
	}

	// The root ignore file stays visible when present, even if a rule
	// ignores it; hiding the file that explains the rest of the output
	// helps nobody.
	gitignore := filepath.Join(result.Root, ".gitignore")
	if info, statErr := os.Stat(gitignore); statErr == nil && !info.IsDir() {
		if !contains(t.files, ".gitignore") {
			t.files = append(t.files, ".gitignore")
		}
	}
	return t, nil
}

// node is one entry in the reconstructed hierarchy.
type node struct {
	children map[string]*node
}

func newNode() *node {
	return &node{children: make(map[string]*node)}
}

func (n *node) insert(parts []string) {
	if len(parts) == 0 {
		return
	}
	child, ok := n.children[parts[0]]
	if !ok {
		child = newNode()
		n.children[parts[0]] = child
	}
	child.insert(parts[1:])
}

// ASCII renders the tree with box-drawing connectors. The first line is
// the root directory name.
func (t *Tree) ASCII() []string {
	rootNode := newNode()
	for d := range t.dirs {
		rootNode.insert(strings.Split(d, "/"))
	}
	for _, f := range t.files {
		rootNode.insert(strings.Split(f, "/"))
	}

	header := t.style(filepath.Base(t.root)+"/", color.New(color.FgBlue, color.Bold))
	return append([]string{header}, t.render(rootNode, "", "")...)
}

func (t *Tree) render(n *node, prefix, parent string) []string {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	// Directories with children sort before leaves, then case-insensitive
	// by name.
	sort.Slice(names, func(i, j int) bool {
		iLeaf := len(n.children[names[i]].children) == 0
		jLeaf := len(n.children[names[j]].children) == 0
		if iLeaf != jLeaf {
			return !iLeaf
		}
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})

	var lines []string
	for idx, name := range names {
		child := n.children[name]
		last := idx == len(names)-1
		connector := "├── "
		childPrefix := "│   "
		if last {
			connector = "└── "
			childPrefix = "    "
		}

		rel := name
		if parent != "" {
			rel = parent + "/" + name
		}
		_, isDir := t.dirs[rel]
		isDir = isDir || len(child.children) > 0

		label := name
		switch {
		case isDir:
			label = t.style(name+"/", color.New(color.FgBlue))
		case name == ".gitignore":
			label = t.style(name, color.New(color.FgYellow))
		default:
			label = t.style(name, color.New(color.FgGreen))
		}
		lines = append(lines, prefix+connector+label)

		if len(child.children) > 0 {
			lines = append(lines, t.render(child, prefix+childPrefix, rel)...)
		}
	}
	return lines
}

// Flat returns the sorted path list, directories carrying a trailing
// slash.
func (t *Tree) Flat() []string {
	out := make([]string, 0, len(t.files)+len(t.dirs))
	for d := range t.dirs {
		out = append(out, d+"/")
	}
	out = append(out, t.files...)
	sort.Strings(out)
	return out
}

func (t *Tree) style(s string, c *color.Color) string {
	if !t.useColor {
		return s
	}
	return c.Sprint(s)
}

// ListRepos returns the names of git repositories directly under dir.
func ListRepos(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var repos []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if info, err := os.Stat(filepath.Join(dir, e.Name(), ".git")); err == nil && info.IsDir() {
			repos = append(repos, e.Name())
		}
	}
	sort.Strings(repos)
	return repos, nil
}

func contains(paths []string, want string) bool {
	for _, p := range paths {
		if p == want {
			return true
		}
	}
	return false
}
