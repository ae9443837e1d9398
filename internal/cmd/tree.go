package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bethropolis/repokit/internal/tree"
)

// NewTreeCommand creates the tree subcommand
func NewTreeCommand(noColor, verbose *bool) *cobra.Command {
	var (
		flat     bool
		raw      bool
		depth    int
		out      string
		autoOut  bool
		listMode bool
	)

	cmd := &cobra.Command{
		Use:   "tree [directory]",
		Short: "Render a directory tree of the non-ignored files",
		Long: `Render a plain-text folder/file tree for a directory.

Heavy directories are pruned structurally and the remaining entries are
filtered through the repository's ignore rules. Use --raw to include
gitignored files (pruning still applies), --flat for a sorted path list
instead of a tree.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) == 1 {
				target = args[0]
			}

			if listMode {
				return listRepos(cmd, *noColor)
			}

			writingToFile := out != "" || autoOut
			colors := useColor(*noColor, writingToFile)

			t, err := tree.Build(target, tree.Options{
				RawMode:  raw,
				MaxDepth: depth,
				UseColor: colors,
				Logger:   newLogger(*verbose),
				Context:  cmd.Context(),
			})
			if err != nil {
				return err
			}

			lines := t.ASCII()
			if flat {
				lines = t.Flat()
			}

			if writingToFile {
				name := out
				if name == "" {
					name = autoOutName(target, flat, raw)
				}
				if err := os.WriteFile(name, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
					return fmt.Errorf("writing %q: %w", name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Output written to: %s\n", name)
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(lines, "\n"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&flat, "flat", false, "Output a flat path list instead of a tree")
	cmd.Flags().BoolVar(&raw, "raw", false, "Include gitignored files (structural pruning still applies)")
	cmd.Flags().IntVar(&depth, "depth", -1, "Max recursion depth (-1 for unlimited)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write output to the given file")
	cmd.Flags().BoolVar(&autoOut, "auto-out", false, "Write output to an auto-named file")
	cmd.Flags().BoolVar(&listMode, "list", false, "List git repositories in the current directory")

	return cmd
}

// autoOutName derives the output filename from the target directory and
// the selected modes.
func autoOutName(target string, flat, raw bool) string {
	abs, err := filepath.Abs(target)
	if err != nil {
		abs = target
	}
	suffix := "tree"
	if flat {
		suffix = "flat_tree"
	}
	if raw {
		suffix += "_raw"
	}
	return fmt.Sprintf("%s_%s.txt", filepath.Base(abs), suffix)
}

func listRepos(cmd *cobra.Command, noColor bool) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	repos, err := tree.ListRepos(cwd)
	if err != nil {
		return err
	}
	if len(repos) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No git repos found.")
		return nil
	}
	blue := color.New(color.FgBlue)
	for _, r := range repos {
		if useColor(noColor, false) {
			fmt.Fprintln(cmd.OutOrStdout(), blue.Sprint(r))
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), r)
		}
	}
	return nil
}
