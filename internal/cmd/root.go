// Package cmd wires the repokit subcommands together.
package cmd

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/bethropolis/repokit/internal/logger"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for repokit
func NewRootCommand() *cobra.Command {
	var noColor bool
	var verbose bool

	cmd := &cobra.Command{
		Use:   "repokit",
		Short: "Git-aware repository tools: tree, loc, mig",
		Long: `Repokit bundles three tools that share one scan core:

  tree  render a directory tree of the non-ignored files
  loc   count lines of code per language
  mig   copy repositories without dependencies or caches

All three prune heavy directories (node_modules, venv, .git, ...) before
descending and filter the rest through git check-ignore when available,
falling back to local .gitignore matching otherwise.`,
		Version:      Version,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewTreeCommand(&noColor, &verbose))
	cmd.AddCommand(NewLocCommand(&noColor, &verbose))
	cmd.AddCommand(NewMigCommand(&noColor, &verbose))

	return cmd
}

// useColor decides color output: off when asked for, writing to a file,
// or piped.
func useColor(noColor, writingToFile bool) bool {
	if noColor || writingToFile {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// newLogger builds the stderr logger all subcommands share.
func newLogger(verbose bool) *logger.Logger {
	return logger.New(os.Stderr, verbose, isatty.IsTerminal(os.Stderr.Fd()))
}
