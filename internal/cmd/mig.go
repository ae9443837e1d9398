package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bethropolis/repokit/internal/mig"
)

// NewMigCommand creates the mig subcommand
func NewMigCommand(noColor, verbose *bool) *cobra.Command {
	var (
		dryRun       bool
		useZip       bool
		showStats    bool
		statsAll     bool
		excludeList  string
		includeGit   bool
		raw          bool
		quiet        bool
		maxSize      string
		only         string
		force        bool
		skipExisting bool
		envOnly      bool
		extFilter    string
		gitSize      bool
	)

	cmd := &cobra.Command{
		Use:   "mig [source] <destination>",
		Short: "Copy repositories without dependencies",
		Long: `Copy git repositories without node_modules, venv, .git and other
dependency or cache directories. The source may be a single repository
or a directory containing several; each is scanned with the shared
ignore-aware core. Preserved files (.env, .env.*, .gitignore) are copied
even when gitignored.`,
		Args:         cobra.MaximumNArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			source := "."
			var dest string
			switch {
			case gitSize:
				// Size reporting needs no destination; a single argument
				// names the source.
				if len(args) >= 1 {
					source = args[0]
				}
			case len(args) == 2:
				source = args[0]
				dest = args[1]
			case len(args) == 1:
				dest = args[0]
			default:
				return fmt.Errorf("a destination is required unless --git-size is set")
			}

			var maxBytes int64
			if maxSize != "" {
				var err error
				maxBytes, err = mig.ParseSize(maxSize)
				if err != nil {
					return fmt.Errorf("--max-size: %w", err)
				}
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			engine := mig.NewEngine(mig.Config{
				Source:        source,
				Dest:          dest,
				DryRun:        dryRun,
				Zip:           useZip,
				GitSize:       gitSize,
				ShowStats:     showStats,
				StatsAll:      statsAll,
				IncludeGit:    includeGit,
				Verbose:       *verbose,
				Quiet:         quiet,
				Force:         force,
				SkipExisting:  skipExisting,
				RawMode:       raw,
				EnvOnly:       envOnly,
				ExtraExcludes: splitList(excludeList),
				Only:          splitList(only),
				ExtFilter:     normalizeExts(splitList(extFilter)),
				MaxSize:       maxBytes,
				UseColor:      useColor(*noColor, false),
				Out:           cmd.OutOrStdout(),
				Logger:        newLogger(*verbose),
			})
			return engine.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview what would be copied without copying")
	cmd.Flags().BoolVar(&useZip, "zip", false, "Compress each repo as a .zip archive")
	cmd.Flags().BoolVar(&showStats, "stats", false, "Show detailed file type breakdown")
	cmd.Flags().BoolVar(&statsAll, "stats-all", false, "Show all file extensions in stats")
	cmd.Flags().StringVar(&excludeList, "exclude", "", "Additional patterns to exclude (comma-separated)")
	cmd.Flags().BoolVar(&includeGit, "include-git", false, "Include the .git folder in the copy")
	cmd.Flags().BoolVar(&raw, "raw", false, "Include gitignored files but still exclude dependencies")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	cmd.Flags().StringVar(&maxSize, "max-size", "", "Skip files larger than this (e.g. '10M', '500K')")
	cmd.Flags().StringVar(&only, "only", "", "Only migrate specific repos (comma-separated)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files without warning")
	cmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "Skip files that already exist (resume mode)")
	cmd.Flags().BoolVar(&envOnly, "env", false, "Copy only env files (.env, .env.*, *.env)")
	cmd.Flags().StringVar(&extFilter, "ext", "", "Copy only files with the given extensions (comma-separated)")
	cmd.Flags().BoolVar(&gitSize, "git-size", false, "Show the size of each repo's .git folder (skips migration)")

	return cmd
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizeExts(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		out = append(out, strings.ToLower(strings.TrimPrefix(e, ".")))
	}
	return out
}
