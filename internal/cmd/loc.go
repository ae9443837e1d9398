package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/bethropolis/repokit/internal/loc"
)

// NewLocCommand creates the loc subcommand
func NewLocCommand(noColor, verbose *bool) *cobra.Command {
	var (
		raw       bool
		showStats bool
		jsonOut   bool
		out       string
		autoOut   bool
	)

	cmd := &cobra.Command{
		Use:   "loc [directory]",
		Short: "Count lines of code per language",
		Long: `Count blank, comment and code lines for every recognized language
in a directory, honoring the repository's ignore rules. Use --raw to
count gitignored files as well (dependency directories stay pruned),
--stats for percentage breakdowns, --json for a machine-readable
report.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) == 1 {
				target = args[0]
			}

			start := time.Now()
			engine := loc.NewEngine(target, raw, newLogger(*verbose))
			stats, err := engine.Count()
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			writingToFile := out != "" || autoOut
			colors := useColor(*noColor, writingToFile)

			var buf bytes.Buffer
			var dest io.Writer = cmd.OutOrStdout()
			if writingToFile {
				dest = &buf
			}

			if jsonOut {
				meta := loc.Meta{Version: Version, Elapsed: elapsed, Interrupted: engine.Interrupted()}
				if err := loc.WriteJSON(dest, stats, meta); err != nil {
					return err
				}
			} else {
				if showStats {
					loc.ReportStats(dest, stats, colors)
				} else {
					loc.Report(dest, stats, colors)
				}
				fmt.Fprintf(dest, "\nProcessed %d files in %.3f seconds.\n",
					loc.Totals(stats).Files, elapsed.Seconds())
			}

			if writingToFile {
				name := out
				if name == "" {
					name = autoLocOutName(target, jsonOut)
				}
				if err := os.WriteFile(name, buf.Bytes(), 0o644); err != nil {
					return fmt.Errorf("writing %q: %w", name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Output written to: %s\n", name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Count gitignored files as well")
	cmd.Flags().BoolVarP(&showStats, "stats", "s", false, "Show percentage breakdowns per language")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the report as JSON")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write output to the given file")
	cmd.Flags().BoolVar(&autoOut, "auto-out", false, "Write output to an auto-named file inside the target")
	return cmd
}

// autoLocOutName places the report inside the counted directory, named
// after it.
func autoLocOutName(target string, jsonOut bool) string {
	abs, err := filepath.Abs(target)
	if err != nil {
		abs = target
	}
	ext := ".txt"
	if jsonOut {
		ext = ".json"
	}
	return filepath.Join(abs, filepath.Base(abs)+"_loc"+ext)
}
