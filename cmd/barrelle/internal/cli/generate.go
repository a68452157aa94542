package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/albertocavalcante/barrelle/pkg/barrel"
)

var generateFlags struct {
	gen       generatorFlags
	recursive bool
	check     bool
}

var generateCmd = &cobra.Command{
	Use:   "generate [path]",
	Short: "Generate barrel files",
	Long: `Generates a barrel file for the given directory, creating one if it
does not exist and updating it in place otherwise. A file argument
resolves to its parent directory.

With --recursive, subdirectories are processed children-first so each
parent barrel can re-export its children's barrels.

The --check flag can be used in CI to verify barrels are up to date
without making changes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	addGeneratorFlags(generateCmd, &generateFlags.gen)
	generateCmd.Flags().BoolVarP(&generateFlags.recursive, "recursive", "r", false,
		"Process subdirectories recursively")
	generateCmd.Flags().BoolVar(&generateFlags.check, "check", false,
		"Check if barrels are up to date (exit 1 if changes needed)")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	dir, err := resolveTargetDir(args)
	if err != nil {
		return err
	}

	gen, extractor, _, err := buildGenerator(dir, &generateFlags.gen)
	if err != nil {
		return err
	}
	defer extractor.Close()

	stats, err := gen.Generate(cmd.Context(), dir, barrel.Options{
		Recursive: generateFlags.recursive,
		Mode:      barrel.ModeCreateOrUpdate,
		Check:     generateFlags.check,
	})
	if err != nil {
		return err
	}

	return reportStats(stats, generateFlags.check)
}

// reportStats prints the run summary. In check mode a pending change is a
// failure: the message goes to stderr and the process exits non-zero.
func reportStats(stats barrel.Stats, check bool) error {
	if check {
		if stats.Written > 0 {
			fmt.Fprintf(os.Stderr, "Barrel files need updating (%d file(s) would change)\n", stats.Written)
			fmt.Fprintln(os.Stderr, "Run 'barrelle generate' to apply changes")
			os.Exit(1)
		}
		fmt.Println("Barrel files are up to date")
		return nil
	}

	fmt.Printf("barrelle: %d written, %d unchanged, %d skipped\n",
		stats.Written, stats.Unchanged, stats.Skipped)
	return nil
}
