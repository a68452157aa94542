package cli

import (
	"github.com/spf13/cobra"

	"github.com/albertocavalcante/barrelle/pkg/barrel"
)

var updateFlags struct {
	gen       generatorFlags
	recursive bool
	check     bool
}

var updateCmd = &cobra.Command{
	Use:   "update [path]",
	Short: "Update existing barrel files",
	Long: `Updates existing barrel files in place. Directories without a barrel
are skipped; no new files are created.

The --check flag can be used in CI to verify barrels are up to date
without making changes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUpdate,
}

func init() {
	addGeneratorFlags(updateCmd, &updateFlags.gen)
	updateCmd.Flags().BoolVarP(&updateFlags.recursive, "recursive", "r", false,
		"Process subdirectories recursively")
	updateCmd.Flags().BoolVar(&updateFlags.check, "check", false,
		"Check if barrels are up to date (exit 1 if changes needed)")

	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	dir, err := resolveTargetDir(args)
	if err != nil {
		return err
	}

	gen, extractor, _, err := buildGenerator(dir, &updateFlags.gen)
	if err != nil {
		return err
	}
	defer extractor.Close()

	stats, err := gen.Generate(cmd.Context(), dir, barrel.Options{
		Recursive: updateFlags.recursive,
		Mode:      barrel.ModeUpdateExisting,
		Check:     updateFlags.check,
	})
	if err != nil {
		return err
	}

	return reportStats(stats, updateFlags.check)
}
