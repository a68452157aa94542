package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/albertocavalcante/barrelle/cmd/barrelle/internal/runner"
	"github.com/albertocavalcante/barrelle/cmd/barrelle/internal/watch"
	"github.com/albertocavalcante/barrelle/pkg/barrel"
)

var watchFlags struct {
	gen      generatorFlags
	debounce int
	verbose  bool
	json     bool
	noColor  bool
}

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Watch for source file changes and auto-update barrels",
	Long: `Watches a directory tree for TypeScript source changes and
regenerates the affected barrel files automatically.

Example output:

  $ barrelle watch src

  barrelle: watching 42 directories in src
  barrelle: ready

  [14:32:15] ~ src/auth/login.ts
  [14:32:15] regenerating src/auth...
  [14:32:16] ✓ src/auth/index.ts updated

Press Ctrl+C to stop watching.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	addGeneratorFlags(watchCmd, &watchFlags.gen)
	watchCmd.Flags().IntVar(&watchFlags.debounce, "debounce", 500,
		"Debounce window in milliseconds")
	watchCmd.Flags().BoolVar(&watchFlags.verbose, "verbose", false,
		"Show file-level changes")
	watchCmd.Flags().BoolVar(&watchFlags.json, "json", false,
		"Stream JSON events (for tooling integration)")
	watchCmd.Flags().BoolVar(&watchFlags.noColor, "no-color", false,
		"Disable colored output")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	root, err := resolveTargetDir(args)
	if err != nil {
		return err
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("invalid path %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path must be a directory: %s", root)
	}

	gen, extractor, cfg, err := buildGenerator(root, &watchFlags.gen)
	if err != nil {
		return err
	}
	defer extractor.Close()

	// Regenerations run one at a time through the queue so overlapping
	// flushes never write the same barrel concurrently.
	queue := runner.New(gen.Generate, runner.DefaultBuffer)
	defer queue.Close()

	// Setup signal handling for graceful shutdown
	// Include SIGHUP to handle terminal hangup
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	w, err := watch.New(watch.Config{
		Root:       root,
		BarrelName: cfg.Generator.BarrelName,
		Debounce:   watchFlags.debounce,
		Verbose:    watchFlags.verbose,
		NoColor:    watchFlags.noColor,
		JSON:       watchFlags.json,
		Queue:      queue,
		Options:    barrel.Options{Mode: barrel.ModeCreateOrUpdate},
	})
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	// Run watch loop
	return w.Run(ctx)
}
