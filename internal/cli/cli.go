package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/djairjr/translate-folder/internal/backup"
	"github.com/djairjr/translate-folder/internal/config"
	"github.com/djairjr/translate-folder/internal/filewalker"
	"github.com/djairjr/translate-folder/internal/pipeline"
	"github.com/djairjr/translate-folder/internal/progress"
	"github.com/djairjr/translate-folder/internal/translation"
	"github.com/djairjr/translate-folder/internal/worker"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd := rootCommand()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	var withBackup bool

	cmd := &cobra.Command{
		Use:   "translate-folder <directory>",
		Short: "Translate Chinese comments, strings, identifiers, and Markdown in a source tree",
		Long: `Walks a directory tree, finds Chinese text in source comments, string
literals, identifier names, and Markdown lines, translates it, and
rewrites each file in place leaving every other byte untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], withBackup)
		},
	}

	cmd.Flags().BoolVar(&withBackup, "backup", false, "copy the directory to a sibling <dir>_backup path before translating")

	return cmd
}

// run executes a full translation pass over one directory tree.
func run(root string, withBackup bool) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()

	// Discover files before touching anything, so an invalid root
	// aborts the run with no file modified.
	paths, err := filewalker.Walk(root)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		log.Warn().Str("root", root).Msg("No supported files found")
		return nil
	}

	if withBackup {
		if _, err := backup.Create(root); err != nil {
			return err
		}
	}

	stats := pipeline.NewStats()
	translator := &translation.Cached{
		Inner: translation.NewClient(
			cfg.GeminiAPIKey,
			cfg.TranslationModel,
			cfg.SourceLang,
			cfg.TargetLang,
			cfg.MaxRetries,
		),
		Cache: translation.NewRunCache(),
	}
	orchestrator := pipeline.New(translator, stats)
	reporter := progress.NewReporter(os.Stderr, len(paths))

	pool := worker.NewPool(cfg.WorkerCount, time.Duration(cfg.FileDelayMs)*time.Millisecond,
		func(ctx context.Context, path string) pipeline.Result {
			return orchestrator.ProcessFile(ctx, path)
		},
	)

	pool.Run(ctx, paths, func(path string, res pipeline.Result) {
		if res.Err != nil {
			log.Error().Err(res.Err).Str("path", path).Msg("File failed")
		}
		reporter.FileDone(path, res.Outcome, stats.Snapshot())
	})

	reporter.Finish(stats.Snapshot())
	return nil
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Warn().Msg("Received shutdown signal, finishing current file...")
		cancel()
	}()

	return ctx, cancel
}
