package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"jot-lang/internal/config"
	"jot-lang/internal/runtime"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	runWatch    bool
	runStrict   bool
	runMaxDepth int
)

// watchDebounce coalesces the burst of events an editor save produces.
const watchDebounce = 100 * time.Millisecond

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Run a source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadSettings()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("strict") {
			cfg.Interpreter.StrictSyntax = runStrict
		}
		if runMaxDepth > 0 {
			cfg.Interpreter.MaxCallDepth = runMaxDepth
		}

		filename := args[0]
		if runWatch {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return watchFile(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), filename, cfg, logger)
		}
		return runFile(cmd.OutOrStdout(), cmd.ErrOrStderr(), filename, cfg, logger)
	},
}

func init() {
	runCmd.Flags().BoolVarP(&runWatch, "watch", "w", false, "rerun the file whenever it changes")
	runCmd.Flags().BoolVar(&runStrict, "strict", false, "fail on any syntax error instead of skipping the statement")
	runCmd.Flags().IntVar(&runMaxDepth, "max-depth", 0, "maximum call depth (default from config)")
	rootCmd.AddCommand(runCmd)
}

func newInterpreter(out, errOut io.Writer, cfg *config.Config, logger *slog.Logger) *runtime.Interpreter {
	return runtime.New(
		runtime.WithOutput(out),
		runtime.WithErrorOutput(errOut),
		runtime.WithLogger(logger),
		runtime.WithMaxCallDepth(cfg.Interpreter.MaxCallDepth),
		runtime.WithStrictSyntax(cfg.Interpreter.StrictSyntax),
	)
}

// runFile interprets one file with a fresh interpreter. Every run carries
// its own id in the log.
func runFile(out, errOut io.Writer, filename string, cfg *config.Config, logger *slog.Logger) error {
	source, err := readSource(filename)
	if err != nil {
		return err
	}

	runLogger := logger.With("run", uuid.New().String(), "file", filename)
	runLogger.Debug("run started")
	start := time.Now()

	interp := newInterpreter(out, errOut, cfg, runLogger)
	if err := interp.Interpret(source, filename); err != nil {
		runLogger.Debug("run failed", "elapsed", time.Since(start), "error", err)
		printError(errOut, filename, err)
		return errReported
	}
	runLogger.Debug("run finished", "elapsed", time.Since(start))
	return nil
}

// watchFile runs filename once, then again after every change until ctx
// is cancelled. Failed runs are reported and watching continues.
func watchFile(ctx context.Context, out, errOut io.Writer, filename string, cfg *config.Config, logger *slog.Logger) error {
	abs, err := filepath.Abs(filename)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace files on save, so the directory is watched.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filename, err)
	}

	rerun := func() {
		if err := runFile(out, errOut, filename, cfg, logger); err != nil && !errors.Is(err, errReported) {
			printError(errOut, filename, err)
		}
		fmt.Fprintln(errOut, mutedStyle.Render("watching "+filename+" for changes (Ctrl+C to stop)"))
	}
	rerun()

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("file changed", "file", filename, "op", event.Op.String())
			pending = time.After(watchDebounce)

		case <-pending:
			pending = nil
			rerun()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "file", filename, "error", err)
		}
	}
}
