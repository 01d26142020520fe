package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"jot-lang/internal/config"
	"jot-lang/internal/logging"

	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
	verbose   bool
)

// errReported marks a failure whose details were already printed.
var errReported = errors.New("reported")

var rootCmd = &cobra.Command{
	Use:   "jot",
	Short: "Jot - a small typed scripting language",
	Long: `jot runs programs written in Jot, a small dynamically evaluated
language with declared types, first-class functions and classes.

Configuration is read from --config, $JOT_CONFIG, ./jot.toml or
~/.config/jot/config.toml, in that order.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree and prints any unreported error.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $JOT_CONFIG or ./jot.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
}

// loadSettings reads the configuration, applies command line overrides
// and builds the logger.
func loadSettings() (*config.Config, *slog.Logger, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, nil, err
	}

	if logLevel != "" {
		cfg.Log.Level = strings.ToLower(logLevel)
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if logFormat != "" {
		cfg.Log.Format = strings.ToLower(logFormat)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Path != "" {
		logger.Debug("loaded config", "path", cfg.Path)
	}
	return cfg, logger, nil
}

func readSource(filename string) (string, error) {
	source, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("cannot read file %s: %w", filename, err)
	}
	return string(source), nil
}
