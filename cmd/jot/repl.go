package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"jot-lang/internal/config"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

const replFile = "<repl>"

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadSettings()
		if err != nil {
			return err
		}
		return runRepl(cfg, logger)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

// ---- repl command ----

func runRepl(cfg *config.Config, logger *slog.Logger) error {
	prompt := promptStyle.Render(cfg.REPL.Prompt)
	continuation := mutedStyle.Render(strings.Repeat(".", len(strings.TrimRight(cfg.REPL.Prompt, " "))) + " ")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		HistoryFile:       cfg.HistoryPath(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("readline init failed: %w", err)
	}
	defer rl.Close()

	fmt.Fprintf(rl.Stdout(), "%s %s\n\n",
		bannerStyle.Render("Jot "+Version),
		mutedStyle.Render("(type 'exit' or Ctrl+D to quit)"))

	// Input is only run once it parses completely.
	replCfg := *cfg
	replCfg.Interpreter.StrictSyntax = true
	interp := newInterpreter(rl.Stdout(), rl.Stderr(), &replCfg, logger.With("file", replFile))

	var accumulated strings.Builder
	braceDepth := 0

	for {
		if braceDepth > 0 {
			rl.SetPrompt(continuation)
		} else {
			rl.SetPrompt(prompt)
		}

		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if braceDepth > 0 {
					accumulated.Reset()
					braceDepth = 0
					continue
				}
				fmt.Fprintln(rl.Stdout(), mutedStyle.Render("(use 'exit' or Ctrl+D to quit)"))
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(rl.Stdout())
				return nil
			}
			return err
		}

		if braceDepth == 0 && strings.TrimSpace(line) == "exit" {
			return nil
		}

		braceDepth += strings.Count(line, "{") - strings.Count(line, "}")
		accumulated.WriteString(line)
		accumulated.WriteString("\n")
		if braceDepth > 0 {
			continue
		}
		braceDepth = 0

		source := accumulated.String()
		accumulated.Reset()
		if strings.TrimSpace(source) == "" {
			continue
		}

		// Runtime errors are reported by the interpreter itself.
		if err := interp.InterpretReporting(source, replFile); err != nil {
			printError(rl.Stderr(), "", err)
		}
	}
}
