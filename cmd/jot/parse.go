package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"jot-lang/internal/ast"
	"jot-lang/internal/lexer"
	"jot-lang/internal/parser"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var parseFormat string

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a source file and print its AST",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, err := loadSettings()
		if err != nil {
			return err
		}
		source, err := readSource(args[0])
		if err != nil {
			return err
		}
		return runParse(cmd.OutOrStdout(), cmd.ErrOrStderr(), logger, source, args[0], parseFormat)
	},
}

func init() {
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "json", "output format: json, yaml")
	rootCmd.AddCommand(parseCmd)
}

// runParse prints the statements that parsed together with any syntax
// diagnostics. Lexical errors stop before parsing.
func runParse(out, errOut io.Writer, logger *slog.Logger, source, filename, format string) error {
	format = strings.ToLower(format)
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unknown format %q, want json or yaml", format)
	}

	tokens, err := lexer.New(source, filename).Tokenize()
	if err != nil {
		if diags, ok := diagsOf(err); ok {
			logDiags(logger, filename, diags)
		}
		printError(errOut, filename, err)
		return errReported
	}

	stmts, diags := parser.New(tokens).Parse()
	logger.Debug("parsed", "file", filename, "statements", len(stmts), "diagnostics", len(diags))
	logDiags(logger, filename, diags)
	tree, err := ast.Dump(stmts)
	if err != nil {
		return err
	}

	output := map[string]interface{}{
		"ast":         tree,
		"diagnostics": diagsToSlice(diags),
	}
	if format == "yaml" {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(output); err != nil {
			return fmt.Errorf("YAML encoding failed: %w", err)
		}
		if err := enc.Close(); err != nil {
			return err
		}
	} else if err := printJSON(out, output); err != nil {
		return err
	}

	if len(diags) > 0 {
		return errReported
	}
	return nil
}
