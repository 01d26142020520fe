package main

import (
	"fmt"
	"io"
	"log/slog"

	"jot-lang/internal/diag"
	"jot-lang/internal/lexer"
	"jot-lang/internal/token"

	"github.com/spf13/cobra"
)

var tokensJSON bool

var tokensCmd = &cobra.Command{
	Use:   "tokens <file>",
	Short: "Tokenize a source file and print the tokens",
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
		return runTokens(cmd.OutOrStdout(), cmd.ErrOrStderr(), logger, source, args[0], tokensJSON)
	},
}

func init() {
	tokensCmd.Flags().BoolVar(&tokensJSON, "json", false, "print tokens as JSON")
	rootCmd.AddCommand(tokensCmd)
}

func runTokens(out, errOut io.Writer, logger *slog.Logger, source, filename string, jsonMode bool) error {
	tokens, err := lexer.New(source, filename).Tokenize()

	var diags []diag.Diagnostic
	if err != nil {
		var ok bool
		if diags, ok = diagsOf(err); !ok {
			return err
		}
	}
	logger.Debug("tokenized", "file", filename, "tokens", len(tokens), "diagnostics", len(diags))
	logDiags(logger, filename, diags)

	if jsonMode {
		if err := printTokensJSON(out, tokens, diags); err != nil {
			return err
		}
	} else {
		printTokensText(out, tokens)
		printDiags(errOut, filename, diags)
	}
	if len(diags) > 0 {
		return errReported
	}
	return nil
}

func printTokensText(w io.Writer, tokens []token.Token) {
	for _, tok := range tokens {
		lexeme := tok.Lexeme
		if tok.Kind == token.EOF {
			lexeme = "<eof>"
		}
		fmt.Fprintf(w, "%-12s %-20s %d:%d\n", tok.Kind, lexeme, tok.Span.Start.Line, tok.Span.Start.Column)
	}
}

func printTokensJSON(w io.Writer, tokens []token.Token, diags []diag.Diagnostic) error {
	type tokenJSON struct {
		Kind    string      `json:"kind"`
		Lexeme  string      `json:"lexeme"`
		Literal interface{} `json:"literal,omitempty"`
		Line    int         `json:"line"`
		Column  int         `json:"column"`
		Offset  int         `json:"offset"`
	}

	toks := make([]tokenJSON, 0, len(tokens))
	for _, tok := range tokens {
		toks = append(toks, tokenJSON{
			Kind:    tok.Kind.String(),
			Lexeme:  tok.Lexeme,
			Literal: tok.Literal,
			Line:    tok.Span.Start.Line,
			Column:  tok.Span.Start.Column,
			Offset:  tok.Span.Start.Offset,
		})
	}

	return printJSON(w, map[string]interface{}{
		"tokens":      toks,
		"diagnostics": diagsToSlice(diags),
	})
}
