package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"jot-lang/internal/diag"
	"jot-lang/internal/lexer"
	"jot-lang/internal/parser"
	"jot-lang/internal/runtime"

	"github.com/charmbracelet/lipgloss"
)

// ---- styles ----

var (
	colorError  = lipgloss.Color("#EF4444") // Red
	colorWarn   = lipgloss.Color("#F59E0B") // Amber
	colorAccent = lipgloss.Color("#06B6D4") // Cyan
	colorPrompt = lipgloss.Color("#10B981") // Emerald
	colorMuted  = lipgloss.Color("#6B7280") // Gray

	errorStyle  = lipgloss.NewStyle().Foreground(colorError)
	warnStyle   = lipgloss.NewStyle().Foreground(colorWarn)
	codeStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	promptStyle = lipgloss.NewStyle().Foreground(colorPrompt)
	bannerStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
)

// ---- diagnostics ----

// formatDiag renders one diagnostic as "file:line:col: [code] phase error: message".
func formatDiag(filename string, d diag.Diagnostic) string {
	loc := fmt.Sprintf("%d:%d", d.Span.Start.Line, d.Span.Start.Column)
	if filename != "" {
		loc = filename + ":" + loc
	}
	style := errorStyle
	if d.Severity == diag.Warning {
		style = warnStyle
	}
	line := fmt.Sprintf("%s %s %s",
		mutedStyle.Render(loc+":"),
		codeStyle.Render("["+d.Code+"]"),
		style.Render(fmt.Sprintf("%s %s: %s", d.Phase, d.Severity, d.Message)))
	if d.Hint != "" {
		line += mutedStyle.Render(" (hint: " + d.Hint + ")")
	}
	return line
}

func printDiags(w io.Writer, filename string, diags []diag.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(w, formatDiag(filename, d))
	}
}

// logDiags records diagnostics at debug level.
func logDiags(logger *slog.Logger, filename string, diags []diag.Diagnostic) {
	for _, d := range diags {
		logger.Debug("diagnostic", "file", filename, "code", d.Code, "phase", d.Phase.String(), "line", d.Line(), "message", d.Message)
	}
}

// diagsOf extracts the diagnostics carried by a pipeline error.
func diagsOf(err error) ([]diag.Diagnostic, bool) {
	var (
		lexErr *lexer.LexError
		synErr *parser.SyntaxError
		rtErr  *runtime.RuntimeError
	)
	switch {
	case errors.As(err, &lexErr):
		return []diag.Diagnostic{lexErr.Diag}, true
	case errors.As(err, &synErr):
		return synErr.Diags, true
	case errors.As(err, &rtErr):
		return []diag.Diagnostic{rtErr.Diag}, true
	}
	return nil, false
}

// printError prints err as styled diagnostics when it carries any.
func printError(w io.Writer, filename string, err error) {
	if diags, ok := diagsOf(err); ok {
		printDiags(w, filename, diags)
		return
	}
	fmt.Fprintln(w, errorStyle.Render("error: "+err.Error()))
}

func diagsToSlice(diags []diag.Diagnostic) []map[string]interface{} {
	result := make([]map[string]interface{}, len(diags))
	for i, d := range diags {
		result[i] = map[string]interface{}{
			"code":     d.Code,
			"phase":    d.Phase.String(),
			"severity": d.Severity.String(),
			"message":  d.Message,
			"line":     d.Span.Start.Line,
			"column":   d.Span.Start.Column,
			"offset":   d.Span.Start.Offset,
		}
		if d.Hint != "" {
			result[i]["hint"] = d.Hint
		}
	}
	return result
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("JSON encoding failed: %w", err)
	}
	return nil
}
