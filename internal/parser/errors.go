package parser

import (
	"jot-lang/internal/diag"
)

// SyntaxError collects the diagnostics of a failed parse.
type SyntaxError struct {
	Diags []diag.Diagnostic
}

func (e *SyntaxError) Error() string {
	if len(e.Diags) == 1 {
		return e.Diags[0].String()
	}
	return diag.Join(e.Diags)
}

// Line returns the line of the first diagnostic.
func (e *SyntaxError) Line() int {
	if len(e.Diags) == 0 {
		return 0
	}
	return e.Diags[0].Line()
}
