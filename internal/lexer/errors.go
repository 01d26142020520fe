package lexer

import (
	"jot-lang/internal/diag"
)

// LexError is returned by Tokenize when the source contains text that
// cannot be turned into a token.
type LexError struct {
	Diag     diag.Diagnostic
	Filename string
}

func (e *LexError) Error() string {
	if e.Filename != "" {
		return e.Filename + ": " + e.Diag.String()
	}
	return e.Diag.String()
}

// Line returns the line the error was detected on.
func (e *LexError) Line() int {
	return e.Diag.Line()
}

// Code returns the stable diagnostic code.
func (e *LexError) Code() string {
	return e.Diag.Code
}
