// Package diag provides the diagnostic type shared by every phase of the
// toolchain: lexing, parsing, and evaluation.
package diag

import (
	"fmt"
	"jot-lang/internal/span"
	"strings"
)

// Severity indicates the severity of a diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Phase names the pipeline stage that produced a diagnostic.
type Phase int

const (
	Lex Phase = iota
	Syntax
	Runtime
)

func (p Phase) String() string {
	switch p {
	case Lex:
		return "lex"
	case Syntax:
		return "syntax"
	case Runtime:
		return "runtime"
	default:
		return "unknown"
	}
}

// Stable diagnostic codes. E10xx are lexical, E20xx syntactic, E30xx runtime.
const (
	CodeUnterminatedString  = "E1001"
	CodeUnknownEscape       = "E1002"
	CodeUnexpectedChar      = "E1003"
	CodeUnterminatedComment = "E1004"

	CodeExpectedToken      = "E2001"
	CodeExpectedExpression = "E2002"
	CodeInvalidAssignment  = "E2003"
	CodeUnexpectedMember   = "E2004"

	CodeUndefinedName     = "E3001"
	CodeTypeMismatch      = "E3002"
	CodeArity             = "E3003"
	CodeNotCallable       = "E3004"
	CodeInvalidMember     = "E3005"
	CodeNullArgument      = "E3006"
	CodeInvalidNew        = "E3007"
	CodeOperandType       = "E3008"
	CodeMissingReturn     = "E3009"
	CodeReturnOutsideFunc = "E3010"
	CodeDivisionByZero    = "E3011"
	CodeCallDepth         = "E3012"
)

// Diagnostic is a position-tagged message with a stable code.
type Diagnostic struct {
	Code     string    `json:"code" yaml:"code"`
	Phase    Phase     `json:"phase" yaml:"phase"`
	Severity Severity  `json:"severity" yaml:"severity"`
	Message  string    `json:"message" yaml:"message"`
	Span     span.Span `json:"span" yaml:"span"`
	Hint     string    `json:"hint,omitempty" yaml:"hint,omitempty"`
}

// String returns a human-readable representation of the diagnostic.
func (d Diagnostic) String() string {
	loc := fmt.Sprintf("%d:%d", d.Span.Start.Line, d.Span.Start.Column)
	msg := fmt.Sprintf("[%s] %s %s at %s: %s", d.Code, d.Phase, d.Severity, loc, d.Message)
	if d.Hint != "" {
		msg += " (hint: " + d.Hint + ")"
	}
	return msg
}

// Line returns the source line the diagnostic points at.
func (d Diagnostic) Line() int {
	return d.Span.Start.Line
}

// Errorf creates an error diagnostic at the given span.
func Errorf(phase Phase, code string, s span.Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Code:     code,
		Phase:    phase,
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		Span:     s,
	}
}

// Join renders a list of diagnostics one per line.
func Join(diags []Diagnostic) string {
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}
