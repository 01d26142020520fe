package runtime

import (
	"fmt"
	"jot-lang/internal/diag"
	"jot-lang/internal/span"
)

// ErrorKind classifies runtime errors.
type ErrorKind int

const (
	ErrUndefined ErrorKind = iota
	ErrTypeMismatch
	ErrArity
	ErrNotCallable
	ErrInvalidMember
	ErrNullArgument
	ErrInvalidNew
	ErrOperandType
	ErrMissingReturn
	ErrReturnOutsideFunction
	ErrDivisionByZero
	ErrCallDepth
)

var kindCodes = [...]string{
	ErrUndefined:             diag.CodeUndefinedName,
	ErrTypeMismatch:          diag.CodeTypeMismatch,
	ErrArity:                 diag.CodeArity,
	ErrNotCallable:           diag.CodeNotCallable,
	ErrInvalidMember:         diag.CodeInvalidMember,
	ErrNullArgument:          diag.CodeNullArgument,
	ErrInvalidNew:            diag.CodeInvalidNew,
	ErrOperandType:           diag.CodeOperandType,
	ErrMissingReturn:         diag.CodeMissingReturn,
	ErrReturnOutsideFunction: diag.CodeReturnOutsideFunc,
	ErrDivisionByZero:        diag.CodeDivisionByZero,
	ErrCallDepth:             diag.CodeCallDepth,
}

// Code returns the stable diagnostic code for the kind.
func (k ErrorKind) Code() string {
	if int(k) < len(kindCodes) {
		return kindCodes[k]
	}
	return "E3000"
}

// RuntimeError is an error raised while evaluating a program.
type RuntimeError struct {
	Kind ErrorKind
	Diag diag.Diagnostic
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error [%s] at %d:%d: %s",
		e.Diag.Code, e.Diag.Span.Start.Line, e.Diag.Span.Start.Column, e.Diag.Message)
}

// Line returns the source line the error was raised at.
func (e *RuntimeError) Line() int {
	return e.Diag.Line()
}

// Message returns the error text without location.
func (e *RuntimeError) Message() string {
	return e.Diag.Message
}

func runtimeErr(kind ErrorKind, s span.Span, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{
		Kind: kind,
		Diag: diag.Errorf(diag.Runtime, kind.Code(), s, format, args...),
	}
}

// typeNameOf describes v for type-mismatch messages.
func typeNameOf(v Value) string {
	if v == nil {
		return "null"
	}
	return v.TypeName()
}
