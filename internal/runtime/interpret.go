package runtime

import (
	"errors"
	"fmt"
	"io"
	"jot-lang/internal/ast"
	"jot-lang/internal/lexer"
	"jot-lang/internal/parser"
	"log/slog"
	"os"
)

// DefaultMaxCallDepth bounds nested calls when no limit is configured.
const DefaultMaxCallDepth = 512

// Interpreter evaluates Jot programs. Globals persist across Interpret and
// Run calls. An Interpreter is not safe for concurrent use.
type Interpreter struct {
	env   *Environment
	scope Scope // innermost active scope

	output    io.Writer
	errOutput io.Writer
	logger    *slog.Logger

	maxCallDepth int
	depth        int
	strictSyntax bool
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithOutput sets the writer print writes to. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(i *Interpreter) { i.output = w }
}

// WithErrorOutput sets the writer InterpretReporting reports runtime
// errors to. Defaults to os.Stderr.
func WithErrorOutput(w io.Writer) Option {
	return func(i *Interpreter) { i.errOutput = w }
}

// WithLogger sets the structured logger. Defaults to a discarding logger.
func WithLogger(l *slog.Logger) Option {
	return func(i *Interpreter) {
		if l != nil {
			i.logger = l
		}
	}
}

// WithMaxCallDepth bounds nested function calls.
func WithMaxCallDepth(n int) Option {
	return func(i *Interpreter) {
		if n > 0 {
			i.maxCallDepth = n
		}
	}
}

// WithStrictSyntax makes any syntax diagnostic fatal instead of running the
// statements that parsed.
func WithStrictSyntax(strict bool) Option {
	return func(i *Interpreter) { i.strictSyntax = strict }
}

// New creates an interpreter with the print native registered.
func New(opts ...Option) *Interpreter {
	env := NewEnvironment()
	registerBuiltins(env)
	i := &Interpreter{
		env:          env,
		scope:        env.Global(),
		output:       os.Stdout,
		errOutput:    os.Stderr,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxCallDepth: DefaultMaxCallDepth,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Interpret lexes, parses and runs source. Lexical errors, runtime errors
// and, in strict mode, syntax errors are returned. Otherwise syntax
// diagnostics are logged and the statements that parsed are run.
func (i *Interpreter) Interpret(source, filename string) error {
	stmts, err := i.Parse(source, filename)
	if err != nil {
		return err
	}
	return i.Run(stmts)
}

// Parse lexes and parses source under the interpreter's syntax policy.
func (i *Interpreter) Parse(source, filename string) ([]ast.Stmt, error) {
	tokens, err := lexer.New(source, filename).Tokenize()
	if err != nil {
		return nil, err
	}
	p := parser.New(tokens)
	stmts, diags := p.Parse()
	if len(diags) > 0 {
		if i.strictSyntax {
			return nil, p.Err()
		}
		for _, d := range diags {
			i.logger.Warn("syntax error, statement skipped",
				"file", filename, "code", d.Code, "line", d.Line(), "message", d.Message)
		}
	}
	return stmts, nil
}

// InterpretReporting runs source like Interpret, but a runtime error is
// written to the error output and logged instead of returned. Any other
// error is returned.
func (i *Interpreter) InterpretReporting(source, filename string) error {
	err := i.Interpret(source, filename)
	var rte *RuntimeError
	if errors.As(err, &rte) {
		fmt.Fprintln(i.errOutput, rte.Error())
		i.logger.Error("runtime error", "file", filename, "code", rte.Diag.Code, "line", rte.Line(), "message", rte.Message())
		return nil
	}
	return err
}

// Run executes already parsed statements in the global scope.
func (i *Interpreter) Run(stmts []ast.Stmt) error {
	i.scope = i.env.Global()
	i.depth = 0
	for _, stmt := range stmts {
		c, err := i.execute(stmt)
		if err != nil {
			return err
		}
		if c.Kind == Return {
			return runtimeErr(ErrReturnOutsideFunction, stmt.GetSpan(),
				"return outside of a function on line %d", stmt.GetSpan().Line())
		}
	}
	return nil
}

// Lookup returns the value of a global variable.
func (i *Interpreter) Lookup(name string) (Value, bool) {
	return i.env.Get(i.env.Global(), name)
}

// Environment exposes the scope arena, mainly for inspection in tools.
func (i *Interpreter) Environment() *Environment {
	return i.env
}
