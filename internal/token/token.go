// Package token defines the token types produced by the lexer.
package token

import (
	"fmt"
	"jot-lang/internal/span"
)

// Kind represents the type of a token.
type Kind int

const (
	// Special tokens
	ILLEGAL Kind = iota
	EOF

	// Literals
	IDENT  // identifiers: x, foo, Point
	INT    // integer literals: 123
	FLOAT  // float literals: 3.14
	STRING // string literals: "hello"

	// Operators
	ASSIGN // =
	PLUS   // +
	MINUS  // -
	STAR   // *
	SLASH  // /
	BANG   // !

	EQ  // ==
	NEQ // !=
	LT  // <
	LTE // <=
	GT  // >
	GTE // >=

	AND // && or 'and'
	OR  // || or 'or'

	// Delimiters
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	COMMA     // ,
	DOT       // .
	SEMICOLON // ;
	COLON     // :

	// Keywords
	KW_CLASS
	KW_ELSE
	KW_FALSE
	KW_FN
	KW_IF
	KW_NEW
	KW_NULL
	KW_PROP
	KW_RETURN
	KW_THIS
	KW_TRUE
	KW_VAR
	KW_WHILE

	// Type keywords
	KW_INT
	KW_FLOAT
	KW_BOOL
	KW_VOID
)

var kindNames = map[Kind]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",

	IDENT:  "IDENT",
	INT:    "INT",
	FLOAT:  "FLOAT",
	STRING: "STRING",

	ASSIGN: "=",
	PLUS:   "+",
	MINUS:  "-",
	STAR:   "*",
	SLASH:  "/",
	BANG:   "!",
	EQ:     "==",
	NEQ:    "!=",
	LT:     "<",
	LTE:    "<=",
	GT:     ">",
	GTE:    ">=",
	AND:    "and",
	OR:     "or",

	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	COMMA:     ",",
	DOT:       ".",
	SEMICOLON: ";",
	COLON:     ":",

	KW_CLASS:  "class",
	KW_ELSE:   "else",
	KW_FALSE:  "false",
	KW_FN:     "fn",
	KW_IF:     "if",
	KW_NEW:    "new",
	KW_NULL:   "null",
	KW_PROP:   "prop",
	KW_RETURN: "return",
	KW_THIS:   "this",
	KW_TRUE:   "true",
	KW_VAR:    "var",
	KW_WHILE:  "while",

	KW_INT:   "int",
	KW_FLOAT: "float",
	KW_BOOL:  "bool",
	KW_VOID:  "void",
}

// String returns the human-readable name for a token kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword returns true if the kind is a keyword, including type keywords.
func (k Kind) IsKeyword() bool {
	return k >= KW_CLASS && k <= KW_VOID
}

// IsTypeName returns true if a token of this kind may name a type in an
// annotation.
func (k Kind) IsTypeName() bool {
	return k == IDENT || (k >= KW_INT && k <= KW_VOID)
}

// StartsStatement returns true for keywords that introduce a statement. The
// parser resynchronizes on these after a syntax error.
func (k Kind) StartsStatement() bool {
	switch k {
	case KW_CLASS, KW_FN, KW_VAR, KW_PROP, KW_IF, KW_WHILE, KW_RETURN:
		return true
	}
	return false
}

var keywords = map[string]Kind{
	"and":    AND,
	"or":     OR,
	"class":  KW_CLASS,
	"else":   KW_ELSE,
	"false":  KW_FALSE,
	"fn":     KW_FN,
	"if":     KW_IF,
	"new":    KW_NEW,
	"null":   KW_NULL,
	"prop":   KW_PROP,
	"return": KW_RETURN,
	"this":   KW_THIS,
	"true":   KW_TRUE,
	"var":    KW_VAR,
	"while":  KW_WHILE,
	"int":    KW_INT,
	"float":  KW_FLOAT,
	"bool":   KW_BOOL,
	"void":   KW_VOID,
}

// LookupIdent returns the keyword Kind for ident, or IDENT if it is not a keyword.
func LookupIdent(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return IDENT
}

// Token is a lexical token: its kind, source text, decoded literal value and
// location. Literal is an int64 for INT, float64 for FLOAT, the unescaped
// string for STRING, a bool for true/false, and nil otherwise.
type Token struct {
	Kind    Kind        `json:"kind"`
	Lexeme  string      `json:"lexeme"`
	Literal interface{} `json:"literal,omitempty"`
	Span    span.Span   `json:"span"`
}

// Line returns the 1-based source line the token starts on.
func (t Token) Line() int {
	return t.Span.Start.Line
}

// String returns a human-readable representation of the token.
func (t Token) String() string {
	if t.Literal != nil {
		return fmt.Sprintf("%s %q %v %s", t.Kind, t.Lexeme, t.Literal, t.Span.Start)
	}
	return fmt.Sprintf("%s %q %s", t.Kind, t.Lexeme, t.Span.Start)
}
