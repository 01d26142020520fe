// Package ast defines the syntax tree for Jot programs.
//
// Nodes are plain structs built once by the parser and never mutated.
// Consumers walk the tree through ExprVisitor and StmtVisitor; see visitor.go.
package ast

import (
	"jot-lang/internal/span"
	"jot-lang/internal/token"
)

// ============================================================
// Node interfaces
// ============================================================

// Node is the interface implemented by all AST nodes.
type Node interface {
	nodeNode()
	GetSpan() span.Span
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// NodeBase provides the common Span field for all AST nodes.
type NodeBase struct {
	Span span.Span
}

func (n NodeBase) nodeNode()          {}
func (n NodeBase) GetSpan() span.Span { return n.Span }

// ExprBase is embedded by all expression nodes.
type ExprBase struct{ NodeBase }

func (ExprBase) exprNode() {}

// StmtBase is embedded by all statement nodes.
type StmtBase struct{ NodeBase }

func (StmtBase) stmtNode() {}

// TypeRef is a type annotation: a built-in type keyword or a class name.
type TypeRef struct {
	Name string
	Span span.Span
}

// Void is the implicit return type of a function declared without one.
func Void(s span.Span) TypeRef {
	return TypeRef{Name: "void", Span: s}
}

func (t TypeRef) String() string { return t.Name }

// Param is one typed function parameter.
type Param struct {
	Name string
	Type TypeRef
	Span span.Span
}

// ============================================================
// Expressions
// ============================================================

// BinaryExpr is an arithmetic, comparison, equality or logical operation.
// Logical and/or short-circuit.
type BinaryExpr struct {
	ExprBase
	Op    token.Kind
	Left  Expr
	Right Expr
}

// GroupingExpr is a parenthesized expression.
type GroupingExpr struct {
	ExprBase
	Inner Expr
}

// LiteralExpr is a literal value. Value is int64, float64, string, bool,
// or nil for null.
type LiteralExpr struct {
	ExprBase
	Value interface{}
}

// UnaryExpr is !x or -x.
type UnaryExpr struct {
	ExprBase
	Op      token.Kind
	Operand Expr
}

// VariableExpr reads a variable.
type VariableExpr struct {
	ExprBase
	Name string
}

// AssignExpr writes a variable: name = value.
type AssignExpr struct {
	ExprBase
	Name  string
	Value Expr
}

// CallExpr is a function call: f(a, b).
type CallExpr struct {
	ExprBase
	Callee Expr
	Args   []Expr
}

// GetExpr reads a member: obj.name.
type GetExpr struct {
	ExprBase
	Object Expr
	Name   string
}

// SetExpr writes a member: obj.name = value.
type SetExpr struct {
	ExprBase
	Object Expr
	Name   string
	Value  Expr
}

// ThisExpr is the 'this' keyword inside a method.
type ThisExpr struct {
	ExprBase
}

// NewExpr constructs an instance: new ClassName(args).
type NewExpr struct {
	ExprBase
	ClassName string
	Args      []Expr
}

// ============================================================
// Statements
// ============================================================

// BlockStmt is a braced statement list with its own scope.
type BlockStmt struct {
	StmtBase
	Stmts []Stmt
}

// ExprStmt wraps an expression evaluated for its side effects.
type ExprStmt struct {
	StmtBase
	Expr Expr
}

// VarDecl declares a typed variable: var x: int = 1.
type VarDecl struct {
	StmtBase
	Name string
	Type TypeRef
	Init Expr // may be nil
}

// PropDecl declares a class property: prop name: string = "x".
// At the top level it declares nothing.
type PropDecl struct {
	StmtBase
	Name    string
	Type    TypeRef
	Default Expr // may be nil
}

// FuncDecl declares a function or, inside a class body, a method.
type FuncDecl struct {
	StmtBase
	Name       string
	Params     []Param
	ReturnType TypeRef
	Body       *BlockStmt
}

// ClassDecl declares a class with properties and methods.
type ClassDecl struct {
	StmtBase
	Name    string
	Props   []*PropDecl
	Methods []*FuncDecl
}

// IfStmt is if (cond) then else otherwise.
type IfStmt struct {
	StmtBase
	Condition Expr
	Then      Stmt
	Else      Stmt // may be nil
}

// WhileStmt is while (cond) body.
type WhileStmt struct {
	StmtBase
	Condition Expr
	Body      Stmt
}

// ReturnStmt returns from the enclosing function.
type ReturnStmt struct {
	StmtBase
	Value Expr // may be nil
}
