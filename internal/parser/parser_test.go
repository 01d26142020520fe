package parser

import (
	"encoding/json"
	"errors"
	"jot-lang/internal/ast"
	"jot-lang/internal/diag"
	"jot-lang/internal/lexer"
	"jot-lang/internal/token"
	"testing"
)

// helper: parse source and fail on any diagnostic
func parseOK(t *testing.T, source string) []ast.Stmt {
	t.Helper()
	tokens, err := lexer.New(source, "test.jot").Tokenize()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	stmts, diags := New(tokens).Parse()
	if len(diags) > 0 {
		t.Fatalf("parse errors:\n%s", diag.Join(diags))
	}
	return stmts
}

// helper: parse source that is expected to produce diagnostics
func parseWithErrors(t *testing.T, source string) ([]ast.Stmt, []diag.Diagnostic) {
	t.Helper()
	tokens, err := lexer.New(source, "test.jot").Tokenize()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	stmts, diags := New(tokens).Parse()
	if len(diags) == 0 {
		t.Fatalf("expected parse errors for %q", source)
	}
	return stmts, diags
}

func exprOf(t *testing.T, stmt ast.Stmt) ast.Expr {
	t.Helper()
	es, ok := stmt.(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected ExprStmt, got %T", stmt)
	}
	return es.Expr
}

func TestParseVarDecl(t *testing.T) {
	stmts := parseOK(t, `var x: int = 42;`)
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	decl, ok := stmts[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("expected VarDecl, got %T", stmts[0])
	}
	if decl.Name != "x" || decl.Type.Name != "int" {
		t.Errorf("expected x: int, got %s: %s", decl.Name, decl.Type)
	}
	lit, ok := decl.Init.(*ast.LiteralExpr)
	if !ok || lit.Value != int64(42) {
		t.Errorf("expected literal 42, got %#v", decl.Init)
	}
}

func TestParseVarDeclClassTypeNoInit(t *testing.T) {
	stmts := parseOK(t, `var p: Point`)
	decl := stmts[0].(*ast.VarDecl)
	if decl.Type.Name != "Point" || decl.Init != nil {
		t.Errorf("expected uninitialized Point, got %s init=%v", decl.Type, decl.Init)
	}
}

func TestParseOptionalSemicolons(t *testing.T) {
	stmts := parseOK(t, "var a: int = 1\nvar b: int = 2\nprint(a + b)")
	if len(stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(stmts))
	}
}

func TestParsePrecedence(t *testing.T) {
	stmts := parseOK(t, `1 + 2 * 3;`)
	bin, ok := exprOf(t, stmts[0]).(*ast.BinaryExpr)
	if !ok || bin.Op != token.PLUS {
		t.Fatalf("expected '+' at root, got %#v", exprOf(t, stmts[0]))
	}
	right, ok := bin.Right.(*ast.BinaryExpr)
	if !ok || right.Op != token.STAR {
		t.Errorf("expected '*' on the right, got %#v", bin.Right)
	}
}

func TestParseLogicalPrecedence(t *testing.T) {
	stmts := parseOK(t, `a or b and c == d;`)
	or, ok := exprOf(t, stmts[0]).(*ast.BinaryExpr)
	if !ok || or.Op != token.OR {
		t.Fatalf("expected 'or' at root, got %#v", exprOf(t, stmts[0]))
	}
	and, ok := or.Right.(*ast.BinaryExpr)
	if !ok || and.Op != token.AND {
		t.Fatalf("expected 'and' under 'or', got %#v", or.Right)
	}
	if eq, ok := and.Right.(*ast.BinaryExpr); !ok || eq.Op != token.EQ {
		t.Errorf("expected '==' under 'and', got %#v", and.Right)
	}
}

func TestParseLeftAssociative(t *testing.T) {
	stmts := parseOK(t, `10 - 4 - 3;`)
	bin := exprOf(t, stmts[0]).(*ast.BinaryExpr)
	if _, ok := bin.Left.(*ast.BinaryExpr); !ok {
		t.Errorf("expected (10 - 4) - 3, got right-nested %#v", bin.Right)
	}
}

func TestParseUnary(t *testing.T) {
	stmts := parseOK(t, `!-x;`)
	not, ok := exprOf(t, stmts[0]).(*ast.UnaryExpr)
	if !ok || not.Op != token.BANG {
		t.Fatalf("expected '!', got %#v", exprOf(t, stmts[0]))
	}
	if neg, ok := not.Operand.(*ast.UnaryExpr); !ok || neg.Op != token.MINUS {
		t.Errorf("expected '-' operand, got %#v", not.Operand)
	}
}

func TestParseGrouping(t *testing.T) {
	stmts := parseOK(t, `(1 + 2) * 3;`)
	bin := exprOf(t, stmts[0]).(*ast.BinaryExpr)
	if _, ok := bin.Left.(*ast.GroupingExpr); !ok {
		t.Errorf("expected grouping on the left, got %T", bin.Left)
	}
}

func TestParseAssignment(t *testing.T) {
	stmts := parseOK(t, `a = b = 3;`)
	outer, ok := exprOf(t, stmts[0]).(*ast.AssignExpr)
	if !ok || outer.Name != "a" {
		t.Fatalf("expected assignment to a, got %#v", exprOf(t, stmts[0]))
	}
	if inner, ok := outer.Value.(*ast.AssignExpr); !ok || inner.Name != "b" {
		t.Errorf("expected right-associative assignment, got %#v", outer.Value)
	}
}

func TestParseSetExpr(t *testing.T) {
	stmts := parseOK(t, `this.count = this.count + 1;`)
	set, ok := exprOf(t, stmts[0]).(*ast.SetExpr)
	if !ok {
		t.Fatalf("expected SetExpr, got %T", exprOf(t, stmts[0]))
	}
	if set.Name != "count" {
		t.Errorf("expected member count, got %q", set.Name)
	}
	if _, ok := set.Object.(*ast.ThisExpr); !ok {
		t.Errorf("expected this as object, got %T", set.Object)
	}
}

func TestParseInvalidAssignmentTarget(t *testing.T) {
	_, diags := parseWithErrors(t, `1 + 2 = 3;`)
	if diags[0].Code != diag.CodeInvalidAssignment {
		t.Errorf("expected %s, got %s", diag.CodeInvalidAssignment, diags[0].Code)
	}
}

func TestParseCallAndMember(t *testing.T) {
	stmts := parseOK(t, `obj.method(1, "two").field;`)
	get, ok := exprOf(t, stmts[0]).(*ast.GetExpr)
	if !ok || get.Name != "field" {
		t.Fatalf("expected .field at root, got %#v", exprOf(t, stmts[0]))
	}
	call, ok := get.Object.(*ast.CallExpr)
	if !ok || len(call.Args) != 2 {
		t.Fatalf("expected call with 2 args, got %#v", get.Object)
	}
	if callee, ok := call.Callee.(*ast.GetExpr); !ok || callee.Name != "method" {
		t.Errorf("expected callee obj.method, got %#v", call.Callee)
	}
}

func TestParseNewExpr(t *testing.T) {
	stmts := parseOK(t, "new Point(1, 2);\nnew Empty;")
	n, ok := exprOf(t, stmts[0]).(*ast.NewExpr)
	if !ok || n.ClassName != "Point" || len(n.Args) != 2 {
		t.Errorf("expected new Point(1, 2), got %#v", exprOf(t, stmts[0]))
	}
	n, ok = exprOf(t, stmts[1]).(*ast.NewExpr)
	if !ok || n.ClassName != "Empty" || len(n.Args) != 0 {
		t.Errorf("expected new Empty, got %#v", exprOf(t, stmts[1]))
	}
}

func TestParseIfElse(t *testing.T) {
	stmts := parseOK(t, `if (x > 1) { print(1); } else if (x < 0) print(2); else { print(3); }`)
	stmt, ok := stmts[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected IfStmt, got %T", stmts[0])
	}
	if _, ok := stmt.Then.(*ast.BlockStmt); !ok {
		t.Errorf("expected block then-branch, got %T", stmt.Then)
	}
	nested, ok := stmt.Else.(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected else-if, got %T", stmt.Else)
	}
	if _, ok := nested.Then.(*ast.ExprStmt); !ok {
		t.Errorf("expected bare statement branch, got %T", nested.Then)
	}
	if nested.Else == nil {
		t.Error("expected final else")
	}
}

func TestParseWhile(t *testing.T) {
	stmts := parseOK(t, `while (i < 10) { i = i + 1; }`)
	stmt, ok := stmts[0].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("expected WhileStmt, got %T", stmts[0])
	}
	body := stmt.Body.(*ast.BlockStmt)
	if len(body.Stmts) != 1 {
		t.Errorf("expected 1 body statement, got %d", len(body.Stmts))
	}
}

func TestParseFuncDecl(t *testing.T) {
	stmts := parseOK(t, `fn add(a: int, b: int): int { return a + b; }`)
	fn, ok := stmts[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected FuncDecl, got %T", stmts[0])
	}
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("expected add with 2 params, got %s with %d", fn.Name, len(fn.Params))
	}
	if fn.Params[1].Name != "b" || fn.Params[1].Type.Name != "int" {
		t.Errorf("expected b: int, got %s: %s", fn.Params[1].Name, fn.Params[1].Type)
	}
	if fn.ReturnType.Name != "int" {
		t.Errorf("expected return type int, got %s", fn.ReturnType)
	}
	if ret, ok := fn.Body.Stmts[0].(*ast.ReturnStmt); !ok || ret.Value == nil {
		t.Errorf("expected return with value, got %#v", fn.Body.Stmts[0])
	}
}

func TestParseFuncDeclDefaultsToVoid(t *testing.T) {
	stmts := parseOK(t, `fn hello() { print("hi"); return; }`)
	fn := stmts[0].(*ast.FuncDecl)
	if fn.ReturnType.Name != "void" {
		t.Errorf("expected void, got %s", fn.ReturnType)
	}
	if ret := fn.Body.Stmts[1].(*ast.ReturnStmt); ret.Value != nil {
		t.Errorf("expected bare return, got %#v", ret.Value)
	}
}

func TestParseClassDecl(t *testing.T) {
	source := `
class Point {
	prop x: int = 0
	prop y: int = 0
	prop label: string
	fn constructor(x: int, y: int) {
		this.x = x;
		this.y = y;
	}
	fn sum(): int { return this.x + this.y; }
}`
	stmts := parseOK(t, source)
	cls, ok := stmts[0].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("expected ClassDecl, got %T", stmts[0])
	}
	if cls.Name != "Point" {
		t.Errorf("expected Point, got %q", cls.Name)
	}
	if len(cls.Props) != 3 || len(cls.Methods) != 2 {
		t.Fatalf("expected 3 props and 2 methods, got %d and %d", len(cls.Props), len(cls.Methods))
	}
	if cls.Props[2].Type.Name != "string" || cls.Props[2].Default != nil {
		t.Errorf("expected label: string without default, got %s", cls.Props[2].Type)
	}
	if cls.Methods[0].Name != "constructor" {
		t.Errorf("expected constructor first, got %q", cls.Methods[0].Name)
	}
}

func TestParseClassUnexpectedMember(t *testing.T) {
	stmts, diags := parseWithErrors(t, `
class Bad {
	var x: int = 1
	fn ok(): int { return 1; }
}
print(1);`)
	if diags[0].Code != diag.CodeUnexpectedMember {
		t.Errorf("expected %s, got %s", diag.CodeUnexpectedMember, diags[0].Code)
	}
	if len(stmts) != 2 {
		t.Fatalf("expected class and print to survive, got %d statements", len(stmts))
	}
	cls := stmts[0].(*ast.ClassDecl)
	if len(cls.Methods) != 1 {
		t.Errorf("expected method after bad member to be kept, got %d", len(cls.Methods))
	}
}

func TestParseRecoverySkipsMalformedStatement(t *testing.T) {
	stmts, diags := parseWithErrors(t, `print(1); var x: int = ; print(2);`)
	if len(diags) != 1 {
		t.Errorf("expected 1 diagnostic, got %d:\n%s", len(diags), diag.Join(diags))
	}
	if diags[0].Code != diag.CodeExpectedExpression {
		t.Errorf("expected %s, got %s", diag.CodeExpectedExpression, diags[0].Code)
	}
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmts))
	}
	for i, want := range []int64{1, 2} {
		call := exprOf(t, stmts[i]).(*ast.CallExpr)
		if lit := call.Args[0].(*ast.LiteralExpr); lit.Value != want {
			t.Errorf("statement %d: expected print(%d), got %v", i, want, lit.Value)
		}
	}
}

func TestParseRecoveryAtStatementKeyword(t *testing.T) {
	stmts, _ := parseWithErrors(t, "var x: = 1\nvar y: int = 2")
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	if decl := stmts[0].(*ast.VarDecl); decl.Name != "y" {
		t.Errorf("expected y to survive, got %s", decl.Name)
	}
}

func TestParseRecoveryInsideBlock(t *testing.T) {
	stmts, diags := parseWithErrors(t, `fn f() { print(1); print(; print(2); } print(3);`)
	if len(diags) != 1 {
		t.Errorf("expected 1 diagnostic, got %d:\n%s", len(diags), diag.Join(diags))
	}
	if len(stmts) != 2 {
		t.Fatalf("expected function and trailing print, got %d statements", len(stmts))
	}
	fn := stmts[0].(*ast.FuncDecl)
	if len(fn.Body.Stmts) != 2 {
		t.Errorf("expected 2 surviving body statements, got %d", len(fn.Body.Stmts))
	}
}

func TestParseRecoveryBeforeClosingBrace(t *testing.T) {
	stmts, _ := parseWithErrors(t, `while (true) { x = } print(1);`)
	if len(stmts) != 2 {
		t.Fatalf("expected while and print, got %d statements", len(stmts))
	}
}

func TestParseErrDiagnostics(t *testing.T) {
	tokens, err := lexer.New("var x: int = ;\n)", "test.jot").Tokenize()
	if err != nil {
		t.Fatal(err)
	}
	p := New(tokens)
	_, diags := p.Parse()
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(diags))
	}
	var syntaxErr *SyntaxError
	if !errors.As(p.Err(), &syntaxErr) {
		t.Fatalf("expected *SyntaxError, got %T", p.Err())
	}
	if syntaxErr.Line() != 1 {
		t.Errorf("expected first error on line 1, got %d", syntaxErr.Line())
	}
	if diags[1].Line() != 2 {
		t.Errorf("expected second error on line 2, got %d", diags[1].Line())
	}
}

func TestParseCleanHasNoErr(t *testing.T) {
	tokens, _ := lexer.New(`var x: int = 1;`, "test.jot").Tokenize()
	p := New(tokens)
	p.Parse()
	if err := p.Err(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestParseDumpJSON(t *testing.T) {
	stmts := parseOK(t, `var x: int = 1 + 2;`)
	data, err := ast.DumpJSON(stmts)
	if err != nil {
		t.Fatalf("dump error: %v", err)
	}
	var out []map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out[0]["kind"] != "VarDecl" || out[0]["type"] != "int" {
		t.Errorf("unexpected dump: %s", data)
	}
	init := out[0]["init"].(map[string]interface{})
	if init["kind"] != "Binary" || init["op"] != "+" {
		t.Errorf("unexpected initializer dump: %v", init)
	}
}
