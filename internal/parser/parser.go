// Package parser builds a Jot syntax tree from tokens.
// Statements and declarations use recursive descent; expressions use
// binding-power precedence climbing.
package parser

import (
	"errors"
	"jot-lang/internal/ast"
	"jot-lang/internal/diag"
	"jot-lang/internal/span"
	"jot-lang/internal/token"
)

// ============================================================
// Binding power (precedence) levels
// ============================================================

const (
	bpNone       = 0
	bpOr         = 10 // or ||
	bpAnd        = 20 // and &&
	bpEquality   = 30 // == !=
	bpComparison = 40 // < <= > >=
	bpAdditive   = 50 // + -
	bpMultiply   = 60 // * /
	bpPrefix     = 70 // ! -
	bpPostfix    = 80 // () .
)

// infixBP returns the left binding power for an infix/postfix operator.
func infixBP(kind token.Kind) int {
	switch kind {
	case token.OR:
		return bpOr
	case token.AND:
		return bpAnd
	case token.EQ, token.NEQ:
		return bpEquality
	case token.LT, token.LTE, token.GT, token.GTE:
		return bpComparison
	case token.PLUS, token.MINUS:
		return bpAdditive
	case token.STAR, token.SLASH:
		return bpMultiply
	case token.LPAREN, token.DOT:
		return bpPostfix
	default:
		return bpNone
	}
}

// errSyntax unwinds the current declaration after its diagnostic has been
// recorded. It never leaves the package.
var errSyntax = errors.New("syntax error")

// ============================================================
// Parser
// ============================================================

// Parser performs syntax analysis on a stream of tokens.
type Parser struct {
	tokens []token.Token
	pos    int
	depth  int // enclosing braces
	diags  []diag.Diagnostic
}

// New creates a new parser from a token slice ending in EOF.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses the whole program. Malformed statements are reported as
// diagnostics and left out of the result; parsing resumes at the next
// statement boundary.
func (p *Parser) Parse() ([]ast.Stmt, []diag.Diagnostic) {
	var stmts []ast.Stmt
	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts, p.diags
}

// Err returns the collected diagnostics as a *SyntaxError, or nil if the
// program parsed cleanly.
func (p *Parser) Err() error {
	if len(p.diags) == 0 {
		return nil
	}
	return &SyntaxError{Diags: p.diags}
}

// ---- navigation helpers ----

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		if len(p.tokens) > 0 {
			last := p.tokens[len(p.tokens)-1]
			return token.Token{Kind: token.EOF, Span: span.Span{Start: last.Span.End, End: last.Span.End}}
		}
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekKind() token.Kind {
	return p.peek().Kind
}

func (p *Parser) previous() token.Token {
	if p.pos == 0 {
		return token.Token{}
	}
	return p.tokens[p.pos-1]
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peekKind() == kind
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) isAtEnd() bool {
	return p.peekKind() == token.EOF
}

// expect consumes a token of the given kind or records an E2001 diagnostic.
func (p *Parser) expect(kind token.Kind, context string) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return token.Token{}, p.errorAtCurrent(diag.CodeExpectedToken, "expected '%s' %s, got %s", kind, context, describe(p.peek()))
}

// expectType consumes a type annotation.
func (p *Parser) expectType(context string) (ast.TypeRef, error) {
	tok := p.peek()
	if !tok.Kind.IsTypeName() {
		return ast.TypeRef{}, p.errorAtCurrent(diag.CodeExpectedToken, "expected type name %s, got %s", context, describe(tok))
	}
	p.advance()
	return ast.TypeRef{Name: tok.Lexeme, Span: tok.Span}, nil
}

func (p *Parser) errorAt(code string, s span.Span, format string, args ...interface{}) error {
	p.diags = append(p.diags, diag.Errorf(diag.Syntax, code, s, format, args...))
	return errSyntax
}

func (p *Parser) errorAtCurrent(code string, format string, args ...interface{}) error {
	return p.errorAt(code, p.peek().Span, format, args...)
}

func describe(tok token.Token) string {
	if tok.Kind == token.EOF {
		return "end of input"
	}
	return "'" + tok.Lexeme + "'"
}

// ============================================================
// Error recovery
// ============================================================

// synchronize discards tokens until a statement boundary: just past a ';',
// before a statement keyword, or before a '}' that closes an enclosing block.
func (p *Parser) synchronize(stmtStart int) {
	for !p.isAtEnd() {
		if p.check(token.RBRACE) && p.depth > 0 {
			return
		}
		if p.pos > stmtStart {
			if p.previous().Kind == token.SEMICOLON {
				return
			}
			if p.peekKind().StartsStatement() {
				return
			}
		}
		p.advance()
	}
}

// ============================================================
// Declarations
// ============================================================

// declaration parses one declaration or statement, recovering on error.
// It returns nil when the statement was malformed.
func (p *Parser) declaration() ast.Stmt {
	start := p.pos
	stmt, err := p.parseDeclaration()
	if err != nil {
		p.synchronize(start)
		return nil
	}
	return stmt
}

func (p *Parser) parseDeclaration() (ast.Stmt, error) {
	switch p.peekKind() {
	case token.KW_CLASS:
		return p.parseClassDecl()
	case token.KW_FN:
		return p.parseFuncDecl()
	case token.KW_VAR:
		return p.parseVarDecl()
	case token.KW_PROP:
		return p.parsePropDecl()
	default:
		return p.parseStatement()
	}
}

// parseClassDecl parses: class IDENT { ( propDecl | fnDecl )* }
// A bad member is reported and skipped; the rest of the class survives.
func (p *Parser) parseClassDecl() (*ast.ClassDecl, error) {
	start := p.advance() // consume 'class'
	nameTok, err := p.expect(token.IDENT, "after 'class'")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE, "before class body"); err != nil {
		return nil, err
	}

	decl := &ast.ClassDecl{Name: nameTok.Lexeme}
	p.depth++
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		memberStart := p.pos
		switch p.peekKind() {
		case token.KW_PROP:
			prop, err := p.parsePropDecl()
			if err != nil {
				p.skipMember(memberStart)
				continue
			}
			decl.Props = append(decl.Props, prop)
		case token.KW_FN:
			fn, err := p.parseFuncDecl()
			if err != nil {
				p.skipMember(memberStart)
				continue
			}
			decl.Methods = append(decl.Methods, fn)
		default:
			p.errorAtCurrent(diag.CodeUnexpectedMember, "expected 'prop' or 'fn' in body of class %s, got %s", decl.Name, describe(p.peek()))
			p.skipMember(memberStart)
		}
	}
	p.depth--

	if _, err := p.expect(token.RBRACE, "after class body"); err != nil {
		return nil, err
	}
	decl.Span = p.makeSpan(start.Span.Start)
	return decl, nil
}

// skipMember discards tokens until the next class member or the brace
// closing the class body. Braced bodies inside the bad member are skipped whole.
func (p *Parser) skipMember(memberStart int) {
	if p.pos == memberStart && !p.isAtEnd() && !p.check(token.RBRACE) {
		p.advance()
	}
	nested := 0
	for !p.isAtEnd() {
		switch p.peekKind() {
		case token.LBRACE:
			nested++
		case token.RBRACE:
			if nested == 0 {
				return
			}
			nested--
		case token.KW_PROP, token.KW_FN:
			if nested == 0 {
				return
			}
		}
		p.advance()
	}
}

// parseFuncDecl parses: fn IDENT ( params ) ( : type )? block
func (p *Parser) parseFuncDecl() (*ast.FuncDecl, error) {
	start := p.advance() // consume 'fn'
	nameTok, err := p.expect(token.IDENT, "after 'fn'")
	if err != nil {
		return nil, err
	}
	decl := &ast.FuncDecl{Name: nameTok.Lexeme}

	if decl.Params, err = p.parseParamList(); err != nil {
		return nil, err
	}

	if p.match(token.COLON) {
		if decl.ReturnType, err = p.expectType("after ':' in function signature"); err != nil {
			return nil, err
		}
	} else {
		decl.ReturnType = ast.Void(p.previous().Span)
	}

	if !p.check(token.LBRACE) {
		_, err := p.expect(token.LBRACE, "before function body")
		return nil, err
	}
	if decl.Body, err = p.parseBlock(); err != nil {
		return nil, err
	}
	decl.Span = p.makeSpan(start.Span.Start)
	return decl, nil
}

// parseParamList parses: ( ( IDENT : type ( , IDENT : type )* )? )
func (p *Parser) parseParamList() ([]ast.Param, error) {
	if _, err := p.expect(token.LPAREN, "before parameter list"); err != nil {
		return nil, err
	}

	var params []ast.Param
	if !p.check(token.RPAREN) {
		for {
			nameTok, err := p.expect(token.IDENT, "as parameter name")
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.COLON, "after parameter name"); err != nil {
				return nil, err
			}
			typ, err := p.expectType("for parameter " + nameTok.Lexeme)
			if err != nil {
				return nil, err
			}
			params = append(params, ast.Param{
				Name: nameTok.Lexeme,
				Type: typ,
				Span: span.Span{Start: nameTok.Span.Start, End: typ.Span.End},
			})
			if !p.match(token.COMMA) {
				break
			}
		}
	}

	if _, err := p.expect(token.RPAREN, "after parameters"); err != nil {
		return nil, err
	}
	return params, nil
}

// parseVarDecl parses: var IDENT : type ( = expression )? ;?
func (p *Parser) parseVarDecl() (*ast.VarDecl, error) {
	start := p.advance() // consume 'var'
	nameTok, err := p.expect(token.IDENT, "after 'var'")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON, "after variable name"); err != nil {
		return nil, err
	}
	decl := &ast.VarDecl{Name: nameTok.Lexeme}
	if decl.Type, err = p.expectType("for variable " + nameTok.Lexeme); err != nil {
		return nil, err
	}

	if p.match(token.ASSIGN) {
		if decl.Init, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	p.match(token.SEMICOLON)
	decl.Span = p.makeSpan(start.Span.Start)
	return decl, nil
}

// parsePropDecl parses: prop IDENT : type ( = expression )? ;?
func (p *Parser) parsePropDecl() (*ast.PropDecl, error) {
	start := p.advance() // consume 'prop'
	nameTok, err := p.expect(token.IDENT, "after 'prop'")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON, "after property name"); err != nil {
		return nil, err
	}
	decl := &ast.PropDecl{Name: nameTok.Lexeme}
	if decl.Type, err = p.expectType("for property " + nameTok.Lexeme); err != nil {
		return nil, err
	}

	if p.match(token.ASSIGN) {
		if decl.Default, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	p.match(token.SEMICOLON)
	decl.Span = p.makeSpan(start.Span.Start)
	return decl, nil
}

// ============================================================
// Statements
// ============================================================

func (p *Parser) parseStatement() (ast.Stmt, error) {
	switch p.peekKind() {
	case token.KW_IF:
		return p.parseIfStmt()
	case token.KW_WHILE:
		return p.parseWhileStmt()
	case token.KW_RETURN:
		return p.parseReturnStmt()
	case token.LBRACE:
		return p.parseBlock()
	default:
		return p.parseExprStmt()
	}
}

// parseIfStmt parses: if ( expression ) statement ( else statement )?
func (p *Parser) parseIfStmt() (*ast.IfStmt, error) {
	start := p.advance() // consume 'if'
	if _, err := p.expect(token.LPAREN, "after 'if'"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN, "after if condition"); err != nil {
		return nil, err
	}

	stmt := &ast.IfStmt{Condition: cond}
	if stmt.Then, err = p.parseStatement(); err != nil {
		return nil, err
	}
	if p.match(token.KW_ELSE) {
		if stmt.Else, err = p.parseStatement(); err != nil {
			return nil, err
		}
	}
	stmt.Span = p.makeSpan(start.Span.Start)
	return stmt, nil
}

// parseWhileStmt parses: while ( expression ) statement
func (p *Parser) parseWhileStmt() (*ast.WhileStmt, error) {
	start := p.advance() // consume 'while'
	if _, err := p.expect(token.LPAREN, "after 'while'"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN, "after while condition"); err != nil {
		return nil, err
	}

	stmt := &ast.WhileStmt{Condition: cond}
	if stmt.Body, err = p.parseStatement(); err != nil {
		return nil, err
	}
	stmt.Span = p.makeSpan(start.Span.Start)
	return stmt, nil
}

// parseReturnStmt parses: return expression? ;?
func (p *Parser) parseReturnStmt() (*ast.ReturnStmt, error) {
	start := p.advance() // consume 'return'
	stmt := &ast.ReturnStmt{}

	if !p.check(token.SEMICOLON) && !p.check(token.RBRACE) && !p.isAtEnd() {
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Value = value
	}
	p.match(token.SEMICOLON)
	stmt.Span = p.makeSpan(start.Span.Start)
	return stmt, nil
}

// parseBlock parses: { declaration* }
// Malformed statements inside the block are dropped individually.
func (p *Parser) parseBlock() (*ast.BlockStmt, error) {
	start, err := p.expect(token.LBRACE, "to open block")
	if err != nil {
		return nil, err
	}

	block := &ast.BlockStmt{}
	p.depth++
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		}
	}
	p.depth--

	if _, err := p.expect(token.RBRACE, "to close block"); err != nil {
		return nil, err
	}
	block.Span = p.makeSpan(start.Span.Start)
	return block, nil
}

// parseExprStmt parses: expression ;?
func (p *Parser) parseExprStmt() (*ast.ExprStmt, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.match(token.SEMICOLON)
	return &ast.ExprStmt{
		StmtBase: makeStmtBase(expr.GetSpan().Start, p.prevEnd()),
		Expr:     expr,
	}, nil
}

// ============================================================
// Expressions
// ============================================================

// parseExpression parses a full expression, including assignment.
func (p *Parser) parseExpression() (ast.Expr, error) {
	return p.parseAssignment()
}

// parseAssignment parses the right-associative assignment level. The
// target must be a variable or a member access.
func (p *Parser) parseAssignment() (ast.Expr, error) {
	target, err := p.parseExpr(bpNone)
	if err != nil {
		return nil, err
	}
	if !p.check(token.ASSIGN) {
		return target, nil
	}

	eq := p.advance()
	value, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}

	switch t := target.(type) {
	case *ast.VariableExpr:
		return &ast.AssignExpr{
			ExprBase: makeExprBase(t.Span.Start, value.GetSpan().End),
			Name:     t.Name,
			Value:    value,
		}, nil
	case *ast.GetExpr:
		return &ast.SetExpr{
			ExprBase: makeExprBase(t.Span.Start, value.GetSpan().End),
			Object:   t.Object,
			Name:     t.Name,
			Value:    value,
		}, nil
	}
	return nil, p.errorAt(diag.CodeInvalidAssignment, eq.Span, "invalid assignment target")
}

// parseExpr parses an expression with the given minimum binding power.
func (p *Parser) parseExpr(minBP int) (ast.Expr, error) {
	left, err := p.nud()
	if err != nil {
		return nil, err
	}

	for infixBP(p.peekKind()) > minBP {
		if left, err = p.led(left); err != nil {
			return nil, err
		}
	}
	return left, nil
}

// nud parses a prefix expression or primary.
func (p *Parser) nud() (ast.Expr, error) {
	tok := p.peek()

	switch tok.Kind {
	case token.INT, token.FLOAT, token.STRING, token.KW_TRUE, token.KW_FALSE:
		p.advance()
		return &ast.LiteralExpr{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
			Value:    tok.Literal,
		}, nil

	case token.KW_NULL:
		p.advance()
		return &ast.LiteralExpr{ExprBase: makeExprBase(tok.Span.Start, tok.Span.End)}, nil

	case token.KW_THIS:
		p.advance()
		return &ast.ThisExpr{ExprBase: makeExprBase(tok.Span.Start, tok.Span.End)}, nil

	case token.IDENT:
		p.advance()
		return &ast.VariableExpr{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
			Name:     tok.Lexeme,
		}, nil

	case token.LPAREN:
		p.advance() // consume '('
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		end, err := p.expect(token.RPAREN, "after expression")
		if err != nil {
			return nil, err
		}
		return &ast.GroupingExpr{
			ExprBase: makeExprBase(tok.Span.Start, end.Span.End),
			Inner:    inner,
		}, nil

	case token.BANG, token.MINUS:
		p.advance()
		operand, err := p.parseExpr(bpPrefix)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{
			ExprBase: makeExprBase(tok.Span.Start, operand.GetSpan().End),
			Op:       tok.Kind,
			Operand:  operand,
		}, nil

	case token.KW_NEW:
		return p.parseNewExpr()
	}

	return nil, p.errorAtCurrent(diag.CodeExpectedExpression, "expected expression, got %s", describe(tok))
}

// led parses an infix or postfix continuation of left.
func (p *Parser) led(left ast.Expr) (ast.Expr, error) {
	tok := p.peek()

	switch tok.Kind {
	case token.LPAREN:
		return p.parseCallExpr(left)

	case token.DOT:
		p.advance() // consume '.'
		nameTok, err := p.expect(token.IDENT, "after '.'")
		if err != nil {
			return nil, err
		}
		return &ast.GetExpr{
			ExprBase: makeExprBase(left.GetSpan().Start, nameTok.Span.End),
			Object:   left,
			Name:     nameTok.Lexeme,
		}, nil
	}

	// Binary infix operator (left-associative)
	bp := infixBP(tok.Kind)
	p.advance()
	right, err := p.parseExpr(bp)
	if err != nil {
		return nil, err
	}
	return &ast.BinaryExpr{
		ExprBase: makeExprBase(left.GetSpan().Start, right.GetSpan().End),
		Op:       tok.Kind,
		Left:     left,
		Right:    right,
	}, nil
}

// parseArgs parses: ( ( expression ( , expression )* )? ) with the '('
// already consumed. It returns the closing token.
func (p *Parser) parseArgs() ([]ast.Expr, token.Token, error) {
	var args []ast.Expr
	if !p.check(token.RPAREN) {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, token.Token{}, err
			}
			args = append(args, arg)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	end, err := p.expect(token.RPAREN, "after arguments")
	if err != nil {
		return nil, token.Token{}, err
	}
	return args, end, nil
}

func (p *Parser) parseCallExpr(callee ast.Expr) (*ast.CallExpr, error) {
	p.advance() // consume '('
	args, end, err := p.parseArgs()
	if err != nil {
		return nil, err
	}
	return &ast.CallExpr{
		ExprBase: makeExprBase(callee.GetSpan().Start, end.Span.End),
		Callee:   callee,
		Args:     args,
	}, nil
}

// parseNewExpr parses: new IDENT ( ( args? ) )?
func (p *Parser) parseNewExpr() (*ast.NewExpr, error) {
	start := p.advance() // consume 'new'
	nameTok, err := p.expect(token.IDENT, "after 'new'")
	if err != nil {
		return nil, err
	}

	expr := &ast.NewExpr{ClassName: nameTok.Lexeme}
	if p.match(token.LPAREN) {
		if expr.Args, _, err = p.parseArgs(); err != nil {
			return nil, err
		}
	}
	expr.ExprBase = makeExprBase(start.Span.Start, p.prevEnd())
	return expr, nil
}

// ============================================================
// Span helpers
// ============================================================

func (p *Parser) prevEnd() span.Position {
	if p.pos > 0 && p.pos-1 < len(p.tokens) {
		return p.tokens[p.pos-1].Span.End
	}
	return p.peek().Span.Start
}

func (p *Parser) makeSpan(start span.Position) span.Span {
	return span.Span{Start: start, End: p.prevEnd()}
}

func makeExprBase(start, end span.Position) ast.ExprBase {
	return ast.ExprBase{NodeBase: ast.NodeBase{Span: span.Span{Start: start, End: end}}}
}

func makeStmtBase(start, end span.Position) ast.StmtBase {
	return ast.StmtBase{NodeBase: ast.NodeBase{Span: span.Span{Start: start, End: end}}}
}
