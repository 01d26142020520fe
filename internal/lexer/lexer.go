// Package lexer turns Jot source text into tokens.
package lexer

import (
	"jot-lang/internal/diag"
	"jot-lang/internal/span"
	"jot-lang/internal/token"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer is a single-pass scanner over one source text. It is not
// restartable: call Tokenize once.
type Lexer struct {
	source   string
	filename string

	pos  int // current read position in source
	line int // current line (1-based)
	col  int // current column (1-based)

	err *LexError
}

// New creates a new Lexer for the given source text.
func New(source, filename string) *Lexer {
	return &Lexer{
		source:   source,
		filename: filename,
		line:     1,
		col:      1,
	}
}

// Tokenize scans the source and returns every token, ending with EOF.
// Scanning stops at the first lexical error, which is returned as a *LexError.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	var tokens []token.Token
	for {
		tok, ok := l.nextToken()
		if !ok {
			return nil, l.err
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens, nil
		}
	}
}

// ---- cursor ----

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.source)
}

func (l *Lexer) peek() byte {
	if l.atEnd() {
		return 0
	}
	return l.source[l.pos]
}

func (l *Lexer) peekNext() byte {
	if l.pos+1 >= len(l.source) {
		return 0
	}
	return l.source[l.pos+1]
}

// advance consumes one rune and returns its first byte.
func (l *Lexer) advance() byte {
	ch := l.source[l.pos]
	if ch < utf8.RuneSelf {
		l.pos++
	} else {
		_, size := utf8.DecodeRuneInString(l.source[l.pos:])
		l.pos += size
	}
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

// match consumes the current byte if it equals want.
func (l *Lexer) match(want byte) bool {
	if l.peek() != want {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) curPos() span.Position {
	return span.Position{Offset: l.pos, Line: l.line, Column: l.col}
}

func (l *Lexer) makeSpan(start span.Position) span.Span {
	return span.Span{Start: start, End: l.curPos()}
}

func (l *Lexer) fail(code string, s span.Span, format string, args ...interface{}) (token.Token, bool) {
	l.err = &LexError{
		Diag:     diag.Errorf(diag.Lex, code, s, format, args...),
		Filename: l.filename,
	}
	return token.Token{}, false
}

func (l *Lexer) emit(kind token.Kind, start span.Position) (token.Token, bool) {
	return token.Token{Kind: kind, Lexeme: l.source[start.Offset:l.pos], Span: l.makeSpan(start)}, true
}

// skipTrivia skips whitespace and comments. It reports false if a block
// comment is left open.
func (l *Lexer) skipTrivia() bool {
	for !l.atEnd() {
		switch ch := l.peek(); {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.advance()
		case ch == '/' && l.peekNext() == '/':
			for !l.atEnd() && l.peek() != '\n' {
				l.advance()
			}
		case ch == '/' && l.peekNext() == '*':
			start := l.curPos()
			l.advance()
			l.advance()
			closed := false
			for !l.atEnd() {
				if l.peek() == '*' && l.peekNext() == '/' {
					l.advance()
					l.advance()
					closed = true
					break
				}
				l.advance()
			}
			if !closed {
				l.fail(diag.CodeUnterminatedComment, l.makeSpan(start), "unterminated block comment starting on line %d", start.Line)
				return false
			}
		default:
			return true
		}
	}
	return true
}

// ---- token reading ----

func (l *Lexer) nextToken() (token.Token, bool) {
	if !l.skipTrivia() {
		return token.Token{}, false
	}

	start := l.curPos()
	if l.atEnd() {
		return token.Token{Kind: token.EOF, Span: l.makeSpan(start)}, true
	}

	ch := l.peek()
	switch {
	case ch == '"':
		return l.readString(start)
	case isDigit(ch):
		return l.readNumber(start)
	case l.isIdentStart():
		return l.readIdentifier(start)
	}
	return l.readOperator(start)
}

// readString reads a double-quoted string literal. Strings may span lines.
func (l *Lexer) readString(start span.Position) (token.Token, bool) {
	l.advance() // opening "
	var value strings.Builder

	for !l.atEnd() {
		ch := l.peek()
		if ch == '"' {
			l.advance()
			tok, _ := l.emit(token.STRING, start)
			tok.Literal = value.String()
			return tok, true
		}
		if ch == '\\' {
			escPos := l.curPos()
			l.advance()
			if l.atEnd() {
				break
			}
			esc := l.advance()
			switch esc {
			case 'n':
				value.WriteByte('\n')
			case 't':
				value.WriteByte('\t')
			case '\\':
				value.WriteByte('\\')
			case '"':
				value.WriteByte('"')
			default:
				return l.fail(diag.CodeUnknownEscape, l.makeSpan(escPos), "unknown escape sequence '\\%c' on line %d", esc, escPos.Line)
			}
			continue
		}
		runeStart := l.pos
		l.advance()
		value.WriteString(l.source[runeStart:l.pos])
	}

	return l.fail(diag.CodeUnterminatedString, l.makeSpan(start), "unterminated string starting on line %d", start.Line)
}

// readNumber reads an integer or float literal. A '.' only continues the
// number when a digit follows it.
func (l *Lexer) readNumber(start span.Position) (token.Token, bool) {
	for isDigit(l.peek()) {
		l.advance()
	}

	kind := token.INT
	if l.peek() == '.' && isDigit(l.peekNext()) {
		kind = token.FLOAT
		l.advance() // '.'
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	tok, _ := l.emit(kind, start)
	if kind == token.FLOAT {
		f, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return l.fail(diag.CodeUnexpectedChar, tok.Span, "invalid number %q on line %d", tok.Lexeme, start.Line)
		}
		tok.Literal = f
		return tok, true
	}
	n, err := strconv.ParseInt(tok.Lexeme, 10, 64)
	if err != nil {
		return l.fail(diag.CodeUnexpectedChar, tok.Span, "integer literal %s out of range on line %d", tok.Lexeme, start.Line)
	}
	tok.Literal = n
	return tok, true
}

func (l *Lexer) readIdentifier(start span.Position) (token.Token, bool) {
	for !l.atEnd() && (l.isIdentStart() || isDigit(l.peek())) {
		l.advance()
	}

	tok, _ := l.emit(token.LookupIdent(l.source[start.Offset:l.pos]), start)
	switch tok.Kind {
	case token.KW_TRUE:
		tok.Literal = true
	case token.KW_FALSE:
		tok.Literal = false
	}
	return tok, true
}

func (l *Lexer) readOperator(start span.Position) (token.Token, bool) {
	ch := l.advance()

	switch ch {
	case '(':
		return l.emit(token.LPAREN, start)
	case ')':
		return l.emit(token.RPAREN, start)
	case '{':
		return l.emit(token.LBRACE, start)
	case '}':
		return l.emit(token.RBRACE, start)
	case ',':
		return l.emit(token.COMMA, start)
	case '.':
		return l.emit(token.DOT, start)
	case ';':
		return l.emit(token.SEMICOLON, start)
	case ':':
		return l.emit(token.COLON, start)
	case '+':
		return l.emit(token.PLUS, start)
	case '-':
		return l.emit(token.MINUS, start)
	case '*':
		return l.emit(token.STAR, start)
	case '/':
		return l.emit(token.SLASH, start)
	case '!':
		if l.match('=') {
			return l.emit(token.NEQ, start)
		}
		return l.emit(token.BANG, start)
	case '=':
		if l.match('=') {
			return l.emit(token.EQ, start)
		}
		return l.emit(token.ASSIGN, start)
	case '<':
		if l.match('=') {
			return l.emit(token.LTE, start)
		}
		return l.emit(token.LT, start)
	case '>':
		if l.match('=') {
			return l.emit(token.GTE, start)
		}
		return l.emit(token.GT, start)
	case '&':
		if l.match('&') {
			return l.emit(token.AND, start)
		}
		return l.fail(diag.CodeUnexpectedChar, l.makeSpan(start), "unexpected character '&' on line %d, did you mean '&&'?", start.Line)
	case '|':
		if l.match('|') {
			return l.emit(token.OR, start)
		}
		return l.fail(diag.CodeUnexpectedChar, l.makeSpan(start), "unexpected character '|' on line %d, did you mean '||'?", start.Line)
	}

	r, _ := utf8.DecodeRuneInString(l.source[start.Offset:])
	return l.fail(diag.CodeUnexpectedChar, l.makeSpan(start), "unexpected character '%c' on line %d", r, start.Line)
}

// ---- character classification ----

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// isIdentStart reports whether the rune at the cursor can start an identifier.
// Non-ASCII letters are accepted.
func (l *Lexer) isIdentStart() bool {
	ch := l.peek()
	if ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') {
		return true
	}
	if ch >= utf8.RuneSelf {
		r, _ := utf8.DecodeRuneInString(l.source[l.pos:])
		return unicode.IsLetter(r)
	}
	return false
}
