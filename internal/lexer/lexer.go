// Package lexer implements the Veld lexical analyzer. It turns raw source
// text into the flat token sequence consumed by the parser. Newlines and
// comments are emitted as tokens because the parser's semicolon insertion
// rule inspects them; runs of spaces and tabs are dropped.
package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer scans Veld source text.
type Lexer struct {
	src    string
	pos    int // current byte offset
	start  int // start offset of the token being scanned
	tokens []Token
}

// New creates a lexer for the given source text.
func New(src string) *Lexer {
	return &Lexer{src: src}
}

// Lex scans the entire source and returns the token sequence, terminated by
// exactly one EOF token. On a lexical error no tokens are returned.
func Lex(src string) ([]Token, error) {
	return New(src).Run()
}

// Run scans all tokens.
func (l *Lexer) Run() ([]Token, error) {
	for l.pos < len(l.src) {
		l.start = l.pos
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}
	l.start = l.pos
	l.emit(TokenEOF, "")
	return l.tokens, nil
}

func (l *Lexer) emit(kind TokenType, text string) {
	l.tokens = append(l.tokens, Token{Kind: kind, Text: text, Offset: l.start})
}

func (l *Lexer) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("lex error at offset %d: %s", l.start, fmt.Sprintf(format, args...))
}

func (l *Lexer) peekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekByteAt(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *Lexer) scanToken() error {
	c := l.src[l.pos]
	switch {
	case c == ' ' || c == '\t' || c == '\r':
		l.pos++
		return nil
	case c == '\n':
		l.pos++
		l.emit(TokenNewline, "\n")
		return nil
	case c == '/' && l.peekByteAt(1) == '/':
		return l.scanLineComment()
	case c == '/' && l.peekByteAt(1) == '*':
		return l.scanBlockComment()
	case c == '"':
		return l.scanString()
	case c >= '0' && c <= '9':
		return l.scanNumber()
	}

	if r, _ := utf8.DecodeRuneInString(l.src[l.pos:]); isIdentStart(r) {
		l.scanIdent()
		return nil
	}
	return l.scanOperator()
}

func (l *Lexer) scanLineComment() error {
	l.pos += 2
	begin := l.pos
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.pos++
	}
	l.emit(TokenComment, strings.TrimSpace(l.src[begin:l.pos]))
	return nil
}

func (l *Lexer) scanBlockComment() error {
	l.pos += 2
	begin := l.pos
	for l.pos < len(l.src) {
		if l.src[l.pos] == '*' && l.peekByteAt(1) == '/' {
			l.emit(TokenComment, strings.TrimSpace(l.src[begin:l.pos]))
			l.pos += 2
			return nil
		}
		l.pos++
	}
	return l.errorf("unterminated block comment")
}

func (l *Lexer) scanString() error {
	if strings.HasPrefix(l.src[l.pos:], `"""`) {
		return l.scanMultilineString()
	}
	l.pos++ // opening quote
	var sb strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch c {
		case '"':
			l.pos++
			l.emit(TokenString, sb.String())
			return nil
		case '\n':
			return l.errorf("newline in string literal")
		case '\\':
			l.pos++
			if l.pos >= len(l.src) {
				return l.errorf("unterminated string literal")
			}
			switch l.src[l.pos] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			default:
				return l.errorf("unknown escape sequence \\%c", l.src[l.pos])
			}
			l.pos++
		default:
			sb.WriteByte(c)
			l.pos++
		}
	}
	return l.errorf("unterminated string literal")
}

func (l *Lexer) scanMultilineString() error {
	l.pos += 3
	begin := l.pos
	for l.pos < len(l.src) {
		if strings.HasPrefix(l.src[l.pos:], `"""`) {
			text := l.src[begin:l.pos]
			l.pos += 3
			l.tokens = append(l.tokens, Token{
				Kind:      TokenString,
				Text:      text,
				Offset:    l.start,
				Multiline: true,
			})
			return nil
		}
		l.pos++
	}
	return l.errorf("unterminated multiline string literal")
}

func (l *Lexer) scanNumber() error {
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	kind := TokenInt
	if l.peekByte() == '.' && isDigit(l.peekByteAt(1)) {
		kind = TokenFloat
		l.pos++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}
	l.emit(kind, l.src[l.start:l.pos])
	return nil
}

func (l *Lexer) scanIdent() {
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !isIdentPart(r) {
			break
		}
		l.pos += size
	}
	text := l.src[l.start:l.pos]
	if text == "_" {
		l.emit(TokenUnderscore, text)
		return
	}
	if kind, ok := keywords[text]; ok {
		l.emit(kind, text)
		return
	}
	l.emit(TokenIdent, text)
}

// operators ordered so that the longest spelling wins.
var operators = []struct {
	text string
	kind TokenType
}{
	{"===", TokenEq},
	{"!==", TokenNeq},
	{"=>", TokenFatArrow},
	{"<=", TokenLe},
	{">=", TokenGe},
	{"<>", TokenHole},
	{"<{", TokenHoleOpen},
	{"}>", TokenHoleClose},
	{"::", TokenDoubleColon},
	{"++", TokenConcat},
	{"&&", TokenAnd},
	{"||", TokenOr},
	{"=", TokenAssign},
	{"<", TokenLt},
	{">", TokenGt},
	{"+", TokenPlus},
	{"-", TokenMinus},
	{"*", TokenMul},
	{"/", TokenDiv},
	{"!", TokenBang},
	{"(", TokenLParen},
	{")", TokenRParen},
	{"{", TokenLBrace},
	{"}", TokenRBrace},
	{"[", TokenLBracket},
	{"]", TokenRBracket},
	{",", TokenComma},
	{";", TokenSemicolon},
	{":", TokenColon},
	{".", TokenDot},
}

func (l *Lexer) scanOperator() error {
	rest := l.src[l.pos:]
	for _, op := range operators {
		if strings.HasPrefix(rest, op.text) {
			l.pos += len(op.text)
			l.emit(op.kind, op.text)
			return nil
		}
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return l.errorf("unexpected character %q", r)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// LineCol converts a byte offset into a 1-based line and column, for
// rendering diagnostics against the original source text.
func LineCol(src string, offset int) (line, col int) {
	line, col = 1, 1
	if offset > len(src) {
		offset = len(src)
	}
	for _, r := range src[:offset] {
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
