package lexer

import "fmt"

// TokenType represents the type of a token.
type TokenType int

// String returns a string representation of the token type.
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(tt))
}

// Token types for the Veld language.
const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenNewline
	TokenWhitespace
	TokenComment

	// Literals
	TokenIdent
	TokenInt
	TokenFloat
	TokenString

	// Keywords
	TokenVal
	TokenVar
	TokenFun
	TokenDef
	TokenTypeKw
	TokenEffect
	TokenNamespace
	TokenWith
	TokenReturn
	TokenIf
	TokenElse
	TokenWhile
	TokenDo
	TokenCase
	TokenTry
	TokenRegion
	TokenBox
	TokenUnbox
	TokenNew
	TokenIn
	TokenTrue
	TokenFalse

	// Operators
	TokenPlus
	TokenMinus
	TokenMul
	TokenDiv
	TokenConcat
	TokenAssign
	TokenEq
	TokenNeq
	TokenLt
	TokenLe
	TokenGt
	TokenGe
	TokenAnd
	TokenOr
	TokenBang

	// Punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenComma
	TokenSemicolon
	TokenColon
	TokenDoubleColon
	TokenDot
	TokenFatArrow
	TokenUnderscore
	TokenHole      // <>
	TokenHoleOpen  // <{
	TokenHoleClose // }>
)

// Token represents a lexical token. Tokens are produced once by the lexer
// and are read-only for the lifetime of a parse.
type Token struct {
	Kind   TokenType
	Text   string // identifier name or decoded literal value
	Offset int    // 0-based byte offset in the source
	// Multiline is set on string literals written with triple quotes.
	Multiline bool
}

// String returns a string representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("{Kind: %s, Text: %q, Offset: %d}", t.Kind.String(), t.Text, t.Offset)
}

// tokenNames provides string representations for token types.
var tokenNames = map[TokenType]string{
	TokenEOF:        "EOF",
	TokenNewline:    "NEWLINE",
	TokenWhitespace: "WHITESPACE",
	TokenComment:    "COMMENT",

	TokenIdent:  "IDENT",
	TokenInt:    "INT",
	TokenFloat:  "FLOAT",
	TokenString: "STRING",

	TokenVal:       "VAL",
	TokenVar:       "VAR",
	TokenFun:       "FUN",
	TokenDef:       "DEF",
	TokenTypeKw:    "TYPE",
	TokenEffect:    "EFFECT",
	TokenNamespace: "NAMESPACE",
	TokenWith:      "WITH",
	TokenReturn:    "RETURN",
	TokenIf:        "IF",
	TokenElse:      "ELSE",
	TokenWhile:     "WHILE",
	TokenDo:        "DO",
	TokenCase:      "CASE",
	TokenTry:       "TRY",
	TokenRegion:    "REGION",
	TokenBox:       "BOX",
	TokenUnbox:     "UNBOX",
	TokenNew:       "NEW",
	TokenIn:        "IN",
	TokenTrue:      "TRUE",
	TokenFalse:     "FALSE",

	TokenPlus:   "PLUS",
	TokenMinus:  "MINUS",
	TokenMul:    "MUL",
	TokenDiv:    "DIV",
	TokenConcat: "CONCAT",
	TokenAssign: "ASSIGN",
	TokenEq:     "EQ",
	TokenNeq:    "NEQ",
	TokenLt:     "LT",
	TokenLe:     "LE",
	TokenGt:     "GT",
	TokenGe:     "GE",
	TokenAnd:    "AND",
	TokenOr:     "OR",
	TokenBang:   "BANG",

	TokenLParen:      "LPAREN",
	TokenRParen:      "RPAREN",
	TokenLBrace:      "LBRACE",
	TokenRBrace:      "RBRACE",
	TokenLBracket:    "LBRACKET",
	TokenRBracket:    "RBRACKET",
	TokenComma:       "COMMA",
	TokenSemicolon:   "SEMICOLON",
	TokenColon:       "COLON",
	TokenDoubleColon: "DOUBLE_COLON",
	TokenDot:         "DOT",
	TokenFatArrow:    "FAT_ARROW",
	TokenUnderscore:  "UNDERSCORE",
	TokenHole:        "HOLE",
	TokenHoleOpen:    "HOLE_OPEN",
	TokenHoleClose:   "HOLE_CLOSE",
}

// keywords maps string keywords to their token types.
var keywords = map[string]TokenType{
	"val":       TokenVal,
	"var":       TokenVar,
	"fun":       TokenFun,
	"def":       TokenDef,
	"type":      TokenTypeKw,
	"effect":    TokenEffect,
	"namespace": TokenNamespace,
	"with":      TokenWith,
	"return":    TokenReturn,
	"if":        TokenIf,
	"else":      TokenElse,
	"while":     TokenWhile,
	"do":        TokenDo,
	"case":      TokenCase,
	"try":       TokenTry,
	"region":    TokenRegion,
	"box":       TokenBox,
	"unbox":     TokenUnbox,
	"new":       TokenNew,
	"in":        TokenIn,
	"true":      TokenTrue,
	"false":     TokenFalse,
}

// IsInsignificant reports whether the token carries no grammatical meaning
// and may appear anywhere between meaningful tokens.
func (tt TokenType) IsInsignificant() bool {
	switch tt {
	case TokenNewline, TokenWhitespace, TokenComment:
		return true
	}
	return false
}
