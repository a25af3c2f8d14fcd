package lexer

import (
	"fmt"

	"github.com/aledsdavies/helios/pkgs/diagnostics"
)

// TokenType represents the type of token in a helios source file
type TokenType int

const (
	// Special tokens
	EOF TokenType = iota
	NEWLINE // \n - statement terminator

	// Words and literals
	IDENTIFIER // user names: count, handler, hero
	KEYWORD    // reserved words: page, view, state, if, ...
	INT        // 42
	FLOAT      // 3.14
	STRING     // "hello" or 'hello'

	// Operators
	ASSIGN    // =
	PLUS      // +
	MINUS     // -
	STAR      // *
	SLASH     // /
	PERCENT   // %
	INCREMENT // ++
	DECREMENT // --
	EQ        // ==
	NOT_EQ    // !=
	BANG      // ! - only meaningful inside stylesheets (!important)
	LT        // <
	GT        // >
	LT_EQ     // <=
	GT_EQ     // >=

	// Punctuation
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]
	COMMA     // ,
	COLON     // : - state initialisers, dict entries, for clauses
	SEMICOLON // ; - stylesheet declarations
	DOT       // . - instance calls, class selectors
	HASH      // # - dict marker, colours
	AT        // @ - @state, @media
)

// Pre-computed token name lookup for diagnostics
var tokenNames = [...]string{
	EOF:        "EOF",
	NEWLINE:    "NEWLINE",
	IDENTIFIER: "IDENTIFIER",
	KEYWORD:    "KEYWORD",
	INT:        "INT",
	FLOAT:      "FLOAT",
	STRING:     "STRING",
	ASSIGN:     "ASSIGN",
	PLUS:       "PLUS",
	MINUS:      "MINUS",
	STAR:       "STAR",
	SLASH:      "SLASH",
	PERCENT:    "PERCENT",
	INCREMENT:  "INCREMENT",
	DECREMENT:  "DECREMENT",
	EQ:         "EQ",
	NOT_EQ:     "NOT_EQ",
	BANG:       "BANG",
	LT:         "LT",
	GT:         "GT",
	LT_EQ:      "LT_EQ",
	GT_EQ:      "GT_EQ",
	LPAREN:     "LPAREN",
	RPAREN:     "RPAREN",
	LBRACE:     "LBRACE",
	RBRACE:     "RBRACE",
	LBRACKET:   "LBRACKET",
	RBRACKET:   "RBRACKET",
	COMMA:      "COMMA",
	COLON:      "COLON",
	SEMICOLON:  "SEMICOLON",
	DOT:        "DOT",
	HASH:       "HASH",
	AT:         "AT",
}

func (t TokenType) String() string {
	if int(t) < len(tokenNames) && int(t) >= 0 {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Keywords is the fixed reserved-word set. Membership is tested after a whole
// word has been scanned, so reserved words are never contextual.
var Keywords = map[string]bool{
	"if": true, "else": true, "while": true, "for": true, "return": true,
	"class": true, "import": true, "pass": true, "break": true, "continue": true,
	"def": true, "type": true, "true": true, "false": true, "print": true,
	"page": true, "app": true, "view": true, "text": true, "img": true,
	"input": true, "state": true, "go": true, "stylesheet": true,
	"to_int": true, "to_str": true, "to_float": true, "draw": true,
	"sin": true, "sqrt": true, "cos": true, "tan": true, "pow": true,
	"canvas": true, "Platform": true,
}

// QuoteStyle records which delimiter a string literal used
type QuoteStyle int

const (
	NoQuote     QuoteStyle = iota
	DoubleQuote            // "string"
	SingleQuote            // 'string'
)

// Token represents a single token with position information
type Token struct {
	Type   TokenType
	Text   string // decoded value: escapes resolved, quotes stripped
	Raw    string // exact lexeme as written
	Line   int
	Column int

	// SourceLine is the full line the token starts on, for caret diagnostics
	SourceLine string
	Quote      QuoteStyle
}

// Is reports whether the token is the given keyword
func (t Token) Is(keyword string) bool {
	return t.Type == KEYWORD && t.Text == keyword
}

// Position returns a formatted position string for debugging
func (t Token) Position() string {
	return fmt.Sprintf("%d:%d", t.Line, t.Column)
}

// Span returns the diagnostic span covering the lexeme
func (t Token) Span() diagnostics.Span {
	n := len(t.Raw)
	if t.Type == NEWLINE || t.Type == EOF {
		n = 1
	}
	return diagnostics.Span{Line: t.Line, Column: t.Column, Length: n, Source: t.SourceLine}
}

func (t Token) String() string {
	switch t.Type {
	case EOF:
		return "end of file"
	case NEWLINE:
		return "newline"
	}
	return t.Raw
}
