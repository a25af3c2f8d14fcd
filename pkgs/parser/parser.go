package parser

import (
	"fmt"
	"strings"

	"github.com/aledsdavies/helios/pkgs/ast"
	"github.com/aledsdavies/helios/pkgs/lexer"
)

// Parser implements a recursive descent parser for helios sources. It keeps
// one token of lookahead and stops at the first grammar violation.
type Parser struct {
	tokens   []lexer.Token
	current  lexer.Token
	previous lexer.Token
	pos      int
	config   Config

	// states tracks reactive state names by scope so assignments to them
	// become StateAssign nodes. A false entry shadows an outer state.
	states []map[string]bool

	inPage    bool
	depth     int
	synthetic map[string]int
}

// Parse tokenizes src and parses it into a program
func Parse(src []byte, opts ...Option) (*ast.Program, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return ParseTokens(tokens, opts...)
}

// ParseTokens parses an already tokenized source. tokens must end in EOF.
func ParseTokens(tokens []lexer.Token, opts ...Option) (*ast.Program, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != lexer.EOF {
		tokens = append(tokens, lexer.Token{Type: lexer.EOF})
	}

	p := &Parser{
		tokens:    tokens,
		current:   tokens[0],
		config:    config,
		states:    []map[string]bool{{}},
		synthetic: make(map[string]int),
	}
	return p.parseProgram()
}

func (p *Parser) parseProgram() (*ast.Program, error) {
	program := &ast.Program{Pos: position(p.current)}

	p.skipNewlines()
	for !p.check(lexer.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			program.Body = append(program.Body, stmt)
		}
		p.skipNewlines()
	}
	return program, nil
}

// advance moves to the next token and returns the one consumed
func (p *Parser) advance() lexer.Token {
	tok := p.current
	if p.pos < len(p.tokens)-1 {
		p.previous = p.current
		p.pos++
		p.current = p.tokens[p.pos]
	}
	return tok
}

// peek returns the token after current without consuming anything
func (p *Parser) peek() lexer.Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

// mark and reset bound speculative lookahead past newlines
func (p *Parser) mark() int { return p.pos }

func (p *Parser) reset(pos int) {
	p.pos = pos
	p.current = p.tokens[pos]
	if pos > 0 {
		p.previous = p.tokens[pos-1]
	}
}

func (p *Parser) check(t lexer.TokenType) bool {
	return p.current.Type == t
}

func (p *Parser) checkKeyword(kw string) bool {
	return p.current.Is(kw)
}

// match reports whether current is any of types
func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, t := range types {
		if p.current.Type == t {
			return true
		}
	}
	return false
}

// proceed consumes current when it has the expected type and fails otherwise
func (p *Parser) proceed(expected lexer.TokenType) (lexer.Token, error) {
	if p.current.Type != expected {
		return lexer.Token{}, p.unexpected(expected.String())
	}
	return p.advance(), nil
}

func (p *Parser) proceedKeyword(kw string) (lexer.Token, error) {
	if !p.current.Is(kw) {
		return lexer.Token{}, p.unexpected("'" + kw + "'")
	}
	return p.advance(), nil
}

func (p *Parser) skipNewlines() {
	for p.current.Type == lexer.NEWLINE {
		p.advance()
	}
}

// endStatement accepts a newline, a semicolon, or leaves a closing brace or
// EOF for the enclosing production.
func (p *Parser) endStatement() error {
	if p.check(lexer.HASH) {
		p.skipComment()
	}
	switch p.current.Type {
	case lexer.NEWLINE, lexer.SEMICOLON:
		p.advance()
		return nil
	case lexer.RBRACE, lexer.EOF:
		return nil
	}
	return p.unexpected(lexer.NEWLINE.String())
}

// skipComment drops a "#note" comment up to the end of the line. The lexer
// keeps these as HASH tokens since it cannot tell them from a dict marker.
func (p *Parser) skipComment() {
	for !p.match(lexer.NEWLINE, lexer.EOF) {
		p.advance()
	}
}

func (p *Parser) trace(production string) {
	if p.config.Trace == nil {
		return
	}
	fmt.Fprintf(p.config.Trace, "%s:%d:%d %s%s\n", p.config.Filename,
		p.current.Line, p.current.Column, strings.Repeat("  ", p.depth), production)
}

// State scope tracking

func (p *Parser) pushStates(shadowed ...string) {
	scope := make(map[string]bool, len(shadowed))
	for _, name := range shadowed {
		scope[name] = false
	}
	p.states = append(p.states, scope)
}

func (p *Parser) popStates() {
	p.states = p.states[:len(p.states)-1]
}

func (p *Parser) declareState(name string) {
	p.states[len(p.states)-1][name] = true
}

func (p *Parser) isState(name string) bool {
	for i := len(p.states) - 1; i >= 0; i-- {
		if v, ok := p.states[i][name]; ok {
			return v
		}
	}
	return false
}

func position(tok lexer.Token) ast.Position {
	return ast.Position{Line: tok.Line, Column: tok.Column, Source: tok.SourceLine}
}
