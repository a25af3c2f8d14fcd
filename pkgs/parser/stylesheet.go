package parser

import (
	"strings"

	"github.com/aledsdavies/helios/pkgs/ast"
	"github.com/aledsdavies/helios/pkgs/lexer"
)

// parseStylesheet parses a stylesheet block of class rules and @media blocks.
// CSS text is rebuilt from lexemes so it survives tokenization unchanged.
func (p *Parser) parseStylesheet() (ast.Stmt, error) {
	p.trace("stylesheet")
	tok := p.advance()
	if _, err := p.proceed(lexer.LBRACE); err != nil {
		return nil, err
	}

	sheet := &ast.Stylesheet{Pos: position(tok)}
	p.skipNewlines()
	for !p.check(lexer.RBRACE) {
		if p.check(lexer.EOF) {
			return nil, p.unexpected(lexer.RBRACE.String())
		}
		var (
			rule ast.StyleRule
			err  error
		)
		if p.check(lexer.AT) {
			rule, err = p.parseMediaQuery()
		} else {
			rule, err = p.parseClassRule()
		}
		if err != nil {
			return nil, err
		}
		sheet.Rules = append(sheet.Rules, rule)
		p.skipNewlines()
	}
	p.advance()
	return sheet, p.endStatement()
}

func (p *Parser) parseMediaQuery() (*ast.MediaQuery, error) {
	at := p.advance()
	if !(p.check(lexer.IDENTIFIER) && p.current.Text == "media") {
		return nil, p.unexpected("'media'")
	}
	p.advance()

	query, err := p.collectText(lexer.LBRACE)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return nil, p.errorf(p.current, "@media expects a query before '{'")
	}
	p.advance()

	media := &ast.MediaQuery{Pos: position(at), Query: query}
	p.skipNewlines()
	for !p.check(lexer.RBRACE) {
		if p.check(lexer.EOF) {
			return nil, p.unexpected(lexer.RBRACE.String())
		}
		rule, err := p.parseClassRule()
		if err != nil {
			return nil, err
		}
		media.Rules = append(media.Rules, rule)
		p.skipNewlines()
	}
	p.advance()
	return media, nil
}

// parseClassRule parses "selector { prop: value; ... }"
func (p *Parser) parseClassRule() (*ast.ClassRule, error) {
	start := p.current
	selector, err := p.collectText(lexer.LBRACE)
	if err != nil {
		return nil, err
	}
	if selector == "" {
		return nil, p.errorf(p.current, "Expected a selector before '{'")
	}
	p.advance()

	rule := &ast.ClassRule{Pos: position(start), Selector: selector}
	p.skipNewlines()
	for !p.check(lexer.RBRACE) {
		prop, err := p.parseStyleProp()
		if err != nil {
			return nil, err
		}
		rule.Props = append(rule.Props, prop)
		p.skipNewlines()
	}
	p.advance()
	return rule, nil
}

// parseStyleProp parses "name: value;" where "{expr}" inside the value
// splices an expression. A newline or closing brace also ends the value.
func (p *Parser) parseStyleProp() (*ast.StyleProp, error) {
	start := p.current
	name, err := p.collectText(lexer.COLON)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, p.errorf(p.current, "Expected a property name before ':'")
	}
	p.advance()

	prop := &ast.StyleProp{Pos: position(start), Name: name}
	var (
		text strings.Builder
		prev *lexer.Token
	)
	flush := func() {
		if text.Len() > 0 {
			prop.Value = append(prop.Value, ast.StylePart{Text: text.String()})
			text.Reset()
		}
	}

	for !p.match(lexer.SEMICOLON, lexer.RBRACE, lexer.NEWLINE, lexer.EOF) {
		tok := p.current
		if prev != nil && spaced(*prev, tok) {
			text.WriteByte(' ')
		}
		if tok.Type == lexer.LBRACE {
			p.advance()
			x, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			closing, err := p.proceed(lexer.RBRACE)
			if err != nil {
				return nil, err
			}
			flush()
			prop.Value = append(prop.Value, ast.StylePart{Expr: x})
			prev = &closing
			continue
		}
		text.WriteString(tok.Raw)
		p.advance()
		prev = &tok
	}
	flush()

	if len(prop.Value) == 0 {
		return nil, p.errorf(p.current, "Expected a value for '%s'", name)
	}
	if p.check(lexer.SEMICOLON) {
		p.advance()
	}
	return prop, nil
}

// collectText joins lexemes up to (not including) stop, keeping one space
// wherever the source separated two tokens.
func (p *Parser) collectText(stop lexer.TokenType) (string, error) {
	var (
		b    strings.Builder
		prev *lexer.Token
	)
	for !p.check(stop) {
		if p.match(lexer.NEWLINE, lexer.EOF, lexer.RBRACE, lexer.SEMICOLON) {
			return "", p.unexpected(stop.String())
		}
		tok := p.current
		if prev != nil && spaced(*prev, tok) {
			b.WriteByte(' ')
		}
		b.WriteString(tok.Raw)
		p.advance()
		prev = &tok
	}
	return b.String(), nil
}

func spaced(prev, next lexer.Token) bool {
	return next.Line != prev.Line || next.Column > prev.Column+len(prev.Raw)
}
