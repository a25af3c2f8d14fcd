package parser

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/aledsdavies/helios/pkgs/ast"
	"github.com/aledsdavies/helios/pkgs/lexer"
)

// parsePage parses "page(args) { body }". Pages open a fresh state scope.
func (p *Parser) parsePage() (ast.Stmt, error) {
	p.trace("page")
	tok := p.current
	if p.inPage {
		return nil, p.errorf(tok, "page cannot be declared inside another page")
	}
	p.advance()

	args, err := p.parseArgs("page")
	if err != nil {
		return nil, err
	}

	p.inPage = true
	p.pushStates()
	body, err := p.parseBlock()
	p.popStates()
	p.inPage = false
	if err != nil {
		return nil, err
	}

	return &ast.Page{Pos: position(tok), Args: args, Body: body}, p.endStatement()
}

// parseApp parses "app() { page(...) {...} ... }". An app holds only pages.
func (p *Parser) parseApp() (ast.Stmt, error) {
	p.trace("app")
	tok := p.advance()
	if _, err := p.proceed(lexer.LPAREN); err != nil {
		return nil, err
	}
	if !p.check(lexer.RPAREN) {
		return nil, p.errorf(p.current, "app() takes no arguments")
	}
	p.advance()
	if _, err := p.proceed(lexer.LBRACE); err != nil {
		return nil, err
	}

	app := &ast.App{Pos: position(tok)}
	p.skipNewlines()
	for !p.check(lexer.RBRACE) {
		if !p.checkKeyword("page") {
			return nil, p.errorf(p.current, "app() can only contain page() declarations but got '%s'", p.current)
		}
		page, err := p.parsePage()
		if err != nil {
			return nil, err
		}
		app.Pages = append(app.Pages, page.(*ast.Page))
		p.skipNewlines()
	}
	p.advance()
	return app, p.endStatement()
}

// parseElement parses view, text, img, input and canvas. Only view takes a
// child block.
func (p *Parser) parseElement(binding string) (ast.Stmt, error) {
	tok := p.advance()
	p.trace(tok.Text)
	kind, _ := ast.ElementKindOf(tok.Text)

	args, err := p.parseArgs(tok.Text)
	if err != nil {
		return nil, err
	}
	el := &ast.Element{Pos: position(tok), Tag: kind, Binding: binding, Args: args}

	if kind == ast.View && p.check(lexer.LBRACE) {
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		el.Body = body
	}
	return el, p.endStatement()
}

// parseArgs parses the shared UI argument list: an optional positional first
// argument followed by whitelisted name=value pairs.
func (p *Parser) parseArgs(element string) (*ast.Args, error) {
	open, err := p.proceed(lexer.LPAREN)
	if err != nil {
		return nil, err
	}
	args := &ast.Args{Pos: position(open)}
	seen := make(map[string]bool)

	p.skipNewlines()
	for !p.check(lexer.RPAREN) {
		if args.Positional != nil || len(args.Named) > 0 {
			if _, err := p.proceed(lexer.COMMA); err != nil {
				return nil, err
			}
			p.skipNewlines()
		}

		if p.match(lexer.IDENTIFIER, lexer.KEYWORD) && p.peek().Type == lexer.ASSIGN {
			named, err := p.parseNamedArg(element, seen)
			if err != nil {
				return nil, err
			}
			args.Named = append(args.Named, named)
		} else {
			if args.Positional != nil || len(args.Named) > 0 {
				return nil, p.errorf(p.current, "Expecting a named argument (%s) but got '%s'",
					strings.Join(AllowedArgs(element), ", "), p.current)
			}
			positional, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args.Positional = positional
		}
		p.skipNewlines()
	}
	p.advance()
	return args, nil
}

func (p *Parser) parseNamedArg(element string, seen map[string]bool) (*ast.NamedArg, error) {
	name := p.advance()
	if !isAllowedArg(element, name.Text) {
		return nil, p.errorf(name, "Unexpected parameter '%s' for %s; expecting one of: %s",
			name.Text, element, strings.Join(AllowedArgs(element), ", ")).
			DidYouMean(name.Text, AllowedArgs(element))
	}
	if seen[name.Text] {
		return nil, p.errorf(name, "Duplicate parameter '%s'", name.Text)
	}
	seen[name.Text] = true
	p.advance() // =

	var (
		value ast.Expr
		err   error
	)
	switch {
	case name.Text == "route":
		value, err = p.parseRoute()
	case name.Text == "style":
		if !p.match(lexer.LBRACE, lexer.HASH, lexer.IDENTIFIER) {
			return nil, p.errorf(p.current, "style expects a dictionary or a variable but got '%s'", p.current)
		}
		value, err = p.parseExpression()
	case isCallbackArg(name.Text):
		value, err = p.parseCallback(name.Text)
	default:
		value, err = p.parseExpression()
	}
	if err != nil {
		return nil, err
	}
	return &ast.NamedArg{Pos: position(name), Name: name.Text, Value: value}, nil
}

// parseRoute accepts only a string literal without whitespace
func (p *Parser) parseRoute() (ast.Expr, error) {
	tok := p.current
	if tok.Type != lexer.STRING {
		return nil, p.errorf(tok, "Route expects a string literal")
	}
	if strings.IndexFunc(tok.Text, unicode.IsSpace) >= 0 {
		return nil, p.errorf(tok, "Spaces not allowed in route: '%s'", tok.Text)
	}
	p.advance()
	return &ast.StringLit{Pos: position(tok), Value: tok.Text}, nil
}

// parseCallback parses the value of onclick= and onlongpress=:
//
//	handler | handler(args) | def name() { ... } | () { ... } | { ... }
func (p *Parser) parseCallback(param string) (ast.Expr, error) {
	tok := p.current

	switch {
	case tok.Type == lexer.IDENTIFIER:
		p.advance()
		call := &ast.CallExpr{Pos: position(tok), Name: tok.Text}
		if p.check(lexer.LPAREN) {
			args, err := p.parseCallArgs()
			if err != nil {
				return nil, err
			}
			call.Args = args
		}
		return &ast.Callback{Pos: position(tok), Call: call}, nil

	case tok.Is("def"):
		fn, err := p.parseFuncDecl()
		if err != nil {
			return nil, err
		}
		return &ast.Callback{Pos: position(tok), Func: fn}, nil

	case tok.Type == lexer.LPAREN:
		p.advance()
		if !p.check(lexer.RPAREN) {
			return nil, p.errorf(p.current, "anonymous %s blocks take no parameters", param)
		}
		p.advance()
		fallthrough

	case tok.Type == lexer.LBRACE:
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		p.synthetic[param]++
		fn := &ast.FuncDecl{
			Pos:       position(tok),
			Name:      fmt.Sprintf("%s_%d", param, p.synthetic[param]),
			Body:      body,
			Captures:  ast.FreeIdents(nil, body),
			Synthetic: true,
		}
		return &ast.Callback{Pos: position(tok), Func: fn}, nil
	}

	return nil, p.errorf(tok, "%s expects a function call, a def or a block but got '%s'", param, tok)
}
