package parser

import (
	"github.com/aledsdavies/helios/pkgs/ast"
	"github.com/aledsdavies/helios/pkgs/lexer"
)

// parseStatement dispatches on the current token. It returns a nil statement
// for comment lines.
func (p *Parser) parseStatement() (ast.Stmt, error) {
	p.trace("statement")

	switch p.current.Type {
	case lexer.HASH:
		p.skipComment()
		return nil, nil
	case lexer.AT:
		if p.peek().Is("state") {
			p.advance()
			return p.parseStateDecl()
		}
		p.advance()
		return nil, p.unexpected("'state'")
	case lexer.IDENTIFIER:
		return p.parseIdentStatement()
	case lexer.INCREMENT, lexer.DECREMENT:
		return p.parseExprStatement()
	case lexer.KEYWORD:
		return p.parseKeywordStatement()
	}
	return nil, p.unexpected("statement")
}

func (p *Parser) parseKeywordStatement() (ast.Stmt, error) {
	kw := p.current.Text
	switch kw {
	case "if":
		return p.parseIf()
	case "while":
		return p.parseWhile()
	case "for":
		return p.parseFor()
	case "def":
		fn, err := p.parseFuncDecl()
		if err != nil {
			return nil, err
		}
		return fn, p.endStatement()
	case "return":
		return p.parseReturn()
	case "print":
		return p.parsePrint()
	case "pass", "break", "continue":
		tok := p.advance()
		return &ast.LoopControl{Pos: position(tok), Keyword: kw}, p.endStatement()
	case "page":
		return p.parsePage()
	case "app":
		return p.parseApp()
	case "view", "text", "img", "input", "canvas":
		return p.parseElement("")
	case "state":
		return p.parseStateDecl()
	case "go":
		return p.parseGo()
	case "stylesheet":
		return p.parseStylesheet()
	case "draw":
		return p.parseDraw()
	case "class", "import":
		return nil, p.errorf(p.current, "'%s' is not supported", kw)
	case "true", "false", "to_int", "to_str", "to_float", "type",
		"sin", "cos", "tan", "sqrt", "pow", "Platform":
		return p.parseExprStatement()
	}
	return nil, p.errorf(p.current, "Unexpected keyword '%s'", kw)
}

func (p *Parser) parseExprStatement() (ast.Stmt, error) {
	start := p.current
	x, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.ExprStmt{Pos: position(start), X: x}, p.endStatement()
}

// parseIdentStatement handles assignment, calls and postfix ++/--
func (p *Parser) parseIdentStatement() (ast.Stmt, error) {
	name := p.current

	switch p.peek().Type {
	case lexer.ASSIGN:
		p.advance()
		p.advance()
		if p.current.Type == lexer.KEYWORD {
			if _, ok := ast.ElementKindOf(p.current.Text); ok {
				return p.parseElement(name.Text)
			}
		}
		stmt, err := p.parseAssignValue(name)
		if err != nil {
			return nil, err
		}
		return stmt, p.endStatement()
	case lexer.LPAREN, lexer.INCREMENT, lexer.DECREMENT:
		return p.parseExprStatement()
	}

	p.advance()
	return nil, p.unexpected(lexer.ASSIGN.String())
}

// parseAssignValue parses the right-hand side after "name =" and picks the
// node kind from the state scope.
func (p *Parser) parseAssignValue(name lexer.Token) (ast.Stmt, error) {
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if p.isState(name.Text) {
		return &ast.StateAssign{Pos: position(name), Name: name.Text, Value: value}, nil
	}
	return &ast.AssignStmt{Pos: position(name), Name: name.Text, Value: value}, nil
}

// parseBlock parses "{ statements }"
func (p *Parser) parseBlock() (*ast.Block, error) {
	open, err := p.proceed(lexer.LBRACE)
	if err != nil {
		return nil, err
	}
	p.depth++
	defer func() { p.depth-- }()

	block := &ast.Block{Pos: position(open)}
	p.skipNewlines()
	for !p.check(lexer.RBRACE) {
		if p.check(lexer.EOF) {
			return nil, p.unexpected(lexer.RBRACE.String())
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		}
		p.skipNewlines()
	}
	p.advance()
	return block, nil
}

// parseIf parses an if / else if / else chain. The chain continues only while
// the next non-newline token is "else".
func (p *Parser) parseIf() (ast.Stmt, error) {
	p.trace("if")
	tok := p.advance()
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{Pos: position(tok), Cond: cond, Then: then}

	for {
		save := p.mark()
		p.skipNewlines()
		if !p.checkKeyword("else") {
			p.reset(save)
			break
		}
		elseTok := p.advance()

		if p.checkKeyword("if") {
			p.advance()
			cond, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			body, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			stmt.ElseIfs = append(stmt.ElseIfs, &ast.ElseIfClause{Pos: position(elseTok), Cond: cond, Body: body})
			continue
		}

		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Else = &ast.ElseClause{Pos: position(elseTok), Body: body}
		break
	}
	return stmt, p.endStatement()
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	p.trace("while")
	tok := p.advance()
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Pos: position(tok), Cond: cond, Body: body}, p.endStatement()
}

// parseFor parses "for i = 0 : i < n : i++ { ... }"
func (p *Parser) parseFor() (ast.Stmt, error) {
	p.trace("for")
	tok := p.advance()

	name, err := p.proceed(lexer.IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.proceed(lexer.ASSIGN); err != nil {
		return nil, err
	}
	initValue, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	init := &ast.AssignStmt{Pos: position(name), Name: name.Text, Value: initValue}

	if _, err := p.proceed(lexer.COLON); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.proceed(lexer.COLON); err != nil {
		return nil, err
	}
	post, err := p.parseForPost()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.ForStmt{Pos: position(tok), Init: init, Cond: cond, Post: post, Body: body}, p.endStatement()
}

func (p *Parser) parseForPost() (ast.Stmt, error) {
	if p.check(lexer.IDENTIFIER) && p.peek().Type == lexer.ASSIGN {
		name := p.advance()
		p.advance()
		return p.parseAssignValue(name)
	}
	start := p.current
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if _, ok := x.(*ast.IncDecExpr); !ok {
		return nil, p.errorf(start, "for loop step must be an assignment or ++/--")
	}
	return &ast.ExprStmt{Pos: position(start), X: x}, nil
}

// parseFuncDecl parses "def name(a, b) { ... }"
func (p *Parser) parseFuncDecl() (*ast.FuncDecl, error) {
	p.trace("def")
	tok := p.advance()
	name, err := p.proceed(lexer.IDENTIFIER)
	if err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}

	p.pushStates(params...)
	body, err := p.parseBlock()
	p.popStates()
	if err != nil {
		return nil, err
	}

	return &ast.FuncDecl{
		Pos:      position(tok),
		Name:     name.Text,
		Params:   params,
		Body:     body,
		Captures: ast.FreeIdents(params, body),
	}, nil
}

func (p *Parser) parseParams() ([]string, error) {
	if _, err := p.proceed(lexer.LPAREN); err != nil {
		return nil, err
	}
	var params []string
	seen := make(map[string]bool)
	for !p.check(lexer.RPAREN) {
		if len(params) > 0 {
			if _, err := p.proceed(lexer.COMMA); err != nil {
				return nil, err
			}
		}
		param, err := p.proceed(lexer.IDENTIFIER)
		if err != nil {
			return nil, err
		}
		if seen[param.Text] {
			return nil, p.errorf(param, "Duplicate parameter '%s'", param.Text)
		}
		seen[param.Text] = true
		params = append(params, param.Text)
	}
	p.advance()
	return params, nil
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	tok := p.advance()
	stmt := &ast.ReturnStmt{Pos: position(tok)}
	if !p.match(lexer.NEWLINE, lexer.RBRACE, lexer.EOF, lexer.SEMICOLON) {
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Value = value
	}
	return stmt, p.endStatement()
}

func (p *Parser) parsePrint() (ast.Stmt, error) {
	tok := p.advance()
	if _, err := p.proceed(lexer.LPAREN); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.proceed(lexer.RPAREN); err != nil {
		return nil, err
	}
	return &ast.PrintStmt{Pos: position(tok), Value: value}, p.endStatement()
}

// parseStateDecl parses "state name : value"; a leading @ was consumed already
func (p *Parser) parseStateDecl() (ast.Stmt, error) {
	p.trace("state")
	tok, err := p.proceedKeyword("state")
	if err != nil {
		return nil, err
	}
	name, err := p.proceed(lexer.IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.proceed(lexer.COLON); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.declareState(name.Text)
	return &ast.StateDecl{Pos: position(tok), Name: name.Text, Value: value}, p.endStatement()
}

func (p *Parser) parseGo() (ast.Stmt, error) {
	tok := p.advance()
	if _, err := p.proceed(lexer.LPAREN); err != nil {
		return nil, err
	}
	route, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.proceed(lexer.RPAREN); err != nil {
		return nil, err
	}
	return &ast.GoStmt{Pos: position(tok), Route: route}, p.endStatement()
}

// parseDraw parses a draw statement in either form:
//
//	draw("hero") { setFill("red") \n rect(0, 0, 10, 10) }
//	draw("hero").setFill("red").rect(0, 0, 10, 10)
func (p *Parser) parseDraw() (ast.Stmt, error) {
	p.trace("draw")
	tok := p.advance()
	if _, err := p.proceed(lexer.LPAREN); err != nil {
		return nil, err
	}
	canvas, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.proceed(lexer.RPAREN); err != nil {
		return nil, err
	}
	stmt := &ast.DrawStmt{Pos: position(tok), Canvas: canvas}

	if p.check(lexer.LBRACE) {
		p.advance()
		p.skipNewlines()
		for !p.check(lexer.RBRACE) {
			op, err := p.parseDrawOp()
			if err != nil {
				return nil, err
			}
			stmt.Ops = append(stmt.Ops, op)
			if err := p.endStatement(); err != nil {
				return nil, err
			}
			p.skipNewlines()
		}
		p.advance()
		return stmt, p.endStatement()
	}

	if !p.check(lexer.DOT) {
		return nil, p.unexpected("'{' or '.'")
	}
	for {
		save := p.mark()
		p.skipNewlines()
		if !p.check(lexer.DOT) {
			p.reset(save)
			break
		}
		p.advance()
		op, err := p.parseDrawOp()
		if err != nil {
			return nil, err
		}
		stmt.Ops = append(stmt.Ops, op)
	}
	return stmt, p.endStatement()
}

func (p *Parser) parseDrawOp() (*ast.InstanceCall, error) {
	if !p.match(lexer.IDENTIFIER, lexer.KEYWORD) {
		return nil, p.unexpected(lexer.IDENTIFIER.String())
	}
	method := p.advance()
	args, err := p.parseCallArgs()
	if err != nil {
		return nil, err
	}
	return &ast.InstanceCall{Pos: position(method), Instance: "draw", Method: method.Text, Args: args}, nil
}
