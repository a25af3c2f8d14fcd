package parser

import (
	"strconv"

	"github.com/aledsdavies/helios/pkgs/ast"
	"github.com/aledsdavies/helios/pkgs/lexer"
)

// Expression grammar, lowest precedence first:
//
//	comparison → additive → multiplicative → unary → postfix → factor
func (p *Parser) parseExpression() (ast.Expr, error) {
	return p.parseComparison()
}

var comparisonOps = map[lexer.TokenType]bool{
	lexer.EQ: true, lexer.NOT_EQ: true,
	lexer.LT: true, lexer.GT: true,
	lexer.LT_EQ: true, lexer.GT_EQ: true,
}

func (p *Parser) parseComparison() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if comparisonOps[p.current.Type] {
		op := p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &ast.ComparisonExpr{Pos: left.Position(), Op: op.Raw, Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.match(lexer.PLUS, lexer.MINUS) {
		op := p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Pos: left.Position(), Op: op.Raw, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.match(lexer.STAR, lexer.SLASH, lexer.PERCENT) {
		op := p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Pos: left.Position(), Op: op.Raw, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	switch p.current.Type {
	case lexer.INCREMENT, lexer.DECREMENT:
		op := p.advance()
		target, err := p.proceed(lexer.IDENTIFIER)
		if err != nil {
			return nil, err
		}
		return &ast.IncDecExpr{
			Pos:    position(op),
			Op:     op.Raw,
			Prefix: true,
			Target: &ast.Ident{Pos: position(target), Name: target.Text},
		}, nil
	case lexer.MINUS:
		op := p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Pos: position(op), Op: "-", X: x}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expr, error) {
	x, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	if id, ok := x.(*ast.Ident); ok && p.match(lexer.INCREMENT, lexer.DECREMENT) {
		op := p.advance()
		return &ast.IncDecExpr{Pos: id.Pos, Op: op.Raw, Target: id}, nil
	}
	return x, nil
}

func (p *Parser) parseFactor() (ast.Expr, error) {
	tok := p.current

	switch tok.Type {
	case lexer.INT:
		p.advance()
		v, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, p.errorf(tok, "Integer literal out of range: %s", tok.Text)
		}
		return &ast.IntLit{Pos: position(tok), Value: v, Raw: tok.Raw}, nil
	case lexer.FLOAT:
		p.advance()
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, p.errorf(tok, "Invalid float literal: %s", tok.Text)
		}
		return &ast.FloatLit{Pos: position(tok), Value: v, Raw: tok.Raw}, nil
	case lexer.STRING:
		p.advance()
		return &ast.StringLit{Pos: position(tok), Value: tok.Text}, nil
	case lexer.LPAREN:
		p.advance()
		x, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.proceed(lexer.RPAREN); err != nil {
			return nil, err
		}
		return &ast.ParenExpr{Pos: position(tok), X: x}, nil
	case lexer.LBRACKET:
		return p.parseList()
	case lexer.LBRACE, lexer.HASH:
		return p.parseDict()
	case lexer.IDENTIFIER:
		p.advance()
		if p.check(lexer.LPAREN) {
			args, err := p.parseCallArgs()
			if err != nil {
				return nil, err
			}
			return &ast.CallExpr{Pos: position(tok), Name: tok.Text, Args: args}, nil
		}
		return &ast.Ident{Pos: position(tok), Name: tok.Text}, nil
	case lexer.KEYWORD:
		return p.parseKeywordFactor()
	}
	return nil, p.unexpected("expression")
}

func (p *Parser) parseKeywordFactor() (ast.Expr, error) {
	tok := p.current
	kw := tok.Text

	switch {
	case kw == "true" || kw == "false":
		p.advance()
		return &ast.BoolLit{Pos: position(tok), Value: kw == "true"}, nil
	case conversions[kw]:
		p.advance()
		x, err := p.parseSingleArg()
		if err != nil {
			return nil, err
		}
		return &ast.Conversion{Pos: position(tok), To: kw, X: x}, nil
	case kw == "type":
		p.advance()
		x, err := p.parseSingleArg()
		if err != nil {
			return nil, err
		}
		return &ast.TypeCheck{Pos: position(tok), X: x}, nil
	case mathArity[kw] > 0:
		p.advance()
		args, err := p.parseCallArgs()
		if err != nil {
			return nil, err
		}
		if len(args) != mathArity[kw] {
			return nil, p.errorf(tok, "'%s' takes %d argument(s) but got %d", kw, mathArity[kw], len(args))
		}
		return &ast.MathCall{Pos: position(tok), Func: kw, Args: args}, nil
	case kw == "Platform":
		p.advance()
		if _, err := p.proceed(lexer.DOT); err != nil {
			return nil, err
		}
		method, err := p.proceed(lexer.IDENTIFIER)
		if err != nil {
			return nil, err
		}
		args, err := p.parseCallArgs()
		if err != nil {
			return nil, err
		}
		return &ast.InstanceCall{Pos: position(tok), Instance: "Platform", Method: method.Text, Args: args}, nil
	}
	return nil, p.errorf(tok, "Unexpected keyword '%s' in expression", kw)
}

func (p *Parser) parseSingleArg() (ast.Expr, error) {
	if _, err := p.proceed(lexer.LPAREN); err != nil {
		return nil, err
	}
	x, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.proceed(lexer.RPAREN); err != nil {
		return nil, err
	}
	return x, nil
}

// parseCallArgs parses "(a, b, c)"; newlines are allowed between arguments
func (p *Parser) parseCallArgs() ([]ast.Expr, error) {
	if _, err := p.proceed(lexer.LPAREN); err != nil {
		return nil, err
	}
	var args []ast.Expr
	p.skipNewlines()
	for !p.check(lexer.RPAREN) {
		if len(args) > 0 {
			if _, err := p.proceed(lexer.COMMA); err != nil {
				return nil, err
			}
			p.skipNewlines()
		}
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		p.skipNewlines()
	}
	p.advance()
	return args, nil
}

func (p *Parser) parseList() (ast.Expr, error) {
	open := p.advance()
	list := &ast.ListLit{Pos: position(open)}
	p.skipNewlines()
	for !p.check(lexer.RBRACKET) {
		if len(list.Elems) > 0 {
			if _, err := p.proceed(lexer.COMMA); err != nil {
				return nil, err
			}
			p.skipNewlines()
			if p.check(lexer.RBRACKET) {
				break
			}
		}
		elem, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		list.Elems = append(list.Elems, elem)
		p.skipNewlines()
	}
	p.advance()
	return list, nil
}

// parseDict parses "{key: value, ...}" with an optional leading # marker
func (p *Parser) parseDict() (ast.Expr, error) {
	dict := &ast.DictLit{Pos: position(p.current)}
	if p.check(lexer.HASH) {
		p.advance()
		dict.Hashed = true
	}
	if _, err := p.proceed(lexer.LBRACE); err != nil {
		return nil, err
	}

	p.skipNewlines()
	for !p.check(lexer.RBRACE) {
		if len(dict.Entries) > 0 {
			if _, err := p.proceed(lexer.COMMA); err != nil {
				return nil, err
			}
			p.skipNewlines()
			if p.check(lexer.RBRACE) {
				break
			}
		}
		entry, err := p.parseKeyValue(dict.Hashed)
		if err != nil {
			return nil, err
		}
		dict.Entries = append(dict.Entries, entry)
		p.skipNewlines()
	}
	p.advance()
	return dict, nil
}

func (p *Parser) parseKeyValue(hashed bool) (*ast.KeyValue, error) {
	tok := p.current
	var key ast.Expr
	switch {
	case tok.Type == lexer.STRING:
		key = &ast.StringLit{Pos: position(tok), Value: tok.Text}
	case tok.Type == lexer.IDENTIFIER, hashed && tok.Type == lexer.KEYWORD:
		key = &ast.Ident{Pos: position(tok), Name: tok.Text}
	default:
		return nil, p.errorf(tok, "Dictionary keys must be identifiers or strings but got '%s'", tok)
	}
	p.advance()

	if _, err := p.proceed(lexer.COLON); err != nil {
		return nil, err
	}
	p.skipNewlines()
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.KeyValue{Pos: position(tok), Key: key, Value: value}, nil
}
