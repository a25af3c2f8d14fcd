package parser

import (
	"github.com/aledsdavies/helios/pkgs/diagnostics"
	"github.com/aledsdavies/helios/pkgs/lexer"
)

// unexpected reports the current token as a mismatch against expected
func (p *Parser) unexpected(expected string) *diagnostics.Diagnostic {
	return p.errorf(p.current, "Unexpected token '%s' (expected %s)", p.current, expected)
}

func (p *Parser) errorf(tok lexer.Token, format string, args ...interface{}) *diagnostics.Diagnostic {
	return diagnostics.Errorf(diagnostics.Syntax, tok.Span(), format, args...)
}
