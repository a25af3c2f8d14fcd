package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/helios/pkgs/diagnostics"
)

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		category diagnostics.Category
		message  string
		line     int
		column   int
		help     string
	}{
		{
			name:     "missing comma before block",
			input:    `page("Home" {`,
			category: diagnostics.Syntax,
			message:  "Unexpected token '{' (expected COMMA)",
			line:     1,
			column:   13,
		},
		{
			name:     "misspelled parameter",
			input:    "page(\"P\") {\n  view(stlye={\"a\": \"b\"})\n}",
			category: diagnostics.Syntax,
			message:  "Unexpected parameter 'stlye' for view; expecting one of: cls, height, id, onclick, onlongpress, style, width",
			line:     2,
			column:   8,
			help:     "did you mean 'style'?",
		},
		{
			name:     "route with spaces",
			input:    `page("P", route="/my page") {}`,
			category: diagnostics.Syntax,
			message:  "Spaces not allowed in route: '/my page'",
			line:     1,
			column:   17,
		},
		{
			name:     "route from a variable",
			input:    `page("P", route=home) {}`,
			category: diagnostics.Syntax,
			message:  "Route expects a string literal",
			line:     1,
			column:   17,
		},
		{
			name:     "style from a string",
			input:    `text("x", style="color: red")`,
			category: diagnostics.Syntax,
			message:  `style expects a dictionary or a variable but got '"color: red"'`,
			line:     1,
			column:   17,
		},
		{
			name:     "duplicate parameter",
			input:    `text("x", id="a", id="b")`,
			category: diagnostics.Syntax,
			message:  "Duplicate parameter 'id'",
			line:     1,
			column:   19,
		},
		{
			name:     "positional after named",
			input:    `text(id="a", "x")`,
			category: diagnostics.Syntax,
			message:  `Expecting a named argument (cls, id, onclick, onlongpress, style) but got '"x"'`,
			line:     1,
			column:   14,
		},
		{
			name:     "nested page",
			input:    "page(\"A\") {\n  page(\"B\") {}\n}",
			category: diagnostics.Syntax,
			message:  "page cannot be declared inside another page",
			line:     2,
			column:   3,
		},
		{
			name:     "app holding an element",
			input:    "app() {\n  view()\n}",
			category: diagnostics.Syntax,
			message:  "app() can only contain page() declarations but got 'view'",
			line:     2,
			column:   3,
		},
		{
			name:     "app with arguments",
			input:    `app("x") {}`,
			category: diagnostics.Syntax,
			message:  "app() takes no arguments",
			line:     1,
			column:   5,
		},
		{
			name:     "math arity",
			input:    "x = pow(2)",
			category: diagnostics.Syntax,
			message:  "'pow' takes 2 argument(s) but got 1",
			line:     1,
			column:   5,
		},
		{
			name:     "numeric dict key",
			input:    "x = {1: 2}",
			category: diagnostics.Syntax,
			message:  "Dictionary keys must be identifiers or strings but got '1'",
			line:     1,
			column:   6,
		},
		{
			name:     "unsupported class",
			input:    "class Foo {}",
			category: diagnostics.Syntax,
			message:  "'class' is not supported",
			line:     1,
			column:   1,
		},
		{
			name:     "unclosed page",
			input:    `page("P") {`,
			category: diagnostics.Syntax,
			message:  "Unexpected token 'end of file' (expected RBRACE)",
			line:     1,
			column:   12,
		},
		{
			name:     "two statements on a line",
			input:    "x = 1 y = 2",
			category: diagnostics.Syntax,
			message:  "Unexpected token 'y' (expected NEWLINE)",
			line:     1,
			column:   7,
		},
		{
			name:     "lexical errors pass through",
			input:    `x = "abc`,
			category: diagnostics.Lexical,
			message:  "Unterminated string",
			line:     1,
			column:   5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)

			d, ok := diagnostics.As(err)
			require.True(t, ok, "expected a diagnostic, got %T", err)
			assert.Equal(t, tt.category, d.Category)
			assert.Equal(t, tt.message, d.Message)
			assert.Equal(t, tt.line, d.Span.Line)
			assert.Equal(t, tt.column, d.Span.Column)
			assert.Equal(t, tt.help, d.Help)
		})
	}
}

func TestSyntaxErrorRendering(t *testing.T) {
	_, err := Parse([]byte("page(\"P\") {\n\tview(onclik=go)\n}"))
	require.Error(t, err)
	d, ok := diagnostics.As(err)
	require.True(t, ok)

	want := "SyntaxError: Unexpected parameter 'onclik' for view; expecting one of: cls, height, id, onclick, onlongpress, style, width at line 2, column 7\n" +
		"  2 | \tview(onclik=go)\n" +
		"    | \t     ^^^^^^\n" +
		"  help: did you mean 'onclick'?\n"
	assert.Equal(t, want, d.Format())
}
