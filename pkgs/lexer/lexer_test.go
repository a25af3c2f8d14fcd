package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/helios/pkgs/diagnostics"
)

func tokenTypes(t *testing.T, input string) []TokenType {
	t.Helper()
	tokens, err := Tokenize([]byte(input))
	require.NoError(t, err)
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestBasicTokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenType
	}{
		{
			name:     "assignment",
			input:    "x = 10",
			expected: []TokenType{IDENTIFIER, ASSIGN, INT, EOF},
		},
		{
			name:     "float",
			input:    "ratio = 1.5",
			expected: []TokenType{IDENTIFIER, ASSIGN, FLOAT, EOF},
		},
		{
			name:     "int followed by dot is not a float",
			input:    "1.x",
			expected: []TokenType{INT, DOT, IDENTIFIER, EOF},
		},
		{
			name:     "two character operators",
			input:    "a == b != c >= d <= e ++ --",
			expected: []TokenType{IDENTIFIER, EQ, IDENTIFIER, NOT_EQ, IDENTIFIER, GT_EQ, IDENTIFIER, LT_EQ, IDENTIFIER, INCREMENT, DECREMENT, EOF},
		},
		{
			name:     "single character fallbacks",
			input:    "= ! < > + - * / %",
			expected: []TokenType{ASSIGN, BANG, LT, GT, PLUS, MINUS, STAR, SLASH, PERCENT, EOF},
		},
		{
			name:     "page with block",
			input:    "page(\"Home\") {\n}",
			expected: []TokenType{KEYWORD, LPAREN, STRING, RPAREN, LBRACE, NEWLINE, RBRACE, EOF},
		},
		{
			name:     "state declaration",
			input:    "@state x : 0",
			expected: []TokenType{AT, KEYWORD, IDENTIFIER, COLON, INT, EOF},
		},
		{
			name:     "hash dict marker",
			input:    "#{a: 1}",
			expected: []TokenType{HASH, LBRACE, IDENTIFIER, COLON, INT, RBRACE, EOF},
		},
		{
			name:     "stylesheet punctuation",
			input:    ".card { color: #fff; width: 100%; }",
			expected: []TokenType{DOT, IDENTIFIER, LBRACE, IDENTIFIER, COLON, HASH, IDENTIFIER, SEMICOLON, IDENTIFIER, COLON, INT, PERCENT, SEMICOLON, RBRACE, EOF},
		},
		{
			name:     "lone hash at end of input",
			input:    "x #",
			expected: []TokenType{IDENTIFIER, HASH, EOF},
		},
		{
			name:     "brackets and commas",
			input:    "[1, 2]",
			expected: []TokenType{LBRACKET, INT, COMMA, INT, RBRACKET, EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenTypes(t, tt.input)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("token types mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestKeywordsAreReserved(t *testing.T) {
	for word := range Keywords {
		t.Run(word, func(t *testing.T) {
			tokens, err := Tokenize([]byte(word))
			require.NoError(t, err)
			assert.Equal(t, KEYWORD, tokens[0].Type)
			assert.True(t, tokens[0].Is(word))
		})
	}

	tokens, err := Tokenize([]byte("pages typed Platforms"))
	require.NoError(t, err)
	for _, tok := range tokens[:3] {
		assert.Equal(t, IDENTIFIER, tok.Type, "%q must not be a keyword", tok.Text)
	}
}

func TestStringLiterals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		text  string
		quote QuoteStyle
	}{
		{"double quoted", `"hello"`, "hello", DoubleQuote},
		{"single quoted", `'hello'`, "hello", SingleQuote},
		{"newline escape", `"a\nb"`, "a\nb", DoubleQuote},
		{"tab escape", `'a\tb'`, "a\tb", SingleQuote},
		{"carriage return", `"a\rb"`, "a\rb", DoubleQuote},
		{"escaped backslash", `"a\\b"`, `a\b`, DoubleQuote},
		{"escaped single quote", `'it\'s'`, "it's", SingleQuote},
		{"escaped double quote", `"say \"hi\""`, `say "hi"`, DoubleQuote},
		{"other quote inside", `"it's"`, "it's", DoubleQuote},
		{"empty", `''`, "", SingleQuote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize([]byte(tt.input))
			require.NoError(t, err)
			require.Len(t, tokens, 2)
			assert.Equal(t, STRING, tokens[0].Type)
			assert.Equal(t, tt.text, tokens[0].Text)
			assert.Equal(t, tt.input, tokens[0].Raw)
			assert.Equal(t, tt.quote, tokens[0].Quote)
		})
	}
}

func TestComments(t *testing.T) {
	input := "x = 1 // trailing\n# whole line, don't lex this\n/* block\nspanning */ y = 2"
	got := tokenTypes(t, input)
	want := []TokenType{
		IDENTIFIER, ASSIGN, INT, NEWLINE,
		NEWLINE,
		IDENTIFIER, ASSIGN, INT, EOF,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("token types mismatch (-want +got):\n%s", diff)
	}

	tokens, err := Tokenize([]byte(input))
	require.NoError(t, err)
	y := tokens[5]
	assert.Equal(t, "y", y.Text)
	assert.Equal(t, 4, y.Line)
	assert.Equal(t, 13, y.Column)
}

func TestPositions(t *testing.T) {
	input := "page(\"Home\") {\n  text(\"hi\")\n}"
	tokens, err := Tokenize([]byte(input))
	require.NoError(t, err)

	type pos struct {
		Text   string
		Line   int
		Column int
	}
	var got []pos
	for _, tok := range tokens {
		got = append(got, pos{tok.Text, tok.Line, tok.Column})
	}
	want := []pos{
		{"page", 1, 1}, {"(", 1, 5}, {"Home", 1, 6}, {")", 1, 12}, {"{", 1, 14}, {"\n", 1, 15},
		{"text", 2, 3}, {"(", 2, 7}, {"hi", 2, 8}, {")", 2, 12}, {"\n", 2, 13},
		{"}", 3, 1}, {"", 3, 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "  text(\"hi\")", tokens[6].SourceLine)
}

func TestRoundTrip(t *testing.T) {
	input := `page("Home", route="/") {
	@state count : 0
	view(style=#{height: "10px"}, onclick=() { count = count + 1 }) {
		text('it\'s ' + to_str(count))
	}
	ratio = 1.25 * -2 % 3
	if count >= 10 { go("/done") } else { print(count != 1) }
	x++
	y--
	flag = a <= b
	items = [1, 2]
	draw("hero").line(0, 0, 5, 5);
}
`
	tokens, err := Tokenize([]byte(input))
	require.NoError(t, err)

	for _, tok := range tokens {
		again, err := Tokenize([]byte(tok.Raw))
		require.NoError(t, err, "rescanning %q", tok.Raw)
		first := again[0]
		if diff := cmp.Diff(
			Token{Type: tok.Type, Text: tok.Text, Raw: tok.Raw, Line: 1, Column: 1, Quote: tok.Quote},
			Token{Type: first.Type, Text: first.Text, Raw: first.Raw, Line: first.Line, Column: first.Column, Quote: first.Quote},
		); diff != "" {
			t.Errorf("rescan of %q mismatch (-want +got):\n%s", tok.Raw, diff)
		}
	}
}

func TestLexicalErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
		line    int
		column  int
	}{
		{"unterminated before newline", "x = \"abc\ny = 1", "Unterminated string", 1, 5},
		{"unterminated at EOF", "x = 'abc", "Unterminated string", 1, 5},
		{"unknown character", "x = 1 $ 2", "Unknown character '$'", 1, 7},
		{"unknown character on later line", "x = 1\ny = `a`", "Unknown character '`'", 2, 5},
		{"unknown multibyte character", "x = é", "Unknown character 'é'", 1, 5},
		{"unterminated block comment", "/* never closed", "Unterminated block comment", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize([]byte(tt.input))
			require.Error(t, err)
			d, ok := diagnostics.As(err)
			require.True(t, ok, "expected a diagnostic, got %T", err)
			assert.Equal(t, diagnostics.Lexical, d.Category)
			assert.Equal(t, tt.message, d.Message)
			assert.Equal(t, tt.line, d.Span.Line)
			assert.Equal(t, tt.column, d.Span.Column)
		})
	}
}

func TestTokenTypeString(t *testing.T) {
	assert.Equal(t, "INCREMENT", INCREMENT.String())
	assert.Equal(t, "TokenType(999)", TokenType(999).String())
}
