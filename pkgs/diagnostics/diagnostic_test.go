package diagnostics

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnosticFormat(t *testing.T) {
	tests := []struct {
		name string
		diag *Diagnostic
		want string
	}{
		{
			name: "syntax error with caret",
			diag: Errorf(Syntax, Span{Line: 3, Column: 12, Length: 1, Source: `page("Home", )`},
				"Unexpected token '%s' (expected %s)", ")", "IDENTIFIER"),
			want: strings.Join([]string{
				"SyntaxError: Unexpected token ')' (expected IDENTIFIER) at line 3, column 12",
				`  3 | page("Home", )`,
				"    |            ^",
				"",
			}, "\n"),
		},
		{
			name: "semantic error spanning a word",
			diag: Errorf(Semantic, Span{Line: 2, Column: 6, Length: 5, Source: "view(style=s)"},
				"style can only be a Dictionary."),
			want: strings.Join([]string{
				"SemanticError: style can only be a Dictionary. at line 2, column 6",
				"  2 | view(style=s)",
				"    |      ^^^^^",
				"",
			}, "\n"),
		},
		{
			name: "tabs keep alignment and help is rendered",
			diag: Errorf(Semantic, Span{Line: 10, Column: 3, Length: 3, Source: "\t\tfoo()"},
				"Function 'foo' called but not declared.").WithHelp("did you mean '%s'?", "food"),
			want: strings.Join([]string{
				"SemanticError: Function 'foo' called but not declared. at line 10, column 3",
				"  10 | \t\tfoo()",
				"     | \t\t^^^",
				"  help: did you mean 'food'?",
				"",
			}, "\n"),
		},
		{
			name: "warnings have no Error suffix",
			diag: Errorf(Warning, Span{Line: 1, Column: 1, Length: 2, Source: `go("/x")`}, "route '/x' is not registered"),
			want: strings.Join([]string{
				"Warning: route '/x' is not registered at line 1, column 1",
				`  1 | go("/x")`,
				"    | ^^",
				"",
			}, "\n"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.diag.Format()); diff != "" {
				t.Errorf("Format mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAs(t *testing.T) {
	d := Errorf(Lexical, Span{Line: 1, Column: 1}, "Unknown character '$'")
	wrapped := fmt.Errorf("compiling app.helios: %w", d)

	got, ok := As(wrapped)
	require.True(t, ok)
	assert.Same(t, d, got)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

func TestListPromote(t *testing.T) {
	var l List
	assert.NoError(t, l.Promote())

	l.Add(Errorf(Warning, Span{Line: 4, Column: 2}, "function 'unused' is never called"))
	err := l.Promote()
	require.Error(t, err)
	assert.Equal(t, "SemanticError: function 'unused' is never called at line 4, column 2", err.Error())
	assert.True(t, l[0].IsWarning(), "promotion must not mutate the list")
}

func TestSuggest(t *testing.T) {
	candidates := []string{"style", "cls", "onclick", "onlongpress", "id", "height", "width"}

	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"stlye", "style", true},
		{"onclck", "onclick", true},
		{"heigth", "height", true},
		{"zzzzzzzz", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := Suggest(tt.input, candidates)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
