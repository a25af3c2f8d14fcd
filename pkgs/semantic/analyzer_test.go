package semantic

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/helios/pkgs/ast"
	"github.com/aledsdavies/helios/pkgs/diagnostics"
	"github.com/aledsdavies/helios/pkgs/parser"
)

func analyze(t *testing.T, src string) (*ast.Program, *Info, error) {
	t.Helper()
	prog, err := parser.Parse([]byte(src))
	require.NoError(t, err, "source must parse")
	info, err := Analyze(prog)
	return prog, info, err
}

func requireDiagnostic(t *testing.T, err error) *diagnostics.Diagnostic {
	t.Helper()
	require.Error(t, err)
	d, ok := diagnostics.As(err)
	require.True(t, ok, "expected a diagnostic, got %T", err)
	assert.Equal(t, diagnostics.Semantic, d.Category)
	return d
}

func routePaths(info *Info) []string {
	var paths []string
	for _, r := range info.Routes {
		paths = append(paths, r.Path)
	}
	return paths
}

func TestScenarioSinglePage(t *testing.T) {
	prog, info, err := analyze(t, `page("Home") { view() { text("hi") } }`)
	require.NoError(t, err)

	require.Len(t, info.Routes, 1)
	r := info.Routes[0]
	assert.Equal(t, "/", r.Path)
	assert.Equal(t, "Home", r.Title)
	assert.Equal(t, "page_1", r.Var)
	assert.True(t, r.Index)
	assert.Same(t, prog.Body[0], info.Index)
	assert.Empty(t, info.Warnings)

	initial, ok := info.Initial()
	require.True(t, ok)
	assert.Equal(t, "page_1", initial.Var)
}

func TestRouteTable(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		paths   []string
		initial string
		wantErr string
	}{
		{
			name:    "distinct routes",
			input:   "page(\"Home\") {}\npage(\"About\", route=\"/about\") {}\npage(\"Help\", route=\"/help\") {}",
			paths:   []string{"/", "/about", "/help"},
			initial: "page_1",
		},
		{
			name:    "explicit index later in the file",
			input:   "page(\"About\", route=\"/about\") {}\npage(\"Home\", route=\"/\") {}",
			paths:   []string{"/about", "/"},
			initial: "page_2",
		},
		{
			name:    "no index falls back to the first page",
			input:   "page(\"A\", route=\"/a\") {}\npage(\"B\", route=\"/b\") {}",
			paths:   []string{"/a", "/b"},
			initial: "page_1",
		},
		{
			name:    "pages inside app",
			input:   "app() {\n  page(\"A\") {}\n  page(\"B\", route=\"/b\") {}\n}",
			paths:   []string{"/", "/b"},
			initial: "page_1",
		},
		{
			name:    "two implicit index claims",
			input:   "page(\"First\") {}\npage(\"Second\") {}",
			wantErr: "Duplicate index page: 'Second' cannot claim '/' already claimed by page 'First'",
		},
		{
			name:    "explicit index after implicit",
			input:   "page(\"First\") {}\npage(\"Second\", route=\"/\") {}",
			wantErr: "Duplicate index page: 'Second' cannot claim '/' already claimed by page 'First'",
		},
		{
			name:    "duplicate explicit route",
			input:   "page(\"About\", route=\"/about\") {}\npage(\"More\", route=\"/about\") {}",
			wantErr: "Duplicate route '/about': already registered by page 'About'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, info, err := analyze(t, tt.input)
			if tt.wantErr != "" {
				d := requireDiagnostic(t, err)
				assert.Equal(t, tt.wantErr, d.Message)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.paths, routePaths(info)); diff != "" {
				t.Errorf("routes mismatch (-want +got):\n%s", diff)
			}
			initial, ok := info.Initial()
			require.True(t, ok)
			assert.Equal(t, tt.initial, initial.Var)
		})
	}
}

func TestSemanticErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
		line    int
		column  int
		help    string
	}{
		{
			name:    "use before assignment",
			input:   "print(x)",
			message: "Variable 'x' used before assignment.",
			line:    1,
			column:  7,
		},
		{
			name:    "style from a string variable",
			input:   "page(\"P\") {\n  s = \"height:10px\"\n  view(style=s)\n}",
			message: "style can only be a Dictionary.",
			line:    3,
			column:  14,
		},
		{
			name:    "non-string title",
			input:   "page(42) {}",
			message: "Title can only be a string but got: 'int'",
			line:    1,
			column:  6,
		},
		{
			name:    "non-string text",
			input:   "page(\"P\") {\n  text(1 + 2)\n}",
			message: "'text' expects a string but got: 'int'",
			line:    2,
			column:  8,
		},
		{
			name:    "numeric height",
			input:   "page(\"P\") {\n  view(height=\"tall\")\n}",
			message: "'height' expects a number but got: 'string'",
			line:    2,
			column:  15,
		},
		{
			name:    "string plus int",
			input:   "x = \"a\" + 1",
			message: "Type mismatch in binary operation '+'",
			line:    1,
			column:  5,
		},
		{
			name:    "string plus bool",
			input:   "x = \"a\" + true",
			message: "Type mismatch in binary operation '+'",
			line:    1,
			column:  5,
		},
		{
			name:    "multiply strings",
			input:   "x = \"a\" * 2",
			message: "Operator '*' only supports numbers.",
			line:    1,
			column:  5,
		},
		{
			name:    "non-boolean condition",
			input:   "if 1 {\n  pass\n}",
			message: "Condition in if statement must evaluate to a boolean.",
			line:    1,
			column:  4,
		},
		{
			name:    "non-boolean while",
			input:   "x = 3\nwhile x {\n  x = x - 1\n}",
			message: "Condition in while statement must evaluate to a boolean.",
			line:    2,
			column:  7,
		},
		{
			name:    "break outside loop",
			input:   "break",
			message: "'break' can only be used inside a loop",
			line:    1,
			column:  1,
		},
		{
			name:    "return outside function",
			input:   "return 1",
			message: "'return' can only be used inside a function",
			line:    1,
			column:  1,
		},
		{
			name:    "reassign with another type",
			input:   "x = 1\nx = \"s\"",
			message: "Cannot assign 'string' to variable 'x' of type 'int'",
			line:    2,
			column:  1,
		},
		{
			name:    "state redeclared",
			input:   "@state x : 1\n@state x : 2",
			message: "State 'x' is already declared",
			line:    2,
			column:  2,
		},
		{
			name:    "state of a dict",
			input:   "@state s : {\"a\": 1}",
			message: "State 's' must start as an int, float, string or bool but got 'dict'",
			line:    1,
			column:  12,
		},
		{
			name:    "state assignment with another type",
			input:   "@state n : 0\nn = \"many\"",
			message: "Cannot assign 'string' to state 'n' of type 'int'",
			line:    2,
			column:  1,
		},
		{
			name:    "page state does not leak",
			input:   "page(\"A\") {\n  @state x : 0\n}\npage(\"B\", route=\"/b\") {\n  text(to_str(x))\n}",
			message: "Variable 'x' used before assignment.",
			line:    5,
			column:  15,
		},
		{
			name:    "callback reads page variable",
			input:   "page(\"P\") {\n  v = 1\n  view(onclick=() { print(v) })\n}",
			message: "Callback cannot use page variable 'v'; declare it with @state",
			line:    3,
			column:  27,
		},
		{
			name:    "callback writes page variable",
			input:   "page(\"P\") {\n  v = 1\n  view(onclick=() { v = 2 })\n}",
			message: "Callback cannot use page variable 'v'; declare it with @state",
			line:    3,
			column:  21,
		},
		{
			name:    "undeclared function",
			input:   "page(\"P\") {\n  view(onclick=hanlder)\n}\ndef handler() {\n  print(\"x\")\n}",
			message: "Function 'hanlder' called but not declared.",
			line:    2,
			column:  16,
			help:    "did you mean 'handler'?",
		},
		{
			name:    "page functions calling each other",
			input:   "page(\"P\") {\n  def ping() {\n    pong()\n  }\n  def pong() {\n    ping()\n  }\n}",
			message: "Functions 'ping' and 'pong' call each other; declare them at the top level",
			line:    2,
			column:  3,
		},
		{
			name:    "user function arity",
			input:   "def add(a, b) {\n  return a + b\n}\nprint(add(1))",
			message: "Function 'add' expects 2 argument(s) but got 1",
			line:    4,
			column:  7,
		},
		{
			name:    "unknown instance method",
			input:   "page(\"P\") {\n  canvas(\"c\")\n  draw(\"c\").fil(\"red\")\n}",
			message: "'draw' has no method 'fil'",
			line:    3,
			column:  13,
			help:    "did you mean 'setFill'?",
		},
		{
			name:    "instance arity",
			input:   "page(\"P\") {\n  canvas(\"c\")\n  draw(\"c\").rect(1, 2)\n}",
			message: "'draw.rect' expects 4 argument(s) but got 2",
			line:    3,
			column:  13,
		},
		{
			name:    "instance argument type",
			input:   "page(\"P\") {\n  canvas(\"c\")\n  draw(\"c\").setFill(3)\n}",
			message: "Argument 1 of 'setFill' must be 'string' but got 'int'",
			line:    3,
			column:  21,
		},
		{
			name:    "element outside page",
			input:   "view()",
			message: "'view' can only be used inside a page",
			line:    1,
			column:  1,
		},
		{
			name:    "draw inside callback",
			input:   "page(\"P\") {\n  canvas(\"c\")\n  view(onclick=() { draw(\"c\").clear() })\n}",
			message: "draw can only be used in a page body",
			line:    3,
			column:  21,
		},
		{
			name:    "unmarked dict with undeclared key",
			input:   "d = {height: \"10px\"}",
			message: "Variable 'height' used before assignment.",
			line:    1,
			column:  6,
		},
		{
			name:    "math on strings",
			input:   "x = sqrt(\"4\")",
			message: "'sqrt' expects a number but got 'string'",
			line:    1,
			column:  10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := analyze(t, tt.input)
			d := requireDiagnostic(t, err)
			assert.Equal(t, tt.message, d.Message)
			assert.Equal(t, tt.line, d.Span.Line, "line")
			assert.Equal(t, tt.column, d.Span.Column, "column")
			assert.Equal(t, tt.help, d.Help)
		})
	}
}

func TestNumericPromotion(t *testing.T) {
	tests := []struct {
		expr string
		want Type
	}{
		{"1 + 2", Int},
		{"1 + 2.5", Float},
		{"2.5 * 4", Float},
		{"7 % 2", Int},
		{"-3", Int},
		{"\"a\" + \"b\"", String},
		{"1 < 2.0", Bool},
		{"sqrt(16)", Float},
		{"to_int(\"3\")", Int},
		{"to_float(3)", Float},
		{"to_str(3)", String},
		{"type(3)", String},
		{"Platform.height()", Int},
		{"[1, 2]", List},
		{"#{height: \"1px\"}", Dict},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			prog, info, err := analyze(t, "x = "+tt.expr)
			require.NoError(t, err)
			assign := prog.Body[0].(*ast.AssignStmt)
			assert.Equal(t, tt.want, info.TypeOf(assign.Value))
			assert.Equal(t, tt.want, info.Symbols[assign].Type)
		})
	}
}

func TestDeclarations(t *testing.T) {
	prog, info, err := analyze(t, "x = 1\nx = 2.5\nif x > 1 {\n  y = x\n}")
	require.NoError(t, err)

	first := prog.Body[0].(*ast.AssignStmt)
	second := prog.Body[1].(*ast.AssignStmt)
	inner := prog.Body[2].(*ast.IfStmt).Then.Stmts[0].(*ast.AssignStmt)

	assert.True(t, info.Declares[first])
	assert.False(t, info.Declares[second])
	assert.True(t, info.Declares[inner])
	assert.Same(t, info.Symbols[first], info.Symbols[second])
	assert.Equal(t, Global, info.Symbols[first].Storage)
	assert.Equal(t, Main, info.Symbols[inner].Storage)
}

func TestCallbackCaptures(t *testing.T) {
	src := `@state total : 0
page("Counter") {
	@state x : 0
	def bump(n) {
		x = x + n
	}
	view(onclick=() { x = x + 1 }) {
		text(to_str(x))
	}
	view(onclick=() { bump(2) })
	view(onlongpress=() { total = total + 1 })
	view(onclick=bump(x))
}
`
	prog, info, err := analyze(t, src)
	require.NoError(t, err)
	assert.Empty(t, info.Warnings)

	body := prog.Body[1].(*ast.Page).Body.Stmts
	callback := func(i int, name string) *ast.Callback {
		return body[i].(*ast.Element).Args.Lookup(name).Value.(*ast.Callback)
	}

	bump := body[1].(*ast.FuncDecl)
	assert.Equal(t, []string{"x"}, info.Captures[bump])
	assert.Equal(t, []string{"x"}, info.Captures[callback(2, "onclick").Func])
	assert.Equal(t, []string{"bump"}, info.Captures[callback(3, "onclick").Func])
	assert.Empty(t, info.Captures[callback(4, "onlongpress").Func], "global state is not captured")
	assert.Equal(t, []string{"x", "bump"}, info.Captures[callback(5, "onclick")])

	state := info.Symbols[body[0]]
	require.NotNil(t, state)
	assert.True(t, state.State)
	assert.Equal(t, "page_1.x", state.Key)
	assert.Equal(t, PageLocal, state.Storage)

	global := info.Symbols[prog.Body[0]]
	assert.Equal(t, "total", global.Key)
	assert.Equal(t, Global, global.Storage)
}

func TestForwardCallToTopLevelFunction(t *testing.T) {
	src := `@state n : 0
page("P") {
	view(onclick=() { bump() })
}
def bump() {
	n = n + step()
}
def step() {
	return to_int("1")
}
`
	prog, info, err := analyze(t, src)
	require.NoError(t, err)

	bump := prog.Body[2].(*ast.FuncDecl)
	step := prog.Body[3].(*ast.FuncDecl)
	assert.Equal(t, Int, info.Returns[step])

	graph := CallGraph(prog, info)
	assert.Equal(t, []*ast.FuncDecl{step}, graph[bump])
	assert.Empty(t, graph[step])
}

func TestForwardCallToPageFunction(t *testing.T) {
	src := `page("Home") {
	@state count : 0
	view(onclick=() { helper() })
	helper()
	def helper() {
		count = count + 1
	}
}
`
	prog, info, err := analyze(t, src)
	require.NoError(t, err)
	assert.Empty(t, info.Warnings)

	body := prog.Body[0].(*ast.Page).Body.Stmts
	cb := body[1].(*ast.Element).Args.Lookup("onclick").Value.(*ast.Callback)
	helper := body[3].(*ast.FuncDecl)
	assert.Equal(t, []string{"helper"}, info.Captures[cb.Func])
	assert.Equal(t, []string{"count"}, info.Captures[helper])

	call := body[2].(*ast.ExprStmt).X.(*ast.CallExpr)
	require.NotNil(t, info.Symbols[call])
	assert.Same(t, helper, info.Symbols[call].Func)
	assert.Equal(t, PageLocal, info.Symbols[call].Storage)
}

func TestWarnings(t *testing.T) {
	src := `page("Home") {
	canvas("board")
	draw("board").clear()
	draw("missing").clear()
	view(onclick=() { go("/nowhere") })
	view(onclick=() { go("/") })
}
def unused() {
	pass
}
`
	_, info, err := analyze(t, src)
	require.NoError(t, err)

	var got []string
	for _, w := range info.Warnings {
		assert.True(t, w.IsWarning())
		got = append(got, w.Message)
	}
	want := []string{
		"Canvas 'missing' is not declared in page 'Home'",
		"Route '/nowhere' is not registered by any page",
		"Function 'unused' is declared but never called",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("warnings mismatch (-want +got):\n%s", diff)
	}
}

func TestInstanceCoercion(t *testing.T) {
	_, _, err := analyze(t, `page("P") {
	canvas("c", height=Platform.height(), width=Platform.width())
	draw("c") {
		rect(1.5, 2, 3, 4)
		alpha(1)
		scale(2, 0.5)
		clear()
		rect()
	}
}`)
	require.NoError(t, err)
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	m, ok := r.Lookup("draw", "text")
	require.True(t, ok)
	assert.Equal(t, []Type{String, Int, Int}, m.Params)

	m, ok = r.Lookup("Platform", "width")
	require.True(t, ok)
	assert.Equal(t, Int, m.Returns)

	_, ok = r.Lookup("Platform", "depth")
	assert.False(t, ok)
	assert.Equal(t, []string{"height", "width"}, r.Methods("Platform"))

	r.Register("audio", map[string]Method{"play": {Params: []Type{String}}})
	assert.True(t, r.Has("audio"))
}

func TestTypeAssignable(t *testing.T) {
	assert.True(t, Int.Assignable(Float))
	assert.True(t, Float.Assignable(Int))
	assert.True(t, String.Assignable(Unknown))
	assert.True(t, Unknown.Assignable(Dict))
	assert.False(t, String.Assignable(Int))
	assert.False(t, Bool.Assignable(Int))
	assert.Equal(t, "float", Float.String())
}
