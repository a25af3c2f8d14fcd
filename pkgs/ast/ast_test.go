package ast

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func ident(name string) *Ident { return &Ident{Name: name} }

func TestFreeIdents(t *testing.T) {
	tests := []struct {
		name   string
		params []string
		body   *Block
		want   []string
	}{
		{
			name: "state increment",
			body: &Block{Stmts: []Stmt{
				&StateAssign{Name: "x", Value: &BinaryExpr{Op: "+", Left: ident("x"), Right: &IntLit{Value: 1, Raw: "1"}}},
			}},
			want: []string{"x"},
		},
		{
			name:   "parameters are bound",
			params: []string{"n"},
			body: &Block{Stmts: []Stmt{
				&PrintStmt{Value: &BinaryExpr{Op: "*", Left: ident("n"), Right: ident("scale")}},
			}},
			want: []string{"scale"},
		},
		{
			name: "locals assigned before use are bound",
			body: &Block{Stmts: []Stmt{
				&AssignStmt{Name: "tmp", Value: ident("count")},
				&ExprStmt{X: &CallExpr{Name: "render", Args: []Expr{ident("tmp"), ident("count")}}},
			}},
			want: []string{"count", "render"},
		},
		{
			name: "hashed dict keys are names",
			body: &Block{Stmts: []Stmt{
				&AssignStmt{Name: "s", Value: &DictLit{Hashed: true, Entries: []*KeyValue{
					{Key: ident("height"), Value: ident("h")},
				}}},
			}},
			want: []string{"h"},
		},
		{
			name: "nested control flow",
			body: &Block{Stmts: []Stmt{
				&IfStmt{
					Cond: &ComparisonExpr{Op: ">", Left: ident("a"), Right: &IntLit{Value: 0, Raw: "0"}},
					Then: &Block{Stmts: []Stmt{&ExprStmt{X: &IncDecExpr{Op: "++", Target: ident("b")}}}},
					Else: &ElseClause{Body: &Block{Stmts: []Stmt{&GoStmt{Route: &StringLit{Value: "/"}}}}},
				},
			}},
			want: []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FreeIdents(tt.params, tt.body)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FreeIdents mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDump(t *testing.T) {
	prog := &Program{
		Pos: Position{Line: 1, Column: 1},
		Body: []Stmt{
			&Page{
				Pos:  Position{Line: 1, Column: 1},
				Args: &Args{Pos: Position{Line: 1, Column: 5}, Positional: &StringLit{Pos: Position{Line: 1, Column: 6}, Value: "Home"}},
				Body: &Block{Pos: Position{Line: 1, Column: 14}, Stmts: []Stmt{
					&Element{Pos: Position{Line: 1, Column: 16}, Tag: Text, Args: &Args{
						Pos:        Position{Line: 1, Column: 20},
						Positional: &StringLit{Pos: Position{Line: 1, Column: 21}, Value: "hi"},
					}},
				}},
			},
		},
	}

	want := `Program @1:1
  Page @1:1
    Args @1:5
      String "Home" @1:6
    Block @1:14
      Text @1:16
        Args @1:20
          String "hi" @1:21
`
	if diff := cmp.Diff(want, Dump(prog)); diff != "" {
		t.Errorf("Dump mismatch (-want +got):\n%s", diff)
	}
}

func TestElementKinds(t *testing.T) {
	for _, kw := range []string{"view", "text", "img", "input", "canvas"} {
		k, ok := ElementKindOf(kw)
		assert.True(t, ok, kw)
		assert.Equal(t, kw, k.String())
	}
	_, ok := ElementKindOf("page")
	assert.False(t, ok)

	assert.Equal(t, KindImage, (&Element{Tag: Image}).Kind())
	assert.Equal(t, "Stylesheet", KindStylesheet.String())
}

func TestStringForms(t *testing.T) {
	call := &CallExpr{Name: "add", Args: []Expr{&IntLit{Raw: "1"}, &FloatLit{Raw: "2.5"}}}
	assert.Equal(t, "add(1, 2.5)", call.String())

	dict := &DictLit{Hashed: true, Entries: []*KeyValue{{Key: ident("height"), Value: &StringLit{Value: "10px"}}}}
	assert.Equal(t, `#{height: "10px"}`, dict.String())

	draw := &DrawStmt{Canvas: &StringLit{Value: "hero"}, Ops: []*InstanceCall{{Instance: "draw", Method: "clear"}}}
	assert.Equal(t, `draw("hero").clear()`, draw.String())
}

// kindCounter counts visited nodes by kind
type kindCounter map[Kind]int

func (c kindCounter) Visit(n Node) Visitor {
	if n != nil {
		c[n.Kind()]++
	}
	return c
}

func TestWalk(t *testing.T) {
	loop := &WhileStmt{
		Cond: &ComparisonExpr{Op: "<", Left: ident("i"), Right: &IntLit{Raw: "3"}},
		Body: &Block{Stmts: []Stmt{
			&PrintStmt{Value: ident("i")},
			&ExprStmt{X: &IncDecExpr{Op: "++", Target: ident("i")}},
		}},
	}
	counts := kindCounter{}
	Walk(counts, loop)

	assert.Equal(t, 3, counts[KindIdent])
	assert.Equal(t, 1, counts[KindBlock])
	assert.Equal(t, 1, counts[KindIncDec])
}
