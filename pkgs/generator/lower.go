package generator

import (
	"fmt"
	"strconv"

	"github.com/aledsdavies/helios/pkgs/ast"
	"github.com/aledsdavies/helios/pkgs/semantic"
)

// stmts lowers a statement list. parent names the node that elements in
// the list are added to.
func (g *generator) stmts(list []ast.Stmt, parent string) []Stmt {
	var out []Stmt
	for _, s := range g.hoist(list) {
		out = append(out, g.stmt(s, parent)...)
	}
	return out
}

func (g *generator) stmt(s ast.Stmt, parent string) []Stmt {
	switch s := s.(type) {
	case *ast.AssignStmt:
		return []Stmt{g.assign(s)}
	case *ast.StateDecl:
		return []Stmt{g.state(s)}
	case *ast.StateAssign:
		return []Stmt{do(arrow(id(cppName(s.Name)), "set", g.expr(s.Value)))}
	case *ast.FuncDecl:
		return []Stmt{&VarDecl{Type: "auto", Name: cppName(s.Name), Init: g.lambda(s)}}
	case *ast.ReturnStmt:
		if s.Value == nil {
			return []Stmt{&Return{}}
		}
		return []Stmt{&Return{Value: g.expr(s.Value)}}
	case *ast.LoopControl:
		if s.Keyword == "pass" {
			return nil
		}
		return []Stmt{&Jump{Keyword: s.Keyword}}
	case *ast.IfStmt:
		return []Stmt{g.ifStmt(s, parent)}
	case *ast.WhileStmt:
		return []Stmt{&While{Cond: g.expr(s.Cond), Body: g.stmts(s.Body.Stmts, parent)}}
	case *ast.ForStmt:
		return []Stmt{&For{
			Init: g.assign(s.Init),
			Cond: g.expr(s.Cond),
			Post: first(g.stmt(s.Post, parent)),
			Body: g.stmts(s.Body.Stmts, parent),
		}}
	case *ast.PrintStmt:
		return []Stmt{&Print{X: g.expr(s.Value)}}
	case *ast.ExprStmt:
		if inc, ok := s.X.(*ast.IncDecExpr); ok {
			if sym := g.info.Symbols[inc.Target]; sym != nil && sym.State {
				return []Stmt{do(stateStep(inc, arrow(id(cppName(inc.Target.Name)), "get")))}
			}
		}
		return []Stmt{do(g.expr(s.X))}
	case *ast.Block:
		return []Stmt{&Block{Body: g.stmts(s.Stmts, parent)}}
	case *ast.GoStmt:
		return []Stmt{do(call("Router::go", g.expr(s.Route)))}
	case *ast.Element:
		return g.element(s, parent)
	case *ast.Stylesheet:
		return []Stmt{do(method(id("page"), "addStyle", g.stylesheet(s)))}
	case *ast.DrawStmt:
		return []Stmt{g.draw(s)}
	}
	return []Stmt{&Comment{Text: fmt.Sprintf("unsupported statement %s", s.Kind())}}
}

func first(stmts []Stmt) Stmt {
	if len(stmts) == 0 {
		return nil
	}
	return stmts[0]
}

func (g *generator) assign(s *ast.AssignStmt) Stmt {
	value := g.expr(s.Value)
	if !g.info.Declares[s] {
		return &Assign{Target: id(cppName(s.Name)), Value: value}
	}
	t := g.info.TypeOf(s.Value)
	if sym := g.info.Symbols[s]; sym != nil {
		t = sym.Type
	}
	return &VarDecl{Type: cppType(t), Name: cppName(s.Name), Init: value}
}

func (g *generator) ifStmt(s *ast.IfStmt, parent string) *If {
	root := &If{Cond: g.expr(s.Cond), Then: g.stmts(s.Then.Stmts, parent)}
	tail := root
	for _, elif := range s.ElseIfs {
		next := &If{Cond: g.expr(elif.Cond), Then: g.stmts(elif.Body.Stmts, parent)}
		tail.Else = []Stmt{next}
		tail = next
	}
	if s.Else != nil {
		tail.Else = g.stmts(s.Else.Body.Stmts, parent)
	}
	return root
}

// lambda lowers a function declared below the top level. It captures by
// value exactly the names the analyzer recorded.
func (g *generator) lambda(fn *ast.FuncDecl) *Lambda {
	l := &Lambda{Captures: cppNames(g.info.Captures[fn]), Body: g.stmts(fn.Body.Stmts, "")}
	for _, p := range fn.Params {
		l.Params = append(l.Params, Param{Type: "auto", Name: cppName(p)})
	}
	if t, ok := g.info.Returns[fn]; ok && t.Known() {
		l.Ret = cppType(t)
	}
	return l
}

func (g *generator) exprs(list []ast.Expr) []Expr {
	out := make([]Expr, len(list))
	for i, e := range list {
		out[i] = g.expr(e)
	}
	return out
}

func (g *generator) expr(e ast.Expr) Expr {
	switch e := e.(type) {
	case *ast.IntLit:
		return &Lit{Text: strconv.FormatInt(e.Value, 10)}
	case *ast.FloatLit:
		return &Lit{Text: e.Raw}
	case *ast.StringLit:
		return str(e.Value)
	case *ast.BoolLit:
		return &Lit{Text: strconv.FormatBool(e.Value)}
	case *ast.Ident:
		if sym := g.info.Symbols[e]; sym != nil && sym.State {
			return arrow(id(cppName(e.Name)), "get")
		}
		return id(cppName(e.Name))
	case *ast.ParenExpr:
		return g.expr(e.X)
	case *ast.BinaryExpr:
		return g.binary(e.Op, e.Left, e.Right, g.info.TypeOf(e) == semantic.String)
	case *ast.ComparisonExpr:
		strs := g.info.TypeOf(e.Left) == semantic.String || g.info.TypeOf(e.Right) == semantic.String
		return g.binary(e.Op, e.Left, e.Right, strs)
	case *ast.UnaryExpr:
		return &Unary{Op: e.Op, X: g.expr(e.X)}
	case *ast.IncDecExpr:
		return g.incDec(e)
	case *ast.CallExpr:
		return call(cppName(e.Name), g.exprs(e.Args)...)
	case *ast.TypeCheck:
		return str(g.info.TypeOf(e.X).String())
	case *ast.Conversion:
		return g.conversion(e)
	case *ast.MathCall:
		return call(e.Func, g.exprs(e.Args)...)
	case *ast.InstanceCall:
		return call(e.Instance+"::"+e.Method, g.exprs(e.Args)...)
	case *ast.ListLit:
		elem := "string"
		if len(e.Elems) > 0 {
			if t := g.info.TypeOf(e.Elems[0]); t.Known() {
				elem = cppType(t)
			}
		}
		return &Brace{Type: "vector<" + elem + ">", Elems: g.exprs(e.Elems)}
	case *ast.DictLit:
		return g.dict(e)
	}
	return &Lit{Text: fmt.Sprintf("/* unsupported expression %s */", e.Kind())}
}

// binary lowers an operator. Operands of string operations are promoted so
// literal text never meets a pointer comparison or pointer arithmetic.
func (g *generator) binary(op string, left, right ast.Expr, strs bool) Expr {
	l, r := g.expr(left), g.expr(right)
	if strs {
		l, r = promoteString(l), promoteString(r)
	}
	return &Binary{Op: op, Left: l, Right: r}
}

func promoteString(x Expr) Expr {
	if s, ok := x.(*Str); ok {
		return call("string", s)
	}
	return x
}

// incDec lowers ++/-- used as a value. State containers only offer get
// and set, so the step runs in an immediately invoked lambda that yields
// the old value for postfix forms and the new one otherwise.
func (g *generator) incDec(e *ast.IncDecExpr) Expr {
	sym := g.info.Symbols[e.Target]
	if sym == nil || !sym.State {
		return &Unary{Op: e.Op, X: id(cppName(e.Target.Name)), Postfix: !e.Prefix}
	}
	name := cppName(e.Target.Name)
	target := id(name)
	fn := &Lambda{}
	if sym.Storage != semantic.Global {
		fn.Captures = []string{name}
	}
	if e.Prefix {
		fn.Body = []Stmt{do(stateStep(e, arrow(target, "get"))), &Return{Value: arrow(target, "get")}}
		return &Call{Fun: fn}
	}
	prev := "prev"
	if name == prev {
		prev += "_"
	}
	fn.Body = []Stmt{
		&VarDecl{Type: "auto", Name: prev, Init: arrow(target, "get")},
		do(stateStep(e, id(prev))),
		&Return{Value: id(prev)},
	}
	return &Call{Fun: fn}
}

// stateStep sets the state e targets to from plus or minus one
func stateStep(e *ast.IncDecExpr, from Expr) Expr {
	op := "+"
	if e.Op == "--" {
		op = "-"
	}
	return arrow(id(cppName(e.Target.Name)), "set", &Binary{Op: op, Left: from, Right: &Lit{Text: "1"}})
}

func (g *generator) conversion(e *ast.Conversion) Expr {
	x := g.expr(e.X)
	from := g.info.TypeOf(e.X)
	switch e.To {
	case "to_str":
		if from == semantic.String {
			return x
		}
		return call("to_string", x)
	case "to_int":
		if from == semantic.String {
			return call("stoi", x)
		}
		return &Cast{Type: "int", X: x}
	case "to_float":
		if from == semantic.String {
			return call("stod", x)
		}
		return &Cast{Type: "double", X: x}
	}
	return &Lit{Text: "/* unknown conversion " + e.To + " */"}
}

// text lowers e to a C++ string value
func (g *generator) text(e ast.Expr) Expr {
	switch g.info.TypeOf(e) {
	case semantic.Int, semantic.Float, semantic.Bool:
		return call("to_string", g.expr(e))
	}
	return g.expr(e)
}

func (g *generator) dict(d *ast.DictLit) Expr {
	entries := make([]Expr, len(d.Entries))
	for i, kv := range d.Entries {
		entries[i] = &Brace{Elems: []Expr{g.dictKey(d, kv), g.text(kv.Value)}}
	}
	return &Brace{Type: "unordered_map<string, string>", Elems: entries}
}

// dictKey lowers a key; identifiers name variables unless the dict is hashed
func (g *generator) dictKey(d *ast.DictLit, kv *ast.KeyValue) Expr {
	if ident, ok := kv.Key.(*ast.Ident); ok && !d.Hashed {
		return g.text(ident)
	}
	return str(kv.KeyName())
}
