package ast

// Children returns the direct children of n in source order
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if c != nil {
			out = append(out, c)
		}
	}
	addExprs := func(exprs []Expr) {
		for _, e := range exprs {
			add(e)
		}
	}
	addStmts := func(stmts []Stmt) {
		for _, s := range stmts {
			add(s)
		}
	}

	switch n := n.(type) {
	case *Program:
		addStmts(n.Body)
	case *Block:
		addStmts(n.Stmts)
	case *ListLit:
		addExprs(n.Elems)
	case *DictLit:
		for _, e := range n.Entries {
			add(e)
		}
	case *KeyValue:
		add(n.Key)
		add(n.Value)
	case *BinaryExpr:
		add(n.Left)
		add(n.Right)
	case *ComparisonExpr:
		add(n.Left)
		add(n.Right)
	case *UnaryExpr:
		add(n.X)
	case *IncDecExpr:
		add(n.Target)
	case *ParenExpr:
		add(n.X)
	case *CallExpr:
		addExprs(n.Args)
	case *TypeCheck:
		add(n.X)
	case *Conversion:
		add(n.X)
	case *MathCall:
		addExprs(n.Args)
	case *InstanceCall:
		addExprs(n.Args)
	case *Callback:
		if n.Call != nil {
			add(n.Call)
		}
		if n.Func != nil {
			add(n.Func)
		}
	case *IfStmt:
		add(n.Cond)
		add(n.Then)
		for _, e := range n.ElseIfs {
			add(e)
		}
		if n.Else != nil {
			add(n.Else)
		}
	case *ElseIfClause:
		add(n.Cond)
		add(n.Body)
	case *ElseClause:
		add(n.Body)
	case *WhileStmt:
		add(n.Cond)
		add(n.Body)
	case *ForStmt:
		if n.Init != nil {
			add(n.Init)
		}
		add(n.Cond)
		add(n.Post)
		add(n.Body)
	case *ReturnStmt:
		add(n.Value)
	case *AssignStmt:
		add(n.Value)
	case *FuncDecl:
		add(n.Body)
	case *PrintStmt:
		add(n.Value)
	case *ExprStmt:
		add(n.X)
	case *App:
		for _, p := range n.Pages {
			add(p)
		}
	case *Page:
		add(n.Args)
		add(n.Body)
	case *Element:
		add(n.Args)
		if n.Body != nil {
			add(n.Body)
		}
	case *Args:
		add(n.Positional)
		for _, a := range n.Named {
			add(a)
		}
	case *NamedArg:
		add(n.Value)
	case *StateDecl:
		add(n.Value)
	case *StateAssign:
		add(n.Value)
	case *GoStmt:
		add(n.Route)
	case *Stylesheet:
		for _, r := range n.Rules {
			add(r)
		}
	case *ClassRule:
		for _, p := range n.Props {
			add(p)
		}
	case *MediaQuery:
		for _, r := range n.Rules {
			add(r)
		}
	case *StyleProp:
		for _, part := range n.Value {
			add(part.Expr)
		}
	case *DrawStmt:
		add(n.Canvas)
		for _, op := range n.Ops {
			add(op)
		}
	}
	return out
}

// Inspect traverses the tree depth-first, calling f for every node. When f
// returns false the children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

// A Visitor's Visit method is invoked for each node encountered by Walk. If
// the result visitor w is not nil, Walk visits each of the children of node
// with w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(n Node) (w Visitor)
}

// Walk traverses the tree depth-first in source order
func Walk(v Visitor, n Node) {
	if v = v.Visit(n); v == nil {
		return
	}
	for _, c := range Children(n) {
		Walk(v, c)
	}
	v.Visit(nil)
}
