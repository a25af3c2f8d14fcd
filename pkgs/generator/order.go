package generator

import (
	"sort"

	"github.com/aledsdavies/helios/pkgs/ast"
	"github.com/aledsdavies/helios/pkgs/semantic"
)

// hoist moves every nested function ahead of the first statement in list
// that refers to it, along with the declarations the function captures. A
// lambda holds copies of its captures, so each one must exist when the
// lambda is created. Lists without forward calls keep their order.
func (g *generator) hoist(list []ast.Stmt) []ast.Stmt {
	list = liftHandlers(list)
	decls := make(map[*semantic.Symbol]int)
	for i, s := range list {
		if sym := g.declared(s); sym != nil && sym.Storage != semantic.Global {
			decls[sym] = i
		}
	}
	if len(decls) == 0 {
		return list
	}

	refs := func(i int) []int {
		seen := make(map[int]bool)
		var out []int
		ast.Inspect(list[i], func(n ast.Node) bool {
			k, ok := decls[g.info.Symbols[n]]
			if ok && k != i && !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
			return true
		})
		sort.Ints(out)
		return out
	}

	out := make([]ast.Stmt, 0, len(list))
	placed := make([]bool, len(list))
	active := make([]bool, len(list))
	var place func(i int)
	place = func(i int) {
		if placed[i] || active[i] {
			return
		}
		active[i] = true
		for _, k := range refs(i) {
			place(k)
		}
		active[i] = false
		placed[i] = true
		out = append(out, list[i])
	}
	for i := range list {
		place(i)
	}
	return out
}

// declared returns the symbol s introduces, if any
func (g *generator) declared(s ast.Stmt) *semantic.Symbol {
	switch s := s.(type) {
	case *ast.FuncDecl, *ast.StateDecl:
		return g.info.Symbols[s]
	case *ast.AssignStmt:
		if g.info.Declares[s] {
			return g.info.Symbols[s]
		}
	}
	return nil
}

// liftHandlers declares each named inline handler as a statement of its own
// right before the element that defines it
func liftHandlers(list []ast.Stmt) []ast.Stmt {
	var out []ast.Stmt
	for i, s := range list {
		el, ok := s.(*ast.Element)
		if !ok {
			if out != nil {
				out = append(out, s)
			}
			continue
		}
		for _, arg := range el.Args.Named {
			cb, ok := arg.Value.(*ast.Callback)
			if !ok || cb.Func == nil || cb.Func.Synthetic {
				continue
			}
			if out == nil {
				out = append(make([]ast.Stmt, 0, len(list)+1), list[:i]...)
			}
			out = append(out, cb.Func)
		}
		if out != nil {
			out = append(out, s)
		}
	}
	if out == nil {
		return list
	}
	return out
}
