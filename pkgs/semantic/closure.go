package semantic

import (
	"sort"

	"github.com/aledsdavies/helios/pkgs/ast"
)

// closures is the second pass. Calls that could not be resolved during the
// walk must now name a declared function that is visible from the call site.
func (a *analyzer) closures() error {
	for _, p := range a.pending {
		sym, crossed := p.ctx.Lookup(p.call.Name)
		if sym == nil {
			return a.errorf(p.call, "Function '%s' called but not declared.", p.call.Name).
				DidYouMean(p.call.Name, a.functionNames())
		}
		if err := a.resolveCall(p.call, sym, crossed); err != nil {
			return err
		}
	}
	if err := a.captureCycles(); err != nil {
		return err
	}

	registered := make(map[string]bool, len(a.info.Routes))
	for _, r := range a.info.Routes {
		registered[r.Path] = true
	}
	for _, lit := range a.gos {
		if !registered[lit.Value] {
			a.warnf(lit, "Route '%s' is not registered by any page", lit.Value)
		}
	}

	for _, fn := range a.funcs {
		if !a.called[fn.Name] {
			a.warnf(fn, "Function '%s' is declared but never called", fn.Name)
		}
	}
	return nil
}

// captureCycles rejects nested functions that capture each other. Each one
// is a value holding a copy of the others, so no declaration order works.
func (a *analyzer) captureCycles() error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[*ast.FuncDecl]int)
	var visit func(fn *ast.FuncDecl) error
	visit = func(fn *ast.FuncDecl) error {
		state[fn] = visiting
		for _, dep := range a.captured[fn] {
			switch state[dep] {
			case visiting:
				return a.errorf(dep, "Functions '%s' and '%s' call each other; declare them at the top level", dep.Name, fn.Name)
			case unvisited:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}
		state[fn] = done
		return nil
	}
	for _, fn := range a.funcs {
		if state[fn] == unvisited {
			if err := visit(fn); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *analyzer) functionNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, fn := range a.funcs {
		if !seen[fn.Name] {
			seen[fn.Name] = true
			names = append(names, fn.Name)
		}
	}
	sort.Strings(names)
	return names
}

// CallGraph returns, for each top-level function, the top-level functions
// its body calls, in order of first call.
func CallGraph(prog *ast.Program, info *Info) map[*ast.FuncDecl][]*ast.FuncDecl {
	graph := make(map[*ast.FuncDecl][]*ast.FuncDecl)
	for _, s := range prog.Body {
		fn, ok := s.(*ast.FuncDecl)
		if !ok {
			continue
		}
		seen := make(map[*ast.FuncDecl]bool)
		graph[fn] = nil
		ast.Inspect(fn.Body, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			sym := info.Symbols[call]
			if sym != nil && sym.Func != nil && sym.Storage == Global && !seen[sym.Func] {
				seen[sym.Func] = true
				graph[fn] = append(graph[fn], sym.Func)
			}
			return true
		})
	}
	return graph
}
