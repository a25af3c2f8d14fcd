package semantic

import (
	"github.com/aledsdavies/helios/pkgs/ast"
	"github.com/aledsdavies/helios/pkgs/diagnostics"
)

// Route is one entry of the route table. Every page owns exactly one route:
// its explicit route= value, or "/" when it has none.
type Route struct {
	Path  string
	Title string
	Var   string // generated page variable, page_N
	Index bool
	Page  *ast.Page
}

// Info is everything the analyzer learned about a program. The tree itself
// is never modified.
type Info struct {
	// Types holds the static type of every analyzed expression
	Types map[ast.Expr]Type

	// Declares marks assignments that introduce a variable
	Declares map[*ast.AssignStmt]bool

	// Symbols resolves identifiers, assignments, state declarations,
	// function declarations and calls to the symbol they name
	Symbols map[ast.Node]*Symbol

	// Captures lists, per closure, the names it must capture in order of
	// first use. Keys are *ast.FuncDecl or call-form *ast.Callback values.
	Captures map[ast.Node][]string

	// Returns records return types fixed by a returned conversion
	Returns map[*ast.FuncDecl]Type

	Routes   []Route
	Index    *ast.Page
	Warnings diagnostics.List
}

func newInfo() *Info {
	return &Info{
		Types:    make(map[ast.Expr]Type),
		Declares: make(map[*ast.AssignStmt]bool),
		Symbols:  make(map[ast.Node]*Symbol),
		Captures: make(map[ast.Node][]string),
		Returns:  make(map[*ast.FuncDecl]Type),
	}
}

// TypeOf returns the recorded type of e, or Unknown
func (i *Info) TypeOf(e ast.Expr) Type {
	return i.Types[e]
}

// RouteOf returns the route registered by page p
func (i *Info) RouteOf(p *ast.Page) (Route, bool) {
	for _, r := range i.Routes {
		if r.Page == p {
			return r, true
		}
	}
	return Route{}, false
}

// Initial returns the route rendered first: the index claimant, or the first
// page when no page claims "/".
func (i *Info) Initial() (Route, bool) {
	if len(i.Routes) == 0 {
		return Route{}, false
	}
	for _, r := range i.Routes {
		if r.Index {
			return r, true
		}
	}
	return i.Routes[0], true
}
