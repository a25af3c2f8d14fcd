package semantic

import (
	"fmt"

	"github.com/aledsdavies/helios/pkgs/ast"
)

// pageScope collects per-page facts checked when the page body is done
type pageScope struct {
	variable string
	title    string
	canvases map[string]bool
	draws    []*ast.StringLit
	bindings map[string]bool
}

func (a *analyzer) app(ctx *Context, app *ast.App) error {
	if ctx.kind != GlobalContext {
		return a.errorf(app, "app() can only be declared at the top level")
	}
	for _, p := range app.Pages {
		if err := a.page(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// page analyzes a page in a fresh child of the global context, so nothing
// declared in one page is visible in the next.
func (a *analyzer) page(ctx *Context, p *ast.Page) error {
	if ctx.kind != GlobalContext {
		return a.errorf(p, "page can only be declared at the top level or inside app()")
	}

	route := Route{Var: fmt.Sprintf("page_%d", len(a.info.Routes)+1), Page: p, Path: "/"}
	scope := &pageScope{
		variable: route.Var,
		canvases: make(map[string]bool),
		bindings: make(map[string]bool),
	}
	pctx := ctx.Child(PageContext)
	pctx.page = scope

	if title := p.Args.Positional; title != nil {
		t, err := a.expr(pctx, title)
		if err != nil {
			return err
		}
		if t.Known() && t != String {
			return a.errorf(title, "Title can only be a string but got: '%s'", t)
		}
		if lit, ok := title.(*ast.StringLit); ok {
			route.Title = lit.Value
		}
	}
	if route.Title == "" {
		route.Title = route.Var
	}
	scope.title = route.Title

	var claim ast.Node = p
	if arg := p.Args.Lookup("route"); arg != nil {
		if lit, ok := arg.Value.(*ast.StringLit); ok {
			route.Path = lit.Value
			claim = arg
		}
	}
	if err := a.register(claim, &route); err != nil {
		return err
	}
	a.info.Routes = append(a.info.Routes, route)

	if err := a.namedArgs(pctx, p.Args); err != nil {
		return err
	}
	if err := a.block(pctx, p.Body.Stmts); err != nil {
		return err
	}

	for _, lit := range scope.draws {
		if !scope.canvases[lit.Value] {
			a.warnf(lit, "Canvas '%s' is not declared in page '%s'", lit.Value, scope.title)
		}
	}
	return nil
}

// register claims route.Path in the route table. "/" is the index slot.
func (a *analyzer) register(n ast.Node, route *Route) error {
	if prev, ok := a.routes[route.Path]; ok {
		if route.Path == "/" {
			return a.errorf(n, "Duplicate index page: '%s' cannot claim '/' already claimed by page '%s'", route.Title, prev)
		}
		return a.errorf(n, "Duplicate route '%s': already registered by page '%s'", route.Path, prev)
	}
	a.routes[route.Path] = route.Title
	if route.Path == "/" {
		route.Index = true
		a.info.Index = route.Page
	}
	return nil
}

func (a *analyzer) element(ctx *Context, el *ast.Element) error {
	if !ctx.inPageBody() {
		return a.errorf(el, "'%s' can only be used inside a page", el.Tag)
	}
	scope := ctx.pageScope()

	if el.Binding != "" {
		if _, ok := ctx.local(el.Binding); ok || scope.bindings[el.Binding] {
			return a.errorf(el, "'%s' is already declared", el.Binding)
		}
		scope.bindings[el.Binding] = true
	}

	if arg := el.Args.Positional; arg != nil {
		t, err := a.expr(ctx, arg)
		if err != nil {
			return err
		}
		if t.Known() && t != String {
			return a.errorf(arg, "'%s' expects a string but got: '%s'", el.Tag, t)
		}
		if lit, ok := arg.(*ast.StringLit); ok && el.Tag == ast.Canvas {
			scope.canvases[lit.Value] = true
		}
	}
	if el.Tag == ast.Canvas {
		if arg := el.Args.Lookup("id"); arg != nil {
			if lit, ok := arg.Value.(*ast.StringLit); ok {
				scope.canvases[lit.Value] = true
			}
		}
	}

	if err := a.namedArgs(ctx, el.Args); err != nil {
		return err
	}
	if el.Body != nil {
		return a.block(ctx.Child(BlockContext), el.Body.Stmts)
	}
	return nil
}

func (a *analyzer) namedArgs(ctx *Context, args *ast.Args) error {
	for _, arg := range args.Named {
		if cb, ok := arg.Value.(*ast.Callback); ok {
			if err := a.callback(ctx, cb); err != nil {
				return err
			}
			continue
		}

		t, err := a.expr(ctx, arg.Value)
		if err != nil {
			return err
		}
		switch arg.Name {
		case "style":
			if t.Known() && t != Dict {
				return a.errorf(arg.Value, "style can only be a Dictionary.")
			}
			if d, ok := arg.Value.(*ast.DictLit); ok {
				if err := a.styleValues(d); err != nil {
					return err
				}
			}
		case "cls", "id", "alt", "value", "route":
			if t.Known() && t != String {
				return a.errorf(arg.Value, "'%s' expects a string but got: '%s'", arg.Name, t)
			}
		case "height", "width":
			if t.Known() && !t.IsNumeric() {
				return a.errorf(arg.Value, "'%s' expects a number but got: '%s'", arg.Name, t)
			}
		}
	}
	return nil
}

func (a *analyzer) styleValues(d *ast.DictLit) error {
	for _, kv := range d.Entries {
		t := a.info.Types[kv.Value]
		if t.Known() && t != String && !t.IsNumeric() {
			return a.errorf(kv.Value, "Style value for '%s' must be a string or number but got '%s'", kv.KeyName(), t)
		}
	}
	return nil
}

// callback analyzes an onclick= or onlongpress= value. Its body runs after
// the page builder returns, so it is analyzed as a closure.
func (a *analyzer) callback(ctx *Context, cb *ast.Callback) error {
	if cb.Call != nil {
		closure := ctx.Child(FunctionContext)
		closure.closure = cb
		_, err := a.call(closure, cb.Call)
		return err
	}

	fn := cb.Func
	if fn.Synthetic {
		return a.funcBody(ctx, fn)
	}
	a.called[fn.Name] = true
	return a.funcDecl(ctx, fn)
}

func (a *analyzer) goStmt(ctx *Context, s *ast.GoStmt) error {
	if ctx.pageScope() == nil && ctx.function() == nil {
		return a.errorf(s, "go() can only be used inside a page or a function")
	}
	t, err := a.expr(ctx, s.Route)
	if err != nil {
		return err
	}
	if t.Known() && t != String {
		return a.errorf(s.Route, "go expects a route string but got: '%s'", t)
	}
	if lit, ok := s.Route.(*ast.StringLit); ok {
		a.gos = append(a.gos, lit)
	}
	return nil
}

func (a *analyzer) stylesheet(ctx *Context, s *ast.Stylesheet) error {
	if ctx.kind != GlobalContext && !ctx.inPageBody() {
		return a.errorf(s, "stylesheet can only be declared at the top level or in a page")
	}
	check := func(rule *ast.ClassRule) error {
		for _, prop := range rule.Props {
			for _, part := range prop.Value {
				if part.Expr == nil {
					continue
				}
				t, err := a.expr(ctx, part.Expr)
				if err != nil {
					return err
				}
				if t.Known() && t != String && !t.IsNumeric() {
					return a.errorf(part.Expr, "Style value for '%s' must be a string or number but got '%s'", prop.Name, t)
				}
			}
		}
		return nil
	}

	for _, rule := range s.Rules {
		switch rule := rule.(type) {
		case *ast.ClassRule:
			if err := check(rule); err != nil {
				return err
			}
		case *ast.MediaQuery:
			for _, inner := range rule.Rules {
				if err := check(inner); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (a *analyzer) draw(ctx *Context, s *ast.DrawStmt) error {
	if !ctx.inPageBody() {
		return a.errorf(s, "draw can only be used in a page body")
	}
	t, err := a.expr(ctx, s.Canvas)
	if err != nil {
		return err
	}
	if t.Known() && t != String {
		return a.errorf(s.Canvas, "draw expects a canvas id string but got: '%s'", t)
	}
	for _, op := range s.Ops {
		if _, err := a.expr(ctx, op); err != nil {
			return err
		}
	}
	if lit, ok := s.Canvas.(*ast.StringLit); ok {
		scope := ctx.pageScope()
		scope.draws = append(scope.draws, lit)
	}
	return nil
}
