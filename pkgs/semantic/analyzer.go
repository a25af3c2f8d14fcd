// Package semantic checks a parsed program in two passes. The walk pass
// infers expression types and enforces scoping and UI rules; the closure
// pass resolves calls to functions declared later in the source.
package semantic

import (
	"github.com/aledsdavies/helios/pkgs/ast"
	"github.com/aledsdavies/helios/pkgs/diagnostics"
)

// Option configures Analyze
type Option func(*analyzer)

// WithRegistry replaces the built-in instance registry
func WithRegistry(r *Registry) Option {
	return func(a *analyzer) { a.registry = r }
}

type pendingCall struct {
	call *ast.CallExpr
	ctx  *Context
}

type analyzer struct {
	info     *Info
	registry *Registry
	global   *Context

	routes  map[string]string // path → page title
	pending []pendingCall
	funcs   []*ast.FuncDecl
	called  map[string]bool
	gos     []*ast.StringLit
	capSeen map[ast.Node]map[string]bool

	// captured links each nested function to the nested functions it
	// captures
	captured map[*ast.FuncDecl][]*ast.FuncDecl
}

// Analyze runs both passes over prog. It stops at the first fatal
// diagnostic; advisory findings are returned in Info.Warnings.
func Analyze(prog *ast.Program, opts ...Option) (*Info, error) {
	a := &analyzer{
		info:     newInfo(),
		registry: DefaultRegistry(),
		global:   NewContext(),
		routes:   make(map[string]string),
		called:   make(map[string]bool),
		capSeen:  make(map[ast.Node]map[string]bool),
		captured: make(map[*ast.FuncDecl][]*ast.FuncDecl),
	}
	for _, opt := range opts {
		opt(a)
	}

	if err := a.block(a.global, prog.Body); err != nil {
		return nil, err
	}
	if err := a.closures(); err != nil {
		return nil, err
	}
	return a.info, nil
}

func (a *analyzer) errorf(n ast.Node, format string, args ...interface{}) *diagnostics.Diagnostic {
	return diagnostics.Errorf(diagnostics.Semantic, n.Position().Span(width(n)), format, args...)
}

func (a *analyzer) warnf(n ast.Node, format string, args ...interface{}) {
	a.info.Warnings.Add(diagnostics.Errorf(diagnostics.Warning, n.Position().Span(width(n)), format, args...))
}

// width is the caret length used when pointing at n
func width(n ast.Node) int {
	switch n := n.(type) {
	case *ast.Ident:
		return len(n.Name)
	case *ast.StringLit:
		return len(n.Value) + 2
	case *ast.IntLit:
		return len(n.Raw)
	case *ast.FloatLit:
		return len(n.Raw)
	case *ast.CallExpr:
		return len(n.Name)
	case *ast.AssignStmt:
		return len(n.Name)
	case *ast.StateAssign:
		return len(n.Name)
	case *ast.NamedArg:
		return len(n.Name)
	case *ast.InstanceCall:
		return len(n.Method)
	case *ast.Page:
		return len("page")
	case *ast.Element:
		return len(n.Tag.String())
	}
	return 1
}

func (a *analyzer) block(ctx *Context, stmts []ast.Stmt) error {
	for _, s := range stmts {
		if err := a.stmt(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (a *analyzer) stmt(ctx *Context, s ast.Stmt) error {
	switch s := s.(type) {
	case *ast.AssignStmt:
		return a.assign(ctx, s)
	case *ast.StateDecl:
		return a.stateDecl(ctx, s)
	case *ast.StateAssign:
		return a.stateAssign(ctx, s)
	case *ast.FuncDecl:
		return a.funcDecl(ctx, s)
	case *ast.ReturnStmt:
		return a.returnStmt(ctx, s)
	case *ast.LoopControl:
		if s.Keyword != "pass" && !ctx.inLoop() {
			return a.errorf(s, "'%s' can only be used inside a loop", s.Keyword)
		}
		return nil
	case *ast.IfStmt:
		return a.ifStmt(ctx, s)
	case *ast.WhileStmt:
		if err := a.condition(ctx, s.Cond, "while"); err != nil {
			return err
		}
		return a.block(ctx.Child(LoopContext), s.Body.Stmts)
	case *ast.ForStmt:
		return a.forStmt(ctx, s)
	case *ast.PrintStmt:
		t, err := a.expr(ctx, s.Value)
		if err != nil {
			return err
		}
		if t == Dict || t == List || t == Function {
			return a.errorf(s.Value, "print expects a number, string or bool but got '%s'", t)
		}
		return nil
	case *ast.ExprStmt:
		_, err := a.expr(ctx, s.X)
		return err
	case *ast.Block:
		return a.block(ctx.Child(BlockContext), s.Stmts)
	case *ast.App:
		return a.app(ctx, s)
	case *ast.Page:
		return a.page(ctx, s)
	case *ast.Element:
		return a.element(ctx, s)
	case *ast.GoStmt:
		return a.goStmt(ctx, s)
	case *ast.Stylesheet:
		return a.stylesheet(ctx, s)
	case *ast.DrawStmt:
		return a.draw(ctx, s)
	}
	return a.errorf(s, "Unsupported statement %s", s.Kind())
}

// assign declares name on first assignment and type-checks later ones
func (a *analyzer) assign(ctx *Context, s *ast.AssignStmt) error {
	t, err := a.expr(ctx, s.Value)
	if err != nil {
		return err
	}

	sym, crossed := ctx.Lookup(s.Name)
	if sym == nil {
		sym = ctx.declare(&Symbol{Name: s.Name, Type: t})
		a.info.Declares[s] = true
		a.info.Symbols[s] = sym
		return nil
	}

	switch {
	case sym.Func != nil:
		return a.errorf(s, "Cannot assign to function '%s'", s.Name)
	case sym.State:
		return a.errorf(s, "State '%s' must be declared before it is assigned", s.Name)
	}
	if err := a.writable(s, sym, crossed); err != nil {
		return err
	}
	if !sym.Type.Assignable(t) {
		return a.errorf(s, "Cannot assign '%s' to variable '%s' of type '%s'", t, s.Name, sym.Type)
	}
	a.info.Symbols[s] = sym
	return nil
}

// writable rejects writes from a closure to anything it would only hold a
// copy of. Globals and state containers stay writable.
func (a *analyzer) writable(n ast.Node, sym *Symbol, crossed []*Context) error {
	if len(crossed) == 0 || sym.Storage == Global || sym.State {
		return nil
	}
	if sym.Storage == PageLocal {
		return a.errorf(n, "Callback cannot use page variable '%s'; declare it with @state", sym.Name)
	}
	return a.errorf(n, "Cannot assign to '%s' from a nested function", sym.Name)
}

func (a *analyzer) stateDecl(ctx *Context, s *ast.StateDecl) error {
	if ctx.kind != GlobalContext && ctx.kind != PageContext {
		return a.errorf(s, "@state can only be declared at the top level or directly in a page")
	}
	if _, ok := ctx.local(s.Name); ok {
		return a.errorf(s, "State '%s' is already declared", s.Name)
	}
	t, err := a.expr(ctx, s.Value)
	if err != nil {
		return err
	}
	switch t {
	case Int, Float, String, Bool:
	default:
		return a.errorf(s.Value, "State '%s' must start as an int, float, string or bool but got '%s'", s.Name, t)
	}

	key := s.Name
	if ctx.page != nil {
		key = ctx.page.variable + "." + s.Name
	}
	a.info.Symbols[s] = ctx.declare(&Symbol{Name: s.Name, Type: t, State: true, Key: key})
	return nil
}

func (a *analyzer) stateAssign(ctx *Context, s *ast.StateAssign) error {
	t, err := a.expr(ctx, s.Value)
	if err != nil {
		return err
	}
	sym, crossed := ctx.Lookup(s.Name)
	if sym == nil || !sym.State {
		return a.errorf(s, "State '%s' is not declared", s.Name)
	}
	if !sym.Type.Assignable(t) {
		return a.errorf(s, "Cannot assign '%s' to state '%s' of type '%s'", t, s.Name, sym.Type)
	}
	a.capture(sym, crossed)
	a.info.Symbols[s] = sym
	return nil
}

// funcDecl declares a named function in ctx and analyzes its body
func (a *analyzer) funcDecl(ctx *Context, fn *ast.FuncDecl) error {
	if _, ok := ctx.local(fn.Name); ok {
		return a.errorf(fn, "Function '%s' is already declared", fn.Name)
	}
	a.info.Symbols[fn] = ctx.declare(&Symbol{Name: fn.Name, Type: Function, Func: fn})
	a.funcs = append(a.funcs, fn)
	return a.funcBody(ctx, fn)
}

func (a *analyzer) funcBody(ctx *Context, fn *ast.FuncDecl) error {
	body := ctx.Child(FunctionContext)
	body.fn = fn
	body.closure = fn
	for _, p := range fn.Params {
		body.declare(&Symbol{Name: p})
	}
	return a.block(body, fn.Body.Stmts)
}

func (a *analyzer) returnStmt(ctx *Context, s *ast.ReturnStmt) error {
	fnCtx := ctx.function()
	if fnCtx == nil || fnCtx.fn == nil {
		return a.errorf(s, "'return' can only be used inside a function")
	}
	if s.Value == nil {
		return nil
	}
	t, err := a.expr(ctx, s.Value)
	if err != nil {
		return err
	}
	if _, ok := s.Value.(*ast.Conversion); ok {
		a.info.Returns[fnCtx.fn] = t
	}
	return nil
}

func (a *analyzer) condition(ctx *Context, cond ast.Expr, stmt string) error {
	t, err := a.expr(ctx, cond)
	if err != nil {
		return err
	}
	if t.Known() && t != Bool {
		return a.errorf(cond, "Condition in %s statement must evaluate to a boolean.", stmt)
	}
	return nil
}

func (a *analyzer) ifStmt(ctx *Context, s *ast.IfStmt) error {
	if err := a.condition(ctx, s.Cond, "if"); err != nil {
		return err
	}
	if err := a.block(ctx.Child(BlockContext), s.Then.Stmts); err != nil {
		return err
	}
	for _, elif := range s.ElseIfs {
		if err := a.condition(ctx, elif.Cond, "if"); err != nil {
			return err
		}
		if err := a.block(ctx.Child(BlockContext), elif.Body.Stmts); err != nil {
			return err
		}
	}
	if s.Else != nil {
		return a.block(ctx.Child(BlockContext), s.Else.Body.Stmts)
	}
	return nil
}

func (a *analyzer) forStmt(ctx *Context, s *ast.ForStmt) error {
	loop := ctx.Child(LoopContext)
	if err := a.assign(loop, s.Init); err != nil {
		return err
	}
	if err := a.condition(loop, s.Cond, "for"); err != nil {
		return err
	}
	if err := a.stmt(loop, s.Post); err != nil {
		return err
	}
	return a.block(loop.Child(BlockContext), s.Body.Stmts)
}
