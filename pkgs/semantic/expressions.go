package semantic

import "github.com/aledsdavies/helios/pkgs/ast"

// expr infers the type of e and records it in Info.Types
func (a *analyzer) expr(ctx *Context, e ast.Expr) (Type, error) {
	t, err := a.exprType(ctx, e)
	if err != nil {
		return Unknown, err
	}
	a.info.Types[e] = t
	return t, nil
}

func (a *analyzer) exprType(ctx *Context, e ast.Expr) (Type, error) {
	switch e := e.(type) {
	case *ast.IntLit:
		return Int, nil
	case *ast.FloatLit:
		return Float, nil
	case *ast.StringLit:
		return String, nil
	case *ast.BoolLit:
		return Bool, nil
	case *ast.ListLit:
		for _, elem := range e.Elems {
			if _, err := a.expr(ctx, elem); err != nil {
				return Unknown, err
			}
		}
		return List, nil
	case *ast.DictLit:
		return a.dict(ctx, e)
	case *ast.BinaryExpr:
		return a.binary(ctx, e)
	case *ast.ComparisonExpr:
		return a.comparison(ctx, e)
	case *ast.UnaryExpr:
		t, err := a.expr(ctx, e.X)
		if err != nil {
			return Unknown, err
		}
		if t.Known() && !t.IsNumeric() {
			return Unknown, a.errorf(e, "Operator '%s' only supports numbers.", e.Op)
		}
		return t, nil
	case *ast.IncDecExpr:
		return a.incDec(ctx, e)
	case *ast.ParenExpr:
		return a.expr(ctx, e.X)
	case *ast.Ident:
		sym, err := a.read(ctx, e, e.Name)
		if err != nil {
			return Unknown, err
		}
		return sym.Type, nil
	case *ast.CallExpr:
		return a.call(ctx, e)
	case *ast.TypeCheck:
		if _, err := a.expr(ctx, e.X); err != nil {
			return Unknown, err
		}
		return String, nil
	case *ast.Conversion:
		return a.conversion(ctx, e)
	case *ast.MathCall:
		for _, arg := range e.Args {
			t, err := a.expr(ctx, arg)
			if err != nil {
				return Unknown, err
			}
			if t.Known() && !t.IsNumeric() {
				return Unknown, a.errorf(arg, "'%s' expects a number but got '%s'", e.Func, t)
			}
		}
		return Float, nil
	case *ast.InstanceCall:
		return a.instanceCall(ctx, e)
	case *ast.Callback:
		return Function, a.callback(ctx, e)
	}
	return Unknown, a.errorf(e, "Unsupported expression %s", e.Kind())
}

// read resolves a name used as a value
func (a *analyzer) read(ctx *Context, n ast.Node, name string) (*Symbol, error) {
	sym, crossed := ctx.Lookup(name)
	if sym == nil {
		return nil, a.errorf(n, "Variable '%s' used before assignment.", name)
	}
	if len(crossed) > 0 && sym.Storage == PageLocal && !sym.State && sym.Func == nil {
		return nil, a.errorf(n, "Callback cannot use page variable '%s'; declare it with @state", name)
	}
	if err := a.selfReference(n, sym, crossed); err != nil {
		return nil, err
	}
	a.capture(sym, crossed)
	a.info.Symbols[n] = sym
	return sym, nil
}

// selfReference rejects a local closure that names itself; a lambda cannot
// capture the variable it is being assigned to.
func (a *analyzer) selfReference(n ast.Node, sym *Symbol, crossed []*Context) error {
	if sym.Func == nil || sym.Storage == Global {
		return nil
	}
	for _, fnCtx := range crossed {
		if fnCtx.fn == sym.Func {
			return a.errorf(n, "Function '%s' cannot call itself here; declare it at the top level", sym.Name)
		}
	}
	return nil
}

// capture adds sym to every closure crossed while resolving it
func (a *analyzer) capture(sym *Symbol, crossed []*Context) {
	if sym.Storage == Global {
		return
	}
	for _, fnCtx := range crossed {
		seen := a.capSeen[fnCtx.closure]
		if seen == nil {
			seen = make(map[string]bool)
			a.capSeen[fnCtx.closure] = seen
		}
		if seen[sym.Name] {
			continue
		}
		seen[sym.Name] = true
		a.info.Captures[fnCtx.closure] = append(a.info.Captures[fnCtx.closure], sym.Name)
		if sym.Func != nil && fnCtx.fn != nil && fnCtx.closure == fnCtx.fn {
			a.captured[fnCtx.fn] = append(a.captured[fnCtx.fn], sym.Func)
		}
	}
}

func (a *analyzer) dict(ctx *Context, d *ast.DictLit) (Type, error) {
	for _, kv := range d.Entries {
		switch key := kv.Key.(type) {
		case *ast.Ident:
			if d.Hashed {
				a.info.Types[key] = String
				break
			}
			t, err := a.expr(ctx, key)
			if err != nil {
				return Unknown, err
			}
			if t.Known() && t != String {
				return Unknown, a.errorf(key, "Dictionary key '%s' must be a string but got '%s'", key.Name, t)
			}
		case *ast.StringLit:
			a.info.Types[key] = String
		}
		if _, err := a.expr(ctx, kv.Value); err != nil {
			return Unknown, err
		}
	}
	return Dict, nil
}

func (a *analyzer) binary(ctx *Context, e *ast.BinaryExpr) (Type, error) {
	lt, err := a.expr(ctx, e.Left)
	if err != nil {
		return Unknown, err
	}
	rt, err := a.expr(ctx, e.Right)
	if err != nil {
		return Unknown, err
	}

	if e.Op == "+" {
		switch {
		case lt.IsNumeric() && rt.IsNumeric():
			return promote(lt, rt), nil
		case lt == String && rt == String:
			return String, nil
		case !lt.Known() || !rt.Known():
			known := lt
			if !known.Known() {
				known = rt
			}
			switch {
			case known == String:
				return String, nil
			case !known.Known() || known.IsNumeric():
				return Unknown, nil
			}
			return Unknown, a.errorf(e, "Operator '+' only supports numbers and strings.")
		case lt == rt:
			return Unknown, a.errorf(e, "Operator '+' only supports numbers and strings.")
		}
		return Unknown, a.errorf(e, "Type mismatch in binary operation '+'")
	}

	for _, t := range []Type{lt, rt} {
		if t.Known() && !t.IsNumeric() {
			return Unknown, a.errorf(e, "Operator '%s' only supports numbers.", e.Op)
		}
	}
	if e.Op == "%" && (lt == Float || rt == Float) {
		return Unknown, a.errorf(e, "Operator '%%' only supports integers.")
	}
	return promote(lt, rt), nil
}

func (a *analyzer) comparison(ctx *Context, e *ast.ComparisonExpr) (Type, error) {
	lt, err := a.expr(ctx, e.Left)
	if err != nil {
		return Unknown, err
	}
	rt, err := a.expr(ctx, e.Right)
	if err != nil {
		return Unknown, err
	}
	if !lt.Assignable(rt) {
		return Unknown, a.errorf(e, "Cannot compare '%s' with '%s'", lt, rt)
	}
	if e.Op != "==" && e.Op != "!=" {
		for _, t := range []Type{lt, rt} {
			if t.Known() && !t.IsNumeric() && t != String {
				return Unknown, a.errorf(e, "Operator '%s' only supports numbers and strings.", e.Op)
			}
		}
	}
	return Bool, nil
}

func (a *analyzer) incDec(ctx *Context, e *ast.IncDecExpr) (Type, error) {
	sym, crossed := ctx.Lookup(e.Target.Name)
	if sym == nil {
		return Unknown, a.errorf(e.Target, "Variable '%s' used before assignment.", e.Target.Name)
	}
	if err := a.writable(e.Target, sym, crossed); err != nil {
		return Unknown, err
	}
	if sym.Type.Known() && !sym.Type.IsNumeric() {
		return Unknown, a.errorf(e, "Operator '%s' only supports numbers.", e.Op)
	}
	a.capture(sym, crossed)
	a.info.Symbols[e.Target] = sym
	a.info.Types[e.Target] = sym.Type
	return sym.Type, nil
}

// call resolves a user function call. Calls to names not yet declared are
// left for the closure pass.
func (a *analyzer) call(ctx *Context, c *ast.CallExpr) (Type, error) {
	for _, arg := range c.Args {
		if _, err := a.expr(ctx, arg); err != nil {
			return Unknown, err
		}
	}
	a.called[c.Name] = true

	sym, crossed := ctx.Lookup(c.Name)
	if sym == nil {
		a.pending = append(a.pending, pendingCall{call: c, ctx: ctx})
		return Unknown, nil
	}
	if err := a.resolveCall(c, sym, crossed); err != nil {
		return Unknown, err
	}
	if sym.Func != nil {
		return a.info.Returns[sym.Func], nil
	}
	return Unknown, nil
}

func (a *analyzer) resolveCall(c *ast.CallExpr, sym *Symbol, crossed []*Context) error {
	if sym.Func == nil {
		if sym.Type.Known() && sym.Type != Function {
			return a.errorf(c, "'%s' is not a function", c.Name)
		}
		if len(crossed) > 0 && sym.Storage == PageLocal && !sym.State {
			return a.errorf(c, "Callback cannot use page variable '%s'; declare it with @state", c.Name)
		}
	} else if len(c.Args) != len(sym.Func.Params) {
		return a.errorf(c, "Function '%s' expects %d argument(s) but got %d", c.Name, len(sym.Func.Params), len(c.Args))
	}
	if err := a.selfReference(c, sym, crossed); err != nil {
		return err
	}
	a.capture(sym, crossed)
	a.info.Symbols[c] = sym
	return nil
}

func (a *analyzer) conversion(ctx *Context, e *ast.Conversion) (Type, error) {
	t, err := a.expr(ctx, e.X)
	if err != nil {
		return Unknown, err
	}
	if t == Dict || t == List || t == Function {
		return Unknown, a.errorf(e, "'%s' cannot convert a value of type '%s'", e.To, t)
	}
	switch e.To {
	case "to_int":
		return Int, nil
	case "to_float":
		return Float, nil
	}
	return String, nil
}

func (a *analyzer) instanceCall(ctx *Context, c *ast.InstanceCall) (Type, error) {
	if !a.registry.Has(c.Instance) {
		return Unknown, a.errorf(c, "Unknown instance '%s'", c.Instance)
	}
	m, ok := a.registry.Lookup(c.Instance, c.Method)
	if !ok {
		return Unknown, a.errorf(c, "'%s' has no method '%s'", c.Instance, c.Method).
			DidYouMean(c.Method, a.registry.Methods(c.Instance))
	}

	types := make([]Type, len(c.Args))
	for i, arg := range c.Args {
		t, err := a.expr(ctx, arg)
		if err != nil {
			return Unknown, err
		}
		types[i] = t
	}
	if len(c.Args) == 0 {
		return m.Returns, nil
	}
	if len(c.Args) != len(m.Params) {
		return Unknown, a.errorf(c, "'%s.%s' expects %d argument(s) but got %d",
			c.Instance, c.Method, len(m.Params), len(c.Args))
	}
	for i, t := range types {
		if !m.Params[i].Assignable(t) {
			return Unknown, a.errorf(c.Args[i], "Argument %d of '%s' must be '%s' but got '%s'",
				i+1, c.Method, m.Params[i], t)
		}
	}
	return m.Returns, nil
}
