package generator

import (
	"fmt"
	"io"
	"strings"
)

const indentUnit = "    "

// emitter writes C++ source. The first write error is kept and every later
// write becomes a no-op, so callers check err once at the end.
type emitter struct {
	w      io.Writer
	err    error
	indent int
}

func (e *emitter) emitRaw(s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s)
}

func (e *emitter) emitLine(format string, args ...any) {
	e.emitText(fmt.Sprintf(format, args...))
}

// emitText writes one indented line verbatim
func (e *emitter) emitText(line string) {
	e.emitRaw(strings.Repeat(indentUnit, e.indent))
	e.emitRaw(line)
	e.emitRaw("\n")
}

// Render prints unit as C++ source
func Render(w io.Writer, unit *Unit) error {
	e := &emitter{w: w}
	for _, inc := range unit.Includes {
		e.emitLine("#include %s", inc)
	}
	if len(unit.Includes) > 0 {
		e.emitLine("")
	}
	for _, s := range unit.Decls {
		e.stmt(s)
	}
	e.emitLine("int main() {")
	e.block(unit.Main)
	e.emitLine("}")
	return e.err
}

// RenderStmts prints a statement list at top indentation
func RenderStmts(w io.Writer, stmts []Stmt) error {
	e := &emitter{w: w}
	for _, s := range stmts {
		e.stmt(s)
	}
	return e.err
}

func (e *emitter) block(body []Stmt) {
	e.indent++
	for _, s := range body {
		e.stmt(s)
	}
	e.indent--
}

func (e *emitter) stmt(s Stmt) {
	switch s := s.(type) {
	case *Raw:
		for _, line := range strings.Split(s.Text, "\n") {
			e.emitText(line)
		}
	case *Comment:
		e.emitText("// " + s.Text)
	case *Blank:
		e.emitLine("")
	case *Func:
		if len(s.Template) > 0 {
			names := make([]string, len(s.Template))
			for i, t := range s.Template {
				names[i] = "typename " + t
			}
			e.emitLine("template <%s>", strings.Join(names, ", "))
		}
		e.emitLine("%s %s(%s) {", s.Ret, s.Name, params(s.Params))
		e.block(s.Body)
		e.emitLine("}")
	case *If:
		e.emitLine("if (%s) {", e.expr(s.Cond))
		e.ifTail(s)
	case *While:
		e.emitLine("while (%s) {", e.expr(s.Cond))
		e.block(s.Body)
		e.emitLine("}")
	case *For:
		e.emitLine("for (%s; %s; %s) {", e.inline(s.Init), e.optExpr(s.Cond), e.inline(s.Post))
		e.block(s.Body)
		e.emitLine("}")
	case *Block:
		e.emitLine("{")
		e.block(s.Body)
		e.emitLine("}")
	case *Print:
		e.emitLine("cout << %s << endl;", e.expr(s.X))
	case *Return:
		if s.Value == nil {
			e.emitLine("return;")
			return
		}
		e.emitLine("return %s;", e.expr(s.Value))
	case *Jump:
		e.emitText(s.Keyword + ";")
	default:
		e.emitText(e.inline(s) + ";")
	}
}

func (e *emitter) ifTail(s *If) {
	e.block(s.Then)
	switch {
	case len(s.Else) == 1:
		if next, ok := s.Else[0].(*If); ok {
			e.emitLine("} else if (%s) {", e.expr(next.Cond))
			e.ifTail(next)
			return
		}
		fallthrough
	case len(s.Else) > 0:
		e.emitLine("} else {")
		e.block(s.Else)
	}
	e.emitLine("}")
}

// inline renders a simple statement without its terminator
func (e *emitter) inline(s Stmt) string {
	switch s := s.(type) {
	case nil:
		return ""
	case *VarDecl:
		switch {
		case s.Ctor != nil:
			return fmt.Sprintf("%s %s(%s)", s.Type, s.Name, e.exprs(s.Ctor))
		case s.Init != nil:
			return fmt.Sprintf("%s %s = %s", s.Type, s.Name, e.expr(s.Init))
		default:
			return fmt.Sprintf("%s %s", s.Type, s.Name)
		}
	case *Assign:
		return fmt.Sprintf("%s = %s", e.expr(s.Target), e.expr(s.Value))
	case *ExprStmt:
		return e.expr(s.X)
	}
	panic(fmt.Sprintf("generator: cannot render %T inline", s))
}

func (e *emitter) optExpr(x Expr) string {
	if x == nil {
		return ""
	}
	return e.expr(x)
}

func (e *emitter) exprs(xs []Expr) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = e.expr(x)
	}
	return strings.Join(parts, ", ")
}

func (e *emitter) expr(x Expr) string {
	switch x := x.(type) {
	case *Ident:
		return x.Name
	case *Lit:
		return x.Text
	case *Str:
		return quote(x.Value)
	case *Binary:
		return fmt.Sprintf("(%s %s %s)", e.expr(x.Left), x.Op, e.expr(x.Right))
	case *Unary:
		if x.Postfix {
			return e.expr(x.X) + x.Op
		}
		return x.Op + e.expr(x.X)
	case *Call:
		return fmt.Sprintf("%s(%s)", e.expr(x.Fun), e.exprs(x.Args))
	case *Member:
		if x.Arrow {
			return e.expr(x.X) + "->" + x.Name
		}
		return e.expr(x.X) + "." + x.Name
	case *Index:
		return fmt.Sprintf("%s[%s]", e.expr(x.X), e.expr(x.Key))
	case *Brace:
		return fmt.Sprintf("%s{%s}", x.Type, e.exprs(x.Elems))
	case *Cast:
		return fmt.Sprintf("static_cast<%s>(%s)", x.Type, e.expr(x.X))
	case *Lambda:
		return e.lambda(x)
	}
	panic(fmt.Sprintf("generator: cannot render %T", x))
}

func (e *emitter) lambda(l *Lambda) string {
	var b strings.Builder
	b.WriteString("[" + strings.Join(l.Captures, ", ") + "](" + params(l.Params) + ")")
	if l.Ret != "" {
		b.WriteString(" -> " + l.Ret)
	}
	if len(l.Body) == 0 {
		b.WriteString(" {}")
		return b.String()
	}
	b.WriteString(" {\n")
	inner := &emitter{w: &b, indent: e.indent + 1}
	for _, s := range l.Body {
		inner.stmt(s)
	}
	b.WriteString(strings.Repeat(indentUnit, e.indent) + "}")
	return b.String()
}

func params(ps []Param) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.Type + " " + p.Name
	}
	return strings.Join(parts, ", ")
}

// quote spells s as a C++ string literal
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
