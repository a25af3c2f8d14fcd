package generator

import (
	"fmt"

	"github.com/aledsdavies/helios/pkgs/ast"
	"github.com/aledsdavies/helios/pkgs/semantic"
)

var htmlTags = map[ast.ElementKind]string{
	ast.View:   "div",
	ast.Text:   "p",
	ast.Image:  "img",
	ast.Input:  "input",
	ast.Canvas: "canvas",
}

// positionalAttr is the attribute an element's positional argument sets
var positionalAttr = map[ast.ElementKind]string{
	ast.View:   "id",
	ast.Image:  "src",
	ast.Input:  "placeholder",
	ast.Canvas: "id",
}

var namedAttr = map[string]string{
	"id":    "id",
	"cls":   "class",
	"alt":   "alt",
	"value": "value",
}

var callbackMethods = map[string]string{
	"onclick":     "onClick",
	"onlongpress": "onLongPress",
}

// builder lowers a page to its build_page_N function
func (g *generator) builder(route semantic.Route) *Func {
	g.page = &pageState{counts: make(map[string]int)}
	defer func() { g.page = nil }()

	p := route.Page
	page := id("page")
	var body []Stmt
	if p.Args.Positional != nil {
		body = append(body, do(method(page, "setTitle", g.expr(p.Args.Positional))))
	}
	for _, sheet := range g.sheets {
		body = append(body, do(method(page, "addStyle", call(sheet))))
	}
	for _, arg := range p.Args.Named {
		var value Expr
		switch arg.Name {
		case "style":
			value = g.styleValue(arg.Value)
		case "cls", "id":
			value = g.text(arg.Value)
		default:
			continue
		}
		attr := arg.Name
		if mapped, ok := namedAttr[attr]; ok {
			attr = mapped
		}
		attrs := &Member{X: page, Name: "bodyAttrs"}
		body = append(body, &Assign{Target: &Index{X: attrs, Key: str(attr)}, Value: value})
	}
	body = append(body, g.stmts(p.Body.Stmts, "page")...)

	return &Func{
		Ret:    "void",
		Name:   "build_" + route.Var,
		Params: []Param{{Type: "VPage&", Name: "page"}},
		Body:   body,
	}
}

func (g *generator) nodeName(el *ast.Element) string {
	if el.Binding != "" {
		return cppName(el.Binding)
	}
	kind := el.Tag.String()
	if g.page == nil {
		return kind
	}
	for {
		g.page.counts[kind]++
		name := fmt.Sprintf("%s_%d", kind, g.page.counts[kind])
		if !g.taken[name] {
			return name
		}
	}
}

// element declares a node, configures it, lowers its children and finally
// adds it to parent. Nodes are values, so children must be attached first.
func (g *generator) element(el *ast.Element, parent string) []Stmt {
	name := g.nodeName(el)
	node := id(name)
	decl := &VarDecl{Type: "VNode", Name: name, Ctor: []Expr{str(htmlTags[el.Tag])}}
	out := []Stmt{decl}

	if arg := el.Args.Positional; arg != nil {
		if el.Tag == ast.Text {
			decl.Ctor = append(decl.Ctor, g.text(arg))
		} else {
			out = append(out, do(method(node, "setAttr", str(positionalAttr[el.Tag]), g.text(arg))))
		}
	}
	if el.Tag == ast.Canvas {
		out = append(out, &Assign{Target: &Member{X: node, Name: "type"}, Value: id("VNodeType::CANVAS")})
	}

	for _, arg := range el.Args.Named {
		switch arg.Name {
		case "style":
			out = append(out, do(method(node, "setAttr", str("style"), g.styleValue(arg.Value))))
		case "height", "width":
			if el.Tag == ast.Canvas {
				out = append(out, &Assign{Target: &Member{X: node, Name: arg.Name}, Value: g.expr(arg.Value)})
			} else {
				out = append(out, do(method(node, "setAttr", str(arg.Name), g.text(arg.Value))))
			}
		case "onclick", "onlongpress":
			cb, ok := arg.Value.(*ast.Callback)
			if !ok {
				out = append(out, &Comment{Text: arg.Name + " expects a callback"})
				continue
			}
			out = append(out, do(method(node, callbackMethods[arg.Name], g.callback(cb))))
		default:
			attr, ok := namedAttr[arg.Name]
			if !ok {
				attr = arg.Name
			}
			out = append(out, do(method(node, "setAttr", str(attr), g.text(arg.Value))))
		}
	}

	if el.Body != nil {
		out = append(out, g.stmts(el.Body.Stmts, name)...)
	}
	if parent != "" {
		out = append(out, do(method(id(parent), "addChild", node)))
	}
	return out
}

// callback lowers an event handler. A named inline function has already
// been declared ahead of its element, so the handler only calls it. Every
// handler ends by re-rendering the current page.
func (g *generator) callback(cb *ast.Callback) *Lambda {
	refresh := do(call("updateUI"))
	switch {
	case cb.Call != nil:
		return &Lambda{
			Captures: cppNames(g.info.Captures[cb]),
			Body:     []Stmt{do(g.expr(cb.Call)), refresh},
		}
	case cb.Func.Synthetic:
		l := g.lambda(cb.Func)
		l.Body = append(l.Body, refresh)
		l.Ret = ""
		return l
	}
	return &Lambda{
		Captures: []string{cppName(cb.Func.Name)},
		Body:     []Stmt{do(call(cppName(cb.Func.Name))), refresh},
	}
}

// styleValue lowers a style= argument to one "prop:value;" string
func (g *generator) styleValue(e ast.Expr) Expr {
	d, ok := e.(*ast.DictLit)
	if !ok {
		g.styleHelper = true
		return call("style_of", g.expr(e))
	}
	var c concat
	for _, kv := range d.Entries {
		if ident, ok := kv.Key.(*ast.Ident); ok && !d.Hashed {
			c.splice(g.text(ident))
		} else {
			c.text(kv.KeyName())
		}
		c.text(":")
		if lit, ok := kv.Value.(*ast.StringLit); ok {
			c.text(lit.Value)
		} else {
			c.splice(g.text(kv.Value))
		}
		c.text(";")
	}
	return c.expr()
}

// stylesheet lowers a stylesheet to one CSS string
func (g *generator) stylesheet(s *ast.Stylesheet) Expr {
	var c concat
	for _, rule := range s.Rules {
		switch rule := rule.(type) {
		case *ast.ClassRule:
			g.classRule(&c, rule)
		case *ast.MediaQuery:
			c.text("@media " + rule.Query + "{")
			for _, inner := range rule.Rules {
				g.classRule(&c, inner)
			}
			c.text("}")
		}
	}
	return c.expr()
}

func (g *generator) classRule(c *concat, rule *ast.ClassRule) {
	c.text(rule.Selector + "{")
	for _, prop := range rule.Props {
		c.text(prop.Name + ":")
		for _, part := range prop.Value {
			if part.Expr != nil {
				c.splice(g.text(part.Expr))
			} else {
				c.text(part.Text)
			}
		}
		c.text(";")
	}
	c.text("}")
}

// draw runs the drawing operations once the page is mounted, when the canvas
// exists in the document.
func (g *generator) draw(s *ast.DrawStmt) Stmt {
	n := 1
	if g.page != nil {
		g.page.draws++
		n = g.page.draws
	}
	surface := fmt.Sprintf("ctx_%d", n)
	body := []Stmt{&VarDecl{Type: "Canvas2D", Name: surface, Ctor: []Expr{call("string", g.expr(s.Canvas))}}}
	for _, op := range s.Ops {
		body = append(body, do(method(id(surface), op.Method, g.exprs(op.Args)...)))
	}
	return do(method(id("page"), "onMount", &Lambda{Captures: []string{"="}, Body: body}))
}

// concat accumulates literal text and spliced string expressions, merging
// adjacent literals.
type concat struct {
	parts []Expr
}

func (c *concat) text(s string) {
	if s == "" {
		return
	}
	if n := len(c.parts); n > 0 {
		if last, ok := c.parts[n-1].(*Str); ok {
			c.parts[n-1] = str(last.Value + s)
			return
		}
	}
	c.parts = append(c.parts, str(s))
}

func (c *concat) splice(x Expr) {
	c.parts = append(c.parts, x)
}

func (c *concat) expr() Expr {
	switch len(c.parts) {
	case 0:
		return str("")
	case 1:
		return c.parts[0]
	}
	out := promoteString(c.parts[0])
	for _, p := range c.parts[1:] {
		out = &Binary{Op: "+", Left: out, Right: p}
	}
	return out
}
