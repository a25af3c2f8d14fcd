// Package generator lowers an analyzed program to C++ for the vdom runtime.
//
// Lowering builds a Unit of C++ statements and expressions; Render prints it.
// Generation trusts the analyzer: anything it cannot lower becomes a comment
// in the output rather than an error.
package generator

import (
	"fmt"
	"strings"

	"github.com/aledsdavies/helios/pkgs/ast"
	"github.com/aledsdavies/helios/pkgs/manifest"
	"github.com/aledsdavies/helios/pkgs/semantic"
)

// Config controls code generation
type Config struct {
	// RuntimeHeader is the vdom runtime header included by generated code
	RuntimeHeader string

	// Compiler is recorded in the manifest
	Compiler string
}

type Option func(*Config)

func WithRuntimeHeader(header string) Option {
	return func(c *Config) { c.RuntimeHeader = header }
}

func WithCompiler(version string) Option {
	return func(c *Config) { c.Compiler = version }
}

// Output is the result of Generate
type Output struct {
	// Code is the complete translation unit
	Code string

	// Main is the body of main on its own, the statements that register pages
	// and start the router
	Main string

	Unit     *Unit
	Manifest *manifest.Manifest
}

// Generate lowers prog using the facts in info
func Generate(prog *ast.Program, info *semantic.Info, opts ...Option) (*Output, error) {
	if prog == nil || info == nil {
		return nil, fmt.Errorf("generator: program and analysis info are required")
	}
	config := Config{RuntimeHeader: "vdom.hpp", Compiler: "helios"}
	for _, opt := range opts {
		opt(&config)
	}

	g := &generator{prog: prog, info: info, config: config, taken: sourceNames(prog)}
	unit, pages := g.lower()

	var code strings.Builder
	if err := Render(&code, unit); err != nil {
		return nil, fmt.Errorf("rendering C++: %w", err)
	}
	var main strings.Builder
	if err := RenderStmts(&main, unit.Main); err != nil {
		return nil, fmt.Errorf("rendering main: %w", err)
	}

	m := manifest.New(config.Compiler)
	m.Pages = pages
	return &Output{Code: code.String(), Main: main.String(), Unit: unit, Manifest: m}, nil
}

type generator struct {
	prog   *ast.Program
	info   *semantic.Info
	config Config

	// page is the page whose builder is being lowered
	page *pageState

	// taken holds every source name, so generated element names can avoid
	// them
	taken map[string]bool

	// sheets names the functions returning top-level stylesheets
	sheets      []string
	styleHelper bool
}

// pageState numbers generated names within one builder
type pageState struct {
	counts map[string]int
	draws  int
}

func (g *generator) lower() (*Unit, []manifest.Page) {
	unit := &Unit{
		Includes: []string{"<iostream>", "<string>", "<vector>", "<unordered_map>", "<memory>", "<cmath>", quote(g.config.RuntimeHeader)},
	}

	var (
		states    []Stmt
		vars      []Stmt
		autoVars  []Stmt
		sheetFns  []Stmt
		pageDecls []Stmt
	)
	for _, s := range g.prog.Body {
		switch s := s.(type) {
		case *ast.StateDecl:
			states = append(states, g.state(s))
		case *ast.AssignStmt:
			if !g.info.Declares[s] {
				continue
			}
			sym := g.info.Symbols[s]
			if autoGlobal(sym) {
				autoVars = append(autoVars, &VarDecl{Type: "auto", Name: cppName(s.Name), Init: g.expr(s.Value)})
			} else if sym != nil {
				vars = append(vars, &VarDecl{Type: cppType(sym.Type), Name: cppName(s.Name)})
			}
		case *ast.Stylesheet:
			name := fmt.Sprintf("global_style_%d", len(g.sheets)+1)
			g.sheets = append(g.sheets, name)
			sheetFns = append(sheetFns, &Func{Ret: "string", Name: name, Body: []Stmt{&Return{Value: g.stylesheet(s)}}})
		}
	}

	var builders []Stmt
	var pages []manifest.Page
	var registration []Stmt
	for _, route := range g.info.Routes {
		pageDecls = append(pageDecls, &VarDecl{Type: "auto", Name: route.Var, Init: call("make_shared<VPage>")})
		builders = append(builders, g.builder(route), &Blank{})

		init := []Stmt{
			&Assign{Target: &Member{X: id(route.Var), Name: "builder", Arrow: true}, Value: id("build_" + route.Var)},
			do(call("Router::add", str(route.Path), id(route.Var))),
		}
		registration = append(registration, init...)
		pages = append(pages, manifest.Page{
			Var:   route.Var,
			Title: route.Title,
			Route: route.Path,
			Index: route.Index,
			Init:  renderLines(init),
		})
	}

	decls := []Stmt{&Raw{Text: "using namespace std;"}, &Blank{}, updateUI(), &Blank{}}
	if g.styleHelper {
		decls = append(decls, styleOf(), &Blank{})
	}
	decls = appendGroup(decls, states)
	decls = appendGroup(decls, vars)
	for _, fn := range g.functions() {
		decls = append(decls, fn, &Blank{})
	}
	decls = appendGroup(decls, autoVars)
	for _, fn := range sheetFns {
		decls = append(decls, fn, &Blank{})
	}
	decls = appendGroup(decls, pageDecls)
	unit.Decls = append(decls, builders...)

	unit.Main = append(g.mainBody(), registration...)
	if initial, ok := g.info.Initial(); ok {
		stmt := do(call("GlobalState::setCurrentPage", id(initial.Var)))
		unit.Main = append(unit.Main, stmt)
		for i := range pages {
			if pages[i].Var == initial.Var {
				pages[i].Init = append(pages[i].Init, renderLines([]Stmt{stmt})...)
			}
		}
		unit.Main = append(unit.Main, &Raw{Text: routerBootstrap})
	}
	unit.Main = append(unit.Main, &Return{Value: &Lit{Text: "0"}})
	return unit, pages
}

const routerBootstrap = `EM_ASM({
    Module._handleRoute(allocateUTF8(window.location.pathname));
    window.addEventListener("popstate", () => {
        Module._handleRoute(allocateUTF8(window.location.pathname));
    });
});`

// mainBody lowers the top-level imperative statements
func (g *generator) mainBody() []Stmt {
	var out []Stmt
	for _, s := range g.prog.Body {
		switch s := s.(type) {
		case *ast.FuncDecl, *ast.Page, *ast.App, *ast.Stylesheet, *ast.StateDecl:
			continue
		case *ast.AssignStmt:
			if g.info.Declares[s] {
				sym := g.info.Symbols[s]
				if sym == nil || autoGlobal(sym) {
					continue
				}
				out = append(out, &Assign{Target: id(cppName(s.Name)), Value: g.expr(s.Value)})
				continue
			}
		}
		out = append(out, g.stmt(s, "")...)
	}
	return out
}

// functions lowers the top-level functions, callees before their callers
// and otherwise in source order.
func (g *generator) functions() []Stmt {
	graph := semantic.CallGraph(g.prog, g.info)
	done := make(map[*ast.FuncDecl]bool)
	var out []Stmt
	var visit func(fn *ast.FuncDecl)
	visit = func(fn *ast.FuncDecl) {
		if done[fn] {
			return
		}
		done[fn] = true
		for _, callee := range graph[fn] {
			visit(callee)
		}
		out = append(out, g.function(fn))
	}
	for _, s := range g.prog.Body {
		if fn, ok := s.(*ast.FuncDecl); ok {
			visit(fn)
		}
	}
	return out
}

func (g *generator) function(fn *ast.FuncDecl) *Func {
	f := &Func{Ret: "auto", Name: cppName(fn.Name), Body: g.stmts(fn.Body.Stmts, "")}
	if t, ok := g.info.Returns[fn]; ok && t.Known() {
		f.Ret = cppType(t)
	}
	for i, p := range fn.Params {
		t := fmt.Sprintf("T%d", i+1)
		f.Template = append(f.Template, t)
		f.Params = append(f.Params, Param{Type: t, Name: cppName(p)})
	}
	return f
}

func (g *generator) state(s *ast.StateDecl) Stmt {
	sym := g.info.Symbols[s]
	if sym == nil {
		return &Comment{Text: "unresolved state " + s.Name}
	}
	ctor := fmt.Sprintf("make_shared<appstate::State<%s>>", cppType(sym.Type))
	return &VarDecl{Type: "auto", Name: cppName(s.Name), Init: call(ctor, str(sym.Key), g.expr(s.Value))}
}

func updateUI() *Func {
	current := call("GlobalState::getCurrentPage")
	return &Func{Ret: "void", Name: "updateUI", Body: []Stmt{
		&If{Cond: current, Then: []Stmt{do(arrow(current, "render"))}},
	}}
}

func styleOf() *Func {
	return &Func{
		Ret:    "string",
		Name:   "style_of",
		Params: []Param{{Type: "const unordered_map<string, string>&", Name: "props"}},
		Body: []Stmt{
			&Raw{Text: `string css;
for (const auto& [name, value] : props) {
    css += name + ":" + value + ";";
}
return css;`},
		},
	}
}

// autoGlobal reports whether a top-level variable has no spellable C++ type
// and must be declared with its initializer.
func autoGlobal(sym *semantic.Symbol) bool {
	if sym == nil || sym.Storage != semantic.Global {
		return false
	}
	switch sym.Type {
	case semantic.Int, semantic.Float, semantic.String, semantic.Bool, semantic.Dict:
		return false
	}
	return true
}

func cppType(t semantic.Type) string {
	switch t {
	case semantic.Int:
		return "int"
	case semantic.Float:
		return "double"
	case semantic.String:
		return "string"
	case semantic.Bool:
		return "bool"
	case semantic.Dict:
		return "unordered_map<string, string>"
	}
	return "auto"
}

func appendGroup(decls, group []Stmt) []Stmt {
	if len(group) == 0 {
		return decls
	}
	return append(append(decls, group...), &Blank{})
}

func renderLines(stmts []Stmt) []string {
	var b strings.Builder
	_ = RenderStmts(&b, stmts)
	return strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
}
