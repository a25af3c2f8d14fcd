package generator

import (
	"regexp"
	"strings"

	"github.com/aledsdavies/helios/pkgs/ast"
)

// reserved are names a source identifier must not take in the output: C++
// keywords, the std names generated code relies on after using namespace
// std, the runtime's types and the fixed helpers the generator emits.
var reserved = map[string]bool{}

func init() {
	for _, name := range strings.Fields(`
		alignas alignof and and_eq asm auto bitand bitor bool break case catch
		char char8_t char16_t char32_t class compl concept const consteval
		constexpr constinit const_cast continue co_await co_return co_yield
		decltype default delete do double dynamic_cast else enum explicit
		export extern false float for friend goto if inline int long mutable
		namespace new noexcept not not_eq nullptr operator or or_eq private
		protected public register reinterpret_cast requires return short
		signed sizeof static static_assert static_cast struct switch template
		this thread_local throw true try typedef typeid typename union
		unsigned using virtual void volatile wchar_t while xor xor_eq
		final override import module
		main std string vector unordered_map make_shared shared_ptr function
		to_string stoi stod cout endl sqrt pow sin cos tan
		Router GlobalState VPage VNode VNodeType Canvas2D appstate EM_ASM
		page updateUI style_of NULL
	`) {
		reserved[name] = true
	}
}

// generatedName matches names numbered by the generator outside of element
// nodes, which skip taken names instead.
var generatedName = regexp.MustCompile(`^(?:(?:build_page|page|global_style|ctx)_[0-9]+|T[0-9]+)$`)

// cppName maps a source identifier to the name used in C++. Clashing names
// and names already ending in "_" get a trailing underscore, which keeps the
// mapping one-to-one.
func cppName(name string) string {
	if reserved[name] || generatedName.MatchString(name) || strings.HasSuffix(name, "_") {
		return name + "_"
	}
	return name
}

func cppNames(names []string) []string {
	if names == nil {
		return nil
	}
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = cppName(n)
	}
	return out
}

// sourceNames collects the C++ spelling of every name the program declares
// or references
func sourceNames(prog *ast.Program) map[string]bool {
	names := make(map[string]bool)
	add := func(name string) {
		if name != "" {
			names[cppName(name)] = true
		}
	}
	ast.Inspect(prog, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.Ident:
			add(n.Name)
		case *ast.AssignStmt:
			add(n.Name)
		case *ast.StateDecl:
			add(n.Name)
		case *ast.StateAssign:
			add(n.Name)
		case *ast.CallExpr:
			add(n.Name)
		case *ast.Element:
			add(n.Binding)
		case *ast.FuncDecl:
			add(n.Name)
			for _, p := range n.Params {
				add(p)
			}
		}
		return true
	})
	return names
}
