package semantic

import (
	"fmt"

	"github.com/aledsdavies/helios/pkgs/ast"
)

// ContextKind classifies an analysis context
type ContextKind int

const (
	GlobalContext ContextKind = iota
	PageContext
	FunctionContext
	LoopContext
	BlockContext
)

var contextNames = [...]string{
	GlobalContext:   "global",
	PageContext:     "page",
	FunctionContext: "function",
	LoopContext:     "loop",
	BlockContext:    "block",
}

func (k ContextKind) String() string {
	if int(k) < len(contextNames) && int(k) >= 0 {
		return contextNames[k]
	}
	return fmt.Sprintf("ContextKind(%d)", int(k))
}

// Symbol is a resolved name
type Symbol struct {
	Name    string
	Type    Type
	State   bool
	Storage Storage

	// Key is the runtime storage key of a state container
	Key string

	// Func is set for declared functions
	Func *ast.FuncDecl

	owner *Context
}

// Context is one level of the scope chain threaded through the walk. It holds
// the lexical scope and the reactive-state scope of that level; entering a
// page, function or block creates a child instead of mutating the parent.
type Context struct {
	kind   ContextKind
	parent *Context
	vars   map[string]*Symbol
	states map[string]*Symbol

	// fn is the function a FunctionContext analyzes; closure receives the
	// captures and is fn itself or the *ast.Callback of a call-form callback.
	fn      *ast.FuncDecl
	closure ast.Node
	page    *pageScope
}

// NewContext returns an empty global context
func NewContext() *Context {
	return &Context{
		kind:   GlobalContext,
		vars:   make(map[string]*Symbol),
		states: make(map[string]*Symbol),
	}
}

// Child returns a fresh context nested in c
func (c *Context) Child(kind ContextKind) *Context {
	return &Context{
		kind:   kind,
		parent: c,
		vars:   make(map[string]*Symbol),
		states: make(map[string]*Symbol),
	}
}

// Kind returns the context classification
func (c *Context) Kind() ContextKind { return c.kind }

// Lookup resolves name through the chain. It also returns the function
// contexts crossed on the way, innermost first; each of them must capture the
// symbol unless it is global.
func (c *Context) Lookup(name string) (*Symbol, []*Context) {
	var crossed []*Context
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if s, ok := ctx.states[name]; ok {
			return s, crossed
		}
		if s, ok := ctx.vars[name]; ok {
			return s, crossed
		}
		if ctx.kind == FunctionContext {
			crossed = append(crossed, ctx)
		}
	}
	return nil, crossed
}

// local returns a symbol declared directly in c
func (c *Context) local(name string) (*Symbol, bool) {
	if s, ok := c.states[name]; ok {
		return s, true
	}
	s, ok := c.vars[name]
	return s, ok
}

func (c *Context) declare(sym *Symbol) *Symbol {
	sym.owner = c
	sym.Storage = c.storage()
	if sym.State {
		c.states[sym.Name] = sym
	} else {
		c.vars[sym.Name] = sym
	}
	return sym
}

// storage reports where symbols declared in c live
func (c *Context) storage() Storage {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		switch ctx.kind {
		case FunctionContext:
			return Local
		case PageContext:
			return PageLocal
		case GlobalContext:
			if ctx == c {
				return Global
			}
			return Main
		}
	}
	return Global
}

// function returns the innermost enclosing function context
func (c *Context) function() *Context {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if ctx.kind == FunctionContext {
			return ctx
		}
	}
	return nil
}

// inLoop reports whether break and continue are valid in c
func (c *Context) inLoop() bool {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		switch ctx.kind {
		case LoopContext:
			return true
		case FunctionContext, PageContext, GlobalContext:
			return false
		}
	}
	return false
}

// pageScope returns the page being analyzed, looking through functions
func (c *Context) pageScope() *pageScope {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		if ctx.kind == PageContext {
			return ctx.page
		}
	}
	return nil
}

// inPageBody reports whether c is a page body or a block nested in one,
// without crossing a function
func (c *Context) inPageBody() bool {
	for ctx := c; ctx != nil; ctx = ctx.parent {
		switch ctx.kind {
		case PageContext:
			return true
		case FunctionContext, GlobalContext:
			return false
		}
	}
	return false
}
