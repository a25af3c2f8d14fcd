package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aledsdavies/helios/pkgs/diagnostics"
)

// Node represents any node in the AST. The set of implementations is closed:
// only types in this package satisfy it.
type Node interface {
	String() string
	Position() Position
	Kind() Kind
	node()
}

// Stmt is a node that may appear in a statement list
type Stmt interface {
	Node
	stmtNode()
}

// Expr is a node that produces a value
type Expr interface {
	Node
	exprNode()
}

// Position represents source location information
type Position struct {
	Line   int
	Column int
	Source string // full text of Line
}

// Span converts the position into a diagnostic span of the given width
func (p Position) Span(length int) diagnostics.Span {
	return diagnostics.Span{Line: p.Line, Column: p.Column, Length: length, Source: p.Source}
}

// Program is the root of the tree
type Program struct {
	Pos  Position
	Body []Stmt
}

// Block is an ordered statement list delimited by braces
type Block struct {
	Pos   Position
	Stmts []Stmt
}

// Literals and expressions

type IntLit struct {
	Pos   Position
	Value int64
	Raw   string
}

type FloatLit struct {
	Pos   Position
	Value float64
	Raw   string
}

type StringLit struct {
	Pos   Position
	Value string
}

type BoolLit struct {
	Pos   Position
	Value bool
}

type ListLit struct {
	Pos   Position
	Elems []Expr
}

// DictLit is a brace literal. Hashed dicts (#{...}) treat identifier keys as
// bare names instead of variable references.
type DictLit struct {
	Pos     Position
	Hashed  bool
	Entries []*KeyValue
}

// KeyValue is one dict entry; Key is an *Ident or a *StringLit
type KeyValue struct {
	Pos   Position
	Key   Expr
	Value Expr
}

// KeyName returns the entry's key text regardless of its spelling
func (kv *KeyValue) KeyName() string {
	switch k := kv.Key.(type) {
	case *Ident:
		return k.Name
	case *StringLit:
		return k.Value
	}
	return ""
}

// BinaryExpr covers + - * / %
type BinaryExpr struct {
	Pos   Position
	Op    string
	Left  Expr
	Right Expr
}

// ComparisonExpr covers == != < > <= >= and always yields bool
type ComparisonExpr struct {
	Pos   Position
	Op    string
	Left  Expr
	Right Expr
}

// UnaryExpr is arithmetic negation
type UnaryExpr struct {
	Pos Position
	Op  string
	X   Expr
}

// IncDecExpr is ++x, --x, x++ or x--
type IncDecExpr struct {
	Pos    Position
	Op     string
	Prefix bool
	Target *Ident
}

type ParenExpr struct {
	Pos Position
	X   Expr
}

type Ident struct {
	Pos  Position
	Name string
}

// CallExpr calls a user-declared function
type CallExpr struct {
	Pos  Position
	Name string
	Args []Expr
}

// TypeCheck is type(x)
type TypeCheck struct {
	Pos Position
	X   Expr
}

// Conversion is to_int, to_float or to_str
type Conversion struct {
	Pos Position
	To  string
	X   Expr
}

// MathCall is one of the sin, cos, tan, sqrt and pow intrinsics
type MathCall struct {
	Pos  Position
	Func string
	Args []Expr
}

// InstanceCall invokes a method of a built-in instance: a drawing surface
// inside a draw statement, or the Platform metrics object.
type InstanceCall struct {
	Pos      Position
	Instance string
	Method   string
	Args     []Expr
}

// Callback is the value of an onclick= or onlongpress= argument. Exactly one
// of Call and Func is set.
type Callback struct {
	Pos  Position
	Call *CallExpr
	Func *FuncDecl
}

// Control flow

type IfStmt struct {
	Pos     Position
	Cond    Expr
	Then    *Block
	ElseIfs []*ElseIfClause
	Else    *ElseClause
}

type ElseIfClause struct {
	Pos  Position
	Cond Expr
	Body *Block
}

type ElseClause struct {
	Pos  Position
	Body *Block
}

type WhileStmt struct {
	Pos  Position
	Cond Expr
	Body *Block
}

// ForStmt is the C-style loop: for init : cond : post { ... }
type ForStmt struct {
	Pos  Position
	Init *AssignStmt
	Cond Expr
	Post Stmt
	Body *Block
}

// LoopControl is pass, break or continue
type LoopControl struct {
	Pos     Position
	Keyword string
}

type ReturnStmt struct {
	Pos   Position
	Value Expr
}

// Bindings

// AssignStmt declares a variable on first assignment and updates it afterwards
type AssignStmt struct {
	Pos   Position
	Name  string
	Value Expr
}

// FuncDecl declares a function. Captures lists the free identifiers of the
// body in order of first use; Synthetic marks desugared anonymous callbacks.
type FuncDecl struct {
	Pos       Position
	Name      string
	Params    []string
	Body      *Block
	Captures  []string
	Synthetic bool
}

type PrintStmt struct {
	Pos   Position
	Value Expr
}

// ExprStmt evaluates an expression for its effect
type ExprStmt struct {
	Pos Position
	X   Expr
}

// UI

// ElementKind tags the UI element productions that share one shape
type ElementKind int

const (
	View ElementKind = iota
	Text
	Image
	Input
	Canvas
)

var elementKeywords = [...]string{View: "view", Text: "text", Image: "img", Input: "input", Canvas: "canvas"}

func (k ElementKind) String() string {
	if int(k) < len(elementKeywords) && int(k) >= 0 {
		return elementKeywords[k]
	}
	return fmt.Sprintf("ElementKind(%d)", int(k))
}

// ElementKindOf maps a keyword to its element kind
func ElementKindOf(keyword string) (ElementKind, bool) {
	for k, name := range elementKeywords {
		if name == keyword {
			return ElementKind(k), true
		}
	}
	return 0, false
}

// App groups pages; it takes no arguments
type App struct {
	Pos   Position
	Pages []*Page
}

type Page struct {
	Pos  Position
	Args *Args
	Body *Block
}

// Element is a view, text, img, input or canvas. Binding is the source name
// when the element was assigned to a variable. Body is nil for leaf elements.
type Element struct {
	Pos     Position
	Tag     ElementKind
	Binding string
	Args    *Args
	Body    *Block
}

// Args is the shared argument list of UI productions
type Args struct {
	Pos        Position
	Positional Expr
	Named      []*NamedArg
}

// Lookup returns the named argument called name, or nil
func (a *Args) Lookup(name string) *NamedArg {
	if a == nil {
		return nil
	}
	for _, n := range a.Named {
		if n.Name == name {
			return n
		}
	}
	return nil
}

type NamedArg struct {
	Pos   Position
	Name  string
	Value Expr
}

// Reactive state and navigation

type StateDecl struct {
	Pos   Position
	Name  string
	Value Expr
}

// StateAssign writes a previously declared state
type StateAssign struct {
	Pos   Position
	Name  string
	Value Expr
}

type GoStmt struct {
	Pos   Position
	Route Expr
}

// Styling

type Stylesheet struct {
	Pos   Position
	Rules []StyleRule
}

// StyleRule is a *ClassRule or a *MediaQuery
type StyleRule interface {
	Node
	styleRule()
}

type ClassRule struct {
	Pos      Position
	Selector string
	Props    []*StyleProp
}

type MediaQuery struct {
	Pos   Position
	Query string
	Rules []*ClassRule
}

// StyleProp is one "name: value;" declaration
type StyleProp struct {
	Pos   Position
	Name  string
	Value []StylePart
}

// StylePart is literal CSS text or a spliced expression
type StylePart struct {
	Text string
	Expr Expr
}

// Drawing

// DrawStmt binds a drawing surface to the canvas with id Canvas and runs Ops
// against it in order.
type DrawStmt struct {
	Pos    Position
	Canvas Expr
	Ops    []*InstanceCall
}

// Position accessors

func (n *Program) Position() Position        { return n.Pos }
func (n *Block) Position() Position          { return n.Pos }
func (n *IntLit) Position() Position         { return n.Pos }
func (n *FloatLit) Position() Position       { return n.Pos }
func (n *StringLit) Position() Position      { return n.Pos }
func (n *BoolLit) Position() Position        { return n.Pos }
func (n *ListLit) Position() Position        { return n.Pos }
func (n *DictLit) Position() Position        { return n.Pos }
func (n *KeyValue) Position() Position       { return n.Pos }
func (n *BinaryExpr) Position() Position     { return n.Pos }
func (n *ComparisonExpr) Position() Position { return n.Pos }
func (n *UnaryExpr) Position() Position      { return n.Pos }
func (n *IncDecExpr) Position() Position     { return n.Pos }
func (n *ParenExpr) Position() Position      { return n.Pos }
func (n *Ident) Position() Position          { return n.Pos }
func (n *CallExpr) Position() Position       { return n.Pos }
func (n *TypeCheck) Position() Position      { return n.Pos }
func (n *Conversion) Position() Position     { return n.Pos }
func (n *MathCall) Position() Position       { return n.Pos }
func (n *InstanceCall) Position() Position   { return n.Pos }
func (n *Callback) Position() Position       { return n.Pos }
func (n *IfStmt) Position() Position         { return n.Pos }
func (n *ElseIfClause) Position() Position   { return n.Pos }
func (n *ElseClause) Position() Position     { return n.Pos }
func (n *WhileStmt) Position() Position      { return n.Pos }
func (n *ForStmt) Position() Position        { return n.Pos }
func (n *LoopControl) Position() Position    { return n.Pos }
func (n *ReturnStmt) Position() Position     { return n.Pos }
func (n *AssignStmt) Position() Position     { return n.Pos }
func (n *FuncDecl) Position() Position       { return n.Pos }
func (n *PrintStmt) Position() Position      { return n.Pos }
func (n *ExprStmt) Position() Position       { return n.Pos }
func (n *App) Position() Position            { return n.Pos }
func (n *Page) Position() Position           { return n.Pos }
func (n *Element) Position() Position        { return n.Pos }
func (n *Args) Position() Position           { return n.Pos }
func (n *NamedArg) Position() Position       { return n.Pos }
func (n *StateDecl) Position() Position      { return n.Pos }
func (n *StateAssign) Position() Position    { return n.Pos }
func (n *GoStmt) Position() Position         { return n.Pos }
func (n *Stylesheet) Position() Position     { return n.Pos }
func (n *ClassRule) Position() Position      { return n.Pos }
func (n *MediaQuery) Position() Position     { return n.Pos }
func (n *StyleProp) Position() Position      { return n.Pos }
func (n *DrawStmt) Position() Position       { return n.Pos }

// Closed-set markers

func (*Program) node()        {}
func (*Block) node()          {}
func (*IntLit) node()         {}
func (*FloatLit) node()       {}
func (*StringLit) node()      {}
func (*BoolLit) node()        {}
func (*ListLit) node()        {}
func (*DictLit) node()        {}
func (*KeyValue) node()       {}
func (*BinaryExpr) node()     {}
func (*ComparisonExpr) node() {}
func (*UnaryExpr) node()      {}
func (*IncDecExpr) node()     {}
func (*ParenExpr) node()      {}
func (*Ident) node()          {}
func (*CallExpr) node()       {}
func (*TypeCheck) node()      {}
func (*Conversion) node()     {}
func (*MathCall) node()       {}
func (*InstanceCall) node()   {}
func (*Callback) node()       {}
func (*IfStmt) node()         {}
func (*ElseIfClause) node()   {}
func (*ElseClause) node()     {}
func (*WhileStmt) node()      {}
func (*ForStmt) node()        {}
func (*LoopControl) node()    {}
func (*ReturnStmt) node()     {}
func (*AssignStmt) node()     {}
func (*FuncDecl) node()       {}
func (*PrintStmt) node()      {}
func (*ExprStmt) node()       {}
func (*App) node()            {}
func (*Page) node()           {}
func (*Element) node()        {}
func (*Args) node()           {}
func (*NamedArg) node()       {}
func (*StateDecl) node()      {}
func (*StateAssign) node()    {}
func (*GoStmt) node()         {}
func (*Stylesheet) node()     {}
func (*ClassRule) node()      {}
func (*MediaQuery) node()     {}
func (*StyleProp) node()      {}
func (*DrawStmt) node()       {}

func (*IntLit) exprNode()         {}
func (*FloatLit) exprNode()       {}
func (*StringLit) exprNode()      {}
func (*BoolLit) exprNode()        {}
func (*ListLit) exprNode()        {}
func (*DictLit) exprNode()        {}
func (*BinaryExpr) exprNode()     {}
func (*ComparisonExpr) exprNode() {}
func (*UnaryExpr) exprNode()      {}
func (*IncDecExpr) exprNode()     {}
func (*ParenExpr) exprNode()      {}
func (*Ident) exprNode()          {}
func (*CallExpr) exprNode()       {}
func (*TypeCheck) exprNode()      {}
func (*Conversion) exprNode()     {}
func (*MathCall) exprNode()       {}
func (*InstanceCall) exprNode()   {}
func (*Callback) exprNode()       {}

func (*Block) stmtNode()        {}
func (*IfStmt) stmtNode()       {}
func (*WhileStmt) stmtNode()    {}
func (*ForStmt) stmtNode()      {}
func (*LoopControl) stmtNode()  {}
func (*ReturnStmt) stmtNode()   {}
func (*AssignStmt) stmtNode()   {}
func (*FuncDecl) stmtNode()     {}
func (*PrintStmt) stmtNode()    {}
func (*ExprStmt) stmtNode()     {}
func (*App) stmtNode()          {}
func (*Page) stmtNode()         {}
func (*Element) stmtNode()      {}
func (*StateDecl) stmtNode()    {}
func (*StateAssign) stmtNode()  {}
func (*GoStmt) stmtNode()       {}
func (*Stylesheet) stmtNode()   {}
func (*DrawStmt) stmtNode()     {}

func (*ClassRule) styleRule()  {}
func (*MediaQuery) styleRule() {}

// String renders nodes back to source-like text. Statement forms print on a
// single line; Fprint gives the structural view.

func (n *Program) String() string {
	parts := make([]string, len(n.Body))
	for i, s := range n.Body {
		parts[i] = s.String()
	}
	return strings.Join(parts, "\n")
}

func (n *Block) String() string {
	parts := make([]string, len(n.Stmts))
	for i, s := range n.Stmts {
		parts[i] = s.String()
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

func (n *IntLit) String() string    { return n.Raw }
func (n *FloatLit) String() string  { return n.Raw }
func (n *StringLit) String() string { return strconv.Quote(n.Value) }
func (n *BoolLit) String() string   { return strconv.FormatBool(n.Value) }
func (n *ListLit) String() string   { return "[" + joinExprs(n.Elems) + "]" }

func (n *DictLit) String() string {
	parts := make([]string, len(n.Entries))
	for i, e := range n.Entries {
		parts[i] = e.String()
	}
	prefix := ""
	if n.Hashed {
		prefix = "#"
	}
	return prefix + "{" + strings.Join(parts, ", ") + "}"
}

func (n *KeyValue) String() string       { return n.Key.String() + ": " + n.Value.String() }
func (n *BinaryExpr) String() string     { return n.Left.String() + " " + n.Op + " " + n.Right.String() }
func (n *ComparisonExpr) String() string { return n.Left.String() + " " + n.Op + " " + n.Right.String() }
func (n *UnaryExpr) String() string      { return n.Op + n.X.String() }

func (n *IncDecExpr) String() string {
	if n.Prefix {
		return n.Op + n.Target.Name
	}
	return n.Target.Name + n.Op
}

func (n *ParenExpr) String() string    { return "(" + n.X.String() + ")" }
func (n *Ident) String() string        { return n.Name }
func (n *CallExpr) String() string     { return n.Name + "(" + joinExprs(n.Args) + ")" }
func (n *TypeCheck) String() string    { return "type(" + n.X.String() + ")" }
func (n *Conversion) String() string   { return n.To + "(" + n.X.String() + ")" }
func (n *MathCall) String() string     { return n.Func + "(" + joinExprs(n.Args) + ")" }
func (n *InstanceCall) String() string { return n.Instance + "." + n.Method + "(" + joinExprs(n.Args) + ")" }

func (n *Callback) String() string {
	if n.Call != nil {
		return n.Call.String()
	}
	if n.Func.Synthetic {
		return "() " + n.Func.Body.String()
	}
	return n.Func.String()
}

func (n *IfStmt) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "if %s %s", n.Cond, n.Then)
	for _, e := range n.ElseIfs {
		b.WriteString(" " + e.String())
	}
	if n.Else != nil {
		b.WriteString(" " + n.Else.String())
	}
	return b.String()
}

func (n *ElseIfClause) String() string { return "else if " + n.Cond.String() + " " + n.Body.String() }
func (n *ElseClause) String() string   { return "else " + n.Body.String() }
func (n *WhileStmt) String() string    { return "while " + n.Cond.String() + " " + n.Body.String() }

func (n *ForStmt) String() string {
	return fmt.Sprintf("for %s : %s : %s %s", n.Init, n.Cond, n.Post, n.Body)
}

func (n *LoopControl) String() string { return n.Keyword }

func (n *ReturnStmt) String() string {
	if n.Value == nil {
		return "return"
	}
	return "return " + n.Value.String()
}

func (n *AssignStmt) String() string { return n.Name + " = " + n.Value.String() }

func (n *FuncDecl) String() string {
	return "def " + n.Name + "(" + strings.Join(n.Params, ", ") + ") " + n.Body.String()
}

func (n *PrintStmt) String() string { return "print(" + n.Value.String() + ")" }
func (n *ExprStmt) String() string  { return n.X.String() }

func (n *App) String() string {
	parts := make([]string, len(n.Pages))
	for i, p := range n.Pages {
		parts[i] = p.String()
	}
	return "app() { " + strings.Join(parts, "; ") + " }"
}

func (n *Page) String() string { return "page(" + n.Args.String() + ") " + n.Body.String() }

func (n *Element) String() string {
	s := n.Tag.String() + "(" + n.Args.String() + ")"
	if n.Body != nil {
		s += " " + n.Body.String()
	}
	if n.Binding != "" {
		s = n.Binding + " = " + s
	}
	return s
}

func (n *Args) String() string {
	var parts []string
	if n.Positional != nil {
		parts = append(parts, n.Positional.String())
	}
	for _, a := range n.Named {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, ", ")
}

func (n *NamedArg) String() string    { return n.Name + "=" + n.Value.String() }
func (n *StateDecl) String() string   { return "@state " + n.Name + " : " + n.Value.String() }
func (n *StateAssign) String() string { return n.Name + " = " + n.Value.String() }
func (n *GoStmt) String() string      { return "go(" + n.Route.String() + ")" }

func (n *Stylesheet) String() string {
	parts := make([]string, len(n.Rules))
	for i, r := range n.Rules {
		parts[i] = r.String()
	}
	return "stylesheet { " + strings.Join(parts, " ") + " }"
}

func (n *ClassRule) String() string {
	parts := make([]string, len(n.Props))
	for i, p := range n.Props {
		parts[i] = p.String()
	}
	return n.Selector + " { " + strings.Join(parts, " ") + " }"
}

func (n *MediaQuery) String() string {
	parts := make([]string, len(n.Rules))
	for i, r := range n.Rules {
		parts[i] = r.String()
	}
	return "@media " + n.Query + " { " + strings.Join(parts, " ") + " }"
}

func (n *StyleProp) String() string {
	var b strings.Builder
	for _, part := range n.Value {
		if part.Expr != nil {
			b.WriteString("{" + part.Expr.String() + "}")
		} else {
			b.WriteString(part.Text)
		}
	}
	return n.Name + ": " + b.String() + ";"
}

func (n *DrawStmt) String() string {
	var b strings.Builder
	b.WriteString("draw(" + n.Canvas.String() + ")")
	for _, op := range n.Ops {
		b.WriteString("." + op.Method + "(" + joinExprs(op.Args) + ")")
	}
	return b.String()
}

func joinExprs(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
