package generator

// Unit is one C++ translation unit: includes, namespace-scope declarations
// and the body of main.
type Unit struct {
	Includes []string
	Decls    []Stmt
	Main     []Stmt
}

// Stmt is a C++ statement or namespace-scope declaration
type Stmt interface{ stmt() }

// Expr is a C++ expression
type Expr interface{ expr() }

// Raw is emitted verbatim, one line per line of Text
type Raw struct{ Text string }

type Comment struct{ Text string }

// Blank separates declarations
type Blank struct{}

// VarDecl declares a variable. Ctor selects direct initialization,
// Type name(args); otherwise Init, when set, copy-initializes.
type VarDecl struct {
	Type string
	Name string
	Init Expr
	Ctor []Expr
}

type Assign struct {
	Target Expr
	Value  Expr
}

type ExprStmt struct{ X Expr }

// Print writes X and a newline to stdout
type Print struct{ X Expr }

// If renders an else-if chain when Else holds a single *If
type If struct {
	Cond Expr
	Then []Stmt
	Else []Stmt
}

type While struct {
	Cond Expr
	Body []Stmt
}

// For is a C-style loop; Init and Post render without a terminator
type For struct {
	Init Stmt
	Cond Expr
	Post Stmt
	Body []Stmt
}

// Block is a nested C++ scope
type Block struct{ Body []Stmt }

type Return struct{ Value Expr }

// Jump is break or continue
type Jump struct{ Keyword string }

type Param struct {
	Type string
	Name string
}

// Func is a namespace-scope function, optionally a template over Template
type Func struct {
	Template []string
	Ret      string
	Name     string
	Params   []Param
	Body     []Stmt
}

type Ident struct{ Name string }

// Lit is a numeric or boolean literal in C++ spelling
type Lit struct{ Text string }

// Str is a C++ string literal
type Str struct{ Value string }

// Binary always renders parenthesized
type Binary struct {
	Op    string
	Left  Expr
	Right Expr
}

type Unary struct {
	Op      string
	X       Expr
	Postfix bool
}

type Call struct {
	Fun  Expr
	Args []Expr
}

// Member is X.Name, or X->Name when Arrow is set
type Member struct {
	X     Expr
	Name  string
	Arrow bool
}

type Index struct {
	X   Expr
	Key Expr
}

// Lambda is a closure literal. Captures are rendered as given, so "=" and
// "&" capture defaults are allowed.
type Lambda struct {
	Captures []string
	Params   []Param
	Ret      string
	Body     []Stmt
}

// Brace is list initialization, Type{Elems...}
type Brace struct {
	Type  string
	Elems []Expr
}

type Cast struct {
	Type string
	X    Expr
}

func (*Raw) stmt()      {}
func (*Comment) stmt()  {}
func (*Blank) stmt()    {}
func (*VarDecl) stmt()  {}
func (*Assign) stmt()   {}
func (*ExprStmt) stmt() {}
func (*Print) stmt()    {}
func (*If) stmt()       {}
func (*While) stmt()    {}
func (*For) stmt()      {}
func (*Block) stmt()    {}
func (*Return) stmt()   {}
func (*Jump) stmt()     {}
func (*Func) stmt()     {}

func (*Ident) expr()  {}
func (*Lit) expr()    {}
func (*Str) expr()    {}
func (*Binary) expr() {}
func (*Unary) expr()  {}
func (*Call) expr()   {}
func (*Member) expr() {}
func (*Index) expr()  {}
func (*Lambda) expr() {}
func (*Brace) expr()  {}
func (*Cast) expr()   {}

// Small constructors used throughout lowering

func id(name string) *Ident { return &Ident{Name: name} }

func str(s string) *Str { return &Str{Value: s} }

func call(fun string, args ...Expr) *Call {
	return &Call{Fun: id(fun), Args: args}
}

func method(x Expr, name string, args ...Expr) *Call {
	return &Call{Fun: &Member{X: x, Name: name}, Args: args}
}

func arrow(x Expr, name string, args ...Expr) *Call {
	return &Call{Fun: &Member{X: x, Name: name, Arrow: true}, Args: args}
}

func do(x Expr) *ExprStmt { return &ExprStmt{X: x} }
