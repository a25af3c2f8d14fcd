package ast

// FreeIdents returns the identifiers a function body reads or calls that are
// neither parameters nor assigned inside the body before use, in order of
// first appearance. Callbacks use it to decide what to capture.
func FreeIdents(params []string, body *Block) []string {
	f := &freeFinder{
		bound: make(map[string]bool, len(params)),
		seen:  make(map[string]bool),
	}
	for _, p := range params {
		f.bound[p] = true
	}
	if body != nil {
		f.block(body)
	}
	return f.free
}

type freeFinder struct {
	bound map[string]bool
	seen  map[string]bool
	free  []string
}

func (f *freeFinder) use(name string) {
	if f.bound[name] || f.seen[name] {
		return
	}
	f.seen[name] = true
	f.free = append(f.free, name)
}

func (f *freeFinder) block(b *Block) {
	for _, s := range b.Stmts {
		f.node(s)
	}
}

func (f *freeFinder) node(n Node) {
	switch n := n.(type) {
	case nil:
		return
	case *Ident:
		f.use(n.Name)
	case *CallExpr:
		f.use(n.Name)
		for _, a := range n.Args {
			f.node(a)
		}
	case *AssignStmt:
		f.node(n.Value)
		f.bound[n.Name] = true
	case *StateAssign:
		f.use(n.Name)
		f.node(n.Value)
	case *StateDecl:
		f.node(n.Value)
		f.bound[n.Name] = true
	case *FuncDecl:
		f.bound[n.Name] = true
		inner := FreeIdents(n.Params, n.Body)
		for _, name := range inner {
			f.use(name)
		}
	case *DictLit:
		for _, e := range n.Entries {
			if !n.Hashed {
				f.node(e.Key)
			}
			f.node(e.Value)
		}
	default:
		for _, c := range Children(n) {
			f.node(c)
		}
	}
}
