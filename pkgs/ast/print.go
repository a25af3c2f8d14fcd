package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Fprint writes an indented structural dump of n, one node per line
func Fprint(w io.Writer, n Node) error {
	var b strings.Builder
	dump(&b, n, 0)
	_, err := io.WriteString(w, b.String())
	return err
}

// Dump returns the Fprint output as a string
func Dump(n Node) string {
	var b strings.Builder
	dump(&b, n, 0)
	return b.String()
}

func dump(b *strings.Builder, n Node, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(n.Kind().String())
	if label := nodeLabel(n); label != "" {
		b.WriteByte(' ')
		b.WriteString(label)
	}
	fmt.Fprintf(b, " @%d:%d\n", n.Position().Line, n.Position().Column)
	for _, c := range Children(n) {
		dump(b, c, depth+1)
	}
}

func nodeLabel(n Node) string {
	switch n := n.(type) {
	case *IntLit:
		return n.Raw
	case *FloatLit:
		return n.Raw
	case *StringLit:
		return strconv.Quote(n.Value)
	case *BoolLit:
		return strconv.FormatBool(n.Value)
	case *DictLit:
		if n.Hashed {
			return "#"
		}
	case *BinaryExpr:
		return n.Op
	case *ComparisonExpr:
		return n.Op
	case *UnaryExpr:
		return n.Op
	case *IncDecExpr:
		if n.Prefix {
			return n.Op + " prefix"
		}
		return n.Op + " postfix"
	case *Ident:
		return n.Name
	case *CallExpr:
		return n.Name
	case *Conversion:
		return n.To
	case *MathCall:
		return n.Func
	case *InstanceCall:
		return n.Instance + "." + n.Method
	case *LoopControl:
		return n.Keyword
	case *AssignStmt:
		return n.Name
	case *FuncDecl:
		label := n.Name + "(" + strings.Join(n.Params, ", ") + ")"
		if len(n.Captures) > 0 {
			label += " captures=" + strings.Join(n.Captures, ",")
		}
		if n.Synthetic {
			label += " synthetic"
		}
		return label
	case *Element:
		if n.Binding != "" {
			return "as " + n.Binding
		}
	case *NamedArg:
		return n.Name
	case *StateDecl:
		return n.Name
	case *StateAssign:
		return n.Name
	case *ClassRule:
		return n.Selector
	case *MediaQuery:
		return n.Query
	case *StyleProp:
		var parts []string
		for _, part := range n.Value {
			if part.Expr == nil {
				parts = append(parts, strconv.Quote(part.Text))
			}
		}
		return n.Name + " " + strings.Join(parts, " ")
	}
	return ""
}
