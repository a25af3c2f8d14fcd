package semantic

import "fmt"

// Type is the static type inferred for an expression
type Type int

const (
	Unknown Type = iota
	Int
	Float
	String
	Bool
	Function
	Dict
	List
)

var typeNames = [...]string{
	Unknown:  "unknown",
	Int:      "int",
	Float:    "float",
	String:   "string",
	Bool:     "bool",
	Function: "function",
	Dict:     "dict",
	List:     "list",
}

func (t Type) String() string {
	if int(t) < len(typeNames) && int(t) >= 0 {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// IsNumeric reports whether t is int or float
func (t Type) IsNumeric() bool {
	return t == Int || t == Float
}

// Known reports whether t carries information. Unknown is compatible with
// every other type.
func (t Type) Known() bool {
	return t != Unknown
}

// Assignable reports whether a value of type v may be stored where t is
// expected. int and float coerce in both directions.
func (t Type) Assignable(v Type) bool {
	if !t.Known() || !v.Known() || t == v {
		return true
	}
	return t.IsNumeric() && v.IsNumeric()
}

// promote returns the result type of arithmetic between a and b
func promote(a, b Type) Type {
	switch {
	case !a.Known() || !b.Known():
		return Unknown
	case a == Float || b == Float:
		return Float
	}
	return Int
}

// Storage says where the generated code keeps a symbol
type Storage int

const (
	// Global symbols live at namespace scope
	Global Storage = iota
	// Main symbols are locals of the entry point (top-level blocks)
	Main
	// PageLocal symbols live in a page builder
	PageLocal
	// Local symbols belong to a function body
	Local
)

var storageNames = [...]string{Global: "global", Main: "main", PageLocal: "page", Local: "local"}

func (s Storage) String() string {
	if int(s) < len(storageNames) && int(s) >= 0 {
		return storageNames[s]
	}
	return fmt.Sprintf("Storage(%d)", int(s))
}
