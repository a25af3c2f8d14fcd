package ast

import "fmt"

// Kind identifies the production a node came from
type Kind int

const (
	KindProgram Kind = iota
	KindBlock

	// Literals and expressions
	KindInt
	KindFloat
	KindString
	KindBool
	KindList
	KindDict
	KindKeyValue
	KindBinary
	KindComparison
	KindUnary
	KindIncDec
	KindParen

	// Control flow
	KindIf
	KindElseIf
	KindElse
	KindWhile
	KindFor
	KindLoopControl
	KindReturn

	// Bindings
	KindIdent
	KindAssign
	KindFuncDecl
	KindCall
	KindTypeCheck
	KindConversion
	KindPrint
	KindExprStmt

	// UI
	KindApp
	KindPage
	KindView
	KindText
	KindImage
	KindInput
	KindCanvas
	KindArgs
	KindNamedArg
	KindCallback

	// Reactive state and navigation
	KindStateDecl
	KindStateAssign
	KindGo

	// Styling
	KindStylesheet
	KindClassRule
	KindMediaQuery
	KindStyleProp

	// Instances
	KindDraw
	KindInstanceCall
	KindMath
)

var kindNames = [...]string{
	KindProgram:      "Program",
	KindBlock:        "Block",
	KindInt:          "Int",
	KindFloat:        "Float",
	KindString:       "String",
	KindBool:         "Bool",
	KindList:         "List",
	KindDict:         "Dict",
	KindKeyValue:     "KeyValue",
	KindBinary:       "Binary",
	KindComparison:   "Comparison",
	KindUnary:        "Unary",
	KindIncDec:       "IncDec",
	KindParen:        "Paren",
	KindIf:           "If",
	KindElseIf:       "ElseIf",
	KindElse:         "Else",
	KindWhile:        "While",
	KindFor:          "For",
	KindLoopControl:  "LoopControl",
	KindReturn:       "Return",
	KindIdent:        "Ident",
	KindAssign:       "Assign",
	KindFuncDecl:     "FuncDecl",
	KindCall:         "Call",
	KindTypeCheck:    "TypeCheck",
	KindConversion:   "Conversion",
	KindPrint:        "Print",
	KindExprStmt:     "ExprStmt",
	KindApp:          "App",
	KindPage:         "Page",
	KindView:         "View",
	KindText:         "Text",
	KindImage:        "Image",
	KindInput:        "Input",
	KindCanvas:       "Canvas",
	KindArgs:         "Args",
	KindNamedArg:     "NamedArg",
	KindCallback:     "Callback",
	KindStateDecl:    "StateDecl",
	KindStateAssign:  "StateAssign",
	KindGo:           "Go",
	KindStylesheet:   "Stylesheet",
	KindClassRule:    "ClassRule",
	KindMediaQuery:   "MediaQuery",
	KindStyleProp:    "StyleProp",
	KindDraw:         "Draw",
	KindInstanceCall: "InstanceCall",
	KindMath:         "Math",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && int(k) >= 0 {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (*Program) Kind() Kind        { return KindProgram }
func (*Block) Kind() Kind          { return KindBlock }
func (*IntLit) Kind() Kind         { return KindInt }
func (*FloatLit) Kind() Kind       { return KindFloat }
func (*StringLit) Kind() Kind      { return KindString }
func (*BoolLit) Kind() Kind        { return KindBool }
func (*ListLit) Kind() Kind        { return KindList }
func (*DictLit) Kind() Kind        { return KindDict }
func (*KeyValue) Kind() Kind       { return KindKeyValue }
func (*BinaryExpr) Kind() Kind     { return KindBinary }
func (*ComparisonExpr) Kind() Kind { return KindComparison }
func (*UnaryExpr) Kind() Kind      { return KindUnary }
func (*IncDecExpr) Kind() Kind     { return KindIncDec }
func (*ParenExpr) Kind() Kind      { return KindParen }
func (*IfStmt) Kind() Kind         { return KindIf }
func (*ElseIfClause) Kind() Kind   { return KindElseIf }
func (*ElseClause) Kind() Kind     { return KindElse }
func (*WhileStmt) Kind() Kind      { return KindWhile }
func (*ForStmt) Kind() Kind        { return KindFor }
func (*LoopControl) Kind() Kind    { return KindLoopControl }
func (*ReturnStmt) Kind() Kind     { return KindReturn }
func (*Ident) Kind() Kind          { return KindIdent }
func (*AssignStmt) Kind() Kind     { return KindAssign }
func (*FuncDecl) Kind() Kind       { return KindFuncDecl }
func (*CallExpr) Kind() Kind       { return KindCall }
func (*TypeCheck) Kind() Kind      { return KindTypeCheck }
func (*Conversion) Kind() Kind     { return KindConversion }
func (*PrintStmt) Kind() Kind      { return KindPrint }
func (*ExprStmt) Kind() Kind       { return KindExprStmt }
func (*App) Kind() Kind            { return KindApp }
func (*Page) Kind() Kind           { return KindPage }
func (*Args) Kind() Kind           { return KindArgs }
func (*NamedArg) Kind() Kind       { return KindNamedArg }
func (*Callback) Kind() Kind       { return KindCallback }
func (*StateDecl) Kind() Kind      { return KindStateDecl }
func (*StateAssign) Kind() Kind    { return KindStateAssign }
func (*GoStmt) Kind() Kind         { return KindGo }
func (*Stylesheet) Kind() Kind     { return KindStylesheet }
func (*ClassRule) Kind() Kind      { return KindClassRule }
func (*MediaQuery) Kind() Kind     { return KindMediaQuery }
func (*StyleProp) Kind() Kind      { return KindStyleProp }
func (*DrawStmt) Kind() Kind       { return KindDraw }
func (*InstanceCall) Kind() Kind   { return KindInstanceCall }
func (*MathCall) Kind() Kind       { return KindMath }

func (n *Element) Kind() Kind {
	switch n.Tag {
	case Text:
		return KindText
	case Image:
		return KindImage
	case Input:
		return KindInput
	case Canvas:
		return KindCanvas
	}
	return KindView
}
