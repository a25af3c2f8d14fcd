package diagnostics

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Category classifies a diagnostic by the compiler stage that raised it
type Category int

const (
	Lexical Category = iota
	Syntax
	Semantic
	Warning
)

var categoryNames = [...]string{
	Lexical:  "Lexical",
	Syntax:   "Syntax",
	Semantic: "Semantic",
	Warning:  "Warning",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) && int(c) >= 0 {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Span locates a diagnostic in the source. Line and Column are 1-based,
// Source holds the full text of Line.
type Span struct {
	Line   int
	Column int
	Length int
	Source string
}

// Diagnostic is a positioned compiler message. Fatal diagnostics are
// returned as errors by every stage; warnings are collected in a List.
type Diagnostic struct {
	Category Category
	Message  string
	Span     Span
	Help     string
}

// Errorf creates a diagnostic at span with a formatted message
func Errorf(cat Category, span Span, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Category: cat,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	}
}

// WithHelp attaches a hint rendered under the caret line
func (d *Diagnostic) WithHelp(format string, args ...interface{}) *Diagnostic {
	d.Help = fmt.Sprintf(format, args...)
	return d
}

// IsWarning reports whether the diagnostic is advisory
func (d *Diagnostic) IsWarning() bool {
	return d.Category == Warning
}

// Error returns the one-line header, e.g.
// "SyntaxError: Unexpected token ')' (expected STRING) at line 3, column 9"
func (d *Diagnostic) Error() string {
	label := d.Category.String() + "Error"
	if d.Category == Warning {
		label = "Warning"
	}
	return fmt.Sprintf("%s: %s at line %d, column %d", label, d.Message, d.Span.Line, d.Span.Column)
}

// Format returns the header followed by the numbered source line and caret
func (d *Diagnostic) Format() string {
	var b strings.Builder
	_ = d.Render(&b)
	return b.String()
}

// Render writes the full diagnostic block to w
func (d *Diagnostic) Render(w io.Writer) error {
	gutter := strconv.Itoa(d.Span.Line)
	pad := strings.Repeat(" ", len(gutter))

	var b strings.Builder
	b.WriteString(d.Error())
	b.WriteByte('\n')
	fmt.Fprintf(&b, "  %s | %s\n", gutter, d.Span.Source)
	fmt.Fprintf(&b, "  %s | %s%s\n", pad, caretIndent(d.Span.Source, d.Span.Column), carets(d.Span.Length))
	if d.Help != "" {
		fmt.Fprintf(&b, "  help: %s\n", d.Help)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// caretIndent mirrors the source prefix so tabs keep the caret aligned
func caretIndent(source string, column int) string {
	if column <= 1 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < column-1; i++ {
		if i < len(source) && source[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func carets(n int) string {
	if n < 1 {
		n = 1
	}
	return strings.Repeat("^", n)
}

// As extracts a *Diagnostic from an error chain
func As(err error) (*Diagnostic, bool) {
	var d *Diagnostic
	if errors.As(err, &d) {
		return d, true
	}
	return nil, false
}

// List collects diagnostics in the order they were reported
type List []*Diagnostic

// Add appends d to the list
func (l *List) Add(d *Diagnostic) {
	*l = append(*l, d)
}

// Render writes every diagnostic in the list
func (l List) Render(w io.Writer) error {
	for _, d := range l {
		if err := d.Render(w); err != nil {
			return err
		}
	}
	return nil
}

// Promote returns the first diagnostic as a semantic error, or nil when the
// list is empty. Used to fail builds on warnings.
func (l List) Promote() error {
	if len(l) == 0 {
		return nil
	}
	first := *l[0]
	first.Category = Semantic
	return &first
}
