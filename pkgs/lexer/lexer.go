package lexer

import (
	"bytes"
	"unicode/utf8"

	"github.com/aledsdavies/helios/pkgs/diagnostics"
)

// Character classification lookup tables
var (
	isSpace      [256]bool
	isDigit      [256]bool
	isIdentStart [256]bool
	isIdentPart  [256]bool
)

func init() {
	for i := 0; i < 256; i++ {
		ch := byte(i)
		isSpace[i] = ch == ' ' || ch == '\t' || ch == '\r' || ch == '\f'
		isDigit[i] = '0' <= ch && ch <= '9'
		isIdentStart[i] = ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
		isIdentPart[i] = isIdentStart[i] || isDigit[i]
	}
}

// Lexer converts a whole source buffer into tokens. It carries no grammar
// knowledge; the parser runs it once, up front.
type Lexer struct {
	input  []byte
	lines  []string
	pos    int
	line   int
	column int
}

// New creates a lexer over input
func New(input []byte) *Lexer {
	return &Lexer{
		input:  input,
		lines:  splitLines(input),
		line:   1,
		column: 1,
	}
}

// Tokenize scans input completely. The returned slice always ends in EOF.
func Tokenize(input []byte) ([]Token, error) {
	return New(input).TokenizeToSlice()
}

// TokenizeToSlice scans until EOF and returns every token, or the first
// lexical diagnostic.
func (l *Lexer) TokenizeToSlice() ([]Token, error) {
	estimated := len(l.input) / 4
	if estimated < 16 {
		estimated = 16
	}
	result := make([]Token, 0, estimated)

	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		result = append(result, tok)
		if tok.Type == EOF {
			return result, nil
		}
	}
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() (Token, error) {
	if err := l.skipTrivia(); err != nil {
		return Token{}, err
	}

	start, line, col := l.pos, l.line, l.column
	ch := l.cur()

	switch {
	case l.atEOF():
		return l.token(EOF, "", start, line, col), nil
	case ch == '\n':
		l.advance()
		return l.token(NEWLINE, "\n", start, line, col), nil
	case isIdentStart[ch]:
		return l.lexWord(start, line, col), nil
	case isDigit[ch]:
		return l.lexNumber(start, line, col), nil
	case ch == '"' || ch == '\'':
		return l.lexString(start, line, col)
	}

	if typ, ok := l.lexOperator(); ok {
		return l.token(typ, string(l.input[start:l.pos]), start, line, col), nil
	}

	r, _ := utf8.DecodeRune(l.input[l.pos:])
	return Token{}, diagnostics.Errorf(diagnostics.Lexical, l.span(line, col, 1),
		"Unknown character '%c'", r)
}

// skipTrivia drops spaces and comments. Newlines are significant and kept.
func (l *Lexer) skipTrivia() error {
	for !l.atEOF() {
		ch := l.cur()
		switch {
		case isSpace[ch]:
			l.advance()
		case ch == '/' && l.peek() == '/':
			l.skipLine()
		case ch == '#' && isCommentBreak(l.peek()):
			l.skipLine()
		case ch == '/' && l.peek() == '*':
			if err := l.skipBlockComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

func isCommentBreak(next byte) bool {
	return next == '\n' || isSpace[next]
}

func (l *Lexer) skipLine() {
	for !l.atEOF() && l.cur() != '\n' {
		l.advance()
	}
}

func (l *Lexer) skipBlockComment() error {
	line, col := l.line, l.column
	l.advance()
	l.advance()
	for !l.atEOF() {
		if l.cur() == '*' && l.peek() == '/' {
			l.advance()
			l.advance()
			return nil
		}
		l.advance()
	}
	return diagnostics.Errorf(diagnostics.Lexical, l.span(line, col, 2), "Unterminated block comment")
}

func (l *Lexer) lexWord(start, line, col int) Token {
	for !l.atEOF() && isIdentPart[l.cur()] {
		l.advance()
	}
	word := string(l.input[start:l.pos])
	typ := IDENTIFIER
	if Keywords[word] {
		typ = KEYWORD
	}
	return l.token(typ, word, start, line, col)
}

func (l *Lexer) lexNumber(start, line, col int) Token {
	for !l.atEOF() && isDigit[l.cur()] {
		l.advance()
	}
	typ := INT
	if l.cur() == '.' && isDigit[l.peek()] {
		typ = FLOAT
		l.advance()
		for !l.atEOF() && isDigit[l.cur()] {
			l.advance()
		}
	}
	return l.token(typ, string(l.input[start:l.pos]), start, line, col)
}

func (l *Lexer) lexString(start, line, col int) (Token, error) {
	quote := l.cur()
	style := DoubleQuote
	if quote == '\'' {
		style = SingleQuote
	}
	l.advance()

	var value []byte
	for {
		if l.atEOF() || l.cur() == '\n' {
			return Token{}, diagnostics.Errorf(diagnostics.Lexical,
				l.span(line, col, l.pos-start), "Unterminated string")
		}
		ch := l.cur()
		if ch == quote {
			l.advance()
			break
		}
		if ch == '\\' {
			l.advance()
			if l.atEOF() || l.cur() == '\n' {
				continue
			}
			value = append(value, unescape(l.cur()))
			l.advance()
			continue
		}
		value = append(value, ch)
		l.advance()
	}

	tok := l.token(STRING, string(value), start, line, col)
	tok.Quote = style
	return tok, nil
}

func unescape(ch byte) byte {
	switch ch {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	}
	// \\ \' \" and unknown escapes keep the escaped character
	return ch
}

// lexOperator consumes a one- or two-character operator
func (l *Lexer) lexOperator() (TokenType, bool) {
	ch, next := l.cur(), l.peek()
	two := func(typ TokenType) (TokenType, bool) {
		l.advance()
		l.advance()
		return typ, true
	}
	one := func(typ TokenType) (TokenType, bool) {
		l.advance()
		return typ, true
	}

	switch ch {
	case '=':
		if next == '=' {
			return two(EQ)
		}
		return one(ASSIGN)
	case '!':
		if next == '=' {
			return two(NOT_EQ)
		}
		return one(BANG)
	case '<':
		if next == '=' {
			return two(LT_EQ)
		}
		return one(LT)
	case '>':
		if next == '=' {
			return two(GT_EQ)
		}
		return one(GT)
	case '+':
		if next == '+' {
			return two(INCREMENT)
		}
		return one(PLUS)
	case '-':
		if next == '-' {
			return two(DECREMENT)
		}
		return one(MINUS)
	case '*':
		return one(STAR)
	case '/':
		return one(SLASH)
	case '%':
		return one(PERCENT)
	case '(':
		return one(LPAREN)
	case ')':
		return one(RPAREN)
	case '{':
		return one(LBRACE)
	case '}':
		return one(RBRACE)
	case '[':
		return one(LBRACKET)
	case ']':
		return one(RBRACKET)
	case ',':
		return one(COMMA)
	case ':':
		return one(COLON)
	case ';':
		return one(SEMICOLON)
	case '.':
		return one(DOT)
	case '#':
		return one(HASH)
	case '@':
		return one(AT)
	}
	return EOF, false
}

func (l *Lexer) token(typ TokenType, text string, start, line, col int) Token {
	return Token{
		Type:       typ,
		Text:       text,
		Raw:        string(l.input[start:l.pos]),
		Line:       line,
		Column:     col,
		SourceLine: l.sourceLine(line),
	}
}

func (l *Lexer) span(line, col, length int) diagnostics.Span {
	return diagnostics.Span{Line: line, Column: col, Length: length, Source: l.sourceLine(line)}
}

func (l *Lexer) sourceLine(line int) string {
	if line-1 < len(l.lines) {
		return l.lines[line-1]
	}
	return ""
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) cur() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peek() byte {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}
	if l.input[l.pos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
}

func splitLines(input []byte) []string {
	raw := bytes.Split(input, []byte{'\n'})
	lines := make([]string, len(raw))
	for i, line := range raw {
		lines[i] = string(bytes.TrimSuffix(line, []byte{'\r'}))
	}
	return lines
}
