package lexer

import (
	"strings"
)

// TokenType represents the type of a token.
type TokenType string

// Token represents a lexical token.
type Token struct {
	Type     TokenType
	Literal  string // The actual text of the token (lexeme)
	StartPos int    // 0-based byte offset where the token starts
	EndPos   int    // 0-based byte offset after the token ends
}

// --- Token Types ---
const (
	// Special
	ILLEGAL TokenType = "ILLEGAL" // Unknown token/character
	EOF     TokenType = "EOF"     // End Of File

	// Identifiers + Literals
	IDENT  TokenType = "IDENT"  // functionName, variableName
	NUMBER TokenType = "NUMBER" // 123, 45.67
	STRING TokenType = "STRING" // "hello world"

	// Delimiters
	DOT       TokenType = "."
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACKET  TokenType = "["
	RBRACKET  TokenType = "]"
	LBRACE    TokenType = "{"
	RBRACE    TokenType = "}"
	// OPERATOR covers every other punctuator; the completer only cares
	// that it breaks a member chain.
	OPERATOR TokenType = "OPERATOR"
)

// Lexer holds the state of the scanner.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char's byte offset)
	readPosition int  // current reading position in input (byte offset after current char)
	ch           byte // current char under examination
}

// NewLexer creates a new Lexer.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// readChar gives us the next character and advances our position in the input string.
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0 // 0 is ASCII for NUL, signifies EOF
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

// peekChar looks ahead in the input without consuming the character.
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// skipWhitespace consumes whitespace characters (space, tab, newline, carriage return).
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// NextToken scans the input and returns the next token.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()
	startPos := l.position

	var typ TokenType
	switch l.ch {
	case 0:
		return Token{Type: EOF, StartPos: startPos, EndPos: startPos}
	case '.':
		if isDigit(l.peekChar()) {
			lit := l.readNumber()
			return Token{Type: NUMBER, Literal: lit, StartPos: startPos, EndPos: l.position}
		}
		typ = DOT
	case ',':
		typ = COMMA
	case ';':
		typ = SEMICOLON
	case '(':
		typ = LPAREN
	case ')':
		typ = RPAREN
	case '[':
		typ = LBRACKET
	case ']':
		typ = RBRACKET
	case '{':
		typ = LBRACE
	case '}':
		typ = RBRACE
	case '"', '\'', '`':
		lit, ok := l.readString(l.ch)
		if !ok {
			return Token{Type: ILLEGAL, Literal: lit, StartPos: startPos, EndPos: l.position}
		}
		return Token{Type: STRING, Literal: lit, StartPos: startPos, EndPos: l.position}
	default:
		if isLetter(l.ch) {
			lit := l.readIdentifier()
			return Token{Type: LookupIdent(lit), Literal: lit, StartPos: startPos, EndPos: l.position}
		}
		if isDigit(l.ch) {
			lit := l.readNumber()
			return Token{Type: NUMBER, Literal: lit, StartPos: startPos, EndPos: l.position}
		}
		if strings.IndexByte("=+-*/%<>!&|^~?:", l.ch) >= 0 {
			for strings.IndexByte("=+-*/%<>!&|^~?:", l.peekChar()) >= 0 {
				l.readChar()
			}
			typ = OPERATOR
		} else {
			typ = ILLEGAL
		}
	}
	l.readChar()
	return Token{Type: typ, Literal: l.input[startPos:l.position], StartPos: startPos, EndPos: l.position}
}

// Tokens scans the whole input. The final token is always EOF.
func (l *Lexer) Tokens() []Token {
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks
		}
	}
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readNumber() string {
	position := l.position
	for isDigit(l.ch) || isLetter(l.ch) || l.ch == '.' {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readString consumes a quoted literal, quotes excluded from the result.
// It reports false when the input ends first.
func (l *Lexer) readString(quote byte) (string, bool) {
	var b strings.Builder
	l.readChar() // opening quote
	for {
		switch l.ch {
		case 0:
			return b.String(), false
		case quote:
			l.readChar()
			return b.String(), true
		case '\\':
			l.readChar()
			if l.ch == 0 {
				return b.String(), false
			}
		}
		b.WriteByte(l.ch)
		l.readChar()
	}
}

// isLetter checks if the character can start an identifier.
func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch == '$'
}

// isDigit checks if the character is a digit.
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// TrailingReference returns the member chain at the end of line, such as
// "Math.ab" in "x = Math.ab", and the byte offset it starts at. A chain
// ending in a dot is kept so callers can complete its members.
func TrailingReference(line string) (int, string) {
	toks := NewLexer(line).Tokens()
	toks = toks[:len(toks)-1] // EOF
	if len(toks) == 0 || toks[len(toks)-1].EndPos != len(line) {
		return len(line), ""
	}
	i := len(toks) - 1
	if toks[i].Type == DOT {
		i--
		if i < 0 || toks[i].EndPos != toks[i+1].StartPos {
			return len(line), ""
		}
	}
	if !isName(toks[i].Type) {
		return len(line), ""
	}
	for i >= 2 && toks[i-1].Type == DOT && isName(toks[i-2].Type) &&
		toks[i-2].EndPos == toks[i-1].StartPos && toks[i-1].EndPos == toks[i].StartPos {
		i -= 2
	}
	start := toks[i].StartPos
	return start, line[start:]
}

func isName(t TokenType) bool {
	return t == IDENT || IsKeyword(t)
}
