package lexer

// Keywords
const (
	VAR        TokenType = "VAR"
	FUNCTION   TokenType = "FUNCTION"
	RETURN     TokenType = "RETURN"
	IF         TokenType = "IF"
	ELSE       TokenType = "ELSE"
	WHILE      TokenType = "WHILE"
	DO         TokenType = "DO"
	FOR        TokenType = "FOR"
	BREAK      TokenType = "BREAK"
	CONTINUE   TokenType = "CONTINUE"
	TYPEOF     TokenType = "TYPEOF"
	VOID       TokenType = "VOID"
	NEW        TokenType = "NEW"
	DELETE     TokenType = "DELETE"
	IN         TokenType = "IN"
	INSTANCEOF TokenType = "INSTANCEOF"
	SWITCH     TokenType = "SWITCH"
	CASE       TokenType = "CASE"
	DEFAULT    TokenType = "DEFAULT"
	TRY        TokenType = "TRY"
	CATCH      TokenType = "CATCH"
	FINALLY    TokenType = "FINALLY"
	THROW      TokenType = "THROW"
	THIS       TokenType = "THIS"
	ARGUMENTS  TokenType = "ARGUMENTS"

	NULL      TokenType = "NULL"
	UNDEFINED TokenType = "UNDEFINED"
	TRUE      TokenType = "TRUE"
	FALSE     TokenType = "FALSE"
	NAN       TokenType = "NAN"
	INFINITY  TokenType = "INFINITY"

	// BUILTIN marks the names of builtin constructors, namespaces and
	// global functions. They lex as keywords so the compiler can bind them
	// to fixed global slots.
	BUILTIN TokenType = "BUILTIN"

	// RESERVED marks future reserved words.
	RESERVED TokenType = "RESERVED"
)

type keyword struct {
	name string
	typ  TokenType
}

// keywordTable is ordered: Keywords reports names in this order.
var keywordTable = []keyword{
	{"var", VAR},
	{"function", FUNCTION},
	{"return", RETURN},
	{"if", IF},
	{"else", ELSE},
	{"while", WHILE},
	{"do", DO},
	{"for", FOR},
	{"break", BREAK},
	{"continue", CONTINUE},
	{"typeof", TYPEOF},
	{"void", VOID},
	{"new", NEW},
	{"delete", DELETE},
	{"in", IN},
	{"instanceof", INSTANCEOF},
	{"switch", SWITCH},
	{"case", CASE},
	{"default", DEFAULT},
	{"try", TRY},
	{"catch", CATCH},
	{"finally", FINALLY},
	{"throw", THROW},
	{"this", THIS},
	{"arguments", ARGUMENTS},

	{"null", NULL},
	{"undefined", UNDEFINED},
	{"true", TRUE},
	{"false", FALSE},
	{"NaN", NAN},
	{"Infinity", INFINITY},

	{"Object", BUILTIN},
	{"Array", BUILTIN},
	{"Boolean", BUILTIN},
	{"Number", BUILTIN},
	{"String", BUILTIN},
	{"Function", BUILTIN},
	{"RegExp", BUILTIN},
	{"Date", BUILTIN},
	{"eval", BUILTIN},
	{"toString", BUILTIN},
	{"isNaN", BUILTIN},
	{"isFinite", BUILTIN},
	{"parseInt", BUILTIN},
	{"parseFloat", BUILTIN},
	{"encodeURI", BUILTIN},
	{"encodeURIComponent", BUILTIN},
	{"decodeURI", BUILTIN},
	{"decodeURIComponent", BUILTIN},
	{"Math", BUILTIN},

	{"await", RESERVED},
	{"class", RESERVED},
	{"const", RESERVED},
	{"debugger", RESERVED},
	{"enum", RESERVED},
	{"export", RESERVED},
	{"extends", RESERVED},
	{"implements", RESERVED},
	{"import", RESERVED},
	{"interface", RESERVED},
	{"let", RESERVED},
	{"package", RESERVED},
	{"private", RESERVED},
	{"protected", RESERVED},
	{"public", RESERVED},
	{"static", RESERVED},
	{"super", RESERVED},
	{"with", RESERVED},
	{"yield", RESERVED},
}

var keywords = func() map[string]TokenType {
	m := make(map[string]TokenType, len(keywordTable))
	for _, kw := range keywordTable {
		m[kw.name] = kw.typ
	}
	return m
}()

// LookupIdent checks the keywords table for an identifier.
func LookupIdent(ident string) TokenType {
	if tokType, ok := keywords[ident]; ok {
		return tokType
	}
	return IDENT
}

// IsKeyword reports whether t is a keyword token type.
func IsKeyword(t TokenType) bool {
	switch t {
	case ILLEGAL, EOF, IDENT, NUMBER, STRING, OPERATOR,
		DOT, COMMA, SEMICOLON, LPAREN, RPAREN, LBRACKET, RBRACKET, LBRACE, RBRACE:
		return false
	}
	return true
}

// Keywords returns every keyword name in table order.
func Keywords() []string {
	names := make([]string, len(keywordTable))
	for i, kw := range keywordTable {
		names[i] = kw.name
	}
	return names
}

// NumKeywords is the size of the keyword table.
func NumKeywords() int { return len(keywordTable) }

// EachKeyword visits keyword names in table order.
func EachKeyword(fn func(name string)) {
	for _, kw := range keywordTable {
		fn(kw.name)
	}
}
