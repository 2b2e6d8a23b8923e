// Package token defines the lexical tokens of pulua source text.
package token

//go:generate go tool stringer --type Kind --output kind_string.go

import "strconv"

// Kind identifies the lexical class of a [Token].
type Kind int

const (
	Invalid Kind = iota

	// Punctuation and operators.
	ParenL
	ParenR
	BraceL
	BraceR
	BracketL
	BracketR
	Assign
	Colon
	DbColon
	Semi
	Comma
	Dot
	Concat
	Dots
	Plus
	Minus
	Star
	Slash
	IDiv
	Percent
	Caret
	Hash
	Amp
	Tilde
	Pipe
	ShL
	ShR
	Less
	LessEq
	Greater
	GreaterEq
	Eq
	NotEq

	// Keywords.
	And
	Break
	Do
	Else
	Elseif
	End
	False
	For
	Function
	Goto
	If
	In
	Local
	Nil
	Not
	Or
	Repeat
	Return
	Then
	True
	Until
	While

	// Literals.
	Int
	Float
	StringLit
	Name

	Comment
	Eof
)

// text holds the fixed spelling of every kind that has one.
var text = [...]string{
	ParenL:    "(",
	ParenR:    ")",
	BraceL:    "{",
	BraceR:    "}",
	BracketL:  "[",
	BracketR:  "]",
	Assign:    "=",
	Colon:     ":",
	DbColon:   "::",
	Semi:      ";",
	Comma:     ",",
	Dot:       ".",
	Concat:    "..",
	Dots:      "...",
	Plus:      "+",
	Minus:     "-",
	Star:      "*",
	Slash:     "/",
	IDiv:      "//",
	Percent:   "%",
	Caret:     "^",
	Hash:      "#",
	Amp:       "&",
	Tilde:     "~",
	Pipe:      "|",
	ShL:       "<<",
	ShR:       ">>",
	Less:      "<",
	LessEq:    "<=",
	Greater:   ">",
	GreaterEq: ">=",
	Eq:        "==",
	NotEq:     "~=",
	And:       "and",
	Break:     "break",
	Do:        "do",
	Else:      "else",
	Elseif:    "elseif",
	End:       "end",
	False:     "false",
	For:       "for",
	Function:  "function",
	Goto:      "goto",
	If:        "if",
	In:        "in",
	Local:     "local",
	Nil:       "nil",
	Not:       "not",
	Or:        "or",
	Repeat:    "repeat",
	Return:    "return",
	Then:      "then",
	True:      "true",
	Until:     "until",
	While:     "while",
	Eof:       "",
}

var keywords = func() map[string]Kind {
	m := make(map[string]Kind, While-And+1)
	for k := And; k <= While; k++ {
		m[text[k]] = k
	}

	return m
}()

// Lookup returns the keyword kind spelled by name, or [Name] if name is not
// a reserved word.
func Lookup(name string) Kind {
	if k, ok := keywords[name]; ok {
		return k
	}

	return Name
}

// Text returns the fixed source spelling of k, or the empty string for kinds
// whose lexeme varies (literals, names and comments).
func (k Kind) Text() string {
	if k > Invalid && int(k) < len(text) {
		return text[k]
	}

	return ""
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool { return k >= And && k <= While }

// IsLiteral reports whether k carries a variable lexeme.
func (k Kind) IsLiteral() bool { return k >= Int && k <= Name }

// Token is a single lexeme of source text.
//
// Two tokens are [Token.Equal] when their kinds match; the lexeme and
// position are informational only.
type Token struct {
	Lexeme string
	Kind   Kind
	Line   int
	Column int
}

// New returns a token of kind k whose lexeme is the kind's fixed spelling.
func New(k Kind) Token {
	return Token{Kind: k, Lexeme: k.Text()}
}

// Equal reports whether t and u have the same kind.
func (t Token) Equal(u Token) bool { return t.Kind == u.Kind }

// Is reports whether t has any of the given kinds.
func (t Token) Is(kinds ...Kind) bool {
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}

	return false
}

// Pos formats the token position as "line:column".
func (t Token) Pos() string {
	return strconv.Itoa(t.Line) + ":" + strconv.Itoa(t.Column)
}

// String renders the token as its kind followed by the lexeme of literal
// kinds, e.g. Int(1) or Name(print).
func (t Token) String() string {
	if t.Kind.IsLiteral() {
		return t.Kind.String() + "(" + t.Lexeme + ")"
	}

	return t.Kind.String()
}
