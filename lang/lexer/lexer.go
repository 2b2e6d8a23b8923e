// Package lexer scans pulua source text into a flat sequence of tokens.
//
// The scanner is a single forward cursor. It never backtracks: multi-character
// operators are resolved with one character of lookahead, and every scan ends
// with a synthetic [token.Eof] so that the parser can detect end of input by
// ordinary token matching.
//
// Line comments ("--" to end of line) are not part of the token stream. They
// are collected separately and exposed by [Lexer.Comments].
package lexer

import (
	"unicode/utf8"

	"github.com/ardnew/pulua/lang/token"
)

// Lexer holds the scanning state for a single source text.
type Lexer struct {
	src      string
	tokens   []token.Token
	comments []token.Token

	start     int // byte offset of the token being scanned
	startLine int
	startCol  int

	pos  int // byte offset of the next unread character
	line int
	col  int
}

// New returns a Lexer positioned at the start of src.
func New(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Scan tokenizes src. It is shorthand for New(src).Scan().
func Scan(src string) ([]token.Token, error) {
	return New(src).Scan()
}

// Scan consumes the entire source and returns its tokens terminated by
// [token.Eof]. The first lexical error aborts the scan and is returned as a
// *[ScanError]; no partial tokens are recovered.
func (l *Lexer) Scan() ([]token.Token, error) {
	for !l.atEnd() {
		l.mark()

		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}

	l.mark()
	l.emit(token.Eof)

	return l.tokens, nil
}

// Comments returns the comments collected by [Lexer.Scan], in source order.
// Each comment token has kind [token.Comment] and its lexeme excludes the
// leading "--".
func (l *Lexer) Comments() []token.Token { return l.comments }

func (l *Lexer) scanToken() error {
	c := l.advance()

	switch c {
	case ' ', '\t', '\r':
		return nil

	case '\n':
		l.line++
		l.col = 1

		return nil

	case '(':
		l.emit(token.ParenL)
	case ')':
		l.emit(token.ParenR)
	case '{':
		l.emit(token.BraceL)
	case '}':
		l.emit(token.BraceR)
	case '[':
		l.emit(token.BracketL)
	case ']':
		l.emit(token.BracketR)
	case ';':
		l.emit(token.Semi)
	case ',':
		l.emit(token.Comma)
	case '+':
		l.emit(token.Plus)
	case '*':
		l.emit(token.Star)
	case '%':
		l.emit(token.Percent)
	case '^':
		l.emit(token.Caret)
	case '#':
		l.emit(token.Hash)
	case '&':
		l.emit(token.Amp)
	case '|':
		l.emit(token.Pipe)

	case '-':
		if l.match('-') {
			l.comment()

			return nil
		}

		l.emit(token.Minus)

	case '.':
		if l.match('.') {
			l.emit(l.choose('.', token.Dots, token.Concat))
		} else {
			l.emit(token.Dot)
		}

	case '/':
		l.emit(l.choose('/', token.IDiv, token.Slash))
	case ':':
		l.emit(l.choose(':', token.DbColon, token.Colon))
	case '=':
		l.emit(l.choose('=', token.Eq, token.Assign))
	case '~':
		l.emit(l.choose('=', token.NotEq, token.Tilde))

	case '<':
		switch {
		case l.match('<'):
			l.emit(token.ShL)
		case l.match('='):
			l.emit(token.LessEq)
		default:
			l.emit(token.Less)
		}

	case '>':
		switch {
		case l.match('>'):
			l.emit(token.ShR)
		case l.match('='):
			l.emit(token.GreaterEq)
		default:
			l.emit(token.Greater)
		}

	case '"', '\'':
		return l.string(c)

	default:
		switch {
		case isDigit(c):
			l.number()
		case isAlpha(c):
			l.name()
		default:
			return l.fail(ErrUnexpectedChar)
		}
	}

	return nil
}

// string scans a literal delimited by quote. The lexeme keeps both quotes and
// any backslash escapes verbatim.
func (l *Lexer) string(quote rune) error {
	for {
		if l.atEnd() {
			return l.fail(ErrUnterminatedString)
		}

		switch l.advance() {
		case quote:
			l.emit(token.StringLit)

			return nil

		case '\n':
			return l.fail(ErrLineBreakInString)

		case '\\':
			if l.atEnd() {
				return l.fail(ErrUnterminatedString)
			}

			if l.peek() == '\n' {
				l.advance()

				return l.fail(ErrLineBreakInString)
			}

			l.advance()
		}
	}
}

// number scans a run of digits with an optional fractional part. A dot not
// followed by a digit is left for the next token, so "1..2" is a
// concatenation.
func (l *Lexer) number() {
	kind := token.Int

	for isDigit(l.peek()) {
		l.advance()
	}

	if l.peek() == '.' && isDigit(l.peekNext()) {
		kind = token.Float

		l.advance()

		for isDigit(l.peek()) {
			l.advance()
		}
	}

	l.emit(kind)
}

func (l *Lexer) name() {
	for c := l.peek(); isAlpha(c) || isDigit(c); c = l.peek() {
		l.advance()
	}

	l.emit(token.Lookup(l.src[l.start:l.pos]))
}

func (l *Lexer) comment() {
	for !l.atEnd() && l.peek() != '\n' {
		l.advance()
	}

	l.comments = append(l.comments, token.Token{
		Kind:   token.Comment,
		Lexeme: l.src[l.start+len("--") : l.pos],
		Line:   l.startLine,
		Column: l.startCol,
	})
}

// mark records the start of the next token.
func (l *Lexer) mark() {
	l.start, l.startLine, l.startCol = l.pos, l.line, l.col
}

func (l *Lexer) emit(kind token.Kind) {
	l.tokens = append(l.tokens, token.Token{
		Kind:   kind,
		Lexeme: l.src[l.start:l.pos],
		Line:   l.startLine,
		Column: l.startCol,
	})
}

func (l *Lexer) fail(reason error) *ScanError {
	return &ScanError{
		Lexeme: l.src[l.start:l.pos],
		Reason: reason,
		Line:   l.startLine,
		Column: l.startCol,
	}
}

func (l *Lexer) atEnd() bool { return l.pos >= len(l.src) }

func (l *Lexer) advance() rune {
	r, n := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += n
	l.col++

	return r
}

func (l *Lexer) peek() rune {
	if l.atEnd() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])

	return r
}

func (l *Lexer) peekNext() rune {
	if l.atEnd() {
		return 0
	}

	_, n := utf8.DecodeRuneInString(l.src[l.pos:])
	if l.pos+n >= len(l.src) {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.src[l.pos+n:])

	return r
}

// match consumes the next character if it is want.
func (l *Lexer) match(want rune) bool {
	if l.peek() != want || l.atEnd() {
		return false
	}

	l.advance()

	return true
}

// choose returns yes after consuming want, or no if want is not next.
func (l *Lexer) choose(want rune, yes, no token.Kind) token.Kind {
	if l.match(want) {
		return yes
	}

	return no
}

func isDigit(c rune) bool { return c >= '0' && c <= '9' }

func isAlpha(c rune) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
