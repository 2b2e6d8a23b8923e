package lexer

import (
	"errors"
	"strconv"
	"strings"
)

// Reasons reported by [ScanError].
var (
	ErrUnterminatedString = errors.New("unterminated string")
	ErrLineBreakInString  = errors.New("line break in string")
	ErrUnexpectedChar     = errors.New("unexpected character")
)

// ScanError is a lexical error. It records the position of the token being
// scanned when the failure occurred and the offending text.
type ScanError struct {
	Reason error
	Lexeme string
	Line   int
	Column int
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	var b strings.Builder

	b.WriteString(strconv.Itoa(e.Line))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(e.Column))
	b.WriteString(": ")
	b.WriteString(e.Reason.Error())

	if lexeme := strings.TrimRight(e.Lexeme, "\n"); lexeme != "" {
		b.WriteString(" near ")
		b.WriteString(strconv.Quote(lexeme))
	}

	return b.String()
}

// Unwrap returns the reason, so that errors.Is matches the reason sentinels.
func (e *ScanError) Unwrap() error { return e.Reason }
