package parser

import (
	"strconv"

	"github.com/ardnew/pulua/lang/token"
)

// SyntaxError reports that no grammar alternative matched at a token.
type SyntaxError struct {
	// Expected describes what the parser was looking for.
	Expected string
	// Token is the offending token.
	Token token.Token
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	found := "end of input"
	if e.Token.Kind != token.Eof {
		found = strconv.Quote(e.Token.Lexeme)
	}

	return e.Token.Pos() + ": unexpected " + found + ", expected " + e.Expected
}
