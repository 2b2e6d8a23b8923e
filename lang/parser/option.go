package parser

import "github.com/ardnew/pulua/log"

// Precedence selects how binary operators bind.
type Precedence int

const (
	// Standard applies the Lua 5.3 operator priorities and associativity.
	Standard Precedence = iota
	// Flat treats every binary operator as one left-associative level.
	Flat
)

// String returns "standard" or "flat".
func (p Precedence) String() string {
	if p == Flat {
		return "flat"
	}

	return "standard"
}

// ParsePrecedence returns the mode named by s, defaulting to [Standard].
func ParsePrecedence(s string) Precedence {
	if s == Flat.String() {
		return Flat
	}

	return Standard
}

// Option configures a parse.
type Option func(*parser)

// WithPrecedence selects the binary operator precedence mode.
func WithPrecedence(prec Precedence) Option {
	return func(p *parser) { p.prec = prec }
}

// WithLogger sets the logger used for trace diagnostics.
func WithLogger(logger log.Logger) Option {
	return func(p *parser) { p.logger = logger }
}
