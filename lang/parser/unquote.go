package parser

import "strings"

// unquote strips the delimiters from a string literal lexeme and processes
// its escape sequences: \a \b \f \n \r \t \v \\ \" \', \xXX and decimal
// \ddd. It reports false for a malformed literal or an unknown escape.
func unquote(lexeme string) (string, bool) {
	if len(lexeme) < 2 || lexeme[0] != lexeme[len(lexeme)-1] {
		return "", false
	}

	s := lexeme[1 : len(lexeme)-1]
	if !strings.Contains(s, `\`) {
		return s, true
	}

	var b strings.Builder

	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)

			continue
		}

		i++
		if i >= len(s) {
			return "", false
		}

		switch c = s[i]; c {
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'v':
			b.WriteByte('\v')
		case '\\', '"', '\'':
			b.WriteByte(c)

		case 'x':
			if i+2 >= len(s) {
				return "", false
			}

			hi, ok1 := hexDigit(s[i+1])
			lo, ok2 := hexDigit(s[i+2])

			if !ok1 || !ok2 {
				return "", false
			}

			b.WriteByte(hi<<4 | lo)

			i += 2

		default:
			if !isDecimal(c) {
				return "", false
			}

			n, j := 0, i
			for ; j < len(s) && j < i+3 && isDecimal(s[j]); j++ {
				n = n*10 + int(s[j]-'0')
			}

			if n > 0xff {
				return "", false
			}

			b.WriteByte(byte(n))

			i = j - 1
		}
	}

	return b.String(), true
}

func isDecimal(c byte) bool { return c >= '0' && c <= '9' }

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}

	return 0, false
}
