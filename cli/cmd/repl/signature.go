package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/pulua/lang"
)

// signatureHintStyle styles for parameter hints.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
	signatureSeparatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// functionCall represents a detected function call in the input.
type functionCall struct {
	name     string // qualified function name (e.g., "table.insert")
	argIndex int    // current argument index (0-based)
	inCall   bool   // true if cursor is inside parameter list
	method   bool   // true for obj:name( calls, which pass self implicitly
}

// isNameRune reports whether r may appear in a qualified function name.
func isNameRune(r rune) bool {
	return r == '.' || r == ':' || r == '_' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// detectFunctionCall analyzes the input to determine if the cursor is inside
// a function call's parameter list. It returns the function name, current
// argument index, and whether we're inside a call.
func detectFunctionCall(input string, cursor int) functionCall {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Scan backward from cursor to find the unmatched opening paren.
	depth := 0
	open := -1

	for i := cursor; i > 0 && open < 0; {
		r, size := utf8.DecodeLastRuneInString(input[:i])
		i -= size

		switch r {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i
			}

			depth--
		}
	}

	if open < 0 {
		return functionCall{}
	}

	// Extract the qualified name before the '('.
	start := open

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isNameRune(r) {
			break
		}

		start -= size
	}

	name := input[start:open]
	if name == "" || strings.HasSuffix(name, ".") || strings.HasSuffix(name, ":") {
		return functionCall{}
	}

	method := false
	if i := strings.LastIndexByte(name, ':'); i >= 0 {
		method = true
		name = name[:i] + "." + name[i+1:]
	}

	// Count arguments by counting commas at depth 0 in the parameter list.
	argIndex := 0
	depth = 0

	for _, r := range input[open+1 : cursor] {
		switch r {
		case '(', '{', '[':
			depth++
		case ')', '}', ']':
			depth--
		case ',':
			if depth == 0 {
				argIndex++
			}
		}
	}

	return functionCall{
		name:     name,
		argIndex: argIndex,
		inCall:   true,
		method:   method,
	}
}

// getSignature retrieves the signature of the function at the qualified
// name. Returns empty string if the name is not bound to a function.
func getSignature(s *lang.State, name string) (signature string, params []string) {
	v, ok := resolvePath(s, name)
	if !ok {
		return "", nil
	}

	f, ok := v.AsFunction()
	if !ok {
		return "", nil
	}

	return f.Signature(), paramNames(f)
}

// paramNames lists a function's parameters as shown in its signature.
// Native functions take any arguments.
func paramNames(f *lang.Function) []string {
	if f.Proto == nil {
		return []string{"..."}
	}

	names := append([]string(nil), f.Proto.Params...)
	if f.Proto.Vararg {
		names = append(names, "...")
	}

	return names
}

// renderSignatureHint renders the function signature with the current
// parameter highlighted.
func renderSignatureHint(
	signature string,
	params []string,
	currentArgIdx int,
) string {
	if signature == "" {
		return ""
	}

	// Parse signature: "funcName(param1, param2, ...)"
	openParen := strings.Index(signature, "(")
	if openParen == -1 {
		return signatureStyle.Render(signature)
	}

	funcName := signature[:openParen]

	// If no parameters, just render the signature
	if len(params) == 0 {
		return signatureNameStyle.Render(funcName) +
			signatureStyle.Render("()")
	}

	var b strings.Builder
	b.WriteString(signatureNameStyle.Render(funcName))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureSeparatorStyle.Render(", "))
		}

		// For variadic parameters, highlight if we're at or beyond that index
		isVariadic := param == "..."

		if (isVariadic && currentArgIdx >= i) ||
			(!isVariadic && currentArgIdx == i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
