package cli

import (
	"os"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/ardnew/pulua/cli/cmd"
	"github.com/ardnew/pulua/lang"
	"github.com/ardnew/pulua/lang/lexer"
	"github.com/ardnew/pulua/lang/token"
	"github.com/ardnew/pulua/pkg"
)

// define evaluates each NAME=EXPR specification in order and returns the
// resulting globals.
//
// Expressions are written in the expr language, not in pulua. Each one sees
// the values of the definitions before it, plus a getenv function:
//
//	-D 'home=getenv("HOME")' -D 'depth=len(home) * 2'
//
// A later definition of the same name replaces the earlier one.
func define(specs []string) ([]cmd.Global, error) {
	env := map[string]any{"getenv": os.Getenv}
	globals := make([]cmd.Global, 0, len(specs))

	for _, spec := range specs {
		name, source, ok := strings.Cut(spec, "=")
		name = strings.TrimSpace(name)

		if !ok || !isName(name) {
			return nil, pkg.ErrDefinition.Wrapf("%q: expected NAME=EXPR", spec)
		}

		out, err := expr.Eval(source, env)
		if err != nil {
			return nil, pkg.ErrDefinition.Wrapf("%s: %w", name, err)
		}

		value, err := lang.ValueOf(out)
		if err != nil {
			return nil, pkg.ErrDefinition.Wrapf("%s: %w", name, err)
		}

		env[name] = out
		globals = append(globals, cmd.Global{Name: name, Value: value})
	}

	return globals, nil
}

// isName reports whether s scans as exactly one identifier.
func isName(s string) bool {
	toks, err := lexer.Scan(s)

	return err == nil && len(toks) == 2 && toks[0].Kind == token.Name
}
