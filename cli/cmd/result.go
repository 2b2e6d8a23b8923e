package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/pulua/lang"
	"github.com/ardnew/pulua/lang/ast"
	"github.com/ardnew/pulua/lang/token"
)

// Formats accepted by --result.
const (
	resultNone   = "none"
	resultNative = "native"
	resultJSON   = "json"
	resultYAML   = "yaml"
)

// writeResult prints the value returned by a chunk in the given format.
func writeResult(ctx context.Context, w io.Writer, format string, v lang.Value) error {
	switch format {
	case resultNative:
		_, err := fmt.Fprintln(w, Literal(v))

		return err

	case resultJSON:
		data, err := json.MarshalIndent(v.ToNative(), "", "  ")
		if err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		_, err = fmt.Fprintln(w, string(data))

		return err

	case resultYAML:
		data, err := yaml.MarshalContext(ctx, v.ToNative())
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		_, err = w.Write(data)

		return err
	}

	return nil
}

// Literal renders v as pulua source where possible: strings are quoted and
// tables are written as constructors, with the sequence part first.
// Functions, and tables reached again while rendering themselves, are
// written in their print form.
func Literal(v lang.Value) string {
	var b strings.Builder

	literal(&b, v, map[*lang.Table]bool{})

	return b.String()
}

func literal(b *strings.Builder, v lang.Value, seen map[*lang.Table]bool) {
	switch v.Type() {
	case lang.TypeString:
		s, _ := v.AsString()
		b.WriteString(ast.Quote(s))

	case lang.TypeTable:
		t, _ := v.AsTable()
		if seen[t] {
			b.WriteString(v.String())

			return
		}

		seen[t] = true
		defer delete(seen, t)

		n := 0

		b.WriteByte('{')

		for k, e := range t.All() {
			if n > 0 {
				b.WriteByte(',')
			}

			b.WriteByte(' ')

			n++

			if i, ok := k.AsNumber(); !ok || i != int64(n) || n > t.Len() {
				key(b, k, seen)
				b.WriteString(" = ")
			}

			literal(b, e, seen)
		}

		if n > 0 {
			b.WriteByte(' ')
		}

		b.WriteByte('}')

	default:
		b.WriteString(v.String())
	}
}

func key(b *strings.Builder, k lang.Value, seen map[*lang.Table]bool) {
	if s, ok := k.AsString(); ok && isIdent(s) {
		b.WriteString(s)

		return
	}

	b.WriteByte('[')
	literal(b, k, seen)
	b.WriteByte(']')
}

// isIdent reports whether s can be written as a bare field name.
func isIdent(s string) bool {
	if s == "" || token.Lookup(s) != token.Name {
		return false
	}

	for i, c := range s {
		alpha := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		digit := c >= '0' && c <= '9'

		if !alpha && (i == 0 || !digit) {
			return false
		}
	}

	return true
}
