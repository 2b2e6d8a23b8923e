package ast

import (
	"fmt"
	"io"
	"iter"
	"strings"
)

// attr is a named component of a node: a scalar, a child node or a list of
// child nodes.
type attr struct {
	value any
	name  string
}

// literal is string data that is present even when empty.
type literal string

// describe returns the variant name of n and its components in source order.
// It is the single place that knows the shape of every node; [Nodes],
// [ToNative] and [Fprint] are all derived from it.
func describe(n Node) (string, []attr) {
	switch n := n.(type) {
	case *Block:
		return "Block", chunkAttrs(&n.Chunk)
	case *Chunk:
		return "Chunk", chunkAttrs(n)

	case *Assign:
		return "Assign", []attr{{name: "vars", value: nodes(n.Vars)}, {name: "exprs", value: nodes(n.Exprs)}}
	case *FunctionCall:
		return "FunctionCall", []attr{
			{name: "callee", value: n.Callee},
			{name: "method", value: n.Method},
			{name: "args", value: n.Args},
		}
	case *Do:
		return "Do", []attr{{name: "body", value: n.Body}}
	case *While:
		return "While", []attr{{name: "cond", value: n.Cond}, {name: "body", value: n.Body}}
	case *Repeat:
		return "Repeat", []attr{{name: "body", value: n.Body}, {name: "cond", value: n.Cond}}
	case *If:
		arms := make([]Node, len(n.ElseIfs))
		for i := range n.ElseIfs {
			arms[i] = &n.ElseIfs[i]
		}

		return "If", []attr{
			{name: "cond", value: n.Cond},
			{name: "then", value: n.Then},
			{name: "elseifs", value: arms},
			{name: "else", value: n.Else},
		}
	case *ElseIf:
		return "ElseIf", []attr{{name: "cond", value: n.Cond}, {name: "body", value: n.Body}}
	case *For:
		return "For", []attr{
			{name: "name", value: n.Name},
			{name: "init", value: n.Init},
			{name: "limit", value: n.Limit},
			{name: "step", value: n.Step},
			{name: "body", value: n.Body},
		}
	case *ForIn:
		return "ForIn", []attr{
			{name: "names", value: n.Names},
			{name: "exprs", value: nodes(n.Exprs)},
			{name: "body", value: n.Body},
		}
	case *FunctionDecl:
		return "FunctionDecl", []attr{{name: "name", value: n.Name.String()}, {name: "body", value: n.Body}}
	case *LocalFunction:
		return "LocalFunction", []attr{{name: "name", value: n.Name}, {name: "body", value: n.Body}}
	case *LocalDeclVar:
		return "LocalDeclVar", []attr{{name: "names", value: n.Names}, {name: "exprs", value: nodes(n.Exprs)}}

	case *Return:
		return "Return", []attr{{name: "exprs", value: nodes(n.Exprs)}}
	case *Break:
		return "Break", nil

	case *Nil:
		return "Nil", nil
	case *False:
		return "False", nil
	case *True:
		return "True", nil
	case *Dots:
		return "Dots", nil
	case *Number:
		if n.Exact {
			return "Number", []attr{{name: "value", value: n.Int}}
		}

		return "Number", []attr{{name: "value", value: n.Value}}
	case *String:
		return "String", []attr{{name: "value", value: literal(n.Value)}}
	case *FunctionExpr:
		return "FunctionExpr", []attr{{name: "body", value: n.Body}}
	case *TableConstructor:
		return "TableConstructor", []attr{{name: "fields", value: nodes(n.Fields)}}
	case *Binop:
		return "Binop", []attr{
			{name: "op", value: n.Op.Text()},
			{name: "lhs", value: n.Lhs},
			{name: "rhs", value: n.Rhs},
		}
	case *Unop:
		return "Unop", []attr{{name: "op", value: n.Op.Text()}, {name: "operand", value: n.Operand}}

	case *PrefixVar:
		return "PrefixVar", []attr{{name: "var", value: n.Var}}
	case *PrefixCall:
		return "PrefixCall", []attr{{name: "call", value: n.Call}}
	case *PrefixParen:
		return "PrefixParen", []attr{{name: "expr", value: n.Expr}}

	case *VarName:
		return "VarName", []attr{{name: "name", value: n.Name.Lexeme}}
	case *VarIdx:
		return "VarIdx", []attr{{name: "prefix", value: n.Prefix}, {name: "index", value: n.Index}}
	case *VarMember:
		return "VarMember", []attr{{name: "prefix", value: n.Prefix}, {name: "name", value: n.Name}}

	case *NoArgs:
		return "NoArgs", nil
	case *ExprArgs:
		return "ExprArgs", []attr{{name: "exprs", value: nodes(n.Exprs)}}
	case *TableArgs:
		return "TableArgs", []attr{{name: "table", value: n.Table}}
	case *StringArgs:
		return "StringArgs", []attr{{name: "value", value: literal(n.Value)}}

	case *FieldIndexed:
		return "FieldIndexed", []attr{{name: "key", value: n.Key}, {name: "value", value: n.Value}}
	case *FieldNamed:
		return "FieldNamed", []attr{{name: "name", value: n.Name}, {name: "value", value: n.Value}}
	case *FieldPositional:
		return "FieldPositional", []attr{{name: "value", value: n.Value}}

	case *FuncBody:
		return "FuncBody", []attr{
			{name: "params", value: n.Params.Names},
			{name: "vararg", value: n.Params.Vararg},
			{name: "body", value: n.Body},
		}
	}

	return fmt.Sprintf("%T", n), nil
}

func chunkAttrs(c *Chunk) []attr {
	return []attr{{name: "stats", value: nodes(c.Stats)}, {name: "last", value: c.Last}}
}

// nodes converts a slice of any node interface to []Node.
func nodes[T Node](s []T) []Node {
	out := make([]Node, len(s))
	for i, n := range s {
		out[i] = n
	}

	return out
}

// present reports whether a component holds something worth showing. Nil
// interfaces, typed nil pointers, empty strings and empty lists are absent.
func present(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	case []string:
		return len(v) > 0
	case []Node:
		return len(v) > 0
	case *Block:
		return v != nil
	case *FuncBody:
		return v != nil
	case *FunctionCall:
		return v != nil
	case *TableConstructor:
		return v != nil
	case Node:
		return v != nil
	}

	return true
}

// Nodes returns an iterator over n and all of its descendants in preorder.
func Nodes(n Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		walk(n, yield)
	}
}

func walk(n Node, yield func(Node) bool) bool {
	if !present(n) {
		return true
	}

	if !yield(n) {
		return false
	}

	_, attrs := describe(n)
	for _, a := range attrs {
		switch v := a.value.(type) {
		case Node:
			if !walk(v, yield) {
				return false
			}
		case []Node:
			for _, c := range v {
				if !walk(c, yield) {
					return false
				}
			}
		}
	}

	return true
}

// Kind returns the variant name of n, such as "Assign" or "Binop".
func Kind(n Node) string {
	name, _ := describe(n)

	return name
}

// ToNative converts n to a tree of maps, slices and scalars suitable for
// encoding as JSON or YAML. Every node becomes a map with a "type" key naming
// its variant; absent components are omitted. Source positions are not
// included, so trees parsed from differently laid out sources compare equal.
func ToNative(n Node) any {
	if !present(n) {
		return nil
	}

	name, attrs := describe(n)
	m := map[string]any{"type": name}

	for _, a := range attrs {
		if !present(a.value) {
			continue
		}

		switch v := a.value.(type) {
		case Node:
			m[a.name] = ToNative(v)
		case []Node:
			list := make([]any, len(v))
			for i, c := range v {
				list[i] = ToNative(c)
			}

			m[a.name] = list
		case literal:
			m[a.name] = string(v)
		default:
			m[a.name] = v
		}
	}

	return m
}

// Fprint writes an indented outline of n to w, one node per line.
func Fprint(w io.Writer, n Node) error {
	var b strings.Builder

	outline(&b, "", n, 0)

	_, err := io.WriteString(w, b.String())

	return err
}

func outline(b *strings.Builder, label string, n Node, depth int) {
	indent := strings.Repeat("  ", depth)
	name, attrs := describe(n)

	b.WriteString(indent)

	if label != "" {
		b.WriteString(label)
		b.WriteString(": ")
	}

	b.WriteString(name)

	for _, a := range attrs {
		switch v := a.value.(type) {
		case Node, []Node:
		default:
			if present(v) {
				fmt.Fprintf(b, " %s=%s", a.name, scalar(v))
			}
		}
	}

	b.WriteByte('\n')

	for _, a := range attrs {
		if !present(a.value) {
			continue
		}

		switch v := a.value.(type) {
		case Node:
			outline(b, a.name, v, depth+1)
		case []Node:
			b.WriteString(indent + "  " + a.name + ":\n")

			for _, c := range v {
				outline(b, "", c, depth+2)
			}
		}
	}
}

func scalar(v any) string {
	switch v := v.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case literal:
		return fmt.Sprintf("%q", string(v))
	case []string:
		return "[" + strings.Join(v, " ") + "]"
	default:
		return fmt.Sprint(v)
	}
}
