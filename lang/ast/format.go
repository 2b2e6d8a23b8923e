package ast

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/pulua/lang/token"
)

// Format writes n as canonical pulua source: one statement per line, blocks
// indented by two spaces, single spaces around binary operators and
// double-quoted strings. Parsing the output with the same precedence mode
// yields a tree equal to n (ignoring positions).
func Format(w io.Writer, n Node) error {
	var p printer

	p.node(n)

	_, err := io.WriteString(w, p.String())

	return err
}

// FormatString returns the canonical source of n.
func FormatString(n Node) string {
	var p printer

	p.node(n)

	return p.String()
}

// FormatJSON writes the [ToNative] form of n as JSON. A positive indent
// pretty-prints with that many spaces per level.
func FormatJSON(_ context.Context, w io.Writer, n Node, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(ToNative(n), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(ToNative(n))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the [ToNative] form of n as YAML. A positive indent sets
// the block indentation; otherwise flow style is used.
func FormatYAML(ctx context.Context, w io.Writer, n Node, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, ToNative(n), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

type printer struct {
	strings.Builder
	depth int
}

// line writes s at the current depth. Continuation lines of a multi-line s,
// such as the body of a function expression, are shifted by the same amount.
func (p *printer) line(s string) {
	indent := strings.Repeat("  ", p.depth)

	p.WriteString(indent)
	p.WriteString(strings.ReplaceAll(s, "\n", "\n"+indent))
	p.WriteByte('\n')
}

func (p *printer) node(n Node) {
	switch n := n.(type) {
	case *Block:
		p.chunk(&n.Chunk)
	case *Chunk:
		p.chunk(n)
	case Stat:
		p.stat(n)
	case LastStat:
		p.last(n)
	case Expr:
		p.WriteString(expr(n))
	}
}

func (p *printer) chunk(c *Chunk) {
	for _, s := range c.Stats {
		p.stat(s)
	}

	if c.Last != nil {
		p.last(c.Last)
	}
}

func (p *printer) block(b *Block) {
	p.depth++
	p.chunk(&b.Chunk)
	p.depth--
}

func (p *printer) stat(s Stat) {
	switch s := s.(type) {
	case *Assign:
		vars := make([]string, len(s.Vars))
		for i, v := range s.Vars {
			vars[i] = variable(v)
		}

		p.line(guard(strings.Join(vars, ", ") + " = " + exprList(s.Exprs)))

	case *FunctionCall:
		p.line(guard(call(s)))

	case *Do:
		p.line("do")
		p.block(s.Body)
		p.line("end")

	case *While:
		p.line("while " + expr(s.Cond) + " do")
		p.block(s.Body)
		p.line("end")

	case *Repeat:
		p.line("repeat")
		p.block(s.Body)
		p.line("until " + expr(s.Cond))

	case *If:
		p.line("if " + expr(s.Cond) + " then")
		p.block(s.Then)

		for _, arm := range s.ElseIfs {
			p.line("elseif " + expr(arm.Cond) + " then")
			p.block(arm.Body)
		}

		if s.Else != nil {
			p.line("else")
			p.block(s.Else)
		}

		p.line("end")

	case *For:
		head := "for " + s.Name + " = " + expr(s.Init) + ", " + expr(s.Limit)
		if s.Step != nil {
			head += ", " + expr(s.Step)
		}

		p.line(head + " do")
		p.block(s.Body)
		p.line("end")

	case *ForIn:
		p.line("for " + strings.Join(s.Names, ", ") + " in " + exprList(s.Exprs) + " do")
		p.block(s.Body)
		p.line("end")

	case *FunctionDecl:
		p.funcBody("function "+s.Name.String(), s.Body)

	case *LocalFunction:
		p.funcBody("local function "+s.Name, s.Body)

	case *LocalDeclVar:
		text := "local " + strings.Join(s.Names, ", ")
		if len(s.Exprs) > 0 {
			text += " = " + exprList(s.Exprs)
		}

		p.line(text)
	}
}

func (p *printer) last(s LastStat) {
	switch s := s.(type) {
	case *Return:
		if len(s.Exprs) == 0 {
			p.line("return")
		} else {
			p.line("return " + exprList(s.Exprs))
		}

	case *Break:
		p.line("break")
	}
}

func (p *printer) funcBody(head string, f *FuncBody) {
	p.line(head + "(" + params(f.Params) + ")")
	p.block(f.Body)
	p.line("end")
}

// guard prefixes a statement that opens with a parenthesis with ";" so that
// it cannot be read as a call on the preceding statement's last expression.
func guard(s string) string {
	if strings.HasPrefix(s, "(") {
		return ";" + s
	}

	return s
}

func params(pl ParamList) string {
	names := pl.Names
	if pl.Vararg {
		names = append(names[:len(names):len(names)], "...")
	}

	return strings.Join(names, ", ")
}

func exprList(list []Expr) string {
	parts := make([]string, len(list))
	for i, e := range list {
		parts[i] = expr(e)
	}

	return strings.Join(parts, ", ")
}

func expr(e Expr) string {
	switch e := e.(type) {
	case *Nil:
		return "nil"
	case *False:
		return "false"
	case *True:
		return "true"
	case *Dots:
		return "..."
	case *Number:
		if e.Exact {
			return strconv.FormatInt(e.Int, 10)
		}

		return strconv.FormatFloat(e.Value, 'f', -1, 64)
	case *String:
		return Quote(e.Value)

	case *FunctionExpr:
		var p printer

		p.depth = 1
		p.chunk(&e.Body.Body.Chunk)

		return "function(" + params(e.Body.Params) + ")\n" + p.String() + "end"

	case *TableConstructor:
		return table(e)

	case *Binop:
		return expr(e.Lhs) + " " + e.Op.Text() + " " + expr(e.Rhs)

	case *Unop:
		operand := expr(e.Operand)

		switch {
		case e.Op == token.Not:
			return "not " + operand
		case e.Op == token.Minus && strings.HasPrefix(operand, "-"):
			return "- " + operand
		default:
			return e.Op.Text() + operand
		}

	case *PrefixVar:
		return variable(e.Var)
	case *PrefixCall:
		return call(e.Call)
	case *PrefixParen:
		return "(" + expr(e.Expr) + ")"
	}

	return ""
}

func variable(v Var) string {
	switch v := v.(type) {
	case *VarName:
		return v.Name.Lexeme
	case *VarIdx:
		return expr(v.Prefix) + "[" + expr(v.Index) + "]"
	case *VarMember:
		return expr(v.Prefix) + "." + v.Name
	}

	return ""
}

func call(c *FunctionCall) string {
	callee := expr(c.Callee)
	if c.Method != "" {
		callee += ":" + c.Method
	}

	switch a := c.Args.(type) {
	case *ExprArgs:
		return callee + "(" + exprList(a.Exprs) + ")"
	case *TableArgs:
		return callee + " " + table(a.Table)
	case *StringArgs:
		return callee + " " + Quote(a.Value)
	default:
		return callee + "()"
	}
}

func table(t *TableConstructor) string {
	if len(t.Fields) == 0 {
		return "{}"
	}

	parts := make([]string, len(t.Fields))

	for i, f := range t.Fields {
		switch f := f.(type) {
		case *FieldIndexed:
			parts[i] = "[" + expr(f.Key) + "] = " + expr(f.Value)
		case *FieldNamed:
			parts[i] = f.Name + " = " + expr(f.Value)
		case *FieldPositional:
			parts[i] = expr(f.Value)
		}
	}

	return "{ " + strings.Join(parts, ", ") + " }"
}

// Quote returns s as a double-quoted string literal. Quotes, backslashes and
// control characters are escaped so that the literal stays on one line.
func Quote(s string) string {
	var b strings.Builder

	b.WriteByte('"')

	for i := range len(s) {
		switch c := s[i]; c {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if c < ' ' || c == 0x7f {
				fmt.Fprintf(&b, `\%03d`, c)
			} else {
				b.WriteByte(c)
			}
		}
	}

	b.WriteByte('"')

	return b.String()
}
