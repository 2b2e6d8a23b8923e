package parser

import (
	"context"
	"log/slog"

	"github.com/ardnew/pulua/lang/ast"
	"github.com/ardnew/pulua/lang/lexer"
	"github.com/ardnew/pulua/lang/token"
	"github.com/ardnew/pulua/log"
)

type parser struct {
	ctx      context.Context
	furthest *SyntaxError
	logger   log.Logger
	toks     []token.Token
	pos      int
	far      int // token index of furthest
	prec     Precedence
}

// Parse builds the block for a complete token sequence, which must end with
// [token.Eof]. It fails with a *[SyntaxError] if the tokens do not form a
// chunk that extends to the end of input.
func Parse(
	ctx context.Context,
	toks []token.Token,
	opts ...Option,
) (*ast.Block, error) {
	if n := len(toks); n == 0 || toks[n-1].Kind != token.Eof {
		toks = append(toks[:len(toks):len(toks)], token.New(token.Eof))
	}

	p := &parser{ctx: ctx, toks: toks, far: -1}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	block, err := p.block()
	if err != nil {
		return nil, err
	}

	if !p.at(token.Eof) {
		return nil, p.failure("statement")
	}

	p.logger.TraceContext(ctx, "parse complete",
		slog.Int("tokens", len(toks)),
		slog.Int("statements", len(block.Stats)),
		slog.String("precedence", p.prec.String()))

	return block, nil
}

// ParseString scans and parses src. Lexical failures are returned as the
// lexer's *ScanError.
func ParseString(
	ctx context.Context,
	src string,
	opts ...Option,
) (*ast.Block, error) {
	toks, err := lexer.Scan(src)
	if err != nil {
		return nil, err
	}

	return Parse(ctx, toks, opts...)
}

// attempt runs fn from the current position and rewinds to it if fn fails.
func attempt[T any](p *parser, fn func() (T, error)) (T, error) {
	saved := p.pos

	v, err := fn()
	if err != nil {
		p.pos = saved
	}

	return v, err
}

func (p *parser) peek() token.Token { return p.toks[p.pos] }

func (p *parser) peekAt(n int) token.Token {
	if i := p.pos + n; i < len(p.toks) {
		return p.toks[i]
	}

	return p.toks[len(p.toks)-1]
}

func (p *parser) at(kinds ...token.Kind) bool { return p.peek().Is(kinds...) }

func (p *parser) next() token.Token {
	t := p.toks[p.pos]
	if t.Kind != token.Eof {
		p.pos++
	}

	return t
}

// accept consumes the next token if it has kind k.
func (p *parser) accept(k token.Kind) bool {
	if p.at(k) {
		p.next()

		return true
	}

	return false
}

func (p *parser) expect(k token.Kind) (token.Token, error) {
	if p.at(k) {
		return p.next(), nil
	}

	return token.Token{}, p.fail(strconvKind(k))
}

func (p *parser) name() (string, error) {
	t, err := p.expect(token.Name)

	return t.Lexeme, err
}

// fail records a failure at the current token and returns it.
func (p *parser) fail(expected string) error {
	err := &SyntaxError{Token: p.peek(), Expected: expected}
	if p.pos > p.far {
		p.far, p.furthest = p.pos, err
	}

	return err
}

// failure returns the furthest failure recorded so far, or a new failure at
// the current token if none reached past it.
func (p *parser) failure(expected string) error {
	if p.furthest != nil && p.far >= p.pos {
		return p.furthest
	}

	return p.fail(expected)
}

func strconvKind(k token.Kind) string {
	if text := k.Text(); text != "" {
		return "'" + text + "'"
	}

	switch k {
	case token.Name:
		return "name"
	case token.StringLit:
		return "string"
	case token.Eof:
		return "end of input"
	default:
		return k.String()
	}
}

// blockEnd reports whether the next token closes the current block.
func (p *parser) blockEnd() bool {
	return p.at(token.End, token.Else, token.Elseif, token.Until, token.Eof)
}

func (p *parser) block() (*ast.Block, error) {
	var b ast.Block

	for !p.blockEnd() {
		if err := p.ctx.Err(); err != nil {
			return nil, err
		}

		if p.accept(token.Semi) {
			continue
		}

		if p.at(token.Return, token.Break) {
			last, err := p.lastStat()
			if err != nil {
				return nil, err
			}

			b.Last = last

			p.accept(token.Semi)

			if !p.blockEnd() {
				return nil, p.fail("end of block")
			}

			break
		}

		s, err := p.stat()
		if err != nil {
			return nil, err
		}

		b.Stats = append(b.Stats, s)
	}

	return &b, nil
}

func (p *parser) lastStat() (ast.LastStat, error) {
	t := p.next()

	if t.Kind == token.Break {
		return &ast.Break{Line: t.Line}, nil
	}

	ret := &ast.Return{Line: t.Line}

	if p.blockEnd() || p.at(token.Semi) {
		return ret, nil
	}

	exprs, err := p.exprList()
	if err != nil {
		return nil, err
	}

	ret.Exprs = exprs

	return ret, nil
}

func (p *parser) stat() (ast.Stat, error) {
	switch p.peek().Kind {
	case token.Do:
		return p.doStat()
	case token.While:
		return p.whileStat()
	case token.Repeat:
		return p.repeatStat()
	case token.If:
		return p.ifStat()
	case token.For:
		return p.forStat()
	case token.Function:
		return p.functionStat()
	case token.Local:
		if p.peekAt(1).Kind == token.Function {
			return p.localFunctionStat()
		}

		return p.localStat()
	}

	if !p.at(token.Name, token.ParenL) {
		return nil, p.fail("statement")
	}

	// Failures left over from earlier statements do not describe this one.
	p.furthest, p.far = nil, -1

	if s, err := attempt(p, p.assignStat); err == nil {
		return s, nil
	}

	if s, err := attempt(p, p.callStat); err == nil {
		return s, nil
	}

	return nil, p.failure("statement")
}

func (p *parser) assignStat() (ast.Stat, error) {
	var vars []ast.Var

	for {
		v, err := p.variable()
		if err != nil {
			return nil, err
		}

		vars = append(vars, v)

		if !p.accept(token.Comma) {
			break
		}
	}

	if _, err := p.expect(token.Assign); err != nil {
		return nil, err
	}

	exprs, err := p.exprList()
	if err != nil {
		return nil, err
	}

	return &ast.Assign{Vars: vars, Exprs: exprs}, nil
}

func (p *parser) callStat() (ast.Stat, error) {
	e, err := p.prefixExp()
	if err != nil {
		return nil, err
	}

	call, ok := e.(*ast.PrefixCall)
	if !ok {
		return nil, p.fail("function arguments")
	}

	return call.Call, nil
}

func (p *parser) variable() (ast.Var, error) {
	e, err := p.prefixExp()
	if err != nil {
		return nil, err
	}

	v, ok := e.(*ast.PrefixVar)
	if !ok {
		return nil, p.fail("variable")
	}

	return v.Var, nil
}

func (p *parser) doStat() (ast.Stat, error) {
	p.next()

	body, err := p.blockUntil(token.End)
	if err != nil {
		return nil, err
	}

	return &ast.Do{Body: body}, nil
}

func (p *parser) whileStat() (ast.Stat, error) {
	p.next()

	cond, err := p.expr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.Do); err != nil {
		return nil, err
	}

	body, err := p.blockUntil(token.End)
	if err != nil {
		return nil, err
	}

	return &ast.While{Cond: cond, Body: body}, nil
}

func (p *parser) repeatStat() (ast.Stat, error) {
	p.next()

	body, err := p.blockUntil(token.Until)
	if err != nil {
		return nil, err
	}

	cond, err := p.expr()
	if err != nil {
		return nil, err
	}

	return &ast.Repeat{Body: body, Cond: cond}, nil
}

func (p *parser) ifStat() (ast.Stat, error) {
	p.next()

	cond, then, err := p.condBlock()
	if err != nil {
		return nil, err
	}

	s := &ast.If{Cond: cond, Then: then}

	for p.accept(token.Elseif) {
		cond, body, err := p.condBlock()
		if err != nil {
			return nil, err
		}

		s.ElseIfs = append(s.ElseIfs, ast.ElseIf{Cond: cond, Body: body})
	}

	if p.accept(token.Else) {
		if s.Else, err = p.block(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(token.End); err != nil {
		return nil, err
	}

	return s, nil
}

// condBlock parses "exp then block" of an if or elseif arm.
func (p *parser) condBlock() (ast.Expr, *ast.Block, error) {
	cond, err := p.expr()
	if err != nil {
		return nil, nil, err
	}

	if _, err := p.expect(token.Then); err != nil {
		return nil, nil, err
	}

	body, err := p.block()
	if err != nil {
		return nil, nil, err
	}

	return cond, body, nil
}

func (p *parser) forStat() (ast.Stat, error) {
	p.next()

	first, err := p.name()
	if err != nil {
		return nil, err
	}

	if p.accept(token.Assign) {
		return p.numericFor(first)
	}

	names := []string{first}

	for p.accept(token.Comma) {
		n, err := p.name()
		if err != nil {
			return nil, err
		}

		names = append(names, n)
	}

	if _, err := p.expect(token.In); err != nil {
		return nil, err
	}

	exprs, err := p.exprList()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.Do); err != nil {
		return nil, err
	}

	body, err := p.blockUntil(token.End)
	if err != nil {
		return nil, err
	}

	return &ast.ForIn{Names: names, Exprs: exprs, Body: body}, nil
}

func (p *parser) numericFor(name string) (ast.Stat, error) {
	s := &ast.For{Name: name}

	var err error

	if s.Init, err = p.expr(); err != nil {
		return nil, err
	}

	if _, err := p.expect(token.Comma); err != nil {
		return nil, err
	}

	if s.Limit, err = p.expr(); err != nil {
		return nil, err
	}

	if p.accept(token.Comma) {
		if s.Step, err = p.expr(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(token.Do); err != nil {
		return nil, err
	}

	if s.Body, err = p.blockUntil(token.End); err != nil {
		return nil, err
	}

	return s, nil
}

func (p *parser) functionStat() (ast.Stat, error) {
	p.next()

	var fn ast.FuncName

	first, err := p.name()
	if err != nil {
		return nil, err
	}

	fn.Names = []string{first}

	for p.accept(token.Dot) {
		n, err := p.name()
		if err != nil {
			return nil, err
		}

		fn.Names = append(fn.Names, n)
	}

	if p.accept(token.Colon) {
		if fn.Method, err = p.name(); err != nil {
			return nil, err
		}
	}

	body, err := p.funcBody()
	if err != nil {
		return nil, err
	}

	return &ast.FunctionDecl{Name: fn, Body: body}, nil
}

func (p *parser) localFunctionStat() (ast.Stat, error) {
	p.next()
	p.next()

	name, err := p.name()
	if err != nil {
		return nil, err
	}

	body, err := p.funcBody()
	if err != nil {
		return nil, err
	}

	return &ast.LocalFunction{Name: name, Body: body}, nil
}

func (p *parser) localStat() (ast.Stat, error) {
	p.next()

	s := new(ast.LocalDeclVar)

	for {
		n, err := p.name()
		if err != nil {
			return nil, err
		}

		s.Names = append(s.Names, n)

		if !p.accept(token.Comma) {
			break
		}
	}

	if p.accept(token.Assign) {
		exprs, err := p.exprList()
		if err != nil {
			return nil, err
		}

		s.Exprs = exprs
	}

	return s, nil
}

// blockUntil parses a block closed by the terminator kind.
func (p *parser) blockUntil(end token.Kind) (*ast.Block, error) {
	b, err := p.block()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(end); err != nil {
		return nil, err
	}

	return b, nil
}

func (p *parser) funcBody() (*ast.FuncBody, error) {
	open, err := p.expect(token.ParenL)
	if err != nil {
		return nil, err
	}

	f := &ast.FuncBody{Line: open.Line}

	if !p.at(token.ParenR) {
		for {
			if p.accept(token.Dots) {
				f.Params.Vararg = true

				break
			}

			n, err := p.name()
			if err != nil {
				return nil, err
			}

			f.Params.Names = append(f.Params.Names, n)

			if !p.accept(token.Comma) {
				break
			}
		}
	}

	if _, err := p.expect(token.ParenR); err != nil {
		return nil, err
	}

	if f.Body, err = p.blockUntil(token.End); err != nil {
		return nil, err
	}

	return f, nil
}
