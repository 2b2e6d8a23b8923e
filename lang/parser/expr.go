package parser

import (
	"strconv"

	"github.com/ardnew/pulua/lang/ast"
	"github.com/ardnew/pulua/lang/token"
)

// priority is the left and right binding power of a binary operator.
type priority struct{ left, right int }

// binary is the Lua 5.3 binary operator table. Right-associative operators
// bind tighter on the left than on the right.
var binary = map[token.Kind]priority{
	token.Or:        {1, 1},
	token.And:       {2, 2},
	token.Less:      {3, 3},
	token.Greater:   {3, 3},
	token.LessEq:    {3, 3},
	token.GreaterEq: {3, 3},
	token.NotEq:     {3, 3},
	token.Eq:        {3, 3},
	token.Pipe:      {4, 4},
	token.Tilde:     {5, 5},
	token.Amp:       {6, 6},
	token.ShL:       {7, 7},
	token.ShR:       {7, 7},
	token.Concat:    {9, 8},
	token.Plus:      {10, 10},
	token.Minus:     {10, 10},
	token.Star:      {11, 11},
	token.Slash:     {11, 11},
	token.IDiv:      {11, 11},
	token.Percent:   {11, 11},
	token.Caret:     {14, 13},
}

// unaryPriority binds unary operators tighter than everything but '^'.
const unaryPriority = 12

func isUnary(k token.Kind) bool {
	return k == token.Not || k == token.Minus || k == token.Hash || k == token.Tilde
}

func (p *parser) exprList() ([]ast.Expr, error) {
	var list []ast.Expr

	for {
		e, err := p.expr()
		if err != nil {
			return nil, err
		}

		list = append(list, e)

		if !p.accept(token.Comma) {
			return list, nil
		}
	}
}

func (p *parser) expr() (ast.Expr, error) {
	if p.prec == Flat {
		return p.flatExpr()
	}

	return p.subExpr(0)
}

// subExpr parses a binary expression whose operators all bind tighter than
// limit.
func (p *parser) subExpr(limit int) (ast.Expr, error) {
	var (
		lhs ast.Expr
		err error
	)

	if t := p.peek(); isUnary(t.Kind) {
		p.next()

		operand, err := p.subExpr(unaryPriority)
		if err != nil {
			return nil, err
		}

		lhs = &ast.Unop{Op: t.Kind, Operand: operand, Line: t.Line}
	} else if lhs, err = p.simpleExpr(); err != nil {
		return nil, err
	}

	for {
		t := p.peek()

		prio, ok := binary[t.Kind]
		if !ok || prio.left <= limit {
			return lhs, nil
		}

		p.next()

		rhs, err := p.subExpr(prio.right)
		if err != nil {
			return nil, err
		}

		lhs = &ast.Binop{Op: t.Kind, Lhs: lhs, Rhs: rhs, Line: t.Line}
	}
}

// flatExpr folds operands left to right regardless of operator.
func (p *parser) flatExpr() (ast.Expr, error) {
	lhs, err := p.flatOperand()
	if err != nil {
		return nil, err
	}

	for {
		t := p.peek()
		if _, ok := binary[t.Kind]; !ok {
			return lhs, nil
		}

		p.next()

		rhs, err := p.flatOperand()
		if err != nil {
			return nil, err
		}

		lhs = &ast.Binop{Op: t.Kind, Lhs: lhs, Rhs: rhs, Line: t.Line}
	}
}

func (p *parser) flatOperand() (ast.Expr, error) {
	if t := p.peek(); isUnary(t.Kind) {
		p.next()

		operand, err := p.flatOperand()
		if err != nil {
			return nil, err
		}

		return &ast.Unop{Op: t.Kind, Operand: operand, Line: t.Line}, nil
	}

	return p.simpleExpr()
}

func (p *parser) simpleExpr() (ast.Expr, error) {
	t := p.peek()

	switch t.Kind {
	case token.Nil:
		p.next()

		return &ast.Nil{}, nil

	case token.False:
		p.next()

		return &ast.False{}, nil

	case token.True:
		p.next()

		return &ast.True{}, nil

	case token.Dots:
		p.next()

		return &ast.Dots{}, nil

	case token.Int, token.Float:
		// Integers beyond float64 precision keep their exact value.
		if t.Kind == token.Int {
			if n, err := strconv.ParseInt(t.Lexeme, 10, 64); err == nil {
				p.next()

				return ast.Integer(n), nil
			}
		}

		v, err := strconv.ParseFloat(t.Lexeme, 64)
		if err != nil {
			return nil, p.fail("number")
		}

		p.next()

		return &ast.Number{Value: v}, nil

	case token.StringLit:
		s, err := p.stringLit()
		if err != nil {
			return nil, err
		}

		return &ast.String{Value: s}, nil

	case token.Function:
		p.next()

		body, err := p.funcBody()
		if err != nil {
			return nil, err
		}

		return &ast.FunctionExpr{Body: body}, nil

	case token.BraceL:
		return p.tableConstructor()

	case token.Name, token.ParenL:
		return p.prefixExp()
	}

	return nil, p.fail("expression")
}

// stringLit consumes a string token and returns its unescaped value.
func (p *parser) stringLit() (string, error) {
	s, ok := unquote(p.peek().Lexeme)
	if !ok {
		return "", p.fail("valid escape sequence")
	}

	p.next()

	return s, nil
}

// prefixExp parses a primary expression and folds any suffixes onto it.
func (p *parser) prefixExp() (ast.PrefixExp, error) {
	var e ast.PrefixExp

	switch t := p.peek(); t.Kind {
	case token.Name:
		p.next()

		e = &ast.PrefixVar{Var: &ast.VarName{Name: t}}

	case token.ParenL:
		p.next()

		inner, err := p.expr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(token.ParenR); err != nil {
			return nil, err
		}

		e = &ast.PrefixParen{Expr: inner}

	default:
		return nil, p.fail("name or '('")
	}

	for {
		t := p.peek()

		switch t.Kind {
		case token.Dot:
			p.next()

			name, err := p.name()
			if err != nil {
				return nil, err
			}

			e = &ast.PrefixVar{Var: &ast.VarMember{Prefix: e, Name: name}}

		case token.BracketL:
			p.next()

			index, err := p.expr()
			if err != nil {
				return nil, err
			}

			if _, err := p.expect(token.BracketR); err != nil {
				return nil, err
			}

			e = &ast.PrefixVar{Var: &ast.VarIdx{Prefix: e, Index: index}}

		case token.Colon:
			p.next()

			method, err := p.name()
			if err != nil {
				return nil, err
			}

			args, err := p.args()
			if err != nil {
				return nil, err
			}

			e = &ast.PrefixCall{Call: &ast.FunctionCall{
				Callee: e, Method: method, Args: args, Line: t.Line,
			}}

		case token.ParenL, token.BraceL, token.StringLit:
			args, err := p.args()
			if err != nil {
				return nil, err
			}

			e = &ast.PrefixCall{Call: &ast.FunctionCall{
				Callee: e, Args: args, Line: t.Line,
			}}

		default:
			return e, nil
		}
	}
}

func (p *parser) args() (ast.Args, error) {
	switch p.peek().Kind {
	case token.StringLit:
		s, err := p.stringLit()
		if err != nil {
			return nil, err
		}

		return &ast.StringArgs{Value: s}, nil

	case token.BraceL:
		t, err := p.tableConstructor()
		if err != nil {
			return nil, err
		}

		return &ast.TableArgs{Table: t}, nil

	case token.ParenL:
		p.next()

		if p.accept(token.ParenR) {
			return &ast.NoArgs{}, nil
		}

		exprs, err := p.exprList()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(token.ParenR); err != nil {
			return nil, err
		}

		return &ast.ExprArgs{Exprs: exprs}, nil
	}

	return nil, p.fail("function arguments")
}

func (p *parser) tableConstructor() (*ast.TableConstructor, error) {
	if _, err := p.expect(token.BraceL); err != nil {
		return nil, err
	}

	t := new(ast.TableConstructor)

	for !p.at(token.BraceR) {
		f, err := p.field()
		if err != nil {
			return nil, err
		}

		t.Fields = append(t.Fields, f)

		if !p.accept(token.Comma) && !p.accept(token.Semi) {
			break
		}
	}

	if _, err := p.expect(token.BraceR); err != nil {
		return nil, err
	}

	return t, nil
}

func (p *parser) field() (ast.Field, error) {
	switch {
	case p.at(token.BracketL):
		p.next()

		key, err := p.expr()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(token.BracketR); err != nil {
			return nil, err
		}

		if _, err := p.expect(token.Assign); err != nil {
			return nil, err
		}

		value, err := p.expr()
		if err != nil {
			return nil, err
		}

		return &ast.FieldIndexed{Key: key, Value: value}, nil

	case p.at(token.Name) && p.peekAt(1).Kind == token.Assign:
		name := p.next().Lexeme
		p.next()

		value, err := p.expr()
		if err != nil {
			return nil, err
		}

		return &ast.FieldNamed{Name: name, Value: value}, nil
	}

	value, err := p.expr()
	if err != nil {
		return nil, err
	}

	return &ast.FieldPositional{Value: value}, nil
}
