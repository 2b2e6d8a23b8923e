package lang

import (
	"context"
	"math"
	"strings"

	"github.com/ardnew/pulua/lang/ast"
	"github.com/ardnew/pulua/lang/token"
)

// flow reports how a block finished.
type flow uint8

const (
	flowNormal flow = iota
	flowBreak
	flowReturn
)

// execBlock runs b in a new block scope.
func (s *State) execBlock(ctx context.Context, b *ast.Block) (flow, Value, error) {
	s.enterScope()
	defer s.leaveScope()

	return s.execChunk(ctx, &b.Chunk)
}

// execChunk runs the statements of c in the current scope.
func (s *State) execChunk(ctx context.Context, c *ast.Chunk) (flow, Value, error) {
	for _, stat := range c.Stats {
		fl, v, err := s.execStat(ctx, stat)
		if err != nil || fl != flowNormal {
			return fl, v, err
		}
	}

	if c.Last != nil {
		return s.execLast(ctx, c.Last)
	}

	return flowNormal, Nil(), nil
}

func (s *State) execStat(ctx context.Context, stat ast.Stat) (flow, Value, error) {
	switch st := stat.(type) {
	case *ast.Assign:
		return flowNormal, Nil(), s.execAssign(ctx, st)

	case *ast.FunctionCall:
		_, err := s.evalCall(ctx, st)

		return flowNormal, Nil(), err

	case *ast.Do:
		return s.execBlock(ctx, st.Body)

	case *ast.While:
		return s.execWhile(ctx, st)

	case *ast.Repeat:
		return s.execRepeat(ctx, st)

	case *ast.If:
		return s.execIf(ctx, st)

	case *ast.For:
		return s.execFor(ctx, st)

	case *ast.ForIn:
		return s.execForIn(ctx, st)

	case *ast.FunctionDecl:
		return flowNormal, Nil(), s.execFunctionDecl(st)

	case *ast.LocalFunction:
		fn := newClosure(st.Name, st.Body, false)

		return flowNormal, Nil(), s.declare(st.Name, fn)

	case *ast.LocalDeclVar:
		vals, err := s.evalList(ctx, st.Exprs, len(st.Names))
		if err != nil {
			return flowNormal, Nil(), err
		}

		for i, name := range st.Names {
			if err := s.declare(name, vals[i]); err != nil {
				return flowNormal, Nil(), err
			}
		}

		return flowNormal, Nil(), nil
	}

	return flowNormal, Nil(), ErrNotImplemented.Of("statement " + ast.Kind(stat))
}

func (s *State) execLast(ctx context.Context, last ast.LastStat) (flow, Value, error) {
	switch st := last.(type) {
	case *ast.Return:
		vals, err := s.evalList(ctx, st.Exprs, 1)
		if err != nil {
			return flowNormal, Nil(), atLine(err, st.Line)
		}

		return flowReturn, vals[0], nil

	case *ast.Break:
		if s.current().loops == 0 {
			return flowNormal, Nil(), ErrBreakOutsideLoop.At(st.Line)
		}

		return flowBreak, Nil(), nil
	}

	return flowNormal, Nil(), ErrNotImplemented.Of("statement " + ast.Kind(last))
}

// loop runs body once as an iteration of an enclosing loop. A break ends the
// loop normally.
func (s *State) loop(body func() (flow, Value, error)) (flow, Value, bool, error) {
	fr := s.current()
	fr.loops++
	fl, v, err := body()
	fr.loops--

	switch {
	case err != nil:
		return flowNormal, Nil(), true, err
	case fl == flowBreak:
		return flowNormal, Nil(), true, nil
	case fl == flowReturn:
		return fl, v, true, nil
	}

	return flowNormal, Nil(), false, nil
}

func interrupted(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return ErrInterrupted.Wrap(err)
	}

	return nil
}

func (s *State) execWhile(ctx context.Context, st *ast.While) (flow, Value, error) {
	for {
		if err := interrupted(ctx); err != nil {
			return flowNormal, Nil(), err
		}

		cond, err := s.evalExpr(ctx, st.Cond)
		if err != nil {
			return flowNormal, Nil(), err
		}

		if !cond.Truthy() {
			return flowNormal, Nil(), nil
		}

		fl, v, done, err := s.loop(func() (flow, Value, error) {
			return s.execBlock(ctx, st.Body)
		})
		if done {
			return fl, v, err
		}
	}
}

// execRepeat runs the body until the condition holds. The condition is
// evaluated in the body's scope, so it sees the body's locals.
func (s *State) execRepeat(ctx context.Context, st *ast.Repeat) (flow, Value, error) {
	for {
		if err := interrupted(ctx); err != nil {
			return flowNormal, Nil(), err
		}

		var stop bool

		fl, v, done, err := s.loop(func() (flow, Value, error) {
			s.enterScope()
			defer s.leaveScope()

			fl, v, err := s.execChunk(ctx, &st.Body.Chunk)
			if err != nil || fl != flowNormal {
				return fl, v, err
			}

			cond, err := s.evalExpr(ctx, st.Cond)
			stop = cond.Truthy()

			return flowNormal, Nil(), err
		})
		if done || stop {
			return fl, v, err
		}
	}
}

func (s *State) execIf(ctx context.Context, st *ast.If) (flow, Value, error) {
	cond, err := s.evalExpr(ctx, st.Cond)
	if err != nil {
		return flowNormal, Nil(), err
	}

	if cond.Truthy() {
		return s.execBlock(ctx, st.Then)
	}

	for _, arm := range st.ElseIfs {
		cond, err := s.evalExpr(ctx, arm.Cond)
		if err != nil {
			return flowNormal, Nil(), err
		}

		if cond.Truthy() {
			return s.execBlock(ctx, arm.Body)
		}
	}

	if st.Else != nil {
		return s.execBlock(ctx, st.Else)
	}

	return flowNormal, Nil(), nil
}

func (s *State) forNumber(ctx context.Context, e ast.Expr, what string) (int64, error) {
	v, err := s.evalExpr(ctx, e)
	if err != nil {
		return 0, err
	}

	n, ok := v.AsNumber()
	if !ok {
		return 0, ErrTypeMismatch.Of("'for' " + what + " must be a number")
	}

	return n, nil
}

func (s *State) execFor(ctx context.Context, st *ast.For) (flow, Value, error) {
	init, err := s.forNumber(ctx, st.Init, "initial value")
	if err != nil {
		return flowNormal, Nil(), err
	}

	limit, err := s.forNumber(ctx, st.Limit, "limit")
	if err != nil {
		return flowNormal, Nil(), err
	}

	step := int64(1)

	if st.Step != nil {
		if step, err = s.forNumber(ctx, st.Step, "step"); err != nil {
			return flowNormal, Nil(), err
		}
	}

	if step == 0 {
		return flowNormal, Nil(), ErrZeroStep
	}

	for i := init; (step > 0 && i <= limit) || (step < 0 && i >= limit); i += step {
		if err := interrupted(ctx); err != nil {
			return flowNormal, Nil(), err
		}

		fl, v, done, err := s.loop(func() (flow, Value, error) {
			s.enterScope()
			defer s.leaveScope()

			if err := s.declare(st.Name, Number(i)); err != nil {
				return flowNormal, Nil(), err
			}

			return s.execBlock(ctx, st.Body)
		})
		if done {
			return fl, v, err
		}

		// Stop before the control variable would wrap around.
		if (step > 0 && i > math.MaxInt64-step) || (step < 0 && i < math.MinInt64-step) {
			break
		}
	}

	return flowNormal, Nil(), nil
}

// execForIn iterates over a table, yielding key and value, or calls an
// iterator function with the state and control values until it returns nil.
func (s *State) execForIn(ctx context.Context, st *ast.ForIn) (flow, Value, error) {
	vals, err := s.evalList(ctx, st.Exprs, 3)
	if err != nil {
		return flowNormal, Nil(), err
	}

	var next func() (Value, Value, error)

	switch src := vals[0]; src.Type() {
	case TypeTable:
		t, key := src.t, Nil()
		next = func() (Value, Value, error) {
			k, v, err := t.Next(key)
			key = k

			return k, v, err
		}

	case TypeFunction:
		control := vals[2]
		next = func() (Value, Value, error) {
			v, err := s.Call1(ctx, src, vals[1], control)
			control = v

			return v, Nil(), err
		}

	default:
		return flowNormal, Nil(), ErrTypeMismatch.Of("attempt to iterate over a " + src.Type().String() + " value")
	}

	for {
		if err := interrupted(ctx); err != nil {
			return flowNormal, Nil(), err
		}

		k, v, err := next()
		if err != nil {
			return flowNormal, Nil(), err
		}

		if k.IsNil() {
			return flowNormal, Nil(), nil
		}

		fl, rv, done, err := s.loop(func() (flow, Value, error) {
			s.enterScope()
			defer s.leaveScope()

			for i, name := range st.Names {
				bind := Nil()

				switch i {
				case 0:
					bind = k
				case 1:
					bind = v
				}

				if err := s.declare(name, bind); err != nil {
					return flowNormal, Nil(), err
				}
			}

			return s.execBlock(ctx, st.Body)
		})
		if done {
			return fl, rv, err
		}
	}
}

// newClosure builds a function value from a parsed body. Method bodies take
// an implicit first parameter named self.
func newClosure(name string, body *ast.FuncBody, method bool) Value {
	params := body.Params.Names
	if method {
		params = append([]string{"self"}, params...)
	}

	return FunctionValue(NewProto(&Proto{
		Name:   name,
		Params: params,
		Vararg: body.Params.Vararg,
		Body:   body.Body,
		Line:   body.Line,
	}))
}

// execFunctionDecl binds "function a.b.c:m() ... end". A plain name is
// assigned like a variable; a dotted name is stored into the table reached
// through the leading names.
func (s *State) execFunctionDecl(st *ast.FunctionDecl) error {
	names := st.Name.Names
	fn := newClosure(st.Name.String(), st.Body, st.Name.Method != "")

	if len(names) == 1 && st.Name.Method == "" {
		s.assign(names[0], fn)

		return nil
	}

	key, path := st.Name.Method, names
	if key == "" {
		key, path = names[len(names)-1], names[:len(names)-1]
	}

	holder, err := s.lookupPath(path)
	if err != nil {
		return atLine(err, st.Body.Line)
	}

	t, ok := holder.AsTable()
	if !ok {
		return ErrIndexNonTable.Of(joinNames(path)).At(st.Body.Line)
	}

	return atLine(t.SetString(key, fn), st.Body.Line)
}

// lookupPath resolves a dotted name "a.b.c" through nested tables.
func (s *State) lookupPath(names []string) (Value, error) {
	v, err := s.lookup(names[0])
	if err != nil {
		return Nil(), err
	}

	for i, name := range names[1:] {
		t, ok := v.AsTable()
		if !ok {
			return Nil(), ErrIndexNonTable.Of(joinNames(names[:i+1]))
		}

		v = t.GetString(name)
	}

	return v, nil
}

func joinNames(names []string) string { return strings.Join(names, ".") }

// target is the resolved destination of an assignment.
type target struct {
	table *Table
	key   Value
	name  string
}

func (s *State) execAssign(ctx context.Context, st *ast.Assign) error {
	targets := make([]target, len(st.Vars))

	for i, v := range st.Vars {
		switch v := v.(type) {
		case *ast.VarName:
			targets[i] = target{name: v.Name.Lexeme}

		case *ast.VarIdx:
			t, err := s.evalTable(ctx, v.Prefix)
			if err != nil {
				return err
			}

			key, err := s.evalExpr(ctx, v.Index)
			if err != nil {
				return err
			}

			targets[i] = target{table: t, key: key}

		case *ast.VarMember:
			t, err := s.evalTable(ctx, v.Prefix)
			if err != nil {
				return err
			}

			targets[i] = target{table: t, key: String(v.Name)}
		}
	}

	vals, err := s.evalList(ctx, st.Exprs, len(targets))
	if err != nil {
		return err
	}

	for i, tg := range targets {
		if tg.table == nil {
			s.assign(tg.name, vals[i])

			continue
		}

		if err := tg.table.Set(tg.key, vals[i]); err != nil {
			return err
		}
	}

	return nil
}

// evalList evaluates exprs left to right and returns at least n values,
// padding with nil.
func (s *State) evalList(ctx context.Context, exprs []ast.Expr, n int) ([]Value, error) {
	vals := make([]Value, max(n, len(exprs)))

	for i, e := range exprs {
		v, err := s.evalExpr(ctx, e)
		if err != nil {
			return nil, err
		}

		vals[i] = v
	}

	return vals, nil
}

func (s *State) evalExpr(ctx context.Context, e ast.Expr) (Value, error) {
	switch e := e.(type) {
	case *ast.Nil:
		return Nil(), nil

	case *ast.False:
		return Bool(false), nil

	case *ast.True:
		return Bool(true), nil

	case *ast.Number:
		if e.Exact {
			return Number(e.Int), nil
		}

		return numberOfFloat(e.Value)

	case *ast.String:
		return String(e.Value), nil

	case *ast.Dots:
		return Nil(), ErrNotImplemented.Of("...")

	case *ast.FunctionExpr:
		return newClosure("anonymous", e.Body, false), nil

	case *ast.TableConstructor:
		return s.evalTableConstructor(ctx, e)

	case *ast.Binop:
		lhs, err := s.evalExpr(ctx, e.Lhs)
		if err != nil {
			return Nil(), err
		}

		rhs, err := s.evalExpr(ctx, e.Rhs)
		if err != nil {
			return Nil(), err
		}

		v, err := binop(e.Op, lhs, rhs)

		return v, atLine(err, e.Line)

	case *ast.Unop:
		operand, err := s.evalExpr(ctx, e.Operand)
		if err != nil {
			return Nil(), err
		}

		v, err := unop(e.Op, operand)

		return v, atLine(err, e.Line)

	case *ast.PrefixVar:
		return s.evalVar(ctx, e.Var)

	case *ast.PrefixCall:
		return s.evalCall(ctx, e.Call)

	case *ast.PrefixParen:
		return s.evalExpr(ctx, e.Expr)
	}

	return Nil(), ErrNotImplemented.Of("expression " + ast.Kind(e))
}

func (s *State) evalVar(ctx context.Context, v ast.Var) (Value, error) {
	switch v := v.(type) {
	case *ast.VarName:
		val, err := s.lookup(v.Name.Lexeme)

		return val, atLine(err, v.Name.Line)

	case *ast.VarIdx:
		t, err := s.evalTable(ctx, v.Prefix)
		if err != nil {
			return Nil(), err
		}

		key, err := s.evalExpr(ctx, v.Index)
		if err != nil {
			return Nil(), err
		}

		return t.Get(key), nil

	case *ast.VarMember:
		t, err := s.evalTable(ctx, v.Prefix)
		if err != nil {
			return Nil(), err
		}

		return t.GetString(v.Name), nil
	}

	return Nil(), ErrNotImplemented.Of("variable " + ast.Kind(v))
}

// evalTable evaluates a prefix expression that is being indexed.
func (s *State) evalTable(ctx context.Context, p ast.PrefixExp) (*Table, error) {
	v, err := s.evalExpr(ctx, p)
	if err != nil {
		return nil, err
	}

	t, ok := v.AsTable()
	if !ok {
		return nil, ErrIndexNonTable.Of(describePrefix(p) + " is " + v.Type().String())
	}

	return t, nil
}

func (s *State) evalTableConstructor(ctx context.Context, tc *ast.TableConstructor) (Value, error) {
	t := NewTable()
	pos := int64(0)

	for _, f := range tc.Fields {
		var (
			key, val Value
			err      error
		)

		switch f := f.(type) {
		case *ast.FieldIndexed:
			if key, err = s.evalExpr(ctx, f.Key); err != nil {
				return Nil(), err
			}

			val, err = s.evalExpr(ctx, f.Value)

		case *ast.FieldNamed:
			key = String(f.Name)
			val, err = s.evalExpr(ctx, f.Value)

		case *ast.FieldPositional:
			pos++
			key = Number(pos)
			val, err = s.evalExpr(ctx, f.Value)
		}

		if err != nil {
			return Nil(), err
		}

		if err := t.Set(key, val); err != nil {
			return Nil(), err
		}
	}

	return TableValue(t), nil
}

// evalCall evaluates a call expression and returns its first result.
func (s *State) evalCall(ctx context.Context, c *ast.FunctionCall) (Value, error) {
	name := describePrefix(c.Callee)

	var (
		fn   Value
		args []Value
		err  error
	)

	switch {
	case c.Method != "":
		var recv Value

		if recv, err = s.evalExpr(ctx, c.Callee); err != nil {
			return Nil(), err
		}

		t, ok := recv.AsTable()
		if !ok {
			return Nil(), ErrIndexNonTable.Of(name + " is " + recv.Type().String()).At(c.Line)
		}

		name += ":" + c.Method
		fn = t.GetString(c.Method)
		args = append(args, recv)

	default:
		if fn, err = s.evalExpr(ctx, c.Callee); err != nil {
			if pv, ok := c.Callee.(*ast.PrefixVar); ok {
				if _, ok := pv.Var.(*ast.VarName); ok && isNotFound(err) {
					return Nil(), ErrFunctionNotFound.Of(name).At(c.Line)
				}
			}

			return Nil(), err
		}
	}

	switch fn.Type() {
	case TypeFunction:
	case TypeNil:
		return Nil(), ErrFunctionNotFound.Of(name).At(c.Line)
	default:
		return Nil(), ErrNotFunction.Of(name).At(c.Line)
	}

	switch a := c.Args.(type) {
	case *ast.ExprArgs:
		for _, e := range a.Exprs {
			v, err := s.evalExpr(ctx, e)
			if err != nil {
				return Nil(), err
			}

			args = append(args, v)
		}

	case *ast.TableArgs:
		v, err := s.evalTableConstructor(ctx, a.Table)
		if err != nil {
			return Nil(), err
		}

		args = append(args, v)

	case *ast.StringArgs:
		args = append(args, String(a.Value))
	}

	v, err := s.Call1(ctx, fn, args...)

	return v, atLine(err, c.Line)
}

func isNotFound(err error) bool {
	e, ok := err.(*Error)

	return ok && e.Is(ErrVariableNotFound)
}

// describePrefix renders a prefix expression for error messages, e.g.
// "t.field" or "f".
func describePrefix(p ast.Expr) string {
	switch p := p.(type) {
	case *ast.PrefixVar:
		switch v := p.Var.(type) {
		case *ast.VarName:
			return v.Name.Lexeme
		case *ast.VarMember:
			return describePrefix(v.Prefix) + "." + v.Name
		case *ast.VarIdx:
			return describePrefix(v.Prefix) + "[" + describeKey(v.Index) + "]"
		}
	case *ast.PrefixCall:
		return describePrefix(p.Call.Callee) + "()"
	case *ast.PrefixParen:
		return "(" + describePrefix(p.Expr) + ")"
	}

	return "?"
}

func describeKey(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.String:
		return ast.Quote(e.Value)
	case *ast.Number:
		if e.Exact {
			return Number(e.Int).String()
		}

		if v, err := numberOfFloat(e.Value); err == nil {
			return v.String()
		}
	case *ast.Unop:
		if e.Op == token.Minus {
			return "-" + describeKey(e.Operand)
		}
	}

	return describePrefix(e)
}
