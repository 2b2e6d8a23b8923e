// Package ast declares the syntax tree produced by the parser.
//
// Every variant set of the grammar is a sealed interface: [Stat], [LastStat],
// [Expr], [PrefixExp], [Var], [Args] and [Field]. The tree is strictly owned
// top-down; no node is shared between parents and there are no back edges.
package ast

import "github.com/ardnew/pulua/lang/token"

// Node is implemented by every syntax tree node.
type Node interface{ node() }

// Stat is a statement.
type Stat interface {
	Node
	stat()
}

// LastStat is a statement that may only terminate a chunk.
type LastStat interface {
	Node
	lastStat()
}

// Expr is an expression.
type Expr interface {
	Node
	expr()
}

// PrefixExp is an expression that may be extended by indexing, member access
// or a call: a variable, a call or a parenthesized expression.
type PrefixExp interface {
	Expr
	prefixExp()
}

// Var is an assignable location.
type Var interface {
	Node
	variable()
}

// Args is the argument part of a call.
type Args interface {
	Node
	args()
}

// Field is a table constructor entry.
type Field interface {
	Node
	field()
}

// Chunk is a sequence of statements with an optional terminating
// return or break.
type Chunk struct {
	Last  LastStat
	Stats []Stat
}

// Block is a chunk used as the body of a compound statement or function.
type Block struct {
	Chunk
}

// Statements.
type (
	// Assign is "varlist = exprlist".
	Assign struct {
		Vars  []Var
		Exprs []Expr
	}

	// FunctionCall is "callee args" or "callee:method args". It is both a
	// statement and, wrapped in [PrefixCall], an expression.
	FunctionCall struct {
		Callee PrefixExp
		Args   Args
		Method string
		Line   int
	}

	// Do is "do block end".
	Do struct {
		Body *Block
	}

	// While is "while cond do block end".
	While struct {
		Cond Expr
		Body *Block
	}

	// Repeat is "repeat block until cond".
	Repeat struct {
		Body *Block
		Cond Expr
	}

	// If is "if cond then block {elseif cond then block} [else block] end".
	If struct {
		Cond    Expr
		Then    *Block
		Else    *Block
		ElseIfs []ElseIf
	}

	// For is the numeric "for name = init, limit [, step] do block end".
	For struct {
		Init  Expr
		Limit Expr
		Step  Expr
		Body  *Block
		Name  string
	}

	// ForIn is the generic "for namelist in exprlist do block end".
	ForIn struct {
		Body  *Block
		Names []string
		Exprs []Expr
	}

	// FunctionDecl is "function funcname funcbody".
	FunctionDecl struct {
		Body *FuncBody
		Name FuncName
	}

	// LocalFunction is "local function name funcbody".
	LocalFunction struct {
		Body *FuncBody
		Name string
	}

	// LocalDeclVar is "local namelist [= exprlist]".
	LocalDeclVar struct {
		Names []string
		Exprs []Expr
	}
)

// ElseIf is one "elseif cond then block" arm of an [If].
type ElseIf struct {
	Cond Expr
	Body *Block
}

// Last statements.
type (
	// Return is "return [exprlist]".
	Return struct {
		Exprs []Expr
		Line  int
	}

	// Break is "break".
	Break struct {
		Line int
	}
)

// Expressions.
type (
	// Nil is the literal nil.
	Nil struct{}

	// False is the literal false.
	False struct{}

	// True is the literal true.
	True struct{}

	// Number is a numeric literal. Integral literals that fit in 64 bits
	// also carry their exact value in Int, with Exact set.
	Number struct {
		Value float64
		Int   int64
		Exact bool
	}

	// String is a string literal with escapes already processed.
	String struct {
		Value string
	}

	// Dots is the vararg expression "...".
	Dots struct{}

	// FunctionExpr is an anonymous "function funcbody".
	FunctionExpr struct {
		Body *FuncBody
	}

	// TableConstructor is "{ fieldlist }".
	TableConstructor struct {
		Fields []Field
	}

	// Binop is "lhs op rhs".
	Binop struct {
		Lhs  Expr
		Rhs  Expr
		Op   token.Kind
		Line int
	}

	// Unop is "op operand".
	Unop struct {
		Operand Expr
		Op      token.Kind
		Line    int
	}
)

// Prefix expressions.
type (
	// PrefixVar is a variable used as an expression.
	PrefixVar struct {
		Var Var
	}

	// PrefixCall is a function call used as an expression.
	PrefixCall struct {
		Call *FunctionCall
	}

	// PrefixParen is "( expr )". Parentheses are kept so that the tree
	// mirrors the source and formats back to it.
	PrefixParen struct {
		Expr Expr
	}
)

// Variables.
type (
	// VarName is a bare name.
	VarName struct {
		Name token.Token
	}

	// VarIdx is "prefixexp [ index ]".
	VarIdx struct {
		Prefix PrefixExp
		Index  Expr
	}

	// VarMember is "prefixexp . name".
	VarMember struct {
		Prefix PrefixExp
		Name   string
	}
)

// Call arguments.
type (
	// NoArgs is "()".
	NoArgs struct{}

	// ExprArgs is "( exprlist )" with at least one expression.
	ExprArgs struct {
		Exprs []Expr
	}

	// TableArgs is a table constructor passed as the sole argument.
	TableArgs struct {
		Table *TableConstructor
	}

	// StringArgs is a string literal passed as the sole argument.
	StringArgs struct {
		Value string
	}
)

// Table constructor fields.
type (
	// FieldIndexed is "[ key ] = value".
	FieldIndexed struct {
		Key   Expr
		Value Expr
	}

	// FieldNamed is "name = value".
	FieldNamed struct {
		Value Expr
		Name  string
	}

	// FieldPositional is a bare "value" assigned the next array index.
	FieldPositional struct {
		Value Expr
	}
)

// FuncName is "Name {'.' Name} [':' Name]".
type FuncName struct {
	Method string
	Names  []string
}

// String returns the dotted source spelling of the name.
func (f FuncName) String() string {
	s := ""

	for i, n := range f.Names {
		if i > 0 {
			s += "."
		}

		s += n
	}

	if f.Method != "" {
		s += ":" + f.Method
	}

	return s
}

// FuncBody is "( parlist ) block end".
type FuncBody struct {
	Body   *Block
	Params ParamList
	Line   int
}

// ParamList is the parameter names of a function, optionally followed by
// "...".
type ParamList struct {
	Names  []string
	Vararg bool
}

// Integer returns the literal for the integer n.
func Integer(n int64) *Number {
	return &Number{Value: float64(n), Int: n, Exact: true}
}

func (*Chunk) node()            {}
func (*Assign) node()           {}
func (*FunctionCall) node()     {}
func (*Do) node()               {}
func (*While) node()            {}
func (*Repeat) node()           {}
func (*If) node()               {}
func (*For) node()              {}
func (*ForIn) node()            {}
func (*FunctionDecl) node()     {}
func (*LocalFunction) node()    {}
func (*LocalDeclVar) node()     {}
func (*Return) node()           {}
func (*Break) node()            {}
func (*Nil) node()              {}
func (*False) node()            {}
func (*True) node()             {}
func (*Number) node()           {}
func (*String) node()           {}
func (*Dots) node()             {}
func (*FunctionExpr) node()     {}
func (*TableConstructor) node() {}
func (*Binop) node()            {}
func (*Unop) node()             {}
func (*PrefixVar) node()        {}
func (*PrefixCall) node()       {}
func (*PrefixParen) node()      {}
func (*VarName) node()          {}
func (*VarIdx) node()           {}
func (*VarMember) node()        {}
func (*NoArgs) node()           {}
func (*ExprArgs) node()         {}
func (*TableArgs) node()        {}
func (*StringArgs) node()       {}
func (*FieldIndexed) node()     {}
func (*FieldNamed) node()       {}
func (*FieldPositional) node()  {}
func (*FuncBody) node()         {}
func (*ElseIf) node()           {}

func (*Assign) stat()        {}
func (*FunctionCall) stat()  {}
func (*Do) stat()            {}
func (*While) stat()         {}
func (*Repeat) stat()        {}
func (*If) stat()            {}
func (*For) stat()           {}
func (*ForIn) stat()         {}
func (*FunctionDecl) stat()  {}
func (*LocalFunction) stat() {}
func (*LocalDeclVar) stat()  {}

func (*Return) lastStat() {}
func (*Break) lastStat()  {}

func (*Nil) expr()              {}
func (*False) expr()            {}
func (*True) expr()             {}
func (*Number) expr()           {}
func (*String) expr()           {}
func (*Dots) expr()             {}
func (*FunctionExpr) expr()     {}
func (*TableConstructor) expr() {}
func (*Binop) expr()            {}
func (*Unop) expr()             {}
func (*PrefixVar) expr()        {}
func (*PrefixCall) expr()       {}
func (*PrefixParen) expr()      {}

func (*PrefixVar) prefixExp()   {}
func (*PrefixCall) prefixExp()  {}
func (*PrefixParen) prefixExp() {}

func (*VarName) variable()   {}
func (*VarIdx) variable()    {}
func (*VarMember) variable() {}

func (*NoArgs) args()     {}
func (*ExprArgs) args()   {}
func (*TableArgs) args()  {}
func (*StringArgs) args() {}

func (*FieldIndexed) field()    {}
func (*FieldNamed) field()      {}
func (*FieldPositional) field() {}
