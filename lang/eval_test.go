package lang

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/pulua/lang/parser"
)

// newTestState returns a State with a print function writing to out.
func newTestState(out *bytes.Buffer, opts ...Option) *State {
	s := NewState(append([]Option{WithOutput(out)}, opts...)...)
	s.Register("print", func(_ context.Context, s *State) (int, error) {
		parts := make([]string, s.ArgCount())
		for i := range parts {
			parts[i] = s.ArgValue(i + 1).String()
		}

		out.WriteString(strings.Join(parts, "\t") + "\n")

		return 0, nil
	})

	return s
}

func TestEval_GlobalAssignment(t *testing.T) {
	s := NewState()

	if _, err := s.DoString(t.Context(), "foo = 1"); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}

	got, ok := s.Global("foo")
	if !ok || got != Number(1) {
		t.Errorf("foo = %v (bound %v), want 1", got, ok)
	}
}

func TestEval_Precedence(t *testing.T) {
	const src = "local a = 0 + 1 * 2 + 3 - 4 / 5\nreturn a"

	tests := []struct {
		name string
		prec parser.Precedence
		want int64
	}{
		{"standard", parser.Standard, 5},
		{"flat", parser.Flat, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState(WithPrecedence(tt.prec))

			v, err := s.DoString(t.Context(), src)
			if err != nil {
				t.Fatalf("DoString() error = %v", err)
			}

			if v != Number(tt.want) {
				t.Errorf("a = %v, want %d", v, tt.want)
			}
		})
	}
}

func TestEval_Expressions(t *testing.T) {
	tests := []struct {
		src  string
		want Value
	}{
		{"return 7 // 2", Number(3)},
		{"return -7 // 2", Number(-4)},
		{"return -7 / 2", Number(-3)},
		{"return -7 % 3", Number(2)},
		{"return 7 % -3", Number(-2)},
		{"return 2 ^ 10", Number(1024)},
		{"return 2 ^ 3 ^ 2", Number(512)},
		{"return 3.9 + 0", Number(3)},
		{"return 6 & 3", Number(2)},
		{"return 6 | 3", Number(7)},
		{"return 6 ~ 3", Number(5)},
		{"return ~0", Number(-1)},
		{"return 1 << 4", Number(16)},
		{"return -1 >> 63", Number(1)},
		{"return 1 << 64", Number(0)},
		{"return -(2 + 3)", Number(-5)},
		{`return "a" .. "b" .. 1`, String("ab1")},
		{`return #"hello"`, Number(5)},
		{"return #{1, 2, 3}", Number(3)},
		{"return 1 < 2", Bool(true)},
		{`return "a" < "b"`, Bool(true)},
		{"return 2 >= 3", Bool(false)},
		{"return 1 == 1", Bool(true)},
		{`return "x" ~= "x"`, Bool(false)},
		{"return nil == false", Bool(false)},
		{"return nil == nil", Bool(true)},
		{"return true and false", Bool(false)},
		{"return false or true", Bool(true)},
		{"return not nil", Bool(true)},
		{"return not 0", Bool(false)},
		{"return (1)", Number(1)},
		{"return 9223372036854775807", Number(9223372036854775807)},
		{"return -9223372036854775807 - 1", Number(-9223372036854775808)},
		{"return 9007199254740993", Number(9007199254740993)},
		{"return", Nil()},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			v, err := NewState().DoString(t.Context(), tt.src)
			if err != nil {
				t.Fatalf("DoString() error = %v", err)
			}

			if v != tt.want {
				t.Errorf("got %#v, want %#v", v, tt.want)
			}
		})
	}
}

func TestEval_RuntimeErrors(t *testing.T) {
	tests := []struct {
		src  string
		want error
		msg  string
		line int
	}{
		{"doesNotExist()", ErrFunctionNotFound, "function not found: doesNotExist", 1},
		{"x = 1\nx()", ErrNotFunction, "not a function: x", 2},
		{"return y", ErrVariableNotFound, "variable not found: y", 1},
		{"return 1 / 0", ErrDivideByZero, "divide by zero", 1},
		{"return 1 % 0", ErrDivideByZero, "divide by zero", 1},
		{"return 2 ^ -1", ErrNegativeExponent, "negative exponent", 1},
		{`return 1 + "a"`, ErrTypeMismatch, "", 1},
		{`return 1 == "1"`, ErrTypeMismatch, "", 1},
		{"return 1 and true", ErrTypeMismatch, "", 1},
		{"return -{}", ErrTypeMismatch, "", 1},
		{"return ...", ErrNotImplemented, "not implemented: ...", 0},
		{"break", ErrBreakOutsideLoop, "", 1},
		{"for i = 1, 2, 0 do end", ErrZeroStep, "", 0},
		{"local t = 1\nreturn t.x", ErrIndexNonTable, "", 0},
		{"t = {}\nt.a.b = 1", ErrIndexNonTable, "", 0},
		{"for k in 1 do end", ErrTypeMismatch, "", 0},
		{"t = {}\nt[nil] = 1", ErrTableIndexNil, "", 0},
		{"t = {}\nt.m()", ErrFunctionNotFound, "function not found: t.m", 2},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := NewState().DoString(t.Context(), tt.src)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}

			if Classify(err) != KindRuntime {
				t.Errorf("Classify() = %v, want runtime", Classify(err))
			}

			var re *Error
			if !errors.As(err, &re) {
				t.Fatalf("error %T is not *Error", err)
			}

			if tt.msg != "" && re.Error() != tt.msg {
				t.Errorf("message = %q, want %q", re.Error(), tt.msg)
			}

			if tt.line > 0 && re.Line() != tt.line {
				t.Errorf("line = %d, want %d", re.Line(), tt.line)
			}
		})
	}
}

func TestEval_Statements(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "while",
			src:  "local i = 0\nwhile i < 3 do i = i + 1 print(i) end",
			want: "1\n2\n3\n",
		},
		{
			name: "while break",
			src:  "local i = 0\nwhile true do i = i + 1 if i == 2 then break end end print(i)",
			want: "2\n",
		},
		{
			name: "repeat sees body locals",
			src:  "local n = 0\nrepeat local done = n >= 2 n = n + 1 until done\nprint(n)",
			want: "3\n",
		},
		{
			name: "if chain",
			src: `for i = 1, 4 do
				if i == 1 then print("one")
				elseif i == 2 then print("two")
				elseif i == 3 then print("three")
				else print("many") end
			end`,
			want: "one\ntwo\nthree\nmany\n",
		},
		{
			name: "numeric for step",
			src:  "for i = 10, 1, -4 do print(i) end",
			want: "10\n6\n2\n",
		},
		{
			name: "numeric for empty",
			src:  "for i = 2, 1 do print(i) end print(\"done\")",
			want: "done\n",
		},
		{
			name: "for in table",
			src:  "t = {10, 20, x = 30}\nfor k, v in t do print(k, v) end",
			want: "1\t10\n2\t20\nx\t30\n",
		},
		{
			name: "for in function",
			src: `function count(limit, n)
				if n < limit then return n + 1 end
				return nil
			end
			for n in count, 3, 0 do print(n) end`,
			want: "1\n2\n3\n",
		},
		{
			name: "do scope",
			src:  "x = 1\ndo local x = 2 print(x) end\nprint(x)",
			want: "2\n1\n",
		},
		{
			name: "assignment updates visible local",
			src:  "local x = 1\ndo x = 5 end\nprint(x)",
			want: "5\n",
		},
		{
			name: "multiple assignment",
			src:  "local a, b, c = 0, 0, 0\na, b, c = 1, 2\nprint(a, b, c == nil)",
			want: "1\t2\ttrue\n",
		},
		{
			name: "function declaration",
			src:  "function add(a, b) return a + b end\nprint(add(2, 3))",
			want: "5\n",
		},
		{
			name: "missing arguments are nil",
			src:  "function f(a, b) return b == nil end\nprint(f(1))",
			want: "true\n",
		},
		{
			name: "recursion",
			src:  "function fact(n) if n <= 1 then return 1 end return n * fact(n - 1) end\nprint(fact(10))",
			want: "3628800\n",
		},
		{
			name: "only first return value",
			src:  "function f() return 1, 2 end\nprint(f())",
			want: "1\n",
		},
		{
			name: "local function",
			src:  "local function sq(x) return x * x end\nprint(sq(9))",
			want: "81\n",
		},
		{
			name: "anonymous function",
			src:  "local f = function(s) return s .. \"!\" end\nprint(f(\"hi\"))",
			want: "hi!\n",
		},
		{
			name: "tables and methods",
			src: `obj = {n = 1}
			function obj.get(self) return self.n end
			function obj:inc(by) self.n = self.n + by end
			obj:inc(4)
			print(obj.get(obj), obj["n"])`,
			want: "5\t5\n",
		},
		{
			name: "nested table fields",
			src:  "a = {b = {}}\nfunction a.b.c() return 7 end\nprint(a.b.c())",
			want: "7\n",
		},
		{
			name: "table constructor forms",
			src:  "t = {[1 + 1] = \"two\", \"one\"; k = \"v\",}\nprint(t[1], t[2], t.k, #t)",
			want: "one\ttwo\tv\t2\n",
		},
		{
			name: "string and table call args",
			src:  "function id(x) return x end\nprint(id \"s\", id{1}[1])",
			want: "s\t1\n",
		},
		{
			name: "return from loop",
			src:  "function find() for i = 1, 10 do if i == 3 then return i end end end\nprint(find())",
			want: "3\n",
		},
		{
			name: "function identity",
			src:  "function f() end\ng = f\nprint(f == g, f ~= print)",
			want: "true\ttrue\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			s := newTestState(&out)

			if _, err := s.DoString(t.Context(), tt.src); err != nil {
				t.Fatalf("DoString() error = %v", err)
			}

			if got := out.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}

			if s.Top() != 0 {
				t.Errorf("registry top = %d after chunk, want 0", s.Top())
			}
		})
	}
}

func TestEval_LocalFunctionCannotRecurse(t *testing.T) {
	src := "local function f(n) if n == 0 then return 0 end return f(n - 1) end\nreturn f(1)"

	_, err := NewState().DoString(t.Context(), src)
	if !errors.Is(err, ErrFunctionNotFound) {
		t.Errorf("error = %v, want %v", err, ErrFunctionNotFound)
	}
}

func TestEval_CallDepth(t *testing.T) {
	s := NewState(WithMaxDepth(16))

	_, err := s.DoString(t.Context(), "function f() return f() end\nf()")
	if !errors.Is(err, ErrCallDepth) {
		t.Fatalf("error = %v, want %v", err, ErrCallDepth)
	}

	if s.Top() != 0 || s.Depth() != 0 {
		t.Errorf("state not unwound: top %d depth %d", s.Top(), s.Depth())
	}
}

func TestEval_RegistryOverflow(t *testing.T) {
	s := NewState(WithRegistrySize(4))

	_, err := s.DoString(t.Context(), "local a, b, c, d, e = 1, 2, 3, 4, 5")
	if !errors.Is(err, ErrRegistryOverflow) {
		t.Errorf("error = %v, want %v", err, ErrRegistryOverflow)
	}
}

func TestEval_Interrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())

	s := NewState()
	s.Register("stop", func(context.Context, *State) (int, error) {
		cancel()

		return 0, nil
	})

	_, err := s.DoString(ctx, "while true do stop() end")
	if !errors.Is(err, ErrInterrupted) {
		t.Errorf("error = %v, want %v", err, ErrInterrupted)
	}

	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want it to wrap %v", err, context.Canceled)
	}
}

func TestEval_TableUpdateReentrancy(t *testing.T) {
	s := NewState()
	s.Register("update", func(ctx context.Context, s *State) (int, error) {
		tbl, err := s.ArgTable(1)
		if err != nil {
			return 0, err
		}

		fn, err := s.ArgFunction(3)
		if err != nil {
			return 0, err
		}

		return 0, tbl.Update(s.ArgValue(2), func(old Value) (Value, error) {
			return s.Call1(ctx, fn, old)
		})
	})

	v, err := s.DoString(t.Context(), `t = {n = 1}
		update(t, "n", function(x) return x + 1 end)
		return t.n`)
	if err != nil || v != Number(2) {
		t.Fatalf("update = %v, %v", v, err)
	}

	_, err = s.DoString(t.Context(), `update(t, "n", function(x) t.n = 0 return x end)`)
	if !errors.Is(err, ErrBorrowConflict) {
		t.Errorf("error = %v, want %v", err, ErrBorrowConflict)
	}
}

func BenchmarkEval_Fib(b *testing.B) {
	s := NewState()

	block, err := s.Load(b.Context(), "fib", `
		function fib(n) if n < 3 then return 1 end return fib(n - 1) + fib(n - 2) end
		return fib(15)`)
	if err != nil {
		b.Fatal(err)
	}

	for b.Loop() {
		if _, err := s.Exec(b.Context(), block); err != nil {
			b.Fatal(err)
		}
	}
}
