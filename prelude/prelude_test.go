package prelude

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/ardnew/pulua/lang"
)

func newState(out *bytes.Buffer, opts ...lang.Option) *lang.State {
	s := lang.NewState(append([]lang.Option{lang.WithOutput(out)}, opts...)...)
	Open(s)

	return s
}

func TestPrelude_Scripts(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"print", `print("a", 1, true, nil)`, "a\t1\ttrue\tnil\n"},
		{"print empty", `print()`, "\n"},
		{"type", `print(type(1), type("s"), type({}), type(print), type(nil), type(false))`,
			"number\tstring\ttable\tfunction\tnil\tboolean\n"},
		{"tonumber out of range", `print(tonumber("-9223372036854775809"), tonumber("9223372036854775808"), tonumber("1e400"))`,
			"nil\tnil\tnil\n"},
		{"tonumber extremes", `print(tonumber("9223372036854775807"), tonumber("-9223372036854775808"))`,
			"9223372036854775807\t-9223372036854775808\n"},
		{"tostring", `print(tostring(12) .. "!")`, "12!\n"},
		{"tonumber", `print(tonumber("42"), tonumber(" 7 "), tonumber("2.9"), tonumber("x"), tonumber(5))`,
			"42\t7\t2\tnil\t5\n"},
		{"assert passes value", `print(assert(3))`, "3\n"},
		{"pairs", `for k, v in pairs({x = 1}) do print(k, v) end`, "x\t1\n"},
		{"ipairs", `for i, v in ipairs({"a", "b", k = "c"}) do print(i, v) end`, "1\ta\n2\tb\n"},
		{"ipairs stops at hole", `t = {10, 20, 30}; t[2] = nil; for i, v in ipairs(t) do print(i, v) end`,
			"1\t10\n"},
		{"next", `t = {"a"}; print(next(t), next(t, 1) == nil)`, "1\ttrue\n"},
		{"globals", `globalset("foo", 12); print(globalget("foo"), foo)`, "12\t12\n"},
		{"fib", `print(fib(1), fib(2), fib(8))`, "1\t1\t21\n"},
		{"demo array", "setarray()\nupdatearray()\nprintarray()",
			"elm: 1\nelm: 2\nelm: 3\nelm: 4\nelm: 5\nelm: 6\n"},
		{"table.insert", `t = {1, 3}; table.insert(t, 2, 2); table.insert(t, 4); print(table.concat(t, ","))`,
			"1,2,3,4\n"},
		{"table.remove", `t = {1, 2, 3}; print(table.remove(t), table.remove(t, 1), table.len(t), t[1])`,
			"3\t1\t1\t2\n"},
		{"table.concat", `print(table.concat({"a", 1, "b"}))`, "a1b\n"},
		{"table.update", `t = {n = 1}; print(table.update(t, "n", function(x) return x * 10 end), t.n)`,
			"10\t10\n"},
		{"path.cat", `print(path.cat("a", "b"))`, filepath.Join("a", "b") + "\n"},
		{"file.exists", `print(file.exists("."), file.isdir("."), file.isregular("."))`, "true\ttrue\tfalse\n"},
		{"os.platform", `print(os.platform().os)`, runtime.GOOS + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			if _, err := newState(&out).DoString(t.Context(), tt.src); err != nil {
				t.Fatalf("DoString() error = %v", lang.Describe(err))
			}

			if got := out.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrelude_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
		msg  string
	}{
		{"assert", `assert(false, "boom")`, lang.ErrAssertion, "assertion failed: boom"},
		{"assert nil", `assert(nil)`, lang.ErrAssertion, "assertion failed"},
		{"error", `error("bad thing")`, lang.ErrUser, "error: bad thing"},
		{"type without argument", `type()`, lang.ErrArgument, "bad argument: #1 to 'type' (value expected)"},
		{"pairs non-table", `pairs(1)`, lang.ErrArgument, "bad argument: #1 to 'pairs' (table expected, got number)"},
		{"fib non-number", `fib("x")`, lang.ErrArgument, ""},
		{"concat invalid", `table.concat({{}})`, lang.ErrArgument, ""},
		{"insert bounds", `table.insert({}, 5, 1)`, lang.ErrArgument, ""},
		{"updatearray unset", `updatearray()`, lang.ErrVariableNotFound, "variable not found: myarray"},
		{"update reentrant", `t = {n = 1}; table.update(t, "n", function(x) t.n = 2 return x end)`,
			lang.ErrBorrowConflict, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			_, err := newState(&out).DoString(t.Context(), tt.src)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}

			var re *lang.Error
			if tt.msg != "" && errors.As(err, &re) && re.Error() != tt.msg {
				t.Errorf("message = %q, want %q", re.Error(), tt.msg)
			}
		})
	}
}

func TestPrelude_Dofile(t *testing.T) {
	dir := t.TempDir()

	lib := filepath.Join(dir, "lib.lua")
	if err := os.WriteFile(lib, []byte("function greet(n) return \"hi \" .. n end\nreturn 7"), 0o600); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer

	s := newState(&out, lang.WithSearchPath(dir))

	if _, err := s.DoString(t.Context(), `print(dofile("lib.lua"), greet("bob"))`); err != nil {
		t.Fatalf("DoString() error = %v", lang.Describe(err))
	}

	if got := out.String(); got != "7\thi bob\n" {
		t.Errorf("output = %q", got)
	}

	_, err := s.DoString(t.Context(), `dofile("missing.lua")`)
	if lang.Classify(err) != lang.KindInput {
		t.Errorf("Classify() = %v, want input", lang.Classify(err))
	}
}

func TestPrelude_DofileErrorNamesInnerChunk(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.lua")
	if err := os.WriteFile(bad, []byte("x = 1\ny = nope"), 0o600); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer

	_, err := newState(&out).DoChunk(t.Context(), "main.lua", `dofile("`+filepath.ToSlash(bad)+`")`)

	got := lang.Describe(err)
	if !strings.HasPrefix(got, "runtime error: "+filepath.ToSlash(bad)+":2: variable not found: nope") {
		t.Errorf("Describe() = %q", got)
	}
}

func TestOS_Getenv(t *testing.T) {
	t.Setenv("PULUA_TEST_VALUE", "xyz")

	var out bytes.Buffer

	s := newState(&out)

	if _, err := s.DoString(t.Context(),
		`print(os.getenv("PULUA_TEST_VALUE"), os.getenv("PULUA_TEST_UNSET_VALUE"))`); err != nil {
		t.Fatal(err)
	}

	if got := out.String(); got != "xyz\tnil\n" {
		t.Errorf("output = %q", got)
	}
}

func TestGetTarget(t *testing.T) {
	tests := []struct {
		goos, goarch string
		want         target
	}{
		{"linux", "amd64", target{"linux", "x86_64"}},
		{"linux", "arm64", target{"linux", "aarch64"}},
		{"darwin", "arm64", target{"darwin", "arm64"}},
		{"windows", "386", target{"windows", "i386"}},
		{"linux", "mipsle", target{"linux", "mipsel"}},
	}

	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.goarch, func(t *testing.T) {
			t.Setenv("GOHOSTOS", tt.goos)
			t.Setenv("GOHOSTARCH", tt.goarch)

			if got := getTarget(); got != tt.want {
				t.Errorf("getTarget() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPathPrefix(t *testing.T) {
	var out bytes.Buffer

	sep := string(os.PathListSeparator)

	s := newState(&out)
	s.SetGlobal("list", lang.String("b"+sep+"c"))

	if _, err := s.DoString(t.Context(), `print(path.prefix(list, "a"))`); err != nil {
		t.Fatal(err)
	}

	if got := strings.TrimSpace(out.String()); !strings.HasPrefix(got, "a"+sep) {
		t.Errorf("path.prefix = %q, want it to start with a", got)
	}
}
