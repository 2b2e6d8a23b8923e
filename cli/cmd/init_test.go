package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/pulua/lang"
	"github.com/ardnew/pulua/lang/ast"
)

// initCLI stands in for the flags of the real command line.
type initCLI struct {
	LogLevel string   `default:"info"`
	Verbose  bool     `name:"verbose"`
	Depth    int      `default:"64"`
	Path     []string `name:"path"`
	Hidden   string   `default:"x" hidden:""`
	Init     Init     `cmd:""`
}

func initContext(t *testing.T, confPath string, args ...string) context.Context {
	t.Helper()

	var cli initCLI

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(append([]string{"init"}, args...))
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(context.Background(), ktx)
}

func TestInitRun(t *testing.T) {
	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{name: "create_new_config"},
		{name: "overwrite_existing_with_force", force: true, exists: true},
		{name: "fail_without_force", exists: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confPath := filepath.Join(t.TempDir(), "config.lua")

			if tt.exists {
				if err := os.WriteFile(confPath, []byte("existing = true\n"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			ctx := initContext(t, confPath, "--verbose", "--path=a", "--path=b")

			err := (&Init{Force: tt.force}).Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			content, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			// The generated script must run and set the flag globals.
			s := lang.NewState()
			if _, err := s.DoString(context.Background(), string(content)); err != nil {
				t.Fatalf("generated config does not run: %v\n%s", lang.Describe(err), content)
			}

			if v, _ := s.Global("log_level"); v.String() != "info" {
				t.Errorf("log_level = %s, want info", v)
			}

			if v, _ := s.Global("verbose"); !v.Truthy() {
				t.Errorf("verbose = %s, want true", v)
			}

			if v, _ := s.Global("depth"); v.String() != "64" {
				t.Errorf("depth = %s, want 64", v)
			}

			if v, _ := s.Global("path"); !strings.Contains(string(content), `path = { "a", "b" }`) {
				t.Errorf("path = %s, want sequence a, b\n%s", v, content)
			}

			for _, absent := range []string{"hidden", "help"} {
				if _, ok := s.Global(absent); ok {
					t.Errorf("generated config sets %s", absent)
				}
			}
		})
	}
}

func TestInitRun_NoConfig(t *testing.T) {
	if err := (&Init{}).Run(context.Background()); !errors.Is(err, ErrNoConfig) {
		t.Errorf("Run() without kong context error = %v, want %v", err, ErrNoConfig)
	}

	if err := (&Init{}).Run(initContext(t, "")); !errors.Is(err, ErrNoConfig) {
		t.Errorf("Run() with empty path error = %v, want %v", err, ErrNoConfig)
	}
}

func TestInitRun_InvalidPath(t *testing.T) {
	confPath := filepath.Join(t.TempDir(), "missing", "dir", "config.lua")

	err := (&Init{}).Run(initContext(t, confPath))
	if !errors.Is(err, ErrWriteConfig) {
		t.Errorf("Run() error = %v, want %v", err, ErrWriteConfig)
	}
}

func TestFlagExpr(t *testing.T) {
	tests := []struct {
		name string
		val  any
		want string // formatted expression, empty for nil
	}{
		{"nil", nil, ""},
		{"true", true, "true"},
		{"false", false, "false"},
		{"string", "debug", `"debug"`},
		{"empty_string", "", ""},
		{"int", 42, "42"},
		{"int64", int64(-3), "-3"},
		{"float", 1.5, "1.5"},
		{"strings", []string{"a", "b"}, `{ "a", "b" }`},
		{"ints", []int{1, 2}, "{ 1, 2 }"},
		{"bools", []bool{true}, "{ true }"},
		{"empty_list", []string{}, ""},
		{"other", struct{ A int }{1}, `"{1}"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := flagExpr(tt.val)

			if tt.want == "" {
				if e != nil {
					t.Errorf("flagExpr(%v) = %T, want nil", tt.val, e)
				}

				return
			}

			if e == nil {
				t.Fatalf("flagExpr(%v) = nil, want %s", tt.val, tt.want)
			}

			if got := ast.FormatString(e); got != tt.want {
				t.Errorf("flagExpr(%v) formats as %s, want %s", tt.val, got, tt.want)
			}
		})
	}
}
