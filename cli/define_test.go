package cli

import (
	"errors"
	"testing"

	"github.com/ardnew/pulua/lang"
	"github.com/ardnew/pulua/pkg"
)

func TestDefine(t *testing.T) {
	t.Setenv("PULUA_DEFINE_TEST", "hello")

	tests := []struct {
		name  string
		specs []string
		want  map[string]string
	}{
		{
			name:  "number",
			specs: []string{"n=1 + 2 * 3"},
			want:  map[string]string{"n": "7"},
		},
		{
			name:  "string",
			specs: []string{`s="a" + "b"`},
			want:  map[string]string{"s": "ab"},
		},
		{
			name:  "bool",
			specs: []string{"b=1 < 2"},
			want:  map[string]string{"b": "true"},
		},
		{
			name:  "getenv",
			specs: []string{`e=getenv("PULUA_DEFINE_TEST")`},
			want:  map[string]string{"e": "hello"},
		},
		{
			name:  "refers_to_earlier",
			specs: []string{"a=20", "b=a + 1"},
			want:  map[string]string{"a": "20", "b": "21"},
		},
		{
			name:  "spaces_around_name",
			specs: []string{" x =5"},
			want:  map[string]string{"x": "5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			globals, err := define(tt.specs)
			if err != nil {
				t.Fatalf("define() error = %v", err)
			}

			got := make(map[string]string, len(globals))
			for _, g := range globals {
				got[g.Name] = g.Value.String()
			}

			for name, want := range tt.want {
				if got[name] != want {
					t.Errorf("%s = %q, want %q", name, got[name], want)
				}
			}
		})
	}
}

func TestDefine_Array(t *testing.T) {
	globals, err := define([]string{"xs=[1, 2, 3]"})
	if err != nil {
		t.Fatalf("define() error = %v", err)
	}

	tbl, ok := globals[0].Value.AsTable()
	if !ok {
		t.Fatalf("xs is %s, want table", globals[0].Value.Type())
	}

	if tbl.Len() != 3 {
		t.Errorf("#xs = %d, want 3", tbl.Len())
	}

	if v := tbl.Get(lang.Number(2)); v.String() != "2" {
		t.Errorf("xs[2] = %v, want 2", v)
	}
}

func TestDefine_Errors(t *testing.T) {
	tests := []struct {
		name string
		spec string
	}{
		{"missing_equals", "x"},
		{"keyword_name", "end=1"},
		{"invalid_name", "1x=1"},
		{"dotted_name", "a.b=1"},
		{"bad_expression", "x=1 +"},
		{"unknown_variable", "x=y"},
		{"unsupported_value", "x=now()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := define([]string{tt.spec})
			if !errors.Is(err, pkg.ErrDefinition) {
				t.Errorf("define(%q) error = %v, want ErrDefinition", tt.spec, err)
			}
		})
	}
}
