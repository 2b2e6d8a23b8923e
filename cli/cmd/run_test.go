package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/pulua/lang"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	first := writeScript(t, dir, "first.lua", "n = 1\nprint('first')\n")
	second := writeScript(t, dir, "second.lua", "n = n + 1\nprint('second', n)\nreturn n\n")
	broken := writeScript(t, dir, "broken.lua", "x = = 1\n")

	tests := []struct {
		name    string
		run     Run
		stdin   string
		want    string
		wantErr bool
	}{
		{
			name: "files_share_state",
			run:  Run{Files: []string{first, second}, Result: resultNone},
			want: "first\nsecond\t2\n",
		},
		{
			name: "execute_before_files",
			run:  Run{Execute: []string{"n = 10"}, Files: []string{second}, Result: resultNone},
			want: "second\t11\n",
		},
		{
			name:  "stdin_by_default",
			run:   Run{Result: resultNone},
			stdin: "print('piped')",
			want:  "piped\n",
		},
		{
			name:  "stdin_dash",
			run:   Run{Files: []string{"-"}, Result: resultNative},
			stdin: "return { 1, 'two', k = true }",
			want:  "{ 1, \"two\", k = true }\n",
		},
		{
			name: "result_json",
			run:  Run{Execute: []string{"return { a = 1 }"}, Result: resultJSON},
			want: "{\n  \"a\": 1\n}\n",
		},
		{
			name: "result_yaml",
			run:  Run{Execute: []string{"return 'x'"}, Result: resultYAML},
			want: "x\n",
		},
		{
			name:    "stops_at_failure",
			run:     Run{Files: []string{first, broken, second}, Result: resultNone},
			want:    "first\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			err := tt.run.Run(testContext(t, &out, tt.stdin))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}

			if got := out.String(); got != tt.want {
				t.Errorf("Run() output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRun_ErrorNamesChunk(t *testing.T) {
	r := Run{Execute: []string{"error('boom')"}, Result: resultNone}

	err := r.Run(testContext(t, &bytes.Buffer{}, ""))

	var srcErr *lang.SourceError
	if !errors.As(err, &srcErr) || srcErr.Name != commandLineChunk {
		t.Fatalf("Run() error = %v, want SourceError named %q", err, commandLineChunk)
	}

	if got := lang.Describe(err); !strings.Contains(got, "boom") {
		t.Errorf("Describe() = %q, want message", got)
	}
}
