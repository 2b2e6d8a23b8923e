package cmd

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/pulua/lang"
	"github.com/ardnew/pulua/lang/lexer"
	"github.com/ardnew/pulua/lang/token"
)

// Tokens scans a script and prints its tokens.
type Tokens struct {
	Comments bool   `help:"Include comments in source order."`
	Format   string `default:"text" enum:"text,json,yaml" help:"Output format." short:"o"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// tokenRecord is the JSON and YAML form of a token.
type tokenRecord struct {
	Kind   string `json:"kind"             yaml:"kind"`
	Lexeme string `json:"lexeme,omitempty" yaml:"lexeme,omitempty"`
	Line   int    `json:"line"             yaml:"line"`
	Column int    `json:"column"           yaml:"column"`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	searchPath := RuntimeFrom(ctx).NewState(io.Discard).SearchPath()
	src := resolveSources([]string{t.Source}, searchPath)[0]

	text, err := readSource(ctx, src)
	if err != nil {
		return err
	}

	l := lexer.New(text)

	toks, err := l.Scan()
	if err != nil {
		return &lang.SourceError{Err: err, Name: src.name, Source: text}
	}

	if t.Comments {
		toks = mergeComments(toks, l.Comments())
	}

	return t.write(ctx, stdout(ctx), toks)
}

func (t *Tokens) write(ctx context.Context, w io.Writer, toks []token.Token) error {
	switch t.Format {
	case "json":
		data, err := json.MarshalIndent(records(toks), "", "  ")
		if err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		_, err = fmt.Fprintln(w, string(data))

		return err

	case "yaml":
		data, err := yaml.MarshalContext(ctx, records(toks))
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		_, err = w.Write(data)

		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	for _, tok := range toks {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", tok.Pos(), tok.Kind, tok.Lexeme)
	}

	return tw.Flush()
}

// mergeComments interleaves comments with toks by source position. The
// terminating Eof stays last.
func mergeComments(toks, comments []token.Token) []token.Token {
	merged := slices.Concat(toks, comments)

	slices.SortStableFunc(merged, func(a, b token.Token) int {
		if a.Kind == token.Eof || b.Kind == token.Eof {
			return cmp.Compare(isEOF(a), isEOF(b))
		}

		return cmp.Or(cmp.Compare(a.Line, b.Line), cmp.Compare(a.Column, b.Column))
	})

	return merged
}

func isEOF(t token.Token) int {
	if t.Kind == token.Eof {
		return 1
	}

	return 0
}

func records(toks []token.Token) []tokenRecord {
	recs := make([]tokenRecord, len(toks))

	for i, tok := range toks {
		recs[i] = tokenRecord{
			Kind:   tok.Kind.String(),
			Lexeme: tok.Lexeme,
			Line:   tok.Line,
			Column: tok.Column,
		}
	}

	return recs
}
