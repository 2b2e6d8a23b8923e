package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/pulua/lang/ast"
	"github.com/ardnew/pulua/lang/token"
	"github.com/ardnew/pulua/log"
	"github.com/ardnew/pulua/profile"
)

// configHeader is written above the generated assignments.
const configHeader = "-- pulua configuration. Globals set here become flag defaults;\n" +
	"-- underscores in names stand for the hyphens in flag names.\n"

// Init generates a configuration script with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ErrNoConfig
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok || confPath == "" {
		return ErrNoConfig
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	if _, err := file.WriteString(configHeader); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	if err := ast.Format(file, i.buildChunk(ktx)); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// buildChunk constructs one global assignment per set flag.
func (i *Init) buildChunk(ktx *kong.Context) *ast.Chunk {
	var chunk ast.Chunk

	prefixIgnore := []string{"help", "version", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		val := flagExpr(ktx.FlagValue(flag))
		if val == nil {
			continue
		}

		name := token.Token{
			Kind:   token.Name,
			Lexeme: strings.ReplaceAll(flag.Name, "-", "_"),
		}

		chunk.Stats = append(chunk.Stats, &ast.Assign{
			Vars:  []ast.Var{&ast.VarName{Name: name}},
			Exprs: []ast.Expr{val},
		})
	}

	return &chunk
}

// flagExpr returns the literal for a flag value, or nil if it is unset.
func flagExpr(val any) ast.Expr {
	switch v := val.(type) {
	case nil:
		return nil

	case bool:
		if v {
			return &ast.True{}
		}

		return &ast.False{}

	case string:
		if v == "" {
			return nil
		}

		return &ast.String{Value: v}

	case int:
		return ast.Integer(int64(v))

	case int64:
		return ast.Integer(v)

	case float64:
		return &ast.Number{Value: v}

	case []string:
		return listExpr(v, func(s string) ast.Expr { return &ast.String{Value: s} })

	case []int:
		return listExpr(v, func(n int) ast.Expr { return ast.Integer(int64(n)) })

	case []bool:
		return listExpr(v, func(b bool) ast.Expr { return flagExpr(b) })

	default:
		return &ast.String{Value: fmt.Sprint(v)}
	}
}

func listExpr[T any](list []T, elem func(T) ast.Expr) ast.Expr {
	if len(list) == 0 {
		return nil
	}

	fields := make([]ast.Field, len(list))
	for i, v := range list {
		fields[i] = &ast.FieldPositional{Value: elem(v)}
	}

	return &ast.TableConstructor{Fields: fields}
}
