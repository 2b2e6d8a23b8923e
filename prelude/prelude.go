package prelude

import (
	"maps"
	"slices"

	"github.com/ardnew/pulua/lang"
)

// Library is a named group of built-ins.
type Library struct {
	Open func(s *lang.State)
	Name string
}

// Libraries lists the libraries installed by [Open], in order.
//
//nolint:gochecknoglobals
var Libraries = []Library{
	{Name: "base", Open: OpenBase},
	{Name: "table", Open: OpenTable},
	{Name: "os", Open: OpenOS},
	{Name: "demo", Open: OpenDemo},
}

// Open installs every library into s.
func Open(s *lang.State) {
	for _, lib := range Libraries {
		lib.Open(s)
	}
}

// register installs each of funcs as a global function.
func register(s *lang.State, funcs map[string]lang.NativeFunc) {
	for _, name := range slices.Sorted(maps.Keys(funcs)) {
		s.Register(name, funcs[name])
	}
}

// library binds a table holding funcs to the global name. Each function is
// named "name.key" in diagnostics.
func library(s *lang.State, name string, funcs map[string]lang.NativeFunc) *lang.Table {
	t := lang.NewTable()

	for _, key := range slices.Sorted(maps.Keys(funcs)) {
		fn := lang.NewNative(name+"."+key, funcs[key])
		_ = t.SetString(key, lang.FunctionValue(fn))
	}

	s.SetGlobal(name, lang.TableValue(t))

	return t
}

// expect fails unless at least n arguments were passed.
func expect(s *lang.State, name string, n int) error {
	if s.ArgCount() < n {
		return lang.ErrArgument.Of("#" + itoa(s.ArgCount()+1) + " to '" + name + "' (value expected)")
	}

	return nil
}
