package prelude

// This file defines the os, file and path libraries: host information,
// filesystem predicates and path manipulation. Lookups happen on every call;
// nothing is cached between calls.

import (
	"bufio"
	"context"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ardnew/mung"

	"github.com/ardnew/pulua/lang"
)

// OpenOS installs the os, file and path libraries.
func OpenOS(s *lang.State) {
	library(s, "os", map[string]lang.NativeFunc{
		"getenv":   osGetenv,
		"hostname": stringFunc(getHostname),
		"cwd":      stringFunc(getCwd),
		"shell":    stringFunc(getShell),
		"platform": targetFunc(getPlatform),
		"target":   targetFunc(getTarget),
	})

	library(s, "file", map[string]lang.NativeFunc{
		"exists":    predicateFunc("exists", fileExists),
		"isdir":     predicateFunc("isdir", fileIsDir),
		"isregular": predicateFunc("isregular", fileIsRegular),
		"issymlink": predicateFunc("issymlink", fileIsSymlink),
	})

	library(s, "path", map[string]lang.NativeFunc{
		"abs":    pathAbsFunc,
		"cat":    pathCatFunc,
		"rel":    pathRelFunc,
		"prefix": pathPrefixFunc,
	})
}

// osGetenv returns the value of an environment variable, or nil if unset.
func osGetenv(_ context.Context, s *lang.State) (int, error) {
	name, err := s.ArgString(1)
	if err != nil {
		return 0, err
	}

	if v, ok := os.LookupEnv(name); ok {
		return s.Returns(lang.String(v))
	}

	return s.Returns(lang.Nil())
}

func stringFunc(fn func() string) lang.NativeFunc {
	return func(_ context.Context, s *lang.State) (int, error) {
		return s.Returns(lang.String(fn()))
	}
}

func targetFunc(fn func() target) lang.NativeFunc {
	return func(_ context.Context, s *lang.State) (int, error) {
		t := fn()
		tbl := lang.NewTable()
		_ = tbl.SetString("os", lang.String(t.OS))
		_ = tbl.SetString("arch", lang.String(t.Arch))

		return s.Returns(lang.TableValue(tbl))
	}
}

func predicateFunc(name string, fn func(string) bool) lang.NativeFunc {
	return func(_ context.Context, s *lang.State) (int, error) {
		if err := expect(s, name, 1); err != nil {
			return 0, err
		}

		path, err := s.ArgString(1)
		if err != nil {
			return 0, err
		}

		return s.Returns(lang.Bool(fn(path)))
	}
}

// stringArgs returns every argument as a string.
func stringArgs(s *lang.State, from int) ([]string, error) {
	args := make([]string, 0, s.ArgCount())

	for pos := from; pos <= s.ArgCount(); pos++ {
		arg, err := s.ArgString(pos)
		if err != nil {
			return nil, err
		}

		args = append(args, arg)
	}

	return args, nil
}

// ---------------------------------------------------------------------------
// System information helpers
// ---------------------------------------------------------------------------

// target contains string identifiers for a target operating system and
// instruction set architecture.
type target struct {
	OS   string
	Arch string
}

// getTarget returns the host target using GNU GCC/LLVM naming conventions.
func getTarget() target {
	t := getPlatform()

	switch t.Arch {
	case "386":
		t.Arch = "i386"
	case "amd64":
		t.Arch = "x86_64"
	case "arm":
		if arm, ok := os.LookupEnv("GOARM"); ok {
			arm, _, _ = strings.Cut(arm, ",")
			switch arm = strings.TrimSpace(arm); arm {
			case "5", "6", "7":
				t.Arch = "armv" + arm
			}
		}
	case "arm64":
		if t.OS != "darwin" {
			t.Arch = "aarch64"
		}
	case "mipsle":
		t.Arch = "mipsel"
	}

	return t
}

// getPlatform returns the host target using Go conventions.
func getPlatform() target {
	o, ok := os.LookupEnv("GOHOSTOS")
	if !ok {
		if o, ok = os.LookupEnv("GOOS"); !ok {
			o = runtime.GOOS
		}
	}

	a, ok := os.LookupEnv("GOHOSTARCH")
	if !ok {
		if a, ok = os.LookupEnv("GOARCH"); !ok {
			a = runtime.GOARCH
		}
	}

	return target{OS: o, Arch: a}
}

func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return ""
	}

	return hostname
}

// getShell returns $SHELL, falling back to the login shell recorded for the
// current user in /etc/passwd.
func getShell() string {
	if shell, ok := os.LookupEnv("SHELL"); ok {
		return shell
	}

	u, err := user.Current()
	if err != nil || u.Username == "" {
		return ""
	}

	f, err := os.Open("/etc/passwd")
	if err != nil {
		return ""
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		e := strings.Split(sc.Text(), ":")
		if len(e) > 6 && e[0] == u.Username {
			return e[6]
		}
	}

	return ""
}

func getCwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return pathAbs(".")
	}

	return cwd
}

// ---------------------------------------------------------------------------
// Filesystem predicates
// ---------------------------------------------------------------------------

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return !os.IsNotExist(err)
}

func fileIsDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

func fileIsRegular(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}

func fileIsSymlink(path string) bool {
	info, err := os.Lstat(path)

	return err == nil && info.Mode()&os.ModeSymlink != 0
}

// ---------------------------------------------------------------------------
// Path manipulation
// ---------------------------------------------------------------------------

func pathAbs(path string) string {
	p, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	return p
}

func pathAbsFunc(_ context.Context, s *lang.State) (int, error) {
	path, err := s.ArgString(1)
	if err != nil {
		return 0, err
	}

	return s.Returns(lang.String(pathAbs(path)))
}

func pathCatFunc(_ context.Context, s *lang.State) (int, error) {
	elem, err := stringArgs(s, 1)
	if err != nil {
		return 0, err
	}

	return s.Returns(lang.String(filepath.Join(elem...)))
}

// pathRelFunc is path.rel(from, to). When no relative path exists it
// returns the two joined.
func pathRelFunc(_ context.Context, s *lang.State) (int, error) {
	from, err := s.ArgString(1)
	if err != nil {
		return 0, err
	}

	to, err := s.ArgString(2)
	if err != nil {
		return 0, err
	}

	p, err := filepath.Rel(pathAbs(from), pathAbs(to))
	if err != nil {
		p = filepath.Join(from, to)
	}

	return s.Returns(lang.String(p))
}

// pathPrefixFunc is path.prefix(list, dir...). It places each dir at the
// front of the PATH-like list.
func pathPrefixFunc(_ context.Context, s *lang.State) (int, error) {
	list, err := s.ArgString(1)
	if err != nil {
		return 0, err
	}

	prefix, err := stringArgs(s, 2)
	if err != nil {
		return 0, err
	}

	return s.Returns(lang.String(mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	).String()))
}
