//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

// version is the raw contents of the VERSION file embedded at build time.
//
//go:embed VERSION
var version string

// Version is the semantic version of the pulua module. It is printed by the
// version subcommand and reported in the REPL banner.
var Version = strings.TrimSpace(version)

const (
	// Name is the canonical command and module identifier. It appears in
	// help text, default config paths and environment variable names.
	Name = "pulua"
	// Description is a short, human-readable summary of the project used in
	// help output.
	Description = "Tree-walking interpreter for a Lua-like scripting language"
)

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	// Name is the author's preferred name or handle.
	Name string
	// Email is the author's contact email address.
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}

// EnvName returns the environment variable identifier for the given suffix,
// using the upper-case command name as prefix. For example, EnvName("log")
// returns "PULUA_LOG".
func EnvName(suffix string) string {
	return strings.ToUpper(Name + "_" + suffix)
}
