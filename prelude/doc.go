// Package prelude provides the built-in functions of pulua programs.
//
// Built-ins are ordinary native functions registered through
// [lang.State.Register]; a State created without the prelude has an empty
// global table. [Open] installs every library:
//
//   - base: print, type, tostring, tonumber, assert, error, pairs, ipairs,
//     next, globalset, globalget and dofile
//   - table: table.insert, table.remove, table.concat, table.len and
//     table.update
//   - os: os.getenv, os.hostname, os.cwd, os.shell, os.platform and
//     os.target, plus the file and path tables
//   - demo: fib, setarray, updatearray and printarray
package prelude
