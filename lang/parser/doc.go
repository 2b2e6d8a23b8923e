// Package parser builds a syntax tree from the token sequence produced by
// package lexer.
//
// The parser is recursive descent with one function per grammar production.
// Assignment and call statements share a prefix that is only disambiguated by
// the token following it, so statements are tried with unlimited lookahead:
// each alternative runs against a saved position and is rewound if it fails.
// When every alternative fails, the error reported is the one that reached
// furthest into the input.
//
// The left-recursive prefixexp production is parsed as a primary expression
// followed by a loop over index, member, method and call suffixes.
//
// Binary expressions are parsed by precedence climbing over the Lua 5.3
// operator table ([Standard]). [Flat] instead folds every binary operator
// left to right at a single level, matching the legacy grammar.
//
// Grammar:
//
//	chunk      → {stat [';']} [laststat [';']]
//	block      → chunk
//	stat       → varlist '=' explist | functioncall | do block end
//	           | while exp do block end | repeat block until exp
//	           | if exp then block {elseif exp then block} [else block] end
//	           | for Name '=' exp ',' exp [',' exp] do block end
//	           | for namelist in explist do block end
//	           | function funcname funcbody | local function Name funcbody
//	           | local namelist ['=' explist]
//	laststat   → return [explist] | break
//	funcname   → Name {'.' Name} [':' Name]
//	varlist    → var {',' var}
//	var        → Name | prefixexp '[' exp ']' | prefixexp '.' Name
//	namelist   → Name {',' Name}
//	explist    → exp {',' exp}
//	exp        → nil | false | true | Number | String | '...' | function
//	           | prefixexp | tableconstructor | exp binop exp | unop exp
//	prefixexp  → var | functioncall | '(' exp ')'
//	functioncall → prefixexp args | prefixexp ':' Name args
//	args       → '(' [explist] ')' | tableconstructor | String
//	function   → function funcbody
//	funcbody   → '(' [parlist] ')' block end
//	parlist    → namelist [',' '...'] | '...'
//	tableconstructor → '{' [field {fieldsep field} [fieldsep]] '}'
//	field      → '[' exp ']' '=' exp | Name '=' exp | exp
//	fieldsep   → ',' | ';'
package parser
