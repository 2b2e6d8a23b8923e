package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/pulua/lang"
	"github.com/ardnew/pulua/lang/token"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "globals", "edit", "reset", "clear", "quit"}

// keywords are the reserved words offered at the top level.
var keywords = func() []string {
	var names []string

	for k := token.And; k <= token.While; k++ {
		names = append(names, k.Text())
	}

	return names
}()

// isWordBoundary returns true if the rune is a word delimiter for completion
// purposes. This includes whitespace, the member-access dot and colon, and
// the operator and punctuation characters of the language.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ':', ' ', '\t',
		'(', ')', '[', ']', '{', '}',
		'+', '-', '*', '/', '%', '^', '#',
		'&', '~', '|', '<', '>', '=',
		',', ';', '"', '\'':
		return true
	}

	return false
}

// isMemberAccess reports whether r joins a member name to its table.
func isMemberAccess(r rune) bool { return r == '.' || r == ':' }

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input.
// Returns an empty word when the cursor sits on a boundary (after a space,
// between dots, start of line, etc.).
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Walk backward from cursor to find word start.
	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	// Walk forward from cursor to find word end.
	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	word = input[start:end]

	return word, start, end
}

// parentPath returns the member-access chain leading up to the current
// word, with colons normalized to dots. For input "x + server.http.ho" with
// the word "ho", the parent path is "server.http". Returns "" for top-level
// words.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]

	r, _ := utf8.DecodeLastRuneInString(prefix)
	if !isMemberAccess(r) {
		return ""
	}

	prefix = strings.TrimRight(prefix, ".:")

	// Walk backward collecting identifier characters and member accesses
	// until the first other word boundary.
	end := len(prefix)
	pos := end

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if isWordBoundary(r) && !isMemberAccess(r) {
			break
		}

		pos -= size
	}

	return strings.ReplaceAll(strings.TrimSpace(prefix[pos:end]), ":", ".")
}

// resolvePath looks up a dotted path of globals and string-keyed table
// members, such as "table.insert".
func resolvePath(s *lang.State, path string) (lang.Value, bool) {
	segments := strings.Split(path, ".")

	v, ok := s.Global(segments[0])
	if !ok {
		return lang.Nil(), false
	}

	for _, seg := range segments[1:] {
		t, ok := v.AsTable()
		if !ok {
			return lang.Nil(), false
		}

		if v = t.GetString(seg); v.IsNil() {
			return lang.Nil(), false
		}
	}

	return v, true
}

// childCandidates returns the names that are valid completions for the given
// parent path. For an empty parent, returns all global names plus keywords.
// For a non-empty parent, resolves the table and returns its string keys.
func childCandidates(s *lang.State, parent string) []string {
	if parent == "" {
		var names []string

		for name := range s.Globals() {
			names = append(names, name)
		}

		return append(names, keywords...)
	}

	v, ok := resolvePath(s, parent)
	if !ok {
		return nil
	}

	t, ok := v.AsTable()
	if !ok {
		return nil
	}

	var names []string

	for k := range t.All() {
		if name, ok := k.AsString(); ok {
			names = append(names, name)
		}
	}

	slices.Sort(names)

	return names
}

// computeMatches calculates the fuzzy match results for the word at the cursor.
// It returns the matches (ranked best-first), the candidate list, and the word
// boundaries. When the current word is empty at the top level, it returns nil
// matches. When the word is empty after a dot (member access), it returns all
// children as matches.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, ws, we := wordBounds(input, cursor)
	wordStart, wordEnd = ws, we

	if m.mode == modeCtrl {
		if word == "" {
			return nil, nil, wordStart, wordEnd
		}

		candidates = ctrlCommands
	} else {
		parent := parentPath(input, wordStart)
		candidates = childCandidates(m.sess.state, parent)

		// When the word is empty at the top level, don't show completions
		// (allows the hint text to be visible). After a dot, show all children
		// immediately so the user can browse the available members.
		if word == "" {
			if parent == "" || len(candidates) == 0 {
				return nil, nil, wordStart, wordEnd
			}

			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, candidates, wordStart, wordEnd
		}
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	matches = fuzzy.Find(word, candidates)

	return matches, candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
	isFunc func(string) bool,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		selected := tabActive && i == suggIdx
		rendered := renderCandidate(match, selected, isFunc(match.Str))
		candidateWidth := lipgloss.Width(rendered)

		entryWidth := candidateWidth
		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Functions are displayed with a "()" suffix.
func renderCandidate(match fuzzy.Match, selected, function bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		ch := string(r)
		if matchSet[i] {
			b.WriteString(highlightStyle.Render(ch))
		} else {
			b.WriteString(baseStyle.Render(ch))
		}
	}

	// Add "()" suffix for functions (not applied to actual completion)
	if function {
		b.WriteString(baseStyle.Render("()"))
	}

	return b.String()
}

// isFunction reports whether the candidate name, completed under the
// current parent path, refers to a function.
func (m model) isFunction(name string) bool {
	if m.mode == modeCtrl {
		return false
	}

	path := name
	if parent := parentPath(m.input.Value(), m.wordStart); parent != "" {
		path = parent + "." + name
	}

	v, ok := resolvePath(m.sess.state, path)

	return ok && v.Type() == lang.TypeFunction
}
