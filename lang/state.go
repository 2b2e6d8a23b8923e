package lang

import (
	"io"
	"iter"
	"log/slog"
	"maps"
	"slices"

	"github.com/ardnew/pulua/lang/parser"
	"github.com/ardnew/pulua/log"
)

// Default resource limits of a State.
const (
	DefaultRegistrySize = 1 << 16
	DefaultMaxDepth     = 1024
)

// scope binds local names declared in one block to registry slots. Leaving
// the block unwinds the registry back to mark.
type scope struct {
	names map[string]int
	mark  int
}

// frame is the record of one function invocation or chunk execution.
type frame struct {
	name   string
	base   int // registry slot of the first argument
	nargs  int
	nret   int
	scopes []scope
	loops  int
}

func (f *frame) lookup(name string) (int, bool) {
	for i := len(f.scopes) - 1; i >= 0; i-- {
		if slot, ok := f.scopes[i].names[name]; ok {
			return slot, true
		}
	}

	return 0, false
}

// State is the runtime state of one interpreter: the global table, the value
// stack ("registry") and the call frames. A State is not safe for concurrent
// use.
type State struct {
	globals    map[string]Value
	registry   []Value
	frames     []*frame
	size       int
	maxDepth   int
	prec       parser.Precedence
	searchPath []string
	out        io.Writer
	logger     log.Logger
}

// Option configures a State.
type Option func(*State)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger log.Logger) Option {
	return func(s *State) { s.logger = logger }
}

// WithOutput sets the writer that print and friends write to.
func WithOutput(w io.Writer) Option {
	return func(s *State) {
		if w != nil {
			s.out = w
		}
	}
}

// WithRegistrySize sets the capacity of the value stack.
func WithRegistrySize(n int) Option {
	return func(s *State) {
		if n > 0 {
			s.size = n
		}
	}
}

// WithMaxDepth sets the maximum call depth.
func WithMaxDepth(n int) Option {
	return func(s *State) {
		if n > 0 {
			s.maxDepth = n
		}
	}
}

// WithPrecedence selects the operator precedence used to parse chunks.
func WithPrecedence(prec parser.Precedence) Option {
	return func(s *State) { s.prec = prec }
}

// WithSearchPath sets the directories searched for relative script names.
func WithSearchPath(dirs ...string) Option {
	return func(s *State) { s.searchPath = slices.Clone(dirs) }
}

// NewState returns a State with an empty global table.
func NewState(opts ...Option) *State {
	s := &State{
		globals:  map[string]Value{},
		size:     DefaultRegistrySize,
		maxDepth: DefaultMaxDepth,
		out:      io.Discard,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	s.registry = make([]Value, 0, min(s.size, 256))

	return s
}

// Output returns the writer for program output.
func (s *State) Output() io.Writer { return s.out }

// Logger returns the diagnostic logger.
func (s *State) Logger() log.Logger { return s.logger }

// Precedence returns the operator precedence used to parse chunks.
func (s *State) Precedence() parser.Precedence { return s.prec }

// SearchPath returns the directories searched for relative script names.
func (s *State) SearchPath() []string { return s.searchPath }

// Register binds a native function to the global name.
func (s *State) Register(name string, fn NativeFunc) {
	s.globals[name] = FunctionValue(NewNative(name, fn))
	s.logger.Trace("register", slog.String("name", name))
}

// SetGlobal binds v to the global name. Binding nil removes the name.
func (s *State) SetGlobal(name string, v Value) {
	if v.IsNil() {
		delete(s.globals, name)

		return
	}

	s.globals[name] = v
}

// Global returns the value bound to the global name.
func (s *State) Global(name string) (Value, bool) {
	v, ok := s.globals[name]

	return v, ok
}

// Globals returns an iterator over the global bindings in name order.
func (s *State) Globals() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, name := range slices.Sorted(maps.Keys(s.globals)) {
			if !yield(name, s.globals[name]) {
				return
			}
		}
	}
}

// Top returns the number of values on the registry.
func (s *State) Top() int { return len(s.registry) }

// Depth returns the number of active call frames.
func (s *State) Depth() int { return len(s.frames) }

// Push pushes v onto the registry.
func (s *State) Push(v Value) error {
	if len(s.registry) >= s.size {
		return ErrRegistryOverflow
	}

	s.registry = append(s.registry, v)

	return nil
}

// Pop removes and returns the value on top of the registry. Values below the
// current frame's base cannot be popped.
func (s *State) Pop() (Value, error) {
	if len(s.registry) <= s.floor() {
		return Nil(), ErrRegistryUnderflow
	}

	n := len(s.registry) - 1
	v := s.registry[n]
	s.settop(n)

	return v, nil
}

func (s *State) floor() int {
	if f := s.current(); f != nil {
		return f.base
	}

	return 0
}

func (s *State) settop(n int) {
	clear(s.registry[n:])
	s.registry = s.registry[:n]
}

func (s *State) current() *frame {
	if len(s.frames) == 0 {
		return nil
	}

	return s.frames[len(s.frames)-1]
}

// Returns pushes vals as the results of a native function and returns how
// many were pushed, so a native can end with "return s.Returns(v)".
func (s *State) Returns(vals ...Value) (int, error) {
	for _, v := range vals {
		if err := s.Push(v); err != nil {
			return 0, err
		}
	}

	return len(vals), nil
}

// ArgCount returns the number of arguments passed to the running function.
func (s *State) ArgCount() int {
	if f := s.current(); f != nil {
		return f.nargs
	}

	return 0
}

// ArgValue returns argument pos (1-based) of the running function, or nil if
// fewer arguments were passed.
func (s *State) ArgValue(pos int) Value {
	f := s.current()
	if f == nil || pos < 1 || pos > f.nargs {
		return Nil()
	}

	return s.registry[f.base+pos-1]
}

// ArgInt returns argument pos as a number.
func (s *State) ArgInt(pos int) (int64, error) {
	v := s.ArgValue(pos)

	n, ok := v.AsNumber()
	if !ok {
		return 0, argError(pos, s.callee(), "number", v)
	}

	return n, nil
}

// ArgString returns argument pos as a string. Numbers are converted to their
// decimal text.
func (s *State) ArgString(pos int) (string, error) {
	v := s.ArgValue(pos)

	switch v.Type() {
	case TypeString, TypeNumber:
		return v.String(), nil
	}

	return "", argError(pos, s.callee(), "string", v)
}

// ArgTable returns argument pos as a table.
func (s *State) ArgTable(pos int) (*Table, error) {
	v := s.ArgValue(pos)

	t, ok := v.AsTable()
	if !ok {
		return nil, argError(pos, s.callee(), "table", v)
	}

	return t, nil
}

// ArgFunction returns argument pos as a function value.
func (s *State) ArgFunction(pos int) (Value, error) {
	v := s.ArgValue(pos)
	if v.Type() != TypeFunction {
		return Nil(), argError(pos, s.callee(), "function", v)
	}

	return v, nil
}

func (s *State) callee() string {
	if f := s.current(); f != nil {
		return f.name
	}

	return "?"
}

// pushFrame starts a frame whose arguments are the top nargs registry values.
func (s *State) pushFrame(name string, nargs int) (*frame, error) {
	if len(s.frames) >= s.maxDepth {
		return nil, ErrCallDepth.Of(name)
	}

	f := &frame{name: name, base: len(s.registry) - nargs, nargs: nargs, nret: 1}
	s.frames = append(s.frames, f)

	return f, nil
}

func (s *State) popFrame() {
	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]
}

// enterScope opens a block scope in the current frame.
func (s *State) enterScope() {
	f := s.current()
	f.scopes = append(f.scopes, scope{mark: len(s.registry)})
}

// leaveScope closes the innermost block scope and drops its locals.
func (s *State) leaveScope() {
	f := s.current()
	sc := f.scopes[len(f.scopes)-1]
	f.scopes = f.scopes[:len(f.scopes)-1]
	s.settop(sc.mark)
}

// declare binds name to a new registry slot holding v in the innermost scope.
func (s *State) declare(name string, v Value) error {
	if err := s.Push(v); err != nil {
		return err
	}

	sc := &s.current().scopes[len(s.current().scopes)-1]
	if sc.names == nil {
		sc.names = map[string]int{}
	}

	sc.names[name] = len(s.registry) - 1

	return nil
}

// lookup resolves name to a local slot of the current frame, then to a
// global.
func (s *State) lookup(name string) (Value, error) {
	if f := s.current(); f != nil {
		if slot, ok := f.lookup(name); ok {
			return s.registry[slot], nil
		}
	}

	if v, ok := s.globals[name]; ok {
		return v, nil
	}

	return Nil(), ErrVariableNotFound.Of(name)
}

// assign stores v in the visible local name, or else in the global name.
func (s *State) assign(name string, v Value) {
	if f := s.current(); f != nil {
		if slot, ok := f.lookup(name); ok {
			s.registry[slot] = v

			return
		}
	}

	s.SetGlobal(name, v)
}
