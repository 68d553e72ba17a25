package runtime

import "sort"

type scope struct {
	values map[string]Value
	// frame marks the outermost scope of a function call; lookups that reach
	// it skip straight to the global scope.
	frame bool
}

func newScope(frame bool) *scope {
	return &scope{values: make(map[string]Value), frame: frame}
}

// Environment is the stack of scopes live during one evaluation run. Index 0
// is the global scope, which is never popped. An Environment must not be
// shared between concurrent evaluations.
type Environment struct {
	scopes []*scope
}

// NewEnvironment creates an environment holding only the global scope.
func NewEnvironment() *Environment {
	return &Environment{scopes: []*scope{newScope(false)}}
}

// Depth is the number of live scopes, including the global scope.
func (e *Environment) Depth() int {
	return len(e.scopes)
}

// PushScope enters a nested block scope.
func (e *Environment) PushScope() {
	e.scopes = append(e.scopes, newScope(false))
}

// PushFrame enters the scope of a function call. Names bound outside the
// frame are invisible from inside it, except for globals.
func (e *Environment) PushFrame() {
	e.scopes = append(e.scopes, newScope(true))
}

// PopScope removes the innermost scope.
func (e *Environment) PopScope() error {
	if len(e.scopes) <= 1 {
		return ErrScopeUnderflow
	}
	last := len(e.scopes) - 1
	e.scopes[last] = nil
	e.scopes = e.scopes[:last]
	return nil
}

// DefineLocal binds name in the innermost scope, shadowing outer bindings. It
// reports whether the name was already bound in that same scope.
func (e *Environment) DefineLocal(name string, value Value) bool {
	return e.scopes[len(e.scopes)-1].define(name, value)
}

// DefineGlobal binds name in the global scope regardless of depth.
func (e *Environment) DefineGlobal(name string, value Value) bool {
	return e.scopes[0].define(name, value)
}

func (s *scope) define(name string, value Value) bool {
	_, exists := s.values[name]
	s.values[name] = value
	return exists
}

// Lookup searches innermost to outermost and returns the first match. The
// search stops at the innermost call frame and then falls back to globals.
func (e *Environment) Lookup(name string) (Value, bool) {
	for i := len(e.scopes) - 1; i > 0; i-- {
		s := e.scopes[i]
		if v, ok := s.values[name]; ok {
			return v, true
		}
		if s.frame {
			break
		}
	}
	v, ok := e.scopes[0].values[name]
	return v, ok
}

// Get is Lookup with the absent case reported as an UndefinedSymbolError.
func (e *Environment) Get(name string) (Value, error) {
	if v, ok := e.Lookup(name); ok {
		return v, nil
	}
	return nil, &UndefinedSymbolError{Name: name}
}

// LocalNames returns the innermost scope's bindings in sorted order.
func (e *Environment) LocalNames() []string {
	return e.scopes[len(e.scopes)-1].keys()
}

// GlobalNames returns the global bindings in sorted order.
func (e *Environment) GlobalNames() []string {
	return e.scopes[0].keys()
}

// Snapshot returns a copy of the global bindings.
func (e *Environment) Snapshot() map[string]Value {
	out := make(map[string]Value, len(e.scopes[0].values))
	for k, v := range e.scopes[0].values {
		out[k] = v
	}
	return out
}

func (s *scope) keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
