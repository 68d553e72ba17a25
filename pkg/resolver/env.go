package resolver

// Binding is what the resolver knows about a bound name: either a function
// with a fixed arity, a plain value, or nothing certain.
type Binding struct {
	Known      bool
	IsFunction bool
	Arity      int
}

var (
	valueBinding   = Binding{Known: true}
	unknownBinding = Binding{}
)

func functionBinding(arity int) Binding {
	return Binding{Known: true, IsFunction: true, Arity: arity}
}

// join merges the bindings reaching one name along different paths.
func join(a, b Binding) Binding {
	if a == b {
		return a
	}
	return unknownBinding
}

// Environment represents a scope used during resolution.
type Environment struct {
	parent  *Environment
	symbols map[string]Binding
}

// NewEnvironment creates a new environment with an optional parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		parent:  parent,
		symbols: make(map[string]Binding),
	}
}

// Define binds a name in the current scope.
func (e *Environment) Define(name string, b Binding) {
	e.symbols[name] = b
}

// Merge binds name to the join of its current and new binding. Bindings made
// on only some control-flow paths go through Merge; a name that was unbound
// before becomes unknown.
func (e *Environment) Merge(name string, b Binding) {
	if prev, ok := e.symbols[name]; ok {
		e.symbols[name] = join(prev, b)
		return
	}
	e.symbols[name] = unknownBinding
}

// Lookup searches for a name in the current scope chain.
func (e *Environment) Lookup(name string) (Binding, bool) {
	if b, ok := e.symbols[name]; ok {
		return b, true
	}
	if e.parent != nil {
		return e.parent.Lookup(name)
	}
	return Binding{}, false
}

// Extend returns a child environment.
func (e *Environment) Extend() *Environment {
	return NewEnvironment(e)
}
