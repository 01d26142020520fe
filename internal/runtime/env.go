package runtime

// Scope is a handle to one scope record in an Environment.
type Scope int

// NoScope is the parent of the global scope.
const NoScope Scope = -1

// scope is one record of the arena. Maps are allocated on first define.
type scope struct {
	parent   Scope
	values   map[string]Value
	types    map[string]string // declared types, fixed at definition
	captured bool              // held by a closure or bound method
	released bool              // left by control flow but not yet reclaimed
}

// Environment is an arena of scopes. Scopes form a tree rooted at the
// global scope; children point at parents by handle.
type Environment struct {
	scopes []scope
}

// NewEnvironment creates an environment holding only the global scope.
func NewEnvironment() *Environment {
	return &Environment{scopes: []scope{{parent: NoScope}}}
}

// Global returns the handle of the root scope.
func (e *Environment) Global() Scope {
	return 0
}

// Len returns the number of live scope records.
func (e *Environment) Len() int {
	return len(e.scopes)
}

// Push creates a new child of parent and returns its handle.
func (e *Environment) Push(parent Scope) Scope {
	e.scopes = append(e.scopes, scope{parent: parent})
	return Scope(len(e.scopes) - 1)
}

// Release hands a scope back once control has left it. Captured scopes are
// kept. Uncaptured scopes at the top of the arena are reclaimed, together
// with any released scopes directly beneath them.
func (e *Environment) Release(s Scope) {
	if s <= e.Global() || int(s) >= len(e.scopes) {
		return
	}
	e.scopes[s].released = true
	for n := len(e.scopes) - 1; n > 0; n-- {
		top := &e.scopes[n]
		if !top.released || top.captured {
			break
		}
		*top = scope{}
		e.scopes = e.scopes[:n]
	}
}

// Capture marks s and all of its ancestors as held by a closure so that
// Release never reclaims them.
func (e *Environment) Capture(s Scope) {
	for cur := s; cur != NoScope; cur = e.scopes[cur].parent {
		if e.scopes[cur].captured {
			return
		}
		e.scopes[cur].captured = true
	}
}

// Define binds name in s, shadowing any outer binding. typeName is the
// declared type, or "" for none.
func (e *Environment) Define(s Scope, name string, value Value, typeName string) {
	rec := &e.scopes[s]
	if rec.values == nil {
		rec.values = make(map[string]Value)
	}
	rec.values[name] = value
	if typeName != "" {
		if rec.types == nil {
			rec.types = make(map[string]string)
		}
		rec.types[name] = typeName
	} else if rec.types != nil {
		delete(rec.types, name)
	}
}

// resolve finds the innermost scope at or above s that binds name.
func (e *Environment) resolve(s Scope, name string) (Scope, bool) {
	for cur := s; cur != NoScope; cur = e.scopes[cur].parent {
		if _, ok := e.scopes[cur].values[name]; ok {
			return cur, true
		}
	}
	return NoScope, false
}

// Get looks up name by walking outward from s.
func (e *Environment) Get(s Scope, name string) (Value, bool) {
	owner, ok := e.resolve(s, name)
	if !ok {
		return nil, false
	}
	return e.scopes[owner].values[name], true
}

// Assign overwrites the innermost binding of name visible from s. It
// reports false if no binding exists.
func (e *Environment) Assign(s Scope, name string, value Value) bool {
	owner, ok := e.resolve(s, name)
	if !ok {
		return false
	}
	e.scopes[owner].values[name] = value
	return true
}

// DeclaredType returns the type name attached to the innermost binding of
// name. The second result is false if the name is unbound; the type is ""
// for untyped bindings.
func (e *Environment) DeclaredType(s Scope, name string) (string, bool) {
	owner, ok := e.resolve(s, name)
	if !ok {
		return "", false
	}
	return e.scopes[owner].types[name], true
}
