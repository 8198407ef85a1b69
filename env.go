package oxide

import "oxide-lang.dev/oxide/resolve"

// Cell is one binding in an Environment: a name's declared type, mutability,
// and current value. assigned tracks whether an initializer-less `let` has
// received its first value yet; a second assignment to an immutable cell
// (mut == false) after assigned becomes true is a runtime error, mirroring
// the deferred "assign once" enforcement noted in the resolver.
type Cell struct {
	Type     *resolve.Type
	Mut      bool
	Value    Value
	assigned bool
}

// Environment is a lexical scope: a name-to-Cell map chained to a parent.
// Function values close over the Environment in force at the point they are
// evaluated, so a closure over the global environment observes top-level
// names defined after the closure's own creation, as long as they exist by
// the time the closure is actually called.
type Environment struct {
	vars   map[string]*Cell
	parent *Environment
}

// NewEnvironment creates a fresh environment chained to parent (nil for the
// outermost, global environment).
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{vars: make(map[string]*Cell), parent: parent}
}

// Define introduces a new binding in env itself, shadowing any of the same
// name in an ancestor.
func (env *Environment) Define(name string, c *Cell) {
	env.vars[name] = c
}

// Lookup walks the environment chain outward and returns the first cell
// bound to name.
func (env *Environment) Lookup(name string) (*Cell, bool) {
	for e := env; e != nil; e = e.parent {
		if c, ok := e.vars[name]; ok {
			return c, true
		}
	}
	return nil, false
}

// Assign stores v into the cell bound to name, honoring mutability and
// assign-once rules. It returns an error if name is unbound or the cell is
// immutable and already holds a value; the resolver has already checked
// that v's static type fits the cell's declared type, so Assign trusts it.
func (env *Environment) Assign(name string, v Value) error {
	c, ok := env.Lookup(name)
	if !ok {
		return errf("undefined identifier %q", name)
	}
	if !c.Mut && c.assigned {
		return errf("cannot assign to immutable variable %q", name)
	}
	c.Value = v
	c.assigned = true
	return nil
}
