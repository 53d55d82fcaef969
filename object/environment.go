package object

import (
	"fmt"

	"github.com/cmdneo/loxwalk/value"
)

// Environment is a chained symbol table: a mutable map of bindings
// plus an optional link to the enclosing environment. Closures,
// function activations and block scopes all share environments by
// reference, so the chain forms a DAG rather than a strict stack —
// a closure can outlive the block that created it.
type Environment struct {
	bindings  map[string]value.Value
	enclosing *Environment
}

// NewEnvironment creates a standalone environment with no parent,
// suitable for globals.
func NewEnvironment() *Environment {
	return &Environment{bindings: make(map[string]value.Value)}
}

// NewChildEnvironment creates a new environment enclosed by parent.
func NewChildEnvironment(parent *Environment) *Environment {
	return &Environment{bindings: make(map[string]value.Value), enclosing: parent}
}

// Define writes into the innermost (this) frame's map, overwriting
// any existing binding of the same name. This is how redefining a
// global ('var x; var x;' at the top level) works.
func (e *Environment) Define(name string, v value.Value) {
	e.bindings[name] = v
}

// Get walks the chain from innermost outward.
func (e *Environment) Get(name string) (value.Value, bool) {
	for env := e; env != nil; env = env.enclosing {
		if v, ok := env.bindings[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Assign walks the chain and writes into the first frame containing
// name; it reports failure if name is bound nowhere in the chain.
func (e *Environment) Assign(name string, v value.Value) bool {
	for env := e; env != nil; env = env.enclosing {
		if _, ok := env.bindings[name]; ok {
			env.bindings[name] = v
			return true
		}
	}
	return false
}

// GetAt hops exactly depth enclosing links and reads name directly
// out of that frame, without walking further. depth == 0 is e itself.
// The caller (the evaluator, driven by resolver-produced depths) must
// guarantee the name is bound there.
func (e *Environment) GetAt(depth int, name string) value.Value {
	v, ok := e.ancestor(depth).bindings[name]
	if !ok {
		panic(fmt.Sprintf("internal error: resolver lied about depth for %q", name))
	}
	return v
}

// AssignAt is the GetAt analog for writes.
func (e *Environment) AssignAt(depth int, name string, v value.Value) {
	e.ancestor(depth).bindings[name] = v
}

func (e *Environment) ancestor(depth int) *Environment {
	env := e
	for i := 0; i < depth; i++ {
		env = env.enclosing
	}
	return env
}
