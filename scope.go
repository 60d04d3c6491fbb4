package qlang

import "sync"

// Variable is a boxed lvalue slot: the unit lvalue acquisition locks.
// Closures capture a *Variable, not a Value, so writes through one
// alias are visible through every other.
type Variable struct {
	mu sync.Mutex
	v  Value
}

func NewVariable(v Value) *Variable { return &Variable{v: v} }

func (vr *Variable) Get() Value {
	vr.mu.Lock()
	defer vr.mu.Unlock()
	return vr.v
}

// Set replaces the variable's value outright (`$x = v`, no path),
// dereferencing whatever it held before.
func (vr *Variable) Set(v Value, sink *Sink) {
	vr.mu.Lock()
	old := vr.v
	vr.v = v
	vr.mu.Unlock()
	if old != nil {
		old.Deref(sink)
	}
}

// Scope is a lexical frame of name -> *Variable bindings, chained to
// its enclosing scope. Lookup walks outward, matching
// the evaluator's block/function nesting.
type Scope struct {
	parent *Scope
	vars   map[string]*Variable
}

func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, vars: make(map[string]*Variable)}
}

// Declare binds name in this scope only, shadowing any outer binding
// of the same name, and returns the new slot.
func (s *Scope) Declare(name string, v Value) *Variable {
	vr := NewVariable(v)
	s.vars[name] = vr
	return vr
}

// Lookup finds name's slot, searching outward through enclosing
// scopes; nil if unbound.
func (s *Scope) Lookup(name string) *Variable {
	for cur := s; cur != nil; cur = cur.parent {
		if vr, ok := cur.vars[name]; ok {
			return vr
		}
	}
	return nil
}
