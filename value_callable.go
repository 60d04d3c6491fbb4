package qlang

// Callable is a first-class reference to a function, closure, or bound
// method. It wraps a plain Go func so the runtime core
// stays agnostic to how call targets were produced — parsed function,
// compiled closure over captured scope, or method bound to an
// instance — mirroring how Method (class.go) wraps one for the object
// case.
type Callable struct {
	ref     *refTag
	Name    string
	Closure []Value // captured upvalues, refcounted like any other node
	Fn      func(args []Value, sink *Sink) Value
}

func NewCallable(name string, fn func(args []Value, sink *Sink) Value, closure []Value) *Callable {
	return &Callable{ref: newRefTag(), Name: name, Fn: fn, Closure: closure}
}

func (c *Callable) Type() TypeTag  { return TypeCallable }
func (c *Callable) RefSelf() Value { c.ref.incr(); return c }

func (c *Callable) Deref(sink *Sink) {
	if c.ref.decr() == 0 {
		for _, v := range c.Closure {
			v.Deref(sink)
		}
	}
}

// RealCopy: callables are immutable references once built, so copying
// one is the same as sharing it — there's no mutable payload a second
// owner could corrupt.
func (c *Callable) RealCopy() Value { return c.RefSelf() }

func (c *Callable) ToBool() bool     { return c.Fn != nil }
func (c *Callable) ToInt() int64     { return 0 }
func (c *Callable) ToFloat() float64 { return 0 }
func (c *Callable) ToDate() *Date    { return RelativeDateFromSeconds(0) }
func (c *Callable) NeedsEval() bool  { return false }

func (c *Callable) ToStringValue(sink *Sink) *String {
	return NewString("function "+c.Name, DefaultEncoding())
}

func (c *Callable) IsEqualHard(other Value) bool {
	o, ok := other.(*Callable)
	return ok && o == c
}

func (c *Callable) IsEqualSoft(other Value, sink *Sink) bool {
	return c.IsEqualHard(other)
}

// Exec invokes the callable. A nil Fn (a reference to a callable that
// was never bound to a body) yields nothing rather than panicking —
// compiled call targets are out of this core's scope.
func (c *Callable) Exec(args []Value, sink *Sink) Value {
	if c.Fn == nil {
		return Nothing()
	}
	return c.Fn(args, sink)
}
