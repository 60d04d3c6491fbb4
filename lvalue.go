package qlang

// StepKind distinguishes a hash/object member access from a list
// index access within an lvalue path.
type StepKind int

const (
	KeyStep StepKind = iota
	IndexStep
)

// PathStep is one link of an lvalue path: `$x.a[2].b` is the root
// variable `x` followed by three steps (KeyStep "a", IndexStep 2,
// KeyStep "b").
type PathStep struct {
	Kind  StepKind
	Key   string
	Index int
}

// LValue is an acquired write target: a root *Variable plus the path
// of container steps leading to the cell that will actually be read
// or written. The root's lock is taken once and held
// for the whole walk — COW copies made partway down the path happen
// under that single lock, never one lock per level.
type LValue struct {
	Root *Variable
	Path []PathStep
}

func NewLValue(root *Variable, path ...PathStep) *LValue {
	return &LValue{Root: root, Path: path}
}

// sharedContainer is implemented by every COW container (List, Hash);
// Object is deliberately excluded — objects are always shared, never
// copy-on-write.
type sharedContainer interface {
	Shared() bool
	RealCopy() Value
}

// ensureUnique returns a value guaranteed to have refcount 1: if v is
// a COW container with other owners, it is copied and the original
// reference released. Non-container values and already-unique
// containers are returned unchanged.
func ensureUnique(v Value, sink *Sink) Value {
	sc, ok := v.(sharedContainer)
	if !ok || !sc.Shared() {
		return v
	}
	cp := sc.RealCopy()
	v.Deref(sink)
	return cp
}

// Get reads the value at the lvalue's path without mutating anything.
func (l *LValue) Get(sink *Sink) Value {
	l.Root.mu.Lock()
	defer l.Root.mu.Unlock()

	cur := l.Root.v
	for _, step := range l.Path {
		cur = readStep(cur, step, sink)
		if cur == nil {
			return Nothing()
		}
	}
	return cur
}

// Set writes v at the lvalue's path, performing the ensure_unique COW
// walk under the single root lock.
// Intermediate path segments that don't exist yet are NOT created —
// an lvalue path is expected to already resolve to existing
// containers except for its final step (list/hash auto-extend on
// final-step write is handled by List.Set/Hash.Set themselves).
func (l *LValue) Set(v Value, sink *Sink) {
	l.Root.mu.Lock()
	defer l.Root.mu.Unlock()

	if len(l.Path) == 0 {
		old := l.Root.v
		l.Root.v = v
		if old != nil {
			old.Deref(sink)
		}
		return
	}

	l.Root.v = ensureUnique(l.Root.v, sink)
	setAlongPath(l.Root.v, l.Path, v, sink)
}

// setAlongPath walks container, ensuring uniqueness of every
// container it steps into, and applies v at the final step.
func setAlongPath(container Value, path []PathStep, v Value, sink *Sink) {
	step := path[0]
	if len(path) == 1 {
		writeStep(container, step, v, sink)
		return
	}
	orig := readStep(container, step, sink)
	child := ensureUnique(orig, sink)
	if child != orig {
		writeStep(container, step, child, sink)
	}
	setAlongPath(child, path[1:], v, sink)
}

// Mutate acquires the lvalue's lock once, reads the current value at
// the path, ensures whatever container holds it is uniquely owned,
// passes it to fn, and writes fn's first return value back if it's a
// different node than what was read. It returns fn's second value.
// This is the single-critical-section shape every compound-assignment
// and mutating-lvalue operator goes through: evaluate the right side
// first (the caller's job, before calling Mutate), then lock, mutate,
// unlock on every exit path including the ones where fn raises into
// sink and leaves the lvalue untouched by returning its own input as
// the next value.
func (l *LValue) Mutate(sink *Sink, fn func(cur Value) (next, ret Value)) Value {
	l.Root.mu.Lock()
	defer l.Root.mu.Unlock()

	if len(l.Path) == 0 {
		unique := ensureUnique(l.Root.v, sink)
		l.Root.v = unique
		next, ret := fn(unique)
		if next != unique {
			if unique != nil {
				unique.Deref(sink)
			}
			l.Root.v = next
		}
		return ret
	}

	l.Root.v = ensureUnique(l.Root.v, sink)
	return mutateAlongPath(l.Root.v, l.Path, fn, sink)
}

// mutateAlongPath walks container down to the step fn applies to,
// ensuring uniqueness of the cell itself (not just the containers
// above it) before handing it to fn.
func mutateAlongPath(container Value, path []PathStep, fn func(Value) (Value, Value), sink *Sink) Value {
	step := path[0]
	orig := readStep(container, step, sink)
	unique := ensureUnique(orig, sink)
	if unique != orig {
		writeStep(container, step, unique, sink)
	}
	if len(path) == 1 {
		next, ret := fn(unique)
		if next != unique {
			writeStep(container, step, next, sink)
		}
		return ret
	}
	return mutateAlongPath(unique, path[1:], fn, sink)
}

func readStep(container Value, step PathStep, sink *Sink) Value {
	switch c := container.(type) {
	case *List:
		if step.Kind != IndexStep {
			return Nothing()
		}
		return c.Get(step.Index)
	case *Hash:
		if step.Kind != KeyStep {
			return Nothing()
		}
		return c.Get(step.Key)
	case *Object:
		if step.Kind != KeyStep {
			return Nothing()
		}
		return c.Get(step.Key, sink)
	default:
		return Nothing()
	}
}

func writeStep(container Value, step PathStep, v Value, sink *Sink) {
	switch c := container.(type) {
	case *List:
		if step.Kind == IndexStep {
			c.Set(step.Index, v, sink)
		}
	case *Hash:
		if step.Kind == KeyStep {
			c.Set(step.Key, v)
		}
	case *Object:
		if step.Kind == KeyStep {
			c.Set(step.Key, v, sink)
		}
	}
}
