package qlang

import "sync"

// Object is a hash-like payload bound to a class descriptor, with
// identity semantics distinct from Hash: objects are always shared,
// never copy-on-write, and are the only container that participates
// in delete/destructor semantics. A validity flag is
// flipped by Delete before the final dereference runs the destructor,
// so both retirement paths — explicit delete, and the last reference
// dropping while still valid — converge on exactly one destructor
// call.
type Object struct {
	ref   *refTag
	class *Class

	mu      sync.Mutex // the object's member lock
	keys    []string
	members map[string]Value

	valid bool
}

func NewObject(class *Class) *Object {
	return &Object{
		ref:     newRefTag(),
		class:   class,
		members: make(map[string]Value),
		valid:   true,
	}
}

func (o *Object) Type() TypeTag  { return TypeObject }
func (o *Object) RefSelf() Value { o.ref.incr(); return o }

// Deref drops a reference; when the count reaches zero and the object
// is still valid (delete was never called), the destructor runs
// before members are released.
func (o *Object) Deref(sink *Sink) {
	if o.ref.decr() != 0 {
		return
	}
	if o.markInvalid() {
		o.runDestructorOnce(sink)
	}
	o.mu.Lock()
	members := o.members
	o.members = nil
	o.mu.Unlock()
	for _, v := range members {
		v.Deref(sink)
	}
}

// RealCopy is required by the Value interface but objects never
// copy-on-write: copying an object reference just bumps
// its count.
func (o *Object) RealCopy() Value { return o.RefSelf() }

func (o *Object) Class() *Class { return o.class }

func (o *Object) ToBool() bool     { return true }
func (o *Object) ToInt() int64     { return 1 }
func (o *Object) ToFloat() float64 { return 1 }
func (o *Object) ToDate() *Date    { return RelativeDateFromSeconds(1) }
func (o *Object) NeedsEval() bool  { return false }

func (o *Object) ToStringValue(sink *Sink) *String {
	name := "object"
	if o.class != nil {
		name = o.class.Name
	}
	return NewString(name, DefaultEncoding())
}

// IsEqualHard is identity comparison: two object references are hard
// equal only when they name the same underlying object.
func (o *Object) IsEqualHard(other Value) bool {
	p, ok := other.(*Object)
	return ok && p == o
}

func (o *Object) IsEqualSoft(other Value, sink *Sink) bool {
	return o.IsEqualHard(other)
}

func (o *Object) IsValid() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.valid
}

// Get implements `object.key` read semantics: if the
// member is absent and the class defines a member-gate method, the
// gate is called instead of returning nothing.
func (o *Object) Get(key string, sink *Sink) Value {
	o.mu.Lock()
	v, ok := o.members[key]
	valid := o.valid
	o.mu.Unlock()
	if ok {
		return v
	}
	if !valid {
		if sink != nil {
			sink.Raise("OBJECT-ALREADY-DELETED", "read of member '"+key+"' on a deleted object", nil, nil)
		}
		return Nothing()
	}
	if o.class != nil && o.class.MemberGate != nil {
		return o.class.MemberGate.Exec(o, []Value{NewString(key, DefaultEncoding())}, sink)
	}
	return Nothing()
}

// Set implements `object.key = v` write semantics. Writing a member on
// a deleted object raises OBJECT-ALREADY-DELETED rather than silently
// reviving it.
func (o *Object) Set(key string, v Value, sink *Sink) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.valid {
		if sink != nil {
			sink.Raise("OBJECT-ALREADY-DELETED", "write of member '"+key+"' on a deleted object", nil, nil)
		}
		return
	}
	if old, ok := o.members[key]; ok {
		old.Deref(sink)
	} else {
		o.keys = append(o.keys, key)
	}
	o.members[key] = v
}

func (o *Object) Exists(key string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.members[key]
	return ok
}

func (o *Object) Keys() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Delete runs the object's destructor (if it hasn't already run) and
// marks the object invalid, so any further member access raises
// OBJECT-ALREADY-DELETED. References to the object may still be held
// and dereferenced afterward — that drop no longer re-runs the
// destructor.
func (o *Object) Delete(sink *Sink) {
	already := !o.markInvalid()
	if already {
		if sink != nil {
			sink.Raise("OBJECT-ALREADY-DELETED", "delete on an already-deleted object", nil, nil)
		}
		return
	}
	o.runDestructorOnce(sink)
}

// markInvalid flips valid false and reports whether this call is the
// one that did it.
func (o *Object) markInvalid() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.valid {
		return false
	}
	o.valid = false
	return true
}

// runDestructorOnce is only ever reached once per object: both Delete
// and Deref funnel through markInvalid's single successful flip before
// calling this.
func (o *Object) runDestructorOnce(sink *Sink) {
	if o.class == nil || o.class.Destructor == nil {
		return
	}
	o.class.Destructor.Exec(o, nil, sink)
}
