package qlang

// Hash is a copy-on-write mapping from unique string keys to node
// values, with insertion order preserved and observable to iteration.
type Hash struct {
	ref  *refTag
	keys []string
	m    map[string]Value
}

func NewHash() *Hash {
	return &Hash{ref: newRefTag(), m: make(map[string]Value)}
}

func (h *Hash) Type() TypeTag    { return TypeHash }
func (h *Hash) RefSelf() Value   { h.ref.incr(); return h }
func (h *Hash) Deref(sink *Sink) {
	if h.ref.decr() == 0 {
		for _, v := range h.m {
			v.Deref(sink)
		}
	}
}

func (h *Hash) RealCopy() Value {
	cp := NewHash()
	cp.keys = append([]string{}, h.keys...)
	for k, v := range h.m {
		cp.m[k] = v.RefSelf()
	}
	return cp
}

func (h *Hash) Shared() bool  { return h.ref.shared() }
func (h *Hash) Len() int      { return len(h.keys) }
func (h *Hash) Keys() []string { return h.keys }

func (h *Hash) ToBool() bool     { return len(h.keys) > 0 }
func (h *Hash) ToInt() int64     { return int64(len(h.keys)) }
func (h *Hash) ToFloat() float64 { return float64(len(h.keys)) }
func (h *Hash) ToDate() *Date    { return RelativeDateFromSeconds(h.ToInt()) }
func (h *Hash) NeedsEval() bool  { return false }

func (h *Hash) ToStringValue(sink *Sink) *String {
	return NewString("hash", DefaultEncoding())
}

func (h *Hash) IsEqualHard(other Value) bool {
	o, ok := other.(*Hash)
	if !ok || len(o.keys) != len(h.keys) {
		return false
	}
	for i, k := range h.keys {
		if o.keys[i] != k {
			return false
		}
		ov, present := o.m[k]
		if !present || !h.m[k].IsEqualHard(ov) {
			return false
		}
	}
	return true
}

func (h *Hash) IsEqualSoft(other Value, sink *Sink) bool {
	o, ok := other.(*Hash)
	if !ok || len(o.keys) != len(h.keys) {
		return false
	}
	for _, k := range h.keys {
		ov, present := o.m[k]
		if !present || !h.m[k].IsEqualSoft(ov, sink) {
			return false
		}
	}
	return true
}

// Exists reports whether key is present, without the coercions `Get`
// implies — this is what `exists $h.key` consults.
func (h *Hash) Exists(key string) bool {
	_, ok := h.m[key]
	return ok
}

// Get returns the value bound to key, or nothing if absent. Member-gate dispatch for objects
// is handled in value_object.go, one layer up.
func (h *Hash) Get(key string) Value {
	if v, ok := h.m[key]; ok {
		return v
	}
	return Nothing()
}

// Set creates or overwrites key, preserving insertion order: an
// existing key keeps its original position.
func (h *Hash) Set(key string, v Value) {
	if old, ok := h.m[key]; ok {
		old.Deref(nil)
	} else {
		h.keys = append(h.keys, key)
	}
	h.m[key] = v
}

// DeleteKey removes key in place, returning the removed value (or
// nothing if absent).
func (h *Hash) DeleteKey(key string) Value {
	v, ok := h.m[key]
	if !ok {
		return Nothing()
	}
	delete(h.m, key)
	for i, k := range h.keys {
		if k == key {
			h.keys = append(h.keys[:i], h.keys[i+1:]...)
			break
		}
	}
	return v
}

// Merge implements hash+hash: right wins on key
// collision, and iteration order is left's key order followed by
// right's keys new to the result, in right's order.
func (h *Hash) Merge(other *Hash) *Hash {
	out := NewHash()
	for _, k := range h.keys {
		out.Set(k, h.m[k].RefSelf())
	}
	for _, k := range other.keys {
		if old, ok := out.m[k]; ok {
			old.Deref(nil)
			out.m[k] = other.m[k].RefSelf()
		} else {
			out.Set(k, other.m[k].RefSelf())
		}
	}
	return out
}

// MinusKey implements hash-string: removes that key.
func (h *Hash) MinusKey(key string) *Hash {
	out := h.RealCopy().(*Hash)
	out.DeleteKey(key)
	return out
}

// MinusKeys implements hash-list: removes every key
// named in the list.
func (h *Hash) MinusKeys(keys []string) *Hash {
	out := h.RealCopy().(*Hash)
	for _, k := range keys {
		out.DeleteKey(k)
	}
	return out
}
