package qlang

// List is an ordered, copy-on-write sequence of nodes. A
// mutating operation on a list whose reference count is greater than
// 1 duplicates first; the duplication
// itself is driven by the lvalue helper's ensureUnique, not by List
// itself — these methods assume the caller already holds the single
// writable owner.
type List struct {
	ref   *refTag
	items []Value
}

func NewList(items []Value) *List { return &List{ref: newRefTag(), items: items} }

func (l *List) Type() TypeTag    { return TypeList }
func (l *List) RefSelf() Value   { l.ref.incr(); return l }
func (l *List) Deref(sink *Sink) {
	if l.ref.decr() == 0 {
		for _, it := range l.items {
			it.Deref(sink)
		}
	}
}

// RealCopy produces a deep-unique list: the outer slice is always
// duplicated, but element nodes are shared by refcount bump — inner
// containers are copied lazily the first time *they* are written.
func (l *List) RealCopy() Value {
	cp := make([]Value, len(l.items))
	for i, it := range l.items {
		cp[i] = it.RefSelf()
	}
	return &List{ref: newRefTag(), items: cp}
}

func (l *List) Shared() bool { return l.ref.shared() }
func (l *List) Len() int     { return len(l.items) }
func (l *List) Items() []Value { return l.items }

func (l *List) ToBool() bool     { return len(l.items) > 0 }
func (l *List) ToInt() int64     { return int64(len(l.items)) }
func (l *List) ToFloat() float64 { return float64(len(l.items)) }
func (l *List) ToDate() *Date    { return RelativeDateFromSeconds(l.ToInt()) }
func (l *List) NeedsEval() bool  { return false }

func (l *List) ToStringValue(sink *Sink) *String {
	return NewString("list", DefaultEncoding())
}

func (l *List) IsEqualHard(other Value) bool {
	o, ok := other.(*List)
	if !ok || len(o.items) != len(l.items) {
		return false
	}
	for i := range l.items {
		if !l.items[i].IsEqualHard(o.items[i]) {
			return false
		}
	}
	return true
}

func (l *List) IsEqualSoft(other Value, sink *Sink) bool {
	o, ok := other.(*List)
	if !ok || len(o.items) != len(l.items) {
		return false
	}
	for i := range l.items {
		if !l.items[i].IsEqualSoft(o.items[i], sink) {
			return false
		}
	}
	return true
}

// Get implements `list[i]` read semantics: negative i
// is never treated as end-relative here (that's `splice`'s job) and
// silently yields nothing, matching the original's
// get_referenced_entry behavior; reading past the end also yields
// nothing.
func (l *List) Get(i int) Value {
	if i < 0 || i >= len(l.items) {
		return Nothing()
	}
	return l.items[i]
}

// Set implements `list[i] = v` write semantics: writing past the end
// extends with nothing up to the index. Negative i is
// a no-op, mirroring Get's silent-nothing treatment.
func (l *List) Set(i int, v Value, sink *Sink) {
	if i < 0 {
		return
	}
	for len(l.items) <= i {
		l.items = append(l.items, Nothing())
	}
	old := l.items[i]
	old.Deref(sink)
	l.items[i] = v
}

func (l *List) Push(v Value) { l.items = append(l.items, v) }

func (l *List) Pop() Value {
	if len(l.items) == 0 {
		return Nothing()
	}
	v := l.items[len(l.items)-1]
	l.items = l.items[:len(l.items)-1]
	return v
}

func (l *List) Unshift(v Value) {
	l.items = append([]Value{v}, l.items...)
}

func (l *List) Shift() Value {
	if len(l.items) == 0 {
		return Nothing()
	}
	v := l.items[0]
	l.items = l.items[1:]
	return v
}

// normalizeSliceIndex resolves an end-relative (negative) index for
// slice-family operators, which DO support negative indexing.
func normalizeSliceIndex(i, length int) int {
	if i < 0 {
		i += length
	}
	if i < 0 {
		i = 0
	}
	if i > length {
		i = length
	}
	return i
}

// Splice removes length elements starting at offset (both end-relative
// via normalizeSliceIndex) and replaces them with replacement,
// returning the removed elements.
func (l *List) Splice(offset, length int, replacement []Value) []Value {
	n := len(l.items)
	start := normalizeSliceIndex(offset, n)
	end := start + length
	if length < 0 || end > n {
		end = n
	}
	if end < start {
		end = start
	}

	removed := make([]Value, end-start)
	copy(removed, l.items[start:end])

	out := make([]Value, 0, start+len(replacement)+(n-end))
	out = append(out, l.items[:start]...)
	out = append(out, replacement...)
	out = append(out, l.items[end:]...)
	l.items = out
	return removed
}

// Slice returns a new *List (fresh refcount, sharing element
// references) covering [offset, offset+length), end-relative.
func (l *List) Slice(offset, length int) *List {
	n := len(l.items)
	start := normalizeSliceIndex(offset, n)
	end := start + length
	if length < 0 || end > n {
		end = n
	}
	if end < start {
		end = start
	}
	out := make([]Value, end-start)
	for i, v := range l.items[start:end] {
		out[i] = v.RefSelf()
	}
	return NewList(out)
}

// Concat implements list+list: concatenates copies.
func (l *List) Concat(other *List) *List {
	out := make([]Value, 0, len(l.items)+len(other.items))
	for _, v := range l.items {
		out = append(out, v.RefSelf())
	}
	for _, v := range other.items {
		out = append(out, v.RefSelf())
	}
	return NewList(out)
}

// Append implements list+value: appends a single value.
func (l *List) Append(v Value) *List {
	out := make([]Value, 0, len(l.items)+1)
	for _, it := range l.items {
		out = append(out, it.RefSelf())
	}
	out = append(out, v)
	return NewList(out)
}
