package qlang

import "math"

// Integer is a 64-bit signed value node. Like every other node it
// carries its own refcount (original_source/lib/Operator.cc treats
// every arithmetic result as a freshly counted node), even though in
// practice small integers are cheap enough to copy outright.
type Integer struct {
	ref *refTag
	V   int64
}

func NewInteger(v int64) *Integer { return &Integer{ref: newRefTag(), V: v} }

func (n *Integer) Type() TypeTag    { return TypeInt }
func (n *Integer) RefSelf() Value   { n.ref.incr(); return n }
func (n *Integer) Deref(sink *Sink) { n.ref.decr() }
func (n *Integer) RealCopy() Value  { return NewInteger(n.V) }
func (n *Integer) ToBool() bool     { return n.V != 0 }
func (n *Integer) ToInt() int64     { return n.V }
func (n *Integer) ToFloat() float64 { return float64(n.V) }
func (n *Integer) ToDate() *Date    { return RelativeDateFromSeconds(n.V) }
func (n *Integer) NeedsEval() bool  { return false }
func (n *Integer) ToStringValue(sink *Sink) *String {
	return NewString(formatInt(n.V), DefaultEncoding())
}

func (n *Integer) IsEqualHard(other Value) bool {
	o, ok := other.(*Integer)
	return ok && o.V == n.V
}

func (n *Integer) IsEqualSoft(other Value, sink *Sink) bool {
	return softEqual(n, other, sink)
}

// Float is a 64-bit IEEE value node.
type Float struct {
	ref *refTag
	V   float64
}

func NewFloat(v float64) *Float { return &Float{ref: newRefTag(), V: v} }

func (n *Float) Type() TypeTag    { return TypeFloat }
func (n *Float) RefSelf() Value   { n.ref.incr(); return n }
func (n *Float) Deref(sink *Sink) { n.ref.decr() }
func (n *Float) RealCopy() Value  { return NewFloat(n.V) }
func (n *Float) ToBool() bool     { return n.V != 0 }
func (n *Float) ToInt() int64     { return int64(n.V) }
func (n *Float) ToFloat() float64 { return n.V }
func (n *Float) ToDate() *Date    { return RelativeDateFromSeconds(int64(n.V)) }
func (n *Float) NeedsEval() bool  { return false }
func (n *Float) ToStringValue(sink *Sink) *String {
	return NewString(formatFloat(n.V), DefaultEncoding())
}

func (n *Float) IsEqualHard(other Value) bool {
	o, ok := other.(*Float)
	return ok && math.Float64bits(o.V) == math.Float64bits(n.V) // bit-equal
}

func (n *Float) IsEqualSoft(other Value, sink *Sink) bool {
	return softEqual(n, other, sink)
}

// Bool is one of two shared singletons: there is never
// more than one `true` node and one `false` node in a process.
type Bool struct {
	ref *refTag
	V   bool
}

var (
	trueSingleton  = &Bool{ref: newRefTag(), V: true}
	falseSingleton = &Bool{ref: newRefTag(), V: false}
)

// True returns the shared `true` node.
func True() *Bool { return trueSingleton }

// False returns the shared `false` node.
func False() *Bool { return falseSingleton }

// BoolOf returns the shared singleton for v.
func BoolOf(v bool) *Bool {
	if v {
		return True()
	}
	return False()
}

func (n *Bool) Type() TypeTag    { return TypeBool }
func (n *Bool) RefSelf() Value   { n.ref.incr(); return n }
func (n *Bool) Deref(sink *Sink) { n.ref.decr() } // singleton: never actually freed
func (n *Bool) RealCopy() Value  { return n }      // immutable singleton, nothing to copy
func (n *Bool) ToBool() bool     { return n.V }
func (n *Bool) ToInt() int64 {
	if n.V {
		return 1
	}
	return 0
}
func (n *Bool) ToFloat() float64 {
	if n.V {
		return 1
	}
	return 0
}
func (n *Bool) ToDate() *Date   { return RelativeDateFromSeconds(n.ToInt()) }
func (n *Bool) NeedsEval() bool { return false }
func (n *Bool) ToStringValue(sink *Sink) *String {
	if n.V {
		return NewString("true", DefaultEncoding())
	}
	return NewString("false", DefaultEncoding())
}

func (n *Bool) IsEqualHard(other Value) bool {
	o, ok := other.(*Bool)
	return ok && o.V == n.V
}

func (n *Bool) IsEqualSoft(other Value, sink *Sink) bool {
	return softEqual(n, other, sink)
}

// nothingType is the absence-of-value singleton: "no
// value assigned". Distinct from Null.
type nothingType struct{ ref *refTag }

var nothingSingleton = &nothingType{ref: newRefTag()}

// Nothing returns the shared `nothing` node.
func Nothing() Value { return nothingSingleton }

func (n *nothingType) Type() TypeTag    { return TypeNothing }
func (n *nothingType) RefSelf() Value   { n.ref.incr(); return n }
func (n *nothingType) Deref(sink *Sink) { n.ref.decr() }
func (n *nothingType) RealCopy() Value  { return n }
func (n *nothingType) ToBool() bool     { return false }
func (n *nothingType) ToInt() int64     { return 0 }
func (n *nothingType) ToFloat() float64 { return 0 }
func (n *nothingType) ToDate() *Date    { return RelativeDateFromSeconds(0) }
func (n *nothingType) NeedsEval() bool  { return false }
func (n *nothingType) ToStringValue(sink *Sink) *String {
	return NewString("", DefaultEncoding())
}

func (n *nothingType) IsEqualHard(other Value) bool {
	_, ok := other.(*nothingType)
	return ok
}

func (n *nothingType) IsEqualSoft(other Value, sink *Sink) bool {
	_, ok := other.(*nothingType)
	return ok // nothing only soft-equals nothing; never null
}

// nullType is the explicit SQL-style null singleton.
type nullType struct{ ref *refTag }

var nullSingleton = &nullType{ref: newRefTag()}

// Null returns the shared `null` node.
func Null() Value { return nullSingleton }

func (n *nullType) Type() TypeTag    { return TypeNull }
func (n *nullType) RefSelf() Value   { n.ref.incr(); return n }
func (n *nullType) Deref(sink *Sink) { n.ref.decr() }
func (n *nullType) RealCopy() Value  { return n }
func (n *nullType) ToBool() bool     { return false }
func (n *nullType) ToInt() int64     { return 0 }
func (n *nullType) ToFloat() float64 { return 0 }
func (n *nullType) ToDate() *Date    { return RelativeDateFromSeconds(0) }
func (n *nullType) NeedsEval() bool  { return false }
func (n *nullType) ToStringValue(sink *Sink) *String {
	return NewString("", DefaultEncoding())
}

func (n *nullType) IsEqualHard(other Value) bool {
	_, ok := other.(*nullType)
	return ok
}

func (n *nullType) IsEqualSoft(other Value, sink *Sink) bool {
	_, ok := other.(*nullType)
	return ok
}
