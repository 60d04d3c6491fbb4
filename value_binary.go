package qlang

// Binary is an immutable byte buffer value node.
type Binary struct {
	ref *refTag
	buf []byte
}

func NewBinary(b []byte) *Binary { return &Binary{ref: newRefTag(), buf: b} }

func (b *Binary) Type() TypeTag    { return TypeBinary }
func (b *Binary) RefSelf() Value   { b.ref.incr(); return b }
func (b *Binary) Deref(sink *Sink) { b.ref.decr() }
func (b *Binary) RealCopy() Value {
	cp := make([]byte, len(b.buf))
	copy(cp, b.buf)
	return NewBinary(cp)
}

func (b *Binary) Bytes() []byte { return b.buf }
func (b *Binary) Len() int      { return len(b.buf) }

func (b *Binary) ToBool() bool     { return len(b.buf) > 0 }
func (b *Binary) ToInt() int64     { return int64(len(b.buf)) }
func (b *Binary) ToFloat() float64 { return float64(len(b.buf)) }
func (b *Binary) ToDate() *Date    { return RelativeDateFromSeconds(b.ToInt()) }
func (b *Binary) NeedsEval() bool  { return false }

func (b *Binary) ToStringValue(sink *Sink) *String {
	return NewString(b.Base64(), DefaultEncoding())
}

func (b *Binary) IsEqualHard(other Value) bool {
	o, ok := other.(*Binary)
	if !ok || len(o.buf) != len(b.buf) {
		return false
	}
	for i := range b.buf {
		if b.buf[i] != o.buf[i] {
			return false
		}
	}
	return true
}

func (b *Binary) IsEqualSoft(other Value, sink *Sink) bool {
	if o, ok := other.(*Binary); ok {
		return b.IsEqualHard(o)
	}
	return softEqual(b, other, sink)
}
