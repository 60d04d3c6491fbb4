package qlang

import (
	"strconv"
	"strings"

	"github.com/clarete/qlang/encoding"
)

// String is a byte buffer plus a reference to an encoding descriptor:
// the encoding is part of the value's identity for
// byte-level operations, and character-length operations go through
// the descriptor's length function.
type String struct {
	ref *refTag
	buf []byte
	enc *encoding.Descriptor
}

func NewString(s string, enc *encoding.Descriptor) *String {
	if enc == nil {
		enc = DefaultEncoding()
	}
	return &String{ref: newRefTag(), buf: []byte(s), enc: enc}
}

func NewStringBytes(b []byte, enc *encoding.Descriptor) *String {
	if enc == nil {
		enc = DefaultEncoding()
	}
	return &String{ref: newRefTag(), buf: b, enc: enc}
}

func (s *String) Type() TypeTag    { return TypeString }
func (s *String) RefSelf() Value   { s.ref.incr(); return s }
func (s *String) Deref(sink *Sink) { s.ref.decr() }
func (s *String) RealCopy() Value {
	b := make([]byte, len(s.buf))
	copy(b, s.buf)
	return &String{ref: newRefTag(), buf: b, enc: s.enc}
}

func (s *String) Go() string               { return string(s.buf) }
func (s *String) Bytes() []byte            { return s.buf }
func (s *String) Encoding() *encoding.Descriptor { return s.enc }

// ByteLen is the raw byte length, used by `[]`-style byte-level
// operations.
func (s *String) ByteLen() int { return len(s.buf) }

// CharLen is the character length under this string's own encoding.
func (s *String) CharLen() int { return s.enc.CharLength(s.buf) }

func (s *String) ToBool() bool { return len(s.buf) > 0 }

func (s *String) ToInt() int64 {
	trimmed := strings.TrimSpace(string(s.buf))
	i := 0
	for i < len(trimmed) && (trimmed[i] == '+' || trimmed[i] == '-') {
		i++
	}
	j := i
	for j < len(trimmed) && trimmed[j] >= '0' && trimmed[j] <= '9' {
		j++
	}
	if j == i {
		return 0
	}
	v, err := strconv.ParseInt(trimmed[:j], 10, 64)
	if err != nil {
		return 0
	}
	if i > 0 && trimmed[0] == '-' {
		return -v
	}
	return v
}

func (s *String) ToFloat() float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(string(s.buf)), 64)
	if err != nil {
		return float64(s.ToInt())
	}
	return v
}

func (s *String) ToDate() *Date {
	d, err := ParseAbsoluteDate(string(s.buf))
	if err != nil {
		return RelativeDateFromSeconds(0)
	}
	return d
}

func (s *String) ToStringValue(sink *Sink) *String { return s }
func (s *String) NeedsEval() bool                   { return false }

func (s *String) IsEqualHard(other Value) bool {
	o, ok := other.(*String)
	if !ok {
		return false
	}
	return o.enc == s.enc && string(o.buf) == string(s.buf)
}

func (s *String) IsEqualSoft(other Value, sink *Sink) bool {
	if o, ok := other.(*String); ok {
		if o.enc == s.enc {
			return string(o.buf) == string(s.buf)
		}
		transcoded, err := encoding.Transcode(o.buf, o.enc, s.enc)
		if err != nil {
			if sink != nil {
				sink.Raise("ENCODING-ERROR", err.Error(), nil, nil)
			}
			return false
		}
		return string(transcoded) == string(s.buf)
	}
	return softEqual(s, other, sink)
}

// Concat implements string + value: string+string
// transcodes the right side to the left's encoding before
// concatenating; string+number coerces the number to a string first.
func (s *String) Concat(other Value, sink *Sink) *String {
	if o, ok := other.(*String); ok {
		rbuf := o.buf
		if o.enc != s.enc {
			t, err := encoding.Transcode(o.buf, o.enc, s.enc)
			if err != nil {
				if sink != nil {
					sink.Raise("ENCODING-ERROR", err.Error(), nil, nil)
				}
				return NewStringBytes(append(append([]byte{}, s.buf...)), s.enc)
			}
			rbuf = t
		}
		out := make([]byte, 0, len(s.buf)+len(rbuf))
		out = append(out, s.buf...)
		out = append(out, rbuf...)
		return NewStringBytes(out, s.enc)
	}
	rs := other.ToStringValue(sink)
	out := make([]byte, 0, len(s.buf)+len(rs.buf))
	out = append(out, s.buf...)
	out = append(out, rs.buf...)
	return NewStringBytes(out, s.enc)
}

func formatInt(v int64) string     { return strconv.FormatInt(v, 10) }
func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
