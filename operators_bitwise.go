package qlang

// BitAndTable, BitOrTable, BitXorTable, ShiftLeftTable and
// ShiftRightTable back the &=, |=, ^=, <<= and >>= compound-assignment
// operators. Unlike the arithmetic tables they don't special-case
// float or string operands: both sides coerce through ToInt, matching
// the source's integer-only bitwise family.
var (
	BitAndTable     = NewOperatorTable("&")
	BitOrTable      = NewOperatorTable("|")
	BitXorTable     = NewOperatorTable("^")
	ShiftLeftTable  = NewOperatorTable("<<")
	ShiftRightTable = NewOperatorTable(">>")
)

func init() {
	registerBitwiseOperators()
}

func registerBitwiseOperators() {
	BitAndTable.Register(OpAny, OpAny, func(l, r Value, sink *Sink) Value {
		return NewInteger(l.ToInt() & r.ToInt())
	})
	BitOrTable.Register(OpAny, OpAny, func(l, r Value, sink *Sink) Value {
		return NewInteger(l.ToInt() | r.ToInt())
	})
	BitXorTable.Register(OpAny, OpAny, func(l, r Value, sink *Sink) Value {
		return NewInteger(l.ToInt() ^ r.ToInt())
	})
	ShiftLeftTable.Register(OpAny, OpAny, func(l, r Value, sink *Sink) Value {
		return NewInteger(l.ToInt() << uint(r.ToInt()&63))
	})
	ShiftRightTable.Register(OpAny, OpAny, func(l, r Value, sink *Sink) Value {
		return NewInteger(l.ToInt() >> uint(r.ToInt()&63))
	})
}
