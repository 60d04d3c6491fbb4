package qlang

// LessTable, GreaterTable, LessEqTable and GreaterEqTable are the
// core's relational dispatch tables. Soft equality and
// inequality use Value.IsEqualSoft/IsEqualHard directly rather than a
// table, since they're defined uniformly over every type pair.
var (
	LessTable      = NewOperatorTable("<")
	GreaterTable   = NewOperatorTable(">")
	LessEqTable    = NewOperatorTable("<=")
	GreaterEqTable = NewOperatorTable(">=")
)

func init() {
	registerCompareOperators()
}

func registerCompareOperators() {
	LessTable.Register(TypeString, TypeString, func(l, r Value, sink *Sink) Value {
		return BoolOf(l.(*String).Go() < r.(*String).Go())
	})
	LessTable.Register(OpAny, OpAny, func(l, r Value, sink *Sink) Value {
		if isFloaty(l) || isFloaty(r) {
			return BoolOf(l.ToFloat() < r.ToFloat())
		}
		return BoolOf(l.ToInt() < r.ToInt())
	})

	GreaterTable.Register(TypeString, TypeString, func(l, r Value, sink *Sink) Value {
		return BoolOf(l.(*String).Go() > r.(*String).Go())
	})
	GreaterTable.Register(OpAny, OpAny, func(l, r Value, sink *Sink) Value {
		if isFloaty(l) || isFloaty(r) {
			return BoolOf(l.ToFloat() > r.ToFloat())
		}
		return BoolOf(l.ToInt() > r.ToInt())
	})

	LessEqTable.Register(TypeString, TypeString, func(l, r Value, sink *Sink) Value {
		return BoolOf(l.(*String).Go() <= r.(*String).Go())
	})
	LessEqTable.Register(OpAny, OpAny, func(l, r Value, sink *Sink) Value {
		if isFloaty(l) || isFloaty(r) {
			return BoolOf(l.ToFloat() <= r.ToFloat())
		}
		return BoolOf(l.ToInt() <= r.ToInt())
	})

	GreaterEqTable.Register(TypeString, TypeString, func(l, r Value, sink *Sink) Value {
		return BoolOf(l.(*String).Go() >= r.(*String).Go())
	})
	GreaterEqTable.Register(OpAny, OpAny, func(l, r Value, sink *Sink) Value {
		if isFloaty(l) || isFloaty(r) {
			return BoolOf(l.ToFloat() >= r.ToFloat())
		}
		return BoolOf(l.ToInt() >= r.ToInt())
	})
}

func isFloaty(v Value) bool { return v.Type() == TypeFloat }
