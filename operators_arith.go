package qlang

// PlusTable, MinusTable, MulTable and DivTable are the core's
// arithmetic dispatch tables, registered once in
// init() and consulted by the evaluator's BinaryOp node.
var (
	PlusTable = NewOperatorTable("+")
	MinusTable = NewOperatorTable("-")
	MulTable   = NewOperatorTable("*")
	DivTable   = NewOperatorTable("/")
	ModTable   = NewOperatorTable("%")
)

func init() {
	registerArithOperators()
	registerContainerOperators()
}

func registerArithOperators() {
	PlusTable.Register(TypeInt, TypeInt, func(l, r Value, sink *Sink) Value {
		return NewInteger(l.(*Integer).V + r.(*Integer).V)
	})
	PlusTable.Register(TypeFloat, OpAny, func(l, r Value, sink *Sink) Value {
		return NewFloat(l.ToFloat() + r.ToFloat())
	})
	PlusTable.Register(OpAny, TypeFloat, func(l, r Value, sink *Sink) Value {
		return NewFloat(l.ToFloat() + r.ToFloat())
	})
	PlusTable.Register(TypeString, OpAny, func(l, r Value, sink *Sink) Value {
		return l.(*String).Concat(r, sink)
	})
	PlusTable.Register(TypeDate, TypeDate, func(l, r Value, sink *Sink) Value {
		if d := l.(*Date).Add(r.(*Date)); d != nil {
			return d
		}
		if sink != nil {
			sink.Raise("OPERATOR-TYPE-ERROR", "cannot add two absolute dates", nil, nil)
		}
		return Nothing()
	})
	PlusTable.Register(TypeList, TypeList, func(l, r Value, sink *Sink) Value {
		return l.(*List).Concat(r.(*List))
	})
	PlusTable.Register(TypeList, OpAny, func(l, r Value, sink *Sink) Value {
		return l.(*List).Append(r)
	})
	PlusTable.Register(TypeHash, TypeHash, func(l, r Value, sink *Sink) Value {
		return l.(*Hash).Merge(r.(*Hash))
	})
	PlusTable.Register(OpAny, OpAny, func(l, r Value, sink *Sink) Value {
		return NewInteger(l.ToInt() + r.ToInt())
	})

	MinusTable.Register(TypeInt, TypeInt, func(l, r Value, sink *Sink) Value {
		return NewInteger(l.(*Integer).V - r.(*Integer).V)
	})
	MinusTable.Register(TypeFloat, OpAny, func(l, r Value, sink *Sink) Value {
		return NewFloat(l.ToFloat() - r.ToFloat())
	})
	MinusTable.Register(OpAny, TypeFloat, func(l, r Value, sink *Sink) Value {
		return NewFloat(l.ToFloat() - r.ToFloat())
	})
	MinusTable.Register(TypeDate, TypeDate, func(l, r Value, sink *Sink) Value {
		if d := l.(*Date).Sub(r.(*Date)); d != nil {
			return d
		}
		if sink != nil {
			sink.Raise("OPERATOR-TYPE-ERROR", "cannot subtract an absolute date from a relative date", nil, nil)
		}
		return Nothing()
	})
	MinusTable.Register(TypeHash, TypeString, func(l, r Value, sink *Sink) Value {
		return l.(*Hash).MinusKey(r.(*String).Go())
	})
	MinusTable.Register(TypeHash, TypeList, func(l, r Value, sink *Sink) Value {
		keys := make([]string, 0, r.(*List).Len())
		for _, it := range r.(*List).Items() {
			keys = append(keys, it.ToStringValue(sink).Go())
		}
		return l.(*Hash).MinusKeys(keys)
	})
	MinusTable.Register(OpAny, OpAny, func(l, r Value, sink *Sink) Value {
		return NewInteger(l.ToInt() - r.ToInt())
	})

	MulTable.Register(TypeInt, TypeInt, func(l, r Value, sink *Sink) Value {
		return NewInteger(l.(*Integer).V * r.(*Integer).V)
	})
	MulTable.Register(TypeFloat, OpAny, func(l, r Value, sink *Sink) Value {
		return NewFloat(l.ToFloat() * r.ToFloat())
	})
	MulTable.Register(OpAny, TypeFloat, func(l, r Value, sink *Sink) Value {
		return NewFloat(l.ToFloat() * r.ToFloat())
	})
	MulTable.Register(OpAny, OpAny, func(l, r Value, sink *Sink) Value {
		return NewInteger(l.ToInt() * r.ToInt())
	})

	DivTable.Register(TypeInt, TypeInt, func(l, r Value, sink *Sink) Value {
		rv := r.(*Integer).V
		if rv == 0 {
			if sink != nil {
				sink.Raise("DIVISION-BY-ZERO", "division by zero", nil, nil)
			}
			return Nothing()
		}
		return NewInteger(l.(*Integer).V / rv)
	})
	DivTable.Register(OpAny, OpAny, func(l, r Value, sink *Sink) Value {
		rv := r.ToFloat()
		if rv == 0 {
			if sink != nil {
				sink.Raise("DIVISION-BY-ZERO", "division by zero", nil, nil)
			}
			return Nothing()
		}
		return NewFloat(l.ToFloat() / rv)
	})

	ModTable.Register(TypeInt, TypeInt, func(l, r Value, sink *Sink) Value {
		rv := r.(*Integer).V
		if rv == 0 {
			if sink != nil {
				sink.Raise("DIVISION-BY-ZERO", "modulo by zero", nil, nil)
			}
			return Nothing()
		}
		return NewInteger(l.(*Integer).V % rv)
	})
}
