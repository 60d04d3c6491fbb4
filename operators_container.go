package qlang

// InTable implements the membership test operator (`x in list`/`key
// in hash`): registered separately from the arithmetic tables since
// its result depends on traversing the right operand rather than
// combining two scalars.
var InTable = NewOperatorTable("in")

func registerContainerOperators() {
	InTable.Register(OpAny, TypeList, func(l, r Value, sink *Sink) Value {
		for _, item := range r.(*List).Items() {
			if l.IsEqualSoft(item, sink) {
				return True()
			}
		}
		return False()
	})
	InTable.Register(TypeString, TypeHash, func(l, r Value, sink *Sink) Value {
		return BoolOf(r.(*Hash).Exists(l.(*String).Go()))
	})
}

// InstanceOf implements `object instanceof Class`: true when obj's class is cls or descends
// from it.
func InstanceOf(v Value, cls *Class) bool {
	obj, ok := v.(*Object)
	if !ok {
		return false
	}
	return obj.Class().IsA(cls)
}
