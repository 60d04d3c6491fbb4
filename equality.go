package qlang

// softEqual implements the cross-type coercion fallback of soft
// equality: grounded on
// original_source/lib/Operator.cc's OP_LOG_EQ/OP_LOG_NE, which
// coerces both operands to whichever of {float, int, string} the
// comparison needs rather than requiring identical types.
//
// Per-type IsEqualSoft methods handle their own type first (e.g.
// *String transcodes before comparing two strings); this function is
// the shared fallback every one of them calls once neither side is
// the receiver's own concrete type.
func softEqual(a, b Value, sink *Sink) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	// nothing/null never soft-equal anything but their own kind.
	_, aNothing := a.(*nothingType)
	_, bNothing := b.(*nothingType)
	_, aNull := a.(*nullType)
	_, bNull := b.(*nullType)
	if aNothing || bNothing {
		return aNothing && bNothing
	}
	if aNull || bNull {
		return aNull && bNull
	}

	switch a.Type() {
	case TypeFloat:
		return a.ToFloat() == b.ToFloat()
	case TypeInt:
		if b.Type() == TypeFloat {
			return a.ToFloat() == b.ToFloat()
		}
		return a.ToInt() == b.ToInt()
	case TypeBool:
		return a.ToBool() == b.ToBool()
	case TypeString:
		return a.ToStringValue(sink).Go() == b.ToStringValue(sink).Go()
	case TypeDate:
		return a.ToDate().IsEqual(b.ToDate())
	default:
		return a.IsEqualHard(b)
	}
}
