package qlang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefTag_SharedFlips(t *testing.T) {
	r := newRefTag()
	assert.False(t, r.shared())
	r.incr()
	assert.True(t, r.shared())
	assert.EqualValues(t, 1, r.decr())
	assert.False(t, r.shared())
}

func TestNothingAndNull_NeverEqualEachOther(t *testing.T) {
	assert.True(t, Nothing().IsEqualSoft(Nothing(), nil))
	assert.True(t, Null().IsEqualSoft(Null(), nil))
	assert.False(t, Nothing().IsEqualSoft(Null(), nil))
	assert.False(t, Null().IsEqualSoft(Nothing(), nil))
}

func TestBool_Singletons(t *testing.T) {
	assert.Same(t, True(), BoolOf(true))
	assert.Same(t, False(), BoolOf(false))
}

func TestInteger_SoftEqualCoercesString(t *testing.T) {
	i := NewInteger(42)
	s := NewString("42", DefaultEncoding())
	assert.True(t, i.IsEqualSoft(s, nil))
	assert.False(t, i.IsEqualHard(s))
}

func TestList_COWSemantics(t *testing.T) {
	l := NewList([]Value{NewInteger(1), NewInteger(2)})
	l.RefSelf()
	assert.True(t, l.Shared())

	cp := l.RealCopy().(*List)
	assert.False(t, cp.Shared())
	cp.Push(NewInteger(3))
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, 3, cp.Len())
}

func TestList_GetNegativeOrOutOfRangeIsSilentNothing(t *testing.T) {
	l := NewList([]Value{NewInteger(1)})
	assert.Equal(t, Nothing(), l.Get(-1))
	assert.Equal(t, Nothing(), l.Get(5))
}

func TestList_SpliceNegativeOffsetIsEndRelative(t *testing.T) {
	l := NewList([]Value{
		NewInteger(1),
		NewInteger(2),
		NewInteger(3),
	})
	removed := l.Splice(-2, 1, nil)
	require.Len(t, removed, 1)
	assert.EqualValues(t, 2, removed[0].(*Integer).V)
	assert.Equal(t, 2, l.Len())
}

func TestHash_InsertionOrderPreservedOnOverwrite(t *testing.T) {
	h := NewHash()
	h.Set("a", NewInteger(1))
	h.Set("b", NewInteger(2))
	h.Set("a", NewInteger(10))
	assert.Equal(t, []string{"a", "b"}, h.Keys())
}

func TestHash_MergeOrderAndCollision(t *testing.T) {
	left := NewHash()
	left.Set("k", NewInteger(1))
	left.Set("m", NewInteger(2))

	right := NewHash()
	right.Set("k", NewInteger(10))
	right.Set("n", NewInteger(3))

	merged := left.Merge(right)
	assert.Equal(t, []string{"k", "m", "n"}, merged.Keys())
	assert.EqualValues(t, 10, merged.Get("k").(*Integer).V)
}

func TestObject_MemberGateCalledOnMiss(t *testing.T) {
	class := NewClass("Widget")
	class.MemberGate = &Method{Name: "memberGate", Fn: func(self *Object, args []Value, sink *Sink) Value {
		return NewString("gated:"+args[0].(*String).Go(), DefaultEncoding())
	}}
	obj := NewObject(class)
	obj.Set("real", NewInteger(1), nil)

	assert.EqualValues(t, 1, obj.Get("real", nil).(*Integer).V)
	assert.Equal(t, "gated:missing", obj.Get("missing", nil).(*String).Go())
}

func TestObject_DeleteRunsDestructorOnce(t *testing.T) {
	calls := 0
	class := NewClass("Resource")
	class.Destructor = &Method{Name: "destructor", Fn: func(self *Object, args []Value, sink *Sink) Value {
		calls++
		return Nothing()
	}}
	obj := NewObject(class)
	sink := NewSink()

	obj.Delete(sink)
	assert.Equal(t, 1, calls)
	assert.False(t, obj.IsValid())

	obj.Deref(sink)
	assert.Equal(t, 1, calls, "deref after delete must not re-run the destructor")
}

func TestObject_DerefRunsDestructorWhenStillValid(t *testing.T) {
	calls := 0
	class := NewClass("Resource")
	class.Destructor = &Method{Name: "destructor", Fn: func(self *Object, args []Value, sink *Sink) Value {
		calls++
		return Nothing()
	}}
	obj := NewObject(class)
	obj.Deref(nil)
	assert.Equal(t, 1, calls)
}

func TestObject_WriteAfterDeleteRaises(t *testing.T) {
	obj := NewObject(NewClass("Plain"))
	sink := NewSink()
	obj.Delete(sink)
	obj.Set("x", Nothing(), sink)
	require.True(t, sink.HasError())
	assert.Equal(t, "OBJECT-ALREADY-DELETED", sink.Err().Code)
}

func TestObject_IdentityEquality(t *testing.T) {
	a := NewObject(NewClass("C"))
	b := NewObject(NewClass("C"))
	assert.True(t, a.IsEqualHard(a))
	assert.False(t, a.IsEqualHard(b))
}

func TestCallable_ExecAndClosureDeref(t *testing.T) {
	upvalue := NewInteger(7)
	c := NewCallable("adder", func(args []Value, sink *Sink) Value {
		return &Integer{ref: newRefTag(), V: args[0].(*Integer).V + upvalue.V}
	}, []Value{upvalue})

	result := c.Exec([]Value{NewInteger(3)}, nil)
	assert.EqualValues(t, 10, result.(*Integer).V)

	c.Deref(nil)
	assert.EqualValues(t, 0, upvalue.ref.refcount())
}

func TestDate_AddAbsoluteRelativeClampsDay(t *testing.T) {
	jan31 := NewAbsoluteDate(2024, 1, 31, 0, 0, 0, 0)
	oneMonth := NewRelativeDate(0, 1, 0, 0, 0, 0, 0)
	result := jan31.Add(oneMonth)
	assert.Equal(t, 2024, result.t.Year())
	assert.Equal(t, 2, int(result.t.Month()))
	assert.Equal(t, 29, result.t.Day()) // 2024 is a leap year
}

func TestDate_AbsoluteMinusAbsoluteNormalizes(t *testing.T) {
	a := NewAbsoluteDate(2024, 3, 2, 1, 0, 0, 0)
	b := NewAbsoluteDate(2024, 3, 1, 0, 0, 0, 0)
	diff := a.Sub(b)
	require.True(t, diff.IsRelative())
	assert.Equal(t, 1, diff.days)
	assert.Equal(t, 1, diff.hours)
}

func TestDate_ISOWeekRoundTrip(t *testing.T) {
	d := NewAbsoluteDate(2020, 12, 31, 0, 0, 0, 0)
	year, week, weekday := d.ISOWeek()
	back := DateFromISOWeek(year, week, weekday)
	assert.True(t, back.t.Equal(d.t))
}

func TestBinary_Base64RoundTrip(t *testing.T) {
	b := NewBinary([]byte("hello"))
	encoded := b.Base64()
	decoded := BinaryFromBase64(encoded, nil)
	require.NotNil(t, decoded)
	assert.Equal(t, b.Bytes(), decoded.Bytes())
}

func TestBinary_DeflateRoundTrip(t *testing.T) {
	b := NewBinary([]byte("the quick brown fox jumps over the lazy dog"))
	compressed, err := b.Deflate(6)
	require.NoError(t, err)
	restored, err := compressed.Inflate()
	require.NoError(t, err)
	assert.Equal(t, b.Bytes(), restored.Bytes())
}
