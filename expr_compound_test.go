package qlang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func declareVar(env *EvalEnv, name string, v Value) *Variable {
	return env.Scope.Declare(name, v)
}

func TestCompoundAssign_PlusMinusTimesChain(t *testing.T) {
	env := newTestEnv()
	declareVar(env, "x", NewInteger(0))

	(&CompoundAssign{Table: PlusTable, Target: &VarRef{Name: "x"}, Value: &Lit{NewInteger(5)}}).Eval(env)
	(&CompoundAssign{Table: MulTable, Target: &VarRef{Name: "x"}, Value: &Lit{NewInteger(3)}}).Eval(env)
	(&CompoundAssign{Table: MinusTable, Target: &VarRef{Name: "x"}, Value: &Lit{NewInteger(1)}}).Eval(env)

	assert.EqualValues(t, 14, env.Scope.Lookup("x").Get().(*Integer).V)
}

func TestCompoundAssign_BitwiseFamily(t *testing.T) {
	env := newTestEnv()
	declareVar(env, "x", NewInteger(6))

	(&CompoundAssign{Table: BitOrTable, Target: &VarRef{Name: "x"}, Value: &Lit{NewInteger(1)}}).Eval(env)
	assert.EqualValues(t, 7, env.Scope.Lookup("x").Get().(*Integer).V)

	(&CompoundAssign{Table: BitAndTable, Target: &VarRef{Name: "x"}, Value: &Lit{NewInteger(3)}}).Eval(env)
	assert.EqualValues(t, 3, env.Scope.Lookup("x").Get().(*Integer).V)

	(&CompoundAssign{Table: ShiftLeftTable, Target: &VarRef{Name: "x"}, Value: &Lit{NewInteger(2)}}).Eval(env)
	assert.EqualValues(t, 12, env.Scope.Lookup("x").Get().(*Integer).V)

	(&CompoundAssign{Table: BitXorTable, Target: &VarRef{Name: "x"}, Value: &Lit{NewInteger(5)}}).Eval(env)
	assert.EqualValues(t, 9, env.Scope.Lookup("x").Get().(*Integer).V)
}

func TestCompoundAssign_DivisionByZeroDoesNotCorruptLValue(t *testing.T) {
	env := newTestEnv()
	declareVar(env, "x", NewInteger(10))

	expr := &CompoundAssign{Table: DivTable, Target: &VarRef{Name: "x"}, Value: &Lit{NewInteger(0)}}
	expr.Eval(env)

	require.True(t, env.sink().HasError())
	assert.EqualValues(t, 10, env.Scope.Lookup("x").Get().(*Integer).V, "lvalue must not be corrupted by a failed operator")
}

func TestIncDec_PrefixAndPostfixOnUnsetVariable(t *testing.T) {
	env := newTestEnv()
	declareVar(env, "v", Nothing())

	postfix := &IncDec{Target: &VarRef{Name: "v"}, Table: PlusTable, Postfix: true}
	before := postfix.Eval(env)
	assert.EqualValues(t, 0, before.ToInt())
	assert.EqualValues(t, 1, env.Scope.Lookup("v").Get().ToInt())

	declareVar(env, "w", Nothing())
	prefix := &IncDec{Target: &VarRef{Name: "w"}, Table: MinusTable, Postfix: false}
	after := prefix.Eval(env)
	assert.EqualValues(t, -1, after.ToInt())
	assert.EqualValues(t, -1, env.Scope.Lookup("w").Get().ToInt())
}

func TestMutatingOp_PushIsCOWIsolatedFromAlias(t *testing.T) {
	env := newTestEnv()
	a := NewList([]Value{NewInteger(1), NewInteger(2), NewInteger(3)})
	declareVar(env, "a", a)
	env.Scope.Declare("b", a.RefSelf())

	push := &MutatingOp{Op: "push", Target: &VarRef{Name: "b"}, Args: []Expr{&Lit{NewInteger(4)}}}
	push.Eval(env)

	aVal := env.Scope.Lookup("a").Get().(*List)
	bVal := env.Scope.Lookup("b").Get().(*List)

	assert.Equal(t, 3, aVal.Len(), "original alias must be unaffected by push through the other binding")
	assert.Equal(t, 4, bVal.Len())
	assert.EqualValues(t, 4, bVal.Get(3).(*Integer).V)
}

func TestMutatingOp_PopAndShift(t *testing.T) {
	env := newTestEnv()
	declareVar(env, "l", NewList([]Value{NewInteger(1), NewInteger(2), NewInteger(3)}))

	popped := (&MutatingOp{Op: "pop", Target: &VarRef{Name: "l"}}).Eval(env)
	assert.EqualValues(t, 3, popped.(*Integer).V)

	shifted := (&MutatingOp{Op: "shift", Target: &VarRef{Name: "l"}}).Eval(env)
	assert.EqualValues(t, 1, shifted.(*Integer).V)

	remaining := env.Scope.Lookup("l").Get().(*List)
	assert.Equal(t, 1, remaining.Len())
	assert.EqualValues(t, 2, remaining.Get(0).(*Integer).V)
}

func TestMutatingOp_ChompAndTrim(t *testing.T) {
	env := newTestEnv()
	declareVar(env, "s", NewString("hello \r\n", DefaultEncoding()))
	(&MutatingOp{Op: "chomp", Target: &VarRef{Name: "s"}}).Eval(env)
	assert.Equal(t, "hello ", env.Scope.Lookup("s").Get().(*String).Go())

	declareVar(env, "t", NewString("  padded  ", DefaultEncoding()))
	(&MutatingOp{Op: "trim", Target: &VarRef{Name: "t"}}).Eval(env)
	assert.Equal(t, "padded", env.Scope.Lookup("t").Get().(*String).Go())
}

func TestMutatingOp_TypeMismatchRaisesAndLeavesLValue(t *testing.T) {
	env := newTestEnv()
	declareVar(env, "x", NewInteger(5))

	result := (&MutatingOp{Op: "push", Target: &VarRef{Name: "x"}, Args: []Expr{&Lit{NewInteger(1)}}}).Eval(env)
	assert.Equal(t, Nothing(), result)
	assert.True(t, env.sink().HasError())
	assert.EqualValues(t, 5, env.Scope.Lookup("x").Get().(*Integer).V)
}

func TestRegexSubst_FirstAndGlobal(t *testing.T) {
	env := newTestEnv()
	declareVar(env, "s", NewString("foo bar foo", DefaultEncoding()))

	first := &RegexSubst{Target: &VarRef{Name: "s"}, Pattern: "foo", Replacement: "baz", Global: false}
	first.Eval(env)
	assert.Equal(t, "baz bar foo", env.Scope.Lookup("s").Get().(*String).Go())

	declareVar(env, "s2", NewString("foo bar foo", DefaultEncoding()))
	global := &RegexSubst{Target: &VarRef{Name: "s2"}, Pattern: "foo", Replacement: "baz", Global: true}
	global.Eval(env)
	assert.Equal(t, "baz bar baz", env.Scope.Lookup("s2").Get().(*String).Go())
}

func TestExistsExpr_VariableAndMemberChain(t *testing.T) {
	env := newTestEnv()

	missing := &ExistsExpr{X: &VarRef{Name: "nope"}}
	assert.False(t, missing.Eval(env).ToBool())

	h := NewHash()
	declareVar(env, "h", h)
	chain := &ExistsExpr{X: &MemberExpr{X: &MemberExpr{X: &VarRef{Name: "h"}, Key: "a"}, Key: "b"}}
	assert.False(t, chain.Eval(env).ToBool(), "missing intermediate container must short-circuit to false")
	assert.False(t, h.Exists("a"), "probing exists must never materialize the missing intermediate")

	inner := NewHash()
	inner.Set("b", NewInteger(1))
	h.Set("a", inner)
	assert.True(t, chain.Eval(env).ToBool())
}

func TestExistsExpr_ListIndexBounds(t *testing.T) {
	env := newTestEnv()
	declareVar(env, "l", NewList([]Value{NewInteger(1), NewInteger(2)}))

	inBounds := &ExistsExpr{X: &IndexExpr{X: &VarRef{Name: "l"}, Index: &Lit{NewInteger(1)}}}
	outOfBounds := &ExistsExpr{X: &IndexExpr{X: &VarRef{Name: "l"}, Index: &Lit{NewInteger(5)}}}

	assert.True(t, inBounds.Eval(env).ToBool())
	assert.False(t, outOfBounds.Eval(env).ToBool())
}

func newIncrCallable(delta int64) *Callable {
	return NewCallable("incr", func(args []Value, sink *Sink) Value {
		return NewInteger(args[0].ToInt() + delta)
	}, nil)
}

func TestMapOp_AppliesFnToEveryElement(t *testing.T) {
	env := newTestEnv()
	declareVar(env, "fn", newIncrCallable(1))
	declareVar(env, "l", NewList([]Value{NewInteger(1), NewInteger(2), NewInteger(3)}))

	result := (&MapOp{Fn: &VarRef{Name: "fn"}, List: &VarRef{Name: "l"}}).Eval(env).(*List)
	require.Equal(t, 3, result.Len())
	assert.EqualValues(t, 2, result.Get(0).(*Integer).V)
	assert.EqualValues(t, 3, result.Get(1).(*Integer).V)
	assert.EqualValues(t, 4, result.Get(2).(*Integer).V)
}

func TestSelectOp_FiltersByPredicate(t *testing.T) {
	env := newTestEnv()
	isEven := NewCallable("isEven", func(args []Value, sink *Sink) Value {
		return BoolOf(args[0].ToInt()%2 == 0)
	}, nil)
	declareVar(env, "pred", isEven)
	declareVar(env, "l", NewList([]Value{NewInteger(1), NewInteger(2), NewInteger(3), NewInteger(4)}))

	result := (&SelectOp{List: &VarRef{Name: "l"}, Pred: &VarRef{Name: "pred"}}).Eval(env).(*List)
	require.Equal(t, 2, result.Len())
	assert.EqualValues(t, 2, result.Get(0).(*Integer).V)
	assert.EqualValues(t, 4, result.Get(1).(*Integer).V)
}

func TestFoldlOp_SumsLeftToRight(t *testing.T) {
	env := newTestEnv()
	sum := NewCallable("sum", func(args []Value, sink *Sink) Value {
		return NewInteger(args[0].ToInt() + args[1].ToInt())
	}, nil)
	declareVar(env, "fn", sum)
	declareVar(env, "l", NewList([]Value{NewInteger(1), NewInteger(2), NewInteger(3)}))

	result := (&FoldlOp{Fn: &VarRef{Name: "fn"}, List: &VarRef{Name: "l"}, Init: &Lit{NewInteger(0)}}).Eval(env)
	assert.EqualValues(t, 6, result.(*Integer).V)
}

func TestFoldrOp_BuildsRightToLeft(t *testing.T) {
	env := newTestEnv()
	cons := NewCallable("cons", func(args []Value, sink *Sink) Value {
		return NewString(args[0].(*String).Go()+args[1].(*String).Go(), DefaultEncoding())
	}, nil)
	declareVar(env, "fn", cons)
	declareVar(env, "l", NewList([]Value{
		NewString("a", DefaultEncoding()),
		NewString("b", DefaultEncoding()),
		NewString("c", DefaultEncoding()),
	}))

	result := (&FoldrOp{Fn: &VarRef{Name: "fn"}, List: &VarRef{Name: "l"}, Init: &Lit{NewString("", DefaultEncoding())}}).Eval(env)
	assert.Equal(t, "abc", result.(*String).Go())
}

func TestMapOp_NonCallableRaises(t *testing.T) {
	env := newTestEnv()
	declareVar(env, "notfn", NewInteger(1))
	declareVar(env, "l", NewList([]Value{NewInteger(1)}))

	result := (&MapOp{Fn: &VarRef{Name: "notfn"}, List: &VarRef{Name: "l"}}).Eval(env)
	assert.Equal(t, Nothing(), result)
	assert.True(t, env.sink().HasError())
}
