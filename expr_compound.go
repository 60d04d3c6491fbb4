package qlang

import (
	"bytes"
	"regexp"
)

// CompoundAssign implements `+=`, `-=`, `*=`, `/=`, `%=`, `&=`, `|=`,
// `^=`, `<<=` and `>>=`: evaluate Value once, then resolve Target as
// an lvalue and run Table against (current, evaluated) under a single
// lock/COW/write pass. When Table.Apply raises (a type mismatch or
// division by zero), the callback hands cur itself back as the next
// value, so Mutate writes nothing and the lvalue keeps its old value;
// the expression then yields nothing. A raise is detected by the sink
// going from no error to an error during Apply.
type CompoundAssign struct {
	Table  *OperatorTable
	Target Expr
	Value  Expr
}

func (e *CompoundAssign) Eval(env *EvalEnv) Value {
	sink := env.sink()
	rhs := e.Value.Eval(env)
	lv := resolveLValue(e.Target, env)
	if lv == nil {
		return Nothing()
	}
	return lv.Mutate(sink, func(cur Value) (Value, Value) {
		hadErr := sink != nil && sink.HasError()
		next := e.Table.Apply(cur, rhs, sink)
		if !hadErr && sink != nil && sink.HasError() {
			return cur, Nothing()
		}
		return next, next.RefSelf()
	})
}

// IncDec implements prefix/postfix `++`/`--`. On a target currently
// holding nothing, PlusTable/MinusTable's fallback arithmetic
// registration coerces nothing's ToInt (0) plus/minus 1, so `++$v`
// on an unset `$v` yields 1 and `--$v` yields -1.
type IncDec struct {
	Target  Expr
	Table   *OperatorTable // PlusTable or MinusTable
	Postfix bool
}

func (e *IncDec) Eval(env *EvalEnv) Value {
	sink := env.sink()
	lv := resolveLValue(e.Target, env)
	if lv == nil {
		return Nothing()
	}
	return lv.Mutate(sink, func(cur Value) (Value, Value) {
		var before Value
		if cur != nil {
			before = cur.RefSelf()
		}
		hadErr := sink != nil && sink.HasError()
		next := e.Table.Apply(cur, NewInteger(1), sink)
		if !hadErr && sink != nil && sink.HasError() {
			if before != nil {
				before.Deref(sink)
			}
			return cur, Nothing()
		}
		if e.Postfix {
			return next, before
		}
		return next, next.RefSelf()
	})
}

// MutatingOp implements the lvalue-mutating methods that aren't binary
// compound assignments: push/unshift/pop/shift/splice on a list, and
// chomp/trim on a string. Args are evaluated before the lvalue is
// acquired, same as CompoundAssign's right side.
type MutatingOp struct {
	Op     string
	Target Expr
	Args   []Expr
}

func (e *MutatingOp) Eval(env *EvalEnv) Value {
	sink := env.sink()
	args := make([]Value, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.Eval(env)
	}
	lv := resolveLValue(e.Target, env)
	if lv == nil {
		return Nothing()
	}
	return lv.Mutate(sink, func(cur Value) (Value, Value) {
		return applyMutatingOp(e.Op, cur, args, sink)
	})
}

// applyMutatingOp returns (next, ret): next is what the lvalue should
// hold afterward. For the list ops it mutates l in place and hands
// the same pointer back as next, so Mutate's write-back is a no-op;
// chomp/trim/regex-subst build a fresh String instead. A type
// mismatch raises into sink and returns cur unchanged as next, which
// Mutate recognizes as "nothing to write."
func applyMutatingOp(op string, cur Value, args []Value, sink *Sink) (Value, Value) {
	switch op {
	case "push":
		l, ok := cur.(*List)
		if !ok {
			raiseLValueTypeError(sink, op, cur)
			return cur, Nothing()
		}
		for _, a := range args {
			l.Push(a)
		}
		return l, l.RefSelf()
	case "unshift":
		l, ok := cur.(*List)
		if !ok {
			raiseLValueTypeError(sink, op, cur)
			return cur, Nothing()
		}
		for i := len(args) - 1; i >= 0; i-- {
			l.Unshift(args[i])
		}
		return l, l.RefSelf()
	case "pop":
		l, ok := cur.(*List)
		if !ok {
			raiseLValueTypeError(sink, op, cur)
			return cur, Nothing()
		}
		return l, l.Pop()
	case "shift":
		l, ok := cur.(*List)
		if !ok {
			raiseLValueTypeError(sink, op, cur)
			return cur, Nothing()
		}
		return l, l.Shift()
	case "splice":
		l, ok := cur.(*List)
		if !ok {
			raiseLValueTypeError(sink, op, cur)
			return cur, Nothing()
		}
		offset, length := 0, l.Len()
		if len(args) > 0 {
			offset = int(args[0].ToInt())
		}
		if len(args) > 1 {
			length = int(args[1].ToInt())
		}
		var replacement []Value
		if len(args) > 2 {
			replacement = args[2:]
		}
		removed := l.Splice(offset, length, replacement)
		return l, NewList(removed)
	case "chomp":
		s, ok := cur.(*String)
		if !ok {
			raiseLValueTypeError(sink, op, cur)
			return cur, cur
		}
		next := NewStringBytes(chompBytes(s.Bytes()), s.Encoding())
		return next, next.RefSelf()
	case "trim":
		s, ok := cur.(*String)
		if !ok {
			raiseLValueTypeError(sink, op, cur)
			return cur, cur
		}
		next := NewStringBytes(bytes.TrimSpace(s.Bytes()), s.Encoding())
		return next, next.RefSelf()
	default:
		return cur, cur
	}
}

// chompBytes strips one trailing line ending, Perl/Qore style: a
// trailing "\r\n" counts as a single ending, otherwise a lone trailing
// "\n" or "\r" is stripped.
func chompBytes(b []byte) []byte {
	if len(b) >= 2 && b[len(b)-2] == '\r' && b[len(b)-1] == '\n' {
		return b[:len(b)-2]
	}
	if len(b) >= 1 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		return b[:len(b)-1]
	}
	return b
}

func raiseLValueTypeError(sink *Sink, op string, v Value) {
	if sink != nil {
		sink.Raise("LVALUE-TYPE-ERROR", op+" requires an operand of a different type, got "+v.Type().String(), nil, nil)
	}
}

// RegexSubst implements the regex-substitute lvalue operator: every
// match of Pattern in Target's string value is replaced with
// Replacement (all matches when Global is set, otherwise only the
// first). Regex literals aren't parsed by this core, so Pattern and
// Replacement are plain Go strings the caller already extracted from
// wherever its grammar produced them.
type RegexSubst struct {
	Target      Expr
	Pattern     string
	Replacement string
	Global      bool
}

func (e *RegexSubst) Eval(env *EvalEnv) Value {
	sink := env.sink()
	re, err := regexp.Compile(e.Pattern)
	if err != nil {
		if sink != nil {
			sink.Raise("REGEX-COMPILE-ERROR", err.Error(), nil, nil)
		}
		return Nothing()
	}
	lv := resolveLValue(e.Target, env)
	if lv == nil {
		return Nothing()
	}
	return lv.Mutate(sink, func(cur Value) (Value, Value) {
		s, ok := cur.(*String)
		if !ok {
			raiseLValueTypeError(sink, "regex substitution", cur)
			return cur, cur
		}
		var out []byte
		if e.Global {
			out = re.ReplaceAll(s.Bytes(), []byte(e.Replacement))
		} else {
			out = replaceFirstMatch(re, s.Bytes(), []byte(e.Replacement))
		}
		next := NewStringBytes(out, s.Encoding())
		return next, next.RefSelf()
	})
}

func replaceFirstMatch(re *regexp.Regexp, src, repl []byte) []byte {
	loc := re.FindIndex(src)
	if loc == nil {
		return src
	}
	out := make([]byte, 0, len(src)-(loc[1]-loc[0])+len(repl))
	out = append(out, src[:loc[0]]...)
	out = append(out, repl...)
	out = append(out, src[loc[1]:]...)
	return out
}

// ExistsExpr implements `exists`. When X has lvalue shape (a variable,
// index, or member chain) it walks the reference tree directly
// instead of evaluating X, so a missing intermediate container
// short-circuits to false without ever materializing it — in
// particular `exists $h.a.b` on an empty $h never creates $h.a. Any
// other expression shape falls back to evaluating X and reporting
// whether the result is something other than nothing.
type ExistsExpr struct{ X Expr }

func (e *ExistsExpr) Eval(env *EvalEnv) Value {
	ok, _ := probeExists(e.X, env)
	return BoolOf(ok)
}

func probeExists(x Expr, env *EvalEnv) (bool, Value) {
	switch t := x.(type) {
	case *VarRef:
		vr := env.Scope.Lookup(t.Name)
		if vr == nil {
			return false, nil
		}
		return true, vr.Get()
	case *IndexExpr:
		ok, base := probeExists(t.X, env)
		if !ok {
			return false, nil
		}
		l, isList := base.(*List)
		if !isList {
			return false, nil
		}
		idx := int(t.Index.Eval(env).ToInt())
		if idx < 0 || idx >= l.Len() {
			return false, nil
		}
		return true, l.Get(idx)
	case *MemberExpr:
		ok, base := probeExists(t.X, env)
		if !ok {
			return false, nil
		}
		switch b := base.(type) {
		case *Hash:
			if !b.Exists(t.Key) {
				return false, nil
			}
			return true, b.Get(t.Key)
		case *Object:
			if !b.Exists(t.Key) {
				return false, nil
			}
			return true, b.Get(t.Key, env.sink())
		default:
			return false, nil
		}
	default:
		v := x.Eval(env)
		return v.Type() != TypeNothing, v
	}
}

// MapOp implements `map(fn, list)`: a new list of fn(elem) for every
// element, fn invoked with elem bound as its sole argument.
type MapOp struct {
	Fn   Expr
	List Expr
}

func (e *MapOp) Eval(env *EvalEnv) Value {
	sink := env.sink()
	fn, list, ok := resolveCallableAndList(e.Fn, e.List, env)
	if !ok {
		return Nothing()
	}
	out := make([]Value, list.Len())
	for i, item := range list.Items() {
		out[i] = fn.Exec([]Value{item}, sink)
	}
	return NewList(out)
}

// SelectOp implements `select(list, pred)`: the subset of list whose
// elements make pred truthy.
type SelectOp struct {
	List Expr
	Pred Expr
}

func (e *SelectOp) Eval(env *EvalEnv) Value {
	sink := env.sink()
	pred, list, ok := resolveCallableAndList(e.Pred, e.List, env)
	if !ok {
		return Nothing()
	}
	out := make([]Value, 0, list.Len())
	for _, item := range list.Items() {
		if pred.Exec([]Value{item}, sink).ToBool() {
			out = append(out, item.RefSelf())
		}
	}
	return NewList(out)
}

// FoldlOp implements `foldl(fn, list, init)`: threads an accumulator
// left to right, calling fn(acc, elem) each step.
type FoldlOp struct {
	Fn   Expr
	List Expr
	Init Expr
}

func (e *FoldlOp) Eval(env *EvalEnv) Value {
	sink := env.sink()
	fn, list, ok := resolveCallableAndList(e.Fn, e.List, env)
	if !ok {
		return Nothing()
	}
	acc := e.Init.Eval(env)
	for _, item := range list.Items() {
		acc = fn.Exec([]Value{acc, item}, sink)
	}
	return acc
}

// FoldrOp implements `foldr(fn, list, init)`: threads an accumulator
// right to left, calling fn(elem, acc) each step.
type FoldrOp struct {
	Fn   Expr
	List Expr
	Init Expr
}

func (e *FoldrOp) Eval(env *EvalEnv) Value {
	sink := env.sink()
	fn, list, ok := resolveCallableAndList(e.Fn, e.List, env)
	if !ok {
		return Nothing()
	}
	acc := e.Init.Eval(env)
	items := list.Items()
	for i := len(items) - 1; i >= 0; i-- {
		acc = fn.Exec([]Value{items[i], acc}, sink)
	}
	return acc
}

func resolveCallableAndList(fnExpr, listExpr Expr, env *EvalEnv) (*Callable, *List, bool) {
	fnVal := fnExpr.Eval(env)
	fn, ok := fnVal.(*Callable)
	if !ok {
		if s := env.sink(); s != nil {
			s.Raise("CALL-TARGET-ERROR", "value is not callable", nil, nil)
		}
		return nil, nil, false
	}
	listVal := listExpr.Eval(env)
	list, ok := listVal.(*List)
	if !ok {
		if s := env.sink(); s != nil {
			s.Raise("OPERATOR-TYPE-ERROR", "expected a list, got "+listVal.Type().String(), nil, nil)
		}
		return nil, nil, false
	}
	return fn, list, true
}
