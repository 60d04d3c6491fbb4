package qlang

// EvalEnv is what every tree node needs to evaluate itself: the
// lexical scope it runs in and the owning thread's state (sink, call
// stack, lock manager access). Parsing and code generation are out of
// scope here, so Expr nodes are built directly by Go callers (or by
// an external parser targeting this tree), not produced by a bundled
// grammar.
type EvalEnv struct {
	Scope  *Scope
	Thread *ThreadState
}

// Expr is one evaluable tree node.
type Expr interface {
	Eval(env *EvalEnv) Value
}

// Lit wraps an already-constructed Value as a literal expression.
type Lit struct{ V Value }

func (e *Lit) Eval(env *EvalEnv) Value { return e.V }

// VarRef reads a variable by name. An unbound name reads as nothing
// rather than raising; the read does not declare it.
type VarRef struct{ Name string }

func (e *VarRef) Eval(env *EvalEnv) Value {
	if vr := env.Scope.Lookup(e.Name); vr != nil {
		return vr.Get()
	}
	return Nothing()
}

// Assign evaluates Value and writes it through the lvalue path
// Target resolves to.
type Assign struct {
	Target Expr
	Value  Expr
}

func (e *Assign) Eval(env *EvalEnv) Value {
	lv := resolveLValue(e.Target, env)
	v := e.Value.Eval(env)
	if lv == nil {
		return v
	}
	lv.Set(v.RefSelf(), env.sink())
	return v
}

// resolveLValue walks an lvalue-shaped expression (VarRef, possibly
// wrapped in IndexExpr/MemberExpr) into an acquired *LValue. Declares
// an unbound root name as nothing rather than failing, matching
// VarRef's read-side permissiveness.
func resolveLValue(target Expr, env *EvalEnv) *LValue {
	switch t := target.(type) {
	case *VarRef:
		vr := env.Scope.Lookup(t.Name)
		if vr == nil {
			vr = env.Scope.Declare(t.Name, Nothing())
		}
		return NewLValue(vr)
	case *IndexExpr:
		base := resolveLValue(t.X, env)
		if base == nil {
			return nil
		}
		idx := t.Index.Eval(env)
		base.Path = append(base.Path, PathStep{Kind: IndexStep, Index: int(idx.ToInt())})
		return base
	case *MemberExpr:
		base := resolveLValue(t.X, env)
		if base == nil {
			return nil
		}
		base.Path = append(base.Path, PathStep{Kind: KeyStep, Key: t.Key})
		return base
	default:
		return nil
	}
}

func (env *EvalEnv) sink() *Sink {
	if env.Thread == nil {
		return nil
	}
	return env.Thread.Sink
}

// BinaryOp applies an OperatorTable to the evaluated operands.
type BinaryOp struct {
	Table *OperatorTable
	Left  Expr
	Right Expr
}

func (e *BinaryOp) Eval(env *EvalEnv) Value {
	l := e.Left.Eval(env)
	r := e.Right.Eval(env)
	return e.Table.Apply(l, r, env.sink())
}

// SoftEq and HardEq implement `==`/`is` (soft/hard equality) directly
// against Value rather than through an OperatorTable, since they're
// defined uniformly for every type pair.
type SoftEq struct{ Left, Right Expr }

func (e *SoftEq) Eval(env *EvalEnv) Value {
	l, r := e.Left.Eval(env), e.Right.Eval(env)
	return BoolOf(l.IsEqualSoft(r, env.sink()))
}

type HardEq struct{ Left, Right Expr }

func (e *HardEq) Eval(env *EvalEnv) Value {
	l, r := e.Left.Eval(env), e.Right.Eval(env)
	return BoolOf(l.IsEqualHard(r))
}

// Not implements logical negation.
type Not struct{ X Expr }

func (e *Not) Eval(env *EvalEnv) Value { return BoolOf(!e.X.Eval(env).ToBool()) }

// And and Or short-circuit.
type And struct{ Left, Right Expr }

func (e *And) Eval(env *EvalEnv) Value {
	l := e.Left.Eval(env)
	if !l.ToBool() {
		return False()
	}
	return BoolOf(e.Right.Eval(env).ToBool())
}

type Or struct{ Left, Right Expr }

func (e *Or) Eval(env *EvalEnv) Value {
	l := e.Left.Eval(env)
	if l.ToBool() {
		return True()
	}
	return BoolOf(e.Right.Eval(env).ToBool())
}

// If evaluates Then or Else (each a sequence run for its last value)
// depending on Cond.
type If struct {
	Cond Expr
	Then []Expr
	Else []Expr
}

func (e *If) Eval(env *EvalEnv) Value {
	if e.Cond.Eval(env).ToBool() {
		return evalSeq(e.Then, env)
	}
	return evalSeq(e.Else, env)
}

func evalSeq(stmts []Expr, env *EvalEnv) Value {
	var last Value = Nothing()
	for _, s := range stmts {
		last = s.Eval(env)
		if env.Thread != nil && env.Thread.Sink.ThreadExit() {
			return last
		}
	}
	return last
}

// While loops while Cond holds, checking the thread-exit sentinel
// between iterations for cooperative cancellation.
type While struct {
	Cond Expr
	Body []Expr
}

func (e *While) Eval(env *EvalEnv) Value {
	var last Value = Nothing()
	for e.Cond.Eval(env).ToBool() {
		last = evalSeq(e.Body, env)
		if env.Thread != nil && (env.Thread.Sink.ThreadExit() || env.Thread.Sink.HasError()) {
			break
		}
	}
	return last
}

// Block runs a sequence in a fresh nested scope.
type Block struct{ Stmts []Expr }

func (e *Block) Eval(env *EvalEnv) Value {
	inner := &EvalEnv{Scope: NewScope(env.Scope), Thread: env.Thread}
	return evalSeq(e.Stmts, inner)
}

// ListLit builds a *List from evaluated element expressions.
type ListLit struct{ Items []Expr }

func (e *ListLit) Eval(env *EvalEnv) Value {
	items := make([]Value, len(e.Items))
	for i, it := range e.Items {
		items[i] = it.Eval(env)
	}
	return NewList(items)
}

// HashLit builds a *Hash from evaluated key/value expression pairs,
// preserving the literal's own key order.
type HashLit struct {
	Keys   []string
	Values []Expr
}

func (e *HashLit) Eval(env *EvalEnv) Value {
	h := NewHash()
	for i, k := range e.Keys {
		h.Set(k, e.Values[i].Eval(env))
	}
	return h
}

// IndexExpr reads `x[i]` (list or, via string coercion of i, a hash
// key for `x{i}`-style dynamic access is out of scope — hash access
// goes through MemberExpr).
type IndexExpr struct {
	X     Expr
	Index Expr
}

func (e *IndexExpr) Eval(env *EvalEnv) Value {
	base := e.X.Eval(env)
	idx := e.Index.Eval(env)
	l, ok := base.(*List)
	if !ok {
		return Nothing()
	}
	return l.Get(int(idx.ToInt()))
}

// MemberExpr reads `x.key`: hash lookup, or object member-gate
// dispatch on a miss.
type MemberExpr struct {
	X   Expr
	Key string
}

func (e *MemberExpr) Eval(env *EvalEnv) Value {
	base := e.X.Eval(env)
	switch b := base.(type) {
	case *Hash:
		return b.Get(e.Key)
	case *Object:
		return b.Get(e.Key, env.sink())
	default:
		return Nothing()
	}
}

// CallExpr invokes a callable expression with evaluated arguments.
type CallExpr struct {
	Callee Expr
	Args   []Expr
}

func (e *CallExpr) Eval(env *EvalEnv) Value {
	callee := e.Callee.Eval(env)
	c, ok := callee.(*Callable)
	if !ok {
		if s := env.sink(); s != nil {
			s.Raise("CALL-TARGET-ERROR", "value is not callable", nil, nil)
		}
		return Nothing()
	}
	args := make([]Value, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.Eval(env)
	}
	if env.Thread != nil {
		env.Thread.Stack.Push(CallFrame{Function: c.Name, Type: CodeTypeUser})
		defer env.Thread.Stack.Pop()
	}
	return c.Exec(args, env.sink())
}

// FuncLit builds a closure over the defining scope: Body runs in a fresh
// scope parented on the scope captured at definition time, not the
// caller's scope. Captured is RefSelf'd into the Callable's Closure
// slice purely to keep the value graph's refcount bookkeeping
// consistent with every other edge in it — Go's own closure capture
// already keeps the defining Scope, and the Variables within it,
// reachable for as long as the Callable is.
type FuncLit struct {
	Name     string
	Params   []string
	Body     []Expr
	Captured []string
}

func (e *FuncLit) Eval(env *EvalEnv) Value {
	defScope := env.Scope
	thread := env.Thread

	closure := make([]Value, 0, len(e.Captured))
	for _, name := range e.Captured {
		if vr := defScope.Lookup(name); vr != nil {
			closure = append(closure, vr.Get().RefSelf())
		}
	}

	fn := func(args []Value, sink *Sink) Value {
		callScope := NewScope(defScope)
		for i, p := range e.Params {
			if i < len(args) {
				callScope.Declare(p, args[i])
			} else {
				callScope.Declare(p, Nothing())
			}
		}
		return evalSeq(e.Body, &EvalEnv{Scope: callScope, Thread: thread})
	}
	return NewCallable(e.Name, fn, closure)
}
