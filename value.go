// Package qlang implements the CORE of an embeddable, multi-threaded
// dynamic-language runtime: a tagged, reference-counted value graph
// and the tree-walking evaluator, lock substrate, and signal
// dispatcher that operate on it.
package qlang

import (
	"sync/atomic"

	"github.com/clarete/qlang/encoding"
)

// TypeTag is the closed small-integer enumeration every value node
// carries. New types are added by extending this enum
// and the operator table — never by growing an inheritance tree.
type TypeTag int

const (
	TypeNothing TypeTag = iota
	TypeNull
	TypeBool
	TypeInt
	TypeFloat
	TypeString
	TypeBinary
	TypeDate
	TypeList
	TypeHash
	TypeObject
	TypeCallable
	TypeRegex
	TypeRegexSubst
)

func (t TypeTag) String() string {
	names := [...]string{
		"nothing", "null", "bool", "int", "float", "string", "binary",
		"date", "list", "hash", "object", "callable", "regex", "regex-subst",
	}
	if int(t) < len(names) {
		return names[t]
	}
	return "unknown"
}

// Value is the capability set every runtime node exposes. Containers additionally support the mutation operations
// described per-type in their own files.
type Value interface {
	Type() TypeTag

	// RefSelf atomically increments the reference count and
	// returns the same node.
	RefSelf() Value

	// Deref atomically decrements the reference count; when it
	// reaches zero the payload is released and any teardown
	// failure is reported to sink.
	Deref(sink *Sink)

	// RealCopy returns an unshared copy with a fresh count of 1.
	RealCopy() Value

	IsEqualHard(other Value) bool
	IsEqualSoft(other Value, sink *Sink) bool

	ToBool() bool
	ToInt() int64
	ToFloat() float64
	ToDate() *Date
	ToStringValue(sink *Sink) *String

	// NeedsEval is true only for parse-tree nodes representing
	// expressions; every value node here returns false.
	NeedsEval() bool
}

// refTag is the atomic reference-count header embedded (by pointer,
// so sharing a Value shares its counter) in every node that
// participates in the counted-reference lifecycle.
type refTag struct {
	count atomic.Int64
}

func newRefTag() *refTag {
	r := &refTag{}
	r.count.Store(1)
	return r
}

func (r *refTag) incr() { r.count.Add(1) }

// decr returns the post-decrement count.
func (r *refTag) decr() int64 { return r.count.Add(-1) }

func (r *refTag) refcount() int64 { return r.count.Load() }

// shared is true once a node's refcount is >= 2: mutation must copy
// first.
func (r *refTag) shared() bool { return r.refcount() > 1 }

var defaultEncoding *encoding.Descriptor

// DefaultEncoding is the encoding new string literals and string
// results get when no other encoding is specified or inferred.
func DefaultEncoding() *encoding.Descriptor {
	if defaultEncoding == nil {
		defaultEncoding = encoding.Default().Find("UTF-8")
	}
	return defaultEncoding
}
