package qlang

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// ErrorRecord is one entry of a sink's error chain: a
// short upper-case-dashed code, a formatted description, an optional
// argument value, the call stack captured at the point of raise, and
// an optional chained record (e.g. a destructor error raised while
// unwinding from an outer error).
type ErrorRecord struct {
	Code     string
	Desc     string
	Arg      Value
	File     string
	Line     int
	EndLine  int
	Type     CodeType
	CallEnv  []CallFrame
	Next     *ErrorRecord
}

func (e *ErrorRecord) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Desc)
}

// ToHash turns the record into the read-only presentation user code
// sees via `catch`: keys err, desc, arg, file, line, endline, type,
// callstack, and optional next.
func (e *ErrorRecord) ToHash() *Hash {
	if e == nil {
		return nil
	}
	h := NewHash()
	h.Set("err", NewString(e.Code, DefaultEncoding()))
	h.Set("desc", NewString(e.Desc, DefaultEncoding()))
	if e.Arg != nil {
		h.Set("arg", e.Arg)
	} else {
		h.Set("arg", Nothing())
	}
	h.Set("file", NewString(e.File, DefaultEncoding()))
	h.Set("line", NewInteger(int64(e.Line)))
	h.Set("endline", NewInteger(int64(e.EndLine)))
	h.Set("type", NewString(e.Type.String(), DefaultEncoding()))

	frames := make([]Value, len(e.CallEnv))
	for i, f := range e.CallEnv {
		fh := NewHash()
		fh.Set("function", NewString(f.Function, DefaultEncoding()))
		fh.Set("file", NewString(f.File, DefaultEncoding()))
		fh.Set("line", NewInteger(int64(f.Line)))
		fh.Set("endline", NewInteger(int64(f.EndLine)))
		fh.Set("type", NewString(f.Type.String(), DefaultEncoding()))
		frames[i] = fh
	}
	h.Set("callstack", NewList(frames))

	if e.Next != nil {
		h.Set("next", e.Next.ToHash())
	}
	return h
}

// DefaultHandler is where an unflushed, non-empty sink drains to on
// destruction. It defaults to process stderr and can be redirected for
// tests or embedding.
var DefaultHandler io.Writer = os.Stderr

// Sink is a per-thread error accumulator. Every fallible primitive in
// the runtime takes a *Sink and records into it instead of returning
// a Go error directly, so that chains of nested/destructor errors can
// be represented.
type Sink struct {
	mu         sync.Mutex
	head, tail *ErrorRecord
	threadExit bool
	closed     bool
}

func NewSink() *Sink { return &Sink{} }

// Raise appends a new error record to the sink's chain.
func (s *Sink) Raise(code, desc string, arg Value, stack []CallFrame) *ErrorRecord {
	rec := &ErrorRecord{Code: code, Desc: desc, Arg: arg, CallEnv: stack}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.head == nil {
		s.head = rec
		s.tail = rec
	} else {
		s.tail.Next = rec
		s.tail = rec
	}
	return rec
}

// RaiseAt is Raise with source location, used by the evaluator which
// always knows where in the tree it is.
func (s *Sink) RaiseAt(code, desc string, arg Value, stack []CallFrame, file string, line, endLine int, t CodeType) *ErrorRecord {
	rec := s.Raise(code, desc, arg, stack)
	rec.File, rec.Line, rec.EndLine, rec.Type = file, line, endLine, t
	return rec
}

func (s *Sink) HasError() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.head != nil
}

// Err returns the first (oldest) record in the chain, or nil.
func (s *Sink) Err() *ErrorRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.head
}

// SetThreadExit marks the sink as carrying the thread-exit sentinel:
// this terminates the current thread of execution
// without being a raised error. It is checked at each call-return in
// the evaluator.
func (s *Sink) SetThreadExit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threadExit = true
}

func (s *Sink) ThreadExit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threadExit
}

// Absorb moves another sink's chain onto this one's tail, e.g. when a
// destructor error needs to be attached as `next` to the error that
// triggered unwinding.
func (s *Sink) Absorb(other *Sink) {
	if other == nil {
		return
	}
	other.mu.Lock()
	head := other.head
	other.head, other.tail = nil, nil
	other.mu.Unlock()
	if head == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.head == nil {
		s.head, s.tail = head, head
	} else {
		s.tail.Next = head
	}
	for s.tail.Next != nil {
		s.tail = s.tail.Next
	}
}

// Flush writes every record in the chain to w, one frame per line,
// and clears the chain.
func (s *Sink) Flush(w io.Writer) {
	s.mu.Lock()
	rec := s.head
	s.head, s.tail = nil, nil
	s.mu.Unlock()

	for e := rec; e != nil; e = e.Next {
		var b strings.Builder
		fmt.Fprintf(&b, "%s: %s\n", e.Code, e.Desc)
		for i := len(e.CallEnv) - 1; i >= 0; i-- {
			f := e.CallEnv[i]
			fmt.Fprintf(&b, "  %s (%s:%d-%d, %s code)\n", f.Function, f.File, f.Line, f.EndLine, f.Type)
		}
		io.WriteString(w, b.String())
	}
}

// Close flushes any remaining errors to DefaultHandler. Go has no
// destructors, so every *Sink must be `defer`-closed by its owner —
// the idiomatic stand-in for the teacher's ScopeGuard-style RAII
// cleanup.
func (s *Sink) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	nonEmpty := s.head != nil
	s.mu.Unlock()
	if nonEmpty {
		s.Flush(DefaultHandler)
	}
}
