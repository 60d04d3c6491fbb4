package qlang

import "github.com/clarete/qlang/lock"

// ThreadState is everything that would be thread-local storage in the
// source implementation, rendered instead as an explicit value every
// evaluator entry point threads through: a small
// reused thread id, this thread's error sink, and its call stack. Go
// goroutines have no OS-thread identity for TLS to hang off of, so
// "thread-local" here just means "owned by whoever holds this
// *ThreadState and doesn't share it across goroutines" — the same
// explicit-argument idiom the core already uses for *Sink.
type ThreadState struct {
	ID    lock.ThreadID
	Mgr   *lock.Manager
	Sink  *Sink
	Stack *CallStack
}

// NewThread registers a fresh thread id with mgr and returns its
// state. Callers must Close it on thread exit.
func NewThread(mgr *lock.Manager) *ThreadState {
	return &ThreadState{
		ID:    mgr.RegisterThread(),
		Mgr:   mgr,
		Sink:  NewSink(),
		Stack: &CallStack{},
	}
}

// Close deregisters the thread id, dropping the manager's held/waiting
// records for it, and flushes a non-empty sink to the default handler.
// Locks the thread still owns are not unlocked: their owner stays set
// and other threads waiting on them keep waiting.
func (ts *ThreadState) Close() {
	ts.Mgr.DeregisterThread(ts.ID)
	ts.Sink.Close()
}
