package lock

import (
	"sync"
	"sync/atomic"
	"time"
)

// condWaitTimeout wraps a single c.Wait() call with an optional
// timeout. sync.Cond has no native deadline, so a timer is armed that
// force-broadcasts after timeoutMs; the caller tells a real wakeup
// apart from a forced one via the returned bool. c.L must already be
// held by the caller, exactly as sync.Cond.Wait requires.
func condWaitTimeout(c *sync.Cond, timeoutMs int) (woken bool) {
	if timeoutMs <= 0 {
		c.Wait()
		return true
	}
	var fired int32
	timer := time.AfterFunc(time.Duration(timeoutMs)*time.Millisecond, func() {
		atomic.StoreInt32(&fired, 1)
		c.L.Lock()
		c.Broadcast()
		c.L.Unlock()
	})
	defer timer.Stop()
	c.Wait()
	return atomic.LoadInt32(&fired) == 0
}

// Condition is a condition variable paired with its own plain mutex
//. It intentionally does not pair with the
// deadlock-graph-tracked Mutex/ReentrantMutex of this package: a condition
// variable's lock only ever guards a predicate, never participates in
// the lock-ordering cycles the VLS detector watches for.
type Condition struct {
	name string
	L    *sync.Mutex
	cond *sync.Cond
}

func NewCondition(name string) *Condition {
	var mu sync.Mutex
	c := &Condition{name: name, L: &mu}
	c.cond = sync.NewCond(&mu)
	return c
}

func (c *Condition) Name() string { return c.name }

// Wait releases L, blocks until Signal/Broadcast or timeoutMs elapses,
// then re-acquires L before returning. The caller must hold L.
func (c *Condition) Wait(timeoutMs int) (timedOut bool) {
	return !condWaitTimeout(c.cond, timeoutMs)
}

func (c *Condition) Signal()    { c.cond.Signal() }
func (c *Condition) Broadcast() { c.cond.Broadcast() }
