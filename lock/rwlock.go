package lock

import (
	"sync"
	"time"
)

// RWLock grants either any number of concurrent readers or a single
// writer, both reentrant per-owning-thread. Direct
// upgrade from a held read lock to a write lock is not supported —
// the requesting thread must release its read lock first, the same
// restriction original_source/lib/RWLock.cc documents for QoreRWLock.
type RWLock struct {
	name string
	mgr  *Manager

	mu          sync.Mutex
	readers     map[ThreadID]int
	writer      ThreadID
	writerDepth int
	gen         chan struct{}
}

func NewRWLock(mgr *Manager, name string) *RWLock {
	return &RWLock{name: name, mgr: mgr, readers: make(map[ThreadID]int), gen: make(chan struct{})}
}

func (l *RWLock) Name() string { return l.name }

// Owner reports the current writer, or 0. Deadlock detection against
// this lock is only precise through the writer slot: a cycle that
// only ever passes through shared readers can't happen, since readers
// never block each other.
func (l *RWLock) Owner() ThreadID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.writer
}

func (l *RWLock) broadcast() {
	close(l.gen)
	l.gen = make(chan struct{})
}

func waitGen(ch <-chan struct{}, timeoutMs int) (timedOut bool) {
	if timeoutMs <= 0 {
		<-ch
		return false
	}
	timer := time.NewTimer(time.Duration(timeoutMs) * time.Millisecond)
	defer timer.Stop()
	select {
	case <-ch:
		return false
	case <-timer.C:
		return true
	}
}

func (l *RWLock) RLock(tid ThreadID, timeoutMs int) error {
	l.mu.Lock()
	if l.writer == tid {
		l.mu.Unlock()
		return errLockError("thread %d holds write lock on %q, cannot also take read lock", tid, l.name)
	}
	for l.writer != 0 {
		holder := l.writer
		ch := l.gen
		l.mu.Unlock()

		if l.mgr.wouldDeadlock(tid, holder) {
			return errLockError("acquiring read lock %q by thread %d would deadlock with thread %d", l.name, tid, holder)
		}
		l.mgr.setWaiting(tid, l)
		timedOut := waitGen(ch, timeoutMs)
		l.mgr.clearWaiting(tid)
		if timedOut {
			return ErrTimeout
		}
		l.mu.Lock()
	}
	l.readers[tid]++
	l.mu.Unlock()
	l.mgr.recordHeld(tid, l)
	return nil
}

func (l *RWLock) RUnlock(tid ThreadID) error {
	l.mu.Lock()
	if l.readers[tid] == 0 {
		l.mu.Unlock()
		return errLockError("thread %d does not hold a read lock on %q", tid, l.name)
	}
	l.readers[tid]--
	if l.readers[tid] == 0 {
		delete(l.readers, tid)
	}
	l.broadcast()
	l.mu.Unlock()
	l.mgr.recordReleased(tid, l)
	return nil
}

func (l *RWLock) WLock(tid ThreadID, timeoutMs int) error {
	l.mu.Lock()
	if l.writer == tid {
		l.writerDepth++
		l.mu.Unlock()
		return nil
	}
	if _, reading := l.readers[tid]; reading {
		l.mu.Unlock()
		return errLockError("thread %d holds read lock on %q, cannot take write lock", tid, l.name)
	}
	for l.writer != 0 || len(l.readers) != 0 {
		holder := l.writer
		ch := l.gen
		l.mu.Unlock()

		if holder != 0 {
			if l.mgr.wouldDeadlock(tid, holder) {
				return errLockError("acquiring write lock %q by thread %d would deadlock with thread %d", l.name, tid, holder)
			}
			l.mgr.setWaiting(tid, l)
		}
		timedOut := waitGen(ch, timeoutMs)
		if holder != 0 {
			l.mgr.clearWaiting(tid)
		}
		if timedOut {
			return ErrTimeout
		}
		l.mu.Lock()
	}
	l.writer = tid
	l.writerDepth = 1
	l.mu.Unlock()
	l.mgr.recordHeld(tid, l)
	return nil
}

func (l *RWLock) WUnlock(tid ThreadID) error {
	l.mu.Lock()
	if l.writer != tid {
		l.mu.Unlock()
		return errLockError("thread %d does not hold write lock on %q", tid, l.name)
	}
	l.writerDepth--
	release := l.writerDepth == 0
	if release {
		l.writer = 0
	}
	l.broadcast()
	l.mu.Unlock()
	if release {
		l.mgr.recordReleased(tid, l)
	}
	return nil
}
