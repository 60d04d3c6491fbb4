package lock

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// Queue is a bounded (or unbounded, when maxSize <= 0) thread-safe
// FIFO, blocking producers when full and consumers when empty
//. It is
// generic over the element type since the lock package has no
// dependency on the value graph's node types. Capacity is enforced
// with a weighted semaphore rather than hand-rolled counting, since
// that's exactly the shape golang.org/x/sync/semaphore is for.
type Queue[T any] struct {
	name      string
	freeSlots *semaphore.Weighted // nil when unbounded

	mu       sync.Mutex
	notEmpty *sync.Cond
	items    []T
	closed   bool
}

func NewQueue[T any](name string, maxSize int) *Queue[T] {
	q := &Queue[T]{name: name}
	if maxSize > 0 {
		q.freeSlots = semaphore.NewWeighted(int64(maxSize))
	}
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

func (q *Queue[T]) Name() string { return q.name }
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Push blocks while the queue is at capacity, up to timeoutMs
// milliseconds (0 = forever).
func (q *Queue[T]) Push(v T, timeoutMs int) error {
	q.mu.Lock()
	closed := q.closed
	q.mu.Unlock()
	if closed {
		return errLockError("push on closed queue %q", q.name)
	}
	if q.freeSlots != nil {
		ctx, cancel := acquireContext(timeoutMs)
		defer cancel()
		if err := q.freeSlots.Acquire(ctx, 1); err != nil {
			return ErrTimeout
		}
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		if q.freeSlots != nil {
			q.freeSlots.Release(1)
		}
		return errLockError("push on closed queue %q", q.name)
	}
	q.items = append(q.items, v)
	q.notEmpty.Signal()
	q.mu.Unlock()
	return nil
}

// Pop blocks while the queue is empty, up to timeoutMs milliseconds.
func (q *Queue[T]) Pop(timeoutMs int) (T, error) {
	q.mu.Lock()
	var zero T
	for len(q.items) == 0 {
		if q.closed {
			q.mu.Unlock()
			return zero, errLockError("pop on closed empty queue %q", q.name)
		}
		if !condWaitTimeout(q.notEmpty, timeoutMs) {
			q.mu.Unlock()
			return zero, ErrTimeout
		}
	}
	v := q.items[0]
	q.items = q.items[1:]
	q.mu.Unlock()

	if q.freeSlots != nil {
		q.freeSlots.Release(1)
	}
	return v, nil
}

// Close marks the queue closed: pending and future Pops drain
// whatever remains, then fail; Pushes fail immediately.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	q.closed = true
	q.notEmpty.Broadcast()
	q.mu.Unlock()
}

func acquireContext(timeoutMs int) (context.Context, context.CancelFunc) {
	if timeoutMs <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), time.Duration(timeoutMs)*time.Millisecond)
}
