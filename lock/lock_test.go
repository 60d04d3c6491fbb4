package lock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestMutex_BasicAcquireRelease(t *testing.T) {
	mgr := NewManager()
	t1 := mgr.RegisterThread()
	m := NewMutex(mgr, "m")

	require.NoError(t, m.Lock(t1, 0))
	assert.Equal(t, t1, m.Owner())
	require.NoError(t, m.Unlock(t1))
	assert.EqualValues(t, 0, m.Owner())
}

func TestMutex_NonRecursiveSelfLockErrors(t *testing.T) {
	mgr := NewManager()
	t1 := mgr.RegisterThread()
	m := NewMutex(mgr, "m")
	require.NoError(t, m.Lock(t1, 0))
	err := m.Lock(t1, 0)
	assert.Error(t, err)
}

func TestMutex_UnlockByNonOwnerErrors(t *testing.T) {
	mgr := NewManager()
	t1 := mgr.RegisterThread()
	t2 := mgr.RegisterThread()
	m := NewMutex(mgr, "m")
	require.NoError(t, m.Lock(t1, 0))
	assert.Error(t, m.Unlock(t2))
}

func TestMutex_TimeoutWhenContended(t *testing.T) {
	mgr := NewManager()
	t1 := mgr.RegisterThread()
	t2 := mgr.RegisterThread()
	m := NewMutex(mgr, "m")
	require.NoError(t, m.Lock(t1, 0))

	start := time.Now()
	err := m.Lock(t2, 50)
	assert.True(t, time.Since(start) >= 40*time.Millisecond)
	assert.Equal(t, ErrTimeout, err)
}

// TestMutex_TwoThreadDeadlockDetected reproduces the classic AB-BA
// deadlock: t1 holds A waiting for B, t2 holds B waiting for A. The
// second acquisition must fail synchronously rather than hang.
func TestMutex_TwoThreadDeadlockDetected(t *testing.T) {
	mgr := NewManager()
	t1 := mgr.RegisterThread()
	t2 := mgr.RegisterThread()
	a := NewMutex(mgr, "A")
	b := NewMutex(mgr, "B")

	require.NoError(t, a.Lock(t1, 0))
	require.NoError(t, b.Lock(t2, 0))

	var g errgroup.Group
	g.Go(func() error { return b.Lock(t1, 2000) })

	// give t1 a moment to register as waiting on B before t2 asks for A
	time.Sleep(20 * time.Millisecond)
	err := a.Lock(t2, 0)
	assert.Error(t, err, "t2 acquiring A while t1 waits on B, holding A, must detect the cycle")

	require.NoError(t, b.Unlock(t2))
	assert.NoError(t, g.Wait())
	require.NoError(t, a.Unlock(t1))
	require.NoError(t, b.Unlock(t1))
}

func TestReentrantMutex_NestedLockUnlock(t *testing.T) {
	mgr := NewManager()
	t1 := mgr.RegisterThread()
	m := NewReentrantMutex(mgr, "rm")
	require.NoError(t, m.Lock(t1, 0))
	require.NoError(t, m.Lock(t1, 0))
	require.NoError(t, m.Unlock(t1))
	assert.Equal(t, t1, m.Owner(), "still held after one of two unlocks")
	require.NoError(t, m.Unlock(t1))
	assert.EqualValues(t, 0, m.Owner())
}

func TestRWLock_MultipleReadersConcurrent(t *testing.T) {
	mgr := NewManager()
	t1 := mgr.RegisterThread()
	t2 := mgr.RegisterThread()
	rw := NewRWLock(mgr, "rw")
	require.NoError(t, rw.RLock(t1, 0))
	require.NoError(t, rw.RLock(t2, 50))
	require.NoError(t, rw.RUnlock(t1))
	require.NoError(t, rw.RUnlock(t2))
}

func TestRWLock_WriterExcludesReaders(t *testing.T) {
	mgr := NewManager()
	t1 := mgr.RegisterThread()
	t2 := mgr.RegisterThread()
	rw := NewRWLock(mgr, "rw")
	require.NoError(t, rw.WLock(t1, 0))
	err := rw.RLock(t2, 30)
	assert.Equal(t, ErrTimeout, err)
	require.NoError(t, rw.WUnlock(t1))
}

func TestGate_ReentrantEnterExit(t *testing.T) {
	mgr := NewManager()
	t1 := mgr.RegisterThread()
	g := NewGate(mgr, "g")
	require.NoError(t, g.Enter(t1, 0))
	require.NoError(t, g.Enter(t1, 0))
	assert.Equal(t, 2, g.NumLocks(t1))
	require.NoError(t, g.Exit(t1))
	require.NoError(t, g.Exit(t1))
	assert.Equal(t, 0, g.NumLocks(t1))
}

func TestQueue_PushPopFIFO(t *testing.T) {
	q := NewQueue[int]("q", 2)
	require.NoError(t, q.Push(1, 0))
	require.NoError(t, q.Push(2, 0))
	assert.Equal(t, ErrTimeout, q.Push(3, 30))

	v, err := q.Pop(0)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestQueue_PopBlocksUntilPush(t *testing.T) {
	q := NewQueue[string]("q", 0)
	go func() {
		time.Sleep(20 * time.Millisecond)
		q.Push("hello", 0)
	}()
	v, err := q.Pop(500)
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
}

func TestCounter_WaitForZero(t *testing.T) {
	c := NewCounter(0)
	c.Inc()
	c.Inc()
	go func() {
		time.Sleep(10 * time.Millisecond)
		c.Dec()
		time.Sleep(10 * time.Millisecond)
		c.Dec()
	}()
	require.NoError(t, c.WaitForZero(500))
}

func TestSequence_MonotonicNext(t *testing.T) {
	s := NewSequence(1)
	assert.EqualValues(t, 1, s.Next())
	assert.EqualValues(t, 2, s.Next())
	assert.EqualValues(t, 3, s.Value())
}
