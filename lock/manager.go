package lock

import "sync"

// Manager is the global lock-graph: for every thread, which locks it
// currently holds and which single lock (if any) it is blocked
// waiting on. Acquiring a contended lock walks this graph before
// blocking — if the walk reaches back to the acquirer, the acquisition
// fails synchronously instead of deadlocking.
type Manager struct {
	mu        sync.Mutex
	nextID    ThreadID
	freeIDs   []ThreadID
	heldBy    map[ThreadID][]Locker
	waitingOn map[ThreadID]Locker
}

func NewManager() *Manager {
	return &Manager{
		heldBy:    make(map[ThreadID][]Locker),
		waitingOn: make(map[ThreadID]Locker),
	}
}

// RegisterThread assigns the next free small id, reusing one released
// by DeregisterThread when available.
func (m *Manager) RegisterThread() ThreadID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n := len(m.freeIDs); n > 0 {
		id := m.freeIDs[n-1]
		m.freeIDs = m.freeIDs[:n-1]
		return id
	}
	m.nextID++
	return m.nextID
}

// DeregisterThread releases tid's id for reuse and drops any VLS
// bookkeeping still attached to it.
func (m *Manager) DeregisterThread(tid ThreadID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.heldBy, tid)
	delete(m.waitingOn, tid)
	m.freeIDs = append(m.freeIDs, tid)
}

func (m *Manager) recordHeld(tid ThreadID, l Locker) {
	m.mu.Lock()
	m.heldBy[tid] = append(m.heldBy[tid], l)
	m.mu.Unlock()
}

func (m *Manager) recordReleased(tid ThreadID, l Locker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	held := m.heldBy[tid]
	for i, h := range held {
		if h == l {
			m.heldBy[tid] = append(held[:i], held[i+1:]...)
			break
		}
	}
}

func (m *Manager) setWaiting(tid ThreadID, l Locker) {
	m.mu.Lock()
	m.waitingOn[tid] = l
	m.mu.Unlock()
}

func (m *Manager) clearWaiting(tid ThreadID) {
	m.mu.Lock()
	delete(m.waitingOn, tid)
	m.mu.Unlock()
}

// wouldDeadlock walks the chain of threads acquirer would have to wait
// behind, starting at holder: holder is waiting on some lock; does
// whoever holds THAT lock lead back to acquirer? A hit anywhere in the
// chain means granting the wait would complete a cycle.
func (m *Manager) wouldDeadlock(acquirer, holder ThreadID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	visited := make(map[ThreadID]bool)
	cur := holder
	for {
		if cur == acquirer {
			return true
		}
		if visited[cur] {
			return false
		}
		visited[cur] = true
		waitLock, ok := m.waitingOn[cur]
		if !ok {
			return false
		}
		next := waitLock.Owner()
		if next == 0 {
			return false
		}
		cur = next
	}
}

// HeldLocks returns the lock names tid currently holds, for
// diagnostics.
func (m *Manager) HeldLocks(tid ThreadID) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	held := m.heldBy[tid]
	out := make([]string, len(held))
	for i, l := range held {
		out[i] = l.Name()
	}
	return out
}
