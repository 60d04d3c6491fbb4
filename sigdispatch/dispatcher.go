package sigdispatch

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Handler is a user signal callback, invoked synchronously from the
// dispatcher's single goroutine — never concurrently with itself or
// any other handler.
type Handler func(sig syscall.Signal)

// Dispatcher serializes delivery of a chosen set of OS signals to
// per-signal Go callbacks through one dedicated goroutine.
type Dispatcher struct {
	mu       sync.Mutex
	handlers map[syscall.Signal]Handler
	ch       chan os.Signal
	done     chan struct{}
	running  bool
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[syscall.Signal]Handler),
		ch:       make(chan os.Signal, 16),
		done:     make(chan struct{}),
	}
}

// On registers h for sig, replacing any previous handler, and starts
// watching sig with the OS if the dispatcher is already running.
func (d *Dispatcher) On(sig syscall.Signal, h Handler) {
	d.mu.Lock()
	d.handlers[sig] = h
	running := d.running
	d.mu.Unlock()
	if running {
		signal.Notify(d.ch, sig)
	}
}

// Off removes sig's handler and stops watching it.
func (d *Dispatcher) Off(sig syscall.Signal) {
	d.mu.Lock()
	delete(d.handlers, sig)
	d.mu.Unlock()
	signal.Reset(sig)
	d.resubscribeLocked()
}

func (d *Dispatcher) resubscribeLocked() {
	d.mu.Lock()
	sigs := make([]os.Signal, 0, len(d.handlers))
	for s := range d.handlers {
		sigs = append(sigs, s)
	}
	d.mu.Unlock()
	if len(sigs) > 0 {
		signal.Notify(d.ch, sigs...)
	}
}

// Start subscribes to every currently-registered signal and begins
// the dispatch loop in its own goroutine. Calling Start twice is a
// no-op.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return
	}
	d.running = true
	sigs := make([]os.Signal, 0, len(d.handlers))
	for s := range d.handlers {
		sigs = append(sigs, s)
	}
	d.mu.Unlock()

	if len(sigs) > 0 {
		signal.Notify(d.ch, sigs...)
	}
	go d.loop()
}

func (d *Dispatcher) loop() {
	for {
		select {
		case s := <-d.ch:
			d.dispatch(s)
		case <-d.done:
			return
		}
	}
}

func (d *Dispatcher) dispatch(s os.Signal) {
	sig, ok := s.(syscall.Signal)
	if !ok {
		return
	}
	d.mu.Lock()
	h := d.handlers[sig]
	d.mu.Unlock()
	if h != nil {
		h(sig)
	}
}

// Stop ends the dispatch loop and unsubscribes from every signal.
// The Dispatcher cannot be restarted after Stop.
func (d *Dispatcher) Stop() {
	signal.Stop(d.ch)
	close(d.done)
}
