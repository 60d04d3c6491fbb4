package sigdispatch

import (
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_KnownName(t *testing.T) {
	sig, ok := Lookup("usr1")
	require.True(t, ok)
	assert.Equal(t, syscall.SIGUSR1, sig)
	assert.Equal(t, "USR1", Name(sig))
}

func TestLookup_SIGPrefixAccepted(t *testing.T) {
	sig, ok := Lookup("SIGTERM")
	require.True(t, ok)
	assert.Equal(t, syscall.SIGTERM, sig)
}

func TestDispatcher_DeliversRegisteredSignal(t *testing.T) {
	d := NewDispatcher()
	received := make(chan syscall.Signal, 1)
	d.On(syscall.SIGUSR1, func(sig syscall.Signal) { received <- sig })
	d.Start()
	defer d.Stop()

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGUSR1))

	select {
	case sig := <-received:
		assert.Equal(t, syscall.SIGUSR1, sig)
	case <-time.After(2 * time.Second):
		t.Fatal("signal handler was never invoked")
	}
}

func TestDispatcher_OffStopsDelivery(t *testing.T) {
	d := NewDispatcher()
	received := make(chan syscall.Signal, 1)
	d.On(syscall.SIGUSR2, func(sig syscall.Signal) { received <- sig })
	d.Start()
	defer d.Stop()

	d.Off(syscall.SIGUSR2)
	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGUSR2))

	select {
	case <-received:
		t.Fatal("handler fired after Off")
	case <-time.After(200 * time.Millisecond):
	}
}
