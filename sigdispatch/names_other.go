//go:build !unix

package sigdispatch

// On non-POSIX platforms there is no meaningful signal name table;
// Lookup/Name simply report nothing known, and Dispatcher still works
// for the process-lifecycle signals os/signal.Notify itself supports
// there (e.g. os.Interrupt).
