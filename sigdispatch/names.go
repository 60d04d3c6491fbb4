// Package sigdispatch maps OS signals to synchronous user callbacks
// through a single dedicated goroutine, the idiomatic Go rendering of
// original_source/lib/QoreSignal.cc's one-thread `sigwait` loop. Go
// has no portable blocking sigwait, so the loop instead drains
// os/signal.Notify — still exactly one goroutine, still fully
// serialized dispatch, which is the property the source design
// actually cares about.
package sigdispatch

import "syscall"

// byName and byNumber are the canonical POSIX signal name table,
// grounded on golang.org/x/sys/unix's signal constants (pack source
// joshuapare-hivekit/go.mod) rather than hand-copied numbers.
var (
	byName   = make(map[string]syscall.Signal)
	byNumber = make(map[syscall.Signal]string)
)

func register(name string, sig syscall.Signal) {
	byName[name] = sig
	byNumber[sig] = name
}

// Lookup resolves a bare signal name (e.g. "HUP", case-insensitive)
// to its syscall.Signal, and reports whether it was known.
func Lookup(name string) (syscall.Signal, bool) {
	sig, ok := byName[canon(name)]
	return sig, ok
}

// Name returns sig's canonical name, or "" if unknown.
func Name(sig syscall.Signal) string { return byNumber[sig] }

func canon(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out = append(out, c)
	}
	s := string(out)
	if len(s) > 3 && s[:3] == "SIG" {
		s = s[3:]
	}
	return s
}
