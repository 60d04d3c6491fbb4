//go:build unix

package sigdispatch

import (
	"syscall"

	"golang.org/x/sys/unix"
)

func init() {
	register("HUP", syscall.Signal(unix.SIGHUP))
	register("INT", syscall.Signal(unix.SIGINT))
	register("QUIT", syscall.Signal(unix.SIGQUIT))
	register("ILL", syscall.Signal(unix.SIGILL))
	register("TRAP", syscall.Signal(unix.SIGTRAP))
	register("ABRT", syscall.Signal(unix.SIGABRT))
	register("BUS", syscall.Signal(unix.SIGBUS))
	register("FPE", syscall.Signal(unix.SIGFPE))
	register("KILL", syscall.Signal(unix.SIGKILL))
	register("USR1", syscall.Signal(unix.SIGUSR1))
	register("SEGV", syscall.Signal(unix.SIGSEGV))
	register("USR2", syscall.Signal(unix.SIGUSR2))
	register("PIPE", syscall.Signal(unix.SIGPIPE))
	register("ALRM", syscall.Signal(unix.SIGALRM))
	register("TERM", syscall.Signal(unix.SIGTERM))
	register("CHLD", syscall.Signal(unix.SIGCHLD))
	register("CONT", syscall.Signal(unix.SIGCONT))
	register("STOP", syscall.Signal(unix.SIGSTOP))
	register("TSTP", syscall.Signal(unix.SIGTSTP))
	register("TTIN", syscall.Signal(unix.SIGTTIN))
	register("TTOU", syscall.Signal(unix.SIGTTOU))
	register("URG", syscall.Signal(unix.SIGURG))
	register("WINCH", syscall.Signal(unix.SIGWINCH))
}
