package main

import (
	"fmt"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/clarete/qlang/sigdispatch"
)

var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "Start the signal dispatcher and wait for SIGINT or SIGTERM",
	Long: `signals starts the dispatcher's draining goroutine and blocks
until either a SIGINT or SIGTERM arrives, printing which one fired.

Example:
  qlangd signals
  (then press Ctrl-C)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSignals()
	},
}

func init() {
	rootCmd.AddCommand(signalsCmd)
}

func runSignals() error {
	d := sigdispatch.NewDispatcher()
	done := make(chan syscall.Signal, 1)

	d.On(syscall.SIGINT, func(sig syscall.Signal) { done <- sig })
	d.On(syscall.SIGTERM, func(sig syscall.Signal) { done <- sig })
	d.Start()
	defer d.Stop()

	printVerbose("waiting for SIGINT or SIGTERM\n")
	sig := <-done
	fmt.Printf("received %s\n", sigdispatch.Name(sig))
	return nil
}
