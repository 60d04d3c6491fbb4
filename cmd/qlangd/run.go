package main

import (
	"fmt"

	"github.com/spf13/cobra"

	qlang "github.com/clarete/qlang"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate a small built-in demo expression against a fresh Program",
	Long: `run spins up a Program, declares a counter and a running total in
a scope nested under the program's globals, and runs a countdown loop
through the tree-walking evaluator, printing the final total or the
error raised along the way.

Example:
  qlangd run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDemo()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runDemo() error {
	prog := qlang.NewProgram()
	th := prog.NewThread()
	defer th.Close()

	env := &qlang.EvalEnv{Scope: qlang.NewScope(prog.Globals), Thread: th}
	env.Scope.Declare("n", qlang.NewInteger(5))
	env.Scope.Declare("total", qlang.NewInteger(0))

	loop := &qlang.While{
		Cond: &qlang.BinaryOp{Table: qlang.GreaterTable, Left: &qlang.VarRef{Name: "n"}, Right: &qlang.Lit{V: qlang.NewInteger(0)}},
		Body: []qlang.Expr{
			&qlang.Assign{
				Target: &qlang.VarRef{Name: "total"},
				Value:  &qlang.BinaryOp{Table: qlang.PlusTable, Left: &qlang.VarRef{Name: "total"}, Right: &qlang.VarRef{Name: "n"}},
			},
			&qlang.Assign{
				Target: &qlang.VarRef{Name: "n"},
				Value:  &qlang.BinaryOp{Table: qlang.MinusTable, Left: &qlang.VarRef{Name: "n"}, Right: &qlang.Lit{V: qlang.NewInteger(1)}},
			},
		},
	}
	loop.Eval(env)

	if th.Sink.HasError() {
		return fmt.Errorf("evaluation raised %s: %s", th.Sink.Err().Code, th.Sink.Err().Desc)
	}

	total := env.Scope.Lookup("total").Get()
	printVerbose("countdown from 5 summed via the evaluator\n")
	fmt.Println(total.ToInt())
	return nil
}
