package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/ember/lang/compiler"
	"github.com/mna/ember/lang/gc"
	"github.com/mna/ember/lang/vm"
)

// Run compiles and executes each file in args in turn, stopping at the
// first one that fails to compile or run. It records the resulting exit
// code on c (ExitOK, ExitCompileError or ExitRuntimeError) for Main to
// return, since mainer's generic Success/Failure pair cannot express the
// three-way distinction ember's exit-code contract requires.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	heap := gc.NewHeap(c.GCStress || os.Getenv("EMBER_GC_STRESS") != "", c.GCLog || os.Getenv("EMBER_GC_LOG") != "")
	heap.SetLogWriter(stdio.Stderr)
	machine := vm.New(heap, stdio.Stdout, stdio.Stderr)

	for _, path := range args {
		src, err := os.ReadFile(path)
		if err != nil {
			c.exitCode = ExitRuntimeError
			return fmt.Errorf("%s: %w", path, err)
		}

		fn, ok := compiler.Compile(heap, string(src), stdio.Stderr)
		if !ok {
			c.exitCode = ExitCompileError
			return fmt.Errorf("%s: compile error", path)
		}

		select {
		case <-ctx.Done():
			c.exitCode = ExitRuntimeError
			return ctx.Err()
		default:
		}

		if result := machine.Interpret(fn); result == vm.InterpretRuntimeError {
			c.exitCode = ExitRuntimeError
			return fmt.Errorf("%s: runtime error", path)
		}
	}

	c.exitCode = ExitOK
	return nil
}
