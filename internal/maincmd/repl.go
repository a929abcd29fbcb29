package maincmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/mna/mainer"
	"golang.org/x/exp/maps"

	"github.com/mna/ember/lang/compiler"
	"github.com/mna/ember/lang/gc"
	"github.com/mna/ember/lang/vm"
)

// Repl runs an interactive read-eval-print loop. The VM and its heap
// persist across lines, so a variable or function declared on one line
// remains visible on the next, exactly like running a single growing
// script; a compile or runtime error on one line does not end the session.
func (c *Cmd) Repl(ctx context.Context, stdio mainer.Stdio, _ []string) error {
	heap := gc.NewHeap(c.GCStress || os.Getenv("EMBER_GC_STRESS") != "", c.GCLog || os.Getenv("EMBER_GC_LOG") != "")
	heap.SetLogWriter(stdio.Stderr)
	machine := vm.New(heap, stdio.Stdout, stdio.Stderr)

	scan := bufio.NewScanner(stdio.Stdin)
	for {
		fmt.Fprint(stdio.Stdout, "> ")
		if !scan.Scan() {
			fmt.Fprintln(stdio.Stdout)
			return scan.Err()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scan.Text()
		switch line {
		case "":
			continue
		case ".globals":
			printGlobals(stdio, machine)
			continue
		}

		fn, ok := compiler.Compile(heap, line, stdio.Stderr)
		if !ok {
			continue
		}
		machine.Interpret(fn)
	}
}

// printGlobals lists every currently defined global in sorted order, for
// the REPL's `.globals` introspection command.
func printGlobals(stdio mainer.Stdio, machine *vm.VM) {
	snapshot := machine.GlobalsSnapshot()
	names := maps.Keys(snapshot)
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(stdio.Stdout, "%s = %s\n", name, snapshot[name].String())
	}
}
