package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/ember/lang/chunk"
	"github.com/mna/ember/lang/compiler"
	"github.com/mna/ember/lang/gc"
	"github.com/mna/ember/lang/value"
)

// Disassemble compiles each file in args and prints a human-readable
// listing of its bytecode instead of running it, recursing into every
// nested function's own chunk (found by scanning the constant pool for
// ObjFunction values, since a Chunk does not otherwise list its children).
func (c *Cmd) Disassemble(_ context.Context, stdio mainer.Stdio, args []string) error {
	for _, path := range args {
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		heap := gc.NewHeap(false, false)
		fn, ok := compiler.Compile(heap, string(src), stdio.Stderr)
		if !ok {
			return fmt.Errorf("%s: compile error", path)
		}

		disassembleFunction(stdio, fn, map[*value.ObjFunction]bool{})
	}
	return nil
}

func disassembleFunction(stdio mainer.Stdio, fn *value.ObjFunction, seen map[*value.ObjFunction]bool) {
	if seen[fn] {
		return
	}
	seen[fn] = true

	name := "<script>"
	if fn.Name != nil {
		name = fn.Name.Chars
	}
	chunk.Disassemble(stdio.Stdout, &fn.Chunk, name)

	for _, cst := range fn.Chunk.Constants {
		if !cst.IsObjType(value.ObjTypeFunction) {
			continue
		}
		disassembleFunction(stdio, cst.AsObj().(*value.ObjFunction), seen)
	}
}
