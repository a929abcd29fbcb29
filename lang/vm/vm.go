// Package vm implements ember's register-less stack virtual machine: it
// executes the bytecode produced by lang/compiler against a value.Value
// operand stack and a stack of call frames, driving the same lang/gc.Heap
// the compiler allocated into.
package vm

import (
	"fmt"
	"io"

	"github.com/dolthub/swiss"

	"github.com/mna/ember/lang/gc"
	"github.com/mna/ember/lang/value"
)

const (
	framesMax = 64
	stackMax  = framesMax * 256
)

// InterpretResult classifies how an Interpret call ended, mapping directly onto
// the process exit codes the CLI reports.
type InterpretResult int

const (
	InterpretOK InterpretResult = iota
	InterpretCompileError
	InterpretRuntimeError
)

// callFrame is one activation record: the closure being executed, the
// instruction pointer into its chunk, and the base of its window onto the
// shared value stack.
type callFrame struct {
	closure *value.ObjClosure
	ip      int
	slots   int // index into vm.stack of this frame's slot 0
}

// VM is ember's bytecode interpreter. It owns the operand stack, the call
// frame stack, the open-upvalue list and the globals table; it is the
// external root set the Heap calls into via gc.RootMarker, since the Heap
// itself has no notion of any of these.
type VM struct {
	heap *gc.Heap

	stack    [stackMax]value.Value
	stackTop int

	frames    [framesMax]callFrame
	frameCnt  int

	openUpvalues *value.ObjUpvalue

	globals value.Table
	natives *swiss.Map[string, *value.ObjNative]

	stdout io.Writer
	stderr io.Writer
}

// New returns a VM backed by heap, with stdout/stderr used for `print`
// output and runtime error reporting respectively. It installs itself as
// heap's external GC root marker and registers the built-in native
// functions.
func New(heap *gc.Heap, stdout, stderr io.Writer) *VM {
	vm := &VM{heap: heap, stdout: stdout, stderr: stderr, natives: swiss.NewMap[string, *value.ObjNative](8)}
	heap.SetRootMarker(vm.markRoots)
	vm.defineNatives()
	return vm
}

// Stats exposes the heap's allocation bookkeeping.
func (vm *VM) Stats() gc.Stats { return vm.heap.Stats() }

func (vm *VM) push(v value.Value) {
	vm.stack[vm.stackTop] = v
	vm.stackTop++
}

func (vm *VM) pop() value.Value {
	vm.stackTop--
	return vm.stack[vm.stackTop]
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[vm.stackTop-1-distance]
}

func (vm *VM) resetStack() {
	vm.stackTop = 0
	vm.frameCnt = 0
	vm.openUpvalues = nil
}

// Interpret runs fn, a freshly compiled top-level script function (it does
// not compile anything itself): it wraps fn in a closure and calls it as if
// by a zero-argument OP_CALL.
func (vm *VM) Interpret(fn *value.ObjFunction) InterpretResult {
	vm.push(value.FromObj(fn))
	closure := vm.heap.NewClosure(fn)
	vm.pop()
	vm.push(value.FromObj(closure))
	vm.callClosure(closure, 0)

	return vm.run()
}

// markRoots is the gc.RootMarker ember's VM installs: every Value and Obj
// reachable directly from live VM state, which the Heap cannot infer on its
// own.
func (vm *VM) markRoots(h *gc.Heap) {
	for i := 0; i < vm.stackTop; i++ {
		h.MarkValue(vm.stack[i])
	}
	for i := 0; i < vm.frameCnt; i++ {
		h.MarkObject(vm.frames[i].closure)
	}
	for uv := vm.openUpvalues; uv != nil; uv = uv.Next {
		h.MarkObject(uv)
	}
	h.MarkTable(&vm.globals)
}

// runtimeError formats and reports a runtime error followed by a call stack
// trace, one "[line N] in <fn name or script>" line per active frame from
// innermost to outermost, then resets the VM to a clean, reusable state (for
// the REPL, which keeps the same VM across inputs).
func (vm *VM) runtimeError(format string, args ...interface{}) {
	fmt.Fprintf(vm.stderr, format, args...)
	fmt.Fprintln(vm.stderr)

	for i := vm.frameCnt - 1; i >= 0; i-- {
		frame := &vm.frames[i]
		fn := frame.closure.Function
		line := fn.Chunk.Lines[frame.ip-1]
		name := "script"
		if fn.Name != nil {
			name = fn.Name.Chars + "()"
		}
		fmt.Fprintf(vm.stderr, "[line %d] in %s\n", line, name)
	}

	vm.resetStack()
}
