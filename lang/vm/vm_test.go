package vm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/ember/lang/compiler"
	"github.com/mna/ember/lang/gc"
	"github.com/mna/ember/lang/vm"
)

// runSource compiles and runs src against a fresh heap and VM, returning
// everything printed to stdout/stderr and the interpret result.
func runSource(t *testing.T, src string) (stdout, stderr string, result vm.InterpretResult) {
	t.Helper()
	heap := gc.NewHeap(false, false)
	var outBuf, errBuf bytes.Buffer

	fn, ok := compiler.Compile(heap, src, &errBuf)
	require.True(t, ok, "compile error: %s", errBuf.String())

	machine := vm.New(heap, &outBuf, &errBuf)
	result = machine.Interpret(fn)
	return outBuf.String(), errBuf.String(), result
}

func TestArithmeticPrecedence(t *testing.T) {
	out, _, result := runSource(t, `print 1 + 2 * 3;`)
	require.Equal(t, vm.InterpretOK, result)
	assert.Equal(t, "7\n", out)
}

func TestExponentIsRightAssociative(t *testing.T) {
	out, _, result := runSource(t, `print 2 ^ 3 ^ 2;`)
	require.Equal(t, vm.InterpretOK, result)
	assert.Equal(t, "512\n", out)
}

func TestStringConcatenationAndInterning(t *testing.T) {
	out, _, result := runSource(t, `
		var a = "foo" + "bar";
		var b = "foo" + "bar";
		print a == b;
		print a;
	`)
	require.Equal(t, vm.InterpretOK, result)
	assert.Equal(t, "true\nfoobar\n", out)
}

func TestClosuresCaptureSharedLocal(t *testing.T) {
	out, _, result := runSource(t, `
		fun makeCounter() {
			var i = 0;
			fun count() {
				i = i + 1;
				print i;
			}
			return count;
		}
		var counter = makeCounter();
		counter();
		counter();
	`)
	require.Equal(t, vm.InterpretOK, result)
	assert.Equal(t, "1\n2\n", out)
}

func TestRecursiveFibonacci(t *testing.T) {
	out, _, result := runSource(t, `
		fun fib(n) {
			if (n < 2) return n;
			return fib(n - 1) + fib(n - 2);
		}
		print fib(10);
	`)
	require.Equal(t, vm.InterpretOK, result)
	assert.Equal(t, "55\n", out)
}

func TestClassInstancesAndInit(t *testing.T) {
	out, _, result := runSource(t, `
		class Point {
			init(x, y) {
				this.x = x;
				this.y = y;
			}
			sum() {
				return this.x + this.y;
			}
		}
		var p = Point(3, 4);
		print p.sum();
	`)
	require.Equal(t, vm.InterpretOK, result)
	assert.Equal(t, "7\n", out)
}

func TestInheritanceAndSuper(t *testing.T) {
	out, _, result := runSource(t, `
		class Animal {
			speak() {
				return "...";
			}
		}
		class Dog < Animal {
			speak() {
				return "Woof, " + super.speak();
			}
		}
		print Dog().speak();
	`)
	require.Equal(t, vm.InterpretOK, result)
	assert.Equal(t, "Woof, ...\n", out)
}

func TestLogicalShortCircuit(t *testing.T) {
	out, _, result := runSource(t, `
		fun sideEffect() { print "called"; return true; }
		print false and sideEffect();
		print true or sideEffect();
	`)
	require.Equal(t, vm.InterpretOK, result)
	assert.Equal(t, "false\ntrue\n", out)
}

func TestNativeClockReturnsNumber(t *testing.T) {
	out, _, result := runSource(t, `print clock() > 0;`)
	require.Equal(t, vm.InterpretOK, result)
	assert.Equal(t, "true\n", out)
}

func TestRuntimeErrorTypeMismatch(t *testing.T) {
	_, errs, result := runSource(t, `print 1 + "two";`)
	assert.Equal(t, vm.InterpretRuntimeError, result)
	assert.Contains(t, errs, "Operands must be two numbers or two strings.")
	assert.Contains(t, errs, "[line 1] in script")
}

func TestRuntimeErrorUndefinedGlobal(t *testing.T) {
	_, errs, result := runSource(t, `print missing;`)
	assert.Equal(t, vm.InterpretRuntimeError, result)
	assert.Contains(t, errs, "Undefined variable 'missing'.")
}

func TestRuntimeErrorWrongInitArity(t *testing.T) {
	_, errs, result := runSource(t, `
		class Point {
			init(x, y) { this.x = x; this.y = y; }
		}
		Point(1);
	`)
	assert.Equal(t, vm.InterpretRuntimeError, result)
	assert.Contains(t, errs, "Expected 2 arguments but got 1.")
}

func TestGlobalsSnapshotReflectsDefinitions(t *testing.T) {
	heap := gc.NewHeap(false, false)
	var outBuf, errBuf bytes.Buffer
	fn, ok := compiler.Compile(heap, `var pi = 3; var e = 2;`, &errBuf)
	require.True(t, ok, errBuf.String())

	machine := vm.New(heap, &outBuf, &errBuf)
	require.Equal(t, vm.InterpretOK, machine.Interpret(fn))

	snapshot := machine.GlobalsSnapshot()
	require.Contains(t, snapshot, "pi")
	require.Contains(t, snapshot, "e")
	assert.True(t, strings.Contains(snapshot["pi"].String(), "3"))
}
