package compiler_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/ember/lang/compiler"
	"github.com/mna/ember/lang/gc"
)

func compile(t *testing.T, src string) (ok bool, stderr string) {
	t.Helper()
	heap := gc.NewHeap(false, false)
	var buf bytes.Buffer
	_, ok = compiler.Compile(heap, src, &buf)
	return ok, buf.String()
}

func TestCompileValidPrograms(t *testing.T) {
	cases := []string{
		`print 1 + 2 * 3;`,
		`var x = 1; x = x + 1; print x;`,
		`fun add(a, b) { return a + b; } print add(1, 2);`,
		`class Foo { bar() { return this; } } var f = Foo(); print f.bar();`,
		`class A { greet() { return "a"; } } class B < A { greet() { return super.greet(); } }`,
		`for (var i = 0; i < 10; i = i + 1) print i;`,
		`var i = 0; while (i < 3) { print i; i = i + 1; }`,
	}
	for _, src := range cases {
		ok, errs := compile(t, src)
		assert.True(t, ok, "source: %s\nerrors:\n%s", src, errs)
		assert.Empty(t, errs)
	}
}

func TestCompileErrors(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{`print ;`, "Expect expression."},
		{`var x = 1 print x;`, "Expect ';' after variable declaration."},
		{`return 1;`, "Can't return from top-level code."},
		{`fun f() { var a = a; }`, "Can't read local variable in its own initializer."},
		{`fun f() { var a = 1; var a = 2; }`, "Already a variable with this name in this scope."},
		{`class A { init() { return 1; } }`, "Can't return a value from an initializer."},
		{`this;`, "Can't use 'this' outside of a class."},
		{`class A < A {}`, "A class can't inherit from itself."},
		{`1 = 2;`, "Invalid assignment target."},
	}
	for _, tt := range cases {
		ok, errs := compile(t, tt.src)
		assert.False(t, ok, "source: %s", tt.src)
		assert.Contains(t, errs, tt.want, "source: %s", tt.src)
	}
}

func TestCompileResync(t *testing.T) {
	// A syntax error in one statement must not suppress reporting of an
	// independent error in the next one.
	ok, errs := compile(t, "print ; print ;")
	require.False(t, ok)
	assert.Equal(t, 2, bytes.Count([]byte(errs), []byte("Expect expression.")))
}

func TestCompiledFunctionArity(t *testing.T) {
	heap := gc.NewHeap(false, false)
	var buf bytes.Buffer
	fn, ok := compiler.Compile(heap, `fun add(a, b, c) { return a + b + c; } print add(1, 2, 3);`, &buf)
	require.True(t, ok, buf.String())

	// the top-level script itself has arity 0 and is anonymous
	assert.Equal(t, 0, fn.Arity)
	assert.Nil(t, fn.Name)

	var found bool
	for _, c := range fn.Chunk.Constants {
		if c.String() == "<fn add>" {
			found = true
		}
	}
	assert.True(t, found, "expected the compiled chunk's constant pool to contain the add closure")
}
