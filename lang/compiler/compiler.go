// Package compiler implements ember's single-pass compiler: a Pratt parser
// with integrated lexical scope resolution that lexes source text and emits
// a value.Chunk of bytecode in the same pass, without building a separate
// abstract syntax tree.
package compiler

import (
	"io"

	"github.com/mna/ember/lang/gc"
	"github.com/mna/ember/lang/scanner"
	"github.com/mna/ember/lang/token"
	"github.com/mna/ember/lang/value"
)

const (
	maxLocals    = 256
	maxUpvalues  = 256
	maxConstants = 256
	maxJump      = 65535
	maxArgs      = 255
)

// functionType distinguishes the four kinds of function body the compiler
// may currently be emitting, which changes how `this`, `super` and bare
// `return` statements are validated.
type functionType int

const (
	typeFunction functionType = iota
	typeInitializer
	typeMethod
	typeScript
)

// local is a declared local variable's compile-time bookkeeping: its name
// token (for shadowing/redeclaration checks), its scope depth (-1 while its
// initializer is still being evaluated), and whether any nested function
// captures it as an upvalue.
type local struct {
	name       scanner.Token
	depth      int
	isCaptured bool
}

// upvalueRef records, for the function currently being compiled, where one
// of its upvalues comes from: a local slot of the immediately enclosing
// function (isLocal true) or an upvalue of that enclosing function
// (isLocal false, in which case index refers to enclosing.upvalues).
type upvalueRef struct {
	index   byte
	isLocal bool
}

// funcState is the compiler's per-in-progress-function record. These form a
// stack linked through enclosing, mirroring the nesting of function
// declarations in the source; this chain is also a GC root while compiling
// (see gc.Heap.PushCompiling), since its `function` field may already hold
// allocated constants before the function is complete.
type funcState struct {
	enclosing *funcState

	function *value.ObjFunction
	typ      functionType

	locals     []local
	upvalues   []upvalueRef
	scopeDepth int
}

// classState tracks the class currently being compiled, to validate `this`
// and `super` and to know whether the enclosing class has a superclass
// clause (and therefore binds a synthetic `super` local).
type classState struct {
	enclosing     *classState
	hasSuperclass bool
}

// parser holds all transient compiler state for a single Compile call.
type parser struct {
	heap   *gc.Heap
	scan   *scanner.Scanner
	stderr io.Writer

	current  scanner.Token
	previous scanner.Token

	hadError  bool
	panicMode bool

	fn    *funcState
	class *classState
}

// Compile lexes and compiles source into a top-level script Function in a
// single pass, resolving local/upvalue scope as it goes. It reports ok=false
// if any compile error occurred, in which case the returned function must be
// discarded: compilation always runs to EOF so that every error in the
// source is reported, but no usable bytecode is produced on failure.
func Compile(h *gc.Heap, source string, stderr io.Writer) (fn *value.ObjFunction, ok bool) {
	p := &parser{heap: h, scan: scanner.New(source), stderr: stderr}
	p.beginFunction(typeScript, "")

	p.advance()
	for !p.match(token.EOF) {
		p.declaration()
	}

	fn = p.endFunction()
	return fn, !p.hadError
}

func (p *parser) beginFunction(typ functionType, name string) {
	fs := &funcState{enclosing: p.fn, typ: typ, scopeDepth: 0}
	fs.function = p.heap.NewFunction()
	if name != "" {
		fs.function.Name = p.heap.InternString(name)
	}
	p.heap.PushCompiling(fs.function)

	// Slot 0 of every call frame is reserved: for methods and initializers
	// it holds the receiver (accessible as `this`); for plain functions and
	// the top-level script it is simply unused, which keeps slot indices
	// uniform regardless of function kind.
	slot0 := local{depth: 0}
	if typ == typeMethod || typ == typeInitializer {
		slot0.name = scanner.Token{Lexeme: "this"}
	}
	fs.locals = append(fs.locals, slot0)

	p.fn = fs
}

// endFunction finishes emitting the current function, pops it off the
// compiler stack, and returns it to the enclosing compiler (or the caller,
// for the top-level script).
func (p *parser) endFunction() *value.ObjFunction {
	p.emitReturn()
	fn := p.fn.function
	fn.UpvalueCount = len(p.fn.upvalues)

	p.heap.PopCompiling()
	p.fn = p.fn.enclosing
	return fn
}

func (p *parser) advance() {
	p.previous = p.current
	for {
		p.current = p.scan.Next()
		if p.current.Type != token.ILLEGAL {
			break
		}
		p.errorAtCurrent(p.current.Lexeme)
	}
}

func (p *parser) check(tt token.Token) bool { return p.current.Type == tt }

func (p *parser) match(tt token.Token) bool {
	if !p.check(tt) {
		return false
	}
	p.advance()
	return true
}

func (p *parser) consume(tt token.Token, msg string) {
	if p.current.Type == tt {
		p.advance()
		return
	}
	p.errorAtCurrent(msg)
}
