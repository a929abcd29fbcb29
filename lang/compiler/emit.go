package compiler

import (
	"github.com/mna/ember/lang/chunk"
	"github.com/mna/ember/lang/value"
)

func (p *parser) currentChunk() *value.Chunk { return &p.fn.function.Chunk }

func (p *parser) emitByte(b byte) {
	p.currentChunk().Write(b, p.previous.Line)
}

func (p *parser) emitOp(op chunk.Op) { p.emitByte(byte(op)) }

func (p *parser) emitBytes(op chunk.Op, b byte) {
	p.emitOp(op)
	p.emitByte(b)
}

// emitReturn emits the implicit return at the end of a function body. An
// initializer implicitly returns `this` (local slot 0) rather than nil.
func (p *parser) emitReturn() {
	if p.fn.typ == typeInitializer {
		p.emitBytes(chunk.OpGetLocal, 0)
	} else {
		p.emitOp(chunk.OpNil)
	}
	p.emitOp(chunk.OpReturn)
}

// makeConstant appends v to the current chunk's constant pool, rooting it
// across the append in case growing the pool's backing array triggers other
// allocations under stress-test GC mode.
func (p *parser) makeConstant(v value.Value) byte {
	p.heap.Protect(v)
	idx := p.currentChunk().AddConstant(v)
	p.heap.Unprotect()
	if idx > maxConstants-1 {
		p.error("Too many constants in one chunk.")
		return 0
	}
	return byte(idx)
}

func (p *parser) emitConstant(v value.Value) {
	p.emitBytes(chunk.OpConstant, p.makeConstant(v))
}

// identifierConstant interns name and stores it as a constant, returning its
// index, for opcodes that reference a name by constant-pool index (globals,
// properties, methods).
func (p *parser) identifierConstant(name string) byte {
	return p.makeConstant(value.FromObj(p.heap.InternString(name)))
}

// emitJump emits a jump opcode with a placeholder 2-byte big-endian operand
// and returns the offset of the first placeholder byte, to be patched once
// the jump target is known.
func (p *parser) emitJump(op chunk.Op) int {
	p.emitOp(op)
	p.emitByte(0xff)
	p.emitByte(0xff)
	return len(p.currentChunk().Code) - 2
}

// patchJump backpatches the jump instruction at offset to land on the
// current end of the chunk.
func (p *parser) patchJump(offset int) {
	jump := len(p.currentChunk().Code) - offset - 2
	if jump > maxJump {
		p.error("Too much code to jump over.")
	}

	code := p.currentChunk().Code
	code[offset] = byte((jump >> 8) & 0xff)
	code[offset+1] = byte(jump & 0xff)
}

// emitLoop emits a backward jump (OP_LOOP) to loopStart.
func (p *parser) emitLoop(loopStart int) {
	p.emitOp(chunk.OpLoop)

	offset := len(p.currentChunk().Code) - loopStart + 2
	if offset > maxJump {
		p.error("Loop body too large.")
	}
	p.emitByte(byte((offset >> 8) & 0xff))
	p.emitByte(byte(offset & 0xff))
}
