package chunk

import (
	"fmt"
	"io"

	"github.com/mna/ember/lang/value"
)

// Disassemble writes a human-readable listing of every instruction in c to
// w, labeled with name.
func Disassemble(w io.Writer, c *value.Chunk, name string) {
	fmt.Fprintf(w, "== %s ==\n", name)
	for offset := 0; offset < len(c.Code); {
		offset = DisassembleInstruction(w, c, offset)
	}
}

// DisassembleInstruction writes the single instruction at offset to w and
// returns the offset of the next instruction.
func DisassembleInstruction(w io.Writer, c *value.Chunk, offset int) int {
	fmt.Fprintf(w, "%04d ", offset)
	if offset > 0 && c.Lines[offset] == c.Lines[offset-1] {
		fmt.Fprint(w, "   | ")
	} else {
		fmt.Fprintf(w, "%4d ", c.Lines[offset])
	}

	op := Op(c.Code[offset])
	switch op {
	case OpConstant, OpGetGlobal, OpDefineGlobal, OpSetGlobal, OpGetProperty,
		OpSetProperty, OpGetSuper, OpClass, OpMethod:
		return constantInstruction(w, op, c, offset)
	case OpGetLocal, OpSetLocal, OpGetUpvalue, OpSetUpvalue, OpCall:
		return byteInstruction(w, op, c, offset)
	case OpJump, OpJumpIfFalse:
		return jumpInstruction(w, op, 1, c, offset)
	case OpLoop:
		return jumpInstruction(w, op, -1, c, offset)
	case OpInvoke, OpSuperInvoke:
		return invokeInstruction(w, op, c, offset)
	case OpClosure:
		return closureInstruction(w, c, offset)
	default:
		return simpleInstruction(w, op, offset)
	}
}

func simpleInstruction(w io.Writer, op Op, offset int) int {
	fmt.Fprintf(w, "%s\n", op)
	return offset + 1
}

func byteInstruction(w io.Writer, op Op, c *value.Chunk, offset int) int {
	slot := c.Code[offset+1]
	fmt.Fprintf(w, "%-16s %4d\n", op, slot)
	return offset + 2
}

func jumpInstruction(w io.Writer, op Op, sign int, c *value.Chunk, offset int) int {
	jump := int(c.Code[offset+1])<<8 | int(c.Code[offset+2])
	target := offset + 3 + sign*jump
	fmt.Fprintf(w, "%-16s %4d -> %d\n", op, offset, target)
	return offset + 3
}

func constantInstruction(w io.Writer, op Op, c *value.Chunk, offset int) int {
	idx := c.Code[offset+1]
	fmt.Fprintf(w, "%-16s %4d '%s'\n", op, idx, c.Constants[idx].String())
	return offset + 2
}

func invokeInstruction(w io.Writer, op Op, c *value.Chunk, offset int) int {
	idx := c.Code[offset+1]
	argc := c.Code[offset+2]
	fmt.Fprintf(w, "%-16s (%d args) %4d '%s'\n", op, argc, idx, c.Constants[idx].String())
	return offset + 3
}

func closureInstruction(w io.Writer, c *value.Chunk, offset int) int {
	offset++
	idx := c.Code[offset]
	offset++
	fmt.Fprintf(w, "%-16s %4d '%s'\n", OpClosure, idx, c.Constants[idx].String())

	fn, ok := c.Constants[idx].AsObj().(*value.ObjFunction)
	if !ok {
		return offset
	}
	for j := 0; j < fn.UpvalueCount; j++ {
		isLocal := c.Code[offset]
		index := c.Code[offset+1]
		offset += 2
		kind := "upvalue"
		if isLocal != 0 {
			kind = "local"
		}
		fmt.Fprintf(w, "%04d      |                     %s %d\n", offset-2, kind, index)
	}
	return offset
}
