package vm

import (
	"fmt"
	"math"

	"github.com/mna/ember/lang/chunk"
	"github.com/mna/ember/lang/value"
)

// run is the dispatch loop: it decodes and executes one instruction at a
// time from the current (topmost) call frame until either an OP_RETURN
// unwinds the very last frame (success) or a runtime error occurs.
func (vm *VM) run() InterpretResult {
	frame := &vm.frames[vm.frameCnt-1]

	readByte := func() byte {
		b := frame.closure.Function.Chunk.Code[frame.ip]
		frame.ip++
		return b
	}
	readShort := func() int {
		hi := readByte()
		lo := readByte()
		return int(hi)<<8 | int(lo)
	}
	readConstant := func() value.Value {
		return frame.closure.Function.Chunk.Constants[readByte()]
	}
	readString := func() *value.ObjString {
		return readConstant().AsObj().(*value.ObjString)
	}

	for {
		op := chunk.Op(readByte())
		switch op {
		case chunk.OpConstant:
			vm.push(readConstant())

		case chunk.OpNil:
			vm.push(value.Nil)
		case chunk.OpTrue:
			vm.push(value.True)
		case chunk.OpFalse:
			vm.push(value.False)
		case chunk.OpPop:
			vm.pop()

		case chunk.OpGetLocal:
			slot := int(readByte())
			vm.push(vm.stack[frame.slots+slot])
		case chunk.OpSetLocal:
			slot := int(readByte())
			vm.stack[frame.slots+slot] = vm.peek(0)

		case chunk.OpGetGlobal:
			name := readString()
			v, ok := vm.globals.Get(name)
			if !ok {
				vm.runtimeError("Undefined variable '%s'.", name.Chars)
				return InterpretRuntimeError
			}
			vm.push(v)
		case chunk.OpDefineGlobal:
			name := readString()
			vm.globals.Set(name, vm.peek(0))
			vm.pop()
		case chunk.OpSetGlobal:
			name := readString()
			if vm.globals.Set(name, vm.peek(0)) {
				vm.globals.Delete(name)
				vm.runtimeError("Undefined variable '%s'.", name.Chars)
				return InterpretRuntimeError
			}

		case chunk.OpGetUpvalue:
			slot := int(readByte())
			vm.push(*frame.closure.Upvalues[slot].Location)
		case chunk.OpSetUpvalue:
			slot := int(readByte())
			*frame.closure.Upvalues[slot].Location = vm.peek(0)

		case chunk.OpGetProperty:
			if !vm.peek(0).IsObjType(value.ObjTypeInstance) {
				vm.runtimeError("Only instances have properties.")
				return InterpretRuntimeError
			}
			inst := vm.peek(0).AsObj().(*value.ObjInstance)
			name := readString()

			if v, ok := inst.Fields.Get(name); ok {
				vm.pop()
				vm.push(v)
				break
			}
			if !vm.bindMethod(inst.Class, name) {
				return InterpretRuntimeError
			}

		case chunk.OpSetProperty:
			if !vm.peek(1).IsObjType(value.ObjTypeInstance) {
				vm.runtimeError("Only instances have fields.")
				return InterpretRuntimeError
			}
			inst := vm.peek(1).AsObj().(*value.ObjInstance)
			name := readString()
			inst.Fields.Set(name, vm.peek(0))

			v := vm.pop()
			vm.pop()
			vm.push(v)

		case chunk.OpGetSuper:
			name := readString()
			superclass := vm.pop().AsObj().(*value.ObjClass)
			if !vm.bindMethod(superclass, name) {
				return InterpretRuntimeError
			}

		case chunk.OpEqual:
			b := vm.pop()
			a := vm.pop()
			vm.push(value.Bool(value.Equal(a, b)))

		case chunk.OpGreater, chunk.OpLess:
			if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
				vm.runtimeError("Operands must be numbers.")
				return InterpretRuntimeError
			}
			b := vm.pop().AsNumber()
			a := vm.pop().AsNumber()
			if op == chunk.OpGreater {
				vm.push(value.Bool(a > b))
			} else {
				vm.push(value.Bool(a < b))
			}

		case chunk.OpAdd:
			if !vm.binaryAdd() {
				return InterpretRuntimeError
			}

		case chunk.OpSubtract, chunk.OpMultiply, chunk.OpDivide, chunk.OpExponent:
			if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
				vm.runtimeError("Operands must be numbers.")
				return InterpretRuntimeError
			}
			b := vm.pop().AsNumber()
			a := vm.pop().AsNumber()
			vm.push(value.Number(arithmetic(op, a, b)))

		case chunk.OpNot:
			vm.push(value.Bool(vm.pop().Falsey()))

		case chunk.OpNegate:
			if !vm.peek(0).IsNumber() {
				vm.runtimeError("Operand must be a number.")
				return InterpretRuntimeError
			}
			vm.push(value.Number(-vm.pop().AsNumber()))

		case chunk.OpPrint:
			fmt.Fprintln(vm.stdout, vm.pop().String())

		case chunk.OpJump:
			offset := readShort()
			frame.ip += offset
		case chunk.OpJumpIfFalse:
			offset := readShort()
			if vm.peek(0).Falsey() {
				frame.ip += offset
			}
		case chunk.OpLoop:
			offset := readShort()
			frame.ip -= offset

		case chunk.OpCall:
			argc := int(readByte())
			if !vm.callValue(vm.peek(argc), argc) {
				return InterpretRuntimeError
			}
			frame = &vm.frames[vm.frameCnt-1]

		case chunk.OpInvoke:
			method := readString()
			argc := int(readByte())
			if !vm.invoke(method, argc) {
				return InterpretRuntimeError
			}
			frame = &vm.frames[vm.frameCnt-1]

		case chunk.OpSuperInvoke:
			method := readString()
			argc := int(readByte())
			superclass := vm.pop().AsObj().(*value.ObjClass)
			if !vm.invokeFromClass(superclass, method, argc) {
				return InterpretRuntimeError
			}
			frame = &vm.frames[vm.frameCnt-1]

		case chunk.OpClosure:
			fn := readConstant().AsObj().(*value.ObjFunction)
			closure := vm.heap.NewClosure(fn)
			vm.push(value.FromObj(closure))
			for i := 0; i < fn.UpvalueCount; i++ {
				isLocal := readByte()
				index := int(readByte())
				if isLocal != 0 {
					closure.Upvalues[i] = vm.captureUpvalue(frame.slots + index)
				} else {
					closure.Upvalues[i] = frame.closure.Upvalues[index]
				}
			}

		case chunk.OpCloseUpvalue:
			vm.closeUpvalues(vm.stackTop - 1)
			vm.pop()

		case chunk.OpReturn:
			result := vm.pop()
			vm.closeUpvalues(frame.slots)
			vm.frameCnt--
			if vm.frameCnt == 0 {
				vm.pop()
				return InterpretOK
			}
			vm.stackTop = frame.slots
			vm.push(result)
			frame = &vm.frames[vm.frameCnt-1]

		case chunk.OpClass:
			name := readString()
			vm.push(value.FromObj(vm.heap.NewClass(name)))

		case chunk.OpInherit:
			superVal := vm.peek(1)
			if !superVal.IsObjType(value.ObjTypeClass) {
				vm.runtimeError("Superclass must be a class.")
				return InterpretRuntimeError
			}
			superclass := superVal.AsObj().(*value.ObjClass)
			subclass := vm.peek(0).AsObj().(*value.ObjClass)
			subclass.Methods.AddAll(&superclass.Methods)
			vm.pop() // subclass; superclass remains, becomes the `super` local

		case chunk.OpMethod:
			name := readString()
			vm.defineMethod(name)

		default:
			vm.runtimeError("Unknown opcode %d.", byte(op))
			return InterpretRuntimeError
		}
	}
}

func arithmetic(op chunk.Op, a, b float64) float64 {
	switch op {
	case chunk.OpSubtract:
		return a - b
	case chunk.OpMultiply:
		return a * b
	case chunk.OpDivide:
		return a / b
	case chunk.OpExponent:
		return math.Pow(a, b)
	default:
		return 0
	}
}
