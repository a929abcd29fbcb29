package vm

import (
	"unsafe"

	"github.com/mna/ember/lang/value"
)

// addr gives open upvalues a total order over stack slots so captureUpvalue
// and closeUpvalues can walk the (pointer-sorted) open-upvalue list without
// ember's Value needing any notion of its own stack position.
func addr(v *value.Value) uintptr { return uintptr(unsafe.Pointer(v)) }

// callValue dispatches an OP_CALL/OP_INVOKE-style call to whatever callable
// is in callee: a Closure pushes a new frame, a Class instantiates itself
// (running `init` if present), a BoundMethod rebinds its receiver into slot
// 0 and calls its underlying Closure, and a native function runs
// immediately without a frame at all.
func (vm *VM) callValue(callee value.Value, argc int) bool {
	if !callee.IsObj() {
		vm.runtimeError("Can only call functions and classes.")
		return false
	}

	switch o := callee.AsObj().(type) {
	case *value.ObjClosure:
		return vm.callClosure(o, argc)

	case *value.ObjNative:
		return vm.callNative(o, argc)

	case *value.ObjClass:
		inst := vm.heap.NewInstance(o)
		vm.stack[vm.stackTop-argc-1] = value.FromObj(inst)
		if init, ok := o.Methods.Get(vm.heap.InitString()); ok {
			return vm.callClosure(init.AsObj().(*value.ObjClosure), argc)
		}
		if argc != 0 {
			vm.runtimeError("Expected 0 arguments but got %d.", argc)
			return false
		}
		return true

	case *value.ObjBoundMethod:
		vm.stack[vm.stackTop-argc-1] = o.Receiver
		return vm.callClosure(o.Method, argc)

	default:
		vm.runtimeError("Can only call functions and classes.")
		return false
	}
}

func (vm *VM) callClosure(closure *value.ObjClosure, argc int) bool {
	if argc != closure.Function.Arity {
		vm.runtimeError("Expected %d arguments but got %d.", closure.Function.Arity, argc)
		return false
	}
	if vm.frameCnt == framesMax {
		vm.runtimeError("Stack overflow.")
		return false
	}

	frame := &vm.frames[vm.frameCnt]
	vm.frameCnt++
	frame.closure = closure
	frame.ip = 0
	frame.slots = vm.stackTop - argc - 1
	return true
}

func (vm *VM) callNative(native *value.ObjNative, argc int) bool {
	args := vm.stack[vm.stackTop-argc : vm.stackTop]
	result, err := native.Fn(args)
	if err != nil {
		vm.runtimeError("%s", err.Error())
		return false
	}
	vm.stackTop -= argc + 1
	vm.push(result)
	return true
}

// invoke fuses the common `receiver.method(args)` pattern into a single
// step, avoiding the intermediate BoundMethod allocation that OP_GET_PROPERTY
// followed by OP_CALL would otherwise require.
func (vm *VM) invoke(name *value.ObjString, argc int) bool {
	receiver := vm.peek(argc)
	if !receiver.IsObjType(value.ObjTypeInstance) {
		vm.runtimeError("Only instances have methods.")
		return false
	}
	inst := receiver.AsObj().(*value.ObjInstance)

	if v, ok := inst.Fields.Get(name); ok {
		vm.stack[vm.stackTop-argc-1] = v
		return vm.callValue(v, argc)
	}

	return vm.invokeFromClass(inst.Class, name, argc)
}

func (vm *VM) invokeFromClass(class *value.ObjClass, name *value.ObjString, argc int) bool {
	method, ok := class.Methods.Get(name)
	if !ok {
		vm.runtimeError("Undefined property '%s'.", name.Chars)
		return false
	}
	return vm.callClosure(method.AsObj().(*value.ObjClosure), argc)
}

// bindMethod looks up name in class's method table and, if found, replaces
// the receiver on top of the stack with a freshly allocated BoundMethod.
func (vm *VM) bindMethod(class *value.ObjClass, name *value.ObjString) bool {
	method, ok := class.Methods.Get(name)
	if !ok {
		vm.runtimeError("Undefined property '%s'.", name.Chars)
		return false
	}

	bound := vm.heap.NewBoundMethod(vm.peek(0), method.AsObj().(*value.ObjClosure))
	vm.pop()
	vm.push(value.FromObj(bound))
	return true
}

func (vm *VM) defineMethod(name *value.ObjString) {
	method := vm.peek(0)
	class := vm.peek(1).AsObj().(*value.ObjClass)
	class.Methods.Set(name, method)
	vm.pop()
}

// captureUpvalue returns an open upvalue for the stack slot at absolute
// index slot, reusing an existing one if the VM's sorted open-upvalue list
// already has one for that exact slot (so two closures over the same local
// observe the same mutations).
func (vm *VM) captureUpvalue(slot int) *value.ObjUpvalue {
	var prev *value.ObjUpvalue
	uv := vm.openUpvalues
	for uv != nil && uv.Location != &vm.stack[slot] {
		if addr(uv.Location) < addr(&vm.stack[slot]) {
			break
		}
		prev = uv
		uv = uv.Next
	}
	if uv != nil && uv.Location == &vm.stack[slot] {
		return uv
	}

	created := vm.heap.NewUpvalue(&vm.stack[slot])
	created.Next = uv
	if prev == nil {
		vm.openUpvalues = created
	} else {
		prev.Next = created
	}
	return created
}

// closeUpvalues closes every open upvalue pointing at slot index last or
// higher, called when those stack slots are about to be popped (end of
// scope, or function return).
func (vm *VM) closeUpvalues(last int) {
	for vm.openUpvalues != nil && addr(vm.openUpvalues.Location) >= addr(&vm.stack[last]) {
		uv := vm.openUpvalues
		uv.Close()
		vm.openUpvalues = uv.Next
	}
}

// binaryAdd implements OP_ADD's dual numeric-add/string-concatenate
// behavior, the one arithmetic operator that is polymorphic over type.
func (vm *VM) binaryAdd() bool {
	b, a := vm.peek(0), vm.peek(1)
	switch {
	case a.IsNumber() && b.IsNumber():
		bv := vm.pop().AsNumber()
		av := vm.pop().AsNumber()
		vm.push(value.Number(av + bv))
		return true
	case a.IsObjType(value.ObjTypeString) && b.IsObjType(value.ObjTypeString):
		bv := vm.pop().AsObj().(*value.ObjString)
		av := vm.pop().AsObj().(*value.ObjString)
		vm.push(value.FromObj(vm.heap.InternString(av.Chars + bv.Chars)))
		return true
	default:
		vm.runtimeError("Operands must be two numbers or two strings.")
		return false
	}
}
