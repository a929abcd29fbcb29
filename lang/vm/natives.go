package vm

import (
	"fmt"
	"time"

	"github.com/mna/ember/lang/value"
)

// defineNatives populates both the swiss-backed native registry (read only
// by LookupNative) and the globals table itself (so ember source can
// reference and call a native the same way it does any other global).
func (vm *VM) defineNatives() {
	vm.defineNative("clock", nativeClock)
}

func (vm *VM) defineNative(name string, fn value.NativeFn) {
	native := vm.heap.NewNative(name, fn)
	vm.natives.Put(name, native)
	vm.globals.Set(vm.heap.InternString(name), value.FromObj(native))
}

// LookupNative returns the native function registered under name, looked
// up in the native registry rather than the globals table.
func (vm *VM) LookupNative(name string) (*value.ObjNative, bool) {
	return vm.natives.Get(name)
}

func nativeClock(args []value.Value) (value.Value, error) {
	if len(args) != 0 {
		return value.Nil, fmt.Errorf("clock() takes no arguments")
	}
	return value.Number(float64(time.Now().UnixNano()) / float64(time.Second)), nil
}
