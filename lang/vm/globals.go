package vm

import "github.com/mna/ember/lang/value"

// GlobalsSnapshot copies the current globals table into a plain Go map,
// for the REPL's `.globals` introspection command; unlike value.Table, a
// Go map lets the caller use golang.org/x/exp/maps to get a deterministic,
// sorted iteration order for display.
func (vm *VM) GlobalsSnapshot() map[string]value.Value {
	m := make(map[string]value.Value, vm.globals.Len())
	for _, k := range vm.globals.Keys() {
		v, _ := vm.globals.Get(k)
		m[k.Chars] = v
	}
	return m
}
