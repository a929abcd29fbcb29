package gc

import (
	"reflect"

	"github.com/mna/ember/lang/value"
)

// MarkObject marks o reachable and, if this is the first time it has been
// seen this cycle, pushes it onto the gray worklist for later tracing of its
// children. A nil o, including a typed nil pointer such as an unnamed
// function's Name, is ignored.
func (h *Heap) MarkObject(o value.Obj) {
	if o == nil || reflect.ValueOf(o).IsNil() {
		return
	}
	hdr := o.Header()
	if hdr.Marked {
		return
	}
	hdr.Marked = true
	h.grayStack = append(h.grayStack, o)
}

// MarkValue marks v's referenced object, if any; numbers, booleans and nil
// need no marking.
func (h *Heap) MarkValue(v value.Value) {
	if v.IsObj() {
		h.MarkObject(v.AsObj())
	}
}

// MarkTable marks every live key and value of t (used for the globals
// table; the intern table is handled separately, as a weak set, by
// Table.RemoveWhite during Collect).
func (h *Heap) MarkTable(t *value.Table) {
	for _, k := range t.Keys() {
		h.MarkObject(k)
		v, _ := t.Get(k)
		h.MarkValue(v)
	}
}

// traceReferences drains the gray worklist, marking the children of each
// gray object until none remain.
func (h *Heap) traceReferences() {
	for len(h.grayStack) > 0 {
		n := len(h.grayStack) - 1
		o := h.grayStack[n]
		h.grayStack = h.grayStack[:n]
		h.blacken(o)
	}
}

func (h *Heap) blacken(o value.Obj) {
	switch v := o.(type) {
	case *value.ObjString:
		// no references

	case *value.ObjFunction:
		h.MarkObject(v.Name)
		for _, c := range v.Chunk.Constants {
			h.MarkValue(c)
		}

	case *value.ObjNative:
		// no references

	case *value.ObjClosure:
		h.MarkObject(v.Function)
		for _, uv := range v.Upvalues {
			h.MarkObject(uv)
		}

	case *value.ObjUpvalue:
		h.MarkValue(v.Closed)

	case *value.ObjClass:
		h.MarkObject(v.Name)
		h.MarkTable(&v.Methods)

	case *value.ObjInstance:
		h.MarkObject(v.Class)
		h.MarkTable(&v.Fields)

	case *value.ObjBoundMethod:
		h.MarkValue(v.Receiver)
		h.MarkObject(v.Method)
	}
}

// markOwnRoots marks the roots the Heap knows about without help: the
// cached "init" string, every value on the Protect scratch stack, and every
// function currently under construction by the compiler. The intern table
// is not a root; its unmarked keys are dropped after tracing.
func (h *Heap) markOwnRoots() {
	h.MarkObject(h.initString)
	for _, v := range h.protected {
		h.MarkValue(v)
	}
	for _, fn := range h.compiling {
		h.MarkObject(fn)
	}
}
