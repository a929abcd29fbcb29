// Package gc implements the precise, non-moving, tracing mark-sweep
// collector shared by the compiler and the virtual machine. It is an
// explicit object (Heap) rather than process-global state: the compiler and
// the VM each hold a reference to the same Heap, and both register the
// extra roots the collector cannot infer on its own (the VM's operand
// stack and call frames, the compiler's in-progress function chain).
package gc

import (
	"io"

	"github.com/mna/ember/lang/value"
)

// growthFactor is how much nextGC grows relative to bytesAllocated after
// each collection.
const growthFactor = 2

// initialNextGC is the byte threshold for the very first collection.
const initialNextGC = 1 << 20

// Heap owns every heap-allocated object, the string intern table, and the
// bookkeeping a mark-sweep cycle needs. It has no knowledge of the VM's
// stack, frames or globals; those are supplied as external roots at
// collection time via the installed RootMarker (see Collect). The
// compiler's in-progress functions are registered with PushCompiling.
type Heap struct {
	objects value.Obj // head of the intrusive list of every live allocation

	bytesAllocated int64
	nextGC         int64
	stressMode     bool
	logMode        bool

	strings value.Table // weak set: interned strings, keyed by themselves

	grayStack []value.Obj

	// protected is a small scratch stack used to root a freshly allocated
	// object across a sequence of further allocations before it has been
	// stored anywhere a normal root walk would find it (e.g. while a
	// constant is being appended to a Chunk's constant pool). See Protect.
	protected []value.Value

	// compiling is the stack of functions currently under construction by
	// the compiler; marked as roots on every cycle, since a GC may run
	// while the compiler itself is still building a Function.
	compiling []*value.ObjFunction

	initString *value.ObjString

	collections int

	rootMarker RootMarker
	logWriter  io.Writer
}

// NewHeap returns an empty Heap. stress, if true, forces a collection
// before every allocation (the GC-conservatism testing mode of §4.7).
// logMode, if true, prints a one-line summary after every collection.
func NewHeap(stress, logMode bool) *Heap {
	h := &Heap{nextGC: initialNextGC, stressMode: stress, logMode: logMode}
	h.initString = h.InternString("init")
	return h
}

// Stats summarizes the Heap's allocation state, for diagnostics.
type Stats struct {
	BytesAllocated int64
	NextGC         int64
	Collections    int
}

// Stats returns a snapshot of the Heap's bookkeeping.
func (h *Heap) Stats() Stats {
	return Stats{BytesAllocated: h.bytesAllocated, NextGC: h.nextGC, Collections: h.collections}
}

// InitString returns the interned "init" string used to recognize
// initializer methods.
func (h *Heap) InitString() *value.ObjString { return h.initString }

// Strings returns the intern table, for callers that want to enumerate
// interned strings. Callers must not mutate it.
func (h *Heap) Strings() *value.Table { return &h.strings }

// Protect roots v for the duration until a matching Unprotect, guarding a
// freshly allocated object that is not yet reachable from any other root
// (e.g. before it is stored into a Chunk's constant pool or a Table).
func (h *Heap) Protect(v value.Value) {
	h.protected = append(h.protected, v)
}

// Unprotect pops the most recently Protect-ed value.
func (h *Heap) Unprotect() {
	h.protected = h.protected[:len(h.protected)-1]
}

// PushCompiling registers fn as an active compilation root, so that a GC
// triggered while fn's bytecode is still being emitted does not collect
// constants or names already stored in it (or, transitively, in its
// enclosing functions).
func (h *Heap) PushCompiling(fn *value.ObjFunction) {
	h.compiling = append(h.compiling, fn)
}

// PopCompiling unregisters the most recently pushed compiling function, once
// it has been fully emitted and handed off to a Closure or returned to the
// caller (at which point ordinary roots find it).
func (h *Heap) PopCompiling() {
	h.compiling = h.compiling[:len(h.compiling)-1]
}

func (h *Heap) track(o value.Obj, size int64) {
	hdr := o.Header()
	hdr.Next = h.objects
	h.objects = o
	h.bytesAllocated += size
}
