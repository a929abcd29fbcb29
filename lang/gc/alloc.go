package gc

import "github.com/mna/ember/lang/value"

// RootMarker is supplied by the owner of a Heap's external roots (the VM's
// operand stack, call frames, open-upvalue list and globals table) and is
// invoked at the start of every collection, in addition to the Heap's own
// internal roots (the "init" string, the Protect scratch stack, and the
// compiler's in-progress function chain).
type RootMarker func(h *Heap)

// SetRootMarker installs the external root marker. It must be called once,
// before any allocation, by whichever subsystem owns the Heap (normally the
// VM, immediately after construction and before compiling begins).
func (h *Heap) SetRootMarker(fn RootMarker) { h.rootMarker = fn }

// sizeOf is a rough per-kind allocation cost used only to drive the
// bytesAllocated/nextGC heuristic; it need not be exact.
func sizeOf(o value.Obj) int64 {
	switch o.(type) {
	case *value.ObjString:
		return 32
	case *value.ObjFunction:
		return 64
	case *value.ObjNative:
		return 32
	case *value.ObjClosure:
		return 40
	case *value.ObjUpvalue:
		return 24
	case *value.ObjClass:
		return 48
	case *value.ObjInstance:
		return 48
	case *value.ObjBoundMethod:
		return 32
	default:
		return 16
	}
}

// allocate runs the collection trigger check (stress mode, or crossing
// nextGC) before linking o into the intrusive object list. This is the
// single funnel every object constructor below goes through, matching the
// spec's "every call to the allocator" invariant.
func (h *Heap) allocate(o value.Obj) {
	size := sizeOf(o)
	if h.stressMode || h.bytesAllocated+size > h.nextGC {
		h.Collect()
	}
	h.track(o, size)
}

// NewFunction allocates an empty, uninitialized function shell for the
// compiler to emit bytecode into.
func (h *Heap) NewFunction() *value.ObjFunction {
	fn := value.NewFunction()
	h.allocate(fn)
	return fn
}

// NewNative allocates a native function wrapper.
func (h *Heap) NewNative(name string, fn value.NativeFn) *value.ObjNative {
	n := value.NewNative(name, fn)
	h.allocate(n)
	return n
}

// NewClosure allocates a closure over fn with empty upvalue slots.
func (h *Heap) NewClosure(fn *value.ObjFunction) *value.ObjClosure {
	c := value.NewClosure(fn)
	h.allocate(c)
	return c
}

// NewUpvalue allocates an open upvalue referring to slot.
func (h *Heap) NewUpvalue(slot *value.Value) *value.ObjUpvalue {
	u := value.NewUpvalue(slot)
	h.allocate(u)
	return u
}

// NewClass allocates an empty class named name.
func (h *Heap) NewClass(name *value.ObjString) *value.ObjClass {
	c := value.NewClass(name)
	h.allocate(c)
	return c
}

// NewInstance allocates a fresh instance of class.
func (h *Heap) NewInstance(class *value.ObjClass) *value.ObjInstance {
	i := value.NewInstance(class)
	h.allocate(i)
	return i
}

// NewBoundMethod allocates a bound method pairing receiver and method.
func (h *Heap) NewBoundMethod(receiver value.Value, method *value.ObjClosure) *value.ObjBoundMethod {
	b := value.NewBoundMethod(receiver, method)
	h.allocate(b)
	return b
}

// InternString returns the interned ObjString with the given contents,
// allocating and linking a new one only if an equal string is not already
// interned. This is the sole path by which ObjStrings are created, which is
// what makes the interning invariant (equal strings are the same object)
// hold: two calls with equal chars always return the same pointer.
func (h *Heap) InternString(chars string) *value.ObjString {
	hash := value.HashString(chars)
	if existing := h.strings.FindString(chars, hash); existing != nil {
		return existing
	}

	s := value.NewString(chars)
	// Root s across the allocation funnel below: allocate() may run a
	// collection (always, in stress mode) before s has been inserted into
	// the intern table.
	h.Protect(value.FromObj(s))
	h.allocate(s)
	h.strings.Set(s, value.Nil)
	h.Unprotect()
	return s
}
