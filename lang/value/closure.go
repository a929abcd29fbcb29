package value

// ObjUpvalue is a first-class reference to a variable that outlives its
// declaring function's activation. It has two states: open, where Location
// points into the VM's operand stack, and closed, once the stack slot it
// referred to is about to become invalid, at which point the value is copied
// into Closed and Location is redirected to point at it. The transition is
// one-way. Open upvalues form a per-VM linked list sorted by strictly
// decreasing stack address, threaded through Next.
type ObjUpvalue struct {
	ObjHeader
	Location *Value
	Closed   Value
	Next     *ObjUpvalue
}

func (u *ObjUpvalue) Header() *ObjHeader { return &u.ObjHeader }
func (u *ObjUpvalue) String() string     { return "<upvalue>" }

// NewUpvalue returns an open upvalue referring to slot.
func NewUpvalue(slot *Value) *ObjUpvalue {
	return &ObjUpvalue{ObjHeader: ObjHeader{Type: ObjTypeUpvalue}, Location: slot}
}

// IsOpen reports whether u still refers to a live stack slot.
func (u *ObjUpvalue) IsOpen() bool { return u.Location != &u.Closed }

// Close captures the current value of the referenced slot and redirects
// Location to the captured copy. It must be called at most once per upvalue.
func (u *ObjUpvalue) Close() {
	u.Closed = *u.Location
	u.Location = &u.Closed
}

// ObjClosure pairs a compiled Function with the concrete Upvalues captured
// when its enclosing OP_CLOSURE instruction executed. One Closure exists per
// OP_CLOSURE execution, even for the same Function.
type ObjClosure struct {
	ObjHeader
	Function *ObjFunction
	Upvalues []*ObjUpvalue
}

func (c *ObjClosure) Header() *ObjHeader { return &c.ObjHeader }
func (c *ObjClosure) String() string     { return c.Function.String() }

// NewClosure returns a Closure over fn with upvalueCount empty upvalue
// slots, to be filled in by the OP_CLOSURE handler.
func NewClosure(fn *ObjFunction) *ObjClosure {
	return &ObjClosure{
		ObjHeader: ObjHeader{Type: ObjTypeClosure},
		Function:  fn,
		Upvalues:  make([]*ObjUpvalue, fn.UpvalueCount),
	}
}
