package value

// ObjFunction is an immutable compiled function body: its arity, the number
// of upvalues it captures, its bytecode Chunk, and an optional name (the
// top-level script function is anonymous).
type ObjFunction struct {
	ObjHeader
	Arity        int
	UpvalueCount int
	Chunk        Chunk
	Name         *ObjString // nil for the top-level script
}

func (f *ObjFunction) Header() *ObjHeader { return &f.ObjHeader }

func (f *ObjFunction) String() string {
	if f.Name == nil {
		return "<script>"
	}
	return "<fn " + f.Name.Chars + ">"
}

// NewFunction returns an empty ObjFunction ready for the compiler to emit
// bytecode into.
func NewFunction() *ObjFunction {
	return &ObjFunction{ObjHeader: ObjHeader{Type: ObjTypeFunction}}
}

// NativeFn is the signature of a host function exposed to ember code.
type NativeFn func(args []Value) (Value, error)

// ObjNative wraps a host function so it can be called like any other ember
// callable.
type ObjNative struct {
	ObjHeader
	Name string
	Fn   NativeFn
}

func (n *ObjNative) Header() *ObjHeader { return &n.ObjHeader }
func (n *ObjNative) String() string     { return "<native fn " + n.Name + ">" }

// NewNative returns an ObjNative wrapping fn under the given name.
func NewNative(name string, fn NativeFn) *ObjNative {
	return &ObjNative{ObjHeader: ObjHeader{Type: ObjTypeNative}, Name: name, Fn: fn}
}
