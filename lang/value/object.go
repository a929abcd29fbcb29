package value

// ObjType discriminates the concrete kind of a heap Obj.
type ObjType uint8

const (
	ObjTypeString ObjType = iota
	ObjTypeFunction
	ObjTypeNative
	ObjTypeClosure
	ObjTypeUpvalue
	ObjTypeClass
	ObjTypeInstance
	ObjTypeBoundMethod
)

func (t ObjType) String() string {
	switch t {
	case ObjTypeString:
		return "string"
	case ObjTypeFunction:
		return "function"
	case ObjTypeNative:
		return "native function"
	case ObjTypeClosure:
		return "closure"
	case ObjTypeUpvalue:
		return "upvalue"
	case ObjTypeClass:
		return "class"
	case ObjTypeInstance:
		return "instance"
	case ObjTypeBoundMethod:
		return "bound method"
	default:
		return "unknown"
	}
}

// ObjHeader is the common header every heap object embeds: its type tag, the
// GC mark bit, and the intrusive "next" link that threads every live
// allocation into a single list for the sweep phase. The mutator never walks
// this list; only the garbage collector does.
type ObjHeader struct {
	Type   ObjType
	Marked bool
	Next   Obj
}

// Obj is implemented by every heap object kind. Header returns a pointer to
// the object's embedded ObjHeader, giving the GC uniform access to the type
// tag, mark bit and intrusive list link regardless of concrete type.
type Obj interface {
	// String returns the value's display representation, as printed by the
	// `print` statement.
	String() string
	Header() *ObjHeader
}
