package value

// ObjClass is a class: a name and a table mapping method names to the
// Closures that implement them.
type ObjClass struct {
	ObjHeader
	Name    *ObjString
	Methods Table
}

func (c *ObjClass) Header() *ObjHeader { return &c.ObjHeader }
func (c *ObjClass) String() string     { return c.Name.Chars }

// NewClass returns an empty class named name.
func NewClass(name *ObjString) *ObjClass {
	return &ObjClass{ObjHeader: ObjHeader{Type: ObjTypeClass}, Name: name}
}

// ObjInstance is an instance of a Class: the class it was created from, and
// a table of its own fields (distinct from the class's methods).
type ObjInstance struct {
	ObjHeader
	Class  *ObjClass
	Fields Table
}

func (i *ObjInstance) Header() *ObjHeader { return &i.ObjHeader }
func (i *ObjInstance) String() string     { return i.Class.Name.Chars + " instance" }

// NewInstance returns a fresh instance of class with no fields set.
func NewInstance(class *ObjClass) *ObjInstance {
	return &ObjInstance{ObjHeader: ObjHeader{Type: ObjTypeInstance}, Class: class}
}

// ObjBoundMethod pairs a receiver instance with the Closure implementing the
// method it was looked up from. It is created whenever a property access
// resolves to a method rather than a field.
type ObjBoundMethod struct {
	ObjHeader
	Receiver Value
	Method   *ObjClosure
}

func (b *ObjBoundMethod) Header() *ObjHeader { return &b.ObjHeader }
func (b *ObjBoundMethod) String() string     { return b.Method.String() }

// NewBoundMethod returns a BoundMethod binding method to receiver.
func NewBoundMethod(receiver Value, method *ObjClosure) *ObjBoundMethod {
	return &ObjBoundMethod{ObjHeader: ObjHeader{Type: ObjTypeBoundMethod}, Receiver: receiver, Method: method}
}
