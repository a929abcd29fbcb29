// Package value defines the runtime value representation shared by the
// compiler and the virtual machine: a small tagged union (Value) plus the
// heap object kinds it can reference (Obj and its concrete variants).
package value

import "strconv"

// Type discriminates the kind held by a Value.
type Type uint8

const (
	TypeNil Type = iota
	TypeBool
	TypeNumber
	TypeObj
)

// Value is a discriminated union: a Number (float64), a Bool, Nil, or a
// reference to a heap Obj. It is deliberately a small struct rather than an
// interface so that Nil/Bool/Number values never allocate.
type Value struct {
	typ Type
	num float64
	obj Obj
}

// Nil is the sole nil value.
var Nil = Value{typ: TypeNil}

// True and False are the two boolean values.
var (
	True  = Value{typ: TypeBool, num: 1}
	False = Value{typ: TypeBool, num: 0}
)

// Bool returns the Value for b.
func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

// Number returns the Value wrapping n.
func Number(n float64) Value { return Value{typ: TypeNumber, num: n} }

// FromObj returns the Value referencing the heap object o.
func FromObj(o Obj) Value { return Value{typ: TypeObj, obj: o} }

func (v Value) IsNil() bool    { return v.typ == TypeNil }
func (v Value) IsBool() bool   { return v.typ == TypeBool }
func (v Value) IsNumber() bool { return v.typ == TypeNumber }
func (v Value) IsObj() bool    { return v.typ == TypeObj }

func (v Value) AsBool() bool      { return v.num != 0 }
func (v Value) AsNumber() float64 { return v.num }
func (v Value) AsObj() Obj        { return v.obj }

// IsObjType reports whether v holds a heap object of the given type.
func (v Value) IsObjType(t ObjType) bool {
	return v.typ == TypeObj && v.obj.Header().Type == t
}

// Falsey reports whether v is considered false in a boolean context: nil or
// the boolean false. Every other value, including 0 and the empty string, is
// truthy.
func (v Value) Falsey() bool {
	return v.IsNil() || (v.IsBool() && !v.AsBool())
}

// Equal implements the value-equality rules of the language: numbers compare
// by IEEE equality (NaN != NaN), booleans and nil compare by tag, and every
// other value (including strings, thanks to interning) compares by identity.
func Equal(a, b Value) bool {
	if a.typ != b.typ {
		return false
	}
	switch a.typ {
	case TypeNil:
		return true
	case TypeBool:
		return a.AsBool() == b.AsBool()
	case TypeNumber:
		return a.num == b.num
	case TypeObj:
		return a.obj == b.obj
	default:
		return false
	}
}

// TypeName returns a short description of v's runtime type, for error
// messages.
func (v Value) TypeName() string {
	switch v.typ {
	case TypeNil:
		return "nil"
	case TypeBool:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeObj:
		return v.obj.Header().Type.String()
	default:
		return "unknown"
	}
}

// String renders v the way the `print` statement displays it.
func (v Value) String() string {
	switch v.typ {
	case TypeNil:
		return "nil"
	case TypeBool:
		if v.AsBool() {
			return "true"
		}
		return "false"
	case TypeNumber:
		return formatNumber(v.num)
	case TypeObj:
		return v.obj.String()
	default:
		return "<unknown value>"
	}
}

// formatNumber mimics printf("%.14g", n): enough precision to round-trip
// common values while dropping trailing zeros and using a plain integer
// form for whole numbers.
func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'g', 14, 64)
}
