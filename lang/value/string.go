package value

// ObjString is an immutable, interned byte sequence. Equal strings are
// always the same object (see the gc package's intern table), so string
// equality is identity equality.
type ObjString struct {
	ObjHeader
	Chars string
	Hash  uint32
}

func (s *ObjString) Header() *ObjHeader { return &s.ObjHeader }
func (s *ObjString) String() string     { return s.Chars }

// NewString builds an ObjString wrapping chars, with its hash precomputed.
// It does not intern or link the result into any heap; callers (the gc
// package) are responsible for that.
func NewString(chars string) *ObjString {
	return &ObjString{ObjHeader: ObjHeader{Type: ObjTypeString}, Chars: chars, Hash: HashString(chars)}
}

// HashString computes the 32-bit FNV-1a hash of s, used both for the hash
// table's bucket index and as the string's precomputed identity hash.
func HashString(s string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}
