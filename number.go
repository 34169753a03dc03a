package bcf

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Kind is the outcome of classifying a stored numeric bit pattern.
type Kind uint8

const (
	KindValue Kind = iota
	KindMissing
	KindEndOfVector
	KindReserved
)

func (k Kind) String() string {
	switch k {
	case KindValue:
		return "Value"
	case KindMissing:
		return "Missing"
	case KindEndOfVector:
		return "EndOfVector"
	case KindReserved:
		return "Reserved"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Sentinel bit patterns. The reserved range of each integer width starts at
// its missing value and spans eight patterns.
const (
	missingInt8  uint32 = 0x80
	missingInt16 uint32 = 0x8000
	missingInt32 uint32 = 0x80000000
	reservedSpan uint32 = 7

	missingFloat     uint32 = 0x7FC00000
	endOfVectorFloat uint32 = 0x7FC00001
	reservedFloatMax uint32 = 0x7FC00007
)

// Classify reports what the raw bit pattern bits means for a value stored
// as type t. Integers are compared at their stored width and floats by
// their IEEE-754 bit pattern, never by numeric value.
func Classify(t Type, bits uint32) Kind {
	if t == TypeFloat {
		switch {
		case bits == missingFloat:
			return KindMissing
		case bits == endOfVectorFloat:
			return KindEndOfVector
		case bits > endOfVectorFloat && bits <= reservedFloatMax:
			return KindReserved
		}
		return KindValue
	}

	var missing uint32
	switch t {
	case TypeInt8:
		missing = missingInt8
	case TypeInt16:
		missing = missingInt16
	case TypeInt32:
		missing = missingInt32
	default:
		return KindValue
	}

	switch {
	case bits == missing:
		return KindMissing
	case bits == missing+1:
		return KindEndOfVector
	case bits > missing+1 && bits <= missing+reservedSpan:
		return KindReserved
	}
	return KindValue
}

// Number is one decoded element of a typed array: a u8, u16, u32 or f32,
// kept as its type plus the raw stored bits.
type Number struct {
	typ  Type
	bits uint32
}

// Type is the stored element type.
func (n Number) Type() Type {
	return n.typ
}

// Bits is the raw stored bit pattern widened to 32 bits.
func (n Number) Bits() uint32 {
	return n.bits
}

// Kind classifies the stored bit pattern.
func (n Number) Kind() Kind {
	return Classify(n.typ, n.bits)
}

// Int returns the value as an unsigned integer unless it is the missing
// sentinel of its width. Floats never yield an integer.
func (n Number) Int() (uint32, bool) {
	if n.typ == TypeFloat || n.Kind() == KindMissing {
		return 0, false
	}
	return n.bits, true
}

// Float returns the value of a float element unless it is the float missing
// sentinel.
func (n Number) Float() (float32, bool) {
	if n.typ != TypeFloat || n.bits == missingFloat {
		return 0, false
	}
	return math.Float32frombits(n.bits), true
}

func (n Number) String() string {
	switch n.Kind() {
	case KindMissing:
		return "."
	case KindEndOfVector:
		return "<eov>"
	case KindReserved:
		return fmt.Sprintf("<reserved %#x>", n.bits)
	}
	if n.typ == TypeFloat {
		return fmt.Sprint(math.Float32frombits(n.bits))
	}
	return fmt.Sprint(n.bits)
}

// NumberIter lazily decodes a typed array from a byte slice, one element per
// call to Next. It is forward-only: iterating again requires a new NumberIter
// over the same bytes.
type NumberIter struct {
	buf    []byte
	typ    Type
	width  int
	len    int
	cur    int
	offset int
}

// NewNumberIter returns an iterator over n elements of type t stored in buf.
// buf must hold at least width(t)*n bytes. TypeMissing yields nothing.
func NewNumberIter(t Type, n int, buf []byte) (*NumberIter, error) {
	width, err := t.Width()
	if err != nil {
		return nil, err
	}
	if n < 0 || uint64(width)*uint64(n) > uint64(len(buf)) {
		return nil, fmt.Errorf("%w: %d elements of %s do not fit in %d bytes", ErrCorrupt, n, t, len(buf))
	}
	if t == TypeMissing {
		n = 0
	}

	return &NumberIter{
		buf:   buf,
		typ:   t,
		width: width,
		len:   n,
	}, nil
}

// emptyNumberIter yields nothing.
func emptyNumberIter() *NumberIter {
	return &NumberIter{}
}

// Len is the declared number of elements.
func (it *NumberIter) Len() int {
	return it.len
}

// Type is the element type.
func (it *NumberIter) Type() Type {
	return it.typ
}

// Next decodes the next element. ok is false once Len elements have been
// produced.
func (it *NumberIter) Next() (n Number, ok bool) {
	if it.cur >= it.len {
		return Number{}, false
	}

	var bits uint32
	switch it.width {
	case 1:
		bits = uint32(it.buf[it.offset])
	case 2:
		bits = uint32(binary.LittleEndian.Uint16(it.buf[it.offset:]))
	case 4:
		bits = binary.LittleEndian.Uint32(it.buf[it.offset:])
	}
	it.offset += it.width
	it.cur++

	return Number{typ: it.typ, bits: bits}, true
}

// Collect drains the iterator into a slice.
func (it *NumberIter) Collect() []Number {
	out := make([]Number, 0, it.len-it.cur)
	for n, ok := it.Next(); ok; n, ok = it.Next() {
		out = append(out, n)
	}
	return out
}
