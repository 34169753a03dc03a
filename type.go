package bcf

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Type is the element type carried in the low nibble of a descriptor byte.
type Type uint8

const (
	TypeMissing Type = 0
	TypeInt8    Type = 1
	TypeInt16   Type = 2
	TypeInt32   Type = 3
	TypeFloat   Type = 5
	TypeChar    Type = 7
)

// countFollows is the count nibble meaning that the real element count is
// stored as a separate typed integer.
const countFollows = 15

func (t Type) String() string {
	switch t {
	case TypeMissing:
		return "Missing"
	case TypeInt8:
		return "Int8"
	case TypeInt16:
		return "Int16"
	case TypeInt32:
		return "Int32"
	case TypeFloat:
		return "Float"
	case TypeChar:
		return "Char"

	default:
		return fmt.Sprintf("Illegal type %d", uint8(t))
	}
}

// Width returns the number of bytes a single element of type t occupies.
// TypeMissing occupies no bytes.
func (t Type) Width() (int, error) {
	switch t {
	case TypeMissing:
		return 0, nil
	case TypeInt8, TypeChar:
		return 1, nil
	case TypeInt16:
		return 2, nil
	case TypeInt32, TypeFloat:
		return 4, nil
	}

	return 0, fmt.Errorf("%w: invalid type tag %d", ErrFormat, uint8(t))
}

// IsInteger reports whether t is one of the three integer widths.
func (t Type) IsInteger() bool {
	return t == TypeInt8 || t == TypeInt16 || t == TypeInt32
}

// ReadDescriptor reads one descriptor byte and returns its type and element
// count. A count nibble of 15 means the count follows as a single typed
// integer.
func ReadDescriptor(r io.ByteReader) (Type, int, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, 0, truncated(err)
	}

	typ := Type(b & 0x0f)
	n := int(b >> 4)
	if n == countFollows {
		count, err := ReadTypedInt(r)
		if err != nil {
			return 0, 0, err
		}
		n = int(count)
	}

	return typ, n, nil
}

// ReadTypedInt reads a descriptor that must declare exactly one integer, then
// that integer, widened to 32 bits without sign extension.
func ReadTypedInt(r io.ByteReader) (uint32, error) {
	typ, n, err := ReadDescriptor(r)
	if err != nil {
		return 0, err
	}
	if n != 1 {
		return 0, fmt.Errorf("%w: typed integer declares %d elements, expected 1", ErrInvariant, n)
	}
	if !typ.IsInteger() {
		return 0, fmt.Errorf("%w: typed integer has non-integer type %s", ErrFormat, typ)
	}

	width, _ := typ.Width()
	var buf [4]byte
	for i := 0; i < width; i++ {
		if buf[i], err = r.ReadByte(); err != nil {
			return 0, truncated(err)
		}
	}

	switch width {
	case 1:
		return uint32(buf[0]), nil
	case 2:
		return uint32(binary.LittleEndian.Uint16(buf[:2])), nil
	default:
		return binary.LittleEndian.Uint32(buf[:4]), nil
	}
}

// truncated converts a short read inside a section into ErrCorrupt.
func truncated(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return fmt.Errorf("%w: %v", ErrCorrupt, io.ErrUnexpectedEOF)
	}
	return err
}
