package bcf

import (
	"fmt"
	"io"
)

// Range is a half-open byte range [Start, End) into a section buffer owned by
// a Record.
type Range struct {
	Start int
	End   int
}

// Len is the number of bytes covered by the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// cursor walks a section buffer front to back. It never reads past the end of
// buf; every overrun is reported as ErrCorrupt.
type cursor struct {
	buf    []byte
	offset int
}

func newCursor(buf []byte) *cursor {
	return &cursor{buf: buf}
}

// ReadByte makes cursor an io.ByteReader so that the typed descriptor
// primitives can run directly against a section buffer.
func (c *cursor) ReadByte() (byte, error) {
	if c.offset >= len(c.buf) {
		return 0, io.EOF
	}
	b := c.buf[c.offset]
	c.offset++
	return b, nil
}

// span records the next width*count bytes as a Range and steps over them.
func (c *cursor) span(width int, count uint64) (Range, error) {
	if width > 0 && count > uint64(len(c.buf)) {
		return Range{}, fmt.Errorf("%w: %d elements at offset %d overrun %d byte section", ErrCorrupt, count, c.offset, len(c.buf))
	}
	size := uint64(width) * count
	if size > uint64(len(c.buf)-c.offset) {
		return Range{}, fmt.Errorf("%w: field of %d bytes at offset %d overruns %d byte section", ErrCorrupt, size, c.offset, len(c.buf))
	}
	r := Range{Start: c.offset, End: c.offset + int(size)}
	c.offset = r.End
	return r, nil
}
