package bcf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorSpan(t *testing.T) {
	c := newCursor(make([]byte, 10))
	c.offset = 2

	r, err := c.span(4, 2)
	require.NoError(t, err)
	assert.Equal(t, Range{Start: 2, End: 10}, r)
	assert.Equal(t, 8, r.Len())
	assert.Equal(t, 10, c.offset)

	r, err = c.span(0, 1000)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Len())

	_, err = c.span(1, 1)
	assert.True(t, errors.Is(err, ErrCorrupt))
	assert.Equal(t, 10, c.offset, "a failed span must not move the cursor")
}

func TestCursorSpanOverflow(t *testing.T) {
	c := newCursor(make([]byte, 16))
	_, err := c.span(4, 1<<62)
	assert.True(t, errors.Is(err, ErrCorrupt))
}

func TestCursorReadByte(t *testing.T) {
	c := newCursor([]byte{1, 2})
	b, err := c.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(1), b)
	b, err = c.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(2), b)
	_, err = c.ReadByte()
	assert.Error(t, err)
}
