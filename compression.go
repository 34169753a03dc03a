package bcf

import (
	"bufio"
	"bytes"
	"io"

	"github.com/carbocation/pfx"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression is the outer framing applied to a BCF stream.
type Compression uint32

const (
	CompressionDisabled Compression = iota
	CompressionBGZF
	CompressionZStandard
)

func (c Compression) String() string {
	switch c {
	case CompressionDisabled:
		return "CompressionDisabled"
	case CompressionBGZF:
		return "CompressionBGZF"
	case CompressionZStandard:
		return "CompressionZStandard"

	default:
		return "Illegal selection"
	}
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Decompress sniffs the framing of r and returns a reader over the
// decompressed bytes. BGZF is a series of gzip members and is read as one
// multistream gzip; data that is neither gzip nor zstd is passed through.
// Closing the returned reader does not close r.
func Decompress(r io.Reader) (io.ReadCloser, Compression, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return nil, CompressionDisabled, pfx.Err(err)
	}

	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, CompressionBGZF, pfx.Err(err)
		}
		gz.Multistream(true)
		return gz, CompressionBGZF, nil

	case bytes.HasPrefix(magic, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, CompressionZStandard, pfx.Err(err)
		}
		return zr.IOReadCloser(), CompressionZStandard, nil
	}

	return io.NopCloser(br), CompressionDisabled, nil
}
