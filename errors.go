package bcf

import "errors"

// Error kinds returned while decoding. Detail is attached with fmt.Errorf and
// %w, so callers test for a kind with errors.Is.
var (
	// ErrFormat is returned for a bad magic number, an unsupported version,
	// an invalid type tag or a malformed structured header line.
	ErrFormat = errors.New("bcf: format error")

	// ErrCorrupt is returned when the stream ends anywhere other than a
	// record boundary, or when a field would run past the end of its
	// section.
	ErrCorrupt = errors.New("bcf: corrupt stream")

	// ErrInvariant is returned when a single typed integer is declared with
	// an element count other than 1.
	ErrInvariant = errors.New("bcf: invariant violation")
)
