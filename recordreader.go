package bcf

import (
	"io"

	"github.com/carbocation/pfx"
)

// RecordReader iterates over the records of a BCF stream. It hands out the
// same *Record on every call, so callers that keep data past the next Read
// must copy it (see Record.Variant).
type RecordReader struct {
	RecordsSeen uint64
	b           *BCF
	err         error
	done        bool

	// Cached values
	record Record
}

func (b *BCF) NewRecordReader() *RecordReader {
	rr := &RecordReader{
		b: b,
	}

	return rr
}

func (rr *RecordReader) Error() error {
	return rr.err
}

// Read returns the next record, or nil once the stream is exhausted or an
// error has occurred. Error distinguishes the two. A reader that has stopped
// stays stopped.
func (rr *RecordReader) Read() *Record {
	if rr.done {
		return nil
	}

	if err := rr.b.ReadRecord(&rr.record); err != nil {
		rr.done = true
		if err != io.EOF {
			rr.err = pfx.Err(err)
		}
		return nil
	}

	rr.RecordsSeen++

	return &rr.record
}
