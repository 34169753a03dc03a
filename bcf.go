package bcf

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

// MagicNumber contains the value required to confirm that a stream is
// BCF-conformant
const MagicNumber = "BCF"

// Supported version of the BCF binary encoding.
const (
	VersionMajor = 2
	VersionMinor = 2
)

// BCF is the main object used for parsing BCF streams
type BCF struct {
	FilePath    string
	Compression Compression
	Major       uint8
	Minor       uint8
	HeaderText  string
	Header      *Header

	r       io.Reader
	closers []io.Closer
}

// Open attempts to read a BCF file located at path, which may be a local path
// or a gs://bucket/object URL. Compressed files are decompressed
// transparently. If successful, this returns a new BCF object positioned at
// the first record. Otherwise, it returns an error.
func Open(path string) (*BCF, error) {
	return OpenContext(context.Background(), path)
}

// OpenContext is Open with a context that governs access to remote storage.
func OpenContext(ctx context.Context, path string) (*BCF, error) {
	var closers []io.Closer
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i].Close()
		}
	}

	var src io.Reader
	if strings.HasPrefix(path, "gs://") {
		bucket, object, err := splitGSPath(path)
		if err != nil {
			return nil, pfx.Err(err)
		}
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, pfx.Err(err)
		}
		closers = append(closers, client)
		obj, err := client.Bucket(bucket).Object(object).NewReader(ctx)
		if err != nil {
			closeAll()
			return nil, pfx.Err(err)
		}
		closers = append(closers, obj)
		src = obj
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, pfx.Err(err)
		}
		closers = append(closers, file)
		src = file
	}

	dec, compression, err := Decompress(src)
	if err != nil {
		closeAll()
		return nil, pfx.Err(err)
	}
	closers = append(closers, dec)

	b, err := NewReader(dec)
	if err != nil {
		closeAll()
		return nil, pfx.Err(err)
	}
	b.FilePath = path
	b.Compression = compression
	b.closers = closers

	return b, nil
}

func splitGSPath(path string) (bucket, object string, err error) {
	parts := strings.SplitN(strings.TrimPrefix(path, "gs://"), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%q is not of the form gs://bucket/object", path)
	}
	return parts[0], parts[1], nil
}

// NewReader reads the magic number, version and header of an uncompressed
// BCF stream from r and returns a BCF positioned at the first record.
func NewReader(r io.Reader) (*BCF, error) {
	b := &BCF{
		r: bufio.NewReader(r),
	}

	if err := populateBCFHeader(b); err != nil {
		return nil, pfx.Err(err)
	}

	return b, nil
}

func populateBCFHeader(b *BCF) error {
	// magic(3) major(1) minor(1) l_text(4)
	buffer := make([]byte, 9)
	if _, err := io.ReadFull(b.r, buffer); err != nil {
		return fmt.Errorf("%w: reading BCF preamble: %v", ErrCorrupt, err)
	}

	if MagicNumber != string(buffer[:3]) {
		return fmt.Errorf("%w: the stream is expected to begin with the Magic Number %s (%v when printed as a byte slice), but instead began with byte slice %v", ErrFormat, MagicNumber, []byte(MagicNumber), buffer[:3])
	}

	b.Major, b.Minor = buffer[3], buffer[4]
	if b.Major != VersionMajor || b.Minor != VersionMinor {
		return fmt.Errorf("%w: BCF version %d.%d is not supported, only %d.%d", ErrFormat, b.Major, b.Minor, VersionMajor, VersionMinor)
	}

	headerLength := binary.LittleEndian.Uint32(buffer[5:])
	text := make([]byte, headerLength)
	if _, err := io.ReadFull(b.r, text); err != nil {
		return fmt.Errorf("%w: reading %d byte header: %v", ErrCorrupt, headerLength, err)
	}
	b.HeaderText = strings.TrimRight(string(text), "\x00")

	h, err := ParseHeader(b.HeaderText)
	if err != nil {
		return err
	}
	b.Header = h

	return nil
}

// ReadRecord reads the next record into rec. See Record.Read.
func (b *BCF) ReadRecord(rec *Record) error {
	return rec.Read(b.r)
}

// Close releases every layer opened by Open. It is a no-op for a BCF created
// with NewReader, whose source is owned by the caller.
func (b *BCF) Close() error {
	var first error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	b.closers = nil
	return first
}
