package bcf

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndToEndEmptyStream(t *testing.T) {
	header := "##fileformat=VCFv4.2\n" +
		"##contig=<ID=chr1,length=100>\n" +
		"##FORMAT=<ID=GT,Number=1,Type=String>\n" +
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tS1\tS2\n"

	b, err := NewReader(bytes.NewReader(streamBytes(header)))
	require.NoError(t, err)
	assert.Equal(t, uint8(2), b.Major)
	assert.Equal(t, uint8(2), b.Minor)

	assert.Equal(t, "chr1", b.Header.ChromName(0))
	assert.Equal(t, []string{"S1", "S2"}, b.Header.Samples())
	gt, ok := b.Header.FormatGTIndex()
	assert.True(t, ok)
	assert.Equal(t, 1, gt)

	var rec Record
	assert.Equal(t, io.EOF, b.ReadRecord(&rec))

	rr := b.NewRecordReader()
	assert.Nil(t, rr.Read())
	assert.NoError(t, rr.Error())
	assert.Equal(t, uint64(0), rr.RecordsSeen)
}

func TestNewReaderRejects(t *testing.T) {
	good := streamBytes(testHeader)

	bad := append([]byte(nil), good...)
	bad[0] = 'X'
	_, err := NewReader(bytes.NewReader(bad))
	assert.ErrorContains(t, err, "Magic Number")

	for _, version := range [][2]byte{{1, 2}, {2, 1}, {3, 2}} {
		bad = append([]byte(nil), good...)
		bad[3], bad[4] = version[0], version[1]
		_, err = NewReader(bytes.NewReader(bad))
		assert.ErrorContains(t, err, "not supported", "%v", version)
	}

	_, err = NewReader(bytes.NewReader(good[:20]))
	assert.ErrorContains(t, err, "reading")

	_, err = NewReader(bytes.NewReader(good[:2]))
	assert.Error(t, err)
}

func TestRecordReader(t *testing.T) {
	second := sampleRecord()
	second.pos = 99
	second.id = ""
	second.filters = nil

	b, err := NewReader(bytes.NewReader(streamBytes(testHeader, sampleRecord(), second)))
	require.NoError(t, err)

	rr := b.NewRecordReader()
	var variants []*Variant
	for rec := rr.Read(); rec != nil; rec = rr.Read() {
		variants = append(variants, rec.Variant(b.Header))
	}
	require.NoError(t, rr.Error())
	assert.Equal(t, uint64(2), rr.RecordsSeen)
	require.Len(t, variants, 2)

	v := variants[0]
	assert.Equal(t, "chr2", v.Chromosome)
	assert.Equal(t, uint32(42), v.Position)
	assert.Equal(t, "rs42", v.ID)
	assert.Equal(t, "A", v.Ref())
	assert.Equal(t, "GT", v.Alt())
	assert.True(t, v.HasQuality)
	assert.Equal(t, float32(29.5), v.Quality)
	assert.Equal(t, []string{"q10"}, v.Filters)

	// The first Variant must not alias the reused record buffers.
	assert.Equal(t, uint32(100), variants[1].Position)
	assert.Equal(t, "", variants[1].ID)
	assert.Empty(t, variants[1].Filters)
	assert.Equal(t, "rs42", variants[0].ID)
}

func TestRecordReaderStopsOnError(t *testing.T) {
	stream := streamBytes(testHeader, sampleRecord(), sampleRecord())
	stream = stream[:len(stream)-3]

	b, err := NewReader(bytes.NewReader(stream))
	require.NoError(t, err)

	rr := b.NewRecordReader()
	require.NotNil(t, rr.Read())
	assert.Nil(t, rr.Read())
	assert.ErrorContains(t, rr.Error(), "corrupt")
	assert.Nil(t, rr.Read(), "a failed reader stays stopped")
	assert.Equal(t, uint64(1), rr.RecordsSeen)
}

func TestDecompress(t *testing.T) {
	raw := streamBytes(testHeader, sampleRecord())

	var gz bytes.Buffer
	// Two members, as BGZF writes them.
	for _, part := range [][]byte{raw[:len(raw)/2], raw[len(raw)/2:]} {
		w := gzip.NewWriter(&gz)
		_, err := w.Write(part)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	}

	var zs bytes.Buffer
	zw, err := zstd.NewWriter(&zs)
	require.NoError(t, err)
	_, err = zw.Write(raw)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	cases := []struct {
		in   []byte
		want Compression
	}{
		{raw, CompressionDisabled},
		{gz.Bytes(), CompressionBGZF},
		{zs.Bytes(), CompressionZStandard},
	}
	for _, c := range cases {
		r, compression, err := Decompress(bytes.NewReader(c.in))
		require.NoError(t, err, c.want.String())
		assert.Equal(t, c.want, compression)

		got, err := io.ReadAll(r)
		require.NoError(t, err, c.want.String())
		assert.Equal(t, raw, got, c.want.String())
		assert.NoError(t, r.Close())
	}
}

func TestOpen(t *testing.T) {
	raw := streamBytes(testHeader, sampleRecord())
	var gz bytes.Buffer
	w := gzip.NewWriter(&gz)
	_, err := w.Write(raw)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), "test.bcf")
	require.NoError(t, os.WriteFile(path, gz.Bytes(), 0o644))

	b, err := Open(path)
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, path, b.FilePath)
	assert.Equal(t, CompressionBGZF, b.Compression)
	assert.Equal(t, []string{"S1", "S2"}, b.Header.Samples())

	rr := b.NewRecordReader()
	rec := rr.Read()
	require.NotNil(t, rec)
	assert.Equal(t, "rs42", string(rec.ID()))
	assert.Nil(t, rr.Read())
	assert.NoError(t, rr.Error())

	assert.NoError(t, b.Close())

	_, err = Open(filepath.Join(t.TempDir(), "missing.bcf"))
	assert.Error(t, err)
}

func TestSplitGSPath(t *testing.T) {
	bucket, object, err := splitGSPath("gs://bucket/dir/file.bcf")
	require.NoError(t, err)
	assert.Equal(t, "bucket", bucket)
	assert.Equal(t, "dir/file.bcf", object)

	_, _, err = splitGSPath("gs://bucket")
	assert.Error(t, err)
	_, _, err = splitGSPath("gs:///file.bcf")
	assert.Error(t, err)
}
