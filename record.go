package bcf

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/carbocation/pfx"
)

// Field locates one typed array inside a record section without decoding it.
// Key is the dictionary key (the entry position in Header.Dictionaries) and
// is unused for the FILTER array. For FORMAT fields Count is per sample.
type Field struct {
	Key   int
	Type  Type
	Count int
	Range Range
}

// Record is one variant site and its per-sample block. Scalars are decoded
// eagerly; every variable-length field is kept as a Range into one of the two
// section buffers the Record owns. A Record is reused: each Read overwrites
// both buffers and rebuilds every field table.
type Record struct {
	site  []byte
	indiv []byte

	chrom   int32
	pos     int32
	rlen    int32
	qual    uint32
	nInfo   uint16
	nAllele uint16
	nSample uint32
	nFormat uint8

	id      Range
	alleles []Range
	filters Field
	info    []Field
	format  []Field
}

// Read replaces the contents of r with the next record from src. It returns
// io.EOF, unwrapped, when src ends exactly at a record boundary. On any other
// error r is reset and must not be used until a later Read succeeds.
func (r *Record) Read(src io.Reader) error {
	var lengths [8]byte
	if _, err := io.ReadFull(src, lengths[:]); err != nil {
		r.reset()
		if err == io.EOF {
			return io.EOF
		}
		return pfx.Err(fmt.Errorf("%w: reading record lengths: %v", ErrCorrupt, err))
	}
	lShared := binary.LittleEndian.Uint32(lengths[:4])
	lIndiv := binary.LittleEndian.Uint32(lengths[4:])

	r.site = resize(r.site, int(lShared))
	r.indiv = resize(r.indiv, int(lIndiv))
	if _, err := io.ReadFull(src, r.site); err != nil {
		r.reset()
		return pfx.Err(fmt.Errorf("%w: reading %d byte shared section: %v", ErrCorrupt, lShared, truncated(err)))
	}
	if _, err := io.ReadFull(src, r.indiv); err != nil {
		r.reset()
		return pfx.Err(fmt.Errorf("%w: reading %d byte individual section: %v", ErrCorrupt, lIndiv, truncated(err)))
	}

	if err := r.parseSiteFields(); err != nil {
		r.reset()
		return pfx.Err(err)
	}
	if err := r.parseFormatFields(); err != nil {
		r.reset()
		return pfx.Err(err)
	}

	return nil
}

// resize returns buf with length n, reusing its storage when it is large
// enough.
func resize(buf []byte, n int) []byte {
	if cap(buf) < n {
		return make([]byte, n)
	}
	return buf[:n]
}

func (r *Record) reset() {
	site, indiv := r.site[:0], r.indiv[:0]
	alleles, info, format := r.alleles[:0], r.info[:0], r.format[:0]
	*r = Record{
		site:    site,
		indiv:   indiv,
		alleles: alleles,
		info:    info,
		format:  format,
	}
}

// Site section layout: the fixed scalars occupy the first 24 bytes.
const (
	offsetChrom    = 0
	offsetPos      = 4
	offsetRlen     = 8
	offsetQual     = 12
	offsetNInfo    = 16
	offsetNAllele  = 18
	offsetNSampFmt = 20
	siteFixedSize  = 24
)

func (r *Record) parseSiteFields() error {
	if len(r.site) < siteFixedSize {
		return fmt.Errorf("%w: shared section is %d bytes, need at least %d", ErrCorrupt, len(r.site), siteFixedSize)
	}
	r.chrom = int32(binary.LittleEndian.Uint32(r.site[offsetChrom:]))
	r.pos = int32(binary.LittleEndian.Uint32(r.site[offsetPos:]))
	r.rlen = int32(binary.LittleEndian.Uint32(r.site[offsetRlen:]))
	r.qual = binary.LittleEndian.Uint32(r.site[offsetQual:])
	r.nInfo = binary.LittleEndian.Uint16(r.site[offsetNInfo:])
	r.nAllele = binary.LittleEndian.Uint16(r.site[offsetNAllele:])
	combined := binary.LittleEndian.Uint32(r.site[offsetNSampFmt:])
	r.nSample = combined & 0xffffff
	r.nFormat = uint8(combined >> 24)

	c := newCursor(r.site)
	c.offset = siteFixedSize

	var err error
	if r.id, err = readStringRange(c); err != nil {
		return fmt.Errorf("ID: %w", err)
	}

	r.alleles = r.alleles[:0]
	for i := 0; i < int(r.nAllele); i++ {
		allele, err := readStringRange(c)
		if err != nil {
			return fmt.Errorf("allele %d: %w", i, err)
		}
		r.alleles = append(r.alleles, allele)
	}

	if r.filters, err = readFieldRange(c, 1); err != nil {
		return fmt.Errorf("FILTER: %w", err)
	}

	r.info = r.info[:0]
	for i := 0; i < int(r.nInfo); i++ {
		key, err := ReadTypedInt(c)
		if err != nil {
			return fmt.Errorf("INFO %d key: %w", i, err)
		}
		f, err := readFieldRange(c, 1)
		if err != nil {
			return fmt.Errorf("INFO %d (key %d): %w", i, key, err)
		}
		f.Key = int(key)
		r.info = append(r.info, f)
	}

	return nil
}

func (r *Record) parseFormatFields() error {
	c := newCursor(r.indiv)

	r.format = r.format[:0]
	for i := 0; i < int(r.nFormat); i++ {
		key, err := ReadTypedInt(c)
		if err != nil {
			return fmt.Errorf("FORMAT %d key: %w", i, err)
		}
		f, err := readFieldRange(c, int(r.nSample))
		if err != nil {
			return fmt.Errorf("FORMAT %d (key %d): %w", i, key, err)
		}
		f.Key = int(key)
		r.format = append(r.format, f)
	}

	return nil
}

// readStringRange reads a typed string and returns where its bytes lie.
func readStringRange(c *cursor) (Range, error) {
	typ, n, err := ReadDescriptor(c)
	if err != nil {
		return Range{}, err
	}
	if typ != TypeChar && typ != TypeMissing {
		return Range{}, fmt.Errorf("%w: expected a string, found type %s", ErrFormat, typ)
	}
	width, _ := typ.Width()
	return c.span(width, uint64(n))
}

// readFieldRange reads a descriptor and steps over its payload of
// count*repeat elements.
func readFieldRange(c *cursor, repeat int) (Field, error) {
	typ, n, err := ReadDescriptor(c)
	if err != nil {
		return Field{}, err
	}
	width, err := typ.Width()
	if err != nil {
		return Field{}, err
	}
	rng, err := c.span(width, uint64(n)*uint64(repeat))
	if err != nil {
		return Field{}, err
	}
	return Field{Type: typ, Count: n, Range: rng}, nil
}

// Chrom is the chromosome index; Header.ChromName resolves it.
func (r *Record) Chrom() int32 {
	return r.chrom
}

// Pos is the 0-based position.
func (r *Record) Pos() int32 {
	return r.pos
}

// RefLen is the length of the reference allele on the genome.
func (r *Record) RefLen() int32 {
	return r.rlen
}

// Qual returns the site quality unless it is the float missing sentinel.
func (r *Record) Qual() (float32, bool) {
	return Number{typ: TypeFloat, bits: r.qual}.Float()
}

func (r *Record) NInfo() int {
	return int(r.nInfo)
}

func (r *Record) NAllele() int {
	return int(r.nAllele)
}

func (r *Record) NSample() int {
	return int(r.nSample)
}

func (r *Record) NFormat() int {
	return int(r.nFormat)
}

// ID returns the raw bytes of the ID field. The slice aliases the record's
// buffer and is invalidated by the next Read.
func (r *Record) ID() []byte {
	return r.site[r.id.Start:r.id.End]
}

// Allele returns the raw bytes of allele i, the reference allele being 0.
// The slice aliases the record's buffer and is invalidated by the next Read.
func (r *Record) Allele(i int) []byte {
	if i < 0 || i >= len(r.alleles) {
		return nil
	}
	a := r.alleles[i]
	return r.site[a.Start:a.End]
}

// Filters locates the FILTER array in the shared section.
func (r *Record) Filters() Field {
	return r.filters
}

// Info returns the INFO field table in record order. The slice is reused by
// the next Read.
func (r *Record) Info() []Field {
	return r.info
}

// Format returns the FORMAT field table in record order. The slice is reused
// by the next Read.
func (r *Record) Format() []Field {
	return r.format
}

// Values decodes a FILTER or INFO field lazily from the shared section.
func (r *Record) Values(f Field) *NumberIter {
	return r.iterRange(r.site, f.Type, f.Count, f.Range)
}

// SampleValues decodes a FORMAT field lazily from the individual section. It
// yields Count values for each sample in turn.
func (r *Record) SampleValues(f Field) *NumberIter {
	return r.iterRange(r.indiv, f.Type, f.Count*int(r.nSample), f.Range)
}

func (r *Record) iterRange(buf []byte, t Type, n int, rng Range) *NumberIter {
	if rng.End > len(buf) || rng.Start > rng.End {
		return emptyNumberIter()
	}
	it, err := NewNumberIter(t, n, buf[rng.Start:rng.End])
	if err != nil {
		return emptyNumberIter()
	}
	return it
}
