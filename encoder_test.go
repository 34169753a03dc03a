package bcf

import (
	"bytes"
	"encoding/binary"
	"math"
)

// The helpers below build byte-exact BCF input for tests.

func putDescriptor(buf *bytes.Buffer, t Type, n int) {
	if n < countFollows {
		buf.WriteByte(byte(n)<<4 | byte(t))
		return
	}
	buf.WriteByte(countFollows<<4 | byte(t))
	putTypedInt(buf, uint32(n))
}

func putTypedInt(buf *bytes.Buffer, v uint32) {
	switch {
	case v <= 0x7f:
		putDescriptor(buf, TypeInt8, 1)
		buf.WriteByte(byte(v))
	case v <= 0x7fff:
		putDescriptor(buf, TypeInt16, 1)
		binary.Write(buf, binary.LittleEndian, uint16(v))
	default:
		putDescriptor(buf, TypeInt32, 1)
		binary.Write(buf, binary.LittleEndian, v)
	}
}

func putString(buf *bytes.Buffer, s string) {
	putDescriptor(buf, TypeChar, len(s))
	buf.WriteString(s)
}

// putValues writes raw elements of type t, each truncated to the width of t.
func putValues(buf *bytes.Buffer, t Type, values ...uint32) {
	for _, v := range values {
		switch t {
		case TypeInt8, TypeChar:
			buf.WriteByte(byte(v))
		case TypeInt16:
			binary.Write(buf, binary.LittleEndian, uint16(v))
		case TypeInt32, TypeFloat:
			binary.Write(buf, binary.LittleEndian, v)
		}
	}
}

type testField struct {
	key    uint32
	typ    Type
	count  int
	values []uint32
}

type testRecord struct {
	chrom, pos, rlen int32
	qual             uint32
	id               string
	alleles          []string
	filterType       Type
	filters          []uint32
	info             []testField
	nSample          int
	format           []testField // values hold count*nSample elements
}

func (tr testRecord) sections() (site, indiv []byte) {
	var s, g bytes.Buffer
	binary.Write(&s, binary.LittleEndian, tr.chrom)
	binary.Write(&s, binary.LittleEndian, tr.pos)
	binary.Write(&s, binary.LittleEndian, tr.rlen)
	binary.Write(&s, binary.LittleEndian, tr.qual)
	binary.Write(&s, binary.LittleEndian, uint16(len(tr.info)))
	binary.Write(&s, binary.LittleEndian, uint16(len(tr.alleles)))
	binary.Write(&s, binary.LittleEndian, uint32(tr.nSample)|uint32(len(tr.format))<<24)

	putString(&s, tr.id)
	for _, a := range tr.alleles {
		putString(&s, a)
	}

	ft := tr.filterType
	if len(tr.filters) == 0 {
		ft = TypeMissing
	}
	putDescriptor(&s, ft, len(tr.filters))
	putValues(&s, ft, tr.filters...)

	for _, f := range tr.info {
		putTypedInt(&s, f.key)
		putDescriptor(&s, f.typ, f.count)
		putValues(&s, f.typ, f.values...)
	}

	for _, f := range tr.format {
		putTypedInt(&g, f.key)
		putDescriptor(&g, f.typ, f.count)
		putValues(&g, f.typ, f.values...)
	}

	return s.Bytes(), g.Bytes()
}

func (tr testRecord) bytes() []byte {
	site, indiv := tr.sections()
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(len(site)))
	binary.Write(&buf, binary.LittleEndian, uint32(len(indiv)))
	buf.Write(site)
	buf.Write(indiv)
	return buf.Bytes()
}

func streamBytes(header string, records ...testRecord) []byte {
	var buf bytes.Buffer
	buf.WriteString(MagicNumber)
	buf.WriteByte(VersionMajor)
	buf.WriteByte(VersionMinor)
	text := header + "\x00"
	binary.Write(&buf, binary.LittleEndian, uint32(len(text)))
	buf.WriteString(text)
	for _, r := range records {
		buf.Write(r.bytes())
	}
	return buf.Bytes()
}

func floatBits(f float32) uint32 {
	return math.Float32bits(f)
}

// encodeGT is the BCF genotype encoding of one ploidy slot.
func encodeGT(allele int, phased bool) uint32 {
	v := uint32(allele+1) << 1
	if phased {
		v |= 1
	}
	return v
}

const testHeader = `##fileformat=VCFv4.2
##FILTER=<ID=PASS,Description="All filters passed">
##FILTER=<ID=q10,Description="Quality below 10">
##contig=<ID=chr1,length=100>
##contig=<ID=chr2,length=200>
##INFO=<ID=DP,Number=1,Type=Integer,Description="Total depth, summed">
##FORMAT=<ID=GT,Number=1,Type=String,Description="Genotype">
##FORMAT=<ID=AD,Number=R,Type=Integer,Description="Allelic depths">
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO	FORMAT	S1	S2`

// Dictionary keys implied by testHeader.
const (
	keyPASS = 0
	keyQ10  = 1
	keyDP   = 2
	keyGT   = 3
	keyAD   = 4
)
