package bcf

import "strconv"

// Genotype is one ploidy slot of one sample, decoded from the GT encoding
// (allele+1)<<1 | phased.
type Genotype struct {
	// NoPloidy means the slot does not exist for this sample, e.g. the
	// second slot of a haploid call in a diploid record.
	NoPloidy bool

	// Dot means the slot exists but its allele is unknown.
	Dot bool

	Phased bool

	// Allele is the allele index, 0 being the reference, or -1 when
	// NoPloidy or Dot is set.
	Allele int
}

// allOnes is the all-ones bit pattern of the width used to store t.
func allOnes(t Type) uint32 {
	switch t {
	case TypeInt8:
		return 0xff
	case TypeInt16:
		return 0xffff
	}
	return 0xffffffff
}

// Genotype decodes n as a GT value. Missing, end-of-vector and non-integer
// values mean the slot is absent.
func (n Number) Genotype() Genotype {
	raw, ok := n.Int()
	if !ok || n.Kind() == KindEndOfVector {
		return Genotype{NoPloidy: true, Allele: -1}
	}
	if raw == allOnes(n.typ) {
		return Genotype{Dot: true, Allele: -1}
	}

	return Genotype{
		Phased: raw&1 != 0,
		Allele: int(raw>>1) - 1,
	}
}

// String renders the allele as it would appear in a VCF GT column, without
// the separator.
func (g Genotype) String() string {
	if g.NoPloidy {
		return ""
	}
	if g.Dot || g.Allele < 0 {
		return "."
	}
	return strconv.Itoa(g.Allele)
}

// Separator is the character that joins this slot to the previous one.
func (g Genotype) Separator() string {
	if g.Phased {
		return "|"
	}
	return "/"
}

// GT returns the raw FORMAT/GT values of every sample, Count values per
// sample in sample order. It is empty when the header declares no GT field
// or the record carries none.
func (r *Record) GT(h *Header) *NumberIter {
	key, ok := h.FormatGTIndex()
	if !ok {
		return emptyNumberIter()
	}
	for _, f := range r.format {
		if f.Key == key {
			return r.SampleValues(f)
		}
	}
	return emptyNumberIter()
}

// GenotypeIter decodes FORMAT/GT values one slot at a time.
type GenotypeIter struct {
	values *NumberIter
	ploidy int
	cur    int
}

// Genotypes iterates over the GT slots of every sample. Ploidy reports how
// many consecutive slots belong to one sample.
func (r *Record) Genotypes(h *Header) *GenotypeIter {
	it := r.GT(h)
	ploidy := 0
	if r.nSample > 0 {
		ploidy = it.Len() / int(r.nSample)
	}
	return &GenotypeIter{values: it, ploidy: ploidy}
}

// Ploidy is the number of slots per sample.
func (g *GenotypeIter) Ploidy() int {
	return g.ploidy
}

// Next returns the next slot and the index of the sample it belongs to.
func (g *GenotypeIter) Next() (gt Genotype, sample int, ok bool) {
	n, ok := g.values.Next()
	if !ok {
		return Genotype{}, 0, false
	}
	sample = g.cur / g.ploidy
	g.cur++
	return n.Genotype(), sample, true
}
