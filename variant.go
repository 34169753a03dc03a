package bcf

import "strings"

// Variant is a detached copy of the site-level fields of a Record, with
// dictionary keys resolved against a Header. Unlike a Record it stays valid
// after the next Read.
type Variant struct {
	Chromosome string
	Position   uint32 // 1-based
	ID         string
	Alleles    []string
	Quality    float32
	HasQuality bool
	Filters    []string
}

// Variant materializes the site-level fields of r.
func (r *Record) Variant(h *Header) *Variant {
	v := &Variant{
		Chromosome: h.ChromName(int(r.chrom)),
		Position:   uint32(r.pos) + 1,
		ID:         string(r.ID()),
		Alleles:    make([]string, 0, len(r.alleles)),
	}
	v.Quality, v.HasQuality = r.Qual()

	for i := range r.alleles {
		v.Alleles = append(v.Alleles, string(r.Allele(i)))
	}

	it := r.Values(r.filters)
	for n, ok := it.Next(); ok; n, ok = it.Next() {
		if n.Kind() != KindValue {
			continue
		}
		key, _ := n.Int()
		if e, ok := h.Dictionary(int(key)); ok {
			v.Filters = append(v.Filters, e.ID())
		}
	}

	return v
}

// Ref is the reference allele, or "" for a site without alleles.
func (v *Variant) Ref() string {
	if len(v.Alleles) == 0 {
		return ""
	}
	return v.Alleles[0]
}

// Alt joins the alternate alleles with commas as in a VCF ALT column.
func (v *Variant) Alt() string {
	if len(v.Alleles) < 2 {
		return "."
	}
	return strings.Join(v.Alleles[1:], ",")
}
