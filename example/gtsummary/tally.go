package main

import "github.com/carbocation/bcf"

// SiteTally conforms to the rows of the SQLite table "Site" and can be
// written and read with sqlx.
type SiteTally struct {
	Chromosome string `db:"chromosome"`
	Position   uint32 `db:"position"`
	ID         string `db:"id"`
	NAlleles   int    `db:"number_of_alleles"`
	NGenotypes int    `db:"number_of_genotypes"`
	HomRef     int    `db:"hom_ref"`
	Het        int    `db:"het"`
	HomAlt     int    `db:"hom_alt"`
	Missing    int    `db:"missing"`
}

// Metadata conforms to the single row of the SQLite table "Metadata".
type Metadata struct {
	Filename     string `db:"filename"`
	NSamples     int    `db:"number_of_samples"`
	CreationTime Time   `db:"creation_time"`
}

const schema = `
CREATE TABLE IF NOT EXISTS Metadata (
	filename TEXT NOT NULL,
	number_of_samples INTEGER NOT NULL,
	creation_time INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS Site (
	chromosome TEXT NOT NULL,
	position INTEGER NOT NULL,
	id TEXT NOT NULL,
	number_of_alleles INTEGER NOT NULL,
	number_of_genotypes INTEGER NOT NULL,
	hom_ref INTEGER NOT NULL,
	het INTEGER NOT NULL,
	hom_alt INTEGER NOT NULL,
	missing INTEGER NOT NULL
);
`

type callClass int

const (
	classMissing callClass = iota
	classHomRef
	classHet
	classHomAlt
)

// classify assigns one sample's called slots to a genotype class. A call
// with any unknown allele, or with no slots at all, is missing.
func classify(slots []bcf.Genotype) callClass {
	called := 0
	alt := 0
	for _, gt := range slots {
		if gt.NoPloidy {
			continue
		}
		if gt.Dot || gt.Allele < 0 {
			return classMissing
		}
		called++
		if gt.Allele > 0 {
			alt++
		}
	}

	switch {
	case called == 0:
		return classMissing
	case alt == 0:
		return classHomRef
	case alt == called:
		return classHomAlt
	}
	return classHet
}

// tallyRecord counts genotype classes across every sample of rec.
func tallyRecord(rec *bcf.Record, h *bcf.Header) SiteTally {
	v := rec.Variant(h)
	t := SiteTally{
		Chromosome: v.Chromosome,
		Position:   v.Position,
		ID:         v.ID,
		NAlleles:   len(v.Alleles),
	}

	gts := rec.Genotypes(h)
	if gts.Ploidy() > 0 {
		t.NGenotypes = Choose(t.NAlleles+gts.Ploidy()-1, gts.Ploidy())
	}

	slots := make([]bcf.Genotype, 0, gts.Ploidy())
	last := -1
	flush := func() {
		if last < 0 {
			return
		}
		t.add(classify(slots))
		slots = slots[:0]
	}
	for gt, sample, ok := gts.Next(); ok; gt, sample, ok = gts.Next() {
		if sample != last {
			flush()
			last = sample
		}
		slots = append(slots, gt)
	}
	flush()

	return t
}

func (t *SiteTally) add(c callClass) {
	switch c {
	case classHomRef:
		t.HomRef++
	case classHet:
		t.Het++
	case classHomAlt:
		t.HomAlt++
	default:
		t.Missing++
	}
}

// Choose k from n items can be done in this many ways. With n = alleles +
// ploidy - 1 and k = ploidy this is the number of distinct unphased
// genotypes at a site. Originally derived from github.com/limix/bgen
// /src/util/choose.c
func Choose(n, k int) int {
	if n == 3 && k == 1 {
		// Fastest path
		return 3
	} else if k == 1 {
		return n
	}

	ans := 1

	if k > n-k {
		k = n - k
	}

	for j := 1; j <= k; j++ {
		if n%j == 0 {
			ans *= n / j
		} else if ans%j == 0 {
			ans = ans / j * n
		} else {
			ans = (ans * n) / j
		}

		n--
	}

	return ans
}
