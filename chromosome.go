package bcf

import "strconv"

// ChromName returns the ID of the contig whose chromosome index is i, or ""
// if the header declares no such contig.
func (h *Header) ChromName(i int) string {
	c, ok := h.Contig(i)
	if !ok {
		return ""
	}
	return c.ID()
}

// Contig returns the ##contig entry whose chromosome index is i.
func (h *Header) Contig(i int) (Entry, bool) {
	if i < 0 || i >= len(h.contigs) {
		return Entry{}, false
	}
	return h.contigs[i], true
}

// Contigs returns the ##contig entries in chromosome index order. The slice
// is shared and must not be modified.
func (h *Header) Contigs() []Entry {
	return h.contigs
}

// ContigLength returns the declared length of contig i, if it has one.
func (h *Header) ContigLength(i int) (int64, bool) {
	c, ok := h.Contig(i)
	if !ok {
		return 0, false
	}
	v, ok := c.Get("length")
	if !ok {
		return 0, false
	}
	length, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return length, true
}
