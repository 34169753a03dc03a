package bcf

import (
	"fmt"
	"strings"
)

// Pair is one key=value attribute of a structured header line.
type Pair struct {
	Key   string
	Value string
}

// Entry is one structured header line, e.g. ##INFO=<ID=DP,...>. Pairs keep
// the order in which they appear on the line.
type Entry struct {
	Dictionary string
	Pairs      []Pair
}

// Get returns the value of the first pair named key.
func (e Entry) Get(key string) (string, bool) {
	for _, p := range e.Pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// ID is a shorthand for Get("ID").
func (e Entry) ID() string {
	v, _ := e.Get("ID")
	return v
}

// Header holds the dictionaries declared in the header text. The position of
// an entry in Dictionaries is the integer key that records use to refer to
// it, and the position of a contig in Contigs is its chromosome index.
type Header struct {
	dictionaries []Entry
	contigs      []Entry
	samples      []string
	gtIndex      int
	hasGT        bool
}

// passEntry is the FILTER/PASS line that every header implicitly starts
// with.
func passEntry() Entry {
	return Entry{
		Dictionary: "FILTER",
		Pairs: []Pair{
			{Key: "ID", Value: "PASS"},
			{Key: "Description", Value: "All filters passed"},
		},
	}
}

// ParseHeader parses header text. Trailing NUL padding is ignored.
func ParseHeader(text string) (*Header, error) {
	h := &Header{
		dictionaries: []Entry{passEntry()},
	}

	text = strings.TrimSpace(strings.TrimRight(text, "\x00"))
	for lineNo, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")

		if strings.HasPrefix(line, "#CHROM") {
			h.samples = parseSampleLine(line)
			continue
		} else if strings.TrimSpace(line) == "" {
			continue
		}

		name, entry, ok, err := parseStructuredLine(line)
		if err != nil {
			return nil, fmt.Errorf("header line %d: %w", lineNo+1, err)
		}
		if !ok {
			continue
		}

		if name == "contig" {
			h.contigs = append(h.contigs, entry)
			continue
		}
		if name == "FILTER" && entry.ID() == "PASS" {
			// Already present as the implicit first entry.
			continue
		}
		h.dictionaries = append(h.dictionaries, entry)
	}

	for i, e := range h.dictionaries {
		if e.Dictionary == "FORMAT" && e.ID() == "GT" {
			h.gtIndex = i
			h.hasGT = true
			break
		}
	}

	return h, nil
}

// parseStructuredLine parses a ##name=<k=v,...> line. ok is false for lines
// of any other shape, which carry nothing the decoder needs.
func parseStructuredLine(line string) (name string, entry Entry, ok bool, err error) {
	if !strings.HasPrefix(line, "##") {
		return "", Entry{}, false, nil
	}
	eq := strings.IndexByte(line, '=')
	if eq < 0 {
		return "", Entry{}, false, nil
	}
	name = line[2:eq]
	value := line[eq+1:]
	if !strings.HasPrefix(value, "<") {
		return "", Entry{}, false, nil
	}

	end := strings.LastIndexByte(value, '>')
	if end < 0 {
		return "", Entry{}, false, fmt.Errorf("%w: ##%s line has no closing '>'", ErrFormat, name)
	}

	entry.Dictionary = name
	for _, field := range splitUnquoted(value[1:end], ',') {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		kv := splitUnquoted(field, '=')
		if len(kv) < 2 {
			return "", Entry{}, false, fmt.Errorf("%w: ##%s attribute %q has no '='", ErrFormat, name, field)
		}
		entry.Pairs = append(entry.Pairs, Pair{
			Key:   strings.TrimSpace(kv[0]),
			Value: unquote(strings.Join(kv[1:], "=")),
		})
	}

	return name, entry, true, nil
}

// splitUnquoted splits s on sep wherever sep is outside double quotes.
func splitUnquoted(s string, sep byte) []string {
	var out []string
	quoted, escaped := false, false
	start := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case escaped:
			escaped = false
		case c == '\\' && quoted:
			escaped = true
		case c == '"':
			quoted = !quoted
		case c == sep && !quoted:
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}

// unquote strips one pair of surrounding double quotes and resolves
// backslash escapes inside them.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	s = s[1 : len(s)-1]
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// GTIndex is the dictionary key of FORMAT/GT, or 0 when the header declares
// no GT field. Use FormatGTIndex to tell the two apart.
func (h *Header) GTIndex() int {
	return h.gtIndex
}

// FormatGTIndex is the dictionary key of FORMAT/GT and whether it exists.
func (h *Header) FormatGTIndex() (int, bool) {
	return h.gtIndex, h.hasGT
}

// Dictionary returns the entry whose dictionary key is i.
func (h *Header) Dictionary(i int) (Entry, bool) {
	if i < 0 || i >= len(h.dictionaries) {
		return Entry{}, false
	}
	return h.dictionaries[i], true
}

// Dictionaries returns every non-contig entry in key order. The slice is
// shared and must not be modified.
func (h *Header) Dictionaries() []Entry {
	return h.dictionaries
}

// Samples returns the sample names in column order. The slice is shared and
// must not be modified.
func (h *Header) Samples() []string {
	return h.samples
}
