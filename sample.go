package bcf

import "strings"

// fixedColumns is the number of mandatory VCF columns, #CHROM through INFO.
const fixedColumns = 8

// parseSampleLine returns the sample names of a #CHROM line in column order.
// The FORMAT column, when present, precedes the samples and is not one.
func parseSampleLine(line string) []string {
	fields := strings.Split(line, "\t")
	if len(fields) <= fixedColumns {
		return nil
	}

	fields = fields[fixedColumns:]
	if fields[0] == "FORMAT" {
		fields = fields[1:]
	}
	return append([]string(nil), fields...)
}
