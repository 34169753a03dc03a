package main

import (
	"flag"
	"fmt"
	"log"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/carbocation/bcf"
	"github.com/carbocation/pfx"
)

func main() {
	path := flag.String("bcf", "example.bcf", "Filename (or gs:// URL) of the bcf file to process")
	limit := flag.Int("n", 10, "Number of samples and records to print")
	flag.Parse()

	if strings.HasPrefix(*path, "~/") {
		usr, err := user.Current()
		if err != nil {
			log.Fatalln(pfx.Err(err))
		}
		*path = filepath.Join(usr.HomeDir, (*path)[2:])
	}

	b, err := bcf.Open(*path)
	if err != nil {
		log.Fatalln(err)
	}
	defer b.Close()

	log.Printf("Opened %s (BCF %d.%d, %s)\n", b.FilePath, b.Major, b.Minor, b.Compression)

	h := b.Header
	for i, c := range h.Contigs() {
		if i >= *limit {
			log.Println("...", len(h.Contigs())-i, "more contigs")
			break
		}
		fmt.Println("contig", i, c.ID())
	}
	for i, e := range h.Dictionaries() {
		fmt.Printf("%d) %s/%s\n", i, e.Dictionary, e.ID())
	}
	if gt, ok := h.FormatGTIndex(); ok {
		log.Println("FORMAT/GT has dictionary key", gt)
	} else {
		log.Println("Header declares no FORMAT/GT field")
	}

	samples := h.Samples()
	i := 0
	for _, sample := range samples {
		fmt.Println(i, sample)
		i++

		if i >= *limit {
			break
		}
	}
	log.Println("Iterated over", i, "of", len(samples), "samples")

	rr := b.NewRecordReader()
	for i := 1; ; i++ {
		rec := rr.Read()
		if rec == nil {
			break
		}

		if i > *limit {
			continue
		}

		v := rec.Variant(h)
		fmt.Printf("%s\t%d\t%s\t%s\t%s\t%s\t%s\n", v.Chromosome, v.Position, orDot(v.ID), v.Ref(), v.Alt(), qual(v), filters(v))

		if calls := sampleCalls(rec.Genotypes(h), *limit); len(calls) > 0 {
			fmt.Println("\t" + strings.Join(calls, "\t"))
		}
	}

	log.Println("Saw", rr.RecordsSeen, "records")

	if rr.Error() != nil {
		log.Println("RR error:", rr.Error())
	}
}

func orDot(s string) string {
	if s == "" {
		return "."
	}
	return s
}

func qual(v *bcf.Variant) string {
	if !v.HasQuality {
		return "."
	}
	return fmt.Sprint(v.Quality)
}

func filters(v *bcf.Variant) string {
	if len(v.Filters) == 0 {
		return "."
	}
	return strings.Join(v.Filters, ";")
}

// sampleCalls renders the GT column of the first limit samples.
func sampleCalls(gts *bcf.GenotypeIter, limit int) []string {
	var calls []string
	var call strings.Builder
	last := -1
	for gt, sample, ok := gts.Next(); ok; gt, sample, ok = gts.Next() {
		if sample >= limit {
			break
		}
		if sample != last {
			if last >= 0 {
				calls = append(calls, call.String())
				call.Reset()
			}
			last = sample
		}
		if gt.NoPloidy {
			continue
		}
		if call.Len() > 0 {
			call.WriteString(gt.Separator())
		}
		call.WriteString(gt.String())
	}
	if last >= 0 {
		calls = append(calls, call.String())
	}
	return calls
}
