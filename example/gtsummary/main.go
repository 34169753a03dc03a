package main

import (
	"flag"
	"log"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/carbocation/bcf"
	"github.com/carbocation/pfx"
)

func main() {
	path := flag.String("bcf", "", "Filename (or gs:// URL) of the bcf file to process")
	dbPath := flag.String("db", "", "Filename of the SQLite database to write. Defaults to the bcf filename + .gt.sqlite")
	flag.Parse()

	if *path == "" {
		flag.PrintDefaults()
		log.Fatalln("No bcf file found")
	}

	*path = expandHome(*path)

	if *dbPath == "" {
		*dbPath = filepath.Base(*path) + ".gt.sqlite"
	}
	*dbPath = expandHome(*dbPath)

	b, err := bcf.Open(*path)
	if err != nil {
		log.Fatalln(err)
	}
	defer b.Close()

	if _, ok := b.Header.FormatGTIndex(); !ok {
		log.Fatalln(*path, "declares no FORMAT/GT field")
	}

	log.Println("Writing to", *dbPath, "with the", whichSQLiteDriver, "driver")
	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatalln(err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		log.Fatalln(pfx.Err(err))
	}

	tx, err := db.Beginx()
	if err != nil {
		log.Fatalln(pfx.Err(err))
	}

	if _, err := tx.Exec("INSERT INTO Metadata (filename, number_of_samples, creation_time) VALUES (?, ?, ?)",
		*path, len(b.Header.Samples()), time.Now().Unix()); err != nil {
		log.Fatalln(pfx.Err(err))
	}

	insert, err := tx.PrepareNamed(`INSERT INTO Site (chromosome, position, id, number_of_alleles, number_of_genotypes, hom_ref, het, hom_alt, missing)
	VALUES (:chromosome, :position, :id, :number_of_alleles, :number_of_genotypes, :hom_ref, :het, :hom_alt, :missing)`)
	if err != nil {
		log.Fatalln(pfx.Err(err))
	}

	rr := b.NewRecordReader()
	for rec := rr.Read(); rec != nil; rec = rr.Read() {
		if rr.RecordsSeen%10000 == 0 {
			log.Println("Processed", rr.RecordsSeen, "records")
		}

		if _, err := insert.Exec(tallyRecord(rec, b.Header)); err != nil {
			log.Fatalln(pfx.Err(err))
		}
	}
	if rr.Error() != nil {
		tx.Rollback()
		log.Fatalln("RR error:", rr.Error())
	}

	if err := insert.Close(); err != nil {
		log.Fatalln(pfx.Err(err))
	}
	if err := tx.Commit(); err != nil {
		log.Fatalln(pfx.Err(err))
	}

	var meta Metadata
	if err := db.Get(&meta, "SELECT * FROM Metadata LIMIT 1"); err != nil {
		log.Fatalln(pfx.Err(err))
	}
	log.Printf("Metadata: %+v\n", meta)

	var totals struct {
		Sites   int `db:"sites"`
		HomRef  int `db:"hom_ref"`
		Het     int `db:"het"`
		HomAlt  int `db:"hom_alt"`
		Missing int `db:"missing"`
	}
	if err := db.Get(&totals, `SELECT COUNT(*) AS sites, COALESCE(SUM(hom_ref), 0) AS hom_ref, COALESCE(SUM(het), 0) AS het,
	COALESCE(SUM(hom_alt), 0) AS hom_alt, COALESCE(SUM(missing), 0) AS missing FROM Site`); err != nil {
		log.Fatalln(pfx.Err(err))
	}
	log.Printf("Final accumulated stats: %+v\n", totals)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}

	usr, err := user.Current()
	if err != nil {
		log.Fatalln(pfx.Err(err))
	}
	return filepath.Join(usr.HomeDir, path[2:])
}
