package rawtable

import (
	"encoding/csv"
	"io"

	"github.com/carbocation/harmonize"
	"github.com/carbocation/harmonize/feature"
	"github.com/carbocation/harmonize/patientid"
	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
)

type aliquotRecord struct {
	Aliquot string `csv:"aliquot_ID"`
	Patient string `csv:"patient_ID"`
}

type geneIDRecord struct {
	Name string `csv:"gene_name"`
	ID   string `csv:"gene_id"`
}

func tsvReader(r io.Reader) gocsv.CSVReader {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	return cr
}

func unmarshalTSV(path string, out interface{}) error {
	f, err := harmonize.OpenRaw(harmonize.ExpandHome(path))
	if err != nil {
		return pfx.Err(err)
	}
	defer f.Close()

	if err := gocsv.UnmarshalCSV(tsvReader(f), out); err != nil {
		return pfx.Err(err)
	}
	return nil
}

// ReadMapping loads an aliquot to patient table with aliquot_ID and
// patient_ID columns.
func ReadMapping(path string) (*patientid.Mapping, error) {
	records := []*aliquotRecord{}
	if err := unmarshalTSV(path, &records); err != nil {
		return nil, err
	}

	labels := make([]string, 0, len(records))
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		labels = append(labels, rec.Aliquot)
		ids = append(ids, rec.Patient)
	}

	return patientid.MappingFromPairs(labels, ids)
}

// ReadGeneIDs loads a gene annotation with gene_name and gene_id columns.
// Repeated pairs are collapsed.
func ReadGeneIDs(path string) (*feature.GeneIDs, error) {
	records := []*geneIDRecord{}
	if err := unmarshalTSV(path, &records); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(records))
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		if rec.Name == "" || rec.ID == "" {
			continue
		}
		names = append(names, rec.Name)
		ids = append(ids, rec.ID)
	}

	return feature.NewGeneIDs(names, ids), nil
}
