package table

import (
	"fmt"
	"sort"

	"github.com/carbocation/harmonize"
	"github.com/carbocation/harmonize/feature"
	"github.com/carbocation/harmonize/patientid"
	"gopkg.in/guregu/null.v3"
)

// SampleStatusColumn is the metadata column added by WithSampleStatus.
const SampleStatusColumn = "Sample_Tumor_Normal"

// SortRows puts tumor rows first and normal rows after them, each block in
// lexicographic order. The sort is stable so that the rows of one patient in
// a long table keep their relative order.
func SortRows(t *Table) (*Table, error) {
	positions := make([]int, len(t.rows))
	for i := range positions {
		positions[i] = i
	}
	sort.SliceStable(positions, func(i, j int) bool {
		return patientid.Less(t.rows[positions[i]], t.rows[positions[j]])
	})

	rows := make([]patientid.ID, len(positions))
	for j, i := range positions {
		rows[j] = t.rows[i]
	}
	return t.Take(t.Name, t.Category, rows, positions)
}

// SortIDs sorts ids in place in canonical row order.
func SortIDs(ids []patientid.ID) {
	sort.SliceStable(ids, func(i, j int) bool {
		return patientid.Less(ids[i], ids[j])
	})
}

// MasterIndex is the sorted union of the PatientIDs of tables, skipping the
// tables whose names are listed in exclude.
func MasterIndex(tables []*Table, exclude ...string) []patientid.ID {
	skip := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		skip[name] = struct{}{}
	}

	seen := make(map[patientid.ID]struct{})
	var out []patientid.ID
	for _, t := range tables {
		if _, excluded := skip[t.Name]; excluded {
			continue
		}
		for _, id := range t.rows {
			if _, exists := seen[id]; exists {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}

	SortIDs(out)
	return out
}

// Reindex lays the rows of a wide table out along index. Patients of index
// absent from t get an all-missing row. A row of t whose PatientID is not in
// index is a SchemaMismatchError: reindexing never discards data.
func Reindex(t *Table, index []patientid.ID) (*Table, error) {
	op := "reindex " + t.Name
	if t.Long() {
		return nil, &harmonize.SchemaMismatchError{Op: op, Detail: "long tables cannot be reindexed"}
	}

	target := make(map[patientid.ID]struct{}, len(index))
	for _, id := range index {
		if _, exists := target[id]; exists {
			return nil, &harmonize.DuplicateKeyError{Table: "master index", Key: string(id), First: string(id), Second: string(id)}
		}
		target[id] = struct{}{}
	}

	current := make(map[patientid.ID]int, len(t.rows))
	for i, id := range t.rows {
		if _, ok := target[id]; !ok {
			return nil, &harmonize.SchemaMismatchError{Op: op, Detail: fmt.Sprintf("row %s is not in the index", id)}
		}
		current[id] = i
	}

	positions := make([]int, len(index))
	for j, id := range index {
		i, ok := current[id]
		if !ok {
			i = -1
		}
		positions[j] = i
	}

	return t.Take(t.Name, t.Category, append([]patientid.ID(nil), index...), positions)
}

// WithSampleStatus prepends a Sample_Tumor_Normal column holding "Tumor" or
// "Normal" for every row.
func WithSampleStatus(t *Table) (*Table, error) {
	status := make([]null.String, len(t.rows))
	for i, id := range t.rows {
		if id.IsNormal() {
			status[i] = null.StringFrom("Normal")
		} else {
			status[i] = null.StringFrom("Tumor")
		}
	}

	cols := append([]*Column{NewText(feature.Named(SampleStatusColumn), status)}, t.cols...)
	return New(t.Name, t.Category, t.rows, cols)
}
