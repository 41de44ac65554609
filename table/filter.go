package table

import (
	"fmt"

	"github.com/carbocation/harmonize"
	"github.com/carbocation/harmonize/patientid"
)

// Filter keeps the rows for which keep returns true.
func Filter(t *Table, keep func(row int) bool) (*Table, error) {
	var rows []patientid.ID
	var positions []int
	for i, id := range t.rows {
		if !keep(i) {
			continue
		}
		rows = append(rows, id)
		positions = append(positions, i)
	}
	return t.Take(t.Name, t.Category, rows, positions)
}

// FilterColumn keeps the rows whose value in the named column is one of
// allowed. Missing values never match.
func FilterColumn(t *Table, name string, allowed ...string) (*Table, error) {
	return filterColumn(t, name, allowed, true)
}

// DropWhere removes the rows whose value in the named column is one of
// values. Rows with a missing value are kept.
func DropWhere(t *Table, name string, values ...string) (*Table, error) {
	return filterColumn(t, name, values, false)
}

func filterColumn(t *Table, name string, values []string, keepMatches bool) (*Table, error) {
	col, ok := t.ColumnNamed(name)
	if !ok {
		return nil, &harmonize.SchemaMismatchError{Op: "filter " + t.Name, Detail: fmt.Sprintf("no column %q", name)}
	}

	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}

	return Filter(t, func(i int) bool {
		if col.IsMissing(i) {
			return !keepMatches
		}
		_, matched := set[col.Format(i)]
		return matched == keepMatches
	})
}

// RestrictTo keeps the rows of t whose PatientID also appears in other, such
// as tumor purity estimates limited to patients with clinical data.
func RestrictTo(t, other *Table) (*Table, error) {
	present := make(map[patientid.ID]struct{}, len(other.rows))
	for _, id := range other.rows {
		present[id] = struct{}{}
	}
	return Filter(t, func(i int) bool {
		_, ok := present[t.rows[i]]
		return ok
	})
}
