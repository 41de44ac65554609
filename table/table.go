// Package table holds the canonical table model (PatientID rows, feature
// columns) together with the operations that shape every table of a dataset
// the same way: orientation of raw input, tumor/normal assembly, canonical
// row order, master index union and reindexing.
package table

import (
	"fmt"
	"math"
	"strconv"

	"github.com/carbocation/harmonize"
	"github.com/carbocation/harmonize/feature"
	"github.com/carbocation/harmonize/patientid"
	"gopkg.in/guregu/null.v3"
)

// Category decides row multiplicity and default join behavior.
type Category int

const (
	// Omics tables hold numeric measurements, one row per sample.
	Omics Category = iota
	// Metadata tables hold clinical or derived annotations, one row per sample.
	Metadata
	// Mutation tables are long: zero, one or many rows per sample.
	Mutation
)

func (c Category) String() string {
	switch c {
	case Omics:
		return "omics"
	case Metadata:
		return "metadata"
	case Mutation:
		return "mutation"
	}
	return "unknown"
}

// ParseCategory accepts the names produced by Category.String.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "omics", "":
		return Omics, nil
	case "metadata", "clinical":
		return Metadata, nil
	case "mutation", "somatic_mutation":
		return Mutation, nil
	}
	return Omics, fmt.Errorf("unknown table category %q", s)
}

// Kind is the data type of a column.
type Kind int

const (
	Numeric Kind = iota
	Text
)

// Column is one feature (or metadata field) across all rows of a table.
// Numeric columns mark missing cells with NaN; text columns with an invalid
// null.String.
type Column struct {
	Key  feature.Key
	Kind Kind
	Num  []float64
	Text []null.String
}

// NewNumeric wraps values in a numeric column.
func NewNumeric(key feature.Key, values []float64) *Column {
	return &Column{Key: key, Kind: Numeric, Num: values}
}

// NewText wraps values in a text column.
func NewText(key feature.Key, values []null.String) *Column {
	return &Column{Key: key, Kind: Text, Text: values}
}

// Len is the number of cells.
func (c *Column) Len() int {
	if c.Kind == Numeric {
		return len(c.Num)
	}
	return len(c.Text)
}

// IsMissing reports whether cell i is empty.
func (c *Column) IsMissing(i int) bool {
	if c.Kind == Numeric {
		return math.IsNaN(c.Num[i])
	}
	return !c.Text[i].Valid
}

// Format renders cell i; missing cells render as the empty string.
func (c *Column) Format(i int) string {
	if c.IsMissing(i) {
		return ""
	}
	if c.Kind == Numeric {
		return strconv.FormatFloat(c.Num[i], 'g', -1, 64)
	}
	return c.Text[i].String
}

// gather builds a column whose cell j is cell idx[j] of c, or missing when
// idx[j] is negative.
func (c *Column) gather(idx []int) *Column {
	out := &Column{Key: c.Key, Kind: c.Kind}
	if c.Kind == Numeric {
		out.Num = make([]float64, len(idx))
		for j, i := range idx {
			if i < 0 {
				out.Num[j] = math.NaN()
				continue
			}
			out.Num[j] = c.Num[i]
		}
		return out
	}

	out.Text = make([]null.String, len(idx))
	for j, i := range idx {
		if i < 0 {
			continue
		}
		out.Text[j] = c.Text[i]
	}
	return out
}

func (c *Column) withKey(k feature.Key) *Column {
	out := *c
	out.Key = k
	return &out
}

// Table is a canonical table. It is immutable: every operation returns a new
// Table and callers must not modify the slices it hands out.
type Table struct {
	Name     string
	Category Category

	rows  []patientid.ID
	cols  []*Column
	index map[feature.Key]int
}

// New validates and wraps rows and columns. Columns must all have one cell per
// row, column keys must be unique, and, unless the table is a Mutation table,
// so must the row identifiers.
func New(name string, category Category, rows []patientid.ID, cols []*Column) (*Table, error) {
	t := &Table{
		Name:     name,
		Category: category,
		rows:     rows,
		cols:     cols,
		index:    make(map[feature.Key]int, len(cols)),
	}

	for i, c := range cols {
		if c.Kind == Numeric && c.Text != nil || c.Kind == Text && c.Num != nil {
			return nil, &harmonize.SchemaMismatchError{Op: name, Detail: fmt.Sprintf("column %s holds more than one data type", c.Key)}
		}
		if c.Len() != len(rows) {
			return nil, &harmonize.SchemaMismatchError{Op: name, Detail: fmt.Sprintf("column %s has %d cells for %d rows", c.Key, c.Len(), len(rows))}
		}
		if prior, exists := t.index[c.Key]; exists {
			return nil, &harmonize.DuplicateKeyError{Table: name, Key: c.Key.String(), First: fmt.Sprintf("column %d", prior), Second: fmt.Sprintf("column %d", i)}
		}
		t.index[c.Key] = i
	}

	if category != Mutation {
		seen := make(map[patientid.ID]struct{}, len(rows))
		for _, id := range rows {
			if _, exists := seen[id]; exists {
				return nil, &harmonize.DuplicateKeyError{Table: name, Key: string(id), First: string(id), Second: string(id)}
			}
			seen[id] = struct{}{}
		}
	}

	return t, nil
}

// Long reports whether a patient may occupy several rows.
func (t *Table) Long() bool {
	return t.Category == Mutation
}

// NRows is the number of rows.
func (t *Table) NRows() int {
	return len(t.rows)
}

// NCols is the number of columns.
func (t *Table) NCols() int {
	return len(t.cols)
}

// Rows returns the row identifiers in order.
func (t *Table) Rows() []patientid.ID {
	return append([]patientid.ID(nil), t.rows...)
}

// Row returns the identifier of row i.
func (t *Table) Row(i int) patientid.ID {
	return t.rows[i]
}

// Columns returns the columns in order.
func (t *Table) Columns() []*Column {
	return append([]*Column(nil), t.cols...)
}

// Keys returns the column keys in order.
func (t *Table) Keys() []feature.Key {
	out := make([]feature.Key, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Key
	}
	return out
}

// Column looks a column up by key.
func (t *Table) Column(k feature.Key) (*Column, bool) {
	i, ok := t.index[k]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// ColumnNamed looks a metadata column up by name.
func (t *Table) ColumnNamed(name string) (*Column, bool) {
	return t.Column(feature.Named(name))
}

// RowsOf returns the positions of every row of id.
func (t *Table) RowsOf(id patientid.ID) []int {
	var out []int
	for i, v := range t.rows {
		if v == id {
			out = append(out, i)
		}
	}
	return out
}

// Float returns the numeric value at (row, key).
func (t *Table) Float(row int, k feature.Key) (float64, bool) {
	c, ok := t.Column(k)
	if !ok || c.Kind != Numeric || c.IsMissing(row) {
		return math.NaN(), false
	}
	return c.Num[row], true
}

// String returns the text value at (row, key).
func (t *Table) String(row int, k feature.Key) (string, bool) {
	c, ok := t.Column(k)
	if !ok || c.Kind != Text || c.IsMissing(row) {
		return "", false
	}
	return c.Text[row].String, true
}

// Rename returns a table whose column keys are rewritten by fn, which is how a
// caller resolves an AmbiguousJoinColumnError.
func (t *Table) Rename(fn func(feature.Key) feature.Key) (*Table, error) {
	cols := make([]*Column, len(t.cols))
	for i, c := range t.cols {
		cols[i] = c.withKey(fn(c.Key))
	}
	return New(t.Name, t.Category, t.rows, cols)
}

// Tag suffixes every column name with "_" and the table name.
func (t *Table) Tag() (*Table, error) {
	suffix := "_" + t.Name
	return t.Rename(func(k feature.Key) feature.Key { return k.WithSuffix(suffix) })
}

// Take builds a table from a selection of rows. Negative positions produce
// all-missing rows, which is how reindexing and outer joins fill gaps.
func (t *Table) Take(name string, category Category, rows []patientid.ID, positions []int) (*Table, error) {
	if len(rows) != len(positions) {
		return nil, &harmonize.SchemaMismatchError{Op: name, Detail: "row and position counts differ"}
	}
	cols := make([]*Column, len(t.cols))
	for i, c := range t.cols {
		cols[i] = c.gather(positions)
	}
	return New(name, category, rows, cols)
}
