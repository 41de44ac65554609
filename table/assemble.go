package table

import (
	"fmt"

	"github.com/carbocation/harmonize"
	"github.com/carbocation/harmonize/patientid"
)

// Assemble stacks the tumor and normal halves of one assay. Tumor rows must
// not carry the normal suffix; normal rows get it if they lack it. Both halves
// must have the same column keys with the same kinds. Columns follow the
// tumor order and rows are not sorted.
func Assemble(tumor, normal *Table) (*Table, error) {
	if normal == nil {
		return tumor, nil
	}
	if tumor == nil {
		rows := make([]patientid.ID, len(normal.rows))
		for i, id := range normal.rows {
			rows[i] = id.AsNormal()
		}
		return New(normal.Name, normal.Category, rows, normal.cols)
	}

	op := "assemble " + tumor.Name
	for _, id := range tumor.rows {
		if id.IsNormal() {
			return nil, &harmonize.SchemaMismatchError{Op: op, Detail: fmt.Sprintf("tumor row %s carries the normal suffix", id)}
		}
	}

	if len(tumor.cols) != len(normal.cols) {
		return nil, &harmonize.SchemaMismatchError{Op: op, Detail: fmt.Sprintf("tumor has %d columns, normal has %d", len(tumor.cols), len(normal.cols))}
	}
	for _, tc := range tumor.cols {
		nc, ok := normal.Column(tc.Key)
		if !ok {
			return nil, &harmonize.SchemaMismatchError{Op: op, Detail: fmt.Sprintf("column %s is missing from the normal table", tc.Key)}
		}
		if nc.Kind != tc.Kind {
			return nil, &harmonize.SchemaMismatchError{Op: op, Detail: fmt.Sprintf("column %s differs in kind", tc.Key)}
		}
	}

	rows := make([]patientid.ID, 0, len(tumor.rows)+len(normal.rows))
	rows = append(rows, tumor.rows...)
	for _, id := range normal.rows {
		rows = append(rows, id.AsNormal())
	}

	cols := make([]*Column, len(tumor.cols))
	for i, tc := range tumor.cols {
		nc, _ := normal.Column(tc.Key)
		c := &Column{Key: tc.Key, Kind: tc.Kind}
		if tc.Kind == Numeric {
			c.Num = append(append(c.Num, tc.Num...), nc.Num...)
		} else {
			c.Text = append(append(c.Text, tc.Text...), nc.Text...)
		}
		cols[i] = c
	}

	return New(tumor.Name, tumor.Category, rows, cols)
}
