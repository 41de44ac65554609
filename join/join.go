// Package join combines canonical tables on their PatientIDs.
package join

import (
	"fmt"

	"github.com/carbocation/harmonize"
	"github.com/carbocation/harmonize/patientid"
	"github.com/carbocation/harmonize/table"
)

// How selects which unmatched rows survive a join.
type How int

const (
	// Inner keeps patients present in both tables.
	Inner How = iota
	// Left keeps every row of the first table.
	Left
	// Default lets Auto choose from the table categories.
	Default
)

func (h How) String() string {
	switch h {
	case Inner:
		return "inner"
	case Left:
		return "left"
	}
	return "auto"
}

// ParseHow accepts "inner", "left" and "auto".
func ParseHow(s string) (How, error) {
	switch s {
	case "inner":
		return Inner, nil
	case "left", "outer":
		return Left, nil
	case "auto", "":
		return Default, nil
	}
	return Default, fmt.Errorf("unknown join type %q", s)
}

type keep int

const (
	keepNone keep = iota
	keepA
	keepB
)

// Join combines a and b on PatientID. Columns of a come first. If the tables
// share a column key the join is refused with an AmbiguousJoinColumnError so
// the caller can rename one side (see table.Table.Tag). When either table is
// long, a patient's wide row is repeated for each of its long rows and the
// result is long.
func Join(a, b *table.Table, how How) (*table.Table, error) {
	switch how {
	case Inner:
		return join(a, b, keepNone)
	case Left:
		return join(a, b, keepA)
	}
	return Auto(a, b)
}

// Auto joins with the default for the two categories: omics with omics is
// inner, metadata with metadata keeps every row of a, and metadata with omics
// or mutation data keeps every row of the omics or mutation side.
func Auto(a, b *table.Table) (*table.Table, error) {
	aMeta, bMeta := a.Category == table.Metadata, b.Category == table.Metadata
	switch {
	case aMeta && bMeta:
		return join(a, b, keepA)
	case aMeta:
		return join(a, b, keepB)
	case bMeta:
		return join(a, b, keepA)
	}
	return join(a, b, keepNone)
}

func join(a, b *table.Table, mode keep) (*table.Table, error) {
	for _, k := range a.Keys() {
		if _, clash := b.Column(k); clash {
			return nil, &harmonize.AmbiguousJoinColumnError{Column: k.String(), Left: a.Name, Right: b.Name}
		}
	}

	var rows []patientid.ID
	var aPos, bPos []int

	// Walk the kept side (or a, for inner joins) so its order is preserved.
	outer, inner := a, b
	if mode == keepB {
		outer, inner = b, a
	}
	byID := make(map[patientid.ID][]int, inner.NRows())
	for i := 0; i < inner.NRows(); i++ {
		byID[inner.Row(i)] = append(byID[inner.Row(i)], i)
	}

	for i := 0; i < outer.NRows(); i++ {
		id := outer.Row(i)
		matches := byID[id]
		if len(matches) == 0 {
			if mode == keepNone {
				continue
			}
			matches = []int{-1}
		}
		for _, m := range matches {
			rows = append(rows, id)
			if mode == keepB {
				aPos, bPos = append(aPos, m), append(bPos, i)
			} else {
				aPos, bPos = append(aPos, i), append(bPos, m)
			}
		}
	}

	category := a.Category
	if mode == keepB {
		category = b.Category
	}
	if a.Long() || b.Long() {
		category = table.Mutation
	}

	name := a.Name + "_" + b.Name
	left, err := a.Take(name, table.Mutation, rows, aPos)
	if err != nil {
		return nil, err
	}
	right, err := b.Take(name, table.Mutation, rows, bPos)
	if err != nil {
		return nil, err
	}

	return table.New(name, category, rows, append(left.Columns(), right.Columns()...))
}

// Step is one link of a Chain.
type Step struct {
	Table *table.Table
	How   How
}

// Chain joins the steps onto first in order and returns the result in
// canonical row order.
func Chain(first *table.Table, steps ...Step) (*table.Table, error) {
	out := first
	for _, s := range steps {
		var err error
		if out, err = Join(out, s.Table, s.How); err != nil {
			return nil, err
		}
	}
	return table.SortRows(out)
}

// All chains tables in the order given, using Auto at every step.
func All(tables ...*table.Table) (*table.Table, error) {
	if len(tables) == 0 {
		return nil, &harmonize.SchemaMismatchError{Op: "join", Detail: "no tables"}
	}
	steps := make([]Step, 0, len(tables)-1)
	for _, t := range tables[1:] {
		steps = append(steps, Step{Table: t, How: Default})
	}
	return Chain(tables[0], steps...)
}
