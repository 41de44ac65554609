// Package summary reports per-table diagnostics for loaded datasets.
package summary

import (
	"fmt"
	"math"
	"strings"

	"github.com/carbocation/harmonize/table"
	"github.com/montanaflynn/stats"
)

// Summary describes one canonical table.
type Summary struct {
	Name     string
	Category table.Category
	Rows     int
	Columns  int
	Sites    int
	Patients int
	Tumor    int
	Normal   int

	// Missing is the fraction of empty cells.
	Missing float64

	// Median and Mean span every present numeric cell; NaN for tables
	// without numeric data.
	Median float64
	Mean   float64
}

// Describe computes the Summary of t.
func Describe(t *table.Table) (Summary, error) {
	s := Summary{
		Name:     t.Name,
		Category: t.Category,
		Rows:     t.NRows(),
		Columns:  t.NCols(),
		Median:   math.NaN(),
		Mean:     math.NaN(),
	}

	seen := make(map[string]struct{})
	for _, id := range t.Rows() {
		if id.IsNormal() {
			s.Normal++
		} else {
			s.Tumor++
		}
		seen[string(id.Base())] = struct{}{}
	}
	s.Patients = len(seen)

	var values []float64
	cells, missing := 0, 0
	for _, c := range t.Columns() {
		if c.Key.IsSiteLevel() {
			s.Sites++
		}
		for i := 0; i < c.Len(); i++ {
			cells++
			if c.IsMissing(i) {
				missing++
				continue
			}
			if c.Kind == table.Numeric {
				values = append(values, c.Num[i])
			}
		}
	}
	if cells > 0 {
		s.Missing = float64(missing) / float64(cells)
	}

	data := stats.LoadRawData(values)
	if data.Len() < 1 {
		return s, nil
	}

	var err error
	if s.Median, err = data.Median(); err != nil {
		return s, err
	}
	if s.Mean, err = data.Mean(); err != nil {
		return s, err
	}

	return s, nil
}

// Header names the fields of Fields.
func Header() []string {
	return []string{"table", "category", "rows", "columns", "sites", "patients", "tumor", "normal", "missing", "median", "mean"}
}

// Fields renders s for tabular output.
func (s Summary) Fields() []string {
	return []string{
		s.Name,
		s.Category.String(),
		fmt.Sprintf("%d", s.Rows),
		fmt.Sprintf("%d", s.Columns),
		fmt.Sprintf("%d", s.Sites),
		fmt.Sprintf("%d", s.Patients),
		fmt.Sprintf("%d", s.Tumor),
		fmt.Sprintf("%d", s.Normal),
		fmt.Sprintf("%.3f", s.Missing),
		formatStat(s.Median),
		formatStat(s.Mean),
	}
}

func (s Summary) String() string {
	return strings.Join(s.Fields(), "\t")
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "N/A"
	}
	return fmt.Sprintf("%.3f", v)
}
