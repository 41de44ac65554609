// Package rawtable parses omics exports (delimited matrices, GCT, MAF and
// XLS spreadsheets) into table.Raw according to named layouts.
package rawtable

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/carbocation/harmonize"
	"github.com/carbocation/harmonize/feature"
	"github.com/carbocation/harmonize/table"
	"github.com/carbocation/pfx"
	"github.com/extrame/xls"
	"gopkg.in/guregu/null.v3"
)

// MissingValues are the cell values read as missing numbers.
var MissingValues = []string{"", "NA", "NaN", "nan", "na"}

const delimiterSampleSize = 64 * 1024

// LayoutByName looks up a preset.
func LayoutByName(name string) (Layout, error) {
	l, exists := Layouts[name]
	if !exists {
		return Layout{}, fmt.Errorf("Layout %s is not found. Valid layout names include: %s", name, LayoutNames())
	}
	return l, nil
}

// ReadAny reads path with ReadXLS when it names an .xls spreadsheet and with
// Read otherwise.
func ReadAny(path string, layout Layout) (*table.Raw, error) {
	if strings.EqualFold(filepath.Ext(path), ".xls") {
		return ReadXLS(path, layout)
	}
	return Read(path, layout)
}

// Read parses a delimited file, decompressing it if needed.
func Read(path string, layout Layout) (*table.Raw, error) {
	f, err := harmonize.OpenRaw(harmonize.ExpandHome(path))
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	raw, err := ReadFrom(f, layout)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return raw, nil
}

// ReadFrom parses delimited text from r.
func ReadFrom(r io.Reader, layout Layout) (*table.Raw, error) {
	data, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, err
	}

	annotations := 0
	if layout.GCT {
		if data, annotations, err = stripGCTPreamble(data); err != nil {
			return nil, err
		}
	}

	delim := layout.Delimiter
	if delim == 0 {
		sample := data
		if len(sample) > delimiterSampleSize {
			sample = sample[:delimiterSampleSize]
		}
		delim = harmonize.DetermineDelimiterBytes(sample)
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = delim
	cr.Comment = layout.Comment
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	return fromRecords(records, layout, annotations)
}

// ReadXLS parses the first sheet of an XLS workbook.
func ReadXLS(path string, layout Layout) (*table.Raw, error) {
	spreadsheet, err := xls.Open(harmonize.ExpandHome(path), "utf-8")
	if err != nil {
		return nil, pfx.Err(err)
	}

	sheet := spreadsheet.GetSheet(0)
	if sheet == nil {
		return nil, pfx.Err(fmt.Errorf("%s: no sheets", path))
	}

	var records [][]string
	for rowID := 0; rowID <= int(sheet.MaxRow); rowID++ {
		row := sheet.Row(rowID)
		if row == nil {
			continue
		}
		record := make([]string, 0, row.LastCol()+1)
		for colID := 0; colID <= row.LastCol(); colID++ {
			record = append(record, row.Col(colID))
		}
		records = append(records, record)
	}

	raw, err := fromRecords(records, layout, 0)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}
	return raw, nil
}

// stripGCTPreamble removes the version and dimension lines of a GCT file and
// reports how many leading columns are annotations.
func stripGCTPreamble(data []byte) ([]byte, int, error) {
	lines := bytes.SplitN(data, []byte("\n"), 3)
	if len(lines) < 3 || !bytes.HasPrefix(lines[0], []byte("#1.")) {
		return nil, 0, fmt.Errorf("not a GCT file: missing version line")
	}

	dims := strings.Fields(string(lines[1]))
	if len(dims) != 4 {
		return nil, 0, fmt.Errorf("GCT dimension line has %d fields, expected 4", len(dims))
	}
	rowAnnotations, err := strconv.Atoi(dims[2])
	if err != nil {
		return nil, 0, fmt.Errorf("GCT dimension line: %w", err)
	}

	return lines[2], rowAnnotations + 1, nil
}

type columns map[string]int

func (c columns) find(name string) int {
	if name == "" {
		return -1
	}
	if i, ok := c[name]; ok {
		return i
	}
	return -1
}

func (c columns) need(name string) (int, error) {
	i := c.find(name)
	if i < 0 {
		return i, fmt.Errorf("column %q not found", name)
	}
	return i, nil
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func fromRecords(records [][]string, layout Layout, annotations int) (*table.Raw, error) {
	if len(records) < 1 {
		return nil, fmt.Errorf("no header")
	}

	header := records[0]
	cols := make(columns, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, exists := cols[h]; !exists {
			cols[h] = i
		}
	}

	skip := -1
	if layout.SkipColumn != "" {
		var err error
		if skip, err = cols.need(layout.SkipColumn); err != nil {
			return nil, err
		}
	}

	body := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		if skip >= 0 && cell(rec, skip) == layout.SkipValue {
			continue
		}
		body = append(body, rec)
	}

	if layout.Orientation == table.SamplesAsRows {
		return sampleRows(header, cols, body, layout)
	}
	return featureRows(header, cols, body, layout, annotations)
}

func featureRows(header []string, cols columns, body [][]string, layout Layout, annotations int) (*table.Raw, error) {
	identity := make(map[int]struct{})
	for i := 0; i < annotations && i < len(header); i++ {
		identity[i] = struct{}{}
	}

	required := []string{layout.IndexColumn, layout.NameColumn, layout.DatabaseIDColumn, layout.PeptideColumn, layout.SiteColumn, layout.EncodingColumn}
	for _, name := range required {
		if name == "" {
			continue
		}
		i, err := cols.need(name)
		if err != nil {
			return nil, err
		}
		identity[i] = struct{}{}
	}
	for _, name := range layout.Annotations {
		if i := cols.find(name); i >= 0 {
			identity[i] = struct{}{}
		}
	}

	index := cols.find(layout.IndexColumn)
	name := cols.find(layout.NameColumn)
	if index < 0 && name < 0 {
		name = 0
		identity[0] = struct{}{}
	}
	if index >= 0 && layout.Index == nil {
		return nil, fmt.Errorf("index column %q has no split rule", layout.IndexColumn)
	}
	dbid := cols.find(layout.DatabaseIDColumn)
	peptide := cols.find(layout.PeptideColumn)
	site := cols.find(layout.SiteColumn)
	encoding := cols.find(layout.EncodingColumn)

	raw := &table.Raw{Orientation: table.FeaturesAsRows, Kind: layout.Kind}
	var samples []int
	for i, h := range header {
		if _, isIdentity := identity[i]; isIdentity {
			continue
		}
		samples = append(samples, i)
		raw.Labels = append(raw.Labels, strings.TrimSpace(h))
	}

	for r, rec := range body {
		var featureName, featureDB, featureSite string
		if index >= 0 {
			var err error
			if featureName, featureDB, featureSite, err = layout.Index.Split(cell(rec, index)); err != nil {
				return nil, fmt.Errorf("record %d: %w", r+1, err)
			}
		}
		if name >= 0 {
			featureName = cell(rec, name)
		}
		if dbid >= 0 {
			featureDB = cell(rec, dbid)
		}

		if layout.siteLevel() {
			row := feature.SiteRow{
				Name:       featureName,
				Peptide:    cell(rec, peptide),
				DatabaseID: featureDB,
				Encoding:   cell(rec, encoding),
				Site:       cell(rec, site),
			}
			if encoding == index {
				row.Encoding = featureSite
			}
			raw.Sites = append(raw.Sites, row)
		} else {
			raw.Keys = append(raw.Keys, feature.Key{Name: featureName, DatabaseID: featureDB})
		}

		if err := appendValues(raw, rec, samples, r); err != nil {
			return nil, err
		}
	}

	if layout.siteLevel() && raw.Sites == nil {
		raw.Sites = []feature.SiteRow{}
	}
	if !layout.siteLevel() && raw.Keys == nil {
		raw.Keys = []feature.Key{}
	}

	return raw, nil
}

func sampleRows(header []string, cols columns, body [][]string, layout Layout) (*table.Raw, error) {
	label := 0
	if layout.LabelColumn != "" {
		var err error
		if label, err = cols.need(layout.LabelColumn); err != nil {
			return nil, err
		}
	}

	var fields []int
	if layout.Columns != nil {
		for _, name := range layout.Columns {
			i, err := cols.need(name)
			if err != nil {
				return nil, err
			}
			fields = append(fields, i)
		}
	} else {
		for i := range header {
			if i != label {
				fields = append(fields, i)
			}
		}
	}

	raw := &table.Raw{Orientation: table.SamplesAsRows, Kind: layout.Kind, Keys: []feature.Key{}}
	for _, i := range fields {
		raw.Keys = append(raw.Keys, feature.Named(layout.rename(strings.TrimSpace(header[i]))))
	}

	for r, rec := range body {
		raw.Labels = append(raw.Labels, cell(rec, label))
		if err := appendValues(raw, rec, fields, r); err != nil {
			return nil, err
		}
	}

	return raw, nil
}

func appendValues(raw *table.Raw, rec []string, positions []int, r int) error {
	if raw.Kind == table.Text {
		vals := make([]null.String, len(positions))
		for j, i := range positions {
			if v := cell(rec, i); v != "" {
				vals[j] = null.StringFrom(v)
			}
		}
		raw.Text = append(raw.Text, vals)
		return nil
	}

	vals := make([]float64, len(positions))
	for j, i := range positions {
		v, err := parseFloat(cell(rec, i))
		if err != nil {
			return fmt.Errorf("record %d, column %d: %w", r+1, i+1, err)
		}
		vals[j] = v
	}
	raw.Num = append(raw.Num, vals)
	return nil
}

func parseFloat(s string) (float64, error) {
	for _, m := range MissingValues {
		if s == m {
			return math.NaN(), nil
		}
	}
	return strconv.ParseFloat(s, 64)
}
