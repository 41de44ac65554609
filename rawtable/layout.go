package rawtable

import (
	"sort"
	"strings"

	"github.com/carbocation/harmonize/feature"
	"github.com/carbocation/harmonize/table"
)

// Layout describes where identities and values live in one file format.
// Column fields hold header names; an empty name means "not present".
type Layout struct {
	// Delimiter of 0 means detect from the file.
	Delimiter rune
	Comment   rune

	// GCT files start with a version line and a dimension line, the latter
	// giving the number of leading annotation columns.
	GCT bool

	Orientation table.Orientation
	Kind        table.Kind

	// IndexColumn holds a delimiter-joined identity split by Index.
	IndexColumn string
	Index       *feature.GeneIndex

	// NameColumn defaults to the first column when neither it nor
	// IndexColumn is set.
	NameColumn       string
	DatabaseIDColumn string
	PeptideColumn    string
	SiteColumn       string

	// EncodingColumn marks a site-level layout: records carry unresolved
	// feature.SiteRow identities. When it equals IndexColumn, the site field
	// of the split index is the encoding.
	EncodingColumn string

	// Annotations are further non-sample columns of feature-row files.
	Annotations []string

	// Records whose SkipColumn equals SkipValue are discarded.
	SkipColumn string
	SkipValue  string

	// LabelColumn holds the sample label of sample-row files; first column
	// when empty.
	LabelColumn string

	// Columns restricts and orders the feature columns of sample-row files.
	Columns []string

	// Rename maps header names to feature names.
	Rename map[string]string
}

var umichIndex = feature.UmichIndex

// Layouts are the presets known by name.
var Layouts = map[string]Layout{
	"umich-protein": {
		Delimiter:   '\t',
		Orientation: table.FeaturesAsRows,
		Kind:        table.Numeric,
		IndexColumn: "Index",
		Index:       &umichIndex,
		Annotations: []string{"Gene", "NumberPSM", "MaxPepProb"},
	},
	"umich-site": {
		Delimiter:      '\t',
		Orientation:    table.FeaturesAsRows,
		Kind:           table.Numeric,
		IndexColumn:    "Index",
		Index:          &umichIndex,
		EncodingColumn: "Index",
		PeptideColumn:  "Peptide",
		Annotations:    []string{"Gene", "ProteinID", "SequenceWindow", "MaxPepProb", "NumberPSM"},
	},
	"gene-matrix": {
		Orientation: table.FeaturesAsRows,
		Kind:        table.Numeric,
	},
	"gct-protein": {
		Delimiter:        '\t',
		GCT:              true,
		Orientation:      table.FeaturesAsRows,
		Kind:             table.Numeric,
		NameColumn:       "geneSymbol",
		DatabaseIDColumn: "id",
		SkipColumn:       "geneSymbol",
		SkipValue:        "na",
	},
	"gct-site": {
		Delimiter:        '\t',
		GCT:              true,
		Orientation:      table.FeaturesAsRows,
		Kind:             table.Numeric,
		NameColumn:       "geneSymbol",
		DatabaseIDColumn: "accession_number",
		PeptideColumn:    "sequence",
		SiteColumn:       "variableSites",
		EncodingColumn:   "id",
		SkipColumn:       "geneSymbol",
		SkipValue:        "na",
	},
	"mirna": {
		Delimiter:        '\t',
		Orientation:      table.FeaturesAsRows,
		Kind:             table.Numeric,
		NameColumn:       "Name",
		DatabaseIDColumn: "ID",
		Annotations:      []string{"Alias", "Derives_from"},
	},
	"sample-rows": {
		Orientation: table.SamplesAsRows,
		Kind:        table.Text,
	},
	"maf": {
		Delimiter:   '\t',
		Comment:     '#',
		Orientation: table.SamplesAsRows,
		Kind:        table.Text,
		LabelColumn: "Tumor_Sample_Barcode",
		Columns:     []string{"Hugo_Symbol", "Variant_Classification", "HGVSp_Short"},
		Rename: map[string]string{
			"Hugo_Symbol":            "Gene",
			"Variant_Classification": "Mutation",
			"HGVSp_Short":            "Location",
		},
	},
}

// LayoutNames lists the presets, sorted.
func LayoutNames() string {
	names := make([]string, 0, len(Layouts))
	for m := range Layouts {
		names = append(names, m)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func (l Layout) siteLevel() bool {
	return l.EncodingColumn != ""
}

func (l Layout) rename(header string) string {
	if v, ok := l.Rename[header]; ok {
		return v
	}
	return header
}
