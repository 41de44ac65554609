// Package dataset assembles every canonical table of one cancer type from one
// source, loading each lazily and keeping it for the life of the Dataset.
package dataset

import (
	"regexp"

	"github.com/carbocation/harmonize/feature"
	"github.com/carbocation/harmonize/patientid"
	"github.com/carbocation/harmonize/table"
)

// RawProvider hands out parsed raw tables by artifact name. How artifacts are
// located, downloaded or parsed is up to the implementation.
type RawProvider interface {
	Raw(artifact string) (*table.Raw, error)
}

// Input is one raw artifact contributing rows to a table.
type Input struct {
	Artifact string

	// Normal marks an artifact holding only normal tissue samples.
	Normal bool

	// Rules are tried before the table-wide rules, for files that follow
	// their own labelling convention.
	Rules []patientid.Rule
}

// Filter keeps (Keep) or removes (Drop) rows by the value of a metadata
// column.
type Filter struct {
	Column string
	Keep   []string
	Drop   []string
}

// TableSpec declares how one canonical table is built.
type TableSpec struct {
	Name     string
	Category table.Category
	Inputs   []Input

	// Reference, when set, is the channel that intensities are divided by.
	Reference string

	Drop         patientid.DropList
	Rules        []patientid.Rule
	NormalLabels map[string]bool
	Replicate    *regexp.Regexp

	// SkipMapping leaves labels untranslated for tables already keyed by
	// patient.
	SkipMapping bool

	AverageReplicates bool

	// Sites is the multi-site encoding of a site-level assay.
	Sites *feature.SiteEncoding

	AttachGeneIDs bool
	Missing       []string
	Filters       []Filter

	// Dates lists metadata columns rewritten to table.DateLayout.
	Dates []string

	// RestrictTo names a table whose patients bound this one.
	RestrictTo string

	// ExcludeFromMaster leaves this table out of the master index, for
	// cohorts that do not overlap the others.
	ExcludeFromMaster bool

	// ReindexToMaster lays the table out along the master index.
	ReindexToMaster bool

	// SampleStatus prepends the Sample_Tumor_Normal column.
	SampleStatus bool
}

// Source describes one (cancer, source, version) combination.
type Source struct {
	Cancer  string
	Name    string
	Version string

	Mapping *patientid.Mapping
	GeneIDs *feature.GeneIDs

	Tables []TableSpec
}
