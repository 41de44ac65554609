// Package feature builds the column index of omics tables: gene-level keys
// (Name, Database_ID) and site-level keys (Name, Site, Peptide, Database_ID)
// for phospho- and acetylproteomics, including the rule that resolves rows
// whose modification sites were only partly localized.
package feature

import (
	"strings"
)

// Key identifies one measured entity. Metadata columns use Name only.
type Key struct {
	Name       string
	Site       string
	Peptide    string
	DatabaseID string
}

// Named is a metadata column key.
func Named(name string) Key {
	return Key{Name: name}
}

// IsSiteLevel reports whether k carries a modification site.
func (k Key) IsSiteLevel() bool {
	return k.Site != ""
}

// String renders the populated fields joined by '|', in multiindex order.
func (k Key) String() string {
	if k.Site == "" && k.Peptide == "" && k.DatabaseID == "" {
		return k.Name
	}
	if k.Site == "" && k.Peptide == "" {
		return k.Name + "|" + k.DatabaseID
	}
	return strings.Join([]string{k.Name, k.Site, k.Peptide, k.DatabaseID}, "|")
}

// Header returns the column header fields of k for a table whose widest key
// has width fields, so mixed tables line up.
func (k Key) Header(width int) []string {
	switch width {
	case 1:
		return []string{k.Name}
	case 2:
		return []string{k.Name, k.DatabaseID}
	}
	return []string{k.Name, k.Site, k.Peptide, k.DatabaseID}
}

// Width is the number of header fields needed to render k.
func (k Key) Width() int {
	switch {
	case k.Site != "" || k.Peptide != "":
		return 4
	case k.DatabaseID != "":
		return 2
	}
	return 1
}

// WithSuffix appends suffix to the Name, which is how callers separate the
// namespaces of two tables measuring the same genes before joining them.
func (k Key) WithSuffix(suffix string) Key {
	k.Name += suffix
	return k
}

// GeneIndex describes a delimiter-joined index column such as
// "ENSP|ENST|ENSG|OTTHUMG|OTTHUMT|TRANSCRIPT|NAME|SITE".
type GeneIndex struct {
	Separator       string
	Fields          int
	NameField       int
	DatabaseIDField int

	// SiteField is -1 when the index carries no site.
	SiteField int
}

// UmichIndex is the index layout of the Michigan abundance reports.
var UmichIndex = GeneIndex{
	Separator:       "|",
	Fields:          8,
	NameField:       6,
	DatabaseIDField: 0,
	SiteField:       7,
}

// Split pulls name, database id and (when present) site out of an index
// value. Gene-level reports omit trailing fields, so fewer fields than
// Fields is accepted as long as the requested ones exist.
func (g GeneIndex) Split(value string) (name, databaseID, site string, err error) {
	parts := strings.Split(value, g.Separator)
	if g.Fields > 0 && len(parts) > g.Fields {
		return "", "", "", malformed(value, g.Fields, len(parts))
	}

	need := g.NameField
	if g.DatabaseIDField > need {
		need = g.DatabaseIDField
	}
	if len(parts) <= need {
		return "", "", "", malformed(value, need+1, len(parts))
	}

	name = parts[g.NameField]
	databaseID = parts[g.DatabaseIDField]
	if g.SiteField >= 0 && g.SiteField < len(parts) {
		site = parts[g.SiteField]
	}

	return name, databaseID, site, nil
}
