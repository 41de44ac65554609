package feature

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/carbocation/harmonize"
)

var nonSiteCharacters = regexp.MustCompile(`[a-z\s]`)

// CleanSite strips the lowercase delimiters and whitespace some sources place
// between residues, e.g. "S45s S50s" becomes "S45S50".
func CleanSite(s string) string {
	return nonSiteCharacters.ReplaceAllString(s, "")
}

// SiteEncoding describes a compound field carrying the count of detected
// modifications, the count of localized ones and possibly the site string,
// e.g. "1_45_52_2_1_S45" with Separator "_", Fields 6, DetectedField 3,
// LocalizedField 4, SiteField 5.
type SiteEncoding struct {
	Separator      string
	Fields         int
	DetectedField  int
	LocalizedField int

	// SiteField is -1 when the site comes from its own column.
	SiteField int
}

// UmichSites is the multi-site encoding of the Michigan reports.
var UmichSites = SiteEncoding{
	Separator:      "_",
	Fields:         6,
	DetectedField:  3,
	LocalizedField: 4,
	SiteField:      5,
}

// Encoded is one parsed compound field.
type Encoded struct {
	Detected  int
	Localized int
	Site      string
}

// Ambiguous reports whether some detected modifications were not localized.
func (e Encoded) Ambiguous() bool {
	return e.Detected != e.Localized
}

// Parse splits value according to e.
func (e SiteEncoding) Parse(value string) (Encoded, error) {
	parts := strings.Split(value, e.Separator)
	if len(parts) != e.Fields {
		return Encoded{}, malformed(value, e.Fields, len(parts))
	}

	out := Encoded{}
	var err error
	if out.Detected, err = strconv.Atoi(strings.TrimSpace(parts[e.DetectedField])); err != nil {
		return Encoded{}, &harmonize.MalformedFeatureEncodingError{Value: value, Want: e.Fields, Got: len(parts), Reason: "detected count is not an integer"}
	}
	if out.Localized, err = strconv.Atoi(strings.TrimSpace(parts[e.LocalizedField])); err != nil {
		return Encoded{}, &harmonize.MalformedFeatureEncodingError{Value: value, Want: e.Fields, Got: len(parts), Reason: "localized count is not an integer"}
	}
	if e.SiteField >= 0 {
		out.Site = parts[e.SiteField]
	}

	return out, nil
}

func malformed(value string, want, got int) error {
	return &harmonize.MalformedFeatureEncodingError{Value: value, Want: want, Got: got}
}
