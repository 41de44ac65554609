package table

import (
	"fmt"

	"github.com/carbocation/harmonize"
	"github.com/carbocation/harmonize/feature"
	"gopkg.in/guregu/null.v3"
)

// Orientation says whether the records of a raw table are features or
// samples.
type Orientation int

const (
	// FeaturesAsRows is the usual omics layout: one record per gene or site,
	// one column per sample.
	FeaturesAsRows Orientation = iota
	// SamplesAsRows is the clinical and mutation layout.
	SamplesAsRows
)

// Raw is a parsed input table before canonicalization. Records follow the
// orientation: with FeaturesAsRows, Num[f][s] is feature f of sample s; with
// SamplesAsRows, Num[s][f].
//
// Site-level assays fill Sites instead of Keys until ResolveSites is called.
type Raw struct {
	Orientation Orientation
	Kind        Kind

	Labels []string
	Keys   []feature.Key
	Sites  []feature.SiteRow

	Num  [][]float64
	Text [][]null.String
}

// NSamples is the number of sample labels.
func (r *Raw) NSamples() int {
	return len(r.Labels)
}

// NFeatures is the number of feature identities, resolved or not.
func (r *Raw) NFeatures() int {
	if r.Keys != nil {
		return len(r.Keys)
	}
	return len(r.Sites)
}

func (r *Raw) nRecords() int {
	if r.Kind == Numeric {
		return len(r.Num)
	}
	return len(r.Text)
}

// Validate checks that the cell grid matches the labels and features.
func (r *Raw) Validate() error {
	records, width := r.NFeatures(), r.NSamples()
	if r.Orientation == SamplesAsRows {
		records, width = width, records
	}

	if r.nRecords() != records {
		return &harmonize.SchemaMismatchError{Op: "raw table", Detail: fmt.Sprintf("expected %d records, found %d", records, r.nRecords())}
	}

	for i := 0; i < records; i++ {
		got := 0
		if r.Kind == Numeric {
			got = len(r.Num[i])
		} else {
			got = len(r.Text[i])
		}
		if got != width {
			return &harmonize.SchemaMismatchError{Op: "raw table", Detail: fmt.Sprintf("record %d has %d cells, expected %d", i, got, width)}
		}
	}

	return nil
}

// Float returns the numeric cell of sample s and feature f.
func (r *Raw) Float(s, f int) float64 {
	if r.Orientation == SamplesAsRows {
		return r.Num[s][f]
	}
	return r.Num[f][s]
}

// String returns the text cell of sample s and feature f.
func (r *Raw) String(s, f int) null.String {
	if r.Orientation == SamplesAsRows {
		return r.Text[s][f]
	}
	return r.Text[f][s]
}

// SampleIndex returns the position of label, or -1.
func (r *Raw) SampleIndex(label string) int {
	for i, v := range r.Labels {
		if v == label {
			return i
		}
	}
	return -1
}

// SelectFeatures returns a raw table restricted to the features at idx, in
// that order, carrying keys as their identities.
func (r *Raw) SelectFeatures(idx []int, keys []feature.Key) (*Raw, error) {
	if len(idx) != len(keys) {
		return nil, &harmonize.SchemaMismatchError{Op: "select features", Detail: "index and key counts differ"}
	}

	out := &Raw{
		Orientation: r.Orientation,
		Kind:        r.Kind,
		Labels:      r.Labels,
		Keys:        keys,
	}

	switch r.Orientation {
	case FeaturesAsRows:
		if r.Kind == Numeric {
			out.Num = make([][]float64, len(idx))
			for j, i := range idx {
				out.Num[j] = r.Num[i]
			}
		} else {
			out.Text = make([][]null.String, len(idx))
			for j, i := range idx {
				out.Text[j] = r.Text[i]
			}
		}
	case SamplesAsRows:
		if r.Kind == Numeric {
			out.Num = make([][]float64, len(r.Num))
			for s, rec := range r.Num {
				out.Num[s] = make([]float64, len(idx))
				for j, i := range idx {
					out.Num[s][j] = rec[i]
				}
			}
		} else {
			out.Text = make([][]null.String, len(r.Text))
			for s, rec := range r.Text {
				out.Text[s] = make([]null.String, len(idx))
				for j, i := range idx {
					out.Text[s][j] = rec[i]
				}
			}
		}
	}

	return out, nil
}

// SelectSamples returns a raw table restricted to the samples at idx.
func (r *Raw) SelectSamples(idx []int) *Raw {
	out := &Raw{
		Orientation: r.Orientation,
		Kind:        r.Kind,
		Keys:        r.Keys,
		Sites:       r.Sites,
		Labels:      make([]string, len(idx)),
	}
	for j, i := range idx {
		out.Labels[j] = r.Labels[i]
	}

	switch r.Orientation {
	case SamplesAsRows:
		if r.Kind == Numeric {
			for _, i := range idx {
				out.Num = append(out.Num, r.Num[i])
			}
		} else {
			for _, i := range idx {
				out.Text = append(out.Text, r.Text[i])
			}
		}
	case FeaturesAsRows:
		if r.Kind == Numeric {
			out.Num = make([][]float64, len(r.Num))
			for f, rec := range r.Num {
				out.Num[f] = make([]float64, len(idx))
				for j, i := range idx {
					out.Num[f][j] = rec[i]
				}
			}
		} else {
			out.Text = make([][]null.String, len(r.Text))
			for f, rec := range r.Text {
				out.Text[f] = make([]null.String, len(idx))
				for j, i := range idx {
					out.Text[f][j] = rec[i]
				}
			}
		}
	}

	return out
}

// ResolveSites assigns keys to a site-level raw table and drops the records
// that feature.Resolve rejects.
func (r *Raw) ResolveSites(enc feature.SiteEncoding) (*Raw, feature.Resolution, error) {
	if r.Sites == nil {
		return nil, feature.Resolution{}, &harmonize.SchemaMismatchError{Op: "resolve sites", Detail: "raw table carries no site records"}
	}

	res, err := feature.Resolve(r.Sites, enc)
	if err != nil {
		return nil, res, err
	}

	out, err := r.SelectFeatures(res.Keep, res.Keys)
	return out, res, err
}

// AttachGeneIDs fills database ids of name-only features from g. A name with
// several ids replicates its values under each key.
func (r *Raw) AttachGeneIDs(g *feature.GeneIDs) (*Raw, error) {
	keys, source := g.Attach(r.Keys)
	return r.SelectFeatures(source, keys)
}
