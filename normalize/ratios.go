// Package normalize converts instrument intensities into ratios against a
// reference channel.
package normalize

import (
	"fmt"

	"github.com/carbocation/harmonize"
	"github.com/carbocation/harmonize/patientid"
	"github.com/carbocation/harmonize/table"
	"gonum.org/v1/gonum/floats"
)

// Config names the reference channel and the samples to discard once the
// ratios are computed.
type Config struct {
	Reference string
	Drop      patientid.DropList
}

// Ratios subtracts the reference sample from every other sample, feature by
// feature. Values are log intensities, so the difference is a log ratio. The
// reference and every sample in Drop are absent from the result. A missing
// reference cell yields missing ratios for that feature.
func Ratios(raw *table.Raw, cfg Config) (*table.Raw, error) {
	if raw.Kind != table.Numeric {
		return nil, &harmonize.SchemaMismatchError{Op: "ratios", Detail: "raw table is not numeric"}
	}
	if err := raw.Validate(); err != nil {
		return nil, err
	}

	ref := raw.SampleIndex(cfg.Reference)
	if ref < 0 {
		return nil, &harmonize.SchemaMismatchError{Op: "ratios", Detail: fmt.Sprintf("reference sample %q is not present", cfg.Reference)}
	}

	out := &table.Raw{
		Orientation: raw.Orientation,
		Kind:        raw.Kind,
		Labels:      raw.Labels,
		Keys:        raw.Keys,
		Sites:       raw.Sites,
		Num:         make([][]float64, len(raw.Num)),
	}

	switch raw.Orientation {
	case table.SamplesAsRows:
		for s, rec := range raw.Num {
			out.Num[s] = floats.SubTo(make([]float64, len(rec)), rec, raw.Num[ref])
		}
	case table.FeaturesAsRows:
		for f, rec := range raw.Num {
			dst := make([]float64, len(rec))
			copy(dst, rec)
			floats.AddConst(-rec[ref], dst)
			out.Num[f] = dst
		}
	}

	var keep []int
	for s, label := range raw.Labels {
		if s == ref || cfg.Drop.Contains(label) {
			continue
		}
		keep = append(keep, s)
	}

	return out.SelectSamples(keep), nil
}
