package table

import (
	"math"

	"github.com/carbocation/harmonize"
	"github.com/carbocation/harmonize/patientid"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/guregu/null.v3"
)

// OrientOptions adjusts Orient.
type OrientOptions struct {
	// AverageReplicates collapses samples that canonicalize to the same
	// PatientID instead of rejecting them.
	AverageReplicates bool

	// Missing lists text values that mean "no data", such as
	// "Not Reported/ Unknown".
	Missing []string
}

// Orient turns a raw table into a canonical one: one row per sample, one
// column per feature. Sample labels go through canon (nil means the labels
// are already PatientIDs) and drop candidates are discarded. In wide tables
// two labels that land on the same PatientID are a DuplicateKeyError naming
// both labels, unless opts.AverageReplicates is set.
func Orient(name string, category Category, raw *Raw, canon *patientid.Canonicalizer, opts OrientOptions) (*Table, error) {
	if raw.Keys == nil && raw.Sites != nil {
		return nil, &harmonize.SchemaMismatchError{Op: name, Detail: "site records must be resolved before orienting"}
	}
	if err := raw.Validate(); err != nil {
		return nil, err
	}

	ids := make([]patientid.ID, len(raw.Labels))
	keep := make([]bool, len(raw.Labels))
	if canon == nil {
		for i, label := range raw.Labels {
			ids[i], keep[i] = patientid.ID(label), true
		}
	} else {
		var err error
		if ids, keep, err = canon.CanonicalizeAll(raw.Labels); err != nil {
			return nil, err
		}
	}

	rows := make([]patientid.ID, 0, len(ids))
	samples := make([]int, 0, len(ids))
	firstLabel := make(map[patientid.ID]string, len(ids))
	replicated := false
	for s, id := range ids {
		if !keep[s] {
			continue
		}
		if prior, exists := firstLabel[id]; exists && category != Mutation {
			if !opts.AverageReplicates {
				return nil, &harmonize.DuplicateKeyError{Table: name, Key: string(id), First: prior, Second: raw.Labels[s]}
			}
			replicated = true
		} else if !exists {
			firstLabel[id] = raw.Labels[s]
		}
		rows = append(rows, id)
		samples = append(samples, s)
	}

	missing := make(map[string]struct{}, len(opts.Missing))
	for _, v := range opts.Missing {
		missing[v] = struct{}{}
	}

	cols := make([]*Column, len(raw.Keys))
	for f, key := range raw.Keys {
		if raw.Kind == Numeric {
			vals := make([]float64, len(samples))
			for j, s := range samples {
				vals[j] = raw.Float(s, f)
			}
			cols[f] = NewNumeric(key, vals)
			continue
		}

		vals := make([]null.String, len(samples))
		for j, s := range samples {
			v := raw.String(s, f)
			if _, isMissing := missing[v.String]; v.Valid && !isMissing {
				vals[j] = v
			}
		}
		cols[f] = NewText(key, vals)
	}

	if !replicated {
		return New(name, category, rows, cols)
	}

	long, err := New(name, Mutation, rows, cols)
	if err != nil {
		return nil, err
	}
	averaged, err := AverageReplicates(long)
	if err != nil {
		return nil, err
	}
	return New(name, category, averaged.rows, averaged.cols)
}

// AverageReplicates collapses rows sharing a PatientID into one, in order of
// first appearance. Numeric cells become the mean of the non-missing values;
// text cells keep the first non-missing value.
func AverageReplicates(t *Table) (*Table, error) {
	var order []patientid.ID
	groups := make(map[patientid.ID][]int)
	for i, id := range t.rows {
		if _, exists := groups[id]; !exists {
			order = append(order, id)
		}
		groups[id] = append(groups[id], i)
	}

	cols := make([]*Column, len(t.cols))
	for c, col := range t.cols {
		if col.Kind == Numeric {
			vals := make([]float64, len(order))
			for j, id := range order {
				var present []float64
				for _, i := range groups[id] {
					if !math.IsNaN(col.Num[i]) {
						present = append(present, col.Num[i])
					}
				}
				vals[j] = math.NaN()
				if len(present) > 0 {
					vals[j] = stat.Mean(present, nil)
				}
			}
			cols[c] = NewNumeric(col.Key, vals)
			continue
		}

		vals := make([]null.String, len(order))
		for j, id := range order {
			for _, i := range groups[id] {
				if col.Text[i].Valid {
					vals[j] = col.Text[i]
					break
				}
			}
		}
		cols[c] = NewText(col.Key, vals)
	}

	return New(t.Name, t.Category, order, cols)
}
