package patientid

import "github.com/carbocation/harmonize"

// Mapping is a source's aliquot-to-patient lookup. It is built once per
// source and never modified afterwards, so every loader of that source can
// share it.
type Mapping struct {
	labels  map[string]string
	targets map[string]struct{}
}

// NewMapping copies m into a Mapping.
func NewMapping(m map[string]string) *Mapping {
	out := &Mapping{
		labels:  make(map[string]string, len(m)),
		targets: make(map[string]struct{}, len(m)),
	}
	for label, id := range m {
		out.labels[label] = id
		out.targets[id] = struct{}{}
	}
	return out
}

// MappingFromPairs builds a Mapping from parallel label and id slices, as read
// from a two-column mapping file. Repeated identical pairs are tolerated; a
// label mapped to two different patients is not.
func MappingFromPairs(labels, ids []string) (*Mapping, error) {
	if len(labels) != len(ids) {
		return nil, &harmonize.SchemaMismatchError{
			Op:     "mapping",
			Detail: "label and patient id columns differ in length",
		}
	}

	m := make(map[string]string, len(labels))
	for i, label := range labels {
		if prior, exists := m[label]; exists && prior != ids[i] {
			return nil, &harmonize.DuplicateKeyError{
				Table:  "mapping",
				Key:    label,
				First:  prior,
				Second: ids[i],
			}
		}
		m[label] = ids[i]
	}

	return NewMapping(m), nil
}

// Lookup translates a raw label.
func (m *Mapping) Lookup(label string) (string, bool) {
	if m == nil {
		return "", false
	}
	id, ok := m.labels[label]
	return id, ok
}

// IsTarget reports whether s is one of the patient identifiers the mapping
// produces, i.e. s is already translated.
func (m *Mapping) IsTarget(s string) bool {
	if m == nil {
		return false
	}
	_, ok := m.targets[s]
	return ok
}

// Len is the number of raw labels known to the mapping.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.labels)
}
