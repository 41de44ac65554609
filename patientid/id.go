// Package patientid turns lab-specific sample and aliquot labels into the
// canonical Patient_ID scheme: the cohort identifier for tumor samples and the
// same identifier with a ".N" suffix for the matched normal tissue.
package patientid

import "strings"

// NormalSuffix is the only marker of normal tissue in a canonical table.
const NormalSuffix = ".N"

// ID is a canonical patient identifier.
type ID string

// IsNormal reports whether id names a normal-tissue sample.
func (id ID) IsNormal() bool {
	return strings.HasSuffix(string(id), NormalSuffix)
}

// Base strips the normal marker, yielding the identifier the same patient's
// tumor sample carries.
func (id ID) Base() ID {
	return ID(strings.TrimSuffix(string(id), NormalSuffix))
}

// AsNormal returns the normal-tissue form of id. It is idempotent.
func (id ID) AsNormal() ID {
	if id.IsNormal() {
		return id
	}
	return id + NormalSuffix
}

func (id ID) String() string {
	return string(id)
}

// Less is the canonical row order: tumor samples before normal samples, each
// block in lexicographic order.
func Less(a, b ID) bool {
	an, bn := a.IsNormal(), b.IsNormal()
	if an != bn {
		return bn
	}
	return a < b
}

// Strings converts ids for display.
func Strings(ids []ID) []string {
	out := make([]string, len(ids))
	for i, v := range ids {
		out[i] = string(v)
	}
	return out
}
