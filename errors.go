// Package harmonize holds the error kinds shared by the harmonization packages
// and a handful of file helpers used by the raw table readers.
package harmonize

import (
	"fmt"
)

// UnresolvedIdentifierError is returned when a raw sample label has no
// mapping entry and is not a known quality-control or reference label. It is
// fatal for the table being loaded.
type UnresolvedIdentifierError struct {
	Table string
	Label string
}

func (e *UnresolvedIdentifierError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("unresolved sample label %q", e.Label)
	}
	return fmt.Sprintf("%s: unresolved sample label %q", e.Table, e.Label)
}

// MalformedFeatureEncodingError is returned when a compound site annotation
// does not split into the expected number of fields.
type MalformedFeatureEncodingError struct {
	Value string
	Want  int
	Got   int

	// Reason is set when the arity was right but a field could not be
	// interpreted.
	Reason string
}

func (e *MalformedFeatureEncodingError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("malformed feature encoding %q: %s", e.Value, e.Reason)
	}
	return fmt.Sprintf("malformed feature encoding %q: expected %d fields, found %d", e.Value, e.Want, e.Got)
}

// SchemaMismatchError is returned when two tables that must share a row or
// column schema do not.
type SchemaMismatchError struct {
	Op     string
	Detail string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("%s: schema mismatch: %s", e.Op, e.Detail)
}

// DuplicateKeyError is returned when two identifiers collapse onto the same
// PatientID or FeatureKey and no deduplication rule applies. First and Second
// are the two offending source identifiers.
type DuplicateKeyError struct {
	Table  string
	Key    string
	First  string
	Second string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s: %q and %q both resolve to %q", e.Table, e.First, e.Second, e.Key)
}

// AmbiguousJoinColumnError is returned when a non-key column exists in both
// tables of a join. Rename one side and retry.
type AmbiguousJoinColumnError struct {
	Column string
	Left   string
	Right  string
}

func (e *AmbiguousJoinColumnError) Error() string {
	return fmt.Sprintf("column %q exists in both %s and %s; rename one side before joining", e.Column, e.Left, e.Right)
}
