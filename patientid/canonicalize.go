package patientid

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/carbocation/harmonize"
)

// Position says where a lab's tissue marker sits on a raw label.
type Position int

const (
	Suffix Position = iota
	Prefix
)

// ParsePosition accepts "suffix" or "prefix".
func ParsePosition(s string) (Position, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "suffix", "end":
		return Suffix, nil
	case "prefix", "start":
		return Prefix, nil
	}
	return Suffix, fmt.Errorf("unknown marker position %q", s)
}

// Rule rewrites one lab-specific tissue marker. Tumor markers (Normal false)
// are removed; normal markers are removed and replaced by the canonical ".N"
// suffix on the same base identifier.
type Rule struct {
	Marker   string
	Position Position
	Normal   bool
}

func (r Rule) apply(s string) (string, bool) {
	if r.Marker == "" {
		return s, false
	}
	switch r.Position {
	case Prefix:
		if strings.HasPrefix(s, r.Marker) {
			return s[len(r.Marker):], true
		}
	default:
		if strings.HasSuffix(s, r.Marker) {
			return s[:len(s)-len(r.Marker)], true
		}
	}
	return s, false
}

// DropList enumerates the quality-control, pooled-reference and other
// non-patient labels of one (source, cancer, table) triple. Patterns exist for
// sources that name their controls by a shared token; they are still declared
// by the caller, never inferred.
type DropList struct {
	Labels   []string
	Patterns []*regexp.Regexp
}

// NewDropList compiles patterns.
func NewDropList(labels, patterns []string) (DropList, error) {
	out := DropList{Labels: append([]string(nil), labels...)}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return DropList{}, fmt.Errorf("drop pattern %q: %w", p, err)
		}
		out.Patterns = append(out.Patterns, re)
	}
	return out, nil
}

// Contains reports whether label must be excluded.
func (d DropList) Contains(label string) bool {
	for _, v := range d.Labels {
		if v == label {
			return true
		}
	}
	for _, re := range d.Patterns {
		if re.MatchString(label) {
			return true
		}
	}
	return false
}

// Options configures a Canonicalizer.
type Options struct {
	// Table names the table being loaded, for error messages.
	Table string

	// Mapping translates raw labels into patient identifiers. Nil means the
	// labels already are patient identifiers, modulo tissue markers.
	Mapping *Mapping

	// Rules are tried in order; the first whose marker matches is applied.
	Rules []Rule

	// NormalLabels flags raw labels as normal tissue when the source records
	// tissue type in a side table rather than in the label.
	NormalLabels map[string]bool

	// Replicate, when set, is stripped from raw labels before anything else
	// (e.g. `\.\d+$` for duplicated column headers).
	Replicate *regexp.Regexp

	Drop DropList
}

// Canonicalizer maps raw labels of one table to PatientIDs. It holds no
// mutable state after construction.
type Canonicalizer struct {
	opts  Options
	known map[ID]struct{}
}

// New builds a Canonicalizer. When a mapping is present, the canonical form
// of every mapping target is precomputed so that already-canonical labels pass
// through unchanged.
func New(opts Options) *Canonicalizer {
	c := &Canonicalizer{opts: opts}

	if opts.Mapping != nil {
		c.known = make(map[ID]struct{}, opts.Mapping.Len())
		for target := range opts.Mapping.targets {
			id := c.applyRules(target)
			c.known[id.Base()] = struct{}{}
		}
	}

	return c
}

// ClassifyDrop reports whether label is a control or reference label that
// is excluded from the canonical table.
func (c *Canonicalizer) ClassifyDrop(label string) bool {
	return c.opts.Drop.Contains(label)
}

// Canonicalize translates one raw label. Canonicalizing an ID produced by
// the same Canonicalizer returns it unchanged.
func (c *Canonicalizer) Canonicalize(label string) (ID, error) {
	s := label
	if c.opts.Replicate != nil {
		s = c.opts.Replicate.ReplaceAllString(s, "")
	}

	if c.opts.Mapping != nil {
		mapped, ok := c.opts.Mapping.Lookup(s)
		if !ok {
			if _, known := c.known[ID(s).Base()]; known {
				return ID(s), nil
			}
			// Already translated, only the rules remain.
			if !c.opts.Mapping.IsTarget(s) {
				return "", &harmonize.UnresolvedIdentifierError{Table: c.opts.Table, Label: label}
			}
			mapped = s
		}
		s = mapped
	}

	if ID(s).IsNormal() {
		return ID(s), nil
	}

	id := c.applyRules(s)
	if c.opts.NormalLabels[label] {
		id = id.AsNormal()
	}

	if id.Base() == "" {
		return "", &harmonize.UnresolvedIdentifierError{Table: c.opts.Table, Label: label}
	}

	return id, nil
}

// CanonicalizeAll translates labels in order. Drop candidates come back as
// empty IDs with keep false.
func (c *Canonicalizer) CanonicalizeAll(labels []string) (ids []ID, keep []bool, err error) {
	ids = make([]ID, len(labels))
	keep = make([]bool, len(labels))
	for i, label := range labels {
		if c.ClassifyDrop(label) {
			continue
		}
		id, err := c.Canonicalize(label)
		if err != nil {
			return nil, nil, err
		}
		ids[i] = id
		keep[i] = true
	}
	return ids, keep, nil
}

func (c *Canonicalizer) applyRules(s string) ID {
	if ID(s).IsNormal() {
		return ID(s)
	}
	for _, r := range c.opts.Rules {
		out, matched := r.apply(s)
		if !matched {
			continue
		}
		if r.Normal {
			return ID(out).AsNormal()
		}
		return ID(out)
	}
	return ID(s)
}
