package table

import (
	"fmt"

	"github.com/araddon/dateparse"
	"github.com/carbocation/harmonize/feature"
	"gopkg.in/guregu/null.v3"
)

// DateLayout is the rendering of normalized date columns.
const DateLayout = "2006-01-02"

// NormalizeDates rewrites the named text columns to DateLayout, whatever
// format each source wrote them in. Missing cells stay missing; a value that
// is not a date is an error.
func NormalizeDates(t *Table, names ...string) (*Table, error) {
	cols := t.Columns()
	for _, name := range names {
		i, ok := t.index[feature.Named(name)]
		if !ok {
			return nil, fmt.Errorf("%s: no date column %q", t.Name, name)
		}
		c := cols[i]
		if c.Kind != Text {
			return nil, fmt.Errorf("%s: date column %q is not text", t.Name, name)
		}

		vals := make([]null.String, len(c.Text))
		for r, v := range c.Text {
			if !v.Valid {
				continue
			}
			when, err := dateparse.ParseAny(v.String)
			if err != nil {
				return nil, fmt.Errorf("%s: row %s column %q: %w", t.Name, t.rows[r], name, err)
			}
			vals[r] = null.StringFrom(when.Format(DateLayout))
		}
		cols[i] = NewText(c.Key, vals)
	}

	return New(t.Name, t.Category, t.rows, cols)
}
