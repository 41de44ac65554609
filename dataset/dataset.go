package dataset

import (
	"fmt"
	"strings"

	"github.com/BenLubar/memoize"
	"github.com/carbocation/harmonize"
	"github.com/carbocation/harmonize/feature"
	"github.com/carbocation/harmonize/join"
	"github.com/carbocation/harmonize/normalize"
	"github.com/carbocation/harmonize/patientid"
	"github.com/carbocation/harmonize/table"
	log "github.com/sirupsen/logrus"
)

// Dataset is the set of canonical tables of one Source. Tables are built on
// first use and cached; cached tables are shared and never modified. A Dataset
// is not safe for concurrent use.
type Dataset struct {
	src   Source
	specs map[string]*TableSpec
	order []string

	fetch func(string) (*table.Raw, error)

	staged map[string]*table.Table
	tables map[string]*table.Table
	index  []patientid.ID
}

// New checks the declarations of src. Raw artifacts are fetched from
// provider at most once each.
func New(src Source, provider RawProvider) (*Dataset, error) {
	d := &Dataset{
		src:    src,
		specs:  make(map[string]*TableSpec, len(src.Tables)),
		fetch:  memoize.Memoize(provider.Raw).(func(string) (*table.Raw, error)),
		staged: make(map[string]*table.Table),
		tables: make(map[string]*table.Table),
	}

	for i := range src.Tables {
		spec := &src.Tables[i]
		if _, exists := d.specs[spec.Name]; exists {
			return nil, &harmonize.DuplicateKeyError{Table: src.Name, Key: spec.Name, First: spec.Name, Second: spec.Name}
		}
		if len(spec.Inputs) == 0 {
			return nil, &harmonize.SchemaMismatchError{Op: spec.Name, Detail: "no inputs declared"}
		}
		d.specs[spec.Name] = spec
		d.order = append(d.order, spec.Name)
	}

	for _, name := range d.order {
		spec := d.specs[name]
		visited := map[string]struct{}{name: {}}
		chain := []string{name}
		for next := spec.RestrictTo; next != ""; next = d.specs[next].RestrictTo {
			if _, exists := d.specs[next]; !exists {
				return nil, &harmonize.SchemaMismatchError{Op: spec.Name, Detail: fmt.Sprintf("restricted to unknown table %q", next)}
			}
			chain = append(chain, next)
			if _, seen := visited[next]; seen {
				return nil, &harmonize.SchemaMismatchError{Op: spec.Name, Detail: fmt.Sprintf("restrict-to cycle %s", strings.Join(chain, " -> "))}
			}
			visited[next] = struct{}{}
		}
	}

	return d, nil
}

// Cancer, Source and Version identify the dataset.
func (d *Dataset) Cancer() string  { return d.src.Cancer }
func (d *Dataset) Source() string  { return d.src.Name }
func (d *Dataset) Version() string { return d.src.Version }

// Tables lists the declared table names in declaration order.
func (d *Dataset) Tables() []string {
	return append([]string(nil), d.order...)
}

// Load returns the named canonical table, building it on first use.
func (d *Dataset) Load(name string) (*table.Table, error) {
	if t, cached := d.tables[name]; cached {
		return t, nil
	}

	spec, ok := d.specs[name]
	if !ok {
		return nil, fmt.Errorf("%s %s has no table %q (available: %v)", d.src.Name, d.src.Cancer, name, d.Tables())
	}

	t, err := d.stage(name)
	if err != nil {
		return nil, err
	}

	if spec.ReindexToMaster {
		index, err := d.MasterIndex()
		if err != nil {
			return nil, err
		}
		if t, err = table.Reindex(t, index); err != nil {
			return nil, err
		}
	}

	if spec.SampleStatus {
		if t, err = table.WithSampleStatus(t); err != nil {
			return nil, err
		}
	}

	log.Debugf("Loaded %s/%s %s: %d rows, %d columns", d.src.Name, d.src.Cancer, name, t.NRows(), t.NCols())

	d.tables[name] = t
	return t, nil
}

// LoadAll loads every declared table.
func (d *Dataset) LoadAll() ([]*table.Table, error) {
	out := make([]*table.Table, 0, len(d.order))
	for _, name := range d.order {
		t, err := d.Load(name)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// MasterIndex is the sorted union of the PatientIDs of every table not
// excluded from it. Tables that are reindexed contribute their own rows.
func (d *Dataset) MasterIndex() ([]patientid.ID, error) {
	if d.index != nil {
		return d.index, nil
	}

	var tables []*table.Table
	var exclude []string
	for _, name := range d.order {
		if d.specs[name].ExcludeFromMaster {
			exclude = append(exclude, name)
			continue
		}
		t, err := d.stage(name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}

	d.index = table.MasterIndex(tables, exclude...)
	return d.index, nil
}

// Join loads the two named tables and joins them.
func (d *Dataset) Join(a, b string, how join.How) (*table.Table, error) {
	left, err := d.Load(a)
	if err != nil {
		return nil, err
	}
	right, err := d.Load(b)
	if err != nil {
		return nil, err
	}
	out, err := join.Join(left, right, how)
	if err != nil {
		return nil, err
	}
	return table.SortRows(out)
}

// stage builds a table up to, but not including, master reindexing.
func (d *Dataset) stage(name string) (*table.Table, error) {
	if t, cached := d.staged[name]; cached {
		return t, nil
	}
	spec := d.specs[name]

	var tumor, normal *table.Table
	for _, in := range spec.Inputs {
		part, err := d.build(spec, in)
		if err != nil {
			return nil, fmt.Errorf("%s (%s): %w", name, in.Artifact, err)
		}

		slot := &tumor
		if in.Normal {
			slot = &normal
		}
		if *slot != nil {
			return nil, &harmonize.SchemaMismatchError{Op: name, Detail: fmt.Sprintf("more than one input for the same tissue (%s)", in.Artifact)}
		}
		*slot = part
	}

	t, err := table.Assemble(tumor, normal)
	if err != nil {
		return nil, err
	}

	for _, f := range spec.Filters {
		if len(f.Keep) > 0 {
			if t, err = table.FilterColumn(t, f.Column, f.Keep...); err != nil {
				return nil, err
			}
		}
		if len(f.Drop) > 0 {
			if t, err = table.DropWhere(t, f.Column, f.Drop...); err != nil {
				return nil, err
			}
		}
	}

	if len(spec.Dates) > 0 {
		if t, err = table.NormalizeDates(t, spec.Dates...); err != nil {
			return nil, err
		}
	}

	if spec.RestrictTo != "" {
		bound, err := d.stage(spec.RestrictTo)
		if err != nil {
			return nil, err
		}
		if t, err = table.RestrictTo(t, bound); err != nil {
			return nil, err
		}
	}

	if t, err = table.SortRows(t); err != nil {
		return nil, err
	}

	log.Debugf("Staged %s: %d rows from %d inputs", name, t.NRows(), len(spec.Inputs))

	d.staged[name] = t
	return t, nil
}

// build turns one raw artifact into a canonical (unsorted) table.
func (d *Dataset) build(spec *TableSpec, in Input) (*table.Table, error) {
	raw, err := d.fetch(in.Artifact)
	if err != nil {
		return nil, err
	}

	if spec.Sites != nil {
		var res feature.Resolution
		if raw, res, err = raw.ResolveSites(*spec.Sites); err != nil {
			return nil, err
		}
		if res.Dropped > 0 || res.Unsited > 0 {
			log.Debugf("%s: dropped %d ambiguous and %d unsited records", spec.Name, res.Dropped, res.Unsited)
		}
	}

	if spec.Reference != "" {
		if raw, err = normalize.Ratios(raw, normalize.Config{Reference: spec.Reference, Drop: spec.Drop}); err != nil {
			return nil, err
		}
	}

	if spec.AttachGeneIDs && d.src.GeneIDs != nil {
		if raw, err = raw.AttachGeneIDs(d.src.GeneIDs); err != nil {
			return nil, err
		}
	}

	opts := patientid.Options{
		Table:        spec.Name,
		Rules:        append(append([]patientid.Rule(nil), in.Rules...), spec.Rules...),
		NormalLabels: spec.NormalLabels,
		Replicate:    spec.Replicate,
		Drop:         spec.Drop,
	}
	if !spec.SkipMapping {
		opts.Mapping = d.src.Mapping
	}

	return table.Orient(spec.Name, spec.Category, raw, patientid.New(opts), table.OrientOptions{
		AverageReplicates: spec.AverageReplicates,
		Missing:           spec.Missing,
	})
}
