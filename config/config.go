// Package config reads YAML source descriptions through viper and turns them
// into a dataset.Source backed by rawtable readers.
package config

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/carbocation/harmonize"
	"github.com/carbocation/harmonize/dataset"
	"github.com/carbocation/harmonize/feature"
	"github.com/carbocation/harmonize/patientid"
	"github.com/carbocation/harmonize/rawtable"
	"github.com/carbocation/harmonize/table"
	"github.com/carbocation/pfx"
	"github.com/spf13/viper"
)

// RuleConfig is one tissue marker rule.
type RuleConfig struct {
	Marker   string `mapstructure:"marker"`
	Position string `mapstructure:"position"`
	Normal   bool   `mapstructure:"normal"`
}

// InputConfig is one raw file of a table.
type InputConfig struct {
	// Path is relative to the configuration file unless absolute.
	Path   string       `mapstructure:"path"`
	Layout string       `mapstructure:"layout"`
	Normal bool         `mapstructure:"normal"`
	Rules  []RuleConfig `mapstructure:"rules"`
}

// FilterConfig keeps or drops rows by a metadata value.
type FilterConfig struct {
	Column string   `mapstructure:"column"`
	Keep   []string `mapstructure:"keep"`
	Drop   []string `mapstructure:"drop"`
}

// SiteConfig selects the multi-site encoding, either a preset ("umich") or
// explicit field positions.
type SiteConfig struct {
	Preset    string `mapstructure:"preset"`
	Separator string `mapstructure:"separator"`
	Fields    int    `mapstructure:"fields"`
	Detected  int    `mapstructure:"detected"`
	Localized int    `mapstructure:"localized"`
	Site      int    `mapstructure:"site"`
}

// TableConfig declares one canonical table.
type TableConfig struct {
	Name              string         `mapstructure:"name"`
	Category          string         `mapstructure:"category"`
	Inputs            []InputConfig  `mapstructure:"inputs"`
	Reference         string         `mapstructure:"reference"`
	DropLabels        []string       `mapstructure:"drop-labels"`
	DropPatterns      []string       `mapstructure:"drop-patterns"`
	Rules             []RuleConfig   `mapstructure:"rules"`
	NormalLabels      []string       `mapstructure:"normal-labels"`
	Replicate         string         `mapstructure:"replicate"`
	SkipMapping       bool           `mapstructure:"skip-mapping"`
	AverageReplicates bool           `mapstructure:"average-replicates"`
	Sites             *SiteConfig    `mapstructure:"sites"`
	AttachGeneIDs     bool           `mapstructure:"attach-gene-ids"`
	Missing           []string       `mapstructure:"missing"`
	Filters           []FilterConfig `mapstructure:"filters"`
	Dates             []string       `mapstructure:"dates"`
	RestrictTo        string         `mapstructure:"restrict-to"`
	ExcludeFromMaster bool           `mapstructure:"exclude-from-master"`
	ReindexToMaster   bool           `mapstructure:"reindex-to-master"`
	SampleStatus      bool           `mapstructure:"sample-status"`
}

// Config is the root of a source description.
type Config struct {
	Cancer  string        `mapstructure:"cancer"`
	Source  string        `mapstructure:"source"`
	Version string        `mapstructure:"version"`
	Mapping string        `mapstructure:"mapping"`
	GeneIDs string        `mapstructure:"gene-ids"`
	Tables  []TableConfig `mapstructure:"tables"`

	// Dir is where relative paths are resolved; the configuration file's
	// directory when loaded with Load.
	Dir string `mapstructure:"-"`
}

// Load reads a YAML (or any viper-supported) source description.
func Load(path string) (*Config, error) {
	path = harmonize.ExpandHome(path)

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, pfx.Err(err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, pfx.Err(fmt.Errorf("unable to decode %s: %w", path, err))
	}
	c.Dir = filepath.Dir(path)

	return &c, nil
}

// Build turns the description into a dataset.Source and a provider reading
// its files.
func (c *Config) Build() (dataset.Source, *Provider, error) {
	src := dataset.Source{
		Cancer:  c.Cancer,
		Name:    c.Source,
		Version: c.Version,
	}
	provider := newProvider()

	if c.Mapping != "" {
		m, err := rawtable.ReadMapping(harmonize.ResolvePath(c.Dir, c.Mapping))
		if err != nil {
			return src, nil, err
		}
		src.Mapping = m
	}

	if c.GeneIDs != "" {
		g, err := rawtable.ReadGeneIDs(harmonize.ResolvePath(c.Dir, c.GeneIDs))
		if err != nil {
			return src, nil, err
		}
		src.GeneIDs = g
	}

	for _, tc := range c.Tables {
		spec, err := c.tableSpec(tc, provider)
		if err != nil {
			return src, nil, pfx.Err(fmt.Errorf("table %s: %w", tc.Name, err))
		}
		src.Tables = append(src.Tables, spec)
	}

	return src, provider, nil
}

// Open builds the dataset described by c.
func (c *Config) Open() (*dataset.Dataset, error) {
	src, provider, err := c.Build()
	if err != nil {
		return nil, err
	}
	return dataset.New(src, provider)
}

func (c *Config) tableSpec(tc TableConfig, provider *Provider) (dataset.TableSpec, error) {
	spec := dataset.TableSpec{
		Name:              tc.Name,
		Reference:         tc.Reference,
		SkipMapping:       tc.SkipMapping,
		AverageReplicates: tc.AverageReplicates,
		AttachGeneIDs:     tc.AttachGeneIDs,
		Missing:           tc.Missing,
		Dates:             tc.Dates,
		RestrictTo:        tc.RestrictTo,
		ExcludeFromMaster: tc.ExcludeFromMaster,
		ReindexToMaster:   tc.ReindexToMaster,
		SampleStatus:      tc.SampleStatus,
	}

	var err error
	if spec.Category, err = table.ParseCategory(tc.Category); err != nil {
		return spec, err
	}
	if spec.Drop, err = patientid.NewDropList(tc.DropLabels, tc.DropPatterns); err != nil {
		return spec, err
	}
	if spec.Rules, err = rules(tc.Rules); err != nil {
		return spec, err
	}

	if len(tc.NormalLabels) > 0 {
		spec.NormalLabels = make(map[string]bool, len(tc.NormalLabels))
		for _, label := range tc.NormalLabels {
			spec.NormalLabels[label] = true
		}
	}

	if tc.Replicate != "" {
		if spec.Replicate, err = regexp.Compile(tc.Replicate); err != nil {
			return spec, err
		}
	}

	if tc.Sites != nil {
		enc, err := tc.Sites.encoding()
		if err != nil {
			return spec, err
		}
		spec.Sites = &enc
	}

	for _, f := range tc.Filters {
		spec.Filters = append(spec.Filters, dataset.Filter{Column: f.Column, Keep: f.Keep, Drop: f.Drop})
	}

	for _, in := range tc.Inputs {
		layout, err := rawtable.LayoutByName(in.Layout)
		if err != nil {
			return spec, err
		}
		inputRules, err := rules(in.Rules)
		if err != nil {
			return spec, err
		}
		path := harmonize.ResolvePath(c.Dir, in.Path)
		spec.Inputs = append(spec.Inputs, dataset.Input{
			Artifact: provider.add(path, in.Layout, layout),
			Normal:   in.Normal,
			Rules:    inputRules,
		})
	}

	return spec, nil
}

func rules(in []RuleConfig) ([]patientid.Rule, error) {
	var out []patientid.Rule
	for _, r := range in {
		pos, err := patientid.ParsePosition(r.Position)
		if err != nil {
			return nil, err
		}
		out = append(out, patientid.Rule{Marker: r.Marker, Position: pos, Normal: r.Normal})
	}
	return out, nil
}

func (s SiteConfig) encoding() (feature.SiteEncoding, error) {
	switch s.Preset {
	case "umich":
		return feature.UmichSites, nil
	case "":
	default:
		return feature.SiteEncoding{}, fmt.Errorf("unknown site encoding preset %q", s.Preset)
	}

	if s.Separator == "" || s.Fields < 2 {
		return feature.SiteEncoding{}, fmt.Errorf("site encoding needs a separator and at least two fields")
	}
	return feature.SiteEncoding{
		Separator:      s.Separator,
		Fields:         s.Fields,
		DetectedField:  s.Detected,
		LocalizedField: s.Localized,
		SiteField:      s.Site,
	}, nil
}
