package feature

import (
	"sort"
)

// GeneIDs maps gene names to database identifiers, for assays such as copy
// number that report names only.
type GeneIDs struct {
	ids map[string][]string
}

// NewGeneIDs builds the lookup from parallel name and id slices. Repeated
// (name, id) pairs are collapsed, as an annotation lists each gene once per
// transcript.
func NewGeneIDs(names, ids []string) *GeneIDs {
	g := &GeneIDs{ids: make(map[string][]string)}
	seen := make(map[[2]string]struct{})
	for i, name := range names {
		if i >= len(ids) {
			break
		}
		pair := [2]string{name, ids[i]}
		if _, exists := seen[pair]; exists {
			continue
		}
		seen[pair] = struct{}{}
		g.ids[name] = append(g.ids[name], ids[i])
	}
	for name := range g.ids {
		sort.Strings(g.ids[name])
	}
	return g
}

// Lookup returns every database id recorded for name.
func (g *GeneIDs) Lookup(name string) []string {
	if g == nil {
		return nil
	}
	return g.ids[name]
}

// Attach left-joins database ids onto keys. A key whose name is unknown keeps
// an empty DatabaseID. A name with several ids expands into one key per id;
// source reports the input position each output key came from.
func (g *GeneIDs) Attach(keys []Key) (out []Key, source []int) {
	for i, k := range keys {
		ids := g.Lookup(k.Name)
		if len(ids) == 0 || k.DatabaseID != "" {
			out = append(out, k)
			source = append(source, i)
			continue
		}
		for _, id := range ids {
			expanded := k
			expanded.DatabaseID = id
			out = append(out, expanded)
			source = append(source, i)
		}
	}
	return out, source
}
