package feature

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGeneIndexSplit(t *testing.T) {
	name, id, site, err := UmichIndex.Split("ENSP0001.1|ENST01|ENSG01|OTTHUMG1|OTTHUMT1|AAK1-201|AAK1|1_40_52_1_1_S45")
	if err != nil {
		t.Fatal(err)
	}
	if name != "AAK1" || id != "ENSP0001.1" || site != "1_40_52_1_1_S45" {
		t.Errorf("got %q %q %q", name, id, site)
	}

	name, id, site, err = UmichIndex.Split("ENSP0002.1|ENST02|ENSG02|-|-|A1BG-201|A1BG")
	if err != nil {
		t.Fatal(err)
	}
	if name != "A1BG" || id != "ENSP0002.1" || site != "" {
		t.Errorf("got %q %q %q", name, id, site)
	}

	if _, _, _, err := UmichIndex.Split("ENSP0003|ENST03"); err == nil {
		t.Error("expected an error for a truncated index")
	}
}

func TestCleanSite(t *testing.T) {
	for in, expected := range map[string]string{
		"S45s S50s": "S45S50",
		"K120k":     "K120",
		"T12":       "T12",
		"":          "",
	} {
		if got := CleanSite(in); got != expected {
			t.Errorf("%q: got %q, expected %q", in, got, expected)
		}
	}
}

func TestGeneIDsAttach(t *testing.T) {
	g := NewGeneIDs(
		[]string{"TP53", "TP53", "PTEN", "PTEN"},
		[]string{"ENSG141510", "ENSG141510", "ENSG171862", "ENSG171862.2"},
	)

	out, source := g.Attach([]Key{Named("TP53"), Named("PTEN"), Named("NOVEL1")})

	expected := []Key{
		{Name: "TP53", DatabaseID: "ENSG141510"},
		{Name: "PTEN", DatabaseID: "ENSG171862"},
		{Name: "PTEN", DatabaseID: "ENSG171862.2"},
		{Name: "NOVEL1"},
	}
	if diff := cmp.Diff(expected, out); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1, 1, 2}, source); diff != "" {
		t.Errorf("source (-want +got):\n%s", diff)
	}
}

func TestKeyString(t *testing.T) {
	if s := (Key{Name: "A"}).String(); s != "A" {
		t.Error(s)
	}
	if s := (Key{Name: "A", DatabaseID: "D"}).String(); s != "A|D" {
		t.Error(s)
	}
	if s := (Key{Name: "A", Site: "S1", Peptide: "P", DatabaseID: "D"}).String(); s != "A|S1|P|D" {
		t.Error(s)
	}
}
