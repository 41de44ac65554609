package rawtable

import (
	"math"
	"strings"
	"testing"

	"github.com/carbocation/harmonize/feature"
	"github.com/carbocation/harmonize/normalize"
	"github.com/carbocation/harmonize/table"
	"github.com/google/go-cmp/cmp"
	"gopkg.in/guregu/null.v3"
)

func TestReadUmichProtein(t *testing.T) {
	raw, err := Read("testdata/umich_protein.tsv", Layouts["umich-protein"])
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"ReferenceIntensity", "CPT0001", "CPT0002"}, raw.Labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	want := []feature.Key{{Name: "A", DatabaseID: "NP_1"}, {Name: "B", DatabaseID: "NP_2"}}
	if diff := cmp.Diff(want, raw.Keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if raw.Float(1, 0) != 5.2 || !math.IsNaN(raw.Float(1, 1)) {
		t.Errorf("unexpected values %v", raw.Num)
	}
	if err := raw.Validate(); err != nil {
		t.Error(err)
	}

	ratios, err := normalize.Ratios(raw, normalize.Config{Reference: "ReferenceIntensity"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"CPT0001", "CPT0002"}, ratios.Labels); diff != "" {
		t.Errorf("ratio labels mismatch (-want +got):\n%s", diff)
	}
	if v := ratios.Float(1, 0); math.Abs(v+0.2) > 1e-9 {
		t.Errorf("expected ratio -0.2, got %v", v)
	}

	if _, err := ReadFrom(strings.NewReader("idx\tCPT0001\nNP_1|ENST1|ENSG1|OTT1|OTT2|A-201|A\t1.0\n"), Layouts["umich-protein"]); err == nil {
		t.Errorf("expected an error for a report without an Index column")
	}
}

func TestReadUmichSite(t *testing.T) {
	raw, err := Read("testdata/umich_site.tsv", Layouts["umich-site"])
	if err != nil {
		t.Fatal(err)
	}

	if raw.Keys != nil {
		t.Fatalf("site-level reads should leave keys unresolved")
	}
	if diff := cmp.Diff([]string{"ReferenceIntensity", "CPT0001"}, raw.Labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	want := []feature.SiteRow{
		{Name: "A", Peptide: "PEPTIDE", DatabaseID: "NP_1", Encoding: "1_10_20_2_1_S45s"},
		{Name: "B", Peptide: "PEPTIDF", DatabaseID: "NP_2", Encoding: "1_11_21_1_1_T50t"},
	}
	if diff := cmp.Diff(want, raw.Sites); diff != "" {
		t.Errorf("site rows mismatch (-want +got):\n%s", diff)
	}

	resolved, _, err := raw.ResolveSites(feature.UmichSites)
	if err != nil {
		t.Fatal(err)
	}
	if resolved.Keys[0].Site != "S45" || resolved.Keys[1].Site != "T50" {
		t.Errorf("unexpected sites %v", resolved.Keys)
	}
}

func TestReadGCT(t *testing.T) {
	raw, err := Read("testdata/proteome.gct", Layouts["gct-protein"])
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"S1", "S2"}, raw.Labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]feature.Key{{Name: "A", DatabaseID: "NP_1"}, {Name: "B", DatabaseID: "NP_2"}}, raw.Keys); diff != "" {
		t.Errorf("metadata rows should be skipped (-want +got):\n%s", diff)
	}
	if raw.Float(1, 1) != 3 {
		t.Errorf("expected 3, got %v", raw.Float(1, 1))
	}

	if _, err := ReadFrom(strings.NewReader("id\tS1\n"), Layouts["gct-protein"]); err == nil {
		t.Errorf("expected an error for a file without the GCT preamble")
	}
}

func TestReadMAF(t *testing.T) {
	raw, err := Read("testdata/mutations.maf", Layouts["maf"])
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"CPT0001", "CPT0001", "CPT0003"}, raw.Labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	want := []feature.Key{feature.Named("Gene"), feature.Named("Mutation"), feature.Named("Location")}
	if diff := cmp.Diff(want, raw.Keys); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if got := raw.String(1, 0); got != null.StringFrom("KRAS") {
		t.Errorf("expected KRAS, got %v", got)
	}
	if raw.String(2, 2).Valid {
		t.Errorf("expected an empty location to be missing")
	}
}

func TestReadDetectsDelimiterAndCompression(t *testing.T) {
	for _, path := range []string{"testdata/cnv.csv", "testdata/cnv.csv.gz"} {
		raw, err := Read(path, Layouts["gene-matrix"])
		if err != nil {
			t.Fatal(path, err)
		}
		if diff := cmp.Diff([]string{"C3L-00001", "C3N-00002"}, raw.Labels); diff != "" {
			t.Errorf("%s: labels mismatch (-want +got):\n%s", path, diff)
		}
		if raw.Keys[1].Name != "KRAS" || !math.IsNaN(raw.Float(1, 1)) {
			t.Errorf("%s: unexpected contents %v %v", path, raw.Keys, raw.Num)
		}
	}
}

func TestReadSampleRows(t *testing.T) {
	in := "Patient_ID\tStage\tAge\nC3L-00001\tIA\t65\nC3N-00002\t\t70\n"
	raw, err := ReadFrom(strings.NewReader(in), Layouts["sample-rows"])
	if err != nil {
		t.Fatal(err)
	}
	if raw.Orientation != table.SamplesAsRows || raw.Kind != table.Text {
		t.Fatalf("unexpected shape")
	}
	if diff := cmp.Diff([]feature.Key{feature.Named("Stage"), feature.Named("Age")}, raw.Keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if raw.String(1, 0).Valid {
		t.Errorf("expected missing stage")
	}
}

func TestReadBadNumber(t *testing.T) {
	in := "Gene\tS1\nEGFR\tabc\n"
	layout := Layouts["gene-matrix"]
	layout.Delimiter = '\t'
	if _, err := ReadFrom(strings.NewReader(in), layout); err == nil {
		t.Errorf("expected a parse error")
	}
}

func TestLayoutByName(t *testing.T) {
	if _, err := LayoutByName("umich-protein"); err != nil {
		t.Error(err)
	}
	if _, err := LayoutByName("nope"); err == nil || !strings.Contains(err.Error(), "maf") {
		t.Errorf("expected an error listing the layouts, got %v", err)
	}
}

func TestReadMapping(t *testing.T) {
	m, err := ReadMapping("testdata/aliquots.tsv")
	if err != nil {
		t.Fatal(err)
	}
	if got, ok := m.Lookup("CPT0002"); !ok || got != "C3L-00001" {
		t.Errorf("expected C3L-00001, got %q", got)
	}
	if m.Len() != 3 {
		t.Errorf("expected 3 labels, got %d", m.Len())
	}

	g, err := ReadGeneIDs("testdata/genes.tsv")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"ENSG00000146648"}, g.Lookup("EGFR")); diff != "" {
		t.Errorf("gene ids mismatch (-want +got):\n%s", diff)
	}
}
