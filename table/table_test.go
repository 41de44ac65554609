package table

import (
	"bytes"
	"errors"
	"math"
	"regexp"
	"testing"

	"github.com/carbocation/harmonize"
	"github.com/carbocation/harmonize/feature"
	"github.com/carbocation/harmonize/patientid"
	"github.com/google/go-cmp/cmp"
	"gopkg.in/guregu/null.v3"
)

func ids(s ...string) []patientid.ID {
	out := make([]patientid.ID, len(s))
	for i, v := range s {
		out[i] = patientid.ID(v)
	}
	return out
}

func mustRegexp(t *testing.T, expr string) *regexp.Regexp {
	t.Helper()
	re, err := regexp.Compile(expr)
	if err != nil {
		t.Fatal(err)
	}
	return re
}

func numTable(t *testing.T, name string, category Category, rows []patientid.ID, cols map[string][]float64, order ...string) *Table {
	t.Helper()
	var cc []*Column
	for _, k := range order {
		cc = append(cc, NewNumeric(feature.Named(k), cols[k]))
	}
	out, err := New(name, category, rows, cc)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := New("x", Omics, ids("P1", "P1"), []*Column{NewNumeric(feature.Named("A"), []float64{1, 2})})
	var dup *harmonize.DuplicateKeyError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateKeyError for repeated rows, got %v", err)
	}

	_, err = New("x", Omics, ids("P1"), []*Column{
		NewNumeric(feature.Named("A"), []float64{1}),
		NewNumeric(feature.Named("A"), []float64{2}),
	})
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateKeyError for repeated columns, got %v", err)
	}

	if _, err = New("m", Mutation, ids("P1", "P1"), []*Column{NewText(feature.Named("Gene"), []null.String{null.StringFrom("TP53"), null.StringFrom("KRAS")})}); err != nil {
		t.Fatalf("long tables may repeat patients: %v", err)
	}

	_, err = New("x", Omics, ids("P1", "P2"), []*Column{NewNumeric(feature.Named("A"), []float64{1})})
	var schema *harmonize.SchemaMismatchError
	if !errors.As(err, &schema) {
		t.Fatalf("expected SchemaMismatchError for a short column, got %v", err)
	}
}

func TestOrientTransposesAndDrops(t *testing.T) {
	drop, err := patientid.NewDropList([]string{"RefInt_pool01"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	canon := patientid.New(patientid.Options{
		Table: "proteomics",
		Rules: []patientid.Rule{{Marker: ".N", Position: patientid.Suffix, Normal: true}},
		Drop:  drop,
	})

	raw := &Raw{
		Orientation: FeaturesAsRows,
		Kind:        Numeric,
		Labels:      []string{"C3L-1", "C3L-1.N", "RefInt_pool01"},
		Keys:        []feature.Key{{Name: "A", DatabaseID: "NP_1"}, {Name: "B", DatabaseID: "NP_2"}},
		Num: [][]float64{
			{1, 2, 3},
			{4, math.NaN(), 6},
		},
	}

	tab, err := Orient("proteomics", Omics, raw, canon, OrientOptions{})
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(ids("C3L-1", "C3L-1.N"), tab.Rows()); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if v, ok := tab.Float(0, feature.Key{Name: "B", DatabaseID: "NP_2"}); !ok || v != 4 {
		t.Errorf("expected 4 for C3L-1/B, got %v %v", v, ok)
	}
	if _, ok := tab.Float(1, feature.Key{Name: "B", DatabaseID: "NP_2"}); ok {
		t.Errorf("expected missing cell for C3L-1.N/B")
	}
}

func TestOrientDuplicatePatient(t *testing.T) {
	raw := &Raw{
		Orientation: FeaturesAsRows,
		Kind:        Numeric,
		Labels:      []string{"P1.1", "P1.2"},
		Keys:        []feature.Key{feature.Named("A")},
		Num:         [][]float64{{1, 3}},
	}
	canon := patientid.New(patientid.Options{Table: "rna", Replicate: mustRegexp(t, `\.\d+$`)})

	_, err := Orient("rna", Omics, raw, canon, OrientOptions{})
	var dup *harmonize.DuplicateKeyError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateKeyError, got %v", err)
	}
	if dup.First != "P1.1" || dup.Second != "P1.2" {
		t.Errorf("expected both raw labels in the error, got %q and %q", dup.First, dup.Second)
	}

	tab, err := Orient("rna", Omics, raw, canon, OrientOptions{AverageReplicates: true})
	if err != nil {
		t.Fatal(err)
	}
	if tab.NRows() != 1 {
		t.Fatalf("expected one averaged row, got %d", tab.NRows())
	}
	if v, _ := tab.Float(0, feature.Named("A")); v != 2 {
		t.Errorf("expected mean 2, got %v", v)
	}
}

func TestOrientMissingSentinels(t *testing.T) {
	raw := &Raw{
		Orientation: SamplesAsRows,
		Kind:        Text,
		Labels:      []string{"P1", "P2"},
		Keys:        []feature.Key{feature.Named("Stage")},
		Text: [][]null.String{
			{null.StringFrom("IA")},
			{null.StringFrom("Not Reported/ Unknown")},
		},
	}

	tab, err := Orient("clinical", Metadata, raw, nil, OrientOptions{Missing: []string{"Not Reported/ Unknown"}})
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := tab.String(0, feature.Named("Stage")); !ok || v != "IA" {
		t.Errorf("expected IA, got %q", v)
	}
	if _, ok := tab.String(1, feature.Named("Stage")); ok {
		t.Errorf("expected sentinel to become missing")
	}
}

func TestAssemble(t *testing.T) {
	tumor := numTable(t, "cnv", Omics, ids("P2", "P1"), map[string][]float64{"A": {1, 2}, "B": {3, 4}}, "A", "B")
	normal := numTable(t, "cnv", Omics, ids("P1"), map[string][]float64{"A": {5}, "B": {6}}, "B", "A")

	out, err := Assemble(tumor, normal)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(ids("P2", "P1", "P1.N"), out.Rows()); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]feature.Key{feature.Named("A"), feature.Named("B")}, out.Keys()); diff != "" {
		t.Errorf("columns should follow the tumor order (-want +got):\n%s", diff)
	}
	if v, _ := out.Float(2, feature.Named("A")); v != 5 {
		t.Errorf("expected normal value 5, got %v", v)
	}

	other := numTable(t, "cnv", Omics, ids("P1"), map[string][]float64{"C": {5}, "B": {6}}, "B", "C")
	_, err = Assemble(tumor, other)
	var schema *harmonize.SchemaMismatchError
	if !errors.As(err, &schema) {
		t.Fatalf("expected SchemaMismatchError, got %v", err)
	}

	bad := numTable(t, "cnv", Omics, ids("P3.N"), map[string][]float64{"A": {1}, "B": {3}}, "A", "B")
	if _, err = Assemble(bad, normal); !errors.As(err, &schema) {
		t.Fatalf("expected SchemaMismatchError for suffixed tumor rows, got %v", err)
	}
}

func TestSortRows(t *testing.T) {
	for _, v := range []struct {
		In   []patientid.ID
		Want []patientid.ID
	}{
		{ids("P2.N", "P1", "P1.N", "P3", "P2"), ids("P1", "P2", "P3", "P1.N", "P2.N")},
		{ids("B.N", "A.N"), ids("A.N", "B.N")},
		{nil, nil},
	} {
		vals := make([]float64, len(v.In))
		for i := range vals {
			vals[i] = float64(i)
		}
		tab := numTable(t, "x", Omics, v.In, map[string][]float64{"A": vals}, "A")
		out, err := SortRows(tab)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(v.Want, out.Rows()); diff != "" {
			t.Errorf("sort mismatch (-want +got):\n%s", diff)
		}
		for i, id := range out.Rows() {
			orig := tab.RowsOf(id)[0]
			if got, _ := out.Float(i, feature.Named("A")); got != vals[orig] {
				t.Errorf("row %s lost its values", id)
			}
		}
	}
}

func TestSortRowsIsStableForLongTables(t *testing.T) {
	genes := []null.String{null.StringFrom("TP53"), null.StringFrom("EGFR"), null.StringFrom("KRAS")}
	tab, err := New("somatic_mutation", Mutation, ids("P2", "P1", "P1"), []*Column{NewText(feature.Named("Gene"), genes)})
	if err != nil {
		t.Fatal(err)
	}
	out, err := SortRows(tab)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for i := 0; i < out.NRows(); i++ {
		g, _ := out.String(i, feature.Named("Gene"))
		got = append(got, g)
	}
	if diff := cmp.Diff([]string{"EGFR", "KRAS", "TP53"}, got); diff != "" {
		t.Errorf("stable order mismatch (-want +got):\n%s", diff)
	}
}

func TestMasterIndexAndReindex(t *testing.T) {
	a := numTable(t, "proteomics", Omics, ids("P1", "P2", "P1.N"), map[string][]float64{"A": {1, 2, 3}}, "A")
	b := numTable(t, "transcriptomics", Omics, ids("P3", "P2"), map[string][]float64{"B": {4, 5}}, "B")
	followup := numTable(t, "followup", Metadata, ids("P9"), map[string][]float64{"C": {6}}, "C")

	index := MasterIndex([]*Table{a, b, followup}, "followup")
	if diff := cmp.Diff(ids("P1", "P2", "P3", "P1.N"), index); diff != "" {
		t.Errorf("master index mismatch (-want +got):\n%s", diff)
	}

	out, err := Reindex(b, index)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(index, out.Rows()); diff != "" {
		t.Errorf("reindexed rows mismatch (-want +got):\n%s", diff)
	}
	if _, ok := out.Float(0, feature.Named("B")); ok {
		t.Errorf("P1 should be empty in the reindexed table")
	}
	if v, _ := out.Float(1, feature.Named("B")); v != 5 {
		t.Errorf("expected P2 value 5, got %v", v)
	}

	_, err = Reindex(followup, index)
	var schema *harmonize.SchemaMismatchError
	if !errors.As(err, &schema) {
		t.Fatalf("expected SchemaMismatchError when rows would be lost, got %v", err)
	}
}

func TestWithSampleStatusAndFilters(t *testing.T) {
	codes := []null.String{null.StringFrom("LSCC"), null.StringFrom("LUAD"), {}}
	tab, err := New("clinical", Metadata, ids("P1", "P2", "P1.N"), []*Column{NewText(feature.Named("tumor_code"), codes)})
	if err != nil {
		t.Fatal(err)
	}

	withStatus, err := WithSampleStatus(tab)
	if err != nil {
		t.Fatal(err)
	}
	if withStatus.Keys()[0].Name != SampleStatusColumn {
		t.Fatalf("expected status column first, got %v", withStatus.Keys())
	}
	if v, _ := withStatus.String(2, feature.Named(SampleStatusColumn)); v != "Normal" {
		t.Errorf("expected Normal for P1.N, got %q", v)
	}

	kept, err := FilterColumn(tab, "tumor_code", "LSCC")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(ids("P1"), kept.Rows()); diff != "" {
		t.Errorf("filter mismatch (-want +got):\n%s", diff)
	}

	dropped, err := DropWhere(tab, "tumor_code", "LUAD")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(ids("P1", "P1.N"), dropped.Rows()); diff != "" {
		t.Errorf("drop mismatch (-want +got):\n%s", diff)
	}

	restricted, err := RestrictTo(tab, kept)
	if err != nil {
		t.Fatal(err)
	}
	if restricted.NRows() != 1 {
		t.Errorf("expected one row after restriction, got %d", restricted.NRows())
	}

	if _, err := FilterColumn(tab, "nope"); err == nil {
		t.Errorf("expected an error for an unknown column")
	}
}

func TestRawResolveSitesAndGeneIDs(t *testing.T) {
	raw := &Raw{
		Orientation: FeaturesAsRows,
		Kind:        Numeric,
		Labels:      []string{"P1"},
		Sites: []feature.SiteRow{
			{Name: "A", Peptide: "P", DatabaseID: "NP_1", Encoding: "NP_1_2_2_2_S45s"},
			{Name: "B", Peptide: "Q", DatabaseID: "NP_2", Encoding: "NP_2_2_2_1_S45s"},
		},
		Num: [][]float64{{1}, {2}},
	}

	resolved, res, err := raw.ResolveSites(feature.UmichSites)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Keep) != 2 || resolved.NFeatures() != 2 {
		t.Fatalf("expected both rows kept, got %v", res.Keep)
	}

	cnv := &Raw{
		Orientation: FeaturesAsRows,
		Kind:        Numeric,
		Labels:      []string{"P1", "P2"},
		Keys:        []feature.Key{feature.Named("A"), feature.Named("B")},
		Num:         [][]float64{{1, 2}, {3, 4}},
	}
	attached, err := cnv.AttachGeneIDs(feature.NewGeneIDs([]string{"A", "A"}, []string{"ENSG1", "ENSG2"}))
	if err != nil {
		t.Fatal(err)
	}
	want := []feature.Key{{Name: "A", DatabaseID: "ENSG1"}, {Name: "A", DatabaseID: "ENSG2"}, feature.Named("B")}
	if diff := cmp.Diff(want, attached.Keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if attached.Float(1, 1) != 2 {
		t.Errorf("expected replicated values for ENSG2")
	}
}

func TestWriteTSV(t *testing.T) {
	tab, err := New("proteomics", Omics, ids("P1", "P1.N"), []*Column{
		NewNumeric(feature.Key{Name: "A", DatabaseID: "NP_1"}, []float64{0.5, math.NaN()}),
	})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteTSV(&buf, tab); err != nil {
		t.Fatal(err)
	}

	want := "Name\tA\nPatient_ID\tNP_1\nP1\t0.5\nP1.N\t\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("tsv mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeDates(t *testing.T) {
	dates := []null.String{null.StringFrom("03/15/2019"), null.StringFrom("2020-01-02"), {}}
	tab, err := New("followup", Metadata, ids("P1", "P2", "P3"), []*Column{NewText(feature.Named("Date of Last Contact"), dates)})
	if err != nil {
		t.Fatal(err)
	}

	out, err := NormalizeDates(tab, "Date of Last Contact")
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for i := 0; i < out.NRows(); i++ {
		v, _ := out.String(i, feature.Named("Date of Last Contact"))
		got = append(got, v)
	}
	if diff := cmp.Diff([]string{"2019-03-15", "2020-01-02", ""}, got); diff != "" {
		t.Errorf("dates mismatch (-want +got):\n%s", diff)
	}

	bad, err := New("followup", Metadata, ids("P1"), []*Column{NewText(feature.Named("when"), []null.String{null.StringFrom("soon")})})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NormalizeDates(bad, "when"); err == nil {
		t.Errorf("expected an error for a non-date value")
	}
}
