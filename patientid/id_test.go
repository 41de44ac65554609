package patientid

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLess(t *testing.T) {
	ids := []ID{"C3N-2.N", "C3L-9", "C3L-1.N", "C3N-2", "C3L-1"}
	sort.SliceStable(ids, func(i, j int) bool { return Less(ids[i], ids[j]) })

	expected := []ID{"C3L-1", "C3L-9", "C3N-2", "C3L-1.N", "C3N-2.N"}
	if diff := cmp.Diff(expected, ids); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalHelpers(t *testing.T) {
	if ID("X").IsNormal() || !ID("X.N").IsNormal() {
		t.Error("IsNormal")
	}
	if ID("X.N").Base() != "X" || ID("X").Base() != "X" {
		t.Error("Base")
	}
	if ID("X").AsNormal() != "X.N" || ID("X.N").AsNormal() != "X.N" {
		t.Error("AsNormal")
	}
}
