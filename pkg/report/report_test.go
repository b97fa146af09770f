package report

import (
	"reflect"
	"testing"
)

func TestNotesDeduplicates(t *testing.T) {
	var n Notes
	n.Addf("missing %s", "codo90")
	n.Addf("missing %s", "tee")
	n.Addf("missing %s", "codo90")

	want := []string{"missing codo90", "missing tee"}
	if got := n.List(); !reflect.DeepEqual(got, want) {
		t.Errorf("notes = %v, want %v", got, want)
	}
}

func TestNotesEmptyListIsNotNil(t *testing.T) {
	var n Notes
	if n.List() == nil {
		t.Error("expected empty non-nil slice")
	}
}

func TestRowf(t *testing.T) {
	r := Rowf("Branch", "m", "", "%.2f", 1.234)
	if r.Qty != "1.23" {
		t.Errorf("qty = %q, want 1.23", r.Qty)
	}
}
