package spec

import (
	"encoding/json"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestCountsSetPrunesZero(t *testing.T) {
	var c Counts
	c.Set("codo90", 2)
	c.Set("tee", 1)
	c.Set("codo90", 0)

	if _, ok := c["codo90"]; ok {
		t.Error("codo90 should be pruned at zero")
	}
	if c.Get("tee") != 1 {
		t.Errorf("tee = %d, want 1", c.Get("tee"))
	}
}

func TestCountsAdd(t *testing.T) {
	var c Counts
	c.Add("ducha", 1)
	c.Add("ducha", 1)
	c.Add("ducha", -2)
	if len(c) != 0 {
		t.Errorf("counts = %v, want empty", c)
	}
	c.Add("lavatorio", -3)
	if len(c) != 0 {
		t.Errorf("negative add should not create a key, got %v", c)
	}
}

func TestCountsKeysSorted(t *testing.T) {
	c := Counts{"tee": 1, "codo45": 2, "codo90": 3}
	want := []string{"codo45", "codo90", "tee"}
	if got := c.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("keys = %v, want %v", got, want)
	}
	if c.Total() != 6 {
		t.Errorf("total = %d, want 6", c.Total())
	}
}

func TestCountsDecodePrunesZero(t *testing.T) {
	var fromJSON Counts
	if err := json.Unmarshal([]byte(`{"ducha":1,"bidet":0}`), &fromJSON); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(fromJSON, Counts{"ducha": 1}) {
		t.Errorf("json counts = %v, want map[ducha:1]", fromJSON)
	}

	var fromYAML Counts
	if err := yaml.Unmarshal([]byte("ducha: 1\nbidet: 0\n"), &fromYAML); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(fromYAML, Counts{"ducha": 1}) {
		t.Errorf("yaml counts = %v, want map[ducha:1]", fromYAML)
	}
}

func TestCountsDecodeRejectsNegative(t *testing.T) {
	var c Counts
	if err := json.Unmarshal([]byte(`{"ducha":-1}`), &c); err == nil {
		t.Error("expected error for negative count")
	}
}
