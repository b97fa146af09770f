package catalog

import "testing"

func TestWaterLeq(t *testing.T) {
	w := Water{EquivalentLengths: []EquivalentLength{
		{Type: "codo90", DN: 20, LeqM: 0.7},
		{Type: "codo90", DN: 32, LeqM: 1.1},
		{Type: "codo90", DN: 25, LeqM: 0.9},
		{Type: "tee_paso", DN: 20, LeqM: 0.3},
	}}

	tests := []struct {
		fitting string
		dn      int
		wantLeq float64
		wantDN  int
		wantOK  bool
	}{
		{"codo90", 25, 0.9, 25, true},
		{"codo90", 40, 1.1, 32, true},
		{"codo90", 16, 0.7, 20, true},
		{"tee_paso", 50, 0.3, 20, true},
		{"codo45", 20, 0, 0, false},
	}
	for _, tt := range tests {
		leq, dn, ok := w.Leq(tt.fitting, tt.dn)
		if leq != tt.wantLeq || dn != tt.wantDN || ok != tt.wantOK {
			t.Errorf("Leq(%q, %d) = %v, %d, %v, want %v, %d, %v",
				tt.fitting, tt.dn, leq, dn, ok, tt.wantLeq, tt.wantDN, tt.wantOK)
		}
	}
}

func TestWaterLeqTieTakesSmallerDN(t *testing.T) {
	w := Water{EquivalentLengths: []EquivalentLength{
		{Type: "codo90", DN: 32, LeqM: 1.1},
		{Type: "codo90", DN: 20, LeqM: 0.7},
	}}
	if leq, dn, _ := w.Leq("codo90", 26); dn != 20 || leq != 0.7 {
		t.Errorf("Leq at DN 26 = %v from DN %d, want 0.7 from DN 20", leq, dn)
	}
}
