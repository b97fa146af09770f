package geo

import (
	"math"
	"testing"
)

const tolerance = 0.01

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func TestPointDistance(t *testing.T) {
	d := Pt(0, 0).Distance(Pt(3, 4))
	if !approxEqual(d, 5, tolerance) {
		t.Errorf("distance = %v, want 5", d)
	}
}

func TestPolygonAreaSquare(t *testing.T) {
	sq := Rect(4, 4)
	if !approxEqual(sq.Area(), 16, tolerance) {
		t.Errorf("area = %v, want 16", sq.Area())
	}
}

func TestPolygonAreaClockwise(t *testing.T) {
	cw := NewPolygon(Pt(0, 0), Pt(0, 3), Pt(5, 3), Pt(5, 0))
	if cw.SignedArea() >= 0 {
		t.Errorf("signed area = %v, want negative for clockwise winding", cw.SignedArea())
	}
	if !approxEqual(cw.Area(), 15, tolerance) {
		t.Errorf("area = %v, want 15", cw.Area())
	}
}

func TestPolygonAreaLShape(t *testing.T) {
	// 4x4 square with a 2x2 notch removed.
	l := NewPolygon(Pt(0, 0), Pt(4, 0), Pt(4, 2), Pt(2, 2), Pt(2, 4), Pt(0, 4))
	if !approxEqual(l.Area(), 12, tolerance) {
		t.Errorf("area = %v, want 12", l.Area())
	}
	if !approxEqual(l.Perimeter(), 16, tolerance) {
		t.Errorf("perimeter = %v, want 16", l.Perimeter())
	}
}

func TestPolygonDegenerate(t *testing.T) {
	line := NewPolygon(Pt(0, 0), Pt(1, 1))
	if !line.IsEmpty() {
		t.Error("expected 2-vertex polygon to be empty")
	}
	if line.Area() != 0 {
		t.Errorf("area = %v, want 0", line.Area())
	}
}

func TestPolygonPerimeter(t *testing.T) {
	r := Rect(3, 2)
	if !approxEqual(r.Perimeter(), 10, tolerance) {
		t.Errorf("perimeter = %v, want 10", r.Perimeter())
	}
}
