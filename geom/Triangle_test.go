package geom

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestTriangleHeight(t *testing.T) {
	// 3-4-5 right triangle: the height onto the hypotenuse is 12/5
	if h := TriangleHeight(5, 3, 4); !closeTo(h, 2.4) {
		t.Errorf("height onto hypotenuse: got %v, want 2.4", h)
	}

	// Height onto a leg is the other leg
	if h := TriangleHeight(3, 4, 5); !closeTo(h, 4) {
		t.Errorf("height onto leg: got %v, want 4", h)
	}
}

func TestRepairTriangle(t *testing.T) {
	// Valid sides only get rounded
	a, b, c := RepairTriangle(5.000001, 3, 4)
	if a != 5 || b != 3 || c != 4 {
		t.Errorf("valid sides: got (%v, %v, %v), want (5, 3, 4)", a, b, c)
	}

	// Collinear points violate the inequality by rounding noise and
	// must come back strictly valid
	a, b, c = RepairTriangle(2, 1, 1)
	if b+c <= a || a+c <= b || a+b <= c {
		t.Errorf("degenerate sides not repaired: (%v, %v, %v)", a, b, c)
	}
	if h := TriangleHeight(a, b, c); math.IsNaN(h) {
		t.Error("repaired height is NaN")
	}
}

func TestDistanceFromSegment(t *testing.T) {
	a := r3.Vec{}
	b := r3.Vec{X: 4}

	// Point above the middle of the segment. The repaired sides are
	// rounded to five decimals, so the height is only that accurate.
	if d := DistanceFromSegment(a, b, r3.Vec{X: 2, Y: 3}); math.Abs(d-3) > 1e-4 {
		t.Errorf("interior projection: got %v, want 3", d)
	}

	// Point beyond an endpoint falls back to the nearer endpoint
	p := r3.Vec{X: 7, Y: 4}
	want := r3.Norm(p.Sub(b))
	if d := DistanceFromSegment(a, b, p); !closeTo(d, want) {
		t.Errorf("beyond endpoint: got %v, want %v", d, want)
	}
}
