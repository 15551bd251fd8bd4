package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
	"sfneuman.com/gomanip/utils/floatutils"
)

// repairStep is the increment used to nudge triangle sides back into
// validity. It sits just above the float noise observed in simulator
// position samples.
const repairStep = 0.00001

// TriangleHeight returns the height onto side a of the triangle with
// side lengths a, b and c, computed with Heron's formula. The sides must
// satisfy the triangle inequality; see RepairTriangle.
func TriangleHeight(a, b, c float64) float64 {
	s := (a + b + c) / 2
	return 2 / a * math.Sqrt(s*(s-a)*(s-b)*(s-c))
}

// RepairTriangle rounds the three side lengths to five decimals and
// nudges them upward in fixed increments until all three triangle
// inequalities hold strictly. The lengths are independently measured
// distances, so float noise can make them violate the inequality by a
// small epsilon even though the underlying points form a real triangle.
// The loop terminates: each increment is positive and the violation is
// bounded by that noise. This is a numerical-robustness correction, not
// a geometric approximation.
func RepairTriangle(a, b, c float64) (float64, float64, float64) {
	a = floatutils.Round(a, 5)
	b = floatutils.Round(b, 5)
	c = floatutils.Round(c, 5)

	for b+c <= a {
		c += repairStep
	}
	for a+c <= b {
		c += repairStep
	}
	for a+b <= c {
		b += repairStep
	}
	return a, b, c
}

// DistanceFromSegment returns the distance of point p from the segment
// between a and b: the repaired-Heron triangle height onto the segment,
// falling back to the nearer endpoint distance when p projects beyond
// either end of the segment.
func DistanceFromSegment(a, b, p r3.Vec) float64 {
	ab := r3.Norm(b.Sub(a))
	ap := r3.Norm(p.Sub(a))
	bp := r3.Norm(p.Sub(b))

	if ap > ab || bp > ab {
		return math.Min(ap, bp)
	}

	sa, sb, sc := RepairTriangle(ab, ap, bp)
	return TriangleHeight(sa, sb, sc)
}
