// Package geom implements the 3D geometry kernel used by the reward
// strategies: direction vectors anchored at an origin point,
// quaternion-derived orientation matrices, and triangle-based
// point-to-line distances that tolerate degenerate inputs.
package geom

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrZeroVector is returned when an operation needs a direction but the
// vector has zero length.
var ErrZeroVector = errors.New("zero-length vector")

// Vector is a direction anchored at an origin point, equivalently a pair
// of 3D points. It is a value type: every operation returns a new Vector,
// and positions taken from an observation are copied, never aliased.
type Vector struct {
	Origin r3.Vec
	Dir    r3.Vec
}

// New returns the Vector from one point to another. Its Norm equals the
// Euclidean distance between the points and its direction is to − from.
func New(from, to r3.Vec) Vector {
	return Vector{Origin: from, Dir: to.Sub(from)}
}

// Norm returns the Euclidean length of the vector.
func (v Vector) Norm() float64 { return r3.Norm(v.Dir) }

// End returns the point the vector points at.
func (v Vector) End() r3.Vec { return v.Origin.Add(v.Dir) }

// WithLen returns v rescaled to length l. A negative l flips the
// direction. WithLen returns ErrZeroVector when v has no direction to
// scale.
func (v Vector) WithLen(l float64) (Vector, error) {
	n := v.Norm()
	if n == 0 {
		return Vector{}, ErrZeroVector
	}
	v.Dir = v.Dir.Scale(l / n)
	return v, nil
}

// Add returns the vector with u's direction added to v's.
func (v Vector) Add(u Vector) Vector {
	v.Dir = v.Dir.Add(u.Dir)
	return v
}

// Scale returns the vector with its direction scaled by f.
func (v Vector) Scale(f float64) Vector {
	v.Dir = v.Dir.Scale(f)
	return v
}

// Rotate returns the vector with its direction rotated by a 3×3
// orientation matrix.
func (v Vector) Rotate(m mat.Matrix) Vector {
	d := mat.NewVecDense(3, []float64{v.Dir.X, v.Dir.Y, v.Dir.Z})
	var rotated mat.VecDense
	rotated.MulVec(m, d)
	v.Dir = r3.Vec{X: rotated.AtVec(0), Y: rotated.AtVec(1), Z: rotated.AtVec(2)}
	return v
}

// Unit returns the unit direction of v. A zero-length vector has no
// direction and yields ErrZeroVector.
func (v Vector) Unit() (r3.Vec, error) {
	if v.Norm() == 0 {
		return r3.Vec{}, ErrZeroVector
	}
	return r3.Unit(v.Dir), nil
}

// Dot returns the dot product of the two directions.
func Dot(v, u Vector) float64 { return r3.Dot(v.Dir, u.Dir) }

// Cosine returns the cosine of the opening angle between the two
// directions. Either direction having zero length makes the angle
// undefined, reported as ErrZeroVector.
func Cosine(v, u Vector) (float64, error) {
	if v.Norm() == 0 || u.Norm() == 0 {
		return 0, ErrZeroVector
	}
	return r3.Cos(v.Dir, u.Dir), nil
}

// AngleBetween returns the angle between the two directions in radians.
func AngleBetween(v, u Vector) (float64, error) {
	c, err := Cosine(v, u)
	if err != nil {
		return 0, err
	}
	return math.Acos(c), nil
}

// RotationMatrix returns the 3×3 orientation matrix of a unit quaternion,
// in the layout simulation engines report link orientations with.
func RotationMatrix(q quat.Number) *mat.Dense {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	return mat.NewDense(3, 3, []float64{
		1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w),
		2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w),
		2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y),
	})
}

// Point reads the 3D point stored at offset i of a flat observation
// vector.
func Point(v mat.Vector, i int) r3.Vec {
	return r3.Vec{X: v.AtVec(i), Y: v.AtVec(i + 1), Z: v.AtVec(i + 2)}
}
