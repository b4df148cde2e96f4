// Package spatialmath implements the rigid body poses relating the world,
// body, and camera frames of a calibrated rig.
package spatialmath

import (
	"encoding/json"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/dualquat"
	"gonum.org/v1/gonum/num/quat"
)

// Pose is a rigid transformation in 3D, stored as a unit dual quaternion.
// The zero value is not a valid pose; use NewZeroPose for the identity.
type Pose struct {
	dq dualquat.Number
}

// NewZeroPose returns the identity pose. Since the real part of a dual
// quaternion must be a unit quaternion, not all zeroes, this should be used
// instead of Pose{}.
func NewZeroPose() Pose {
	return Pose{dualquat.Number{
		Real: quat.Number{Real: 1},
		Dual: quat.Number{},
	}}
}

// NewPose returns a pose with the given translation and rotation. The
// rotation quaternion is normalized if it is not already unit length.
func NewPose(point r3.Vector, rotation quat.Number) Pose {
	if vecLen := quat.Abs(rotation); vecLen != 1 {
		rotation = quat.Scale(1/vecLen, rotation)
	}
	dq := dualquat.Number{
		Real: rotation,
		Dual: quat.Number{Imag: point.X / 2, Jmag: point.Y / 2, Kmag: point.Z / 2},
	}
	dq.Dual = quat.Mul(dq.Dual, dq.Real)
	return Pose{dq}
}

// NewPoseFromPoint returns a pure translation with no rotation.
func NewPoseFromPoint(point r3.Vector) Pose {
	return NewPose(point, quat.Number{Real: 1})
}

// NewPoseFromAxisAngle returns the pose rotating by theta radians about
// axis, then translating by point.
func NewPoseFromAxisAngle(point, axis r3.Vector, theta float64) Pose {
	axis = axis.Normalize()
	s := math.Sin(theta / 2)
	return NewPose(point, quat.Number{
		Real: math.Cos(theta / 2),
		Imag: s * axis.X,
		Jmag: s * axis.Y,
		Kmag: s * axis.Z,
	})
}

// Point returns the translation component of the pose.
func (p Pose) Point() r3.Vector {
	// multiplying by the conjugate gives a dq whose dual holds the translation
	t := dualquat.Mul(p.dq, dualquat.Conj(p.dq))
	return r3.Vector{X: t.Dual.Imag, Y: t.Dual.Jmag, Z: t.Dual.Kmag}
}

// Rotation returns the rotation component of the pose as a unit quaternion.
func (p Pose) Rotation() quat.Number {
	return p.dq.Real
}

// Compose returns the pose equivalent to applying b in the frame of a.
func Compose(a, b Pose) Pose {
	result := Pose{dualquat.Mul(a.dq, b.dq)}
	if vecLen := quat.Abs(result.dq.Real); vecLen != 1 {
		result.dq.Real = quat.Scale(1/vecLen, result.dq.Real)
	}
	return result
}

// Invert returns the inverse transformation, such that
// Compose(p, p.Invert()) is the identity. For a unit dual quaternion the
// inverse is the quaternion conjugate of both parts.
func (p Pose) Invert() Pose {
	return Pose{dualquat.ConjQuat(p.dq)}
}

// TransformPoint applies the pose to a point, rotating then translating it.
func (p Pose) TransformPoint(pt r3.Vector) r3.Vector {
	q := p.dq.Real
	v := quat.Number{Imag: pt.X, Jmag: pt.Y, Kmag: pt.Z}
	rotated := quat.Mul(quat.Mul(q, v), quat.Conj(q))
	t := p.Point()
	return r3.Vector{
		X: rotated.Imag + t.X,
		Y: rotated.Jmag + t.Y,
		Z: rotated.Kmag + t.Z,
	}
}

// RotationMatrix returns the 3x3 rotation matrix of the pose. Useful for
// applying the rotation to many points with a single matrix product.
func (p Pose) RotationMatrix() *mat.Dense {
	q := p.dq.Real
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	return mat.NewDense(3, 3, []float64{
		1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y),
		2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x),
		2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y),
	})
}

// AlmostEqual reports whether two poses have the same translation and
// rotation within tol, accounting for quaternion double cover.
func (p Pose) AlmostEqual(o Pose, tol float64) bool {
	pt, ot := p.Point(), o.Point()
	if pt.Sub(ot).Norm() > tol {
		return false
	}
	d := quat.Mul(p.dq.Real, quat.Conj(o.dq.Real))
	// identity up to sign when the rotations match
	return math.Abs(math.Abs(d.Real)-1) <= tol &&
		math.Abs(d.Imag) <= tol && math.Abs(d.Jmag) <= tol && math.Abs(d.Kmag) <= tol
}

type translationConfig struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type quaternionConfig struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type poseConfig struct {
	Translation translationConfig `json:"translation"`
	Quaternion  quaternionConfig  `json:"quaternion"`
}

// MarshalJSON serializes the pose as a translation and a unit quaternion.
func (p Pose) MarshalJSON() ([]byte, error) {
	pt := p.Point()
	q := p.dq.Real
	return json.Marshal(poseConfig{
		Translation: translationConfig{X: pt.X, Y: pt.Y, Z: pt.Z},
		Quaternion:  quaternionConfig{W: q.Real, X: q.Imag, Y: q.Jmag, Z: q.Kmag},
	})
}

// UnmarshalJSON parses the wire form written by MarshalJSON.
func (p *Pose) UnmarshalJSON(data []byte) error {
	var cfg poseConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return errors.Wrap(err, "error parsing pose")
	}
	q := quat.Number{
		Real: cfg.Quaternion.W,
		Imag: cfg.Quaternion.X,
		Jmag: cfg.Quaternion.Y,
		Kmag: cfg.Quaternion.Z,
	}
	if quat.Abs(q) == 0 {
		return errors.New("pose quaternion must be non-zero")
	}
	*p = NewPose(r3.Vector{X: cfg.Translation.X, Y: cfg.Translation.Y, Z: cfg.Translation.Z}, q)
	return nil
}
