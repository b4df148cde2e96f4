// Package camera implements an ideal pinhole camera model: projection and
// backprojection between 3D camera-frame points and 2D pixels, with
// configurable depth, distance, and image-margin validity gating, plus a
// dense per-pixel bearing vector cache.
package camera

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/vicam/spatialmath"
)

// DefaultZMargin is the depth floor, in scene units, applied by projection
// in addition to the configured minimum depth.
const DefaultZMargin = 0.05

// Intrinsics holds the parameters necessary to do a perspective projection
// of a 3D scene onto the 2D image plane.
type Intrinsics struct {
	Fx     float64 `json:"fx"`
	Fy     float64 `json:"fy"`
	Cx     float64 `json:"cx"`
	Cy     float64 `json:"cy"`
	Width  int     `json:"width_px"`
	Height int     `json:"height_px"`
}

// CheckValid checks if the fields for Intrinsics have valid inputs.
func (params Intrinsics) CheckValid() error {
	if params.Width <= 0 || params.Height <= 0 {
		return errors.Errorf("invalid image size (%d, %d)", params.Width, params.Height)
	}
	if params.Fx <= 0 {
		return errors.Errorf("invalid focal length Fx = %v", params.Fx)
	}
	if params.Fy <= 0 {
		return errors.Errorf("invalid focal length Fy = %v", params.Fy)
	}
	return nil
}

// PinholeCamera is an ideal pinhole camera rigidly mounted on a body.
//
// A camera has a two-phase lifecycle: configure it (thresholds, margins,
// bearing cache) before use, after which it is read-only and safe for
// concurrent projection calls on disjoint batches. Configuration is not
// synchronized against in-flight calls.
type PinholeCamera struct {
	intrinsics Intrinsics
	extrinsics spatialmath.Pose // pose of the camera frame in the body frame

	wMargin, hMargin   float64
	minDepth, maxDepth float64
	minDist, maxDist   float64

	k    *mat.Dense
	kInv *mat.Dense

	bearings         *mat.Dense // 3 x (w*h), column per pixel
	bearingsComputed bool
}

// NewPinholeCamera returns a camera with the given intrinsics and extrinsic
// pose. Depth and distance ranges default to (-1, +Inf) and the margin to
// zero. The intrinsics are fixed for the lifetime of the camera.
func NewPinholeCamera(intrinsics Intrinsics, extrinsics spatialmath.Pose) (*PinholeCamera, error) {
	if err := intrinsics.CheckValid(); err != nil {
		return nil, err
	}
	pc := &PinholeCamera{
		intrinsics: intrinsics,
		extrinsics: extrinsics,
		minDepth:   -1,
		maxDepth:   math.Inf(1),
		minDist:    -1,
		maxDist:    math.Inf(1),
	}
	pc.k = mat.NewDense(3, 3, []float64{
		intrinsics.Fx, 0, intrinsics.Cx,
		0, intrinsics.Fy, intrinsics.Cy,
		0, 0, 1,
	})
	pc.kInv = mat.NewDense(3, 3, nil)
	if err := pc.kInv.Inverse(pc.k); err != nil {
		// cannot happen with positive focal lengths
		panic(err)
	}
	return pc, nil
}

// NewTestCamera returns a 640x480 camera with focal length 400, centered
// principal point, and identity extrinsics.
func NewTestCamera() *PinholeCamera {
	pc, err := NewPinholeCamera(Intrinsics{
		Fx: 400, Fy: 400, Cx: 320, Cy: 240, Width: 640, Height: 480,
	}, spatialmath.NewZeroPose())
	if err != nil {
		panic(err)
	}
	return pc
}

// Intrinsics returns the camera's calibration parameters.
func (pc *PinholeCamera) Intrinsics() Intrinsics {
	return pc.intrinsics
}

// Extrinsics returns the pose of the camera frame in the body frame.
func (pc *PinholeCamera) Extrinsics() spatialmath.Pose {
	return pc.extrinsics
}

// Width returns the image width in pixels.
func (pc *PinholeCamera) Width() int {
	return pc.intrinsics.Width
}

// Height returns the image height in pixels.
func (pc *PinholeCamera) Height() int {
	return pc.intrinsics.Height
}

// K returns a copy of the 3x3 projection matrix
//
//	[[fx 0 cx],
//	 [0 fy cy],
//	 [0  0  1]]
func (pc *PinholeCamera) K() *mat.Dense {
	return mat.DenseCopyOf(pc.k)
}

// KInv returns a copy of the inverse projection matrix.
func (pc *PinholeCamera) KInv() *mat.Dense {
	return mat.DenseCopyOf(pc.kInv)
}

// SetDepthRange sets the valid depth interval for projection. Panics unless
// minZ < maxZ; a reversed range is a caller bug, not a runtime condition.
func (pc *PinholeCamera) SetDepthRange(minZ, maxZ float64) {
	if minZ >= maxZ {
		panic(fmt.Sprintf("invalid depth range [%v, %v]", minZ, maxZ))
	}
	pc.minDepth = minZ
	pc.maxDepth = maxZ
}

// SetDistRange sets the valid camera-to-point distance interval. Panics
// unless minDist < maxDist.
func (pc *PinholeCamera) SetDistRange(minDist, maxDist float64) {
	if minDist >= maxDist {
		panic(fmt.Sprintf("invalid distance range [%v, %v]", minDist, maxDist))
	}
	pc.minDist = minDist
	pc.maxDist = maxDist
}

// MinDist returns the lower bound of the valid distance interval.
func (pc *PinholeCamera) MinDist() float64 {
	return pc.minDist
}

// MaxDist returns the upper bound of the valid distance interval.
func (pc *PinholeCamera) MaxDist() float64 {
	return pc.maxDist
}

// SetMargin shrinks the valid image region symmetrically by ratio*width
// horizontally and ratio*height vertically. Panics if ratio is negative.
// Ratios of 0.5 and above leave no valid pixels; that is on the caller.
func (pc *PinholeCamera) SetMargin(ratio float64) {
	if ratio < 0 {
		panic(fmt.Sprintf("invalid margin ratio %v", ratio))
	}
	pc.wMargin = float64(pc.intrinsics.Width) * ratio
	pc.hMargin = float64(pc.intrinsics.Height) * ratio
}

// Margins returns the current margins in pixels.
func (pc *PinholeCamera) Margins() (float64, float64) {
	return pc.wMargin, pc.hMargin
}

// IsInsideImage reports whether a pixel lies strictly inside the valid image
// region. Pixels exactly on the margin boundary are not inside.
func (pc *PinholeCamera) IsInsideImage(u r2.Point) bool {
	return u.X > pc.wMargin && u.X < float64(pc.intrinsics.Width)-pc.wMargin &&
		u.Y > pc.hMargin && u.Y < float64(pc.intrinsics.Height)-pc.hMargin
}

// IsDepthValid reports whether a camera-frame point has valid depth. The
// zMargin floor and the configured minimum depth are both applied.
func (pc *PinholeCamera) IsDepthValid(p r3.Vector, zMargin float64) bool {
	return p.Z > zMargin && p.Z < pc.maxDepth && p.Z > pc.minDepth
}

// IsDistanceValid reports whether the distance from the camera center to a
// camera-frame point lies strictly inside the configured interval.
func (pc *PinholeCamera) IsDistanceValid(p r3.Vector) bool {
	dist := p.Norm()
	return dist < pc.maxDist && dist > pc.minDist
}

// String returns a human-readable summary of the camera.
func (pc *PinholeCamera) String() string {
	return fmt.Sprintf("pinhole camera %dx%d: fx=%v fy=%v cx=%v cy=%v, camera in body at %v",
		pc.intrinsics.Width, pc.intrinsics.Height,
		pc.intrinsics.Fx, pc.intrinsics.Fy, pc.intrinsics.Cx, pc.intrinsics.Cy,
		pc.extrinsics.Point())
}
