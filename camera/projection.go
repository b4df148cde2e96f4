package camera

import (
	"fmt"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// Project maps a camera-frame point onto the image plane and reports whether
// the observation is valid: positive gated depth and strictly inside the
// image margins. The pixel is always computed from the projection formula,
// valid or not; callers must check visible before using it.
func (pc *PinholeCamera) Project(p r3.Vector) (r2.Point, bool) {
	// homogeneous pixel is K*p; normalize by the z component
	hx := pc.intrinsics.Fx*p.X + pc.intrinsics.Cx*p.Z
	hy := pc.intrinsics.Fy*p.Y + pc.intrinsics.Cy*p.Z
	u := r2.Point{X: hx / p.Z, Y: hy / p.Z}
	visible := pc.IsDepthValid(p, DefaultZMargin) && pc.IsInsideImage(u)
	return u, visible
}

// ProjectBatch projects N camera-frame points at once. points must be 3xN,
// and the caller-allocated outputs must already have matching shape: pixels
// 2xN and visible of length N. A shape mismatch panics; this is a hot path
// and malformed batches are caller bugs. Each column's visibility is
// evaluated independently.
func (pc *PinholeCamera) ProjectBatch(points, pixels *mat.Dense, visible []bool) {
	n := batchCols(points, 3, "points")
	if c := batchCols(pixels, 2, "pixels"); c != n {
		panic(fmt.Sprintf("pixel batch has %d columns, want %d", c, n))
	}
	if len(visible) != n {
		panic(fmt.Sprintf("visibility batch has length %d, want %d", len(visible), n))
	}

	homo := mat.NewDense(3, n, nil)
	homo.Mul(pc.k, points)

	for i := 0; i < n; i++ {
		z := homo.At(2, i)
		pixels.Set(0, i, homo.At(0, i)/z)
		pixels.Set(1, i, homo.At(1, i)/z)
		p := r3.Vector{X: points.At(0, i), Y: points.At(1, i), Z: points.At(2, i)}
		u := r2.Point{X: pixels.At(0, i), Y: pixels.At(1, i)}
		visible[i] = pc.IsDepthValid(p, DefaultZMargin) && pc.IsInsideImage(u)
	}
}

// Backproject returns the ray through a pixel, K^-1 * [x y 1]^T. The ray is
// not unit length; normalize it explicitly if a unit bearing is needed.
func (pc *PinholeCamera) Backproject(u r2.Point) r3.Vector {
	return r3.Vector{
		X: pc.kInv.At(0, 0)*u.X + pc.kInv.At(0, 1)*u.Y + pc.kInv.At(0, 2),
		Y: pc.kInv.At(1, 0)*u.X + pc.kInv.At(1, 1)*u.Y + pc.kInv.At(1, 2),
		Z: pc.kInv.At(2, 0)*u.X + pc.kInv.At(2, 1)*u.Y + pc.kInv.At(2, 2),
	}
}

// BackprojectBatch backprojects N pixels at once. pixels must be 2xN. rays
// is resized when passed empty; otherwise it must already be 3xN and a
// mismatch panics. Rays are not unit length, as with Backproject.
func (pc *PinholeCamera) BackprojectBatch(pixels, rays *mat.Dense) {
	n := batchCols(pixels, 2, "pixels")
	if rays == nil {
		panic("ray batch is nil")
	}
	if rays.IsEmpty() {
		rays.ReuseAs(3, n)
	} else if c := batchCols(rays, 3, "rays"); c != n {
		panic(fmt.Sprintf("ray batch has %d columns, want %d", c, n))
	}

	homo := mat.NewDense(3, n, nil)
	for i := 0; i < n; i++ {
		homo.Set(0, i, pixels.At(0, i))
		homo.Set(1, i, pixels.At(1, i))
		homo.Set(2, i, 1)
	}
	rays.Mul(pc.kInv, homo)
}

// ProjectBatchWithIDs projects a batch of identifier-tagged camera-frame
// points and compacts the result to the visible subset, preserving input
// order. Track IDs are left unassigned; association happens downstream.
// Uniqueness of ids is the caller's contract. points may be nil only for an
// empty batch.
func (pc *PinholeCamera) ProjectBatchWithIDs(points *mat.Dense, ids []int32) *Measurements {
	if points == nil || points.IsEmpty() {
		if len(ids) != 0 {
			panic(fmt.Sprintf("id batch has length %d for an empty point batch", len(ids)))
		}
		return newMeasurements(nil, nil)
	}
	n := batchCols(points, 3, "points")
	if len(ids) != n {
		panic(fmt.Sprintf("id batch has length %d, want %d", len(ids), n))
	}

	pixels := mat.NewDense(2, n, nil)
	visible := make([]bool, n)
	pc.ProjectBatch(points, pixels, visible)

	numVisible := 0
	for _, v := range visible {
		if v {
			numVisible++
		}
	}
	if numVisible == 0 {
		return newMeasurements(nil, nil)
	}

	visPixels := mat.NewDense(2, numVisible, nil)
	visIDs := make([]int32, 0, numVisible)
	for i := 0; i < n; i++ {
		if !visible[i] {
			continue
		}
		visPixels.Set(0, len(visIDs), pixels.At(0, i))
		visPixels.Set(1, len(visIDs), pixels.At(1, i))
		visIDs = append(visIDs, ids[i])
	}
	return newMeasurements(visPixels, visIDs)
}

// batchCols returns the column count of a batch matrix, panicking unless the
// matrix is non-nil with the expected number of rows.
func batchCols(m *mat.Dense, rows int, name string) int {
	if m == nil {
		panic(name + " batch is nil")
	}
	r, c := m.Dims()
	if r != rows {
		panic(fmt.Sprintf("%s batch has %d rows, want %d", name, r, rows))
	}
	return c
}
