package camera

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// FlatIndex returns the column index of pixel (x, y) in the bearing cache.
func (pc *PinholeCamera) FlatIndex(x, y int) int {
	return y*pc.intrinsics.Width + x
}

// ComputeBearingVectors backprojects every pixel of the image and caches the
// resulting rays, one column per pixel at FlatIndex(x, y). Re-invocation
// recomputes the cache in place. Cached rays match Backproject bit for bit.
func (pc *PinholeCamera) ComputeBearingVectors() {
	w, h := pc.intrinsics.Width, pc.intrinsics.Height
	bearings := mat.NewDense(3, w*h, nil)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f := pc.Backproject(r2.Point{X: float64(x), Y: float64(y)})
			idx := pc.FlatIndex(x, y)
			bearings.Set(0, idx, f.X)
			bearings.Set(1, idx, f.Y)
			bearings.Set(2, idx, f.Z)
		}
	}
	pc.bearings = bearings
	pc.bearingsComputed = true
}

// BearingVectorsComputed reports whether the bearing cache is populated.
func (pc *PinholeCamera) BearingVectorsComputed() bool {
	return pc.bearingsComputed
}

// BearingAtPixel returns the cached backprojected ray for pixel (x, y).
// Panics if ComputeBearingVectors has not been called; reading an
// uncomputed cache is a caller bug.
func (pc *PinholeCamera) BearingAtPixel(x, y int) r3.Vector {
	if !pc.bearingsComputed {
		panic("bearing vectors have not been computed")
	}
	idx := pc.FlatIndex(x, y)
	return r3.Vector{
		X: pc.bearings.At(0, idx),
		Y: pc.bearings.At(1, idx),
		Z: pc.bearings.At(2, idx),
	}
}

// NumBearings returns the number of cached bearing vectors, one per pixel.
// Panics if the cache has not been computed.
func (pc *PinholeCamera) NumBearings() int {
	if !pc.bearingsComputed {
		panic("bearing vectors have not been computed")
	}
	_, n := pc.bearings.Dims()
	return n
}
