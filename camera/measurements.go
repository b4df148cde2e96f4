package camera

import (
	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/mat"
)

// UnassignedTrackID marks a measurement that has not been associated with a
// feature track.
const UnassignedTrackID int32 = -1

// Measurements is the set of identifier-tagged pixel observations produced
// by one camera for one batch of landmarks. Pixels holds one column per
// observation and is nil when the set is empty; GlobalIDs and TrackIDs run
// parallel to its columns.
type Measurements struct {
	Pixels    *mat.Dense
	GlobalIDs []int32
	TrackIDs  []int32
}

func newMeasurements(pixels *mat.Dense, globalIDs []int32) *Measurements {
	trackIDs := make([]int32, len(globalIDs))
	for i := range trackIDs {
		trackIDs[i] = UnassignedTrackID
	}
	return &Measurements{Pixels: pixels, GlobalIDs: globalIDs, TrackIDs: trackIDs}
}

// Size returns the number of observations in the set.
func (m *Measurements) Size() int {
	return len(m.GlobalIDs)
}

// Pixel returns the i-th observed pixel.
func (m *Measurements) Pixel(i int) r2.Point {
	return r2.Point{X: m.Pixels.At(0, i), Y: m.Pixels.At(1, i)}
}
