package rig

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// LandmarkMap holds world-frame landmark positions, one column per
// landmark, with a parallel slice of landmark identifiers. Identifiers are
// expected to be unique; downstream consumers key measurements by them.
type LandmarkMap struct {
	positions *mat.Dense
	ids       []int32
}

// NewLandmarkMap returns a map over a 3xN position matrix and N ids. Pass a
// nil matrix and no ids for an empty map.
func NewLandmarkMap(positions *mat.Dense, ids []int32) (*LandmarkMap, error) {
	if positions == nil || positions.IsEmpty() {
		if len(ids) != 0 {
			return nil, errors.Errorf("%d ids given without positions", len(ids))
		}
		return &LandmarkMap{}, nil
	}
	r, c := positions.Dims()
	if r != 3 {
		return nil, errors.Errorf("positions have %d rows, want 3", r)
	}
	if c != len(ids) {
		return nil, errors.Errorf("%d positions but %d ids", c, len(ids))
	}
	return &LandmarkMap{positions: positions, ids: ids}, nil
}

// Size returns the number of landmarks.
func (m *LandmarkMap) Size() int {
	return len(m.ids)
}

// Positions returns the 3xN world-frame position matrix, nil when empty.
func (m *LandmarkMap) Positions() *mat.Dense {
	return m.positions
}

// IDs returns the landmark identifiers.
func (m *LandmarkMap) IDs() []int32 {
	return m.ids
}
