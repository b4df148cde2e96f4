package rig

import (
	"gonum.org/v1/gonum/mat"

	"go.viam.com/vicam/camera"
	"go.viam.com/vicam/spatialmath"
)

// Keyframe is a timestamped body pose in the world frame at which landmark
// observations are aggregated.
type Keyframe struct {
	Timestamp float64
	Pose      spatialmath.Pose
}

// KeyframeMeasurements groups one keyframe's measurement sets, one per
// camera, in rig order.
type KeyframeMeasurements struct {
	Timestamp float64
	PerCamera []*camera.Measurements
}

// ProjectBatchWithIDs projects the landmark map into every (keyframe,
// camera) pair and returns the visible, identifier-tagged measurement sets,
// grouped per keyframe in input order and per camera in rig order. Pairs do
// not interact; within a pair the measurement order follows the landmark
// order.
func (r *Rig) ProjectBatchWithIDs(keyframes []Keyframe, landmarks *LandmarkMap) []KeyframeMeasurements {
	out := make([]KeyframeMeasurements, 0, len(keyframes))
	for _, kf := range keyframes {
		kfMeas := KeyframeMeasurements{
			Timestamp: kf.Timestamp,
			PerCamera: make([]*camera.Measurements, 0, r.Size()),
		}
		for _, pc := range r.cameras {
			worldToCamera := spatialmath.Compose(kf.Pose, pc.Extrinsics()).Invert()
			pointsInCamera := transformPositions(worldToCamera, landmarks.Positions())
			kfMeas.PerCamera = append(kfMeas.PerCamera, pc.ProjectBatchWithIDs(pointsInCamera, landmarks.IDs()))
		}
		out = append(out, kfMeas)
	}
	return out
}

// transformPositions applies a pose to every column of a 3xN position
// matrix. Returns nil for a nil input.
func transformPositions(pose spatialmath.Pose, positions *mat.Dense) *mat.Dense {
	if positions == nil {
		return nil
	}
	_, n := positions.Dims()
	transformed := mat.NewDense(3, n, nil)
	transformed.Mul(pose.RotationMatrix(), positions)
	t := pose.Point()
	offsets := [3]float64{t.X, t.Y, t.Z}
	for row, offset := range offsets {
		for i := 0; i < n; i++ {
			transformed.Set(row, i, transformed.At(row, i)+offset)
		}
	}
	return transformed
}
