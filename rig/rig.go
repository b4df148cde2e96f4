// Package rig fans pinhole camera projection out across an ordered
// collection of cameras rigidly mounted on one body, producing
// identifier-tagged measurement sets per keyframe and camera.
package rig

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"go.viam.com/vicam/camera"
)

// Rig is an ordered, insertion-order sequence of cameras on one body.
type Rig struct {
	cameras []*camera.PinholeCamera
}

// NewRig returns a rig holding the given cameras in order.
func NewRig(cams ...*camera.PinholeCamera) *Rig {
	return &Rig{cameras: cams}
}

// Append adds a camera at the end of the rig.
func (r *Rig) Append(pc *camera.PinholeCamera) {
	r.cameras = append(r.cameras, pc)
}

// Size returns the number of cameras in the rig.
func (r *Rig) Size() int {
	return len(r.cameras)
}

// Camera returns the camera at position i.
func (r *Rig) Camera(i int) *camera.PinholeCamera {
	return r.cameras[i]
}

// NumOfCameras counts the per-camera subdirectories (cam0, cam1, ...) in a
// rig directory.
func NumOfCameras(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, errors.Wrap(err, "error reading rig directory")
	}
	count := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		suffix, ok := cutCameraPrefix(entry.Name())
		if !ok {
			continue
		}
		if _, err := strconv.Atoi(suffix); err == nil {
			count++
		}
	}
	return count, nil
}

func cutCameraPrefix(name string) (string, bool) {
	if len(name) <= len(camera.CameraDirPrefix) || name[:len(camera.CameraDirPrefix)] != camera.CameraDirPrefix {
		return "", false
	}
	return name[len(camera.CameraDirPrefix):], true
}

// LoadCamerasFromDir builds the ordered rig from a directory with one
// subdirectory per camera, indexed by position. The directories must be
// contiguous from cam0.
func LoadCamerasFromDir(dir string, logger golog.Logger) (*Rig, error) {
	n, err := NumOfCameras(dir)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, errors.Errorf("no %s<i> subdirectories in %q", camera.CameraDirPrefix, dir)
	}
	r := NewRig()
	for i := 0; i < n; i++ {
		camDir := filepath.Join(dir, camera.CameraDirPrefix+strconv.Itoa(i))
		pc, err := camera.NewCameraFromDir(camDir)
		if err != nil {
			return nil, errors.Wrapf(err, "error loading camera %d", i)
		}
		logger.Debugf("loaded camera %d from %q: %s", i, camDir, pc)
		r.Append(pc)
	}
	return r, nil
}

// SaveToDir writes every camera of the rig into dir, one subdirectory per
// camera, such that LoadCamerasFromDir restores the same rig.
func (r *Rig) SaveToDir(dir string) error {
	for i, pc := range r.cameras {
		camDir := filepath.Join(dir, camera.CameraDirPrefix+strconv.Itoa(i))
		if err := pc.SaveToDir(camDir); err != nil {
			return errors.Wrapf(err, "error saving camera %d", i)
		}
	}
	return nil
}
