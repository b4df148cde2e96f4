package camera

import (
	"encoding/json"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.viam.com/utils"

	"go.viam.com/vicam/spatialmath"
)

// NewCameraFromFiles loads a camera from a geometry file and an extrinsic
// pose file. Malformed or missing files surface as errors, never panics.
func NewCameraFromFiles(geoPath, posePath string) (*PinholeCamera, error) {
	intrinsics, err := readGeometryFile(geoPath)
	if err != nil {
		return nil, err
	}
	pose, err := readPoseFile(posePath)
	if err != nil {
		return nil, err
	}
	return NewPinholeCamera(intrinsics, pose)
}

// NewCameraFromDir loads a camera from a directory laid out per the file
// conventions (GeoFileName and PoseFileName).
func NewCameraFromDir(dir string) (*PinholeCamera, error) {
	return NewCameraFromFiles(filepath.Join(dir, GeoFileName), filepath.Join(dir, PoseFileName))
}

// SaveToFiles writes the camera's geometry and extrinsic pose. Loading the
// written files reproduces the intrinsics exactly and the pose within
// floating point tolerance.
func (pc *PinholeCamera) SaveToFiles(geoPath, posePath string) error {
	fields := []float64{
		pc.intrinsics.Fx, pc.intrinsics.Fy,
		pc.intrinsics.Cx, pc.intrinsics.Cy,
		float64(pc.intrinsics.Width), float64(pc.intrinsics.Height),
	}
	line := GeoHeader
	for _, v := range fields {
		// shortest representation that parses back to the same float64
		line += " " + strconv.FormatFloat(v, 'g', -1, 64)
	}
	if err := os.WriteFile(geoPath, []byte(line+"\n"), 0o644); err != nil {
		return errors.Wrap(err, "error writing geometry file")
	}

	poseJSON, err := json.MarshalIndent(pc.extrinsics, "", "  ")
	if err != nil {
		return errors.Wrap(err, "error serializing extrinsic pose")
	}
	if err := os.WriteFile(posePath, poseJSON, 0o644); err != nil {
		return errors.Wrap(err, "error writing pose file")
	}
	return nil
}

// SaveToDir writes the camera into dir per the file conventions, creating
// the directory if needed.
func (pc *PinholeCamera) SaveToDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "error creating camera directory")
	}
	return pc.SaveToFiles(filepath.Join(dir, GeoFileName), filepath.Join(dir, PoseFileName))
}

func readGeometryFile(path string) (Intrinsics, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return Intrinsics{}, errors.Wrap(err, "error opening geometry file")
	}
	defer utils.UncheckedErrorFunc(f.Close)
	data, err := io.ReadAll(f)
	if err != nil {
		return Intrinsics{}, errors.Wrap(err, "error reading geometry file")
	}

	fields := strings.Fields(string(data))
	if len(fields) != 7 {
		return Intrinsics{}, errors.Errorf("geometry file %q has %d fields, want 7", path, len(fields))
	}
	if fields[0] != GeoHeader {
		return Intrinsics{}, errors.Errorf("geometry file %q has header %q, want %q", path, fields[0], GeoHeader)
	}
	values := make([]float64, 6)
	for i, field := range fields[1:] {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return Intrinsics{}, errors.Wrapf(err, "error parsing geometry field %q", field)
		}
		values[i] = v
	}
	width, err := exactInt(values[4])
	if err != nil {
		return Intrinsics{}, errors.Wrap(err, "bad image width")
	}
	height, err := exactInt(values[5])
	if err != nil {
		return Intrinsics{}, errors.Wrap(err, "bad image height")
	}
	return Intrinsics{
		Fx: values[0], Fy: values[1],
		Cx: values[2], Cy: values[3],
		Width: width, Height: height,
	}, nil
}

// exactInt converts a stored dimension to an int, rejecting values that do
// not round-trip to an exact integer.
func exactInt(v float64) (int, error) {
	if v != math.Trunc(v) || math.IsInf(v, 0) {
		return 0, errors.Errorf("%v is not an integer", v)
	}
	return int(v), nil
}

func readPoseFile(path string) (spatialmath.Pose, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return spatialmath.Pose{}, errors.Wrap(err, "error opening pose file")
	}
	defer utils.UncheckedErrorFunc(f.Close)
	data, err := io.ReadAll(f)
	if err != nil {
		return spatialmath.Pose{}, errors.Wrap(err, "error reading pose file")
	}
	var pose spatialmath.Pose
	if err := json.Unmarshal(data, &pose); err != nil {
		return spatialmath.Pose{}, errors.Wrapf(err, "error parsing pose file %q", path)
	}
	return pose, nil
}
