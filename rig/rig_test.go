package rig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/vicam/camera"
	"go.viam.com/vicam/spatialmath"
)

func testRig(t *testing.T) *Rig {
	t.Helper()
	left, err := camera.NewPinholeCamera(
		camera.Intrinsics{Fx: 458.654, Fy: 457.296, Cx: 367.215, Cy: 248.375, Width: 752, Height: 480},
		spatialmath.NewZeroPose(),
	)
	test.That(t, err, test.ShouldBeNil)
	right, err := camera.NewPinholeCamera(
		camera.Intrinsics{Fx: 457.587, Fy: 456.134, Cx: 379.999, Cy: 255.238, Width: 752, Height: 480},
		spatialmath.NewPoseFromPoint(r3.Vector{X: 0.11}),
	)
	test.That(t, err, test.ShouldBeNil)
	return NewRig(left, right)
}

func TestRigOrdering(t *testing.T) {
	r := testRig(t)
	test.That(t, r.Size(), test.ShouldEqual, 2)
	test.That(t, r.Camera(0).Intrinsics().Fx, test.ShouldEqual, 458.654)
	test.That(t, r.Camera(1).Intrinsics().Fx, test.ShouldEqual, 457.587)

	extra := camera.NewTestCamera()
	r.Append(extra)
	test.That(t, r.Size(), test.ShouldEqual, 3)
	test.That(t, r.Camera(2), test.ShouldEqual, extra)
}

func TestRigSaveLoadRoundTrip(t *testing.T) {
	logger := golog.NewTestLogger(t)
	r := testRig(t)
	dir := t.TempDir()
	test.That(t, r.SaveToDir(dir), test.ShouldBeNil)

	n, err := NumOfCameras(dir)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, n, test.ShouldEqual, 2)

	loaded, err := LoadCamerasFromDir(dir, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, loaded.Size(), test.ShouldEqual, 2)
	for i := 0; i < 2; i++ {
		test.That(t, loaded.Camera(i).Intrinsics(), test.ShouldResemble, r.Camera(i).Intrinsics())
		test.That(t, loaded.Camera(i).Extrinsics().AlmostEqual(r.Camera(i).Extrinsics(), 1e-9), test.ShouldBeTrue)
	}
}

func TestNumOfCamerasIgnoresStrays(t *testing.T) {
	r := testRig(t)
	dir := t.TempDir()
	test.That(t, r.SaveToDir(dir), test.ShouldBeNil)

	// stray files and unrelated directories do not count
	test.That(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644), test.ShouldBeNil)
	test.That(t, os.Mkdir(filepath.Join(dir, "calibration"), 0o755), test.ShouldBeNil)
	test.That(t, os.Mkdir(filepath.Join(dir, "camera"), 0o755), test.ShouldBeNil)

	n, err := NumOfCameras(dir)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, n, test.ShouldEqual, 2)
}

func TestLoadCamerasFromDirErrors(t *testing.T) {
	logger := golog.NewTestLogger(t)

	_, err := LoadCamerasFromDir(filepath.Join(t.TempDir(), "missing"), logger)
	test.That(t, err, test.ShouldNotBeNil)

	// a directory with no camera subdirectories is an error
	_, err = LoadCamerasFromDir(t.TempDir(), logger)
	test.That(t, err, test.ShouldNotBeNil)

	// a gap in the camera indices is an error
	r := testRig(t)
	dir := t.TempDir()
	test.That(t, r.SaveToDir(dir), test.ShouldBeNil)
	test.That(t, os.Rename(filepath.Join(dir, "cam1"), filepath.Join(dir, "cam2")), test.ShouldBeNil)
	_, err = LoadCamerasFromDir(dir, logger)
	test.That(t, err, test.ShouldNotBeNil)
}
