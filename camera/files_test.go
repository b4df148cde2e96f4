package camera

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/vicam/spatialmath"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	extrinsics := spatialmath.NewPoseFromAxisAngle(
		r3.Vector{X: 0.065, Y: -0.01, Z: 0.002},
		r3.Vector{X: 1, Y: 0.2, Z: -0.3},
		0.31,
	)
	pc, err := NewPinholeCamera(
		Intrinsics{Fx: 458.654, Fy: 457.296, Cx: 367.215, Cy: 248.375, Width: 752, Height: 480},
		extrinsics,
	)
	test.That(t, err, test.ShouldBeNil)

	dir := t.TempDir()
	test.That(t, pc.SaveToDir(dir), test.ShouldBeNil)

	loaded, err := NewCameraFromDir(dir)
	test.That(t, err, test.ShouldBeNil)
	// intrinsics round-trip exactly
	test.That(t, loaded.Intrinsics(), test.ShouldResemble, pc.Intrinsics())
	test.That(t, loaded.Extrinsics().AlmostEqual(extrinsics, 1e-9), test.ShouldBeTrue)
}

func TestLoadMissingFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := NewCameraFromDir(dir)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = NewCameraFromFiles(filepath.Join(dir, "nope.txt"), filepath.Join(dir, "nope.json"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestLoadMalformedGeometry(t *testing.T) {
	dir := t.TempDir()
	pc := NewTestCamera()
	test.That(t, pc.SaveToDir(dir), test.ShouldBeNil)
	geoPath := filepath.Join(dir, GeoFileName)
	posePath := filepath.Join(dir, PoseFileName)

	for name, contents := range map[string]string{
		"wrong header":      "fisheye 400 400 320 240 640 480\n",
		"missing field":     GeoHeader + " 400 400 320 240 640\n",
		"extra field":       GeoHeader + " 400 400 320 240 640 480 7\n",
		"not a number":      GeoHeader + " 400 abc 320 240 640 480\n",
		"fractional width":  GeoHeader + " 400 400 320 240 640.5 480\n",
		"fractional height": GeoHeader + " 400 400 320 240 640 480.25\n",
		"zero width":        GeoHeader + " 400 400 320 240 0 480\n",
	} {
		t.Run(name, func(t *testing.T) {
			test.That(t, os.WriteFile(geoPath, []byte(contents), 0o644), test.ShouldBeNil)
			_, err := NewCameraFromFiles(geoPath, posePath)
			test.That(t, err, test.ShouldNotBeNil)
		})
	}
}

func TestLoadMalformedPose(t *testing.T) {
	dir := t.TempDir()
	pc := NewTestCamera()
	test.That(t, pc.SaveToDir(dir), test.ShouldBeNil)
	posePath := filepath.Join(dir, PoseFileName)

	test.That(t, os.WriteFile(posePath, []byte("{not json"), 0o644), test.ShouldBeNil)
	_, err := NewCameraFromDir(dir)
	test.That(t, err, test.ShouldNotBeNil)
}
