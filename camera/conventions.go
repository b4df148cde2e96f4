package camera

// On-disk conventions for storing a calibrated rig: the rig directory holds
// one CameraDirPrefix<i> subdirectory per camera, indexed by position, each
// containing a geometry file and an extrinsic pose file.
const (
	// GeoHeader is the token opening a geometry file, identifying the format.
	GeoHeader = "pinhole"
	// GeoFileName is the name of the per-camera geometry file, holding the
	// header followed by fx fy cx cy w h.
	GeoFileName = "cam_geo.txt"
	// PoseFileName is the name of the per-camera extrinsic pose file (body
	// to camera, in the pose type's JSON format).
	PoseFileName = "T_b_c.json"
	// CameraDirPrefix prefixes per-camera subdirectory names: cam0, cam1, ...
	CameraDirPrefix = "cam"
)
