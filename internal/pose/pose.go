// Package pose provides the canonical-skeleton pose estimator, pose
// feature extraction and the body mesh builder.
//
// Pose estimation here is deliberately a stub: it emits a fixed
// anatomical skeleton scaled by the photograph height. Real keypoint
// inference is a collaborator concern; everything downstream only needs
// a named-joint position map.
package pose

import (
	"go.uber.org/zap"

	"github.com/Faultbox/fitmirror/internal/imagefile"
	"github.com/Faultbox/fitmirror/pkg/math"
)

// Keypoint is a named anatomical landmark's 3D position.
type Keypoint struct {
	Name     string
	Position math.Vec3
}

// canonicalKeypoints is the unit skeleton (pelvis at origin, ~1.1 up to
// the head, ~-1.2 down to the ankles) before image scaling.
var canonicalKeypoints = []Keypoint{
	{"pelvis", math.Vec3{X: 0, Y: 0, Z: 0}},
	{"spine", math.Vec3{X: 0, Y: 0.45, Z: 0}},
	{"neck", math.Vec3{X: 0, Y: 0.8, Z: 0}},
	{"head_top", math.Vec3{X: 0, Y: 1.1, Z: 0}},
	{"shoulder_l", math.Vec3{X: -0.28, Y: 0.78, Z: 0.05}},
	{"shoulder_r", math.Vec3{X: 0.28, Y: 0.78, Z: 0.05}},
	{"elbow_l", math.Vec3{X: -0.32, Y: 0.45, Z: 0.02}},
	{"elbow_r", math.Vec3{X: 0.32, Y: 0.45, Z: 0.02}},
	{"wrist_l", math.Vec3{X: -0.32, Y: 0.1, Z: 0.02}},
	{"wrist_r", math.Vec3{X: 0.32, Y: 0.1, Z: 0.02}},
	{"hip_l", math.Vec3{X: -0.2, Y: -0.1, Z: 0}},
	{"hip_r", math.Vec3{X: 0.2, Y: -0.1, Z: 0}},
	{"knee_l", math.Vec3{X: -0.18, Y: -0.7, Z: 0.03}},
	{"knee_r", math.Vec3{X: 0.18, Y: -0.7, Z: 0.03}},
	{"ankle_l", math.Vec3{X: -0.16, Y: -1.2, Z: 0.03}},
	{"ankle_r", math.Vec3{X: 0.16, Y: -1.2, Z: 0.03}},
}

// Edges lists the skeletal segments drawn in the 2D preview.
var Edges = [][2]string{
	{"head_top", "neck"},
	{"neck", "spine"},
	{"spine", "pelvis"},
	{"shoulder_l", "neck"},
	{"shoulder_r", "neck"},
	{"shoulder_l", "elbow_l"},
	{"elbow_l", "wrist_l"},
	{"shoulder_r", "elbow_r"},
	{"elbow_r", "wrist_r"},
	{"pelvis", "hip_l"},
	{"pelvis", "hip_r"},
	{"hip_l", "knee_l"},
	{"knee_l", "ankle_l"},
	{"hip_r", "knee_r"},
	{"knee_r", "ankle_r"},
}

// Result is an estimated pose: keypoints in declaration order, the
// skeletal edge list, the XY bounding box (minX, minY, maxX, maxY) and
// the body scale factor.
type Result struct {
	Keypoints   map[string]math.Vec3
	Edges       [][2]string
	BoundingBox [4]float64
	Scale       float64

	order []string
}

// Ordered returns the keypoints in canonical declaration order.
func (r *Result) Ordered() []Keypoint {
	ordered := make([]Keypoint, 0, len(r.order))
	for _, name := range r.order {
		ordered = append(ordered, Keypoint{Name: name, Position: r.Keypoints[name]})
	}
	return ordered
}

// Estimator derives a canonical skeleton scaled by the incoming image.
type Estimator struct {
	log *zap.Logger
}

// NewEstimator creates an Estimator. A nil logger disables logging.
func NewEstimator(log *zap.Logger) *Estimator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Estimator{log: log}
}

// Estimate produces the canonical pose scaled by the photograph height.
// Unreadable images fall back to a 512x800 frame.
func (e *Estimator) Estimate(imagePath string) *Result {
	_, height, err := imagefile.DecodeSize(imagePath)
	if err != nil {
		e.log.Warn("failed to read image size, using fallback frame",
			zap.String("path", imagePath), zap.Error(err))
		height = 800
	}

	scale := 1.0
	if height != 0 {
		scale = float64(height) / 800.0
	}

	keypoints := make(map[string]math.Vec3, len(canonicalKeypoints))
	order := make([]string, 0, len(canonicalKeypoints))
	for _, kp := range canonicalKeypoints {
		keypoints[kp.Name] = kp.Position.Scale(scale)
		order = append(order, kp.Name)
	}

	e.log.Info("pose estimated from canonical skeleton", zap.Float64("scale", scale))
	return &Result{
		Keypoints:   keypoints,
		Edges:       Edges,
		BoundingBox: computeBounds(keypoints),
		Scale:       scale,
		order:       order,
	}
}

func computeBounds(keypoints map[string]math.Vec3) [4]float64 {
	first := true
	var bounds [4]float64
	for _, p := range keypoints {
		if first {
			bounds = [4]float64{p.X, p.Y, p.X, p.Y}
			first = false
			continue
		}
		bounds[0] = min(bounds[0], p.X)
		bounds[1] = min(bounds[1], p.Y)
		bounds[2] = max(bounds[2], p.X)
		bounds[3] = max(bounds[3], p.Y)
	}
	return bounds
}
