package pose

import (
	gomath "math"

	"github.com/Faultbox/fitmirror/pkg/math"
	"github.com/Faultbox/fitmirror/pkg/mesh"
)

var (
	skinColor    = mesh.Color{R: 0.85, G: 0.67, B: 0.55, A: 1.0}
	headColor    = mesh.Color{R: 0.88, G: 0.72, B: 0.6, A: 1.0}
	trouserColor = mesh.Color{R: 0.35, G: 0.35, B: 0.38, A: 1.0}
)

// CreateBodyMesh builds a blocky body from the pose: torso and head
// boxes plus one box per limb segment, merged into a single mesh.
func CreateBodyMesh(pose *Result) *mesh.Mesh {
	keypoints := pose.Keypoints

	shoulderWidth := gomath.Abs(keypoints["shoulder_r"].X - keypoints["shoulder_l"].X)
	if shoulderWidth == 0 {
		shoulderWidth = 0.6 * pose.Scale
	}
	torsoHeight := keypoints["neck"].Y - keypoints["pelvis"].Y
	torsoDepth := shoulderWidth * 0.45
	torsoCenter := keypoints["neck"].Midpoint(keypoints["pelvis"])

	components := []*mesh.Mesh{
		mesh.Box(torsoCenter, math.Vec3{
			X: shoulderWidth * 1.1,
			Y: torsoHeight + 0.2*pose.Scale,
			Z: torsoDepth,
		}, skinColor),
		mesh.Box(keypoints["head_top"].Midpoint(keypoints["neck"]), math.Vec3{
			X: shoulderWidth * 0.45,
			Y: pose.Scale * 0.6,
			Z: shoulderWidth * 0.45,
		}, headColor),
	}

	armThickness := shoulderWidth * 0.35
	legThickness := shoulderWidth * 0.4
	for _, side := range []string{"l", "r"} {
		shoulder := keypoints["shoulder_"+side]
		elbow := keypoints["elbow_"+side]
		wrist := keypoints["wrist_"+side]
		hip := keypoints["hip_"+side]
		knee := keypoints["knee_"+side]
		ankle := keypoints["ankle_"+side]

		components = append(components,
			limbBox(shoulder, elbow, armThickness, skinColor),
			limbBox(elbow, wrist, armThickness*0.9, skinColor),
			limbBox(hip, knee, legThickness, trouserColor),
			limbBox(knee, ankle, legThickness*0.9, trouserColor),
		)
	}

	body := &mesh.Mesh{}
	for _, component := range components {
		body.Merge(component)
	}
	return body
}

// limbBox approximates a limb segment as a thin vertical box between
// its two joints.
func limbBox(start, end math.Vec3, thickness float64, color mesh.Color) *mesh.Mesh {
	length := gomath.Abs(end.Y - start.Y)
	if length == 0 {
		length = 0.3
	}
	size := math.Vec3{X: thickness * 0.6, Y: length, Z: thickness * 0.6}
	return mesh.Box(start.Midpoint(end), size, color)
}
