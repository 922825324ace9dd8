package garment

import (
	"github.com/Faultbox/fitmirror/internal/pose"
	"github.com/Faultbox/fitmirror/pkg/math"
	"github.com/Faultbox/fitmirror/pkg/mesh"
)

// shadeVertices computes per-vertex colors: a height gradient darkened
// toward the hem, lifted by forward-facing normals, a wrinkle highlight
// driven by movement, and a darkening factor on the occluded side of
// centerX. Alpha carries through from the base color unchanged.
func shadeVertices(vertices, normals []math.Vec3, base mesh.Color, features pose.Features, centerX float64) []mesh.Color {
	if len(vertices) == 0 {
		return nil
	}

	minH, maxH := vertices[0].Y, vertices[0].Y
	for _, v := range vertices[1:] {
		minH = min(minH, v.Y)
		maxH = max(maxH, v.Y)
	}
	span := max(maxH-minH, 1e-5)

	drapeFactor := features.TorsoLength * 0.25
	movement := features.MovementIntensity
	leftFactor := max(0, 1.0-0.15*features.OcclusionLeft)
	rightFactor := max(0, 1.0-0.15*features.OcclusionRight)

	colors := make([]mesh.Color, len(vertices))
	for i, vertex := range vertices {
		normal := normals[i]
		normalizedHeight := (vertex.Y - minH) / span

		shading := 0.72 + 0.25*(1.0-normalizedHeight) + drapeFactor
		shading += 0.08 * max(normal.Z, 0)
		shading = math.Clamp(shading, 0.4, 1.3)

		wrinkle := 0.12 * movement * abs(normal.X)

		factor := rightFactor
		if vertex.X < centerX {
			factor = leftFactor
		}

		colors[i] = mesh.Color{
			R: math.Clamp(math.Clamp(base.R*shading+wrinkle, 0, 1)*factor, 0, 1),
			G: math.Clamp(math.Clamp(base.G*shading+wrinkle, 0, 1)*factor, 0, 1),
			B: math.Clamp(math.Clamp(base.B*shading+wrinkle, 0, 1)*factor, 0, 1),
			A: base.A,
		}
	}
	return colors
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
