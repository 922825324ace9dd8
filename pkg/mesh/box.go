package mesh

import "github.com/Faultbox/fitmirror/pkg/math"

// boxFace is one quad of an axis-aligned box: a flat normal and four
// corner offsets from the center, wound counter-clockwise.
type boxFace struct {
	normal  math.Vec3
	corners [4]math.Vec3
}

// Box builds an axis-aligned box mesh centered at center with the given
// size: 6 quads, 24 vertices, 36 indices, flat per-face normals and a
// uniform vertex color.
func Box(center, size math.Vec3, color Color) *Mesh {
	hx, hy, hz := size.X/2, size.Y/2, size.Z/2
	faces := []boxFace{
		{math.Vec3{X: 0, Y: 0, Z: 1}, [4]math.Vec3{{X: -hx, Y: -hy, Z: hz}, {X: hx, Y: -hy, Z: hz}, {X: hx, Y: hy, Z: hz}, {X: -hx, Y: hy, Z: hz}}},
		{math.Vec3{X: 0, Y: 0, Z: -1}, [4]math.Vec3{{X: -hx, Y: -hy, Z: -hz}, {X: -hx, Y: hy, Z: -hz}, {X: hx, Y: hy, Z: -hz}, {X: hx, Y: -hy, Z: -hz}}},
		{math.Vec3{X: -1, Y: 0, Z: 0}, [4]math.Vec3{{X: -hx, Y: -hy, Z: -hz}, {X: -hx, Y: -hy, Z: hz}, {X: -hx, Y: hy, Z: hz}, {X: -hx, Y: hy, Z: -hz}}},
		{math.Vec3{X: 1, Y: 0, Z: 0}, [4]math.Vec3{{X: hx, Y: -hy, Z: -hz}, {X: hx, Y: hy, Z: -hz}, {X: hx, Y: hy, Z: hz}, {X: hx, Y: -hy, Z: hz}}},
		{math.Vec3{X: 0, Y: 1, Z: 0}, [4]math.Vec3{{X: -hx, Y: hy, Z: -hz}, {X: -hx, Y: hy, Z: hz}, {X: hx, Y: hy, Z: hz}, {X: hx, Y: hy, Z: -hz}}},
		{math.Vec3{X: 0, Y: -1, Z: 0}, [4]math.Vec3{{X: -hx, Y: -hy, Z: -hz}, {X: hx, Y: -hy, Z: -hz}, {X: hx, Y: -hy, Z: hz}, {X: -hx, Y: -hy, Z: hz}}},
	}

	m := &Mesh{}
	for _, face := range faces {
		start := uint32(m.VertexCount())
		for _, corner := range face.corners {
			m.Positions = append(m.Positions, center.X+corner.X, center.Y+corner.Y, center.Z+corner.Z)
			m.Normals = append(m.Normals, face.normal.X, face.normal.Y, face.normal.Z)
			m.Colors = append(m.Colors, color.R, color.G, color.B, color.A)
		}
		m.Indices = append(m.Indices,
			start, start+1, start+2,
			start, start+2, start+3,
		)
	}
	return m
}
