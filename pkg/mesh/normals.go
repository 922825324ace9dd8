package mesh

import "github.com/Faultbox/fitmirror/pkg/math"

// ComputeVertexNormals recomputes smooth per-vertex normals: each
// triangle's unit face normal is accumulated onto its three vertices,
// then every accumulated normal is renormalized. Triangles with a face
// normal shorter than 1e-8 are skipped as degenerate; vertices that end
// up with a near-zero accumulation default to (0, 1, 0).
func ComputeVertexNormals(vertices []math.Vec3, indices []uint32) []math.Vec3 {
	normals := make([]math.Vec3, len(vertices))
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		v0 := vertices[i0]
		edge1 := vertices[i1].Sub(v0)
		edge2 := vertices[i2].Sub(v0)
		normal := edge1.Cross(edge2)
		length := normal.Length()
		if length < 1e-8 {
			continue
		}
		normal = normal.Scale(1 / length)
		normals[i0] = normals[i0].Add(normal)
		normals[i1] = normals[i1].Add(normal)
		normals[i2] = normals[i2].Add(normal)
	}
	for i, normal := range normals {
		if normal.Length() < 1e-8 {
			normals[i] = math.Vec3{X: 0, Y: 1, Z: 0}
		} else {
			normals[i] = normal.Normalize()
		}
	}
	return normals
}
