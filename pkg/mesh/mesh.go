// Package mesh provides a triangulated geometry container used by the
// body builder, the garment synthesizer and the scene exporter.
package mesh

import (
	"errors"
	"fmt"
)

// Mesh validation errors.
var (
	ErrPositionStride = errors.New("position data length must be a multiple of 3")
	ErrNormalCount    = errors.New("normal count does not match vertex count")
	ErrColorCount     = errors.New("color count does not match vertex count")
	ErrIndexStride    = errors.New("index count must be a multiple of 3")
	ErrIndexRange     = errors.New("index out of range")
)

// Color is an RGBA color with channels in [0, 1].
type Color struct {
	R, G, B, A float64
}

// Mesh holds triangulated geometry as flat attribute arrays: positions
// and normals use 3 floats per vertex, colors 4 floats per vertex.
// Indices reference vertices in groups of 3 with counter-clockwise
// winding for outward-facing normals.
type Mesh struct {
	Positions []float64
	Normals   []float64
	Colors    []float64
	Indices   []uint32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Merge appends other's geometry to m, rewriting other's indices by the
// pre-merge vertex count so they stay valid in the combined mesh.
func (m *Mesh) Merge(other *Mesh) {
	offset := uint32(m.VertexCount())
	m.Positions = append(m.Positions, other.Positions...)
	m.Normals = append(m.Normals, other.Normals...)
	m.Colors = append(m.Colors, other.Colors...)
	for _, index := range other.Indices {
		m.Indices = append(m.Indices, index+offset)
	}
}

// Validate checks the attribute array invariants.
func (m *Mesh) Validate() error {
	if len(m.Positions)%3 != 0 {
		return ErrPositionStride
	}
	count := m.VertexCount()
	if len(m.Normals) != count*3 {
		return fmt.Errorf("%w: %d normals for %d vertices", ErrNormalCount, len(m.Normals)/3, count)
	}
	if len(m.Colors) != count*4 {
		return fmt.Errorf("%w: %d colors for %d vertices", ErrColorCount, len(m.Colors)/4, count)
	}
	if len(m.Indices)%3 != 0 {
		return ErrIndexStride
	}
	for _, index := range m.Indices {
		if int(index) >= count {
			return fmt.Errorf("%w: index %d with %d vertices", ErrIndexRange, index, count)
		}
	}
	return nil
}
