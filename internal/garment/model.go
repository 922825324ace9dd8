package garment

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/Faultbox/fitmirror/internal/pose"
	"github.com/Faultbox/fitmirror/pkg/math"
	"github.com/Faultbox/fitmirror/pkg/mesh"
)

// Model file validation errors.
var (
	ErrVertexStride      = errors.New("unsupported vertex stride")
	ErrVectorLength      = errors.New("vector data length must be divisible by stride")
	ErrComponentMismatch = errors.New("component length does not match base vertex count")
	ErrUnknownFeature    = errors.New("component references unknown pose feature")
	ErrModelIndexRange   = errors.New("model index out of range")
)

// Component is a named per-vertex displacement field blended in
// proportion to a weighted sum of pose features.
type Component struct {
	Name    string
	Vector  []math.Vec3
	Weights map[pose.Feature]float64
}

// Weight computes the component's blend weight for the given features.
func (c *Component) Weight(features pose.Features) float64 {
	weight := 0.0
	for name, factor := range c.Weights {
		weight += factor * features.Get(name)
	}
	return weight
}

// Model is a pretrained garment blend-shape model. Centroid and Extents
// are derived from the base vertices at load time; degenerate extents
// (below 1e-6) are replaced by 1 so the per-axis rescale never divides
// by a near-zero value.
type Model struct {
	ID         string
	BaseVerts  []math.Vec3
	Indices    []uint32
	Components []Component
	Pinned     []int
	Centroid   math.Vec3
	Extents    math.Vec3
}

type modelFile struct {
	ID             string          `json:"id"`
	VertexStride   int             `json:"vertex_stride"`
	BaseVertices   []float64       `json:"base_vertices"`
	Indices        []uint32        `json:"indices"`
	Components     []componentSpec `json:"components"`
	PinnedVertices []int           `json:"pinned_vertices"`
}

type componentSpec struct {
	Name           string             `json:"name"`
	Vector         []float64          `json:"vector"`
	FeatureWeights map[string]float64 `json:"feature_weights"`
}

// LoadModel parses and validates a garment model JSON file. Malformed
// definitions fail here, not at synthesis time.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model %s: %w", path, err)
	}

	var file modelFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing model %s: %w", path, err)
	}

	stride := file.VertexStride
	if stride == 0 {
		stride = 3
	}
	if stride != 3 {
		return nil, fmt.Errorf("%w: %d in %s", ErrVertexStride, stride, path)
	}

	base, err := chunkVec3(file.BaseVertices)
	if err != nil {
		return nil, fmt.Errorf("model %s base vertices: %w", file.ID, err)
	}

	for _, index := range file.Indices {
		if int(index) >= len(base) {
			return nil, fmt.Errorf("%w: %d with %d base vertices in model %s", ErrModelIndexRange, index, len(base), file.ID)
		}
	}

	components := make([]Component, 0, len(file.Components))
	for i, spec := range file.Components {
		vector, err := chunkVec3(spec.Vector)
		if err != nil {
			return nil, fmt.Errorf("model %s component %q: %w", file.ID, spec.Name, err)
		}
		if len(vector) != len(base) {
			return nil, fmt.Errorf("%w: component %q in model %s", ErrComponentMismatch, spec.Name, file.ID)
		}
		weights := make(map[pose.Feature]float64, len(spec.FeatureWeights))
		for name, factor := range spec.FeatureWeights {
			feature := pose.Feature(name)
			if !pose.KnownFeature(feature) {
				return nil, fmt.Errorf("%w: %q in component %q of model %s", ErrUnknownFeature, name, spec.Name, file.ID)
			}
			weights[feature] = factor
		}
		name := spec.Name
		if name == "" {
			name = fmt.Sprintf("component_%d", i)
		}
		components = append(components, Component{Name: name, Vector: vector, Weights: weights})
	}

	return NewModel(file.ID, base, file.Indices, components, file.PinnedVertices), nil
}

// NewModel assembles a Model and derives its centroid and extents.
func NewModel(id string, base []math.Vec3, indices []uint32, components []Component, pinned []int) *Model {
	return &Model{
		ID:         id,
		BaseVerts:  base,
		Indices:    indices,
		Components: components,
		Pinned:     pinned,
		Centroid:   computeCentroid(base),
		Extents:    computeExtents(base),
	}
}

// Synthesize produces a garment mesh for the given pose features,
// fitted to the target center/size and shaded from the base color.
func (m *Model) Synthesize(features pose.Features, center, size math.Vec3, base mesh.Color) *Generated {
	vertices := make([]math.Vec3, len(m.BaseVerts))
	copy(vertices, m.BaseVerts)

	for _, component := range m.Components {
		weight := component.Weight(features)
		if weight < 1e-6 && weight > -1e-6 {
			continue
		}
		for i, delta := range component.Vector {
			vertices[i] = vertices[i].Add(delta.Scale(weight))
		}
	}

	scale := math.Vec3{
		X: size.X / m.Extents.X,
		Y: size.Y / m.Extents.Y,
		Z: size.Z / m.Extents.Z,
	}
	for i, vertex := range vertices {
		vertices[i] = vertex.Sub(m.Centroid).Mul(scale).Add(center)
	}

	normals := mesh.ComputeVertexNormals(vertices, m.Indices)
	colors := shadeVertices(vertices, normals, base, features, center.X)

	out := &mesh.Mesh{
		Positions: make([]float64, 0, len(vertices)*3),
		Normals:   make([]float64, 0, len(vertices)*3),
		Colors:    make([]float64, 0, len(vertices)*4),
		Indices:   append([]uint32(nil), m.Indices...),
	}
	for i := range vertices {
		out.Positions = append(out.Positions, vertices[i].X, vertices[i].Y, vertices[i].Z)
		out.Normals = append(out.Normals, normals[i].X, normals[i].Y, normals[i].Z)
		out.Colors = append(out.Colors, colors[i].R, colors[i].G, colors[i].B, colors[i].A)
	}

	return &Generated{
		Mesh:     out,
		Mode:     ModePretrained,
		Pinned:   append([]int(nil), m.Pinned...),
		Features: features,
	}
}

func computeCentroid(vertices []math.Vec3) math.Vec3 {
	if len(vertices) == 0 {
		return math.Vec3{}
	}
	var sum math.Vec3
	for _, v := range vertices {
		sum = sum.Add(v)
	}
	return sum.Scale(1 / float64(len(vertices)))
}

func computeExtents(vertices []math.Vec3) math.Vec3 {
	if len(vertices) == 0 {
		return math.Vec3{X: 1, Y: 1, Z: 1}
	}
	minV, maxV := vertices[0], vertices[0]
	for _, v := range vertices[1:] {
		minV.X = min(minV.X, v.X)
		minV.Y = min(minV.Y, v.Y)
		minV.Z = min(minV.Z, v.Z)
		maxV.X = max(maxV.X, v.X)
		maxV.Y = max(maxV.Y, v.Y)
		maxV.Z = max(maxV.Z, v.Z)
	}
	extents := maxV.Sub(minV)
	if extents.X < 1e-6 {
		extents.X = 1
	}
	if extents.Y < 1e-6 {
		extents.Y = 1
	}
	if extents.Z < 1e-6 {
		extents.Z = 1
	}
	return extents
}

func chunkVec3(values []float64) ([]math.Vec3, error) {
	if len(values)%3 != 0 {
		return nil, ErrVectorLength
	}
	chunks := make([]math.Vec3, 0, len(values)/3)
	for i := 0; i+2 < len(values); i += 3 {
		chunks = append(chunks, math.Vec3{X: values[i], Y: values[i+1], Z: values[i+2]})
	}
	return chunks, nil
}
