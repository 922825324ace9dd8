// Package scene serializes combined meshes into self-contained glTF
// documents, vector previews and animation payloads.
package scene

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	gomath "math"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/fitmirror/pkg/mesh"
)

var ErrEmptyMesh = errors.New("scene: mesh has no vertices")

// Exporter writes scene artifacts to disk.
type Exporter struct {
	log *zap.Logger
}

// NewExporter creates an Exporter. A nil logger disables logging.
func NewExporter(log *zap.Logger) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{log: log}
}

// ExportGLTF writes the mesh as a glTF 2.0 document with one triangle
// primitive and a base64-embedded binary buffer. The buffer holds four
// regions, each padded to a 4-byte boundary: positions, normals,
// colors and indices. Indices pack as uint16 when the vertex count
// fits, uint32 otherwise.
func (e *Exporter) ExportGLTF(m *mesh.Mesh, path string) error {
	vertexCount := m.VertexCount()
	if vertexCount == 0 {
		return ErrEmptyMesh
	}

	positions := packFloats(m.Positions)
	normals := packFloats(m.Normals)
	colors := packFloats(m.Colors)

	indexComponent := componentUint16
	if vertexCount >= 65536 {
		indexComponent = componentUint32
	}
	indexData := packIndices(m.Indices, indexComponent == componentUint16)

	regions := [][]byte{positions, normals, colors, indexData}
	buffer, offsets := alignConcat(regions)
	posMin, posMax := positionBounds(m.Positions)

	doc := gltfDocument{
		Asset:  gltfAsset{Version: "2.0", Generator: "fitmirror"},
		Scene:  0,
		Scenes: []gltfScene{{Nodes: []int{0}}},
		Nodes:  []gltfNode{{Mesh: 0}},
		Meshes: []gltfMesh{{
			Primitives: []gltfPrimitive{{
				Attributes: map[string]int{"POSITION": 0, "NORMAL": 1, "COLOR_0": 2},
				Indices:    3,
				Mode:       modeTriangles,
			}},
		}},
		Buffers: []gltfBuffer{{
			URI:        "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(buffer),
			ByteLength: len(buffer),
		}},
		BufferViews: []gltfBufferView{
			{Buffer: 0, ByteOffset: offsets[0], ByteLength: len(positions), Target: targetArrayBuffer},
			{Buffer: 0, ByteOffset: offsets[1], ByteLength: len(normals), Target: targetArrayBuffer},
			{Buffer: 0, ByteOffset: offsets[2], ByteLength: len(colors), Target: targetArrayBuffer},
			{Buffer: 0, ByteOffset: offsets[3], ByteLength: len(indexData), Target: targetElementArrayBuffer},
		},
		Accessors: []gltfAccessor{
			{BufferView: 0, ComponentType: componentFloat, Count: vertexCount, Type: "VEC3", Min: posMin, Max: posMax},
			{BufferView: 1, ComponentType: componentFloat, Count: vertexCount, Type: "VEC3"},
			{BufferView: 2, ComponentType: componentFloat, Count: vertexCount, Type: "VEC4"},
			{BufferView: 3, ComponentType: indexComponent, Count: len(m.Indices), Type: "SCALAR"},
		},
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode scene document: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write scene document: %w", err)
	}
	e.log.Info("scene exported",
		zap.String("path", path), zap.Int("vertices", vertexCount))
	return nil
}

func packFloats(values []float64) []byte {
	out := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[i*4:], gomath.Float32bits(float32(v)))
	}
	return out
}

func packIndices(indices []uint32, short bool) []byte {
	if short {
		out := make([]byte, len(indices)*2)
		for i, idx := range indices {
			binary.LittleEndian.PutUint16(out[i*2:], uint16(idx))
		}
		return out
	}
	out := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(out[i*4:], idx)
	}
	return out
}

// alignConcat joins the regions, zero-padding after each one to a
// 4-byte boundary, and reports every region's start offset.
func alignConcat(regions [][]byte) ([]byte, []int) {
	var buffer []byte
	offsets := make([]int, len(regions))
	for i, region := range regions {
		offsets[i] = len(buffer)
		buffer = append(buffer, region...)
		if padding := (4 - len(buffer)%4) % 4; padding > 0 {
			buffer = append(buffer, make([]byte, padding)...)
		}
	}
	return buffer, offsets
}

func positionBounds(positions []float64) ([]float64, []float64) {
	minBounds := []float64{positions[0], positions[1], positions[2]}
	maxBounds := []float64{positions[0], positions[1], positions[2]}
	for i := 3; i+2 < len(positions); i += 3 {
		for axis := 0; axis < 3; axis++ {
			minBounds[axis] = min(minBounds[axis], positions[i+axis])
			maxBounds[axis] = max(maxBounds[axis], positions[i+axis])
		}
	}
	return minBounds, maxBounds
}
