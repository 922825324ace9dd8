package garment

import (
	"errors"
	gomath "math"
	"path/filepath"
	"testing"

	"github.com/Faultbox/fitmirror/internal/pose"
	"github.com/Faultbox/fitmirror/pkg/math"
	"github.com/Faultbox/fitmirror/pkg/mesh"
)

func TestLoadModel(t *testing.T) {
	dir := t.TempDir()
	path := writeModelFile(t, dir, quadModelFile("tshirt_basic", map[string]float64{"torso_length": 0.5}))

	model, err := LoadModel(path)
	if err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}
	if model.ID != "tshirt_basic" {
		t.Errorf("id = %q, want tshirt_basic", model.ID)
	}
	if len(model.BaseVerts) != 4 {
		t.Errorf("base vertex count = %d, want 4", len(model.BaseVerts))
	}
	if got, want := model.Centroid, (math.Vec3{X: 0.5, Y: 0.5, Z: 0}); got != want {
		t.Errorf("centroid = %v, want %v", got, want)
	}
	// The quad is flat in Z: the degenerate extent is replaced by 1.
	if got, want := model.Extents, (math.Vec3{X: 1, Y: 1, Z: 1}); got != want {
		t.Errorf("extents = %v, want %v", got, want)
	}
	if len(model.Pinned) != 2 {
		t.Errorf("pinned count = %d, want 2", len(model.Pinned))
	}
}

func TestLoadModelValidation(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name   string
		mutate func(map[string]any)
		want   error
	}{
		{
			name:   "bad stride",
			mutate: func(m map[string]any) { m["vertex_stride"] = 4 },
			want:   ErrVertexStride,
		},
		{
			name:   "vector not divisible",
			mutate: func(m map[string]any) { m["base_vertices"] = []float64{0, 0, 0, 1} },
			want:   ErrVectorLength,
		},
		{
			name: "component length mismatch",
			mutate: func(m map[string]any) {
				m["components"].([]map[string]any)[0]["vector"] = []float64{0, 0, 0}
			},
			want: ErrComponentMismatch,
		},
		{
			name: "unknown feature name",
			mutate: func(m map[string]any) {
				m["components"].([]map[string]any)[0]["feature_weights"] = map[string]float64{"torso_lenght": 1}
			},
			want: ErrUnknownFeature,
		},
		{
			name:   "index out of range",
			mutate: func(m map[string]any) { m["indices"] = []int{0, 1, 9} },
			want:   ErrModelIndexRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := quadModelFile("broken_"+tt.name, map[string]float64{"torso_length": 1})
			tt.mutate(model)
			path := writeModelFile(t, dir, model)
			if _, err := LoadModel(path); !errors.Is(err, tt.want) {
				t.Errorf("LoadModel error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadModelMissingFile(t *testing.T) {
	if _, err := LoadModel(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing model file")
	}
}

func TestZeroWeightComponentReproducesBase(t *testing.T) {
	dir := t.TempDir()
	path := writeModelFile(t, dir, quadModelFile("plain", map[string]float64{"torso_length": 0, "arm_extension": 0}))
	model, err := LoadModel(path)
	if err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}

	features := pose.Features{TorsoLength: 1.2, ArmExtension: 1.4, MovementIntensity: 1}
	center := math.Vec3{X: 2, Y: 3, Z: 4}
	size := math.Vec3{X: 2, Y: 4, Z: 1}
	generated := model.Synthesize(features, center, size, mesh.Color{R: 1, G: 1, B: 1, A: 1})

	// Only the recenter/rescale transform applies: every feature weight
	// is zero so the displacement field never fires.
	for i, base := range model.BaseVerts {
		want := base.Sub(model.Centroid).Mul(math.Vec3{X: 2, Y: 4, Z: 1}).Add(center)
		got := math.Vec3{
			X: generated.Mesh.Positions[i*3],
			Y: generated.Mesh.Positions[i*3+1],
			Z: generated.Mesh.Positions[i*3+2],
		}
		if got.Distance(want) > 1e-9 {
			t.Errorf("vertex %d = %v, want %v", i, got, want)
		}
	}
}

func TestComponentDisplacesVertices(t *testing.T) {
	dir := t.TempDir()
	path := writeModelFile(t, dir, quadModelFile("draped", map[string]float64{"torso_length": 1}))
	model, err := LoadModel(path)
	if err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}

	features := pose.Features{TorsoLength: 0.5}
	center := math.Vec3{}
	size := math.Vec3{X: 1, Y: 1, Z: 1}
	displaced := model.Synthesize(features, center, size, mesh.Color{A: 1})
	still := model.Synthesize(pose.Features{}, center, size, mesh.Color{A: 1})

	// The drape component pulls the bottom edge down when weighted.
	if displaced.Mesh.Positions[1] >= still.Mesh.Positions[1] {
		t.Errorf("expected weighted component to lower vertex 0: %v vs %v",
			displaced.Mesh.Positions[1], still.Mesh.Positions[1])
	}
}

func TestSynthesizeShading(t *testing.T) {
	dir := t.TempDir()
	path := writeModelFile(t, dir, quadModelFile("shaded", map[string]float64{"torso_length": 1}))
	model, err := LoadModel(path)
	if err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}

	alpha := 0.85
	generated := model.Synthesize(
		pose.Features{TorsoLength: 1, MovementIntensity: 1, OcclusionLeft: 1, OcclusionRight: 1},
		math.Vec3{}, math.Vec3{X: 1, Y: 1, Z: 1}, mesh.Color{R: 0.9, G: 0.9, B: 0.9, A: alpha},
	)

	for i := 0; i < generated.Mesh.VertexCount(); i++ {
		r := generated.Mesh.Colors[i*4]
		g := generated.Mesh.Colors[i*4+1]
		b := generated.Mesh.Colors[i*4+2]
		a := generated.Mesh.Colors[i*4+3]
		for _, channel := range []float64{r, g, b} {
			if channel < 0 || channel > 1 || gomath.IsNaN(channel) {
				t.Errorf("vertex %d channel %v outside [0, 1]", i, channel)
			}
		}
		if a != alpha {
			t.Errorf("vertex %d alpha = %v, want %v (carried unchanged)", i, a, alpha)
		}
	}
	if generated.Mode != ModePretrained {
		t.Errorf("mode = %q, want %q", generated.Mode, ModePretrained)
	}
}

func TestComponentWeight(t *testing.T) {
	component := Component{
		Weights: map[pose.Feature]float64{
			pose.FeatureTorsoLength:  2,
			pose.FeatureArmExtension: -1,
		},
	}
	features := pose.Features{TorsoLength: 0.5, ArmExtension: 0.25}
	if got, want := component.Weight(features), 0.75; gomath.Abs(got-want) > 1e-12 {
		t.Errorf("Weight() = %v, want %v", got, want)
	}
}
