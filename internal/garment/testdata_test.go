package garment

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/fitmirror/internal/pose"
	"github.com/Faultbox/fitmirror/pkg/math"
)

const testManifest = `
garments:
  - id: tshirt_basic
    name: Basic T-Shirt
    category: top
    width_factor: 1.2
    height_factor: 1.4
    depth: 0.12
    sizes:
      - id: S
        scale: 0.94
      - id: M
        scale: 1.0
      - id: L
        scale: 1.08
    colorways:
      - id: classic-white
        name: Classic White
        color: "#f4f4f2"
      - id: midnight
        name: Midnight
        color: "#22222aff"
  - id: hoodie_loose
    name: Loose Hoodie
    colorways:
      - id: ash
        name: Ash
        color: "#9a9a9a"
`

// quadModelFile is a flat quad blend-shape model with one
// torso-length-driven component and two pinned corners.
func quadModelFile(id string, weights map[string]float64) map[string]any {
	return map[string]any{
		"id":            id,
		"vertex_stride": 3,
		"base_vertices": []float64{
			0, 0, 0,
			1, 0, 0,
			1, 1, 0,
			0, 1, 0,
		},
		"indices": []int{0, 1, 2, 0, 2, 3},
		"components": []map[string]any{
			{
				"name":            "drape",
				"vector":          []float64{0, -0.1, 0, 0, -0.1, 0, 0, 0, 0, 0, 0, 0},
				"feature_weights": weights,
			},
		},
		"pinned_vertices": []int{2, 3},
	}
}

// writeCatalogFixture lays out a manifest plus model files and loads
// the catalog from it.
func writeCatalogFixture(t *testing.T, models ...map[string]any) (*Catalog, string) {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "garments.yaml"), []byte(testManifest), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	modelDir := filepath.Join(root, "models")
	if err := os.MkdirAll(modelDir, 0755); err != nil {
		t.Fatalf("failed to create model dir: %v", err)
	}
	for _, model := range models {
		writeModelFile(t, modelDir, model)
	}
	catalog, err := LoadCatalog(root, 4, nil)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	return catalog, root
}

func writeModelFile(t *testing.T, dir string, model map[string]any) string {
	t.Helper()
	data, err := json.Marshal(model)
	if err != nil {
		t.Fatalf("failed to marshal model: %v", err)
	}
	path := filepath.Join(dir, model["id"].(string)+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write model: %v", err)
	}
	return path
}

// testPose builds a unit-scale pose with the joints the synthesizer and
// feature extractor read.
func testPose() *pose.Result {
	keypoints := map[string]math.Vec3{
		"pelvis":     {X: 0, Y: 0, Z: 0},
		"neck":       {X: 0, Y: 0.8, Z: 0},
		"shoulder_l": {X: -0.28, Y: 0.78, Z: 0.05},
		"shoulder_r": {X: 0.28, Y: 0.78, Z: 0.05},
		"wrist_l":    {X: -0.32, Y: 0.1, Z: 0.02},
		"wrist_r":    {X: 0.32, Y: 0.1, Z: 0.02},
		"hip_l":      {X: -0.2, Y: -0.1, Z: 0},
		"hip_r":      {X: 0.2, Y: -0.1, Z: 0},
	}
	return &pose.Result{Keypoints: keypoints, Edges: pose.Edges, Scale: 1.0}
}
