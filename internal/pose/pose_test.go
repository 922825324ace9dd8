package pose

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePPM(t *testing.T, dir string, width, height int) string {
	t.Helper()
	var b strings.Builder
	fmt.Fprintf(&b, "P3\n%d %d\n255\n", width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			b.WriteString("180 180 180 ")
		}
		b.WriteString("\n")
	}
	path := filepath.Join(dir, "photo.ppm")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatalf("failed to write PPM: %v", err)
	}
	return path
}

func TestEstimateScalesWithImageHeight(t *testing.T) {
	path := writePPM(t, t.TempDir(), 160, 400)

	result := NewEstimator(nil).Estimate(path)

	if result.Scale != 0.5 {
		t.Errorf("scale = %v, want 0.5 for a 400px image", result.Scale)
	}
	neck := result.Keypoints["neck"]
	if neck.Y != 0.4 {
		t.Errorf("neck.Y = %v, want 0.4 (0.8 * scale)", neck.Y)
	}
	if len(result.Keypoints) != 16 {
		t.Errorf("keypoint count = %d, want 16", len(result.Keypoints))
	}
	if len(result.Edges) != 15 {
		t.Errorf("edge count = %d, want 15", len(result.Edges))
	}
}

func TestEstimateFallbackFrame(t *testing.T) {
	// Missing image falls back to 512x800, i.e. scale 1.
	result := NewEstimator(nil).Estimate(filepath.Join(t.TempDir(), "missing.png"))

	if result.Scale != 1.0 {
		t.Errorf("scale = %v, want fallback 1.0", result.Scale)
	}
}

func TestOrderedKeypointsStable(t *testing.T) {
	path := writePPM(t, t.TempDir(), 100, 800)
	result := NewEstimator(nil).Estimate(path)

	ordered := result.Ordered()
	if len(ordered) != 16 {
		t.Fatalf("ordered keypoint count = %d, want 16", len(ordered))
	}
	if ordered[0].Name != "pelvis" {
		t.Errorf("first keypoint = %s, want pelvis", ordered[0].Name)
	}
	if ordered[len(ordered)-1].Name != "ankle_r" {
		t.Errorf("last keypoint = %s, want ankle_r", ordered[len(ordered)-1].Name)
	}
}

func TestBoundingBoxCoversSkeleton(t *testing.T) {
	path := writePPM(t, t.TempDir(), 100, 800)
	result := NewEstimator(nil).Estimate(path)

	bounds := result.BoundingBox
	if bounds[0] != -0.32 || bounds[2] != 0.32 {
		t.Errorf("x bounds = [%v, %v], want [-0.32, 0.32]", bounds[0], bounds[2])
	}
	if bounds[1] != -1.2 || bounds[3] != 1.1 {
		t.Errorf("y bounds = [%v, %v], want [-1.2, 1.1]", bounds[1], bounds[3])
	}
}

func TestCreateBodyMesh(t *testing.T) {
	path := writePPM(t, t.TempDir(), 100, 800)
	result := NewEstimator(nil).Estimate(path)

	body := CreateBodyMesh(result)

	// Torso + head + 4 limb segments per side: 10 boxes of 24 vertices.
	if got, want := body.VertexCount(), 10*24; got != want {
		t.Errorf("body vertex count = %d, want %d", got, want)
	}
	if err := body.Validate(); err != nil {
		t.Errorf("body mesh invalid: %v", err)
	}
}
