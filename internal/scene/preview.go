package scene

import (
	"fmt"
	"os"

	svg "github.com/ajstarks/svgo/float"
	"go.uber.org/zap"

	"github.com/Faultbox/fitmirror/internal/pose"
	"github.com/Faultbox/fitmirror/pkg/math"
	"github.com/Faultbox/fitmirror/pkg/mesh"
)

const (
	previewWidth  = 480.0
	previewHeight = 720.0
)

var silhouetteLandmarks = []string{"shoulder_l", "shoulder_r", "hip_l", "hip_r"}

// RenderPreview draws the pose skeleton and a rounded garment
// silhouette as an SVG. The silhouette is omitted when any of the
// shoulder or hip landmarks is missing.
func (e *Exporter) RenderPreview(p *pose.Result, garmentColor mesh.Color, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create preview: %w", err)
	}
	defer file.Close()

	points := make(map[string]math.Vec2, len(p.Keypoints))
	for name, position := range p.Keypoints {
		points[name] = projectPoint(position)
	}

	canvas := svg.New(file)
	canvas.Start(previewWidth, previewHeight)
	canvas.Rect(0, 0, previewWidth, previewHeight, "fill:#f4f4f6")

	if box, ok := silhouetteBox(points); ok {
		canvas.Roundrect(box[0], box[1], box[2], box[3], 18, 18,
			fmt.Sprintf("fill:%s;opacity:0.85", rgbaStyle(garmentColor)))
	}
	for _, edge := range p.Edges {
		a, okA := points[edge[0]]
		b, okB := points[edge[1]]
		if !okA || !okB {
			continue
		}
		canvas.Line(a.X, a.Y, b.X, b.Y,
			"stroke:#444;stroke-width:4;stroke-linecap:round")
	}
	canvas.End()

	e.log.Info("preview rendered", zap.String("path", path))
	return nil
}

// projectPoint maps a world-space keypoint onto the canvas with the
// vertical axis flipped.
func projectPoint(p math.Vec3) math.Vec2 {
	scale := min(previewWidth, previewHeight) * 0.35
	return math.Vec2{
		X: previewWidth/2 + p.X*scale,
		Y: previewHeight/2 - p.Y*scale,
	}
}

// silhouetteBox bounds the projected shoulder and hip points, padded
// vertically, as x/y/width/height.
func silhouetteBox(points map[string]math.Vec2) ([4]float64, bool) {
	for _, name := range silhouetteLandmarks {
		if _, ok := points[name]; !ok {
			return [4]float64{}, false
		}
	}
	left := min(points["shoulder_l"].X, points["hip_l"].X)
	right := max(points["shoulder_r"].X, points["hip_r"].X)
	top := min(points["shoulder_l"].Y, points["shoulder_r"].Y) - 20
	bottom := max(points["hip_l"].Y, points["hip_r"].Y) + 20
	return [4]float64{left, top, right - left, bottom - top}, true
}

func rgbaStyle(color mesh.Color) string {
	r := math.Clamp(color.R, 0, 1)
	g := math.Clamp(color.G, 0, 1)
	b := math.Clamp(color.B, 0, 1)
	a := math.Clamp(color.A, 0, 1)
	return fmt.Sprintf("rgba(%d, %d, %d, %.2f)", int(r*255), int(g*255), int(b*255), a)
}
