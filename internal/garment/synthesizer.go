package garment

import (
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/fitmirror/internal/pose"
	"github.com/Faultbox/fitmirror/pkg/math"
	"github.com/Faultbox/fitmirror/pkg/mesh"
)

// Generator mode tags recorded in metadata.
const (
	ModeAnalytic   = "analytic"
	ModePretrained = "pretrained"
)

// Generated is a synthesized garment mesh with its generator metadata.
type Generated struct {
	Mesh     *mesh.Mesh
	Mode     string
	Pinned   []int
	Features pose.Features
	Center   math.Vec3
	Size     math.Vec3
}

// Synthesizer turns a pose plus a garment selection into a mesh, either
// through a pretrained blend-shape model or an analytic box.
type Synthesizer struct {
	catalog *Catalog
	log     *zap.Logger
}

// NewSynthesizer creates a Synthesizer. A nil logger disables logging.
func NewSynthesizer(catalog *Catalog, log *zap.Logger) *Synthesizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Synthesizer{catalog: catalog, log: log}
}

// Build synthesizes the garment mesh for the selection. The garment's
// bounding box derives from the shoulder/hip keypoint span, the
// garment's width/height/depth factors and the selected size scale.
func (s *Synthesizer) Build(p *pose.Result, garmentID, sizeID, colorID string) (*Generated, Colorway, error) {
	def, err := s.catalog.Get(garmentID)
	if err != nil {
		return nil, Colorway{}, err
	}
	colorway := def.ResolveColorway(colorID)
	scale := def.SizeScale(sizeID)

	keypoints := p.Keypoints
	shoulderWidth := gomath.Abs(keypoints["shoulder_r"].X - keypoints["shoulder_l"].X)
	hipWidth := gomath.Abs(keypoints["hip_r"].X - keypoints["hip_l"].X)
	width := max(shoulderWidth, hipWidth) * def.WidthFactor * scale
	height := (keypoints["hip_l"].Y - keypoints["neck"].Y) * -def.HeightFactor * scale
	depth := def.Depth * scale

	center := math.Vec3{
		X: (keypoints["shoulder_r"].X + keypoints["shoulder_l"].X) / 2.0,
		Y: (keypoints["neck"].Y + keypoints["hip_l"].Y) / 2.0,
		Z: 0.02 * p.Scale,
	}
	size := math.Vec3{X: width, Y: height, Z: depth}
	features := pose.ExtractFeatures(keypoints, p.Scale)

	if s.catalog.HasModel(garmentID) {
		model, err := s.catalog.Models().Load(garmentID)
		if err != nil {
			return nil, Colorway{}, err
		}

		targetSize := size
		if depth <= 1e-5 {
			targetSize.Z = 0.08 * p.Scale
		}
		s.log.Debug("synthesizing garment from pretrained model",
			zap.String("garment", garmentID), zap.Any("features", features.Summary()))

		generated := model.Synthesize(features, center, targetSize, colorway.Color)
		generated.Center = center
		generated.Size = size
		return generated, colorway, nil
	}

	s.log.Debug("synthesizing analytic garment box", zap.String("garment", garmentID))
	return &Generated{
		Mesh:     mesh.Box(center, size, colorway.Color),
		Mode:     ModeAnalytic,
		Pinned:   []int{},
		Features: features,
		Center:   center,
		Size:     size,
	}, colorway, nil
}
