// Package pipeline runs the full try-on flow for one request: pose
// estimation, garment synthesis, cloth simulation and scene export.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/fitmirror/internal/cloth"
	"github.com/Faultbox/fitmirror/internal/garment"
	"github.com/Faultbox/fitmirror/internal/pose"
	"github.com/Faultbox/fitmirror/internal/scene"
	"github.com/Faultbox/fitmirror/pkg/mesh"
)

const (
	sceneFileName      = "scene.gltf"
	previewFileName    = "preview.svg"
	simulationFileName = "cloth_simulation.json"
)

// Request selects the image and garment for one try-on run.
type Request struct {
	ImagePath string
	OutputDir string
	GarmentID string
	SizeID    string
	ColorID   string
}

// Artifacts lists the files a run produced plus its metadata record.
// SimulationPath is empty when the simulation was skipped or failed.
type Artifacts struct {
	ModelPath      string
	PreviewPath    string
	SimulationPath string
	Metadata       map[string]any
}

// Pipeline wires the try-on stages together. Construct once and share;
// all per-request state stays on the stack of Run.
type Pipeline struct {
	estimator   *pose.Estimator
	catalog     *garment.Catalog
	synthesizer *garment.Synthesizer
	simulator   *cloth.Simulator
	exporter    *scene.Exporter
	log         *zap.Logger
}

// New builds a Pipeline around the given catalog and simulation
// parameters. A nil logger disables logging.
func New(catalog *garment.Catalog, params cloth.Params, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		estimator:   pose.NewEstimator(log),
		catalog:     catalog,
		synthesizer: garment.NewSynthesizer(catalog, log),
		simulator:   cloth.NewSimulator(params, log),
		exporter:    scene.NewExporter(log),
		log:         log,
	}
}

// Run executes the try-on stages for one request. A failing cloth
// simulation degrades the result to scene plus preview; every other
// stage failure aborts the request.
func (p *Pipeline) Run(req Request) (*Artifacts, error) {
	p.log.Info("pipeline started",
		zap.String("image", req.ImagePath),
		zap.String("garment", req.GarmentID),
		zap.String("size", req.SizeID),
		zap.String("color", req.ColorID))

	estimated := p.estimator.Estimate(req.ImagePath)
	bodyMesh := pose.CreateBodyMesh(estimated)

	generated, colorway, err := p.synthesizer.Build(estimated, req.GarmentID, req.SizeID, req.ColorID)
	if err != nil {
		return nil, err
	}

	combined := &mesh.Mesh{}
	combined.Merge(bodyMesh)
	combined.Merge(generated.Mesh)

	if err := os.MkdirAll(req.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	modelPath := filepath.Join(req.OutputDir, sceneFileName)
	previewPath := filepath.Join(req.OutputDir, previewFileName)
	if err := p.exporter.ExportGLTF(combined, modelPath); err != nil {
		return nil, err
	}
	if err := p.exporter.RenderPreview(estimated, colorway.Color, previewPath); err != nil {
		return nil, err
	}

	artifacts := &Artifacts{ModelPath: modelPath, PreviewPath: previewPath}
	var simulationMeta map[string]any
	if len(generated.Mesh.Indices) > 0 {
		simulationMeta = p.simulateGarment(generated, req.OutputDir, artifacts)
	}

	artifacts.Metadata = buildMetadata(req, estimated, generated, colorway, simulationMeta)
	p.log.Info("pipeline finished", zap.String("image", req.ImagePath))
	return artifacts, nil
}

// simulateGarment runs the cloth stage. Failures are logged and
// swallowed so the static artifacts survive.
func (p *Pipeline) simulateGarment(generated *garment.Generated, outputDir string, artifacts *Artifacts) map[string]any {
	simulation, err := p.simulator.Simulate(generated.Mesh, generated.Mesh.Indices, generated.Pinned, generated.Features)
	if err != nil {
		p.log.Warn("cloth simulation failed, omitting animation artifact", zap.Error(err))
		return nil
	}
	simulationPath := filepath.Join(outputDir, simulationFileName)
	if err := p.exporter.ExportSimulation(simulation, simulationPath); err != nil {
		p.log.Warn("failed to export cloth animation", zap.Error(err))
		return nil
	}
	artifacts.SimulationPath = simulationPath
	return map[string]any{
		"frame_rate":      simulation.FrameRate,
		"frame_count":     simulation.FrameCount(),
		"pinned_vertices": simulation.Pinned,
		"file":            simulationFileName,
	}
}

func buildMetadata(req Request, estimated *pose.Result, generated *garment.Generated, colorway garment.Colorway, simulationMeta map[string]any) map[string]any {
	keypoints := make([]map[string]any, 0, len(estimated.Keypoints))
	for _, kp := range estimated.Ordered() {
		keypoints = append(keypoints, map[string]any{
			"name":     kp.Name,
			"position": []float64{kp.Position.X, kp.Position.Y, kp.Position.Z},
		})
	}

	metadata := map[string]any{
		"garment": map[string]any{
			"id":         req.GarmentID,
			"size":       req.SizeID,
			"color":      colorway.ID,
			"color_hex":  colorway.Hex,
			"color_name": colorway.Name,
			"generator": map[string]any{
				"mode":                  generated.Mode,
				"pose_features":         generated.Features.Map(),
				"pose_features_summary": generated.Features.Summary(),
				"center":                []float64{generated.Center.X, generated.Center.Y, generated.Center.Z},
				"size":                  []float64{generated.Size.X, generated.Size.Y, generated.Size.Z},
				"pinned_vertices":       generated.Pinned,
				"vertex_count":          generated.Mesh.VertexCount(),
			},
		},
		"pose": map[string]any{
			"keypoints":    keypoints,
			"bounding_box": estimated.BoundingBox[:],
			"scale":        estimated.Scale,
		},
	}
	if simulationMeta != nil {
		metadata["simulation"] = simulationMeta
	}
	return metadata
}
