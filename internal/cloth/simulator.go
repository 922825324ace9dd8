// Package cloth animates garment meshes with a mass-spring explicit
// integrator. The result is a frame sequence suitable for playback on
// the client, not a physically accurate drape.
package cloth

import (
	"errors"
	"fmt"
	gomath "math"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/fitmirror/internal/pose"
	"github.com/Faultbox/fitmirror/pkg/math"
	"github.com/Faultbox/fitmirror/pkg/mesh"
)

var (
	ErrVertexStride = errors.New("cloth: vertex data length must be divisible by 3")
	ErrIndexStride  = errors.New("cloth: index count must be divisible by 3")
	ErrIndexRange   = errors.New("cloth: triangle index out of range")
)

// Params tune the integrator.
type Params struct {
	TimeStep  float64
	Steps     int
	Damping   float64
	Stiffness float64
}

// DefaultParams returns the integrator defaults: 28 steps at 30 fps.
func DefaultParams() Params {
	return Params{
		TimeStep:  1.0 / 30.0,
		Steps:     28,
		Damping:   0.92,
		Stiffness: 14.0,
	}
}

// Frame is a full vertex snapshot at one point in time.
type Frame struct {
	Time     float64
	Vertices []float64
}

// Simulation is the animation produced by a Simulator run.
type Simulation struct {
	Frames    []Frame
	FrameRate float64
	Pinned    []int
}

// FrameCount reports the number of recorded frames.
func (s *Simulation) FrameCount() int { return len(s.Frames) }

// spring connects two vertices, stored with I < J.
type spring struct {
	I, J int
}

// Simulator runs the mass-spring integration.
type Simulator struct {
	params Params
	log    *zap.Logger
}

// NewSimulator creates a Simulator. A nil logger disables logging.
func NewSimulator(params Params, log *zap.Logger) *Simulator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Simulator{params: params, log: log}
}

// Simulate animates the mesh under gravity, wind and spring tension.
// Pinned vertices are snapped back to their rest position after every
// step. An empty mesh or index list yields a single zero-time frame.
func (s *Simulator) Simulate(m *mesh.Mesh, indices []uint32, pinned []int, features pose.Features) (*Simulation, error) {
	if len(m.Positions)%3 != 0 {
		return nil, fmt.Errorf("%w: %d floats", ErrVertexStride, len(m.Positions))
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w: %d indices", ErrIndexStride, len(indices))
	}

	if len(m.Positions) == 0 || len(indices) == 0 {
		snapshot := make([]float64, len(m.Positions))
		copy(snapshot, m.Positions)
		return &Simulation{
			Frames:    []Frame{{Time: 0, Vertices: snapshot}},
			FrameRate: 0,
			Pinned:    clampPins(pinned, len(m.Positions)/3),
		}, nil
	}

	positions := chunkVectors(m.Positions)
	for _, idx := range indices {
		if int(idx) >= len(positions) {
			return nil, fmt.Errorf("%w: index %d, %d vertices", ErrIndexRange, idx, len(positions))
		}
	}

	base := make([]math.Vec3, len(positions))
	copy(base, positions)
	velocities := make([]math.Vec3, len(positions))

	springs := buildSprings(indices)
	restLengths := make([]float64, len(springs))
	for i, sp := range springs {
		restLengths[i] = base[sp.I].Distance(base[sp.J])
	}

	pins := clampPins(pinned, len(positions))

	gravity := 0.38 + 0.25*features.TorsoLength
	windStrength := 0.1 + 0.22*features.MovementIntensity
	swayBias := features.ArmExtension

	dt := s.params.TimeStep
	frames := make([]Frame, 0, s.params.Steps)
	for step := 0; step < s.params.Steps; step++ {
		phase := float64(step) / float64(max(s.params.Steps-1, 1))
		gust := gomath.Sin(gomath.Pi * phase * (1.15 + swayBias*0.3))
		lateral := gomath.Cos(gomath.Pi*phase) * windStrength * 0.18 * swayBias

		forces := make([]math.Vec3, len(positions))
		for i := range forces {
			forces[i] = math.Vec3{
				X: lateral,
				Y: -gravity,
				Z: windStrength * gust,
			}
		}

		for i, sp := range springs {
			delta := positions[sp.J].Sub(positions[sp.I])
			length := delta.Length()
			if length < 1e-6 {
				continue
			}
			displacement := length - restLengths[i]
			force := delta.Scale(s.params.Stiffness * displacement / length)
			forces[sp.I] = forces[sp.I].Add(force)
			forces[sp.J] = forces[sp.J].Sub(force)
		}

		for i := range positions {
			velocities[i] = velocities[i].Add(forces[i].Scale(dt)).Scale(s.params.Damping)
			positions[i] = positions[i].Add(velocities[i].Scale(dt))
		}

		for _, idx := range pins {
			positions[idx] = base[idx]
			velocities[idx] = math.Vec3{}
		}

		frames = append(frames, Frame{
			Time:     float64(step) * dt,
			Vertices: snapshot(positions),
		})
	}

	frameRate := 0.0
	if dt != 0 {
		frameRate = 1.0 / dt
	}
	s.log.Debug("cloth simulation finished",
		zap.Int("frames", len(frames)),
		zap.Float64("frame_rate", frameRate),
		zap.Int("springs", len(springs)))

	return &Simulation{Frames: frames, FrameRate: frameRate, Pinned: pins}, nil
}

// buildSprings collects every triangle edge once as an unordered pair.
func buildSprings(indices []uint32) []spring {
	seen := make(map[spring]struct{})
	for i := 0; i+2 < len(indices); i += 3 {
		edges := [3]spring{
			orderSpring(int(indices[i]), int(indices[i+1])),
			orderSpring(int(indices[i+1]), int(indices[i+2])),
			orderSpring(int(indices[i+2]), int(indices[i])),
		}
		for _, edge := range edges {
			seen[edge] = struct{}{}
		}
	}
	springs := make([]spring, 0, len(seen))
	for edge := range seen {
		springs = append(springs, edge)
	}
	sort.Slice(springs, func(a, b int) bool {
		if springs[a].I != springs[b].I {
			return springs[a].I < springs[b].I
		}
		return springs[a].J < springs[b].J
	})
	return springs
}

func orderSpring(i, j int) spring {
	if i > j {
		i, j = j, i
	}
	return spring{I: i, J: j}
}

// clampPins drops pin indices outside the vertex range.
func clampPins(pinned []int, vertexCount int) []int {
	pins := make([]int, 0, len(pinned))
	for _, idx := range pinned {
		if idx >= 0 && idx < vertexCount {
			pins = append(pins, idx)
		}
	}
	return pins
}

func chunkVectors(values []float64) []math.Vec3 {
	vectors := make([]math.Vec3, len(values)/3)
	for i := range vectors {
		vectors[i] = math.Vec3{X: values[i*3], Y: values[i*3+1], Z: values[i*3+2]}
	}
	return vectors
}

// snapshot flattens positions rounded to six decimals for stable export.
func snapshot(positions []math.Vec3) []float64 {
	out := make([]float64, 0, len(positions)*3)
	for _, p := range positions {
		out = append(out, round6(p.X), round6(p.Y), round6(p.Z))
	}
	return out
}

func round6(v float64) float64 {
	return gomath.Round(v*1e6) / 1e6
}
