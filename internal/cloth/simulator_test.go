package cloth

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/fitmirror/internal/pose"
	"github.com/Faultbox/fitmirror/pkg/mesh"
)

// quadCloth is a unit quad split into two triangles sharing one edge.
func quadCloth() (*mesh.Mesh, []uint32) {
	m := &mesh.Mesh{
		Positions: []float64{
			0, 0, 0,
			1, 0, 0,
			1, 1, 0,
			0, 1, 0,
		},
	}
	return m, []uint32{0, 1, 2, 0, 2, 3}
}

func TestBuildSpringsDeduplicates(t *testing.T) {
	_, indices := quadCloth()
	springs := buildSprings(indices)

	// Four perimeter edges plus the shared diagonal.
	if len(springs) != 5 {
		t.Fatalf("spring count = %d, want 5", len(springs))
	}
	want := []spring{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {2, 3}}
	for i, sp := range springs {
		if sp != want[i] {
			t.Errorf("spring %d = %v, want %v", i, sp, want[i])
		}
	}
}

func TestRestLengthsMatchInitialDistances(t *testing.T) {
	m, indices := quadCloth()
	sim := NewSimulator(DefaultParams(), nil)

	result, err := sim.Simulate(m, indices, nil, pose.Features{})
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if result.FrameCount() != 28 {
		t.Errorf("frame count = %d, want 28", result.FrameCount())
	}

	// Independently verify the construction-time distances the
	// integrator rests on.
	positions := chunkVectors(m.Positions)
	for _, sp := range buildSprings(indices) {
		got := positions[sp.I].Distance(positions[sp.J])
		dx := m.Positions[sp.J*3] - m.Positions[sp.I*3]
		dy := m.Positions[sp.J*3+1] - m.Positions[sp.I*3+1]
		dz := m.Positions[sp.J*3+2] - m.Positions[sp.I*3+2]
		want := gomath.Sqrt(dx*dx + dy*dy + dz*dz)
		if got != want {
			t.Errorf("spring %v rest length = %v, want %v", sp, got, want)
		}
	}
}

func TestPinnedVerticesStayAtRest(t *testing.T) {
	m, indices := quadCloth()
	pinned := []int{2, 3}
	sim := NewSimulator(DefaultParams(), nil)

	result, err := sim.Simulate(m, indices, pinned, pose.Features{TorsoLength: 1, MovementIntensity: 1})
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	for f, frame := range result.Frames {
		for _, idx := range pinned {
			for axis := 0; axis < 3; axis++ {
				got := frame.Vertices[idx*3+axis]
				want := m.Positions[idx*3+axis]
				if got != want {
					t.Fatalf("frame %d pinned vertex %d axis %d = %v, want rest %v", f, idx, axis, got, want)
				}
			}
		}
	}
}

func TestFreeVerticesFall(t *testing.T) {
	m, indices := quadCloth()
	sim := NewSimulator(DefaultParams(), nil)

	result, err := sim.Simulate(m, indices, []int{2, 3}, pose.Features{})
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}

	last := result.Frames[result.FrameCount()-1]
	if last.Vertices[1] >= m.Positions[1] {
		t.Errorf("unpinned vertex 0 did not fall: y = %v, started at %v", last.Vertices[1], m.Positions[1])
	}
	wantTime := float64(27) * DefaultParams().TimeStep
	if gomath.Abs(last.Time-wantTime) > 1e-12 {
		t.Errorf("last frame time = %v, want %v", last.Time, wantTime)
	}
}

func TestFrameRate(t *testing.T) {
	m, indices := quadCloth()

	result, err := NewSimulator(DefaultParams(), nil).Simulate(m, indices, nil, pose.Features{})
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if gomath.Abs(result.FrameRate-30.0) > 1e-9 {
		t.Errorf("frame rate = %v, want 30", result.FrameRate)
	}

	zero := DefaultParams()
	zero.TimeStep = 0
	result, err = NewSimulator(zero, nil).Simulate(m, indices, nil, pose.Features{})
	if err != nil {
		t.Fatalf("Simulate with zero time step failed: %v", err)
	}
	if result.FrameRate != 0 {
		t.Errorf("frame rate with zero time step = %v, want 0", result.FrameRate)
	}
}

func TestSimulateDegenerateInput(t *testing.T) {
	result, err := NewSimulator(DefaultParams(), nil).Simulate(&mesh.Mesh{}, nil, []int{0, 5}, pose.Features{})
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if result.FrameCount() != 1 {
		t.Fatalf("frame count = %d, want 1", result.FrameCount())
	}
	if result.Frames[0].Time != 0 || len(result.Frames[0].Vertices) != 0 {
		t.Errorf("degenerate frame = %+v, want zero-time empty snapshot", result.Frames[0])
	}
	if result.FrameRate != 0 {
		t.Errorf("frame rate = %v, want 0", result.FrameRate)
	}
	if len(result.Pinned) != 0 {
		t.Errorf("out-of-range pins retained: %v", result.Pinned)
	}
}

func TestSimulateValidation(t *testing.T) {
	sim := NewSimulator(DefaultParams(), nil)

	if _, err := sim.Simulate(&mesh.Mesh{Positions: []float64{0, 0}}, nil, nil, pose.Features{}); !errors.Is(err, ErrVertexStride) {
		t.Errorf("short positions error = %v, want ErrVertexStride", err)
	}
	m, _ := quadCloth()
	if _, err := sim.Simulate(m, []uint32{0, 1}, nil, pose.Features{}); !errors.Is(err, ErrIndexStride) {
		t.Errorf("short indices error = %v, want ErrIndexStride", err)
	}
	if _, err := sim.Simulate(m, []uint32{0, 1, 9}, nil, pose.Features{}); !errors.Is(err, ErrIndexRange) {
		t.Errorf("out-of-range index error = %v, want ErrIndexRange", err)
	}
}

func TestOutOfRangePinsDropped(t *testing.T) {
	m, indices := quadCloth()

	result, err := NewSimulator(DefaultParams(), nil).Simulate(m, indices, []int{-1, 1, 99}, pose.Features{})
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if len(result.Pinned) != 1 || result.Pinned[0] != 1 {
		t.Errorf("pinned = %v, want [1]", result.Pinned)
	}
}
