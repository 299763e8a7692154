package flock

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/spatial"
)

func newSeededFlock(t testing.TB, seed uint64, mutate func(*Params)) *Flock {
	t.Helper()
	p := DefaultParams()
	p.Seed = seed
	if mutate != nil {
		mutate(&p)
	}
	f, err := New(p, Appearance{Geometry: "squid", Material: "green"}, NewRand(p.Seed), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return f
}

func TestNew_SpawnsInsideSpawnBounds(t *testing.T) {
	f := newSeededFlock(t, 3, nil)
	p := f.Params()

	if got := len(f.Boids()); got != p.AgentCount {
		t.Fatalf("spawned %d boids; want %d", got, p.AgentCount)
	}
	if f.Grid().Len() != p.AgentCount {
		t.Errorf("grid holds %d boids; want %d", f.Grid().Len(), p.AgentCount)
	}
	seen := make(map[string]bool)
	lo, hi := p.SpawnBounds.Min, p.SpawnBounds.Max
	for _, b := range f.Boids() {
		pos := b.Position()
		if pos.X < lo.X || pos.X >= hi.X || pos.Y < lo.Y || pos.Y >= hi.Y || pos.Z < lo.Z || pos.Z >= hi.Z {
			t.Errorf("boid %s spawned outside spawn bounds at %v", b.ID(), pos)
		}
		if b.Velocity() != b.Direction() {
			t.Errorf("boid %s velocity %v differs from initial direction %v", b.ID(), b.Velocity(), b.Direction())
		}
		if b.WanderAngle() != math.Pi {
			t.Errorf("boid %s wanderAngle = %v; want Pi", b.ID(), b.WanderAngle())
		}
		if b.Radius() != p.AgentRadius {
			t.Errorf("boid %s radius = %v; want %v", b.ID(), b.Radius(), p.AgentRadius)
		}
		if b.Appearance().Geometry != "squid" || b.Appearance().Material != "green" {
			t.Errorf("boid %s appearance not passed through: %+v", b.ID(), b.Appearance())
		}
		if seen[b.ID()] {
			t.Errorf("duplicate boid id %s", b.ID())
		}
		seen[b.ID()] = true
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		want   error
	}{
		{"Zero grid resolution", func(p *Params) { p.GridResolution.X = 0 }, spatial.ErrInvalidResolution},
		{"Negative grid resolution", func(p *Params) { p.GridResolution.Z = -4 }, spatial.ErrInvalidResolution},
		{"Flat world", func(p *Params) { p.WorldBounds.Max.Z = p.WorldBounds.Min.Z }, spatial.ErrInvalidBounds},
		{"Negative agent count", func(p *Params) { p.AgentCount = -1 }, ErrInvalidParams},
		{"Zero max speed", func(p *Params) { p.MaxSpeed = 0 }, ErrInvalidParams},
		{"NaN sense radius", func(p *Params) { p.SenseRadius = math.NaN() }, ErrInvalidParams},
		{"Empty play area", func(p *Params) { p.PlayArea.MaxX = p.PlayArea.MinX }, ErrInvalidParams},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			f, err := New(p, Appearance{}, NewRand(1), nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("New error = %v; want %v", err, tt.want)
			}
			if f != nil {
				t.Error("New returned a flock for an invalid configuration")
			}
		})
	}

	t.Run("Missing random source", func(t *testing.T) {
		if _, err := New(DefaultParams(), Appearance{}, nil, nil); !errors.Is(err, ErrInvalidParams) {
			t.Errorf("New error = %v; want %v", err, ErrInvalidParams)
		}
	})
}

func TestFlock_EmptyTickIsNoop(t *testing.T) {
	f := newSeededFlock(t, 1, func(p *Params) { p.AgentCount = 0 })
	f.Tick(0.016)
	if f.Ticks() != 0 || f.Elapsed() != 0 {
		t.Errorf("empty flock ticked: ticks=%d elapsed=%v", f.Ticks(), f.Elapsed())
	}
	if got := len(f.Snapshot().Agents); got != 0 {
		t.Errorf("empty flock snapshot has %d agents", got)
	}
}

func TestFlock_TickClampsTimestep(t *testing.T) {
	// no acceleration: velocities never change, so displacement reveals dt
	f := newSeededFlock(t, 5, func(p *Params) {
		p.AgentCount = 4
		p.Acceleration = 0
		p.PlayArea = PlayArea{MinX: -400, MaxX: 400, MinZ: -400, MaxZ: 400}
	})

	tests := []struct {
		name   string
		dt     float64
		wantDt float64
	}{
		{"Large frame gap", 5.0, 0.1},
		{"Normal frame", 1.0 / 60, 1.0 / 60},
		{"Negative", -1, 0},
		{"NaN", math.NaN(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := f.Snapshot()
			f.Tick(tt.dt)
			after := f.Snapshot()
			for i, a := range after.Agents {
				want := before.Agents[i].Position.Add(before.Agents[i].Velocity.Mul(tt.wantDt))
				if !a.Position.Eq(want) {
					t.Errorf("agent %d moved to %v; want %v", i, a.Position, want)
				}
			}
			if d := after.Elapsed - before.Elapsed; math.Abs(d-tt.wantDt) > tolerance {
				t.Errorf("elapsed advanced by %v; want %v", d, tt.wantDt)
			}
		})
	}
}

// TestFlock_StepInvariants runs the reference flock and checks the clamps,
// the unit heading and the grid membership after every tick.
func TestFlock_StepInvariants(t *testing.T) {
	f := newSeededFlock(t, 11, nil)
	p := f.Params()

	for tick := 0; tick < 300; tick++ {
		f.Tick(1.0 / 30)
		for _, b := range f.Boids() {
			if got := b.SteeringForce().Len(); got > p.MaxSteeringForce+tolerance {
				t.Fatalf("tick %d: |steering| of %s = %v; want <= %v", tick, b.ID(), got, p.MaxSteeringForce)
			}
			if got := b.Velocity().Len(); got > p.MaxSpeed+tolerance {
				t.Fatalf("tick %d: |velocity| of %s = %v; want <= %v", tick, b.ID(), got, p.MaxSpeed)
			}
			if got := b.Direction().Len(); math.Abs(got-1) > 1e-6 {
				t.Fatalf("tick %d: |direction| of %s = %v; want 1", tick, b.ID(), got)
			}
			cell := f.Grid().CellOf(b.Position())
			if b.Handle().Cell() != cell || !slices.Contains(f.Grid().Members(cell), b.ID()) {
				t.Fatalf("tick %d: %s not indexed in cell %v", tick, b.ID(), cell)
			}
			if pos := b.Position(); math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsNaN(pos.Z) {
				t.Fatalf("tick %d: %s position is NaN", tick, b.ID())
			}
		}
	}
	if f.Grid().Len() != p.AgentCount {
		t.Errorf("grid holds %d boids after ticking; want %d", f.Grid().Len(), p.AgentCount)
	}
	if f.Ticks() != 300 {
		t.Errorf("Ticks = %d; want 300", f.Ticks())
	}
}

func TestFlock_WrapsIntoPlayArea(t *testing.T) {
	f := newSeededFlock(t, 17, nil)
	area := f.Params().PlayArea
	for tick := 0; tick < 600; tick++ {
		f.Tick(0.1)
	}
	// a boid can exceed one axis only while its other axis is being corrected,
	// so after a quiet tick nobody is far outside
	outside := 0
	for _, b := range f.Boids() {
		if !area.Contains(b.Position()) {
			outside++
		}
	}
	if outside > len(f.Boids())/4 {
		t.Errorf("%d of %d boids outside the play area", outside, len(f.Boids()))
	}
}

func TestFlock_Deterministic(t *testing.T) {
	run := func() Snapshot {
		f := newSeededFlock(t, 42, nil)
		for i := 0; i < 200; i++ {
			f.Tick(1.0 / 60)
		}
		return f.Snapshot()
	}
	a, b := run(), run()
	if len(a.Agents) != len(b.Agents) {
		t.Fatalf("agent counts differ: %d vs %d", len(a.Agents), len(b.Agents))
	}
	for i := range a.Agents {
		if a.Agents[i] != b.Agents[i] {
			t.Fatalf("agent %d diverged: %+v vs %+v", i, a.Agents[i], b.Agents[i])
		}
	}

	other := newSeededFlock(t, 43, nil)
	if other.Snapshot().Agents[0].Position == newSeededFlock(t, 42, nil).Snapshot().Agents[0].Position {
		t.Error("different seeds spawned the same first boid")
	}
}

func TestFlock_StepSeesEarlierMovesButNotWraps(t *testing.T) {
	f := emptyFlock(t, func(p *Params) { p.Forces = ForceToggles{Cohesion: true} })
	// a leaves the play area this tick; b must steer towards a's moved
	// position, not towards its wrapped one
	a := placeBoid(f, "a", geometry.Vector3{X: 64.9}, geometry.Vector3{X: 5})
	b := placeBoid(f, "b", geometry.Vector3{X: 60, Z: 0}, geometry.Vector3{Z: 1})

	f.Tick(0.1)

	if a.Position().X != f.Params().PlayArea.MinX {
		t.Fatalf("a was not wrapped: %v", a.Position())
	}
	if got := b.Forces().Cohesion; got.X <= 0 {
		t.Errorf("b cohesion = %v; want it to point at a's pre-wrap position (+X)", got)
	}
}

func TestFlock_SnapshotIsDetached(t *testing.T) {
	f := newSeededFlock(t, 9, func(p *Params) { p.AgentCount = 3 })
	s := f.Snapshot()
	s.Agents[0].Position = geometry.Vector3{X: 1e6}
	if f.Boids()[0].Position().X == 1e6 {
		t.Error("mutating a snapshot changed the flock")
	}
	if s.Forces != AllForces || s.PlayArea != f.Params().PlayArea {
		t.Errorf("snapshot metadata = %+v / %+v", s.Forces, s.PlayArea)
	}
}

func TestPCGRand_Range(t *testing.T) {
	r := NewRand(99)
	for i := 0; i < 1000; i++ {
		v := r.Range(-2*math.Pi, 2*math.Pi)
		if v < -2*math.Pi || v >= 2*math.Pi {
			t.Fatalf("Range returned %v outside [-2Pi, 2Pi)", v)
		}
	}
	a, b := NewRand(5), NewRand(5)
	for i := 0; i < 10; i++ {
		if x, y := a.Range(0, 1), b.Range(0, 1); x != y {
			t.Fatalf("same seed diverged at %d: %v vs %v", i, x, y)
		}
	}
}

func BenchmarkFlock_Tick(b *testing.B) {
	f := newSeededFlock(b, 1, func(p *Params) { p.AgentCount = 500 })
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Tick(1.0 / 60)
	}
}
