// Package flock simulates a school of boids steering by separation,
// alignment, cohesion, a pull towards the origin and a random wander, inside
// a play area they wrap around.
package flock

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/spatial"
)

// boidNamespace scopes the ids of boids so that they are stable across runs.
var boidNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("go-flock-simulation/boid"))

// Flock owns the boids and the grid they are indexed in.
type Flock struct {
	params     Params
	grid       *Grid
	boids      []*Boid
	rng        Rand
	appearance Appearance
	logger     log.Logger

	ticks   uint64
	elapsed float64
}

// New builds a flock of params.AgentCount boids, each inserted in a fresh grid.
// A nil logger discards output.
func New(params Params, appearance Appearance, rng Rand, logger log.Logger) (*Flock, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: a random source is required", ErrInvalidParams)
	}
	if logger == nil {
		logger = log.DiscardLogger
	}
	grid, err := spatial.NewGrid[*Boid](params.WorldBounds, params.GridResolution.X, params.GridResolution.Z)
	if err != nil {
		return nil, fmt.Errorf("failed to create spatial grid: %w", err)
	}

	f := &Flock{
		params:     params,
		grid:       grid,
		rng:        rng,
		appearance: appearance,
		logger:     logger,
	}
	f.spawn(params.AgentCount)

	cw, cd := grid.CellSize()
	logger.Infof("flock created: %d boids, grid %dx%d (cell %.1fx%.1f), sense radius %.1f",
		len(f.boids), params.GridResolution.X, params.GridResolution.Z, cw, cd, params.SenseRadius)
	return f, nil
}

func (f *Flock) spawn(count int) {
	f.boids = make([]*Boid, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.NewSHA1(boidNamespace, []byte(fmt.Sprintf("boid-%05d", i))).String()
		b := newBoid(id, &f.params, f.appearance, f.rng)
		b.handle = f.grid.Insert(b.id, b)
		f.boids = append(f.boids, b)
	}
}

// Tick advances the simulation by dt seconds, clamped to [0, MaxTimestep].
// Every boid steps and moves first, then every boid is wrapped back into the
// play area, so no boid sees a wrap made during the same tick.
func (f *Flock) Tick(dt float64) {
	if len(f.boids) == 0 {
		return
	}
	dt = f.clampTimestep(dt)

	for _, b := range f.boids {
		b.Step(dt, f.grid, f.rng)
	}

	wrapped := 0
	for _, b := range f.boids {
		if b.CheckBounds(f.grid, f.params.PlayArea) {
			wrapped++
		}
	}

	f.ticks++
	f.elapsed += dt
	f.logger.Debugf("tick %d: dt=%.4fs, %d boids wrapped", f.ticks, dt, wrapped)
}

func (f *Flock) clampTimestep(dt float64) float64 {
	if math.IsNaN(dt) || dt < 0 {
		return 0
	}
	return math.Min(dt, f.params.MaxTimestep)
}

// SetForces switches steering rules on or off for every boid.
func (f *Flock) SetForces(forces ForceToggles) {
	if f.params.Forces != forces {
		f.logger.Infof("steering rules changed: separation=%t alignment=%t cohesion=%t",
			forces.Separation, forces.Alignment, forces.Cohesion)
	}
	f.params.Forces = forces
}

// Boids returns the boids in stepping order. The slice must not be modified.
func (f *Flock) Boids() []*Boid { return f.boids }

// Grid returns the spatial index.
func (f *Flock) Grid() *Grid { return f.grid }

// Params returns the current parameters.
func (f *Flock) Params() Params { return f.params }

// Ticks returns how many non-empty ticks have run.
func (f *Flock) Ticks() uint64 { return f.ticks }

// Elapsed returns the simulated time in seconds.
func (f *Flock) Elapsed() float64 { return f.elapsed }

// AgentState is a copy of one boid's kinematic state.
type AgentState struct {
	ID        string
	Position  geometry.Vector3
	Velocity  geometry.Vector3
	Direction geometry.Vector3
}

// Snapshot is a detached copy of the flock, safe to hand to another goroutine.
type Snapshot struct {
	Tick     uint64
	Elapsed  float64
	PlayArea PlayArea
	Forces   ForceToggles
	Agents   []AgentState
}

// Snapshot copies the current state of every boid.
func (f *Flock) Snapshot() Snapshot {
	s := Snapshot{
		Tick:     f.ticks,
		Elapsed:  f.elapsed,
		PlayArea: f.params.PlayArea,
		Forces:   f.params.Forces,
		Agents:   make([]AgentState, len(f.boids)),
	}
	for i, b := range f.boids {
		s.Agents[i] = AgentState{
			ID:        b.id,
			Position:  b.position,
			Velocity:  b.velocity,
			Direction: b.direction,
		}
	}
	return s
}
