package flock

import (
	"math"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/spatial"
)

// Steering constants shared by every boid.
const (
	separationSpacing     = 1.5   // neighbors closer than 1.5x the summed radii push at full strength
	separationMinDistance = 0.001 // floor on the effective separation distance
	seekThreshold         = 50.0  // no pull towards the origin inside this distance
	seekFalloff           = 500.0
	wanderJitter          = 0.1
	wanderAhead           = 2.0
	initialWanderAngle    = math.Pi
)

// Grid is the spatial index the flock registers its boids in.
type Grid = spatial.Grid[*Boid]

// Appearance carries the rendering assets of a boid. The simulation never
// looks inside it.
type Appearance struct {
	Geometry any
	Material any
}

// Forces is the breakdown of the last steering computation, before scaling.
type Forces struct {
	Separation geometry.Vector3
	Alignment  geometry.Vector3
	Cohesion   geometry.Vector3
	Seek       geometry.Vector3
	Wander     geometry.Vector3
}

// Sum adds the contributions in the fixed order separation, alignment, seek,
// cohesion, wander.
func (f Forces) Sum() geometry.Vector3 {
	return f.Separation.Add(f.Alignment).Add(f.Seek).Add(f.Cohesion).Add(f.Wander)
}

// Transform is what a renderer needs to place a boid: where it is and which
// way it faces. Yaw is measured in the XZ plane from +X towards +Z, pitch
// above that plane.
type Transform struct {
	Position geometry.Vector3
	Yaw      float64
	Pitch    float64
}

// Boid is one member of the flock.
type Boid struct {
	id         string
	appearance Appearance
	params     *Params // owned by the Flock, shared by every boid

	position  geometry.Vector3
	velocity  geometry.Vector3
	direction geometry.Vector3
	radius    float64

	maxSteeringForce float64
	maxSpeed         float64
	acceleration     float64

	wanderAngle float64
	handle      spatial.Handle

	steering geometry.Vector3
	forces   Forces
}

// newBoid places a boid uniformly inside params.SpawnBounds with a random
// heading. The heading is not normalized until the first Step.
func newBoid(id string, params *Params, appearance Appearance, rng Rand) *Boid {
	lo, hi := params.SpawnBounds.Min, params.SpawnBounds.Max
	position := geometry.Vector3{
		X: rng.Range(lo.X, hi.X),
		Y: rng.Range(lo.Y, hi.Y),
		Z: rng.Range(lo.Z, hi.Z),
	}
	direction := geometry.Vector3{
		X: rng.Range(-1, 1),
		Y: rng.Range(-1, 1),
		Z: rng.Range(-1, 1),
	}
	return &Boid{
		id:               id,
		appearance:       appearance,
		params:           params,
		position:         position,
		velocity:         direction,
		direction:        direction,
		radius:           params.AgentRadius,
		maxSteeringForce: params.MaxSteeringForce,
		maxSpeed:         params.MaxSpeed,
		acceleration:     params.Acceleration,
		wanderAngle:      initialWanderAngle,
	}
}

func (b *Boid) ID() string                  { return b.id }
func (b *Boid) Position() geometry.Vector3  { return b.position }
func (b *Boid) Velocity() geometry.Vector3  { return b.velocity }
func (b *Boid) Direction() geometry.Vector3 { return b.direction }
func (b *Boid) Radius() float64             { return b.radius }
func (b *Boid) WanderAngle() float64        { return b.wanderAngle }
func (b *Boid) Handle() spatial.Handle      { return b.handle }
func (b *Boid) Appearance() Appearance      { return b.appearance }

// SteeringForce returns the force added to the velocity during the last Step,
// after scaling and clamping.
func (b *Boid) SteeringForce() geometry.Vector3 { return b.steering }

// Forces returns the unscaled contributions computed during the last Step.
func (b *Boid) Forces() Forces { return b.forces }

// Transform returns the boid's placement for display.
func (b *Boid) Transform() Transform {
	return Transform{
		Position: b.position,
		Yaw:      b.direction.Yaw(),
		Pitch:    b.direction.Pitch(),
	}
}

// Step advances the boid by dt seconds: it gathers neighbors from grid,
// steers, integrates its position and re-registers itself in grid.
// Neighbors see the new position immediately.
func (b *Boid) Step(dt float64, grid *Grid, rng Rand) {
	local := grid.QueryRadius(b.position, b.params.SenseRadius, b.id)

	b.applySteering(dt, local, rng)
	b.position = b.position.Add(b.velocity.Mul(dt))

	b.handle = grid.Update(b.id, b, b.handle)
}

// CheckBounds teleports the boid to the opposite edge of area when it has
// left it, then re-registers it in grid. At most one axis is corrected per
// call, tested in the order +X, -X, -Z, +Z. It reports whether the boid moved.
func (b *Boid) CheckBounds(grid *Grid, area PlayArea) bool {
	wrapped := true
	switch {
	case b.position.X > area.MaxX:
		b.position.X = area.MinX
	case b.position.X < area.MinX:
		b.position.X = area.MaxX
	case b.position.Z < area.MinZ:
		b.position.Z = area.MaxZ
	case b.position.Z > area.MaxZ:
		b.position.Z = area.MinZ
	default:
		wrapped = false
	}

	b.handle = grid.Update(b.id, b, b.handle)
	return wrapped
}

func (b *Boid) applySteering(dt float64, local []*Boid, rng Rand) {
	b.forces = Forces{
		Separation: b.separation(local),
		Alignment:  b.alignment(local),
		Cohesion:   b.cohesion(local),
		Seek:       b.seek(geometry.Zero),
		Wander:     b.wander(rng),
	}

	b.steering = b.forces.Sum().Mul(b.acceleration * dt).ClampLen(b.maxSteeringForce)
	b.velocity = b.velocity.Add(b.steering).ClampLen(b.maxSpeed)
	b.direction = b.velocity.Normalize()
}

// separation pushes away from every neighbor, harder the closer it is.
// Contributions are summed, not averaged.
func (b *Boid) separation(local []*Boid) geometry.Vector3 {
	force := geometry.Zero
	if !b.params.Forces.Separation {
		return force
	}
	for _, other := range local {
		sumRadii := b.radius + other.radius
		distance := math.Max(
			other.position.DistanceTo(b.position)-separationSpacing*sumRadii,
			separationMinDistance)
		away := b.position.Sub(other.position).Normalize()
		force = force.Add(away.Mul(b.params.SeparationWeight / distance * sumRadii))
	}
	return force
}

// alignment steers towards the summed heading of the neighbors.
func (b *Boid) alignment(local []*Boid) geometry.Vector3 {
	force := geometry.Zero
	if !b.params.Forces.Alignment {
		return force
	}
	for _, other := range local {
		force = force.Add(other.direction)
	}
	return force.Normalize().Mul(b.params.AlignmentWeight)
}

// cohesion steers towards the average position of the neighbors.
func (b *Boid) cohesion(local []*Boid) geometry.Vector3 {
	if !b.params.Forces.Cohesion || len(local) == 0 {
		return geometry.Zero
	}
	center := geometry.Zero
	for _, other := range local {
		center = center.Add(other.position)
	}
	center = center.Mul(1.0 / float64(len(local)))
	return center.Sub(b.position).Normalize().Mul(b.params.CohesionWeight)
}

// seek pulls towards destination, quadratically stronger past seekThreshold.
func (b *Boid) seek(destination geometry.Vector3) geometry.Vector3 {
	falloff := math.Max(0, (b.position.DistanceTo(destination)-seekThreshold)/seekFalloff)
	return destination.Sub(b.position).Normalize().Mul(b.params.OriginWeight * falloff * falloff)
}

// wander drifts the heading around a point on a horizontal circle ahead of
// the boid. The angle persists between steps so the drift stays smooth.
func (b *Boid) wander(rng Rand) geometry.Vector3 {
	b.wanderAngle += wanderJitter * rng.Range(-2*math.Pi, 2*math.Pi)
	onCircle := geometry.Vector3{X: math.Cos(b.wanderAngle), Z: math.Sin(b.wanderAngle)}
	return b.direction.Mul(wanderAhead).Add(onCircle).Normalize().Mul(b.params.WanderWeight)
}
