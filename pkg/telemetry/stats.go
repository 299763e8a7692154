// Package telemetry summarizes flock snapshots and writes them as CSV.
package telemetry

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// Stats is one row of telemetry.
type Stats struct {
	Tick    uint64  `csv:"tick"`
	SimTime float64 `csv:"sim_time"`
	Agents  int     `csv:"agents"`

	MeanSpeed   float64 `csv:"speed_mean"`
	SpeedStdDev float64 `csv:"speed_std"`

	// Polarization is the length of the mean heading: 1 when every boid faces
	// the same way, near 0 when headings cancel out.
	Polarization float64 `csv:"polarization"`

	CentroidX float64 `csv:"centroid_x"`
	CentroidY float64 `csv:"centroid_y"`
	CentroidZ float64 `csv:"centroid_z"`
	Spread    float64 `csv:"spread"` // mean distance to the centroid

	Outside int `csv:"outside_play_area"`
}

// Compute summarizes a snapshot. An empty snapshot yields zero statistics.
func Compute(s flock.Snapshot) Stats {
	st := Stats{Tick: s.Tick, SimTime: s.Elapsed, Agents: len(s.Agents)}
	n := len(s.Agents)
	if n == 0 {
		return st
	}

	speeds := make([]float64, n)
	xs := make([]float64, n)
	ys := make([]float64, n)
	zs := make([]float64, n)
	heading := geometry.Zero
	for i, a := range s.Agents {
		speeds[i] = a.Velocity.Len()
		xs[i], ys[i], zs[i] = a.Position.X, a.Position.Y, a.Position.Z
		heading = heading.Add(a.Direction)
		if !s.PlayArea.Contains(a.Position) {
			st.Outside++
		}
	}

	if n > 1 {
		st.MeanSpeed, st.SpeedStdDev = stat.MeanStdDev(speeds, nil)
	} else {
		st.MeanSpeed = speeds[0]
	}
	st.Polarization = heading.Len() / float64(n)

	st.CentroidX = stat.Mean(xs, nil)
	st.CentroidY = stat.Mean(ys, nil)
	st.CentroidZ = stat.Mean(zs, nil)
	centroid := geometry.Vector3{X: st.CentroidX, Y: st.CentroidY, Z: st.CentroidZ}

	distances := make([]float64, n)
	for i, a := range s.Agents {
		distances[i] = a.Position.DistanceTo(centroid)
	}
	st.Spread = floats.Sum(distances) / float64(n)
	return st
}
