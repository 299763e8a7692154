package flock

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/spatial"
)

// ErrInvalidParams is returned by Validate and New for unusable tuning values.
var ErrInvalidParams = errors.New("invalid flock parameters")

// Resolution is the number of grid cells along X and Z.
type Resolution struct {
	X int `json:"x" yaml:"x"`
	Z int `json:"z" yaml:"z"`
}

// PlayArea is the rectangle boids wrap around in. Only X and Z are checked.
type PlayArea struct {
	MinX float64 `json:"minX" yaml:"minX"`
	MaxX float64 `json:"maxX" yaml:"maxX"`
	MinZ float64 `json:"minZ" yaml:"minZ"`
	MaxZ float64 `json:"maxZ" yaml:"maxZ"`
}

// Contains reports whether pos lies inside the area, edges included.
func (a PlayArea) Contains(pos geometry.Vector3) bool {
	return pos.X >= a.MinX && pos.X <= a.MaxX && pos.Z >= a.MinZ && pos.Z <= a.MaxZ
}

// ForceToggles switches the neighbor-based steering rules on and off.
type ForceToggles struct {
	Separation bool `json:"separation" yaml:"separation"`
	Alignment  bool `json:"alignment" yaml:"alignment"`
	Cohesion   bool `json:"cohesion" yaml:"cohesion"`
}

// AllForces enables every steering rule.
var AllForces = ForceToggles{Separation: true, Alignment: true, Cohesion: true}

// Params holds every tuning value supplied at flock creation.
type Params struct {
	// Population
	AgentCount  int     `json:"agentCount" yaml:"agentCount"`
	AgentRadius float64 `json:"agentRadius" yaml:"agentRadius"`

	// Physics
	MaxSpeed         float64 `json:"maxSpeed" yaml:"maxSpeed"`
	Acceleration     float64 `json:"acceleration" yaml:"acceleration"`
	MaxSteeringForce float64 `json:"maxSteeringForce" yaml:"maxSteeringForce"`
	MaxTimestep      float64 `json:"maxTimestep" yaml:"maxTimestep"` // seconds

	// Force weights
	SeparationWeight float64 `json:"separationWeight" yaml:"separationWeight"`
	AlignmentWeight  float64 `json:"alignmentWeight" yaml:"alignmentWeight"`
	CohesionWeight   float64 `json:"cohesionWeight" yaml:"cohesionWeight"`
	WanderWeight     float64 `json:"wanderWeight" yaml:"wanderWeight"`
	OriginWeight     float64 `json:"originWeight" yaml:"originWeight"`

	SenseRadius float64 `json:"senseRadius" yaml:"senseRadius"`

	// Geometry
	WorldBounds    spatial.Bounds `json:"worldBounds" yaml:"worldBounds"`
	GridResolution Resolution     `json:"gridResolution" yaml:"gridResolution"`
	PlayArea       PlayArea       `json:"playAreaBounds" yaml:"playAreaBounds"`
	SpawnBounds    spatial.Bounds `json:"spawnBounds" yaml:"spawnBounds"`

	Forces ForceToggles `json:"forces" yaml:"forces"`
	Seed   uint64       `json:"seed" yaml:"seed"`
}

// DefaultParams returns the reference flock: 60 boids over a 1000x1000 world
// indexed by 10 unit cells, wrapping inside a 130x70 play area.
func DefaultParams() Params {
	const speed = 5.0
	return Params{
		AgentCount:       60,
		AgentRadius:      1.0,
		MaxSpeed:         speed,
		Acceleration:     speed / 5.0,
		MaxSteeringForce: speed / 5.0 / 10.0,
		MaxTimestep:      0.1,
		SeparationWeight: 8,
		AlignmentWeight:  5,
		CohesionWeight:   4,
		WanderWeight:     5,
		OriginWeight:     1000,
		SenseRadius:      15,
		WorldBounds: spatial.Bounds{
			Min: geometry.Vector3{X: -500, Z: -500},
			Max: geometry.Vector3{X: 500, Z: 500},
		},
		GridResolution: Resolution{X: 100, Z: 100},
		PlayArea:       PlayArea{MinX: -65, MaxX: 65, MinZ: -35, MaxZ: 35},
		SpawnBounds: spatial.Bounds{
			Min: geometry.Vector3{X: -50, Y: -50, Z: -50},
			Max: geometry.Vector3{X: 50, Y: 50, Z: 50},
		},
		Forces: AllForces,
		Seed:   1,
	}
}

// Validate reports the first unusable value. A zero AgentCount is valid.
// Grid resolution and bounds are checked by spatial.NewGrid.
func (p Params) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"agentRadius", p.AgentRadius},
		{"maxSpeed", p.MaxSpeed},
		{"maxSteeringForce", p.MaxSteeringForce},
		{"maxTimestep", p.MaxTimestep},
		{"senseRadius", p.SenseRadius},
	}
	for _, f := range positive {
		if !(f.value > 0) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be a positive number, got %v", ErrInvalidParams, f.name, f.value)
		}
	}
	if p.AgentCount < 0 {
		return fmt.Errorf("%w: agentCount must not be negative, got %d", ErrInvalidParams, p.AgentCount)
	}
	if p.Acceleration < 0 {
		return fmt.Errorf("%w: acceleration must not be negative, got %v", ErrInvalidParams, p.Acceleration)
	}
	if p.PlayArea.MinX >= p.PlayArea.MaxX || p.PlayArea.MinZ >= p.PlayArea.MaxZ {
		return fmt.Errorf("%w: play area %+v is empty", ErrInvalidParams, p.PlayArea)
	}
	return nil
}

// LoadConfig loads parameters from a JSON or YAML file and validates the
// document against the JSON schema in schemaFile. Keys missing from the file
// keep their DefaultParams value.
func LoadConfig(configFile string, schemaFile string) (Params, error) {
	// 1. Compile Schema
	sch, err := jsonschema.Compile(schemaFile)
	if err != nil {
		return Params{}, fmt.Errorf("failed to compile schema: %w", err)
	}

	// 2. Read Config File
	raw, err := os.ReadFile(configFile)
	if err != nil {
		return Params{}, fmt.Errorf("failed to read config file: %w", err)
	}

	// 3. YAML documents are validated through their JSON form
	switch strings.ToLower(filepath.Ext(configFile)) {
	case ".yaml", ".yml":
		raw, err = yamlToJSON(raw)
		if err != nil {
			return Params{}, err
		}
	}

	// 4. Validate
	var v interface{}
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(&v); err != nil {
		return Params{}, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return Params{}, fmt.Errorf("config validation failed: %w", err)
	}

	// 5. Unmarshal over the defaults
	params := DefaultParams()
	if err := json.Unmarshal(raw, &params); err != nil {
		return Params{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := params.Validate(); err != nil {
		return Params{}, err
	}
	return params, nil
}

func yamlToJSON(raw []byte) ([]byte, error) {
	var doc interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode config yaml: %w", err)
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert config yaml to json: %w", err)
	}
	return b, nil
}
