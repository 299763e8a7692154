package driver

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// ErrMalformedMessage is returned when a protobuf message does not have the
// expected shape.
var ErrMalformedMessage = errors.New("malformed flock message")

// SnapshotToProto converts a snapshot into the envelope the actor answers with.
func SnapshotToProto(s flock.Snapshot) *structpb.Struct {
	agents := make([]*structpb.Value, len(s.Agents))
	for i, a := range s.Agents {
		agents[i] = structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"id":        structpb.NewStringValue(a.ID),
			"position":  vectorToProto(a.Position),
			"velocity":  vectorToProto(a.Velocity),
			"direction": vectorToProto(a.Direction),
		}})
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"tick":    structpb.NewNumberValue(float64(s.Tick)),
		"elapsed": structpb.NewNumberValue(s.Elapsed),
		"playArea": structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"minX": structpb.NewNumberValue(s.PlayArea.MinX),
			"maxX": structpb.NewNumberValue(s.PlayArea.MaxX),
			"minZ": structpb.NewNumberValue(s.PlayArea.MinZ),
			"maxZ": structpb.NewNumberValue(s.PlayArea.MaxZ),
		}}),
		"forces": structpb.NewStructValue(ForcesToProto(s.Forces)),
		"agents": structpb.NewListValue(&structpb.ListValue{Values: agents}),
	}}
}

// SnapshotFromProto is the inverse of SnapshotToProto.
func SnapshotFromProto(p *structpb.Struct) (flock.Snapshot, error) {
	var s flock.Snapshot
	if p == nil {
		return s, fmt.Errorf("%w: nil snapshot", ErrMalformedMessage)
	}
	f := p.GetFields()

	tick, err := number(f, "tick")
	if err != nil {
		return s, err
	}
	if s.Elapsed, err = number(f, "elapsed"); err != nil {
		return s, err
	}
	s.Tick = uint64(tick)

	area := f["playArea"].GetStructValue()
	if area == nil {
		return s, fmt.Errorf("%w: missing playArea", ErrMalformedMessage)
	}
	bounds := []*float64{&s.PlayArea.MinX, &s.PlayArea.MaxX, &s.PlayArea.MinZ, &s.PlayArea.MaxZ}
	for i, key := range []string{"minX", "maxX", "minZ", "maxZ"} {
		if *bounds[i], err = number(area.GetFields(), key); err != nil {
			return s, err
		}
	}

	if s.Forces, err = ForcesFromProto(f["forces"].GetStructValue()); err != nil {
		return s, err
	}

	list := f["agents"].GetListValue()
	if list == nil {
		return s, fmt.Errorf("%w: missing agents", ErrMalformedMessage)
	}
	s.Agents = make([]flock.AgentState, len(list.GetValues()))
	for i, v := range list.GetValues() {
		a := v.GetStructValue()
		if a == nil {
			return s, fmt.Errorf("%w: agent %d is not an object", ErrMalformedMessage, i)
		}
		af := a.GetFields()
		id, ok := af["id"].GetKind().(*structpb.Value_StringValue)
		if !ok {
			return s, fmt.Errorf("%w: agent %d has no id", ErrMalformedMessage, i)
		}
		s.Agents[i].ID = id.StringValue
		if s.Agents[i].Position, err = vectorFromProto(af, "position"); err != nil {
			return s, err
		}
		if s.Agents[i].Velocity, err = vectorFromProto(af, "velocity"); err != nil {
			return s, err
		}
		if s.Agents[i].Direction, err = vectorFromProto(af, "direction"); err != nil {
			return s, err
		}
	}
	return s, nil
}

// ForcesToProto encodes steering toggles.
func ForcesToProto(t flock.ForceToggles) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"separation": structpb.NewBoolValue(t.Separation),
		"alignment":  structpb.NewBoolValue(t.Alignment),
		"cohesion":   structpb.NewBoolValue(t.Cohesion),
	}}
}

// ForcesFromProto decodes steering toggles. All three keys are required.
func ForcesFromProto(p *structpb.Struct) (flock.ForceToggles, error) {
	var t flock.ForceToggles
	if p == nil {
		return t, fmt.Errorf("%w: missing forces", ErrMalformedMessage)
	}
	targets := map[string]*bool{
		"separation": &t.Separation,
		"alignment":  &t.Alignment,
		"cohesion":   &t.Cohesion,
	}
	for key, dst := range targets {
		v, ok := p.GetFields()[key].GetKind().(*structpb.Value_BoolValue)
		if !ok {
			return t, fmt.Errorf("%w: force %q must be a bool", ErrMalformedMessage, key)
		}
		*dst = v.BoolValue
	}
	return t, nil
}

func vectorToProto(v geometry.Vector3) *structpb.Value {
	return structpb.NewListValue(&structpb.ListValue{Values: []*structpb.Value{
		structpb.NewNumberValue(v.X),
		structpb.NewNumberValue(v.Y),
		structpb.NewNumberValue(v.Z),
	}})
}

func vectorFromProto(fields map[string]*structpb.Value, key string) (geometry.Vector3, error) {
	values := fields[key].GetListValue().GetValues()
	if len(values) != 3 {
		return geometry.Zero, fmt.Errorf("%w: %s must hold 3 numbers", ErrMalformedMessage, key)
	}
	var xyz [3]float64
	for i, v := range values {
		n, ok := v.GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return geometry.Zero, fmt.Errorf("%w: %s[%d] is not a number", ErrMalformedMessage, key, i)
		}
		xyz[i] = n.NumberValue
	}
	return geometry.Vector3{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

func number(fields map[string]*structpb.Value, key string) (float64, error) {
	n, ok := fields[key].GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%w: %s is not a number", ErrMalformedMessage, key)
	}
	return n.NumberValue, nil
}
