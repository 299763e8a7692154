package driver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
)

func smallParams() flock.Params {
	p := flock.DefaultParams()
	p.AgentCount = 12
	p.Seed = 7
	return p
}

func newTestActor(t *testing.T) *FlockActor {
	t.Helper()
	a := NewFlockActor(smallParams(), flock.Appearance{})
	if err := a.rebuild(a.params.Seed); err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}
	return a
}

func decode(t *testing.T, p *structpb.Struct) flock.Snapshot {
	t.Helper()
	s, err := SnapshotFromProto(p)
	if err != nil {
		t.Fatalf("SnapshotFromProto failed: %v", err)
	}
	return s
}

func TestFlockActor_Handle(t *testing.T) {
	a := newTestActor(t)

	reply, err := a.handle(&emptypb.Empty{})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	initial := decode(t, reply)
	if initial.Tick != 0 || len(initial.Agents) != 12 {
		t.Fatalf("initial snapshot: tick=%d agents=%d", initial.Tick, len(initial.Agents))
	}

	// a tick longer than the clamp only advances by the clamp
	reply, err = a.handle(durationpb.New(time.Second))
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}
	ticked := decode(t, reply)
	if ticked.Tick != 1 || ticked.Elapsed != 0.1 {
		t.Errorf("after tick: tick=%d elapsed=%v; want 1, 0.1", ticked.Tick, ticked.Elapsed)
	}

	off := flock.ForceToggles{Separation: true}
	reply, err = a.handle(ForcesToProto(off))
	if err != nil {
		t.Fatalf("set forces failed: %v", err)
	}
	if got := decode(t, reply).Forces; got != off {
		t.Errorf("forces = %+v; want %+v", got, off)
	}

	reply, err = a.handle(wrapperspb.UInt64(7))
	if err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	reset := decode(t, reply)
	if reset.Tick != 0 || reset.Forces != off {
		t.Errorf("after reset: tick=%d forces=%+v; want 0, %+v", reset.Tick, reset.Forces, off)
	}
	for i := range reset.Agents {
		if reset.Agents[i].Position != initial.Agents[i].Position {
			t.Fatalf("reset with the same seed moved agent %d: %v vs %v", i, reset.Agents[i].Position, initial.Agents[i].Position)
		}
	}
}

func TestFlockActor_HandleRejects(t *testing.T) {
	a := newTestActor(t)
	tests := []struct {
		name string
		msg  any
	}{
		{"Partial forces", &structpb.Struct{Fields: map[string]*structpb.Value{"separation": structpb.NewBoolValue(false)}}},
		{"Invalid duration", &durationpb.Duration{Seconds: 1, Nanos: -1}},
		{"Unknown message", wrapperspb.String("boids")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := a.handle(tt.msg); !errors.Is(err, ErrMalformedMessage) {
				t.Errorf("handle error = %v; want %v", err, ErrMalformedMessage)
			}
		})
	}
	if a.flock.Ticks() != 0 {
		t.Errorf("rejected messages ticked the flock")
	}
}

func TestFlockActor_RebuildRejectsBadParams(t *testing.T) {
	p := smallParams()
	p.GridResolution.X = 0
	a := NewFlockActor(p, flock.Appearance{})
	if err := a.rebuild(1); err == nil {
		t.Error("rebuild accepted a zero grid resolution")
	}
}

func TestFlockActor_AskThroughActorSystem(t *testing.T) {
	ctx := context.Background()
	system, err := actor.NewActorSystem("FlockTest", actor.WithLogger(log.DiscardLogger))
	if err != nil {
		t.Fatalf("cannot create actor system: %v", err)
	}
	if err := system.Start(ctx); err != nil {
		t.Fatalf("cannot start actor system: %v", err)
	}
	t.Cleanup(func() { _ = system.Stop(ctx) })

	pid, err := system.Spawn(ctx, "flock", NewFlockActor(smallParams(), flock.Appearance{}))
	if err != nil {
		t.Fatalf("cannot spawn flock actor: %v", err)
	}

	var last flock.Snapshot
	for i := 0; i < 5; i++ {
		if last, err = Tick(ctx, pid, 1.0/60, time.Second); err != nil {
			t.Fatalf("tick %d failed: %v", i, err)
		}
	}
	if last.Tick != 5 {
		t.Errorf("Tick = %d after 5 requests; want 5", last.Tick)
	}

	if last, err = SetForces(ctx, pid, flock.ForceToggles{}, time.Second); err != nil {
		t.Fatalf("SetForces failed: %v", err)
	}
	if last.Forces != (flock.ForceToggles{}) {
		t.Errorf("Forces = %+v; want all off", last.Forces)
	}

	if last, err = Reset(ctx, pid, 99, time.Second); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if last.Tick != 0 || len(last.Agents) != 12 {
		t.Errorf("after reset: tick=%d agents=%d", last.Tick, len(last.Agents))
	}

	if last, err = Query(ctx, pid, time.Second); err != nil || last.Tick != 0 {
		t.Errorf("Query = tick %d, %v", last.Tick, err)
	}
}
