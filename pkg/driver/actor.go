package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
)

// FlockActor owns a flock and serializes every access to it through its
// mailbox. It understands four messages, each answered with the resulting
// snapshot:
//
//	*durationpb.Duration     tick by that duration
//	*emptypb.Empty           no change
//	*structpb.Struct         replace the steering toggles (see ForcesToProto)
//	*wrapperspb.UInt64Value  rebuild the flock from that seed
type FlockActor struct {
	params     flock.Params
	appearance flock.Appearance
	flock      *flock.Flock
	logger     log.Logger
}

// NewFlockActor prepares an actor; the flock itself is built in PreStart.
func NewFlockActor(params flock.Params, appearance flock.Appearance) *FlockActor {
	return &FlockActor{
		params:     params,
		appearance: appearance,
		logger:     log.DiscardLogger,
	}
}

func (a *FlockActor) PreStart(ctx *actor.Context) error {
	a.logger = ctx.ActorSystem().Logger()
	return a.rebuild(a.params.Seed)
}

func (a *FlockActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		ctx.Logger().Infof("%s started with %d boids", ctx.Self().Name(), len(a.flock.Boids()))
	case *durationpb.Duration, *emptypb.Empty, *structpb.Struct, *wrapperspb.UInt64Value:
		response, err := a.handle(msg)
		if err != nil {
			ctx.Logger().Errorf("%s rejected %T: %v", ctx.Self().Name(), msg, err)
			ctx.Err(err)
			return
		}
		ctx.Response(response)
	default:
		ctx.Unhandled()
	}
}

func (a *FlockActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("%s stopped after %d ticks", ctx.ActorName(), a.flock.Ticks())
	return nil
}

// handle applies one request to the flock and returns its snapshot.
func (a *FlockActor) handle(msg any) (*structpb.Struct, error) {
	switch msg := msg.(type) {
	case *durationpb.Duration:
		if err := msg.CheckValid(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
		}
		a.flock.Tick(msg.AsDuration().Seconds())
	case *emptypb.Empty:
	case *structpb.Struct:
		forces, err := ForcesFromProto(msg)
		if err != nil {
			return nil, err
		}
		a.flock.SetForces(forces)
		a.params.Forces = forces
	case *wrapperspb.UInt64Value:
		if err := a.rebuild(msg.GetValue()); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unexpected %T", ErrMalformedMessage, msg)
	}
	return SnapshotToProto(a.flock.Snapshot()), nil
}

// rebuild replaces the flock with a fresh one spawned from seed, keeping the
// current steering toggles.
func (a *FlockActor) rebuild(seed uint64) error {
	params := a.params
	params.Seed = seed
	f, err := flock.New(params, a.appearance, flock.NewRand(seed), a.logger)
	if err != nil {
		return fmt.Errorf("failed to build flock: %w", err)
	}
	a.params = params
	a.flock = f
	return nil
}

// Tick asks the actor at pid to advance by dt seconds.
func Tick(ctx context.Context, pid *actor.PID, dt float64, timeout time.Duration) (flock.Snapshot, error) {
	return ask(ctx, pid, durationpb.New(time.Duration(dt*float64(time.Second))), timeout)
}

// Query asks the actor at pid for its current snapshot.
func Query(ctx context.Context, pid *actor.PID, timeout time.Duration) (flock.Snapshot, error) {
	return ask(ctx, pid, &emptypb.Empty{}, timeout)
}

// SetForces asks the actor at pid to switch its steering rules.
func SetForces(ctx context.Context, pid *actor.PID, forces flock.ForceToggles, timeout time.Duration) (flock.Snapshot, error) {
	return ask(ctx, pid, ForcesToProto(forces), timeout)
}

// Reset asks the actor at pid to respawn its flock from seed.
func Reset(ctx context.Context, pid *actor.PID, seed uint64, timeout time.Duration) (flock.Snapshot, error) {
	return ask(ctx, pid, wrapperspb.UInt64(seed), timeout)
}

func ask(ctx context.Context, pid *actor.PID, msg proto.Message, timeout time.Duration) (flock.Snapshot, error) {
	reply, err := actor.Ask(ctx, pid, msg, timeout)
	if err != nil {
		return flock.Snapshot{}, fmt.Errorf("flock actor did not answer %T: %w", msg, err)
	}
	snapshot, ok := reply.(*structpb.Struct)
	if !ok {
		return flock.Snapshot{}, fmt.Errorf("%w: unexpected reply %T", ErrMalformedMessage, reply)
	}
	return SnapshotFromProto(snapshot)
}
