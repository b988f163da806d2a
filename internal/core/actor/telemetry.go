package actor

import (
	"context"
	"fmt"
	"time"

	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/config"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/coordinator"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/domain"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/entity"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/events"
	. "github.com/k3mpaxl/home-assistant-rct-power-integration/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/reugn/go-quartz/job"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/zap"
)

// TelemetryActor drives one polling tier: on every tick it reads the tier's
// register set through the reader actor, refreshes the tier coordinator and
// publishes a snapshot of every tier entity to the event stream.
//
// The static tier additionally answers device identity requests. Those are
// held back until the first poll round has landed, so an early requester
// never sees blank serial numbers.
type TelemetryActor struct {
	behavior actor.Behavior
	stash    *Stash

	config      *config.Config
	coordinator *coordinator.Coordinator
	entities    []entity.Entity
	readerActor *actor.PID
	eventStream *eventstream.EventStream

	interval       time.Duration
	requestTimeout time.Duration

	scheduler     quartz.Scheduler
	schedulerStop context.CancelFunc

	roundDone   bool
	bridgeState *bool
	actorId     string

	logger *zap.Logger
}

type telemetryTick struct {
}

func NewTelemetryActor(config *config.Config, coord *coordinator.Coordinator, entities []entity.Entity,
	readerActor *actor.PID, eventStream *eventstream.EventStream, logger *zap.Logger) *TelemetryActor {
	actorId := TelemetryActorId(coord.Priority())
	act := &TelemetryActor{
		config:         config,
		coordinator:    coord,
		entities:       entity.FilterByPriority(entities, coord.Priority()),
		readerActor:    readerActor,
		eventStream:    eventStream,
		interval:       pollInterval(config, coord.Priority()),
		requestTimeout: time.Duration(config.Inverter.ReadTimeoutMillis)*time.Millisecond + 2*time.Second,
		actorId:        actorId,
		behavior:       actor.NewBehavior(),
		stash:          &Stash{},
		logger:         ActorLogger(actorId, logger),
	}
	act.behavior.Become(act.DefaultReceive)
	return act
}

// TelemetryActorId names the telemetry actor of one polling tier.
func TelemetryActorId(priority entity.UpdatePriority) string {
	return fmt.Sprintf("%s_%s", domain.ACTOR_ID_TELEMETRY, priority)
}

func pollInterval(cfg *config.Config, priority entity.UpdatePriority) time.Duration {
	switch priority {
	case entity.UPDATE_PRIORITY_FREQUENT:
		return time.Duration(cfg.Polling.FrequentIntervalMillis) * time.Millisecond
	case entity.UPDATE_PRIORITY_INFREQUENT:
		return time.Duration(cfg.Polling.InfrequentIntervalMillis) * time.Millisecond
	default:
		return time.Duration(cfg.Polling.StaticIntervalMillis) * time.Millisecond
	}
}

func (state *TelemetryActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *TelemetryActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("telemetry@default started", zap.Duration("interval", state.interval))
		state.startScheduler(ctx)
		// poll right away, the first trigger only fires one interval from now
		ctx.Send(ctx.Self(), telemetryTick{})
	case *actor.Restarting:
		state.stopScheduler()
	case *actor.Stopping:
		state.stopScheduler()
	case domain.ActorHealthRequest:
		state.logger.Debug("telemetry@default ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      state.actorId,
			Healthy: true,
			State:   "idle",
		})
	case telemetryTick:
		state.logger.Debug("telemetry@default tick", zap.Int("registers", len(state.coordinator.ObjectIDs())))
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.readerActor, domain.ReadRegistersRequest{
			ObjectIDs: state.coordinator.ObjectIDs(),
		}, state.requestTimeout), func(err error) any {
			return domain.ReadRegistersResponse{
				ActorResponseMixIn: domain.ErrorResponse(err),
			}
		})
		state.behavior.BecomeStacked(state.WaitingReadReceive)
	case domain.GetDeviceIdentityRequest:
		if !state.roundDone {
			state.logger.Debug("telemetry@default GetDeviceIdentityRequest before first round, stash")
			state.stash.Stash(ctx, msg)
			return
		}
		inverter, battery := entity.DeviceIdentities(state.entities)
		ForRequest(msg).Respond(ctx, domain.GetDeviceIdentityResponse{
			Inverter: inverter,
			Battery:  battery,
		})
	default:
		state.logger.Debug("telemetry@default default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *TelemetryActor) WaitingReadReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ReadRegistersResponse:
		now := time.Now()
		if msg.HasResponseError() {
			state.logger.Error("telemetry@waiting poll round failed", zap.Error(msg.GetResponseError()))
			state.coordinator.MarkRoundFailure(msg.GetResponseError(), now)
		} else {
			state.coordinator.Store(msg.Responses...)
		}
		state.roundDone = true
		state.publishBridgeState(!msg.HasResponseError())
		state.publishSnapshots(now)
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	case telemetryTick:
		// a round is already in flight, this tick has nothing left to do
	case *actor.Stopping:
		state.stopScheduler()
	default:
		state.logger.Debug("telemetry@waiting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *TelemetryActor) publishSnapshots(now time.Time) {
	snapshots := entity.TakeSnapshots(state.entities, now)
	for _, ev := range events.SnapshotsToUpdateEvents(snapshots) {
		state.eventStream.Publish(ev)
	}
}

// publishBridgeState mirrors device reachability on the bridge sensor.
// Only the frequent tier reports it, the slower tiers would lag minutes
// behind, and repeats of the same verdict are dropped.
func (state *TelemetryActor) publishBridgeState(connected bool) {
	if state.coordinator.Priority() != entity.UPDATE_PRIORITY_FREQUENT {
		return
	}
	if state.bridgeState != nil && *state.bridgeState == connected {
		return
	}
	state.bridgeState = &connected
	state.eventStream.Publish(events.BridgeStateToUpdateEvent(connected))
}

func (state *TelemetryActor) startScheduler(ctx actor.Context) {
	if state.interval <= 0 {
		return
	}
	root := ctx.ActorSystem().Root
	self := ctx.Self()

	schedulerCtx, cancel := context.WithCancel(context.Background())
	state.schedulerStop = cancel
	state.scheduler = quartz.NewStdScheduler()
	state.scheduler.Start(schedulerCtx)

	tickJob := job.NewFunctionJob(func(_ context.Context) (bool, error) {
		root.Send(self, telemetryTick{})
		return true, nil
	})
	err := state.scheduler.ScheduleJob(quartz.NewJobDetail(tickJob, quartz.NewJobKey(state.actorId)),
		quartz.NewSimpleTrigger(state.interval))
	if err != nil {
		panic(err)
	}
}

func (state *TelemetryActor) stopScheduler() {
	if state.scheduler != nil {
		state.scheduler.Stop()
		state.scheduler = nil
	}
	if state.schedulerStop != nil {
		state.schedulerStop()
		state.schedulerStop = nil
	}
}
