package actor

import (
	"errors"
	"fmt"
	"log"
	"time"

	adactor "github.com/k3mpaxl/home-assistant-rct-power-integration/internal/adapter/actor"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/config"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/coordinator"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/domain"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/entity"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/port"
	. "github.com/k3mpaxl/home-assistant-rct-power-integration/internal/util/actorutil"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/pkg/rct"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"go.uber.org/zap"
)

type MQTTActorProvider func(*eventstream.EventStream) *adactor.MQTTActor

type ReaderActorProvider func() *adactor.RCTReaderActor

// MasterOfPuppetsActor owns the entity graph and supervises every other
// actor. At startup it materializes the catalog against the register
// registry, wires each polling tier to its coordinator, and spawns the
// reader, MQTT, telemetry, discovery and history children.
type MasterOfPuppetsActor struct {
	config   config.Config
	behavior actor.Behavior
	stash    *Stash

	currentHealthCheck healthCheckResult
	eventStream        *eventstream.EventStream

	registry     *rct.Registry
	coordinators []*coordinator.Coordinator
	entities     []entity.Entity

	readerActor         *actor.PID
	mqttActor           *actor.PID
	telemetryActors     map[entity.UpdatePriority]*actor.PID
	readerActorProvider ReaderActorProvider
	mqttActorProvider   MQTTActorProvider
	logger              *zap.Logger
}

type healthCheckResult struct {
	healthyById    map[string]bool
	checksReceived int
	respondTo      *actor.PID
}

func NewMasterOfPuppetsActor(config config.Config, readerActorProvider ReaderActorProvider, mqttActorProvider MQTTActorProvider, logger *zap.Logger) *MasterOfPuppetsActor {
	act := &MasterOfPuppetsActor{
		config:              config,
		behavior:            actor.NewBehavior(),
		stash:               &Stash{},
		logger:              ActorLogger(domain.ACTOR_ID_MASTER, logger),
		eventStream:         &eventstream.EventStream{},
		readerActorProvider: readerActorProvider,
		mqttActorProvider:   mqttActorProvider,
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *MasterOfPuppetsActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *MasterOfPuppetsActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("master@starting started")

		state.currentHealthCheck = healthCheckResult{}

		// materialize the entity catalog and its tier coordinators
		if err := state.buildEntityGraph(); err != nil {
			panic(err)
		}

		// start reader child
		readerActorPID, err := state.startReaderActor(ctx)
		if err != nil {
			panic(err)
		}
		state.readerActor = readerActorPID

		// start MQTT child
		mqttActorPID, err := state.startMQTTActor(ctx)
		if err != nil {
			panic(err)
		}
		state.mqttActor = mqttActorPID

		// start one telemetry child per polling tier
		if err := state.startTelemetryActors(ctx); err != nil {
			panic(err)
		}

		// start HA Discovery
		if state.config.MQTT.HADiscoveryEnable {
			_, err := state.startHADiscoveryActor(ctx)
			if err != nil {
				panic(err)
			}
		}

		// start history sinks
		if state.config.History.Influx.Enable || state.config.History.SQLite.Enable {
			_, err := state.startHistoryActor(ctx)
			if err != nil {
				panic(err)
			}
		}

		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("master@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

// buildEntityGraph resolves the built-in catalog against the register
// registry and hands every tier coordinator its poll set.
func (state *MasterOfPuppetsActor) buildEntityGraph() error {
	state.registry = rct.NewRegistry()
	state.coordinators = []*coordinator.Coordinator{
		coordinator.New(entity.UPDATE_PRIORITY_FREQUENT),
		coordinator.New(entity.UPDATE_PRIORITY_INFREQUENT),
		coordinator.New(entity.UPDATE_PRIORITY_STATIC),
	}
	sources := make([]port.ResponseSource, 0, len(state.coordinators))
	for _, coord := range state.coordinators {
		sources = append(sources, coord)
	}

	entities, err := entity.BuildCatalog(state.registry, sources, entity.ConfigEntry{
		ID:           state.config.Entity.EntryId,
		EntityPrefix: state.config.Entity.Prefix,
	})
	if err != nil {
		return err
	}
	state.entities = entities

	for _, coord := range state.coordinators {
		coord.Track(entity.ObjectIDsByPriority(entities, coord.Priority()))
	}
	return nil
}

func (state *MasterOfPuppetsActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("master@default ActorHealthRequest")
		targets := state.healthCheckTargets()
		state.currentHealthCheck.reset(targets)
		state.currentHealthCheck.respondTo = ctx.Sender()
		for id, pid := range targets {
			fallbackId := id
			PipeToSelfWithRecover(ctx, ctx.RequestFuture(pid, domain.ActorHealthRequest{}, 500*time.Millisecond), func(err error) any {
				return domain.ActorHealthResponse{
					Id:      fallbackId,
					Healthy: false,
				}
			})
		}

		ctx.SetReceiveTimeout(1 * time.Second)

		state.behavior.BecomeStacked(state.HealthCheckReceive)
	case domain.GetEntitySnapshotsRequest:
		state.logger.Debug("master@default GetEntitySnapshotsRequest")
		ForRequest(msg).Respond(ctx, domain.GetEntitySnapshotsResponse{
			Snapshots: entity.TakeSnapshots(state.entities, time.Now()),
		})
	case domain.GetDeviceIdentityRequest:
		// identity registers live on the static tier
		state.logger.Debug("master@default GetDeviceIdentityRequest")
		ctx.Forward(state.telemetryActors[entity.UPDATE_PRIORITY_STATIC])
	case *actor.ReceiveTimeout:
		// stale timeout from an already-settled health check
	case *actor.Terminated:
		// if the reader fails on boot, terminate
		if msg.Who.Id == fmt.Sprintf("%s/%s", domain.ACTOR_ID_MASTER, domain.ACTOR_ID_RCT_READER) {
			state.logger.Error("master@default rct reader terminated")
			panic(errors.New("rct reader terminated"))
		}
	default:
		state.logger.Debug("master@default stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MasterOfPuppetsActor) HealthCheckReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.ReceiveTimeout:
		// if some actor does not respond to healthCheck, assume not healthy
		ctx.CancelReceiveTimeout()
		state.currentHealthCheck.respond(ctx)
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	case domain.ActorHealthResponse:
		state.logger.Debug("master@healthcheck ActorHealthResponse", zap.String("sender", msg.Id), zap.Bool("healthy", msg.Healthy))
		state.currentHealthCheck.record(msg.Id, msg.Healthy)
		if state.currentHealthCheck.allReceived() {
			ctx.CancelReceiveTimeout()
			state.currentHealthCheck.respond(ctx)

			state.behavior.UnbecomeStacked()
			state.stash.UnstashAll(ctx)
		} else {
			ctx.SetReceiveTimeout(1 * time.Second)
		}
	default:
		state.logger.Debug("master@healthcheck stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MasterOfPuppetsActor) healthCheckTargets() map[string]*actor.PID {
	targets := map[string]*actor.PID{
		domain.ACTOR_ID_RCT_READER: state.readerActor,
		domain.ACTOR_ID_MQTT:       state.mqttActor,
	}
	for priority, pid := range state.telemetryActors {
		targets[TelemetryActorId(priority)] = pid
	}
	return targets
}

func (state *MasterOfPuppetsActor) startReaderActor(ctx actor.Context) (*actor.PID, error) {

	supervisor := actor.NewExponentialBackoffStrategy(10*time.Second, 1*time.Second)

	readerProps := actor.PropsFromProducer(func() actor.Actor {
		return state.readerActorProvider()
	}, actor.WithSupervisor(supervisor))
	readerActorPID, err := ctx.SpawnNamed(readerProps, domain.ACTOR_ID_RCT_READER)
	if err != nil {
		return nil, err
	}

	return readerActorPID, nil
}

func (state *MasterOfPuppetsActor) startMQTTActor(ctx actor.Context) (*actor.PID, error) {

	supervisor := actor.NewExponentialBackoffStrategy(10*time.Second, 1*time.Second)

	mqttProps := actor.PropsFromProducer(func() actor.Actor {
		return state.mqttActorProvider(state.eventStream)
	}, actor.WithSupervisor(supervisor))
	mqttActorPID, err := ctx.SpawnNamed(mqttProps, domain.ACTOR_ID_MQTT)
	if err != nil {
		return nil, err
	}

	return mqttActorPID, nil
}

func (state *MasterOfPuppetsActor) startTelemetryActors(ctx actor.Context) error {

	decider := func(reason interface{}) actor.Directive {
		log.Printf("handling failure for child. reason: %v", reason)
		return actor.RestartDirective
	}

	state.telemetryActors = make(map[entity.UpdatePriority]*actor.PID, len(state.coordinators))
	for _, coord := range state.coordinators {
		coord := coord
		supervisor := actor.NewOneForOneStrategy(1, 10*time.Second, decider)
		props := actor.PropsFromProducer(func() actor.Actor {
			return NewTelemetryActor(&state.config, coord, state.entities, state.readerActor, state.eventStream, state.logger)
		}, actor.WithSupervisor(supervisor))
		pid, err := ctx.SpawnNamed(props, TelemetryActorId(coord.Priority()))
		if err != nil {
			return err
		}
		state.telemetryActors[coord.Priority()] = pid
	}
	return nil
}

func (state *MasterOfPuppetsActor) startHADiscoveryActor(ctx actor.Context) (*actor.PID, error) {

	decider := func(reason interface{}) actor.Directive {
		log.Printf("handling failure for child. reason: %v", reason)
		return actor.RestartDirective
	}
	supervisor := actor.NewOneForOneStrategy(1, 10*time.Second, decider)

	haDiscProps := actor.PropsFromProducer(func() actor.Actor {
		return NewHADiscoveryActor(&state.config, state.entities, state.readerActor, state.mqttActor,
			state.telemetryActors[entity.UPDATE_PRIORITY_STATIC], state.eventStream, state.logger)
	}, actor.WithSupervisor(supervisor))
	haDiscPID, err := ctx.SpawnNamed(haDiscProps, domain.ACTOR_ID_HA_DISCOVERY)
	if err != nil {
		return nil, err
	}

	return haDiscPID, nil
}

func (state *MasterOfPuppetsActor) startHistoryActor(ctx actor.Context) (*actor.PID, error) {

	decider := func(reason interface{}) actor.Directive {
		log.Printf("handling failure for child. reason: %v", reason)
		return actor.RestartDirective
	}
	supervisor := actor.NewOneForOneStrategy(1, 10*time.Second, decider)

	historyProps := actor.PropsFromProducer(func() actor.Actor {
		return adactor.NewHistoryActor(&state.config, state.eventStream, state.logger)
	}, actor.WithSupervisor(supervisor))
	historyPID, err := ctx.SpawnNamed(historyProps, domain.ACTOR_ID_HISTORY)
	if err != nil {
		return nil, err
	}

	return historyPID, nil
}

func (state *healthCheckResult) reset(targets map[string]*actor.PID) {
	state.healthyById = make(map[string]bool, len(targets))
	for id := range targets {
		state.healthyById[id] = false
	}
	state.checksReceived = 0
	state.respondTo = nil
}

func (state *healthCheckResult) record(id string, healthy bool) {
	state.checksReceived++
	if _, tracked := state.healthyById[id]; tracked && healthy {
		state.healthyById[id] = true
	}
}

func (state *healthCheckResult) allReceived() bool {
	return state.checksReceived >= len(state.healthyById)
}

func (state *healthCheckResult) allHealthy() bool {
	for _, healthy := range state.healthyById {
		if !healthy {
			return false
		}
	}
	return true
}

func (state *healthCheckResult) respond(ctx actor.Context) {
	resp := domain.ActorHealthResponse{
		Id:      domain.ACTOR_ID_MASTER,
		Healthy: state.allHealthy(),
	}
	if state.respondTo != nil {
		ctx.Send(state.respondTo, resp)
	}
}
