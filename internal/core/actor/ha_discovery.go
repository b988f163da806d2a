package actor

import (
	"errors"
	"fmt"
	"time"

	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/config"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/domain"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/entity"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"go.uber.org/zap"
)

// HADiscoveryActor publishes the Home Assistant discovery documents once the
// reader and MQTT actors are healthy and the device identities have been
// read. After that it idles, re-publishing only when Home Assistant announces
// a restart through its birth message.
type HADiscoveryActor struct {
	config         *config.Config
	behavior       actor.Behavior
	stash          *actorutil.Stash
	entities       []entity.Entity
	readerActor    *actor.PID
	mqttActor      *actor.PID
	telemetryActor *actor.PID
	eventStream    *eventstream.EventStream
	eventStreamSub *eventstream.Subscription

	readerActorHealthy bool
	mqttActorHealthy   bool
	healthyRecv        int
	sensors            []domain.GenericSensor

	logger *zap.Logger
}

type republishDiscovery struct {
}

func NewHADiscoveryActor(config *config.Config, entities []entity.Entity, readerActor *actor.PID, mqttActor *actor.PID,
	telemetryActor *actor.PID, eventStream *eventstream.EventStream, logger *zap.Logger) *HADiscoveryActor {
	act := &HADiscoveryActor{
		config:         config,
		entities:       entities,
		readerActor:    readerActor,
		mqttActor:      mqttActor,
		telemetryActor: telemetryActor,
		eventStream:    eventStream,
		behavior:       actor.NewBehavior(),
		stash:          &actorutil.Stash{},
		logger:         actorutil.ActorLogger(domain.ACTOR_ID_HA_DISCOVERY, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *HADiscoveryActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *HADiscoveryActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("hadiscovery@starting started")

		// Check reader and MQTT actor healthy
		state.healthyRecv = 0
		state.readerActorHealthy = false
		state.mqttActorHealthy = false
		// Reader Actor Request
		actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.readerActor, domain.ActorHealthRequest{}, 2*time.Second), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_RCT_READER,
				Healthy: false,
			}
		})
		// MQTT Actor Request
		actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.mqttActor, domain.ActorHealthRequest{}, 2*time.Second), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_MQTT,
				Healthy: false,
			}
		})
		state.behavior.Become(state.WaitingHealthyReceive)
	case *actor.Restarting:
		state.unsubscribe()
	default:
		state.logger.Debug("hadiscovery@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) WaitingHealthyReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthResponse:
		state.logger.Debug("hadiscovery@healthcheck ActorHealthResponse", zap.String("sender", msg.Id), zap.Bool("healthy", msg.Healthy))
		state.healthyRecv++
		if msg.Healthy {
			switch msg.Id {
			case domain.ACTOR_ID_RCT_READER:
				state.readerActorHealthy = true
			case domain.ACTOR_ID_MQTT:
				state.mqttActorHealthy = true
			}
		}
		if state.healthyRecv == 2 {

			if state.readerActorHealthy && state.mqttActorHealthy {
				// ask the static tier for the device identities; the reply
				// is held back until its first poll round has landed
				actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.telemetryActor, domain.GetDeviceIdentityRequest{}, 30*time.Second), func(err error) any {
					return domain.GetDeviceIdentityResponse{
						ActorResponseMixIn: domain.ErrorResponse(err),
					}
				})
				state.behavior.Become(state.WaitingIdentityReceive)
				state.stash.UnstashAll(ctx)
			} else {
				panic(errors.New("MQTT Actor or Reader Actor are not healthy"))
			}
		}
	default:
		state.logger.Debug("hadiscovery@healthcheck: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) WaitingIdentityReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.GetDeviceIdentityResponse:
		if msg.HasResponseError() {
			panic(msg.GetResponseError())
		}
		state.logger.Debug("hadiscovery@identity: GetDeviceIdentityResponse", zap.Any("response", msg))

		state.sensors = state.buildSensors(msg)
		state.publishDiscovery(ctx)

		// watch for Home Assistant birth messages from now on
		state.eventStreamSub = state.eventStream.Subscribe(func(value any) {
			if ev, ok := value.(domain.HomeAssistantStatusEvent); ok && ev.Online {
				ctx.Send(ctx.Self(), republishDiscovery{})
			}
		})
		state.behavior.Become(state.Done)

	default:
		state.logger.Debug("hadiscovery@identity: default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *HADiscoveryActor) Done(ctx actor.Context) {
	switch ctx.Message().(type) {
	case republishDiscovery:
		state.logger.Info("hadiscovery@done home assistant restarted, publishing discovery again")
		state.publishDiscovery(ctx)
	case *actor.Restarting:
		state.unsubscribe()
	case *actor.Stopping:
		state.unsubscribe()
	}
}

func (state *HADiscoveryActor) buildSensors(msg domain.GetDeviceIdentityResponse) []domain.GenericSensor {
	var sensors []domain.GenericSensor

	bridgeDevice := domain.BridgeDevice(state.config.MQTT.BaseTopic)
	sensors = append(sensors, domain.BridgeSensors(bridgeDevice)...)

	var inverterDevice, batteryDevice domain.Device
	if msg.Inverter != nil {
		inverterDevice = domain.InverterDevice(msg.Inverter)
		inverterDevice.ViaDevice = bridgeDevice.Identifiers[0]
	}
	if msg.Battery != nil {
		batteryDevice = domain.BatteryDevice(msg.Battery)
	}
	sensors = append(sensors, domain.CatalogSensors(state.entities, inverterDevice, batteryDevice)...)

	return sensors
}

func (state *HADiscoveryActor) publishDiscovery(ctx actor.Context) {
	ctx.Send(state.mqttActor, domain.PublishDiscoveryRequest{
		Sensors: state.sensors,
	})
}

func (state *HADiscoveryActor) unsubscribe() {
	if state.eventStreamSub != nil {
		state.eventStream.Unsubscribe(state.eventStreamSub)
		state.eventStreamSub = nil
	}
}
