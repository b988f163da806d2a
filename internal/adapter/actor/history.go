package actor

import (
	"context"
	"fmt"
	"time"

	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/adapter/history"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/config"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/domain"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/entity"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/port"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/asynkron/protoactor-go/scheduler"
	"go.uber.org/zap"
)

const (
	historyFlushBatch    = 64
	historyFlushInterval = 10 * time.Second
	historyWriteTimeout  = 10 * time.Second
)

// HistoryActor drains entity snapshots off the event stream into the
// configured history sinks. Snapshots are buffered and written in batches,
// one background flush at a time.
type HistoryActor struct {
	config         *config.Config
	behavior       actor.Behavior
	stash          *actorutil.Stash
	scheduler      *scheduler.TimerScheduler
	sinks          []port.HistorySink
	eventStream    *eventstream.EventStream
	eventStreamSub *eventstream.Subscription
	buffer         []entity.Snapshot
	logger         *zap.Logger
}

type historyFlushTick struct {
}

func NewHistoryActor(config *config.Config, eventStream *eventstream.EventStream, logger *zap.Logger) *HistoryActor {
	act := &HistoryActor{
		config:      config,
		eventStream: eventStream,
		behavior:    actor.NewBehavior(),
		stash:       &actorutil.Stash{},
		logger:      actorutil.ActorLogger(domain.ACTOR_ID_HISTORY, logger),
	}
	act.behavior.Become(act.DefaultReceive)
	return act
}

func (state *HistoryActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *HistoryActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("history@default started")
		sinks, err := history.SinksFromConfig(state.config.History)
		if err != nil {
			panic(err)
		}
		state.sinks = sinks

		state.scheduler = scheduler.NewTimerScheduler(ctx)
		state.scheduler.RequestOnce(historyFlushInterval, ctx.Self(), historyFlushTick{})

		state.eventStreamSub = state.eventStream.Subscribe(func(value any) {
			if event, ok := value.(domain.EntityStateUpdateEvent); ok {
				ctx.Send(ctx.Self(), event)
			}
		})
	case *actor.Restarting:
		state.stop()
	case *actor.Stopping:
		state.stop()
	case domain.ActorHealthRequest:
		state.logger.Debug("history@default ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_HISTORY,
			Healthy: true,
			State:   "idle",
		})
	case domain.EntityStateUpdateEvent:
		state.buffer = append(state.buffer, msg.Snapshot)
		if len(state.buffer) >= historyFlushBatch {
			state.flush(ctx, nil)
		}
	case historyFlushTick:
		state.scheduler.RequestOnce(historyFlushInterval, ctx.Self(), historyFlushTick{})
		if len(state.buffer) > 0 {
			state.flush(ctx, nil)
		}
	case domain.RecordSnapshotsRequest:
		state.logger.Debug("history@default RecordSnapshotsRequest", zap.Int("snapshots", len(msg.Snapshots)))
		state.buffer = append(state.buffer, msg.Snapshots...)
		state.flush(ctx, actorutil.ForRequest(msg).ReplyTo(ctx))
	default:
		state.logger.Debug("history@default default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

// flush hands the buffered snapshots to a background task and waits for it
// to settle. New snapshots arriving meanwhile start the next batch.
func (state *HistoryActor) flush(ctx actor.Context, replyTo *actor.PID) {
	batch := state.buffer
	state.buffer = nil

	actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, state.recordBatch(state.sinks, batch)),
		mapTaskResult[domain.RecordSnapshotsResponse](replyTo)).Recover(func(err error) backgroundTaskResult {
		return backgroundTaskResult{
			message: domain.RecordSnapshotsResponse{
				ActorResponseMixIn: domain.ErrorResponse(err),
			},
			replyTo: replyTo,
		}
	}).WithTimeout(historyWriteTimeout + time.Second).PipeTo(ctx.Self())
	state.behavior.BecomeStacked(state.WaitingFlush)
}

func (state *HistoryActor) WaitingFlush(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case backgroundTaskResult:
		state.logger.Debug("history@waitingFlush backgroundTaskResult", zap.String("type", fmt.Sprintf("%T", msg.message)))
		if msg.replyTo != nil {
			ctx.Send(msg.replyTo, msg.message)
		}
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	case *actor.Stopping:
		state.stop()
	default:
		state.logger.Debug("history@waitingFlush stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (a *HistoryActor) recordBatch(sinks []port.HistorySink, batch []entity.Snapshot) func() (*domain.RecordSnapshotsResponse, error) {
	return func() (*domain.RecordSnapshotsResponse, error) {
		writeCtx, cancel := context.WithTimeout(context.Background(), historyWriteTimeout)
		defer cancel()

		for _, sink := range sinks {
			if err := sink.Record(writeCtx, batch); err != nil {
				a.logger.Warn("history write failed", zap.String("sink", sink.Name()), zap.Error(err))
				return nil, err
			}
		}
		return &domain.RecordSnapshotsResponse{}, nil
	}
}

func (state *HistoryActor) stop() {
	state.logger.Debug("history: stop")
	if state.eventStreamSub != nil {
		state.eventStream.Unsubscribe(state.eventStreamSub)
		state.eventStreamSub = nil
	}
	// write out whatever is still buffered so shutdown loses nothing
	if len(state.buffer) > 0 && len(state.sinks) > 0 {
		writeCtx, cancel := context.WithTimeout(context.Background(), historyWriteTimeout)
		for _, sink := range state.sinks {
			if err := sink.Record(writeCtx, state.buffer); err != nil {
				state.logger.Warn("history final write failed", zap.String("sink", sink.Name()), zap.Error(err))
			}
		}
		cancel()
		state.buffer = nil
	}
	for _, sink := range state.sinks {
		if err := sink.Close(); err != nil {
			state.logger.Warn("history sink close failed", zap.String("sink", sink.Name()), zap.Error(err))
		}
	}
	state.sinks = nil
}
