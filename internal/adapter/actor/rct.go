package actor

import (
	"context"
	"fmt"
	"time"

	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/domain"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/util/actorutil"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/pkg/rct"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

// RCTReaderActor owns the connection to the RCT Power device and serializes
// register reads over it. Requests arriving while a read is in flight are
// stashed until the read settles.
type RCTReaderActor struct {
	behavior    actor.Behavior
	stash       *actorutil.Stash
	reader      rct.RegisterReader
	readTimeout time.Duration
	logger      *zap.Logger
}

type backgroundTaskResult struct {
	message any
	replyTo *actor.PID
}

func NewRCTReaderActor(reader rct.RegisterReader, readTimeout time.Duration, logger *zap.Logger) *RCTReaderActor {
	if readTimeout <= 0 {
		readTimeout = 2 * time.Second
	}
	act := &RCTReaderActor{
		reader:      reader,
		readTimeout: readTimeout,
		behavior:    actor.NewBehavior(),
		stash:       &actorutil.Stash{},
		logger:      actorutil.ActorLogger(domain.ACTOR_ID_RCT_READER, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *RCTReaderActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *RCTReaderActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("rct_reader@starting started")
		if err := state.reader.Open(); err != nil {
			panic(err)
		}
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	case *actor.Restarting:
		state.reader.Close()
	default:
		state.logger.Debug("rct_reader@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *RCTReaderActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("rct_reader@default: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_RCT_READER,
			Healthy: true,
			State:   "idle",
		})
	case domain.ReadRegistersRequest:
		state.logger.Debug("rct_reader@default: ReadRegistersRequest", zap.Int("registers", len(msg.ObjectIDs)))
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)

		actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, state.readRegisters(msg.ObjectIDs)),
			mapTaskResult[domain.ReadRegistersResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.ReadRegistersResponse{
					ActorResponseMixIn: domain.ErrorResponse(err),
				},
				replyTo: sender,
			}
		}).WithTimeout(state.readTimeout + time.Second).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingRead)
	case *actor.Stopping:
		state.reader.Close()
	default:
		state.logger.Debug("rct_reader@default default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *RCTReaderActor) WaitingRead(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case backgroundTaskResult:
		state.logger.Debug("rct_reader@waitingRead backgroundTaskResult", zap.String("type", fmt.Sprintf("%T", msg.message)))
		ctx.Send(msg.replyTo, msg.message)
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	case *actor.Stopping:
		state.reader.Close()
	default:
		state.logger.Debug("rct_reader@waitingRead stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (a *RCTReaderActor) readRegisters(ids []uint32) func() (*domain.ReadRegistersResponse, error) {
	return func() (*domain.ReadRegistersResponse, error) {
		readCtx, cancel := context.WithTimeout(context.Background(), a.readTimeout)
		defer cancel()

		responses, err := a.reader.ReadRegisters(readCtx, ids)
		if err != nil {
			a.logger.Warn("register read failed", zap.Error(err))
			return nil, err
		}
		return &domain.ReadRegistersResponse{Responses: responses}, nil
	}
}

func mapTaskResult[T any](sender *actor.PID) func(t *T) *backgroundTaskResult {
	return func(t *T) *backgroundTaskResult {
		return &backgroundTaskResult{
			message: *t,
			replyTo: sender,
		}
	}
}
