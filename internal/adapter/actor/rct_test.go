package actor

import (
	"errors"
	"testing"
	"time"

	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/domain"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/util/actorutil"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/pkg/rct"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func spawnTestReaderActor(t *testing.T) (*actor.RootContext, *actor.PID, *rct.TestRegisterReader, *rct.Registry) {
	t.Helper()
	logger := zap.Must(zap.NewDevelopment())
	registry := rct.NewRegistry()
	reader := rct.NewTestRegisterReader(registry)

	system := actorutil.NewActorSystemWithZapLogger(logger)
	pid := system.Root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewRCTReaderActor(reader, time.Second, logger)
	}))
	return system.Root, pid, reader, registry
}

func TestRCTReaderActorHealth(t *testing.T) {
	root, pid, _, _ := spawnTestReaderActor(t)
	defer root.Stop(pid)

	result, err := root.RequestFuture(pid, domain.ActorHealthRequest{}, 2*time.Second).Result()
	require.NoError(t, err)

	health, ok := result.(domain.ActorHealthResponse)
	require.True(t, ok)
	assert.Equal(t, domain.ACTOR_ID_RCT_READER, health.Id)
	assert.True(t, health.Healthy)
}

func TestRCTReaderActorReadRegisters(t *testing.T) {
	root, pid, _, registry := spawnTestReaderActor(t)
	defer root.Stop(pid)

	soc, err := registry.GetByName("battery.soc")
	require.NoError(t, err)
	voltage, err := registry.GetByName("battery.voltage")
	require.NoError(t, err)

	result, err := root.RequestFuture(pid, domain.ReadRegistersRequest{
		ObjectIDs: []uint32{soc.ObjectID, voltage.ObjectID},
	}, 2*time.Second).Result()
	require.NoError(t, err)

	response, ok := result.(domain.ReadRegistersResponse)
	require.True(t, ok)
	require.NoError(t, response.GetResponseError())
	require.Len(t, response.Responses, 2)

	assert.Equal(t, soc.ObjectID, response.Responses[0].ObjectID)
	assert.True(t, response.Responses[0].Valid())
	assert.Equal(t, rct.NumberValue(0.57), response.Responses[0].Value)

	assert.Equal(t, voltage.ObjectID, response.Responses[1].ObjectID)
	assert.True(t, response.Responses[1].Valid())
	assert.Equal(t, rct.NumberValue(51.8), response.Responses[1].Value)
}

func TestRCTReaderActorKeepsFailedRegisters(t *testing.T) {
	root, pid, reader, registry := spawnTestReaderActor(t)
	defer root.Stop(pid)

	soc, err := registry.GetByName("battery.soc")
	require.NoError(t, err)
	voltage, err := registry.GetByName("battery.voltage")
	require.NoError(t, err)

	reader.SetFailure(soc.ObjectID, errors.New("bad frame"))

	result, err := root.RequestFuture(pid, domain.ReadRegistersRequest{
		ObjectIDs: []uint32{soc.ObjectID, voltage.ObjectID},
	}, 2*time.Second).Result()
	require.NoError(t, err)

	response, ok := result.(domain.ReadRegistersResponse)
	require.True(t, ok)
	require.Len(t, response.Responses, 2)

	assert.False(t, response.Responses[0].Valid())
	assert.ErrorContains(t, response.Responses[0].Cause, "bad frame")
	assert.True(t, response.Responses[1].Valid())
}

func TestRCTReaderActorSequentialRequests(t *testing.T) {
	root, pid, reader, registry := spawnTestReaderActor(t)
	defer root.Stop(pid)

	soc, err := registry.GetByName("battery.soc")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		result, err := root.RequestFuture(pid, domain.ReadRegistersRequest{
			ObjectIDs: []uint32{soc.ObjectID},
		}, 2*time.Second).Result()
		require.NoError(t, err)
		response, ok := result.(domain.ReadRegistersResponse)
		require.True(t, ok)
		require.Len(t, response.Responses, 1)
	}
	assert.Equal(t, 3, reader.Reads())
}
