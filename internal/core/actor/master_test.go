package actor

import (
	"fmt"
	"testing"
	"time"

	adactor "github.com/k3mpaxl/home-assistant-rct-power-integration/internal/adapter/actor"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/domain"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/util"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/pkg/rct"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMasterActor(t *testing.T) {

	as := actor.NewActorSystem()
	context := as.Root

	cfg := util.LoadTestConfig()
	logCfg := zap.NewDevelopmentConfig()
	logCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger := zap.Must(logCfg.Build())

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewMasterOfPuppetsActor(cfg, func() *adactor.RCTReaderActor {
			return adactor.NewRCTReaderActor(rct.NewTestRegisterReader(rct.NewRegistry()), 1*time.Second, logger)
		}, func(es *eventstream.EventStream) *adactor.MQTTActor {
			return adactor.NewTestMQTTActor(&cfg, es, logger)
		}, logger)
	})
	pid, err := context.SpawnNamed(props, "master")
	if err != nil {
		t.Error(err)
		return
	}

	time.Sleep(2 * time.Second)

	res, err := context.RequestFuture(pid, domain.ActorHealthRequest{}, 10*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	healthResp, ok := res.(domain.ActorHealthResponse)
	assert.True(t, ok)
	fmt.Printf("Health response: %+v\n", healthResp)
	assert.NotNil(t, healthResp)

	assert.True(t, healthResp.Healthy, "healthy is true")

	// the frequent tier ticks at spawn, so the first round has been cached
	res, err = context.RequestFuture(pid, domain.GetEntitySnapshotsRequest{}, 5*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	snapshotsResp, ok := res.(domain.GetEntitySnapshotsResponse)
	require.True(t, ok)
	require.NotEmpty(t, snapshotsResp.Snapshots)

	found := false
	for _, snapshot := range snapshotsResp.Snapshots {
		if snapshot.Key == "battery_state_of_charge" {
			found = true
			assert.True(t, snapshot.Available)
			assert.Equal(t, 57.0, snapshot.State)
		}
	}
	assert.True(t, found, "battery_state_of_charge snapshot present")

	res, err = context.RequestFuture(pid, domain.GetDeviceIdentityRequest{}, 5*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	identityResp, ok := res.(domain.GetDeviceIdentityResponse)
	require.True(t, ok)
	require.NotNil(t, identityResp.Inverter)
	require.NotNil(t, identityResp.Battery)
	assert.Equal(t, "PS 6.0 Integra", identityResp.Inverter.Name)
	assert.Equal(t, "141E3050848A0B19", identityResp.Inverter.Identifiers[0].Serial)

	context.Stop(pid)

	as.Shutdown()
}
