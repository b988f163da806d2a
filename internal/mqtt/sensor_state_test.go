package mqtt

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSensorStatePayloadPlain(t *testing.T) {
	payload, err := SensorStatePayload(entity.Snapshot{
		Key:        "battery_state_of_charge",
		StateClass: "measurement",
		Available:  true,
		State:      57.0,
	})
	require.NoError(t, err)
	assert.Equal(t, "57.0", payload)
}

func TestSensorStatePayloadUnavailable(t *testing.T) {
	payload, err := SensorStatePayload(entity.Snapshot{
		Key:        "battery_state_of_charge",
		StateClass: "measurement",
		State:      nil,
	})
	require.NoError(t, err)
	assert.Equal(t, "", payload)
}

func TestSensorStatePayloadMetered(t *testing.T) {
	lastReset := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	payload, err := SensorStatePayload(entity.Snapshot{
		Key:        "inverter_day_energy",
		StateClass: "total",
		Available:  true,
		State:      10492.0,
		LastReset:  &lastReset,
	})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(payload), &decoded))
	assert.Equal(t, 10492.0, decoded["value"])
	assert.Equal(t, "2024-06-01T00:00:00Z", decoded["last_reset"])
}

func TestSensorStatePayloadLifetimeCounterStaysPlain(t *testing.T) {
	epoch := time.Unix(0, 0).UTC()
	payload, err := SensorStatePayload(entity.Snapshot{
		Key:        "inverter_total_energy",
		StateClass: "total_increasing",
		Available:  true,
		State:      5049210.0,
		LastReset:  &epoch,
	})
	require.NoError(t, err)
	assert.Equal(t, "5049210.0", payload)
}

func TestSensorAvailabilityPayload(t *testing.T) {
	assert.Equal(t, "online", SensorAvailabilityPayload(entity.Snapshot{Available: true}))
	assert.Equal(t, "offline", SensorAvailabilityPayload(entity.Snapshot{Available: false}))
}

func TestSensorAttributesPayload(t *testing.T) {
	lastReset := time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)
	payload, err := SensorAttributesPayload(entity.Snapshot{
		Key: "inverter_day_energy",
		Attributes: map[string]any{
			"latest_api_responses": []any{},
		},
		LastReset: &lastReset,
	})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(payload), &decoded))
	assert.Contains(t, decoded, "latest_api_responses")
	assert.Equal(t, lastReset.Format(time.RFC3339), decoded["last_reset"])
}
