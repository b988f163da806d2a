package mqtt

import (
	"encoding/json"
	"time"

	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/entity"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/service"
)

type meteredStatePayload struct {
	Value     any    `json:"value"`
	LastReset string `json:"last_reset"`
}

// SensorStatePayload renders a snapshot's state topic payload. Metered
// counters wrap the value in JSON next to their last_reset timestamp, to
// be unpacked by the value templates in the discovery document; everything
// else publishes the bare rendered state.
func SensorStatePayload(snapshot entity.Snapshot) (string, error) {
	if snapshot.StateClass == service.STATE_CLASS_TOTAL && snapshot.LastReset != nil {
		payload, err := json.Marshal(meteredStatePayload{
			Value:     snapshot.State,
			LastReset: snapshot.LastReset.Format(time.RFC3339),
		})
		if err != nil {
			return "", err
		}
		return string(payload), nil
	}
	return service.RenderStateText(snapshot.State), nil
}

func SensorAvailabilityPayload(snapshot entity.Snapshot) string {
	if snapshot.Available {
		return MQTT_PAYLOAD_ONLINE
	}
	return MQTT_PAYLOAD_OFFLINE
}

// SensorAttributesPayload renders the attributes topic JSON. last_reset
// rides along whenever the entity has one, so it survives for states
// published without the JSON wrapping.
func SensorAttributesPayload(snapshot entity.Snapshot) (string, error) {
	attributes := make(map[string]any, len(snapshot.Attributes)+1)
	for k, v := range snapshot.Attributes {
		attributes[k] = v
	}
	if snapshot.LastReset != nil {
		attributes["last_reset"] = snapshot.LastReset.Format(time.RFC3339)
	}
	payload, err := json.Marshal(attributes)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}
