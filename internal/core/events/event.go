package events

import (
	. "github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/domain"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/entity"
)

// SnapshotsToUpdateEvents wraps a telemetry round's snapshots as event
// stream messages, one per entity.
func SnapshotsToUpdateEvents(snapshots []entity.Snapshot) []any {
	var events []any
	for i := range snapshots {
		events = append(events, EntityStateUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: snapshots[i].Key,
			},
			Snapshot: snapshots[i],
		})
	}
	return events
}

func BridgeStateToUpdateEvent(connected bool) any {
	return BridgeStateUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: SENSOR_ID_BRIDGE_STATE,
		},
		Value: connected,
	}
}
