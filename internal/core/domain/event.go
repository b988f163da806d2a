package domain

import (
	"fmt"

	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/entity"
)

type SensorUpdateEventMixIn struct {
	Id string
}

type SensorUpdateEvent interface {
	SensorUpdateEvent() string
	SensorId() string
}

func (e SensorUpdateEventMixIn) SensorUpdateEvent() string {
	return fmt.Sprintf("%T", e)
}

func (e SensorUpdateEventMixIn) SensorId() string {
	return e.Id
}

// EntityStateUpdateEvent carries one entity snapshot from a telemetry
// round. Id matches the snapshot key.
type EntityStateUpdateEvent struct {
	SensorUpdateEventMixIn
	Snapshot entity.Snapshot
}

type BridgeStateUpdateEvent struct {
	SensorUpdateEventMixIn
	Value bool
}

// HomeAssistantStatusEvent is published when Home Assistant announces its
// own lifecycle on the discovery status topic. A birth message means
// discovery documents must be sent again.
type HomeAssistantStatusEvent struct {
	Online bool
}
