package domain

import (
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/entity"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/pkg/rct"
)

const (
	ACTOR_ID_MASTER       = "master"
	ACTOR_ID_RCT_READER   = "rct_reader"
	ACTOR_ID_TELEMETRY    = "telemetry"
	ACTOR_ID_MQTT         = "mqtt"
	ACTOR_ID_HA_DISCOVERY = "hadiscovery"
	ACTOR_ID_HISTORY      = "history"
)

type ReadRegistersRequest struct {
	ActorRequestMixIn
	ObjectIDs []uint32
}

type ReadRegistersResponse struct {
	ActorResponseMixIn
	Responses []*rct.Response
}

type GetEntitySnapshotsRequest struct {
	ActorRequestMixIn
}

type GetEntitySnapshotsResponse struct {
	ActorResponseMixIn
	Snapshots []entity.Snapshot
}

type GetDeviceIdentityRequest struct {
	ActorRequestMixIn
}

type GetDeviceIdentityResponse struct {
	ActorResponseMixIn
	Inverter *entity.DeviceIdentity
	Battery  *entity.DeviceIdentity
}

type PublishMessageRequest struct {
	ActorRequestMixIn
	Topic   string
	Payload string
	Retain  bool
}

type PublishMessageResponse struct {
	ActorResponseMixIn
}

type PublishSensorUpdateRequest struct {
	ActorRequestMixIn
	Retain bool
	Event  SensorUpdateEvent
}

type PublishSensorUpdateResponse struct {
	ActorResponseMixIn
}

type PublishDiscoveryRequest struct {
	ActorRequestMixIn
	Sensors []GenericSensor
}

type PublishDiscoveryResponse struct {
	ActorResponseMixIn
}

type RecordSnapshotsRequest struct {
	ActorRequestMixIn
	Snapshots []entity.Snapshot
}

type RecordSnapshotsResponse struct {
	ActorResponseMixIn
}

type ActorHealthRequest struct {
	ActorRequestMixIn
}

type ActorHealthResponse struct {
	ActorResponseMixIn
	Id      string
	Healthy bool
	State   string
}
