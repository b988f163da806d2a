package entity

import (
	"fmt"

	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/port"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/pkg/rct"
)

// AttributesSensorEntity is a catch-all diagnostic view over several
// registers: the state only reports how many attributes are exposed, the
// attributes carry one entry per tracked register name with its current raw
// value.
type AttributesSensorEntity struct {
	SensorEntity
}

func NewAttributesSensorEntity(registry *rct.Registry, desc *Descriptor, sources []port.ResponseSource, entry ConfigEntry) *AttributesSensorEntity {
	return &AttributesSensorEntity{SensorEntity: *NewSensorEntity(registry, desc, sources, entry)}
}

func (e *AttributesSensorEntity) State() any {
	return fmt.Sprintf("%d attributes", len(e.StateAttributes()))
}

func (e *AttributesSensorEntity) Unit() string {
	return ""
}

func (e *AttributesSensorEntity) DeviceClass() string {
	return e.desc.DeviceClass
}

func (e *AttributesSensorEntity) StateAttributes() map[string]any {
	attributes := e.SensorEntity.StateAttributes()
	for _, info := range e.desc.ObjectInfos() {
		if value := e.ValueByID(info.ObjectID, nil); value != nil {
			attributes[info.Name] = value
		} else {
			attributes[info.Name] = nil
		}
	}
	return attributes
}

var _ Entity = (*AttributesSensorEntity)(nil)
