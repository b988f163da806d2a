package domain

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/entity"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/service"

	"github.com/carlmjohnson/versioninfo"
)

const (
	SENSOR_ID_BRIDGE_STATE = "bridge"

	SENSOR_TYPE_SENSOR = "sensor"
	SENSOR_TYPE_BINARY = "binary_sensor"
)

// BridgeDevice is the synthetic device that groups the bridge's own
// diagnostic sensors. Keyed by base topic so two bridges on one broker
// stay apart.
func BridgeDevice(baseTopic string) Device {
	return Device{
		Identifiers:  []string{fmt.Sprintf("rctbridge_%s", md5HashShort(baseTopic))},
		Manufacturer: "k3mpaxl",
		Model:        "RCT Power Bridge",
		Version:      versioninfo.Short(),
		Name:         fmt.Sprintf("RCT Power Bridge %s", md5HashShort(baseTopic)),
	}
}

// InverterDevice maps a resolved inverter identity to a discovery device.
func InverterDevice(identity *entity.DeviceIdentity) Device {
	return Device{
		Identifiers:  flattenIdentifiers(identity.Identifiers),
		Version:      identity.SWVersion,
		Manufacturer: identity.Manufacturer,
		Model:        identity.Model,
		Name:         identity.Name,
	}
}

// BatteryDevice maps a resolved battery identity to a discovery device,
// linked to its inverter through via_device.
func BatteryDevice(identity *entity.DeviceIdentity) Device {
	device := Device{
		Identifiers:  flattenIdentifiers(identity.Identifiers),
		Version:      identity.SWVersion,
		Manufacturer: identity.Manufacturer,
		Model:        identity.Model,
		Name:         identity.Name,
	}
	if identity.ViaDevice != nil {
		device.ViaDevice = flattenIdentifier(*identity.ViaDevice)
	}
	return device
}

// BridgeSensors returns the bridge's own sensors. The connection state
// sensor reads the bridge availability topic directly, so it flips to
// "off" through the broker will when the bridge dies.
func BridgeSensors(bridgeDevice Device) []GenericSensor {

	var sensors []GenericSensor

	sensors = append(sensors, GenericSensor{
		Device:         bridgeDevice,
		Id:             SENSOR_ID_BRIDGE_STATE,
		SensorType:     SENSOR_TYPE_BINARY,
		Name:           "Connection state",
		DeviceClass:    service.DEVICE_CLASS_CONNECTIVITY,
		EntityCategory: service.ENTITY_CATEGORY_DIAGNOSTIC,
		UniqueId:       uniqueId(bridgeDevice.Identifiers[0], SENSOR_ID_BRIDGE_STATE),
	})

	return sensors
}

// CatalogSensors converts the materialized entity catalog to discovery
// sensors. Inverter and battery entities are grouped under the given
// devices; the rest are published standalone. Only the first sensor of a
// device carries the full device block.
func CatalogSensors(entities []entity.Entity, inverterDevice Device, batteryDevice Device) []GenericSensor {

	sensors := make([]GenericSensor, 0, len(entities))
	inverterSeen := false
	batterySeen := false

	for _, e := range entities {
		desc := e.Descriptor()

		sensor := GenericSensor{
			Id:                e.Key(),
			SensorType:        SENSOR_TYPE_SENSOR,
			Name:              e.Name(),
			UniqueId:          e.UniqueID(),
			UnitOfMeasurement: e.Unit(),
			StateClass:        desc.StateClass,
			DeviceClass:       e.DeviceClass(),
			EntityCategory:    desc.EntityCategory,
			EnabledByDefault:  desc.EnabledByDefault,
			Icon:              e.Icon(),
			Metered:           desc.StateClass == service.STATE_CLASS_TOTAL && desc.MeteredReset != entity.METERED_RESET_NEVER,
			HasAttributes:     true,
		}

		switch e.(type) {
		case *entity.InverterSensorEntity:
			if inverterSeen {
				sensor.Device = IdDevice(inverterDevice)
			} else {
				sensor.Device = inverterDevice
				inverterSeen = true
			}
		case *entity.BatterySensorEntity:
			if batterySeen {
				sensor.Device = IdDevice(batteryDevice)
			} else {
				sensor.Device = batteryDevice
				batterySeen = true
			}
		case *entity.FaultSensorEntity:
			sensor.Device = IdDevice(inverterDevice)
		case *entity.AttributesSensorEntity:
			// attribute views carry no identity of their own; the register
			// namespace decides which device they belong to
			if strings.HasPrefix(desc.FirstObjectInfo().Name, "battery.") {
				sensor.Device = IdDevice(batteryDevice)
			} else {
				sensor.Device = IdDevice(inverterDevice)
			}
		}

		sensors = append(sensors, sensor)
	}

	return sensors
}

func flattenIdentifiers(identifiers []entity.Identifier) []string {
	flat := make([]string, 0, len(identifiers))
	for _, id := range identifiers {
		flat = append(flat, flattenIdentifier(id))
	}
	return flat
}

func flattenIdentifier(id entity.Identifier) string {
	if id.Kind != "" {
		return fmt.Sprintf("%s_%s_%s", id.Domain, id.Kind, id.Serial)
	}
	return fmt.Sprintf("%s_%s", id.Domain, id.Serial)
}

func uniqueId(baseId, id string) string {
	return fmt.Sprintf("uid_%s_%s", baseId, id)
}

func md5Hash(text string) string {
	hash := md5.Sum([]byte(text))
	return hex.EncodeToString(hash[:])
}

func md5HashShort(text string) string {
	hash := md5Hash(text)
	return hash[0:8]
}
