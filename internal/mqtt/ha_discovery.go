package mqtt

import (
	"fmt"

	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/domain"
)

type HADiscoveryConfig struct {
	Device                 *HADiscoveryDevice `json:"device,omitempty"`
	StateTopic             string             `json:"state_topic"`
	StateClass             string             `json:"state_class,omitempty"`
	DeviceClass            string             `json:"device_class,omitempty"`
	UnitOfMeasurement      string             `json:"unit_of_measurement,omitempty"`
	AvTopic                string             `json:"availability_topic,omitempty"`
	JsonAttributesTopic    string             `json:"json_attributes_topic,omitempty"`
	ValueTemplate          string             `json:"value_template,omitempty"`
	LastResetValueTemplate string             `json:"last_reset_value_template,omitempty"`
	EntityCategory         string             `json:"entity_category,omitempty"`
	Name                   string             `json:"name"`
	UniqueId               string             `json:"unique_id"`
	Platform               string             `json:"platform"`
	EnabledByDefault       *bool              `json:"enabled_by_default,omitempty"`
	PayloadOn              string             `json:"payload_on,omitempty"`
	PayloadOff             string             `json:"payload_off,omitempty"`
	Icon                   string             `json:"icon,omitempty"`
}

type HADiscoveryDevice struct {
	Id           []string `json:"identifiers"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	Version      string   `json:"sw_version,omitempty"`
	Model        string   `json:"model,omitempty"`
	Name         string   `json:"name,omitempty"`
	ViaDevice    string   `json:"via_device,omitempty"`
}

// HADiscoverySensorTopic builds the discovery config topic of one sensor.
// Sensors without a device drop the node segment, which the discovery
// topic grammar allows.
func (c *MQTTClient) HADiscoverySensorTopic(sensor domain.GenericSensor) string {
	if len(sensor.Device.Identifiers) > 0 {
		return fmt.Sprintf("%s/%s/%s/%s/config", c.discoveryTopic(), sensor.SensorType,
			TopicSafe(sensor.Device.Identifiers[0]), sensor.Id)
	}
	return fmt.Sprintf("%s/%s/%s/config", c.discoveryTopic(), sensor.SensorType, sensor.Id)
}

func GenericSensorToHADiscoveryMessage(client *MQTTClient, sensor domain.GenericSensor) HADiscoveryConfig {
	dev := device(sensor.Device)
	var topic, avTopic, attrTopic string
	if sensor.Id == domain.SENSOR_ID_BRIDGE_STATE {
		// the bridge sensor reads the bridge availability topic itself
		topic = client.BridgeStateTopic()
	} else {
		topic = client.SensorStateTopic(sensor.Id)
		avTopic = client.SensorAvailabilityTopic(sensor.Id)
	}
	if sensor.HasAttributes {
		attrTopic = client.SensorAttributesTopic(sensor.Id)
	}
	disConfig := HADiscoveryConfig{
		Device:              dev,
		StateTopic:          topic,
		StateClass:          sensor.StateClass,
		DeviceClass:         sensor.DeviceClass,
		UnitOfMeasurement:   sensor.UnitOfMeasurement,
		AvTopic:             avTopic,
		JsonAttributesTopic: attrTopic,
		EntityCategory:      sensor.EntityCategory,
		Name:                sensor.Name,
		UniqueId:            sensor.UniqueId,
		Icon:                sensor.Icon,
		EnabledByDefault:    sensor.EnabledByDefault,
		Platform:            "mqtt",
	}
	if sensor.Metered {
		disConfig.ValueTemplate = "{{ value_json.value }}"
		disConfig.LastResetValueTemplate = "{{ value_json.last_reset }}"
	}
	if sensor.Id == domain.SENSOR_ID_BRIDGE_STATE {
		disConfig.PayloadOn = MQTT_PAYLOAD_ONLINE
		disConfig.PayloadOff = MQTT_PAYLOAD_OFFLINE
	}
	return disConfig
}

func device(d domain.Device) *HADiscoveryDevice {
	if len(d.Identifiers) == 0 {
		return nil
	}
	return &HADiscoveryDevice{
		Id:           d.Identifiers,
		Manufacturer: d.Manufacturer,
		Version:      d.Version,
		Model:        d.Model,
		Name:         d.Name,
		ViaDevice:    d.ViaDevice,
	}
}
