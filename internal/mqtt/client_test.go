package mqtt

import (
	"testing"

	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/config"

	"github.com/stretchr/testify/assert"
)

func testClient() *MQTTClient {
	return &MQTTClient{
		cfg: config.MQTTConfig{
			BaseTopic:        "rctpower_test",
			HADiscoveryTopic: "homeassistant",
		},
	}
}

func TestSensorTopics(t *testing.T) {

	assert := assert.New(t)

	c := testClient()
	assert.Equal("rctpower_test/sensor/battery_state_of_charge/state", c.SensorStateTopic("battery_state_of_charge"))
	assert.Equal("rctpower_test/sensor/battery_state_of_charge/availability", c.SensorAvailabilityTopic("battery_state_of_charge"))
	assert.Equal("rctpower_test/sensor/battery_state_of_charge/attributes", c.SensorAttributesTopic("battery_state_of_charge"))
}

func TestBridgeAndStatusTopics(t *testing.T) {

	assert := assert.New(t)

	c := testClient()
	assert.Equal("rctpower_test/bridge/state", c.BridgeStateTopic())
	assert.Equal("homeassistant/status", c.HAStatusTopic())
}

func TestTopicSafe(t *testing.T) {

	assert := assert.New(t)

	assert.Equal("rct_power_STORAGE_PS_6_0_12345", TopicSafe("rct_power_STORAGE_PS 6.0 12345"))
	assert.Equal("plain-id_0", TopicSafe("plain-id_0"))
	assert.Equal("a_b", TopicSafe("a/#+b"))
}

func TestOptsFromConfigSetsWill(t *testing.T) {

	assert := assert.New(t)

	cfg := config.Config{
		MQTT: config.MQTTConfig{
			Host:      "localhost",
			Port:      1883,
			BaseTopic: "rctpower_test",
		},
	}
	opts := OptsFromConfig(&cfg)

	assert.True(opts.WillEnabled)
	assert.Equal("rctpower_test/bridge/state", opts.WillTopic)
	assert.Equal(MQTT_PAYLOAD_OFFLINE, string(opts.WillPayload))
	assert.True(opts.WillRetained)
	assert.Empty(opts.Username, "credentials only apply when both are set")
}
