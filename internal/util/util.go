package util

import (
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/config"

	"go.uber.org/zap"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel: zap.DebugLevel,
		Inverter: config.InverterConfig{
			Host:              "-.-.-.-",
			Port:              8899,
			Simulation:        true,
			ReadTimeoutMillis: 1000,
		},
		MQTT: config.MQTTConfig{
			Host:             "localhost",
			Port:             1883,
			BaseTopic:        "rctpower_test",
			HADiscoveryTopic: "homeassistant",
		},
		Polling: config.PollingConfig{
			FrequentIntervalMillis:   30000,
			InfrequentIntervalMillis: 180000,
			StaticIntervalMillis:     3600000,
		},
		Entity: config.EntityConfig{
			Prefix:  "RCT Power Storage",
			EntryId: "test_entry",
		},
		Port: 8080,
	}
}
