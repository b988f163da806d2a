package config

import (
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap/zapcore"
)

type Config struct {
	LogLevel zapcore.Level
	Inverter InverterConfig `mapstructure:"inverter"`
	MQTT     MQTTConfig     `mapstructure:"mqtt"`

	Polling PollingConfig `mapstructure:"polling"`
	Entity  EntityConfig  `mapstructure:"entity"`
	History HistoryConfig `mapstructure:"history"`
	Port    uint          `mapstructure:"port"`
	HttpLog bool          `mapstructure:"http_log"`
}

type InverterConfig struct {
	Host string
	Port uint
	// Simulation swaps the TCP connection for a canned register set.
	Simulation        bool   `mapstructure:"simulation"`
	ReadTimeoutMillis uint32 `mapstructure:"read_timeout_millis"`
}

// PollingConfig sets the refresh interval of each entity tier. Fast-moving
// registers ride the frequent interval, energy counters the infrequent
// one, and identity registers the static one.
type PollingConfig struct {
	FrequentIntervalMillis   uint32 `mapstructure:"frequent_interval_millis"`
	InfrequentIntervalMillis uint32 `mapstructure:"infrequent_interval_millis"`
	StaticIntervalMillis     uint32 `mapstructure:"static_interval_millis"`
}

// EntityConfig controls entity naming. EntryId keys unique IDs per
// installation; an explicit value keeps them stable across host renames.
type EntityConfig struct {
	Prefix  string `mapstructure:"prefix"`
	EntryId string `mapstructure:"entry_id"`
}

type MQTTConfig struct {
	Host              string
	Port              int
	Username          string
	Password          string
	BaseTopic         string `mapstructure:"base_topic"`
	HADiscoveryEnable bool   `mapstructure:"ha_discovery_enable"`
	HADiscoveryTopic  string `mapstructure:"ha_discovery_topic"`
}

type HistoryConfig struct {
	Influx InfluxConfig `mapstructure:"influx"`
	SQLite SQLiteConfig `mapstructure:"sqlite"`
}

type InfluxConfig struct {
	Enable bool
	URL    string
	Token  string
	Org    string
	Bucket string
}

type SQLiteConfig struct {
	Enable        bool
	Path          string
	RetentionDays uint32 `mapstructure:"retention_days"`
}

func CheckMQTTTopic(baseTopic string) (string, error) {
	// check and fix base topic
	lowerBaseTopic := strings.ToLower(baseTopic)
	baseTopicRegexp := regexp.MustCompile("^[a-z0-9_]+$")
	matches := baseTopicRegexp.FindAllStringSubmatch(lowerBaseTopic, 1)
	if len(matches) <= 0 {
		return "", errors.New("invalid topic. can only contain letters, numbers and underscores")
	}
	return lowerBaseTopic, nil
}
