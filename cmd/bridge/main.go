package main

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adactor "github.com/k3mpaxl/home-assistant-rct-power-integration/internal/adapter/actor"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/config"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/actor"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/server"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/util/actorutil"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/pkg/rct"

	pactor "github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *http.Server, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Println("shutting down gracefully, press Ctrl+C again to force")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	log.Println("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

func main() {

	// load and print config
	cfg, err := initConfig()
	if err != nil {
		slog.Error("config errors", "error", err)
		return
	}
	safePrintConfig(*cfg)

	// zap logger
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)

	logger := zap.Must(zapCfg.Build())

	// init actor system
	as := actorutil.NewActorSystemWithZapLogger(logger)
	ctx := as.Root

	defer logger.Sync()

	// init register reader actor provider
	readerProv, err := readerActorProvider(cfg, logger)
	if err != nil {
		panic(err)
	}

	props := pactor.PropsFromProducer(func() pactor.Actor {
		return actor.NewMasterOfPuppetsActor(*cfg, readerProv, mqttActorProvider(cfg, logger), logger)
	})
	pid, err := ctx.SpawnNamed(props, "master")
	if err != nil {
		return
	}

	server := server.NewServer(*cfg, ctx, pid)
	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(server, done)

	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		panic(fmt.Sprintf("http server error: %s", err))
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Println("Graceful shutdown complete.")

	ctx.Stop(pid)
	as.Shutdown()
}

func initConfig() (*config.Config, error) {

	// alias PORT => RCTBRIDGE_PORT
	if port := os.Getenv("PORT"); port != "" {
		os.Setenv("RCTBRIDGE_PORT", port)
	}

	setConfigDefaults()

	viper.SetEnvPrefix("rctbridge")
	viper.AutomaticEnv()

	// if defined, try to load config from yaml file
	if cfgFile := os.Getenv("CONFIG_FILE"); cfgFile != "" {
		if _, err := os.Stat(cfgFile); err == nil {
			slog.Info("Using config", "file", cfgFile)
			viper.SetConfigFile(cfgFile)

			err = viper.ReadInConfig()
			if err != nil {
				slog.Error("Error reading config file", "error", err)
			}
		}
	}

	var cfg config.Config

	err := viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	// parse log level
	switch viper.GetString("log_level") {
	case "trace":
		cfg.LogLevel = zap.DebugLevel
	case "debug":
		cfg.LogLevel = zap.DebugLevel
	case "info":
		cfg.LogLevel = zap.InfoLevel
	case "error":
		cfg.LogLevel = zap.ErrorLevel
	case "warn":
		cfg.LogLevel = zap.WarnLevel
	case "fatal":
		cfg.LogLevel = zap.FatalLevel
	default:
		cfg.LogLevel = zap.InfoLevel
	}

	// check and fix base topic
	baseTopic, err := config.CheckMQTTTopic(cfg.MQTT.BaseTopic)
	if err != nil {
		return nil, errors.New("invalid base topic. can only contain letters, numbers and underscores")
	}
	cfg.MQTT.BaseTopic = baseTopic

	// check and fix homeassistant discovery topic
	hadBaseTopic, err := config.CheckMQTTTopic(cfg.MQTT.HADiscoveryTopic)
	if err != nil {
		return nil, errors.New("invalid homeassistant discovery topic. can only contain letters, numbers and underscores")
	}
	cfg.MQTT.HADiscoveryTopic = hadBaseTopic

	// check bounds
	if cfg.Polling.FrequentIntervalMillis < 1000 {
		return nil, errors.New("config param polling.frequent_interval_millis should be >= 1000")
	}
	if cfg.Polling.InfrequentIntervalMillis < cfg.Polling.FrequentIntervalMillis {
		return nil, errors.New("config param polling.infrequent_interval_millis should be >= polling.frequent_interval_millis")
	}
	if cfg.Polling.StaticIntervalMillis < cfg.Polling.InfrequentIntervalMillis {
		return nil, errors.New("config param polling.static_interval_millis should be >= polling.infrequent_interval_millis")
	}
	if cfg.Inverter.Host == "" && !cfg.Inverter.Simulation {
		return nil, errors.New("config param inverter.host is required unless inverter.simulation is enabled")
	}

	// derive a stable entry id from the device address when not set
	if cfg.Entity.EntryId == "" {
		if cfg.Inverter.Simulation {
			cfg.Entity.EntryId = "simulation"
		} else {
			hash := md5.Sum([]byte(fmt.Sprintf("%s:%d", cfg.Inverter.Host, cfg.Inverter.Port)))
			cfg.Entity.EntryId = hex.EncodeToString(hash[:])[0:8]
		}
	}

	return &cfg, nil
}

func readerActorProvider(cfg *config.Config, logger *zap.Logger) (actor.ReaderActorProvider, error) {

	if !cfg.Inverter.Simulation {
		return nil, errors.New("only simulation mode is supported: set inverter.simulation to true")
	}

	reader := rct.NewTestRegisterReader(rct.NewRegistry())
	readTimeout := time.Duration(cfg.Inverter.ReadTimeoutMillis) * time.Millisecond

	return func() *adactor.RCTReaderActor {
		return adactor.NewRCTReaderActor(reader, readTimeout, logger)
	}, nil
}

func mqttActorProvider(cfg *config.Config, logger *zap.Logger) actor.MQTTActorProvider {
	return func(eventStream *eventstream.EventStream) *adactor.MQTTActor {
		return adactor.NewMQTTActor(cfg, eventStream, logger)
	}
}

func setConfigDefaults() {
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("mqtt.ha_discovery_enable", false)
	viper.SetDefault("mqtt.base_topic", "rctpower")
	viper.SetDefault("mqtt.ha_discovery_topic", "homeassistant")
	viper.SetDefault("inverter.port", 8899)
	viper.SetDefault("inverter.read_timeout_millis", 2000)
	viper.SetDefault("polling.frequent_interval_millis", 30000)
	viper.SetDefault("polling.infrequent_interval_millis", 180000)
	viper.SetDefault("polling.static_interval_millis", 3600000)
	viper.SetDefault("entity.prefix", "RCT Power Storage")
	viper.SetDefault("history.sqlite.retention_days", 30)
	viper.SetDefault("port", 8080)
}

func safePrintConfig(cfg config.Config) {
	cfg.MQTT.Username = "*redacted*"
	cfg.MQTT.Password = "*redacted*"
	cfg.History.Influx.Token = "*redacted*"
	slog.Info("Using", "config", cfg)
}
