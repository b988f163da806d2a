// Package history persists entity snapshots to external stores. Sinks are
// fed in batches by the history actor.
package history

import (
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/config"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/port"
)

// SinksFromConfig builds every enabled sink. A sink that fails to open
// tears down the ones already opened.
func SinksFromConfig(cfg config.HistoryConfig) ([]port.HistorySink, error) {
	var sinks []port.HistorySink
	if cfg.Influx.Enable {
		sinks = append(sinks, NewInfluxSink(cfg.Influx))
	}
	if cfg.SQLite.Enable {
		sqliteSink, err := NewSQLiteSink(cfg.SQLite)
		if err != nil {
			for _, sink := range sinks {
				sink.Close()
			}
			return nil, err
		}
		sinks = append(sinks, sqliteSink)
	}
	return sinks, nil
}
