package entity

import (
	"time"
)

// Snapshot is one entity's resolved presentation at a point in time, in a
// transportable form shared by the MQTT publisher, the history sinks and the
// debug API.
type Snapshot struct {
	Key         string         `json:"key"`
	Name        string         `json:"name"`
	UniqueID    string         `json:"unique_id"`
	Icon        string         `json:"icon,omitempty"`
	Unit        string         `json:"unit_of_measurement,omitempty"`
	DeviceClass string         `json:"device_class,omitempty"`
	StateClass  string         `json:"state_class,omitempty"`
	Available   bool           `json:"available"`
	State       any            `json:"state"`
	Attributes  map[string]any `json:"attributes"`
	LastReset   *time.Time     `json:"last_reset,omitempty"`
	TakenAt     time.Time      `json:"taken_at"`
}

// TakeSnapshot resolves every accessor of an entity against the current cache
// contents.
func TakeSnapshot(e Entity, now time.Time) Snapshot {
	return Snapshot{
		Key:         e.Key(),
		Name:        e.Name(),
		UniqueID:    e.UniqueID(),
		Icon:        e.Icon(),
		Unit:        e.Unit(),
		DeviceClass: e.DeviceClass(),
		StateClass:  e.Descriptor().StateClass,
		Available:   e.Available(),
		State:       e.State(),
		Attributes:  e.StateAttributes(),
		LastReset:   e.LastReset(now),
		TakenAt:     now,
	}
}

// TakeSnapshots resolves a whole entity list at one logical instant.
func TakeSnapshots(entities []Entity, now time.Time) []Snapshot {
	snapshots := make([]Snapshot, 0, len(entities))
	for _, e := range entities {
		snapshots = append(snapshots, TakeSnapshot(e, now))
	}
	return snapshots
}
