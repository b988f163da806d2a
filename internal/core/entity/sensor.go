package entity

import (
	"time"

	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/port"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/pkg/rct"
)

// SensorEntity is the plain sensor variant: state is the normalized value of
// the primary register, plus reset-schedule semantics for metered counters.
// It is not attached to any device.
type SensorEntity struct {
	baseEntity
}

func NewSensorEntity(registry *rct.Registry, desc *Descriptor, sources []port.ResponseSource, entry ConfigEntry) *SensorEntity {
	return &SensorEntity{baseEntity{
		registry: registry,
		desc:     desc,
		sources:  sources,
		entry:    entry,
	}}
}

func (e *SensorEntity) DeviceIdentity() *DeviceIdentity {
	return nil
}

// LastReset derives the counter baseline timestamp from the reset schedule.
// It depends on the current time and must be recomputed on every read.
func (e *SensorEntity) LastReset(now time.Time) *time.Time {
	switch e.desc.MeteredReset {
	case METERED_RESET_INITIALLY:
		t := time.Unix(0, 0).UTC()
		return &t
	case METERED_RESET_DAILY:
		t := startOfLocalDay(now)
		return &t
	case METERED_RESET_MONTHLY:
		year, month, _ := now.Date()
		t := time.Date(year, month, 1, 0, 0, 0, 0, now.Location())
		return &t
	case METERED_RESET_YEARLY:
		t := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		return &t
	default:
		return nil
	}
}

func startOfLocalDay(now time.Time) time.Time {
	year, month, day := now.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, now.Location())
}

var _ Entity = (*SensorEntity)(nil)
