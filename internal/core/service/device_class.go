package service

const (
	STATE_CLASS_MEASUREMENT      = "measurement"
	STATE_CLASS_TOTAL            = "total"
	STATE_CLASS_TOTAL_INCREASING = "total_increasing"

	DEVICE_CLASS_BATTERY        = "battery"
	DEVICE_CLASS_CONNECTIVITY   = "connectivity"
	DEVICE_CLASS_CURRENT        = "current"
	DEVICE_CLASS_DURATION       = "duration"
	DEVICE_CLASS_ENERGY         = "energy"
	DEVICE_CLASS_ENERGY_STORAGE = "energy_storage"
	DEVICE_CLASS_FREQUENCY      = "frequency"
	DEVICE_CLASS_POWER          = "power"
	DEVICE_CLASS_TEMPERATURE    = "temperature"
	DEVICE_CLASS_VOLTAGE        = "voltage"

	ENTITY_CATEGORY_DIAGNOSTIC = "diagnostic"
)

// GuessDeviceClassFromUnit maps a unit of measurement to the device class
// most commonly paired with it. Entities without an explicit device class
// fall back to this guess. Returns "" when no sensible mapping exists.
func GuessDeviceClassFromUnit(unit string) string {
	switch unit {
	case "W":
		return DEVICE_CLASS_POWER
	case "Wh", "kWh":
		return DEVICE_CLASS_ENERGY
	case "V":
		return DEVICE_CLASS_VOLTAGE
	case "A":
		return DEVICE_CLASS_CURRENT
	case "°C":
		return DEVICE_CLASS_TEMPERATURE
	case "Hz":
		return DEVICE_CLASS_FREQUENCY
	case "%":
		return DEVICE_CLASS_BATTERY
	case "s", "h":
		return DEVICE_CLASS_DURATION
	default:
		return ""
	}
}
