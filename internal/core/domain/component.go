package domain

// Device maps to the device block of a Home Assistant MQTT discovery
// document. An empty identifier list publishes the sensor without a
// device block.
type Device struct {
	Identifiers  []string
	Name         string
	Version      string
	Model        string
	Manufacturer string
	ViaDevice    string
}

// IdDevice reduces a device to what later discovery documents need to be
// grouped under it.
func IdDevice(device Device) Device {
	return Device{
		Identifiers: device.Identifiers,
		Name:        device.Name,
	}
}

type GenericSensor struct {
	Device            Device
	Id                string
	SensorType        string
	Name              string
	UniqueId          string
	UnitOfMeasurement string
	StateClass        string // measurement, total, total_increasing
	DeviceClass       string // voltage, current, power, energy
	EntityCategory    string // diagnostic or empty
	EnabledByDefault  *bool
	Icon              string
	// Metered sensors publish a JSON state with a last_reset timestamp
	// next to the value, so their discovery documents carry value
	// templates instead of reading the payload verbatim.
	Metered bool
	// HasAttributes announces a JSON attributes topic.
	HasAttributes bool
}
