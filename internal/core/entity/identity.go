package entity

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/port"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/pkg/rct"
)

const (
	DEVICE_DOMAIN       = "rct_power"
	DEVICE_MANUFACTURER = "RCT Power"
	INVERTER_MODEL      = "RCT Power Storage"
	BATTERY_MODEL       = "RCT Power Battery"

	IDENTIFIER_KIND_STORAGE = "STORAGE"
	IDENTIFIER_KIND_BATTERY = "BATTERY"
)

// Identifier is one (domain, kind, serial) triple of a device. Kind is empty
// for the canonical serial-only form.
type Identifier struct {
	Domain string `json:"domain"`
	Kind   string `json:"kind,omitempty"`
	Serial string `json:"serial"`
}

// DeviceIdentity groups entities under one physical device for the host
// platform. It is derived from current register values on every access, never
// stored. Battery devices reference their inverter through ViaDevice, forming
// a two-level hierarchy without any ownership in the data model.
type DeviceIdentity struct {
	Identifiers  []Identifier `json:"identifiers"`
	Name         string       `json:"name"`
	SWVersion    string       `json:"sw_version"`
	Model        string       `json:"model"`
	Manufacturer string       `json:"manufacturer"`
	ViaDevice    *Identifier  `json:"via_device,omitempty"`
}

// InverterSensorEntity is a sensor attached to the inverter device. The
// device identity is built from the serial number register (kept under a
// legacy STORAGE-tagged identifier as well), the device description, and the
// firmware version string.
type InverterSensorEntity struct {
	SensorEntity
	serialID      uint32
	descriptionID uint32
	versionID     uint32
}

func NewInverterSensorEntity(registry *rct.Registry, desc *Descriptor, sources []port.ResponseSource, entry ConfigEntry) (*InverterSensorEntity, error) {
	e := &InverterSensorEntity{SensorEntity: *NewSensorEntity(registry, desc, sources, entry)}
	var err error
	if e.serialID, err = identityObjectID(registry, desc, rct.ObjectInverterSerial); err != nil {
		return nil, err
	}
	if e.descriptionID, err = identityObjectID(registry, desc, rct.ObjectInverterDescription); err != nil {
		return nil, err
	}
	if e.versionID, err = identityObjectID(registry, desc, rct.ObjectInverterVersion); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *InverterSensorEntity) DeviceIdentity() *DeviceIdentity {
	serial := stringValue(e.ValueByID(e.serialID, nil), "")

	return &DeviceIdentity{
		Identifiers: []Identifier{
			{Domain: DEVICE_DOMAIN, Kind: IDENTIFIER_KIND_STORAGE, Serial: serial},
			{Domain: DEVICE_DOMAIN, Serial: serial},
		},
		Name:         stringValue(e.ValueByID(e.descriptionID, nil), ""),
		SWVersion:    stringValue(e.ValueByID(e.versionID, nil), ""),
		Model:        INVERTER_MODEL,
		Manufacturer: DEVICE_MANUFACTURER,
	}
}

// BatterySensorEntity is a sensor attached to the battery device, keyed by
// the BMS serial number and linked back to the inverter via ViaDevice.
type BatterySensorEntity struct {
	SensorEntity
	serialID         uint32
	versionID        uint32
	descriptionID    uint32
	inverterSerialID uint32
}

func NewBatterySensorEntity(registry *rct.Registry, desc *Descriptor, sources []port.ResponseSource, entry ConfigEntry) (*BatterySensorEntity, error) {
	e := &BatterySensorEntity{SensorEntity: *NewSensorEntity(registry, desc, sources, entry)}
	var err error
	if e.serialID, err = identityObjectID(registry, desc, rct.ObjectBatterySerial); err != nil {
		return nil, err
	}
	if e.versionID, err = identityObjectID(registry, desc, rct.ObjectBatteryVersion); err != nil {
		return nil, err
	}
	if e.descriptionID, err = identityObjectID(registry, desc, rct.ObjectInverterDescription); err != nil {
		return nil, err
	}
	if e.inverterSerialID, err = identityObjectID(registry, desc, rct.ObjectInverterSerial); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *BatterySensorEntity) DeviceIdentity() *DeviceIdentity {
	serial := stringValue(e.ValueByID(e.serialID, nil), "")

	return &DeviceIdentity{
		Identifiers: []Identifier{
			{Domain: DEVICE_DOMAIN, Kind: IDENTIFIER_KIND_BATTERY, Serial: serial},
			{Domain: DEVICE_DOMAIN, Serial: serial},
		},
		Name:         fmt.Sprintf("Battery at %s", stringValue(e.ValueByID(e.descriptionID, nil), "")),
		SWVersion:    stringValue(e.ValueByID(e.versionID, nil), ""),
		Model:        BATTERY_MODEL,
		Manufacturer: DEVICE_MANUFACTURER,
		ViaDevice: &Identifier{
			Domain: DEVICE_DOMAIN,
			Serial: stringValue(e.ValueByID(e.inverterSerialID, nil), ""),
		},
	}
}

// identityObjectID resolves a well-known identity register at construction
// time so identity lookups cannot fail later.
func identityObjectID(registry *rct.Registry, desc *Descriptor, name string) (uint32, error) {
	info, err := registry.GetByName(name)
	if err != nil {
		return 0, &NameResolutionError{Key: desc.Key, Name: name, Err: err}
	}
	return info.ObjectID, nil
}

// stringValue renders a raw register value as a string, for identity fields.
func stringValue(value rct.ResponseValue, def string) string {
	switch v := value.(type) {
	case rct.StringValue:
		return string(v)
	case rct.NumberValue:
		return strconv.FormatFloat(float64(v), 'f', -1, 64)
	case rct.BytesValue:
		return hex.EncodeToString(v)
	default:
		return def
	}
}

var _ Entity = (*InverterSensorEntity)(nil)
var _ Entity = (*BatterySensorEntity)(nil)
