package entity

import (
	"testing"

	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/port"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/pkg/rct"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	TEST_INVERTER_SN = "141E3050848A0B19"
	TEST_BATTERY_SN  = "BMS-77E2A100"
	TEST_DESCRIPTION = "PS 6.0 Integra"
	TEST_SVN_VERSION = "4733"
	TEST_BMS_VERSION = "0.52"
)

func identitySource(t *testing.T, registry *rct.Registry) *fakeSource {
	t.Helper()
	source := newFakeSource()
	source.putValid(mustID(t, registry, "inverter_sn"), rct.StringValue(TEST_INVERTER_SN))
	source.putValid(mustID(t, registry, "android_description"), rct.StringValue(TEST_DESCRIPTION))
	source.putValid(mustID(t, registry, "svnversion"), rct.StringValue(TEST_SVN_VERSION))
	source.putValid(mustID(t, registry, "battery.bms_sn"), rct.StringValue(TEST_BATTERY_SN))
	source.putValid(mustID(t, registry, "battery.bms_software_version"), rct.StringValue(TEST_BMS_VERSION))
	return source
}

func TestInverterDeviceIdentity(t *testing.T) {

	require := require.New(t)

	registry := rct.NewRegistry()
	source := identitySource(t, registry)

	desc, err := NewDescriptor(registry, Descriptor{Key: "inverter_serial_number", ObjectNames: []string{"inverter_sn"}})
	require.NoError(err)
	e, err := NewInverterSensorEntity(registry, desc, []port.ResponseSource{source}, testEntry())
	require.NoError(err)

	identity := e.DeviceIdentity()
	require.NotNil(identity)

	assert.Equal(t, []Identifier{
		{Domain: DEVICE_DOMAIN, Kind: IDENTIFIER_KIND_STORAGE, Serial: TEST_INVERTER_SN},
		{Domain: DEVICE_DOMAIN, Serial: TEST_INVERTER_SN},
	}, identity.Identifiers)
	assert.Equal(t, TEST_DESCRIPTION, identity.Name)
	assert.Equal(t, TEST_SVN_VERSION, identity.SWVersion)
	assert.Equal(t, INVERTER_MODEL, identity.Model)
	assert.Equal(t, DEVICE_MANUFACTURER, identity.Manufacturer)
	assert.Nil(t, identity.ViaDevice)
}

func TestBatteryDeviceIdentityLinksToInverter(t *testing.T) {

	require := require.New(t)

	registry := rct.NewRegistry()
	source := identitySource(t, registry)

	desc, err := NewDescriptor(registry, Descriptor{Key: "battery_serial_number", ObjectNames: []string{"battery.bms_sn"}})
	require.NoError(err)
	e, err := NewBatterySensorEntity(registry, desc, []port.ResponseSource{source}, testEntry())
	require.NoError(err)

	identity := e.DeviceIdentity()
	require.NotNil(identity)

	assert.Equal(t, []Identifier{
		{Domain: DEVICE_DOMAIN, Kind: IDENTIFIER_KIND_BATTERY, Serial: TEST_BATTERY_SN},
		{Domain: DEVICE_DOMAIN, Serial: TEST_BATTERY_SN},
	}, identity.Identifiers)
	assert.Equal(t, "Battery at "+TEST_DESCRIPTION, identity.Name)
	assert.Equal(t, TEST_BMS_VERSION, identity.SWVersion)
	assert.Equal(t, BATTERY_MODEL, identity.Model)

	require.NotNil(identity.ViaDevice)
	assert.Equal(t, Identifier{Domain: DEVICE_DOMAIN, Serial: TEST_INVERTER_SN}, *identity.ViaDevice)
}

func TestDeviceIdentityWithMissingRegisters(t *testing.T) {

	require := require.New(t)

	registry := rct.NewRegistry()

	desc, err := NewDescriptor(registry, Descriptor{Key: "inverter_serial_number", ObjectNames: []string{"inverter_sn"}})
	require.NoError(err)
	e, err := NewInverterSensorEntity(registry, desc, []port.ResponseSource{newFakeSource()}, testEntry())
	require.NoError(err)

	// identity degrades to empty strings, never fails
	identity := e.DeviceIdentity()
	require.NotNil(identity)
	assert.Equal(t, "", identity.Identifiers[0].Serial)
	assert.Equal(t, "", identity.Name)
	assert.Equal(t, "", identity.SWVersion)
}

func TestStringValueRendering(t *testing.T) {

	assert.Equal(t, "abc", stringValue(rct.StringValue("abc"), "fallback"))
	assert.Equal(t, "4733", stringValue(rct.NumberValue(4733), "fallback"))
	assert.Equal(t, "0.52", stringValue(rct.NumberValue(0.52), "fallback"))
	assert.Equal(t, "0a0b", stringValue(rct.BytesValue{0x0A, 0x0B}, "fallback"))
	assert.Equal(t, "fallback", stringValue(rct.StructValue{}, "fallback"))
	assert.Equal(t, "fallback", stringValue(nil, "fallback"))
}
