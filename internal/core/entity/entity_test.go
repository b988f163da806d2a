package entity

import (
	"fmt"
	"testing"
	"time"

	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/port"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/internal/core/service"
	"github.com/k3mpaxl/home-assistant-rct-power-integration/pkg/rct"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	TEST_ENTRY_ID = "0123abcd"
	TEST_PREFIX   = "RCT Power Storage"
)

func testEntry() ConfigEntry {
	return ConfigEntry{ID: TEST_ENTRY_ID, EntityPrefix: TEST_PREFIX}
}

// fakeSource is an in-memory ResponseSource with direct cache access.
type fakeSource struct {
	responses map[uint32]*rct.Response
}

func newFakeSource() *fakeSource {
	return &fakeSource{responses: make(map[uint32]*rct.Response)}
}

func (s *fakeSource) GetLatestResponse(objectID uint32) *rct.Response {
	return s.responses[objectID]
}

func (s *fakeSource) putValid(id uint32, value rct.ResponseValue) {
	s.responses[id] = rct.NewValidResponse(id, value, time.Now())
}

func (s *fakeSource) putInvalid(id uint32, cause error) {
	s.responses[id] = rct.NewInvalidResponse(id, cause, time.Now())
}

func (s *fakeSource) drop(id uint32) {
	delete(s.responses, id)
}

func mustID(t *testing.T, registry *rct.Registry, name string) uint32 {
	t.Helper()
	info, err := registry.GetByName(name)
	require.NoError(t, err)
	return info.ObjectID
}

func buildSensor(t *testing.T, registry *rct.Registry, d Descriptor, sources ...port.ResponseSource) *SensorEntity {
	t.Helper()
	desc, err := NewDescriptor(registry, d)
	require.NoError(t, err)
	return NewSensorEntity(registry, desc, sources, testEntry())
}

func TestResolveFirstSourceWithDataWins(t *testing.T) {

	registry := rct.NewRegistry()
	serialID := mustID(t, registry, "inverter_sn")

	empty := newFakeSource()
	loaded := newFakeSource()
	loaded.putValid(serialID, rct.StringValue("123456"))

	// the empty source first: fallback must reach the loaded one
	e := buildSensor(t, registry, Descriptor{Key: "serial", ObjectNames: []string{"inverter_sn"}}, empty, loaded)
	assert.Equal(t, "123456", e.State())

	// the loaded source first: same result
	e = buildSensor(t, registry, Descriptor{Key: "serial", ObjectNames: []string{"inverter_sn"}}, loaded, empty)
	assert.Equal(t, "123456", e.State())
}

func TestResolveInvalidResponseShadowsLaterSources(t *testing.T) {

	registry := rct.NewRegistry()
	socID := mustID(t, registry, "battery.soc")

	stale := newFakeSource()
	stale.putInvalid(socID, rct.ErrReadTimeout)
	fresh := newFakeSource()
	fresh.putValid(socID, rct.NumberValue(0.5))

	// first source has seen the register, so its (invalid) response wins
	e := buildSensor(t, registry, Descriptor{Key: "soc", ObjectNames: []string{"battery.soc"}}, stale, fresh)
	response := e.ResponseByID(socID)
	require.NotNil(t, response)
	assert.False(t, response.Valid())
	assert.Nil(t, e.State())
	assert.False(t, e.Available())
}

func TestResponseByNameUnknownNamePropagates(t *testing.T) {

	registry := rct.NewRegistry()
	e := buildSensor(t, registry, Descriptor{Key: "soc", ObjectNames: []string{"battery.soc"}}, newFakeSource())

	_, err := e.ResponseByName("does.not.exist")
	require.Error(t, err)
	assert.ErrorIs(t, err, rct.ErrObjectNotFound)

	_, err = e.ValueByName("does.not.exist", nil)
	require.Error(t, err)
}

func TestAvailableIsAConjunction(t *testing.T) {

	registry := rct.NewRegistry()
	voltageID := mustID(t, registry, "battery.voltage")
	currentID := mustID(t, registry, "battery.current")

	source := newFakeSource()
	source.putValid(voltageID, rct.NumberValue(53.1))
	source.putValid(currentID, rct.NumberValue(-4.2))

	e := buildSensor(t, registry, Descriptor{
		Key:         "battery_meters",
		ObjectNames: []string{"battery.voltage", "battery.current"},
	}, source)
	assert.True(t, e.Available())

	// one invalid register flips the whole entity
	source.putInvalid(currentID, rct.ErrReadTimeout)
	assert.False(t, e.Available())

	source.putValid(currentID, rct.NumberValue(-4.2))
	assert.True(t, e.Available())

	// one absent register flips it too
	source.drop(voltageID)
	assert.False(t, e.Available())
}

func TestUnitAndDeviceClass(t *testing.T) {

	registry := rct.NewRegistry()

	// unit from the first tracked object, device class guessed from it
	e := buildSensor(t, registry, Descriptor{Key: "soc", ObjectNames: []string{"battery.soc"}}, newFakeSource())
	assert.Equal(t, "%", e.Unit())
	assert.Equal(t, service.DEVICE_CLASS_BATTERY, e.DeviceClass())

	// descriptor overrides beat both
	e = buildSensor(t, registry, Descriptor{
		Key:         "soc",
		ObjectNames: []string{"battery.soc"},
		Unit:        "kWh",
		DeviceClass: service.DEVICE_CLASS_ENERGY_STORAGE,
	}, newFakeSource())
	assert.Equal(t, "kWh", e.Unit())
	assert.Equal(t, service.DEVICE_CLASS_ENERGY_STORAGE, e.DeviceClass())

	// no unit anywhere: no device class either
	e = buildSensor(t, registry, Descriptor{Key: "cycles", ObjectNames: []string{"battery.cycles"}}, newFakeSource())
	assert.Equal(t, "", e.Unit())
	assert.Equal(t, "", e.DeviceClass())
}

func TestNameUsesPrefixAndSlugFallback(t *testing.T) {

	registry := rct.NewRegistry()

	e := buildSensor(t, registry, Descriptor{
		Key:         "soc",
		Name:        "Battery State of Charge",
		ObjectNames: []string{"battery.soc"},
	}, newFakeSource())
	assert.Equal(t, "RCT Power Storage Battery State of Charge", e.Name())

	// no explicit name: slug of the first object name
	e = buildSensor(t, registry, Descriptor{
		Key:         "gen_a",
		ObjectNames: []string{"dc_conv.dc_conv_struct[0].p_dc_lp"},
	}, newFakeSource())
	assert.Equal(t, "RCT Power Storage dc_conv_dc_conv_struct_0__p_dc_lp", e.Name())

	// empty prefix does not leave leading whitespace behind
	desc, err := NewDescriptor(registry, Descriptor{Key: "soc", ObjectNames: []string{"battery.soc"}})
	require.NoError(t, err)
	bare := NewSensorEntity(registry, desc, []port.ResponseSource{newFakeSource()}, ConfigEntry{ID: TEST_ENTRY_ID})
	assert.Equal(t, "battery_soc", bare.Name())
}

func TestUniqueIDStableAndDistinct(t *testing.T) {

	registry := rct.NewRegistry()
	socID := mustID(t, registry, "battery.soc")

	e := buildSensor(t, registry, Descriptor{Key: "soc", ObjectNames: []string{"battery.soc"}}, newFakeSource())
	first := e.UniqueID()
	assert.Equal(t, fmt.Sprintf("%s-%d", TEST_ENTRY_ID, socID), first)
	assert.Equal(t, first, e.UniqueID(), "unique id must be stable across calls")

	// different first object id
	other := buildSensor(t, registry, Descriptor{Key: "voltage", ObjectNames: []string{"battery.voltage"}}, newFakeSource())
	assert.NotEqual(t, first, other.UniqueID())

	// different config entry
	desc, err := NewDescriptor(registry, Descriptor{Key: "soc", ObjectNames: []string{"battery.soc"}})
	require.NoError(t, err)
	elsewhere := NewSensorEntity(registry, desc, []port.ResponseSource{newFakeSource()}, ConfigEntry{ID: "feedbeef"})
	assert.NotEqual(t, first, elsewhere.UniqueID())
}

func TestStateAttributesOmitAbsentRegisters(t *testing.T) {

	registry := rct.NewRegistry()
	voltageID := mustID(t, registry, "battery.voltage")
	currentID := mustID(t, registry, "battery.current")

	source := newFakeSource()
	source.putValid(voltageID, rct.NumberValue(53.1))
	source.putInvalid(currentID, rct.ErrReadTimeout)

	e := buildSensor(t, registry, Descriptor{
		Key:         "battery_meters",
		ObjectNames: []string{"battery.voltage", "battery.current", "battery.temperature"},
	}, source)

	attributes := e.StateAttributes()
	responses, ok := attributes["latest_api_responses"].([]*rct.Response)
	require.True(t, ok)
	// valid and invalid responses are listed, the never-seen register is not
	require.Len(t, responses, 2)
	assert.Equal(t, voltageID, responses[0].ObjectID)
	assert.Equal(t, currentID, responses[1].ObjectID)
}

func TestStateNormalizesPrimaryRegister(t *testing.T) {

	registry := rct.NewRegistry()
	socID := mustID(t, registry, "battery.soc")

	source := newFakeSource()
	source.putValid(socID, rct.NumberValue(0.5678))

	e := buildSensor(t, registry, Descriptor{Key: "soc", ObjectNames: []string{"battery.soc"}}, source)
	assert.Equal(t, 56.8, e.State())

	// absent value resolves to nil state
	source.drop(socID)
	assert.Nil(t, e.State())
}
